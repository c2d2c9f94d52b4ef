package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/psidex/pert/internal/config"
	"github.com/psidex/pert/internal/lib"
	"github.com/psidex/pert/internal/webserver"
	"github.com/psidex/pert/web"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var bind, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram editor in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = staticDir
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			subtle.Fprintf(cmd.ErrOrStderr(), "editor at http://%s/\n", cfg.Server.Bind)
			return webserver.New(cfg, logger, web.Static()).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVarP(&bind, "bind", "b", "", "the ip:port to bind the webserver to")
	cmd.Flags().StringVarP(&staticDir, "static", "d", "", "serve the frontend from this directory")
	return cmd
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := lib.ParseSLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return lib.NiceLogger(os.Stderr, level), nil
}
