// Package webserver serves the browser editor and runs one editing session per
// websocket connection on /ws.
package webserver

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/psidex/pert/internal/config"
	"github.com/psidex/pert/internal/lib"
	"github.com/psidex/pert/internal/session"
	"github.com/psidex/pert/internal/wshost"
)

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	static   fs.FS
	upgrader websocket.Upgrader
}

// New builds a server for cfg. Files are served from cfg.Server.StaticDir when
// it is set and from static otherwise.
func New(cfg *config.Config, logger *slog.Logger, static fs.FS) *Server {
	if cfg.Server.StaticDir != "" {
		static = os.DirFS(cfg.Server.StaticDir)
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		static: static,
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(s.static)))
	mux.HandleFunc("/ws", s.editSession)
	return mux
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) editSession(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade", "err", err)
		return
	}
	ws := lib.NewThreadSafeWebSocket(c)
	defer ws.Close()

	id := uuid.NewString()
	logger := s.logger.With("remote", r.RemoteAddr)
	host := wshost.New(ws, logger.With("session", id), s.cfg.Session.IdleTimeout.Duration)
	sess := session.New(host, host, host, session.Config{
		ID:     id,
		Theme:  s.cfg.Theme,
		Layout: s.cfg.Layout,
		Logger: logger,
	})

	// Hijacked connections outlive Shutdown, so close the socket ourselves
	// to unblock the session's read.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = ws.Close()
	}()

	err = sess.Run(ctx, host)
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		sess.Logger().Info("session idle, closing", "idleTimeout", host.IdleTimeout())
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		sess.Logger().Debug("client closed")
	case err != nil:
		sess.Logger().Debug("session ended", "err", err)
	}
}
