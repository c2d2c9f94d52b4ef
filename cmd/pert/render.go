package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/config"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/graphs"
)

var errBadEdge = errors.New("edge must be FROM:TO:DAYS")

// edgeSpec is one --edge flag.
type edgeSpec struct {
	from, to string
	days     int
}

// parseEdge reads FROM:TO:DAYS. Node names may themselves contain colons, so
// the last two separate the fields.
func parseEdge(s string) (edgeSpec, error) {
	last := strings.LastIndex(s, ":")
	if last < 0 {
		return edgeSpec{}, fmt.Errorf("%w: %q", errBadEdge, s)
	}
	mid := strings.LastIndex(s[:last], ":")
	if mid < 0 {
		return edgeSpec{}, fmt.Errorf("%w: %q", errBadEdge, s)
	}
	days, err := diagram.ParseDuration(s[last+1:])
	if err != nil {
		return edgeSpec{}, fmt.Errorf("edge %q: %w", s, err)
	}
	e := edgeSpec{
		from: strings.TrimSpace(s[:mid]),
		to:   strings.TrimSpace(s[mid+1 : last]),
		days: days,
	}
	if e.from == "" || e.to == "" {
		return edgeSpec{}, fmt.Errorf("%w: %q", errBadEdge, s)
	}
	return e, nil
}

type renderOptions struct {
	form  diagram.Form
	edges []string
}

// buildScene lays out the nodes the way the editor's add-nodes form does and
// joins them with the requested edges.
func buildScene(cfg *config.Config, o renderOptions) (graphs.Scene, error) {
	rec := canvas.NewRecorder()
	d := diagram.New(rec, diagram.WithTheme(cfg.Theme), diagram.WithLayout(cfg.Layout))

	if _, err := d.AddNodes(o.form); err != nil {
		return graphs.Scene{}, err
	}
	byLabel := map[string]diagram.NodeID{}
	for _, n := range d.Nodes() {
		if _, dup := byLabel[n.Label]; dup {
			return graphs.Scene{}, fmt.Errorf("node %q given twice", n.Label)
		}
		byLabel[n.Label] = n.ID
	}

	for _, raw := range o.edges {
		e, err := parseEdge(raw)
		if err != nil {
			return graphs.Scene{}, err
		}
		from, ok := byLabel[e.from]
		if !ok {
			return graphs.Scene{}, fmt.Errorf("edge %q: %w: %q", raw, diagram.ErrNodeNotFound, e.from)
		}
		to, ok := byLabel[e.to]
		if !ok {
			return graphs.Scene{}, fmt.Errorf("edge %q: %w: %q", raw, diagram.ErrNodeNotFound, e.to)
		}
		if _, err := d.AddEdge(from, to, e.days); err != nil {
			return graphs.Scene{}, fmt.Errorf("edge %q: %w", raw, err)
		}
	}
	return graphs.Scene{Diagram: d, Items: rec.Items(), Theme: cfg.Theme}, nil
}

func renderCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		o      renderOptions
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a diagram to a file",
		Example: `  pert render --start Start --end Done --nodes Design,Build \
    --edge Start:Design:3 --edge Design:Build:10 --edge Build:Done:2 --edge Start:Done:20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			r, ok := graphs.ByFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			sc, err := buildScene(cfg, o)
			if err != nil {
				return err
			}
			path, err := graphs.RenderToFile(r, sc, out)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", good.Sprint("wrote"), path)
			fmt.Fprintf(w, "  %s %d\n", brand.Sprintf("%-6s", "nodes"), sc.Diagram.NodeCount())
			fmt.Fprintf(w, "  %s %d\n", brand.Sprintf("%-6s", "edges"), sc.Diagram.EdgeCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&o.form.Start, "start", "", "the start node")
	cmd.Flags().StringVar(&o.form.End, "end", "", "the end node")
	cmd.Flags().StringVar(&o.form.Others, "nodes", "", "comma separated task nodes")
	cmd.Flags().StringArrayVar(&o.edges, "edge", nil, "an edge FROM:TO:DAYS, repeatable")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "svg or html")
	cmd.Flags().StringVarP(&out, "output", "o", "pert", "the output file name without an extension")
	return cmd
}
