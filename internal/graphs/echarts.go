package graphs

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
)

// ECharts renders an interactive go-echarts HTML page. Nodes keep the
// positions they have in the diagram and parallel edges are bent apart the
// way the editor draws them.
type ECharts struct {
	Title string
}

var _ Renderer = ECharts{}

func (ECharts) Ext() string { return "html" }

func (e ECharts) Render(w io.Writer, sc Scene) error {
	nodes, links := e.series(sc)

	page := components.NewPage()
	page.AddCharts(graphBase(e.title(), nodes, links))
	return page.Render(w)
}

func (e ECharts) title() string {
	if e.Title == "" {
		return "PERT diagram"
	}
	return e.Title
}

func (e ECharts) series(sc Scene) ([]opts.GraphNode, []opts.GraphLink) {
	d := sc.Diagram
	nodes := make([]opts.GraphNode, 0, d.NodeCount())
	for _, n := range d.Nodes() {
		paint := rolePaint(sc.Theme, n.Role)
		nodes = append(nodes, opts.GraphNode{
			Name:       nodeName(n),
			X:          float32(n.Pos.X),
			Y:          float32(n.Pos.Y),
			SymbolSize: 2 * n.Radius,
			ItemStyle: &opts.ItemStyle{
				Color:       paint.Fill,
				BorderColor: paint.Outline,
			},
		})
	}

	links := make([]opts.GraphLink, 0, d.EdgeCount())
	for _, edge := range d.Edges() {
		from, _ := d.Node(edge.From)
		to, _ := d.Node(edge.To)
		links = append(links, opts.GraphLink{
			Source: nodeName(from),
			Target: nodeName(to),
			Value:  float32(edge.Days),
			Label: &opts.EdgeLabel{
				Show:      opts.Bool(true),
				Color:     sc.Theme.Label,
				Formatter: "{c}",
			},
			LineStyle: &opts.LineStyle{
				Color:     sc.Theme.Edge.Fill,
				Width:     3,
				Curveness: curveness(d, edge, from, to),
			},
		})
	}
	return nodes, links
}

// nodeName keeps names unique; echarts links nodes by name and labels may
// repeat.
func nodeName(n diagram.Node) string {
	return n.Label + " #" + strconv.Itoa(int(n.ID))
}

// curveness approximates the editor's Bézier bend as a fraction of the chord.
// Straight edges get zero.
func curveness(d *diagram.Diagram, e diagram.Edge, from, to diagram.Node) float32 {
	if len(d.Group(e.From, e.To)) <= 1 {
		return 0
	}
	chord := from.Pos.Dist(to.Pos)
	if chord == 0 {
		return 0
	}
	c := geom.CurveOffset(e.Index) / chord
	// Sides are fixed against the lower id.
	if e.From > e.To {
		c = -c
	}
	return float32(max(-1, min(1, c)))
}

func rolePaint(t canvas.Theme, r diagram.Role) canvas.Paint {
	switch r {
	case diagram.RoleStart:
		return t.Start
	case diagram.RoleEnd:
		return t.End
	default:
		return t.Intermediate
	}
}

func graphBase(title string, nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"diagram",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Draggable:  opts.Bool(true),
				Roam:       opts.Bool(true),
				EdgeSymbol: []string{"none", "arrow"},
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "inside",
		}),
	)
	return graph
}
