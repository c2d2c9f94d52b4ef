package graphs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
)

func scene(t *testing.T) Scene {
	t.Helper()
	rec := canvas.NewRecorder()
	d := diagram.New(rec)
	a, err := d.AddNode("A", diagram.RoleStart, geom.Point{X: 200, Y: 150})
	require.NoError(t, err)
	b, err := d.AddNode("B", diagram.RoleEnd, geom.Point{X: 600, Y: 150})
	require.NoError(t, err)
	c, err := d.AddNode("C & D", diagram.RoleIntermediate, geom.Point{X: 400, Y: 400})
	require.NoError(t, err)
	for _, e := range []struct {
		from, to diagram.NodeID
		days     int
	}{{a, b, 5}, {a, b, 7}, {c, b, 2}} {
		_, err := d.AddEdge(e.from, e.to, e.days)
		require.NoError(t, err)
	}
	return Scene{Diagram: d, Items: rec.Items(), Theme: canvas.DefaultTheme()}
}

// elements collects every element of the parsed document by tag name.
func elements(t *testing.T, doc string) map[string][]*html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	found := map[string][]*html.Node{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			found[n.Data] = append(found[n.Data], n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.FirstChild == nil {
		return ""
	}
	return n.FirstChild.Data
}

func TestSVG_ReplaysPrimitives(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG{}.Render(&buf, scene(t)))

	els := elements(t, buf.String())
	require.Len(t, els["svg"], 1)
	// Shadow and body per node.
	require.Len(t, els["circle"], 6)
	require.Len(t, els["polyline"], 3)
	require.Len(t, els["polygon"], 3)

	var labels []string
	for _, n := range els["text"] {
		labels = append(labels, text(n))
	}
	require.ElementsMatch(t, []string{"A", "B", "C & D", "5", "7", "2"}, labels)

	// The parallel pair is curved, the lone edge is straight.
	var counts []int
	for _, n := range els["polyline"] {
		counts = append(counts, len(strings.Fields(attrOf(n, "points"))))
	}
	require.ElementsMatch(t, []int{geom.CurveSegments + 1, geom.CurveSegments + 1, 2}, counts)

	require.Equal(t, canvas.DefaultTheme().Start.Fill, attrOf(els["circle"][1], "fill"))
}

func TestSVG_ViewBoxCoversDrawing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG{}.Render(&buf, scene(t)))
	svg := elements(t, buf.String())["svg"][0]
	// Leftmost point is the start node body at 200-40, less padding.
	// The parser restores SVG attribute case in foreign content.
	viewBox := attrOf(svg, "viewBox") + attrOf(svg, "viewbox")
	require.True(t, strings.HasPrefix(viewBox, "140 "), viewBox)
}

func TestSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG{}.Render(&buf, Scene{Diagram: diagram.New(canvas.NewRecorder())}))
	require.Contains(t, buf.String(), `viewBox="0 0 40 40"`)
}

func TestSVG_PreviewArrow(t *testing.T) {
	var buf bytes.Buffer
	sc := Scene{Items: []canvas.Item{{Handle: 1, Shape: canvas.Shape{
		Kind:   canvas.KindLine,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
		Style:  canvas.Style{Outline: "#9E9E9E", Width: 2, Arrow: true},
	}}}}
	require.NoError(t, SVG{}.Render(&buf, sc))
	els := elements(t, buf.String())
	require.Len(t, els["polyline"], 1)
	require.Len(t, els["polygon"], 1)
	require.Equal(t, "#9E9E9E", attrOf(els["polygon"][0], "fill"))
}

func TestECharts_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ECharts{Title: "plan"}.Render(&buf, scene(t)))
	out := buf.String()

	els := elements(t, out)
	require.NotEmpty(t, els["script"])
	require.Contains(t, out, "A #1")
	require.Contains(t, out, "curveness")
}

func TestCurveness(t *testing.T) {
	sc := scene(t)
	d := sc.Diagram
	edges := d.Edges()
	a, _ := d.Node(edges[0].From)
	b, _ := d.Node(edges[0].To)
	c, _ := d.Node(edges[2].From)

	first := curveness(d, edges[0], a, b)
	second := curveness(d, edges[1], a, b)
	require.Less(t, first, float32(0))
	require.Greater(t, second, float32(0))
	require.Zero(t, curveness(d, edges[2], c, b))
}

func TestRenderToFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "plan")
	for _, format := range []string{"svg", "html"} {
		r, ok := ByFormat(format)
		require.True(t, ok)
		path, err := RenderToFile(r, scene(t), base)
		require.NoError(t, err)
		require.Equal(t, base+"."+format, path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
	_, ok := ByFormat("png")
	require.False(t, ok)
}
