package graphs

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
)

// svgPadding is the margin kept around the drawing.
const svgPadding = 20.0

// SVG replays the primitives of a scene as a standalone SVG document, so the
// file looks the way the diagram looked in the editor.
type SVG struct{}

var _ Renderer = SVG{}

func (SVG) Ext() string { return "svg" }

func (SVG) Render(w io.Writer, sc Scene) error {
	minX, minY, maxX, maxY := bounds(sc.Items)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		num(minX), num(minY), num(maxX-minX), num(maxY-minY), num(maxX-minX), num(maxY-minY))
	for _, it := range sc.Items {
		writeItem(bw, it.Shape)
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeItem(w *bufio.Writer, s canvas.Shape) {
	if len(s.Points) == 0 {
		return
	}
	st := s.Style
	switch s.Kind {
	case canvas.KindCircle:
		c := s.Points[0]
		fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n", num(c.X), num(c.Y), num(s.Radius), paint(st, st.Fill))
	case canvas.KindLine, canvas.KindCurve:
		if st.Arrow {
			// Arrowheads of primitives that ask for one are drawn inline.
			if tri, ok := geom.Arrowhead(s.Points); ok {
				defer fmt.Fprintf(w, `<polygon points="%s" fill="%s"/>`+"\n", points(tri[:]), attr(st.Outline))
			}
		}
		fmt.Fprintf(w, `<polyline points="%s"%s/>`+"\n", points(s.Points), paint(st, "none"))
	case canvas.KindPolygon:
		fmt.Fprintf(w, `<polygon points="%s"%s/>`+"\n", points(s.Points), paint(st, st.Fill))
	case canvas.KindText:
		p := s.Points[0]
		fmt.Fprintf(w, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="%s"`,
			num(p.X), num(p.Y), attr(st.Fill))
		if st.Font != "" {
			fmt.Fprintf(w, ` font-family="%s"`, attr(st.Font))
		}
		if st.Bold {
			w.WriteString(` font-weight="bold"`)
		}
		fmt.Fprintf(w, ">%s</text>\n", html.EscapeString(s.Text))
	}
}

// paint renders fill and stroke attributes.
func paint(st canvas.Style, fill string) string {
	var b strings.Builder
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&b, ` fill="%s"`, attr(fill))
	if st.Outline != "" {
		fmt.Fprintf(&b, ` stroke="%s"`, attr(st.Outline))
	}
	if st.Width > 0 {
		fmt.Fprintf(&b, ` stroke-width="%s"`, num(st.Width))
	}
	if len(st.Dash) > 0 {
		dash := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			dash[i] = strconv.Itoa(d)
		}
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(dash, " "))
	}
	return b.String()
}

func attr(s string) string { return html.EscapeString(s) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func points(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func bounds(items []canvas.Item) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		for _, p := range it.Shape.Points {
			minX = min(minX, p.X-it.Shape.Radius)
			minY = min(minY, p.Y-it.Shape.Radius)
			maxX = max(maxX, p.X+it.Shape.Radius)
			maxY = max(maxY, p.Y+it.Shape.Radius)
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 2 * svgPadding, 2 * svgPadding
	}
	return minX - svgPadding, minY - svgPadding, maxX + svgPadding, maxY + svgPadding
}
