package diagram

import (
	"slices"
	"strconv"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
)

// shapeOf computes the current geometry of e. Curvature sides are taken
// relative to the pair's lower id, so edges drawn in either direction between
// the same two nodes still alternate.
func (d *Diagram) shapeOf(e *Edge) (geom.Shape, bool) {
	a, b := d.nodes[e.From], d.nodes[e.To]
	flip := e.From > e.To
	if flip {
		a, b = b, a
	}
	path := geom.EdgePath(a.Circle(), b.Circle(), e.Index, d.groups.Size(e.From, e.To))
	if flip {
		path = geom.Reverse(path)
	}
	return geom.ShapeOf(path)
}

// redrawEdge recomputes e and updates its primitives in place. Coincident
// endpoints leave the edge as it was; an edge that was never drawable gets its
// primitives the first time it is.
func (d *Diagram) redrawEdge(e *Edge) {
	s, ok := d.shapeOf(e)
	if !ok {
		d.logger.Debug("edge not drawable", "edge", e.ID)
		return
	}
	e.Path = s.Path

	if !e.Visible() {
		d.drawEdge(e, s)
		return
	}
	d.host.SetCoords(e.line, s.Path)
	d.host.SetCoords(e.arrow, s.Arrow[:])
	d.host.SetCoords(e.label, []geom.Point{s.Label})
}

func (d *Diagram) drawEdge(e *Edge, s geom.Shape) {
	e.line = d.host.Create(canvas.Shape{
		Kind:   canvas.KindCurve,
		Points: s.Path,
		Style:  canvas.Style{Outline: d.theme.Edge.Fill, Width: 3},
	})
	e.arrow = d.host.Create(canvas.Shape{
		Kind:   canvas.KindPolygon,
		Points: s.Arrow[:],
		Style:  canvas.Style{Fill: d.theme.Edge.Fill, Outline: d.theme.Edge.Outline},
	})
	e.label = d.host.Create(canvas.Shape{
		Kind:   canvas.KindText,
		Points: []geom.Point{s.Label},
		Text:   strconv.Itoa(e.Days),
		Style:  canvas.Style{Fill: d.theme.Label, Font: d.theme.Font, Bold: true},
	})
}

// removeEdge erases e and unlinks it from the registry and both endpoints.
func (d *Diagram) removeEdge(e *Edge) {
	for _, h := range []canvas.Handle{e.line, e.arrow, e.label} {
		if h != 0 {
			d.host.Delete(h)
		}
	}
	e.line, e.arrow, e.label = 0, 0, 0

	d.groups.Remove(e.From, e.To, e.ID)
	for _, nid := range []NodeID{e.From, e.To} {
		if n, ok := d.nodes[nid]; ok {
			n.Edges = slices.DeleteFunc(n.Edges, func(o EdgeID) bool { return o == e.ID })
		}
	}
	delete(d.edges, e.ID)
	d.edgeOrder = slices.DeleteFunc(d.edgeOrder, func(o EdgeID) bool { return o == e.ID })

	d.logger.Debug("edge deleted", "edge", e.ID, "from", e.From, "to", e.To)
}
