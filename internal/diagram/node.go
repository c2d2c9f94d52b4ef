package diagram

import (
	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
)

const highlightGap = 5

func paintFor(t canvas.Theme, r Role) canvas.Paint {
	switch r {
	case RoleStart:
		return t.Start
	case RoleEnd:
		return t.End
	default:
		return t.Intermediate
	}
}

// drawNode draws the pseudo-3D disc: a shadow offset by the layout depth, the
// body on top of it and the label on top of both.
func (d *Diagram) drawNode(n *Node) {
	paint := paintFor(d.theme, n.Role)
	depth := geom.Point{X: d.layout.NodeDepth, Y: d.layout.NodeDepth}

	shadow := d.host.Create(canvas.Shape{
		Kind:   canvas.KindCircle,
		Points: []geom.Point{n.Pos.Add(depth)},
		Radius: n.Radius,
		Style:  canvas.Style{Fill: paint.Outline, Outline: paint.Outline},
	})
	body := d.host.Create(canvas.Shape{
		Kind:   canvas.KindCircle,
		Points: []geom.Point{n.Pos},
		Radius: n.Radius,
		Style:  canvas.Style{Fill: paint.Fill, Outline: paint.Outline, Width: 2},
	})
	text := d.host.Create(canvas.Shape{
		Kind:   canvas.KindText,
		Points: []geom.Point{n.Pos},
		Text:   n.Label,
		Style:  canvas.Style{Fill: d.theme.NodeText, Font: d.theme.Font, Bold: true},
	})
	d.host.Raise(body)
	d.host.Raise(text)

	n.items = []canvas.Handle{shadow, body, text}
	for _, h := range n.items {
		d.byHandle[h] = n.ID
	}
}

func (d *Diagram) moveNode(n *Node, pos geom.Point) {
	dx, dy := pos.X-n.Pos.X, pos.Y-n.Pos.Y
	n.Pos = pos
	if dx == 0 && dy == 0 {
		return
	}
	for _, h := range n.items {
		d.host.Move(h, dx, dy)
	}
	if n.highlight != 0 {
		d.host.Move(n.highlight, dx, dy)
	}
}

// highlight draws the dashed selection ring. A node that already has one is
// left alone.
func (d *Diagram) highlight(n *Node) {
	n.Selected = true
	if n.highlight != 0 {
		return
	}
	n.highlight = d.host.Create(canvas.Shape{
		Kind:   canvas.KindCircle,
		Points: []geom.Point{n.Pos},
		Radius: n.Radius + highlightGap,
		Style:  canvas.Style{Outline: d.theme.Highlight, Width: 3, Dash: []int{5, 2}},
	})
	d.raiseNode(n)
}

// raiseNode puts the node's ring and primitives above everything else.
func (d *Diagram) raiseNode(n *Node) {
	if n.highlight != 0 {
		d.host.Raise(n.highlight)
	}
	for _, h := range n.items {
		d.host.Raise(h)
	}
}

func (d *Diagram) unhighlight(n *Node) {
	n.Selected = false
	if n.highlight == 0 {
		return
	}
	d.host.Delete(n.highlight)
	n.highlight = 0
}

func (d *Diagram) eraseNode(n *Node) {
	for _, h := range n.items {
		d.host.Delete(h)
		delete(d.byHandle, h)
	}
	n.items = nil
	d.unhighlight(n)
}
