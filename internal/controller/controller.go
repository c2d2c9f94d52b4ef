// Package controller turns pointer input into diagram operations: pressing a
// node selects it and, outside edge mode, starts dragging it; in edge mode two
// clicks on different nodes and a duration prompt create an edge.
package controller

import (
	"context"
	"log/slog"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
	"github.com/psidex/pert/internal/lib"
)

// DurationPrompt is the question asked before an edge is created.
const DurationPrompt = "Enter the number of days:"

// Mode is the state of the edge-drawing gesture.
type Mode int

const (
	// Idle: clicks do not draw edges.
	Idle Mode = iota
	// Armed: edge mode is on, waiting for the start node.
	Armed
	// Pending: the start node is chosen, waiting for the end node.
	Pending
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Pointer is a pointer event. Hit is the primitive under the pointer, zero if
// the host did not resolve one.
type Pointer struct {
	Pos geom.Point    `json:"pos"`
	Hit canvas.Handle `json:"hit"`
}

type dragGesture struct {
	node diagram.NodeID
	last geom.Point
}

func (g dragGesture) active() bool { return g.node != 0 }

// Option configures a Controller.
type Option func(c *Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithTheme(t canvas.Theme) Option {
	return func(c *Controller) { c.theme = t }
}

func WithNotifier(n canvas.Notifier) Option {
	return func(c *Controller) { c.notify = n }
}

// Controller is the interaction state machine of one editing session. Like the
// Diagram it drives, it is used from a single goroutine.
type Controller struct {
	d      *diagram.Diagram
	host   canvas.Host
	prompt canvas.Prompter
	notify canvas.Notifier
	theme  canvas.Theme
	logger *slog.Logger

	mode    Mode
	from    diagram.NodeID
	preview canvas.Handle
	drag    dragGesture
}

func New(d *diagram.Diagram, host canvas.Host, prompt canvas.Prompter, opts ...Option) *Controller {
	c := &Controller{
		d:      d,
		host:   host,
		prompt: prompt,
		theme:  canvas.DefaultTheme(),
		logger: lib.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Mode() Mode { return c.mode }

// Dragging returns the node being dragged.
func (c *Controller) Dragging() (diagram.NodeID, bool) {
	return c.drag.node, c.drag.active()
}

// ToggleEdgeMode arms edge mode from Idle, and from any other state abandons
// the gesture and goes back to Idle.
func (c *Controller) ToggleEdgeMode() {
	if c.mode == Idle {
		c.mode = Armed
		c.drag = dragGesture{}
		c.logger.Debug("edge mode on")
		if c.notify != nil {
			c.notify.EdgeMode(true)
		}
		return
	}
	c.exitEdgeMode()
}

// Press handles a pointer press. A press on a node always selects it; outside
// edge mode it also starts a drag, inside edge mode it is an edge-drawing
// click. The returned error only reports a failed prompt.
func (c *Controller) Press(ctx context.Context, p Pointer) error {
	node, onNode := c.resolve(p)
	if onNode {
		if err := c.d.Select(node); err != nil {
			c.logger.Debug("select", "node", node, "err", err)
		}
		if c.mode == Idle {
			c.drag = dragGesture{node: node, last: p.Pos}
		}
	}
	if c.mode == Idle {
		return nil
	}
	return c.click(ctx, p.Pos, node, onNode)
}

// Drag moves the dragged node by the pointer's travel since the last event. It
// reports false when no drag is in progress.
func (c *Controller) Drag(pos geom.Point) bool {
	if !c.drag.active() {
		return false
	}
	n, ok := c.d.Node(c.drag.node)
	if !ok {
		c.drag = dragGesture{}
		return false
	}
	delta := pos.Sub(c.drag.last)
	c.drag.last = pos
	if err := c.d.MoveNode(n.ID, n.Pos.Add(delta)); err != nil {
		c.drag = dragGesture{}
		return false
	}
	return true
}

// Release ends the drag gesture, if any.
func (c *Controller) Release(geom.Point) {
	c.drag = dragGesture{}
}

// DeleteSelected deletes the selected node. A gesture that involved the node is
// abandoned with it.
func (c *Controller) DeleteSelected() bool {
	id, ok := c.d.Selected()
	if !ok {
		return false
	}
	if c.mode == Pending && c.from == id {
		c.exitEdgeMode()
	}
	if c.drag.node == id {
		c.drag = dragGesture{}
	}
	return c.d.DeleteSelected()
}

// Close drops any gesture in progress.
func (c *Controller) Close() {
	if c.preview != 0 {
		c.host.Delete(c.preview)
		c.preview = 0
	}
	c.mode, c.from, c.drag = Idle, 0, dragGesture{}
}

func (c *Controller) resolve(p Pointer) (diagram.NodeID, bool) {
	if p.Hit != 0 {
		if id, ok := c.d.NodeByHandle(p.Hit); ok {
			return id, true
		}
	}
	return c.d.NodeAt(p.Pos)
}

func (c *Controller) click(ctx context.Context, pos geom.Point, node diagram.NodeID, onNode bool) error {
	switch c.mode {
	case Armed:
		if !onNode {
			return nil
		}
		n, _ := c.d.Node(node)
		c.from = node
		c.mode = Pending
		c.preview = c.host.Create(canvas.Shape{
			Kind:   canvas.KindLine,
			Points: []geom.Point{n.Pos, pos},
			Style:  canvas.Style{Outline: c.theme.Preview, Width: 2, Arrow: true},
		})
		c.logger.Debug("edge start chosen", "node", node)
		return nil

	case Pending:
		from, ok := c.d.Node(c.from)
		if !ok {
			c.exitEdgeMode()
			return nil
		}
		if !onNode {
			c.host.SetCoords(c.preview, []geom.Point{from.Pos, pos})
			return nil
		}
		defer c.exitEdgeMode()
		if node == c.from {
			c.logger.Debug("edge end equals start, ignored", "node", node)
			return nil
		}
		return c.finishEdge(ctx, node)
	}
	return nil
}

func (c *Controller) finishEdge(ctx context.Context, to diagram.NodeID) error {
	answer, ok, err := c.prompt.Prompt(ctx, DurationPrompt)
	if err != nil {
		return err
	}
	if !ok {
		c.logger.Debug("duration prompt cancelled")
		return nil
	}
	days, err := diagram.ParseDuration(answer)
	if err != nil {
		c.logger.Debug("duration rejected", "answer", answer, "err", err)
		return nil
	}
	if _, err := c.d.AddEdge(c.from, to, days); err != nil {
		c.logger.Warn("add edge", "from", c.from, "to", to, "err", err)
	}
	return nil
}

func (c *Controller) exitEdgeMode() {
	if c.preview != 0 {
		c.host.Delete(c.preview)
		c.preview = 0
	}
	c.from = 0
	c.mode = Idle
	c.logger.Debug("edge mode off")
	if c.notify != nil {
		c.notify.EdgeMode(false)
	}
}
