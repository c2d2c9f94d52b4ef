package diagram

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
	"github.com/psidex/pert/internal/lib"
)

// Layout holds node dimensions and where newly added nodes are placed.
type Layout struct {
	NodeRadius  float64    `toml:"node_radius"`
	NodeDepth   float64    `toml:"node_depth"`
	StartPos    geom.Point `toml:"start"`
	EndPos      geom.Point `toml:"end"`
	OthersPos   geom.Point `toml:"others"`
	Spacing     float64    `toml:"spacing"`
	NodesPerRow int        `toml:"nodes_per_row"`
}

// DefaultLayout puts the start node top left, the end node top right and the
// remaining nodes below them in rows of three.
func DefaultLayout() Layout {
	return Layout{
		NodeRadius:  40,
		NodeDepth:   10,
		StartPos:    geom.Point{X: 200, Y: 150},
		EndPos:      geom.Point{X: 600, Y: 150},
		OthersPos:   geom.Point{X: 200, Y: 300},
		Spacing:     200,
		NodesPerRow: 3,
	}
}

// Option configures a Diagram.
type Option func(d *Diagram)

func WithTheme(t canvas.Theme) Option {
	return func(d *Diagram) { d.theme = t }
}

func WithLayout(l Layout) Option {
	return func(d *Diagram) { d.layout = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Diagram) { d.logger = l }
}

// WithNotifier makes the diagram report start/end slot changes.
func WithNotifier(n canvas.Notifier) Option {
	return func(d *Diagram) { d.notify = n }
}

// Diagram owns every node and edge of one editing session. It is not safe for
// concurrent use; a session drives it from a single goroutine.
type Diagram struct {
	host   canvas.Host
	notify canvas.Notifier
	theme  canvas.Theme
	layout Layout
	logger *slog.Logger

	nodes     map[NodeID]*Node
	nodeOrder []NodeID
	byHandle  map[canvas.Handle]NodeID
	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID
	groups    *Registry

	nextNode NodeID
	nextEdge EdgeID
	start    NodeID
	end      NodeID
	selected NodeID
}

func New(host canvas.Host, opts ...Option) *Diagram {
	d := &Diagram{
		host:     host,
		theme:    canvas.DefaultTheme(),
		layout:   DefaultLayout(),
		logger:   lib.DiscardLogger(),
		nodes:    make(map[NodeID]*Node),
		byHandle: make(map[canvas.Handle]NodeID),
		edges:    make(map[EdgeID]*Edge),
		groups:   NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddNode creates a node at pos. Only one start and one end node may exist at a
// time.
func (d *Diagram) AddNode(label string, role Role, pos geom.Point) (NodeID, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, ErrEmptyLabel
	}
	switch role {
	case RoleStart:
		if d.start != 0 {
			return 0, fmt.Errorf("%w: start", ErrRoleTaken)
		}
	case RoleEnd:
		if d.end != 0 {
			return 0, fmt.Errorf("%w: end", ErrRoleTaken)
		}
	case RoleIntermediate:
	default:
		return 0, fmt.Errorf("diagram: unknown role %d", role)
	}

	d.nextNode++
	n := &Node{
		ID:     d.nextNode,
		Label:  label,
		Role:   role,
		Pos:    pos,
		Radius: d.layout.NodeRadius,
	}
	d.drawNode(n)
	d.nodes[n.ID] = n
	d.nodeOrder = append(d.nodeOrder, n.ID)

	switch role {
	case RoleStart:
		d.start = n.ID
		d.notifySlots()
	case RoleEnd:
		d.end = n.ID
		d.notifySlots()
	}

	d.logger.Debug("node added", "node", n.ID, "label", label, "role", role, "x", pos.X, "y", pos.Y)
	return n.ID, nil
}

// AddEdge joins from and to with an edge of the given duration. The edge takes
// the next slot in the parallel group of the pair, and every edge already in
// that group is redrawn since the group size changed.
func (d *Diagram) AddEdge(from, to NodeID, days int) (EdgeID, error) {
	a, ok := d.nodes[from]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	b, ok := d.nodes[to]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	if from == to {
		return 0, ErrSelfLoop
	}
	if days < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDuration, days)
	}

	d.nextEdge++
	e := &Edge{ID: d.nextEdge, From: from, To: to, Days: days}
	e.Index = d.groups.Add(from, to, e.ID)
	d.edges[e.ID] = e
	d.edgeOrder = append(d.edgeOrder, e.ID)
	a.Edges = append(a.Edges, e.ID)
	b.Edges = append(b.Edges, e.ID)

	for _, sibling := range d.groups.Group(from, to) {
		d.redrawEdge(d.edges[sibling])
	}

	d.logger.Debug("edge added", "edge", e.ID, "from", from, "to", to, "days", days, "index", e.Index)
	return e.ID, nil
}

// MoveNode puts a node at pos and redraws every edge touching it.
func (d *Diagram) MoveNode(id NodeID, pos geom.Point) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	d.moveNode(n, pos)
	for _, eid := range n.Edges {
		e := d.edges[eid]
		wasVisible := e.Visible()
		d.redrawEdge(e)
		// An edge drawn for the first time here sits above every node, so
		// put its endpoints back on top of it.
		if !wasVisible && e.Visible() {
			d.raiseNode(d.nodes[e.From])
			d.raiseNode(d.nodes[e.To])
		}
	}
	return nil
}

// Select makes id the only highlighted node.
func (d *Diagram) Select(id NodeID) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if d.selected != 0 && d.selected != id {
		if prev, ok := d.nodes[d.selected]; ok {
			d.unhighlight(prev)
		}
	}
	d.highlight(n)
	d.selected = id
	return nil
}

// ClearSelection removes the highlight from the selected node, if any.
func (d *Diagram) ClearSelection() {
	if n, ok := d.nodes[d.selected]; ok {
		d.unhighlight(n)
	}
	d.selected = 0
}

// Selected returns the selected node.
func (d *Diagram) Selected() (NodeID, bool) {
	return d.selected, d.selected != 0
}

// DeleteNode removes a node together with every edge touching it. Deleting the
// start or end node reopens its slot.
func (d *Diagram) DeleteNode(id NodeID) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	for _, eid := range slices.Clone(n.Edges) {
		d.removeEdge(d.edges[eid])
	}

	d.eraseNode(n)
	delete(d.nodes, id)
	d.nodeOrder = slices.DeleteFunc(d.nodeOrder, func(o NodeID) bool { return o == id })

	if d.selected == id {
		d.selected = 0
	}
	slotChanged := false
	if d.start == id {
		d.start = 0
		slotChanged = true
	}
	if d.end == id {
		d.end = 0
		slotChanged = true
	}
	if slotChanged {
		d.notifySlots()
	}

	d.logger.Debug("node deleted", "node", id, "label", n.Label)
	return nil
}

// DeleteSelected deletes the selected node. It reports false when nothing was
// selected.
func (d *Diagram) DeleteSelected() bool {
	id, ok := d.Selected()
	if !ok {
		return false
	}
	return d.DeleteNode(id) == nil
}

// Node returns a copy of the node.
func (d *Diagram) Node(id NodeID) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Edge returns a copy of the edge.
func (d *Diagram) Edge(id EdgeID) (Edge, bool) {
	e, ok := d.edges[id]
	if !ok {
		return Edge{}, false
	}
	return e.clone(), true
}

// Nodes returns copies of every node in creation order.
func (d *Diagram) Nodes() []Node {
	out := make([]Node, 0, len(d.nodeOrder))
	for _, id := range d.nodeOrder {
		out = append(out, d.nodes[id].clone())
	}
	return out
}

// Edges returns copies of every edge in creation order.
func (d *Diagram) Edges() []Edge {
	out := make([]Edge, 0, len(d.edgeOrder))
	for _, id := range d.edgeOrder {
		out = append(out, d.edges[id].clone())
	}
	return out
}

func (d *Diagram) NodeCount() int { return len(d.nodes) }

func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Group returns the parallel edges joining a and b in creation order.
func (d *Diagram) Group(a, b NodeID) []EdgeID {
	return d.groups.Group(a, b)
}

// Groups exposes the diagram's edge group registry.
func (d *Diagram) Groups() *Registry { return d.groups }

// StartNode returns the start node, if one exists.
func (d *Diagram) StartNode() (NodeID, bool) { return d.start, d.start != 0 }

// EndNode returns the end node, if one exists.
func (d *Diagram) EndNode() (NodeID, bool) { return d.end, d.end != 0 }

// NodeByHandle returns the node owning the primitive h.
func (d *Diagram) NodeByHandle(h canvas.Handle) (NodeID, bool) {
	id, ok := d.byHandle[h]
	return id, ok
}

// NodeAt returns the most recently added node whose circle contains p.
func (d *Diagram) NodeAt(p geom.Point) (NodeID, bool) {
	for i := len(d.nodeOrder) - 1; i >= 0; i-- {
		n := d.nodes[d.nodeOrder[i]]
		if n.Circle().Contains(p) {
			return n.ID, true
		}
	}
	return 0, false
}

// Close ends the editing session: the registry is reset and the model is
// emptied. Primitives are left to the host, which is going away with it.
func (d *Diagram) Close() {
	d.groups.Reset()
	clear(d.nodes)
	clear(d.edges)
	clear(d.byHandle)
	d.nodeOrder = nil
	d.edgeOrder = nil
	d.start, d.end, d.selected = 0, 0, 0
}

func (d *Diagram) notifySlots() {
	if d.notify != nil {
		d.notify.Slots(d.start == 0, d.end == 0)
	}
}
