// Package diagram is the in-memory model of a PERT network being edited: nodes,
// the weighted directed edges between them, and the registry that groups
// parallel edges so each one can be bent away from its siblings.
//
// Nodes and edges live in an arena owned by a Diagram and refer to each other by
// id. Every mutation redraws what it touched through a canvas.Host.
//
// Errors:
//
//	ErrNodeNotFound     - referenced node does not exist.
//	ErrEdgeNotFound     - referenced edge does not exist.
//	ErrSelfLoop         - an edge would start and end on the same node.
//	ErrInvalidDuration  - duration is not a non-negative whole number of days.
//	ErrEmptyLabel       - node label is blank.
//	ErrRoleTaken        - a start or end node already exists.
//	ErrMissingStart     - the add-nodes form has no start name while the slot is open.
//	ErrMissingEnd       - the add-nodes form has no end name while the slot is open.
package diagram

import (
	"errors"
	"slices"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
)

var (
	ErrNodeNotFound    = errors.New("diagram: node not found")
	ErrEdgeNotFound    = errors.New("diagram: edge not found")
	ErrSelfLoop        = errors.New("diagram: edge must join two different nodes")
	ErrInvalidDuration = errors.New("diagram: duration must be a non-negative whole number")
	ErrEmptyLabel      = errors.New("diagram: node label is empty")
	ErrRoleTaken       = errors.New("diagram: role already taken")
	ErrMissingStart    = errors.New("diagram: start node name is required")
	ErrMissingEnd      = errors.New("diagram: end node name is required")
)

// NodeID identifies a node within its Diagram. Ids are never reused.
type NodeID int

// EdgeID identifies an edge within its Diagram. Ids are never reused.
type EdgeID int

// Role is the part a node plays in the network.
type Role int

const (
	RoleIntermediate Role = iota
	RoleStart
	RoleEnd
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	case RoleIntermediate:
		return "intermediate"
	default:
		return "unknown"
	}
}

// Node is a labelled vertex drawn as a circle.
type Node struct {
	ID       NodeID
	Label    string
	Role     Role
	Pos      geom.Point
	Radius   float64
	Edges    []EdgeID
	Selected bool

	// shadow, body, text
	items     []canvas.Handle
	highlight canvas.Handle
}

// Circle returns the node's footprint.
func (n Node) Circle() geom.Circle {
	return geom.Circle{Center: n.Pos, Radius: n.Radius}
}

func (n Node) clone() Node {
	cp := n
	cp.Edges = slices.Clone(n.Edges)
	cp.items = slices.Clone(n.items)
	return cp
}

// Edge is a directed connection weighted with a duration in days.
type Edge struct {
	ID   EdgeID
	From NodeID
	To   NodeID
	Days int
	// Index is the edge's position in its parallel group, fixed at creation.
	Index int
	// Path is the last drawn path, nil if the edge has never been drawable.
	Path []geom.Point

	line, arrow, label canvas.Handle
}

// Visible reports whether the edge has primitives on the canvas.
func (e Edge) Visible() bool { return e.line != 0 }

func (e Edge) clone() Edge {
	cp := e
	cp.Path = slices.Clone(e.Path)
	return cp
}
