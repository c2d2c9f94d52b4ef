// Package canvas is the boundary between the diagram and whatever draws it. A
// Host creates primitives and hands back opaque handles; everything after that
// is done through the handle.
package canvas

import (
	"context"

	"github.com/psidex/pert/internal/geom"
)

// Handle identifies a primitive created by a Host. The zero Handle is never
// returned by Create and stands for "no primitive".
type Handle int64

// Kind is the kind of primitive to draw.
type Kind string

const (
	KindCircle  Kind = "circle"
	KindLine    Kind = "line"
	KindCurve   Kind = "curve"
	KindPolygon Kind = "polygon"
	KindText    Kind = "text"
)

// Style holds the presentation attributes of a primitive. Zero fields mean
// "host default".
type Style struct {
	Fill    string  `json:"fill,omitempty"`
	Outline string  `json:"outline,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Dash    []int   `json:"dash,omitempty"`
	Arrow   bool    `json:"arrow,omitempty"`
	Font    string  `json:"font,omitempty"`
	Bold    bool    `json:"bold,omitempty"`
}

// Shape describes a primitive. Circles are centred on Points[0] with Radius,
// text is anchored at Points[0], everything else is drawn through Points.
type Shape struct {
	Kind   Kind         `json:"kind"`
	Points []geom.Point `json:"points,omitempty"`
	Radius float64      `json:"radius,omitempty"`
	Text   string       `json:"text,omitempty"`
	Style  Style        `json:"style"`
}

// Host draws primitives. Implementations are driven from a single goroutine
// and report their own transport failures; the diagram never sees them.
type Host interface {
	Create(s Shape) Handle
	// Move translates a primitive by (dx, dy).
	Move(h Handle, dx, dy float64)
	// SetCoords replaces the points of a primitive, keeping its identity.
	SetCoords(h Handle, points []geom.Point)
	Delete(h Handle)
	// Raise brings a primitive in front of every other one.
	Raise(h Handle)
}

// Prompter asks the user for a line of text. ok is false when the user
// cancelled. Prompt blocks until the user answers or ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, text string) (answer string, ok bool, err error)
}

// Notifier receives the editor state the host shows next to the drawing.
type Notifier interface {
	Warn(title, text string)
	EdgeMode(on bool)
	Slots(startOpen, endOpen bool)
}
