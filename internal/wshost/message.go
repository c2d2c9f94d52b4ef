package wshost

import (
	"encoding/json"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/geom"
	"github.com/psidex/pert/internal/lib"
)

// Every message in either direction is {"type": ..., "data": {...}}.
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`

	first bool
}

type outgoing struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Server to client.

type createData struct {
	Handle canvas.Handle `json:"handle"`
	Shape  canvas.Shape  `json:"shape"`
}

type coordsData struct {
	Handle canvas.Handle `json:"handle"`
	Points []geom.Point  `json:"points"`
}

type moveData struct {
	Handle canvas.Handle `json:"handle"`
	DX     float64       `json:"dx"`
	DY     float64       `json:"dy"`
}

type handleData struct {
	Handle canvas.Handle `json:"handle"`
}

type promptData struct {
	Text string `json:"text"`
}

type warningData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type statusData struct {
	EdgeMode bool `json:"edgeMode"`
}

type slotsData struct {
	StartOpen bool `json:"startOpen"`
	EndOpen   bool `json:"endOpen"`
}

// Client to server.

// ConfigData is the optional session configuration a client may send.
type ConfigData struct {
	IdleTimeout lib.Duration `json:"idleTimeout"`
}

type pointerData struct {
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Handle canvas.Handle `json:"handle"`
}

type promptReplyData struct {
	Value string `json:"value"`
	OK    bool   `json:"ok"`
}

// Message types.
const (
	typeCreate      = "create"
	typeCoords      = "coords"
	typeMove        = "move"
	typeDelete      = "delete"
	typeRaise       = "raise"
	typePrompt      = "prompt"
	typeWarning     = "warning"
	typeStatus      = "status"
	typeSlots       = "slots"
	typeConfig      = "config"
	typePromptReply = "promptReply"
)
