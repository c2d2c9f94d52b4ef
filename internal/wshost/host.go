// Package wshost draws a diagram on a browser canvas at the other end of a
// websocket. Host implements canvas.Host, canvas.Prompter and
// canvas.Notifier by sending JSON messages, and session.Source by reading
// them.
package wshost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
	"github.com/psidex/pert/internal/lib"
	"github.com/psidex/pert/internal/session"
)

var ErrBadMessage = errors.New("wshost: malformed message")

type Host struct {
	ws     lib.ThreadSafeWebSocket
	logger *slog.Logger
	next   atomic.Int64
	idle   atomic.Int64

	// Only the session goroutine reads.
	started bool
}

var (
	_ canvas.Host     = (*Host)(nil)
	_ canvas.Prompter = (*Host)(nil)
	_ canvas.Notifier = (*Host)(nil)
	_ session.Source  = (*Host)(nil)
)

// New wraps ws. A non-zero idle ends the session when the client sends
// nothing for that long; a config message sent by the client before anything
// else replaces it.
func New(ws lib.ThreadSafeWebSocket, logger *slog.Logger, idle time.Duration) *Host {
	h := &Host{ws: ws, logger: logger}
	h.idle.Store(int64(idle))
	return h
}

// IdleTimeout returns the current idle timeout.
func (h *Host) IdleTimeout() time.Duration {
	return time.Duration(h.idle.Load())
}

func (h *Host) send(typ string, data any) {
	if err := h.ws.WriteJSON(outgoing{Type: typ, Data: data}); err != nil {
		h.logger.Warn("ws write", "type", typ, "err", err)
	}
}

func (h *Host) Create(s canvas.Shape) canvas.Handle {
	handle := canvas.Handle(h.next.Add(1))
	h.send(typeCreate, createData{Handle: handle, Shape: s})
	return handle
}

func (h *Host) Move(handle canvas.Handle, dx, dy float64) {
	h.send(typeMove, moveData{Handle: handle, DX: dx, DY: dy})
}

func (h *Host) SetCoords(handle canvas.Handle, points []geom.Point) {
	h.send(typeCoords, coordsData{Handle: handle, Points: points})
}

func (h *Host) Delete(handle canvas.Handle) {
	h.send(typeDelete, handleData{Handle: handle})
}

func (h *Host) Raise(handle canvas.Handle) {
	h.send(typeRaise, handleData{Handle: handle})
}

func (h *Host) Warn(title, text string) {
	h.send(typeWarning, warningData{Title: title, Text: text})
}

func (h *Host) EdgeMode(on bool) {
	h.send(typeStatus, statusData{EdgeMode: on})
}

func (h *Host) Slots(startOpen, endOpen bool) {
	h.send(typeSlots, slotsData{StartOpen: startOpen, EndOpen: endOpen})
}

// Prompt asks the client a question and waits for its promptReply. Anything
// else the client sends in the meantime is dropped.
func (h *Host) Prompt(ctx context.Context, text string) (string, bool, error) {
	h.send(typePrompt, promptData{Text: text})
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		msg, err := h.read()
		if err != nil {
			return "", false, err
		}
		if msg.Type != typePromptReply {
			h.logger.Debug("input dropped while prompting", "type", msg.Type)
			continue
		}
		var reply promptReplyData
		if err := json.Unmarshal(msg.Data, &reply); err != nil {
			h.logger.Debug("bad prompt reply", "err", err)
			return "", false, nil
		}
		return reply.Value, reply.OK, nil
	}
}

// Next returns the next editing event from the client. Config messages are
// applied and malformed or unknown messages skipped on the way.
func (h *Host) Next(ctx context.Context) (session.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return session.Event{}, err
		}
		msg, err := h.read()
		if err != nil {
			return session.Event{}, err
		}
		ev, err := h.decode(msg)
		if err != nil {
			h.logger.Debug("message skipped", "type", msg.Type, "err", err)
			continue
		}
		if ev.Kind == "" {
			continue
		}
		return ev, nil
	}
}

func (h *Host) read() (message, error) {
	_, b, err := h.ws.ReadMessage(h.IdleTimeout())
	if err != nil {
		return message{}, err
	}
	msg := message{first: !h.started}
	h.started = true
	if err := json.Unmarshal(b, &msg); err != nil {
		// A garbled frame is not worth ending the session over.
		h.logger.Debug("ws message not json", "err", err)
		return message{first: msg.first}, nil
	}
	return msg, nil
}

// decode turns a client message into an event. A message that is handled
// here, such as config, yields an event with no Kind.
func (h *Host) decode(msg message) (session.Event, error) {
	kind := session.Kind(msg.Type)
	switch kind {
	case session.KindPress, session.KindDrag, session.KindRelease:
		var p pointerData
		if err := unmarshal(msg.Data, &p); err != nil {
			return session.Event{}, err
		}
		ev := session.Event{Kind: kind, Pos: geom.Point{X: p.X, Y: p.Y}}
		if kind == session.KindPress {
			ev.Hit = p.Handle
		}
		return ev, nil

	case session.KindToggleEdge, session.KindDeleteSelected:
		return session.Event{Kind: kind}, nil

	case session.KindAddNodes:
		var f diagram.Form
		if err := unmarshal(msg.Data, &f); err != nil {
			return session.Event{}, err
		}
		return session.Event{Kind: kind, Form: f}, nil
	}

	switch msg.Type {
	case typeConfig:
		if !msg.first {
			return session.Event{}, fmt.Errorf("%w: config after session start", ErrBadMessage)
		}
		var cfg ConfigData
		if err := unmarshal(msg.Data, &cfg); err != nil {
			return session.Event{}, err
		}
		if cfg.IdleTimeout.Duration < 0 {
			return session.Event{}, fmt.Errorf("%w: negative idle timeout", ErrBadMessage)
		}
		h.idle.Store(int64(cfg.IdleTimeout.Duration))
		h.logger.Debug("session configured", "idleTimeout", cfg.IdleTimeout.Duration)
		return session.Event{}, nil
	case typePromptReply:
		h.logger.Debug("prompt reply with no prompt")
		return session.Event{}, nil
	case "":
		return session.Event{}, fmt.Errorf("%w: no type", ErrBadMessage)
	}
	return session.Event{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, msg.Type)
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no data", ErrBadMessage)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	return nil
}
