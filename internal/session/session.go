// Package session runs one diagram-editing session: it owns a Diagram and the
// Controller driving it, feeds them the events a client sends and tears both
// down when the client goes away.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/controller"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
	"github.com/psidex/pert/internal/lib"
)

// Kind names a client event.
type Kind string

const (
	KindPress          Kind = "press"
	KindDrag           Kind = "drag"
	KindRelease        Kind = "release"
	KindToggleEdge     Kind = "toggleEdge"
	KindDeleteSelected Kind = "deleteSelected"
	KindAddNodes       Kind = "addNodes"
)

// Event is one input from the client. Pos and Hit are set for pointer events,
// Form for KindAddNodes.
type Event struct {
	Kind Kind
	Pos  geom.Point
	Hit  canvas.Handle
	Form diagram.Form
}

// Source delivers client events. Next blocks until an event arrives and
// returns an error once the client is gone.
type Source interface {
	Next(ctx context.Context) (Event, error)
}

var ErrUnknownEvent = errors.New("session: unknown event")

// Config is what a session is built from. An empty ID is generated, zero
// Theme and Layout fall back to their defaults.
type Config struct {
	ID     string
	Theme  canvas.Theme
	Layout diagram.Layout
	Logger *slog.Logger
}

type Session struct {
	ID string

	d      *diagram.Diagram
	c      *controller.Controller
	notify canvas.Notifier
	logger *slog.Logger
}

// New starts a session drawing on host. The notifier is told the initial slot
// and edge-mode state straight away.
func New(host canvas.Host, prompt canvas.Prompter, notify canvas.Notifier, cfg Config) *Session {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = lib.DiscardLogger()
	}
	logger = logger.With("session", id)
	if cfg.Theme == (canvas.Theme{}) {
		cfg.Theme = canvas.DefaultTheme()
	}
	if cfg.Layout == (diagram.Layout{}) {
		cfg.Layout = diagram.DefaultLayout()
	}

	s := &Session{
		ID:     id,
		notify: notify,
		logger: logger,
	}
	s.d = diagram.New(host,
		diagram.WithTheme(cfg.Theme),
		diagram.WithLayout(cfg.Layout),
		diagram.WithLogger(logger),
		diagram.WithNotifier(notify),
	)
	s.c = controller.New(s.d, host, prompt,
		controller.WithTheme(cfg.Theme),
		controller.WithLogger(logger),
		controller.WithNotifier(notify),
	)

	notify.Slots(true, true)
	notify.EdgeMode(false)
	logger.Info("session started")
	return s
}

func (s *Session) Diagram() *diagram.Diagram { return s.d }

func (s *Session) Controller() *controller.Controller { return s.c }

func (s *Session) Logger() *slog.Logger { return s.logger }

// Handle applies a single event. Only a failed prompt or an unknown event
// kind is returned as an error; rejected input is reported to the client or
// logged.
func (s *Session) Handle(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case KindPress:
		return s.c.Press(ctx, controller.Pointer{Pos: ev.Pos, Hit: ev.Hit})
	case KindDrag:
		s.c.Drag(ev.Pos)
	case KindRelease:
		s.c.Release(ev.Pos)
	case KindToggleEdge:
		s.c.ToggleEdgeMode()
	case KindDeleteSelected:
		if !s.c.DeleteSelected() {
			s.logger.Debug("delete with nothing selected")
		}
	case KindAddNodes:
		s.addNodes(ev.Form)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return nil
}

func (s *Session) addNodes(f diagram.Form) {
	ids, err := s.d.AddNodes(f)
	switch {
	case errors.Is(err, diagram.ErrMissingStart):
		s.notify.Warn("Input error", "Please enter the start node name.")
	case errors.Is(err, diagram.ErrMissingEnd):
		s.notify.Warn("Input error", "Please enter the end node name.")
	case err != nil:
		s.notify.Warn("Input error", err.Error())
	default:
		s.logger.Debug("nodes added", "count", len(ids))
	}
}

// Run handles events from src until it fails or ctx is cancelled, then closes
// the session. The error that ended the loop is returned.
func (s *Session) Run(ctx context.Context, src Source) error {
	defer s.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if err := s.Handle(ctx, ev); err != nil {
			if errors.Is(err, ErrUnknownEvent) {
				s.logger.Debug("event dropped", "err", err)
				continue
			}
			return err
		}
	}
}

// Close abandons any gesture and empties the diagram, resetting its edge
// group registry.
func (s *Session) Close() {
	s.c.Close()
	s.d.Close()
	s.logger.Info("session closed")
}
