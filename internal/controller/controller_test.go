package controller_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/controller"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
)

type reply struct {
	answer string
	ok     bool
	err    error
}

// scriptedPrompter answers prompts from a queue and records the questions.
type scriptedPrompter struct {
	replies []reply
	asked   []string
}

func (p *scriptedPrompter) Prompt(_ context.Context, text string) (string, bool, error) {
	p.asked = append(p.asked, text)
	if len(p.replies) == 0 {
		return "", false, nil
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r.answer, r.ok, r.err
}

type ControllerSuite struct {
	suite.Suite
	ctx    context.Context
	host   *canvas.Recorder
	prompt *scriptedPrompter
	d      *diagram.Diagram
	c      *controller.Controller
	a, b   diagram.NodeID
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.host = canvas.NewRecorder()
	s.prompt = &scriptedPrompter{}
	s.d = diagram.New(s.host)
	s.c = controller.New(s.d, s.host, s.prompt, controller.WithNotifier(s.host))

	ids, err := s.d.AddNodes(diagram.Form{Start: "A", End: "B"})
	s.Require().NoError(err)
	s.a, s.b = ids[0], ids[1]
}

func (s *ControllerSuite) at(x, y float64) controller.Pointer {
	return controller.Pointer{Pos: geom.Point{X: x, Y: y}}
}

func (s *ControllerSuite) onA() controller.Pointer { return s.at(205, 155) }
func (s *ControllerSuite) onB() controller.Pointer { return s.at(600, 150) }

func (s *ControllerSuite) previewLines() []canvas.Item {
	var out []canvas.Item
	for _, it := range s.host.Items() {
		if it.Kind == canvas.KindLine {
			out = append(out, it)
		}
	}
	return out
}

func (s *ControllerSuite) TestIdleClicksDoNotDrawEdges() {
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.c.Release(geom.Point{})
	s.Require().NoError(s.c.Press(s.ctx, s.onB()))
	s.Equal(controller.Idle, s.c.Mode())
	s.Zero(s.d.EdgeCount())
	s.Empty(s.prompt.asked)
}

func (s *ControllerSuite) TestCreatesEdge() {
	s.prompt.replies = []reply{{answer: "5", ok: true}}

	s.c.ToggleEdgeMode()
	s.Equal(controller.Armed, s.c.Mode())
	s.True(s.host.Status().EdgeMode)

	// Empty canvas is ignored while armed.
	s.Require().NoError(s.c.Press(s.ctx, s.at(400, 600)))
	s.Equal(controller.Armed, s.c.Mode())
	s.Empty(s.previewLines())

	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.Equal(controller.Pending, s.c.Mode())
	lines := s.previewLines()
	s.Require().Len(lines, 1)
	s.Equal(geom.Point{X: 200, Y: 150}, lines[0].Points[0])
	s.True(lines[0].Style.Arrow)

	// Empty canvas moves the rubber band.
	s.Require().NoError(s.c.Press(s.ctx, s.at(420, 500)))
	s.Equal(controller.Pending, s.c.Mode())
	lines = s.previewLines()
	s.Require().Len(lines, 1)
	s.Equal(geom.Point{X: 420, Y: 500}, lines[0].Points[1])

	s.Require().NoError(s.c.Press(s.ctx, s.onB()))
	s.Equal([]string{controller.DurationPrompt}, s.prompt.asked)
	s.Equal(controller.Idle, s.c.Mode(), "single shot")
	s.False(s.host.Status().EdgeMode)
	s.Empty(s.previewLines())

	s.Require().Equal(1, s.d.EdgeCount())
	e := s.d.Edges()[0]
	s.Equal(s.a, e.From)
	s.Equal(s.b, e.To)
	s.Equal(5, e.Days)
}

func (s *ControllerSuite) TestInvalidDurationAbortsToIdle() {
	for _, r := range []reply{{answer: "abc", ok: true}, {answer: "", ok: true}, {ok: false}, {answer: "-3", ok: true}} {
		s.prompt.replies = []reply{r}
		s.c.ToggleEdgeMode()
		s.Require().NoError(s.c.Press(s.ctx, s.onA()))
		s.Require().NoError(s.c.Press(s.ctx, s.onB()))
		s.Equal(controller.Idle, s.c.Mode())
		s.Empty(s.previewLines())
	}
	s.Zero(s.d.EdgeCount())
}

func (s *ControllerSuite) TestSameNodeTwiceNeverLoops() {
	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.Equal(controller.Idle, s.c.Mode())
	s.Empty(s.prompt.asked)
	s.Zero(s.d.EdgeCount())
	s.Empty(s.previewLines())
}

func (s *ControllerSuite) TestToggleAbandonsGesture() {
	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.c.ToggleEdgeMode()
	s.Equal(controller.Idle, s.c.Mode())
	s.Empty(s.previewLines())
}

func (s *ControllerSuite) TestPromptErrorPropagates() {
	boom := errors.New("connection gone")
	s.prompt.replies = []reply{{err: boom}}
	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.ErrorIs(s.c.Press(s.ctx, s.onB()), boom)
	s.Equal(controller.Idle, s.c.Mode())
	s.Zero(s.d.EdgeCount())
}

func (s *ControllerSuite) TestResolvesByHandle() {
	s.prompt.replies = []reply{{answer: "2", ok: true}}
	var bText canvas.Handle
	for _, it := range s.host.Items() {
		if it.Kind == canvas.KindText && it.Text == "B" {
			bText = it.Handle
		}
	}
	s.Require().NotZero(bText)

	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	// Far from B's centre, but the host says the label was hit.
	s.Require().NoError(s.c.Press(s.ctx, controller.Pointer{Pos: geom.Point{X: 900, Y: 900}, Hit: bText}))
	s.Equal(1, s.d.EdgeCount())
}

func (s *ControllerSuite) TestDragMovesNodeAndSelects() {
	_, err := s.d.AddEdge(s.a, s.b, 4)
	s.Require().NoError(err)

	s.False(s.c.Drag(geom.Point{X: 1, Y: 1}), "no gesture yet")

	s.Require().NoError(s.c.Press(s.ctx, s.onB()))
	sel, ok := s.d.Selected()
	s.True(ok)
	s.Equal(s.b, sel)
	id, ok := s.c.Dragging()
	s.True(ok)
	s.Equal(s.b, id)

	s.True(s.c.Drag(geom.Point{X: 630, Y: 150}))
	s.True(s.c.Drag(geom.Point{X: 650, Y: 170}))
	n, _ := s.d.Node(s.b)
	s.Equal(geom.Point{X: 650, Y: 170}, n.Pos)

	e := s.d.Edges()[0]
	s.InDelta(40, n.Circle().Center.Dist(e.Path[1]), 1e-6)

	s.c.Release(geom.Point{X: 650, Y: 170})
	s.False(s.c.Drag(geom.Point{X: 700, Y: 170}))
	n, _ = s.d.Node(s.b)
	s.Equal(geom.Point{X: 650, Y: 170}, n.Pos)
}

func (s *ControllerSuite) TestPressSwitchesSelection() {
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.Require().NoError(s.c.Press(s.ctx, s.onB()))
	a, _ := s.d.Node(s.a)
	b, _ := s.d.Node(s.b)
	s.False(a.Selected)
	s.True(b.Selected)

	// Empty canvas keeps the selection.
	s.Require().NoError(s.c.Press(s.ctx, s.at(50, 600)))
	_, ok := s.d.Selected()
	s.True(ok)
}

func (s *ControllerSuite) TestNoDragInEdgeMode() {
	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	_, dragging := s.c.Dragging()
	s.False(dragging)
	sel, _ := s.d.Selected()
	s.Equal(s.a, sel)
}

func (s *ControllerSuite) TestDeleteSelected() {
	s.False(s.c.DeleteSelected())

	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.Equal(controller.Pending, s.c.Mode())

	s.True(s.c.DeleteSelected())
	s.Equal(controller.Idle, s.c.Mode(), "gesture from the deleted node is dropped")
	s.Empty(s.previewLines())
	s.Equal(1, s.d.NodeCount())
}

func (s *ControllerSuite) TestClose() {
	s.c.ToggleEdgeMode()
	s.Require().NoError(s.c.Press(s.ctx, s.onA()))
	s.c.Close()
	s.Equal(controller.Idle, s.c.Mode())
	s.Empty(s.previewLines())
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func TestModeString(t *testing.T) {
	require.Equal(t, "idle", controller.Idle.String())
	require.Equal(t, "armed", controller.Armed.String())
	require.Equal(t, "pending", controller.Pending.String())
	require.Equal(t, "unknown", controller.Mode(9).String())
}
