package diagram_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/geom"
)

func TestSplitNames(t *testing.T) {
	require.Equal(t, []string{"plan", "test", "code"}, diagram.SplitNames(" plan, test ,, code ,"))
	require.Nil(t, diagram.SplitNames(""))
	require.Nil(t, diagram.SplitNames(" , ,"))
}

func TestAddNodes_RequiresOpenSlots(t *testing.T) {
	host := canvas.NewRecorder()
	d := diagram.New(host)

	_, err := d.AddNodes(diagram.Form{End: "B", Others: "x"})
	require.ErrorIs(t, err, diagram.ErrMissingStart)
	_, err = d.AddNodes(diagram.Form{Start: "A", End: "  ", Others: "x"})
	require.ErrorIs(t, err, diagram.ErrMissingEnd)
	require.Zero(t, d.NodeCount())
	require.Zero(t, host.Len())
}

func TestAddNodes_Layout(t *testing.T) {
	d := diagram.New(canvas.NewRecorder())

	ids, err := d.AddNodes(diagram.Form{Start: " A ", End: "B", Others: "c1, c2, c3, c4"})
	require.NoError(t, err)
	require.Len(t, ids, 6)

	want := []struct {
		label string
		role  diagram.Role
		pos   geom.Point
	}{
		{"A", diagram.RoleStart, geom.Point{X: 200, Y: 150}},
		{"B", diagram.RoleEnd, geom.Point{X: 600, Y: 150}},
		{"c1", diagram.RoleIntermediate, geom.Point{X: 200, Y: 300}},
		{"c2", diagram.RoleIntermediate, geom.Point{X: 400, Y: 300}},
		{"c3", diagram.RoleIntermediate, geom.Point{X: 600, Y: 300}},
		{"c4", diagram.RoleIntermediate, geom.Point{X: 200, Y: 500}},
	}
	for i, w := range want {
		n, ok := d.Node(ids[i])
		require.True(t, ok)
		require.Equal(t, w.label, n.Label)
		require.Equal(t, w.role, n.Role)
		require.Equal(t, w.pos, n.Pos)
	}

	// Filled slots no longer need names; extra names are ignored.
	more, err := d.AddNodes(diagram.Form{Start: "ignored", Others: "d"})
	require.NoError(t, err)
	require.Len(t, more, 1)
	require.Equal(t, 7, d.NodeCount())
}

func TestAddNodes_CustomLayout(t *testing.T) {
	l := diagram.DefaultLayout()
	l.NodeRadius = 25
	l.NodesPerRow = 2
	l.Spacing = 100
	d := diagram.New(canvas.NewRecorder(), diagram.WithLayout(l))

	ids, err := d.AddNodes(diagram.Form{Start: "s", End: "e", Others: "a,b,c"})
	require.NoError(t, err)
	c, _ := d.Node(ids[4])
	require.Equal(t, geom.Point{X: 200, Y: 400}, c.Pos)
	require.Equal(t, 25.0, c.Radius)
}

func TestParseDuration(t *testing.T) {
	for in, want := range map[string]int{
		"0": 0, "7": 7, "0012": 12, "365": 365,
		"۵": 5, "١٢": 12, "۱۲۰": 120, "٧": 7, "१०": 10, "1۲": 12,
	} {
		got, err := diagram.ParseDuration(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", " 5", "5 ", "-1", "+3", "1.5", "five", "½", "²", "Ⅻ", "99999999999999999999999", "۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹۹"} {
		_, err := diagram.ParseDuration(in)
		require.ErrorIs(t, err, diagram.ErrInvalidDuration, in)
	}
}
