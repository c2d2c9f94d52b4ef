package diagram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_IndicesFollowCreationOrder(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 4; i++ {
		from, to := NodeID(1), NodeID(2)
		if i%2 == 1 {
			from, to = to, from
		}
		require.Equal(t, i, r.Add(from, to, EdgeID(10+i)))
	}
	require.Equal(t, 4, r.Size(2, 1))
	require.Equal(t, []EdgeID{10, 11, 12, 13}, r.Group(1, 2))
	require.Equal(t, 1, r.Len())

	require.Equal(t, 0, r.Add(1, 3, 20), "other pairs start their own group")
	require.Equal(t, 2, r.Len())
}

func TestRegistry_RemoveDoesNotRenumber(t *testing.T) {
	r := NewRegistry()
	r.Add(1, 2, 10)
	r.Add(1, 2, 11)
	r.Add(1, 2, 12)

	require.True(t, r.Remove(2, 1, 11))
	require.False(t, r.Remove(1, 2, 11))
	require.False(t, r.Remove(5, 6, 11))
	require.Equal(t, []EdgeID{10, 12}, r.Group(1, 2))

	// The next edge takes the current size as its index.
	require.Equal(t, 2, r.Add(1, 2, 13))

	for _, e := range []EdgeID{10, 12, 13} {
		require.True(t, r.Remove(1, 2, e))
	}
	require.Zero(t, r.Len())
	require.Nil(t, r.Group(1, 2))
}

func TestRegistry_GroupIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Add(1, 2, 10)
	g := r.Group(1, 2)
	g[0] = 99
	require.Equal(t, []EdgeID{10}, r.Group(1, 2))
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	r.Add(1, 2, 10)
	r.Add(3, 4, 11)
	r.Reset()
	require.Zero(t, r.Len())
	require.Zero(t, r.Size(1, 2))
	require.Equal(t, 0, r.Add(1, 2, 12))
}
