package diagram

import "slices"

// pairKey is an unordered pair of node ids, lo <= hi.
type pairKey struct {
	lo, hi NodeID
}

func keyOf(a, b NodeID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Registry groups edges by the unordered pair of nodes they join, in creation
// order. It is owned by one Diagram.
//
// Removing an edge does not renumber the edges left in its group; the Index an
// edge was given at creation stays its curvature slot for life.
type Registry struct {
	groups map[pairKey][]EdgeID
}

func NewRegistry() *Registry {
	return &Registry{groups: make(map[pairKey][]EdgeID)}
}

// Add appends e to the group of a and b and returns the index it was given,
// which is the size of the group before the call.
func (r *Registry) Add(a, b NodeID, e EdgeID) int {
	k := keyOf(a, b)
	index := len(r.groups[k])
	r.groups[k] = append(r.groups[k], e)
	return index
}

// Remove drops e from the group of a and b. Empty groups are forgotten.
func (r *Registry) Remove(a, b NodeID, e EdgeID) bool {
	k := keyOf(a, b)
	group, ok := r.groups[k]
	if !ok {
		return false
	}
	i := slices.Index(group, e)
	if i < 0 {
		return false
	}
	group = slices.Delete(group, i, i+1)
	if len(group) == 0 {
		delete(r.groups, k)
	} else {
		r.groups[k] = group
	}
	return true
}

// Group returns the edges joining a and b in creation order.
func (r *Registry) Group(a, b NodeID) []EdgeID {
	return slices.Clone(r.groups[keyOf(a, b)])
}

// Size returns how many edges join a and b.
func (r *Registry) Size(a, b NodeID) int {
	return len(r.groups[keyOf(a, b)])
}

// Len returns the number of non-empty groups.
func (r *Registry) Len() int {
	return len(r.groups)
}

// Reset empties the registry.
func (r *Registry) Reset() {
	clear(r.groups)
}
