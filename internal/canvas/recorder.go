package canvas

import (
	"slices"
	"sync"

	"github.com/psidex/pert/internal/geom"
)

// Item is a primitive held by a Recorder.
type Item struct {
	Handle Handle
	Shape
}

// Recorder is a Host that keeps every live primitive in memory, in stacking
// order. It backs the render command and the tests, and it also records what a
// Notifier would have shown.
type Recorder struct {
	mu     *sync.Mutex
	next   Handle
	items  map[Handle]*Item
	order  []Handle
	status Status
}

// Status is the last state pushed to a Recorder through Notifier.
type Status struct {
	EdgeMode  bool
	StartOpen bool
	EndOpen   bool
	Warnings  []string
}

var (
	_ Host     = (*Recorder)(nil)
	_ Notifier = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	return &Recorder{
		mu:     &sync.Mutex{},
		items:  make(map[Handle]*Item),
		status: Status{StartOpen: true, EndOpen: true},
	}
}

func (r *Recorder) Create(s Shape) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	s.Points = slices.Clone(s.Points)
	r.items[r.next] = &Item{Handle: r.next, Shape: s}
	r.order = append(r.order, r.next)
	return r.next
}

func (r *Recorder) Move(h Handle, dx, dy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[h]
	if !ok {
		return
	}
	for i := range it.Points {
		it.Points[i].X += dx
		it.Points[i].Y += dy
	}
}

func (r *Recorder) SetCoords(h Handle, points []geom.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[h]; ok {
		it.Points = slices.Clone(points)
	}
}

func (r *Recorder) Delete(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[h]; !ok {
		return
	}
	delete(r.items, h)
	r.order = slices.DeleteFunc(r.order, func(o Handle) bool { return o == h })
}

func (r *Recorder) Raise(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[h]; !ok {
		return
	}
	r.order = slices.DeleteFunc(r.order, func(o Handle) bool { return o == h })
	r.order = append(r.order, h)
}

// Get returns a copy of the primitive behind h.
func (r *Recorder) Get(h Handle) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[h]
	if !ok {
		return Item{}, false
	}
	cp := *it
	cp.Points = slices.Clone(it.Points)
	return cp, true
}

// Items returns copies of all live primitives, back to front.
func (r *Recorder) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0, len(r.order))
	for _, h := range r.order {
		cp := *r.items[h]
		cp.Points = slices.Clone(cp.Points)
		out = append(out, cp)
	}
	return out
}

// Len returns the number of live primitives.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Recorder) Warn(title, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Warnings = append(r.status.Warnings, title+": "+text)
}

func (r *Recorder) EdgeMode(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.EdgeMode = on
}

func (r *Recorder) Slots(startOpen, endOpen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.StartOpen, r.status.EndOpen = startOpen, endOpen
}

// Status returns what the Notifier side last saw.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	st.Warnings = slices.Clone(r.status.Warnings)
	return st
}
