// Package geom computes the shape of a directed edge drawn between two circular
// nodes: the path itself (straight, or a sampled quadratic Bézier when the node
// pair carries parallel edges), the arrowhead at the destination and the anchor
// for the edge's label.
//
// Everything here is a pure function of its inputs.
package geom

import "math"

const (
	// CurveStep separates consecutive ranks of parallel edges.
	CurveStep = 100.0
	// CurveHeight is the base bulge of a curved edge, it grows by
	// CurveHeightGrowth for every rank.
	CurveHeight       = 40.0
	CurveHeightGrowth = 0.5
	// CurveSegments is the number of segments a curve is sampled into, giving
	// CurveSegments+1 points.
	CurveSegments = 20

	ArrowLength = 10.0
	ArrowWidth  = 10.0

	LabelOffset = 15.0
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Circle is the footprint of a node.
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return c.Center.Dist(p) <= c.Radius
}

// Shape is everything needed to draw one edge.
type Shape struct {
	Path  []Point
	Arrow [3]Point
	Label Point
}

// EdgeShape computes the full shape of the edge from -> to which sits at
// position index of a parallel group holding total edges. ok is false when the
// two centres coincide and there is nothing to draw.
func EdgeShape(from, to Circle, index, total int) (Shape, bool) {
	return ShapeOf(EdgePath(from, to, index, total))
}

// ShapeOf derives the arrowhead and label anchor of an already computed path.
func ShapeOf(path []Point) (s Shape, ok bool) {
	if len(path) < 2 {
		return Shape{}, false
	}
	s.Path = path
	s.Arrow, _ = Arrowhead(path)
	s.Label, _ = LabelAnchor(path)
	return s, true
}

// EdgePath returns the points of the edge from -> to, starting on the boundary
// of from and ending on the boundary of to. A lone edge is a straight segment
// along the line of centres; an edge that shares its node pair with others is a
// quadratic Bézier bent away from that line. It returns nil when the centres
// coincide.
func EdgePath(from, to Circle, index, total int) []Point {
	d := from.Center.Dist(to.Center)
	if d == 0 {
		return nil
	}

	if total <= 1 {
		angle := math.Atan2(to.Center.Y-from.Center.Y, to.Center.X-from.Center.X)
		dir := Point{math.Cos(angle), math.Sin(angle)}
		return []Point{
			from.Center.Add(dir.Scale(from.Radius)),
			to.Center.Sub(dir.Scale(to.Radius)),
		}
	}

	ctrl := ControlPoint(from.Center, to.Center, index)

	// Trim along the tangents at either end, which point at the control point
	// rather than along the chord.
	a1 := math.Atan2(ctrl.Y-from.Center.Y, ctrl.X-from.Center.X)
	a2 := math.Atan2(to.Center.Y-ctrl.Y, to.Center.X-ctrl.X)
	start := from.Center.Add(Point{math.Cos(a1), math.Sin(a1)}.Scale(from.Radius))
	end := to.Center.Sub(Point{math.Cos(a2), math.Sin(a2)}.Scale(to.Radius))

	points := make([]Point, 0, CurveSegments+1)
	for i := 0; i <= CurveSegments; i++ {
		t := float64(i) / CurveSegments
		points = append(points, QuadBezier(start, ctrl, end, t))
	}
	return points
}

// CurveOffset is the signed distance of the control point of the index-th
// parallel edge from the chord midpoint, measured along the left-hand normal of
// the chord. Even indices bend to the negative side, odd ones to the positive
// side, and every further pair moves CurveStep further out with a taller bulge.
func CurveOffset(index int) float64 {
	offset := CurveStep * float64((index+1)/2)
	height := CurveHeight * (1 + float64(index/2)*CurveHeightGrowth)
	if index%2 == 0 {
		return -(offset + height)
	}
	return offset + height
}

// ControlPoint returns the Bézier control point for the index-th parallel edge
// between the centres a and b.
func ControlPoint(a, b Point, index int) Point {
	d := a.Dist(b)
	if d == 0 {
		return a
	}
	normal := Point{-(b.Y - a.Y) / d, (b.X - a.X) / d}
	mid := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	return mid.Add(normal.Scale(CurveOffset(index)))
}

// QuadBezier evaluates (1-t)²·p0 + 2(1-t)t·c + t²·p1.
func QuadBezier(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// Arrowhead returns the triangle marking the direction of path: the tip is the
// last point, the base sits ArrowLength behind it along the final segment and
// is ArrowWidth wide.
func Arrowhead(path []Point) (tri [3]Point, ok bool) {
	if len(path) < 2 {
		return tri, false
	}
	prev, tip := path[len(path)-2], path[len(path)-1]
	angle := math.Atan2(tip.Y-prev.Y, tip.X-prev.X)
	sin, cos := math.Sin(angle), math.Cos(angle)

	base := tip.Sub(Point{cos, sin}.Scale(ArrowLength))
	half := ArrowWidth / 2
	return [3]Point{
		tip,
		{base.X - sin*half, base.Y + cos*half},
		{base.X + sin*half, base.Y - cos*half},
	}, true
}

// LabelAnchor returns where the label of path goes. A straight path puts it
// LabelOffset off its midpoint; a curve puts it on the sample furthest from the
// chord joining its ends.
func LabelAnchor(path []Point) (Point, bool) {
	switch {
	case len(path) < 2:
		return Point{}, false
	case len(path) == 2:
		return straightLabel(path[0], path[1]), true
	}

	first, last := path[0], path[len(path)-1]
	a := last.Y - first.Y
	b := first.X - last.X
	c := last.X*first.Y - first.X*last.Y
	norm := math.Hypot(a, b)

	best := path[len(path)/2]
	if norm == 0 {
		return best, true
	}
	maxDist := 0.0
	for _, p := range path {
		if dist := math.Abs(a*p.X+b*p.Y+c) / norm; dist > maxDist {
			maxDist = dist
			best = p
		}
	}
	return best, true
}

func straightLabel(p1, p2 Point) Point {
	mid := Point{(p1.X + p2.X) / 2, (p1.Y + p2.Y) / 2}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	switch {
	case dx == 0:
		mid.X += LabelOffset
	case dy == 0:
		mid.Y += LabelOffset
	default:
		l := math.Hypot(dx, dy)
		mid.X += -dy / l * LabelOffset
		mid.Y += dx / l * LabelOffset
	}
	return mid
}

// Reverse returns the points of path in reverse order in a new slice.
func Reverse(path []Point) []Point {
	out := make([]Point, len(path))
	for i, p := range path {
		out[len(path)-1-i] = p
	}
	return out
}

// Flatten turns points into an x0, y0, x1, y1, ... coordinate list.
func Flatten(points []Point) []float64 {
	out := make([]float64, 0, 2*len(points))
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}
