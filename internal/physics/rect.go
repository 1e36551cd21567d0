package physics

import "math"

// Face identifies one edge of an axis-aligned rectangle.
type Face int

const (
	FaceLeft Face = iota
	FaceRight
	FaceTop
	FaceBottom
)

// Horizontal reports whether the face is a vertical edge (left/right), i.e. one that
// reflects horizontal motion.
func (f Face) Horizontal() bool {
	return f == FaceLeft || f == FaceRight
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	Pos  Vec2
	W, H float64
}

// Left, Right, Top and Bottom return the edge coordinates.
func (r Rect) Left() float64   { return r.Pos.X }
func (r Rect) Right() float64  { return r.Pos.X + r.W }
func (r Rect) Top() float64    { return r.Pos.Y }
func (r Rect) Bottom() float64 { return r.Pos.Y + r.H }

// Contains reports whether p lies strictly inside r. Points on an edge are outside,
// so a point snapped onto a face does not collide again.
func (r Rect) Contains(p Vec2) bool {
	return p.X > r.Left() && p.X < r.Right() && p.Y > r.Top() && p.Y < r.Bottom()
}

// NearestFace returns the edge closest to p. Ties resolve left, right, top, bottom
// in that order.
func (r Rect) NearestFace(p Vec2) Face {
	best := FaceLeft
	dist := math.Abs(p.X - r.Left())
	if d := math.Abs(p.X - r.Right()); d < dist {
		best, dist = FaceRight, d
	}
	if d := math.Abs(p.Y - r.Top()); d < dist {
		best, dist = FaceTop, d
	}
	if d := math.Abs(p.Y - r.Bottom()); d < dist {
		best = FaceBottom
	}
	return best
}

// SnapToFace moves p onto the given face along its normal.
func (r Rect) SnapToFace(p Vec2, f Face) Vec2 {
	switch f {
	case FaceLeft:
		p.X = r.Left()
	case FaceRight:
		p.X = r.Right()
	case FaceTop:
		p.Y = r.Top()
	case FaceBottom:
		p.Y = r.Bottom()
	}
	return p
}

// Reflect returns v with the face-normal component pointing out of the face,
// scaled by damping.
func (f Face) Reflect(v Vec2, damping float64) Vec2 {
	switch f {
	case FaceLeft:
		v.X = -math.Abs(v.X) * damping
	case FaceRight:
		v.X = math.Abs(v.X) * damping
	case FaceTop:
		v.Y = -math.Abs(v.Y) * damping
	case FaceBottom:
		v.Y = math.Abs(v.Y) * damping
	}
	return v
}
