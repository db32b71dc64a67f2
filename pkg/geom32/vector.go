// Package geom32 provides the small float32 vector and dimension types used
// throughout the layout solver. It mirrors the shape of the teacher's
// math32.Vector2 / math32.Dims API (SetDim, Dim, Ceil, Floor, component-wise
// clamps) since the teacher's own math32 package was not part of the
// retrieved reference slice.
package geom32

import "github.com/chewxy/math32"

// Dims identifies one of the two layout axes.
type Dims int32

const (
	X Dims = iota
	Y
)

// Other returns the cross axis.
func (d Dims) Other() Dims {
	if d == X {
		return Y
	}
	return X
}

func (d Dims) String() string {
	if d == X {
		return "X"
	}
	return "Y"
}

// Vector2 is a two-dimensional float32 vector, used for sizes, positions and
// offsets everywhere in the solver.
type Vector2 struct {
	X, Y float32
}

// Vec2 constructs a Vector2.
func Vec2(x, y float32) Vector2 { return Vector2{x, y} }

// Dim returns the component along the given axis.
func (v Vector2) Dim(d Dims) float32 {
	if d == X {
		return v.X
	}
	return v.Y
}

// SetDim sets the component along the given axis.
func (v *Vector2) SetDim(d Dims, val float32) {
	if d == X {
		v.X = val
	} else {
		v.Y = val
	}
}

func (v *Vector2) SetZero() { v.X, v.Y = 0, 0 }

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Mul(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }

func (v Vector2) Ceil() Vector2  { return Vector2{math32.Ceil(v.X), math32.Ceil(v.Y)} }
func (v Vector2) Floor() Vector2 { return Vector2{math32.Floor(v.X), math32.Floor(v.Y)} }

// SetMax sets each component to the max of itself and o's component.
func (v *Vector2) SetMax(o Vector2) {
	v.X = Max(v.X, o.X)
	v.Y = Max(v.Y, o.Y)
}

// SetMin sets each component to the min of itself and o's component.
func (v *Vector2) SetMin(o Vector2) {
	v.X = Min(v.X, o.X)
	v.Y = Min(v.Y, o.Y)
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampMinVector raises each component of v up to at least mn's component.
func ClampMinVector(v *Vector2, mn Vector2) {
	v.X = Max(v.X, mn.X)
	v.Y = Max(v.Y, mn.Y)
}

// ClampMaxVector lowers each component of v down to at most mx's component,
// ignoring non-positive (unset) max values, matching the teacher's
// styles.SetClampMaxVector convention of treating Max==0 as "unconstrained".
func ClampMaxVector(v *Vector2, mx Vector2) {
	if mx.X > 0 {
		v.X = Min(v.X, mx.X)
	}
	if mx.Y > 0 {
		v.Y = Min(v.Y, mx.Y)
	}
}

// Rect is an axis-aligned rectangle in layout (logical pixel) coordinates.
type Rect struct {
	Pos  Vector2
	Size Vector2
}

func RectFromPosSize(pos, size Vector2) Rect { return Rect{Pos: pos, Size: size} }

func (r Rect) Max() Vector2 { return r.Pos.Add(r.Size) }

func (r Rect) Dim(d Dims) (min, max float32) {
	return r.Pos.Dim(d), r.Pos.Dim(d) + r.Size.Dim(d)
}

// Intersect returns the intersection of r and o; zero-sized if disjoint.
func (r Rect) Intersect(o Rect) Rect {
	rmax, omax := r.Max(), o.Max()
	minx, miny := Max(r.Pos.X, o.Pos.X), Max(r.Pos.Y, o.Pos.Y)
	maxx, maxy := Min(rmax.X, omax.X), Min(rmax.Y, omax.Y)
	if maxx < minx {
		maxx = minx
	}
	if maxy < miny {
		maxy = miny
	}
	return Rect{Pos: Vec2(minx, miny), Size: Vec2(maxx-minx, maxy-miny)}
}

func Sqrt(v float32) float32 { return math32.Sqrt(v) }
func Abs(v float32) float32  { return math32.Abs(v) }
func Round(v float32) float32 { return math32.Round(v) }
