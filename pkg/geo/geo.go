// Package geo provides the small set of 3D vector and bounding-box
// primitives the deconfliction engine builds on. It plays the role the
// teacher's pkg/math plays for 2D radar geometry, generalized to three
// spatial dimensions and float64 (the engine deals in absolute meters and
// seconds, where vice's float32 screen-space precision doesn't apply).
package geo

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec3 is a point or vector in meters.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Normalized returns a unit vector in the direction of a, or the zero
// vector if a is (numerically) zero-length.
func (a Vec3) Normalized() Vec3 {
	l := a.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) Lerp(t float64, b Vec3) Vec3 {
	return Vec3{
		X: Lerp(t, a.X, b.X),
		Y: Lerp(t, a.Y, b.Y),
		Z: Lerp(t, a.Z, b.Z),
	}
}

// Lerp interpolates x in [a,b] at parameter t (0 at a, 1 at b).
func Lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// Clamp restricts x to [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Extent3 is an axis-aligned 3D bounding box, min/max corner represented.
type Extent3 struct {
	Min, Max Vec3
}

// EmptyExtent3 returns a degenerate extent that Union-ing any point will
// immediately replace.
func EmptyExtent3() Extent3 {
	const inf = 1e30
	return Extent3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Extent3FromPoints returns the tightest box bounding all of pts.
func Extent3FromPoints(pts []Vec3) Extent3 {
	e := EmptyExtent3()
	for _, p := range pts {
		e = e.Union(p)
	}
	return e
}

func (e Extent3) Union(p Vec3) Extent3 {
	return Extent3{
		Min: Vec3{min(e.Min.X, p.X), min(e.Min.Y, p.Y), min(e.Min.Z, p.Z)},
		Max: Vec3{max(e.Max.X, p.X), max(e.Max.Y, p.Y), max(e.Max.Z, p.Z)},
	}
}

// Expand grows the box by d on all six faces.
func (e Extent3) Expand(d float64) Extent3 {
	off := Vec3{d, d, d}
	return Extent3{Min: e.Min.Sub(off), Max: e.Max.Add(off)}
}

// Overlaps reports whether two boxes share any volume, inclusive of
// touching faces.
func Overlaps(a, b Extent3) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}
