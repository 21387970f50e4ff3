// Package bounds provides the enclosing volumes kept per primitive set: a
// bounding sphere and an axis-aligned bounding box, both derived once from a
// vertex stream and then re-projected as the owning node moves.
package bounds

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Sphere is a bounding sphere. The local center and the longest vector are
// computed once from the vertices; translation, scale and rotation are applied
// on top of them so repeated updates never drift.
type Sphere struct {
	localCenter math.Vec3
	longest     math.Vec3 // farthest vertex minus local center

	position math.Vec3
	scale    math.Vec3
	rotation math.Mat4

	center math.Vec3
	radius float32
	empty  bool
}

// NewSphere computes a sphere from a flat xyz vertex stream. The center is
// the midpoint of the axis-aligned extrema and the radius is the distance to
// the farthest vertex.
func NewSphere(vertices []float32) Sphere {
	s := Sphere{
		scale:    math.V3(1, 1, 1),
		rotation: math.Identity(),
	}
	if len(vertices) < 3 {
		s.empty = true
		return s
	}

	lo, hi := extrema(vertices)
	s.localCenter = lo.Add(hi).Scale(0.5)

	var farthest float32
	for i := 0; i+2 < len(vertices); i += 3 {
		d := math.Vec3FromSlice(vertices, i).Sub(s.localCenter)
		if l := d.LengthSq(); l > farthest {
			farthest = l
			s.longest = d
		}
	}
	s.refresh()
	return s
}

// NewSphereAt returns a sphere with the given local center and radius.
func NewSphereAt(center math.Vec3, radius float32) Sphere {
	s := Sphere{
		localCenter: center,
		longest:     math.V3(radius, 0, 0),
		scale:       math.V3(1, 1, 1),
		rotation:    math.Identity(),
	}
	s.refresh()
	return s
}

// IsEmpty reports whether the sphere was built from no vertices.
func (s *Sphere) IsEmpty() bool {
	return s.empty
}

// Center returns the current center.
func (s *Sphere) Center() math.Vec3 {
	return s.center
}

// Radius returns the current radius.
func (s *Sphere) Radius() float32 {
	return s.radius
}

// LocalCenter returns the center computed from the vertex stream.
func (s *Sphere) LocalCenter() math.Vec3 {
	return s.localCenter
}

// LongestVector returns the offset from the local center to the farthest vertex.
func (s *Sphere) LongestVector() math.Vec3 {
	return s.longest
}

// Position returns the accumulated translation.
func (s *Sphere) Position() math.Vec3 {
	return s.position
}

// Translate moves the sphere by delta.
func (s *Sphere) Translate(delta math.Vec3) {
	s.position = s.position.Add(delta)
	s.refresh()
}

// SetPosition places the sphere's local origin at p.
func (s *Sphere) SetPosition(p math.Vec3) {
	s.position = p
	s.refresh()
}

// Scale sets the scale. The radius becomes |longest| times the largest
// absolute scale component, so a non-uniform scale yields a sphere that is
// exact along the dominant axis and loose along the others.
func (s *Sphere) Scale(scale math.Vec3) {
	s.scale = scale
	s.refresh()
}

// Rotate sets the rotation and re-projects the center with it.
func (s *Sphere) Rotate(m math.Mat4) {
	s.rotation = m
	s.refresh()
}

// Contains reports whether p lies within radius+eps of the center.
func (s *Sphere) Contains(p math.Vec3, eps float32) bool {
	return p.Distance(s.center) <= s.radius+eps
}

// Merge returns a sphere enclosing both s and other in their current pose.
func (s *Sphere) Merge(other *Sphere) Sphere {
	if other.empty {
		return *s
	}
	if s.empty {
		return *other
	}
	d := other.center.Sub(s.center)
	dist := d.Length()
	switch {
	case dist+other.radius <= s.radius:
		return *s
	case dist+s.radius <= other.radius:
		return *other
	}
	r := (dist + s.radius + other.radius) / 2
	c := s.center.Add(d.Scale((r - s.radius) / dist))
	return NewSphereAt(c, r)
}

func (s *Sphere) refresh() {
	offset := s.rotation.TransformDirection(s.localCenter.Mul(s.scale))
	s.center = s.position.Add(offset)
	s.radius = s.longest.Length() * s.scale.Abs().MaxComponent()
}

func extrema(vertices []float32) (lo, hi math.Vec3) {
	inf := math32.Inf(1)
	lo = math.V3(inf, inf, inf)
	hi = math.V3(-inf, -inf, -inf)
	for i := 0; i+2 < len(vertices); i += 3 {
		v := math.Vec3FromSlice(vertices, i)
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}
