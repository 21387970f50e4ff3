package scene

import (
	"github.com/Faultbox/midgard-scene/pkg/bounds"
	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/spatial"
)

// Geometry is an ordered list of primitive sets sharing one local frame.
type Geometry struct {
	ID         string
	Name       string
	Primitives []*PrimitiveSet
}

// NewGeometry creates an empty geometry.
func NewGeometry(id, name string) *Geometry {
	return &Geometry{ID: id, Name: name}
}

// Add appends a primitive set.
func (g *Geometry) Add(p *PrimitiveSet) {
	g.Primitives = append(g.Primitives, p)
}

// TriangleCount returns the triangle total across all sets.
func (g *Geometry) TriangleCount() int {
	n := 0
	for _, p := range g.Primitives {
		n += p.TriangleCount()
	}
	return n
}

// VertexCount returns the expanded vertex total across all sets.
func (g *Geometry) VertexCount() int {
	n := 0
	for _, p := range g.Primitives {
		n += p.VertexCount()
	}
	return n
}

// BoundingSphere returns a sphere enclosing every set's current sphere.
func (g *Geometry) BoundingSphere() bounds.Sphere {
	merged := bounds.NewSphere(nil)
	for _, p := range g.Primitives {
		merged = merged.Merge(p.BoundingSphere())
	}
	return merged
}

// AABB returns the axis-aligned extrema of every set's current box corners.
func (g *Geometry) AABB() (lo, hi math.Vec3, ok bool) {
	for _, p := range g.Primitives {
		b := p.BoundingBox()
		if b.IsEmpty() {
			continue
		}
		bl, bh := b.AABB()
		if !ok {
			lo, hi, ok = bl, bh, true
			continue
		}
		lo = lo.Min(bl)
		hi = hi.Max(bh)
	}
	return lo, hi, ok
}

// EnclosureIntersectsRay reports whether the ray hits any set's bounding
// sphere. It stops at the first hit.
func (g *Geometry) EnclosureIntersectsRay(origin, dir math.Vec3) bool {
	for _, p := range g.Primitives {
		s := p.BoundingSphere()
		if s.IsEmpty() {
			continue
		}
		if _, hit := spatial.RaySphere(origin, dir, s.Center(), s.Radius()); hit {
			return true
		}
	}
	return false
}

// EnclosureDistance returns the nearest ray parameter over all set spheres.
func (g *Geometry) EnclosureDistance(origin, dir math.Vec3) (float32, bool) {
	var best float32
	found := false
	for _, p := range g.Primitives {
		s := p.BoundingSphere()
		if s.IsEmpty() {
			continue
		}
		if t, hit := spatial.RaySphere(origin, dir, s.Center(), s.Radius()); hit && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// TriangleIntersectsRay tests the ray against the triangles of every
// triangle set, positions only, stopping at the first hit. Origin and
// direction must be in the geometry's local space.
func (g *Geometry) TriangleIntersectsRay(origin, dir math.Vec3) bool {
	for _, p := range g.Primitives {
		if p.intersectsRay(origin, dir) {
			return true
		}
	}
	return false
}

// NearestTriangleHit returns the smallest ray parameter over all triangles.
func (g *Geometry) NearestTriangleHit(origin, dir math.Vec3) (float32, bool) {
	var best float32
	found := false
	for _, p := range g.Primitives {
		if t, hit := p.nearestHit(origin, dir); hit && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// Clone shares vertex, normal and texcoord streams with g but copies
// materials and bounding volumes, which are mutated per instance.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	c := &Geometry{ID: g.ID, Name: g.Name, Primitives: make([]*PrimitiveSet, len(g.Primitives))}
	for i, p := range g.Primitives {
		c.Primitives[i] = p.clone()
	}
	return c
}

func (g *Geometry) place(f Frame) {
	for _, p := range g.Primitives {
		p.place(f)
	}
}
