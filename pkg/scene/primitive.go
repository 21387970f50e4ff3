package scene

import (
	"github.com/Faultbox/midgard-scene/pkg/bounds"
	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/spatial"
)

// Topology is the face layout of a primitive set.
type Topology int

const (
	Triangles Topology = iota
	Lines
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

// PrimitiveSet is one expanded, non-indexed mesh fragment. Positions and
// normals are xyz triplets, texcoords uv pairs, all index-aligned. The
// streams are shared between clones and must be treated as read-only.
type PrimitiveSet struct {
	Topology  Topology
	Vertices  []float32
	Normals   []float32
	TexCoords []float32

	MaterialSymbol string
	Material       *Material // nil leaves shading to the renderer default
	TexturePath    string

	sphere bounds.Sphere
	box    bounds.Box
}

// NewPrimitiveSet builds a primitive set and computes its bounding volumes.
func NewPrimitiveSet(topology Topology, vertices, normals, texcoords []float32) *PrimitiveSet {
	return &PrimitiveSet{
		Topology:  topology,
		Vertices:  vertices,
		Normals:   normals,
		TexCoords: texcoords,
		sphere:    bounds.NewSphere(vertices),
		box:       bounds.NewBox(vertices),
	}
}

// BoundingSphere returns the sphere scoped to this set's vertices.
func (p *PrimitiveSet) BoundingSphere() *bounds.Sphere {
	return &p.sphere
}

// BoundingBox returns the box scoped to this set's vertices.
func (p *PrimitiveSet) BoundingBox() *bounds.Box {
	return &p.box
}

// VertexCount returns the number of expanded vertices.
func (p *PrimitiveSet) VertexCount() int {
	return len(p.Vertices) / 3
}

// TriangleCount returns the number of triangles, zero for line sets.
func (p *PrimitiveSet) TriangleCount() int {
	if p.Topology != Triangles {
		return 0
	}
	return p.VertexCount() / 3
}

// Triangle returns the positions of triangle i.
func (p *PrimitiveSet) Triangle(i int) (v0, v1, v2 math.Vec3) {
	base := i * 9
	return math.Vec3FromSlice(p.Vertices, base),
		math.Vec3FromSlice(p.Vertices, base+3),
		math.Vec3FromSlice(p.Vertices, base+6)
}

// BindMaterial attaches a resolved material and copies its texture path.
func (p *PrimitiveSet) BindMaterial(m *Material) {
	p.Material = m
	if m != nil {
		p.TexturePath = m.TexturePath()
	}
}

// place moves both volumes to the given frame.
func (p *PrimitiveSet) place(f Frame) {
	origin := f.Matrix.Translation()
	p.sphere.SetPosition(origin)
	p.sphere.Scale(f.Scale)
	p.sphere.Rotate(f.Rotation)
	p.box.SetPosition(origin)
	p.box.Scale(f.Scale)
	p.box.Rotate(f.Rotation)
}

// clone shares the streams and copies material and volumes.
func (p *PrimitiveSet) clone() *PrimitiveSet {
	c := *p
	c.Material = p.Material.Clone()
	return &c
}

// intersectsRay reports whether the ray meets any triangle, stopping at the first.
func (p *PrimitiveSet) intersectsRay(origin, dir math.Vec3) bool {
	for i := 0; i < p.TriangleCount(); i++ {
		v0, v1, v2 := p.Triangle(i)
		if _, hit := spatial.RayTriangle(origin, dir, v0, v1, v2); hit {
			return true
		}
	}
	return false
}

// nearestHit returns the smallest ray parameter over all triangles.
func (p *PrimitiveSet) nearestHit(origin, dir math.Vec3) (float32, bool) {
	var best float32
	found := false
	for i := 0; i < p.TriangleCount(); i++ {
		v0, v1, v2 := p.Triangle(i)
		if t, hit := spatial.RayTriangle(origin, dir, v0, v1, v2); hit && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}
