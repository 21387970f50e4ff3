package bounds

import "github.com/Faultbox/midgard-scene/pkg/math"

// Box is a bounding box built from the axis-aligned local extrema of a vertex
// stream. Its eight corners follow the owning node's translation, scale and
// rotation, so after a rotation the corners describe an oriented box.
type Box struct {
	min, max math.Vec3

	position math.Vec3
	scale    math.Vec3
	rotation math.Mat4

	corners [8]math.Vec3
	empty   bool
}

// NewBox computes a box from a flat xyz vertex stream.
func NewBox(vertices []float32) Box {
	b := Box{
		scale:    math.V3(1, 1, 1),
		rotation: math.Identity(),
	}
	if len(vertices) < 3 {
		b.empty = true
		return b
	}
	b.min, b.max = extrema(vertices)
	b.refresh()
	return b
}

// NewBoxFromExtents returns a box with the given local extrema.
func NewBoxFromExtents(lo, hi math.Vec3) Box {
	b := Box{
		min:      lo.Min(hi),
		max:      lo.Max(hi),
		scale:    math.V3(1, 1, 1),
		rotation: math.Identity(),
	}
	b.refresh()
	return b
}

// IsEmpty reports whether the box was built from no vertices.
func (b *Box) IsEmpty() bool {
	return b.empty
}

// LocalMin returns the local minimum corner.
func (b *Box) LocalMin() math.Vec3 {
	return b.min
}

// LocalMax returns the local maximum corner.
func (b *Box) LocalMax() math.Vec3 {
	return b.max
}

// Translate moves the box by delta.
func (b *Box) Translate(delta math.Vec3) {
	b.position = b.position.Add(delta)
	b.refresh()
}

// SetPosition places the box's local origin at p.
func (b *Box) SetPosition(p math.Vec3) {
	b.position = p
	b.refresh()
}

// Scale sets the per-axis scale.
func (b *Box) Scale(scale math.Vec3) {
	b.scale = scale
	b.refresh()
}

// Rotate sets the rotation; all eight corners are re-projected.
func (b *Box) Rotate(m math.Mat4) {
	b.rotation = m
	b.refresh()
}

// Center returns the current center.
func (b *Box) Center() math.Vec3 {
	local := b.min.Add(b.max).Scale(0.5)
	return b.position.Add(b.rotation.TransformDirection(local.Mul(b.scale)))
}

// HalfExtents returns half the scaled size along the box's own axes.
func (b *Box) HalfExtents() math.Vec3 {
	return b.max.Sub(b.min).Scale(0.5).Mul(b.scale.Abs())
}

// Corners returns the eight current corners. Index bit 0 selects max X,
// bit 1 max Y and bit 2 max Z.
func (b *Box) Corners() [8]math.Vec3 {
	return b.corners
}

// AABB returns the axis-aligned extrema of the current corners.
func (b *Box) AABB() (lo, hi math.Vec3) {
	lo, hi = b.corners[0], b.corners[0]
	for _, c := range b.corners[1:] {
		lo = lo.Min(c)
		hi = hi.Max(c)
	}
	return lo, hi
}

// Contains reports whether p lies inside the current box, allowing eps slack.
func (b *Box) Contains(p math.Vec3, eps float32) bool {
	inv, err := b.rotation.Invert()
	if err != nil {
		return false
	}
	local := inv.TransformDirection(p.Sub(b.position))
	lo := b.min.Mul(b.scale).Min(b.max.Mul(b.scale))
	hi := b.min.Mul(b.scale).Max(b.max.Mul(b.scale))
	return local.X >= lo.X-eps && local.X <= hi.X+eps &&
		local.Y >= lo.Y-eps && local.Y <= hi.Y+eps &&
		local.Z >= lo.Z-eps && local.Z <= hi.Z+eps
}

// boxEdges lists the 12 edges as corner index pairs.
var boxEdges = [12][2]int{
	// Bottom face
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	// Top face
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	// Vertical edges
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// Edges returns a line list (24 endpoints, xyz each) tracing the box, for
// debug wireframes.
func (b *Box) Edges() []float32 {
	out := make([]float32, 0, len(boxEdges)*6)
	for _, e := range boxEdges {
		p, q := b.corners[e[0]], b.corners[e[1]]
		out = append(out, p.X, p.Y, p.Z, q.X, q.Y, q.Z)
	}
	return out
}

func (b *Box) refresh() {
	for i := range b.corners {
		c := b.min
		if i&1 != 0 {
			c.X = b.max.X
		}
		if i&2 != 0 {
			c.Y = b.max.Y
		}
		if i&4 != 0 {
			c.Z = b.max.Z
		}
		b.corners[i] = b.position.Add(b.rotation.TransformDirection(c.Mul(b.scale)))
	}
}
