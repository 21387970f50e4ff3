package spatial

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// TriangleTolerance is the relative slack allowed when comparing a triangle's
// area with the sum of the sub-triangles formed with the hit point.
const TriangleTolerance = 1e-4

// RaySphere solves a·t² + b·t + c = 0 for the ray origin + t·dir against the
// sphere. It hits when the discriminant is non-negative and the larger root is
// not behind the origin. t is the nearer root, or 0 when the origin is inside.
// A zero direction never hits.
func RaySphere(origin, dir, center math.Vec3, radius float32) (t float32, hit bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	oc := origin.Sub(center)
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return 0, true
	}
	return t0, true
}

// RayTriangle intersects the ray with the plane of v0,v1,v2 and accepts the
// hit when the areas of the three sub-triangles formed with the hit point add
// up to the triangle's own area. Parallel rays, degenerate triangles and hits
// behind the origin are misses.
func RayTriangle(origin, dir, v0, v1, v2 math.Vec3) (t float32, hit bool) {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	area := n.Length() / 2
	if area == 0 {
		return 0, false
	}
	denom := n.Dot(dir)
	if denom == 0 {
		return 0, false
	}
	t = n.Dot(v0.Sub(origin)) / denom
	if t < 0 {
		return 0, false
	}

	p := origin.Add(dir.Scale(t))
	sum := triangleArea(p, v0, v1) + triangleArea(p, v1, v2) + triangleArea(p, v2, v0)
	if math32.Abs(sum-area) > TriangleTolerance*area {
		return 0, false
	}
	return t, true
}

// TriangleArea returns the area of the triangle a,b,c.
func TriangleArea(a, b, c math.Vec3) float32 {
	return triangleArea(a, b, c)
}

func triangleArea(a, b, c math.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}
