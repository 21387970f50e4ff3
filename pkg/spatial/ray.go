// Package spatial provides the geometric predicates behind culling and
// picking: rays, planes, frustums and their intersection tests.
package spatial

import (
	stdmath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction. Origin and
// direction must be expressed in the same space.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IsDegenerate reports whether the direction has zero length.
func (r Ray) IsDegenerate() bool {
	return r.Direction.IsZero()
}

// Transform maps the ray through m. The direction is not renormalized, so a
// parameter t found against the transformed ray addresses the same point as
// t on the original one.
func (r Ray) Transform(m math.Mat4) Ray {
	return Ray{
		Origin:    m.TransformPoint(r.Origin),
		Direction: m.TransformDirection(r.Direction),
	}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screen is in pixels, viewport is the viewport size in pixels and
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screen, viewport math.Vec2, invViewProj math.Mat4) Ray {
	// Normalized device coordinates (-1 to 1), Y flipped
	ndcX := 2*screen.X/viewport.X - 1
	ndcY := 1 - 2*screen.Y/viewport.Y

	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return NewRay(nearWorld, farWorld.Sub(nearWorld))
}

// UnprojectRay builds the pick ray for a screen position from the camera's
// projection and view matrices. It fails with math.ErrSingularTransform when
// projection*view cannot be inverted.
func UnprojectRay(screen, viewport math.Vec2, proj, view math.Mat4) (Ray, error) {
	inv, err := proj.Mul(view).Invert()
	if err != nil {
		return Ray{}, err
	}
	return ScreenToRay(screen, viewport, inv), nil
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		return math.V3(w[0]/w[3], w[1]/w[3], w[2]/w[3])
	}
	return math.V3(w[0], w[1], w[2])
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false // parallel
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // behind origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB tests ray intersection with an axis-aligned box given by its
// extrema. Returns the distance to the entry point, or the exit distance when
// the ray starts inside the box.
func (r Ray) IntersectAABB(lo, hi math.Vec3) (t float32, hit bool) {
	tmin := float32(-stdmath.MaxFloat32)
	tmax := float32(stdmath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	boxMin := lo.Array()
	boxMax := hi.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < boxMin[axis] || origin[axis] > boxMax[axis] {
				return 0, false
			}
			continue
		}
		t1 := (boxMin[axis] - origin[axis]) / dir[axis]
		t2 := (boxMax[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectSphere is RaySphere against this ray.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (float32, bool) {
	return RaySphere(r.Origin, r.Direction, center, radius)
}

// IntersectTriangle is RayTriangle against this ray.
func (r Ray) IntersectTriangle(v0, v1, v2 math.Vec3) (float32, bool) {
	return RayTriangle(r.Origin, r.Direction, v0, v1, v2)
}
