package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

func testCamera() (proj, view math.Mat4) {
	proj = math.Perspective(math.DegToRad(60), 1, 0.1, 100)
	view = math.LookAt(math.V3(0, 0, 10), math.V3(0, 0, 0), math.V3(0, 1, 0))
	return proj, view
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		center math.Vec3
		radius float32
		hit    bool
		t      float32
	}{
		{"through center", math.V3(0, 0, -10), math.V3(0, 0, 1), math.V3(0, 0, 0), 1, true, 9},
		{"closest approach beyond radius", math.V3(0, 0, -10), math.V3(0, 0, 1), math.V3(5, 0, 0), 1, false, 0},
		{"sphere behind origin", math.V3(0, 0, 10), math.V3(0, 0, 1), math.V3(0, 0, 0), 1, false, 0},
		{"origin inside", math.V3(0, 0, 0.5), math.V3(0, 0, 1), math.V3(0, 0, 0), 1, true, 0},
		{"tangent", math.V3(1, 0, -10), math.V3(0, 0, 1), math.V3(0, 0, 0), 1, true, 10},
		{"zero direction", math.V3(0, 0, -10), math.V3(0, 0, 0), math.V3(0, 0, 0), 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := RaySphere(tt.origin, tt.dir, tt.center, tt.radius)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.t, got, 1e-4)
			}
		})
	}
}

func TestRayTriangle(t *testing.T) {
	v0, v1, v2 := math.V3(0, 0, 0), math.V3(1, 0, 0), math.V3(0, 1, 0)
	dir := math.V3(0, 0, 1)

	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		hit    bool
	}{
		{"inside", math.V3(0.2, 0.2, -1), dir, true},
		{"outside", math.V3(5, 5, -1), dir, false},
		{"on edge", math.V3(0.5, 0, -1), dir, true},
		{"just past hypotenuse", math.V3(0.51, 0.51, -1), dir, false},
		{"parallel", math.V3(0.2, 0.2, -1), math.V3(1, 0, 0), false},
		{"behind origin", math.V3(0.2, 0.2, 1), dir, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hit := RayTriangle(tt.origin, tt.dir, v0, v1, v2)
			assert.Equal(t, tt.hit, hit)
		})
	}

	d, hit := RayTriangle(math.V3(0.2, 0.2, -1), dir, v0, v1, v2)
	require.True(t, hit)
	assert.InDelta(t, 1, d, 1e-6)
}

func TestRayTriangleDegenerate(t *testing.T) {
	_, hit := RayTriangle(math.V3(0, 0, -1), math.V3(0, 0, 1),
		math.V3(0, 0, 0), math.V3(1, 0, 0), math.V3(2, 0, 0))
	assert.False(t, hit, "collinear vertices never hit")
}

func TestTriangleArea(t *testing.T) {
	assert.InDelta(t, 0.5, TriangleArea(math.V3(0, 0, 0), math.V3(1, 0, 0), math.V3(0, 1, 0)), 1e-6)
}

func TestIntersectAABB(t *testing.T) {
	lo, hi := math.V3(-1, -1, -1), math.V3(1, 1, 1)

	d, hit := NewRay(math.V3(0, 0, -5), math.V3(0, 0, 1)).IntersectAABB(lo, hi)
	require.True(t, hit)
	assert.InDelta(t, 4, d, 1e-6)

	d, hit = NewRay(math.V3(0, 0, 0), math.V3(1, 0, 0)).IntersectAABB(lo, hi)
	require.True(t, hit, "ray starting inside exits the box")
	assert.InDelta(t, 1, d, 1e-6)

	_, hit = NewRay(math.V3(3, 0, -5), math.V3(0, 0, 1)).IntersectAABB(lo, hi)
	assert.False(t, hit)

	_, hit = NewRay(math.V3(0, 0, 5), math.V3(0, 0, 1)).IntersectAABB(lo, hi)
	assert.False(t, hit, "box behind the ray")
}

func TestIntersectPlaneY(t *testing.T) {
	x, z, ok := NewRay(math.V3(1, 10, 2), math.V3(0, -1, 0)).IntersectPlaneY(0)
	require.True(t, ok)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(2), z)

	_, _, ok = NewRay(math.V3(0, 10, 0), math.V3(1, 0, 0)).IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestRayTransformKeepsParameter(t *testing.T) {
	r := NewRay(math.V3(0, 0, -10), math.V3(0, 0, 1))
	m := math.Scale(math.V3(2, 2, 2))
	local := r.Transform(m)

	assert.Equal(t, m.TransformPoint(r.At(3)), local.At(3))
}

func TestNewFrustumIdentity(t *testing.T) {
	f := NewFrustum(math.Identity())

	assert.True(t, f.PointInFrustum(math.V3(0, 0, 0)))
	assert.False(t, f.PointInFrustum(math.V3(2, 0, 0)))
	assert.InDelta(t, 1, f.Planes[FrustumLeft].Normal.X, 1e-6)
	assert.InDelta(t, -1, f.Planes[FrustumRight].Normal.X, 1e-6)
}

func TestSphereInFrustum(t *testing.T) {
	proj, view := testCamera()
	f := NewFrustum(proj.Mul(view))

	assert.Equal(t, Inside, f.SphereInFrustum(math.V3(0, 0, 0), 1), "look-at target")
	assert.Equal(t, Outside, f.SphereInFrustum(math.V3(0, 0, 50), 1), "behind the camera")
	assert.Equal(t, Outside, f.SphereInFrustum(math.V3(0, 0, -500), 1), "beyond the far plane")
	assert.Equal(t, Outside, f.SphereInFrustum(math.V3(100, 0, 0), 1), "off to the side")
	assert.Equal(t, Inside, f.SphereInFrustum(math.V3(0, 0, 12), 3), "straddles the near plane")
}

func TestBoxInFrustum(t *testing.T) {
	proj, view := testCamera()
	f := NewFrustum(proj.Mul(view))

	assert.Equal(t, Inside, f.BoxInFrustum(math.V3(0, 0, 0), math.V3(1, 1, 1)))
	assert.Equal(t, Outside, f.BoxInFrustum(math.V3(0, 0, 50), math.V3(1, 1, 1)))
	assert.Equal(t, Inside, f.BoxInFrustum(math.V3(0, 0, 50), math.V3(1, 1, 45)), "long box reaching into view")
}

func TestVisibilityString(t *testing.T) {
	assert.Equal(t, "INSIDE", Inside.String())
	assert.Equal(t, "OUTSIDE", Outside.String())
	assert.Equal(t, "UNKNOWN", Visibility(7).String())
}

func TestScreenToRayCenter(t *testing.T) {
	proj, view := testCamera()
	r, err := UnprojectRay(math.Vec2{X: 400, Y: 300}, math.Vec2{X: 800, Y: 600}, proj, view)
	require.NoError(t, err)

	assert.True(t, r.Direction.ApproxEqual(math.V3(0, 0, -1), 1e-4), "direction %v", r.Direction)
	assert.InDelta(t, 9.9, r.Origin.Z, 1e-3, "origin on the near plane")

	_, hit := r.IntersectSphere(math.V3(0, 0, 0), 1)
	assert.True(t, hit)
}

func TestUnprojectRaySingular(t *testing.T) {
	_, err := UnprojectRay(math.Vec2{}, math.Vec2{X: 1, Y: 1}, math.Mat4{}, math.Identity())
	assert.ErrorIs(t, err, math.ErrSingularTransform)
}
