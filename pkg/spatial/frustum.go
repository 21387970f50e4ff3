package spatial

import "github.com/Faultbox/midgard-scene/pkg/math"

// Visibility is the result of classifying a volume against a frustum.
type Visibility int

const (
	Inside Visibility = iota
	Outside
)

// String returns a human-readable classification.
func (v Visibility) String() string {
	switch v {
	case Inside:
		return "INSIDE"
	case Outside:
		return "OUTSIDE"
	default:
		return "UNKNOWN"
	}
}

// Plane is ax + by + cz + d = 0 with a unit normal pointing into the
// half-space considered inside.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// NewPlane returns the plane from raw coefficients, normalized.
func NewPlane(a, b, c, d float32) Plane {
	n := math.V3(a, b, c)
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Scale(1 / l), D: d / l}
}

// Distance returns the signed distance from the plane to p.
func (p Plane) Distance(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum holds the six clip planes of a view volume, normals pointing inward.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum extracts the planes from a combined projection*view matrix
// (Gribb/Hartmann): each plane is row 3 plus or minus row 0, 1 or 2.
func NewFrustum(projView math.Mat4) Frustum {
	r0, r1, r2, r3 := projView.Row(0), projView.Row(1), projView.Row(2), projView.Row(3)
	plane := func(a math.Vec4, sign float32) Plane {
		return NewPlane(
			r3[0]+sign*a[0],
			r3[1]+sign*a[1],
			r3[2]+sign*a[2],
			r3[3]+sign*a[3],
		)
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(r0, 1)
	f.Planes[FrustumRight] = plane(r0, -1)
	f.Planes[FrustumBottom] = plane(r1, 1)
	f.Planes[FrustumTop] = plane(r1, -1)
	f.Planes[FrustumNear] = plane(r2, 1)
	f.Planes[FrustumFar] = plane(r2, -1)
	return f
}

// SphereInFrustum classifies a sphere. It is Outside as soon as one plane has
// the center at a signed distance of -radius or less.
func (f *Frustum) SphereInFrustum(center math.Vec3, radius float32) Visibility {
	for i := range f.Planes {
		if f.Planes[i].Distance(center) <= -radius {
			return Outside
		}
	}
	return Inside
}

// BoxInFrustum classifies an axis-aligned box given by center and half size.
// It is Outside when all eight corners are behind a single plane. The test is
// conservative: some boxes reported Inside are actually outside.
func (f *Frustum) BoxInFrustum(center, half math.Vec3) Visibility {
	for i := range f.Planes {
		p := &f.Planes[i]
		behind := 0
		for c := 0; c < 8; c++ {
			corner := center
			corner.X += signed(half.X, c&1 != 0)
			corner.Y += signed(half.Y, c&2 != 0)
			corner.Z += signed(half.Z, c&4 != 0)
			if p.Distance(corner) < 0 {
				behind++
			}
		}
		if behind == 8 {
			return Outside
		}
	}
	return Inside
}

// PointInFrustum reports whether p is on the inner side of every plane.
func (f *Frustum) PointInFrustum(p math.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

func signed(v float32, positive bool) float32 {
	if positive {
		return v
	}
	return -v
}
