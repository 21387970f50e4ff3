package collada

import (
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// UpAxis is the document's declared up direction. The scene graph is always
// Y-up; other axes are corrected when values are read.
type UpAxis int

const (
	YUp UpAxis = iota
	ZUp
	XUp
)

// ParseUpAxis maps an up_axis value to an UpAxis, defaulting to YUp.
func ParseUpAxis(s string) UpAxis {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Z_UP":
		return ZUp
	case "X_UP":
		return XUp
	default:
		return YUp
	}
}

func (a UpAxis) String() string {
	switch a {
	case ZUp:
		return "Z_UP"
	case XUp:
		return "X_UP"
	default:
		return "Y_UP"
	}
}

// Vec converts a position, direction or rotation axis to Y-up.
func (a UpAxis) Vec(v math.Vec3) math.Vec3 {
	switch a {
	case ZUp:
		return math.V3(v.X, v.Z, -v.Y)
	case XUp:
		return math.V3(-v.Y, v.X, v.Z)
	default:
		return v
	}
}

// ScaleVec permutes scale factors without changing their sign.
func (a UpAxis) ScaleVec(v math.Vec3) math.Vec3 {
	switch a {
	case ZUp:
		return math.V3(v.X, v.Z, v.Y)
	case XUp:
		return math.V3(v.Y, v.X, v.Z)
	default:
		return v
	}
}

// Matrix conjugates a document matrix into Y-up space.
func (a UpAxis) Matrix(m math.Mat4) math.Mat4 {
	if a == YUp {
		return m
	}
	p := a.permutation()
	return p.Mul(m).Mul(p.Transpose())
}

// permutation is the rotation taking document axes to Y-up axes.
func (a UpAxis) permutation() math.Mat4 {
	switch a {
	case ZUp:
		return math.FromAxes(math.V3(1, 0, 0), math.V3(0, 0, -1), math.V3(0, 1, 0), math.Vec3{})
	case XUp:
		return math.FromAxes(math.V3(0, 1, 0), math.V3(-1, 0, 0), math.V3(0, 0, 1), math.Vec3{})
	default:
		return math.Identity()
	}
}
