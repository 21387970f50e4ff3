package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// Axis is normalized internally.
	q := QuatFromAxisAngle(V3(0, 2, 0), float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))
	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromZeroAxis(t *testing.T) {
	if q := QuatFromAxisAngle(Vec3{}, 1); q != QuatIdentity() {
		t.Errorf("zero axis should give identity, got %v", q)
	}
}

func TestQuatToMat4MatchesRotateAxis(t *testing.T) {
	axis := V3(1, 1, 0).Normalize()
	angle := DegToRad(30)
	got := QuatFromAxisAngle(axis, angle).ToMat4()
	want := RotateAxis(axis, angle)
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("quaternion matrix %v differs from axis-angle matrix %v", got, want)
	}
}

func TestQuatMul(t *testing.T) {
	half := QuatFromAxisAngle(V3(0, 0, 1), DegToRad(45))
	full := half.Mul(half)
	got := full.Rotate(V3(1, 0, 0))
	if !got.ApproxEqual(V3(0, 1, 0), 1e-5) {
		t.Errorf("two 45 degree turns about Z: got %v, want (0, 1, 0)", got)
	}
}
