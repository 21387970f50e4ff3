package math

import "testing"

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2Cross(t *testing.T) {
	if got := (Vec2{1, 0}).Cross(Vec2{0, 1}); got != 1 {
		t.Errorf("Vec2.Cross() = %v, want 1", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := V3(1, 0, 0).Cross(V3(0, 1, 0))
	if want := V3(0, 0, 1); got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(3, 4, 12).Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); !z.IsZero() {
		t.Errorf("zero vector should normalize to zero, got %v", z)
	}
}

func TestVec3MaxComponentAbs(t *testing.T) {
	v := V3(-5, 2, 3)
	if got := v.Abs().MaxComponent(); got != 5 {
		t.Errorf("Abs().MaxComponent() = %v, want 5", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a, b := V3(1, 5, -2), V3(3, 0, -1)
	if got := a.Min(b); got != V3(1, 0, -2) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(3, 5, -1) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3FromSlice(t *testing.T) {
	s := []float32{0, 1, 2, 3, 4, 5}
	if got := Vec3FromSlice(s, 3); got != V3(3, 4, 5) {
		t.Errorf("Vec3FromSlice = %v", got)
	}
}
