package math

import (
	"errors"
	"math"
	"testing"
)

func TestMulIdentity(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(V3(5, 10, 15))

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if got := m.Translation(); got != V3(5, 10, 15) {
		t.Errorf("Translation() = %v", got)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(V3(10, 20, 30)), V3(1, 2, 3), V3(11, 22, 33)},
		{"scale", Scale(V3(2, 2, 2)), V3(1, 2, 3), V3(2, 4, 6)},
		{"translate then scale", Translate(V3(1, 0, 0)).Mul(Scale(V3(2, 2, 2))), V3(1, 1, 1), V3(3, 2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); got != tt.want {
				t.Errorf("TransformPoint: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(V3(100, 100, 100))
	if got := m.TransformDirection(V3(0, 0, 1)); got != V3(0, 0, 1) {
		t.Errorf("TransformDirection: got %v", got)
	}
}

func TestRotateAxisY90(t *testing.T) {
	m := RotateAxis(V3(0, 1, 0), float32(math.Pi/2))
	result := m.TransformPoint(V3(1, 0, 0))

	// After 90 degree Y rotation, (1,0,0) becomes (0,0,-1)
	if !result.ApproxEqual(V3(0, 0, -1), 0.001) {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", result)
	}
}

func TestFromRowMajor(t *testing.T) {
	m := FromRowMajor([16]float32{
		1, 0, 0, 7,
		0, 1, 0, 8,
		0, 0, 1, 9,
		0, 0, 0, 1,
	})
	if got := m.Translation(); got != V3(7, 8, 9) {
		t.Errorf("FromRowMajor translation: got %v, want (7, 8, 9)", got)
	}
	if m.Row(0) != (Vec4{1, 0, 0, 7}) {
		t.Errorf("Row(0) = %v", m.Row(0))
	}
}

func TestFromAxesColumns(t *testing.T) {
	m := FromAxes(V3(1, 0, 0), V3(0, 2, 0), V3(0, 0, 3), V3(4, 5, 6))
	if m.Column(1) != V3(0, 2, 0) || m.Column(3) != V3(4, 5, 6) {
		t.Errorf("FromAxes columns wrong: %v", m)
	}
}

func TestInvert(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateAxis(V3(0, 0, 1), 0.7)).Mul(Scale(V3(2, 3, 4)))
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", m.Mul(inv))
	}
}

func TestInvertSingular(t *testing.T) {
	m := Scale(V3(1, 0, 1))
	_, err := m.Invert()
	if !errors.Is(err, ErrSingularTransform) {
		t.Errorf("expected ErrSingularTransform, got %v", err)
	}
	if m.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should fall back to identity")
	}
}

func TestNormalMatrix(t *testing.T) {
	n, ok := Scale(V3(2, 1, 1)).NormalMatrix()
	if !ok {
		t.Fatal("NormalMatrix should succeed for non-singular scale")
	}
	if got := n.TransformDirection(V3(1, 0, 0)); !got.ApproxEqual(V3(0.5, 0, 0), 1e-6) {
		t.Errorf("normal through inverse transpose: got %v", got)
	}

	if _, ok := Scale(V3(0, 1, 1)).NormalMatrix(); ok {
		t.Error("NormalMatrix should report a singular pose")
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose: got %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := V3(0, 0, 5)
	m := LookAt(eye, V3(0, 0, 0), V3(0, 1, 0))

	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt should move eye to origin, got %v", got)
	}
	// The target lies down the -Z axis in view space.
	if got := m.TransformPoint(V3(0, 0, 0)); !got.ApproxEqual(V3(0, 0, -5), 1e-5) {
		t.Errorf("LookAt target: got %v, want (0, 0, -5)", got)
	}
}

func TestDeterminant(t *testing.T) {
	if d := Scale(V3(2, 3, 4)).Determinant(); d != 24 {
		t.Errorf("Determinant = %f, want 24", d)
	}
}
