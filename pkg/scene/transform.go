package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Transform is the local pose shared by every node kind: an orthonormal
// basis (Left is local X, Up local Y, Forward local Z), a position in the
// parent's space and a per-axis scale. Velocity and AngularVelocity drive
// Update; AngularVelocity holds pitch, yaw and roll rates in radians per
// second.
type Transform struct {
	Left     math.Vec3
	Up       math.Vec3
	Forward  math.Vec3
	Position math.Vec3
	Scale    math.Vec3

	Velocity        math.Vec3
	AngularVelocity math.Vec3
}

// IdentityTransform returns a transform with no translation, rotation or scale.
func IdentityTransform() Transform {
	return Transform{
		Left:    math.V3(1, 0, 0),
		Up:      math.V3(0, 1, 0),
		Forward: math.V3(0, 0, 1),
		Scale:   math.V3(1, 1, 1),
	}
}

// Matrix returns the local 4x4 pose.
func (t *Transform) Matrix() math.Mat4 {
	return math.FromAxes(
		t.Left.Scale(t.Scale.X),
		t.Up.Scale(t.Scale.Y),
		t.Forward.Scale(t.Scale.Z),
		t.Position,
	)
}

// RotationMatrix returns the orientation alone.
func (t *Transform) RotationMatrix() math.Mat4 {
	return math.FromAxes(t.Left, t.Up, t.Forward, math.Vec3{})
}

// SetMatrix decomposes an affine matrix into axes, position and scale.
// Column lengths become the scale; shear is discarded. A mirrored basis
// keeps its handedness through a negative X scale.
func (t *Transform) SetMatrix(m math.Mat4) {
	t.Position = m.Translation()
	cols := [3]math.Vec3{m.Column(0), m.Column(1), m.Column(2)}
	canonical := [3]math.Vec3{math.V3(1, 0, 0), math.V3(0, 1, 0), math.V3(0, 0, 1)}
	var scale [3]float32
	for i, c := range cols {
		scale[i] = c.Length()
		if scale[i] == 0 {
			cols[i] = canonical[i]
			continue
		}
		cols[i] = c.Scale(1 / scale[i])
	}
	if cols[0].Dot(cols[1].Cross(cols[2])) < 0 {
		scale[0] = -scale[0]
		cols[0] = cols[0].Negate()
	}
	t.Left, t.Up, t.Forward = cols[0], cols[1], cols[2]
	t.Scale = math.V3(scale[0], scale[1], scale[2])
}

// Translate moves the position by delta in the parent's space.
func (t *Transform) Translate(delta math.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Pitch rotates about the Left axis.
func (t *Transform) Pitch(angle float32) {
	q := math.QuatFromAxisAngle(t.Left, angle)
	t.Up = q.Rotate(t.Up)
	t.Forward = q.Rotate(t.Forward)
}

// Yaw rotates about the Up axis.
func (t *Transform) Yaw(angle float32) {
	q := math.QuatFromAxisAngle(t.Up, angle)
	t.Left = q.Rotate(t.Left)
	t.Forward = q.Rotate(t.Forward)
}

// Roll rotates about the Forward axis.
func (t *Transform) Roll(angle float32) {
	q := math.QuatFromAxisAngle(t.Forward, angle)
	t.Left = q.Rotate(t.Left)
	t.Up = q.Rotate(t.Up)
}

// orthonormalize removes drift accumulated by repeated rotations.
func (t *Transform) orthonormalize() {
	t.Forward = t.Forward.Normalize()
	left := t.Up.Cross(t.Forward).Normalize()
	if left.IsZero() {
		return
	}
	t.Left = left
	t.Up = t.Forward.Cross(t.Left)
}

// integrate advances position then orientation by dt seconds.
func (t *Transform) integrate(dt float32) {
	if dt == 0 {
		return
	}
	if !t.Velocity.IsZero() {
		t.Translate(t.Velocity.Scale(dt))
	}
	w := t.AngularVelocity
	if w.IsZero() {
		return
	}
	if w.X != 0 {
		t.Pitch(w.X * dt)
	}
	if w.Y != 0 {
		t.Yaw(w.Y * dt)
	}
	if w.Z != 0 {
		t.Roll(w.Z * dt)
	}
	t.orthonormalize()
}

// Euler returns the pitch, yaw and roll of the basis in radians, mainly for
// display.
func (t *Transform) Euler() (pitch, yaw, roll float32) {
	pitch = math32.Asin(clamp(-t.Forward.Y, -1, 1))
	yaw = math32.Atan2(t.Forward.X, t.Forward.Z)
	roll = math32.Atan2(t.Left.Y, t.Up.Y)
	return pitch, yaw, roll
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
