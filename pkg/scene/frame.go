package scene

import "github.com/Faultbox/midgard-scene/pkg/math"

// Frame is the transform state accumulated from the root down to a node. It
// is passed by value through the traversal so subtrees never share state.
type Frame struct {
	Matrix   math.Mat4 // full world matrix
	Scale    math.Vec3 // component-wise product of ancestor scales
	Rotation math.Mat4 // rotation-only product of ancestor orientations
}

// IdentityFrame returns the frame of a root's parent.
func IdentityFrame() Frame {
	return Frame{
		Matrix:   math.Identity(),
		Scale:    math.V3(1, 1, 1),
		Rotation: math.Identity(),
	}
}

// Compose returns the child frame for a node with local transform t.
func (f Frame) Compose(t *Transform) Frame {
	return Frame{
		Matrix:   f.Matrix.Mul(t.Matrix()),
		Scale:    f.Scale.Mul(t.Scale),
		Rotation: f.Rotation.Mul(t.RotationMatrix()),
	}
}
