// Package camera provides the orbit camera used to derive view and
// projection matrices for culling and picking.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FOV       float32 // vertical, radians
	Near, Far float32

	// Constraints
	MinDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    10,
		RotationX:   0.5,
		FOV:         math.DegToRad(45),
		Near:        0.1,
		Far:         1000,
		MinDistance: 0.01,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
	}
}

// SetRotation sets pitch and yaw in degrees. Pitch is clamped to the
// camera's limits.
func (c *OrbitCamera) SetRotation(pitchDeg, yawDeg float32) {
	c.RotationX = clamp(math.DegToRad(pitchDeg), c.MinPitch, c.MaxPitch)
	c.RotationY = math.DegToRad(yawDeg)
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns Projection(aspect) * ViewMatrix().
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.Projection(aspect).Mul(c.ViewMatrix())
}

// FitToSphere centers the camera on a bounding sphere and backs off until
// the sphere fills the vertical field of view. The far plane is pushed out
// when the sphere would not fit.
func (c *OrbitCamera) FitToSphere(center math.Vec3, radius float32) {
	c.Center = center
	if radius <= 0 {
		return
	}
	d := radius / math32.Sin(c.FOV/2)
	if d < c.MinDistance {
		d = c.MinDistance
	}
	c.Distance = d
	if far := d + 2*radius; far > c.Far {
		c.Far = far
	}
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
