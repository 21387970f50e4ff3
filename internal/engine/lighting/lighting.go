// Package lighting gathers the lights of a scene graph into world space for
// upload to a renderer.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// MaxLights is the maximum number of lights a Buffer holds.
const MaxLights = 32

// cutoff is the attenuation at which a light no longer contributes.
const cutoff = 256

// Light is a light placed in world space.
type Light struct {
	Node      *scene.Node
	Type      scene.LightType
	Position  math.Vec3 // world position, unused by ambient and directional lights
	Direction math.Vec3 // unit direction the light shines in
	Color     [3]float32
	Range     float32 // 0 means unbounded
	Falloff   float32 // spot cone half angle, radians
}

// Extract returns every light under root in depth-first order. Positions
// and directions come from the nodes' world transforms; lights shine down
// their node's -Z axis.
func Extract(root *scene.Node) []Light {
	var out []Light
	root.Walk(func(n *scene.Node) bool {
		if n.Light == nil {
			return true
		}
		m := n.WorldTransform()
		l := Light{
			Node:      n,
			Type:      n.Light.Type,
			Position:  m.Translation(),
			Direction: m.TransformDirection(math.V3(0, 0, -1)).Normalize(),
			Color:     clampColor(n.Light.Color),
			Range:     Range(n.Light),
		}
		if n.Light.Type == scene.LightSpot {
			l.Falloff = math.DegToRad(n.Light.FalloffAngle) / 2
		}
		out = append(out, l)
		return true
	})
	return out
}

// Attenuation returns the light's attenuation divisor at distance d.
func Attenuation(l *scene.Light, d float32) float32 {
	return l.ConstantAttenuation + l.LinearAttenuation*d + l.QuadraticAttenuation*d*d
}

// Range returns the distance at which a point or spot light has faded to
// 1/256 of its intensity. Lights without distance falloff report 0.
func Range(l *scene.Light) float32 {
	if l.Type != scene.LightPoint && l.Type != scene.LightSpot {
		return 0
	}
	c := l.ConstantAttenuation - cutoff
	a, b := l.QuadraticAttenuation, l.LinearAttenuation
	switch {
	case a > 0:
		// Positive root of a*d^2 + b*d + c = 0.
		return (-b + math32.Sqrt(b*b-4*a*c)) / (2 * a)
	case b > 0:
		return -c / b
	default:
		return 0
	}
}

func clampColor(c scene.Color) [3]float32 {
	var out [3]float32
	for i := range out {
		out[i] = math32.Max(0, math32.Min(1, c[i]))
	}
	return out
}

// Buffer holds lights in the flat layout shaders expect.
type Buffer struct {
	Lights []Light
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	return &Buffer{Lights: make([]Light, 0, MaxLights)}
}

// SetLights replaces all lights in the buffer. Ambient lights are skipped
// and the rest is truncated to MaxLights. It returns the number dropped.
func (b *Buffer) SetLights(lights []Light) int {
	b.Lights = b.Lights[:0]
	dropped := 0
	for _, l := range lights {
		if l.Type == scene.LightAmbient {
			continue
		}
		if len(b.Lights) == MaxLights {
			dropped++
			continue
		}
		b.Lights = append(b.Lights, l)
	}
	return dropped
}

// Ambient sums the color of the ambient lights.
func Ambient(lights []Light) [3]float32 {
	var sum [3]float32
	for _, l := range lights {
		if l.Type != scene.LightAmbient {
			continue
		}
		for i := range sum {
			sum[i] = math32.Min(1, sum[i]+l.Color[i])
		}
	}
	return sum
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *Buffer) Positions() []float32 {
	result := make([]float32, MaxLights*3)
	for i, l := range b.Lights {
		result[i*3+0] = l.Position.X
		result[i*3+1] = l.Position.Y
		result[i*3+2] = l.Position.Z
	}
	return result
}

// Colors returns colors as a flat float32 slice for GPU upload.
func (b *Buffer) Colors() []float32 {
	result := make([]float32, MaxLights*3)
	for i, l := range b.Lights {
		copy(result[i*3:], l.Color[:])
	}
	return result
}

// Ranges returns ranges as a flat float32 slice for GPU upload.
func (b *Buffer) Ranges() []float32 {
	result := make([]float32, MaxLights)
	for i, l := range b.Lights {
		result[i] = l.Range
	}
	return result
}
