package scene

import "github.com/jinzhu/copier"

// Color is an RGBA color with float channels.
type Color [4]float32

// TextureRef points a material channel at an image.
type TextureRef struct {
	Image    string // image id in the document
	Path     string // resolved init_from path, may be relative to the document
	TexCoord string // texcoord set symbol
}

// Channel is a material input that is either a literal color or a texture.
type Channel struct {
	Color   Color
	Texture *TextureRef
}

// Textured reports whether the channel samples a texture.
func (c Channel) Textured() bool {
	return c.Texture != nil
}

// Material holds the fixed-function shading parameters bound to a primitive
// set. Shading math is left to the renderer.
type Material struct {
	ID        string
	Name      string
	Effect    string
	Technique string // constant, lambert, phong or blinn

	Ambient  Channel
	Diffuse  Channel
	Specular Channel
	Emission Channel

	Shininess    float32
	Transparency float32
}

// DefaultMaterial returns the material used when a document declares none.
func DefaultMaterial() *Material {
	return &Material{
		Technique:    "lambert",
		Ambient:      Channel{Color: Color{0.2, 0.2, 0.2, 1}},
		Diffuse:      Channel{Color: Color{0.8, 0.8, 0.8, 1}},
		Specular:     Channel{Color: Color{0, 0, 0, 1}},
		Emission:     Channel{Color: Color{0, 0, 0, 1}},
		Transparency: 1,
	}
}

// TexturePath returns the image path of the diffuse channel, falling back to
// the ambient and emission channels.
func (m *Material) TexturePath() string {
	for _, ch := range []Channel{m.Diffuse, m.Ambient, m.Emission} {
		if ch.Texture != nil && ch.Texture.Path != "" {
			return ch.Texture.Path
		}
	}
	return ""
}

// Clone returns a deep copy; texture references are not shared.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	out := &Material{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		*out = *m
		out.Ambient.Texture = cloneTexture(m.Ambient.Texture)
		out.Diffuse.Texture = cloneTexture(m.Diffuse.Texture)
		out.Specular.Texture = cloneTexture(m.Specular.Texture)
		out.Emission.Texture = cloneTexture(m.Emission.Texture)
	}
	return out
}

func cloneTexture(t *TextureRef) *TextureRef {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// LightType enumerates the common-profile light kinds.
type LightType int

const (
	LightAmbient LightType = iota
	LightDirectional
	LightPoint
	LightSpot
)

// String returns the COLLADA element name of the light type.
func (t LightType) String() string {
	switch t {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is the payload of a light node.
type Light struct {
	ID    string
	Name  string
	Type  LightType
	Color Color

	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
	FalloffAngle         float32 // degrees, spot lights only
}
