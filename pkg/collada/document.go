package collada

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/encoding"
)

// Document is the decoded subset of a COLLADA file. Only the elements the
// scene builder consumes are mapped; everything else is skipped by the
// decoder.
type Document struct {
	XMLName xml.Name `xml:"COLLADA"`
	Version string   `xml:"version,attr"`
	Asset   Asset    `xml:"asset"`

	Images       []Image       `xml:"library_images>image"`
	Materials    []MaterialDef `xml:"library_materials>material"`
	Effects      []Effect      `xml:"library_effects>effect"`
	Geometries   []GeometryDef `xml:"library_geometries>geometry"`
	Lights       []LightDef    `xml:"library_lights>light"`
	Cameras      []CameraDef   `xml:"library_cameras>camera"`
	Nodes        []NodeDef     `xml:"library_nodes>node"`
	VisualScenes []VisualScene `xml:"library_visual_scenes>visual_scene"`
	Scene        *SceneRef     `xml:"scene"`
}

// Asset carries document metadata.
type Asset struct {
	UpAxis string `xml:"up_axis"`
	Unit   *Unit  `xml:"unit"`
}

// Unit is the length unit of the document.
type Unit struct {
	Name  string  `xml:"name,attr"`
	Meter float32 `xml:"meter,attr"`
}

// Image is a library image. COLLADA 1.4 puts the path in init_from text,
// 1.5 wraps it in a ref element.
type Image struct {
	ID       string   `xml:"id,attr"`
	Name     string   `xml:"name,attr"`
	InitFrom InitFrom `xml:"init_from"`
}

// InitFrom holds an image location in either schema version.
type InitFrom struct {
	Text string `xml:",chardata"`
	Ref  string `xml:"ref"`
}

// Path returns the location text.
func (i InitFrom) Path() string {
	if r := strings.TrimSpace(i.Ref); r != "" {
		return r
	}
	return strings.TrimSpace(i.Text)
}

// MaterialDef is a library material.
type MaterialDef struct {
	ID             string `xml:"id,attr"`
	Name           string `xml:"name,attr"`
	InstanceEffect URLRef `xml:"instance_effect"`
}

// URLRef is any instance_* element pointing at a library entry.
type URLRef struct {
	URL  string `xml:"url,attr"`
	Name string `xml:"name,attr"`
	SID  string `xml:"sid,attr"`
}

// Effect is a library effect; only the common profile is read.
type Effect struct {
	ID      string         `xml:"id,attr"`
	Name    string         `xml:"name,attr"`
	Profile *ProfileCommon `xml:"profile_COMMON"`
}

// ProfileCommon is the fixed-function effect profile.
type ProfileCommon struct {
	NewParams []NewParam `xml:"newparam"`
	Technique Technique  `xml:"technique"`
}

// NewParam declares a surface or sampler used by texture lookups.
type NewParam struct {
	SID       string     `xml:"sid,attr"`
	Surface   *Surface   `xml:"surface"`
	Sampler2D *Sampler2D `xml:"sampler2D"`
}

// Surface names an image by id.
type Surface struct {
	Type     string `xml:"type,attr"`
	InitFrom string `xml:"init_from"`
}

// Sampler2D points at a surface param (1.4) or an image (1.5).
type Sampler2D struct {
	Source        string  `xml:"source"`
	InstanceImage *URLRef `xml:"instance_image"`
}

// Technique holds exactly one of the four shading models.
type Technique struct {
	SID      string  `xml:"sid,attr"`
	Constant *Shader `xml:"constant"`
	Lambert  *Shader `xml:"lambert"`
	Phong    *Shader `xml:"phong"`
	Blinn    *Shader `xml:"blinn"`
}

// Shader returns the declared shading model and its parameters.
func (t *Technique) Shader() (string, *Shader) {
	switch {
	case t.Blinn != nil:
		return "blinn", t.Blinn
	case t.Phong != nil:
		return "phong", t.Phong
	case t.Lambert != nil:
		return "lambert", t.Lambert
	case t.Constant != nil:
		return "constant", t.Constant
	}
	return "", nil
}

// Shader is the parameter block of a shading model.
type Shader struct {
	Emission     *ColorOrTexture `xml:"emission"`
	Ambient      *ColorOrTexture `xml:"ambient"`
	Diffuse      *ColorOrTexture `xml:"diffuse"`
	Specular     *ColorOrTexture `xml:"specular"`
	Shininess    *FloatParam     `xml:"shininess"`
	Transparency *FloatParam     `xml:"transparency"`
}

// ColorOrTexture is a channel that is either a literal color or a texture.
type ColorOrTexture struct {
	Color   *TextElem   `xml:"color"`
	Texture *TextureDef `xml:"texture"`
}

// TextureDef references a sampler param or an image id.
type TextureDef struct {
	Texture  string `xml:"texture,attr"`
	TexCoord string `xml:"texcoord,attr"`
}

// FloatParam wraps a float child.
type FloatParam struct {
	Float *TextElem `xml:"float"`
}

// TextElem is an element whose payload is its text.
type TextElem struct {
	SID  string `xml:"sid,attr"`
	Text string `xml:",chardata"`
}

// GeometryDef is a library geometry; only meshes are supported.
type GeometryDef struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Mesh *Mesh  `xml:"mesh"`
}

// Mesh holds the sources, the vertices indirection and the collation
// elements in document order.
type Mesh struct {
	Sources  []Source    `xml:"source"`
	Vertices Vertices    `xml:"vertices"`
	Elements []Collation `xml:",any"`
}

// Source is a named numeric array plus its accessor.
type Source struct {
	ID         string      `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	FloatArray *FloatArray `xml:"float_array"`
	Accessor   *Accessor   `xml:"technique_common>accessor"`
}

// FloatArray is the raw numeric payload of a source.
type FloatArray struct {
	ID    string `xml:"id,attr"`
	Count string `xml:"count,attr"`
	Text  string `xml:",chardata"`
}

// Accessor describes how a source array is read.
type Accessor struct {
	Source string `xml:"source,attr"`
	Count  string `xml:"count,attr"`
	Stride string `xml:"stride,attr"`
	Offset string `xml:"offset,attr"`
}

// Vertices binds per-vertex inputs under a single id.
type Vertices struct {
	ID     string  `xml:"id,attr"`
	Inputs []Input `xml:"input"`
}

// Input is one stream of a vertices block or a collation element.
type Input struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   string `xml:"offset,attr"`
	Set      string `xml:"set,attr"`
}

// Collation is one topologically uniform chunk of a mesh. The element name
// selects the layout: triangles, polylist, polygons, lines and so on.
type Collation struct {
	XMLName  xml.Name
	Count    string   `xml:"count,attr"`
	Material string   `xml:"material,attr"`
	Inputs   []Input  `xml:"input"`
	VCount   string   `xml:"vcount"`
	P        []string `xml:"p"`
}

// Kind returns the element name.
func (c *Collation) Kind() string {
	return c.XMLName.Local
}

// LightDef is a library light.
type LightDef struct {
	ID        string          `xml:"id,attr"`
	Name      string          `xml:"name,attr"`
	Technique LightTechniques `xml:"technique_common"`
}

// LightTechniques holds one of the common light types.
type LightTechniques struct {
	Ambient     *LightParams `xml:"ambient"`
	Directional *LightParams `xml:"directional"`
	Point       *LightParams `xml:"point"`
	Spot        *LightParams `xml:"spot"`
}

// LightParams is the parameter block of a light.
type LightParams struct {
	Color                string `xml:"color"`
	ConstantAttenuation  string `xml:"constant_attenuation"`
	LinearAttenuation    string `xml:"linear_attenuation"`
	QuadraticAttenuation string `xml:"quadratic_attenuation"`
	FalloffAngle         string `xml:"falloff_angle"`
}

// CameraDef is a library camera. Optics are left to the application.
type CameraDef struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// NodeDef is a node in a visual scene or node library. Transform elements
// land in Transforms in document order.
type NodeDef struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	SID  string `xml:"sid,attr"`
	Type string `xml:"type,attr"`

	Nodes            []NodeDef          `xml:"node"`
	InstanceGeometry []InstanceGeometry `xml:"instance_geometry"`
	InstanceNode     []URLRef           `xml:"instance_node"`
	InstanceLight    []URLRef           `xml:"instance_light"`
	InstanceCamera   []URLRef           `xml:"instance_camera"`
	Transforms       []TransformElem    `xml:",any"`
}

// TransformElem is a translate, rotate, scale or matrix element. Other
// unmapped node children are collected here too and ignored.
type TransformElem struct {
	XMLName xml.Name
	SID     string `xml:"sid,attr"`
	Text    string `xml:",chardata"`
}

// InstanceGeometry places a library geometry and binds its material symbols.
type InstanceGeometry struct {
	URL          string        `xml:"url,attr"`
	Name         string        `xml:"name,attr"`
	BindMaterial *BindMaterial `xml:"bind_material"`
}

// BindMaterial maps collation material symbols to library materials.
type BindMaterial struct {
	Materials []InstanceMaterial `xml:"technique_common>instance_material"`
}

// InstanceMaterial is one symbol to material binding.
type InstanceMaterial struct {
	Symbol string `xml:"symbol,attr"`
	Target string `xml:"target,attr"`
}

// VisualScene is a root node list.
type VisualScene struct {
	ID    string    `xml:"id,attr"`
	Name  string    `xml:"name,attr"`
	Nodes []NodeDef `xml:"node"`
}

// SceneRef selects the visual scene to build.
type SceneRef struct {
	InstanceVisualScene *URLRef `xml:"instance_visual_scene"`
}

// Decode reads a COLLADA document. A byte order mark is stripped and a
// declared legacy charset is converted to UTF-8.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := encoding.NewXMLDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding COLLADA document: %w", err)
	}
	return &doc, nil
}

// fragment strips the leading '#' of a local URL.
func fragment(url string) string {
	return strings.TrimPrefix(strings.TrimSpace(url), "#")
}
