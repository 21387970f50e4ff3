package collada

import (
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// builder holds the per-parse indexes and caches.
type builder struct {
	doc  *Document
	opts options
	axis UpAxis

	geometries map[string]*GeometryDef
	nodes      map[string]*NodeDef
	materials  map[string]*MaterialDef
	effects    map[string]*Effect
	images     map[string]*Image
	lights     map[string]*LightDef
	cameras    map[string]*CameraDef

	builtGeometries map[string]*scene.Geometry // nil entry: failed
	builtMaterials  map[string]*scene.Material // nil entry: failed
	active          map[string]bool            // node ids on the current path

	problems error
}

func newBuilder(doc *Document, o options) *builder {
	b := &builder{
		doc:             doc,
		opts:            o,
		geometries:      make(map[string]*GeometryDef),
		nodes:           make(map[string]*NodeDef),
		materials:       make(map[string]*MaterialDef),
		effects:         make(map[string]*Effect),
		images:          make(map[string]*Image),
		lights:          make(map[string]*LightDef),
		cameras:         make(map[string]*CameraDef),
		builtGeometries: make(map[string]*scene.Geometry),
		builtMaterials:  make(map[string]*scene.Material),
		active:          make(map[string]bool),
	}
	if o.upAxisCorrection {
		b.axis = ParseUpAxis(doc.Asset.UpAxis)
	}

	for i := range doc.Geometries {
		b.geometries[doc.Geometries[i].ID] = &doc.Geometries[i]
	}
	for i := range doc.Materials {
		b.materials[doc.Materials[i].ID] = &doc.Materials[i]
	}
	for i := range doc.Effects {
		b.effects[doc.Effects[i].ID] = &doc.Effects[i]
	}
	for i := range doc.Images {
		b.images[doc.Images[i].ID] = &doc.Images[i]
	}
	for i := range doc.Lights {
		b.lights[doc.Lights[i].ID] = &doc.Lights[i]
	}
	for i := range doc.Cameras {
		b.cameras[doc.Cameras[i].ID] = &doc.Cameras[i]
	}
	// Scene nodes are indexed first so library nodes win on duplicate ids.
	for i := range doc.VisualScenes {
		b.indexNodes(doc.VisualScenes[i].Nodes)
	}
	b.indexNodes(doc.Nodes)
	return b
}

func (b *builder) indexNodes(defs []NodeDef) {
	for i := range defs {
		if defs[i].ID != "" {
			b.nodes[defs[i].ID] = &defs[i]
		}
		b.indexNodes(defs[i].Nodes)
	}
}

// node builds the sub-tree for def.
func (b *builder) node(def *NodeDef) *scene.Node {
	n := scene.NewNode(nodeName(def))
	n.ID = def.ID
	if def.ID != "" {
		b.active[def.ID] = true
		defer delete(b.active, def.ID)
	}

	n.SetLocal(b.localTransform(def))

	if g := b.instanceGeometries(def.InstanceGeometry); g != nil {
		n.SetGeometry(g)
	}
	for _, ref := range def.InstanceLight {
		l := b.light(fragment(ref.URL))
		if l == nil {
			continue
		}
		target := b.payloadTarget(n, ref)
		target.SetLight(l)
	}
	for _, ref := range def.InstanceCamera {
		id := fragment(ref.URL)
		if _, ok := b.cameras[id]; !ok {
			b.problem(unresolved("instance_camera", id))
			continue
		}
		target := b.payloadTarget(n, ref)
		target.SetCamera(id)
	}

	for i := range def.Nodes {
		if child := b.node(&def.Nodes[i]); child != nil {
			n.AddChild(child)
		}
	}
	for _, ref := range def.InstanceNode {
		if child := b.instanceNode(fragment(ref.URL)); child != nil {
			n.AddChild(child)
		}
	}
	return n
}

// payloadTarget returns n when it has no payload yet, otherwise a new child
// to carry the extra instance.
func (b *builder) payloadTarget(n *scene.Node, ref URLRef) *scene.Node {
	if n.Kind == scene.KindGroup {
		return n
	}
	name := ref.Name
	if name == "" {
		name = fragment(ref.URL)
	}
	child := scene.NewNode(name)
	n.AddChild(child)
	return child
}

// instanceNode builds a fresh copy of the node with the given id.
func (b *builder) instanceNode(id string) *scene.Node {
	if b.active[id] {
		b.problem(&Error{Element: "instance_node", ID: id, Err: ErrCyclicReference})
		return nil
	}
	def, ok := b.nodes[id]
	if !ok {
		b.problem(unresolved("instance_node", id))
		return nil
	}
	return b.node(def)
}

func nodeName(def *NodeDef) string {
	switch {
	case def.Name != "":
		return def.Name
	case def.ID != "":
		return def.ID
	default:
		return def.SID
	}
}

// localTransform composes the node's transform elements in document order.
// Any matrix element overrides translate, rotate and scale. A malformed
// element is reported and skipped.
func (b *builder) localTransform(def *NodeDef) math.Mat4 {
	composed := math.Identity()
	explicit := math.Identity()
	hasMatrix := false

	for _, t := range def.Transforms {
		kind := t.XMLName.Local
		switch kind {
		case "translate":
			v, err := parseVec3(t.Text, kind, def.ID)
			if err != nil {
				b.problem(err)
				continue
			}
			composed = composed.Mul(math.Translate(b.axis.Vec(v)))
		case "rotate":
			v, err := parseFloats(t.Text, kind, def.ID)
			if err == nil && len(v) != 4 {
				err = malformed(kind, def.ID, strings.TrimSpace(t.Text))
			}
			if err != nil {
				b.problem(err)
				continue
			}
			axis := b.axis.Vec(math.V3(v[0], v[1], v[2]))
			composed = composed.Mul(math.QuatFromAxisAngle(axis, math.DegToRad(v[3])).ToMat4())
		case "scale":
			v, err := parseVec3(t.Text, kind, def.ID)
			if err != nil {
				b.problem(err)
				continue
			}
			composed = composed.Mul(math.Scale(b.axis.ScaleVec(v)))
		case "matrix":
			v, err := parseFloats(t.Text, kind, def.ID)
			if err == nil && len(v) != 16 {
				err = malformed(kind, def.ID, strings.TrimSpace(t.Text))
			}
			if err != nil {
				b.problem(err)
				continue
			}
			var rows [16]float32
			copy(rows[:], v)
			explicit = explicit.Mul(b.axis.Matrix(math.FromRowMajor(rows)))
			hasMatrix = true
		}
	}
	if hasMatrix {
		return explicit
	}
	return composed
}

// instanceGeometries merges every instanced geometry of a node into one.
// Unresolved or failed geometries are reported and skipped.
func (b *builder) instanceGeometries(insts []InstanceGeometry) *scene.Geometry {
	var merged *scene.Geometry
	for i := range insts {
		inst := &insts[i]
		g := b.geometry(fragment(inst.URL))
		if g == nil {
			continue
		}
		g = g.Clone()
		b.bindMaterials(g, inst)
		if merged == nil {
			merged = g
			continue
		}
		for _, p := range g.Primitives {
			merged.Add(p)
		}
	}
	return merged
}

// geometry returns the cached template for a geometry id, building it on
// first use. Callers must clone the result.
func (b *builder) geometry(id string) *scene.Geometry {
	if g, ok := b.builtGeometries[id]; ok {
		return g
	}
	g, err := b.buildGeometry(id)
	if err != nil {
		b.problem(err)
		g = nil
	}
	b.builtGeometries[id] = g
	return g
}

func (b *builder) buildGeometry(id string) (*scene.Geometry, error) {
	def, ok := b.geometries[id]
	if !ok {
		return nil, unresolved("instance_geometry", id)
	}
	if def.Mesh == nil {
		return nil, &Error{Element: "geometry", ID: id, Text: "no mesh", Err: ErrUnsupportedPrimitiveKind}
	}
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return newMeshBuilder(id, def.Mesh, b.axis).build(name)
}

// light resolves a library light, reporting failures.
func (b *builder) light(id string) *scene.Light {
	def, ok := b.lights[id]
	if !ok {
		b.problem(unresolved("instance_light", id))
		return nil
	}
	l := &scene.Light{ID: def.ID, Name: def.Name, ConstantAttenuation: 1}
	var params *LightParams
	tc := def.Technique
	switch {
	case tc.Ambient != nil:
		l.Type, params = scene.LightAmbient, tc.Ambient
	case tc.Directional != nil:
		l.Type, params = scene.LightDirectional, tc.Directional
	case tc.Point != nil:
		l.Type, params = scene.LightPoint, tc.Point
	case tc.Spot != nil:
		l.Type, params = scene.LightSpot, tc.Spot
		l.FalloffAngle = 180
	default:
		b.problem(&Error{Element: "light", ID: id, Text: "no common technique", Err: ErrUnresolvedReference})
		return nil
	}

	var err error
	if strings.TrimSpace(params.Color) != "" {
		var c [4]float32
		if c, err = parseColor(params.Color, "color", id); err != nil {
			b.problem(err)
			return nil
		}
		l.Color = c
	} else {
		l.Color = scene.Color{1, 1, 1, 1}
	}
	fields := []struct {
		text string
		dst  *float32
		name string
	}{
		{params.ConstantAttenuation, &l.ConstantAttenuation, "constant_attenuation"},
		{params.LinearAttenuation, &l.LinearAttenuation, "linear_attenuation"},
		{params.QuadraticAttenuation, &l.QuadraticAttenuation, "quadratic_attenuation"},
		{params.FalloffAngle, &l.FalloffAngle, "falloff_angle"},
	}
	for _, f := range fields {
		if *f.dst, err = parseFloat(f.text, *f.dst, f.name, id); err != nil {
			b.problem(err)
			return nil
		}
	}
	return l
}
