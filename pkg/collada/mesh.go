package collada

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// Collation element names.
const (
	kindTriangles  = "triangles"
	kindPolylist   = "polylist"
	kindPolygons   = "polygons"
	kindLines      = "lines"
	kindTrifans    = "trifans"
	kindTristrips  = "tristrips"
	kindLinestrips = "linestrips"
)

// isCollation reports whether an element name is a collation element, and
// whether it is one the builder can expand.
func isCollation(kind string) (collation, supported bool) {
	switch kind {
	case kindTriangles, kindPolylist, kindPolygons, kindLines:
		return true, true
	case kindTrifans, kindTristrips, kindLinestrips:
		return true, false
	}
	return false, false
}

// Triangulate returns corner indices, three per triangle, for a polygon with
// n corners. Quads split along the v1-v3 diagonal; larger polygons become a
// fan around corner 0. Fewer than three corners yield nothing.
func Triangulate(n int) []int {
	switch {
	case n < 3:
		return nil
	case n == 3:
		return []int{0, 1, 2}
	case n == 4:
		return []int{0, 1, 3, 1, 2, 3}
	}
	out := make([]int, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		out = append(out, 0, i, i+1)
	}
	return out
}

// maxInputOffset bounds the index tuple width of a collation element.
const maxInputOffset = 1 << 16

// stream is one resolved source read through its accessor.
type stream struct {
	id     string
	data   []float32
	stride int
	offset int
}

// at returns the first n components of element i.
func (s *stream) at(i, n int) ([]float32, bool) {
	if i < 0 || i > (len(s.data)-s.offset)/s.stride {
		return nil, false
	}
	base := s.offset + i*s.stride
	if n > len(s.data)-base {
		return nil, false
	}
	return s.data[base : base+n], true
}

// binding is a stream together with its offset in the index tuple.
type binding struct {
	src    *stream
	offset int
}

// layout is the resolved input set of one collation element.
type layout struct {
	position binding
	normal   *binding
	texcoord *binding
	stride   int
}

// meshBuilder expands one mesh. Parsed sources are cached per mesh.
type meshBuilder struct {
	geomID  string
	mesh    *Mesh
	axis    UpAxis
	sources map[string]*stream
}

func newMeshBuilder(id string, mesh *Mesh, axis UpAxis) *meshBuilder {
	return &meshBuilder{geomID: id, mesh: mesh, axis: axis, sources: make(map[string]*stream)}
}

// build expands every collation element in document order.
func (mb *meshBuilder) build(name string) (*scene.Geometry, error) {
	g := scene.NewGeometry(mb.geomID, name)
	for i := range mb.mesh.Elements {
		el := &mb.mesh.Elements[i]
		collation, supported := isCollation(el.Kind())
		if !collation {
			continue
		}
		if !supported {
			return nil, &Error{Element: el.Kind(), ID: mb.geomID, Err: ErrUnsupportedPrimitiveKind}
		}
		p, err := mb.primitive(el)
		if err != nil {
			return nil, err
		}
		if p != nil {
			g.Add(p)
		}
	}
	return g, nil
}

// source parses and caches the source with the given URL.
func (mb *meshBuilder) source(url string, defStride int) (*stream, error) {
	id := fragment(url)
	if s, ok := mb.sources[id]; ok {
		return s, nil
	}
	for i := range mb.mesh.Sources {
		src := &mb.mesh.Sources[i]
		if src.ID != id {
			continue
		}
		if src.FloatArray == nil {
			return nil, unresolved("float_array", id)
		}
		data, err := parseFloats(src.FloatArray.Text, "float_array", src.FloatArray.ID)
		if err != nil {
			return nil, err
		}
		s := &stream{id: id, data: data, stride: defStride}
		if acc := src.Accessor; acc != nil {
			if s.stride, err = parseIntAttr(acc.Stride, 1, "accessor", id); err != nil {
				return nil, err
			}
			if s.offset, err = parseIntAttr(acc.Offset, 0, "accessor", id); err != nil {
				return nil, err
			}
		}
		if s.stride < 1 {
			return nil, malformed("accessor", id, fmt.Sprint(s.stride))
		}
		mb.sources[id] = s
		return s, nil
	}
	return nil, unresolved("source", id)
}

// resolve binds the inputs of a collation element. Inputs declared on the
// element win over those inherited from the vertices block; the first
// texcoord set wins.
func (mb *meshBuilder) resolve(el *Collation) (*layout, error) {
	l := &layout{}
	hasPosition := false
	var inheritedNormal, inheritedTex *binding
	maxOffset := 0

	for _, in := range el.Inputs {
		offset, err := parseIntAttr(in.Offset, 0, "input", in.Source)
		if err != nil {
			return nil, err
		}
		if offset > maxInputOffset {
			return nil, malformed("input", in.Source, fmt.Sprint(offset))
		}
		maxOffset = max(maxOffset, offset)

		switch strings.ToUpper(in.Semantic) {
		case "VERTEX":
			if fragment(in.Source) != mb.mesh.Vertices.ID {
				return nil, unresolved("vertices", in.Source)
			}
			for _, vin := range mb.mesh.Vertices.Inputs {
				switch strings.ToUpper(vin.Semantic) {
				case "POSITION":
					src, err := mb.source(vin.Source, 3)
					if err != nil {
						return nil, err
					}
					l.position = binding{src: src, offset: offset}
					hasPosition = true
				case "NORMAL":
					src, err := mb.source(vin.Source, 3)
					if err != nil {
						return nil, err
					}
					inheritedNormal = &binding{src: src, offset: offset}
				case "TEXCOORD":
					if inheritedTex != nil {
						continue
					}
					src, err := mb.source(vin.Source, 2)
					if err != nil {
						return nil, err
					}
					inheritedTex = &binding{src: src, offset: offset}
				}
			}
		case "NORMAL":
			src, err := mb.source(in.Source, 3)
			if err != nil {
				return nil, err
			}
			l.normal = &binding{src: src, offset: offset}
		case "TEXCOORD":
			if l.texcoord != nil {
				continue
			}
			src, err := mb.source(in.Source, 2)
			if err != nil {
				return nil, err
			}
			l.texcoord = &binding{src: src, offset: offset}
		}
	}

	if !hasPosition {
		return nil, &Error{Element: el.Kind(), ID: mb.geomID, Text: "VERTEX", Err: ErrUnresolvedReference}
	}
	if l.normal == nil {
		l.normal = inheritedNormal
	}
	if l.texcoord == nil {
		l.texcoord = inheritedTex
	}
	l.stride = maxOffset + 1
	return l, nil
}

// primitive expands one supported collation element. An element without any
// complete face yields nil.
func (mb *meshBuilder) primitive(el *Collation) (*scene.PrimitiveSet, error) {
	l, err := mb.resolve(el)
	if err != nil {
		return nil, err
	}

	var indices []int
	var corners []int
	topology := scene.Triangles

	switch el.Kind() {
	case kindPolygons:
		for _, p := range el.P {
			poly, err := parseInts(p, "p", mb.geomID)
			if err != nil {
				return nil, err
			}
			if len(poly)%l.stride != 0 {
				return nil, malformed("p", mb.geomID, fmt.Sprintf("%d indices for stride %d", len(poly), l.stride))
			}
			base := len(indices) / l.stride
			for _, c := range Triangulate(len(poly) / l.stride) {
				corners = append(corners, base+c)
			}
			indices = append(indices, poly...)
		}
	default:
		indices, err = parseInts(strings.Join(el.P, " "), "p", mb.geomID)
		if err != nil {
			return nil, err
		}
		if len(indices)%l.stride != 0 {
			return nil, malformed("p", mb.geomID, fmt.Sprintf("%d indices for stride %d", len(indices), l.stride))
		}
		n := len(indices) / l.stride
		switch el.Kind() {
		case kindTriangles:
			corners = sequence(n - n%3)
		case kindLines:
			corners = sequence(n - n%2)
			topology = scene.Lines
		case kindPolylist:
			vcount, err := parseInts(el.VCount, "vcount", mb.geomID)
			if err != nil {
				return nil, err
			}
			base := 0
			for _, vc := range vcount {
				if vc > n-base {
					return nil, malformed("vcount", mb.geomID, fmt.Sprintf("%d corners listed after %d, %d indexed", vc, base, n))
				}
				for _, c := range Triangulate(vc) {
					corners = append(corners, base+c)
				}
				base += vc
			}
		}
	}

	if len(corners) == 0 {
		return nil, nil
	}
	return mb.expand(el, l, indices, corners, topology)
}

// expand copies the indexed streams into flat, non-indexed arrays.
func (mb *meshBuilder) expand(el *Collation, l *layout, indices, corners []int, topology scene.Topology) (*scene.PrimitiveSet, error) {
	vertices := make([]float32, 0, len(corners)*3)
	var normals, texcoords []float32
	if l.normal != nil {
		normals = make([]float32, 0, len(corners)*3)
	}
	if l.texcoord != nil {
		texcoords = make([]float32, 0, len(corners)*2)
	}

	for _, c := range corners {
		tuple := indices[c*l.stride : (c+1)*l.stride]

		v, err := mb.read(l.position, tuple, 3)
		if err != nil {
			return nil, err
		}
		p := mb.axis.Vec(math.V3(v[0], v[1], v[2]))
		vertices = append(vertices, p.X, p.Y, p.Z)

		if l.normal != nil {
			v, err := mb.read(*l.normal, tuple, 3)
			if err != nil {
				return nil, err
			}
			n := mb.axis.Vec(math.V3(v[0], v[1], v[2]))
			normals = append(normals, n.X, n.Y, n.Z)
		}
		if l.texcoord != nil {
			v, err := mb.read(*l.texcoord, tuple, 2)
			if err != nil {
				return nil, err
			}
			texcoords = append(texcoords, v[0], v[1])
		}
	}

	ps := scene.NewPrimitiveSet(topology, vertices, normals, texcoords)
	ps.MaterialSymbol = el.Material
	return ps, nil
}

func (mb *meshBuilder) read(b binding, tuple []int, n int) ([]float32, error) {
	idx := tuple[b.offset]
	v, ok := b.src.at(idx, n)
	if !ok {
		return nil, malformed("source", b.src.id, fmt.Sprintf("index %d out of range", idx))
	}
	return v, nil
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
