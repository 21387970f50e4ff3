// Package collada builds scene graphs from COLLADA (.dae) documents.
//
// Only the subset needed for static scenes is read: visual scene nodes and
// their transforms, mesh geometry, common-profile materials and effects,
// images, lights and camera references. Polygons are triangulated and all
// index streams are expanded into flat arrays. Documents declaring Z_UP or
// X_UP are converted to Y-up as values are read.
package collada

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// Scene is the result of building a document.
type Scene struct {
	Root   *scene.Node
	UpAxis UpAxis  // axis declared by the document
	Unit   float32 // meters per document unit

	// Problems aggregates failures that cost part of the document, such as
	// a geometry with an unsupported primitive kind or a dangling
	// instance_node. Use multierr.Errors to list them.
	Problems error
}

// TexturePaths returns every distinct texture path bound in the scene, in
// first-use order.
func (s *Scene) TexturePaths() []string {
	seen := make(map[string]bool)
	var out []string
	s.Root.Walk(func(n *scene.Node) bool {
		if n.Geometry == nil {
			return true
		}
		for _, p := range n.Geometry.Primitives {
			if p.TexturePath != "" && !seen[p.TexturePath] {
				seen[p.TexturePath] = true
				out = append(out, p.TexturePath)
			}
		}
		return true
	})
	return out
}

type options struct {
	upAxisCorrection bool
	baseDir          string
}

// Option configures the scene builder.
type Option func(*options)

// WithoutUpAxisCorrection keeps the document's own axes.
func WithoutUpAxisCorrection() Option {
	return func(o *options) {
		o.upAxisCorrection = false
	}
}

// WithBaseDir joins relative texture paths with dir.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// Parse decodes and builds a document held in memory.
func Parse(data []byte, opts ...Option) (*Scene, error) {
	return ParseReader(bytes.NewReader(data), opts...)
}

// ParseReader decodes and builds a document read from r.
func ParseReader(r io.Reader, opts ...Option) (*Scene, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

// ParseFile loads a document from disk. Relative texture paths are resolved
// against the document's directory unless WithBaseDir says otherwise.
func ParseFile(path string, opts ...Option) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading COLLADA file: %w", err)
	}
	opts = append([]Option{WithBaseDir(filepath.Dir(path))}, opts...)
	return Parse(data, opts...)
}

// Build turns a decoded document into a scene. It fails only when no visual
// scene can be selected; failures inside the tree are collected in
// Scene.Problems and the affected sub-trees are left out.
func Build(doc *Document, opts ...Option) (*Scene, error) {
	o := options{upAxisCorrection: true}
	for _, opt := range opts {
		opt(&o)
	}

	b := newBuilder(doc, o)
	vs, err := b.visualScene()
	if err != nil {
		return nil, err
	}

	root := scene.NewNode(vs.Name)
	if root.Name == "" {
		root.Name = vs.ID
	}
	root.ID = vs.ID
	for i := range vs.Nodes {
		if n := b.node(&vs.Nodes[i]); n != nil {
			root.AddChild(n)
		}
	}
	root.UpdateRoot(0)

	s := &Scene{
		Root:     root,
		UpAxis:   ParseUpAxis(doc.Asset.UpAxis),
		Unit:     1,
		Problems: b.problems,
	}
	if u := doc.Asset.Unit; u != nil && u.Meter > 0 {
		s.Unit = u.Meter
	}
	return s, nil
}

// visualScene picks the scene named by <scene>, or the first one declared.
func (b *builder) visualScene() (*VisualScene, error) {
	if len(b.doc.VisualScenes) == 0 {
		return nil, ErrNoVisualScene
	}
	if ref := b.doc.Scene; ref != nil && ref.InstanceVisualScene != nil {
		id := fragment(ref.InstanceVisualScene.URL)
		for i := range b.doc.VisualScenes {
			if b.doc.VisualScenes[i].ID == id {
				return &b.doc.VisualScenes[i], nil
			}
		}
		return nil, unresolved("instance_visual_scene", id)
	}
	return &b.doc.VisualScenes[0], nil
}

func (b *builder) problem(err error) {
	b.problems = multierr.Append(b.problems, err)
}
