// Package query answers visibility and selection questions against a scene
// graph: frustum culling of mesh nodes and ray picking.
//
// Queries read the bounding volumes placed by the last Node.Update and must
// not run concurrently with an update of the same tree.
package query

import (
	"github.com/Faultbox/midgard-scene/pkg/scene"
	"github.com/Faultbox/midgard-scene/pkg/spatial"
)

// CullResult is the classification of one mesh node.
type CullResult struct {
	Node       *scene.Node
	Visibility spatial.Visibility
}

// Classify tests a node's bounding sphere against the frustum, then refines
// a sphere that passes with its bounding box. Nodes without geometry are
// Outside.
func Classify(f *spatial.Frustum, n *scene.Node) spatial.Visibility {
	sphere, ok := n.BoundingSphere()
	if !ok {
		return spatial.Outside
	}
	if f.SphereInFrustum(sphere.Center(), sphere.Radius()) == spatial.Outside {
		return spatial.Outside
	}
	box, ok := n.BoundingBox()
	if !ok {
		return spatial.Inside
	}
	return f.BoxInFrustum(box.Center(), box.HalfExtents())
}

// Cull classifies every mesh node under root in depth-first order.
func Cull(f *spatial.Frustum, root *scene.Node) []CullResult {
	var out []CullResult
	root.Walk(func(n *scene.Node) bool {
		if n.Geometry != nil {
			out = append(out, CullResult{Node: n, Visibility: Classify(f, n)})
		}
		return true
	})
	return out
}

// Visible returns the mesh nodes under root that are not culled.
func Visible(f *spatial.Frustum, root *scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, r := range Cull(f, root) {
		if r.Visibility == spatial.Inside {
			out = append(out, r.Node)
		}
	}
	return out
}
