package query

import (
	"sort"

	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/scene"
	"github.com/Faultbox/midgard-scene/pkg/spatial"
)

// Hit is a picked node and the ray parameter at which it was hit. For a
// unit-length ray direction the parameter is the distance from the origin.
type Hit struct {
	Node     *scene.Node
	Distance float32
}

// Pick returns the pickable mesh nodes hit by a world-space ray, nearest
// first. Every candidate is rejected early unless one of its bounding
// spheres is hit. With precise set, survivors are re-tested against their
// triangles in node-local space and the distance is that of the nearest
// triangle; otherwise it is the distance to the nearest bounding sphere.
// A degenerate ray hits nothing.
func Pick(ray spatial.Ray, root *scene.Node, precise bool) []Hit {
	if ray.IsDegenerate() {
		return nil
	}

	var hits []Hit
	root.Walk(func(n *scene.Node) bool {
		if !n.Pickable || n.Geometry == nil {
			return true
		}
		if !n.Geometry.EnclosureIntersectsRay(ray.Origin, ray.Direction) {
			return true
		}
		var d float32
		var ok bool
		if precise {
			d, ok = triangleDistance(ray, n)
		} else {
			d, ok = n.Geometry.EnclosureDistance(ray.Origin, ray.Direction)
		}
		if ok {
			hits = append(hits, Hit{Node: n, Distance: d})
		}
		return true
	})

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// PickScreen un-projects a screen position through the camera matrices and
// picks along the resulting ray.
func PickScreen(screen, viewport math.Vec2, proj, view math.Mat4, root *scene.Node, precise bool) ([]Hit, error) {
	ray, err := spatial.UnprojectRay(screen, viewport, proj, view)
	if err != nil {
		return nil, err
	}
	return Pick(ray, root, precise), nil
}

// First returns the nearest hit, if any.
func First(hits []Hit) (Hit, bool) {
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// triangleDistance intersects the ray with n's triangles in local space. A
// node whose world pose cannot be inverted is skipped.
func triangleDistance(ray spatial.Ray, n *scene.Node) (float32, bool) {
	inv, err := n.World().Matrix.Invert()
	if err != nil {
		return 0, false
	}
	local := ray.Transform(inv)
	return n.Geometry.NearestTriangleHit(local.Origin, local.Direction)
}
