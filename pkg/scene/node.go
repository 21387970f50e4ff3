// Package scene holds the renderable scene graph: nodes with a local pose,
// triangulated geometry with per-set bounding volumes, and the materials and
// lights attached to them.
package scene

import (
	"github.com/Faultbox/midgard-scene/pkg/bounds"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Kind is the payload carried by a node.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindLight
	KindCamera
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Node is one element of the scene tree. Kind selects which payload field is
// meaningful: Geometry for meshes, Light for lights, CameraID for camera
// references. Groups carry no payload.
type Node struct {
	Transform

	Name     string
	ID       string
	Kind     Kind
	Pickable bool

	Geometry *Geometry
	Light    *Light
	CameraID string

	Children []*Node
	parent   *Node
	frame    Frame
}

// NewNode creates a pickable group node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Transform: IdentityTransform(),
		Name:      name,
		Kind:      KindGroup,
		Pickable:  true,
		frame:     IdentityFrame(),
	}
}

// SetGeometry attaches geometry and turns the node into a mesh.
func (n *Node) SetGeometry(g *Geometry) {
	n.Geometry = g
	n.Kind = KindMesh
}

// SetLight attaches a light payload.
func (n *Node) SetLight(l *Light) {
	n.Light = l
	n.Kind = KindLight
}

// SetCamera turns the node into a camera reference.
func (n *Node) SetCamera(id string) {
	n.CameraID = id
	n.Kind = KindCamera
}

// AddChild appends a child and takes ownership of it. Cycles are not checked.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the owning node, nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Local returns the local 4x4 pose.
func (n *Node) Local() math.Mat4 {
	return n.Transform.Matrix()
}

// SetLocal replaces the local pose with the decomposition of m.
func (n *Node) SetLocal(m math.Mat4) {
	n.Transform.SetMatrix(m)
}

// WorldTransform returns the product of the local transforms from the root
// down to n, root applied first. It walks the parent chain and does not
// depend on a previous Update.
func (n *Node) WorldTransform() math.Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul(m)
	}
	return m
}

// World returns the frame computed by the last Update.
func (n *Node) World() Frame {
	return n.frame
}

// NormalMatrix returns the inverse transpose of the world pose. ok is false
// when the pose is singular and the normal transform should be skipped.
func (n *Node) NormalMatrix() (math.Mat4, bool) {
	return n.WorldTransform().NormalMatrix()
}

// Update advances the node's motion by dt seconds, places its bounding
// volumes in the accumulated frame and recurses into the children in
// depth-first pre-order.
func (n *Node) Update(dt float32, parent Frame) {
	n.integrate(dt)
	n.frame = parent.Compose(&n.Transform)
	if n.Geometry != nil {
		n.Geometry.place(n.frame)
	}
	for _, c := range n.Children {
		c.Update(dt, n.frame)
	}
}

// UpdateRoot updates the subtree rooted at n. For a node with a parent the
// parent's last computed frame is used.
func (n *Node) UpdateRoot(dt float32) {
	parent := IdentityFrame()
	if n.parent != nil {
		parent = n.parent.frame
	}
	n.Update(dt, parent)
}

// Walk visits n and its descendants in depth-first pre-order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in depth-first order whose name equals name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindID returns the first node in depth-first order with the given id.
func (n *Node) FindID(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindID(id); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// BoundingSphere returns the sphere enclosing the node's geometry in its
// current pose. ok is false for nodes without geometry.
func (n *Node) BoundingSphere() (s bounds.Sphere, ok bool) {
	if n.Geometry == nil {
		return s, false
	}
	s = n.Geometry.BoundingSphere()
	return s, !s.IsEmpty()
}

// BoundingBox returns a world-aligned box around the node's geometry in its
// current pose.
func (n *Node) BoundingBox() (b bounds.Box, ok bool) {
	if n.Geometry == nil {
		return b, false
	}
	lo, hi, ok := n.Geometry.AABB()
	if !ok {
		return b, false
	}
	return bounds.NewBoxFromExtents(lo, hi), true
}

// Clone copies the subtree. Vertex streams are shared with the original;
// materials, lights and bounding volumes are copied so the clone can be
// posed independently. The clone has no parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Transform: n.Transform,
		Name:      n.Name,
		ID:        n.ID,
		Kind:      n.Kind,
		Pickable:  n.Pickable,
		Geometry:  n.Geometry.Clone(),
		CameraID:  n.CameraID,
		frame:     n.frame,
	}
	if n.Light != nil {
		l := *n.Light
		c.Light = &l
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.AddChild(child.Clone())
		}
	}
	return c
}
