// Package scene provides a minimal transform hierarchy with
// world-preserving reparenting.
package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/pkg/math"
)

// Kind distinguishes plain transform groups from renderable meshes.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Bounds is an axis-aligned box in a node's local space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Union returns the smallest box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	for i := 0; i < 3; i++ {
		if other.Min[i] < b.Min[i] {
			b.Min[i] = other.Min[i]
		}
		if other.Max[i] > b.Max[i] {
			b.Max[i] = other.Max[i]
		}
	}
	return b
}

// Node is a transform in the hierarchy. The local transform is
// Position * Rotation * Scale relative to the parent.
type Node struct {
	Name     string
	Kind     Kind
	Position mgl32.Vec3
	Rotation math.Euler
	Scale    mgl32.Vec3

	// Bounds is the local-space box of a mesh's geometry, nil if unknown.
	Bounds *Bounds
	// Primitives is the number of draw primitives the mesh was built from.
	Primitives int

	parent   *Node
	children []*Node
}

// NewGroup creates an empty transform group.
func NewGroup(name string) *Node {
	return &Node{Name: name, Kind: KindGroup, Scale: mgl32.Vec3{1, 1, 1}}
}

// NewMesh creates a mesh node.
func NewMesh(name string) *Node {
	return &Node{Name: name, Kind: KindMesh, Scale: mgl32.Vec3{1, 1, 1}}
}

// IsMesh reports whether n is renderable geometry.
func (n *Node) IsMesh() bool {
	return n.Kind == KindMesh
}

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Add makes child a child of n, keeping its local transform.
// Adding n to itself or to one of its descendants is ignored.
func (n *Node) Add(child *Node) {
	if child == nil || child == n || child.isAncestorOf(n) {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. Returns false if child was not a child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Attach reparents child under n while keeping its world transform:
// the new local transform is inverse(parentWorld) * childWorld.
func (n *Node) Attach(child *Node) {
	if child == nil || child == n || child.isAncestorOf(n) {
		return
	}
	world := child.WorldMatrix()
	local := n.WorldMatrix().Inv().Mul4(world)
	child.SetMatrix(local)
	n.Add(child)
}

// SetMatrix replaces the local transform with the decomposition of m.
func (n *Node) SetMatrix(m mgl32.Mat4) {
	pos, rot, scale := math.Decompose(m)
	n.Position = pos
	n.Rotation = math.EulerFromQuat(rot)
	n.Scale = scale
}

// Quaternion returns the local rotation as a quaternion.
func (n *Node) Quaternion() mgl32.Quat {
	return n.Rotation.Quat()
}

// LocalMatrix returns the transform relative to the parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	return math.Compose(n.Position, n.Quaternion(), n.Scale)
}

// WorldMatrix returns the transform relative to the root of the tree.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	m := n.WorldMatrix()
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// LocalToWorld converts a point from n's space to world space.
func (n *Node) LocalToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.WorldMatrix())
}

// WorldToLocal converts a world-space point into n's space.
func (n *Node) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.WorldMatrix().Inv())
}

// Traverse visits n and its descendants depth-first, parents before children.
// Each child list is copied before descending, so fn may reparent nodes.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children() {
		c.Traverse(fn)
	}
}

// Meshes returns every mesh node under n (n included) in traversal order.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) {
		if c.IsMesh() {
			out = append(out, c)
		}
	})
	return out
}

// FindByName returns the first node in traversal order with the given name.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Dump returns an indented listing of the subtree.
func (n *Node) Dump() string {
	var sb strings.Builder
	base := n.Depth()
	n.Traverse(func(c *Node) {
		sb.WriteString(strings.Repeat("  ", c.Depth()-base))
		fmt.Fprintf(&sb, "%s [%s] pos=(%.4f, %.4f, %.4f) rot=(%.3f, %.3f, %.3f)\n",
			c.Name, c.Kind,
			c.Position[0], c.Position[1], c.Position[2],
			c.Rotation.X, c.Rotation.Y, c.Rotation.Z)
	})
	return sb.String()
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
