package scene

import (
	gomath "math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/pkg/math"
)

const eps = 1e-3

func matApprox(a, b mgl32.Mat4) bool {
	for i := 0; i < 16; i++ {
		if gomath.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

// buildVehicle returns a root scaled and turned like a loaded car, with a
// nested body group and one mesh below it.
func buildVehicle() (root, body, mesh *Node) {
	root = NewGroup("root")
	root.Scale = mgl32.Vec3{60, 60, 60}
	root.Rotation.Y = float32(gomath.Pi)

	body = NewGroup("body")
	body.Position = mgl32.Vec3{0.01, 0.002, -0.003}
	body.Rotation = math.Euler{X: -float32(gomath.Pi / 2)}
	root.Add(body)

	mesh = NewMesh("wheel")
	mesh.Position = mgl32.Vec3{0.012, -0.02, 0.004}
	mesh.Rotation = math.Euler{Z: 0.3}
	body.Add(mesh)
	return root, body, mesh
}

func TestAddRemove(t *testing.T) {
	parent := NewGroup("parent")
	child := NewMesh("child")
	parent.Add(child)

	if child.Parent() != parent {
		t.Fatal("child should have parent set")
	}
	if parent.NumChildren() != 1 {
		t.Fatalf("expected 1 child, got %d", parent.NumChildren())
	}

	other := NewGroup("other")
	other.Add(child)
	if parent.NumChildren() != 0 {
		t.Error("adding to a new parent should remove from the old one")
	}
	if !other.Remove(child) {
		t.Error("Remove should report success")
	}
	if child.Parent() != nil {
		t.Error("removed child should have no parent")
	}
	if other.Remove(child) {
		t.Error("removing twice should report false")
	}
}

func TestAddRejectsCycles(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	a.Add(b)

	b.Add(a)
	if a.Parent() != nil {
		t.Error("adding an ancestor as child must be ignored")
	}
	a.Add(a)
	if a.NumChildren() != 1 {
		t.Error("adding a node to itself must be ignored")
	}
}

func TestAttachPreservesWorldTransform(t *testing.T) {
	root, _, mesh := buildVehicle()
	target := NewGroup("wheel_group")
	root.Add(target)

	before := mesh.WorldMatrix()
	target.Attach(mesh)
	after := mesh.WorldMatrix()

	if mesh.Parent() != target {
		t.Fatal("mesh should be reparented")
	}
	if !matApprox(before, after) {
		t.Errorf("world matrix changed:\nbefore %v\nafter  %v", before, after)
	}
}

func TestAttachUnderTransformedParent(t *testing.T) {
	root, _, mesh := buildVehicle()
	target := NewGroup("pivot")
	target.Position = mgl32.Vec3{0.5, 0.1, -0.2}
	target.Rotation = math.Euler{X: 0.7, Y: 0.09}
	root.Add(target)

	before := mesh.WorldPosition()
	target.Attach(mesh)
	if !math.ApproxEqual(before, mesh.WorldPosition(), eps) {
		t.Errorf("world position changed: %v -> %v", before, mesh.WorldPosition())
	}
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	root, body, _ := buildVehicle()
	root.Position = mgl32.Vec3{3, 0, -7}

	p := mgl32.Vec3{1.5, 0.4, -2}
	local := body.WorldToLocal(p)
	back := body.LocalToWorld(local)
	if !math.ApproxEqual(back, p, eps) {
		t.Errorf("round trip: got %v, want %v", back, p)
	}
}

func TestWorldPositionScaledParent(t *testing.T) {
	root := NewGroup("root")
	root.Scale = mgl32.Vec3{60, 60, 60}
	root.Rotation.Y = float32(gomath.Pi)

	child := NewGroup("child")
	child.Position = mgl32.Vec3{0.01, 0, 0.02}
	root.Add(child)

	// Yaw of pi mirrors X and Z
	want := mgl32.Vec3{-0.6, 0, -1.2}
	if got := child.WorldPosition(); !math.ApproxEqual(got, want, eps) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTraverseAllowsReparenting(t *testing.T) {
	root := NewGroup("root")
	a := NewMesh("a")
	b := NewMesh("b")
	c := NewMesh("c")
	root.Add(a)
	root.Add(b)
	root.Add(c)
	sink := NewGroup("sink")
	root.Add(sink)

	var visited []string
	root.Traverse(func(n *Node) {
		visited = append(visited, n.Name)
		if n.IsMesh() && n.Parent() == root {
			sink.Attach(n)
		}
	})

	// Siblings must not be skipped when a node moves out of the list
	for _, name := range []string{"a", "b", "c"} {
		if root.FindByName(name).Parent() != sink {
			t.Errorf("%s should have been moved to sink", name)
		}
	}
	if visited[0] != "root" {
		t.Errorf("traversal should start at root, got %v", visited)
	}
}

func TestMeshesAndFind(t *testing.T) {
	root, body, mesh := buildVehicle()
	meshes := root.Meshes()
	if len(meshes) != 1 || meshes[0] != mesh {
		t.Errorf("expected only the wheel mesh, got %v", meshes)
	}
	if root.FindByName("body") != body {
		t.Error("FindByName should find body")
	}
	if root.FindByName("missing") != nil {
		t.Error("FindByName should return nil for unknown names")
	}
	if mesh.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", mesh.Depth())
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{-1, 0, 0}, Max: mgl32.Vec3{1, 2, 4}}
	if c := b.Center(); c != (mgl32.Vec3{0, 1, 2}) {
		t.Errorf("center: got %v", c)
	}
	u := b.Union(Bounds{Min: mgl32.Vec3{-3, 1, 1}, Max: mgl32.Vec3{0, 5, 1}})
	if u.Min != (mgl32.Vec3{-3, 0, 0}) || u.Max != (mgl32.Vec3{1, 5, 4}) {
		t.Errorf("union: got %+v", u)
	}
}

func TestDump(t *testing.T) {
	root, _, _ := buildVehicle()
	out := root.Dump()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "    wheel [mesh]") {
		t.Errorf("unexpected mesh line %q", lines[2])
	}
}
