package vehicle

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/pkg/math"
	"github.com/Faultbox/carview/pkg/scene"
)

// wheelPart describes one fixture mesh.
type wheelPart struct {
	name string
	pos  mgl32.Vec3
}

// fixtureParts mirrors the Porsche hierarchy: each wheel has a tyre/rim part
// and a hub part with slightly different origins. Names carry the usual
// exporter prefixes and suffixes around the table fragments.
var fixtureParts = map[WheelID][]wheelPart{
	FrontLeft: {
		{"pPolySurface7_pPorsche_911GT2_1993_Wheel1A_3D_3DWheel1A_Material1_0", mgl32.Vec3{0.8, 1.3, 0.33}},
		{"TSM_Hub_L_0000_001_SM_Hub_L_0000_001_Mat_Hub_TMat_Hub1_0", mgl32.Vec3{0.82, 1.3, 0.33}},
	},
	FrontRight: {
		{"pPolySurface10_pPorsche_911GT2_1993_Wheel1A_3D_3DWheel1A_Material1_0", mgl32.Vec3{-0.8, 1.3, 0.33}},
		{"TSM_Hub_R_0000_001_SM_Hub_R_0000_001_Mat_Hub_009_TMat_Hub1_0", mgl32.Vec3{-0.82, 1.3, 0.33}},
	},
	RearLeft: {
		{"pPolySurface13_pPorsche_911GT2_1993_Wheel1A_3D_3DWheel1A_Material1_0", mgl32.Vec3{0.8, -1.1, 0.33}},
		{"SM_Hub_L_0000_001_SM_Hub_L_0000_001_Mat_Hub_TMat_Hub1_0", mgl32.Vec3{0.82, -1.1, 0.33}},
	},
	RearRight: {
		{"pPolySurface16_pPorsche_911GT2_1993_Wheel1A_3D_3DWheel1A_Material1_0", mgl32.Vec3{-0.8, -1.1, 0.33}},
		{"SM_Hub_R_0000_001_SM_Hub_R_0000_001_Mat_Hub_009_TMat_Hub1_0", mgl32.Vec3{-0.82, -1.1, 0.33}},
	},
}

// buildFixture returns a model root shaped like a typical glTF export:
// root -> sketchfab model (Z-up to Y-up) -> scaled export root -> meshes.
func buildFixture() *scene.Node {
	root := scene.NewGroup("Sketchfab_Scene")

	model := scene.NewGroup("Sketchfab_model")
	model.Rotation = math.Euler{X: -float32(gomath.Pi / 2)}
	root.Add(model)

	export := scene.NewGroup("root")
	export.Scale = mgl32.Vec3{0.01, 0.01, 0.01}
	export.Position = mgl32.Vec3{0, 0, 0.002}
	model.Add(export)

	body := scene.NewMesh("Body_Paint_0")
	body.Position = mgl32.Vec3{0, 0.1, 0.5}
	export.Add(body)

	for _, id := range AllWheels {
		// Parts sit one level deeper, under a transformed holder, to
		// exercise attach through several ancestors
		holder := scene.NewGroup("holder_" + id.String())
		holder.Rotation = math.Euler{Z: 0.2}
		holder.Position = mgl32.Vec3{0.05, 0, 0}
		export.Add(holder)
		for _, p := range fixtureParts[id] {
			m := scene.NewMesh(p.name)
			m.Position = p.pos.Mul(100)
			m.Rotation = math.Euler{Y: 0.4}
			holder.Add(m)
		}
	}

	PrepareModel(root, DefaultTuning())
	return root
}

// fakeCamera records the last target.
type fakeCamera struct {
	target mgl32.Vec3
	calls  int
}

func (c *fakeCamera) SetTarget(t mgl32.Vec3) {
	c.target = t
	c.calls++
}

// keySet is a Keys implementation over a literal set of held keys.
type keySet map[string]bool

func (k keySet) Down(key string) bool {
	return k[key]
}
