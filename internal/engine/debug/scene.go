package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/pkg/scene"
)

// MarkerSize is the half length of a pivot marker cross in world units.
const MarkerSize = 0.15

// SceneLines collects wireframe proxies for every mesh below root that has
// bounds. colorOf picks each mesh's colour; nil means white.
func SceneLines(root *scene.Node, colorOf func(*scene.Node) mgl32.Vec3) []LineVertex {
	if root == nil {
		return nil
	}

	var out []LineVertex
	for _, m := range root.Meshes() {
		if m.Bounds == nil {
			continue
		}
		c := mgl32.Vec3{1, 1, 1}
		if colorOf != nil {
			c = colorOf(m)
		}

		v := GenerateOrientedBBoxVertices(m.Bounds.Min, m.Bounds.Max, m.WorldMatrix())
		for i := 0; i < len(v); i += 3 {
			out = append(out, LineVertex{v[i], v[i+1], v[i+2], c[0], c[1], c[2]})
		}
	}
	return out
}

// MarkerLines draws a three-axis cross at p, e.g. on a wheel hub.
func MarkerLines(p mgl32.Vec3, size float32, c mgl32.Vec3) []LineVertex {
	out := make([]LineVertex, 0, 6)
	for axis := 0; axis < 3; axis++ {
		a, b := p, p
		a[axis] -= size
		b[axis] += size
		out = append(out,
			LineVertex{a[0], a[1], a[2], c[0], c[1], c[2]},
			LineVertex{b[0], b[1], b[2], c[0], c[1], c[2]},
		)
	}
	return out
}
