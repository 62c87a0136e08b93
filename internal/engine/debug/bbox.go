// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// boxEdges indexes the eight corners produced by boxCorners.
var boxEdges = [12][2]int{
	// Bottom face
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	// Top face
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	// Vertical edges
	{0, 4}, {1, 5}, {3, 7}, {2, 6},
}

// boxCorners returns the corners ordered by bit: x = bit 0, z = bit 1, y = bit 2.
func boxCorners(min, max mgl32.Vec3) [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := range c {
		p := min
		if i&1 != 0 {
			p[0] = max[0]
		}
		if i&2 != 0 {
			p[2] = max[2]
		}
		if i&4 != 0 {
			p[1] = max[1]
		}
		c[i] = p
	}
	return c
}

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(min, max mgl32.Vec3) []float32 {
	return GenerateOrientedBBoxVertices(min, max, mgl32.Ident4())
}

// GenerateOrientedBBoxVertices transforms a local-space box by world before
// emitting its edges, so rotated meshes get rotated boxes.
func GenerateOrientedBBoxVertices(min, max mgl32.Vec3, world mgl32.Mat4) []float32 {
	corners := boxCorners(min, max)
	for i, c := range corners {
		corners[i] = mgl32.TransformCoordinate(c, world)
	}

	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for _, e := range boxEdges {
		a, b := corners[e[0]], corners[e[1]]
		out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
	}
	return out
}
