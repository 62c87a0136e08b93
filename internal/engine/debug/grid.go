package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LineVertex represents a coloured vertex for line rendering.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// GenerateGroundGrid returns a square grid of size × size on the XZ plane
// centred at the origin, with divisions cells per side. The middle line of
// each direction uses centerColor, the rest use gridColor.
// Returns two vertices per line, (divisions+1)*4 in total.
func GenerateGroundGrid(size float32, divisions int, centerColor, gridColor mgl32.Vec3) []LineVertex {
	if divisions <= 0 || size <= 0 {
		return nil
	}

	half := size / 2
	step := size / float32(divisions)
	center := divisions / 2

	vertices := make([]LineVertex, 0, (divisions+1)*4)
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step

		color := gridColor
		if i == center {
			color = centerColor
		}

		vertices = append(vertices,
			// Along X
			LineVertex{-half, 0, k, color[0], color[1], color[2]},
			LineVertex{half, 0, k, color[0], color[1], color[2]},
			// Along Z
			LineVertex{k, 0, -half, color[0], color[1], color[2]},
			LineVertex{k, 0, half, color[0], color[1], color[2]},
		)
	}

	return vertices
}

// FlattenLineVertices converts vertices to an interleaved [x y z r g b] buffer.
func FlattenLineVertices(vs []LineVertex) []float32 {
	out := make([]float32, 0, len(vs)*6)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	return out
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into 0..1 RGB.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants.
func MustParseHexColor(s string) mgl32.Vec3 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
