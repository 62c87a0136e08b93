package math

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestComposeDecompose(t *testing.T) {
	tests := []struct {
		name  string
		pos   mgl32.Vec3
		rot   Euler
		scale mgl32.Vec3
	}{
		{"identity", mgl32.Vec3{}, Euler{}, mgl32.Vec3{1, 1, 1}},
		{"translate", mgl32.Vec3{1, 2, 3}, Euler{}, mgl32.Vec3{1, 1, 1}},
		{"vehicle root", mgl32.Vec3{0, 0, 5}, Euler{Y: float32(gomath.Pi)}, mgl32.Vec3{60, 60, 60}},
		{"non-uniform", mgl32.Vec3{-4, 0.5, 9}, Euler{X: 0.2, Y: 0.4, Z: -0.6}, mgl32.Vec3{2, 3, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compose(tt.pos, tt.rot.Quat(), tt.scale)
			pos, rot, scale := Decompose(m)

			if !ApproxEqual(pos, tt.pos, 1e-4) {
				t.Errorf("position: got %v, want %v", pos, tt.pos)
			}
			if !ApproxEqual(scale, tt.scale, 1e-3) {
				t.Errorf("scale: got %v, want %v", scale, tt.scale)
			}

			// Rebuilding must give the same matrix
			back := Compose(pos, rot, scale)
			for i := 0; i < 16; i++ {
				if gomath.Abs(float64(back[i]-m[i])) > 1e-3 {
					t.Fatalf("element %d: got %v, want %v", i, back[i], m[i])
				}
			}
		})
	}
}

func TestDecomposeNegativeScale(t *testing.T) {
	m := Compose(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{-2, 1, 1})
	_, _, scale := Decompose(m)
	if scale[0] >= 0 {
		t.Errorf("negative determinant should fold into X scale, got %v", scale)
	}
}

func TestSafeNormalize(t *testing.T) {
	if got := SafeNormalize(mgl32.Vec3{}); got != (mgl32.Vec3{}) {
		t.Errorf("zero vector should stay zero, got %v", got)
	}
	if !IsFinite(SafeNormalize(mgl32.Vec3{})) {
		t.Error("normalizing zero must not produce NaN")
	}

	got := SafeNormalize(mgl32.Vec3{0, 0, -3})
	if !ApproxEqual(got, mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("got %v, want (0, 0, -1)", got)
	}
}

func TestIsFinite(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))
	if IsFinite(mgl32.Vec3{nan, 0, 0}) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(mgl32.Vec3{0, inf, 0}) {
		t.Error("Inf should not be finite")
	}
	if !IsFinite(mgl32.Vec3{1, 2, 3}) {
		t.Error("regular vector should be finite")
	}
}
