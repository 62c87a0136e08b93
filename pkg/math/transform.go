package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Compose builds a transform matrix T * R * S.
func Compose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(rot.Mat4()).Mul4(s)
}

// Decompose splits an affine matrix into translation, rotation and scale.
// A negative determinant is folded into the X scale.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	pos = mgl32.Vec3{m[12], m[13], m[14]}

	sx := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	sy := mgl32.Vec3{m[4], m[5], m[6]}.Len()
	sz := mgl32.Vec3{m[8], m[9], m[10]}.Len()
	if m.Det() < 0 {
		sx = -sx
	}
	scale = mgl32.Vec3{sx, sy, sz}

	// Strip scale from the basis before reading the rotation
	r := mgl32.Ident4()
	for col, s := range [3]float32{sx, sy, sz} {
		if s == 0 {
			continue
		}
		inv := 1 / s
		r[col*4+0] = m[col*4+0] * inv
		r[col*4+1] = m[col*4+1] * inv
		r[col*4+2] = m[col*4+2] * inv
	}
	rot = mgl32.Mat4ToQuat(r).Normalize()
	return pos, rot, scale
}

// SafeNormalize returns v scaled to unit length. A zero vector stays zero.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// ApproxEqual reports whether every component of a and b differs by at most eps.
func ApproxEqual(a, b mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if gomath.Abs(float64(a[i]-b[i])) > float64(eps) {
			return false
		}
	}
	return true
}

// IsFinite reports whether v has no NaN or infinite component.
func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
			return false
		}
	}
	return true
}
