// Package math provides transform helpers for scene graphs built on mathgl.
package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis unit vectors.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// Euler holds rotation angles in radians, applied in intrinsic XYZ order.
// The equivalent rotation matrix is Rx * Ry * Rz.
type Euler struct {
	X, Y, Z float32
}

// Quat returns the quaternion for the rotation.
func (e Euler) Quat() mgl32.Quat {
	qx := mgl32.QuatRotate(e.X, AxisX)
	qy := mgl32.QuatRotate(e.Y, AxisY)
	qz := mgl32.QuatRotate(e.Z, AxisZ)
	return qx.Mul(qy).Mul(qz)
}

// Mat4 returns the rotation matrix.
func (e Euler) Mat4() mgl32.Mat4 {
	return e.Quat().Mat4()
}

// EulerFromMat4 extracts XYZ angles from a pure rotation matrix.
// Near gimbal lock (|m13| ~ 1) Z is pinned to zero.
func EulerFromMat4(m mgl32.Mat4) Euler {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	var e Euler
	e.Y = float32(gomath.Asin(float64(mgl32.Clamp(m13, -1, 1))))
	if gomath.Abs(float64(m13)) < 0.9999999 {
		e.X = atan2(-m23, m33)
		e.Z = atan2(-m12, m11)
	} else {
		e.X = atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// EulerFromQuat extracts XYZ angles from a quaternion.
func EulerFromQuat(q mgl32.Quat) Euler {
	if q.Len() == 0 {
		return Euler{}
	}
	return EulerFromMat4(q.Normalize().Mat4())
}

func atan2(y, x float32) float32 {
	return float32(gomath.Atan2(float64(y), float64(x)))
}
