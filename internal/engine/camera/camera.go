// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// minPolar keeps the camera off the pole so LookAt stays well defined.
const minPolar = 1e-6

// OrbitCamera orbits around a target point. The eye position is absolute:
// moving the target leaves the eye where it is until the next Update pulls
// it back inside the distance limits, so the camera trails a moving target.
type OrbitCamera struct {
	Target mgl32.Vec3
	eye    mgl32.Vec3

	// Projection
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Aspect float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPolar    float32 // radians from straight up

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Input accumulated since the last Update
	dTheta float32
	dPhi   float32
	scale  float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		eye:             mgl32.Vec3{4.25, 1.4, -4.5},
		FOV:             30,
		Near:            0.1,
		Far:             100,
		Aspect:          16.0 / 9.0,
		MinDistance:     3,
		MaxDistance:     10,
		MaxPolar:        mgl32.DegToRad(85),
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		scale:           1,
	}
}

// SetPosition places the eye in world space.
func (c *OrbitCamera) SetPosition(p mgl32.Vec3) {
	c.eye = p
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	return c.eye
}

// SetTarget snaps the orbit centre to t.
func (c *OrbitCamera) SetTarget(t mgl32.Vec3) {
	c.Target = t
}

// Distance returns the current eye to target distance.
func (c *OrbitCamera) Distance() float32 {
	return c.eye.Sub(c.Target).Len()
}

// Polar returns the angle between the view offset and +Y in radians.
func (c *OrbitCamera) Polar() float32 {
	_, phi, _ := toSpherical(c.eye.Sub(c.Target))
	return phi
}

// HandleDrag queues an orbit from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.dTheta -= deltaX * c.DragSensitivity
	c.dPhi -= deltaY * c.DragSensitivity
}

// HandleZoom queues a dolly from a scroll wheel delta. Positive zooms in.
func (c *OrbitCamera) HandleZoom(delta float32) {
	f := 1 - delta*c.ZoomSensitivity
	if f < 0.1 {
		f = 0.1
	}
	c.scale *= f
}

// Update applies queued input and the distance and angle limits.
// Call once per frame after the target has been moved.
func (c *OrbitCamera) Update() {
	offset := c.eye.Sub(c.Target)
	theta, phi, radius := toSpherical(offset)

	theta += c.dTheta
	phi += c.dPhi
	radius *= c.scale

	phi = mgl32.Clamp(phi, minPolar, c.MaxPolar)
	radius = mgl32.Clamp(radius, c.MinDistance, c.MaxDistance)

	c.eye = c.Target.Add(fromSpherical(theta, phi, radius))

	c.dTheta, c.dPhi, c.scale = 0, 0, 1
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Resize updates the aspect ratio. Zero sizes (minimised windows) are ignored.
func (c *OrbitCamera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// toSpherical returns azimuth around +Y (from +Z), polar angle from +Y and radius.
func toSpherical(v mgl32.Vec3) (theta, phi, radius float32) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = float32(gomath.Atan2(float64(v.X()), float64(v.Z())))
	phi = float32(gomath.Acos(float64(mgl32.Clamp(v.Y()/radius, -1, 1))))
	return theta, phi, radius
}

func fromSpherical(theta, phi, radius float32) mgl32.Vec3 {
	sinPhi := float32(gomath.Sin(float64(phi)))
	return mgl32.Vec3{
		radius * sinPhi * float32(gomath.Sin(float64(theta))),
		radius * float32(gomath.Cos(float64(phi))),
		radius * sinPhi * float32(gomath.Cos(float64(theta))),
	}
}
