package states

import (
	"github.com/Faultbox/carview/internal/assets"
	"github.com/Faultbox/carview/internal/engine/keys"
	"github.com/Faultbox/carview/internal/telemetry"
	"github.com/Faultbox/carview/internal/vehicle"
	"github.com/Faultbox/carview/pkg/scene"
)

// ModelLoader is the asynchronous model source polled by the loading state.
type ModelLoader interface {
	LoadModel(path string, cb assets.ModelCallback)
	Poll() int
}

// Camera is the orbit camera updated after the car moves.
type Camera interface {
	vehicle.CameraTarget
	Update()
}

// Session is the state shared by every phase. All fields are touched only
// from the frame goroutine.
type Session struct {
	World      *scene.Node
	Keys       *keys.State
	Loader     ModelLoader
	Controller *vehicle.Controller
	Camera     Camera
	Board      *telemetry.Board

	ModelPath string
	Tuning    vehicle.Tuning
	Wheels    vehicle.WheelNameTable
	Pivots    vehicle.PivotOptions

	// FPS is the smoothed frame rate reported with telemetry.
	FPS float32
}

// frame runs the part of every update shared by all states: apply queued
// key events, step the car, then let the camera follow.
func (s *Session) frame(dt float64) {
	s.Keys.Drain()
	s.Controller.Update(float32(dt), s.Keys.Snapshot())
	s.Camera.Update()
	if s.Board != nil {
		s.Board.Publish(s.Controller.Pose(), s.FPS)
	}
}
