package states

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/assets"
	"github.com/Faultbox/carview/internal/logger"
	"github.com/Faultbox/carview/internal/vehicle"
)

// LoadingState waits for the vehicle model. The ground and camera stay live
// meanwhile; if the load fails the state never exits.
type LoadingState struct {
	session *Session
	manager *Manager

	started   time.Time
	requested bool

	// Failed is set once the model could not be loaded.
	Failed bool
	Err    error
}

// NewLoadingState creates a new loading state.
func NewLoadingState(s *Session, m *Manager) *LoadingState {
	return &LoadingState{session: s, manager: m}
}

// Name implements State.
func (s *LoadingState) Name() string { return "loading" }

// Enter starts the model load. Re-entering does not reload.
func (s *LoadingState) Enter() error {
	if s.requested {
		return nil
	}
	s.requested = true
	s.started = time.Now()

	logger.Info("loading vehicle model", zap.String("path", s.session.ModelPath))
	s.session.Loader.LoadModel(s.session.ModelPath, s.onLoaded)
	return nil
}

// Exit implements State.
func (s *LoadingState) Exit() error {
	return nil
}

// Update is called every frame.
func (s *LoadingState) Update(dt float64) error {
	s.session.Loader.Poll()
	s.session.frame(dt)
	return nil
}

// onLoaded runs from Poll on the frame goroutine.
func (s *LoadingState) onLoaded(model *assets.Model, err error) {
	if err != nil {
		s.Failed = true
		s.Err = err
		logger.Error("vehicle unavailable, continuing without a car",
			zap.String("path", s.session.ModelPath), zap.Error(err))
		return
	}

	rig := Rig(model, s.session.Tuning, s.session.Wheels, s.session.Pivots)
	s.session.World.Add(rig.Root)
	s.session.Controller.SetRig(rig)

	logger.Info("vehicle ready",
		zap.Int("meshes", model.MeshCount),
		zap.Bool("compressed", model.Compressed),
		zap.Duration("took", time.Since(s.started)))

	s.manager.Change(NewDrivingState(s.session))
}

// Rig prepares a decoded model for driving: scale and yaw first, then the
// wheel pivots, so hub positions are computed in the final frame.
func Rig(model *assets.Model, t vehicle.Tuning, table vehicle.WheelNameTable, opts vehicle.PivotOptions) *vehicle.Rig {
	vehicle.PrepareModel(model.Root, t)
	wheels := vehicle.BuildPivots(model.Root, table, opts)
	return &vehicle.Rig{Root: model.Root, Wheels: wheels}
}
