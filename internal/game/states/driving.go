package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
)

// DrivingState steps the car from key input every frame.
type DrivingState struct {
	session *Session
}

// NewDrivingState creates a new driving state.
func NewDrivingState(s *Session) *DrivingState {
	return &DrivingState{session: s}
}

// Name implements State.
func (s *DrivingState) Name() string { return "driving" }

// Enter implements State.
func (s *DrivingState) Enter() error {
	pose := s.session.Controller.Pose()
	logger.Info("driving", zap.Float32s("position", pose.Position[:]))
	return nil
}

// Exit implements State.
func (s *DrivingState) Exit() error {
	return nil
}

// Update is called every frame.
func (s *DrivingState) Update(dt float64) error {
	s.session.frame(dt)
	return nil
}
