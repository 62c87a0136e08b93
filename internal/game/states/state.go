// Package states implements the viewer's load and drive phases.
package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
)

// State represents a session phase (loading, driving).
type State interface {
	// Name identifies the state in logs.
	Name() string

	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the start of the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	// Handle state transition
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		from := "none"
		if m.current != nil {
			from = m.current.Name()
		}
		m.current = m.next
		m.next = nil
		logger.Info("state change", zap.String("from", from), zap.String("to", m.current.Name()))
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	// Update current state
	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}
