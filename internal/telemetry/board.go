// Package telemetry shares the latest car state between the frame loop and
// HTTP handlers.
package telemetry

import (
	"sync"
	"time"

	"github.com/Faultbox/carview/internal/vehicle"
)

// Sample is one published pose with its frame metadata.
type Sample struct {
	vehicle.Pose
	Frame   uint64    `json:"frame"`
	FPS     float32   `json:"fps"`
	Updated time.Time `json:"updated"`
}

// Board holds the most recent Sample.
type Board struct {
	mu     sync.RWMutex
	latest Sample
	frames uint64
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Publish records the pose of the frame just simulated.
func (b *Board) Publish(p vehicle.Pose, fps float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frames++
	b.latest = Sample{Pose: p, Frame: b.frames, FPS: fps, Updated: time.Now()}
}

// Latest returns a copy of the most recent sample.
func (b *Board) Latest() Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}
