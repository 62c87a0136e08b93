// Package keys holds the shared keyboard state fed by every input surface.
package keys

import (
	"context"
	"strings"
)

// Driving keys.
const (
	Forward  = "w"
	Backward = "s"
	Left     = "a"
	Right    = "d"
)

// KeyEvent is a key press or release coming from any input surface.
type KeyEvent struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

// State is the key table read once per frame. It is not safe for concurrent
// use: producers on other goroutines must go through Send, and the frame
// loop applies their events with Drain.
type State struct {
	keys   map[string]bool
	events chan KeyEvent
}

// EventBuffer is the capacity of the cross-goroutine event queue.
const EventBuffer = 64

// New creates an empty key table.
func New() *State {
	return &State{
		keys:   make(map[string]bool),
		events: make(chan KeyEvent, EventBuffer),
	}
}

// Press marks key as held.
func (s *State) Press(key string) {
	s.keys[Normalize(key)] = true
}

// Release marks key as released. Released keys stay recorded as false.
func (s *State) Release(key string) {
	s.keys[Normalize(key)] = false
}

// Apply records a single event.
func (s *State) Apply(ev KeyEvent) {
	if ev.Down {
		s.Press(ev.Key)
	} else {
		s.Release(ev.Key)
	}
}

// Down reports whether key is held.
func (s *State) Down(key string) bool {
	return s.keys[Normalize(key)]
}

// Send queues an event from another goroutine. It blocks while the queue
// is full until ctx is done.
func (s *State) Send(ctx context.Context, ev KeyEvent) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain applies every queued event and returns how many were applied.
func (s *State) Drain() int {
	n := 0
	for {
		select {
		case ev := <-s.events:
			s.Apply(ev)
			n++
		default:
			return n
		}
	}
}

// Snapshot copies the current table.
func (s *State) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.keys))
	for k, v := range s.keys {
		snap[k] = v
	}
	return snap
}

// Reset releases every key.
func (s *State) Reset() {
	for k := range s.keys {
		s.keys[k] = false
	}
}

// Snapshot is a frozen copy of the key table.
type Snapshot map[string]bool

// Down reports whether key was held when the snapshot was taken.
func (s Snapshot) Down(key string) bool {
	return s[Normalize(key)]
}

// Normalize lower-cases a key name.
func Normalize(key string) string {
	return strings.ToLower(key)
}

// TouchButton is an on-screen button that aliases a keyboard key.
type TouchButton struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TouchButtons are the steering and drive buttons in display order.
var TouchButtons = []TouchButton{
	{Key: Left, Label: "◀"},
	{Key: Right, Label: "▶"},
	{Key: Forward, Label: "▲"},
	{Key: Backward, Label: "▼"},
}
