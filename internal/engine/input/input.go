// Package input handles SDL2 input events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/carview/internal/engine/keys"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventDrag
	EventWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    string // lower-cased key name
	Code   sdl.Scancode
	Width  int
	Height int
	DX, DY float32 // drag pixels or wheel steps
}

// Input converts SDL events into key state and camera gestures.
type Input struct {
	keys     *keys.State
	events   []Event
	dragging bool
}

// New creates an input handler feeding ks.
func New(ks *keys.State) *Input {
	return &Input{
		keys:   ks,
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events, applies key changes to the key state and
// records the rest. Returns true if the program should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			name := KeyName(e.Keysym.Sym)
			if e.Type == sdl.KEYDOWN {
				if e.Keysym.Sym == sdl.K_ESCAPE {
					quit = true
				}
				i.keys.Press(name)
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: name, Code: e.Keysym.Scancode})
				}
			} else if e.Type == sdl.KEYUP {
				i.keys.Release(name)
				i.events = append(i.events, Event{Type: EventKeyUp, Key: name, Code: e.Keysym.Scancode})
			}

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging && e.State&sdl.ButtonLMask() != 0 {
				i.events = append(i.events, Event{
					Type: EventDrag,
					DX:   float32(e.XRel),
					DY:   float32(e.YRel),
				})
			}

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			i.events = append(i.events, Event{Type: EventWheel, DY: dy})
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame.
func (i *Input) IsKeyPressed(key string) bool {
	key = keys.Normalize(key)
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// KeyName returns the lower-cased SDL name of a key, e.g. "w" or "left shift".
func KeyName(sym sdl.Keycode) string {
	return strings.ToLower(sdl.GetKeyName(sym))
}
