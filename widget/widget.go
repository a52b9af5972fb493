// Package widget defines the contract of the external rendering surface that
// actually decodes and plays media. Commands are asynchronous: a nil error only
// means the command was accepted, and the outcome arrives later as an Event.
package widget

import "fmt"

// State is what the widget last reported about its media.
type State int

const (
	StateUnstarted State = iota
	StateEnded
	StatePlaying
	StatePaused
	StateBuffering
	StateCued
)

var stateNames = map[State]string{
	StateUnstarted: "unstarted",
	StateEnded:     "ended",
	StatePlaying:   "playing",
	StatePaused:    "paused",
	StateBuffering: "buffering",
	StateCued:      "cued",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind distinguishes the three lifecycle notifications.
type EventKind int

const (
	EventReady EventKind = iota
	EventStateChanged
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventStateChanged:
		return "state-changed"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is emitted by a widget on its Events channel.
type Event struct {
	Kind EventKind

	// State is set for EventStateChanged.
	State State

	// Code and Err are set for EventError.
	Code string
	Err  error
}

func (e Event) String() string {
	switch e.Kind {
	case EventStateChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.State)
	case EventError:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Code)
	default:
		return e.Kind.String()
	}
}

// Widget is a rendering surface. Events is closed once the widget is destroyed
// or its backend goes away.
type Widget interface {
	LoadMedia(key string) error
	Play() error
	Pause() error
	Seek(seconds float64) error

	// SetVolume takes a percentage in [0,100].
	SetVolume(percent int) error
	Mute() error
	Unmute() error

	CurrentTime() (float64, error)
	Duration() (float64, error)
	State() State

	Destroy() error
	Events() <-chan Event
}

// VideoToggler is implemented by widgets that can switch between audio-only and video output.
type VideoToggler interface {
	SetVideo(enabled bool) error
}
