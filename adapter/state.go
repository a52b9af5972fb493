package adapter

import "fmt"

// State is the adapter's view of the widget lifecycle.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	PlayingExternal
	PausedExternal
	BufferingExternal
	Ended
	Errored
	Destroyed
)

var stateNames = map[State]string{
	Uninitialized:     "uninitialized",
	Loading:           "loading",
	Ready:             "ready",
	PlayingExternal:   "playing",
	PausedExternal:    "paused",
	BufferingExternal: "buffering",
	Ended:             "ended",
	Errored:           "errored",
	Destroyed:         "destroyed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trigger is an input to the lifecycle: a widget event or an adapter call.
type Trigger int

const (
	TriggerConstruct Trigger = iota
	TriggerReady
	TriggerPlaying
	TriggerPaused
	TriggerBuffering
	TriggerEnded
	TriggerError
	TriggerCued
	TriggerDestroy
)

var triggerNames = map[Trigger]string{
	TriggerConstruct: "construct",
	TriggerReady:     "ready",
	TriggerPlaying:   "playing",
	TriggerPaused:    "paused",
	TriggerBuffering: "buffering",
	TriggerEnded:     "ended",
	TriggerError:     "error",
	TriggerCued:      "cued",
	TriggerDestroy:   "destroy",
}

func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// media are the transitions shared by every state that has media loaded.
func media() map[Trigger]State {
	return map[Trigger]State{
		TriggerPlaying:   PlayingExternal,
		TriggerPaused:    PausedExternal,
		TriggerBuffering: BufferingExternal,
		TriggerEnded:     Ended,
		TriggerError:     Errored,
		TriggerCued:      Ready,
		TriggerDestroy:   Destroyed,
	}
}

// transitions is the whole lifecycle. A trigger missing from a state's row is ignored.
var transitions = map[State]map[Trigger]State{
	Uninitialized: {
		TriggerConstruct: Loading,
		TriggerDestroy:   Destroyed,
	},
	Loading: {
		TriggerReady:   Ready,
		TriggerError:   Errored,
		TriggerDestroy: Destroyed,
	},
	Ready:             media(),
	PlayingExternal:   media(),
	PausedExternal:    media(),
	BufferingExternal: media(),
	Ended:             media(),
	Errored: func() map[Trigger]State {
		row := media()
		// a widget that failed before it was ready may still come up
		row[TriggerReady] = Ready
		return row
	}(),
	Destroyed: {},
}

// next looks up the transition for t from s.
func next(s State, t Trigger) (State, bool) {
	to, ok := transitions[s][t]
	return to, ok
}
