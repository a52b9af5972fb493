package playback

import (
	"fmt"
	"strings"
)

// RepeatMode controls what Next does at the end of the queue and what the
// adapter does when a track ends.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatOne
	RepeatAll
)

var repeatModeNames = map[RepeatMode]string{
	RepeatNone: "none",
	RepeatOne:  "one",
	RepeatAll:  "all",
}

// Valid reports whether m is one of the three known modes.
func (m RepeatMode) Valid() bool {
	_, ok := repeatModeNames[m]
	return ok
}

func (m RepeatMode) String() string {
	if name, ok := repeatModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RepeatMode(%d)", int(m))
}

// Next cycles none -> all -> one -> none, the order of the transport button.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

// ParseRepeatMode accepts "none", "one" and "all", case-insensitively.
func ParseRepeatMode(s string) (RepeatMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range repeatModeNames {
		if name == s {
			return m, nil
		}
	}
	return RepeatNone, fmt.Errorf("unknown repeat mode %q", s)
}

func (m RepeatMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid repeat mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *RepeatMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRepeatMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PlayerMode is a rendering hint. It never changes queue logic.
type PlayerMode int

const (
	ModeAudio PlayerMode = iota
	ModeVideo
)

func (m PlayerMode) String() string {
	if m == ModeVideo {
		return "video"
	}
	return "audio"
}

// Toggle flips between audio and video.
func (m PlayerMode) Toggle() PlayerMode {
	if m == ModeVideo {
		return ModeAudio
	}
	return ModeVideo
}

// ParsePlayerMode accepts "audio" and "video".
func ParsePlayerMode(s string) (PlayerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio":
		return ModeAudio, nil
	case "video":
		return ModeVideo, nil
	default:
		return ModeAudio, fmt.Errorf("unknown player mode %q", s)
	}
}
