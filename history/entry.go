package history

import (
	"fmt"
	"time"

	"github.com/ytfree-cli/ytfree/track"
)

// Entry is one track in the listening log.
type Entry struct {
	Track    track.Track `json:"track"`
	PlayedAt time.Time   `json:"played_at"`
	Plays    int         `json:"plays"`
}

func (e *Entry) encode() string {
	return e.Track.ID
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%d plays)", e.Track, e.Plays)
}

func newEntry(t track.Track, at time.Time) *Entry {
	// provenance belongs to playlists, not to the log
	t.AddedBy = ""
	t.AddedAt = time.Time{}

	return &Entry{
		Track:    t,
		PlayedAt: at,
		Plays:    1,
	}
}
