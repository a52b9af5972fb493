// Package track defines the Track record shared by the playback engine, catalogs and playlists.
package track

import (
	"fmt"
	"time"
)

// Track is a playable item. MediaKey is opaque to the engine and only
// meaningful to the rendering widget.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album,omitempty"`
	Duration  int    `json:"duration"`
	Thumbnail string `json:"thumbnail,omitempty"`
	MediaKey  string `json:"media_key"`

	// Provenance, set by playlists only.
	AddedBy string    `json:"added_by,omitempty"`
	AddedAt time.Time `json:"added_at,omitempty"`
}

// UnknownArtist is shown when a catalog has no channel or artist name.
const UnknownArtist = "Unknown Artist"

func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// IndexOf returns the position of the track with the given ID, or -1.
func IndexOf(tracks []Track, id string) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
