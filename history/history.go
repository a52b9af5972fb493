// Package history keeps the recently played log. It never restores playback state.
package history

import (
	"slices"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/where"
)

// Limit caps how many distinct tracks are kept.
const Limit = 200

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the log keyed by track id.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Recent returns entries, most recently played first.
func Recent() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	slices.SortFunc(entries, func(a, b *Entry) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	return entries, nil
}

// Record notes that t started playing now.
func Record(t track.Track) error {
	return record(t, time.Now())
}

func record(t track.Track, at time.Time) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := newEntry(t, at)
	if existing, ok := saved[entry.encode()]; ok {
		entry.Plays = existing.Plays + 1
	}
	saved[entry.encode()] = entry

	if len(saved) > Limit {
		oldest := lo.MinBy(lo.Values(saved), func(a, b *Entry) bool {
			return a.PlayedAt.Before(b.PlayedAt)
		})
		delete(saved, oldest.encode())
	}

	return cacher.Set(saved)
}

// Remove deletes a single entry.
func Remove(entry *Entry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return cacher.Set(saved)
}

// Clear empties the log.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
