// Package catalog defines what a search backend hands to the player: results,
// pages of results and the mapping from a result to a playable track.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/track"
)

// ErrUnknown is returned when no catalog has the requested id.
var ErrUnknown = errors.New("unknown catalog")

// Catalog is a searchable source of playable media.
type Catalog interface {
	ID() string
	Name() string

	// Search returns the page identified by pageToken; an empty token is the first page.
	Search(ctx context.Context, query, pageToken string) (Page, error)

	// Trending returns up to count popular results.
	Trending(ctx context.Context, count int) ([]Result, error)
}

// Result is a catalog item. Optional fields are absent when the backend does not know them.
type Result struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
	MediaKey    string
	Duration    mo.Option[int]
	ChannelName string
	ViewCount   mo.Option[int64]
	PublishedAt mo.Option[time.Time]
}

// Track maps r onto the engine's record. A missing duration becomes 0 and a
// missing channel becomes track.UnknownArtist.
func (r Result) Track() track.Track {
	artist := strings.TrimSpace(r.ChannelName)
	if artist == "" {
		artist = track.UnknownArtist
	}

	key := r.MediaKey
	if key == "" {
		key = r.ID
	}

	return track.Track{
		ID:        r.ID,
		Title:     r.Title,
		Artist:    artist,
		Duration:  max(r.Duration.OrEmpty(), 0),
		Thumbnail: r.Thumbnail,
		MediaKey:  key,
	}
}

// Tracks maps every result.
func Tracks(results []Result) []track.Track {
	tracks := make([]track.Track, len(results))
	for i, r := range results {
		tracks[i] = r.Track()
	}
	return tracks
}

// Page is one page of search results.
type Page struct {
	Items         []Result
	TotalCount    int
	NextPageToken string
	Page          int
	PageSize      int
	HasMore       bool
}

// PageNumber decodes a page token produced by Paginate. Anything invalid is page 1.
func PageNumber(token string) int {
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate slices page n out of all. Backends that can only fetch "the first
// N" use it by fetching n*size items.
func Paginate(all []Result, n, size int) Page {
	if size <= 0 {
		size = len(all)
	}
	n = max(n, 1)

	start := min((n-1)*size, len(all))
	end := min(start+size, len(all))

	page := Page{
		Items:      all[start:end],
		TotalCount: len(all),
		Page:       n,
		PageSize:   size,
		HasMore:    end == n*size && end > 0,
	}

	if page.HasMore {
		page.NextPageToken = strconv.Itoa(n + 1)
	}

	return page
}
