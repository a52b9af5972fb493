// Package spotify searches Spotify's catalog and imports its playlists. Spotify
// does not serve audio to third parties, so every result is played through a
// yt-dlp search for its title and artist.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const ID = "spotify"

// ErrNoCredentials is returned when the client id or secret is not configured.
var ErrNoCredentials = errors.New("spotify client id and secret are not set")

type Catalog struct {
	raw        *spotify.Client
	limit      int
	trendingID spotify.ID
}

// New authenticates with the client credentials flow.
func New(clientID, clientSecret string, limit int, trendingPlaylist string) (*Catalog, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrNoCredentials
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	raw := spotify.New(cfg.Client(context.Background()), spotify.WithRetry(true))
	return NewWithClient(raw, limit, trendingPlaylist), nil
}

// NewWithClient wraps an already configured client.
func NewWithClient(raw *spotify.Client, limit int, trendingPlaylist string) *Catalog {
	return &Catalog{
		raw:        raw,
		limit:      max(limit, 1),
		trendingID: spotify.ID(trendingPlaylist),
	}
}

func (*Catalog) ID() string   { return ID }
func (*Catalog) Name() string { return "Spotify" }

func (c *Catalog) Search(ctx context.Context, query, pageToken string) (catalog.Page, error) {
	n := catalog.PageNumber(pageToken)

	res, err := c.raw.Search(ctx, strings.TrimSpace(query), spotify.SearchTypeTrack,
		spotify.Limit(c.limit),
		spotify.Offset((n-1)*c.limit),
	)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("spotify search %q: %w", query, err)
	}

	page := catalog.Page{Page: n, PageSize: c.limit}
	if res.Tracks == nil {
		return page, nil
	}

	page.Items = lo.Map(res.Tracks.Tracks, func(t spotify.FullTrack, _ int) catalog.Result {
		return fromTrack(t.SimpleTrack, t.Album)
	})
	page.TotalCount = int(res.Tracks.Total)
	page.HasMore = res.Tracks.Next != ""
	if page.HasMore {
		page.NextPageToken = fmt.Sprint(n + 1)
	}

	return page, nil
}

// Trending lists the configured playlist. Without one there is no trending list.
func (c *Catalog) Trending(ctx context.Context, count int) ([]catalog.Result, error) {
	if c.trendingID == "" {
		return nil, nil
	}

	results, err := c.playlistItems(ctx, c.trendingID, count)
	if err != nil {
		return nil, fmt.Errorf("spotify trending: %w", err)
	}
	return results, nil
}

// Import resolves a playlist, album or track link (or spotify: URI) into
// tracks and a title for the imported playlist.
func (c *Catalog) Import(ctx context.Context, link string, limit int) ([]track.Track, string, error) {
	typ, id, err := ParseID(link)
	if err != nil {
		return nil, "", err
	}

	switch typ {
	case "playlist":
		pl, err := c.raw.GetPlaylist(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("get playlist: %w", err)
		}
		results, err := c.playlistItems(ctx, id, limit)
		if err != nil {
			return nil, "", err
		}
		return catalog.Tracks(results), pl.Name, nil

	case "album":
		alb, err := c.raw.GetAlbum(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("get album: %w", err)
		}
		results, err := c.albumTracks(ctx, alb.SimpleAlbum, limit)
		if err != nil {
			return nil, "", err
		}
		return catalog.Tracks(results), alb.Name, nil

	case "track":
		t, err := c.raw.GetTrack(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("get track: %w", err)
		}
		r := fromTrack(t.SimpleTrack, t.Album)
		return []track.Track{r.Track()}, t.Name, nil
	}

	return nil, "", fmt.Errorf("cannot import spotify %s", typ)
}

func (c *Catalog) playlistItems(ctx context.Context, id spotify.ID, limit int) ([]catalog.Result, error) {
	page, err := c.raw.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}

	var out []catalog.Result
	add := func(items []spotify.PlaylistItem) {
		for _, it := range items {
			if limit > 0 && len(out) >= limit {
				return
			}
			if t := it.Track.Track; t != nil {
				out = append(out, fromTrack(t.SimpleTrack, t.Album))
			}
		}
	}

	add(page.Items)
	for page.Next != "" && (limit <= 0 || len(out) < limit) {
		if err := c.raw.NextPage(ctx, page); err != nil {
			break
		}
		add(page.Items)
	}

	return out, nil
}

func (c *Catalog) albumTracks(ctx context.Context, album spotify.SimpleAlbum, limit int) ([]catalog.Result, error) {
	page, err := c.raw.GetAlbumTracks(ctx, album.ID)
	if err != nil {
		return nil, fmt.Errorf("get album tracks: %w", err)
	}

	var out []catalog.Result
	add := func(items []spotify.SimpleTrack) {
		for _, t := range items {
			if limit > 0 && len(out) >= limit {
				return
			}
			out = append(out, fromTrack(t, album))
		}
	}

	add(page.Tracks)
	for page.Next != "" && (limit <= 0 || len(out) < limit) {
		if err := c.raw.NextPage(ctx, page); err != nil {
			break
		}
		add(page.Tracks)
	}

	return out, nil
}

// ParseID accepts spotify:type:id URIs and open.spotify.com links.
func ParseID(raw string) (typ string, id spotify.ID, err error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) == 3 && parts[2] != "" {
			return parts[1], spotify.ID(parts[2]), nil
		}
		return "", "", errors.New("invalid spotify URI")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Host != "open.spotify.com" && u.Host != "www.open.spotify.com" {
		return "", "", errors.New("not a spotify URL")
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// localized links look like /intl-de/playlist/<id>
	if len(parts) > 0 && strings.HasPrefix(parts[0], "intl-") {
		parts = parts[1:]
	}
	if len(parts) < 2 {
		return "", "", errors.New("invalid spotify URL path")
	}

	switch parts[0] {
	case "album", "playlist", "track":
		return parts[0], spotify.ID(parts[1]), nil
	}
	return "", "", fmt.Errorf("unsupported spotify type %q", parts[0])
}

// MediaKey is the yt-dlp search the widget plays for a Spotify track.
func MediaKey(title, artist string) string {
	q := fmt.Sprintf("%q", title)
	if artist != "" {
		q += " " + fmt.Sprintf("%q", artist)
	}
	return "ytsearch1:" + q
}

func fromTrack(t spotify.SimpleTrack, album spotify.SimpleAlbum) catalog.Result {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}

	r := catalog.Result{
		ID:          "spotify:" + string(t.ID),
		Title:       t.Name,
		Description: album.Name,
		ChannelName: artist,
		MediaKey:    MediaKey(t.Name, artist),
	}

	if ms := int(t.Duration); ms > 0 {
		r.Duration = mo.Some((ms + 500) / 1000)
	}

	if len(album.Images) > 0 {
		r.Thumbnail = album.Images[0].URL
	}

	if released, ok := releaseDate(album.ReleaseDate); ok {
		r.PublishedAt = mo.Some(released)
	}

	return r
}

// releaseDate parses Spotify's day, month or year precision dates.
func releaseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
