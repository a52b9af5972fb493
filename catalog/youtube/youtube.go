// Package youtube is the default catalog: YouTube search and trending through yt-dlp.
package youtube

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/internal/cache"
	"github.com/ytfree-cli/ytfree/log"
)

const ID = "youtube"

var installOnce sync.Once

// extractor runs yt-dlp against url and returns what it printed.
type extractor func(ctx context.Context, url string) ([]*ytdlp.ExtractedInfo, error)

// Catalog searches YouTube. Pages are emulated: page n asks yt-dlp for the
// first n*limit hits and keeps the last limit.
type Catalog struct {
	limit       int
	trendingURL string
	useCache    bool
	extract     extractor
}

// New creates the catalog. trendingURL is any playlist yt-dlp can list.
func New(limit int, trendingURL string, useCache bool) *Catalog {
	return &Catalog{
		limit:       max(limit, 1),
		trendingURL: trendingURL,
		useCache:    useCache,
		extract:     runFlat,
	}
}

func (*Catalog) ID() string   { return ID }
func (*Catalog) Name() string { return "YouTube" }

func (c *Catalog) Search(ctx context.Context, query, pageToken string) (catalog.Page, error) {
	query = strings.TrimSpace(query)
	n := catalog.PageNumber(pageToken)

	key := cache.GenerateKey(query, fmt.Sprint(n), ID)
	var cached catalog.Page
	if c.useCache && cache.Read(key, &cached) {
		return cached, nil
	}

	infos, err := c.extract(ctx, fmt.Sprintf("ytsearch%d:%s", n*c.limit, query))
	if err != nil {
		return catalog.Page{}, fmt.Errorf("youtube search %q: %w", query, err)
	}

	page := catalog.Paginate(fromInfos(infos), n, c.limit)
	if c.useCache && len(page.Items) > 0 {
		if err := cache.Write(key, page); err != nil {
			log.Warnf("cache youtube page: %v", err)
		}
	}

	return page, nil
}

func (c *Catalog) Trending(ctx context.Context, count int) ([]catalog.Result, error) {
	if c.trendingURL == "" {
		return nil, nil
	}

	infos, err := c.extract(ctx, c.trendingURL)
	if err != nil {
		return nil, fmt.Errorf("youtube trending: %w", err)
	}

	results := fromInfos(infos)
	if count > 0 && len(results) > count {
		results = results[:count]
	}
	return results, nil
}

func runFlat(ctx context.Context, url string) ([]*ytdlp.ExtractedInfo, error) {
	installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			log.Warnf("yt-dlp install: %v", err)
		}
	})

	res, err := ytdlp.New().
		FlatPlaylist().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp run: %w", err)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	return infos, nil
}

// fromInfos flattens search and playlist containers into results.
func fromInfos(infos []*ytdlp.ExtractedInfo) []catalog.Result {
	var results []catalog.Result

	for _, info := range infos {
		if info == nil {
			continue
		}

		if len(info.Entries) == 0 {
			if r, ok := fromInfo(info); ok {
				results = append(results, r)
			}
			continue
		}

		for _, entry := range info.Entries {
			if r, ok := fromInfo(entry); ok {
				results = append(results, r)
			}
		}
	}

	return results
}

func fromInfo(info *ytdlp.ExtractedInfo) (catalog.Result, bool) {
	if info == nil || info.ID == "" {
		return catalog.Result{}, false
	}

	r := catalog.Result{
		ID:          info.ID,
		Title:       deref(info.Title),
		Description: deref(info.Description),
		ChannelName: deref(info.Uploader),
		MediaKey:    info.ID,
	}

	if info.Duration != nil && *info.Duration > 0 {
		r.Duration = mo.Some(int(math.Round(*info.Duration)))
	}

	// yt-dlp lists thumbnails from worst to best
	for i := len(info.Thumbnails) - 1; i >= 0; i-- {
		if t := info.Thumbnails[i]; t != nil && t.URL != "" {
			r.Thumbnail = t.URL
			break
		}
	}

	return r, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
