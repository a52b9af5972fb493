// Package local is a catalog over audio files on disk, indexed by their tags.
package local

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/util"
)

const ID = "local"

var extensions = []string{".mp3", ".flac", ".ogg", ".opus", ".m4a", ".aac", ".wav"}

type entry struct {
	result   catalog.Result
	haystack string
	modified time.Time
}

// Catalog searches the files under dirs. The index is built on first use.
type Catalog struct {
	dirs  []string
	limit int

	once    sync.Once
	entries []entry
}

func New(dirs []string, limit int) *Catalog {
	return &Catalog{
		dirs:  dirs,
		limit: max(limit, 1),
	}
}

func (*Catalog) ID() string   { return ID }
func (*Catalog) Name() string { return "Local files" }

// Search ranks files by fuzzy match of the query against artist, title and album.
// An empty query lists everything.
func (c *Catalog) Search(ctx context.Context, query, pageToken string) (catalog.Page, error) {
	entries := c.index()
	query = strings.TrimSpace(query)

	var matched []catalog.Result
	if query == "" {
		matched = lo.Map(entries, func(e entry, _ int) catalog.Result { return e.result })
	} else {
		haystacks := lo.Map(entries, func(e entry, _ int) string { return e.haystack })
		ranks := fuzzy.RankFindNormalizedFold(query, haystacks)
		sort.Stable(ranks)
		matched = lo.Map(ranks, func(r fuzzy.Rank, _ int) catalog.Result {
			return entries[r.OriginalIndex].result
		})
	}

	return catalog.Paginate(matched, catalog.PageNumber(pageToken), c.limit), ctx.Err()
}

// Trending lists the most recently modified files.
func (c *Catalog) Trending(ctx context.Context, count int) ([]catalog.Result, error) {
	entries := slices.Clone(c.index())
	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.modified.Compare(a.modified)
	})

	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}

	return lo.Map(entries, func(e entry, _ int) catalog.Result { return e.result }), ctx.Err()
}

func (c *Catalog) index() []entry {
	c.once.Do(func() {
		for _, dir := range c.dirs {
			c.entries = append(c.entries, scan(dir)...)
		}
		log.Infof("local catalog indexed %d files", len(c.entries))
	})
	return c.entries
}

func scan(dir string) []entry {
	var entries []entry

	err := filesystem.API().Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || !slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		entries = append(entries, read(path, info))
		return nil
	})
	if err != nil {
		log.Warnf("scan %s: %v", dir, err)
	}

	return entries
}

func read(path string, info fs.FileInfo) entry {
	sum := sha1.Sum([]byte(path))
	r := catalog.Result{
		ID:       "local:" + hex.EncodeToString(sum[:8]),
		Title:    util.FileStem(path),
		MediaKey: path,
	}

	if m, ok := readTags(path); ok {
		if title := clean(m.Title()); title != "" {
			r.Title = title
		}
		r.ChannelName = clean(m.Artist())
		if r.ChannelName == "" {
			r.ChannelName = clean(m.AlbumArtist())
		}
		r.Description = clean(m.Album())
		if year := m.Year(); year > 0 {
			r.PublishedAt = mo.Some(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
	}

	return entry{
		result:   r,
		haystack: strings.Join([]string{r.ChannelName, r.Title, r.Description}, " "),
		modified: info.ModTime(),
	}
}

func readTags(path string) (tag.Metadata, bool) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.WithField("path", path).Debugf("no tags: %v", err)
		return nil, false
	}
	return m, true
}

// clean strips the padding some taggers leave in fixed-width fields.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}
