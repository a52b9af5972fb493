package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/engine"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/internal/ui"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/query"
	"github.com/ytfree-cli/ytfree/track"
)

const (
	seekStep   = 10
	volumeStep = 0.05
)

type snapshotMsg playback.State

type catalogMsg struct {
	catalog catalog.Catalog
}

type pageMsg struct {
	page catalog.Page
	more bool
}

type trendingMsg []catalog.Result

type playlistsMsg []*playlist.Playlist

type playlistMsg *playlist.Playlist

type historyMsg []*history.Entry

// publish runs on the engine loop. It must not block, so a stale snapshot is
// replaced rather than queued behind.
func (b *statefulBubble) publish(st playback.State) {
	for {
		select {
		case b.snapshots <- st:
			return
		default:
		}

		select {
		case <-b.snapshots:
		default:
		}
	}
}

func (b *statefulBubble) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-b.snapshots:
			return snapshotMsg(st)
		case <-b.ctx.Done():
			return nil
		}
	}
}

// do posts cmd to the engine loop.
func (b *statefulBubble) do(cmd engine.Command) tea.Cmd {
	return func() tea.Msg {
		if err := b.player.Do(cmd); err != nil {
			return ui.NotificationMsg{Text: err.Error(), IsError: true}
		}
		return nil
	}
}

// requestSnapshot publishes the current state once, before any change arrives.
func (b *statefulBubble) requestSnapshot() tea.Cmd {
	return b.do(func(s *playback.Session) {
		b.publish(s.Snapshot())
	})
}

func (b *statefulBubble) seek(seconds float64) tea.Cmd {
	return func() tea.Msg {
		b.seeker.Seek(max(seconds, 0))
		return nil
	}
}

func (b *statefulBubble) loadCatalogs() tea.Cmd {
	builtins := provider.Builtins()
	customs := provider.Customs()

	sortByName := func(ps []*provider.Provider) {
		slices.SortFunc(ps, func(a, b *provider.Provider) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	sortByName(customs)

	current := viper.GetString(key.CatalogDefault)
	if b.catalog != nil {
		current = b.catalog.ID()
	}

	var items []list.Item
	for _, p := range append(builtins, customs...) {
		items = append(items, &listItem{internal: p, marked: p.ID == current})
	}

	return b.catalogsC.SetItems(items)
}

func (b *statefulBubble) createCatalog(p *provider.Provider) tea.Cmd {
	return func() tea.Msg {
		log.WithField("catalog", p.ID).Infof("creating catalog")
		c, err := p.CreateCatalog()
		if err != nil {
			return err
		}
		return catalogMsg{catalog: c}
	}
}

func (b *statefulBubble) searchPage(q, token string, more bool) tea.Cmd {
	c := b.catalog
	return func() tea.Msg {
		page, err := c.Search(b.ctx, q, token)
		if err != nil {
			return fmt.Errorf("search %s: %w", c.Name(), err)
		}
		return pageMsg{page: page, more: more}
	}
}

func (b *statefulBubble) trending() tea.Cmd {
	c := b.catalog
	count := viper.GetInt(key.CatalogTrendingCount)
	return func() tea.Msg {
		results, err := c.Trending(b.ctx, count)
		if err != nil {
			return fmt.Errorf("trending on %s: %w", c.Name(), err)
		}
		return trendingMsg(results)
	}
}

func (b *statefulBubble) setResults(results []catalog.Result) tea.Cmd {
	b.results = results

	items := make([]list.Item, len(results))
	for i := range results {
		items[i] = &listItem{internal: &b.results[i]}
	}

	return b.resultsC.SetItems(items)
}

func (b *statefulBubble) selectedResult() (catalog.Result, int, bool) {
	i := b.resultsC.Index()
	if i < 0 || i >= len(b.results) {
		return catalog.Result{}, -1, false
	}
	return b.results[i], i, true
}

// refreshQueue mirrors the snapshot queue into the queue list, keeping the cursor.
func (b *statefulBubble) refreshQueue() tea.Cmd {
	current := b.snapshot.CurrentIndex()

	items := make([]list.Item, len(b.snapshot.Queue))
	for i, t := range b.snapshot.Queue {
		items[i] = &listItem{internal: t, marked: i == current}
	}

	cursor := b.queueC.Index()
	cmd := b.queueC.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		b.queueC.Select(cursor)
	}

	return cmd
}

func (b *statefulBubble) loadPlaylists() tea.Cmd {
	store, userID := b.playlists, b.userID
	return func() tea.Msg {
		playlists, err := store.List(b.ctx, userID)
		if err != nil {
			return err
		}
		return playlistsMsg(playlists)
	}
}

func (b *statefulBubble) setPlaylist(p *playlist.Playlist) tea.Cmd {
	b.openPlaylist = p
	b.playlistC.Title = p.Name

	items := make([]list.Item, len(p.Tracks))
	for i, t := range p.Tracks {
		items[i] = &listItem{internal: t}
	}
	return b.playlistC.SetItems(items)
}

func (b *statefulBubble) addToPlaylist(p *playlist.Playlist, t track.Track) tea.Cmd {
	if !p.CanEdit(b.userID) {
		return ui.NotifyError(playlist.ErrForbidden.Error())
	}

	store := b.playlists
	t.AddedBy = b.userName
	return func() tea.Msg {
		if _, err := store.AddTrack(b.ctx, p.ID, t); err != nil {
			return ui.NotificationMsg{Text: err.Error(), IsError: true}
		}
		return ui.NotificationMsg{Text: fmt.Sprintf("Added %s to %s", t.Title, p.Name)}
	}
}

func (b *statefulBubble) removeFromPlaylist(p *playlist.Playlist, t track.Track) tea.Cmd {
	if !p.CanEdit(b.userID) {
		return ui.NotifyError(playlist.ErrForbidden.Error())
	}

	store := b.playlists
	return func() tea.Msg {
		updated, err := store.RemoveTrack(b.ctx, p.ID, t.ID)
		if err != nil {
			return ui.NotificationMsg{Text: err.Error(), IsError: true}
		}
		return playlistMsg(updated)
	}
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := history.Recent()
		if err != nil {
			return err
		}
		return historyMsg(entries)
	}
}

func (b *statefulBubble) setHistory(entries []*history.Entry) tea.Cmd {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = &listItem{internal: e}
	}
	return b.historyC.SetItems(items)
}

func (b *statefulBubble) rememberQuery(weight int) {
	if b.query == "" {
		return
	}

	q := b.query
	go func() {
		if err := query.Remember(q, weight); err != nil {
			log.Warnf("remember query: %v", err)
		}
	}()
}
