package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/playlist"
	"github.com/ytfree-cli/ytfree/provider"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/util"
)

// listItem wraps the domain values shown in the lists.
type listItem struct {
	internal any
	marked   bool
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case track.Track:
		return lipgloss.NewStyle().Bold(true).Foreground(style.Accent).Render(icon.Get(icon.Play))
	case *provider.Provider:
		return icon.Get(icon.Search)
	default:
		return ""
	}
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *catalog.Result:
		title = e.Title
	case track.Track:
		title = e.Title
	case *history.Entry:
		title = e.Track.Title
	case *playlist.Playlist:
		title = e.Name
		if e.IsPublic {
			title += " " + style.Faint("public")
		}
	default:
		title = t.FilterValue()
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

func (t *listItem) Description() (description string) {
	showURLs := viper.GetBool(key.TUIShowURLs)

	switch e := t.internal.(type) {
	case *catalog.Result:
		parts := []string{e.Track().Artist}
		if d, ok := e.Duration.Get(); ok && d > 0 {
			parts = append(parts, util.FormatSeconds(float64(d)))
		}
		if views, ok := e.ViewCount.Get(); ok {
			parts = append(parts, humanize.Comma(views)+" views")
		}
		if published, ok := e.PublishedAt.Get(); ok {
			parts = append(parts, humanize.Time(published))
		}
		if showURLs {
			parts = append(parts, style.Faint(e.Track().MediaKey))
		}
		description = strings.Join(parts, " • ")
	case track.Track:
		parts := []string{e.Artist}
		if e.Duration > 0 {
			parts = append(parts, util.FormatSeconds(float64(e.Duration)))
		}
		if e.AddedBy != "" {
			parts = append(parts, "added by "+e.AddedBy)
		}
		if showURLs {
			parts = append(parts, style.Faint(e.MediaKey))
		}
		description = strings.Join(parts, " • ")
	case *history.Entry:
		description = fmt.Sprintf(
			"%s • %s • %s",
			e.Track.Artist,
			util.Quantify(e.Plays, "play", "plays"),
			humanize.Time(e.PlayedAt),
		)
	case *playlist.Playlist:
		description = fmt.Sprintf(
			"%s • %s • by %s",
			util.Quantify(len(e.Tracks), "track", "tracks"),
			util.FormatSeconds(float64(e.Duration())),
			e.Owner.Name,
		)
	case *provider.Provider:
		if e.IsCustom {
			description = icon.Get(icon.Lua) + " Lua script"
		} else {
			description = "Built-in catalog"
		}
	}

	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Result:
		return e.Title + " " + e.ChannelName
	case track.Track:
		return e.String()
	case *history.Entry:
		return e.Track.String()
	case *playlist.Playlist:
		return e.Name
	case *provider.Provider:
		return e.Name
	case string:
		return e
	default:
		return ""
	}
}
