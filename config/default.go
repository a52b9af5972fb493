// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/style"
)

// Field is a setting with its default value. The default's type is the
// setting's type.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for "config info".
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Ytfree + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Type names the Go type of the default, e.g. "int" or "[]string".
func (f *Field) Type() string {
	return fmt.Sprintf("%T", f.Value)
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":         f.Key,
		"value":       viper.Get(f.Key),
		"default":     f.Value,
		"description": f.Description,
		"type":        f.Type(),
		"env":         f.Env(),
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerBackend, "mpv", "Rendering widget used for playback.\nOnly mpv is available")
	register(key.PlayerMpvArgs, []string{}, "Extra arguments passed to mpv.\nytfree always adds its own IPC and window flags")
	register(key.PlayerMode, "audio", "Initial player mode.\nAvailable options are: audio, video")
	register(key.PlayerPollInterval, 250, "Progress polling interval in milliseconds")
	register(key.PlayerRestartThreshold, 3, "Seconds after which \"previous\" restarts the current track instead of going back")
	register(key.PlayerDefaultVolume, 80, "Volume used when no saved preference exists. From 0 to 100")
	register(key.CatalogDefault, "youtube", "Catalog to search.\nType \"ytfree sources list\" to show available catalogs")
	register(key.CatalogSearchLimit, 20, "Number of search results per page")
	register(key.CatalogTrendingCount, 25, "Number of trending tracks to show on start")
	register(key.CatalogTrendingURL, "https://www.youtube.com/playlist?list=PLFgquLnL59alCl_2TQvOiD5Vgm1hCaGSI", "Playlist used as the trending source for the youtube catalog")
	register(key.CatalogCacheResults, true, "Cache search results for a few minutes")
	register(key.CatalogLocalDirs, []string{}, "Directories scanned by the local catalog")
	register(key.SpotifyClientID, "", "Spotify client ID for the spotify catalog and playlist import")
	register(key.SpotifyClientSecret, "", "Spotify client secret for the spotify catalog and playlist import")
	register(key.SpotifyTrending, "", "Spotify playlist id listed as trending by the spotify catalog")
	register(key.SourcesRepository, "https://raw.githubusercontent.com/ytfree-cli/sources/main/", "Where \"ytfree sources install\" and \"update\" download catalog scripts from")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.HistorySaveOnPlay, true, "Record played tracks in the listening history")
	register(key.PlaylistShareBaseURL, "https://ytfree.app/shared", "Base URL of playlist share links")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUISearchPromptString, "> ", "Search prompt string to use")
	register(key.TUIShowURLs, false, "Show media keys under list items")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

// highlight colors a setting value by kind: booleans green or red, strings yellow.
func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"label":   style.Fg(color.Blue),
	"name":    style.Fg(color.Purple),
	"current": func(k string) string { return highlight(viper.Get(k)) },
	"hl":      highlight,
}).Parse(`{{ .Key | name }} {{ faint .Type }}
{{ faint .Description }}
{{ label "value  " }} {{ current .Key }}
{{ label "default" }} {{ hl .Value }}
{{ label "env    " }} {{ .Env }}`))
