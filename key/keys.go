// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback - these keys configure the rendering widget and the transport.
const (
	PlayerBackend          = "player.backend"
	PlayerMpvArgs          = "player.mpv_args"
	PlayerMode             = "player.mode"
	PlayerPollInterval     = "player.poll_interval"
	PlayerRestartThreshold = "player.restart_threshold"
	PlayerDefaultVolume    = "player.default_volume"
)

// Catalog - these keys select and tune the search backends.
const (
	CatalogDefault       = "catalog.default"
	CatalogSearchLimit   = "catalog.search_limit"
	CatalogTrendingCount = "catalog.trending_count"
	CatalogTrendingURL   = "catalog.trending_url"
	CatalogCacheResults  = "catalog.cache_results"
	CatalogLocalDirs     = "catalog.local_dirs"
)

// Spotify credentials for the spotify catalog and playlist import.
const (
	SpotifyClientID     = "spotify.client_id"
	SpotifyClientSecret = "spotify.client_secret"
	SpotifyTrending     = "spotify.trending_playlist"
)

// Custom catalog scripts.
const (
	SourcesRepository = "sources.repository"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// History Tracking - these keys configure the listening log.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Playlists.
const (
	PlaylistShareBaseURL = "playlist.share_base_url"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI).
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowURLs           = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
