// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Catalog script function names. A custom catalog must define SearchTracksFn,
// TrendingTracksFn is optional.
const (
	SearchTracksFn   = "SearchTracks"
	TrendingTracksFn = "TrendingTracks"
)

// CatalogScriptExtension is the file extension of custom catalog scripts.
const CatalogScriptExtension = ".lua"

// SourceTemplate is a Go text/template for scaffolding new Lua catalog scripts.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias track { id: string, title: string, media_key: string, artist: string|nil, album: string|nil, duration: number|string|nil, thumbnail: string|nil, description: string|nil, views: number|nil, published_at: string|nil }


----- IMPORTS -----
local http = require("http")
local json = require("json")
--- END IMPORTS ---



----- VARIABLES -----
local base = "{{ .URL }}"
--- END VARIABLES ---



----- MAIN -----

--- Searches the catalog.
-- @param query string Query to search for
-- @param page number Page to fetch, starting from 1
-- @return track[] Table of tracks
function {{ .SearchTracksFn }}(query, page)
	return {}
end


--- Lists trending tracks.
-- @param count number Maximum number of tracks
-- @return track[] Table of tracks
function {{ .TrendingTracksFn }}(count)
	return {}
end

--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
