// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Provider script entry points. Only SearchFn is mandatory.
const (
	SearchFn         = "Search"
	PrepareFn        = "Prepare"
	DownloadFilmFn   = "DownloadFilm"
	DownloadSeriesFn = "DownloadSeries"
	DownloadTitleFn  = "DownloadTitle"
)

// Provider script metadata globals.
const (
	IndexGlobal    = "Index"
	UseForGlobal   = "UseFor"
	PriorityGlobal = "Priority"
	NameGlobal     = "Name"
	ColumnsGlobal  = "Columns"
)

// ProviderEntrypoint is the file loaded from every provider directory.
const ProviderEntrypoint = "init.lua"

// ProviderTemplate is a Go text/template for scaffolding new Lua providers.
const ProviderTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias item { name: string, url: string, type: "film"|"tv"|string, [string]: any }


----- METADATA -----
{{ .NameGlobal }} = "{{ .Name }}"
{{ .IndexGlobal }} = {{ .Index }}
{{ .UseForGlobal }} = "{{ .Category }}"
{{ .PriorityGlobal }} = 0
--- END METADATA ---



----- MAIN -----

--- Searches the catalog.
-- @param query string Query to search for
-- @return item[] Table of results
function {{ .SearchFn }}(query)
	return {}
end


--- Downloads a film.
-- @param item item Selected result
function {{ .DownloadFilmFn }}(item)
end


--- Downloads a series.
-- @param item item Selected result
-- @param season string|nil Season selection, nil to ask
-- @param episode string|nil Episode selection, nil to ask
function {{ .DownloadSeriesFn }}(item, season, episode)
	season = season or ui.ask("Season?")
	episode = episode or ui.ask("Episodes?")
end


--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
