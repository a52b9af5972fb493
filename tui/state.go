package tui

type state int

const (
	loadingState state = iota
	errorState
	catalogsState
	searchState
	resultsState
	queueState
	playlistsState
	playlistState
	historyState
)

// transient states are never returned to with back.
var transient = []state{loadingState, errorState}
