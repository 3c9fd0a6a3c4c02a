package main

import "github.com/gosuda/youtube-grid/grid"

// Client message types.
const (
	msgLoad     = "load"
	msgClear    = "clear"
	msgInput    = "input"
	msgColumns  = "columns"
	msgPin      = "pin"
	msgAPIReady = "api-ready"
	msgMounted  = "mounted"
	msgSync     = "sync"
)

// Server event types.
const (
	evState  = "state"
	evPlayer = "player"
	evLog    = "log"
)

// Player operations carried by evPlayer.
const (
	opCreate  = "create"
	opMute    = "mute"
	opUnmute  = "unmute"
	opDestroy = "destroy"
)

// ClientMessage is the envelope received from the page.
// Index is nil when the page left it out; slot 0 is a valid index.
type ClientMessage struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Index      *int   `json:"index,omitempty"`
	Columns    int    `json:"columns,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

// ServerEvent is pushed to the page.
type ServerEvent struct {
	Type   string         `json:"type"`
	Body   string         `json:"body,omitempty"`
	State  *StateView     `json:"state,omitempty"`
	Player *PlayerCommand `json:"player,omitempty"`
}

// StateView is what the page renders the grid from.
type StateView struct {
	grid.State
	Audible int `json:"audible"`
}

// PlayerCommand asks the page to act on one embedded player.
type PlayerCommand struct {
	Op         string         `json:"op"`
	Slot       int            `json:"slot"`
	Generation uint64         `json:"generation"`
	VideoID    string         `json:"videoId,omitempty"`
	Element    string         `json:"element,omitempty"`
	Vars       map[string]int `json:"playerVars,omitempty"`
}
