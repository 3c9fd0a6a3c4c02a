package main

import (
	"github.com/gosuda/youtube-grid/player"
)

// remoteFactory creates players inside the page by pushing commands over the
// session's websocket. The page's script owns the actual YT.Player objects.
type remoteFactory struct {
	push func(ServerEvent)
}

func (f remoteFactory) Create(videoID string, m player.Mount) (player.Handle, error) {
	vars := map[string]int{"playsinline": 1}
	if m.Autoplay {
		vars["autoplay"] = 1
	}
	if m.Muted {
		vars["mute"] = 1
	}
	if m.Controls {
		vars["controls"] = 1
	} else {
		vars["controls"] = 0
	}
	f.push(ServerEvent{Type: evPlayer, Player: &PlayerCommand{
		Op:         opCreate,
		Slot:       m.Slot,
		Generation: m.Generation,
		VideoID:    videoID,
		Element:    m.Element,
		Vars:       vars,
	}})
	return &remoteHandle{push: f.push, slot: m.Slot, generation: m.Generation}, nil
}

type remoteHandle struct {
	push       func(ServerEvent)
	slot       int
	generation uint64
}

func (h *remoteHandle) send(op string) {
	h.push(ServerEvent{Type: evPlayer, Player: &PlayerCommand{Op: op, Slot: h.slot, Generation: h.generation}})
}

func (h *remoteHandle) Mute()    { h.send(opMute) }
func (h *remoteHandle) Unmute()  { h.send(opUnmute) }
func (h *remoteHandle) Destroy() { h.send(opDestroy) }
