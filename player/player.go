// Package player keeps embedded player instances in step with the grid's slots
// and makes sure at most one of them is audible.
package player

import (
	"fmt"
	"sync"

	"github.com/gosuda/youtube-grid/reference"
)

// Slots is the number of player positions.
const Slots = reference.Slots

// Handle is one live embedded player. The adapter is its only owner.
type Handle interface {
	Mute()
	Unmute()
	Destroy()
}

// Mount describes where and how a player attaches.
type Mount struct {
	Slot       int    `json:"slot"`
	Generation uint64 `json:"generation"`
	Element    string `json:"element"`
	Autoplay   bool   `json:"autoplay"`
	Muted      bool   `json:"muted"`
	Controls   bool   `json:"controls"`
}

// MountFor returns the mount point of slot in generation gen.
// Players always start muted and autoplaying with controls shown.
func MountFor(gen uint64, slot int) Mount {
	return Mount{
		Slot:       slot,
		Generation: gen,
		Element:    ElementID(gen, slot),
		Autoplay:   true,
		Muted:      true,
		Controls:   true,
	}
}

// ElementID names the DOM node a player of slot attaches to in generation gen.
func ElementID(gen uint64, slot int) string {
	return fmt.Sprintf("player-%d-%d", gen, slot)
}

// Factory creates players.
type Factory interface {
	Create(videoID string, m Mount) (Handle, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(videoID string, m Mount) (Handle, error)

func (f FactoryFunc) Create(videoID string, m Mount) (Handle, error) { return f(videoID, m) }

// Readiness signals, once, that players may be created.
type Readiness interface {
	Ready() <-chan struct{}
}

// Latch is a Readiness fired by hand.
type Latch struct {
	once sync.Once
	ch   chan struct{}
}

func NewLatch() *Latch {
	return &Latch{ch: make(chan struct{})}
}

// Fire opens the latch. Later calls do nothing.
func (l *Latch) Fire() {
	l.once.Do(func() { close(l.ch) })
}

func (l *Latch) Ready() <-chan struct{} { return l.ch }

// Fired reports whether Fire has been called.
func (l *Latch) Fired() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}
