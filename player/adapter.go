package player

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NoPin marks the unpinned state.
const NoPin = -1

// Adapter owns the players of one grid.
//
// Players of a slot list generation are created only once the embedding API is
// ready and the slot's mount point reports in (MountReady), or when the
// optional fallback timer fires. A new generation destroys every player of the
// previous one first.
type Adapter struct {
	factory  Factory
	fallback time.Duration
	logger   zerolog.Logger

	mu         sync.Mutex
	ready      bool
	closed     bool
	generation uint64
	slots      [Slots]string
	mounted    [Slots]bool
	handles    [Slots]Handle
	pinned     int
	audible    int
	timer      *time.Timer

	done chan struct{}
}

type Option func(*Adapter)

// WithMountFallback creates players that have not reported a mount point
// within d of their generation starting. Zero disables it.
func WithMountFallback(d time.Duration) Option {
	return func(a *Adapter) { a.fallback = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New returns an adapter that waits for r before creating anything.
// A nil r means the API is ready from the start.
func New(f Factory, r Readiness, opts ...Option) *Adapter {
	a := &Adapter{
		factory: f,
		logger:  log.Logger,
		pinned:  NoPin,
		audible: NoPin,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if r == nil {
		a.ready = true
	} else {
		go a.watch(r)
	}
	return a
}

func (a *Adapter) watch(r Readiness) {
	select {
	case <-r.Ready():
		a.onReady()
	case <-a.done:
	}
}

func (a *Adapter) onReady() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.ready {
		return
	}
	a.ready = true
	a.logger.Debug().Uint64("generation", a.generation).Msg("[player] embed api ready")
	for i := range a.slots {
		if a.mounted[i] {
			a.create(i)
		}
	}
	a.armFallback()
}

// Sync switches to a new slot list generation. Every live player is destroyed;
// new ones follow from MountReady or the fallback timer.
func (a *Adapter) Sync(generation uint64, slots [Slots]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.teardown()
	a.generation = generation
	a.slots = slots
	a.mounted = [Slots]bool{}
	a.pinned = NoPin
	a.audible = NoPin
	if a.ready {
		a.armFallback()
	}
}

// MountReady records that the mount point of slot exists for generation and
// creates its player when possible. It reports whether a player was created.
func (a *Adapter) MountReady(generation uint64, slot int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || generation != a.generation || slot < 0 || slot >= Slots {
		return false
	}
	a.mounted[slot] = true
	if !a.ready {
		return false
	}
	return a.create(slot)
}

// ApplyPin makes pinned the only audible player; NoPin mutes all of them.
func (a *Adapter) ApplyPin(pinned int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if pinned < 0 || pinned >= Slots || a.slots[pinned] == "" {
		pinned = NoPin
	}
	a.pinned = pinned
	// mute first so two players are never audible together
	for i, h := range a.handles {
		if h != nil && i != pinned {
			h.Mute()
		}
	}
	a.audible = NoPin
	if pinned != NoPin && a.handles[pinned] != nil {
		a.handles[pinned].Unmute()
		a.audible = pinned
	}
}

// Close destroys every player and stops all pending work. It is safe to call
// more than once.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.teardown()
	close(a.done)
}

// Audible returns the slot whose player is unmuted, or NoPin.
func (a *Adapter) Audible() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.audible
}

// Live counts the players currently alive.
func (a *Adapter) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, h := range a.handles {
		if h != nil {
			n++
		}
	}
	return n
}

func (a *Adapter) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

func (a *Adapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// create must be called with mu held.
func (a *Adapter) create(slot int) bool {
	id := a.slots[slot]
	if id == "" || a.handles[slot] != nil {
		return false
	}
	h, err := a.factory.Create(id, MountFor(a.generation, slot))
	if err != nil {
		a.logger.Warn().Err(err).Int("slot", slot).Str("video", id).Msg("[player] create failed")
		return false
	}
	a.handles[slot] = h
	if slot == a.pinned {
		h.Unmute()
		a.audible = slot
	}
	return true
}

// teardown must be called with mu held.
func (a *Adapter) teardown() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	for i, h := range a.handles {
		if h != nil {
			h.Destroy()
			a.handles[i] = nil
		}
	}
	a.audible = NoPin
}

// armFallback must be called with mu held.
func (a *Adapter) armFallback() {
	if a.fallback <= 0 {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	gen := a.generation
	a.timer = time.AfterFunc(a.fallback, func() { a.fire(gen) })
}

func (a *Adapter) fire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.ready || gen != a.generation {
		return
	}
	a.timer = nil
	for i := range a.slots {
		a.create(i)
	}
}
