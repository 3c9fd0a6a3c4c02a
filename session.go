package main

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gosuda/youtube-grid/grid"
	"github.com/gosuda/youtube-grid/player"
)

// Session is one page view: a grid, its players and the page they live in.
// Messages from the page are applied one at a time.
type Session struct {
	out    func(ServerEvent)
	logger zerolog.Logger

	mu      sync.Mutex
	grid    *grid.Grid
	latch   *player.Latch
	players *player.Adapter
}

// NewSession wires a grid to an adapter over f. Events for the page go to out.
func NewSession(out func(ServerEvent), f player.Factory, logger zerolog.Logger, opts ...player.Option) *Session {
	s := &Session{
		out:    out,
		logger: logger,
		latch:  player.NewLatch(),
	}
	opts = append([]player.Option{player.WithLogger(logger)}, opts...)
	s.players = player.New(f, s.latch, opts...)
	s.grid = grid.New(s)
	return s
}

// SlotsChanged implements grid.Listener.
func (s *Session) SlotsChanged(generation uint64, slots [grid.Slots]string) {
	s.players.Sync(generation, slots)
}

// PinChanged implements grid.Listener.
func (s *Session) PinChanged(pinned int) {
	s.players.ApplyPin(pinned)
}

// Start sends the initial state.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushState()
}

// Handle applies one message from the page.
func (s *Session) Handle(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case msgLoad:
		s.grid.Load(msg.Text)
		s.logger.Info().Uint64("generation", s.grid.Generation()).Int("loaded", s.grid.Snapshot().Loaded).Msg("[ytgrid] load")
		s.pushState()
	case msgClear:
		s.grid.Clear()
		s.logger.Info().Uint64("generation", s.grid.Generation()).Msg("[ytgrid] clear")
		s.pushState()
	case msgInput:
		s.grid.SetInput(msg.Text)
	case msgColumns:
		s.grid.SetColumns(msg.Columns)
		s.pushState()
	case msgPin:
		if msg.Index == nil {
			s.out(ServerEvent{Type: evLog, Body: "pin needs an index"})
			return
		}
		if s.grid.TogglePin(*msg.Index) {
			s.pushState()
		}
	case msgAPIReady:
		s.latch.Fire()
	case msgMounted:
		if msg.Index == nil {
			s.out(ServerEvent{Type: evLog, Body: "mounted needs an index"})
			return
		}
		s.players.MountReady(msg.Generation, *msg.Index)
	case msgSync:
		s.pushState()
	default:
		s.logger.Debug().Str("type", msg.Type).Msg("[ytgrid] unknown message")
		s.out(ServerEvent{Type: evLog, Body: "unknown message type: " + msg.Type})
	}
}

// State returns what the page currently shows.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() StateView {
	return StateView{State: s.grid.Snapshot(), Audible: s.players.Audible()}
}

func (s *Session) pushState() {
	st := s.stateLocked()
	s.out(ServerEvent{Type: evState, State: &st})
}

// Close destroys every player of the session.
func (s *Session) Close() {
	s.players.Close()
}
