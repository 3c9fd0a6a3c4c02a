// Package grid owns the slot list, the pin and the column count of one grid,
// and derives what the page renders from them.
package grid

import "github.com/gosuda/youtube-grid/reference"

// Slots is the fixed number of grid positions.
const Slots = reference.Slots

// NoPin marks the unpinned state.
const NoPin = -1

// Listener is told about changes that concern the players.
// SlotsChanged fires on every wholesale replacement of the slot list,
// PinChanged on every pin or unpin.
type Listener interface {
	SlotsChanged(generation uint64, slots [Slots]string)
	PinChanged(pinned int)
}

// Item is one rendered grid cell. Index is the slot it came from.
type Item struct {
	Index   int    `json:"index"`
	VideoID string `json:"videoId,omitempty"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// Grid is not safe for concurrent use.
type Grid struct {
	slots      [Slots]string
	pinned     int
	columns    int
	input      string
	generation uint64
	listener   Listener
}

// New returns a grid loaded from reference.DefaultInput. l may be nil.
func New(l Listener) *Grid {
	g := &Grid{
		pinned:   NoPin,
		columns:  DefaultColumns,
		listener: l,
	}
	g.Load(reference.DefaultInput)
	return g
}

// Load replaces every slot with the identifiers parsed from raw and drops the pin.
func (g *Grid) Load(raw string) {
	g.input = raw
	g.replace(reference.Parse(raw))
}

// Clear empties every slot and the input buffer.
func (g *Grid) Clear() {
	g.input = ""
	g.replace([Slots]string{})
}

func (g *Grid) replace(slots [Slots]string) {
	g.slots = slots
	g.pinned = NoPin
	g.generation++
	if g.listener != nil {
		g.listener.SlotsChanged(g.generation, g.slots)
	}
}

// SetInput records an edit of the text field. Slots are untouched until Load.
func (g *Grid) SetInput(text string) { g.input = text }

// Input returns the text buffer.
func (g *Grid) Input() string { return g.input }

// SetColumns clamps n into [MinColumns, MaxColumns] and returns the stored value.
func (g *Grid) SetColumns(n int) int {
	g.columns = ClampColumns(n)
	return g.columns
}

// Columns returns the column count.
func (g *Grid) Columns() int { return g.columns }

// TogglePin pins slot i, or unpins it if it is already pinned.
// Indexes outside the grid and empty slots are ignored. It reports whether
// the pin state changed.
func (g *Grid) TogglePin(i int) bool {
	if i < 0 || i >= Slots || g.slots[i] == "" {
		return false
	}
	if g.pinned == i {
		g.pinned = NoPin
	} else {
		g.pinned = i
	}
	if g.listener != nil {
		g.listener.PinChanged(g.pinned)
	}
	return true
}

// Pinned returns the pinned slot, if any.
func (g *Grid) Pinned() (int, bool) {
	return g.pinned, g.pinned != NoPin
}

// Slots returns a copy of the slot list.
func (g *Grid) Slots() [Slots]string { return g.slots }

// Generation counts slot list replacements, starting at 1 after New.
func (g *Grid) Generation() uint64 { return g.generation }

// Order lists the cells in display order: the pinned slot first, then the
// rest by index.
func (g *Grid) Order() []Item {
	items := make([]Item, 0, Slots)
	if g.pinned != NoPin {
		items = append(items, Item{Index: g.pinned, VideoID: g.slots[g.pinned], Pinned: true})
	}
	for i, id := range g.slots {
		if i == g.pinned {
			continue
		}
		items = append(items, Item{Index: i, VideoID: id})
	}
	return items
}

// State is a value copy of everything the page renders.
type State struct {
	Generation uint64 `json:"generation"`
	Input      string `json:"input"`
	Columns    int    `json:"columns"`
	Layout     Layout `json:"layout"`
	Pinned     int    `json:"pinned"`
	Loaded     int    `json:"loaded"`
	Items      []Item `json:"items"`
}

// Snapshot captures the current state.
func (g *Grid) Snapshot() State {
	loaded := 0
	for _, id := range g.slots {
		if id != "" {
			loaded++
		}
	}
	return State{
		Generation: g.generation,
		Input:      g.input,
		Columns:    g.columns,
		Layout:     g.Layout(),
		Pinned:     g.pinned,
		Loaded:     loaded,
		Items:      g.Order(),
	}
}
