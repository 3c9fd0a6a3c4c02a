package grid

import "fmt"

const (
	MinColumns     = 1
	MaxColumns     = 9
	DefaultColumns = 3
)

// Layout is the responsive column count at each breakpoint.
type Layout struct {
	Columns int    `json:"columns"`
	Base    int    `json:"base"`
	Medium  int    `json:"medium"`
	Large   int    `json:"large"`
	Class   string `json:"class"`
}

func layout(n, base, medium, large int) Layout {
	return Layout{
		Columns: n,
		Base:    base,
		Medium:  medium,
		Large:   large,
		Class:   fmt.Sprintf("cols-%d md-cols-%d lg-cols-%d", base, medium, large),
	}
}

var layouts = map[int]Layout{
	1: layout(1, 1, 1, 1),
	2: layout(2, 1, 2, 2),
	3: layout(3, 1, 2, 3),
	4: layout(4, 1, 2, 4),
	5: layout(5, 1, 3, 5),
	6: layout(6, 1, 3, 6),
	7: layout(7, 1, 3, 7),
	8: layout(8, 1, 4, 8),
	9: layout(9, 1, 3, 9),
}

// LayoutFor maps a column count to its layout. Unknown counts get the
// DefaultColumns layout.
func LayoutFor(n int) Layout {
	if l, ok := layouts[n]; ok {
		return l
	}
	return layouts[DefaultColumns]
}

// Layout returns the layout for the current column count.
func (g *Grid) Layout() Layout { return LayoutFor(g.columns) }

// ClampColumns forces n into [MinColumns, MaxColumns].
func ClampColumns(n int) int {
	if n < MinColumns {
		return MinColumns
	}
	if n > MaxColumns {
		return MaxColumns
	}
	return n
}
