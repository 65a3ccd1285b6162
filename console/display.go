//go:build tinygo

package console

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

// StatusDisplay renders the exposed queries of spec.md §6.2 ("x", "y",
// "z", "b") to a small attached display via tinyterm, refreshed from the
// main loop — never from the tick path.
type StatusDisplay struct {
	term *tinyterm.Terminal
}

// NewStatusDisplay wraps disp in a tinyterm terminal using font for glyph
// rendering.
func NewStatusDisplay(disp drivers.Displayer, font *tinyfont.Font) *StatusDisplay {
	term := tinyterm.NewTerminal(disp)
	term.Configure(&tinyterm.Config{
		FontName:   font,
		FontHeight: 12,
		FontOffset: 0,
	})
	return &StatusDisplay{term: term}
}

// Refresh prints the four exposed queries as one status line; the terminal
// is not cleared.
func (d *StatusDisplay) Refresh(x, y, z float32, busy bool) {
	busyFlag := 0
	if busy {
		busyFlag = 1
	}
	fmt.Fprintf(d.term, "x=%.2f y=%.2f z=%.2f b=%d\n", x, y, z, busyFlag)
}
