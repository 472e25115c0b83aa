// Package renderer draws the grid for a terminal.
package renderer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pthm-cable/doodlebugs/components"
	"github.com/pthm-cable/doodlebugs/systems"
)

// TextRenderer prints the grid one row per line with tab-separated glyphs:
// '-' empty, 'o' prey, 'X' predator.
type TextRenderer struct {
	out *bufio.Writer
	row []byte // scratch: glyphs of the grid laid out row-major
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{out: bufio.NewWriter(w)}
}

// Draw writes an epoch banner followed by the grid.
func (r *TextRenderer) Draw(epoch int, world *systems.World) error {
	size := world.Size()
	if cap(r.row) < size*size {
		r.row = make([]byte, size*size)
	}
	r.row = r.row[:size*size]

	world.Scan(func(x, y int, state components.CellState) {
		r.row[y*size+x] = state.Glyph()
	})

	fmt.Fprintf(r.out, "EPOCH %d\n", epoch)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r.out.WriteByte(r.row[y*size+x])
			r.out.WriteByte('\t')
		}
		r.out.WriteByte('\n')
	}
	fmt.Fprintf(r.out, "prey: %d  predators: %d\n\n", world.PreyCount(), world.PredatorCount())

	return r.out.Flush()
}
