package systems

import (
	"math/rand"

	"github.com/pthm-cable/doodlebugs/components"
)

// Direction is one of the four orthogonal steps.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Priority is the fixed neighbour order used for hunting and breeding.
var Priority = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// RandomDirection draws a direction uniformly.
func RandomDirection(rng *rand.Rand) Direction {
	return Priority[rng.Intn(len(Priority))]
}

// Clamp limits v to [0, size-1].
func Clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v > size-1 {
		return size - 1
	}
	return v
}

// Step returns the cell one step from p in direction d.
// The grid does not wrap: a step off the edge stays on the boundary.
func Step(p components.Position, d Direction, size int) components.Position {
	switch d {
	case Up:
		p.Y = Clamp(p.Y-1, size)
	case Down:
		p.Y = Clamp(p.Y+1, size)
	case Left:
		p.X = Clamp(p.X-1, size)
	case Right:
		p.X = Clamp(p.X+1, size)
	}
	return p
}

// FirstNeighbor returns the first neighbour of p, in priority order, whose cell
// holds the wanted state.
func FirstNeighbor(w *World, p components.Position, want components.CellState) (components.Position, bool) {
	for _, d := range Priority {
		n := Step(p, d, w.Size())
		if w.CellAt(n.X, n.Y) == want {
			return n, true
		}
	}
	return p, false
}
