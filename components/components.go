// Package components defines ECS components for the simulation.
package components

// CellState tags what occupies a grid position.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellPrey
	CellPredator
)

// Glyph returns the character used when the grid is printed.
func (c CellState) Glyph() byte {
	switch c {
	case CellPrey:
		return 'o'
	case CellPredator:
		return 'X'
	default:
		return '-'
	}
}

func (c CellState) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellPrey:
		return "prey"
	case CellPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Position is an organism's grid cell. Both coordinates lie in [0, size-1].
type Position struct {
	X, Y int
}
