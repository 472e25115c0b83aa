package components

// Kind is the closed set of organism variants.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
)

func (k Kind) String() string {
	if k == KindPredator {
		return "predator"
	}
	return "prey"
}

// Cell returns the grid tag carried by organisms of this kind.
func (k Kind) Cell() CellState {
	if k == KindPredator {
		return CellPredator
	}
	return CellPrey
}

// Prey holds the per-ant state.
type Prey struct {
	StepsSinceBreeding int // epochs since last breed check fired
}

// Predator holds the per-doodlebug state.
type Predator struct {
	StepsSinceBreeding int // epochs since last breed check fired
	StepsSinceMeal     int // epochs without eating, reset on a successful hunt
}
