package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/doodlebugs/components"
)

// Rules holds the thresholds that parameterize organism behaviour.
type Rules struct {
	PreyBreedSteps      int
	PredatorBreedSteps  int
	PredatorStarveSteps int

	// PredatorStepChecksOccupancy makes a predator's random step stay put when
	// the target cell is taken. The reference behaviour leaves it false.
	PredatorStepChecksOccupancy bool
}

// DefaultRules returns the reference thresholds.
func DefaultRules() Rules {
	return Rules{
		PreyBreedSteps:      3,
		PredatorBreedSteps:  8,
		PredatorStarveSteps: 3,
	}
}

// Outcome reports what one organism did during its turn.
type Outcome struct {
	Moved   bool
	Ate     bool                // predator consumed the prey at Target
	Bred    bool                // an offspring was placed at Child
	Starved bool                // predator was removed
	Target  components.Position // final position of the acting organism
	Child   components.Position
}

// ActPredator runs one epoch of predator behaviour: hunt or wander, then
// breed, then starve.
func ActPredator(w *World, e ecs.Entity, rules Rules, rng *rand.Rand) Outcome {
	posPtr, predPtr := w.Predator(e)
	from := *posPtr
	state := *predPtr

	var out Outcome

	to, ate := hunt(w, from)
	if ate {
		state.StepsSinceMeal = 0
	} else {
		to = Step(from, RandomDirection(rng), w.Size())
		if rules.PredatorStepChecksOccupancy && to != from && w.CellAt(to.X, to.Y) != components.CellEmpty {
			to = from
		}
		state.StepsSinceMeal++
	}

	w.SetCell(from.X, from.Y, components.CellEmpty)
	w.SetCell(to.X, to.Y, components.CellPredator)
	out.Moved = to != from
	out.Ate = ate
	out.Target = to

	state.StepsSinceBreeding++
	breed := state.StepsSinceBreeding >= rules.PredatorBreedSteps
	if breed {
		state.StepsSinceBreeding = 0
	}

	// Write back before any structural change invalidates the pointers.
	_, predPtr = w.Predator(e)
	*predPtr = state
	w.movePredator(e, to)

	if breed {
		if child, ok := FirstNeighbor(w, to, components.CellEmpty); ok {
			w.SpawnPredator(child.X, child.Y)
			out.Bred = true
			out.Child = child
		}
	}

	if state.StepsSinceMeal >= rules.PredatorStarveSteps {
		w.removePredatorEntity(e)
		out.Starved = true
	}

	return out
}

// ActPrey runs one epoch of prey behaviour: a random step into an empty cell,
// then breed.
func ActPrey(w *World, e ecs.Entity, rules Rules, rng *rand.Rand) Outcome {
	posPtr, preyPtr := w.Prey(e)
	from := *posPtr
	state := *preyPtr

	var out Outcome

	to := Step(from, RandomDirection(rng), w.Size())
	if w.CellAt(to.X, to.Y) == components.CellEmpty {
		w.SetCell(from.X, from.Y, components.CellEmpty)
		w.SetCell(to.X, to.Y, components.CellPrey)
		out.Moved = to != from
	} else {
		to = from
	}
	out.Target = to

	state.StepsSinceBreeding++
	breed := state.StepsSinceBreeding >= rules.PreyBreedSteps
	if breed {
		state.StepsSinceBreeding = 0
	}

	_, preyPtr = w.Prey(e)
	*preyPtr = state
	w.movePrey(e, to)

	if breed {
		if child, ok := FirstNeighbor(w, to, components.CellEmpty); ok {
			w.SpawnPrey(child.X, child.Y)
			out.Bred = true
			out.Child = child
		}
	}

	return out
}

// hunt returns the first neighbouring prey in priority order, removing it
// from the world.
func hunt(w *World, from components.Position) (components.Position, bool) {
	target, ok := FirstNeighbor(w, from, components.CellPrey)
	if !ok {
		return from, false
	}
	w.RemovePrey(target.X, target.Y)
	return target, true
}
