package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/doodlebugs/components"
)

// World is the grid plus the prey and predator collections.
//
// The grid is the authority on occupancy. Organisms live as entities in an ark
// world; an ecs.Entity is a generational handle, so a handle taken before an
// organism is removed reports !Alive afterwards even if its slot is reused.
// All placement goes through Spawn*/Remove* so the grid and the collections
// change together.
type World struct {
	size  int
	cells []components.CellState // column-major: index x*size + y

	ecs *ecs.World

	preyMap    *ecs.Map2[components.Position, components.Prey]
	predMap    *ecs.Map2[components.Position, components.Predator]
	preyFilter *ecs.Filter2[components.Position, components.Prey]
	predFilter *ecs.Filter2[components.Position, components.Predator]

	// Per-cell entity lists, indexed like cells. A cell can list more than one
	// organism after an unchecked predator step.
	preyAt cellIndex
	predAt cellIndex

	numPrey int
	numPred int
}

// NewWorld creates an empty size x size world.
func NewWorld(size int) *World {
	if size < 1 {
		panic(fmt.Sprintf("systems: world size must be positive, got %d", size))
	}

	w := ecs.NewWorld()

	return &World{
		size:       size,
		cells:      make([]components.CellState, size*size),
		ecs:        w,
		preyMap:    ecs.NewMap2[components.Position, components.Prey](w),
		predMap:    ecs.NewMap2[components.Position, components.Predator](w),
		preyFilter: ecs.NewFilter2[components.Position, components.Prey](w),
		predFilter: ecs.NewFilter2[components.Position, components.Predator](w),
		preyAt:     make(cellIndex, size*size),
		predAt:     make(cellIndex, size*size),
	}
}

// Size returns the grid side length.
func (w *World) Size() int {
	return w.size
}

// InBounds reports whether (x, y) is a grid cell.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.size && y >= 0 && y < w.size
}

func (w *World) index(x, y int) int {
	if !w.InBounds(x, y) {
		panic(fmt.Sprintf("systems: cell (%d, %d) outside %dx%d grid", x, y, w.size, w.size))
	}
	return x*w.size + y
}

// CellAt returns the tag at (x, y). Callers pass clamped coordinates.
func (w *World) CellAt(x, y int) components.CellState {
	return w.cells[w.index(x, y)]
}

// SetCell overwrites the tag at (x, y) without touching the collections.
func (w *World) SetCell(x, y int, state components.CellState) {
	w.cells[w.index(x, y)] = state
}

// SpawnPrey places a new prey at an empty cell.
func (w *World) SpawnPrey(x, y int) ecs.Entity {
	w.mustBeEmpty(x, y, components.KindPrey)
	w.SetCell(x, y, components.CellPrey)
	w.numPrey++
	e := w.preyMap.NewEntity(&components.Position{X: x, Y: y}, &components.Prey{})
	w.preyAt.add(w.index(x, y), e)
	return e
}

// SpawnPredator places a new predator at an empty cell.
func (w *World) SpawnPredator(x, y int) ecs.Entity {
	w.mustBeEmpty(x, y, components.KindPredator)
	w.SetCell(x, y, components.CellPredator)
	w.numPred++
	e := w.predMap.NewEntity(&components.Position{X: x, Y: y}, &components.Predator{})
	w.predAt.add(w.index(x, y), e)
	return e
}

func (w *World) mustBeEmpty(x, y int, kind components.Kind) {
	if c := w.CellAt(x, y); c != components.CellEmpty {
		panic(fmt.Sprintf("systems: spawn %s at (%d, %d) which holds %s", kind, x, y, c))
	}
}

// RemovePrey clears (x, y) and deletes the prey standing there.
func (w *World) RemovePrey(x, y int) {
	e, ok := w.PreyAt(x, y)
	if !ok {
		panic(fmt.Sprintf("systems: no prey at (%d, %d) to remove", x, y))
	}
	w.SetCell(x, y, components.CellEmpty)
	w.preyAt.remove(w.index(x, y), e)
	w.ecs.RemoveEntity(e)
	w.numPrey--
}

// RemovePredator clears (x, y) and deletes the predator standing there.
func (w *World) RemovePredator(x, y int) {
	e, ok := w.PredatorAt(x, y)
	if !ok {
		panic(fmt.Sprintf("systems: no predator at (%d, %d) to remove", x, y))
	}
	w.removePredatorEntity(e)
}

// removePredatorEntity removes a specific predator. Starvation uses the acting
// handle rather than a position lookup, since an unchecked random step can
// leave two predators on one cell.
func (w *World) removePredatorEntity(e ecs.Entity) {
	if !w.ecs.Alive(e) || !w.predMap.HasAll(e) {
		panic(fmt.Sprintf("systems: predator %v is not alive", e))
	}
	pos, _ := w.predMap.Get(e)
	w.SetCell(pos.X, pos.Y, components.CellEmpty)
	w.predAt.remove(w.index(pos.X, pos.Y), e)
	w.ecs.RemoveEntity(e)
	w.numPred--
}

// movePrey updates a prey's position and the cell index. Cell tags are the
// caller's business.
func (w *World) movePrey(e ecs.Entity, to components.Position) {
	pos, _ := w.preyMap.Get(e)
	w.preyAt.move(w.index(pos.X, pos.Y), w.index(to.X, to.Y), e)
	*pos = to
}

// movePredator updates a predator's position and the cell index.
func (w *World) movePredator(e ecs.Entity, to components.Position) {
	pos, _ := w.predMap.Get(e)
	w.predAt.move(w.index(pos.X, pos.Y), w.index(to.X, to.Y), e)
	*pos = to
}

// PreyAt finds the prey at (x, y).
func (w *World) PreyAt(x, y int) (ecs.Entity, bool) {
	return w.preyAt.first(w.index(x, y))
}

// PredatorAt finds the first predator at (x, y).
func (w *World) PredatorAt(x, y int) (ecs.Entity, bool) {
	return w.predAt.first(w.index(x, y))
}

// PreyEntities snapshots the prey collection in its current order.
// The snapshot stays valid while the world is mutated; check Alive before use.
func (w *World) PreyEntities() []ecs.Entity {
	out := make([]ecs.Entity, 0, w.numPrey)
	query := w.preyFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// PredatorEntities snapshots the predator collection in its current order.
func (w *World) PredatorEntities() []ecs.Entity {
	out := make([]ecs.Entity, 0, w.numPred)
	query := w.predFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Alive reports whether the handle still refers to a live organism.
func (w *World) Alive(e ecs.Entity) bool {
	return w.ecs.Alive(e)
}

// Prey returns the components of a live prey. The pointers are invalidated by
// the next spawn or removal.
func (w *World) Prey(e ecs.Entity) (*components.Position, *components.Prey) {
	return w.preyMap.Get(e)
}

// Predator returns the components of a live predator. The pointers are
// invalidated by the next spawn or removal.
func (w *World) Predator(e ecs.Entity) (*components.Position, *components.Predator) {
	return w.predMap.Get(e)
}

// PreyCount returns the number of live prey.
func (w *World) PreyCount() int {
	return w.numPrey
}

// PredatorCount returns the number of live predators.
func (w *World) PredatorCount() int {
	return w.numPred
}

// Scan visits every cell once, column by column.
func (w *World) Scan(fn func(x, y int, state components.CellState)) {
	for x := 0; x < w.size; x++ {
		for y := 0; y < w.size; y++ {
			fn(x, y, w.cells[x*w.size+y])
		}
	}
}

// Validate checks that the grid and the collections agree: each organism's
// cell carries its kind's tag, no two organisms share a cell, and tag counts
// equal collection sizes.
func (w *World) Validate() error {
	var errs []error
	occupied := make(map[components.Position]components.Kind, w.numPrey+w.numPred)

	check := func(e ecs.Entity, pos components.Position, kind components.Kind, index cellIndex) {
		if !w.InBounds(pos.X, pos.Y) {
			errs = append(errs, fmt.Errorf("%s at (%d, %d) is out of bounds", kind, pos.X, pos.Y))
			return
		}
		if other, ok := occupied[pos]; ok {
			errs = append(errs, fmt.Errorf("%s and %s share (%d, %d)", other, kind, pos.X, pos.Y))
		}
		occupied[pos] = kind
		if !index.has(w.index(pos.X, pos.Y), e) {
			errs = append(errs, fmt.Errorf("%s at (%d, %d) missing from the cell index", kind, pos.X, pos.Y))
		}
		if c := w.CellAt(pos.X, pos.Y); c != kind.Cell() {
			errs = append(errs, fmt.Errorf("%s at (%d, %d) but cell holds %s", kind, pos.X, pos.Y, c))
		}
	}

	var preySeen, predSeen int
	preyQuery := w.preyFilter.Query()
	for preyQuery.Next() {
		pos, _ := preyQuery.Get()
		check(preyQuery.Entity(), *pos, components.KindPrey, w.preyAt)
		preySeen++
	}
	predQuery := w.predFilter.Query()
	for predQuery.Next() {
		pos, _ := predQuery.Get()
		check(predQuery.Entity(), *pos, components.KindPredator, w.predAt)
		predSeen++
	}

	var preyTags, predTags int
	for _, c := range w.cells {
		switch c {
		case components.CellPrey:
			preyTags++
		case components.CellPredator:
			predTags++
		}
	}

	if preySeen != w.numPrey || predSeen != w.numPred {
		errs = append(errs, fmt.Errorf("counters %d/%d disagree with collections %d/%d", w.numPrey, w.numPred, preySeen, predSeen))
	}
	if n := w.preyAt.len(); n != preySeen {
		errs = append(errs, fmt.Errorf("cell index lists %d prey for %d prey", n, preySeen))
	}
	if n := w.predAt.len(); n != predSeen {
		errs = append(errs, fmt.Errorf("cell index lists %d predators for %d predators", n, predSeen))
	}
	if preyTags != preySeen {
		errs = append(errs, fmt.Errorf("%d prey cells for %d prey", preyTags, preySeen))
	}
	if predTags != predSeen {
		errs = append(errs, fmt.Errorf("%d predator cells for %d predators", predTags, predSeen))
	}

	return errors.Join(errs...)
}
