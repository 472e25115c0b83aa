package systems

import (
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/doodlebugs/components"
)

// expectPanic fails the test if fn returns normally.
func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, substr) {
			t.Errorf("panic %q does not contain %q", msg, substr)
		}
	}()
	fn()
}

func TestNewWorldIsEmpty(t *testing.T) {
	w := NewWorld(4)

	if w.Size() != 4 {
		t.Errorf("size = %d, want 4", w.Size())
	}
	w.Scan(func(x, y int, state components.CellState) {
		if state != components.CellEmpty {
			t.Errorf("cell (%d, %d) = %s, want empty", x, y, state)
		}
	})
	if w.PreyCount() != 0 || w.PredatorCount() != 0 {
		t.Errorf("counts = %d/%d, want 0/0", w.PreyCount(), w.PredatorCount())
	}
	if err := w.Validate(); err != nil {
		t.Errorf("empty world invalid: %v", err)
	}
}

func TestSpawnAndRemovePrey(t *testing.T) {
	w := NewWorld(5)

	e := w.SpawnPrey(1, 2)
	if got := w.CellAt(1, 2); got != components.CellPrey {
		t.Fatalf("cell after spawn = %s, want prey", got)
	}
	if w.PreyCount() != 1 {
		t.Errorf("prey count = %d, want 1", w.PreyCount())
	}
	pos, prey := w.Prey(e)
	if *pos != (components.Position{X: 1, Y: 2}) {
		t.Errorf("position = %+v, want (1, 2)", *pos)
	}
	if prey.StepsSinceBreeding != 0 {
		t.Errorf("new prey breeding counter = %d, want 0", prey.StepsSinceBreeding)
	}

	w.RemovePrey(1, 2)
	if got := w.CellAt(1, 2); got != components.CellEmpty {
		t.Errorf("cell after remove = %s, want empty", got)
	}
	if w.Alive(e) {
		t.Error("removed prey still alive")
	}
	if w.PreyCount() != 0 {
		t.Errorf("prey count = %d, want 0", w.PreyCount())
	}
}

func TestSpawnAndRemovePredator(t *testing.T) {
	w := NewWorld(5)

	e := w.SpawnPredator(4, 4)
	if got := w.CellAt(4, 4); got != components.CellPredator {
		t.Fatalf("cell after spawn = %s, want predator", got)
	}
	_, pred := w.Predator(e)
	if pred.StepsSinceBreeding != 0 || pred.StepsSinceMeal != 0 {
		t.Errorf("new predator counters = %+v, want zero", *pred)
	}

	w.RemovePredator(4, 4)
	if w.Alive(e) || w.PredatorCount() != 0 {
		t.Error("predator not removed")
	}
	if got := w.CellAt(4, 4); got != components.CellEmpty {
		t.Errorf("cell after remove = %s, want empty", got)
	}
}

func TestContractViolationsPanic(t *testing.T) {
	t.Run("spawn on occupied cell", func(t *testing.T) {
		w := NewWorld(3)
		w.SpawnPrey(0, 0)
		expectPanic(t, "spawn predator", func() { w.SpawnPredator(0, 0) })
	})

	t.Run("remove missing prey", func(t *testing.T) {
		w := NewWorld(3)
		w.SpawnPredator(1, 1)
		expectPanic(t, "no prey", func() { w.RemovePrey(1, 1) })
	})

	t.Run("remove missing predator", func(t *testing.T) {
		w := NewWorld(3)
		expectPanic(t, "no predator", func() { w.RemovePredator(2, 2) })
	})

	t.Run("out of bounds", func(t *testing.T) {
		w := NewWorld(3)
		expectPanic(t, "outside", func() { w.CellAt(3, 0) })
	})
}

func TestSnapshotSurvivesMutation(t *testing.T) {
	w := NewWorld(5)
	a := w.SpawnPrey(0, 0)
	b := w.SpawnPrey(1, 0)
	c := w.SpawnPrey(2, 0)

	snapshot := w.PreyEntities()
	if len(snapshot) != 3 {
		t.Fatalf("snapshot length = %d, want 3", len(snapshot))
	}

	w.RemovePrey(1, 0)
	d := w.SpawnPrey(4, 4)

	alive := 0
	for _, e := range snapshot {
		if e == d {
			t.Error("entity spawned after snapshot appears in it")
		}
		if w.Alive(e) {
			alive++
		}
	}
	if alive != 2 {
		t.Errorf("alive entries in snapshot = %d, want 2", alive)
	}
	if w.Alive(b) {
		t.Error("removed entity reported alive")
	}
	if !w.Alive(a) || !w.Alive(c) || !w.Alive(d) {
		t.Error("surviving entities reported dead")
	}
	if err := w.Validate(); err != nil {
		t.Errorf("world invalid after mutation: %v", err)
	}
}

func TestScanVisitsEveryCellOnce(t *testing.T) {
	w := NewWorld(6)
	w.SpawnPrey(2, 3)
	w.SpawnPredator(5, 0)

	seen := make(map[components.Position]int)
	var prey, pred int
	w.Scan(func(x, y int, state components.CellState) {
		seen[components.Position{X: x, Y: y}]++
		switch state {
		case components.CellPrey:
			prey++
		case components.CellPredator:
			pred++
		}
	})

	if len(seen) != 36 {
		t.Errorf("visited %d distinct cells, want 36", len(seen))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("cell %+v visited %d times", p, n)
		}
	}
	if prey != 1 || pred != 1 {
		t.Errorf("scan saw %d prey / %d predators, want 1/1", prey, pred)
	}
}

func TestValidateDetectsDisagreement(t *testing.T) {
	w := NewWorld(4)
	w.SpawnPrey(1, 1)
	w.SetCell(1, 1, components.CellEmpty)

	err := w.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "cell holds empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStepClampsAtBoundary(t *testing.T) {
	tests := []struct {
		name string
		from components.Position
		dir  Direction
		want components.Position
	}{
		{"up from top row", components.Position{X: 0, Y: 0}, Up, components.Position{X: 0, Y: 0}},
		{"left from left column", components.Position{X: 0, Y: 3}, Left, components.Position{X: 0, Y: 3}},
		{"down from bottom row", components.Position{X: 2, Y: 4}, Down, components.Position{X: 2, Y: 4}},
		{"right from right column", components.Position{X: 4, Y: 1}, Right, components.Position{X: 4, Y: 1}},
		{"interior up", components.Position{X: 2, Y: 2}, Up, components.Position{X: 2, Y: 1}},
		{"interior down", components.Position{X: 2, Y: 2}, Down, components.Position{X: 2, Y: 3}},
		{"interior left", components.Position{X: 2, Y: 2}, Left, components.Position{X: 1, Y: 2}},
		{"interior right", components.Position{X: 2, Y: 2}, Right, components.Position{X: 3, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Step(tt.from, tt.dir, 5); got != tt.want {
				t.Errorf("Step(%+v, %s) = %+v, want %+v", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestFirstNeighborPriority(t *testing.T) {
	w := NewWorld(5)
	center := components.Position{X: 2, Y: 2}

	w.SpawnPrey(3, 2) // right
	w.SpawnPrey(1, 2) // left
	got, ok := FirstNeighbor(w, center, components.CellPrey)
	if !ok || got != (components.Position{X: 1, Y: 2}) {
		t.Errorf("first prey neighbour = %+v (%v), want left (1, 2)", got, ok)
	}

	w.SpawnPrey(2, 3) // down
	got, _ = FirstNeighbor(w, center, components.CellPrey)
	if got != (components.Position{X: 2, Y: 3}) {
		t.Errorf("first prey neighbour = %+v, want down (2, 3)", got)
	}

	// Corner cells check themselves on the missing sides.
	corner := NewWorld(3)
	corner.SpawnPredator(0, 0)
	got, ok = FirstNeighbor(corner, components.Position{X: 0, Y: 0}, components.CellEmpty)
	if !ok || got != (components.Position{X: 0, Y: 1}) {
		t.Errorf("first empty neighbour of corner = %+v (%v), want down (0, 1)", got, ok)
	}
}

func TestLookupFollowsMoves(t *testing.T) {
	w := NewWorld(3)
	e := w.SpawnPrey(1, 1)
	rules := DefaultRules()
	rules.PreyBreedSteps = 100

	out := ActPrey(w, e, rules, newRNG())
	if !out.Moved {
		t.Fatal("prey in the middle of an empty grid did not move")
	}

	if _, ok := w.PreyAt(1, 1); ok {
		t.Error("prey still listed at its old cell")
	}
	got, ok := w.PreyAt(out.Target.X, out.Target.Y)
	if !ok || got != e {
		t.Errorf("PreyAt(%d, %d) = %v, %v; want %v", out.Target.X, out.Target.Y, got, ok, e)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("world invalid: %v", err)
	}
}

func TestSharedCellLookupInArrivalOrder(t *testing.T) {
	w := NewWorld(3)
	neighbours := map[components.Position]ecs.Entity{}
	for _, p := range []components.Position{{X: 1, Y: 0}, {X: 1, Y: 2}, {X: 0, Y: 1}, {X: 2, Y: 1}} {
		neighbours[p] = w.SpawnPredator(p.X, p.Y)
	}
	mover := w.SpawnPredator(1, 1)

	out := ActPredator(w, mover, DefaultRules(), newRNG())
	resident, ok := neighbours[out.Target]
	if !ok {
		t.Fatalf("predator stepped to %+v, want a neighbour", out.Target)
	}

	got, _ := w.PredatorAt(out.Target.X, out.Target.Y)
	if got != resident {
		t.Errorf("PredatorAt returned %v, want the earlier occupant %v", got, resident)
	}

	w.RemovePredator(out.Target.X, out.Target.Y)
	got, ok = w.PredatorAt(out.Target.X, out.Target.Y)
	if !ok || got != mover {
		t.Errorf("after removal PredatorAt = %v, %v; want %v", got, ok, mover)
	}
	if !w.Alive(mover) || w.Alive(resident) {
		t.Error("removal took the wrong predator")
	}
}
