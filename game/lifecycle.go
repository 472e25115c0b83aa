package game

import (
	"github.com/pthm-cable/doodlebugs/components"
)

// spawnInitialPopulation places the configured prey, then predators, on
// uniformly drawn cells, redrawing whenever the cell is taken.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.Population.InitialPrey; i++ {
		x, y := g.randomEmptyCell()
		g.world.SpawnPrey(x, y)
	}
	for i := 0; i < g.cfg.Population.InitialPredators; i++ {
		x, y := g.randomEmptyCell()
		g.world.SpawnPredator(x, y)
	}
}

// randomEmptyCell rejection-samples an empty cell. Config validation
// guarantees the population fits, so a free cell always exists.
func (g *Game) randomEmptyCell() (int, int) {
	size := g.world.Size()
	for {
		x := g.rng.Intn(size)
		y := g.rng.Intn(size)
		if g.world.CellAt(x, y) == components.CellEmpty {
			return x, y
		}
	}
}
