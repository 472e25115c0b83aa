package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/doodlebugs/components"
	"github.com/pthm-cable/doodlebugs/systems"
)

// Step advances the simulation by one epoch.
//
// Predators act before prey. Each phase iterates a snapshot of the collection
// taken when the phase begins, so offspring placed during the phase wait for
// the next epoch and organisms removed mid-phase are skipped.
func (g *Game) Step() {
	g.runPhase(components.KindPredator)
	g.runPhase(components.KindPrey)
	g.epoch++

	preyCount, predCount := g.world.PreyCount(), g.world.PredatorCount()
	g.collector.SamplePopulation(preyCount, predCount)
	if preyCount == 0 || predCount == 0 {
		g.extinct = true
	}

	if g.checkInvariants {
		g.verifyWorld()
	}

	g.flushTelemetry()
}

// runPhase lets every organism of one kind act once.
func (g *Game) runPhase(kind components.Kind) {
	var snapshot []ecs.Entity
	switch kind {
	case components.KindPredator:
		snapshot = g.world.PredatorEntities()
	case components.KindPrey:
		snapshot = g.world.PreyEntities()
	}

	for _, e := range snapshot {
		if !g.world.Alive(e) {
			continue
		}
		g.act(kind, e)
	}
}

// act dispatches to the kind's behaviour and records what happened.
func (g *Game) act(kind components.Kind, e ecs.Entity) {
	var out systems.Outcome
	switch kind {
	case components.KindPredator:
		out = systems.ActPredator(g.world, e, g.rules, g.rng)
		g.collector.RecordHunt(out.Ate)
		if out.Ate {
			g.collector.RecordDeath(components.KindPrey)
		}
		if out.Starved {
			g.collector.RecordDeath(components.KindPredator)
		}
	case components.KindPrey:
		out = systems.ActPrey(g.world, e, g.rules, g.rng)
	}

	if out.Bred {
		g.collector.RecordBirth(kind)
	}
}

// verifyWorld checks grid/collection consistency at the end of an epoch.
// With unchecked predator steps two predators may legitimately share a cell,
// so the check only warns in that mode.
func (g *Game) verifyWorld() {
	err := g.world.Validate()
	if err == nil {
		return
	}
	if g.rules.PredatorStepChecksOccupancy {
		panic(fmt.Sprintf("game: world invariant violated at epoch %d: %v", g.epoch, err))
	}
	if !g.warnedOverlap {
		g.warnedOverlap = true
		slog.Warn("grid and collections disagree after an unchecked predator step",
			"epoch", g.epoch,
			"error", err,
		)
	}
}
