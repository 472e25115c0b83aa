// Package game drives the simulation one epoch at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/doodlebugs/config"
	"github.com/pthm-cable/doodlebugs/systems"
	"github.com/pthm-cable/doodlebugs/telemetry"
)

// Options configures a Game.
type Options struct {
	Config          *config.Config // nil = config.Cfg()
	Seed            int64          // 0 = time-based
	LogStats        bool
	OutputDir       string
	CheckInvariants bool
	SkipSeeding     bool // start with an empty world

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *systems.World
	rules systems.Rules
	rng   *rand.Rand
	seed  int64

	// State
	epoch int

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	checkInvariants bool
	warnedOverlap   bool
	extinct         bool
}

// NewGameWithOptions creates a game and seeds its initial population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	g := &Game{
		cfg:   cfg,
		world: systems.NewWorld(cfg.World.Size),
		rules: systems.Rules{
			PreyBreedSteps:              cfg.Prey.BreedSteps,
			PredatorBreedSteps:          cfg.Predator.BreedSteps,
			PredatorStarveSteps:         cfg.Predator.StarveSteps,
			PredatorStepChecksOccupancy: cfg.Rules.PredatorStepChecksOccupancy,
		},
		rng:              rand.New(rand.NewSource(seed)),
		seed:             seed,
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		outputManager:    om,
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		checkInvariants:  opts.CheckInvariants,
	}

	if !opts.SkipSeeding {
		g.spawnInitialPopulation()
	}

	return g, nil
}

// World returns the simulation world. Callers outside the package should
// treat it as read-only.
func (g *Game) World() *systems.World {
	return g.world
}

// Epoch returns the number of completed epochs.
func (g *Game) Epoch() int {
	return g.epoch
}

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 {
	return g.seed
}

// Rules returns the behaviour thresholds derived from the config.
func (g *Game) Rules() systems.Rules {
	return g.rules
}

// OutputDir returns the telemetry directory, or "" when output is disabled.
func (g *Game) OutputDir() string {
	return g.outputManager.Dir()
}

// Extinct reports whether either population has died out.
func (g *Game) Extinct() bool {
	return g.extinct
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
