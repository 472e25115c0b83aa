package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/doodlebugs/config"
	"github.com/pthm-cable/doodlebugs/game"
	"github.com/pthm-cable/doodlebugs/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxEpochs  int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxEpochs int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxEpochs:   maxEpochs,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// BestFitness returns the lowest fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalEpochs int // epochs before either species died out (or maxEpochs)
	windowStats    []telemetry.WindowStats
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; each run owns its world and RNG.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: computeQuality(result.windowStats),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until extinction or maxEpochs.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		// Parameters the config rejects (e.g. a population that does not fit) score zero.
		slog.Debug("rejected parameters", "seed", seed, "error", err)
		return result
	}
	defer g.Unload()

	for g.Epoch() < fe.maxEpochs {
		g.Step()
		if g.Extinct() || overcrowded(g.World().PreyCount(), g.World().PredatorCount(), cfg.Derived.Cells) {
			result.survivalEpochs = g.Epoch()
			return result
		}
	}

	result.survivalEpochs = fe.maxEpochs
	return result
}

// overcrowded reports a run whose collections outgrew the grid. Unchecked
// predator steps can hide organisms under another's tag, after which
// offspring spawn onto cells that still hold them; such runs only degenerate.
func overcrowded(prey, pred, cells int) bool {
	return prey+pred > cells
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalEpochs × (1.0 + 0.2 × quality))
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalEpochs)
	return -(survival * (1.0 + 0.2*computeQuality(r.windowStats)))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupWindows = 2 // skip first N windows
	qualityMinPop        = 3 // exclude windows where either species < this
	targetRatio          = 10.0
	targetHuntRate       = 0.3
)

// computeQuality scores ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, huntSum float64
	var ratioCount, huntCount int
	preyCounts := make([]float64, 0, len(windows))
	predCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}
		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		if w.Hunts > 0 {
			d := (w.HuntRate - targetHuntRate) / 0.2
			huntSum += math.Exp(-d * d)
			huntCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := telemetry.CoefficientOfVariation(preyCounts)
		cvPred := telemetry.CoefficientOfVariation(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	return clamp01(qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
