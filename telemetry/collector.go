package telemetry

import "github.com/pthm-cable/doodlebugs/components"

// Collector accumulates events within windows of epochs and produces WindowStats.
type Collector struct {
	windowEpochs int

	// Current window tracking
	windowStartEpoch int

	// Event counters for current window
	preyBirths  int
	predBirths  int
	preyEaten   int
	predStarved int
	hunts       int
	meals       int

	// Per-epoch population samples
	preySamples []float64
	predSamples []float64
}

// NewCollector creates a collector that flushes every windowEpochs epochs.
func NewCollector(windowEpochs int) *Collector {
	if windowEpochs < 1 {
		windowEpochs = 1
	}
	return &Collector{
		windowEpochs: windowEpochs,
		preySamples:  make([]float64, 0, windowEpochs),
		predSamples:  make([]float64, 0, windowEpochs),
	}
}

// RecordBirth records an offspring placed by breeding.
func (c *Collector) RecordBirth(kind components.Kind) {
	if kind == components.KindPrey {
		c.preyBirths++
	} else {
		c.predBirths++
	}
}

// RecordDeath records a removal. Prey die only by being eaten and predators
// only by starving.
func (c *Collector) RecordDeath(kind components.Kind) {
	if kind == components.KindPrey {
		c.preyEaten++
	} else {
		c.predStarved++
	}
}

// RecordHunt records one predator turn and whether it ended in a meal.
func (c *Collector) RecordHunt(ate bool) {
	c.hunts++
	if ate {
		c.meals++
	}
}

// SamplePopulation records the population at the end of an epoch.
func (c *Collector) SamplePopulation(prey, pred int) {
	c.preySamples = append(c.preySamples, float64(prey))
	c.predSamples = append(c.predSamples, float64(pred))
}

// ShouldFlush returns true if enough epochs have passed to flush the window.
func (c *Collector) ShouldFlush(epoch int) bool {
	return epoch-c.windowStartEpoch >= c.windowEpochs
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(epoch, preyCount, predCount int) WindowStats {
	var huntRate float64
	if c.hunts > 0 {
		huntRate = float64(c.meals) / float64(c.hunts)
	}

	preyMean, preyStd, preyMin, preyMax := ComputePopulationStats(c.preySamples)
	predMean, predStd, predMin, predMax := ComputePopulationStats(c.predSamples)

	stats := WindowStats{
		WindowStartEpoch: c.windowStartEpoch,
		WindowEndEpoch:   epoch,

		PreyCount: preyCount,
		PredCount: predCount,

		PreyBirths:  c.preyBirths,
		PredBirths:  c.predBirths,
		PreyEaten:   c.preyEaten,
		PredStarved: c.predStarved,

		Hunts:    c.hunts,
		Meals:    c.meals,
		HuntRate: huntRate,

		PreyMean: preyMean,
		PreyStd:  preyStd,
		PreyMin:  preyMin,
		PreyMax:  preyMax,
		PredMean: predMean,
		PredStd:  predStd,
		PredMin:  predMin,
		PredMax:  predMax,
	}

	// Reset for next window
	c.windowStartEpoch = epoch
	c.preyBirths = 0
	c.predBirths = 0
	c.preyEaten = 0
	c.predStarved = 0
	c.hunts = 0
	c.meals = 0
	c.preySamples = c.preySamples[:0]
	c.predSamples = c.predSamples[:0]

	return stats
}

// WindowEpochs returns the number of epochs per window.
func (c *Collector) WindowEpochs() int {
	return c.windowEpochs
}
