// Package telemetry provides population tracking, bookmarking, and CSV output.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of epochs.
type WindowStats struct {
	WindowStartEpoch int `csv:"-"`
	WindowEndEpoch   int `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during window
	PreyBirths  int `csv:"prey_births"`
	PredBirths  int `csv:"pred_births"`
	PreyEaten   int `csv:"prey_eaten"`
	PredStarved int `csv:"pred_starved"`

	// Hunting
	Hunts    int     `csv:"hunts"` // predator turns
	Meals    int     `csv:"meals"`
	HuntRate float64 `csv:"hunt_rate"`

	// Population distribution over the window's epochs
	PreyMean float64 `csv:"prey_mean"`
	PreyStd  float64 `csv:"prey_std"`
	PreyMin  float64 `csv:"prey_min"`
	PreyMax  float64 `csv:"prey_max"`
	PredMean float64 `csv:"pred_mean"`
	PredStd  float64 `csv:"pred_std"`
	PredMin  float64 `csv:"pred_min"`
	PredMax  float64 `csv:"pred_max"`
}

// ComputePopulationStats returns the mean, sample standard deviation, min and
// max of per-epoch population counts. Returns zeros for an empty slice.
func ComputePopulationStats(values []float64) (mean, std, lo, hi float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	if len(values) == 1 {
		return values[0], 0, values[0], values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std, floats.Min(values), floats.Max(values)
}

// CoefficientOfVariation returns std/mean, or 0 when the mean is 0.
func CoefficientOfVariation(values []float64) float64 {
	mean, std, _, _ := ComputePopulationStats(values)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartEpoch),
		slog.Int("window_end", s.WindowEndEpoch),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_eaten", s.PreyEaten),
		slog.Int("pred_starved", s.PredStarved),
		slog.Int("hunts", s.Hunts),
		slog.Int("meals", s.Meals),
		slog.Float64("hunt_rate", s.HuntRate),
		slog.Float64("prey_mean", s.PreyMean),
		slog.Float64("prey_std", s.PreyStd),
		slog.Float64("pred_mean", s.PredMean),
		slog.Float64("pred_std", s.PredStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
