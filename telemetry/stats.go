// Package telemetry collects windowed simulation statistics and writes them
// to CSV for offline analysis.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one time window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population state at window end
	Population int `csv:"population"`
	Generation int `csv:"generation"`

	// Events during the window
	Births            int     `csv:"births"`
	Deaths            int     `csv:"deaths"`
	ResourcesConsumed int     `csv:"resources_consumed"`
	EnergyForaged     float64 `csv:"energy_foraged"`

	// Environment state at window end
	ResourceCount   int     `csv:"resource_count"`
	ResourceDensity float64 `csv:"resource_density"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Fitness distribution
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`

	// Trait distributions (population means)
	BodySizeMean    float64 `csv:"body_size_mean"`
	MetabolismMean  float64 `csv:"metabolism_mean"`
	MetabolismStd   float64 `csv:"metabolism_std"`
	SensorRangeMean float64 `csv:"sensor_range_mean"`
	SpeedMean       float64 `csv:"speed_mean"`
	SpeedStd        float64 `csv:"speed_std"`
	TurnRateMean    float64 `csv:"turn_rate_mean"`
	AppendageMean   float64 `csv:"appendage_mean"`
}

// Distribution summarizes one sampled population variable.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// ComputeDistribution calculates mean, standard deviation, and percentiles
// of a sample. Returns the zero Distribution for an empty sample.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// Mean returns the arithmetic mean of a sample, 0 when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
