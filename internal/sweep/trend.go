package sweep

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrendStats summarises how the combined efficiency moved across the swept
// factor.
type TrendStats struct {
	// HasFit is true when at least two levels completed and the linear fit
	// below is meaningful.
	HasFit    bool    `json:"has_fit"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	OptimalFactor     float64 `json:"optimal_factor"`
	OptimalEfficiency float64 `json:"optimal_efficiency"`

	EfficiencyRange float64 `json:"efficiency_range"`
	// RelativeChange is the efficiency range as a percentage of the mean.
	RelativeChange float64 `json:"relative_change"`
}

// Trend derives the sweep statistics from the completed levels: a degree-1
// least-squares fit over (factor, efficiency), the level with the highest
// efficiency, and the spread of efficiencies. Skipped levels simply do not
// participate.
func (r *Runner) Trend() (TrendStats, error) {
	if len(r.entries) == 0 {
		return TrendStats{}, ErrNoResults
	}

	factors := make([]float64, len(r.entries))
	effs := make([]float64, len(r.entries))
	for i, e := range r.entries {
		factors[i] = e.FactorValue
		effs[i] = e.Efficiency
	}

	var ts TrendStats
	if len(r.entries) >= 2 {
		alpha, beta := stat.LinearRegression(factors, effs, nil, false)
		ts.HasFit = true
		ts.Intercept = alpha
		ts.Slope = beta
	}

	maxIdx := floats.MaxIdx(effs)
	ts.OptimalFactor = factors[maxIdx]
	ts.OptimalEfficiency = effs[maxIdx]

	ts.EfficiencyRange = floats.Max(effs) - floats.Min(effs)
	if mean := stat.Mean(effs, nil); mean != 0 {
		ts.RelativeChange = ts.EfficiencyRange / mean * 100
	}
	return ts, nil
}
