package sweep

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/banshee-data/efficiency.report/internal/units"
)

// ComparisonTable is the spreadsheet-shaped batch artifact: one row per
// completed experiment level plus a summary block describing the
// configuration that produced it.
type ComparisonTable struct {
	Headers []string    `json:"headers"`
	Rows    [][]string  `json:"rows"`
	Summary [][2]string `json:"summary"`
}

// ComparisonTable renders the collected entries. Column layout depends on
// the run mode: factor exploration reports the single self-combined
// efficiency and its output powers; dual-motor calibration reports both
// methodologies per polarity, the combined efficiencies, and their deltas.
func (r *Runner) ComparisonTable() (*ComparisonTable, error) {
	if len(r.entries) == 0 {
		return nil, ErrNoResults
	}

	t := &ComparisonTable{}
	factorLabel := r.cfg.ExplorationType.FactorLabel()

	if r.cfg.FactorMode {
		t.Headers = []string{
			"Experiment", factorLabel, "Input Power (" + units.Watts + ")",
			"Efficiency (%)",
			"Avg Output Power (" + units.Watts + ")",
			"Max Output Power (" + units.Watts + ")",
			"Data Status",
		}
		for _, e := range r.entries {
			t.Rows = append(t.Rows, []string{
				fmt.Sprintf("%d", e.Index),
				fmt.Sprintf("%g", e.FactorValue),
				fmt.Sprintf("%g", e.Params["power_input"]),
				fmt.Sprintf("%.2f", units.RatioToPercent(e.Efficiency)),
				fmt.Sprintf("%.2f", e.AvgOutputPower),
				fmt.Sprintf("%.2f", e.MaxOutputPower),
				e.DataStatus.String(),
			})
		}
	} else {
		t.Headers = []string{
			"Experiment", factorLabel, "Input Power (" + units.Watts + ")",
			"Verification Zheng", "Verification Fan", "Verification Combined",
			"Theoretical Zheng", "Theoretical Fan", "Theoretical Combined",
			"Zheng Delta", "Fan Delta", "Combined Delta",
			"Data Status",
		}
		for _, e := range r.entries {
			u := e.Unified
			t.Rows = append(t.Rows, []string{
				fmt.Sprintf("%d", e.Index),
				fmt.Sprintf("%g", e.FactorValue),
				fmt.Sprintf("%g", e.Params["power_input"]),
				fmt.Sprintf("%.4f", u.Verification.Zheng.Efficiency),
				fmt.Sprintf("%.4f", u.Verification.Fan.Efficiency),
				fmt.Sprintf("%.4f", u.Verification.Combined),
				fmt.Sprintf("%.4f", u.Theoretical.Zheng.Efficiency),
				fmt.Sprintf("%.4f", u.Theoretical.Fan.Efficiency),
				fmt.Sprintf("%.4f", u.Theoretical.Combined),
				fmt.Sprintf("%.4f", u.Comparison.ZhengDiff),
				fmt.Sprintf("%.4f", u.Comparison.FanDiff),
				fmt.Sprintf("%.4f", u.Comparison.CombinedDiff),
				e.DataStatus.String(),
			})
		}
	}

	t.Summary = [][2]string{
		{"Exploration Type", string(r.cfg.ExplorationType)},
		{"Fixed Parameters", formatParams(r.cfg.FixedParams)},
		{"Common Parameters", formatParams(r.cfg.CommonParams)},
		{"Completed Levels", fmt.Sprintf("%d", len(r.entries))},
		{"Skipped Levels", fmt.Sprintf("%d", r.skipped)},
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
	}
	return t, nil
}

// formatParams renders a parameter map in stable key order.
func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, ", ")
}
