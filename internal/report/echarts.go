package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/efficiency.report/internal/sweep"
	"github.com/banshee-data/efficiency.report/internal/units"
)

// RenderHTMLChart writes an interactive efficiency-vs-factor line chart.
// Dual-motor entries additionally get both methodologies' combined curves so
// the cross-check is visible at a glance.
func RenderHTMLChart(entries []sweep.Entry, xLabel, path string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Efficiency vs " + xLabel}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Efficiency (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	xs := make([]string, len(entries))
	combined := make([]opts.LineData, len(entries))
	var verification, theoretical []opts.LineData
	dual := entries[0].Unified != nil

	for i, e := range entries {
		xs[i] = fmt.Sprintf("%g", e.FactorValue)
		combined[i] = opts.LineData{Value: units.RatioToPercent(e.Efficiency)}
		if dual && e.Unified != nil {
			verification = append(verification, opts.LineData{
				Value: units.RatioToPercent(e.Unified.Verification.Combined),
			})
			theoretical = append(theoretical, opts.LineData{
				Value: units.RatioToPercent(e.Unified.Theoretical.Combined),
			})
		}
	}

	line.SetXAxis(xs)
	if dual {
		line.AddSeries("verification", verification)
		line.AddSeries("theoretical", theoretical)
	} else {
		line.AddSeries("efficiency", combined)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
