package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/efficiency.report/internal/sweep"
	"github.com/banshee-data/efficiency.report/internal/units"
)

// RenderEfficiencyCurve plots combined efficiency (%) against the swept
// factor and saves a PNG. The optimum level is marked with a separate
// scatter glyph.
func RenderEfficiencyCurve(entries []sweep.Entry, xLabel, path string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to plot")
	}

	p := plot.New()
	p.Title.Text = "Efficiency vs " + xLabel
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Efficiency (%)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(entries))
	maxIdx := 0
	for i, e := range entries {
		pts[i].X = e.FactorValue
		pts[i].Y = units.RatioToPercent(e.Efficiency)
		if pts[i].Y > pts[maxIdx].Y {
			maxIdx = i
		}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build line plot: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	points.Radius = vg.Points(3)
	p.Add(line, points)
	p.Legend.Add("efficiency", line)

	best, err := plotter.NewScatter(plotter.XYs{pts[maxIdx]})
	if err != nil {
		return fmt.Errorf("failed to build optimum marker: %w", err)
	}
	best.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	best.GlyphStyle.Radius = vg.Points(5)
	p.Add(best)
	p.Legend.Add(fmt.Sprintf("optimum %.2f%%", pts[maxIdx].Y), best)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save efficiency curve: %w", err)
	}
	return nil
}

// RenderRunWaveform plots one entry's output current and power series, the
// per-sample view the rig operators use to sanity-check a single run.
func RenderRunWaveform(entry sweep.Entry, path string) error {
	if len(entry.Plot.Time) == 0 {
		return fmt.Errorf("entry %d has no plot data", entry.Index)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Run %d output", entry.Index)
	p.X.Label.Text = "Time (" + units.Seconds + ")"
	p.Y.Label.Text = "Current (" + units.Amps + ") / Power (" + units.Watts + ")"
	p.Add(plotter.NewGrid())

	current := make(plotter.XYs, len(entry.Plot.Time))
	power := make(plotter.XYs, len(entry.Plot.Time))
	for i, ts := range entry.Plot.Time {
		current[i] = plotter.XY{X: ts, Y: entry.Plot.Current[i]}
		power[i] = plotter.XY{X: ts, Y: entry.Plot.Power[i]}
	}

	currentLine, err := plotter.NewLine(current)
	if err != nil {
		return fmt.Errorf("failed to build current line: %w", err)
	}
	currentLine.Color = color.RGBA{B: 255, A: 255}

	powerLine, err := plotter.NewLine(power)
	if err != nil {
		return fmt.Errorf("failed to build power line: %w", err)
	}
	powerLine.Color = color.RGBA{R: 255, A: 255}

	p.Add(currentLine, powerLine)
	p.Legend.Add("current", currentLine)
	p.Legend.Add("power", powerLine)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save waveform: %w", err)
	}
	return nil
}
