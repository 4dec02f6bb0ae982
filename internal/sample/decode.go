package sample

import (
	"math"

	"github.com/banshee-data/efficiency.report/internal/units"
)

// Calibration holds the scalars that turn a raw channel voltage into a
// current and a row index into a timestamp.
type Calibration struct {
	ReferenceV   float64 // volts per amp
	InitialV     float64 // zero-current offset voltage
	SamplingFreq float64 // Hz
}

// Series is one decoded channel: a current sequence aligned with a synthetic
// time base. Rows whose raw value failed to parse are absent from both
// slices; the surviving time values keep their original row positions so
// sample spacing is preserved across gaps.
type Series struct {
	Time    []float64 // seconds, k/SamplingFreq at original row index k
	Current []float64 // amps
}

// Empty reports whether no rows decoded.
func (s Series) Empty() bool { return len(s.Current) == 0 }

// Len returns the number of valid samples.
func (s Series) Len() int { return len(s.Current) }

// Decode converts one channel to a current series. A channel the table does
// not carry yields an empty Series so downstream stages can degrade to a
// zero result instead of failing the whole run.
func (t *Table) Decode(ch Channel, cal Calibration) Series {
	if !t.HasChannel(ch) || cal.SamplingFreq <= 0 {
		return Series{}
	}

	dt := 1.0 / cal.SamplingFreq
	col := int(ch)
	s := Series{
		Time:    make([]float64, 0, t.Len()),
		Current: make([]float64, 0, t.Len()),
	}
	for k := 0; k < t.Len(); k++ {
		raw := t.cell(k, col)
		if math.IsNaN(raw) {
			continue
		}
		s.Time = append(s.Time, float64(k)*dt)
		s.Current = append(s.Current, units.VoltsToAmps(raw, cal.ReferenceV, cal.InitialV))
	}
	return s
}

// DecodePair converts two channels against one shared time base, keeping
// only rows where both channels parsed. The instantaneous-power method needs
// its output and input samples aligned index for index.
func (t *Table) DecodePair(out, in Channel, cal Calibration) (Series, Series) {
	if !t.HasChannel(out) || !t.HasChannel(in) || cal.SamplingFreq <= 0 {
		return Series{}, Series{}
	}

	dt := 1.0 / cal.SamplingFreq
	outCol, inCol := int(out), int(in)
	var so, si Series
	for k := 0; k < t.Len(); k++ {
		rawOut := t.cell(k, outCol)
		rawIn := t.cell(k, inCol)
		if math.IsNaN(rawOut) || math.IsNaN(rawIn) {
			continue
		}
		ts := float64(k) * dt
		so.Time = append(so.Time, ts)
		so.Current = append(so.Current, units.VoltsToAmps(rawOut, cal.ReferenceV, cal.InitialV))
		si.Time = append(si.Time, ts)
		si.Current = append(si.Current, units.VoltsToAmps(rawIn, cal.ReferenceV, cal.InitialV))
	}
	return so, si
}
