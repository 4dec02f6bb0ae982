// Package engine converts decoded acquisition runs into energy-conversion
// efficiencies.
//
// Two independent methodologies are implemented. The verification method
// integrates the measured output power against an assumed-constant input
// power. The theoretical method integrates both the output and the input
// instantaneous power series. Batch analysis cross-checks one against the
// other.
package engine

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/efficiency.report/internal/sample"
)

// Status distinguishes a genuinely zero efficiency from a computation that
// produced nothing. Batch aggregation and the comparison table carry it
// through so the two are never conflated.
type Status int

const (
	// StatusOK marks a fully computed result.
	StatusOK Status = iota
	// StatusNoData marks a run whose table was too narrow, whose channel is
	// absent, or whose rows never parsed.
	StatusNoData
	// StatusTooFewSamples marks a run with fewer than two valid aligned
	// samples, too short to integrate.
	StatusTooFewSamples
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no data"
	case StatusTooFewSamples:
		return "too few samples"
	default:
		return "unknown"
	}
}

// Params holds the calibration scalars for one run. Values are copied into
// each computation call; nothing is retained between calls.
type Params struct {
	ReferenceV   float64 // volts per amp
	InitialV     float64 // zero-current offset voltage
	RLoad        float64 // load resistance, ohm
	SamplingFreq float64 // Hz
	PowerInput   float64 // assumed constant input power, W (verification)
	DriveV       float64 // assumed constant drive voltage, V (theoretical)
}

func (p Params) calibration() sample.Calibration {
	return sample.Calibration{
		ReferenceV:   p.ReferenceV,
		InitialV:     p.InitialV,
		SamplingFreq: p.SamplingFreq,
	}
}

// PlotData is the aligned per-sample triple handed to the presentation layer
// for charting. The engine never renders; it only emits numeric sequences.
type PlotData struct {
	Time    []float64 `json:"time"`    // s
	Current []float64 `json:"current"` // A
	Power   []float64 `json:"power"`   // W
}

// Result is one (run, methodology) efficiency computation. Zero-valued with
// a non-OK Status when the run contributed nothing; immutable after
// creation.
type Result struct {
	Status         Status   `json:"status"`
	Efficiency     float64  `json:"efficiency"`
	AvgOutputPower float64  `json:"avg_output_power"`
	MaxOutputPower float64  `json:"max_output_power"`
	OutputEnergy   float64  `json:"output_energy"`
	InputEnergy    float64  `json:"input_energy"`
	Duration       float64  `json:"duration"`
	Plot           PlotData `json:"plot"`

	// InputCurrent and InputPower are populated by the theoretical method
	// only, for input-side charting.
	InputCurrent []float64 `json:"input_current,omitempty"`
	InputPower   []float64 `json:"input_power,omitempty"`
}

// Verification computes the average-input-power efficiency of one run:
// output energy is the trapezoidal integral of i²·RLoad on AIN2, input
// energy is PowerInput over the valid-sample duration. All fidelity is on
// the output side; the input power is taken as constant for the whole run.
func Verification(t *sample.Table, p Params) Result {
	if t == nil || t.Cols() < 3 {
		return Result{Status: StatusNoData}
	}

	s := t.Decode(sample.AIN2, p.calibration())
	if s.Empty() {
		return Result{Status: StatusNoData}
	}
	if s.Len() < 2 {
		return Result{Status: StatusTooFewSamples}
	}

	power := make([]float64, s.Len())
	for i, c := range s.Current {
		power[i] = c * c * p.RLoad
	}

	outputEnergy := integrate.Trapezoidal(s.Time, power)
	duration := float64(s.Len()) / p.SamplingFreq
	inputEnergy := p.PowerInput * duration

	efficiency := 0.0
	if inputEnergy > 0 {
		efficiency = outputEnergy / inputEnergy
	}

	return Result{
		Status:         StatusOK,
		Efficiency:     efficiency,
		AvgOutputPower: stat.Mean(power, nil),
		MaxOutputPower: floats.Max(power),
		OutputEnergy:   outputEnergy,
		InputEnergy:    inputEnergy,
		Duration:       duration,
		Plot:           PlotData{Time: s.Time, Current: s.Current, Power: power},
	}
}

// Theoretical computes the instantaneous-power efficiency of one run: AIN6
// carries the output current, AIN7 the input current, and both power series
// are integrated over the intersection of valid samples. The input power is
// DriveV times the input current at each sample.
func Theoretical(t *sample.Table, p Params) Result {
	if t == nil || t.Cols() < 8 {
		return Result{Status: StatusNoData}
	}

	out, in := t.DecodePair(sample.AIN6, sample.AIN7, p.calibration())
	if out.Empty() {
		return Result{Status: StatusNoData}
	}
	if out.Len() < 2 {
		return Result{Status: StatusTooFewSamples}
	}

	outPower := make([]float64, out.Len())
	inPower := make([]float64, in.Len())
	for i := range out.Current {
		outPower[i] = out.Current[i] * out.Current[i] * p.RLoad
		inPower[i] = p.DriveV * in.Current[i]
	}

	outputEnergy := integrate.Trapezoidal(out.Time, outPower)
	inputEnergy := integrate.Trapezoidal(out.Time, inPower)

	efficiency := 0.0
	if inputEnergy > 0 {
		efficiency = outputEnergy / inputEnergy
	}

	return Result{
		Status:         StatusOK,
		Efficiency:     efficiency,
		AvgOutputPower: stat.Mean(outPower, nil),
		MaxOutputPower: floats.Max(outPower),
		OutputEnergy:   outputEnergy,
		InputEnergy:    inputEnergy,
		Duration:       float64(out.Len()) / p.SamplingFreq,
		Plot:           PlotData{Time: out.Time, Current: out.Current, Power: outPower},
		InputCurrent:   in.Current,
		InputPower:     inPower,
	}
}
