// Package config declares the experiment configuration for factor
// exploration and dual-motor calibration sweeps: which physical factor is
// swept, its fixed companions, the per-level variable values, and the global
// calibration constants. The same JSON record is used for saved
// configurations and for driving a batch run.
package config

import (
	"fmt"

	"github.com/banshee-data/efficiency.report/internal/units"
)

// ExplorationType names the physical factor a sweep varies.
type ExplorationType string

const (
	ExplorationVoltage          ExplorationType = "voltage"
	ExplorationResistance       ExplorationType = "resistance"
	ExplorationMagneticDistance ExplorationType = "magnetic_distance"
)

// Valid reports whether t is a known exploration type.
func (t ExplorationType) Valid() bool {
	switch t {
	case ExplorationVoltage, ExplorationResistance, ExplorationMagneticDistance:
		return true
	}
	return false
}

// FactorKey returns the parameter key holding the swept quantity.
func (t ExplorationType) FactorKey() string {
	switch t {
	case ExplorationVoltage:
		return ParamDriveV
	case ExplorationResistance:
		return ParamRLoad
	case ExplorationMagneticDistance:
		return ParamMagneticDistance
	default:
		return ""
	}
}

// FactorLabel returns the table/chart label for the swept quantity.
func (t ExplorationType) FactorLabel() string {
	switch t {
	case ExplorationVoltage:
		return "Drive Voltage (" + units.Volts + ")"
	case ExplorationResistance:
		return "Load Resistance (" + units.Ohms + ")"
	case ExplorationMagneticDistance:
		return "Magnet Distance (" + units.Millimetres + ")"
	default:
		return "Factor"
	}
}

// Parameter keys shared between configuration records and resolved per-level
// parameter sets.
const (
	ParamReferenceV       = "reference_v"
	ParamInitialV         = "initial_v"
	ParamSamplingFreq     = "sampling_freq"
	ParamRLoad            = "r_load"
	ParamDriveV           = "drive_v"
	ParamPowerInput       = "power_input"
	ParamMagneticDistance = "magnetic_distance"
)

// Default common calibration values for a fresh configuration.
const (
	DefaultReferenceV   = 1.0
	DefaultInitialV     = 0.0
	DefaultSamplingFreq = 87500.0
)

// VoltageLevel is one drive-voltage sweep level.
type VoltageLevel struct {
	DriveV     float64
	PowerInput float64
}

// ResistanceLevel is one load-resistance sweep level.
type ResistanceLevel struct {
	RLoad      float64
	PowerInput float64
}

// DistanceLevel is one magnet-distance sweep level.
type DistanceLevel struct {
	Distance   float64
	PowerInput float64
}

// ExperimentConfig is the pure data object behind a sweep. It is constructed
// before a batch run, optionally persisted, and read level-by-level by the
// batch analyzer; it is never mutated during a run.
type ExperimentConfig struct {
	ExplorationType ExplorationType
	FixedParams     map[string]float64
	VariableParams  []map[string]float64
	CommonParams    map[string]float64

	// FactorMode marks a factor-exploration sweep, where a single
	// acquisition file serves as both polarities of the dual-motor
	// pipeline.
	FactorMode bool
}

// NewExperimentConfig returns a configuration seeded with the default common
// calibration values.
func NewExperimentConfig(factorMode bool) *ExperimentConfig {
	return &ExperimentConfig{
		FixedParams: map[string]float64{},
		CommonParams: map[string]float64{
			ParamReferenceV:   DefaultReferenceV,
			ParamInitialV:     DefaultInitialV,
			ParamSamplingFreq: DefaultSamplingFreq,
		},
		FactorMode: factorMode,
	}
}

// ConfigureVoltageExploration declares a drive-voltage sweep. When
// rLoadFixed > 0 it is pinned as a fixed parameter; otherwise the load
// resistance must come from the common parameters.
func (c *ExperimentConfig) ConfigureVoltageExploration(levels []VoltageLevel, rLoadFixed float64) {
	c.ExplorationType = ExplorationVoltage
	c.FixedParams = map[string]float64{}
	if rLoadFixed > 0 {
		c.FixedParams[ParamRLoad] = rLoadFixed
	}
	c.VariableParams = make([]map[string]float64, 0, len(levels))
	for _, l := range levels {
		c.VariableParams = append(c.VariableParams, map[string]float64{
			ParamDriveV:     l.DriveV,
			ParamPowerInput: l.PowerInput,
		})
	}
}

// ConfigureResistanceExploration declares a load-resistance sweep with a
// fixed drive voltage. Input power varies with the level.
func (c *ExperimentConfig) ConfigureResistanceExploration(levels []ResistanceLevel, driveVFixed float64) {
	c.ExplorationType = ExplorationResistance
	c.FixedParams = map[string]float64{ParamDriveV: driveVFixed}
	c.VariableParams = make([]map[string]float64, 0, len(levels))
	for _, l := range levels {
		c.VariableParams = append(c.VariableParams, map[string]float64{
			ParamRLoad:      l.RLoad,
			ParamPowerInput: l.PowerInput,
		})
	}
}

// ConfigureMagneticDistanceExploration declares a magnet-distance sweep with
// a fixed drive voltage and, when rLoadFixed > 0, a fixed load resistance.
func (c *ExperimentConfig) ConfigureMagneticDistanceExploration(levels []DistanceLevel, driveVFixed, rLoadFixed float64) {
	c.ExplorationType = ExplorationMagneticDistance
	c.FixedParams = map[string]float64{ParamDriveV: driveVFixed}
	if rLoadFixed > 0 {
		c.FixedParams[ParamRLoad] = rLoadFixed
	}
	c.VariableParams = make([]map[string]float64, 0, len(levels))
	for _, l := range levels {
		c.VariableParams = append(c.VariableParams, map[string]float64{
			ParamMagneticDistance: l.Distance,
			ParamPowerInput:       l.PowerInput,
		})
	}
}

// Levels returns the number of experiment levels.
func (c *ExperimentConfig) Levels() int { return len(c.VariableParams) }

// ExperimentParams resolves the full parameter set for level index i by
// layering common, then fixed, then per-level variable parameters; later
// layers win on key collision.
func (c *ExperimentConfig) ExperimentParams(i int) (map[string]float64, error) {
	if i < 0 || i >= len(c.VariableParams) {
		return nil, fmt.Errorf("experiment level %d out of range (have %d levels)", i, len(c.VariableParams))
	}

	params := make(map[string]float64, len(c.CommonParams)+len(c.FixedParams)+len(c.VariableParams[i]))
	for k, v := range c.CommonParams {
		params[k] = v
	}
	for k, v := range c.FixedParams {
		params[k] = v
	}
	for k, v := range c.VariableParams[i] {
		params[k] = v
	}
	return params, nil
}

// Validate checks that the configuration can drive a sweep: a known
// exploration type, at least one level, the required common calibration
// parameters, and a load resistance somewhere in scope for non-resistance
// sweeps.
func (c *ExperimentConfig) Validate() error {
	if !c.ExplorationType.Valid() {
		return fmt.Errorf("unknown exploration type %q", c.ExplorationType)
	}
	if len(c.VariableParams) == 0 {
		return fmt.Errorf("configuration has no experiment levels")
	}
	for _, key := range []string{ParamReferenceV, ParamInitialV, ParamSamplingFreq} {
		if _, ok := c.CommonParams[key]; !ok {
			return fmt.Errorf("missing required common parameter %q", key)
		}
	}
	if f := c.CommonParams[ParamSamplingFreq]; f <= 0 {
		return fmt.Errorf("sampling_freq must be positive, got %v", f)
	}
	if c.ExplorationType != ExplorationResistance {
		_, inCommon := c.CommonParams[ParamRLoad]
		_, inFixed := c.FixedParams[ParamRLoad]
		if !inCommon && !inFixed {
			return fmt.Errorf("missing required parameter %q for %s sweep", ParamRLoad, c.ExplorationType)
		}
	}
	return nil
}
