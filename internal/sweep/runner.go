// Package sweep drives batches of efficiency experiments across the levels
// of an experiment configuration, collects per-level results in level order,
// and derives sweep-level trend statistics and a tabular comparison
// artifact.
package sweep

import (
	"errors"
	"fmt"

	"github.com/banshee-data/efficiency.report/internal/config"
	"github.com/banshee-data/efficiency.report/internal/engine"
	"github.com/banshee-data/efficiency.report/internal/monitoring"
	"github.com/banshee-data/efficiency.report/internal/sample"
)

// Status represents the current state of a batch run.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// ErrNoResults reports a batch in which every level was skipped or failed.
var ErrNoResults = errors.New("no experiment level produced a result")

// Entry is one completed experiment level, appended in level order.
type Entry struct {
	Index       int                `json:"index"` // 1-based level number
	Params      map[string]float64 `json:"params"`
	FactorValue float64            `json:"factor_value"`

	Efficiency     float64          `json:"efficiency"`
	AvgOutputPower float64          `json:"avg_output_power"`
	MaxOutputPower float64          `json:"max_output_power"`
	DataStatus     engine.Status    `json:"data_status"`
	Plot           engine.PlotData  `json:"plot"`

	// Unified carries the full dual-motor result; nil in factor mode.
	Unified *engine.UnifiedResult `json:"unified,omitempty"`
}

// RunOptions selects the acquisition files for a batch. Patterns are
// printf-style with one %d verb that receives the 1-based level index.
type RunOptions struct {
	ZhengPattern string
	FanPattern   string // required unless the configuration is in factor mode
	MaxRows      int    // truncate each table to its first MaxRows rows; 0 keeps all
}

// Runner executes one batch over an experiment configuration. The
// configuration is read-only for the duration of the run.
type Runner struct {
	cfg     *config.ExperimentConfig
	status  Status
	entries []Entry
	skipped int
}

// NewRunner creates an idle runner for cfg.
func NewRunner(cfg *config.ExperimentConfig) *Runner {
	return &Runner{cfg: cfg, status: StatusIdle}
}

// Status returns the runner's current state.
func (r *Runner) Status() Status { return r.status }

// Entries returns the completed levels in level index order.
func (r *Runner) Entries() []Entry { return r.entries }

// Skipped returns the number of levels dropped for missing or malformed
// files.
func (r *Runner) Skipped() int { return r.skipped }

// Config returns the configuration the runner was built with.
func (r *Runner) Config() *config.ExperimentConfig { return r.cfg }

// Run processes every configured level. Missing or malformed files skip
// their level; configuration errors abort the batch. The batch fails only
// when no level at all produced a result.
func (r *Runner) Run(opts RunOptions) error {
	if err := r.cfg.Validate(); err != nil {
		r.status = StatusError
		return fmt.Errorf("invalid experiment configuration: %w", err)
	}
	if !r.cfg.FactorMode && opts.FanPattern == "" {
		r.status = StatusError
		return fmt.Errorf("dual-motor mode requires a reverse-run file pattern")
	}

	r.status = StatusRunning
	r.entries = nil
	r.skipped = 0

	for i := 0; i < r.cfg.Levels(); i++ {
		params, err := r.cfg.ExperimentParams(i)
		if err != nil {
			r.status = StatusError
			return err
		}

		zhengPath := fmt.Sprintf(opts.ZhengPattern, i+1)
		zheng, err := sample.LoadTable(zhengPath, opts.MaxRows)
		if err != nil {
			monitoring.Logf("sweep: skipping level %d: %v", i+1, err)
			r.skipped++
			continue
		}

		fan := zheng
		if !r.cfg.FactorMode {
			fanPath := fmt.Sprintf(opts.FanPattern, i+1)
			fan, err = sample.LoadTable(fanPath, opts.MaxRows)
			if err != nil {
				monitoring.Logf("sweep: skipping level %d: %v", i+1, err)
				r.skipped++
				continue
			}
		}

		unified := engine.Unified(zheng, fan, engineParams(params))
		r.entries = append(r.entries, r.makeEntry(i, params, unified))
	}

	if len(r.entries) == 0 {
		r.status = StatusError
		return ErrNoResults
	}
	r.status = StatusComplete
	return nil
}

func engineParams(params map[string]float64) engine.Params {
	return engine.Params{
		ReferenceV:   params[config.ParamReferenceV],
		InitialV:     params[config.ParamInitialV],
		RLoad:        params[config.ParamRLoad],
		SamplingFreq: params[config.ParamSamplingFreq],
		PowerInput:   params[config.ParamPowerInput],
		DriveV:       params[config.ParamDriveV],
	}
}

func (r *Runner) makeEntry(i int, params map[string]float64, unified engine.UnifiedResult) Entry {
	entry := Entry{
		Index:       i + 1,
		Params:      params,
		FactorValue: params[r.cfg.ExplorationType.FactorKey()],
	}

	if r.cfg.FactorMode {
		// A single measurement self-combined: report the verification
		// finished efficiency and the forward run's output-side numbers.
		zheng := unified.Verification.Zheng
		entry.Efficiency = unified.Verification.Combined
		entry.AvgOutputPower = zheng.AvgOutputPower
		entry.MaxOutputPower = zheng.MaxOutputPower
		entry.DataStatus = zheng.Status
		entry.Plot = zheng.Plot
		return entry
	}

	u := unified
	entry.Unified = &u
	entry.Efficiency = unified.Verification.Combined
	entry.AvgOutputPower = unified.Verification.Zheng.AvgOutputPower
	entry.MaxOutputPower = unified.Verification.Zheng.MaxOutputPower
	entry.DataStatus = worstStatus(
		unified.Verification.Zheng.Status,
		unified.Verification.Fan.Status,
	)
	entry.Plot = unified.Verification.Zheng.Plot
	return entry
}

// worstStatus picks the more degraded of two run statuses so the comparison
// table can flag levels whose zero efficiency came from a failed
// computation rather than a genuinely idle device.
func worstStatus(a, b engine.Status) engine.Status {
	if b > a {
		return b
	}
	return a
}
