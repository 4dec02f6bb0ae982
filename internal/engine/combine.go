package engine

import (
	"math"

	"github.com/banshee-data/efficiency.report/internal/sample"
)

// Combine merges the forward ("zheng") and reverse ("fan") efficiencies of a
// cross-driven motor pair into the single-device efficiency. With two
// nominally identical machines each combination measures the square of the
// single-device efficiency, so the device value is the geometric mean across
// the two drive directions. Negative inputs are clamped to zero first.
func Combine(zheng, fan float64) float64 {
	return math.Sqrt(math.Max(0, zheng) * math.Max(0, fan))
}

// MethodResult groups one methodology's per-polarity results with the
// combined single-device efficiency.
type MethodResult struct {
	Zheng    Result  `json:"zheng"`
	Fan      Result  `json:"fan"`
	Combined float64 `json:"combined"`
}

// Comparison holds the absolute differences between the theoretical and
// verification efficiencies.
type Comparison struct {
	ZhengDiff    float64 `json:"zheng_diff"`
	FanDiff      float64 `json:"fan_diff"`
	CombinedDiff float64 `json:"combined_diff"`
}

// UnifiedResult is the full dual-polarity, dual-methodology outcome for one
// experiment level.
type UnifiedResult struct {
	Verification MethodResult `json:"verification"`
	Theoretical  MethodResult `json:"theoretical"`
	Comparison   Comparison   `json:"comparison"`

	// Raw-voltage channel summaries per polarity, keyed "AIN1".."AIN8".
	ZhengStats map[string]sample.ChannelStats `json:"zheng_stats,omitempty"`
	FanStats   map[string]sample.ChannelStats `json:"fan_stats,omitempty"`
}

// Unified runs both methodologies over the forward and reverse tables and
// combines them. In factor-exploration mode callers pass the same table for
// both polarities, which self-combines a single measurement.
//
// The theoretical branch carries an extra square-root stage: each polarity's
// raw combo efficiency is first mapped to a percent-scaled single-device
// value (sqrt of the raw ratio), and the finished efficiency is the
// geometric mean of those, a fourth-root of the raw product. The exposed
// per-polarity theoretical efficiencies are the post-processed values.
func Unified(zheng, fan *sample.Table, p Params) UnifiedResult {
	r := UnifiedResult{
		Verification: MethodResult{
			Zheng: Verification(zheng, p),
			Fan:   Verification(fan, p),
		},
		Theoretical: MethodResult{
			Zheng: Theoretical(zheng, p),
			Fan:   Theoretical(fan, p),
		},
	}
	if zheng != nil {
		r.ZhengStats = zheng.AllStats()
	}
	if fan != nil {
		r.FanStats = fan.AllStats()
	}

	r.Verification.Combined = Combine(r.Verification.Zheng.Efficiency, r.Verification.Fan.Efficiency)

	zhengPct := math.Sqrt(math.Max(0, r.Theoretical.Zheng.Efficiency)) * 100
	fanPct := math.Sqrt(math.Max(0, r.Theoretical.Fan.Efficiency)) * 100
	r.Theoretical.Combined = math.Sqrt(zhengPct * fanPct / 10000)
	r.Theoretical.Zheng.Efficiency = zhengPct / 100
	r.Theoretical.Fan.Efficiency = fanPct / 100

	r.Comparison = Comparison{
		ZhengDiff:    math.Abs(r.Theoretical.Zheng.Efficiency - r.Verification.Zheng.Efficiency),
		FanDiff:      math.Abs(r.Theoretical.Fan.Efficiency - r.Verification.Fan.Efficiency),
		CombinedDiff: math.Abs(r.Theoretical.Combined - r.Verification.Combined),
	}
	return r
}
