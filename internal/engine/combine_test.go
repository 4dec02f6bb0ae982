package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	t.Run("geometric mean", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 2.0, Combine(1, 4), 1e-12)
		assert.InDelta(t, 0.6, Combine(0.4, 0.9), 1e-12)
	})

	t.Run("commutative", func(t *testing.T) {
		t.Parallel()
		pairs := [][2]float64{{0.3, 0.7}, {0, 5}, {-2, 3}, {1.5, 1.5}}
		for _, p := range pairs {
			assert.Equal(t, Combine(p[0], p[1]), Combine(p[1], p[0]))
		}
	})

	t.Run("idempotent for non-negative input", func(t *testing.T) {
		t.Parallel()
		for _, v := range []float64{0, 0.25, 1, 3.5} {
			assert.InDelta(t, v, Combine(v, v), 1e-12)
		}
	})

	t.Run("clamps negative inputs to zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Combine(0, 4), Combine(-1, 4))
		assert.Equal(t, 0.0, Combine(-1, 4))
		assert.Equal(t, 0.0, Combine(-2, -3))
	})
}

func TestUnified(t *testing.T) {
	t.Parallel()

	t.Run("self-combination reproduces the single run", func(t *testing.T) {
		t.Parallel()
		// Factor-exploration mode: the same table serves as both polarities.
		tbl := tableFromRows(t, nineColRows(10, "2.705", "2.890")...)
		res := Unified(tbl, tbl, testParams)

		require.Equal(t, StatusOK, res.Verification.Zheng.Status)
		assert.Equal(t, res.Verification.Zheng.Efficiency, res.Verification.Fan.Efficiency)
		// Combining a run with itself is the identity for non-negative input.
		assert.InDelta(t, res.Verification.Zheng.Efficiency, res.Verification.Combined, 1e-12)
	})

	t.Run("theoretical branch applies the square-root law", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromRows(t, nineColRows(10, "2.705", "2.890")...)

		raw := Theoretical(tbl, testParams).Efficiency
		require.Greater(t, raw, 0.0)

		res := Unified(tbl, tbl, testParams)
		// Exposed per-polarity value is sqrt of the raw combo efficiency.
		assert.InDelta(t, math.Sqrt(raw), res.Theoretical.Zheng.Efficiency, 1e-12)
		assert.InDelta(t, math.Sqrt(raw), res.Theoretical.Fan.Efficiency, 1e-12)
		// Self-combination is again the identity.
		assert.InDelta(t, math.Sqrt(raw), res.Theoretical.Combined, 1e-12)
	})

	t.Run("comparison deltas are absolute differences", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromRows(t, nineColRows(10, "2.705", "2.890")...)
		res := Unified(tbl, tbl, testParams)

		wantZheng := math.Abs(res.Theoretical.Zheng.Efficiency - res.Verification.Zheng.Efficiency)
		assert.InDelta(t, wantZheng, res.Comparison.ZhengDiff, 1e-12)
		wantCombined := math.Abs(res.Theoretical.Combined - res.Verification.Combined)
		assert.InDelta(t, wantCombined, res.Comparison.CombinedDiff, 1e-12)
	})

	t.Run("missing reverse run degrades to zero, not failure", func(t *testing.T) {
		t.Parallel()
		zheng := tableFromRows(t, nineColRows(10, "2.705", "2.890")...)
		fan := tableFromRows(t, constantRows(10, "bad")...) // no decodable current
		res := Unified(zheng, fan, testParams)

		assert.Equal(t, StatusNoData, res.Verification.Fan.Status)
		assert.Equal(t, 0.0, res.Verification.Fan.Efficiency)
		// The combined efficiency is dragged to zero but still defined.
		assert.Equal(t, 0.0, res.Verification.Combined)
		assert.Equal(t, StatusOK, res.Verification.Zheng.Status)
	})

	t.Run("channel stats cover all eight channels", func(t *testing.T) {
		t.Parallel()
		tbl := tableFromRows(t, nineColRows(5, "2.705", "2.890")...)
		res := Unified(tbl, tbl, testParams)
		require.Len(t, res.ZhengStats, 8)
		assert.InDelta(t, 2.705, res.ZhengStats["AIN6"].Avg, 1e-12)
		assert.InDelta(t, 2.890, res.FanStats["AIN7"].Max, 1e-12)
	})
}
