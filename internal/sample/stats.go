package sample

import "math"

// ChannelStats summarises the raw voltages seen on one channel. All fields
// are NaN when the channel is absent or never parsed.
type ChannelStats struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
}

func nanStats() ChannelStats {
	return ChannelStats{Max: math.NaN(), Min: math.NaN(), Avg: math.NaN()}
}

// Stats computes max/min/avg of the raw values on ch, ignoring unparseable
// cells.
func (t *Table) Stats(ch Channel) ChannelStats {
	if !t.HasChannel(ch) {
		return nanStats()
	}

	col := int(ch)
	var (
		sum   float64
		count int
		max   = math.Inf(-1)
		min   = math.Inf(1)
	)
	for k := 0; k < t.Len(); k++ {
		v := t.cell(k, col)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	if count == 0 {
		return nanStats()
	}
	return ChannelStats{Max: max, Min: min, Avg: sum / float64(count)}
}

// AllStats returns raw-voltage statistics for every channel position,
// keyed "AIN1".."AIN8". Channels the table does not carry get NaN stats so
// reports can render a fixed-width channel summary.
func (t *Table) AllStats() map[string]ChannelStats {
	out := make(map[string]ChannelStats, NumChannels)
	for ch := AIN1; ch <= AIN8; ch++ {
		out[ch.String()] = t.Stats(ch)
	}
	return out
}
