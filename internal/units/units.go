// Package units provides shared constants and conversions for the electrical
// quantities handled by the efficiency pipeline.
package units

// Unit labels used in table headers and chart axes.
const (
	Volts       = "V"
	Amps        = "A"
	Watts       = "W"
	Joules      = "J"
	Ohms        = "Ohm"
	Millimetres = "mm"
	Seconds     = "s"
)

// VoltsToAmps converts a raw acquisition voltage to a current using the
// shunt calibration: referenceV is the volts-per-amp scale factor and
// initialV the zero-current offset voltage.
func VoltsToAmps(raw, referenceV, initialV float64) float64 {
	return (raw - initialV) / referenceV
}

// RatioToPercent converts a unitless efficiency ratio to a percentage.
func RatioToPercent(ratio float64) float64 {
	return ratio * 100
}

// PercentToRatio converts a percentage back to a unitless ratio.
func PercentToRatio(pct float64) float64 {
	return pct / 100
}
