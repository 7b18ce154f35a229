package osc

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// SweepCurve selects the interpolation law for frequency/cutoff sweeps.
type SweepCurve int

const (
	// SweepLinear interpolates linearly between start and end.
	SweepLinear SweepCurve = iota
	// SweepExponential interpolates geometrically; both endpoints must be > 0.
	SweepExponential
	// SweepLogarithmic rises quickly first and flattens toward the end.
	SweepLogarithmic
)

func validSweepCurve(c SweepCurve) bool {
	return c >= SweepLinear && c <= SweepLogarithmic
}

// Sweep precomputes a per-sample interpolation curve from start to end over
// the given number of samples. The final sample lands exactly on end.
func Sweep(start, end float64, curve SweepCurve, samples int) ([]float64, error) {
	if !validSweepCurve(curve) {
		return nil, core.Paramf("sweep.curve", "unknown sweep curve: %d", int(curve))
	}

	if samples <= 0 {
		return nil, core.Paramf("sweep.samples", "must be > 0: %d", samples)
	}

	if !core.IsFinite(start) || !core.IsFinite(end) {
		return nil, core.Paramf("sweep.range", "endpoints must be finite: start=%f end=%f", start, end)
	}

	if curve == SweepExponential && (start <= 0 || end <= 0) {
		return nil, core.Paramf("sweep.range",
			"exponential sweep endpoints must be > 0: start=%f end=%f", start, end)
	}

	out := make([]float64, samples)
	if samples == 1 {
		out[0] = start

		return out, nil
	}

	ratio := end / start
	span := float64(samples - 1)

	for i := range out {
		t := float64(i) / span

		switch curve {
		case SweepLinear:
			out[i] = start + (end-start)*t
		case SweepExponential:
			out[i] = start * math.Pow(ratio, t)
		case SweepLogarithmic:
			out[i] = start + (end-start)*math.Log1p(9*t)/math.Ln10
		}
	}

	return out, nil
}

// Constant returns a curve pinned to a single value, for sites that always
// consume a per-sample curve.
func Constant(value float64, samples int) []float64 {
	out := make([]float64, samples)
	for i := range out {
		out[i] = value
	}

	return out
}
