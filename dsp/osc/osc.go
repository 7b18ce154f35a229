// Package osc provides the deterministic oscillator and noise generators.
//
// Oscillators are phase-accumulated pure functions with no hidden state:
// identical calls produce bit-identical buffers. Noise consumes an injected
// rng.Stream so all randomness is seed-derived.
package osc

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	// WaveformSine is a pure sine.
	WaveformSine Waveform = iota
	// WaveformSquare is a 50% duty square.
	WaveformSquare
	// WaveformSaw is a rising sawtooth.
	WaveformSaw
	// WaveformTriangle is a symmetric triangle.
	WaveformTriangle
	// WaveformPulse is a rectangular pulse with adjustable duty cycle.
	WaveformPulse
)

const (
	minPulseDuty = 0.01
	maxPulseDuty = 0.99
)

func validWaveform(w Waveform) bool {
	return w >= WaveformSine && w <= WaveformPulse
}

// ValidWaveform reports whether w names a known waveform.
func ValidWaveform(w Waveform) bool { return validWaveform(w) }

// Sample evaluates one waveform at a normalized phase in [0, 1).
// duty is only consulted for WaveformPulse and is clamped to [0.01, 0.99].
func Sample(w Waveform, phase, duty float64) float64 {
	phase -= math.Floor(phase)

	switch w {
	case WaveformSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveformSquare:
		if phase < 0.5 {
			return 1
		}

		return -1
	case WaveformSaw:
		return 2*phase - 1
	case WaveformTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveformPulse:
		if phase < core.Clamp(duty, minPulseDuty, maxPulseDuty) {
			return 1
		}

		return -1
	default:
		return 0
	}
}

// Render fills a new buffer with a fixed-frequency oscillator.
func Render(w Waveform, freqHz, duty, sampleRate float64, samples int) ([]float64, error) {
	if !validWaveform(w) {
		return nil, core.Paramf("osc.waveform", "unknown waveform: %d", int(w))
	}

	if samples <= 0 {
		return nil, core.Paramf("osc.samples", "must be > 0: %d", samples)
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.Paramf("osc.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	if freqHz <= 0 || !core.IsFinite(freqHz) {
		return nil, core.Paramf("osc.frequency", "must be > 0 and finite: %f", freqHz)
	}

	if w == WaveformPulse && (duty < minPulseDuty || duty > maxPulseDuty || !core.IsFinite(duty)) {
		return nil, core.Paramf("osc.duty", "must be in [%g, %g]: %f", minPulseDuty, maxPulseDuty, duty)
	}

	out := make([]float64, samples)
	step := freqHz / sampleRate
	phase := 0.0

	for i := range out {
		out[i] = Sample(w, phase, duty)

		phase += step
		if phase >= 1 {
			phase -= math.Floor(phase)
		}
	}

	return out, nil
}

// RenderCurve fills a new buffer with per-sample frequency and duty curves.
// freqCurve must have one entry per output sample; dutyCurve may be nil for
// a fixed 50% duty. The phase accumulator integrates the instantaneous
// frequency so pitch sweeps and LFO vibrato stay continuous.
func RenderCurve(w Waveform, freqCurve, dutyCurve []float64, sampleRate float64) ([]float64, error) {
	if !validWaveform(w) {
		return nil, core.Paramf("osc.waveform", "unknown waveform: %d", int(w))
	}

	if len(freqCurve) == 0 {
		return nil, core.Paramf("osc.freqCurve", "must not be empty")
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.Paramf("osc.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	if dutyCurve != nil && len(dutyCurve) != len(freqCurve) {
		return nil, core.Synthf("duty curve length %d does not match frequency curve length %d",
			len(dutyCurve), len(freqCurve))
	}

	out := make([]float64, len(freqCurve))
	phase := 0.0

	for i := range out {
		duty := 0.5
		if dutyCurve != nil {
			duty = dutyCurve[i]
		}

		out[i] = Sample(w, phase, duty)

		phase += freqCurve[i] / sampleRate
		if phase >= 1 {
			phase -= math.Floor(phase)
		}
	}

	return out, nil
}
