// Package lfo implements the low-frequency modulation engine.
//
// One evaluator serves every modulation target; only the apply-and-clamp
// formula differs per target. The engine never mutates the parameters it
// modulates: consuming sites sample the offset per sample index and apply
// the documented clamp themselves via Apply.
package lfo

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/osc"
)

// Target names a modulatable parameter.
type Target int

const (
	// TargetPitch offsets oscillator pitch in semitones.
	TargetPitch Target = iota
	// TargetVolume offsets linear layer gain.
	TargetVolume
	// TargetFilterCutoff offsets filter cutoff in Hz.
	TargetFilterCutoff
	// TargetPan offsets stereo position.
	TargetPan
	// TargetPulseWidth offsets pulse oscillator duty.
	TargetPulseWidth
	// TargetFMIndex offsets the FM modulation index.
	TargetFMIndex
	// TargetGrainSize offsets granular grain size in milliseconds.
	TargetGrainSize
	// TargetGrainDensity offsets granular grain density in grains/second.
	TargetGrainDensity
	// TargetDelayTime offsets effect delay time in milliseconds (post chain only).
	TargetDelayTime
	// TargetReverbSize offsets reverb room size (post chain only).
	TargetReverbSize
	// TargetDistortionDrive offsets waveshaper drive (post chain only).
	TargetDistortionDrive
)

func validTarget(t Target) bool {
	return t >= TargetPitch && t <= TargetDistortionDrive
}

// PostChainOnly reports whether the target belongs to the effects chain
// rather than to layer synthesis.
func (t Target) PostChainOnly() bool {
	switch t {
	case TargetDelayTime, TargetReverbSize, TargetDistortionDrive:
		return true
	default:
		return false
	}
}

// Modulation is one LFO routing: a periodic waveform scaled by amount and
// depth, aimed at a single target.
type Modulation struct {
	Waveform osc.Waveform
	RateHz   float64
	Depth    float64 // [0, 1]
	Phase    float64 // offset in cycles
	Target   Target
	Amount   float64 // target-specific unit
}

// Validate checks the modulation parameters against their documented ranges.
func (m Modulation) Validate() error {
	if m.RateHz <= 0 || !core.IsFinite(m.RateHz) {
		return core.Paramf("lfo.rate", "must be > 0 and finite: %f", m.RateHz)
	}

	if m.Depth < 0 || m.Depth > 1 || !core.IsFinite(m.Depth) {
		return core.Paramf("lfo.depth", "must be in [0, 1]: %f", m.Depth)
	}

	if !core.IsFinite(m.Phase) {
		return core.Paramf("lfo.phase", "must be finite: %f", m.Phase)
	}

	if !core.IsFinite(m.Amount) {
		return core.Paramf("lfo.amount", "must be finite: %f", m.Amount)
	}

	if !validTarget(m.Target) {
		return core.Paramf("lfo.target", "unknown target: %d", int(m.Target))
	}

	return nil
}

// Value evaluates the raw LFO waveform in [-1, 1] at sample index i:
// phase = rate*t + offset (mod 1).
func (m Modulation) Value(i int, sampleRate float64) float64 {
	t := float64(i) / sampleRate
	phase := m.RateHz*t + m.Phase

	return osc.Sample(m.Waveform, phase, 0.5)
}

// Offset returns the scaled modulation offset at sample index i:
// lfo(i) * amount * depth, in the target's unit.
func (m Modulation) Offset(i int, sampleRate float64) float64 {
	return m.Value(i, sampleRate) * m.Amount * m.Depth
}

// Apply combines a base parameter value with a modulation offset and clamps
// the result to the target's documented range.
func Apply(target Target, base, offset float64) float64 {
	v := base + offset

	switch target {
	case TargetPitch:
		// Semitone offsets are resolved to Hz by the caller; the summed
		// semitone value itself is unclamped apart from finiteness.
		return v
	case TargetVolume:
		return core.Clamp(v, 0, 1)
	case TargetFilterCutoff:
		return core.Clamp(v, 20, 20000)
	case TargetPan:
		return core.Clamp(v, -1, 1)
	case TargetPulseWidth:
		return core.Clamp(v, 0.01, 0.99)
	case TargetFMIndex:
		if v < 0 {
			return 0
		}

		return v
	case TargetGrainSize:
		return core.Clamp(v, 1, 1000)
	case TargetGrainDensity:
		return core.Clamp(v, 1, 1000)
	case TargetDelayTime:
		return core.Clamp(v, 1, 2000)
	case TargetReverbSize:
		return core.Clamp(v, 0, 1)
	case TargetDistortionDrive:
		return core.Clamp(v, 0.1, 100)
	default:
		return base
	}
}

// PitchHz converts a base frequency plus a semitone offset into Hz, clamped
// to the audible band.
func PitchHz(baseHz, semitoneOffset float64) float64 {
	return core.Clamp(baseHz*math.Exp2(semitoneOffset/12), 0.01, 20000)
}
