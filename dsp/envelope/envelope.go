// Package envelope implements the stateless ADSR amplitude envelope.
//
// The envelope is a pure function of the sample index: no per-call state
// survives between samples, which keeps rendering reproducible and lets the
// same shape be evaluated from multiple goroutines.
package envelope

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/speccade/audiogen/dsp/core"
)

// ADSR describes attack/decay/release durations in seconds and the sustain
// level in [0, 1].
type ADSR struct {
	AttackSeconds  float64
	DecaySeconds   float64
	SustainLevel   float64
	ReleaseSeconds float64
}

// Validate checks the envelope parameters against their documented ranges.
func (e ADSR) Validate() error {
	if e.AttackSeconds < 0 || !core.IsFinite(e.AttackSeconds) {
		return core.Paramf("envelope.attack", "must be >= 0 and finite: %f", e.AttackSeconds)
	}

	if e.DecaySeconds < 0 || !core.IsFinite(e.DecaySeconds) {
		return core.Paramf("envelope.decay", "must be >= 0 and finite: %f", e.DecaySeconds)
	}

	if e.ReleaseSeconds < 0 || !core.IsFinite(e.ReleaseSeconds) {
		return core.Paramf("envelope.release", "must be >= 0 and finite: %f", e.ReleaseSeconds)
	}

	if e.SustainLevel < 0 || e.SustainLevel > 1 || !core.IsFinite(e.SustainLevel) {
		return core.Paramf("envelope.sustain", "must be in [0, 1]: %f", e.SustainLevel)
	}

	return nil
}

// Shape fixes an ADSR to a concrete buffer length and sample rate so the
// per-sample gain can be evaluated without recomputing phase boundaries.
type Shape struct {
	attackSamples  int
	decaySamples   int
	releaseSamples int
	releaseStart   int
	total          int
	sustain        float64
}

// Shape resolves the envelope against a buffer of total samples.
//
// Phase boundaries follow the fixed contract: attack ramps 0..1 over
// attack_samples; decay ramps 1..sustain; sustain plateaus; release ramps
// sustain..0 over the trailing release_samples, anchored at
// total-release_samples and saturating at 0 for buffers shorter than the
// release. A zero attack starts playback already at gain 1 entering decay;
// a zero decay enters sustain immediately after the attack.
func (e ADSR) Shape(total int, sampleRate float64) (Shape, error) {
	if err := e.Validate(); err != nil {
		return Shape{}, err
	}

	if total < 0 {
		return Shape{}, core.Paramf("envelope.total", "must be >= 0: %d", total)
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Shape{}, core.Paramf("envelope.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	s := Shape{
		attackSamples:  int(e.AttackSeconds * sampleRate),
		decaySamples:   int(e.DecaySeconds * sampleRate),
		releaseSamples: int(e.ReleaseSeconds * sampleRate),
		total:          total,
		sustain:        e.SustainLevel,
	}

	s.releaseStart = total - s.releaseSamples
	if s.releaseStart < 0 {
		s.releaseStart = 0
	}

	return s, nil
}

// Gain returns the envelope gain at sample index i, always in [0, 1].
func (s Shape) Gain(i int) float64 {
	if i < 0 || i >= s.total {
		return 0
	}

	if s.releaseSamples > 0 && i >= s.releaseStart {
		progress := float64(i-s.releaseStart) / float64(s.releaseSamples)

		return core.Clamp(s.sustain*(1-progress), 0, 1)
	}

	if i < s.attackSamples {
		return core.Clamp(float64(i)/float64(s.attackSamples), 0, 1)
	}

	if i < s.attackSamples+s.decaySamples {
		progress := float64(i-s.attackSamples) / float64(s.decaySamples)

		return core.Clamp(1+(s.sustain-1)*progress, 0, 1)
	}

	return s.sustain
}

// Curve writes the full per-sample gain curve into dst, which must have the
// shape's total length.
func (s Shape) Curve(dst []float64) error {
	if len(dst) != s.total {
		return core.Synthf("envelope curve length %d does not match shape length %d", len(dst), s.total)
	}

	for i := range dst {
		dst[i] = s.Gain(i)
	}

	return nil
}

// Apply multiplies buf by the envelope gain curve in place.
func (s Shape) Apply(buf []float64) error {
	if len(buf) != s.total {
		return core.Synthf("envelope apply length %d does not match shape length %d", len(buf), s.total)
	}

	if len(buf) == 0 {
		return nil
	}

	curve := make([]float64, len(buf))
	if err := s.Curve(curve); err != nil {
		return err
	}

	vecmath.MulBlockInPlace(buf, curve)

	return nil
}
