// Package biquad implements the second-order IIR filter primitive used by
// layer synthesis and the effects chain.
//
// Coefficients come from the standard RBJ audio-EQ design equations. The
// section processes in Direct Form II Transposed with explicit two-value
// state, so per-call allocation stays tiny and nothing is global.
package biquad

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// Kind selects a filter response.
type Kind int

const (
	// Lowpass passes frequencies below the cutoff.
	Lowpass Kind = iota
	// Highpass passes frequencies above the cutoff.
	Highpass
	// Bandpass passes a band around the center frequency (0 dB peak gain).
	Bandpass
)

func validKind(k Kind) bool {
	return k >= Lowpass && k <= Bandpass
}

// ValidKind reports whether k names a known filter response.
func ValidKind(k Kind) bool { return validKind(k) }

// Coefficients holds the transfer function of one second-order section.
// a0 is normalized to 1 and not stored.
//
// Sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Design builds RBJ coefficients for the given response. The cutoff (or
// center) frequency must lie in (0, sampleRate/2) and Q must be positive.
func Design(kind Kind, cutoffHz, q, sampleRate float64) (Coefficients, error) {
	if !validKind(kind) {
		return Coefficients{}, core.Paramf("filter.kind", "unknown filter kind: %d", int(kind))
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return Coefficients{}, core.Paramf("filter.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 || !core.IsFinite(cutoffHz) {
		return Coefficients{}, core.Paramf("filter.cutoff",
			"must be in (0, %f): %f", sampleRate/2, cutoffHz)
	}

	if q <= 0 || !core.IsFinite(q) {
		return Coefficients{}, core.Paramf("filter.resonance", "must be > 0 and finite: %f", q)
	}

	return design(kind, cutoffHz, q, sampleRate), nil
}

// design computes coefficients without validation. Swept processing calls
// this once per sample with a pre-clamped cutoff curve.
func design(kind Kind, cutoffHz, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * cutoffHz / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	var b0, b1, b2 float64

	switch kind {
	case Lowpass:
		b1 = 1 - cosW0
		b0 = b1 / 2
		b2 = b0
	case Highpass:
		b1 = -(1 + cosW0)
		b0 = -b1 / 2
		b2 = b0
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}

	a0 := 1 + alpha
	inv := 1 / a0

	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: -2 * cosW0 * inv,
		A2: (1 - alpha) * inv,
	}
}

// Section is a single biquad with coefficients and internal state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in place.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = core.FlushDenormals(d0), core.FlushDenormals(d1)
}

// ProcessSwept filters buf in place, recomputing coefficients from the
// per-sample cutoff curve before processing each sample so the internal
// state always reflects the time-varying topology.
func (s *Section) ProcessSwept(buf []float64, kind Kind, cutoffCurve []float64, q, sampleRate float64) error {
	if !validKind(kind) {
		return core.Paramf("filter.kind", "unknown filter kind: %d", int(kind))
	}

	if len(cutoffCurve) != len(buf) {
		return core.Synthf("cutoff curve length %d does not match buffer length %d",
			len(cutoffCurve), len(buf))
	}

	if q <= 0 || !core.IsFinite(q) {
		return core.Paramf("filter.resonance", "must be > 0 and finite: %f", q)
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return core.Paramf("filter.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	nyquistGuard := sampleRate * 0.49

	for i, x := range buf {
		cutoff := core.Clamp(cutoffCurve[i], 1, nyquistGuard)
		s.Coefficients = design(kind, cutoff, q, sampleRate)
		buf[i] = s.ProcessSample(x)
	}

	return nil
}

// Reset clears the delay-line state to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}
