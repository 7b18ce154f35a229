// Package synth turns a validated parameter tree and a 32-bit seed into a
// finished WAV artifact. It composes the dsp primitives: per-layer sources
// (oscillator, noise, FM, granular), filtering, LFO routing and envelope
// shaping, the stereo effects chain, mixing, post-processing and encoding.
//
// A Render call is pure: all per-sample state is allocated fresh, every
// random stream derives from the call's seed, and identical inputs produce
// byte-identical output.
package synth

import (
	"fmt"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/effects"
	"github.com/speccade/audiogen/dsp/envelope"
	"github.com/speccade/audiogen/dsp/filter/biquad"
	"github.com/speccade/audiogen/dsp/lfo"
	"github.com/speccade/audiogen/dsp/osc"
)

const (
	minDurationSeconds = 0.001
	maxDurationSeconds = 60.0

	minGrainSizeMs  = 1.0
	maxGrainSizeMs  = 1000.0
	minGrainDensity = 1.0
	maxGrainDensity = 1000.0

	maxFMIndex = 100.0
	maxFMRatio = 64.0
)

// Spec is the complete input parameter tree, consumed by value. It arrives
// pre-validated in shape; Render still checks every numeric range eagerly
// before producing a single sample.
type Spec struct {
	SampleRate      int
	DurationSeconds float64
	Layers          []LayerSpec
	Effects         []effects.Effect
	Post            PostSpec
}

// LayerSpec describes one mono voice and its placement in the mix.
type LayerSpec struct {
	Synth             SynthSpec
	Envelope          envelope.ADSR
	Volume            float64 // [0, 1]
	Pan               float64 // [-1, 1]
	StartDelaySeconds float64
	Filter            *FilterSpec
	Mods              []lfo.Modulation
}

// SynthSpec is the closed sum type of layer sources. Only the spec structs
// in this package implement it.
type SynthSpec interface {
	Validate() error

	isSynth()
}

func (OscillatorSpec) isSynth() {}
func (NoiseSpec) isSynth()      {}
func (FMSpec) isSynth()         {}
func (GranularSpec) isSynth()   {}

// OscillatorSpec is a phase-accumulated waveform source. EndFrequencyHz,
// when set, sweeps the frequency across the layer with the given curve.
type OscillatorSpec struct {
	Waveform       osc.Waveform
	FrequencyHz    float64
	EndFrequencyHz *float64
	SweepCurve     osc.SweepCurve
	Duty           float64 // pulse width, [0.01, 0.99]; ignored unless pulse
}

// Validate checks the oscillator parameters against their documented ranges.
func (s OscillatorSpec) Validate() error {
	if !osc.ValidWaveform(s.Waveform) {
		return core.Paramf("oscillator.waveform", "unknown waveform: %d", int(s.Waveform))
	}

	if s.FrequencyHz <= 0 || !core.IsFinite(s.FrequencyHz) {
		return core.Paramf("oscillator.frequency", "must be > 0: %f", s.FrequencyHz)
	}

	if s.EndFrequencyHz != nil && (*s.EndFrequencyHz <= 0 || !core.IsFinite(*s.EndFrequencyHz)) {
		return core.Paramf("oscillator.endFrequency", "must be > 0: %f", *s.EndFrequencyHz)
	}

	if s.Waveform == osc.WaveformPulse && (s.Duty < 0.01 || s.Duty > 0.99) {
		return core.Paramf("oscillator.duty", "must be in [0.01, 0.99]: %f", s.Duty)
	}

	return nil
}

// NoiseSpec is a seeded noise source. Periodic tiles a short burst so the
// result loops cleanly.
type NoiseSpec struct {
	Color    osc.NoiseColor
	Periodic bool
}

// Validate checks the noise color.
func (s NoiseSpec) Validate() error {
	if s.Color < osc.NoiseWhite || s.Color > osc.NoiseBrown {
		return core.Paramf("noise.color", "unknown color: %d", int(s.Color))
	}

	return nil
}

// FMSpec is two-operator frequency modulation: a sine modulator at
// CarrierHz*ModulatorRatio phase-modulates a sine carrier with the given
// index. The index is modulable per sample.
type FMSpec struct {
	CarrierHz      float64
	ModulatorRatio float64 // (0, 64]
	Index          float64 // [0, 100]
}

// Validate checks the FM parameters against their documented ranges.
func (s FMSpec) Validate() error {
	if s.CarrierHz <= 0 || !core.IsFinite(s.CarrierHz) {
		return core.Paramf("fm.carrier", "must be > 0: %f", s.CarrierHz)
	}

	if s.ModulatorRatio <= 0 || s.ModulatorRatio > maxFMRatio || !core.IsFinite(s.ModulatorRatio) {
		return core.Paramf("fm.ratio", "must be in (0, %g]: %f", maxFMRatio, s.ModulatorRatio)
	}

	if s.Index < 0 || s.Index > maxFMIndex || !core.IsFinite(s.Index) {
		return core.Paramf("fm.index", "must be in [0, %g]: %f", maxFMIndex, s.Index)
	}

	return nil
}

// GranularSpec scatters short windowed grains of a source waveform.
// Grain size and density are modulable, sampled at each grain onset;
// Jitter randomizes grain start phase from the layer's seeded stream.
type GranularSpec struct {
	Waveform     osc.Waveform
	FrequencyHz  float64
	GrainSizeMs  float64 // [1, 1000]
	GrainsPerSec float64 // [1, 1000]
	Jitter       float64 // [0, 1]
}

// Validate checks the granular parameters against their documented ranges.
func (s GranularSpec) Validate() error {
	if !osc.ValidWaveform(s.Waveform) {
		return core.Paramf("granular.waveform", "unknown waveform: %d", int(s.Waveform))
	}

	if s.FrequencyHz <= 0 || !core.IsFinite(s.FrequencyHz) {
		return core.Paramf("granular.frequency", "must be > 0: %f", s.FrequencyHz)
	}

	if s.GrainSizeMs < minGrainSizeMs || s.GrainSizeMs > maxGrainSizeMs || !core.IsFinite(s.GrainSizeMs) {
		return core.Paramf("granular.grainSize", "must be in [%g, %g] ms: %f", minGrainSizeMs, maxGrainSizeMs, s.GrainSizeMs)
	}

	if s.GrainsPerSec < minGrainDensity || s.GrainsPerSec > maxGrainDensity || !core.IsFinite(s.GrainsPerSec) {
		return core.Paramf("granular.density", "must be in [%g, %g]: %f", minGrainDensity, maxGrainDensity, s.GrainsPerSec)
	}

	if s.Jitter < 0 || s.Jitter > 1 || !core.IsFinite(s.Jitter) {
		return core.Paramf("granular.jitter", "must be in [0, 1]: %f", s.Jitter)
	}

	return nil
}

// FilterSpec applies a biquad to the layer after synthesis. EndCutoffHz,
// when set, sweeps the cutoff exponentially across the layer.
type FilterSpec struct {
	Kind        biquad.Kind
	CutoffHz    float64
	Q           float64
	EndCutoffHz *float64
}

// Validate checks static ranges; rate-dependent limits are enforced by the
// filter design itself.
func (s FilterSpec) Validate() error {
	if !biquad.ValidKind(s.Kind) {
		return core.Paramf("filter.kind", "unknown filter kind: %d", int(s.Kind))
	}

	if s.CutoffHz <= 0 || !core.IsFinite(s.CutoffHz) {
		return core.Paramf("filter.cutoff", "must be > 0: %f", s.CutoffHz)
	}

	if s.EndCutoffHz != nil && (*s.EndCutoffHz <= 0 || !core.IsFinite(*s.EndCutoffHz)) {
		return core.Paramf("filter.endCutoff", "must be > 0: %f", *s.EndCutoffHz)
	}

	if s.Q <= 0 || !core.IsFinite(s.Q) {
		return core.Paramf("filter.q", "must be > 0: %f", s.Q)
	}

	return nil
}

// PostSpec configures the post-chain stages. Nil fields skip the stage.
type PostSpec struct {
	NormalizeHeadroomDB *float64 // <= 0
	SoftClipThreshold   *float64 // (0, 1)
}

// Validate checks the post-processing parameters.
func (s PostSpec) Validate() error {
	if s.NormalizeHeadroomDB != nil && (*s.NormalizeHeadroomDB > 0 || !core.IsFinite(*s.NormalizeHeadroomDB)) {
		return core.Paramf("post.normalizeHeadroom", "must be <= 0 dB: %f", *s.NormalizeHeadroomDB)
	}

	if s.SoftClipThreshold != nil && (*s.SoftClipThreshold <= 0 || *s.SoftClipThreshold >= 1 || !core.IsFinite(*s.SoftClipThreshold)) {
		return core.Paramf("post.softClipThreshold", "must be in (0, 1): %f", *s.SoftClipThreshold)
	}

	return nil
}

// Validate checks the whole tree eagerly, before any sample is produced.
func (s Spec) Validate() error {
	if s.SampleRate <= 0 {
		return core.Paramf("spec.sampleRate", "must be > 0: %d", s.SampleRate)
	}

	if s.DurationSeconds < minDurationSeconds || s.DurationSeconds > maxDurationSeconds || !core.IsFinite(s.DurationSeconds) {
		return core.Paramf("spec.duration", "must be in [%g, %g] s: %f", minDurationSeconds, maxDurationSeconds, s.DurationSeconds)
	}

	for i, layer := range s.Layers {
		if err := layer.validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}

	return s.Post.Validate()
}

func (l LayerSpec) validate() error {
	if l.Synth == nil {
		return core.MissingRecipef("layer.synth", "synthesis source must not be nil")
	}

	if err := l.Synth.Validate(); err != nil {
		return err
	}

	if err := l.Envelope.Validate(); err != nil {
		return err
	}

	if l.Volume < 0 || l.Volume > 1 || !core.IsFinite(l.Volume) {
		return core.Paramf("layer.volume", "must be in [0, 1]: %f", l.Volume)
	}

	if l.Pan < -1 || l.Pan > 1 || !core.IsFinite(l.Pan) {
		return core.Paramf("layer.pan", "must be in [-1, 1]: %f", l.Pan)
	}

	if l.StartDelaySeconds < 0 || !core.IsFinite(l.StartDelaySeconds) {
		return core.Paramf("layer.startDelay", "must be >= 0: %f", l.StartDelaySeconds)
	}

	if l.Filter != nil {
		if err := l.Filter.Validate(); err != nil {
			return err
		}
	}

	for _, mod := range l.Mods {
		if err := mod.Validate(); err != nil {
			return err
		}

		if mod.Target.PostChainOnly() {
			return core.Paramf("layer.mod", "target %d only applies inside the effects chain", int(mod.Target))
		}
	}

	return nil
}
