package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/delay"
)

const (
	minChorusVoices = 1
	maxChorusVoices = 8

	minChorusBaseDelayMs = 1.0
	maxChorusBaseDelayMs = 50.0
	maxChorusDepthMs     = 25.0
	maxChorusRateHz      = 20.0

	// Fixed quarter-cycle LFO offset between channels for stereo width.
	chorusChannelPhaseOffset = 0.25
)

// ChorusSpec is a multi-voice modulated-delay chorus. Each voice reads the
// same delay line at an LFO-modulated offset:
//
//	d(t) = base + depth * 0.5 * (1 + sin(2*pi*(rate*t + voice/voices)))
//
// Voices are averaged into the wet signal.
type ChorusSpec struct {
	Voices      int     // [1, 8]
	RateHz      float64 // (0, 20]
	DepthMs     float64 // [0, 25]
	BaseDelayMs float64 // [1, 50]
	Mix         float64 // [0, 1]
}

// Validate checks the chorus parameters against their documented ranges.
func (s ChorusSpec) Validate() error {
	if s.Voices < minChorusVoices || s.Voices > maxChorusVoices {
		return core.Paramf("chorus.voices", "must be in [%d, %d]: %d", minChorusVoices, maxChorusVoices, s.Voices)
	}

	if s.RateHz <= 0 || s.RateHz > maxChorusRateHz || !core.IsFinite(s.RateHz) {
		return core.Paramf("chorus.rate", "must be in (0, %g] Hz: %f", maxChorusRateHz, s.RateHz)
	}

	if s.DepthMs < 0 || s.DepthMs > maxChorusDepthMs || !core.IsFinite(s.DepthMs) {
		return core.Paramf("chorus.depth", "must be in [0, %g] ms: %f", maxChorusDepthMs, s.DepthMs)
	}

	if s.BaseDelayMs < minChorusBaseDelayMs || s.BaseDelayMs > maxChorusBaseDelayMs || !core.IsFinite(s.BaseDelayMs) {
		return core.Paramf("chorus.baseDelay", "must be in [%g, %g] ms: %f",
			minChorusBaseDelayMs, maxChorusBaseDelayMs, s.BaseDelayMs)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("chorus.mix", "must be in [0, 1]: %f", s.Mix)
	}

	return nil
}

func (s ChorusSpec) process(left, right []float64, sampleRate float64) error {
	maxDelaySamples := int(math.Ceil((s.BaseDelayMs+maxChorusDepthMs)/1000*sampleRate)) + 2

	lineL, err := delay.New(maxDelaySamples)
	if err != nil {
		return err
	}

	lineR, err := delay.New(maxDelaySamples)
	if err != nil {
		return err
	}

	baseSamples := s.BaseDelayMs / 1000 * sampleRate
	depthSamples := s.DepthMs / 1000 * sampleRate
	voiceScale := 1.0 / float64(s.Voices)
	phaseStep := s.RateHz / sampleRate

	phase := 0.0

	for i := range left {
		lineL.Write(left[i])
		lineR.Write(right[i])

		wetL, wetR := 0.0, 0.0

		for v := 0; v < s.Voices; v++ {
			voiceOffset := float64(v) / float64(s.Voices)

			modL := math.Sin(2 * math.Pi * (phase + voiceOffset))
			modR := math.Sin(2 * math.Pi * (phase + voiceOffset + chorusChannelPhaseOffset))

			wetL += lineL.ReadFractional(baseSamples + depthSamples*0.5*(1+modL))
			wetR += lineR.ReadFractional(baseSamples + depthSamples*0.5*(1+modR))
		}

		left[i] = left[i]*(1-s.Mix) + wetL*voiceScale*s.Mix
		right[i] = right[i]*(1-s.Mix) + wetR*voiceScale*s.Mix

		phase += phaseStep
		if phase >= 1 {
			phase--
		}
	}

	return nil
}
