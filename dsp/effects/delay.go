package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/delay"
	"github.com/speccade/audiogen/dsp/lfo"
)

const (
	minDelayTimeMs   = 1.0
	maxDelayTimeMs   = 2000.0
	maxDelayFeedback = 0.99
)

// DelaySpec is a feedback delay with fractional read, optional ping-pong
// cross-feed, and wet/dry mix. TimeMod, when set, modulates the delay time
// per sample within [1, 2000] ms.
type DelaySpec struct {
	TimeMs   float64 // [1, 2000]
	Feedback float64 // [0, 0.99]
	Mix      float64 // [0, 1]
	PingPong bool
	TimeMod  *lfo.Modulation
}

// Validate checks the delay parameters against their documented ranges.
func (s DelaySpec) Validate() error {
	if s.TimeMs < minDelayTimeMs || s.TimeMs > maxDelayTimeMs || !core.IsFinite(s.TimeMs) {
		return core.Paramf("delay.time", "must be in [%g, %g] ms: %f", minDelayTimeMs, maxDelayTimeMs, s.TimeMs)
	}

	if s.Feedback < 0 || s.Feedback > maxDelayFeedback || !core.IsFinite(s.Feedback) {
		return core.Paramf("delay.feedback", "must be in [0, %g]: %f", maxDelayFeedback, s.Feedback)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("delay.mix", "must be in [0, 1]: %f", s.Mix)
	}

	if s.TimeMod != nil {
		if err := s.TimeMod.Validate(); err != nil {
			return err
		}

		if s.TimeMod.Target != lfo.TargetDelayTime {
			return core.Paramf("delay.timeMod", "modulation target must be delay time: %d", int(s.TimeMod.Target))
		}
	}

	return nil
}

func (s DelaySpec) process(left, right []float64, sampleRate float64) error {
	// Ring size covers the maximum modulated delay plus interpolation slack.
	size := int(math.Ceil(maxDelayTimeMs/1000*sampleRate)) + 2

	lineL, err := delay.New(size)
	if err != nil {
		return err
	}

	lineR, err := delay.New(size)
	if err != nil {
		return err
	}

	baseSamples := s.TimeMs / 1000 * sampleRate

	for i := range left {
		delaySamples := baseSamples
		if s.TimeMod != nil {
			ms := lfo.Apply(lfo.TargetDelayTime, s.TimeMs, s.TimeMod.Offset(i, sampleRate))
			delaySamples = ms / 1000 * sampleRate
		}

		// Read before writing so the smallest delay is one full sample.
		wetL := lineL.ReadFractional(delaySamples - 1)
		wetR := lineR.ReadFractional(delaySamples - 1)

		if s.PingPong {
			// Cross-feed: each side's feedback lands in the other line.
			lineL.Write(left[i] + wetR*s.Feedback)
			lineR.Write(right[i] + wetL*s.Feedback)
		} else {
			lineL.Write(left[i] + wetL*s.Feedback)
			lineR.Write(right[i] + wetR*s.Feedback)
		}

		left[i] = left[i]*(1-s.Mix) + wetL*s.Mix
		right[i] = right[i]*(1-s.Mix) + wetR*s.Mix
	}

	return nil
}
