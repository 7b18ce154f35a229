package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

const (
	minBitcrushBits = 1.0
	maxBitcrushBits = 16.0

	minBitcrushDownsample = 1.0
	maxBitcrushDownsample = 256.0
)

// BitcrushSpec reduces effective sample rate via a fractional phase
// accumulator (sample-and-hold) and quantizes amplitude to 2^bits levels.
// Fractional bit depths and downsample factors are allowed so both
// degradations sweep smoothly.
type BitcrushSpec struct {
	Bits       float64 // [1, 16]
	Downsample float64 // [1, 256]; 1 = no rate reduction
	Mix        float64 // [0, 1]
}

// Validate checks the bitcrush parameters against their documented ranges.
func (s BitcrushSpec) Validate() error {
	if s.Bits < minBitcrushBits || s.Bits > maxBitcrushBits || !core.IsFinite(s.Bits) {
		return core.Paramf("bitcrush.bits", "must be in [%g, %g]: %f", minBitcrushBits, maxBitcrushBits, s.Bits)
	}

	if s.Downsample < minBitcrushDownsample || s.Downsample > maxBitcrushDownsample || !core.IsFinite(s.Downsample) {
		return core.Paramf("bitcrush.downsample", "must be in [%g, %g]: %f",
			minBitcrushDownsample, maxBitcrushDownsample, s.Downsample)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("bitcrush.mix", "must be in [0, 1]: %f", s.Mix)
	}

	return nil
}

type bitcrushChannel struct {
	phase float64
	hold  float64
}

func (s BitcrushSpec) process(left, right []float64, sampleRate float64) error {
	levels := math.Exp2(s.Bits - 1)

	quantize := func(x float64) float64 {
		return math.Round(x*levels) / levels
	}

	// Start one step short of the threshold so the very first sample is
	// captured; the fractional remainder then carries between captures.
	chL := bitcrushChannel{phase: s.Downsample - 1}
	chR := bitcrushChannel{phase: s.Downsample - 1}

	crush := func(ch *bitcrushChannel, x float64) float64 {
		ch.phase++
		if ch.phase >= s.Downsample {
			ch.phase -= s.Downsample
			ch.hold = quantize(x)
		}

		return ch.hold
	}

	for i := range left {
		left[i] = left[i]*(1-s.Mix) + crush(&chL, left[i])*s.Mix
		right[i] = right[i]*(1-s.Mix) + crush(&chR, right[i])*s.Mix
	}

	return nil
}
