package osc

import (
	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/rng"
)

// NoiseColor selects a noise spectrum.
type NoiseColor int

const (
	// NoiseWhite is spectrally flat noise.
	NoiseWhite NoiseColor = iota
	// NoisePink has -3 dB/octave rolloff (one-pole pinking network).
	NoisePink
	// NoiseBrown has -6 dB/octave rolloff (leaky integration of white).
	NoiseBrown
)

// periodicBurstSeconds is the length of the tiled burst used by loopable
// noise timbres.
const periodicBurstSeconds = 0.01

func validNoiseColor(c NoiseColor) bool {
	return c >= NoiseWhite && c <= NoiseBrown
}

// Noise fills a new buffer with seeded noise of the given color in [-1, 1].
// The stream is consumed sample by sample, so the same stream position always
// produces the same buffer.
func Noise(color NoiseColor, stream *rng.Stream, samples int) ([]float64, error) {
	if !validNoiseColor(color) {
		return nil, core.Paramf("noise.color", "unknown noise color: %d", int(color))
	}

	if stream == nil {
		return nil, core.Synthf("noise stream must not be nil")
	}

	if samples <= 0 {
		return nil, core.Paramf("noise.samples", "must be > 0: %d", samples)
	}

	out := make([]float64, samples)

	switch color {
	case NoiseWhite:
		for i := range out {
			out[i] = stream.Bipolar()
		}

	case NoisePink:
		// Paul Kellet's economy pinking filter: three one-pole lowpass
		// stages summed with a direct white contribution.
		var b0, b1, b2 float64

		for i := range out {
			white := stream.Bipolar()

			b0 = 0.99765*b0 + white*0.0990460
			b1 = 0.96300*b1 + white*0.2965164
			b2 = 0.57000*b2 + white*1.0526913

			out[i] = core.Clamp((b0+b1+b2+white*0.1848)*0.25, -1, 1)
		}

	case NoiseBrown:
		// Leaky integration keeps the walk bounded without hard resets.
		var last float64

		for i := range out {
			last = core.Clamp(last*0.998+stream.Bipolar()*0.1, -1, 1)
			out[i] = last
		}
	}

	return out, nil
}

// PeriodicNoise synthesizes one short burst of noise and tiles it across the
// buffer, producing a loopable pitched-noise timbre. The burst length is
// about 10 ms at the given sample rate.
func PeriodicNoise(color NoiseColor, stream *rng.Stream, sampleRate float64, samples int) ([]float64, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.Paramf("noise.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	if samples <= 0 {
		return nil, core.Paramf("noise.samples", "must be > 0: %d", samples)
	}

	burstLen := int(periodicBurstSeconds * sampleRate)
	if burstLen < 1 {
		burstLen = 1
	}

	if burstLen > samples {
		burstLen = samples
	}

	burst, err := Noise(color, stream, burstLen)
	if err != nil {
		return nil, err
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = burst[i%burstLen]
	}

	return out, nil
}
