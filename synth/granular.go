package synth

import (
	"math"

	"github.com/speccade/audiogen/dsp/lfo"
	"github.com/speccade/audiogen/dsp/osc"
	"github.com/speccade/audiogen/dsp/rng"
	"github.com/speccade/audiogen/dsp/window"
)

// renderGranular overlap-adds Hann-windowed grains of the source waveform.
// Grain size and density are sampled once per grain onset, so modulations
// shift the texture without tearing grains mid-flight. Jitter randomizes
// each grain's start phase from the layer stream, which keeps grain
// randomness isolated per layer.
func renderGranular(spec GranularSpec, length int, sampleRate float64, mods layerMods, stream *rng.Stream) ([]float64, error) {
	out := make([]float64, length)

	onset := 0
	for onset < length {
		sizeMs := spec.GrainSizeMs
		if mods.grainSize != nil {
			sizeMs = lfo.Apply(lfo.TargetGrainSize, spec.GrainSizeMs, mods.grainSize.Offset(onset, sampleRate))
		}

		density := spec.GrainsPerSec
		if mods.grainDensity != nil {
			density = lfo.Apply(lfo.TargetGrainDensity, spec.GrainsPerSec, mods.grainDensity.Offset(onset, sampleRate))
		}

		grainLen := int(math.Round(sizeMs / 1000 * sampleRate))
		if grainLen < 2 {
			grainLen = 2
		}

		phaseOffset := 0.0
		if spec.Jitter > 0 {
			phaseOffset = stream.Float64() * spec.Jitter
		}

		grain := grainSamples(spec.Waveform, spec.FrequencyHz, phaseOffset, sampleRate, grainLen)

		if err := window.Apply(window.TypeHann, grain); err != nil {
			return nil, err
		}

		// Normalize for expected overlap so dense clouds do not pile up
		// arbitrarily loud.
		overlap := density * float64(grainLen) / sampleRate
		gain := 1.0
		if overlap > 1 {
			gain = 1 / math.Sqrt(overlap)
		}

		for i, g := range grain {
			idx := onset + i
			if idx >= length {
				break
			}

			out[idx] += g * gain
		}

		hop := int(math.Round(sampleRate / density))
		if hop < 1 {
			hop = 1
		}

		onset += hop
	}

	return out, nil
}

// grainSamples renders one un-windowed grain starting at the given phase.
func grainSamples(w osc.Waveform, freqHz, phaseOffset, sampleRate float64, length int) []float64 {
	grain := make([]float64, length)

	phase := phaseOffset
	for i := range grain {
		grain[i] = osc.Sample(w, phase, 0.5)

		phase += freqHz / sampleRate
		phase -= math.Floor(phase)
	}

	return grain
}
