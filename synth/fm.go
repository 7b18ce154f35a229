package synth

import (
	"math"

	"github.com/speccade/audiogen/dsp/lfo"
)

// renderFM is two-operator phase modulation: the modulator runs at
// carrier*ratio and bends the carrier phase by the (possibly modulated)
// index. Both phases accumulate from the instantaneous frequency so pitch
// modulation stays click-free.
func renderFM(spec FMSpec, length int, sampleRate float64, mods layerMods) ([]float64, error) {
	out := make([]float64, length)

	carrierPhase := 0.0
	modPhase := 0.0

	for i := range out {
		carrierHz := spec.CarrierHz
		if mods.pitch != nil {
			carrierHz = lfo.PitchHz(spec.CarrierHz, mods.pitch.Offset(i, sampleRate))
		}

		index := spec.Index
		if mods.fmIndex != nil {
			index = lfo.Apply(lfo.TargetFMIndex, spec.Index, mods.fmIndex.Offset(i, sampleRate))
		}

		out[i] = math.Sin(2*math.Pi*carrierPhase + index*math.Sin(2*math.Pi*modPhase))

		carrierPhase += carrierHz / sampleRate
		carrierPhase -= math.Floor(carrierPhase)

		modPhase += carrierHz * spec.ModulatorRatio / sampleRate
		modPhase -= math.Floor(modPhase)
	}

	return out, nil
}
