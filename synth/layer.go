package synth

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/filter/biquad"
	"github.com/speccade/audiogen/dsp/lfo"
	"github.com/speccade/audiogen/dsp/mix"
	"github.com/speccade/audiogen/dsp/osc"
	"github.com/speccade/audiogen/dsp/rng"
)

// layerMods groups a layer's modulations by target. At most one modulation
// per target is honored; a later entry for the same target wins.
type layerMods struct {
	pitch        *lfo.Modulation
	volume       *lfo.Modulation
	cutoff       *lfo.Modulation
	pan          *lfo.Modulation
	pulseWidth   *lfo.Modulation
	fmIndex      *lfo.Modulation
	grainSize    *lfo.Modulation
	grainDensity *lfo.Modulation
}

func groupMods(mods []lfo.Modulation) layerMods {
	var g layerMods

	for i := range mods {
		m := &mods[i]

		switch m.Target {
		case lfo.TargetPitch:
			g.pitch = m
		case lfo.TargetVolume:
			g.volume = m
		case lfo.TargetFilterCutoff:
			g.cutoff = m
		case lfo.TargetPan:
			g.pan = m
		case lfo.TargetPulseWidth:
			g.pulseWidth = m
		case lfo.TargetFMIndex:
			g.fmIndex = m
		case lfo.TargetGrainSize:
			g.grainSize = m
		case lfo.TargetGrainDensity:
			g.grainDensity = m
		}
	}

	return g
}

// renderLayer produces one mixer layer: source synthesis, filtering,
// envelope and volume shaping, and an optional per-sample pan curve.
// stream is the layer's private derived random stream.
func renderLayer(l LayerSpec, numSamples int, sampleRate float64, stream *rng.Stream) (mix.Layer, error) {
	delaySamples := int(math.Round(l.StartDelaySeconds * sampleRate))

	length := numSamples - delaySamples
	if length <= 0 {
		// Layer starts past the end of the output; contributes silence.
		return mix.Layer{Volume: l.Volume, Pan: l.Pan, DelaySamples: delaySamples}, nil
	}

	mods := groupMods(l.Mods)

	buf, err := renderSource(l.Synth, length, sampleRate, mods, stream)
	if err != nil {
		return mix.Layer{}, err
	}

	if l.Filter != nil {
		if err := applyFilter(buf, *l.Filter, mods.cutoff, sampleRate); err != nil {
			return mix.Layer{}, err
		}
	}

	shape, err := l.Envelope.Shape(length, sampleRate)
	if err != nil {
		return mix.Layer{}, err
	}

	if err := shape.Apply(buf); err != nil {
		return mix.Layer{}, err
	}

	if mods.volume != nil {
		for i := range buf {
			buf[i] *= lfo.Apply(lfo.TargetVolume, 1, mods.volume.Offset(i, sampleRate))
		}
	}

	layer := mix.Layer{
		Samples:      buf,
		Volume:       l.Volume,
		Pan:          l.Pan,
		DelaySamples: delaySamples,
	}

	if mods.pan != nil {
		curve := make([]float64, length)
		for i := range curve {
			curve[i] = lfo.Apply(lfo.TargetPan, l.Pan, mods.pan.Offset(i, sampleRate))
		}

		layer.PanCurve = curve
	}

	return layer, nil
}

func renderSource(s SynthSpec, length int, sampleRate float64, mods layerMods, stream *rng.Stream) ([]float64, error) {
	switch spec := s.(type) {
	case OscillatorSpec:
		return renderOscillator(spec, length, sampleRate, mods)
	case NoiseSpec:
		if spec.Periodic {
			return osc.PeriodicNoise(spec.Color, stream, sampleRate, length)
		}

		return osc.Noise(spec.Color, stream, length)
	case FMSpec:
		return renderFM(spec, length, sampleRate, mods)
	case GranularSpec:
		return renderGranular(spec, length, sampleRate, mods, stream)
	default:
		return nil, core.Synthf("unhandled synthesis source %T", s)
	}
}

func renderOscillator(spec OscillatorSpec, length int, sampleRate float64, mods layerMods) ([]float64, error) {
	freqCurve, err := frequencyCurve(spec, length)
	if err != nil {
		return nil, err
	}

	if mods.pitch != nil {
		for i := range freqCurve {
			freqCurve[i] = lfo.PitchHz(freqCurve[i], mods.pitch.Offset(i, sampleRate))
		}
	}

	duty := spec.Duty
	if spec.Waveform != osc.WaveformPulse {
		duty = 0.5
	}

	dutyCurve := osc.Constant(duty, length)
	if mods.pulseWidth != nil && spec.Waveform == osc.WaveformPulse {
		for i := range dutyCurve {
			dutyCurve[i] = lfo.Apply(lfo.TargetPulseWidth, duty, mods.pulseWidth.Offset(i, sampleRate))
		}
	}

	return osc.RenderCurve(spec.Waveform, freqCurve, dutyCurve, sampleRate)
}

func frequencyCurve(spec OscillatorSpec, length int) ([]float64, error) {
	if spec.EndFrequencyHz == nil {
		return osc.Constant(spec.FrequencyHz, length), nil
	}

	return osc.Sweep(spec.FrequencyHz, *spec.EndFrequencyHz, spec.SweepCurve, length)
}

// applyFilter runs the layer biquad. A cutoff sweep or a cutoff modulation
// switches to per-sample coefficient recomputation; otherwise one static
// design serves the whole buffer.
func applyFilter(buf []float64, spec FilterSpec, cutoffMod *lfo.Modulation, sampleRate float64) error {
	var section biquad.Section

	if spec.EndCutoffHz == nil && cutoffMod == nil {
		coeffs, err := biquad.Design(spec.Kind, spec.CutoffHz, spec.Q, sampleRate)
		if err != nil {
			return err
		}

		biquad.NewSection(coeffs).ProcessBlock(buf)

		return nil
	}

	var (
		curve []float64
		err   error
	)

	if spec.EndCutoffHz != nil {
		curve, err = osc.Sweep(spec.CutoffHz, *spec.EndCutoffHz, osc.SweepExponential, len(buf))
		if err != nil {
			return err
		}
	} else {
		curve = osc.Constant(spec.CutoffHz, len(buf))
	}

	if cutoffMod != nil {
		for i := range curve {
			curve[i] = lfo.Apply(lfo.TargetFilterCutoff, curve[i], cutoffMod.Offset(i, sampleRate))
		}
	}

	return section.ProcessSwept(buf, spec.Kind, curve, spec.Q, sampleRate)
}
