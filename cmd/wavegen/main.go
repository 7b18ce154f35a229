// Command wavegen renders a single-layer sound to a WAV file.
//
// Usage:
//
//	wavegen [flags] output.wav
//
// Examples:
//
//	wavegen -wave sine -freq 440 -dur 1 tone.wav
//	wavegen -wave noise -color pink -seed 7 hiss.wav
//	wavegen -wave saw -freq 110 -end-freq 55 -sweep exp drop.wav
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/speccade/audiogen/dsp/envelope"
	"github.com/speccade/audiogen/dsp/osc"
	"github.com/speccade/audiogen/synth"
)

var waveforms = map[string]osc.Waveform{
	"sine":     osc.WaveformSine,
	"square":   osc.WaveformSquare,
	"saw":      osc.WaveformSaw,
	"triangle": osc.WaveformTriangle,
	"pulse":    osc.WaveformPulse,
}

var noiseColors = map[string]osc.NoiseColor{
	"white": osc.NoiseWhite,
	"pink":  osc.NoisePink,
	"brown": osc.NoiseBrown,
}

var sweepCurves = map[string]osc.SweepCurve{
	"linear": osc.SweepLinear,
	"exp":    osc.SweepExponential,
	"log":    osc.SweepLogarithmic,
}

func main() {
	var (
		wave       = flag.String("wave", "sine", "source: sine, square, saw, triangle, pulse, or noise")
		freq       = flag.Float64("freq", 440, "oscillator frequency in Hz")
		endFreq    = flag.Float64("end-freq", 0, "sweep target frequency in Hz (0 disables)")
		sweepName  = flag.String("sweep", "exp", "sweep curve: linear, exp, log")
		duty       = flag.Float64("duty", 0.5, "pulse duty cycle")
		colorName  = flag.String("color", "white", "noise color: white, pink, brown")
		duration   = flag.Float64("dur", 1, "duration in seconds")
		sampleRate = flag.Int("rate", 44100, "sample rate in Hz")
		seed       = flag.Uint("seed", 0, "generation seed")
		attack     = flag.Float64("attack", 0.01, "envelope attack in seconds")
		decay      = flag.Float64("decay", 0.1, "envelope decay in seconds")
		sustain    = flag.Float64("sustain", 0.7, "envelope sustain level")
		release    = flag.Float64("release", 0.1, "envelope release in seconds")
		volume     = flag.Float64("volume", 1, "layer volume")
		pan        = flag.Float64("pan", 0, "pan position in [-1, 1]")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wavegen [flags] output.wav\n\n")
		fmt.Fprintf(os.Stderr, "Renders a single-layer procedural sound to a WAV file.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	source, err := buildSource(*wave, *colorName, *freq, *endFreq, *sweepName, *duty)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wavegen:", err)
		os.Exit(1)
	}

	spec := synth.Spec{
		SampleRate:      *sampleRate,
		DurationSeconds: *duration,
		Layers: []synth.LayerSpec{{
			Synth: source,
			Envelope: envelope.ADSR{
				AttackSeconds:  *attack,
				DecaySeconds:   *decay,
				SustainLevel:   *sustain,
				ReleaseSeconds: *release,
			},
			Volume: *volume,
			Pan:    *pan,
		}},
	}

	res, err := synth.Render(spec, uint32(*seed))
	if err != nil {
		fmt.Fprintln(os.Stderr, "wavegen:", err)
		os.Exit(1)
	}

	path := flag.Arg(0)
	if err := os.WriteFile(path, res.PCM, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "wavegen:", err)
		os.Exit(1)
	}

	channels := "mono"
	if res.Stereo {
		channels = "stereo"
	}

	fmt.Printf("%s: %.3fs %s @ %d Hz, sha256 %s\n", path, res.Duration(), channels, res.SampleRate, res.Hash)
}

func buildSource(wave, colorName string, freq, endFreq float64, sweepName string, duty float64) (synth.SynthSpec, error) {
	if strings.EqualFold(wave, "noise") {
		color, ok := noiseColors[strings.ToLower(colorName)]
		if !ok {
			return nil, fmt.Errorf("unknown noise color %q", colorName)
		}

		return synth.NoiseSpec{Color: color}, nil
	}

	w, ok := waveforms[strings.ToLower(wave)]
	if !ok {
		return nil, fmt.Errorf("unknown waveform %q", wave)
	}

	spec := synth.OscillatorSpec{Waveform: w, FrequencyHz: freq, Duty: duty}

	if endFreq > 0 {
		curve, ok := sweepCurves[strings.ToLower(sweepName)]
		if !ok {
			return nil, fmt.Errorf("unknown sweep curve %q", sweepName)
		}

		spec.EndFrequencyHz = &endFreq
		spec.SweepCurve = curve
	}

	return spec, nil
}
