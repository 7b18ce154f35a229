// Package mix accumulates rendered layers into a mono or stereo master
// buffer and applies the post-processing stages that run after the effects
// chain: peak normalization and soft clipping.
//
// A Layer is owned exclusively by the mixer for one generation pass. Mixing
// is commutative, so the layer order only matters for keeping each layer's
// volume and pan paired with its own samples.
package mix

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// stereoPanEpsilon decides mono versus stereo output: any layer whose
// absolute pan exceeds it forces a stereo mix.
const stereoPanEpsilon = 1e-6

// Layer is one rendered mono buffer with its placement in the master mix.
// PanCurve, when non-nil, overrides Pan with a per-sample position of the
// same length as Samples and forces a stereo mix.
type Layer struct {
	Samples      []float64
	Volume       float64 // [0, 1]
	Pan          float64 // [-1, 1]
	PanCurve     []float64
	DelaySamples int
}

// Output is the mixed master buffer, either mono or stereo. Exactly one
// shape is populated; Stereo reports which.
type Output struct {
	Mono   []float64
	Left   []float64
	Right  []float64
	Stereo bool
}

// NumSamples returns the per-channel frame count.
func (o *Output) NumSamples() int {
	if o.Stereo {
		return len(o.Left)
	}

	return len(o.Mono)
}

// ToStereo returns left and right channels, duplicating a mono mix.
func (o *Output) ToStereo() (left, right []float64) {
	if o.Stereo {
		return o.Left, o.Right
	}

	left = make([]float64, len(o.Mono))
	right = make([]float64, len(o.Mono))
	copy(left, o.Mono)
	copy(right, o.Mono)

	return left, right
}

// ToMono returns a single channel, averaging a stereo mix.
func (o *Output) ToMono() []float64 {
	if !o.Stereo {
		return o.Mono
	}

	mono := make([]float64, len(o.Left))
	for i := range mono {
		mono[i] = (o.Left[i] + o.Right[i]) / 2
	}

	return mono
}

// Mix accumulates layers into a fixed-length output. The shape is chosen
// automatically: stereo when any layer pans away from center by more than
// the epsilon, mono otherwise. Layer tails past the output length are
// truncated silently.
func Mix(layers []Layer, numSamples int) (*Output, error) {
	if numSamples < 0 {
		return nil, core.Paramf("mix.numSamples", "must be >= 0: %d", numSamples)
	}

	for i, layer := range layers {
		if layer.Volume < 0 || layer.Volume > 1 || !core.IsFinite(layer.Volume) {
			return nil, core.Paramf("mix.layer.volume", "layer %d: must be in [0, 1]: %f", i, layer.Volume)
		}

		if layer.Pan < -1 || layer.Pan > 1 || !core.IsFinite(layer.Pan) {
			return nil, core.Paramf("mix.layer.pan", "layer %d: must be in [-1, 1]: %f", i, layer.Pan)
		}

		if layer.DelaySamples < 0 {
			return nil, core.Paramf("mix.layer.delay", "layer %d: must be >= 0: %d", i, layer.DelaySamples)
		}

		if layer.PanCurve != nil && len(layer.PanCurve) != len(layer.Samples) {
			return nil, core.Synthf("layer %d: pan curve length %d does not match %d samples",
				i, len(layer.PanCurve), len(layer.Samples))
		}
	}

	if stereoRequired(layers) {
		left, right := mixStereo(layers, numSamples)
		return &Output{Left: left, Right: right, Stereo: true}, nil
	}

	return &Output{Mono: mixMono(layers, numSamples)}, nil
}

func stereoRequired(layers []Layer) bool {
	for _, layer := range layers {
		if layer.PanCurve != nil || math.Abs(layer.Pan) > stereoPanEpsilon {
			return true
		}
	}

	return false
}

func mixMono(layers []Layer, numSamples int) []float64 {
	out := make([]float64, numSamples)

	for _, layer := range layers {
		for i, s := range layer.Samples {
			idx := layer.DelaySamples + i
			if idx >= numSamples {
				break
			}

			out[idx] += s * layer.Volume
		}
	}

	return out
}

func mixStereo(layers []Layer, numSamples int) (left, right []float64) {
	left = make([]float64, numSamples)
	right = make([]float64, numSamples)

	for _, layer := range layers {
		if layer.PanCurve != nil {
			for i, s := range layer.Samples {
				idx := layer.DelaySamples + i
				if idx >= numSamples {
					break
				}

				leftGain, rightGain := PanGains(layer.PanCurve[i])
				left[idx] += s * leftGain * layer.Volume
				right[idx] += s * rightGain * layer.Volume
			}

			continue
		}

		leftGain, rightGain := PanGains(layer.Pan)
		leftGain *= layer.Volume
		rightGain *= layer.Volume

		for i, s := range layer.Samples {
			idx := layer.DelaySamples + i
			if idx >= numSamples {
				break
			}

			left[idx] += s * leftGain
			right[idx] += s * rightGain
		}
	}

	return left, right
}

// PanGains returns the equal-power gain pair for a pan position in [-1, 1].
// The pan maps to an angle in [0, pi/2]; cosine drives the left channel and
// sine the right, so total power stays constant across the sweep.
func PanGains(pan float64) (left, right float64) {
	angle := (pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}
