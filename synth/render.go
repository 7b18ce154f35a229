package synth

import (
	"math"
	"sync"

	"github.com/speccade/audiogen/dsp/effects"
	"github.com/speccade/audiogen/dsp/mix"
	"github.com/speccade/audiogen/dsp/rng"
	"github.com/speccade/audiogen/wav"
)

// Render synthesizes the spec into an encoded WAV artifact. The same
// (spec, seed) pair always yields byte-identical output.
//
// Layers render concurrently; each gets a private random stream derived
// from the seed and its index, so adding or reordering layers never
// perturbs another layer's randomness. Results join by index before
// mixing, keeping every layer's volume and pan paired with its own buffer.
func Render(spec Spec, seed uint32) (*wav.Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	chain, err := effects.NewChain(float64(spec.SampleRate), spec.Effects)
	if err != nil {
		return nil, err
	}

	numSamples := int(math.Round(spec.DurationSeconds * float64(spec.SampleRate)))
	sampleRate := float64(spec.SampleRate)

	layers := make([]mix.Layer, len(spec.Layers))
	errs := make([]error, len(spec.Layers))

	var wg sync.WaitGroup

	for i := range spec.Layers {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			stream := rng.New(rng.DeriveLayerSeed(seed, i))
			layers[i], errs[i] = renderLayer(spec.Layers[i], numSamples, sampleRate, stream)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out, err := mix.Mix(layers, numSamples)
	if err != nil {
		return nil, err
	}

	out, err = applyChain(chain, out)
	if err != nil {
		return nil, err
	}

	applyPost(spec.Post, out)

	return wav.Encode(out, spec.SampleRate)
}

// applyChain runs the effects chain over the mix. A mono mix is processed
// as a duplicated stereo pair; if the chain leaves the channels identical
// (no widening effect fired) the result collapses back to mono.
func applyChain(chain *effects.Chain, out *mix.Output) (*mix.Output, error) {
	if chain.Len() == 0 {
		return out, nil
	}

	wasMono := !out.Stereo
	left, right := out.ToStereo()

	if err := chain.Process(left, right); err != nil {
		return nil, err
	}

	if wasMono && channelsEqual(left, right) {
		return &mix.Output{Mono: left}, nil
	}

	return &mix.Output{Left: left, Right: right, Stereo: true}, nil
}

func channelsEqual(left, right []float64) bool {
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}

	return true
}

func applyPost(post PostSpec, out *mix.Output) {
	if post.NormalizeHeadroomDB != nil {
		if out.Stereo {
			mix.NormalizeStereo(out.Left, out.Right, *post.NormalizeHeadroomDB)
		} else {
			mix.Normalize(out.Mono, *post.NormalizeHeadroomDB)
		}
	}

	if post.SoftClipThreshold != nil {
		if out.Stereo {
			mix.SoftClipBuffer(out.Left, *post.SoftClipThreshold)
			mix.SoftClipBuffer(out.Right, *post.SoftClipThreshold)
		} else {
			mix.SoftClipBuffer(out.Mono, *post.SoftClipThreshold)
		}
	}
}
