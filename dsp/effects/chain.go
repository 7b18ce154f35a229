// Package effects implements the stateful stereo effects chain.
//
// The effect set is a closed tagged variant: the chain applier switches
// exhaustively over the concrete spec types, so adding an effect is a
// compile-time-checked, localized change rather than open plugin dispatch.
// Every effect validates its parameters eagerly, before any sample is
// touched, and processes a stereo buffer in place without changing its
// length. All per-effect state (delay rings, filter history, envelope
// followers) is allocated fresh per Process call.
package effects

import (
	"github.com/speccade/audiogen/dsp/core"
)

// Effect is the closed sum type of effect specifications. Only the spec
// structs in this package implement it.
type Effect interface {
	// Validate checks every parameter against its documented range.
	Validate() error

	isEffect()
}

func (DelaySpec) isEffect()      {}
func (ReverbSpec) isEffect()     {}
func (ChorusSpec) isEffect()     {}
func (PhaserSpec) isEffect()     {}
func (BitcrushSpec) isEffect()   {}
func (WaveshaperSpec) isEffect() {}
func (CompressorSpec) isEffect() {}

// Chain applies a sequence of effects to a stereo buffer in spec-declared
// order. Construction validates every effect up front so a failed chain
// never produces partial audio.
type Chain struct {
	sampleRate float64
	effects    []Effect
}

// NewChain validates all effects and returns a chain bound to a sample rate.
func NewChain(sampleRate float64, effects []Effect) (*Chain, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, core.Paramf("chain.sampleRate", "must be > 0 and finite: %f", sampleRate)
	}

	for _, e := range effects {
		if e == nil {
			return nil, core.InvalidRecipeTypef("effects", "effect entry must not be nil")
		}

		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	return &Chain{sampleRate: sampleRate, effects: effects}, nil
}

// Len returns the number of effects in the chain.
func (c *Chain) Len() int { return len(c.effects) }

// Process runs every effect over the stereo buffer in declared order.
// The two channels must have equal length; both are modified in place and
// keep their length.
func (c *Chain) Process(left, right []float64) error {
	if len(left) != len(right) {
		return core.Synthf("stereo channel lengths differ: left=%d right=%d", len(left), len(right))
	}

	if len(left) == 0 {
		return nil
	}

	for _, e := range c.effects {
		if err := c.apply(e, left, right); err != nil {
			return err
		}
	}

	return nil
}

// apply dispatches one effect. The switch is exhaustive over the closed
// variant; an unknown type is an internal invariant break.
func (c *Chain) apply(e Effect, left, right []float64) error {
	switch spec := e.(type) {
	case DelaySpec:
		return spec.process(left, right, c.sampleRate)
	case ReverbSpec:
		return spec.process(left, right, c.sampleRate)
	case ChorusSpec:
		return spec.process(left, right, c.sampleRate)
	case PhaserSpec:
		return spec.process(left, right, c.sampleRate)
	case BitcrushSpec:
		return spec.process(left, right, c.sampleRate)
	case WaveshaperSpec:
		return spec.process(left, right, c.sampleRate)
	case CompressorSpec:
		return spec.process(left, right, c.sampleRate)
	default:
		return core.Synthf("unhandled effect type %T", e)
	}
}
