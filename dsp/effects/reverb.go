package effects

import (
	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/lfo"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	reverbFixedGain = 0.015

	// Comb/allpass tunings in samples, calibrated for 44.1 kHz and scaled
	// to the render sample rate.
	reverbStereoSpread = 23

	reverbScaleRoom  = 0.28
	reverbOffsetRoom = 0.7
	reverbScaleDamp  = 0.4
)

var reverbCombTunings = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}

var reverbAllpassTunings = [reverbNumAllpasses]int{556, 441, 341, 225}

// ReverbSpec is a Schroeder/Freeverb-style reverb: eight parallel damped
// combs into four serial allpasses per channel, with the right channel
// detuned by a fixed stereo spread. SizeMod, when set, modulates the room
// size per sample within [0, 1].
type ReverbSpec struct {
	RoomSize float64 // [0, 1]
	Damping  float64 // [0, 1]
	Width    float64 // [0, 1]
	Mix      float64 // [0, 1]
	SizeMod  *lfo.Modulation
}

// Validate checks the reverb parameters against their documented ranges.
func (s ReverbSpec) Validate() error {
	if s.RoomSize < 0 || s.RoomSize > 1 || !core.IsFinite(s.RoomSize) {
		return core.Paramf("reverb.roomSize", "must be in [0, 1]: %f", s.RoomSize)
	}

	if s.Damping < 0 || s.Damping > 1 || !core.IsFinite(s.Damping) {
		return core.Paramf("reverb.damping", "must be in [0, 1]: %f", s.Damping)
	}

	if s.Width < 0 || s.Width > 1 || !core.IsFinite(s.Width) {
		return core.Paramf("reverb.width", "must be in [0, 1]: %f", s.Width)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("reverb.mix", "must be in [0, 1]: %f", s.Mix)
	}

	if s.SizeMod != nil {
		if err := s.SizeMod.Validate(); err != nil {
			return err
		}

		if s.SizeMod.Target != lfo.TargetReverbSize {
			return core.Paramf("reverb.sizeMod", "modulation target must be reverb size: %d", int(s.SizeMod.Target))
		}
	}

	return nil
}

type reverbComb struct {
	buffer      []float64
	index       int
	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
}

func newReverbComb(size int, feedback, damp float64) *reverbComb {
	return &reverbComb{
		buffer:   make([]float64, size),
		feedback: feedback,
		dampA:    damp,
		dampB:    1 - damp,
	}
}

func (c *reverbComb) process(input float64) float64 {
	output := c.buffer[c.index]

	c.filterStore = core.FlushDenormals(output*c.dampB + c.filterStore*c.dampA)

	c.buffer[c.index] = input + c.filterStore*c.feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

type reverbAllpass struct {
	buffer   []float64
	index    int
	feedback float64
}

func newReverbAllpass(size int) *reverbAllpass {
	return &reverbAllpass{
		buffer:   make([]float64, size),
		feedback: 0.5,
	}
}

func (a *reverbAllpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input

	a.buffer[a.index] = input + bufOut*a.feedback

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

type reverbChannel struct {
	combs   [reverbNumCombs]*reverbComb
	allpass [reverbNumAllpasses]*reverbAllpass
}

func newReverbChannel(sampleRate float64, spread int, roomSize, damping float64) *reverbChannel {
	scale := sampleRate / 44100.0
	feedback := roomSize*reverbScaleRoom + reverbOffsetRoom
	damp := damping * reverbScaleDamp

	ch := &reverbChannel{}

	for i, tuning := range reverbCombTunings {
		size := int(float64(tuning+spread) * scale)
		if size < 1 {
			size = 1
		}

		ch.combs[i] = newReverbComb(size, feedback, damp)
	}

	for i, tuning := range reverbAllpassTunings {
		size := int(float64(tuning+spread) * scale)
		if size < 1 {
			size = 1
		}

		ch.allpass[i] = newReverbAllpass(size)
	}

	return ch
}

func (ch *reverbChannel) setFeedback(roomSize float64) {
	feedback := roomSize*reverbScaleRoom + reverbOffsetRoom
	for _, comb := range ch.combs {
		comb.feedback = feedback
	}
}

func (ch *reverbChannel) process(input float64) float64 {
	out := 0.0

	for _, comb := range ch.combs {
		out += comb.process(input)
	}

	for _, ap := range ch.allpass {
		out = ap.process(out)
	}

	return out
}

func (s ReverbSpec) process(left, right []float64, sampleRate float64) error {
	chL := newReverbChannel(sampleRate, 0, s.RoomSize, s.Damping)
	chR := newReverbChannel(sampleRate, reverbStereoSpread, s.RoomSize, s.Damping)

	// Width crossmixes the two wet channels: full width keeps them
	// independent, zero width collapses to mono reverb.
	wet1 := s.Mix * (s.Width/2 + 0.5)
	wet2 := s.Mix * ((1 - s.Width) / 2)
	dry := 1 - s.Mix

	for i := range left {
		if s.SizeMod != nil {
			size := lfo.Apply(lfo.TargetReverbSize, s.RoomSize, s.SizeMod.Offset(i, sampleRate))
			chL.setFeedback(size)
			chR.setFeedback(size)
		}

		input := (left[i] + right[i]) * reverbFixedGain

		wetL := chL.process(input)
		wetR := chR.process(input)

		left[i] = wetL*wet1 + wetR*wet2 + left[i]*dry
		right[i] = wetR*wet1 + wetL*wet2 + right[i]*dry
	}

	return nil
}
