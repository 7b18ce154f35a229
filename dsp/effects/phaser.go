package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

const (
	minPhaserStages = 1
	maxPhaserStages = 12

	maxPhaserRateHz   = 10.0
	maxPhaserFeedback = 0.99

	phaserNyquistSafetyRatio = 0.49
)

// PhaserSpec is a cascade of first-order allpass stages whose corner
// frequency sweeps between MinFreqHz and MaxFreqHz under a single shared
// LFO. Feedback routes the cascade output back into its input.
type PhaserSpec struct {
	Stages    int     // [1, 12]
	RateHz    float64 // (0, 10]
	MinFreqHz float64 // > 0
	MaxFreqHz float64 // > MinFreqHz
	Feedback  float64 // [-0.99, 0.99]
	Mix       float64 // [0, 1]
}

// Validate checks the phaser parameters against their documented ranges.
func (s PhaserSpec) Validate() error {
	if s.Stages < minPhaserStages || s.Stages > maxPhaserStages {
		return core.Paramf("phaser.stages", "must be in [%d, %d]: %d", minPhaserStages, maxPhaserStages, s.Stages)
	}

	if s.RateHz <= 0 || s.RateHz > maxPhaserRateHz || !core.IsFinite(s.RateHz) {
		return core.Paramf("phaser.rate", "must be in (0, %g] Hz: %f", maxPhaserRateHz, s.RateHz)
	}

	if s.MinFreqHz <= 0 || !core.IsFinite(s.MinFreqHz) {
		return core.Paramf("phaser.minFreq", "must be > 0 and finite: %f", s.MinFreqHz)
	}

	if s.MaxFreqHz <= s.MinFreqHz || !core.IsFinite(s.MaxFreqHz) {
		return core.Paramf("phaser.maxFreq", "must be > min frequency: min=%f max=%f", s.MinFreqHz, s.MaxFreqHz)
	}

	if s.Feedback < -maxPhaserFeedback || s.Feedback > maxPhaserFeedback || !core.IsFinite(s.Feedback) {
		return core.Paramf("phaser.feedback", "must be in [-%g, %g]: %f", maxPhaserFeedback, maxPhaserFeedback, s.Feedback)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("phaser.mix", "must be in [0, 1]: %f", s.Mix)
	}

	return nil
}

type phaserAllpassStage struct {
	x1 float64
	y1 float64
}

func (st *phaserAllpassStage) process(x, a float64) float64 {
	y := a*x + st.x1 - a*st.y1
	st.x1 = x
	st.y1 = core.FlushDenormals(y)

	return y
}

type phaserChannel struct {
	stages   []phaserAllpassStage
	lastWet  float64
	feedback float64
}

func (ch *phaserChannel) process(input, a float64) float64 {
	x := input + ch.lastWet*ch.feedback

	for i := range ch.stages {
		x = ch.stages[i].process(x, a)
	}

	ch.lastWet = x

	return x
}

func (s PhaserSpec) process(left, right []float64, sampleRate float64) error {
	chL := &phaserChannel{stages: make([]phaserAllpassStage, s.Stages), feedback: s.Feedback}
	chR := &phaserChannel{stages: make([]phaserAllpassStage, s.Stages), feedback: s.Feedback}

	maxFreq := s.MaxFreqHz
	if limit := sampleRate * phaserNyquistSafetyRatio; maxFreq > limit {
		maxFreq = limit
	}

	minFreq := s.MinFreqHz
	if minFreq > maxFreq {
		minFreq = maxFreq
	}

	phaseStep := s.RateHz / sampleRate
	phase := 0.0

	for i := range left {
		// Shared LFO sweeps the allpass corner geometrically between the
		// frequency bounds.
		sweep := 0.5 * (1 + math.Sin(2*math.Pi*phase))
		freq := minFreq * math.Pow(maxFreq/minFreq, sweep)

		tan := math.Tan(math.Pi * freq / sampleRate)
		a := (tan - 1) / (tan + 1)

		wetL := chL.process(left[i], a)
		wetR := chR.process(right[i], a)

		left[i] = left[i]*(1-s.Mix) + wetL*s.Mix
		right[i] = right[i]*(1-s.Mix) + wetR*s.Mix

		phase += phaseStep
		if phase >= 1 {
			phase--
		}
	}

	return nil
}
