package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/lfo"
	"github.com/speccade/audiogen/dsp/osc"
)

func TestDelayImpulseAtConfiguredTime(t *testing.T) {
	const sampleRate = 1000.0

	spec := DelaySpec{TimeMs: 10, Feedback: 0, Mix: 1}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	left := make([]float64, 40)
	right := make([]float64, 40)
	left[0], right[0] = 1, 1

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		want := 0.0
		if i == 10 {
			want = 1
		}

		if math.Abs(left[i]-want) > 1e-9 {
			t.Fatalf("left[%d] = %v, want %v", i, left[i], want)
		}
	}
}

func TestDelayFeedbackDecays(t *testing.T) {
	const sampleRate = 1000.0

	spec := DelaySpec{TimeMs: 10, Feedback: 0.5, Mix: 1}

	left := make([]float64, 60)
	right := make([]float64, 60)
	left[0], right[0] = 1, 1

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	if math.Abs(left[10]-1) > 1e-9 {
		t.Errorf("first echo = %v, want 1", left[10])
	}

	if math.Abs(left[20]-0.5) > 1e-9 {
		t.Errorf("second echo = %v, want 0.5", left[20])
	}

	if math.Abs(left[30]-0.25) > 1e-9 {
		t.Errorf("third echo = %v, want 0.25", left[30])
	}
}

func TestDelayPingPongCrossFeeds(t *testing.T) {
	const sampleRate = 1000.0

	spec := DelaySpec{TimeMs: 10, Feedback: 0.5, Mix: 1, PingPong: true}

	left := make([]float64, 60)
	right := make([]float64, 60)
	left[0] = 1 // impulse on the left only

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	if math.Abs(left[10]-1) > 1e-9 {
		t.Errorf("left first echo = %v, want 1", left[10])
	}

	if math.Abs(right[10]) > 1e-9 {
		t.Errorf("right[10] = %v, want 0 before cross-feed arrives", right[10])
	}

	// The left echo's feedback lands in the right line one period later.
	if math.Abs(right[20]-0.5) > 1e-9 {
		t.Errorf("right cross-fed echo = %v, want 0.5", right[20])
	}
}

func TestDelayTimeModulationStaysClamped(t *testing.T) {
	const sampleRate = 8000.0

	spec := DelaySpec{
		TimeMs:   100,
		Feedback: 0.3,
		Mix:      0.5,
		TimeMod: &lfo.Modulation{
			Waveform: osc.WaveformSine,
			RateHz:   2,
			Depth:    1,
			Target:   lfo.TargetDelayTime,
			Amount:   500,
		},
	}

	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	left := make([]float64, 4000)
	right := make([]float64, 4000)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * float64(i) / 50)
		right[i] = left[i]
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		if !core.IsFinite(left[i]) || !core.IsFinite(right[i]) {
			t.Fatalf("non-finite sample at %d", i)
		}
	}
}

func TestDelayValidateRejectsOutOfRange(t *testing.T) {
	cases := []DelaySpec{
		{TimeMs: 0.5, Mix: 1},
		{TimeMs: 3000, Mix: 1},
		{TimeMs: 100, Feedback: 1.5},
		{TimeMs: 100, Feedback: -0.1},
		{TimeMs: 100, Mix: 2},
		{TimeMs: 100, TimeMod: &lfo.Modulation{RateHz: 1, Depth: 1, Target: lfo.TargetPitch, Amount: 1}},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
