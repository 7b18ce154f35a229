package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
)

func TestChorusZeroDepthIsPureDelay(t *testing.T) {
	const sampleRate = 1000.0

	spec := ChorusSpec{Voices: 1, RateHz: 1, DepthMs: 0, BaseDelayMs: 10, Mix: 0.5}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	left := make([]float64, 40)
	right := make([]float64, 40)
	left[0], right[0] = 1, 1

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	// Dry half at sample 0, wet half 10 samples later.
	if math.Abs(left[0]-0.5) > 1e-9 {
		t.Errorf("left[0] = %v, want 0.5", left[0])
	}

	if math.Abs(left[10]-0.5) > 1e-9 {
		t.Errorf("left[10] = %v, want 0.5", left[10])
	}
}

func TestChorusBoundedForFullMix(t *testing.T) {
	const sampleRate = 44100.0

	spec := ChorusSpec{Voices: 4, RateHz: 0.8, DepthMs: 5, BaseDelayMs: 20, Mix: 1}

	left := make([]float64, 22050)
	right := make([]float64, 22050)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 220 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		// Voices are averaged, so the wet path cannot exceed the input peak
		// by more than interpolation rounding.
		if math.Abs(left[i]) > 1.01 || math.Abs(right[i]) > 1.01 {
			t.Fatalf("sample %d exceeds bounds: %v / %v", i, left[i], right[i])
		}
	}
}

func TestChorusChannelsDecorrelated(t *testing.T) {
	const sampleRate = 44100.0

	spec := ChorusSpec{Voices: 2, RateHz: 1.5, DepthMs: 4, BaseDelayMs: 15, Mix: 1}

	left := make([]float64, 8192)
	right := make([]float64, 8192)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 330 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	diff := 0.0
	for i := range left {
		diff += math.Abs(left[i] - right[i])
	}

	if diff == 0 {
		t.Error("chorus channels identical; expected phase-offset decorrelation")
	}
}

func TestChorusValidateRejectsOutOfRange(t *testing.T) {
	cases := []ChorusSpec{
		{Voices: 0, RateHz: 1, BaseDelayMs: 10},
		{Voices: 9, RateHz: 1, BaseDelayMs: 10},
		{Voices: 2, RateHz: 0, BaseDelayMs: 10},
		{Voices: 2, RateHz: 25, BaseDelayMs: 10},
		{Voices: 2, RateHz: 1, DepthMs: 30, BaseDelayMs: 10},
		{Voices: 2, RateHz: 1, BaseDelayMs: 0.5},
		{Voices: 2, RateHz: 1, BaseDelayMs: 10, Mix: -0.5},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
