package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
)

func TestPhaserDryMixPassesThrough(t *testing.T) {
	const sampleRate = 44100.0

	spec := PhaserSpec{Stages: 6, RateHz: 0.5, MinFreqHz: 300, MaxFreqHz: 1600, Feedback: 0.2, Mix: 0}

	left := make([]float64, 1024)
	right := make([]float64, 1024)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	want := make([]float64, len(left))
	copy(want, left)

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		if left[i] != want[i] {
			t.Fatalf("dry mix altered sample %d: %v != %v", i, left[i], want[i])
		}
	}
}

func TestPhaserAltersSignalAndStaysFinite(t *testing.T) {
	const sampleRate = 44100.0

	spec := PhaserSpec{Stages: 6, RateHz: 0.5, MinFreqHz: 300, MaxFreqHz: 1600, Feedback: 0.4, Mix: 0.5}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	left := make([]float64, 22050)
	right := make([]float64, 22050)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 800 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	original := make([]float64, len(left))
	copy(original, left)

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	changed := false

	for i := range left {
		if !core.IsFinite(left[i]) || !core.IsFinite(right[i]) {
			t.Fatalf("non-finite sample at %d", i)
		}

		if left[i] != original[i] {
			changed = true
		}
	}

	if !changed {
		t.Error("phaser with wet mix left the signal untouched")
	}
}

func TestPhaserClampsSweepNearNyquist(t *testing.T) {
	// Max frequency far above Nyquist must not blow up the allpass.
	const sampleRate = 8000.0

	spec := PhaserSpec{Stages: 4, RateHz: 1, MinFreqHz: 100, MaxFreqHz: 20000, Feedback: 0, Mix: 1}

	left := make([]float64, 8000)
	right := make([]float64, 8000)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 500 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		if !core.IsFinite(left[i]) {
			t.Fatalf("non-finite sample at %d", i)
		}
	}
}

func TestPhaserValidateRejectsOutOfRange(t *testing.T) {
	cases := []PhaserSpec{
		{Stages: 0, RateHz: 1, MinFreqHz: 100, MaxFreqHz: 1000},
		{Stages: 13, RateHz: 1, MinFreqHz: 100, MaxFreqHz: 1000},
		{Stages: 4, RateHz: 0, MinFreqHz: 100, MaxFreqHz: 1000},
		{Stages: 4, RateHz: 1, MinFreqHz: 0, MaxFreqHz: 1000},
		{Stages: 4, RateHz: 1, MinFreqHz: 1000, MaxFreqHz: 100},
		{Stages: 4, RateHz: 1, MinFreqHz: 100, MaxFreqHz: 1000, Feedback: 1.5},
		{Stages: 4, RateHz: 1, MinFreqHz: 100, MaxFreqHz: 1000, Mix: 2},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
