package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
)

func TestBitcrushQuantizesToLevels(t *testing.T) {
	spec := BitcrushSpec{Bits: 2, Downsample: 1, Mix: 1}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	left := []float64{0.3, 0.6, -0.3, 0.1, -0.9}
	right := append([]float64(nil), left...)

	if err := spec.process(left, right, 44100); err != nil {
		t.Fatalf("process: %v", err)
	}

	// 2 bits quantizes to multiples of 1/2.
	want := []float64{0.5, 0.5, -0.5, 0, -1}
	for i := range left {
		if math.Abs(left[i]-want[i]) > 1e-12 {
			t.Errorf("left[%d] = %v, want %v", i, left[i], want[i])
		}
	}
}

func TestBitcrushHoldsBetweenCaptures(t *testing.T) {
	spec := BitcrushSpec{Bits: 16, Downsample: 4, Mix: 1}

	left := make([]float64, 16)
	right := make([]float64, 16)
	for i := range left {
		left[i] = float64(i) / 16
		right[i] = left[i]
	}

	if err := spec.process(left, right, 44100); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		held := float64(i-i%4) / 16
		if math.Abs(left[i]-held) > 1e-4 {
			t.Errorf("left[%d] = %v, want held value %v", i, left[i], held)
		}
	}
}

func TestBitcrushFullDepthIsNearTransparent(t *testing.T) {
	const sampleRate = 44100.0

	spec := BitcrushSpec{Bits: 16, Downsample: 1, Mix: 1}

	left := make([]float64, 1024)
	right := make([]float64, 1024)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
		right[i] = left[i]
	}

	original := make([]float64, len(left))
	copy(original, left)

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	// Worst-case rounding error of 16-bit quantization.
	maxErr := 1 / math.Exp2(16)
	for i := range left {
		if math.Abs(left[i]-original[i]) > maxErr {
			t.Fatalf("left[%d] error %v exceeds %v", i, math.Abs(left[i]-original[i]), maxErr)
		}
	}
}

func TestBitcrushValidateRejectsOutOfRange(t *testing.T) {
	cases := []BitcrushSpec{
		{Bits: 0.5, Downsample: 1},
		{Bits: 17, Downsample: 1},
		{Bits: 8, Downsample: 0.5},
		{Bits: 8, Downsample: 300},
		{Bits: 8, Downsample: 1, Mix: -0.1},
		{Bits: 8, Downsample: 1, Mix: 1.1},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
