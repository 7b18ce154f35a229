package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
)

func TestCompressorReducesOverThresholdByRatio(t *testing.T) {
	const sampleRate = 44100.0

	spec := CompressorSpec{
		ThresholdDB:    -12,
		Ratio:          4,
		AttackSeconds:  0.005,
		ReleaseSeconds: 0.05,
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Steady level at -6 dBFS sits 6 dB over threshold; at ratio 4 the
	// expected gain reduction is 6 * (1 - 1/4) = 4.5 dB.
	const level = 0.5012

	left := make([]float64, 44100)
	right := make([]float64, 44100)
	for i := range left {
		left[i] = level
		right[i] = level
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	gotDB := core.LinearToDB(left[len(left)-1] / level)
	if math.Abs(gotDB-(-4.5)) > 0.3 {
		t.Errorf("settled gain = %.3f dB, want -4.5 dB", gotDB)
	}
}

func TestCompressorPassesBelowThreshold(t *testing.T) {
	spec := CompressorSpec{
		ThresholdDB:    -12,
		Ratio:          8,
		AttackSeconds:  0.001,
		ReleaseSeconds: 0.05,
	}

	// -20 dBFS stays under the threshold, so gain is unity throughout.
	left := make([]float64, 4096)
	right := make([]float64, 4096)
	for i := range left {
		left[i] = 0.1
		right[i] = 0.1
	}

	if err := spec.process(left, right, 44100); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		if left[i] != 0.1 || right[i] != 0.1 {
			t.Fatalf("sample %d modified below threshold: %v / %v", i, left[i], right[i])
		}
	}
}

func TestCompressorAppliesMakeupGain(t *testing.T) {
	spec := CompressorSpec{
		ThresholdDB:    -6,
		Ratio:          4,
		AttackSeconds:  0.001,
		ReleaseSeconds: 0.05,
		MakeupDB:       6,
	}

	left := make([]float64, 512)
	right := make([]float64, 512)
	for i := range left {
		left[i] = 0.1
		right[i] = 0.1
	}

	if err := spec.process(left, right, 44100); err != nil {
		t.Fatalf("process: %v", err)
	}

	want := 0.1 * core.DBToLinear(6)
	for i := range left {
		if math.Abs(left[i]-want) > 1e-12 {
			t.Fatalf("left[%d] = %v, want %v", i, left[i], want)
		}
	}
}

func TestCompressorKeepsChannelsLinked(t *testing.T) {
	const sampleRate = 44100.0

	spec := CompressorSpec{
		ThresholdDB:    -18,
		Ratio:          6,
		AttackSeconds:  0.002,
		ReleaseSeconds: 0.05,
	}

	left := make([]float64, 8192)
	right := make([]float64, 8192)
	for i := range left {
		left[i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/sampleRate)
		right[i] = 0.2 * math.Sin(2*math.Pi*220*float64(i)/sampleRate)
	}

	if err := spec.process(left, right, sampleRate); err != nil {
		t.Fatalf("process: %v", err)
	}

	// A linked detector applies one gain to both channels, so the 4:1
	// amplitude relationship survives compression.
	for i := range left {
		if math.Abs(left[i]-4*right[i]) > 1e-9 {
			t.Fatalf("channel balance shifted at %d: %v vs %v", i, left[i], right[i])
		}
	}
}

func TestCompressorValidateRejectsOutOfRange(t *testing.T) {
	cases := []CompressorSpec{
		{ThresholdDB: -70, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 0.1},
		{ThresholdDB: 1, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 0.1},
		{ThresholdDB: -12, Ratio: 0.5, AttackSeconds: 0.01, ReleaseSeconds: 0.1},
		{ThresholdDB: -12, Ratio: 25, AttackSeconds: 0.01, ReleaseSeconds: 0.1},
		{ThresholdDB: -12, Ratio: 2, AttackSeconds: 0, ReleaseSeconds: 0.1},
		{ThresholdDB: -12, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 10},
		{ThresholdDB: -12, Ratio: 2, AttackSeconds: 0.01, ReleaseSeconds: 0.1, MakeupDB: 30},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
