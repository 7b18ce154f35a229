package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/lfo"
	"github.com/speccade/audiogen/dsp/osc"
)

func TestShapeCurves(t *testing.T) {
	cases := []struct {
		curve WaveshaperCurve
		in    float64
		want  float64
	}{
		{CurveTanh, 0.5, math.Tanh(0.5)},
		{CurveSoftClip, 0.5, 0.5 - 0.125/3},
		{CurveSoftClip, 2, 2.0 / 3.0},
		{CurveSoftClip, -2, -2.0 / 3.0},
		{CurveHardClip, 1.5, 1},
		{CurveHardClip, -1.5, -1},
		{CurveHardClip, 0.25, 0.25},
		{CurveSineFold, math.Pi / 2, 1},
	}

	for i, tc := range cases {
		if got := shape(tc.curve, tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("case %d: shape(%d, %v) = %v, want %v", i, int(tc.curve), tc.in, got, tc.want)
		}
	}
}

func TestShapeCurvesAreOdd(t *testing.T) {
	curves := []WaveshaperCurve{CurveTanh, CurveSoftClip, CurveHardClip, CurveSineFold}
	inputs := []float64{0.1, 0.5, 0.9, 1.5, 3}

	for _, c := range curves {
		for _, x := range inputs {
			if got, want := shape(c, -x), -shape(c, x); math.Abs(got-want) > 1e-12 {
				t.Errorf("curve %d not odd at %v: %v != %v", int(c), x, got, want)
			}
		}
	}
}

func TestWaveshaperBoundedUnderHeavyDrive(t *testing.T) {
	const sampleRate = 44100.0

	for _, c := range []WaveshaperCurve{CurveTanh, CurveSoftClip, CurveHardClip, CurveSineFold} {
		spec := WaveshaperSpec{Curve: c, Drive: 50, Mix: 1}
		if err := spec.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}

		left := make([]float64, 4096)
		right := make([]float64, 4096)
		for i := range left {
			left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
			right[i] = left[i]
		}

		if err := spec.process(left, right, sampleRate); err != nil {
			t.Fatalf("process: %v", err)
		}

		for i := range left {
			if math.Abs(left[i]) > 1 || !core.IsFinite(left[i]) {
				t.Fatalf("curve %d: left[%d] = %v out of bounds", int(c), i, left[i])
			}
		}
	}
}

func TestWaveshaperDryMixPassesThrough(t *testing.T) {
	spec := WaveshaperSpec{Curve: CurveTanh, Drive: 10, Mix: 0}

	left := []float64{0.1, -0.7, 0.9, 0.3}
	right := append([]float64(nil), left...)
	want := append([]float64(nil), left...)

	if err := spec.process(left, right, 44100); err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := range left {
		if left[i] != want[i] {
			t.Errorf("left[%d] = %v, want %v", i, left[i], want[i])
		}
	}
}

func TestWaveshaperDriveModulationStaysFinite(t *testing.T) {
	const sampleRate = 44100.0

	spec := WaveshaperSpec{
		Curve: CurveTanh,
		Drive: 5,
		Mix:   1,
		DriveMod: &lfo.Modulation{
			Waveform: osc.WaveformSine,
			RateHz:   3,
			Depth:    1,
			Target:   lfo.TargetDistortionDrive,
			Amount:   20,
		},
	}

	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

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
		if !core.IsFinite(left[i]) || !core.IsFinite(right[i]) {
			t.Fatalf("non-finite sample at %d", i)
		}
	}
}

func TestWaveshaperValidateRejectsOutOfRange(t *testing.T) {
	cases := []WaveshaperSpec{
		{Curve: WaveshaperCurve(99), Drive: 1},
		{Curve: CurveTanh, Drive: 0.01},
		{Curve: CurveTanh, Drive: 200},
		{Curve: CurveTanh, Drive: 1, Mix: 1.5},
		{Curve: CurveTanh, Drive: 1, DriveMod: &lfo.Modulation{
			Waveform: osc.WaveformSine, RateHz: 1, Depth: 1, Target: lfo.TargetPan, Amount: 1,
		}},
	}

	for i, spec := range cases {
		if err := spec.Validate(); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("case %d: Validate() = %v, want invalid parameter", i, err)
		}
	}
}
