package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/lfo"
)

// WaveshaperCurve selects the shaping transfer function.
type WaveshaperCurve int

const (
	// CurveTanh is smooth hyperbolic-tangent saturation.
	CurveTanh WaveshaperCurve = iota
	// CurveSoftClip is the cubic x - x^3/3 curve saturating at +/-2/3.
	CurveSoftClip
	// CurveHardClip truncates at +/-1.
	CurveHardClip
	// CurveSineFold folds the signal through a sine for harsh timbres.
	CurveSineFold
)

const (
	minWaveshaperDrive = 0.1
	maxWaveshaperDrive = 100.0
)

func validWaveshaperCurve(c WaveshaperCurve) bool {
	return c >= CurveTanh && c <= CurveSineFold
}

// WaveshaperSpec applies per-sample drive into a shaping curve, followed by
// 1/sqrt(drive) makeup gain and a wet/dry mix. DriveMod, when set, modulates
// the drive per sample within [0.1, 100].
type WaveshaperSpec struct {
	Curve    WaveshaperCurve
	Drive    float64 // [0.1, 100]
	Mix      float64 // [0, 1]
	DriveMod *lfo.Modulation
}

// Validate checks the waveshaper parameters against their documented ranges.
func (s WaveshaperSpec) Validate() error {
	if !validWaveshaperCurve(s.Curve) {
		return core.Paramf("waveshaper.curve", "unknown curve: %d", int(s.Curve))
	}

	if s.Drive < minWaveshaperDrive || s.Drive > maxWaveshaperDrive || !core.IsFinite(s.Drive) {
		return core.Paramf("waveshaper.drive", "must be in [%g, %g]: %f", minWaveshaperDrive, maxWaveshaperDrive, s.Drive)
	}

	if s.Mix < 0 || s.Mix > 1 || !core.IsFinite(s.Mix) {
		return core.Paramf("waveshaper.mix", "must be in [0, 1]: %f", s.Mix)
	}

	if s.DriveMod != nil {
		if err := s.DriveMod.Validate(); err != nil {
			return err
		}

		if s.DriveMod.Target != lfo.TargetDistortionDrive {
			return core.Paramf("waveshaper.driveMod", "modulation target must be distortion drive: %d", int(s.DriveMod.Target))
		}
	}

	return nil
}

func shape(curve WaveshaperCurve, x float64) float64 {
	switch curve {
	case CurveTanh:
		return math.Tanh(x)
	case CurveSoftClip:
		if x <= -1 {
			return -2.0 / 3.0
		}

		if x >= 1 {
			return 2.0 / 3.0
		}

		return x - x*x*x/3
	case CurveHardClip:
		return core.Clamp(x, -1, 1)
	case CurveSineFold:
		return math.Sin(x)
	default:
		return x
	}
}

func (s WaveshaperSpec) process(left, right []float64, sampleRate float64) error {
	for i := range left {
		drive := s.Drive
		if s.DriveMod != nil {
			drive = lfo.Apply(lfo.TargetDistortionDrive, s.Drive, s.DriveMod.Offset(i, sampleRate))
		}

		makeup := 1 / math.Sqrt(drive)

		wetL := shape(s.Curve, left[i]*drive) * makeup
		wetR := shape(s.Curve, right[i]*drive) * makeup

		left[i] = left[i]*(1-s.Mix) + wetL*s.Mix
		right[i] = right[i]*(1-s.Mix) + wetR*s.Mix
	}

	return nil
}
