package mix

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// softClipKnee controls how fast the excess above the threshold saturates.
const softClipKnee = 3.0

// Normalize scales the buffer in place so the peak absolute sample equals
// the linear value of headroomDB (e.g. -3 dB gives a peak near 0.708).
// A silent buffer is left unchanged.
func Normalize(buf []float64, headroomDB float64) {
	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return
	}

	gain := core.DBToLinear(headroomDB) / peak
	for i := range buf {
		buf[i] *= gain
	}
}

// NormalizeStereo scales both channels by one shared gain so the stereo
// image is preserved.
func NormalizeStereo(left, right []float64, headroomDB float64) {
	peak := 0.0

	for i := range left {
		if a := math.Abs(left[i]); a > peak {
			peak = a
		}

		if a := math.Abs(right[i]); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return
	}

	gain := core.DBToLinear(headroomDB) / peak

	for i := range left {
		left[i] *= gain
		right[i] *= gain
	}
}

// SoftClip passes |x| <= threshold unchanged and compresses the excess with
// a saturating exponential, keeping the result sign-symmetric, monotonic,
// and strictly below 1.
func SoftClip(x, threshold float64) float64 {
	a := math.Abs(x)
	if a <= threshold {
		return x
	}

	excess := a - threshold
	shaped := threshold + (1-threshold)*(1-math.Exp(-softClipKnee*excess))

	return math.Copysign(shaped, x)
}

// SoftClipBuffer applies SoftClip to every sample in place.
func SoftClipBuffer(buf []float64, threshold float64) {
	for i := range buf {
		buf[i] = SoftClip(buf[i], threshold)
	}
}
