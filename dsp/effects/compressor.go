package effects

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

const (
	minCompressorThresholdDB = -60.0
	maxCompressorThresholdDB = 0.0
	minCompressorRatio       = 1.0
	maxCompressorRatio       = 20.0
	minCompressorTimeSeconds = 0.0001
	maxCompressorTimeSeconds = 5.0
	minCompressorMakeupDB    = -24.0
	maxCompressorMakeupDB    = 24.0
)

// CompressorSpec is a stereo-linked RMS compressor. A one-pole envelope
// follower with coefficients exp(-1/(time*sampleRate)) tracks the combined
// channel level; above the threshold the gain is reduced by
// over_db * (1 - 1/ratio), then makeup gain is applied.
type CompressorSpec struct {
	ThresholdDB    float64 // [-60, 0]
	Ratio          float64 // [1, 20]
	AttackSeconds  float64 // [0.0001, 5]
	ReleaseSeconds float64 // [0.0001, 5]
	MakeupDB       float64 // [-24, 24]
}

// Validate checks the compressor parameters against their documented ranges.
func (s CompressorSpec) Validate() error {
	if s.ThresholdDB < minCompressorThresholdDB || s.ThresholdDB > maxCompressorThresholdDB || !core.IsFinite(s.ThresholdDB) {
		return core.Paramf("compressor.threshold", "must be in [%g, %g] dB: %f",
			minCompressorThresholdDB, maxCompressorThresholdDB, s.ThresholdDB)
	}

	if s.Ratio < minCompressorRatio || s.Ratio > maxCompressorRatio || !core.IsFinite(s.Ratio) {
		return core.Paramf("compressor.ratio", "must be in [%g, %g]: %f", minCompressorRatio, maxCompressorRatio, s.Ratio)
	}

	if s.AttackSeconds < minCompressorTimeSeconds || s.AttackSeconds > maxCompressorTimeSeconds || !core.IsFinite(s.AttackSeconds) {
		return core.Paramf("compressor.attack", "must be in [%g, %g] s: %f",
			minCompressorTimeSeconds, maxCompressorTimeSeconds, s.AttackSeconds)
	}

	if s.ReleaseSeconds < minCompressorTimeSeconds || s.ReleaseSeconds > maxCompressorTimeSeconds || !core.IsFinite(s.ReleaseSeconds) {
		return core.Paramf("compressor.release", "must be in [%g, %g] s: %f",
			minCompressorTimeSeconds, maxCompressorTimeSeconds, s.ReleaseSeconds)
	}

	if s.MakeupDB < minCompressorMakeupDB || s.MakeupDB > maxCompressorMakeupDB || !core.IsFinite(s.MakeupDB) {
		return core.Paramf("compressor.makeup", "must be in [%g, %g] dB: %f",
			minCompressorMakeupDB, maxCompressorMakeupDB, s.MakeupDB)
	}

	return nil
}

func (s CompressorSpec) process(left, right []float64, sampleRate float64) error {
	attackCoeff := math.Exp(-1 / (s.AttackSeconds * sampleRate))
	releaseCoeff := math.Exp(-1 / (s.ReleaseSeconds * sampleRate))
	makeupLin := core.DBToLinear(s.MakeupDB)
	reductionFactor := 1 - 1/s.Ratio

	envelope := 0.0

	for i := range left {
		// Stereo-linked RMS of the sample pair keeps both channels under
		// one gain so the image never shifts.
		level := math.Sqrt((left[i]*left[i] + right[i]*right[i]) / 2)

		coeff := releaseCoeff
		if level > envelope {
			coeff = attackCoeff
		}

		envelope = core.FlushDenormals(level + coeff*(envelope-level))

		gain := 1.0

		if envelope > 0 {
			overDB := core.LinearToDB(envelope) - s.ThresholdDB
			if overDB > 0 {
				gain = core.DBToLinear(-overDB * reductionFactor)
			}
		}

		left[i] *= gain * makeupLin
		right[i] *= gain * makeupLin
	}

	return nil
}
