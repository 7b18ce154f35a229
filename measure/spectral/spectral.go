// Package spectral provides magnitude-spectrum analysis for verifying
// rendered assets: which frequency dominates a buffer and how much energy a
// band carries. It backs the oscillator and render tests rather than the
// synthesis path itself.
package spectral

import (
	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/window"
)

// Magnitudes returns the single-sided magnitude spectrum of the signal,
// Hann-windowed and zero-padded to the next power of two. The result holds
// fftSize/2+1 bins from DC to Nyquist.
func Magnitudes(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, core.Paramf("spectral.signal", "must not be empty")
	}

	fftSize := nextPowerOfTwo(len(signal))

	coeffs, err := window.Generate(window.TypeHann, len(signal))
	if err != nil {
		return nil, err
	}

	in := make([]complex128, fftSize)
	for i, s := range signal {
		in[i] = complex(s*coeffs[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	bins := fftSize/2 + 1

	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

// PeakFrequency estimates the dominant frequency of the signal in Hz using
// parabolic interpolation around the strongest bin.
func PeakFrequency(signal []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, core.Paramf("spectral.sampleRate", "must be > 0: %f", sampleRate)
	}

	mags, err := Magnitudes(signal)
	if err != nil {
		return 0, err
	}

	peak := 0
	for i := 1; i < len(mags); i++ {
		if mags[i] > mags[peak] {
			peak = i
		}
	}

	fftSize := 2 * (len(mags) - 1)
	binHz := sampleRate / float64(fftSize)

	// Parabolic refinement over the peak and its neighbors.
	if peak > 0 && peak < len(mags)-1 {
		a, b, c := mags[peak-1], mags[peak], mags[peak+1]

		denom := a - 2*b + c
		if denom != 0 {
			offset := 0.5 * (a - c) / denom
			return (float64(peak) + offset) * binHz, nil
		}
	}

	return float64(peak) * binHz, nil
}

// BandEnergy sums squared magnitudes between lowHz and highHz inclusive.
func BandEnergy(mags []float64, sampleRate float64, lowHz, highHz float64) float64 {
	if len(mags) < 2 || sampleRate <= 0 {
		return 0
	}

	fftSize := 2 * (len(mags) - 1)
	binHz := sampleRate / float64(fftSize)

	energy := 0.0

	for i, m := range mags {
		f := float64(i) * binHz
		if f >= lowHz && f <= highHz {
			energy += m * m
		}
	}

	return energy
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	if size < 2 {
		size = 2
	}

	return size
}
