// Package window generates tapering windows for grain envelopes and FFT
// framing.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/speccade/audiogen/dsp/core"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeTriangle
)

func validType(t Type) bool {
	return t >= TypeRectangular && t <= TypeTriangle
}

// Generate returns the window coefficients for the given length. The
// symmetric form is used, so both end samples taper for every non-trivial
// type.
func Generate(t Type, length int) ([]float64, error) {
	if !validType(t) {
		return nil, core.Paramf("window.type", "unknown type: %d", int(t))
	}

	if length <= 0 {
		return nil, core.Paramf("window.length", "must be > 0: %d", length)
	}

	coeffs := make([]float64, length)

	if length == 1 {
		coeffs[0] = 1
		return coeffs, nil
	}

	for n := range coeffs {
		x := float64(n) / float64(length-1)
		coeffs[n] = at(t, x)
	}

	return coeffs, nil
}

// Apply multiplies buf by the window in place.
func Apply(t Type, buf []float64) error {
	coeffs, err := Generate(t, len(buf))
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// ApplyCoefficients multiplies samples by precomputed coefficients in place.
// The lengths must match.
func ApplyCoefficients(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return core.Synthf("window length %d does not match %d samples", len(coeffs), len(samples))
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// at evaluates the window at normalized position x in [0, 1].
func at(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	case TypeTriangle:
		return 1 - math.Abs(2*x-1)
	default:
		return 1
	}
}
