package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/speccade/audiogen/dsp/core"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("New(%d) = %v, want invalid parameter", size, err)
		}
	}
}

func TestReadReturnsDelayedSamples(t *testing.T) {
	line, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 1; i <= 8; i++ {
		line.Write(float64(i))
	}

	// Delay 0 is the most recently written sample.
	if got := line.Read(0); got != 8 {
		t.Errorf("Read(0) = %v, want 8", got)
	}

	if got := line.Read(3); got != 5 {
		t.Errorf("Read(3) = %v, want 5", got)
	}

	if got := line.Read(7); got != 1 {
		t.Errorf("Read(7) = %v, want 1", got)
	}
}

func TestReadWrapsAroundBuffer(t *testing.T) {
	line, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 1; i <= 10; i++ {
		line.Write(float64(i))
	}

	if got := line.Read(0); got != 10 {
		t.Errorf("Read(0) = %v, want 10", got)
	}

	if got := line.Read(3); got != 7 {
		t.Errorf("Read(3) = %v, want 7", got)
	}
}

func TestReadFractionalInterpolatesLinearly(t *testing.T) {
	line, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	line.Write(0)
	line.Write(10)
	line.Write(20)

	// Halfway between Read(0)=20 and Read(1)=10.
	if got := line.ReadFractional(0.5); math.Abs(got-15) > 1e-12 {
		t.Errorf("ReadFractional(0.5) = %v, want 15", got)
	}

	// Whole delays match integer reads exactly.
	if got := line.ReadFractional(1); got != line.Read(1) {
		t.Errorf("ReadFractional(1) = %v, want %v", got, line.Read(1))
	}
}

func TestResetClearsState(t *testing.T) {
	line, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	line.Write(1)
	line.Write(2)
	line.Reset()

	for d := 0; d < 4; d++ {
		if got := line.Read(d); got != 0 {
			t.Errorf("Read(%d) after reset = %v, want 0", d, got)
		}
	}
}
