// Package delay provides the circular delay line shared by the echo, chorus,
// phaser and reverb effects.
package delay

import (
	"math"

	"github.com/speccade/audiogen/dsp/core"
)

// Line is a fixed-size circular delay line. State is uniquely owned by its
// effect instance and allocated fresh per generation call.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size in samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, core.Paramf("delay.size", "must be > 0: %d", size)
	}

	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample and advances the write position.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples behind the write position.
func (d *Line) Read(delaySamples int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	if delaySamples < 0 {
		delaySamples = 0
	}

	if delaySamples >= size {
		delaySamples = size - 1
	}

	readPos := d.writePos - 1 - delaySamples
	if readPos < 0 {
		readPos += size
	}

	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay with linear interpolation between
// the two neighboring samples.
func (d *Line) ReadFractional(delaySamples float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	if delaySamples < 0 {
		delaySamples = 0
	}

	maxDelay := float64(size - 2)
	if delaySamples > maxDelay {
		delaySamples = maxDelay
	}

	whole := int(math.Floor(delaySamples))
	frac := delaySamples - float64(whole)

	a := d.Read(whole)
	b := d.Read(whole + 1)

	return a + (b-a)*frac
}

// Reset clears the line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}
