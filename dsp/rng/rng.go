// Package rng provides the deterministic pseudo-random streams used by noise
// generators. Every stream is derived from a single 32-bit base seed through
// a cryptographic mix, so independent sub-generators never share state and
// adding or reordering layers cannot perturb another layer's randomness.
package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// Stream is a PCG-XSH-RR 32-bit generator. The 32-bit seed is expanded into
// the full 64-bit state and increment with one SplitMix64 round each, so the
// expansion is fully documented rather than implementation-defined. Streams
// are cheap to create and must not be shared between goroutines.
type Stream struct {
	state uint64
	inc   uint64
}

const (
	pcgMultiplier   = 6364136223846793005
	splitmix64Gamma = 0x9E3779B97F4A7C15
)

func splitmix64(x uint64) uint64 {
	x += splitmix64Gamma
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB

	return x ^ (x >> 31)
}

// New creates a stream from a 32-bit seed.
func New(seed uint32) *Stream {
	s := &Stream{
		state: splitmix64(uint64(seed)),
		inc:   splitmix64(uint64(seed)+splitmix64Gamma) | 1,
	}
	// Advance once so the first output depends on both state and increment.
	s.Uint32()

	return s
}

// Uint32 returns the next 32-bit value in the stream.
func (s *Stream) Uint32() uint32 {
	old := s.state
	s.state = old*pcgMultiplier + s.inc

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)

	return (xorshifted >> rot) | (xorshifted << ((32 - rot) & 31))
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint32()) * (1.0 / 4294967296.0)
}

// Bipolar returns the next value in [-1, 1).
func (s *Stream) Bipolar() float64 {
	return s.Float64()*2 - 1
}

// DeriveSeed mixes a base seed and a string discriminant into an independent
// 32-bit seed. Identical inputs always yield identical output; distinct
// discriminants yield statistically independent streams. The mix is the first
// four bytes (little-endian) of SHA-256 over the little-endian base seed
// followed by the discriminant bytes.
func DeriveSeed(base uint32, discriminant string) uint32 {
	h := sha256.New()

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], base)
	h.Write(buf[:])
	h.Write([]byte(discriminant))

	sum := h.Sum(nil)

	return binary.LittleEndian.Uint32(sum[:4])
}

// DeriveLayerSeed derives the seed for the layer at the given index.
func DeriveLayerSeed(base uint32, index int) uint32 {
	return DeriveSeed(base, "layer:"+strconv.Itoa(index))
}
