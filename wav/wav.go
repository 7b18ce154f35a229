// Package wav serializes a mixed buffer into a canonical RIFF/WAVE PCM16
// container and content-hashes the sample payload.
//
// The layout is fixed: a 12-byte RIFF header, a 24-byte fmt chunk, an
// 8-byte data chunk header, then the payload. No optional chunks or
// timestamps ever appear, so identical samples always produce identical
// bytes. The hash covers the PCM payload only, never container metadata,
// making it a stable content-address for caching.
package wav

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/speccade/audiogen/dsp/core"
	"github.com/speccade/audiogen/dsp/mix"
)

const (
	riffHeaderBytes = 12
	fmtChunkBytes   = 24
	dataHeaderBytes = 8
	headerBytes     = riffHeaderBytes + fmtChunkBytes + dataHeaderBytes

	bitsPerSample = 16
	formatPCM     = 1
)

// Result is the sole artifact of a generation call, immutable once built.
type Result struct {
	PCM        []byte // complete RIFF container
	Hash       string // hex SHA-256 of the sample payload only
	SampleRate int
	Stereo     bool
	NumSamples int // frames per channel
}

// Duration returns the audio length in seconds.
func (r *Result) Duration() float64 {
	if r.SampleRate == 0 {
		return 0
	}

	return float64(r.NumSamples) / float64(r.SampleRate)
}

// Encode quantizes the mix to 16-bit PCM and wraps it in the canonical
// container. Stereo frames interleave left then right.
func Encode(out *mix.Output, sampleRate int) (*Result, error) {
	if sampleRate <= 0 {
		return nil, core.Paramf("wav.sampleRate", "must be > 0: %d", sampleRate)
	}

	if out == nil {
		return nil, core.MissingRecipef("wav.output", "mixed output must not be nil")
	}

	numSamples := out.NumSamples()
	channels := 1
	if out.Stereo {
		channels = 2

		if len(out.Left) != len(out.Right) {
			return nil, core.Synthf("stereo channel lengths differ: left=%d right=%d", len(out.Left), len(out.Right))
		}
	}

	payload := make([]byte, numSamples*channels*2)

	if out.Stereo {
		for i := 0; i < numSamples; i++ {
			binary.LittleEndian.PutUint16(payload[i*4:], uint16(quantize(out.Left[i])))
			binary.LittleEndian.PutUint16(payload[i*4+2:], uint16(quantize(out.Right[i])))
		}
	} else {
		for i, s := range out.Mono {
			binary.LittleEndian.PutUint16(payload[i*2:], uint16(quantize(s)))
		}
	}

	sum := sha256.Sum256(payload)

	return &Result{
		PCM:        container(payload, sampleRate, channels),
		Hash:       hex.EncodeToString(sum[:]),
		SampleRate: sampleRate,
		Stereo:     out.Stereo,
		NumSamples: numSamples,
	}, nil
}

// quantize maps a float sample to signed 16-bit PCM.
func quantize(s float64) int16 {
	return int16(math.Round(core.Clamp(s, -1, 1) * 32767))
}

func container(payload []byte, sampleRate, channels int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, headerBytes+len(payload))

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(headerBytes-8+len(payload)))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], formatPCM)
	binary.LittleEndian.PutUint16(buf[22:], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(len(payload)))
	copy(buf[headerBytes:], payload)

	return buf
}

// DecodePCM extracts the raw int16 samples from an encoded container.
// It understands only the canonical layout produced by Encode.
func DecodePCM(pcm []byte) ([]int16, error) {
	if len(pcm) < headerBytes {
		return nil, core.Synthf("container too short: %d bytes", len(pcm))
	}

	if string(pcm[0:4]) != "RIFF" || string(pcm[8:12]) != "WAVE" || string(pcm[36:40]) != "data" {
		return nil, core.Synthf("container markers missing")
	}

	payloadLen := int(binary.LittleEndian.Uint32(pcm[40:]))
	if headerBytes+payloadLen > len(pcm) || payloadLen%2 != 0 {
		return nil, core.Synthf("data chunk length %d inconsistent with container size %d", payloadLen, len(pcm))
	}

	payload := pcm[headerBytes : headerBytes+payloadLen]

	samples := make([]int16, payloadLen/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(payload[i*2:]))
	}

	return samples, nil
}
