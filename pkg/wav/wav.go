// Package wav decodes WAV containers into normalized float samples for
// playback, and encodes samples back into WAV for tools and tests.
//
// Only PCM16 payloads are supported; that is the only format the speech
// backend produces. Decoded samples are interleaved frame-major: all channels
// of frame 0, then frame 1, and so on. Playback relies on this layout for
// correct stereo output.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors for malformed or unsupported containers.
var (
	// ErrNotWAV is returned when the bytes are not a RIFF/WAVE container.
	ErrNotWAV = errors.New("wav: not a RIFF/WAVE container")

	// ErrUnsupported is returned for valid WAV with a non-PCM16 payload.
	ErrUnsupported = errors.New("wav: unsupported sample format")

	// ErrTruncated is returned when the container is cut short.
	ErrTruncated = errors.New("wav: truncated container")
)

// Audio is a decoded clip: normalized samples in [-1, 1], frame-major.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

// Duration returns the playback duration in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

const (
	riffHeaderLen  = 12
	chunkHeaderLen = 8
	formatPCM      = 1
)

// Decode parses a WAV container into normalized samples.
func Decode(b []byte) (*Audio, error) {
	if len(b) < riffHeaderLen {
		return nil, ErrNotWAV
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		haveFmt       bool
		data          []byte
	)

	// Walk the chunk list; fmt must precede data.
	off := riffHeaderLen
	for off+chunkHeaderLen <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + chunkHeaderLen
		if size < 0 || body+size > len(b) {
			return nil, ErrTruncated
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrTruncated
			}
			format := int(binary.LittleEndian.Uint16(b[body : body+2]))
			if format != formatPCM {
				return nil, fmt.Errorf("%w: format tag %d", ErrUnsupported, format)
			}
			channels = int(binary.LittleEndian.Uint16(b[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(b[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(b[body+14 : body+16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrNotWAV)
			}
			data = b[body : body+size]
		}

		// Chunks are word-aligned.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || data == nil {
		return nil, ErrTruncated
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, bitsPerSample)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupported, channels, sampleRate)
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768.0
	}

	// Drop a trailing partial frame rather than corrupting channel layout.
	if rem := len(samples) % channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	return &Audio{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}, nil
}

// Encode builds a PCM16 WAV container from frame-major normalized samples.
// Samples outside [-1, 1] are clipped.
func Encode(sampleRate, channels int, samples []float32) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, riffHeaderLen+chunkHeaderLen+16+chunkHeaderLen+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)-chunkHeaderLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], formatPCM)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	byteRate := sampleRate * channels * 2
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(channels*2)) // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                 // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(v))
	}

	return buf
}
