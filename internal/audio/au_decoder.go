// Package audio decodes Sun/NeXT .au clips into the 16-bit little-endian
// stereo PCM that ebiten's audio package plays.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// AU header encodings this decoder understands.
const (
	EncodingULaw  = 1 // 8-bit G.711 μ-law
	EncodingPCM8  = 2 // 8-bit linear
	EncodingPCM16 = 3 // 16-bit linear, big-endian
)

const (
	auMagic      = 0x2e736e64 // ".snd"
	auHeaderSize = 24
	auSizeAny    = 0xffffffff
)

// Header is the fixed part of an .au file, big-endian on disk.
type Header struct {
	Magic      uint32
	DataOffset uint32
	DataSize   uint32 // auSizeAny when unknown
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

// Stream is a decoded clip: 16-bit little-endian interleaved stereo PCM.
type Stream struct {
	io.ReadSeeker
	length     int64
	sampleRate int
	header     Header
}

// Length returns the stream size in bytes.
func (s *Stream) Length() int64 {
	return s.length
}

// SampleRate returns the rate of the PCM the stream produces.
func (s *Stream) SampleRate() int {
	return s.sampleRate
}

// Header returns the header of the source file.
func (s *Stream) Header() Header {
	return s.header
}

// DecodeWithoutResampling decodes an .au clip at the file's own sample rate.
func DecodeWithoutResampling(r io.Reader) (*Stream, error) {
	h, pcm, err := decode(r)
	if err != nil {
		return nil, err
	}
	return &Stream{
		ReadSeeker: bytes.NewReader(pcm),
		length:     int64(len(pcm)),
		sampleRate: int(h.SampleRate),
		header:     h,
	}, nil
}

// DecodeWithSampleRate decodes an .au clip and resamples it to sampleRate,
// matching the mp3, vorbis and wav decoders of the same name.
func DecodeWithSampleRate(sampleRate int, r io.Reader) (*Stream, error) {
	s, err := DecodeWithoutResampling(r)
	if err != nil {
		return nil, err
	}
	if s.sampleRate == sampleRate {
		return s, nil
	}

	resampled := ebaudio.Resample(s.ReadSeeker, s.length, s.sampleRate, sampleRate)
	length := int64(float64(s.length)*float64(sampleRate)/float64(s.sampleRate)) / 4 * 4
	if l, ok := resampled.(interface{ Length() int64 }); ok {
		length = l.Length()
	}
	return &Stream{
		ReadSeeker: resampled,
		length:     length,
		sampleRate: sampleRate,
		header:     s.header,
	}, nil
}

func decode(r io.Reader) (Header, []byte, error) {
	var h Header
	data, err := io.ReadAll(r)
	if err != nil {
		return h, nil, fmt.Errorf("failed to read AU file: %w", err)
	}
	if len(data) < auHeaderSize {
		return h, nil, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return h, nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if h.Magic != auMagic {
		return h, nil, fmt.Errorf("invalid AU magic number: 0x%08x", h.Magic)
	}
	if h.Channels != 1 && h.Channels != 2 {
		return h, nil, fmt.Errorf("unsupported AU channel count: %d", h.Channels)
	}
	if h.SampleRate == 0 {
		return h, nil, fmt.Errorf("invalid AU sample rate: 0")
	}

	start := int(h.DataOffset)
	if start < auHeaderSize || start > len(data) {
		return h, nil, fmt.Errorf("invalid AU data offset: %d (file size: %d)", start, len(data))
	}
	body := data[start:]
	if h.DataSize != auSizeAny && int(h.DataSize) < len(body) {
		body = body[:h.DataSize]
	}

	var samples []int16
	switch h.Encoding {
	case EncodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = ulawToLinear(b)
		}
	case EncodingPCM8:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = int16(int8(b)) << 8
		}
	case EncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
		}
	default:
		return h, nil, fmt.Errorf("unsupported AU encoding: %d", h.Encoding)
	}

	return h, interleaveStereo(samples, int(h.Channels)), nil
}

// interleaveStereo writes samples as little-endian stereo frames, duplicating
// mono samples into both channels. A trailing partial frame is dropped.
func interleaveStereo(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		l := samples[f*channels]
		r := l
		if channels == 2 {
			r = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(l))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(r))
	}
	return out
}

// ulawToLinear expands one G.711 μ-law byte.
func ulawToLinear(u byte) int16 {
	u = ^u
	exponent := (u >> 4) & 0x07
	mantissa := int(u & 0x0f)
	magnitude := ((mantissa<<3)+0x84)<<exponent - 0x84
	if u&0x80 != 0 {
		return int16(-magnitude)
	}
	return int16(magnitude)
}

// Encode writes mono or stereo 16-bit samples as a linear PCM .au file. It
// is used to produce fixtures and by tools that convert clips.
func Encode(w io.Writer, sampleRate, channels int, samples []int16) error {
	h := Header{
		Magic:      auMagic,
		DataOffset: auHeaderSize,
		DataSize:   uint32(len(samples) * 2),
		Encoding:   EncodingPCM16,
		SampleRate: uint32(sampleRate),
		Channels:   uint32(channels),
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("failed to write AU header: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, samples); err != nil {
		return fmt.Errorf("failed to write AU samples: %w", err)
	}
	return nil
}
