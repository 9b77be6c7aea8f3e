// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders (wav, aiff) to
// audio.Stream.
package intpcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the part of a go-audio decoder that Stream needs.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Stream converts integer PCM of a fixed bit depth to float32.
type Stream struct {
	dec        Reader
	format     *goaudio.Format
	sampleRate int
	channels   int
	scale      float32
	offset     int
	buf        *goaudio.IntBuffer
	closer     io.Closer
}

// New wraps dec. unsigned8 marks 8-bit data stored as unsigned bytes, as
// WAV does.
func New(dec Reader, sampleRate, channels, bitDepth int, unsigned8 bool) *Stream {
	s := &Stream{
		dec:        dec,
		format:     &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		sampleRate: sampleRate,
		channels:   channels,
		scale:      1 / fullScale(bitDepth),
	}
	if bitDepth == 8 && unsigned8 {
		s.offset = 128
	}
	return s
}

// CloseWith makes Close also close c.
func (s *Stream) CloseWith(c io.Closer) *Stream {
	s.closer = c
	return s
}

func fullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

func (s *Stream) SampleRate() int { return s.sampleRate }
func (s *Stream) Channels() int   { return s.channels }

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *Stream) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{Data: make([]int, len(dst)), Format: s.format}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) * s.scale
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	if err == io.EOF || n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}
