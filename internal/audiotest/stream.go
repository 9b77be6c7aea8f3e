// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fakes shared by package tests: generated streams,
// WAV fixtures, a recording output graph and a controllable clip source.
package audiotest

import (
	"bytes"
	"io"
	"math"

	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/formats/wav"
)

// MockStream generates audio from a waveform function.
type MockStream struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame int, channel int) float32
}

func NewMockStream(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockStream {
	return &MockStream{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func NewSilentStream(sampleRate, channels, totalFrames int) *MockStream {
	return NewConstantStream(sampleRate, channels, totalFrames, 0)
}

func NewConstantStream(sampleRate, channels, totalFrames int, value float32) *MockStream {
	return NewMockStream(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

func NewSineStream(sampleRate, channels, totalFrames int, frequency float64) *MockStream {
	return NewMockStream(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func (m *MockStream) SampleRate() int { return m.sampleRate }
func (m *MockStream) Channels() int   { return m.channels }
func (m *MockStream) Close() error    { return nil }

func (m *MockStream) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}
	m.generated += frames

	return frames * m.channels, nil
}

// StreamDecoder ignores its input and decodes a constant 0.5 stream. Zero
// fields default to 8000 Hz mono, 800 frames. A non-nil Err is returned
// from Decode instead.
type StreamDecoder struct {
	SampleRate int
	Channels   int
	Frames     int
	Err        error
}

func (d StreamDecoder) Decode(io.Reader) (audio.Stream, error) {
	if d.Err != nil {
		return nil, d.Err
	}

	rate, ch, frames := d.SampleRate, d.Channels, d.Frames
	if rate == 0 {
		rate = 8000
	}
	if ch == 0 {
		ch = 1
	}
	if frames == 0 {
		frames = 800
	}
	return NewConstantStream(rate, ch, frames, 0.5), nil
}

// SineWAV returns a 16-bit PCM WAV file holding a sine tone.
func SineWAV(sampleRate, channels, frames int, frequency float64) []byte {
	samples := make([]int16, frames*channels)
	for f := range frames {
		v := math.Sin(2 * math.Pi * frequency * float64(f) / float64(sampleRate))
		for c := range channels {
			samples[f*channels+c] = int16(v * 16000)
		}
	}

	var buf bytes.Buffer
	if err := wav.Encode16(&buf, sampleRate, channels, samples); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
