// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

// mockStream generates audio data for tests.
type mockStream struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	maxPerRead  int // frames per ReadSamples call, 0 means unlimited
	failAfter   int // return errBoom once this many frames were produced, 0 disables
	waveform    func(frame int, channel int) float32
}

var errBoom = errors.New("boom")

func newMockStream(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *mockStream {
	return &mockStream{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func newConstantStream(sampleRate, channels, totalFrames int, value float32) *mockStream {
	return newMockStream(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

func newSineStream(sampleRate, channels, totalFrames int, frequency float64) *mockStream {
	return newMockStream(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func (m *mockStream) SampleRate() int { return m.sampleRate }
func (m *mockStream) Channels() int   { return m.channels }
func (m *mockStream) Close() error    { return nil }

func (m *mockStream) ReadSamples(dst []float32) (int, error) {
	if m.failAfter > 0 && m.generated >= m.failAfter {
		return 0, errBoom
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.maxPerRead > 0 {
		frames = min(frames, m.maxPerRead)
	}

	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// stalledStream never makes progress.
type stalledStream struct{}

func (stalledStream) SampleRate() int                    { return 8000 }
func (stalledStream) Channels() int                      { return 1 }
func (stalledStream) Close() error                       { return nil }
func (stalledStream) ReadSamples([]float32) (int, error) { return 0, nil }
