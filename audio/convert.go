// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/orbscape/utils"
)

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates in a row.
const maxEmptyReads = 64

// ReadAll drains s into one interleaved buffer. io.EOF is not returned.
func ReadAll(s Stream) ([]float32, error) {
	channels := s.Channels()
	if channels <= 0 || s.SampleRate() <= 0 {
		return nil, ErrInvalidFormat
	}

	buf := make([]float32, 4096*channels)
	out := make([]float32, 0, len(buf))
	empty := 0

	for {
		n, err := s.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
			empty = 0
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, ErrNoProgress
			}
		}
	}

	// Drop a trailing partial frame from a truncated file.
	return out[:len(out)-len(out)%channels], nil
}

// Remix converts interleaved samples from one channel count to another.
// Down-mixing to mono averages every channel, up-mixing from mono copies the
// sample to every output channel, anything else folds input channel i into
// output channel i % to.
func Remix(samples []float32, from, to int) ([]float32, error) {
	if from <= 0 || to <= 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples)%from != 0 {
		return nil, ErrInvalidDstSize
	}
	if from == to {
		return samples, nil
	}

	frames := len(samples) / from
	out := make([]float32, frames*to)

	switch {
	case to == 1:
		inv := 1 / float32(from)
		for f := range frames {
			var sum float32
			for _, v := range samples[f*from : (f+1)*from] {
				sum += v
			}
			out[f] = sum * inv
		}
	case from == 1:
		for f := range frames {
			for c := range to {
				out[f*to+c] = samples[f]
			}
		}
	default:
		counts := make([]float32, to)
		for c := range from {
			counts[c%to]++
		}
		for f := range frames {
			for c := range from {
				out[f*to+c%to] += samples[f*from+c]
			}
			for c := range to {
				if counts[c] > 1 {
					out[f*to+c] /= counts[c]
				} else if counts[c] == 0 {
					// More outputs than inputs: repeat the inputs.
					out[f*to+c] = samples[f*from+c%from]
				}
			}
		}
	}

	return out, nil
}

// Resample converts interleaved samples between sample rates with cubic
// interpolation. Downsampling runs a one-pole low-pass first to tame
// aliasing.
func Resample(samples []float32, channels, from, to int) ([]float32, error) {
	if channels <= 0 || from <= 0 || to <= 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}
	if from == to || len(samples) == 0 {
		return samples, nil
	}

	frames := len(samples) / channels
	src := samples
	if from > to {
		src = lowPass(samples, channels, 0.5)
	}

	outFrames := max(int(int64(frames)*int64(to)/int64(from)), 1)
	out := make([]float32, outFrames*channels)
	step := float64(from) / float64(to)
	last := frames - 1

	at := func(frame, c int) float32 {
		frame = min(max(frame, 0), last)
		return src[frame*channels+c]
	}

	for i := range outFrames {
		pos := float64(i) * step
		i1 := int(pos)
		x := float32(pos - float64(i1))
		for c := range channels {
			out[i*channels+c] = utils.CubicInterpolate(
				at(i1-1, c), at(i1, c), at(i1+1, c), at(i1+2, c), x)
		}
	}

	return out, nil
}

func lowPass(samples []float32, channels int, alpha float32) []float32 {
	out := make([]float32, len(samples))
	state := make([]float32, channels)
	copy(state, samples[:channels])

	for i, v := range samples {
		c := i % channels
		state[c] = alpha*v + (1-alpha)*state[c]
		out[i] = state[c]
	}

	return out
}
