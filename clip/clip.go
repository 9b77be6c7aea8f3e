// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"fmt"
	"time"
)

// Clip is decoded PCM. It is never mutated after New, so one Clip may back
// many handles and be read from the render path without locking.
type Clip struct {
	id      string
	format  Format
	samples []float32
}

// New wraps interleaved samples. The slice is owned by the Clip afterwards.
func New(id string, f Format, samples []float32) (*Clip, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(samples) < f.Channels {
		return nil, fmt.Errorf("%w: %q has no frames", ErrDecode, id)
	}

	return &Clip{
		id:      id,
		format:  f,
		samples: samples[:len(samples)-len(samples)%f.Channels],
	}, nil
}

func (c *Clip) ID() string     { return c.id }
func (c *Clip) Format() Format { return c.format }

// Samples returns the interleaved PCM. Callers must not modify it.
func (c *Clip) Samples() []float32 { return c.samples }

func (c *Clip) Frames() int { return len(c.samples) / c.format.Channels }

func (c *Clip) Duration() time.Duration {
	return c.format.FrameDuration(c.Frames())
}

// Size is the decoded size in bytes.
func (c *Clip) Size() int { return len(c.samples) * 4 }
