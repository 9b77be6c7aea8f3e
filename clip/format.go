// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"fmt"
	"time"
)

// Format describes interleaved float32 PCM.
type Format struct {
	SampleRate int
	Channels   int
}

func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f)
	}
	return nil
}

// FrameDuration converts a frame count to wall time.
func (f Format) FrameDuration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(frames) * int64(time.Second) / int64(f.SampleRate))
}

// Frames converts wall time to a frame count, rounding down.
func (f Format) Frames(d time.Duration) int {
	return int(int64(d) * int64(f.SampleRate) / int64(time.Second))
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz/%dch", f.SampleRate, f.Channels)
}
