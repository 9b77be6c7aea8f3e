// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/ik5/orbscape/clip"
)

const readyTimeout = 5 * time.Second

// Output plays a 16-bit little-endian PCM reader, normally a Mixer, on the
// default audio device.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
	logger *log.Logger
}

// OpenOutput starts playing src. oto allows one context per process, so
// only one Output may be open at a time.
func OpenOutput(src io.Reader, f clip.Format, buffer time.Duration, logger *log.Logger) (*Output, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default().WithPrefix("output")
	}

	opts := &oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   buffer,
	}

	logger.Debug("opening audio device", "sample_rate", f.SampleRate, "channels", f.Channels, "buffer", buffer)

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(readyTimeout):
		return nil, ErrDeviceTimeout
	}

	player := ctx.NewPlayer(src)
	player.Play()
	logger.Info("audio device ready", "format", f.String())

	return &Output{ctx: ctx, player: player, logger: logger}, nil
}

// Err reports a playback error from the device, if any.
func (o *Output) Err() error { return o.player.Err() }

func (o *Output) Close() error {
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("closing player: %w", err)
	}
	if err := o.ctx.Suspend(); err != nil {
		o.logger.Warn("suspending audio context", "err", err)
	}
	return nil
}
