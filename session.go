// SPDX-License-Identifier: EPL-2.0

package orbscape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/config"
	"github.com/ik5/orbscape/engine"
	"github.com/ik5/orbscape/formats/wav"
	"github.com/ik5/orbscape/geom"
	"github.com/ik5/orbscape/sink"
	"github.com/ik5/orbscape/spatial"
	"github.com/ik5/orbscape/utils"
)

// renderBlock is the step of offline rendering.
const renderBlock = 10 * time.Millisecond

// Session owns one soundscape from NewSession to Close.
type Session struct {
	cfg    config.Config
	logger *log.Logger
	fsys   fs.FS

	library  *clip.Library
	mixer    *sink.Mixer
	source   sampleReader
	registry *engine.Registry
	mapper   *spatial.Mapper

	mtx       sync.Mutex
	output    *sink.Output
	stopWatch func() error
	closed    bool
}

// sampleReader is the render side of the mixer.
type sampleReader interface {
	ReadSamples(dst []float32) (int, error)
}

type Option func(*Session)

// WithFS reads clips from fsys instead of cfg.Assets.Dir.
func WithFS(fsys fs.FS) Option {
	return func(s *Session) { s.fsys = fsys }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func NewSession(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = cfg.Logger()
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(cfg.Assets.Dir)
	}

	lib, err := clip.NewLibrary(s.fsys, cfg.Format(), clip.WithLogger(s.logger.WithPrefix("clip")))
	if err != nil {
		return nil, fmt.Errorf("creating clip library: %w", err)
	}
	mix, err := sink.NewMixer(cfg.Format(),
		sink.WithMaxVoices(cfg.Engine.MaxVoices),
		sink.WithMixerLogger(s.logger.WithPrefix("mixer")))
	if err != nil {
		return nil, fmt.Errorf("creating mixer: %w", err)
	}

	s.library = lib
	s.mixer = mix
	s.source = mix
	s.registry = engine.New(lib, mix,
		engine.WithQueueAhead(cfg.Engine.QueueAhead),
		engine.WithRenderBlock(max(cfg.Audio.Buffer, renderBlock)),
		engine.WithLogger(s.logger.WithPrefix("engine")))
	s.mapper = spatial.New(s.registry,
		spatial.WithListener(cfg.Spatial.Listener),
		spatial.WithMaxDistance(cfg.Spatial.MaxDistance),
		spatial.WithUnitsPerDistance(cfg.Spatial.UnitsPerDistance))

	s.logger.Info("session created", "format", cfg.Format().String(), "max_distance", cfg.Spatial.MaxDistance)
	return s, nil
}

// Start opens the audio device and, if configured, watches the assets
// directory for changes.
func (s *Session) Start(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	switch {
	case s.closed:
		return ErrSessionClosed
	case s.output != nil:
		return ErrStarted
	}

	out, err := sink.OpenOutput(s.mixer, s.cfg.Format(), s.cfg.Audio.Buffer, s.logger.WithPrefix("output"))
	if err != nil {
		return fmt.Errorf("starting output: %w", err)
	}
	s.output = out

	if s.cfg.Assets.Watch {
		stop, err := s.library.Watch(ctx, s.cfg.Assets.Dir)
		if err != nil {
			s.logger.Warn("asset watching disabled", "dir", s.cfg.Assets.Dir, "err", err)
		} else {
			s.stopWatch = stop
		}
	}

	s.logger.Info("session started")
	return nil
}

// RegisterAndPlay starts key looping clipID at the listener.
func (s *Session) RegisterAndPlay(ctx context.Context, key, clipID string) error {
	if err := s.registry.RegisterAndPlay(ctx, key, clipID); err != nil {
		return err
	}
	s.mapper.ComputeAndApply(key, s.mapper.Listener())
	return nil
}

// UpdateSpatial moves key to a world position.
func (s *Session) UpdateSpatial(key string, world geom.Vec3) {
	s.mapper.ComputeAndApply(key, world)
}

func (s *Session) StopAndRemove(key string) {
	s.registry.StopAndRemove(key)
}

func (s *Session) Library() *clip.Library     { return s.library }
func (s *Session) Registry() *engine.Registry { return s.registry }
func (s *Session) Mapper() *spatial.Mapper    { return s.mapper }
func (s *Session) Format() clip.Format        { return s.cfg.Format() }

// Render mixes d of audio without a device and returns it as interleaved
// 16-bit PCM. each, if not nil, runs with the elapsed time before every
// block.
func (s *Session) Render(d time.Duration, each func(elapsed time.Duration)) ([]int16, error) {
	f := s.cfg.Format()
	pcm := make([]int16, 0, f.Frames(d)*f.Channels)

	err := s.render(d, each, func(block []float32) error {
		for _, v := range block {
			pcm = append(pcm, utils.Float32ToInt16(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pcm, nil
}

// RenderWAV renders like Render and writes the result as a WAV file.
func (s *Session) RenderWAV(w io.Writer, d time.Duration, each func(elapsed time.Duration)) error {
	pcm, err := s.Render(d, each)
	if err != nil {
		return err
	}
	if err := wav.Encode16(w, s.cfg.Audio.SampleRate, s.cfg.Audio.Channels, pcm); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}

func (s *Session) render(d time.Duration, each func(time.Duration), sinkFn func([]float32) error) error {
	s.mtx.Lock()
	closed, device := s.closed, s.output != nil
	s.mtx.Unlock()

	switch {
	case closed:
		return ErrSessionClosed
	case device:
		return ErrDeviceActive
	}

	f := s.cfg.Format()
	total := f.Frames(d)
	step := f.Frames(renderBlock)
	buf := make([]float32, step*f.Channels)

	for done := 0; done < total; done += step {
		if each != nil {
			each(f.FrameDuration(done))
		}

		frames := min(step, total-done)
		n, err := s.source.ReadSamples(buf[:frames*f.Channels])
		// Let completions reschedule before the next block, as a device
		// pacing the render in real time would.
		s.registry.Drain()
		if err != nil {
			return fmt.Errorf("rendering at %v: %w", f.FrameDuration(done), err)
		}

		if err := sinkFn(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

// Close stops every voice, the device and the watcher. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.mtx.Lock()
	if s.closed {
		s.mtx.Unlock()
		return nil
	}
	s.closed = true
	out, stopWatch := s.output, s.stopWatch
	s.mtx.Unlock()

	s.registry.Close()

	var errs []error
	if stopWatch != nil {
		errs = append(errs, stopWatch())
	}
	if out != nil {
		errs = append(errs, out.Close())
	}
	errs = append(errs, s.mixer.Close())

	s.logger.Info("session closed", "live_clips", s.library.Live())
	return errors.Join(errs...)
}
