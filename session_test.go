// SPDX-License-Identifier: EPL-2.0

package orbscape_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape"
	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/config"
	"github.com/ik5/orbscape/engine"
	"github.com/ik5/orbscape/formats/wav"
	"github.com/ik5/orbscape/geom"
	"github.com/ik5/orbscape/internal/audiotest"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Audio.SampleRate = 8000
	cfg.Audio.Channels = 2
	return cfg
}

func newSession(t *testing.T, cfg config.Config) *orbscape.Session {
	t.Helper()

	assets := fstest.MapFS{
		"rain.wav": {Data: audiotest.SineWAV(8000, 1, 800, 440)},
		"wind.wav": {Data: audiotest.SineWAV(8000, 2, 1200, 220)},
	}
	s, err := orbscape.NewSession(cfg,
		orbscape.WithFS(assets),
		orbscape.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// rms of one channel over interleaved stereo frames.
func rms(pcm []int16, channel int) float64 {
	var sum float64
	n := 0
	for i := channel; i < len(pcm); i += 2 {
		v := float64(pcm[i]) / 32768
		sum += v * v
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

func TestNewSession_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Spatial.MaxDistance = -1
	if _, err := orbscape.NewSession(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewSession() error = %v, want %v", err, config.ErrInvalidConfig)
	}
}

func TestSession_RenderKeepsLooping(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	if err := s.RegisterAndPlay(context.Background(), "orb0", "rain.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}

	pcm, err := s.Render(time.Second, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(pcm) != 8000*2 {
		t.Fatalf("Render() = %d samples, want %d", len(pcm), 8000*2)
	}

	// The clip is 100 ms long; every 100 ms window must carry signal.
	const window = 800 * 2
	for w := 0; w < len(pcm); w += window {
		if rms(pcm[w:w+window], 0) < 0.1 {
			t.Errorf("window at %v ms is silent", w/16)
		}
	}

	if info, _ := s.Registry().Snapshot("orb0"); info.Loops != 10 {
		t.Errorf("Loops = %d, want 10", info.Loops)
	}
}

func TestSession_DistanceAttenuates(t *testing.T) {
	t.Parallel()

	level := func(pos geom.Vec3) float64 {
		s := newSession(t, testConfig())
		if err := s.RegisterAndPlay(context.Background(), "orb", "rain.wav"); err != nil {
			t.Fatalf("RegisterAndPlay() error = %v", err)
		}
		s.UpdateSpatial("orb", pos)

		pcm, err := s.Render(210*time.Millisecond, nil)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		// Skip the first block, which ramps to the new gain.
		return rms(pcm[160:], 1)
	}

	near := level(geom.V(0, 0, -1))
	mid := level(geom.V(0, 0, -3))
	edge := level(geom.V(0, 0, -5))

	if near <= mid || mid <= edge {
		t.Errorf("levels near/mid/edge = %.3f/%.3f/%.3f, want strictly decreasing", near, mid, edge)
	}
	if edge != 0 {
		t.Errorf("level at max distance = %v, want 0", edge)
	}
}

func TestSession_Pan(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	if err := s.RegisterAndPlay(context.Background(), "orb", "rain.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}
	s.UpdateSpatial("orb", geom.V(2, 0, 0))

	pcm, _ := s.Render(110*time.Millisecond, nil)
	left, right := rms(pcm[160:], 0), rms(pcm[160:], 1)
	if left != 0 || right < 0.1 {
		t.Errorf("left/right = %.3f/%.3f, want silent left", left, right)
	}
}

func TestSession_StopAndRemove(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	ctx := context.Background()
	if err := s.RegisterAndPlay(ctx, "orb1", "rain.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}
	if _, err := s.Render(150*time.Millisecond, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	s.StopAndRemove("orb1")
	s.UpdateSpatial("orb1", geom.V(1, 0, 0))

	pcm, _ := s.Render(500*time.Millisecond, nil)
	if rms(pcm, 0) != 0 || rms(pcm, 1) != 0 {
		t.Error("audio after StopAndRemove")
	}
	if s.Library().Live() != 0 {
		t.Errorf("Live() = %d, want 0", s.Library().Live())
	}

	if err := s.RegisterAndPlay(ctx, "orb1", "wind.wav"); err != nil {
		t.Fatalf("re-register error = %v", err)
	}
	if info, _ := s.Registry().Snapshot("orb1"); info.ClipID != "wind.wav" {
		t.Errorf("ClipID = %q, want wind.wav", info.ClipID)
	}
}

func TestSession_RegisterErrors(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	ctx := context.Background()

	if err := s.RegisterAndPlay(ctx, "orb", "missing.wav"); !errors.Is(err, engine.ErrClipNotFound) {
		t.Errorf("missing clip error = %v, want %v", err, engine.ErrClipNotFound)
	}
	if err := s.RegisterAndPlay(ctx, "orb", "rain.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}
	if err := s.RegisterAndPlay(ctx, "orb", "wind.wav"); !errors.Is(err, engine.ErrAlreadyRegistered) {
		t.Errorf("duplicate error = %v, want %v", err, engine.ErrAlreadyRegistered)
	}
}

func TestSession_RenderCallback(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	var calls int
	var last time.Duration
	if _, err := s.Render(95*time.Millisecond, func(elapsed time.Duration) {
		calls++
		last = elapsed
	}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if calls != 10 || last != 90*time.Millisecond {
		t.Errorf("callback calls/last = %d/%v, want 10/90ms", calls, last)
	}
}

func TestSession_RenderWAV(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	if err := s.RegisterAndPlay(context.Background(), "orb", "wind.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}

	var buf bytes.Buffer
	if err := s.RenderWAV(&buf, 500*time.Millisecond, nil); err != nil {
		t.Fatalf("RenderWAV() error = %v", err)
	}

	stream, err := wav.Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decoding rendered wav: %v", err)
	}
	pcm, err := audio.ReadAll(stream)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if stream.SampleRate() != 8000 || stream.Channels() != 2 || len(pcm) != 4000*2 {
		t.Errorf("rendered %d Hz/%dch, %d samples", stream.SampleRate(), stream.Channels(), len(pcm))
	}
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	s := newSession(t, testConfig())
	ctx := context.Background()
	if err := s.RegisterAndPlay(ctx, "orb", "rain.wav"); err != nil {
		t.Fatalf("RegisterAndPlay() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.Library().Live() != 0 {
		t.Errorf("Live() after Close = %d, want 0", s.Library().Live())
	}
	if err := s.RegisterAndPlay(ctx, "orb2", "rain.wav"); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("RegisterAndPlay() after Close error = %v, want %v", err, engine.ErrClosed)
	}
	if _, err := s.Render(time.Second, nil); !errors.Is(err, orbscape.ErrSessionClosed) {
		t.Errorf("Render() after Close error = %v, want %v", err, orbscape.ErrSessionClosed)
	}
	if err := s.Start(ctx); !errors.Is(err, orbscape.ErrSessionClosed) {
		t.Errorf("Start() after Close error = %v, want %v", err, orbscape.ErrSessionClosed)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
