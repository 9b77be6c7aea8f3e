// SPDX-License-Identifier: EPL-2.0

// Package config holds the tunables of a soundscape session and loads them
// from a config file, ORBSCAPE_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Audio   AudioConfig
	Spatial SpatialConfig
	Engine  EngineConfig
	Assets  AssetsConfig
	Log     LogConfig
}

type AudioConfig struct {
	SampleRate int
	Channels   int
	// Buffer is the device buffer duration handed to oto.
	Buffer time.Duration
}

type SpatialConfig struct {
	MaxDistance      float64
	UnitsPerDistance float64
	Listener         geom.Vec3
}

type EngineConfig struct {
	QueueAhead int
	MaxVoices  int
}

type AssetsConfig struct {
	Dir   string
	Watch bool
}

type LogConfig struct {
	Level string
}

func Default() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: 48000,
			Channels:   2,
			Buffer:     40 * time.Millisecond,
		},
		Spatial: SpatialConfig{
			MaxDistance:      5.0,
			UnitsPerDistance: 1.0,
		},
		Engine: EngineConfig{
			QueueAhead: 2,
			MaxVoices:  64,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Format is the PCM layout clips are decoded to and the mixer renders.
func (c Config) Format() clip.Format {
	return clip.Format{SampleRate: c.Audio.SampleRate, Channels: c.Audio.Channels}
}

func (c Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("%w: sample rate %d outside 8000-192000", ErrInvalidConfig, c.Audio.SampleRate)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("%w: %d channels, want 1 or 2", ErrInvalidConfig, c.Audio.Channels)
	}
	if c.Audio.Buffer < 0 {
		return fmt.Errorf("%w: negative audio buffer %v", ErrInvalidConfig, c.Audio.Buffer)
	}
	if !positive(c.Spatial.MaxDistance) {
		return fmt.Errorf("%w: max distance must be positive, got %v", ErrInvalidConfig, c.Spatial.MaxDistance)
	}
	if !positive(c.Spatial.UnitsPerDistance) {
		return fmt.Errorf("%w: units per distance must be positive, got %v", ErrInvalidConfig, c.Spatial.UnitsPerDistance)
	}
	if c.Engine.QueueAhead < 1 {
		return fmt.Errorf("%w: queue ahead must be at least 1, got %d", ErrInvalidConfig, c.Engine.QueueAhead)
	}
	if c.Engine.MaxVoices < 1 {
		return fmt.Errorf("%w: max voices must be at least 1, got %d", ErrInvalidConfig, c.Engine.MaxVoices)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

// Logger builds the root logger for the configured level.
func (c Config) Logger() *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
	})
}
