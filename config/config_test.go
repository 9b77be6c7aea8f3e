// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
	"github.com/spf13/viper"
)

func TestDefault_Valid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Spatial.MaxDistance != 5.0 || cfg.Engine.QueueAhead != 2 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Format() != (clip.Format{SampleRate: 48000, Channels: 2}) {
		t.Errorf("Format() = %v", cfg.Format())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"low rate", func(c *Config) { c.Audio.SampleRate = 4000 }},
		{"high rate", func(c *Config) { c.Audio.SampleRate = 384000 }},
		{"surround", func(c *Config) { c.Audio.Channels = 6 }},
		{"no channels", func(c *Config) { c.Audio.Channels = 0 }},
		{"negative buffer", func(c *Config) { c.Audio.Buffer = -time.Millisecond }},
		{"zero distance", func(c *Config) { c.Spatial.MaxDistance = 0 }},
		{"nan distance", func(c *Config) { c.Spatial.MaxDistance = math.NaN() }},
		{"infinite distance", func(c *Config) { c.Spatial.MaxDistance = math.Inf(1) }},
		{"negative scale", func(c *Config) { c.Spatial.UnitsPerDistance = -100 }},
		{"zero queue", func(c *Config) { c.Engine.QueueAhead = 0 }},
		{"zero voices", func(c *Config) { c.Engine.MaxVoices = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoad_Overlay(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("audio.sample_rate", 44100)
	v.Set("audio.channels", 1)
	v.Set("audio.buffer", "80ms")
	v.Set("spatial.max_distance", 8.5)
	v.Set("spatial.units_per_distance", 100)
	v.Set("spatial.listener.x", 1)
	v.Set("spatial.listener.z", -2)
	v.Set("engine.queue_ahead", 3)
	v.Set("engine.max_voices", 12)
	v.Set("assets.dir", "/srv/sounds")
	v.Set("assets.watch", true)
	v.Set("log.level", "debug")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Audio:   AudioConfig{SampleRate: 44100, Channels: 1, Buffer: 80 * time.Millisecond},
		Spatial: SpatialConfig{MaxDistance: 8.5, UnitsPerDistance: 100, Listener: geom.V(1, 0, -2)},
		Engine:  EngineConfig{QueueAhead: 3, MaxVoices: 12},
		Assets:  AssetsConfig{Dir: "/srv/sounds", Watch: true},
		Log:     LogConfig{Level: "debug"},
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Logger().GetLevel() != log.DebugLevel {
		t.Errorf("Logger() level = %v, want debug", cfg.Logger().GetLevel())
	}
}

func TestLoad_UnsetKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(empty) = %+v, want defaults", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("engine.queue_ahead", 0)
	if _, err := Load(v); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalidConfig)
	}
}

func TestNewViper_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orbscape.yaml")
	data := []byte("spatial:\n  max_distance: 3\n  units_per_distance: 100\nassets:\n  dir: clips\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spatial.MaxDistance != 3 || cfg.Spatial.UnitsPerDistance != 100 || cfg.Assets.Dir != "clips" {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("NewViper(missing file) error = nil")
	}
}

func TestNewViper_Env(t *testing.T) {
	t.Setenv("ORBSCAPE_ENGINE_QUEUE_AHEAD", "5")
	t.Setenv("ORBSCAPE_SPATIAL_MAX_DISTANCE", "2.5")

	path := filepath.Join(t.TempDir(), "orbscape.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  queue_ahead: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.QueueAhead != 5 || cfg.Spatial.MaxDistance != 2.5 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "ORBSCAPE_ASSETS_DIR"
	t.Setenv(key, "")
	os.Unsetenv(key)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(key+"=/from/dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadEnv(filepath.Join(dir, "absent.env"), envFile); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv(key); got != "/from/dotenv" {
		t.Errorf("%s = %q, want /from/dotenv", key, got)
	}
}
