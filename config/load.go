// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: ORBSCAPE_AUDIO_SAMPLE_RATE for
// audio.sample_rate.
const EnvPrefix = "orbscape"

// LoadEnv loads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// NewViper reads configFile, or orbscape.yaml from the working directory
// when configFile is empty, and binds ORBSCAPE_* variables.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("orbscape")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load overlays every key set in v on Default and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v.IsSet("audio.sample_rate") {
		cfg.Audio.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("audio.channels") {
		cfg.Audio.Channels = v.GetInt("audio.channels")
	}
	if v.IsSet("audio.buffer") {
		cfg.Audio.Buffer = v.GetDuration("audio.buffer")
	}

	if v.IsSet("spatial.max_distance") {
		cfg.Spatial.MaxDistance = v.GetFloat64("spatial.max_distance")
	}
	if v.IsSet("spatial.units_per_distance") {
		cfg.Spatial.UnitsPerDistance = v.GetFloat64("spatial.units_per_distance")
	}
	if v.IsSet("spatial.listener.x") {
		cfg.Spatial.Listener.X = float32(v.GetFloat64("spatial.listener.x"))
	}
	if v.IsSet("spatial.listener.y") {
		cfg.Spatial.Listener.Y = float32(v.GetFloat64("spatial.listener.y"))
	}
	if v.IsSet("spatial.listener.z") {
		cfg.Spatial.Listener.Z = float32(v.GetFloat64("spatial.listener.z"))
	}

	if v.IsSet("engine.queue_ahead") {
		cfg.Engine.QueueAhead = v.GetInt("engine.queue_ahead")
	}
	if v.IsSet("engine.max_voices") {
		cfg.Engine.MaxVoices = v.GetInt("engine.max_voices")
	}

	if v.IsSet("assets.dir") {
		cfg.Assets.Dir = v.GetString("assets.dir")
	}
	if v.IsSet("assets.watch") {
		cfg.Assets.Watch = v.GetBool("assets.watch")
	}

	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
