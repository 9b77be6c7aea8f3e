// SPDX-License-Identifier: EPL-2.0

// Command orbscape plays or renders a soundscape of looping sounds placed
// around a listener.
//
//	orbscape clips --assets ./sounds
//	orbscape play --orb rain=rain.mp3@2,0,-1 --orb wind=wind.ogg@-3,0,0 --orbit
//	orbscape render --orb rain=rain.mp3@0,0,-2 --duration 30s --out mix.wav
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	assetsDir  string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "orbscape",
		Short:         "Place looping sounds around a listener",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default ./orbscape.yaml)")
	cmd.PersistentFlags().StringVar(&flags.assetsDir, "assets", "", "clip directory, overrides assets.dir")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newPlayCmd(&flags), newRenderCmd(&flags), newClipsCmd(&flags))
	return cmd
}

// load resolves configuration: defaults, then the config file, then .env
// and ORBSCAPE_* variables, then command line flags.
func (f *rootFlags) load() (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		log.Warn("ignoring .env", "err", err)
	}

	v, err := config.NewViper(f.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if f.assetsDir != "" {
		v.Set("assets.dir", f.assetsDir)
	}
	if f.debug {
		v.Set("log.level", "debug")
	}

	return config.Load(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("orbscape failed", "err", err)
		os.Exit(1)
	}
}
