// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ik5/orbscape"
	"github.com/spf13/cobra"
)

func newRenderCmd(root *rootFlags) *cobra.Command {
	var (
		specs    []string
		m        motion
		duration time.Duration
		out      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render orbs to a WAV file without an audio device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orbs, err := parseOrbs(specs)
			if err != nil {
				return err
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}

			s, err := orbscape.NewSession(cfg, orbscape.WithLogger(cfg.Logger()))
			if err != nil {
				return err
			}
			defer s.Close()

			if err := startOrbs(cmd.Context(), s, orbs); err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}

			err = s.RenderWAV(f, duration, func(elapsed time.Duration) {
				m.apply(s, orbs, elapsed)
			})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			info, err := os.Stat(out)
			if err != nil {
				return fmt.Errorf("stat output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %v of %s, %s\n",
				out, duration, cfg.Format(), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&specs, "orb", nil, "orb as key=clip@x,y,z (repeatable)")
	cmd.Flags().BoolVar(&m.orbit, "orbit", false, "circle every orb around the listener")
	cmd.Flags().DurationVar(&m.period, "period", 8*time.Second, "time for one orbit")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "length of the mix")
	cmd.Flags().StringVarP(&out, "out", "o", "mix.wav", "output WAV file")
	return cmd
}
