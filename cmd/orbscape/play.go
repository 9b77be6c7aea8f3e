// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/orbscape"
	"github.com/spf13/cobra"
)

// frameRate matches the per-frame position updates of a rendered scene.
const frameRate = 60

func newPlayCmd(root *rootFlags) *cobra.Command {
	var (
		specs    []string
		m        motion
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play orbs through the audio device until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(specs) == 0 {
				return errors.New("play needs at least one --orb")
			}
			orbs, err := parseOrbs(specs)
			if err != nil {
				return err
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger := cfg.Logger()

			s, err := orbscape.NewSession(cfg, orbscape.WithLogger(logger))
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			if err := s.Library().Preload(ctx, clipIDs(orbs)...); err != nil {
				return err
			}
			if err := s.Start(ctx); err != nil {
				return err
			}
			if err := startOrbs(ctx, s, orbs); err != nil {
				return err
			}
			logger.Info("playing", "orbs", len(orbs), "orbit", m.orbit)

			ticker := time.NewTicker(time.Second / frameRate)
			defer ticker.Stop()
			start := time.Now()

			for {
				select {
				case <-ctx.Done():
					logger.Info("stopping")
					return nil
				case now := <-ticker.C:
					m.apply(s, orbs, now.Sub(start))
				}
			}
		},
	}

	cmd.Flags().StringArrayVar(&specs, "orb", nil, "orb as key=clip@x,y,z (repeatable)")
	cmd.Flags().BoolVar(&m.orbit, "orbit", false, "circle every orb around the listener")
	cmd.Flags().DurationVar(&m.period, "period", 8*time.Second, "time for one orbit")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 plays until interrupted)")
	return cmd
}

func clipIDs(orbs []orb) []string {
	ids := make([]string, len(orbs))
	for i, o := range orbs {
		ids[i] = o.clip
	}
	return ids
}
