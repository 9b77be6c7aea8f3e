// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ik5/orbscape"
	"github.com/spf13/cobra"
)

func newClipsCmd(root *rootFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "clips",
		Short: "List clips in the assets directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			s, err := orbscape.NewSession(cfg, orbscape.WithLogger(cfg.Logger()))
			if err != nil {
				return err
			}
			defer s.Close()

			if err := listClips(cmd, s); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			unwatch, err := s.Library().Watch(ctx, cfg.Assets.Dir)
			if err != nil {
				return err
			}
			defer unwatch()

			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, ^C to stop")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and log cache evictions")
	return cmd
}

func listClips(cmd *cobra.Command, s *orbscape.Session) error {
	lib := s.Library()
	ids, err := lib.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}

	for _, id := range ids {
		h, err := lib.Open(cmd.Context(), id)
		if err != nil {
			fmt.Fprintf(w, "%-*s  error: %v\n", width, id, err)
			continue
		}
		c := h.Clip()
		fmt.Fprintf(w, "%-*s  %8s  %s\n", width, id, c.Duration().Round(time.Millisecond), humanize.Bytes(uint64(c.Size())))
		h.Release()
	}

	fmt.Fprintf(w, "%d clips\n", len(ids))
	return nil
}
