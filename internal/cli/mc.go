// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/mc"
)

type mcFlags struct {
	n      int
	coords string
	center bool
	seed   int64
}

func newMCCmd(deps *Dependencies, opts *options) *cobra.Command {
	mf := &mcFlags{}
	cmd := &cobra.Command{
		Use:   "mc h k l E",
		Short: "Draw Monte-Carlo neutron events from the resolution ellipsoid",
		Long: `Resolves (h k l E) and writes n events per sample position, one
"x y z E" line per event. The first three columns are in rlu, 1/A along the
orientation vectors (angs) or 1/A along (Q_para, Q_ortho, Q_z) (direct).`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseHKLE(args)
			if err != nil {
				return err
			}
			coords, err := parseCoords(mf.coords)
			if err != nil {
				return err
			}
			if mf.n < 1 {
				return fmt.Errorf("-n must be positive, got %d", mf.n)
			}
			ctx := cmdContext(cmd)
			e, err := setup(ctx, deps, opts)
			if err != nil {
				return err
			}

			r, err := e.session.SetHKLE(ctx, p.H, p.K, p.L, p.E)
			if err != nil {
				return err
			}
			mcOpts := r.Opts
			mcOpts.Coords = coords
			mcOpts.Center = mf.center
			seed := mf.seed
			if !cmd.Flags().Changed("seed") {
				seed = e.session.Config().Seed
			}
			events, _, err := r.WithOpts(mcOpts).GenerateMC(ctx, mf.n, seed)
			if err != nil {
				return err
			}
			e.log.Info(ctx, "neutrons generated", map[string]any{
				"point":  p.String(),
				"events": len(events),
				"coords": coords.String(),
			})

			w := bufio.NewWriter(cmd.OutOrStdout())
			labels := mcLabels(coords, mf.center)
			fmt.Fprintf(w, "# %v, %s, %d events\n", p, r.Algo, len(events))
			fmt.Fprintf(w, "# %s\n", strings.Join(labels[:], "; "))
			for _, ev := range events {
				fmt.Fprintf(w, "%.6g %.6g %.6g %.6g\n", ev[0], ev[1], ev[2], ev[3])
			}

			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&mf.n, "neutrons", "n", 10000, "events per sample position")
	cmd.Flags().StringVar(&mf.coords, "coords", "rlu", "event frame: rlu, angs or direct")
	cmd.Flags().BoolVar(&mf.center, "center", false, "leave out the ellipsoid centre")
	cmd.Flags().Int64Var(&mf.seed, "seed", 0, "random seed (default: the file seed)")

	return cmd
}

func parseCoords(s string) (mc.Coords, error) {
	for _, c := range []mc.Coords{mc.RLU, mc.Angs, mc.Direct} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("--coords: unknown frame %q (want rlu, angs or direct)", s)
}

func mcLabels(c mc.Coords, centred bool) [4]string {
	switch c {
	case mc.RLU:
		return ellipse.Labels(ellipse.CoordRLU, centred)
	case mc.Angs:
		return [4]string{"Q_1 (1/A)", "Q_2 (1/A)", "Q_3 (1/A)", "E (meV)"}
	}
	return ellipse.Labels(ellipse.CoordQAvg, centred)
}
