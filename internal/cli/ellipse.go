// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tasreso/ellipse"
)

func newEllipseCmd(deps *Dependencies, opts *options) *cobra.Command {
	var coords string
	cmd := &cobra.Command{
		Use:   "ellipse h k l E",
		Short: "Standard 2D and 3D views of the resolution ellipsoid",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseHKLE(args)
			if err != nil {
				return err
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
			res := r.First()
			o, _ := e.session.Orientation()

			var conv ellipse.Converted
			var sys ellipse.CoordSys
			switch strings.ToLower(coords) {
			case "q":
				conv = ellipse.Converted{Reso: res.Reso, V: res.ResoV, QAvg: res.QAvg}
				sys = ellipse.CoordQAvg
			case "rlu":
				conv = ellipse.ConvLabToRLU(r.AngleQVec0, o.UB, o.UBInv, res.Reso, res.ResoV, res.QAvg)
				sys = ellipse.CoordRLU
			case "orient":
				conv = ellipse.ConvLabToRLUOrient(r.AngleQVec0, o.UB, o.UBInv, o.URLU, o.UInvRLU,
					res.Reso, res.ResoV, res.QAvg)
				sys = ellipse.CoordRLUOrient
			default:
				return fmt.Errorf("--coords: unknown frame %q (want q, rlu or orient)", coords)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %v [%s]\n", e.ok.Sprint("OK"), r.Point, r.Algo)
			for _, proj := range ellipse.Projections2D {
				ell, err := proj.CalcConverted(conv, res.ResoS, sys)
				e.head.Fprintf(out, "\n%s\n", proj.Name)
				if err != nil {
					fmt.Fprintf(out, "%s %v\n", e.fail.Sprint("FAILED"), err)
					continue
				}
				fmt.Fprintln(out, ell)
			}

			views, err := ellipse.Standard3D(res)
			if err != nil {
				return err
			}
			e.head.Fprintln(out, "\n3D views (1/A, meV):")
			for i, v := range views {
				fmt.Fprintf(out, "%s: hwhm = (%.4g, %.4g, %.4g), volume = %.4g\n",
					ellipse.Projections3D[i].Name, v.HWHM[0], v.HWHM[1], v.HWHM[2], v.Volume)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&coords, "coords", "q", "2D frame: q, rlu or orient")

	return cmd
}
