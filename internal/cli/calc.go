// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
	"github.com/katalvlaran/tasreso/units"
)

func newCalcCmd(deps *Dependencies, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "calc h k l E",
		Short: "Resolution matrix at one scattering position",
		Long: `Computes the resolution at (h k l) and energy transfer E in meV and
prints the matrix, the prefactor R0, the ellipsoid volume, the Bragg widths
in 1/A and rlu, and the incoherent (vanadium) widths.`,
		Args: cobra.ExactArgs(4),
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
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "%s %v: %s\n", e.fail.Sprint("FAILED"), p, r.First().Err)
				return err
			}
			o, _ := e.session.Orientation()
			printResolved(out, e, r, o)

			return nil
		},
	}
}

// kinematicsOf picks the scattering triangle of the variant r was computed with.
func kinematicsOf(r *tas.Resolved) (ki, kf, q units.Wavenumber, twoTheta units.Angle) {
	switch r.Algo {
	case reso.AlgoViol:
		return r.TOF.Ki, r.TOF.Kf, r.TOF.Q, r.TOF.TwoTheta
	case reso.AlgoSimple:
		return r.Simple.Ki, r.Simple.Kf, r.Simple.Q, r.Simple.TwoTheta
	}
	return r.TAS.Ki, r.TAS.Kf, r.TAS.Q, r.TAS.TwoTheta
}

func printResolved(w io.Writer, e *env, r *tas.Resolved, o tas.Orientation) {
	res := r.First()
	ki, kf, q, tt := kinematicsOf(r)

	fmt.Fprintf(w, "%s %v [%s]\n", e.ok.Sprint("OK"), r.Point, r.Algo)
	fmt.Fprintf(w, "Q = %.4f 1/A, ki = %.4f 1/A, kf = %.4f 1/A, 2theta = %.3f deg\n",
		q.PerAngstrom(), ki.PerAngstrom(), kf.PerAngstrom(), tt.Deg())

	labels := ellipse.Labels(ellipse.CoordQAvg, false)
	e.head.Fprintln(w, "Resolution matrix:")
	for i := 0; i < 4; i++ {
		fmt.Fprintf(w, "  %12.5g %12.5g %12.5g %12.5g   %s\n",
			res.Reso[i][0], res.Reso[i][1], res.Reso[i][2], res.Reso[i][3], labels[i])
	}
	fmt.Fprintf(w, "R0 = %.6g, volume = %.6g meV/A^3\n", res.R0, res.ResVol)

	e.head.Fprintln(w, "Bragg FWHMs:")
	fmt.Fprintf(w, "  Q_para = %.5g 1/A, Q_ortho = %.5g 1/A, Q_z = %.5g 1/A, E = %.5g meV\n",
		res.BraggFWHMs[0], res.BraggFWHMs[1], res.BraggFWHMs[2], res.BraggFWHMs[3])
	rlu := ellipse.ConvLabToRLU(r.AngleQVec0, o.UB, o.UBInv, res.Reso, res.ResoV, res.QAvg).BraggFWHMs()
	fmt.Fprintf(w, "  h = %.5g rlu, k = %.5g rlu, l = %.5g rlu\n", rlu[0], rlu[1], rlu[2])

	fwhmQ, fwhmE, err := ellipse.VanadiumFWHMs(res.Reso, res.ResoV, res.ResoS, res.QAvg)
	if err != nil {
		fmt.Fprintf(w, "Vanadium FWHMs: %v\n", err)
	} else {
		fmt.Fprintf(w, "Vanadium FWHMs: Q = %.5g 1/A, E = %.5g meV\n", fwhmQ, fwhmE)
	}
	if n := len(r.Results); n > 1 {
		failed := 0
		for _, p := range r.Results[1:] {
			if !p.Ok {
				failed++
			}
		}
		fmt.Fprintf(w, "Sample positions: %d (%d failed)\n", n, failed)
	}
}
