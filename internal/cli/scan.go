// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tasreso/tas"
)

type scanFlags struct {
	from, to string
	steps    int
	workers  int
	metrics  bool
}

func newScanCmd(deps *Dependencies, opts *options) *cobra.Command {
	sf := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Resolve a linear scan of positions",
		Long: `Resolves the points of a linear scan in parallel. Without --from the
scan section of the instrument file is used. Failed points are listed and
do not stop the scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			var sessOpts []tas.Option
			var reg *prometheus.Registry
			if sf.metrics {
				reg = prometheus.NewRegistry()
				sessOpts = append(sessOpts, tas.WithMetrics(tas.NewScanMetrics(reg)))
			}
			e, err := setup(ctx, deps, opts, sessOpts...)
			if err != nil {
				return err
			}

			points, workers, err := sf.points(e)
			if err != nil {
				return err
			}
			if len(points) == 0 {
				return errors.New("no scan points: give --from/--to or a scan section")
			}

			report, err := e.session.Scan(ctx, points, workers)
			out := cmd.OutOrStdout()
			printScan(out, e, report)
			if reg != nil {
				if merr := printMetrics(out, reg); merr != nil {
					return merr
				}
			}

			return err
		},
	}
	cmd.Flags().StringVar(&sf.from, "from", "", "first point as h,k,l,E")
	cmd.Flags().StringVar(&sf.to, "to", "", "last point as h,k,l,E (default: --from)")
	cmd.Flags().IntVar(&sf.steps, "steps", 1, "number of points")
	cmd.Flags().IntVar(&sf.workers, "workers", 0, "parallel workers (0: file setting or CPU count)")
	cmd.Flags().BoolVar(&sf.metrics, "metrics", false, "print point counters and timings after the scan")

	return cmd
}

// points returns the flag scan if --from is set, the file scan otherwise.
func (sf *scanFlags) points(e *env) ([]tas.Point, int, error) {
	workers := sf.workers
	if sf.from == "" {
		if workers == 0 {
			workers = e.inst.ScanWorkers
		}
		return e.inst.Scan, workers, nil
	}
	a, err := parsePointFlag(sf.from)
	if err != nil {
		return nil, 0, fmt.Errorf("--from: %w", err)
	}
	b := a
	if sf.to != "" {
		if b, err = parsePointFlag(sf.to); err != nil {
			return nil, 0, fmt.Errorf("--to: %w", err)
		}
	}
	if sf.steps < 1 {
		return nil, 0, fmt.Errorf("--steps must be positive, got %d", sf.steps)
	}

	return tas.LinearPoints(a, b, sf.steps), workers, nil
}

func parsePointFlag(s string) (tas.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return tas.Point{}, fmt.Errorf("want h,k,l,E, got %q", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parseHKLE(parts)
}

func printScan(w io.Writer, e *env, report tas.ScanReport) {
	e.head.Fprintf(w, "%4s %8s %8s %8s %8s %10s %10s %10s %10s\n",
		"#", "h", "k", "l", "E", "R0", "volume", "dQ_para", "dE")
	for _, p := range report.Points {
		fmt.Fprintf(w, "%4d %8.4g %8.4g %8.4g %8.4g ", p.Index, p.Point.H, p.Point.K, p.Point.L, p.Point.E)
		switch {
		case p.Resolved == nil:
			fmt.Fprintln(w, e.fail.Sprint("skipped"))
		case !p.Ok():
			fmt.Fprintf(w, "%s %s\n", e.fail.Sprint("FAILED"), p.Resolved.First().Err)
		default:
			res := p.Resolved.First()
			fmt.Fprintf(w, "%10.4g %10.4g %10.4g %10.4g\n", res.R0, res.ResVol, res.BraggFWHMs[0], res.BraggFWHMs[3])
		}
	}
	fmt.Fprintf(w, "%d/%d points resolved\n", report.Succeeded, len(report.Points))
}

// printMetrics writes the gathered samples, one line per series.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.6g", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}

	return nil
}
