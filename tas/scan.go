// SPDX-License-Identifier: MIT

package tas

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tasreso/mc"
)

// PointResult is the outcome of one scan point.
type PointResult struct {
	Index    int
	Point    Point
	Resolved *Resolved // set for failed points too when the failure is a result
	Err      error
	Elapsed  time.Duration
}

// Ok reports whether the point was resolved.
func (p PointResult) Ok() bool { return p.Err == nil && p.Resolved.Ok() }

// ScanReport collects the points of a Scan in input order.
type ScanReport struct {
	Points    []PointResult
	Succeeded int
}

// Failed returns the number of points that ran and failed.
func (r ScanReport) Failed() int {
	n := 0
	for _, p := range r.Points {
		if p.Resolved != nil && !p.Ok() {
			n++
		}
	}
	return n
}

// LinearPoints returns n points evenly spaced from a to b inclusive.
func LinearPoints(a, b Point, n int) []Point {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []Point{a}
	}
	out := make([]Point, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = Point{
			H: a.H + t*(b.H-a.H),
			K: a.K + t*(b.K-a.K),
			L: a.L + t*(b.L-a.L),
			E: a.E + t*(b.E-a.E),
		}
	}

	return out
}

// Scan resolves every point with at most workers goroutines (0 means the
// session default). Point failures are recorded in the report and do not
// stop the batch. When ctx ends, the points not yet started are skipped and
// Scan returns the partial report with an error wrapping ErrNotCompleted.
//
// Point i draws its sample positions from mc.StreamRNG(seed, i), so a scan
// is reproducible whatever the worker count. The session's last position is
// left untouched.
func (s *Session) Scan(ctx context.Context, points []Point, workers int) (ScanReport, error) {
	cfg, orient := s.snapshot()
	if workers < 1 {
		workers = s.workers
	}
	report := ScanReport{Points: make([]PointResult, len(points))}
	for i, p := range points {
		report.Points[i] = PointResult{Index: i, Point: p}
	}

	var stop atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range points {
		if stop.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if stop.Load() || gctx.Err() != nil {
				stop.Store(true)
				return ErrNotCompleted
			}
			start := time.Now()
			r, err := resolve(&cfg, orient, p, mc.StreamRNG(cfg.Seed, uint64(i)))
			elapsed := time.Since(start)
			report.Points[i].Resolved = r
			report.Points[i].Err = err
			report.Points[i].Elapsed = elapsed
			s.report(gctx, r, err, elapsed)
			return nil
		})
	}
	werr := g.Wait()

	for _, p := range report.Points {
		if p.Ok() {
			report.Succeeded++
		}
	}
	s.log.Info(ctx, "scan finished", map[string]any{
		"points":    len(points),
		"succeeded": report.Succeeded,
		"failed":    report.Failed(),
		"algo":      cfg.Algo.String(),
	})

	if werr != nil || ctx.Err() != nil {
		if cause := ctx.Err(); cause != nil && !errors.Is(werr, cause) {
			return report, tasErrorf(opScan, fmt.Errorf("%w: %w", ErrNotCompleted, cause))
		}
		return report, tasErrorf(opScan, ErrNotCompleted)
	}

	return report, nil
}
