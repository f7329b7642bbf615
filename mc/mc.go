// SPDX-License-Identifier: MIT

package mc

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/units"
)

// ErrNotCompleted is returned by Fill when the context ends before every
// event has been drawn. The output is then only partially written.
var ErrNotCompleted = errors.New("mc: sampling not completed")

// Coords selects the frame events are expressed in.
type Coords int

const (
	// Direct keeps the (Q∥, Q⊥, Qz, E) frame.
	Direct Coords = iota
	// Angs rotates Q back into the orientation frame, 1/Å.
	Angs
	// RLU maps Q into crystal coordinates.
	RLU
)

func (c Coords) String() string {
	switch c {
	case Direct:
		return "direct"
	case Angs:
		return "angs"
	case RLU:
		return "rlu"
	}
	return "unknown"
}

// Opts controls the frame of the generated events.
type Opts struct {
	Coords     Coords
	Center     bool    // leave out the ellipsoid centre
	AngleQVec0 float64 // angle between the first orientation vector and Q, rad
	UBInv      [4][4]float64
}

// ctxCheckEvery is how many events a worker draws between context checks.
const ctxCheckEvery = 1024

// Neutrons fills out with events drawn from ell using rng.
func Neutrons(ell ellipse.Ellipsoid4d, opts Opts, rng *rand.Rand, out [][4]float64) {
	s := newSampler(ell, opts)
	for i := range out {
		out[i] = s.draw(rng)
	}
}

// Generate returns n events drawn from a stream seeded with seed.
func Generate(ell ellipse.Ellipsoid4d, n int, opts Opts, seed int64) [][4]float64 {
	out := make([][4]float64, n)
	Neutrons(ell, opts, NewRNG(seed), out)

	return out
}

// Fill draws len(out) events with the given number of workers. Worker w
// writes a contiguous block (the last one takes the remainder) from its own
// stream StreamRNG(seed, w), so the result depends on seed and workers only.
func Fill(ctx context.Context, ell ellipse.Ellipsoid4d, opts Opts, seed int64, workers int, out [][4]float64) error {
	n := len(out)
	if workers < 1 {
		workers = 1
	}
	if workers > n && n > 0 {
		workers = n
	}
	s := newSampler(ell, opts)
	per := n / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * per
		hi := lo + per
		if w == workers-1 {
			hi = n
		}
		rng := StreamRNG(seed, uint64(w))
		block := out[lo:hi]
		g.Go(func() error {
			for i := range block {
				if i%ctxCheckEvery == 0 && gctx.Err() != nil {
					return ErrNotCompleted
				}
				block[i] = s.draw(rng)
			}
			return nil
		})
	}

	return g.Wait()
}

// sampler holds everything draw needs; it is read-only once built.
type sampler struct {
	sigma   [4]float64
	rot     [4][4]float64
	offset  [4]float64
	post    [4][4]float64 // frame change applied last
	usePost bool
}

func newSampler(ell ellipse.Ellipsoid4d, opts Opts) *sampler {
	s := &sampler{rot: ell.Rot}
	for i := 0; i < 4; i++ {
		s.sigma[i] = ell.HWHM[i] * units.HWHM2SIGMA
		if !opts.Center {
			s.offset[i] = ell.Offset[i]
		}
	}

	switch opts.Coords {
	case Angs:
		s.post, s.usePost = qVec0(opts.AngleQVec0), true
	case RLU:
		s.post, s.usePost = mul4(opts.UBInv, qVec0(opts.AngleQVec0)), true
	}

	return s
}

func (s *sampler) draw(rng *rand.Rand) [4]float64 {
	var z, x [4]float64
	for i := 0; i < 4; i++ {
		z[i] = rng.NormFloat64() * s.sigma[i]
	}
	for i := 0; i < 4; i++ {
		for k := 0; k < 4; k++ {
			x[i] += s.rot[i][k] * z[k]
		}
		x[i] += s.offset[i]
	}
	if !s.usePost {
		return x
	}

	var y [4]float64
	for i := 0; i < 4; i++ {
		for k := 0; k < 4; k++ {
			y[i] += s.post[i][k] * x[k]
		}
	}

	return y
}

// qVec0 is the 2D rotation by −angle padded to 4×4.
func qVec0(angle float64) [4][4]float64 {
	c, sn := math.Cos(-angle), math.Sin(-angle)
	return [4][4]float64{
		{c, -sn, 0, 0},
		{sn, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func mul4(a, b [4][4]float64) [4][4]float64 {
	var out [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}

	return out
}

// Moments returns the sample mean and covariance of events.
func Moments(events [][4]float64) (mean [4]float64, cov [4][4]float64) {
	n := float64(len(events))
	if n == 0 {
		return mean, cov
	}
	for _, e := range events {
		for i := 0; i < 4; i++ {
			mean[i] += e[i]
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	for _, e := range events {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				cov[i][j] += (e[i] - mean[i]) * (e[j] - mean[j])
			}
		}
	}
	if n > 1 {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				cov[i][j] /= n - 1
			}
		}
	}

	return mean, cov
}
