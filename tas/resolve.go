// SPDX-License-Identifier: MIT

package tas

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/mc"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/units"
)

// planeTol bounds |Qz| of a request, cbrt of the float64 epsilon.
var planeTol = math.Cbrt(0x1p-52)

// Point is a requested scattering position: Miller indices and energy
// transfer in meV.
type Point struct {
	H, K, L, E float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g %g %g) E=%g meV", p.H, p.K, p.L, p.E)
}

// Resolved is the immutable outcome of one SetHKLE. Results holds one
// entry per sample position; only Results[0] is set when a geometric
// check failed.
type Resolved struct {
	Point      Point
	Algo       reso.Algo
	Results    []reso.Results
	QVec       [3]float64 // UB·hkl in the scattering-plane frame, 1/Å
	AngleQVec0 float64    // angle from Q to the first orientation vector, rad
	Focused    bool       // the focus override changed a curvature flag

	// Parameter snapshots with the kinematics of Point filled in.
	TAS    reso.TASParams
	TOF    reso.TOFParams
	Simple reso.SimpleParams

	Opts mc.Opts
}

// Ok reports whether the first sample position was calculated.
func (r *Resolved) Ok() bool {
	return r != nil && len(r.Results) > 0 && r.Results[0].Ok
}

// First returns the result at the nominal sample position.
func (r *Resolved) First() reso.Results {
	if r == nil || len(r.Results) == 0 {
		return reso.Results{}
	}
	return r.Results[0]
}

// WithOpts returns a copy of r drawing Monte-Carlo events with opts.
func (r *Resolved) WithOpts(opts mc.Opts) *Resolved {
	c := *r
	c.Opts = opts
	return &c
}

// GenerateMC draws n events per sample position, n·len(Results) in total,
// filling each position's block with runtime.NumCPU() workers. It returns
// the events and the ellipsoid of the first position.
func (r *Resolved) GenerateMC(ctx context.Context, n int, seed int64) ([][4]float64, ellipse.Ellipsoid4d, error) {
	return r.generate(ctx, n, seed, runtime.NumCPU())
}

func (r *Resolved) generate(ctx context.Context, n int, seed int64, workers int) ([][4]float64, ellipse.Ellipsoid4d, error) {
	var first ellipse.Ellipsoid4d
	if n < 0 {
		return nil, first, tasErrorf(opGenerateMC, fmt.Errorf("negative event count %d: %w", n, ErrBadConfig))
	}
	if !r.Ok() {
		return nil, first, tasErrorf(opGenerateMC, ErrNotPositioned)
	}

	out := make([][4]float64, n*len(r.Results))
	for it, res := range r.Results {
		ell, err := ellipse.FromResults(res)
		if err != nil {
			return nil, first, tasErrorf(opGenerateMC, fmt.Errorf("position %d: %w", it, err))
		}
		if it == 0 {
			first = ell
		}
		iterSeed := mc.StreamRNG(seed, uint64(it)).Int63()
		if err = mc.Fill(ctx, ell, r.Opts, iterSeed, workers, out[it*n:(it+1)*n]); err != nil {
			return nil, first, tasErrorf(opGenerateMC, err)
		}
	}

	return out, first, nil
}

// resolve computes the resolution at p. It does not touch session state;
// rng is only used for more than one sample position.
func resolve(cfg *Config, o *Orientation, p Point, rng *rand.Rand) (*Resolved, error) {
	r := &Resolved{Point: p, Algo: cfg.Algo, TAS: cfg.TAS, TOF: cfg.TOF, Simple: cfg.Simple}
	qAvg := [4]float64{0, 0, 0, p.E}
	fail := func(msg string, err error) (*Resolved, error) {
		r.Results = []reso.Results{{Err: msg, QAvg: qAvg}}
		return r, tasErrorf(opSetHKLE, err)
	}

	if o == nil {
		return fail(msgInvalidUB, ErrInvalidUB)
	}
	r.QVec = o.QVec(p.H, p.K, p.L)
	q := units.Wavenumber(math.Sqrt(r.QVec[0]*r.QVec[0] + r.QVec[1]*r.QVec[1] + r.QVec[2]*r.QVec[2]))
	qAvg[0] = float64(q)

	if math.Abs(r.QVec[2]) > planeTol {
		return fail(msgNotInPlane, fmt.Errorf("%v: %w", p, ErrNotInPlane))
	}
	r.AngleQVec0 = -math.Atan2(r.QVec[1], r.QVec[0])

	if err := r.setKinematics(cfg, q, units.Energy(p.E)); err != nil {
		return fail(kinematicsMessage(err), fmt.Errorf("%v: %w", p, err))
	}
	r.Focused = cfg.Focus.apply(&r.TAS)
	r.Opts = mc.Opts{Coords: mc.RLU, AngleQVec0: r.AngleQVec0, UBInv: o.UBInv}

	n := cfg.positions()
	if n > 1 && rng == nil {
		rng = mc.NewRNG(cfg.Seed)
	}
	r.Results = make([]reso.Results, n)
	for i := range r.Results {
		res, err := reso.Calc(cfg.Algo, r.params(n > 1, rng))
		if err != nil {
			return fail(res.Err, err)
		}
		r.Results[i] = res
	}
	if !r.Results[0].Ok {
		return r, tasErrorf(opSetHKLE, fmt.Errorf("%v: %w", p, r.Results[0].AsError()))
	}

	return r, nil
}

// params returns the variant for the configured algorithm. With randomise,
// the TAS sample position is drawn from a Gaussian whose FWHM is the
// sample size along each axis.
func (r *Resolved) params(randomise bool, rng *rand.Rand) reso.Params {
	switch r.Algo {
	case reso.AlgoViol:
		return r.TOF
	case reso.AlgoSimple:
		return r.Simple
	}
	tp := r.TAS
	if randomise {
		tp.PosX = units.Length(rng.NormFloat64() * units.FWHM2SIGMA * float64(tp.SampleWQ))
		tp.PosY = units.Length(rng.NormFloat64() * units.FWHM2SIGMA * float64(tp.SampleWPerpQ))
		tp.PosZ = units.Length(rng.NormFloat64() * units.FWHM2SIGMA * float64(tp.SampleH))
	}

	return tp
}

// setKinematics fills ki, kf, Q, E and the scattering angles of the
// parameter variant the algorithm uses.
func (r *Resolved) setKinematics(cfg *Config, q units.Wavenumber, e units.Energy) error {
	kOther, err := kinematics.OtherK(e, cfg.KFix, cfg.KiFixed)
	if err != nil {
		return err
	}
	ki, kf := cfg.KFix, kOther
	if !cfg.KiFixed {
		ki, kf = kOther, cfg.KFix
	}
	tt, err := kinematics.SampleTwoTheta(ki, kf, q, true)
	if err != nil {
		return err
	}
	tt = units.AbsAngle(tt)
	kiQ, err := kinematics.AngleKiQ(ki, kf, q, true, false)
	if err != nil {
		return err
	}
	kfQ, err := kinematics.AngleKfQ(ki, kf, q, true, true)
	if err != nil {
		return err
	}

	switch r.Algo {
	case reso.AlgoViol:
		t := &r.TOF
		t.Ki, t.Kf, t.Q, t.E = ki, kf, q, e
		t.TwoTheta, t.AngleKiQ, t.AngleKfQ = tt, kiQ, kfQ
	case reso.AlgoSimple:
		s := &r.Simple
		s.Ki, s.Kf, s.Q, s.E = ki, kf, q, e
		s.TwoTheta, s.AngleKiQ, s.AngleKfQ = tt, kiQ, kfQ
	default:
		ttM, err := kinematics.MonoTwoTheta(ki, r.TAS.MonoD, true)
		if err != nil {
			return err
		}
		ttA, err := kinematics.MonoTwoTheta(kf, r.TAS.AnaD, true)
		if err != nil {
			return err
		}
		c := &r.TAS.Common
		c.Ki, c.Kf, c.Q, c.E = ki, kf, q, e
		c.ThetaM = units.AbsAngle(ttM / 2)
		c.ThetaA = units.AbsAngle(ttA / 2)
		c.TwoTheta, c.AngleKiQ, c.AngleKfQ = tt, kiQ, kfQ
	}

	return nil
}
