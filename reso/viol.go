// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/units"
)

// CalcViol computes the resolution of a direct-geometry time-of-flight
// instrument (pulse → monochromating chopper → sample → detector) by
// propagating nine Gaussian uncertainties through the Jacobian of (Q, E):
// two timing, three flight-path and four angular ones.
// No R0 is computed.
func CalcViol(p TOFParams) Results {
	e := kinematics.EnergyTransfer(p.Ki, p.Kf)
	q := kinematics.SampleQ(p.Ki, p.Kf, p.TwoTheta)
	qAvg := qAvgOf(q, e)

	vi := units.KToVelocity(p.Ki)
	vf := units.KToVelocity(p.Kf)
	lp, lm, ls := p.LenPulseMono.M(), p.LenMonoSample.M(), p.LenSampleDet.M()
	ti, tf := lp/vi, ls/vf

	mn := units.NeutronMass
	mnh := mn / units.Hbar * units.AngstromM // 1/Å per (m/s · s)
	meV := units.MilliElectronVolt

	sp, sm, sd := p.SigPulse.S(), p.SigMono.S(), p.SigDet.S()
	st := math.Hypot(sp, sm)
	stm := math.Hypot(sd, sm)
	sigmas := []float64{
		st, stm,
		p.SigLenPulseMono.M(), p.SigLenMonoSample.M(), p.SigLenSampleDet.M(),
		p.SigTwoThetaI.Rad(), p.SigOutplaneI.Rad(), p.SigTwoThetaF.Rad(), p.SigOutplaneF.Rad(),
	}

	tf3 := tf * tf * tf
	eDerivs := []float64{
		(-mn*lp*lp/(ti*ti*ti) - mn*ls*ls/tf3*lm/lp) / meV,
		mn * ls * ls / tf3 / meV,
		(mn*lp/(ti*ti) + mn*ls*ls/tf3*ti/(lp*lp)*lm) / meV,
		-mn * ls * ls / tf3 * ti / lp / meV,
		-mn * ls / (tf * tf) / meV,
	}

	sI, cI := math.Sincos(p.TwoThetaI.Rad())
	sF, cF := math.Sincos(p.TwoTheta.Rad())
	sPI, cPI := math.Sincos(p.AngleOutplaneI.Rad())
	sPF, cPF := math.Sincos(p.AngleOutplaneF.Rad())
	tPF := math.Tan(p.AngleOutplaneF.Rad())

	rTTI := mat.NewDense(3, 2, []float64{-sI * cPI, 0, cI * cPI, 0, 0, 0})
	rPhI := mat.NewDense(3, 2, []float64{-cI * sPI, 0, -sI * sPI, 0, cPI, 0})
	var r, rTTF, rPhF *mat.Dense
	switch p.DetShape {
	case DetSpherical:
		r = mat.NewDense(3, 2, []float64{cI * cPI, -cF * cPF, sI * cPI, -sF * cPF, sPI, -sPF})
		rTTF = mat.NewDense(3, 2, []float64{0, sF * cPF, 0, -cF * cPF, 0, 0})
		rPhF = mat.NewDense(3, 2, []float64{0, cF * sPF, 0, sF * sPF, 0, -cPF})
	case DetCylindrical:
		r = mat.NewDense(3, 2, []float64{cI * cPI, -cF, sI * cPI, -sF, sPI, -tPF})
		rTTF = mat.NewDense(3, 2, []float64{0, sF, 0, -cF, 0, 0})
		rPhF = mat.NewDense(3, 2, []float64{0, 0, 0, 0, 0, -(1. + tPF*tPF)})
	default:
		return failed(qAvg, msgDetShape)
	}

	vel := mat.NewVecDense(2, []float64{mnh * vi, mnh * vf})
	qDerivs := []struct {
		m mat.Matrix
		v *mat.VecDense
	}{
		{r, mat.NewVecDense(2, []float64{-mnh * vi / ti, mnh * vf / tf * lm / lp})},
		{r, mat.NewVecDense(2, []float64{0, -mnh * vf / tf})},
		{r, mat.NewVecDense(2, []float64{mnh / ti, -mnh * vf / tf * lm / (vi * lp)})},
		{r, mat.NewVecDense(2, []float64{0, mnh * vf / tf / vi})},
		{r, mat.NewVecDense(2, []float64{0, mnh / tf})},
		{rTTI, vel},
		{rPhI, vel},
		{rTTF, vel},
		{rPhF, vel},
	}

	jac := mat.NewDense(4, len(sigmas), nil)
	var col mat.VecDense
	for i, d := range qDerivs {
		col.MulVec(d.m, d.v)
		for row := 0; row < 3; row++ {
			jac.Set(row, i, col.AtVec(row))
		}
	}
	for i, d := range eDerivs {
		jac.Set(3, i, d)
	}

	return jacobianResults(qAvg, jac, sigmas, p.AngleKiQ)
}

// jacobianResults builds the resolution matrix from the covariance
// J·diag(σ²)·Jᵗ, rotated from the ki frame into the Q frame.
func jacobianResults(qAvg [4]float64, jac *mat.Dense, sigmas []float64, kiQ units.Angle) Results {
	vars := make([]float64, len(sigmas))
	for i, s := range sigmas {
		vars[i] = s * s
	}
	reso, ok := invert(congruenceT(diag(vars...), jac))
	if !ok {
		return failed(qAvg, msgJacobiInv)
	}

	res := Results{QAvg: qAvg, Reso: to4(congruence(reso, rotKiQ4(kiQ.Rad())))}

	return finish(res)
}
