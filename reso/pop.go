// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/units"
)

// CalcPop computes the Popovici resolution matrix: Cooper–Nathans extended by
// the spatial extent of source, crystals, sample and detector, crystal
// curvatures and an optional neutron guide. Lengths enter in cm.
// R0 is only computed with FlagR0.
func CalcPop(p TASParams) Results {
	c := &p.Common
	qAvg := qAvgOf(c.Q, c.E)

	thetaM := c.ThetaM.Rad() * c.MonoSense
	thetaA := c.ThetaA.Rad() * c.AnaSense
	twoTheta := c.TwoTheta.Rad() * c.SampleSense
	kiQ := c.AngleKiQ * units.Angle(c.SampleSense)
	kfQ := c.AngleKfQ * units.Angle(c.SampleSense)
	ki, kf := float64(c.Ki), float64(c.Kf)

	b := trafoKiKfToQE(kiQ, kfQ, c.Ki, c.Kf).Slice(0, 4, 0, 6)

	collHPreMono, collVPreMono := c.CollHPreMono, c.CollVPreMono
	if p.Guide {
		lam := units.KToLambda(c.Ki).Angstroms()
		collHPreMono = units.Angle(lam * p.GuideDivH.Rad())
		collVPreMono = units.Angle(lam * p.GuideDivV.Rad())
	}

	// collimators
	g := diag(
		invSq(collHPreMono), invSq(c.CollHPreSample),
		invSq(collVPreMono), invSq(c.CollVPreSample),
		invSq(c.CollHPostSample), invSq(c.CollHPostAna),
		invSq(c.CollVPostSample), invSq(c.CollVPostAna),
	)

	// crystal mosaics, horizontal and vertical
	mm, ma := c.MonoMosaic.Rad(), c.AnaMosaic.Rad()
	f := diag(1./(mm*mm), 1./(mm*mm), 1./(ma*ma), 1./(ma*ma))

	cotM := math.Cos(thetaM) / math.Sin(thetaM)
	cotA := math.Cos(thetaA) / math.Sin(thetaA)
	a := mat.NewDense(6, 8, nil)
	a.Set(0, 0, 0.5*ki*cotM)
	a.Set(0, 1, -0.5*ki*cotM)
	a.Set(1, 1, ki)
	a.Set(2, 3, ki)
	a.Set(3, 4, 0.5*kf*cotA)
	a.Set(3, 5, -0.5*kf*cotA)
	a.Set(4, 4, kf)
	a.Set(5, 6, kf)

	si := diag(popSpatialVariances(&p)...)
	si.Scale(units.SIGMA2FWHM*units.SIGMA2FWHM, si)
	s, ok := invert(si)
	if !ok {
		return failed(qAvg, msgSInv)
	}

	invMonoH, invMonoV, invAnaH, invAnaV := p.inverseCurvatures(true)

	lsm := p.DistSrcMono.Cm()
	lms := p.DistMonoSample.Cm()
	lsa := p.DistSampleAna.Cm()
	lad := p.DistAnaDet.Cm()
	sM, cM := math.Sincos(thetaM)
	sA, cA := math.Sincos(thetaA)
	sS, cS := math.Sincos(0.5 * twoTheta)

	t := mat.NewDense(4, 13, nil)
	t.Set(0, 0, -0.5/lsm)
	t.Set(0, 2, 0.5*cM*(1./lms-1./lsm))
	t.Set(0, 3, 0.5*sM*(1./lsm+1./lms-2.*invMonoH/sM))
	t.Set(0, 5, 0.5*sS/lms)
	t.Set(0, 6, 0.5*cS/lms)
	t.Set(1, 1, -0.5/(lsm*sM))
	t.Set(1, 4, 0.5*(1./lsm+1./lms-2.*sM*invMonoV)/sM)
	t.Set(1, 7, -0.5/(lms*sM))
	t.Set(2, 5, 0.5*sS/lsa)
	t.Set(2, 6, -0.5*cS/lsa)
	t.Set(2, 8, 0.5*cA*(1./lad-1./lsa))
	t.Set(2, 9, 0.5*sA*(1./lsa+1./lad-2.*invAnaH/sA))
	t.Set(2, 11, 0.5/lad)
	t.Set(3, 7, -0.5/(lsa*sA))
	t.Set(3, 10, 0.5*(1./lsa+1./lad-2.*sA*invAnaV)/sA)
	t.Set(3, 12, -0.5/(lad*sA))

	d := mat.NewDense(8, 13, nil)
	d.Set(0, 0, -1./lsm)
	d.Set(0, 2, -cM/lsm)
	d.Set(0, 3, sM/lsm)
	d.Set(1, 2, cM/lms)
	d.Set(1, 3, sM/lms)
	d.Set(1, 5, sS/lms)
	d.Set(1, 6, cS/lms)
	d.Set(2, 1, -1./lsm)
	d.Set(2, 4, 1./lsm)
	d.Set(3, 4, -1./lms)
	d.Set(3, 7, 1./lms)
	d.Set(4, 5, sS/lsa)
	d.Set(4, 6, -cS/lsa)
	d.Set(4, 8, -cA/lsa)
	d.Set(4, 9, sA/lsa)
	d.Set(5, 8, cA/lad)
	d.Set(5, 9, sA/lad)
	d.Set(5, 11, 1./lad)
	d.Set(6, 7, -1./lsa)
	d.Set(6, 10, 1./lsa)
	d.Set(7, 10, -1./lad)
	d.Set(7, 12, 1./lad)

	var k mat.Dense
	k.Add(s, congruence(f, t))
	kInv, ok := invert(&k)
	if !ok {
		return failed(qAvg, msgKInv)
	}
	h, ok := invert(congruenceT(kInv, d))
	if !ok {
		return failed(qAvg, msgHInv)
	}
	var hg mat.Dense
	hg.Add(h, g)
	hgInv, ok := invert(&hg)
	if !ok {
		return failed(qAvg, msgHGInv)
	}

	var ba mat.Dense
	ba.Mul(b, a)
	cov := congruenceT(hgInv, &ba)
	etaQ := float64(c.Q) * c.SampleMosaic.Rad()
	cov.Set(1, 1, cov.At(1, 1)+etaQ*etaQ)
	cov.Set(2, 2, cov.At(2, 2)+etaQ*etaQ)

	reso, ok := invert(cov)
	if !ok {
		return failed(qAvg, msgCovInv)
	}
	reso.Scale(units.SIGMA2FWHM*units.SIGMA2FWHM, reso)

	res := Results{QAvg: qAvg, Reso: to4(reso)}
	if c.SampleSense < 0 {
		mirrorQPerp(&res)
	}

	if c.Flags&FlagR0 != 0 {
		monoRefl, anaEffic, xsec := c.reflectivities()
		dsd, ok := invert(congruenceT(si, d))
		if !ok {
			return failed(qAvg, msgR0)
		}
		dsd.Add(dsd, g)

		detS, detF, detK, detDSD := mat.Det(s), mat.Det(f), mat.Det(&k), mat.Det(dsd)
		twoPi := 2. * math.Pi
		r0 := monoRefl * anaEffic * math.Pow(twoPi, 4)
		r0 *= math.Sqrt(detS * detF / (detK * detDSD))
		r0 /= 64. * math.Pi * math.Pi * math.Abs(sM*sA)
		res.R0 = r0 * xsec
	}

	return finish(res)
}

// popSpatialVariances returns the 13 spatial variances (cm²) of source,
// monochromator, sample, analyser and detector. Rectangular (cuboid) shapes
// use w²/12, round ones w²/16.
func popSpatialVariances(p *TASParams) []float64 {
	shape := func(rect bool) float64 {
		if rect {
			return 1. / 12.
		}
		return 1. / 16.
	}
	v := func(f float64, l units.Length) float64 {
		x := l.Cm()
		return f * x * x
	}
	src, smp, det := shape(p.SrcRect), shape(p.SampleCuboid), shape(p.DetRect)
	const box = 1. / 12.

	return []float64{
		v(src, p.SrcW), v(src, p.SrcH),
		v(box, p.MonoThick), v(box, p.MonoW), v(box, p.MonoH),
		v(smp, p.SampleWPerpQ), v(smp, p.SampleWQ), v(box, p.SampleH),
		v(box, p.AnaThick), v(box, p.AnaW), v(box, p.AnaH),
		v(det, p.DetW), v(det, p.DetH),
	}
}

// inverseCurvatures returns 1/R (per cm) of the four crystal curvatures.
// Optimal curvatures are computed from the focusing condition; flat
// crystals give zero. With signed, the mono/ana senses are applied.
func (p *TASParams) inverseCurvatures(signed bool) (monoH, monoV, anaH, anaV float64) {
	ttM := units.AbsAngle(2. * p.ThetaM)
	ttA := units.AbsAngle(2. * p.ThetaA)

	curv := func(r units.Length, optimal, curved bool, l1, l2 units.Length, tt units.Angle, vertical bool, sense float64) float64 {
		if optimal {
			r = kinematics.FocusCurvature(l1, l2, tt, vertical)
		}
		if signed {
			r *= units.Length(sense)
		}
		if !curved || r == 0 {
			return 0
		}
		return 1. / r.Cm()
	}

	monoH = curv(p.MonoCurvH, p.MonoOptimalH, p.MonoCurvedH, p.DistSrcMono, p.DistMonoSample, ttM, false, p.MonoSense)
	monoV = curv(p.MonoCurvV, p.MonoOptimalV, p.MonoCurvedV, p.DistSrcMono, p.DistMonoSample, ttM, true, p.MonoSense)
	anaH = curv(p.AnaCurvH, p.AnaOptimalH, p.AnaCurvedH, p.DistSampleAna, p.DistAnaDet, ttA, false, p.AnaSense)
	anaV = curv(p.AnaCurvV, p.AnaOptimalV, p.AnaCurvedV, p.DistSampleAna, p.DistAnaDet, ttA, true, p.AnaSense)

	return monoH, monoV, anaH, anaV
}
