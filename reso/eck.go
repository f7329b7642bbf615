// SPDX-License-Identifier: MIT

package reso

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

// eckArm is the quadric of one crystal arm (monochromator or analyser) in the
// coordinates (k_∥, k_⊥, k_z) of its wavevector: xᵗ·A·x + Bᵗ·x + C, plus the
// effective reflectivity after integrating the vertical angle.
type eckArm struct {
	a    *mat.Dense
	b    *mat.VecDense
	c    float64
	refl float64
}

// eckArmInput names the geometry of one arm. For the analyser the roles are
// mirrored: "source" is the detector and "mono" the analyser.
type eckArmInput struct {
	srcW, srcH     units.Length
	monoW, monoH   units.Length
	distSrcMono    units.Length
	distMonoSample units.Length
	k              units.Wavenumber
	theta          units.Angle
	collHPre       units.Angle
	collHPost      units.Angle
	collVPre       units.Angle
	collVPost      units.Angle
	mosaic         units.Angle
	mosaicV        units.Angle
	invCurvH       float64 // 1/cm
	invCurvV       float64
	posY           units.Length
	posZ           units.Length
	refl           float64
}

// CalcEck computes the Eckold–Sobolev resolution function. Unlike the other
// TAS algorithms it yields linear and constant parts when the sample position
// (PosX, PosY, PosZ) is off-centre. Monochromator and analyser arms are
// evaluated concurrently.
func CalcEck(p TASParams) Results {
	c := &p.Common
	qAvg := qAvgOf(c.Q, c.E)

	twoTheta := c.TwoTheta * units.Angle(c.SampleSense)
	thetaA := c.ThetaA * units.Angle(c.AnaSense)
	thetaM := c.ThetaM * units.Angle(c.MonoSense)
	kiQ := c.AngleKiQ.Rad() * c.SampleSense
	kfQ := c.AngleKfQ.Rad() * c.SampleSense

	invMonoH, invMonoV, invAnaH, invAnaV := p.inverseCurvatures(false)

	collHPreMono, collVPreMono := c.CollHPreMono, c.CollVPreMono
	if p.Guide {
		lam := units.KToLambda(c.Ki).Angstroms()
		collHPreMono = units.Angle(lam * p.GuideDivH.Rad())
		collVPreMono = units.Angle(lam * p.GuideDivV.Rad())
	}

	monoRefl, anaEffic, xsec := c.reflectivities()

	monoMosV, anaMosV := p.MonoMosaicV, p.AnaMosaicV
	if monoMosV == 0 {
		monoMosV = c.MonoMosaic
	}
	if anaMosV == 0 {
		anaMosV = c.AnaMosaic
	}

	// analyser sees the sample position rotated by 2θ
	s2t, c2t := math.Sincos(twoTheta.Rad())
	posY2 := -p.PosX*units.Length(s2t) + p.PosY*units.Length(c2t)

	var mono, ana eckArm
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		mono = eckArmValues(eckArmInput{
			srcW: p.SrcW, srcH: p.SrcH,
			monoW: p.MonoW, monoH: p.MonoH,
			distSrcMono: p.DistSrcMono, distMonoSample: p.DistMonoSample,
			k: c.Ki, theta: thetaM,
			collHPre: collHPreMono, collHPost: c.CollHPreSample,
			collVPre: collVPreMono, collVPost: c.CollVPreSample,
			mosaic: c.MonoMosaic, mosaicV: monoMosV,
			invCurvH: invMonoH, invCurvV: invMonoV,
			posY: p.PosY, posZ: p.PosZ,
			refl: monoRefl,
		})
		return nil
	})
	g.Go(func() error {
		ana = eckArmValues(eckArmInput{
			srcW: p.DetW, srcH: p.DetH,
			monoW: p.AnaW, monoH: p.AnaH,
			distSrcMono: p.DistAnaDet, distMonoSample: p.DistSampleAna,
			k: c.Kf, theta: -thetaA,
			collHPre: c.CollHPostAna, collHPost: c.CollHPostSample,
			collVPre: c.CollVPostAna, collVPost: c.CollVPostSample,
			mosaic: c.AnaMosaic, mosaicV: anaMosV,
			invCurvH: invAnaH, invCurvV: invAnaV,
			posY: posY2, posZ: p.PosZ,
			refl: anaEffic,
		})
		return nil
	})
	_ = g.Wait()

	// ki/kf deviations → (Q∥, Q⊥, Qz, E, ...)
	q, ki, kf := float64(c.Q), float64(c.Ki), float64(c.Kf)
	dE := (ki*ki - kf*kf) / (2. * q * q)
	kiPara := q * (0.5 + dE)
	kfPara := q - kiPara
	kPerp := math.Sqrt(math.Abs(kiPara*kiPara-ki*ki)) * c.SampleSense

	t := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		t.Set(i, i, 1)
		t.Set(i, i+3, -1)
	}
	t.Set(3, 0, 2.*units.KSQ2E*kiPara)
	t.Set(3, 3, 2.*units.KSQ2E*kfPara)
	t.Set(3, 1, 2.*units.KSQ2E*kPerp)
	t.Set(3, 4, -2.*units.KSQ2E*kPerp)
	t.Set(4, 1, 0.5-dE)
	t.Set(5, 2, 0.5-dE)
	t.Set(4, 4, 0.5+dE)
	t.Set(5, 5, 0.5+dE)
	tInv, ok := invert(t)
	if !ok {
		return failed(qAvg, msgTInv)
	}

	rotI, rotF := rot3z(-kiQ), rot3z(-kfQ)
	ae := mat.NewDense(6, 6, nil)
	setBlock(ae, congruence(mono.a, rotI), 0, 0)
	setBlock(ae, congruence(ana.a, rotF), 3, 3)
	bf := mat.NewVecDense(6, nil)
	var bRot, fRot mat.VecDense
	bRot.MulVec(rotI.T(), mono.b)
	fRot.MulVec(rotF.T(), ana.b)
	for i := 0; i < 3; i++ {
		bf.SetVec(i, bRot.AtVec(i))
		bf.SetVec(i+3, fRot.AtVec(i))
	}

	u1 := congruence(ae, tInv)
	var v1 mat.VecDense
	v1.MulVec(tInv.T(), bf)

	qd, err := quadric.FromRows(rows(u1), v1.RawVector().Data, mono.c+ana.c)
	if err != nil {
		return failed(qAvg, msgInvalid)
	}
	qd, w5, err := qd.Marginalize(5)
	if err != nil {
		return failed(qAvg, msgInvalid)
	}
	qd, w4, err := qd.Marginalize(4)
	if err != nil {
		return failed(qAvg, msgInvalid)
	}

	res := Results{QAvg: qAvg}
	u, v := qd.Matrix(), qd.Vector()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			res.Reso[i][j] = 2. * u[i][j]
		}
		res.ResoV[i] = v[i]
	}
	res.ResoS = qd.S()

	if c.SampleSense < 0 {
		mirrorQPerp(&res)
	}

	z := mono.refl * ana.refl * w5 * w4
	res.R0 = z * math.Exp(-res.ResoS) * xsec

	return finish(res)
}

// eckArmValues evaluates the horizontal (A, B, C) and vertical (Av, Bv, Cv)
// quadrics of one arm and folds the vertical crystal angle into the k_z entries.
func eckArmValues(in eckArmInput) eckArm {
	f2 := units.SIGMA2FWHM * units.SIGMA2FWHM
	k := float64(in.k)
	pre := 0.5 * f2 / (k * k)

	tanT := math.Tan(in.theta.Rad())
	sinT := math.Abs(math.Sin(in.theta.Rad()))
	mos, mosV := in.mosaic.Rad(), in.mosaicV.Rad()

	lsm, lms := in.distSrcMono.Cm(), in.distMonoSample.Cm()
	srcW, srcH := in.srcW.Cm(), in.srcH.Cm()
	monoW, monoH := in.monoW.Cm(), in.monoH.Cm()
	posY, posZ := in.posY.Cm(), in.posZ.Cm()
	cH, cV := in.invCurvH, in.invCurvV

	// horizontal
	a := mat.NewDense(3, 3, nil)
	t0 := 1. / mos
	tx := cH * lms / sinT
	t1 := t0 * tx

	a.Set(0, 0, pre*tanT*tanT*(4.*invSq(in.collHPre)+sqr(2.*lsm/srcW)+t0*t0))
	a01 := pre * tanT * (2.*invSq(in.collHPre) + 2.*lsm*(lsm-lms)/(srcW*srcW) + t0*t0 - t0*t1)
	a.Set(0, 1, a01)
	a.Set(1, 0, a01)
	a.Set(1, 1, pre*(invSq(in.collHPre)+invSq(in.collHPost)+
		sqr((lsm-lms)/srcW)+sqr(lms/(monoW*sinT))+
		t0*t0-2.*t0*t1+t1*t1))

	// vertical, in (k_z, crystal tilt)
	v0 := 0.5 / (mosV * sinT)
	v1 := cV * lms / mosV
	av := [][]float64{
		{
			pre * (invSq(in.collVPost) + sqr(lms/srcH) + sqr(lms/monoH) + v0*v0 - 2.*v0*v1 + v1*v1),
			pre * (lsm*lms/(srcH*srcH) - v0*v0 + v0*v1),
		},
		{0, pre * (invSq(in.collVPre) + sqr(lsm/srcH) + v0*v0)},
	}
	av[1][0] = av[0][1]

	b := mat.NewVecDense(3, nil)
	bt0 := cH / (mos * mos * sinT)
	b.SetVec(0, f2*posY/k*tanT*(2.*lsm/(srcW*srcW)+bt0))
	b.SetVec(1, f2*posY/k*(-lms/sqr(monoW*sinT)+bt0-bt0*cH*lms/sinT+(lsm-lms)/(srcW*srcW)))

	bvt0 := cV / (mosV * mosV)
	bv := []float64{
		-f2 * posZ / k * (lms/(monoH*monoH) - 0.5*bvt0/sinT + bvt0*cV*lms + lms/(srcH*srcH)),
		-f2 * posZ / k * (lsm/(srcH*srcH) + 0.5*bvt0/sinT),
	}

	cc := 0.5 * f2 * posY * posY * (1./(srcW*srcW) + sqr(1./(monoW*sinT)) + sqr(cH/(mos*sinT)))
	cv := 0.5 * f2 * posZ * posZ * (1./(srcH*srcH) + 1./(monoH*monoH) + sqr(cV/mosV))

	arm := eckArm{a: a, b: b, c: cc}

	// integrate the vertical crystal tilt
	vq, err := quadric.FromRows(av, bv, cv)
	if err == nil {
		vq, _, err = vq.Marginalize(1)
	}
	if err != nil {
		a.Set(2, 2, math.NaN())
		return arm
	}
	a.Set(2, 2, vq.Matrix()[0][0])
	b.SetVec(2, vq.Vector()[0])
	arm.c += vq.S()
	arm.refl = in.refl * math.Sqrt(math.Pi/(av[1][1]*a.At(1, 1)))

	return arm
}

func sqr(x float64) float64 { return x * x }
