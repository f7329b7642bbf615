// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

// CalcCN computes the Cooper–Nathans resolution matrix. Only the Common part
// of p is used. The sample is a point; crystals are flat.
//
// The six ki/kf deviations are weighted by the collimator and mosaic
// acceptances of monochromator and analyser, mapped onto (Q, E, ki_x, ki_z),
// and the two ki nuisance coordinates are integrated out.
func CalcCN(p TASParams) Results {
	c := &p.Common
	qAvg := qAvgOf(c.Q, c.E)

	thetaM := c.ThetaM * units.Angle(c.MonoSense)
	thetaA := c.ThetaA * units.Angle(c.AnaSense)
	kiQ := c.AngleKiQ * units.Angle(c.SampleSense)
	kfQ := c.AngleKfQ * units.Angle(c.SampleSense)

	u := trafoKiKfToQE(kiQ, kfQ, c.Ki, c.Kf)
	v, ok := invert(u)
	if !ok {
		return failed(qAvg, msgTrafoInv)
	}

	monoRefl, anaEffic, xsec := c.reflectivities()

	monoH, monoV := cnCrystal(thetaM, c.Ki, c.MonoMosaic, c.MonoMosaic,
		c.CollHPreMono, c.CollHPreSample, c.CollVPreMono, c.CollVPreSample)
	anaH, anaV := cnCrystal(-thetaA, c.Kf, c.AnaMosaic, c.AnaMosaic,
		c.CollHPostAna, c.CollHPostSample, c.CollVPostAna, c.CollVPostSample)

	m := mat.NewDense(6, 6, nil)
	setBlock(m, monoH, 0, 0)
	setBlock(m, anaH, 3, 3)
	m.Set(2, 2, monoV)
	m.Set(5, 5, anaV)

	qd, err := quadric.FromRows(rows(congruence(m, v)), nil, 0)
	if err != nil {
		return failed(qAvg, msgInvalid)
	}
	if qd, _, err = qd.Marginalize(5); err != nil {
		return failed(qAvg, msgInvalid)
	}
	if qd, _, err = qd.Marginalize(4); err != nil {
		return failed(qAvg, msgInvalid)
	}
	n := qd.Matrix()

	res := Results{QAvg: qAvg}
	// sample mosaic widens Q⊥
	etaQ := c.SampleMosaic.Rad() * float64(c.Q)
	var denom float64
	if etaQ != 0 {
		denom = 1./(etaQ*etaQ) + n[1][1]
	}
	s2 := units.SIGMA2FWHM * units.SIGMA2FWHM
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r := n[i][j]
			if etaQ != 0 {
				r -= n[i][1] * n[j][1] / denom
			}
			res.Reso[i][j] = r
		}
	}
	res.Reso[2][2] = n[2][2]
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			res.Reso[i][j] *= s2
		}
	}

	if c.SampleSense < 0 {
		mirrorQPerp(&res)
	}

	res.R0 = ChessR0(c.Ki, c.Kf, thetaM, thetaA, c.TwoTheta, c.MonoMosaic, c.AnaMosaic,
		c.CollVPreMono, c.CollVPostAna, monoRefl, anaEffic) * xsec

	return finish(res)
}

// cnCrystal returns the horizontal 2×2 acceptance matrix and the vertical
// inverse variance of one crystal (monochromator or analyser) with its two
// adjacent collimators.
func cnCrystal(theta units.Angle, k units.Wavenumber, mosaic, mosaicV units.Angle,
	coll1, coll2, coll1V, coll2V units.Angle) (*mat.Dense, float64) {
	t := math.Tan(theta.Rad())
	kk := float64(k)

	vMos := []float64{t / (kk * mosaic.Rad()), 1. / (kk * mosaic.Rad())}
	vColl1 := []float64{2. * t * invColl(coll1) / kk, invColl(coll1) / kk}
	vColl2 := []float64{0, invColl(coll2) / kk}

	h := mat.NewDense(2, 2, nil)
	for _, vec := range [][]float64{vMos, vColl1, vColl2} {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				h.Set(i, j, h.At(i, j)+vec[i]*vec[j])
			}
		}
	}

	sm := 2. * math.Sin(theta.Rad()) * mosaicV.Rad()
	vert := 1. / (kk * kk) * (invSq(coll2V) + 1./(sm*sm+collSq(coll1V)))

	return h, vert
}
