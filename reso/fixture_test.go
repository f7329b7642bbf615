package reso_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/units"
)

const pgD = 3.355 // PG(002), Å

// tasFixture is a thermal triple-axis setup with ki fixed at 2.662 1/Å,
// 60' collimation everywhere and 30' mosaics.
func tasFixture(tb testing.TB, q units.Wavenumber, e units.Energy) reso.TASParams {
	tb.Helper()
	ki := units.Wavenumber(2.662)
	kf, err := kinematics.OtherK(e, ki, true)
	require.NoError(tb, err)
	d := units.Length(pgD) * units.Angstrom
	ttM, err := kinematics.MonoTwoTheta(ki, d, true)
	require.NoError(tb, err)
	ttA, err := kinematics.MonoTwoTheta(kf, d, true)
	require.NoError(tb, err)
	tt, err := kinematics.SampleTwoTheta(ki, kf, q, true)
	require.NoError(tb, err)
	kiQ, err := kinematics.AngleKiQ(ki, kf, q, true, false)
	require.NoError(tb, err)
	kfQ, err := kinematics.AngleKfQ(ki, kf, q, true, true)
	require.NoError(tb, err)

	coll := units.Arcmin(60)
	mos := units.Arcmin(30)

	return reso.TASParams{
		Common: reso.Common{
			MonoD: d, MonoMosaic: mos, MonoSense: -1,
			AnaD: d, AnaMosaic: mos, AnaSense: -1,
			SampleMosaic: mos, SampleSense: 1,

			CollHPreMono: coll, CollHPreSample: coll, CollHPostSample: coll, CollHPostAna: coll,
			CollVPreMono: coll, CollVPreSample: coll, CollVPostSample: coll, CollVPostAna: coll,

			Ki: ki, Kf: kf, Q: q, E: e,
			ThetaM:   units.AbsAngle(ttM / 2),
			ThetaA:   units.AbsAngle(ttA / 2),
			TwoTheta: units.AbsAngle(tt),
			AngleKiQ: kiQ,
			AngleKfQ: kfQ,

			MonoRefl: 1, AnaEffic: 1,
			Flags: reso.DefaultFlags,
		},

		MonoW: units.Cm(15), MonoH: units.Cm(15), MonoThick: units.Cm(0.2),
		AnaW: units.Cm(15), AnaH: units.Cm(15), AnaThick: units.Cm(0.2),

		SampleCuboid: true,
		SampleWQ:     units.Cm(1), SampleWPerpQ: units.Cm(1), SampleH: units.Cm(1),

		SrcRect: true, SrcW: units.Cm(6), SrcH: units.Cm(12),
		DetRect: true, DetW: units.Cm(2.5), DetH: units.Cm(5),

		DistSrcMono:    units.Cm(200),
		DistMonoSample: units.Cm(150),
		DistSampleAna:  units.Cm(100),
		DistAnaDet:     units.Cm(50),

		MonoMosaicV: mos,
		AnaMosaicV:  mos,
	}
}

func tofFixture() reso.TOFParams {
	ki := units.Wavenumber(1.5)
	tt := units.Deg(60)
	return reso.TOFParams{
		Ki: ki, Kf: ki, TwoTheta: tt,
		Q:        kinematics.SampleQ(ki, ki, tt),
		AngleKiQ: units.Deg(60),
		AngleKfQ: units.Deg(120),

		LenPulseMono:  units.Length(10),
		LenMonoSample: units.Length(1.5),
		LenSampleDet:  units.Length(3),

		SigLenPulseMono:  units.Cm(1),
		SigLenMonoSample: units.Cm(1),
		SigLenSampleDet:  units.Cm(1),

		SigPulse: units.Microseconds(10),
		SigMono:  units.Microseconds(5),
		SigDet:   units.Microseconds(5),

		SigTwoThetaI: units.Deg(0.5),
		SigOutplaneI: units.Deg(0.5),
		SigTwoThetaF: units.Deg(0.5),
		SigOutplaneF: units.Deg(0.5),
	}
}

func simpleFixture() reso.SimpleParams {
	ki := units.Wavenumber(2.662)
	tt := units.Deg(40)
	return reso.SimpleParams{
		Ki: ki, Kf: ki, TwoTheta: tt,
		Q:        kinematics.SampleQ(ki, ki, tt),
		AngleKiQ: units.Deg(70),
		AngleKfQ: units.Deg(110),
		SigKi:    0.01, SigKf: 0.01,
		SigKiPerp: 0.02, SigKfPerp: 0.02,
		SigKiZ: 0.03, SigKfZ: 0.03,
	}
}

// requireSPD asserts a finite, symmetric, positive-definite resolution matrix.
func requireSPD(t *testing.T, res reso.Results) {
	t.Helper()
	require.True(t, res.Ok, res.Err)

	var scale float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			scale = math.Max(scale, math.Abs(res.Reso[i][j]))
		}
	}
	data := make([]float64, 0, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			require.InDelta(t, res.Reso[i][j], res.Reso[j][i], 1e-9*scale)
			data = append(data, res.Reso[i][j])
		}
	}
	var es mat.EigenSym
	require.True(t, es.Factorize(mat.NewSymDense(4, data), false))
	for _, v := range es.Values(nil) {
		require.Greater(t, v, 0.)
	}
}
