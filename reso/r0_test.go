package reso_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/units"
)

func TestScatterFactors(t *testing.T) {
	ki, kf := units.Wavenumber(2.662), units.Wavenumber(2.2)
	thM, thA := units.Deg(-20), units.Deg(25)

	m, a, x := reso.ScatterFactors(0, thM, ki, thA, kf)
	assert.Equal(t, 1., m)
	assert.Equal(t, 1., a)
	assert.Equal(t, 1., x)

	m, a, x = reso.ScatterFactors(reso.FlagKi3|reso.FlagKf3|reso.FlagKfKi, thM, ki, thA, kf)
	assert.InDelta(t, kinematics.AnaEfficFactor(ki, units.Deg(20)), m, 1e-12)
	assert.InDelta(t, kinematics.AnaEfficFactor(kf, thA), a, 1e-12)
	assert.InDelta(t, 2.2/2.662, x, 1e-15)
	assert.Greater(t, m, 0.)
}

func TestR0P(t *testing.T) {
	th := units.Deg(20)
	mos := units.Arcmin(30)
	s := math.Sin(th.Rad())

	// an open collimator leaves the mosaic term alone
	open := reso.R0P(th, 0, mos)
	assert.InDelta(t, math.Sqrt(2*math.Pi)*2*mos.Rad()*s, open, 1e-14)

	narrow := reso.R0P(th, units.Arcmin(10), mos)
	assert.Less(t, narrow, open)
}

func TestR0N(t *testing.T) {
	mos := units.Arcmin(30)
	want := 0.8 / (2 * mos.Rad() * math.Sin(units.Deg(20).Rad())) / math.Sqrt(2*math.Pi)
	assert.InDelta(t, want, reso.R0N(units.Deg(20), mos, 0.8), 1e-12)
	assert.InDelta(t, want, reso.R0N(units.Deg(-20), mos, 0.8), 1e-12)
}

func TestR0JScalesWithKf(t *testing.T) {
	tt := units.Deg(50)
	base := reso.R0J(2, 1, tt)
	assert.InDelta(t, base/8, reso.R0J(2, 2, tt), 1e-12*base)
	assert.InDelta(t, base/4, reso.R0J(4, 1, tt), 1e-12*base)
	assert.Greater(t, base, 0.)
}

func TestMitchR0(t *testing.T) {
	assert.InDelta(t, 0.5*2*0.25*4, reso.MitchR0(0.5, 0.25, 2, 4, 7, false), 1e-15)
	assert.InDelta(t, 1/(7*3*math.Pi), reso.MitchR0(0.5, 0.25, 2, 4, 7, true), 1e-15)
}

func TestReflectivityCurveScalesR0(t *testing.T) {
	p := tasFixture(t, 2, 0)
	base := reso.CalcCN(p)
	require.True(t, base.Ok, base.Err)

	half, err := reso.NewReflCurve([]float64{1, 5}, []float64{0.5, 0.5})
	require.NoError(t, err)
	p.MonoReflCurve = half
	res := reso.CalcCN(p)
	require.True(t, res.Ok, res.Err)

	assert.InDelta(t, 0.5*base.R0, res.R0, 1e-12*base.R0)
	assert.Equal(t, base.Reso, res.Reso)
}
