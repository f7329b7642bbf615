package quadric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

func TestPrincipalDiagonal(t *testing.T) {
	qd := mustQuadric(t, [][]float64{{4, 0}, {0, 9}}, nil, 0)
	p, err := qd.Principal()
	require.NoError(t, err)

	assert.InDelta(t, 4., p.Evals[0], 1e-14)
	assert.InDelta(t, 9., p.Evals[1], 1e-14)
	assert.InDelta(t, 0.5, p.Radii[0], 1e-14)
	assert.InDelta(t, 1./3., p.Radii[1], 1e-14)
	assert.InDelta(t, units.SIGMA2HWHM*0.5, p.HWHM[0], 1e-14)
	assert.InDelta(t, 1., p.Rot[0][0], 1e-14)
	assert.InDelta(t, 1., p.Rot[1][1], 1e-14)
	assert.InDelta(t, math.Pi/6., p.Volume, 1e-14)
}

func TestPrincipalEigenpairs(t *testing.T) {
	qd := mustQuadric(t, spd4, nil, 0)
	p, err := qd.Principal()
	require.NoError(t, err)

	// A·v = λ·v and the columns are orthonormal
	for c := 0; c < 4; c++ {
		for i := 0; i < 4; i++ {
			var av float64
			for k := 0; k < 4; k++ {
				av += spd4[i][k] * p.Rot[k][c]
			}
			assert.InDelta(t, p.Evals[c]*p.Rot[i][c], av, 1e-12)
		}
		for d := 0; d < 4; d++ {
			var dot float64
			for k := 0; k < 4; k++ {
				dot += p.Rot[k][c] * p.Rot[k][d]
			}
			want := 0.
			if c == d {
				want = 1.
			}
			assert.InDelta(t, want, dot, 1e-12)
		}
		// ordered to stay close to the original axes
		assert.Greater(t, p.Rot[c][c], 0.)
	}
}

func TestPrincipalRotated2D(t *testing.T) {
	phi := 0.3
	c, s := math.Cos(phi), math.Sin(phi)
	// Q = R·diag(1, 25)·Rᵗ
	q := [][]float64{
		{c*c*1 + s*s*25, c*s*(1-25)},
		{c * s * (1 - 25), s*s*1 + c*c*25},
	}
	qd := mustQuadric(t, q, nil, 0)
	p, err := qd.Principal()
	require.NoError(t, err)
	assert.InDelta(t, 1., p.Evals[0], 1e-12)
	assert.InDelta(t, 25., p.Evals[1], 1e-12)
	assert.InDelta(t, phi, math.Atan2(p.Rot[1][0], p.Rot[0][0]), 1e-12)

	// transforming into the principal frame diagonalises the form
	diag, err := qd.Transform(p.RotMatrix())
	require.NoError(t, err)
	m := diag.Matrix()
	assert.InDelta(t, 0., m[0][1], 1e-12)
	assert.InDelta(t, 1., m[0][0], 1e-12)
	assert.InDelta(t, 25., m[1][1], 1e-12)
}

func TestPrincipalCentre(t *testing.T) {
	r := []float64{1, 2, -1, 0.5}
	qd := mustQuadric(t, spd4, r, 0)
	p, err := qd.Principal()
	require.NoError(t, err)

	inv := inverse(t, spd4)
	centre := p.Centre()
	for i := 0; i < 4; i++ {
		var want float64
		for k := 0; k < 4; k++ {
			want -= 0.5 * inv.At(i, k) * r[k]
		}
		assert.InDelta(t, want, centre[i], 1e-12)
	}
}

func TestVolumeConsistency(t *testing.T) {
	qd := mustQuadric(t, spd4, nil, 0)
	v, err := qd.Volume()
	require.NoError(t, err)
	p, err := qd.Principal()
	require.NoError(t, err)

	assert.InDelta(t, quadric.BallConstant(4)/math.Sqrt(qd.Det()), v, 1e-12)
	assert.InDelta(t, v, p.Volume, 1e-12)
}

func TestDet(t *testing.T) {
	qd := mustQuadric(t, [][]float64{{0, 2}, {3, 1}}, nil, 0)
	assert.InDelta(t, -6., qd.Det(), 1e-14)
}

func TestBallConstant(t *testing.T) {
	assert.InDelta(t, 2., quadric.BallConstant(1), 1e-14)
	assert.InDelta(t, math.Pi, quadric.BallConstant(2), 1e-14)
	assert.InDelta(t, 4./3.*math.Pi, quadric.BallConstant(3), 1e-14)
	assert.InDelta(t, math.Pi*math.Pi/2., quadric.BallConstant(4), 1e-14)
}

func TestSingular(t *testing.T) {
	qd := mustQuadric(t, [][]float64{{1, 1}, {1, 1}}, nil, 0)
	_, err := qd.Volume()
	require.ErrorIs(t, err, quadric.ErrSingular)
	_, err = qd.Principal()
	require.ErrorIs(t, err, quadric.ErrSingular)
}

func TestSymmetric(t *testing.T) {
	qd := mustQuadric(t, [][]float64{{1, 0.5}, {0.4, 1}}, nil, 0)
	require.ErrorIs(t, qd.Symmetric(1e-3), quadric.ErrAsymmetry)
	require.NoError(t, qd.Symmetric(0.2))
	_, err := qd.Principal()
	require.ErrorIs(t, err, quadric.ErrAsymmetry)
}

func TestTransformDimension(t *testing.T) {
	qd := mustQuadric(t, spd4, nil, 0)
	_, err := qd.Transform([][]float64{{1, 0}, {0, 1}})
	require.ErrorIs(t, err, quadric.ErrDimensionMismatch)
}
