// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/units"
)

// invert returns a⁻¹, or false for a singular, ill-conditioned or non-finite result.
func invert(a mat.Matrix) (*mat.Dense, bool) {
	var out mat.Dense
	if err := out.Inverse(a); err != nil {
		return nil, false
	}
	if !finiteDense(&out) {
		return nil, false
	}

	return &out, true
}

// congruence returns tᵗ·a·t.
func congruence(a, t mat.Matrix) *mat.Dense {
	var at, out mat.Dense
	at.Mul(a, t)
	out.Mul(t.T(), &at)

	return &out
}

// congruenceT returns t·a·tᵗ.
func congruenceT(a, t mat.Matrix) *mat.Dense {
	var ta, out mat.Dense
	ta.Mul(t, a)
	out.Mul(&ta, t.T())

	return &out
}

func diag(v ...float64) *mat.Dense {
	m := mat.NewDense(len(v), len(v), nil)
	for i, x := range v {
		m.Set(i, i, x)
	}

	return m
}

// rot2d is the counter-clockwise rotation [[c, −s], [s, c]].
func rot2d(angle float64) *mat.Dense {
	s, c := math.Sincos(angle)
	return mat.NewDense(2, 2, []float64{c, -s, s, c})
}

// rot3z rotates about the z axis.
func rot3z(angle float64) *mat.Dense {
	s, c := math.Sincos(angle)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// rotKiQ4 is rot2d(−angle) padded to 4×4 with unit Qz and E entries.
func rotKiQ4(angle float64) *mat.Dense {
	s, c := math.Sincos(-angle)
	return mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func setBlock(dst *mat.Dense, src mat.Matrix, row, col int) {
	r, c := src.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(row+i, col+j, src.At(i, j))
		}
	}
}

func rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}

	return out
}

func to4(m mat.Matrix) [4][4]float64 {
	var out [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m.At(i, j)
		}
	}

	return out
}

func finiteDense(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}

	return true
}

// invSq is 1/a² for a collimation in radians; an open collimator (a ≤ 0)
// contributes nothing.
func invSq(a units.Angle) float64 {
	r := a.Rad()
	if r <= 0 {
		return 0
	}

	return 1. / (r * r)
}

// invColl is 1/a for a collimation, zero when open.
func invColl(a units.Angle) float64 {
	r := a.Rad()
	if r <= 0 {
		return 0
	}

	return 1. / r
}

// collSq is a² for a collimation, +Inf when open.
func collSq(a units.Angle) float64 {
	r := a.Rad()
	if r <= 0 {
		return math.Inf(1)
	}

	return r * r
}

// trafoKiKfToQE maps (dki_x, dki_y, dki_z, dkf_x, dkf_y, dkf_z) onto
// (dQ∥, dQ⊥, dQz, dE, dki_x, dki_z).
func trafoKiKfToQE(kiQ, kfQ units.Angle, ki, kf units.Wavenumber) *mat.Dense {
	u := mat.NewDense(6, 6, nil)
	setBlock(u, rot2d(kiQ.Rad()), 0, 0)
	tf := rot2d(kfQ.Rad())
	tf.Scale(-1, tf)
	setBlock(u, tf, 0, 3)
	u.Set(2, 2, 1)
	u.Set(2, 5, -1)
	u.Set(3, 0, 2.*float64(ki)*units.KSQ2E)
	u.Set(3, 3, -2.*float64(kf)*units.KSQ2E)
	u.Set(4, 0, 1)
	u.Set(5, 2, 1)

	return u
}
