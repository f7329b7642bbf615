// SPDX-License-Identifier: MIT

package reso

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

// Results is the outcome of one resolution calculation.
// When Ok is false only Err and QAvg are meaningful.
type Results struct {
	Ok  bool
	Err string

	Reso  [4][4]float64 // quadratic part
	ResoV [4]float64    // linear part
	ResoS float64       // constant part

	QAvg       [4]float64 // (Q, 0, 0, E) in 1/Å and meV
	R0         float64    // intensity prefactor
	ResVol     float64    // volume of the ellipsoid, 1/Å³·meV
	BraggFWHMs [4]float64 // SIGMA2FWHM/sqrt(Reso_ii)
}

// Quadric returns the result as the form xᵗ·Q·x + rᵗ·x + s whose unit level set
// is the resolution ellipsoid: Q = Reso, r = 2·ResoV, s = 2·ResoS.
func (r Results) Quadric() quadric.Quadric {
	var v [4]float64
	for i := range v {
		v[i] = 2. * r.ResoV[i]
	}

	return quadric.From4(r.Reso, v, 2.*r.ResoS)
}

// AsError returns nil for a successful result and an error wrapping
// ErrCalcFailed with the diagnostic text otherwise.
func (r Results) AsError() error {
	if r.Ok {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrCalcFailed, r.Err)
}

// BraggFWHMs returns the coherent (Bragg) widths SIGMA2FWHM/sqrt(m_ii) of the
// diagonal of a resolution matrix.
func BraggFWHMs(m [4][4]float64) [4]float64 {
	var out [4]float64
	for i := 0; i < 4; i++ {
		out[i] = units.SIGMA2FWHM / math.Sqrt(m[i][i])
	}

	return out
}

func failed(qAvg [4]float64, msg string) Results {
	return Results{Ok: false, Err: msg, QAvg: qAvg}
}

// finish symmetrises Reso, fills volume and Bragg widths and applies the
// sanity check.
func finish(res Results) Results {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			m := 0.5 * (res.Reso[i][j] + res.Reso[j][i])
			res.Reso[i][j], res.Reso[j][i] = m, m
		}
	}
	if !finiteMat4(res.Reso) || math.IsNaN(res.R0) || math.IsInf(res.R0, 0) {
		return failed(res.QAvg, msgInvalid)
	}
	vol, err := quadric.From4(res.Reso, [4]float64{}, 0).Volume()
	if err != nil {
		return failed(res.QAvg, msgInvalid)
	}
	res.ResVol = vol
	res.BraggFWHMs = BraggFWHMs(res.Reso)
	res.Ok = true

	return res
}

// mirrorQPerp flips the sign of the Q⊥ coordinate: M·Reso·M, M = diag(1,−1,1,1).
func mirrorQPerp(res *Results) {
	for i := 0; i < 4; i++ {
		if i == 1 {
			continue
		}
		res.Reso[1][i] = -res.Reso[1][i]
		res.Reso[i][1] = -res.Reso[i][1]
	}
	res.ResoV[1] = -res.ResoV[1]
}

func finiteMat4(m [4][4]float64) bool {
	for i := range m {
		for _, v := range m[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}

	return true
}

func qAvgOf(q units.Wavenumber, e units.Energy) [4]float64 {
	return [4]float64{float64(q), 0, 0, float64(e)}
}
