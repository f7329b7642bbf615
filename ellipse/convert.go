// SPDX-License-Identifier: MIT

package ellipse

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/reso"
)

// Converted is a resolution quadric re-expressed in crystal coordinates.
type Converted struct {
	Reso [4][4]float64
	V    [4]float64
	QAvg [4]float64
}

// BraggFWHMs returns the coherent widths along the converted axes.
func (c Converted) BraggFWHMs() [4]float64 { return reso.BraggFWHMs(c.Reso) }

// ConvLabToRLU transforms the quadric from (Q∥, Q⊥, Qz, E) into (h, k, l, E).
// angleQVec0 is the angle of the first orientation vector relative to Q, ub
// and ubInv are the 4×4 padded orientation matrices.
//
// With A = QVec0ᵗ·UB mapping hkl into the Q frame, the quadratic part becomes
// Aᵗ·M·A, the linear part Aᵗ·v and the mean UB⁻¹·QVec0·QAvg.
func ConvLabToRLU(angleQVec0 float64, ub, ubInv [4][4]float64,
	m [4][4]float64, v, qAvg [4]float64) Converted {
	qv0 := qVec0(angleQVec0)
	var a, toHKL mat.Dense
	a.Mul(qv0.T(), dense4(ub))
	toHKL.Mul(dense4(ubInv), qv0)

	return transformQuadric(&a, &toHKL, m, v, qAvg)
}

// ConvLabToRLUOrient transforms into the scattering-plane basis (orient 1,
// orient 2, up) in rlu; uRLU and uInvRLU map hkl into that basis and back.
func ConvLabToRLUOrient(angleQVec0 float64, ub, ubInv, uRLU, uInvRLU [4][4]float64,
	m [4][4]float64, v, qAvg [4]float64) Converted {
	qv0 := qVec0(angleQVec0)
	var qb, a, hkl, toOrient mat.Dense
	qb.Mul(qv0.T(), dense4(ub))
	a.Mul(&qb, dense4(uInvRLU))
	hkl.Mul(dense4(ubInv), qv0)
	toOrient.Mul(dense4(uRLU), &hkl)

	return transformQuadric(&a, &toOrient, m, v, qAvg)
}

// transformQuadric applies x_old = a·x_new to the form and fwd to the mean.
func transformQuadric(a, fwd mat.Matrix, m [4][4]float64, v, qAvg [4]float64) Converted {
	var out Converted
	var ma, r mat.Dense
	ma.Mul(dense4(m), a)
	r.Mul(a.T(), &ma)

	var vv, qq mat.VecDense
	vv.MulVec(a.T(), mat.NewVecDense(4, v[:]))
	qq.MulVec(fwd, mat.NewVecDense(4, qAvg[:]))

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.Reso[i][j] = r.At(i, j)
		}
		out.V[i] = vv.AtVec(i)
		out.QAvg[i] = qq.AtVec(i)
	}

	return out
}

// qVec0 is the 2D rotation by −angle padded to 4×4.
func qVec0(angle float64) *mat.Dense {
	c, s := math.Cos(-angle), math.Sin(-angle)
	return mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func dense4(m [4][4]float64) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		d.SetRow(i, m[i][:])
	}

	return d
}
