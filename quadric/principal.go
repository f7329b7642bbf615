// SPDX-License-Identifier: MIT

package quadric

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/tasreso/units"
)

// Principal is the principal-axis decomposition of a Quadric.
//
// Rot holds the eigenvectors in its columns, ordered so that column i is the one
// closest to the original slot i and has a non-negative i-th component. In the
// principal frame y = Rotᵗ·x the form reads Σ λ_i·y_i² + r'_i·y_i + s.
type Principal struct {
	N      int
	Rot    [MaxDim][MaxDim]float64
	Evals  [MaxDim]float64
	Radii  [MaxDim]float64 // 1/sqrt|λ_i|
	HWHM   [MaxDim]float64 // SIGMA2HWHM·radius
	Offset [MaxDim]float64 // centre in the principal frame, −r'_i/(2λ_i)
	Volume float64         // C(n)·Π radii
}

// Principal decomposes the quadratic part into principal axes and derives the
// radii, half-widths, principal-frame offset and volume.
//
// Errors:
//   - ErrBadShape    for an empty quadric.
//   - ErrEigenFailed / ErrNaNInf / ErrAsymmetry from the Jacobi solver.
//   - ErrSingular    if an eigenvalue vanishes relative to the largest one.
func (qd Quadric) Principal() (Principal, error) {
	var p Principal
	if qd.n < 1 {
		return p, quadricErrorf(opPrincipal, ErrBadShape)
	}
	evals, evecs, err := eigenSym(qd.q, qd.n)
	if err != nil {
		return p, quadricErrorf(opPrincipal, err)
	}

	order := matchAxes(evecs, qd.n)
	p.N = qd.n
	var i, k int
	var maxEval float64
	for i = 0; i < qd.n; i++ {
		maxEval = math.Max(maxEval, math.Abs(evals[i]))
	}
	p.Volume = BallConstant(qd.n)
	for i = 0; i < qd.n; i++ {
		src := order[i]
		lam := evals[src]
		if math.Abs(lam) <= degenerateRelTol*maxEval || lam == 0 {
			return p, quadricErrorf(opPrincipal, fmt.Errorf("eigenvalue %d: %w", i, ErrSingular))
		}
		sign := 1.
		if evecs[i][src] < 0 {
			sign = -1.
		}
		for k = 0; k < qd.n; k++ {
			p.Rot[k][i] = sign * evecs[k][src]
		}
		p.Evals[i] = lam
		p.Radii[i] = 1. / math.Sqrt(math.Abs(lam))
		p.HWHM[i] = units.SIGMA2HWHM * p.Radii[i]
		p.Volume *= p.Radii[i]
	}

	// linear part in the principal frame
	var rp float64
	for i = 0; i < qd.n; i++ {
		rp = 0
		for k = 0; k < qd.n; k++ {
			rp += p.Rot[k][i] * qd.r[k]
		}
		p.Offset[i] = -rp / (2. * p.Evals[i])
	}

	return p, nil
}

// Centre returns the centre of the form in the original frame, Rot·Offset.
func (p Principal) Centre() []float64 {
	out := make([]float64, p.N)
	for i := 0; i < p.N; i++ {
		for k := 0; k < p.N; k++ {
			out[i] += p.Rot[i][k] * p.Offset[k]
		}
	}

	return out
}

// RotMatrix returns Rot as a fresh row-major slice matrix.
func (p Principal) RotMatrix() [][]float64 {
	out := make([][]float64, p.N)
	for i := 0; i < p.N; i++ {
		out[i] = append([]float64(nil), p.Rot[i][:p.N]...)
	}

	return out
}

// matchAxes assigns eigenvector columns to slots, largest |component| first,
// so that the decomposition of a nearly diagonal form keeps its axis order.
// order[slot] is the eigenvector column placed into slot.
func matchAxes(evecs [MaxDim][MaxDim]float64, n int) [MaxDim]int {
	type cand struct {
		slot, col int
		w         float64
	}
	cands := make([]cand, 0, n*n)
	for slot := 0; slot < n; slot++ {
		for col := 0; col < n; col++ {
			cands = append(cands, cand{slot, col, math.Abs(evecs[slot][col])})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].w > cands[b].w })

	var order [MaxDim]int
	var slotUsed, colUsed [MaxDim]bool
	assigned := 0
	for _, c := range cands {
		if slotUsed[c.slot] || colUsed[c.col] {
			continue
		}
		order[c.slot] = c.col
		slotUsed[c.slot], colUsed[c.col] = true, true
		assigned++
		if assigned == n {
			break
		}
	}

	return order
}

// Det returns det Q via LU decomposition with partial pivoting.
func (qd Quadric) Det() float64 {
	a := qd.q
	n := qd.n
	det := 1.
	var i, j, k, piv int
	var f float64
	for k = 0; k < n; k++ {
		piv = k
		for i = k + 1; i < n; i++ {
			if math.Abs(a[i][k]) > math.Abs(a[piv][k]) {
				piv = i
			}
		}
		if a[piv][k] == 0 {
			return 0
		}
		if piv != k {
			a[piv], a[k] = a[k], a[piv]
			det = -det
		}
		det *= a[k][k]
		for i = k + 1; i < n; i++ {
			f = a[i][k] / a[k][k]
			for j = k; j < n; j++ {
				a[i][j] -= f * a[k][j]
			}
		}
	}

	return det
}

// Volume returns C(n)/sqrt|det Q|, the volume enclosed by xᵗQx = 1.
func (qd Quadric) Volume() (float64, error) {
	if qd.n < 1 {
		return 0, quadricErrorf(opVolume, ErrBadShape)
	}
	det := qd.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return 0, quadricErrorf(opVolume, ErrSingular)
	}

	return BallConstant(qd.n) / math.Sqrt(math.Abs(det)), nil
}

// BallConstant is the volume of the unit n-ball, π^{n/2}/Γ(n/2+1).
func BallConstant(n int) float64 {
	return math.Pow(math.Pi, 0.5*float64(n)) / math.Gamma(0.5*float64(n)+1.)
}
