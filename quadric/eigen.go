// SPDX-License-Identifier: MIT

package quadric

import (
	"fmt"
	"math"
)

// Jacobi iteration policy.
const (
	// eigenRelTol stops the sweep once every off-diagonal entry is below
	// eigenRelTol·‖A‖_F.
	eigenRelTol = 1e-15
	// eigenMaxRotations bounds the number of plane rotations per dimension².
	eigenMaxRotations = 100
)

// eigenSym diagonalises the symmetric arena a (size n) with cyclic max-pivot
// Jacobi rotations.
//
// Implementation:
//   - Stage 1: Validate symmetry (relative tolerance) and finiteness. Start V = I.
//   - Stage 2: Repeatedly pick the pivot (p,q) with the largest |A[p,q]|, stop when
//     it is below tol; otherwise rotate with
//     θ = (a_qq − a_pp)/(2a_pq), t = sign(θ)/(|θ| + √(θ²+1)), c = 1/√(t²+1), s = t·c.
//   - Stage 3: Accumulate the rotation into the columns of V.
//
// Returns:
//   - evals: diagonal of the converged A.
//   - evecs: V with eigenvectors in its columns (A·V = V·diag(evals)).
//
// Errors:
//   - ErrAsymmetry, ErrNaNInf on bad input.
//   - ErrEigenFailed if the rotation budget is exhausted.
//
// Complexity: O(n²) per rotation, O(n⁴) worst case for the budget; n ≤ 6.
func eigenSym(a [MaxDim][MaxDim]float64, n int) (evals [MaxDim]float64, evecs [MaxDim][MaxDim]float64, err error) {
	var (
		i, j, iter   int
		p, q         int
		maxOff, off  float64
		app, aqq     float64
		apq          float64
		aip, aiq     float64
		vip, viq     float64
		theta, t     float64
		c, s         float64
		norm, tol    float64
		newIP, newIQ float64
	)

	// Stage 1: validation and scale.
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if math.IsNaN(a[i][j]) || math.IsInf(a[i][j], 0) {
				return evals, evecs, quadricErrorf(opEigen, ErrNaNInf)
			}
			norm += a[i][j] * a[i][j]
		}
		evecs[i][i] = 1.
	}
	norm = math.Sqrt(norm)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(a[i][j]-a[j][i]) > 1e-9*norm {
				return evals, evecs, quadricErrorf(opEigen, fmt.Errorf("(%d,%d): %w", i, j, ErrAsymmetry))
			}
			// use the symmetric part from here on
			a[i][j] = 0.5 * (a[i][j] + a[j][i])
			a[j][i] = a[i][j]
		}
	}
	tol = eigenRelTol * norm

	// Stage 2: rotations.
	maxRot := eigenMaxRotations * n * n
	converged := false
	for iter = 0; iter < maxRot; iter++ {
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(a[i][j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff <= tol {
			converged = true
			break
		}

		app, aqq, apq = a[p][p], a[q][q], a[p][q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = a[i][p], a[i][q]
			newIP = c*aip - s*aiq
			newIQ = s*aip + c*aiq
			a[i][p], a[p][i] = newIP, newIP
			a[i][q], a[q][i] = newIQ, newIQ
		}
		a[p][p] = c*c*app - 2*c*s*apq + s*s*aqq
		a[q][q] = s*s*app + 2*c*s*apq + c*c*aqq
		a[p][q], a[q][p] = 0, 0

		// Stage 3: accumulate into V.
		for i = 0; i < n; i++ {
			vip, viq = evecs[i][p], evecs[i][q]
			evecs[i][p] = c*vip - s*viq
			evecs[i][q] = s*vip + c*viq
		}
	}
	if !converged {
		return evals, evecs, quadricErrorf(opEigen, ErrEigenFailed)
	}
	for i = 0; i < n; i++ {
		evals[i] = a[i][i]
	}

	return evals, evecs, nil
}
