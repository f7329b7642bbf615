// SPDX-License-Identifier: MIT

package tas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/units"
)

// Lattice holds the direct-lattice constants, lengths in Å.
type Lattice struct {
	A, B, C            float64
	Alpha, Beta, Gamma units.Angle
}

// Cubic returns a cubic lattice with constant a.
func Cubic(a float64) Lattice {
	r := units.Deg(90)
	return Lattice{A: a, B: a, C: a, Alpha: r, Beta: r, Gamma: r}
}

// Real returns the direct basis vectors a, b, c in the columns of a 3×3
// matrix, a along x and b in the xy plane.
func (l Lattice) Real() (*mat.Dense, error) {
	if l.A <= 0 || l.B <= 0 || l.C <= 0 {
		return nil, fmt.Errorf("lengths %g, %g, %g: %w", l.A, l.B, l.C, ErrBadLattice)
	}
	ca, cb, cg := math.Cos(l.Alpha.Rad()), math.Cos(l.Beta.Rad()), math.Cos(l.Gamma.Rad())
	sg := math.Sin(l.Gamma.Rad())
	if math.Abs(sg) < 1e-12 {
		return nil, fmt.Errorf("gamma: %w", ErrBadLattice)
	}
	cy := (ca - cb*cg) / sg
	czSq := 1. - cb*cb - cy*cy
	if czSq <= 0 {
		return nil, fmt.Errorf("angles do not form a cell: %w", ErrBadLattice)
	}

	return mat.NewDense(3, 3, []float64{
		l.A, l.B * cg, l.C * cb,
		0, l.B * sg, l.C * cy,
		0, 0, l.C * math.Sqrt(czSq),
	}), nil
}

// Reciprocal returns B, the reciprocal basis in columns including the
// factor 2π, so that B·(h,k,l) is a momentum in 1/Å.
func (l Lattice) Reciprocal() (*mat.Dense, error) {
	a, err := l.Real()
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err = inv.Inverse(a.T()); err != nil {
		return nil, fmt.Errorf("direct basis: %v: %w", err, ErrBadLattice)
	}
	inv.Scale(2.*math.Pi, &inv)

	return &inv, nil
}

// Orientation carries the crystal orientation matrices of a session, all
// padded to 4×4 with the energy axis as identity.
type Orientation struct {
	Lattice    Lattice
	Vec1, Vec2 [3]float64 // scattering-plane vectors, rlu

	B, BInv   [4][4]float64
	U, UInv   [4][4]float64
	UB, UBInv [4][4]float64

	// Orientation-vector frame: URLU maps rlu onto (vec1, vec2, up)
	// without the metric of B.
	URLU, UInvRLU [4][4]float64
}

// NewOrientation builds B from the lattice, U from the plane vectors
// (x along vec1, z along vec1×vec2), UB = U·B and all inverses.
func NewOrientation(l Lattice, vec1, vec2 [3]float64) (Orientation, error) {
	o := Orientation{Lattice: l, Vec1: vec1, Vec2: vec2}
	b, err := l.Reciprocal()
	if err != nil {
		return o, tasErrorf(opOrientation, err)
	}
	u, err := planeBasis(mat.NewVecDense(3, vec1[:]), mat.NewVecDense(3, vec2[:]), b)
	if err != nil {
		return o, tasErrorf(opOrientation, err)
	}
	uRLU, err := planeBasis(mat.NewVecDense(3, vec1[:]), mat.NewVecDense(3, vec2[:]), nil)
	if err != nil {
		return o, tasErrorf(opOrientation, err)
	}

	var ub, bInv, uInv, ubInv, uInvRLU mat.Dense
	ub.Mul(u, b)
	if err = bInv.Inverse(b); err != nil {
		return o, tasErrorf(opOrientation, fmt.Errorf("B: %v: %w", err, ErrBadLattice))
	}
	// U and URLU are orthonormal
	uInv.CloneFrom(u.T())
	uInvRLU.CloneFrom(uRLU.T())
	ubInv.Mul(&bInv, &uInv)

	o.B, o.BInv = pad4(b), pad4(&bInv)
	o.U, o.UInv = pad4(u), pad4(&uInv)
	o.UB, o.UBInv = pad4(&ub), pad4(&ubInv)
	o.URLU, o.UInvRLU = pad4(uRLU), pad4(&uInvRLU)

	return o, nil
}

// QVec returns UB·(h,k,l) in the scattering-plane frame, 1/Å.
func (o Orientation) QVec(h, k, l float64) [3]float64 {
	hkl := [3]float64{h, k, l}
	var q [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q[i] += o.UB[i][j] * hkl[j]
		}
	}

	return q
}

// planeBasis returns the orthonormal matrix whose rows are x = v1/|v1|,
// y = up×x and up = v1×v2/|v1×v2|, after mapping v1, v2 through metric
// when it is not nil.
func planeBasis(v1, v2 *mat.VecDense, metric mat.Matrix) (*mat.Dense, error) {
	if metric != nil {
		var w1, w2 mat.VecDense
		w1.MulVec(metric, v1)
		w2.MulVec(metric, v2)
		v1, v2 = &w1, &w2
	}
	n1 := mat.Norm(v1, 2)
	up := cross(v1, v2)
	nUp := mat.Norm(up, 2)
	if n1 < 1e-12 || nUp < 1e-12*n1*mat.Norm(v2, 2) || nUp == 0 {
		return nil, fmt.Errorf("plane vectors are collinear: %w", ErrBadLattice)
	}
	x := mat.NewVecDense(3, nil)
	x.ScaleVec(1./n1, v1)
	up.ScaleVec(1./nUp, up)
	y := cross(up, x)

	u := mat.NewDense(3, 3, nil)
	u.SetRow(0, x.RawVector().Data)
	u.SetRow(1, y.RawVector().Data)
	u.SetRow(2, up.RawVector().Data)

	return u, nil
}

func cross(a, b mat.Vector) *mat.VecDense {
	return mat.NewVecDense(3, []float64{
		a.AtVec(1)*b.AtVec(2) - a.AtVec(2)*b.AtVec(1),
		a.AtVec(2)*b.AtVec(0) - a.AtVec(0)*b.AtVec(2),
		a.AtVec(0)*b.AtVec(1) - a.AtVec(1)*b.AtVec(0),
	})
}

func pad4(m mat.Matrix) [4][4]float64 {
	var out [4][4]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	out[3][3] = 1

	return out
}
