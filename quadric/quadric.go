// SPDX-License-Identifier: MIT

package quadric

import (
	"fmt"
	"math"
	"sort"
)

// MaxDim is the largest dimension a Quadric can hold. The resolution algorithms
// never need more than six coordinates (ki and kf deviations in 3D).
const MaxDim = 6

// degenerateRelTol is the relative size below which a diagonal entry counts as zero.
const degenerateRelTol = 1e-14

// Quadric is the quadratic form xᵗ·Q·x + rᵗ·x + s over n ≤ MaxDim coordinates.
// The zero value is an empty (n = 0) quadric; use New or FromRows.
type Quadric struct {
	n    int
	q    [MaxDim][MaxDim]float64
	r    [MaxDim]float64
	s    float64
	axis [MaxDim]int // original axis id held by each slot
}

// New returns an n-dimensional quadric with all coefficients zero.
// Slot i holds axis i.
func New(n int) (Quadric, error) {
	var qd Quadric
	if n < 1 || n > MaxDim {
		return qd, quadricErrorf(opNew, fmt.Errorf("n=%d: %w", n, ErrBadShape))
	}
	qd.n = n
	for i := 0; i < n; i++ {
		qd.axis[i] = i
	}

	return qd, nil
}

// FromRows builds a quadric from a square row-major matrix, a linear vector
// (nil means zero) and a constant.
//
// Errors:
//   - ErrBadShape          for an empty, oversized or ragged matrix.
//   - ErrDimensionMismatch when len(r) does not match.
//   - ErrNaNInf            for non-finite coefficients.
func FromRows(q [][]float64, r []float64, s float64) (Quadric, error) {
	qd, err := New(len(q))
	if err != nil {
		return qd, quadricErrorf(opFromRows, err)
	}
	if r != nil && len(r) != qd.n {
		return qd, quadricErrorf(opFromRows, ErrDimensionMismatch)
	}
	var i, j int
	for i = 0; i < qd.n; i++ {
		if len(q[i]) != qd.n {
			return qd, quadricErrorf(opFromRows, fmt.Errorf("row %d: %w", i, ErrBadShape))
		}
		for j = 0; j < qd.n; j++ {
			qd.q[i][j] = q[i][j]
		}
		if r != nil {
			qd.r[i] = r[i]
		}
	}
	qd.s = s
	if err = qd.validateFinite(); err != nil {
		return qd, quadricErrorf(opFromRows, err)
	}

	return qd, nil
}

// From4 builds a 4D quadric from fixed-size arrays, the shape every resolution
// result has. It performs no validation.
func From4(q [4][4]float64, r [4]float64, s float64) Quadric {
	var qd Quadric
	qd.n = 4
	for i := 0; i < 4; i++ {
		qd.axis[i] = i
		qd.r[i] = r[i]
		for j := 0; j < 4; j++ {
			qd.q[i][j] = q[i][j]
		}
	}
	qd.s = s

	return qd
}

// Dim returns the current number of coordinates.
func (qd Quadric) Dim() int { return qd.n }

// At returns Q[i][j].
func (qd Quadric) At(i, j int) (float64, error) {
	if i < 0 || j < 0 || i >= qd.n || j >= qd.n {
		return 0, quadricErrorf(opAt, fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, qd.n, qd.n, ErrOutOfRange))
	}

	return qd.q[i][j], nil
}

// Matrix returns a fresh row-major copy of the quadratic part.
func (qd Quadric) Matrix() [][]float64 {
	out := make([][]float64, qd.n)
	for i := 0; i < qd.n; i++ {
		out[i] = make([]float64, qd.n)
		copy(out[i], qd.q[i][:qd.n])
	}

	return out
}

// Vector returns a fresh copy of the linear part.
func (qd Quadric) Vector() []float64 {
	out := make([]float64, qd.n)
	copy(out, qd.r[:qd.n])

	return out
}

// S returns the constant part.
func (qd Quadric) S() float64 { return qd.s }

// Axis returns the original axis id stored in slot, or -1 if slot is out of range.
func (qd Quadric) Axis(slot int) int {
	if slot < 0 || slot >= qd.n {
		return -1
	}

	return qd.axis[slot]
}

// SlotOf returns the current slot holding the original axis id.
func (qd Quadric) SlotOf(axis int) (int, bool) {
	for i := 0; i < qd.n; i++ {
		if qd.axis[i] == axis {
			return i, true
		}
	}

	return -1, false
}

// Eval returns f(x) = xᵗQx + rᵗx + s.
func (qd Quadric) Eval(x []float64) (float64, error) {
	if len(x) != qd.n {
		return 0, ErrDimensionMismatch
	}
	var i, j int
	sum := qd.s
	for i = 0; i < qd.n; i++ {
		sum += qd.r[i] * x[i]
		for j = 0; j < qd.n; j++ {
			sum += x[i] * qd.q[i][j] * x[j]
		}
	}

	return sum, nil
}

// Remove drops the given slots (and their rows, columns and linear entries).
// Slot numbers refer to the current layout; duplicates are rejected. Slots are
// processed from the highest down, so the caller never has to pre-shift them.
func (qd Quadric) Remove(slots ...int) (Quadric, error) {
	if len(slots) == 0 {
		return qd, nil
	}
	idx := append([]int(nil), slots...)
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	for k, slot := range idx {
		if slot < 0 || slot >= qd.n {
			return qd, quadricErrorf(opRemove, fmt.Errorf("slot %d of %d: %w", slot, qd.n, ErrOutOfRange))
		}
		if k > 0 && idx[k-1] == slot {
			return qd, quadricErrorf(opRemove, fmt.Errorf("slot %d given twice: %w", slot, ErrOutOfRange))
		}
	}
	if len(idx) >= qd.n {
		return qd, quadricErrorf(opRemove, fmt.Errorf("cannot remove all %d slots: %w", qd.n, ErrBadShape))
	}
	out := qd
	for _, slot := range idx {
		out = out.removeSlot(slot)
	}

	return out, nil
}

// removeSlot compacts the arena around slot. The caller guarantees the range.
func (qd Quadric) removeSlot(slot int) Quadric {
	var out Quadric
	out.n = qd.n - 1
	out.s = qd.s
	var i, j, oi, oj int
	for i, oi = 0, 0; i < qd.n; i++ {
		if i == slot {
			continue
		}
		out.r[oi] = qd.r[i]
		out.axis[oi] = qd.axis[i]
		for j, oj = 0, 0; j < qd.n; j++ {
			if j == slot {
				continue
			}
			out.q[oi][oj] = qd.q[i][j]
			oj++
		}
		oi++
	}

	return out
}

// Extend appends a new, uncoupled coordinate with the given diagonal entry and
// axis id. It is the inverse of Remove for an axis that carried no coupling.
func (qd Quadric) Extend(diag float64, axis int) (Quadric, error) {
	if qd.n >= MaxDim {
		return qd, quadricErrorf(opExtend, ErrBadShape)
	}
	if _, taken := qd.SlotOf(axis); taken {
		return qd, quadricErrorf(opExtend, fmt.Errorf("axis %d already present: %w", axis, ErrBadShape))
	}
	out := qd
	out.q[out.n][out.n] = diag
	out.axis[out.n] = axis
	out.n++

	return out, nil
}

// Marginalize integrates coordinate slot out of exp(−f(x)).
//
// Completing the square in x_i with b = (Q_{i,·} + Q_{·,i})/2 gives
//
//	Q' = Q_rest − b·bᵗ/Q_ii
//	r' = r_rest − (r_i/Q_ii)·b
//	s' = s − r_i²/(4·Q_ii)
//
// and the integral contributes the factor sqrt(π/Q_ii), which is returned
// as weight.
//
// Errors:
//   - ErrOutOfRange     for a bad slot.
//   - ErrBadShape       if slot is the only coordinate left.
//   - ErrDegenerateAxis if |Q_ii| is zero relative to the largest entry.
func (qd Quadric) Marginalize(slot int) (Quadric, float64, error) {
	if slot < 0 || slot >= qd.n {
		return qd, 0, quadricErrorf(opMarginalize, fmt.Errorf("slot %d of %d: %w", slot, qd.n, ErrOutOfRange))
	}
	if qd.n == 1 {
		return qd, 0, quadricErrorf(opMarginalize, ErrBadShape)
	}
	qii := qd.q[slot][slot]
	if math.IsNaN(qii) || math.Abs(qii) <= degenerateRelTol*qd.maxAbs() {
		return qd, 0, quadricErrorf(opMarginalize, fmt.Errorf("axis %d: %w", qd.axis[slot], ErrDegenerateAxis))
	}

	var b [MaxDim]float64
	var i, j int
	for j = 0; j < qd.n; j++ {
		b[j] = 0.5 * (qd.q[slot][j] + qd.q[j][slot])
	}
	ri := qd.r[slot]

	out := qd
	for i = 0; i < qd.n; i++ {
		out.r[i] = qd.r[i] - ri/qii*b[i]
		for j = 0; j < qd.n; j++ {
			out.q[i][j] = qd.q[i][j] - b[i]*b[j]/qii
		}
	}
	out.s = qd.s - ri*ri/(4.*qii)
	weight := math.Sqrt(math.Pi / math.Abs(qii))

	return out.removeSlot(slot), weight, nil
}

// Transform applies the congruence Q' = Mᵗ·Q·M, r' = Mᵗ·r. With M a rotation
// whose columns are the new basis vectors this expresses the form in that basis.
func (qd Quadric) Transform(m [][]float64) (Quadric, error) {
	if len(m) != qd.n {
		return qd, quadricErrorf(opTransform, ErrDimensionMismatch)
	}
	for i := range m {
		if len(m[i]) != qd.n {
			return qd, quadricErrorf(opTransform, ErrDimensionMismatch)
		}
	}

	var tmp [MaxDim][MaxDim]float64 // Q·M
	var i, j, k int
	var sum float64
	for i = 0; i < qd.n; i++ {
		for j = 0; j < qd.n; j++ {
			sum = 0
			for k = 0; k < qd.n; k++ {
				sum += qd.q[i][k] * m[k][j]
			}
			tmp[i][j] = sum
		}
	}
	out := qd
	for i = 0; i < qd.n; i++ {
		for j = 0; j < qd.n; j++ {
			sum = 0
			for k = 0; k < qd.n; k++ {
				sum += m[k][i] * tmp[k][j]
			}
			out.q[i][j] = sum
		}
		sum = 0
		for k = 0; k < qd.n; k++ {
			sum += m[k][i] * qd.r[k]
		}
		out.r[i] = sum
	}

	return out, nil
}

// Symmetric reports whether |Q_ij − Q_ji| ≤ tol for all i < j.
func (qd Quadric) Symmetric(tol float64) error {
	var i, j int
	for i = 0; i < qd.n; i++ {
		for j = i + 1; j < qd.n; j++ {
			if math.Abs(qd.q[i][j]-qd.q[j][i]) > tol {
				return fmt.Errorf("(%d,%d): %w", i, j, ErrAsymmetry)
			}
		}
	}

	return nil
}

// validateFinite rejects NaN/Inf anywhere in the form.
func (qd Quadric) validateFinite() error {
	if math.IsNaN(qd.s) || math.IsInf(qd.s, 0) {
		return ErrNaNInf
	}
	var i, j int
	for i = 0; i < qd.n; i++ {
		if math.IsNaN(qd.r[i]) || math.IsInf(qd.r[i], 0) {
			return ErrNaNInf
		}
		for j = 0; j < qd.n; j++ {
			if math.IsNaN(qd.q[i][j]) || math.IsInf(qd.q[i][j], 0) {
				return ErrNaNInf
			}
		}
	}

	return nil
}

// maxAbs returns the largest |Q_ij|.
func (qd Quadric) maxAbs() float64 {
	var m float64
	for i := 0; i < qd.n; i++ {
		for j := 0; j < qd.n; j++ {
			if a := math.Abs(qd.q[i][j]); a > m {
				m = a
			}
		}
	}

	return m
}
