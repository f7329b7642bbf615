// SPDX-License-Identifier: MIT

package ellipse

import (
	"fmt"

	"github.com/katalvlaran/tasreso/quadric"
)

// selection is an axis plan over the original 4D form. Negative entries
// in integ and remove mean "unused".
type selection struct {
	keep   []int // kept axes, in output order
	integ  int   // axis to marginalise
	remove []int // axes to drop, in this order
}

// validate checks that the kept, integrated and dropped axes are distinct and
// together cover all four axes.
func (sel selection) validate(nKeep int) error {
	if len(sel.keep) != nKeep {
		return fmt.Errorf("%d kept axes, want %d: %w", len(sel.keep), nKeep, ErrBadIndices)
	}
	var seen [4]bool
	count := 0
	mark := func(axis int, optional bool) error {
		if axis < 0 && optional {
			return nil
		}
		if axis < 0 || axis > 3 {
			return fmt.Errorf("axis %d: %w", axis, ErrBadIndices)
		}
		if seen[axis] {
			return fmt.Errorf("axis %d used twice: %w", axis, ErrBadIndices)
		}
		seen[axis] = true
		count++
		return nil
	}
	for _, a := range sel.keep {
		if err := mark(a, false); err != nil {
			return err
		}
	}
	if err := mark(sel.integ, true); err != nil {
		return err
	}
	for _, a := range sel.remove {
		if err := mark(a, true); err != nil {
			return err
		}
	}
	if count != 4 {
		return fmt.Errorf("%d of 4 axes accounted for: %w", count, ErrBadIndices)
	}

	return nil
}

// gaussQuadric reads exp(−(½xᵗMx + vᵗx + s)) as the quadric xᵗMx + 2vᵗx + 2s.
func gaussQuadric(m [4][4]float64, v [4]float64, s float64) quadric.Quadric {
	var r [4]float64
	for i := range r {
		r[i] = 2. * v[i]
	}

	return quadric.From4(m, r, 2.*s)
}

// reduce drops, then integrates, then reorders so that slot k of the result
// holds sel.keep[k]. Every index is shifted down once an axis in front of it
// has gone.
func reduce(qd quadric.Quadric, sel selection) (quadric.Quadric, error) {
	keep := append([]int(nil), sel.keep...)
	rem := append([]int(nil), sel.remove...)
	integ := sel.integ

	var err error
	var j int
	for k, r := range rem {
		if r < 0 {
			continue
		}
		if qd, err = qd.Remove(r); err != nil {
			return qd, err
		}
		if integ >= r {
			integ--
		}
		for j = k + 1; j < len(rem); j++ {
			if rem[j] >= r {
				rem[j]--
			}
		}
		for j = range keep {
			if keep[j] >= r {
				keep[j]--
			}
		}
	}

	if integ >= 0 {
		if qd, _, err = qd.Marginalize(integ); err != nil {
			return qd, err
		}
		for j = range keep {
			if keep[j] >= integ {
				keep[j]--
			}
		}
	}

	inOrder := true
	for j = range keep {
		if qd.Axis(keep[j]) != sel.keep[j] {
			return qd, fmt.Errorf("axis %d expected in slot %d: %w", sel.keep[j], keep[j], ErrIndexShift)
		}
		if keep[j] != j {
			inOrder = false
		}
	}
	if inOrder {
		return qd, nil
	}

	// permutation with column j picking slot keep[j]
	perm := make([][]float64, len(keep))
	for j = range perm {
		perm[j] = make([]float64, len(keep))
	}
	for j = range keep {
		perm[keep[j]][j] = 1
	}

	return qd.Transform(perm)
}
