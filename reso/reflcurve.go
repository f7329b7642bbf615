// SPDX-License-Identifier: MIT

package reso

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"

	"github.com/katalvlaran/tasreso/units"
)

// ReflCurve is a crystal reflectivity (or analyser efficiency) tabulated over
// the wavenumber and interpolated linearly. Values are clamped to [0, 1].
type ReflCurve struct {
	pl interp.PiecewiseLinear
	lo float64
	hi float64
}

// NewReflCurve builds a curve from (k, R) samples, k in 1/Å. The samples may
// come in any order; duplicate k values are rejected.
func NewReflCurve(k, r []float64) (*ReflCurve, error) {
	if len(k) != len(r) || len(k) < 2 {
		return nil, resoErrorf(opReflCurve, fmt.Errorf("%d/%d samples: %w", len(k), len(r), ErrBadReflCurve))
	}
	idx := make([]int, len(k))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return k[idx[a]] < k[idx[b]] })

	xs := make([]float64, len(k))
	ys := make([]float64, len(k))
	for i, j := range idx {
		xs[i], ys[i] = k[j], r[j]
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || (i > 0 && xs[i] == xs[i-1]) {
			return nil, resoErrorf(opReflCurve, fmt.Errorf("sample %d: %w", j, ErrBadReflCurve))
		}
	}

	c := &ReflCurve{lo: xs[0], hi: xs[len(xs)-1]}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, resoErrorf(opReflCurve, fmt.Errorf("%v: %w", err, ErrBadReflCurve))
	}

	return c, nil
}

// LoadReflCurve reads a two-column (k, R) text table. Blank lines and lines
// starting with '#' are skipped; extra columns are ignored.
func LoadReflCurve(r io.Reader) (*ReflCurve, error) {
	var ks, rs []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 || strings.HasPrefix(f[0], "#") {
			continue
		}
		if len(f) < 2 {
			return nil, resoErrorf(opReflCurve, fmt.Errorf("line %d: %w", line, ErrBadReflCurve))
		}
		k, err1 := strconv.ParseFloat(f[0], 64)
		v, err2 := strconv.ParseFloat(f[1], 64)
		if err1 != nil || err2 != nil {
			return nil, resoErrorf(opReflCurve, fmt.Errorf("line %d: %w", line, ErrBadReflCurve))
		}
		ks = append(ks, k)
		rs = append(rs, v)
	}
	if err := sc.Err(); err != nil {
		return nil, resoErrorf(opReflCurve, err)
	}

	return NewReflCurve(ks, rs)
}

// At evaluates the curve at |k|; outside the table the end values are used.
func (c *ReflCurve) At(k units.Wavenumber) float64 {
	x := math.Abs(float64(k))
	x = math.Min(math.Max(x, c.lo), c.hi)
	v := c.pl.Predict(x)

	return math.Min(math.Max(v, 0), 1)
}
