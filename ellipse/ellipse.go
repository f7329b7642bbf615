// SPDX-License-Identifier: MIT

package ellipse

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

// Ellipse2d is a two-axis view of a resolution quadric.
type Ellipse2d struct {
	Quad quadric.Quadric // reduced form over (x, y)

	Rot   [2][2]float64 // principal axes in the columns
	Phi   float64       // rotation angle of the first principal axis, rad
	Slope float64       // tan(Phi)

	HWHM      [2]float64 // along the principal axes
	HWHMBound [2]float64 // half-widths of the bounding box along x and y
	Offset    [2]float64 // centre in the kept coordinates
	Area      float64    // in σ units

	Axes   [2]int // original axis ids of x and y
	Labels [2]string
}

// CalcEllipse keeps axes iX and iY, integrates iInt and drops iRem1 and iRem2.
// Pass -1 for an unused iInt, iRem1 or iRem2; all indices refer to the
// original 4D axes. Labels are set for the instrument frame.
func CalcEllipse(m [4][4]float64, v [4]float64, s float64, qAvg [4]float64,
	iX, iY, iInt, iRem1, iRem2 int) (Ellipse2d, error) {
	var ell Ellipse2d
	sel := selection{keep: []int{iX, iY}, integ: iInt, remove: []int{iRem1, iRem2}}
	if err := sel.validate(2); err != nil {
		return ell, ellipseErrorf(opEllipse, err)
	}
	qd, err := reduce(gaussQuadric(m, v, s), sel)
	if err != nil {
		return ell, ellipseErrorf(opEllipse, err)
	}
	p, err := qd.Principal()
	if err != nil {
		return ell, ellipseErrorf(opEllipse, err)
	}

	ell.Quad = qd
	ell.Axes = [2]int{iX, iY}
	centre := p.Centre()
	for i := 0; i < 2; i++ {
		ell.Rot[i] = [2]float64{p.Rot[i][0], p.Rot[i][1]}
		ell.HWHM[i] = p.HWHM[i]
		ell.Offset[i] = qAvg[ell.Axes[i]] + centre[i]
	}
	ell.Phi = math.Atan2(ell.Rot[1][0], ell.Rot[0][0])
	ell.Slope = math.Tan(ell.Phi)
	ell.Area = p.Volume

	// extent of Rot·(a·cos t, b·sin t) along each coordinate
	for i := 0; i < 2; i++ {
		ell.HWHMBound[i] = math.Hypot(ell.Rot[i][0]*ell.HWHM[0], ell.Rot[i][1]*ell.HWHM[1])
	}
	ell.Relabel(CoordQAvg, false)

	return ell, nil
}

// Point returns the outline point at t ∈ [0, 1), optionally shifted to the centre.
func (e Ellipse2d) Point(t float64, withOffset bool) [2]float64 {
	x := e.HWHM[0] * math.Cos(2.*math.Pi*t)
	y := e.HWHM[1] * math.Sin(2.*math.Pi*t)
	out := [2]float64{
		e.Rot[0][0]*x + e.Rot[0][1]*y,
		e.Rot[1][0]*x + e.Rot[1][1]*y,
	}
	if withOffset {
		out[0] += e.Offset[0]
		out[1] += e.Offset[1]
	}

	return out
}

// Curve samples n ≥ 2 points of the closed outline, first and last coincide.
func (e Ellipse2d) Curve(n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		pt := e.Point(float64(i)/float64(n-1), true)
		xs[i], ys[i] = pt[0], pt[1]
	}

	return xs, ys
}

// Relabel names the axes in sys.
func (e *Ellipse2d) Relabel(sys CoordSys, centred bool) {
	for i, a := range e.Axes {
		e.Labels[i] = Label(a, sys, centred)
	}
}

func (e Ellipse2d) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "phi = %.4g deg, slope = %.4g\n", e.Phi*180./math.Pi, e.Slope)
	fmt.Fprintf(&b, "hwhm = (%.4g, %.4g), bound = (%.4g, %.4g)\n",
		e.HWHM[0], e.HWHM[1], e.HWHMBound[0], e.HWHMBound[1])
	fmt.Fprintf(&b, "offset = (%.4g, %.4g)\n", e.Offset[0], e.Offset[1])
	fmt.Fprintf(&b, "x: %s, y: %s\n", e.Labels[0], e.Labels[1])
	fmt.Fprintf(&b, "area = %.4g", e.Area)

	return b.String()
}

// VanadiumFWHMs returns the incoherent widths: the Q width is the bounding
// box of the (Q∥, E) ellipse with Q⊥ integrated and Qz dropped, the E width
// follows from integrating all three Q axes.
func VanadiumFWHMs(m [4][4]float64, v [4]float64, s float64, qAvg [4]float64) (fwhmQ, fwhmE float64, err error) {
	ell, err := CalcEllipse(m, v, s, qAvg, 0, 3, 1, 2, -1)
	if err != nil {
		return 0, 0, ellipseErrorf(opVanadium, err)
	}
	fwhmQ = 2. * ell.HWHMBound[0]

	qd := gaussQuadric(m, v, s)
	for i := 0; i < 3; i++ {
		if qd, _, err = qd.Marginalize(0); err != nil {
			return 0, 0, ellipseErrorf(opVanadium, err)
		}
	}
	mEE, _ := qd.At(0, 0)
	fwhmE = units.SIGMA2FWHM / math.Sqrt(math.Abs(mEE))

	return fwhmQ, fwhmE, nil
}
