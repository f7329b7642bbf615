// SPDX-License-Identifier: MIT

package ellipse

import (
	"github.com/katalvlaran/tasreso/quadric"
)

// Ellipsoid3d is a three-axis view of a resolution quadric.
type Ellipsoid3d struct {
	Quad   quadric.Quadric
	Rot    [3][3]float64
	HWHM   [3]float64
	Offset [3]float64
	Volume float64
	Axes   [3]int
	Labels [3]string
}

// CalcEllipsoid keeps iX, iY and iZ and either integrates iInt or drops iRem;
// the unused one is -1.
func CalcEllipsoid(m [4][4]float64, v [4]float64, s float64, qAvg [4]float64,
	iX, iY, iZ, iInt, iRem int) (Ellipsoid3d, error) {
	var ell Ellipsoid3d
	sel := selection{keep: []int{iX, iY, iZ}, integ: iInt, remove: []int{iRem}}
	if err := sel.validate(3); err != nil {
		return ell, ellipseErrorf(opEllipsoid, err)
	}
	qd, err := reduce(gaussQuadric(m, v, s), sel)
	if err != nil {
		return ell, ellipseErrorf(opEllipsoid, err)
	}
	p, err := qd.Principal()
	if err != nil {
		return ell, ellipseErrorf(opEllipsoid, err)
	}

	ell.Quad = qd
	ell.Axes = [3]int{iX, iY, iZ}
	centre := p.Centre()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ell.Rot[i][j] = p.Rot[i][j]
		}
		ell.HWHM[i] = p.HWHM[i]
		ell.Offset[i] = qAvg[ell.Axes[i]] + centre[i]
		ell.Labels[i] = Label(ell.Axes[i], CoordQAvg, false)
	}
	ell.Volume = p.Volume

	return ell, nil
}

// Relabel names the axes in sys.
func (e *Ellipsoid3d) Relabel(sys CoordSys, centred bool) {
	for i, a := range e.Axes {
		e.Labels[i] = Label(a, sys, centred)
	}
}

// Ellipsoid4d is the principal-axis decomposition of the full quadric.
type Ellipsoid4d struct {
	Quad   quadric.Quadric
	Rot    [4][4]float64
	HWHM   [4]float64
	Offset [4]float64
	Volume float64
	Labels [4]string
}

// CalcEllipsoid4d decomposes the full form; the offsets include qAvg.
func CalcEllipsoid4d(m [4][4]float64, v [4]float64, s float64, qAvg [4]float64) (Ellipsoid4d, error) {
	var ell Ellipsoid4d
	qd := gaussQuadric(m, v, s)
	p, err := qd.Principal()
	if err != nil {
		return ell, ellipseErrorf(opEll4d, err)
	}

	ell.Quad = qd
	centre := p.Centre()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			ell.Rot[i][j] = p.Rot[i][j]
		}
		ell.HWHM[i] = p.HWHM[i]
		ell.Offset[i] = qAvg[i] + centre[i]
	}
	ell.Volume = p.Volume
	ell.Labels = Labels(CoordQAvg, false)

	return ell, nil
}
