// SPDX-License-Identifier: MIT

package ellipse

import (
	"github.com/katalvlaran/tasreso/reso"
)

// Projection selects the axes of a 2D view; -1 marks an unused slot.
type Projection struct {
	Name            string
	X, Y            int
	Int, Rem1, Rem2 int
}

// Projections2D are the standard views: four with the remaining axis
// integrated, four with it dropped.
var Projections2D = [8]Projection{
	{"Q_para-E, projected", 0, 3, 1, 2, -1},
	{"Q_ortho-E, projected", 1, 3, 0, 2, -1},
	{"Q_z-E, projected", 2, 3, 0, 1, -1},
	{"Q_para-Q_ortho, projected", 0, 1, 3, 2, -1},
	{"Q_para-E, sliced", 0, 3, -1, 2, 1},
	{"Q_ortho-E, sliced", 1, 3, -1, 2, 0},
	{"Q_z-E, sliced", 2, 3, -1, 1, 0},
	{"Q_para-Q_ortho, sliced", 0, 1, -1, 2, 3},
}

// Calc computes the view of a successful result.
func (p Projection) Calc(res reso.Results) (Ellipse2d, error) {
	if err := res.AsError(); err != nil {
		return Ellipse2d{}, ellipseErrorf(opEllipse, err)
	}

	return CalcEllipse(res.Reso, res.ResoV, res.ResoS, res.QAvg, p.X, p.Y, p.Int, p.Rem1, p.Rem2)
}

// CalcConverted computes the view of a form transformed by ConvLabToRLU or
// ConvLabToRLUOrient and names its axes in sys. The constant part s is
// frame independent.
func (p Projection) CalcConverted(c Converted, s float64, sys CoordSys) (Ellipse2d, error) {
	ell, err := CalcEllipse(c.Reso, c.V, s, c.QAvg, p.X, p.Y, p.Int, p.Rem1, p.Rem2)
	if err != nil {
		return ell, err
	}
	ell.Relabel(sys, false)

	return ell, nil
}

// Projection3D selects the axes of a 3D view.
type Projection3D struct {
	Name     string
	X, Y, Z  int
	Int, Rem int
}

// Projections3D are the standard 3D views over Q∥ and Q⊥.
var Projections3D = [4]Projection3D{
	{"Q_para-Q_ortho-E, Q_z projected", 0, 1, 3, 2, -1},
	{"Q_para-Q_ortho-Q_z, E projected", 0, 1, 2, 3, -1},
	{"Q_para-Q_ortho-E, Q_z sliced", 0, 1, 3, -1, 2},
	{"Q_para-Q_ortho-Q_z, E sliced", 0, 1, 2, -1, 3},
}

// Calc computes the view of a successful result.
func (p Projection3D) Calc(res reso.Results) (Ellipsoid3d, error) {
	if err := res.AsError(); err != nil {
		return Ellipsoid3d{}, ellipseErrorf(opEllipsoid, err)
	}

	return CalcEllipsoid(res.Reso, res.ResoV, res.ResoS, res.QAvg, p.X, p.Y, p.Z, p.Int, p.Rem)
}

// Standard2D computes all of Projections2D.
func Standard2D(res reso.Results) ([len(Projections2D)]Ellipse2d, error) {
	var out [len(Projections2D)]Ellipse2d
	var err error
	for i, p := range Projections2D {
		if out[i], err = p.Calc(res); err != nil {
			return out, err
		}
	}

	return out, nil
}

// Standard3D computes all of Projections3D.
func Standard3D(res reso.Results) ([len(Projections3D)]Ellipsoid3d, error) {
	var out [len(Projections3D)]Ellipsoid3d
	var err error
	for i, p := range Projections3D {
		if out[i], err = p.Calc(res); err != nil {
			return out, err
		}
	}

	return out, nil
}

// FromResults decomposes the full 4D quadric of a successful result.
func FromResults(res reso.Results) (Ellipsoid4d, error) {
	if err := res.AsError(); err != nil {
		return Ellipsoid4d{}, ellipseErrorf(opEll4d, err)
	}

	return CalcEllipsoid4d(res.Reso, res.ResoV, res.ResoS, res.QAvg)
}
