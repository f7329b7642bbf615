// SPDX-License-Identifier: MIT

package ellipse

// CoordSys selects the coordinate system axis labels refer to.
type CoordSys int

const (
	// CoordQAvg is the instrument frame (Q∥, Q⊥, Qz, E) in 1/Å and meV.
	CoordQAvg CoordSys = iota
	// CoordRLU is the crystal hkl frame in reciprocal lattice units.
	CoordRLU
	// CoordRLUOrient is the scattering-plane basis (orient 1, orient 2, up).
	CoordRLUOrient
)

var (
	labelsQ         = [4]string{"Q_para (1/A)", "Q_ortho (1/A)", "Q_z (1/A)", "E (meV)"}
	labelsQCentre   = [4]string{"Q_para - <Q> (1/A)", "Q_ortho - <Q> (1/A)", "Q_z - <Q> (1/A)", "E (meV)"}
	labelsHKL       = [4]string{"h (rlu)", "k (rlu)", "l (rlu)", "E (meV)"}
	labelsHKLCentre = [4]string{"h - <h> (rlu)", "k - <k> (rlu)", "l - <l> (rlu)", "E (meV)"}
	labelsOrient    = [4]string{"Reflex 1 (rlu)", "Reflex 2 (rlu)", "Up (rlu)", "E (meV)"}
)

// Label returns the name of axis (0..3) in sys. Centred labels describe
// coordinates relative to the mean position. The orient system has no centred
// variant. An out-of-range axis yields "".
func Label(axis int, sys CoordSys, centred bool) string {
	if axis < 0 || axis > 3 {
		return ""
	}
	switch sys {
	case CoordRLU:
		if centred {
			return labelsHKLCentre[axis]
		}
		return labelsHKL[axis]
	case CoordRLUOrient:
		return labelsOrient[axis]
	default:
		if centred {
			return labelsQCentre[axis]
		}
		return labelsQ[axis]
	}
}

// Labels returns the labels of all four axes.
func Labels(sys CoordSys, centred bool) [4]string {
	var out [4]string
	for i := range out {
		out[i] = Label(i, sys, centred)
	}

	return out
}
