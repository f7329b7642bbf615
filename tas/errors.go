// SPDX-License-Identifier: MIT

package tas

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tasreso/kinematics"
)

var (
	// ErrNotInPlane is returned when the requested (hkl) has a component
	// perpendicular to the scattering plane.
	ErrNotInPlane = errors.New("tas: not in scattering plane")

	// ErrInvalidUB is returned by SetHKLE before a lattice has been set.
	ErrInvalidUB = errors.New("tas: invalid UB matrix")

	// ErrBadLattice is returned for lattice constants or plane vectors that
	// do not span a proper orientation.
	ErrBadLattice = errors.New("tas: invalid lattice or orientation")

	// ErrBadConfig is returned by Config.Validate and NewSession.
	ErrBadConfig = errors.New("tas: invalid configuration")

	// ErrNotPositioned is returned by Session.GenerateMC before a successful SetHKLE.
	ErrNotPositioned = errors.New("tas: no scattering position set")

	// ErrNotCompleted is returned by Scan when the context ends before all points ran.
	ErrNotCompleted = errors.New("tas: scan not completed")
)

// Diagnostic texts stored in the Err field of failed results.
const (
	msgInvalidUB  = "Invalid UB matrix."
	msgNotInPlane = "Not in scattering plane."
	msgNoK        = "No real wavenumber for this energy transfer."
	msgBragg      = "Invalid monochromator angle."
	msgTriangle   = "Scattering triangle not closed."
)

// Operation tags.
const (
	opSetHKLE     = "SetHKLE"
	opSetLattice  = "SetLattice"
	opOrientation = "NewOrientation"
	opValidate    = "Validate"
	opGenerateMC  = "GenerateMC"
	opScan        = "Scan"
)

func tasErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// kinematicsMessage turns a kinematics sentinel into the text stored in a
// failed result.
func kinematicsMessage(err error) string {
	switch {
	case errors.Is(err, kinematics.ErrBraggAngle):
		return msgBragg
	case errors.Is(err, kinematics.ErrTriangleNotClosed):
		return msgTriangle
	case errors.Is(err, kinematics.ErrNoSolution):
		return msgNoK
	}
	return err.Error()
}
