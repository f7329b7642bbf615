// SPDX-License-Identifier: MIT

package ellipse

import (
	"errors"
	"fmt"
)

var (
	// ErrBadIndices is returned for axis selections that do not leave exactly
	// the requested number of distinct axes.
	ErrBadIndices = errors.New("ellipse: invalid axis selection")

	// ErrIndexShift signals that slot bookkeeping lost track of an axis.
	ErrIndexShift = errors.New("ellipse: axis bookkeeping mismatch")
)

const (
	opEllipse   = "CalcEllipse"
	opEllipsoid = "CalcEllipsoid"
	opEll4d     = "CalcEllipsoid4d"
	opVanadium  = "VanadiumFWHMs"
)

func ellipseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
