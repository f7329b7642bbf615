// SPDX-License-Identifier: MIT

package reso

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgo is returned by Calc and ParseAlgo for an unsupported algorithm tag.
	ErrUnknownAlgo = errors.New("reso: unknown algorithm")

	// ErrParamsMismatch is returned by Calc when the parameter variant does not
	// belong to the requested algorithm.
	ErrParamsMismatch = errors.New("reso: parameters do not match algorithm")

	// ErrUnknownDetShape is returned for a TOF detector shape other than
	// spherical or cylindrical.
	ErrUnknownDetShape = errors.New("reso: unknown detector shape")

	// ErrCalcFailed wraps the diagnostic text of a Results with Ok == false.
	ErrCalcFailed = errors.New("reso: calculation failed")

	// ErrBadReflCurve is returned for a reflectivity table that cannot be interpolated.
	ErrBadReflCurve = errors.New("reso: invalid reflectivity curve")
)

// Diagnostic texts stored in Results.Err.
const (
	msgTrafoInv   = "Transformation matrix cannot be inverted."
	msgSInv       = "S matrix cannot be inverted."
	msgKInv       = "Matrix K cannot be inverted."
	msgHInv       = "Matrix H^(-1) cannot be inverted."
	msgHGInv      = "Matrix H+G cannot be inverted."
	msgCovInv     = "Covariance matrix cannot be inverted."
	msgR0         = "R0 factor cannot be calculated."
	msgTInv       = "Matrix T cannot be inverted."
	msgJacobiInv  = "Jacobi matrix cannot be inverted."
	msgDetShape   = "Unknown detector shape."
	msgInvalid    = "Invalid result."
	msgUnknownAlg = "Unknown algorithm selected."
)

// Operation tags.
const (
	opCalc      = "Calc"
	opParseAlgo = "ParseAlgo"
	opReflCurve = "ReflCurve"
)

func resoErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
