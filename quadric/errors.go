// SPDX-License-Identifier: MIT
// Package quadric: sentinel error set.
// All operations return these sentinels (optionally wrapped with an op tag via
// quadricErrorf); tests match them with errors.Is.

package quadric

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned for a dimension outside 1..MaxDim or ragged input rows.
	ErrBadShape = errors.New("quadric: invalid shape")

	// ErrOutOfRange indicates that a slot index is outside the current dimension.
	ErrOutOfRange = errors.New("quadric: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes.
	ErrDimensionMismatch = errors.New("quadric: dimension mismatch")

	// ErrAsymmetry signals that the quadratic part is not symmetric within tolerance.
	ErrAsymmetry = errors.New("quadric: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf entry.
	ErrNaNInf = errors.New("quadric: NaN or Inf encountered")

	// ErrDegenerateAxis is returned when a coordinate cannot be integrated out
	// because its diagonal entry is (numerically) zero.
	ErrDegenerateAxis = errors.New("quadric: degenerate axis, cannot marginalize")

	// ErrSingular is returned when the quadratic part has a vanishing determinant
	// or an eigenvalue too small to define a radius.
	ErrSingular = errors.New("quadric: singular matrix")

	// ErrEigenFailed indicates that the Jacobi iteration did not converge.
	ErrEigenFailed = errors.New("quadric: eigen decomposition failed")
)

// Operation tags for uniform wrapping.
const (
	opNew         = "New"
	opFromRows    = "FromRows"
	opRemove      = "Remove"
	opExtend      = "Extend"
	opMarginalize = "Marginalize"
	opTransform   = "Transform"
	opEigen       = "Eigen"
	opPrincipal   = "Principal"
	opVolume      = "Volume"
	opAt          = "At"
)

// quadricErrorf wraps err with an operation tag, keeping the sentinel matchable.
// Call only with a non-nil err.
func quadricErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
