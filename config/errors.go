// SPDX-License-Identifier: MIT

package config

import "github.com/pkg/errors"

var (
	// ErrMissingDSpacing is returned when a TAS algorithm is selected without
	// monochromator or analyser d-spacing.
	ErrMissingDSpacing = errors.New("config: missing mono/ana d-spacing")

	// ErrBadAlgorithm is returned for an unknown algorithm name.
	ErrBadAlgorithm = errors.New("config: unknown algorithm")

	// ErrBadFixedK is returned when fixed is not "ki"/"kf" or k_fix is not positive.
	ErrBadFixedK = errors.New("config: invalid fixed wavenumber")

	// ErrBadSense is returned for a scattering sense other than ±1.
	ErrBadSense = errors.New("config: scattering sense must be +1 or -1")

	// ErrBadVector is returned for a lattice or scan vector of the wrong length.
	ErrBadVector = errors.New("config: invalid vector")
)
