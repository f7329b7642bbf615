// SPDX-License-Identifier: MIT

package kinematics

import "errors"

// Operation tags used when wrapping sentinels.
const (
	opOtherK      = "OtherK"
	opMonoAngle   = "MonoTwoTheta"
	opSampleAngle = "SampleTwoTheta"
	opAngleKiQ    = "AngleKiQ"
	opAngleKfQ    = "AngleKfQ"
)

var (
	// ErrNoSolution is returned when no real complementary wavenumber exists
	// for the requested energy transfer.
	ErrNoSolution = errors.New("kinematics: no real wavenumber for energy transfer")

	// ErrBraggAngle is returned when sinθ of a Bragg reflection would exceed 1.
	ErrBraggAngle = errors.New("kinematics: invalid monochromator angle")

	// ErrTriangleNotClosed is returned when ki, kf and Q cannot form a triangle.
	ErrTriangleNotClosed = errors.New("kinematics: scattering triangle not closed")
)
