// SPDX-License-Identifier: MIT
// Package kinematics implements the scattering-triangle relations of a
// triple-axis spectrometer: energy transfer versus ki/kf, Bragg angles of the
// monochromator and analyser, the sample scattering angle, the angles between
// ki/kf and Q, and the optimal focusing curvatures.
//
// All inputs use the unit types of package units. Every function that can be
// asked for a geometrically impossible configuration returns a sentinel error
// from errors.go instead of NaN.
package kinematics

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tasreso/units"
)

// OtherK solves E = KSQ2E·(ki² − kf²) for the wavenumber that is not fixed.
// With kiFixed the result is kf, otherwise ki.
func OtherK(e units.Energy, kFix units.Wavenumber, kiFixed bool) (units.Wavenumber, error) {
	var ksq float64
	k := float64(kFix)
	if kiFixed {
		ksq = k*k - float64(e)*units.E2KSQ
	} else {
		ksq = k*k + float64(e)*units.E2KSQ
	}
	if ksq < 0 {
		return 0, fmt.Errorf("%s: E=%g meV, k=%g 1/A: %w", opOtherK, float64(e), k, ErrNoSolution)
	}

	return units.Wavenumber(math.Sqrt(ksq)), nil
}

// EnergyTransfer returns E = KSQ2E·(ki² − kf²).
func EnergyTransfer(ki, kf units.Wavenumber) units.Energy {
	return units.Energy(units.KSQ2E * (float64(ki)*float64(ki) - float64(kf)*float64(kf)))
}

// MonoTwoTheta returns the monochromator/analyser scattering angle 2θ for a
// crystal with lattice spacing d, from Bragg's law 2d·sinθ = λ.
// A negative sense mirrors the angle.
func MonoTwoTheta(k units.Wavenumber, d units.Length, positiveSense bool) (units.Angle, error) {
	dA := d.Angstroms()
	if dA <= 0 || k <= 0 {
		return 0, fmt.Errorf("%s: d=%g A, k=%g 1/A: %w", opMonoAngle, dA, float64(k), ErrBraggAngle)
	}
	s := math.Pi / (dA * float64(k))
	if math.Abs(s) > 1 {
		return 0, fmt.Errorf("%s: d=%g A, k=%g 1/A: %w", opMonoAngle, dA, float64(k), ErrBraggAngle)
	}
	tt := 2. * math.Asin(s)
	if !positiveSense {
		tt = -tt
	}

	return units.Angle(tt), nil
}

// MonoK is the inverse of MonoTwoTheta: k = π/(d·sinθ).
func MonoK(theta units.Angle, d units.Length) units.Wavenumber {
	return units.Wavenumber(math.Pi / (d.Angstroms() * math.Abs(math.Sin(theta.Rad()))))
}

// SampleTwoTheta returns the sample scattering angle from the law of cosines
// Q² = ki² + kf² − 2·ki·kf·cos2θ.
func SampleTwoTheta(ki, kf, q units.Wavenumber, positiveSense bool) (units.Angle, error) {
	c := (float64(ki)*float64(ki) + float64(kf)*float64(kf) - float64(q)*float64(q)) /
		(2. * float64(ki) * float64(kf))
	if math.IsNaN(c) || math.Abs(c) > 1 {
		return 0, fmt.Errorf("%s: %w", opSampleAngle, ErrTriangleNotClosed)
	}
	tt := math.Acos(c)
	if !positiveSense {
		tt = -tt
	}

	return units.Angle(tt), nil
}

// SampleQ returns |Q| for the scattering angle tt between ki and kf.
func SampleQ(ki, kf units.Wavenumber, tt units.Angle) units.Wavenumber {
	i, f := float64(ki), float64(kf)
	return units.Wavenumber(math.Sqrt(i*i + f*f - 2.*i*f*math.Cos(tt.Rad())))
}

// AngleKiQ returns the angle between ki and Q. By default this is the angle
// inside the scattering triangle; outside selects its supplement.
// Q = 0 yields π/2.
func AngleKiQ(ki, kf, q units.Wavenumber, positiveSense, outside bool) (units.Angle, error) {
	var angle float64
	if q == 0 {
		angle = math.Pi / 2.
	} else {
		c := (float64(ki)*float64(ki) - float64(kf)*float64(kf) + float64(q)*float64(q)) /
			(2. * float64(ki) * float64(q))
		if math.IsNaN(c) || math.Abs(c) > 1 {
			return 0, fmt.Errorf("%s: %w", opAngleKiQ, ErrTriangleNotClosed)
		}
		angle = math.Acos(c)
	}
	if outside {
		angle = math.Pi - angle
	}
	if !positiveSense {
		angle = -angle
	}

	return units.Angle(angle), nil
}

// AngleKfQ returns the angle between kf and Q. By default (outside=true) this is
// the angle outside the scattering triangle, which is what the resolution
// algorithms expect.
func AngleKfQ(ki, kf, q units.Wavenumber, positiveSense, outside bool) (units.Angle, error) {
	var angle float64
	if q == 0 {
		angle = math.Pi / 2.
	} else {
		c := (float64(ki)*float64(ki) - float64(kf)*float64(kf) - float64(q)*float64(q)) /
			(2. * float64(kf) * float64(q))
		if math.IsNaN(c) || math.Abs(c) > 1 {
			return 0, fmt.Errorf("%s: %w", opAngleKfQ, ErrTriangleNotClosed)
		}
		angle = math.Acos(c)
	}
	if !outside {
		angle = math.Pi - angle
	}
	if !positiveSense {
		angle = -angle
	}

	return units.Angle(angle), nil
}

// FocusCurvature returns the optimal bending radius of a crystal between two
// distances l1 and l2 at scattering angle tt (lens equation with the
// horizontal/vertical Rowland factors).
func FocusCurvature(l1, l2 units.Length, tt units.Angle, vertical bool) units.Length {
	f := l1 * l2 / (l1 + l2)
	s := math.Abs(math.Sin(0.5 * tt.Rad()))
	if vertical {
		return 2. * f * units.Length(s)
	}

	return 2. * f / units.Length(s)
}

// AnaEfficFactor returns the ki³/kf³ type normalisation k³/tanθ (k in 1/Å).
func AnaEfficFactor(k units.Wavenumber, theta units.Angle) float64 {
	kk := float64(k)
	return kk * kk * kk / math.Tan(theta.Rad())
}
