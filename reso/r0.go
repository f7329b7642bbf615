// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/units"
)

// ScatterFactors returns the multipliers of the monochromator reflectivity
// (ki³/tanθm with FlagKi3), of the analyser efficiency (kf³/tanθa with FlagKf3)
// and the S(Q,E) → cross-section factor kf/ki (FlagKfKi).
func ScatterFactors(flags Flags, thetaM units.Angle, ki units.Wavenumber,
	thetaA units.Angle, kf units.Wavenumber) (mono, ana, xsec float64) {
	mono, ana, xsec = 1., 1., 1.
	if flags&FlagKi3 != 0 {
		mono *= kinematics.AnaEfficFactor(ki, units.AbsAngle(thetaM))
	}
	if flags&FlagKf3 != 0 {
		ana *= kinematics.AnaEfficFactor(kf, units.AbsAngle(thetaA))
	}
	if flags&FlagKfKi != 0 {
		xsec *= float64(kf) / float64(ki)
	}

	return mono, ana, xsec
}

// R0P is the vertical acceptance term of a crystal with mosaic η behind a
// collimation α: sqrt(2π)·(1/α² + 1/(4η²sin²θ))^(−1/2).
func R0P(theta, coll, mosaic units.Angle) float64 {
	s := math.Sin(theta.Rad())
	m := mosaic.Rad()
	return math.Sqrt(2.*math.Pi) * math.Sqrt(1./(invSq(coll)+1./(4.*m*m*s*s)))
}

// R0N is the peak reflectivity term refl/(2η·sinθ·sqrt(2π)).
func R0N(theta, mosaic units.Angle, refl float64) float64 {
	s := math.Abs(math.Sin(theta.Rad()))
	return refl / (2. * mosaic.Rad() * s) / math.Sqrt(2.*math.Pi)
}

// R0J is the kinematic factor (m_n/ħ)/(ki²·kf³·sin2θ) in Å³·s units.
func R0J(ki, kf units.Wavenumber, twoTheta units.Angle) float64 {
	s := math.Abs(math.Sin(twoTheta.Rad()))
	k := float64(ki) * float64(ki) * float64(kf) * float64(kf) * float64(kf)
	// m_n/ħ is in s/m²; one factor Å² = 1e-20 m² converts to Å³·s with k in 1/Å.
	return units.NeutronMass / units.Hbar * units.AngstromM * units.AngstromM / (k * s)
}

// ChessR0 is the Chesser–Axe normalisation of the Cooper–Nathans ellipsoid.
func ChessR0(ki, kf units.Wavenumber, thetaM, thetaA, twoThetaS units.Angle,
	mosM, mosA, collPreMonoV, collPostAnaV units.Angle, reflM, reflA float64) float64 {
	return R0J(ki, kf, twoThetaS) *
		R0P(thetaM, collPreMonoV, mosM) * R0P(thetaA, collPostAnaV, mosA) *
		R0N(thetaM, mosM, reflM) * R0N(thetaA, mosA, reflA)
}

// MitchR0 is the general Mitchell–Cowley–Higgins prefactor
// refl·Vki·effic·Vkf, optionally normalised to the resolution volume.
func MitchR0(monoRefl, anaEffic, kiVol, kfVol, resVol float64, normToResVol bool) float64 {
	r0 := monoRefl * kiVol * anaEffic * kfVol
	if normToResVol {
		r0 /= resVol * math.Pi * 3.
	}

	return r0
}
