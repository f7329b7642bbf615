// SPDX-License-Identifier: MIT
// Package units: unit-tagged scalar types used by every resolution calculation.
//
// Purpose:
//   - Give each physical dimension its own named float type so that passing a
//     length where a wavenumber is expected is a compile error, not a silent bug.
//   - Keep the storage unit of every type fixed and documented; conversions happen
//     only through the constructors/accessors in this file.
//
// Storage units:
//   - Length     : metres
//   - Wavenumber : inverse Ångström (1/Å)
//   - Energy     : milli-electronvolt (meV)
//   - Time       : seconds
//   - Angle      : radians (github.com/soniakeys/unit.Angle)
package units

import (
	"math"

	"github.com/soniakeys/unit"
)

// Angle is a plane angle in radians. Mosaics, collimations and scattering angles use it.
type Angle = unit.Angle

// Length is a distance in metres.
type Length float64

// Wavenumber is a neutron wavenumber or momentum transfer in 1/Å.
type Wavenumber float64

// Energy is an energy (transfer) in meV.
type Energy float64

// Time is a duration in seconds.
type Time float64

// Length scale factors.
const (
	Metre      Length = 1
	Centimetre Length = 1e-2
	Angstrom   Length = 1e-10
)

// Time scale factors.
const (
	Second      Time = 1
	Microsecond Time = 1e-6
)

// Cm builds a Length from centimetres.
func Cm(v float64) Length { return Length(v) * Centimetre }

// Cm returns the length in centimetres.
func (l Length) Cm() float64 { return float64(l / Centimetre) }

// M returns the length in metres.
func (l Length) M() float64 { return float64(l) }

// Angstroms returns the length in Å.
func (l Length) Angstroms() float64 { return float64(l / Angstrom) }

// PerAngstrom returns the bare value in 1/Å.
func (k Wavenumber) PerAngstrom() float64 { return float64(k) }

// PerMetre returns the value in 1/m.
func (k Wavenumber) PerMetre() float64 { return float64(k) * 1e10 }

// MeV returns the bare value in meV.
func (e Energy) MeV() float64 { return float64(e) }

// Joule returns the energy in J.
func (e Energy) Joule() float64 { return float64(e) * MilliElectronVolt }

// Microseconds builds a Time from µs.
func Microseconds(v float64) Time { return Time(v) * Microsecond }

// S returns the duration in seconds.
func (t Time) S() float64 { return float64(t) }

// Arcmin builds an angle from minutes of arc.
func Arcmin(m float64) Angle { return unit.AngleFromMin(m) }

// Deg builds an angle from degrees.
func Deg(d float64) Angle { return unit.AngleFromDeg(d) }

// Rad builds an angle from radians.
func Rad(r float64) Angle { return Angle(r) }

// AbsAngle returns |a|.
func AbsAngle(a Angle) Angle { return Angle(math.Abs(a.Rad())) }
