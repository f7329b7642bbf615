// SPDX-License-Identifier: MIT

package units

import "math"

// CODATA 2018 values in SI units.
const (
	// Hbar is the reduced Planck constant in J·s.
	Hbar = 1.054571817e-34
	// NeutronMass is the neutron rest mass in kg.
	NeutronMass = 1.67492749804e-27
	// MilliElectronVolt is 1 meV in J.
	MilliElectronVolt = 1.602176634e-22
	// AngstromM is 1 Å in m.
	AngstromM = 1e-10
)

// KSQ2E converts k² (1/Å²) to energy (meV): E = KSQ2E·k².
// ħ²/(2 m_n) expressed in meV·Å².
var KSQ2E = Hbar * Hbar / (2. * NeutronMass) / MilliElectronVolt / (AngstromM * AngstromM)

// E2KSQ is the inverse of KSQ2E.
var E2KSQ = 1. / KSQ2E

// Gaussian width conversion factors.
var (
	// SIGMA2FWHM = 2·sqrt(2 ln 2).
	SIGMA2FWHM = 2. * math.Sqrt(2.*math.Ln2)
	// SIGMA2HWHM = sqrt(2 ln 2).
	SIGMA2HWHM = math.Sqrt(2. * math.Ln2)
	// FWHM2SIGMA = 1/SIGMA2FWHM.
	FWHM2SIGMA = 1. / SIGMA2FWHM
	// HWHM2SIGMA = 1/SIGMA2HWHM.
	HWHM2SIGMA = 1. / SIGMA2HWHM
)

// KToVelocity converts a wavenumber to a neutron speed in m/s: v = ħk/m_n.
func KToVelocity(k Wavenumber) float64 {
	return Hbar * k.PerMetre() / NeutronMass
}

// KToEnergy returns E = KSQ2E·k².
func KToEnergy(k Wavenumber) Energy {
	return Energy(KSQ2E * float64(k) * float64(k))
}

// EnergyToK returns k = sqrt(E/KSQ2E); negative energies give 0.
func EnergyToK(e Energy) Wavenumber {
	if e <= 0 {
		return 0
	}
	return Wavenumber(math.Sqrt(float64(e) / KSQ2E))
}

// KToLambda returns the wavelength λ = 2π/k.
func KToLambda(k Wavenumber) Length {
	return Length(2.*math.Pi/float64(k)) * Angstrom
}
