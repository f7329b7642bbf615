// SPDX-License-Identifier: MIT
// Package reso computes the four-dimensional Gaussian resolution function of a
// neutron spectrometer for one scattering condition (Q, E).
//
// Coordinates of every result are (Q∥, Q⊥, Qz, E): the momentum component along
// the average Q, the in-plane component perpendicular to it, the out-of-plane
// component (all 1/Å) and the energy transfer (meV). A Results value describes
//
//	exp(−(½·xᵗ·Reso·x + ResoVᵗ·x + ResoS))
//
// with Reso the inverse covariance in σ units.
//
// Algorithms:
//   - CalcCN     Cooper–Nathans: collimators and crystal mosaics only.
//   - CalcPop    Popovici: adds source, crystal, sample and detector geometry,
//     crystal curvature and an optional neutron guide.
//   - CalcEck    Eckold–Sobolev: vertical mosaics, focusing terms and an
//     off-centre sample position (linear and constant parts of the quadric).
//   - CalcViol   Violini: time-of-flight instrument from flight-path, timing and
//     angular uncertainties.
//   - CalcSimple Gaussian ki/kf uncertainties only.
//
// Calc dispatches on an Algo tag and a Params variant.
//
// Errors:
//   - Numerical trouble at a single point (a matrix that cannot be inverted, a
//     non-finite result) is reported as Results{Ok: false, Err: text}; the text
//     names the failing matrix. Results.AsError turns it into an error value.
//   - Configuration errors (unknown algorithm, mismatched parameters, unknown
//     detector shape) are returned as Go errors matching the sentinels in errors.go.
//
// Units:
//   - Inputs carry the types of package units. Angles (mosaics, collimations)
//     are unit.Angle; a collimation ≤ 0 is an open collimator.
package reso
