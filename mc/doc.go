// SPDX-License-Identifier: MIT
// Package mc draws Monte-Carlo neutron events from a resolution ellipsoid.
//
// Each event is a 4-vector (Q∥, Q⊥, Qz, E) drawn from the Gaussian whose
// principal axes and half-widths an ellipse.Ellipsoid4d describes:
//
//	z_i ~ N(0, (hwhm_i·HWHM2SIGMA)²),  x = Rot·z (+ offset)
//
// The sample covariance of many events converges to the inverse of the
// resolution matrix. Events can be expressed in the Q frame (Direct), rotated
// back into the orientation frame in 1/Å (Angs) or mapped to crystal rlu (RLU).
//
// Determinism:
//   - Neutrons consumes only the *rand.Rand it is given, so a seeded stream
//     reproduces the same events.
//   - Fill splits the output across workers, each with its own stream derived
//     from the seed and the worker index. A *rand.Rand is never shared.
package mc
