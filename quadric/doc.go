// SPDX-License-Identifier: MIT
// Package quadric provides a small, allocation-free representation of a
// symmetric quadratic form
//
//	f(x) = xᵗ·Q·x + rᵗ·x + s,   dim(x) ≤ MaxDim (= 6)
//
// together with the operations that resolution calculations need:
//
//   - Remove:      drop coordinates entirely (pure index bookkeeping).
//   - Marginalize: integrate a Gaussian nuisance coordinate out of exp(−f).
//   - Principal:   Jacobi eigendecomposition into rotation, radii, half-widths
//     and the principal-frame offset derived from the linear part.
//   - Volume:      C(n)/sqrt|det Q| with C(n) the volume of the unit n-ball.
//   - Transform:   congruence transform Q → Mᵗ·Q·M, r → Mᵗ·r.
//
// Storage model:
//   - A Quadric is a value. It holds fixed [MaxDim][MaxDim] / [MaxDim] arrays plus
//     an explicit slot→axis index map, so every operation copies ≤ 300 bytes and
//     never touches the heap.
//   - Axis ids survive removal: after Remove/Marginalize, Axis(slot) still tells
//     which original coordinate a slot holds, and SlotOf(axis) finds it again.
//
// Errors:
//   - All failures are package sentinels (errors.go) wrapped with an operation tag;
//     match them with errors.Is. Nothing in this package panics on user input.
//
// Determinism:
//   - Fixed loop orders everywhere; the Jacobi sweep always picks the largest
//     off-diagonal pivot, first in row-major order on ties.
package quadric
