// SPDX-License-Identifier: MIT
// Package ellipse turns a 4D resolution quadric over (Q∥, Q⊥, Qz, E) into the
// low-dimensional views used for plotting and sampling:
//
//   - Ellipse2d:   two kept axes, one axis integrated, up to two axes dropped.
//   - Ellipsoid3d: three kept axes, one axis integrated or dropped.
//   - Ellipsoid4d: the full principal-axis decomposition.
//
// Integrating an axis ("projection") marginalises the Gaussian over it; dropping
// an axis ("slice") cuts the Gaussian at that coordinate's mean. Indices always
// name axes of the original 4D form. They are shifted internally as axes
// disappear and the shifted slots are checked against the axis ids the quadric
// carries, so a wrong ordering fails loudly instead of plotting the wrong pair.
//
// The quadric is read in the Gaussian convention exp(−(½·xᵗMx + vᵗx + s)):
// principal radii are σ values, half-widths are SIGMA2HWHM·σ and the centre
// is −M⁻¹·v shifted by the mean position.
//
// ConvLabToRLU and ConvLabToRLUOrient re-express the quadric in crystal
// coordinates; Label names axes in any of the three coordinate systems.
package ellipse
