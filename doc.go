// Package tasreso computes the resolution function of neutron three-axis
// and time-of-flight spectrometers.
//
// The resolution at a requested (h k l E) is a four-dimensional Gaussian
// over (Q∥, Q⊥, Qz, E), stored as a quadratic form with its linear and
// constant parts, an intensity prefactor R0 and the ellipsoid volume.
//
// Packages:
//
//	units       unit-tagged scalars and the σ/HWHM/FWHM factors
//	kinematics  scattering triangle, Bragg angles, focusing curvatures
//	quadric     quadratic forms: marginalisation, principal axes, volume
//	reso        Cooper–Nathans, Popovici, Eckold–Sobolev, Violini and simple models
//	ellipse     2D/3D/4D views of a resolution form and frame conversions
//	mc          Monte-Carlo neutron events drawn from the ellipsoid
//	tas         sessions: crystal orientation, (h k l E) requests, parallel scans
//	config      YAML instrument files
//	logging     structured logging over zap
//
// The tasreso command (cmd/tasreso) exposes calc, scan, mc and ellipse.
//
// Quick example:
//
//	inst, _ := config.Load("instrument.yaml")
//	s, _ := tas.NewSession(inst.Config)
//	r, err := s.SetHKLE(ctx, 1, 0, 0, 2)
//	if err == nil {
//		fmt.Println(r.First().BraggFWHMs)
//	}
package tasreso
