// SPDX-License-Identifier: MIT

package tas

import (
	"fmt"

	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/units"
)

// Sample is the crystal a session is oriented on.
type Sample struct {
	Lattice    Lattice
	Vec1, Vec2 [3]float64
}

// Config is the long-lived instrument description a Session works from.
// The kinematic fields of the parameter templates (ki, kf, Q, E and the
// scattering angles) are overwritten at every SetHKLE.
type Config struct {
	Algo reso.Algo

	TAS    reso.TASParams    // CN, Pop, Eck
	TOF    reso.TOFParams    // Viol
	Simple reso.SimpleParams // Simple

	KiFixed bool
	KFix    units.Wavenumber

	Focus Focus

	// SamplePositions > 1 evaluates the resolution at that many Gaussian
	// distributed positions inside the sample. 0 means 1.
	SamplePositions int

	Seed int64

	// Sample is optional; without it SetLattice must be called before SetHKLE.
	Sample *Sample
}

// Validate reports configuration errors that would make every SetHKLE fail.
func (c *Config) Validate() error {
	if !c.Algo.Valid() {
		return tasErrorf(opValidate, fmt.Errorf("%w: %w", ErrBadConfig, reso.ErrUnknownAlgo))
	}
	if c.KFix <= 0 {
		return tasErrorf(opValidate, fmt.Errorf("fixed k %g: %w", float64(c.KFix), ErrBadConfig))
	}
	if c.SamplePositions < 0 {
		return tasErrorf(opValidate, fmt.Errorf("sample positions %d: %w", c.SamplePositions, ErrBadConfig))
	}
	switch c.Algo {
	case reso.AlgoCN, reso.AlgoPop, reso.AlgoEck:
		if c.TAS.MonoD <= 0 || c.TAS.AnaD <= 0 {
			return tasErrorf(opValidate, fmt.Errorf("mono/ana d-spacing: %w", ErrBadConfig))
		}
	case reso.AlgoViol:
		if c.TOF.DetShape != reso.DetSpherical && c.TOF.DetShape != reso.DetCylindrical {
			return tasErrorf(opValidate, fmt.Errorf("%w: %w", ErrBadConfig, reso.ErrUnknownDetShape))
		}
	}

	return nil
}

func (c *Config) positions() int {
	if c.SamplePositions < 1 {
		return 1
	}
	return c.SamplePositions
}
