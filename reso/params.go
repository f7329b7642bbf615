// SPDX-License-Identifier: MIT

package reso

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/tasreso/units"
)

// Algo selects a resolution algorithm. The numeric values are stable and used
// in instrument files.
type Algo int

const (
	AlgoCN     Algo = 1
	AlgoPop    Algo = 2
	AlgoEck    Algo = 3
	AlgoViol   Algo = 4
	AlgoSimple Algo = 100
)

var algoNames = map[Algo]string{
	AlgoCN:     "cn",
	AlgoPop:    "pop",
	AlgoEck:    "eck",
	AlgoViol:   "viol",
	AlgoSimple: "simple",
}

func (a Algo) String() string {
	if s, ok := algoNames[a]; ok {
		return s
	}

	return fmt.Sprintf("algo(%d)", int(a))
}

// Valid reports whether a names a supported algorithm.
func (a Algo) Valid() bool {
	_, ok := algoNames[a]
	return ok
}

// TOF reports whether the algorithm consumes TOFParams.
func (a Algo) TOF() bool { return a == AlgoViol }

// ParseAlgo accepts the short names ("cn", "pop", "eck", "viol", "simple"),
// case-insensitively.
func ParseAlgo(s string) (Algo, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range algoNames {
		if name == s {
			return a, nil
		}
	}

	return 0, resoErrorf(opParseAlgo, fmt.Errorf("%q: %w", s, ErrUnknownAlgo))
}

// Flags select the optional prefactor terms.
type Flags uint

const (
	// FlagR0 enables the R0 prefactor where it is optional (Popovici).
	FlagR0 Flags = 1 << iota
	// FlagKi3 multiplies the monochromator reflectivity by ki³/tanθm.
	FlagKi3
	// FlagKf3 multiplies the analyser efficiency by kf³/tanθa.
	FlagKf3
	// FlagKfKi converts S(Q,E) to a cross-section with kf/ki.
	FlagKfKi
	// FlagGeneralR0 is carried for instrument files that set it; no
	// algorithm interprets it.
	FlagGeneralR0
)

// DefaultFlags is the flag set of a freshly loaded instrument.
const DefaultFlags = FlagR0 | FlagKi3 | FlagKf3 | FlagKfKi

// Params is the closed set of parameter variants accepted by Calc:
// TASParams, TOFParams and SimpleParams.
type Params interface {
	family() family
}

type family int

const (
	familyTAS family = iota
	familyTOF
	familySimple
)

// Common holds the triple-axis quantities shared by every TAS algorithm.
// Widths are FWHM values.
type Common struct {
	MonoD        units.Length
	MonoMosaic   units.Angle
	MonoSense    float64 // ±1
	AnaD         units.Length
	AnaMosaic    units.Angle
	AnaSense     float64
	SampleMosaic units.Angle
	SampleSense  float64

	CollHPreMono    units.Angle
	CollHPreSample  units.Angle
	CollHPostSample units.Angle
	CollHPostAna    units.Angle
	CollVPreMono    units.Angle
	CollVPreSample  units.Angle
	CollVPostSample units.Angle
	CollVPostAna    units.Angle

	Ki, Kf, Q units.Wavenumber
	E         units.Energy

	// Scattering geometry, unsigned; the senses are applied by the algorithms.
	ThetaM   units.Angle
	ThetaA   units.Angle
	TwoTheta units.Angle
	AngleKiQ units.Angle
	AngleKfQ units.Angle

	MonoRefl      float64
	AnaEffic      float64
	MonoReflCurve *ReflCurve // optional, evaluated at ki
	AnaEfficCurve *ReflCurve // optional, evaluated at kf

	Flags Flags
}

// TASParams extends Common with the component geometry used by Popovici and
// Eckold–Sobolev. Cooper–Nathans ignores everything but Common.
type TASParams struct {
	Common

	MonoW, MonoH, MonoThick units.Length
	MonoCurvH, MonoCurvV    units.Length
	MonoCurvedH             bool
	MonoCurvedV             bool
	MonoOptimalH            bool // replace MonoCurvH by the focusing curvature
	MonoOptimalV            bool

	AnaW, AnaH, AnaThick units.Length
	AnaCurvH, AnaCurvV   units.Length
	AnaCurvedH           bool
	AnaCurvedV           bool
	AnaOptimalH          bool
	AnaOptimalV          bool

	SampleCuboid bool
	SampleWQ     units.Length
	SampleWPerpQ units.Length
	SampleH      units.Length

	SrcRect    bool
	SrcW, SrcH units.Length
	DetRect    bool
	DetW, DetH units.Length

	// Guide replaces the pre-monochromator collimation by λ·GuideDiv
	// (GuideDiv per Å of wavelength).
	Guide     bool
	GuideDivH units.Angle
	GuideDivV units.Angle

	DistSrcMono    units.Length
	DistMonoSample units.Length
	DistSampleAna  units.Length
	DistAnaDet     units.Length

	// Eckold–Sobolev only.
	MonoMosaicV units.Angle
	AnaMosaicV  units.Angle
	PosX        units.Length
	PosY        units.Length
	PosZ        units.Length
}

func (TASParams) family() family { return familyTAS }

// DetShape is the detector geometry of a TOF instrument.
type DetShape int

const (
	DetSpherical DetShape = iota
	DetCylindrical
)

// TOFParams describes a time-of-flight instrument. Uncertainties are σ values.
type TOFParams struct {
	Ki, Kf, Q units.Wavenumber
	E         units.Energy
	TwoTheta  units.Angle
	AngleKiQ  units.Angle
	AngleKfQ  units.Angle

	AngleOutplaneI units.Angle
	AngleOutplaneF units.Angle
	TwoThetaI      units.Angle

	LenPulseMono  units.Length
	LenMonoSample units.Length
	LenSampleDet  units.Length

	SigLenPulseMono  units.Length
	SigLenMonoSample units.Length
	SigLenSampleDet  units.Length

	SigPulse, SigMono, SigDet units.Time

	SigTwoThetaF units.Angle
	SigOutplaneF units.Angle
	SigTwoThetaI units.Angle
	SigOutplaneI units.Angle

	DetShape DetShape
}

func (TOFParams) family() family { return familyTOF }

// SimpleParams models the resolution purely from Gaussian ki and kf
// uncertainties (σ values, 1/Å).
type SimpleParams struct {
	Ki, Kf, Q units.Wavenumber
	E         units.Energy
	TwoTheta  units.Angle
	AngleKiQ  units.Angle
	AngleKfQ  units.Angle

	SigKi, SigKf         units.Wavenumber
	SigKiPerp, SigKfPerp units.Wavenumber
	SigKiZ, SigKfZ       units.Wavenumber
}

func (SimpleParams) family() family { return familySimple }

// reflectivities returns the monochromator reflectivity and analyser
// efficiency including the ki³/kf³ factors and curves, and the kf/ki factor.
func (c *Common) reflectivities() (monoRefl, anaEffic, xsec float64) {
	fm, fa, xsec := ScatterFactors(c.Flags, c.ThetaM, c.Ki, c.ThetaA, c.Kf)
	monoRefl = c.MonoRefl * fm
	anaEffic = c.AnaEffic * fa
	if c.MonoReflCurve != nil {
		monoRefl *= c.MonoReflCurve.At(c.Ki)
	}
	if c.AnaEfficCurve != nil {
		anaEffic *= c.AnaEfficCurve.At(c.Kf)
	}

	return monoRefl, anaEffic, xsec
}
