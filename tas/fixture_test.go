package tas_test

import (
	"math"

	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
	"github.com/katalvlaran/tasreso/units"
)

// cubicA is the lattice constant of the test crystal, Å.
const cubicA = 5.

// tau is |Q| of a (100) reflection of the test crystal.
var tau = 2. * math.Pi / cubicA

// testConfig is a thermal triple-axis instrument on a cubic crystal
// oriented in the (100)/(010) plane, ki fixed.
func testConfig(algo reso.Algo) tas.Config {
	d := units.Length(3.355) * units.Angstrom
	coll := units.Arcmin(60)
	mos := units.Arcmin(30)

	cfg := tas.Config{
		Algo:    algo,
		KiFixed: true,
		KFix:    2.662,
		Seed:    7,
		TAS: reso.TASParams{
			Common: reso.Common{
				MonoD: d, MonoMosaic: mos, MonoSense: -1,
				AnaD: d, AnaMosaic: mos, AnaSense: -1,
				SampleMosaic: mos, SampleSense: 1,

				CollHPreMono: coll, CollHPreSample: coll, CollHPostSample: coll, CollHPostAna: coll,
				CollVPreMono: coll, CollVPreSample: coll, CollVPostSample: coll, CollVPostAna: coll,

				MonoRefl: 1, AnaEffic: 1,
				Flags: reso.DefaultFlags,
			},
			MonoW: units.Cm(15), MonoH: units.Cm(15), MonoThick: units.Cm(0.2),
			AnaW: units.Cm(15), AnaH: units.Cm(15), AnaThick: units.Cm(0.2),

			SampleCuboid: true,
			SampleWQ:     units.Cm(1), SampleWPerpQ: units.Cm(1), SampleH: units.Cm(1),

			SrcRect: true, SrcW: units.Cm(6), SrcH: units.Cm(12),
			DetRect: true, DetW: units.Cm(2.5), DetH: units.Cm(5),

			DistSrcMono:    units.Cm(200),
			DistMonoSample: units.Cm(150),
			DistSampleAna:  units.Cm(100),
			DistAnaDet:     units.Cm(50),

			MonoMosaicV: mos,
			AnaMosaicV:  mos,
		},
		TOF: reso.TOFParams{
			LenPulseMono:  units.Length(10),
			LenMonoSample: units.Length(1.5),
			LenSampleDet:  units.Length(3),

			SigLenPulseMono:  units.Cm(1),
			SigLenMonoSample: units.Cm(1),
			SigLenSampleDet:  units.Cm(1),

			SigPulse: units.Microseconds(10),
			SigMono:  units.Microseconds(5),
			SigDet:   units.Microseconds(5),

			SigTwoThetaI: units.Deg(0.5),
			SigOutplaneI: units.Deg(0.5),
			SigTwoThetaF: units.Deg(0.5),
			SigOutplaneF: units.Deg(0.5),
		},
		Simple: reso.SimpleParams{
			SigKi: 0.01, SigKf: 0.01,
			SigKiPerp: 0.02, SigKfPerp: 0.02,
			SigKiZ: 0.03, SigKfZ: 0.03,
		},
		Sample: &tas.Sample{
			Lattice: tas.Cubic(cubicA),
			Vec1:    [3]float64{1, 0, 0},
			Vec2:    [3]float64{0, 1, 0},
		},
	}
	if algo == reso.AlgoViol {
		cfg.KFix = 1.5
	}

	return cfg
}
