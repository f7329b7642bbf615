// SPDX-License-Identifier: MIT
// Package config reads YAML instrument files into a tas.Config.
//
// The loader applies the defaults of a freshly configured instrument
// (R0, ki³, kf³ and kf/ki factors on, monochromator and analyser sense -1,
// sample sense +1, optimal focusing curvatures, spherical TOF detector,
// Eckold vertical mosaics equal to the horizontal ones) and converts every
// value into the unit types of package units.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
	"github.com/katalvlaran/tasreso/units"
)

// Instrument is a decoded and validated instrument file.
type Instrument struct {
	Config tas.Config

	// Scan is nil when the file has no scan section.
	Scan        []tas.Point
	ScanWorkers int
}

// Load reads and builds the instrument file at path. Curve files are
// resolved relative to the directory of path.
func Load(path string) (*Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	inst, err := parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}

	return inst, nil
}

// Parse builds an instrument from YAML; curve paths are relative to the
// working directory.
func Parse(data []byte) (*Instrument, error) {
	return parse(data, ".")
}

// Decode unmarshals YAML into a File without applying defaults. Unknown
// keys are rejected.
func Decode(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "config: decode")
	}

	return &f, nil
}

func parse(data []byte, dir string) (*Instrument, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return f.Build(dir)
}

// Build converts f into an Instrument, loading curve files relative to dir.
func (f *File) Build(dir string) (*Instrument, error) {
	var cfg tas.Config
	var err error

	name := f.Algorithm
	if name == "" {
		name = reso.AlgoCN.String()
	}
	if cfg.Algo, err = reso.ParseAlgo(name); err != nil {
		return nil, errors.Wrapf(ErrBadAlgorithm, "%q", f.Algorithm)
	}

	switch strings.ToLower(f.Fixed) {
	case "", "ki":
		cfg.KiFixed = true
	case "kf":
	default:
		return nil, errors.Wrapf(ErrBadFixedK, "fixed %q", f.Fixed)
	}
	if f.KFix <= 0 {
		return nil, errors.Wrapf(ErrBadFixedK, "k_fix %g", f.KFix)
	}
	cfg.KFix = units.Wavenumber(f.KFix)

	if cfg.Focus, err = tas.ParseFocus(f.Focus...); err != nil {
		return nil, errors.Wrap(err, "config: focus")
	}
	cfg.SamplePositions = f.SamplePositions
	cfg.Seed = f.Seed

	if err = f.Reso.fillTAS(&cfg.TAS, dir); err != nil {
		return nil, err
	}
	switch cfg.Algo {
	case reso.AlgoCN, reso.AlgoPop, reso.AlgoEck:
		if f.Reso.MonoD <= 0 || f.Reso.AnaD <= 0 {
			return nil, errors.Wrapf(ErrMissingDSpacing, "algorithm %v", cfg.Algo)
		}
	}
	cfg.TOF = f.Reso.Viol.params()
	cfg.Simple = f.Reso.Simple.params()

	if f.Sample != nil {
		if cfg.Sample, err = f.Sample.sample(); err != nil {
			return nil, err
		}
	}
	if err = cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	inst := &Instrument{Config: cfg}
	if f.Scan != nil {
		if inst.Scan, err = f.Scan.points(); err != nil {
			return nil, err
		}
		inst.ScanWorkers = f.Scan.Workers
	}

	return inst, nil
}

func (r *ResoSection) fillTAS(p *reso.TASParams, dir string) error {
	c := &p.Common
	c.MonoD = units.Length(r.MonoD) * units.Angstrom
	c.AnaD = units.Length(r.AnaD) * units.Angstrom
	c.MonoMosaic = units.Arcmin(r.MonoMosaic)
	c.AnaMosaic = units.Arcmin(r.AnaMosaic)
	c.SampleMosaic = units.Arcmin(r.SampleMosaic)

	var err error
	if c.MonoSense, err = sense(r.MonoSense, -1, "mono_sense"); err != nil {
		return err
	}
	if c.AnaSense, err = sense(r.AnaSense, -1, "ana_sense"); err != nil {
		return err
	}
	if c.SampleSense, err = sense(r.SampleSense, 1, "sample_sense"); err != nil {
		return err
	}

	c.CollHPreMono = units.Arcmin(r.Coll.HPreMono)
	c.CollHPreSample = units.Arcmin(r.Coll.HPreSample)
	c.CollHPostSample = units.Arcmin(r.Coll.HPostSample)
	c.CollHPostAna = units.Arcmin(r.Coll.HPostAna)
	c.CollVPreMono = units.Arcmin(r.Coll.VPreMono)
	c.CollVPreSample = units.Arcmin(r.Coll.VPreSample)
	c.CollVPostSample = units.Arcmin(r.Coll.VPostSample)
	c.CollVPostAna = units.Arcmin(r.Coll.VPostAna)

	c.MonoRefl = orFloat(r.MonoRefl, 1)
	c.AnaEffic = orFloat(r.AnaEffic, 1)
	if c.MonoReflCurve, err = loadCurve(dir, r.MonoReflCurve); err != nil {
		return err
	}
	if c.AnaEfficCurve, err = loadCurve(dir, r.AnaEfficCurve); err != nil {
		return err
	}

	flag := func(v *bool, f reso.Flags) {
		if orBool(v, true) {
			c.Flags |= f
		}
	}
	flag(r.UseR0, reso.FlagR0)
	flag(r.UseKi3, reso.FlagKi3)
	flag(r.UseKf3, reso.FlagKf3)
	flag(r.UseKfKi, reso.FlagKfKi)
	if r.UseGeneralR0 {
		c.Flags |= reso.FlagGeneralR0
	}

	pop := &r.Pop
	p.MonoW, p.MonoH, p.MonoThick = units.Cm(pop.Mono.W), units.Cm(pop.Mono.H), units.Cm(pop.Mono.Thick)
	p.MonoCurvH, p.MonoCurvV = units.Cm(pop.Mono.CurvH), units.Cm(pop.Mono.CurvV)
	p.MonoCurvedH, p.MonoCurvedV = pop.Mono.CurvedH, pop.Mono.CurvedV
	p.MonoOptimalH, p.MonoOptimalV = orBool(pop.Mono.OptimalH, true), orBool(pop.Mono.OptimalV, true)

	p.AnaW, p.AnaH, p.AnaThick = units.Cm(pop.Ana.W), units.Cm(pop.Ana.H), units.Cm(pop.Ana.Thick)
	p.AnaCurvH, p.AnaCurvV = units.Cm(pop.Ana.CurvH), units.Cm(pop.Ana.CurvV)
	p.AnaCurvedH, p.AnaCurvedV = pop.Ana.CurvedH, pop.Ana.CurvedV
	p.AnaOptimalH, p.AnaOptimalV = orBool(pop.Ana.OptimalH, true), orBool(pop.Ana.OptimalV, true)

	p.SampleCuboid = pop.Sample.Cuboid
	p.SampleWQ, p.SampleWPerpQ, p.SampleH = units.Cm(pop.Sample.WQ), units.Cm(pop.Sample.WPerpQ), units.Cm(pop.Sample.H)
	p.SrcRect, p.SrcW, p.SrcH = pop.Source.Rect, units.Cm(pop.Source.W), units.Cm(pop.Source.H)
	p.DetRect, p.DetW, p.DetH = pop.Detector.Rect, units.Cm(pop.Detector.W), units.Cm(pop.Detector.H)
	p.Guide = pop.Guide.Enabled
	p.GuideDivH, p.GuideDivV = units.Arcmin(pop.Guide.DivH), units.Arcmin(pop.Guide.DivV)
	p.DistSrcMono = units.Cm(pop.Dist.SrcMono)
	p.DistMonoSample = units.Cm(pop.Dist.MonoSample)
	p.DistSampleAna = units.Cm(pop.Dist.SampleAna)
	p.DistAnaDet = units.Cm(pop.Dist.AnaDet)

	p.MonoMosaicV = units.Arcmin(orFloat(r.Eck.MonoMosaicV, r.MonoMosaic))
	p.AnaMosaicV = units.Arcmin(orFloat(r.Eck.AnaMosaicV, r.AnaMosaic))
	switch len(r.Eck.SamplePos) {
	case 0:
	case 3:
		p.PosX, p.PosY, p.PosZ = units.Cm(r.Eck.SamplePos[0]), units.Cm(r.Eck.SamplePos[1]), units.Cm(r.Eck.SamplePos[2])
	default:
		return errors.Wrapf(ErrBadVector, "eck.sample_pos has %d components", len(r.Eck.SamplePos))
	}

	return nil
}

func (v *ViolSection) params() reso.TOFParams {
	p := reso.TOFParams{
		LenPulseMono:  units.Cm(v.Dist.PulseMono),
		LenMonoSample: units.Cm(v.Dist.MonoSample),
		LenSampleDet:  units.Cm(v.Dist.SampleDet),

		SigLenPulseMono:  units.Cm(v.DistSig.PulseMono),
		SigLenMonoSample: units.Cm(v.DistSig.MonoSample),
		SigLenSampleDet:  units.Cm(v.DistSig.SampleDet),

		SigPulse: units.Microseconds(v.TimeSig.Pulse),
		SigMono:  units.Microseconds(v.TimeSig.Mono),
		SigDet:   units.Microseconds(v.TimeSig.Det),

		TwoThetaI:      units.Deg(v.Angles.TwoThetaI),
		AngleOutplaneI: units.Deg(v.Angles.OutplaneI),
		AngleOutplaneF: units.Deg(v.Angles.OutplaneF),

		SigTwoThetaI: units.Deg(v.AngleSig.TwoThetaI),
		SigOutplaneI: units.Deg(v.AngleSig.OutplaneI),
		SigTwoThetaF: units.Deg(v.AngleSig.TwoThetaF),
		SigOutplaneF: units.Deg(v.AngleSig.OutplaneF),

		DetShape: reso.DetCylindrical,
	}
	if orBool(v.DetSpherical, true) {
		p.DetShape = reso.DetSpherical
	}

	return p
}

func (s *SimpleSection) params() reso.SimpleParams {
	return reso.SimpleParams{
		SigKi: units.Wavenumber(s.SigKi), SigKf: units.Wavenumber(s.SigKf),
		SigKiPerp: units.Wavenumber(s.SigKiPerp), SigKfPerp: units.Wavenumber(s.SigKfPerp),
		SigKiZ: units.Wavenumber(s.SigKiZ), SigKfZ: units.Wavenumber(s.SigKfZ),
	}
}

func (s *SampleSection) sample() (*tas.Sample, error) {
	v1, err := vec3(s.Vec1, "sample.vec1")
	if err != nil {
		return nil, err
	}
	v2, err := vec3(s.Vec2, "sample.vec2")
	if err != nil {
		return nil, err
	}
	l := s.Lattice
	angle := func(v float64) units.Angle {
		if v == 0 {
			v = 90
		}
		return units.Deg(v)
	}

	return &tas.Sample{
		Lattice: tas.Lattice{
			A: l.A, B: l.B, C: l.C,
			Alpha: angle(l.Alpha), Beta: angle(l.Beta), Gamma: angle(l.Gamma),
		},
		Vec1: v1,
		Vec2: v2,
	}, nil
}

func (s *ScanSection) points() ([]tas.Point, error) {
	from, err := hkle(s.From, "scan.from")
	if err != nil {
		return nil, err
	}
	to := from
	if s.To != nil {
		if to, err = hkle(s.To, "scan.to"); err != nil {
			return nil, err
		}
	}
	steps := s.Steps
	if steps < 1 {
		steps = 1
	}

	return tas.LinearPoints(from, to, steps), nil
}

func hkle(v []float64, key string) (tas.Point, error) {
	if len(v) != 4 {
		return tas.Point{}, errors.Wrapf(ErrBadVector, "%s needs h, k, l, E", key)
	}
	return tas.Point{H: v[0], K: v[1], L: v[2], E: v[3]}, nil
}

func vec3(v []float64, key string) ([3]float64, error) {
	if len(v) != 3 {
		return [3]float64{}, errors.Wrapf(ErrBadVector, "%s has %d components", key, len(v))
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}

func sense(v *float64, def float64, key string) (float64, error) {
	if v == nil {
		return def, nil
	}
	if *v != 1 && *v != -1 {
		return 0, errors.Wrapf(ErrBadSense, "%s = %g", key, *v)
	}
	return *v, nil
}

func loadCurve(dir, path string) (*reso.ReflCurve, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: curve %s", path)
	}
	defer fh.Close()

	c, err := reso.LoadReflCurve(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "config: curve %s", path)
	}

	return c, nil
}

func orFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
