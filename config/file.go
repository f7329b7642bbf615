// SPDX-License-Identifier: MIT

package config

// File mirrors the YAML instrument file. Units: lengths of crystals,
// sample, source, detector and flight paths in cm, d-spacings and lattice
// constants in Å, mosaics and collimations in arcmin, TOF angles in deg,
// times in µs, wavenumbers in 1/Å. Optional fields are pointers so that
// their defaults can be told apart from zero.
type File struct {
	Algorithm       string   `yaml:"algorithm"`
	Fixed           string   `yaml:"fixed"` // "ki" or "kf"
	KFix            float64  `yaml:"k_fix"`
	Focus           []string `yaml:"focus"`
	SamplePositions int      `yaml:"sample_positions"`
	Seed            int64    `yaml:"seed"`

	Sample *SampleSection `yaml:"sample"`
	Reso   ResoSection    `yaml:"reso"`
	Scan   *ScanSection   `yaml:"scan"`
}

type SampleSection struct {
	Lattice struct {
		A     float64 `yaml:"a"`
		B     float64 `yaml:"b"`
		C     float64 `yaml:"c"`
		Alpha float64 `yaml:"alpha"`
		Beta  float64 `yaml:"beta"`
		Gamma float64 `yaml:"gamma"`
	} `yaml:"lattice"`
	Vec1 []float64 `yaml:"vec1"`
	Vec2 []float64 `yaml:"vec2"`
}

type ResoSection struct {
	MonoD        float64  `yaml:"mono_d"`
	AnaD         float64  `yaml:"ana_d"`
	MonoMosaic   float64  `yaml:"mono_mosaic"`
	AnaMosaic    float64  `yaml:"ana_mosaic"`
	SampleMosaic float64  `yaml:"sample_mosaic"`
	MonoSense    *float64 `yaml:"mono_sense"`
	AnaSense     *float64 `yaml:"ana_sense"`
	SampleSense  *float64 `yaml:"sample_sense"`

	Coll Collimation `yaml:"coll"`

	MonoRefl      *float64 `yaml:"mono_refl"`
	AnaEffic      *float64 `yaml:"ana_effic"`
	MonoReflCurve string   `yaml:"mono_refl_curve"`
	AnaEfficCurve string   `yaml:"ana_effic_curve"`

	UseR0        *bool `yaml:"use_r0"`
	UseKi3       *bool `yaml:"use_ki3"`
	UseKf3       *bool `yaml:"use_kf3"`
	UseKfKi      *bool `yaml:"use_kfki"`
	UseGeneralR0 bool  `yaml:"use_general_r0"`

	Pop    PopSection    `yaml:"pop"`
	Eck    EckSection    `yaml:"eck"`
	Viol   ViolSection   `yaml:"viol"`
	Simple SimpleSection `yaml:"simple"`
}

// Collimation holds the eight collimators; 0 means open.
type Collimation struct {
	HPreMono    float64 `yaml:"h_pre_mono"`
	HPreSample  float64 `yaml:"h_pre_sample"`
	HPostSample float64 `yaml:"h_post_sample"`
	HPostAna    float64 `yaml:"h_post_ana"`
	VPreMono    float64 `yaml:"v_pre_mono"`
	VPreSample  float64 `yaml:"v_pre_sample"`
	VPostSample float64 `yaml:"v_post_sample"`
	VPostAna    float64 `yaml:"v_post_ana"`
}

type Crystal struct {
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Thick    float64 `yaml:"thick"`
	CurvH    float64 `yaml:"curv_h"`
	CurvV    float64 `yaml:"curv_v"`
	CurvedH  bool    `yaml:"curved_h"`
	CurvedV  bool    `yaml:"curved_v"`
	OptimalH *bool   `yaml:"optimal_h"`
	OptimalV *bool   `yaml:"optimal_v"`
}

type Aperture struct {
	Rect bool    `yaml:"rect"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

type PopSection struct {
	Mono   Crystal `yaml:"mono"`
	Ana    Crystal `yaml:"ana"`
	Sample struct {
		Cuboid bool    `yaml:"cuboid"`
		WQ     float64 `yaml:"w_q"`
		WPerpQ float64 `yaml:"w_perpq"`
		H      float64 `yaml:"h"`
	} `yaml:"sample"`
	Source   Aperture `yaml:"source"`
	Detector Aperture `yaml:"detector"`
	Guide    struct {
		Enabled bool    `yaml:"enabled"`
		DivH    float64 `yaml:"div_h"` // arcmin per Å
		DivV    float64 `yaml:"div_v"`
	} `yaml:"guide"`
	Dist struct {
		SrcMono    float64 `yaml:"src_mono"`
		MonoSample float64 `yaml:"mono_sample"`
		SampleAna  float64 `yaml:"sample_ana"`
		AnaDet     float64 `yaml:"ana_det"`
	} `yaml:"dist"`
}

type EckSection struct {
	MonoMosaicV *float64  `yaml:"mono_mosaic_v"` // defaults to the horizontal mosaic
	AnaMosaicV  *float64  `yaml:"ana_mosaic_v"`
	SamplePos   []float64 `yaml:"sample_pos"` // x, y, z in cm
}

type ViolSection struct {
	Dist struct {
		PulseMono  float64 `yaml:"pulse_mono"`
		MonoSample float64 `yaml:"mono_sample"`
		SampleDet  float64 `yaml:"sample_det"`
	} `yaml:"dist"`
	DistSig struct {
		PulseMono  float64 `yaml:"pulse_mono"`
		MonoSample float64 `yaml:"mono_sample"`
		SampleDet  float64 `yaml:"sample_det"`
	} `yaml:"dist_sig"`
	TimeSig struct {
		Pulse float64 `yaml:"pulse"`
		Mono  float64 `yaml:"mono"`
		Det   float64 `yaml:"det"`
	} `yaml:"time_sig"`
	Angles struct {
		TwoThetaI float64 `yaml:"twotheta_i"`
		OutplaneI float64 `yaml:"outplane_i"`
		OutplaneF float64 `yaml:"outplane_f"`
	} `yaml:"angles"`
	AngleSig struct {
		TwoThetaI float64 `yaml:"twotheta_i"`
		OutplaneI float64 `yaml:"outplane_i"`
		TwoThetaF float64 `yaml:"twotheta_f"`
		OutplaneF float64 `yaml:"outplane_f"`
	} `yaml:"angle_sig"`
	DetSpherical *bool `yaml:"det_spherical"`
}

type SimpleSection struct {
	SigKi     float64 `yaml:"sig_ki"`
	SigKf     float64 `yaml:"sig_kf"`
	SigKiPerp float64 `yaml:"sig_ki_perp"`
	SigKfPerp float64 `yaml:"sig_kf_perp"`
	SigKiZ    float64 `yaml:"sig_ki_z"`
	SigKfZ    float64 `yaml:"sig_kf_z"`
}

// ScanSection describes a linear scan from From to To, each (h, k, l, E).
type ScanSection struct {
	From    []float64 `yaml:"from"`
	To      []float64 `yaml:"to"`
	Steps   int       `yaml:"steps"`
	Workers int       `yaml:"workers"`
}
