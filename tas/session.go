// SPDX-License-Identifier: MIT

package tas

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/logging"
	"github.com/katalvlaran/tasreso/mc"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/units"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records every resolved point into m.
func WithMetrics(m *ScanMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithSeed overrides Config.Seed.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithWorkers sets the worker count of Scan and GenerateMC. The default is
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Session ties an instrument Config to a crystal orientation and keeps the
// last successfully resolved position. All methods are safe for concurrent use.
type Session struct {
	log     logging.Logger
	metrics *ScanMetrics
	seed    int64
	workers int

	mu     sync.Mutex
	cfg    Config
	orient *Orientation
	rng    *rand.Rand
	last   *Resolved
}

// NewSession validates cfg and, when cfg.Sample is set, orients the session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		log:     logging.Nop(),
		seed:    cfg.Seed,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.Seed = s.seed
	s.rng = mc.NewRNG(s.seed)

	if cfg.Sample != nil {
		if err := s.SetLattice(cfg.Sample.Lattice, cfg.Sample.Vec1, cfg.Sample.Vec2); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Config returns a copy of the current configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetLattice orients the session; see NewOrientation.
func (s *Session) SetLattice(l Lattice, vec1, vec2 [3]float64) error {
	o, err := NewOrientation(l, vec1, vec2)
	if err != nil {
		return tasErrorf(opSetLattice, err)
	}
	s.mu.Lock()
	s.orient = &o
	s.last = nil
	s.mu.Unlock()

	return nil
}

// Orientation returns the current orientation, if any.
func (s *Session) Orientation() (Orientation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orient == nil {
		return Orientation{}, false
	}
	return *s.orient, true
}

// SetAlgo switches the algorithm; the new configuration must validate.
func (s *Session) SetAlgo(a reso.Algo) error {
	return s.update(func(c *Config) { c.Algo = a })
}

// SetKFix selects which wavenumber is fixed and its value.
func (s *Session) SetKFix(kiFixed bool, k units.Wavenumber) error {
	return s.update(func(c *Config) { c.KiFixed, c.KFix = kiFixed, k })
}

// SetFocus replaces the focus override.
func (s *Session) SetFocus(f Focus) error {
	return s.update(func(c *Config) { c.Focus = f })
}

// SetSamplePositions sets how many sample positions SetHKLE evaluates.
func (s *Session) SetSamplePositions(n int) error {
	return s.update(func(c *Config) { c.SamplePositions = n })
}

func (s *Session) update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cfg
	fn(&c)
	if err := c.Validate(); err != nil {
		return err
	}
	s.cfg = c

	return nil
}

// SetHKLE calculates the resolution at (h, k, l) and energy transfer e.
//
// Geometric failures (no lattice, out of plane, unreachable kinematics) and
// numerical failures of the algorithm both return a Resolved whose first
// result has Ok == false, together with an error: ErrInvalidUB,
// ErrNotInPlane, a kinematics sentinel or reso.ErrCalcFailed. Only a
// successful Resolved replaces the one GenerateMC draws from.
func (s *Session) SetHKLE(ctx context.Context, h, k, l, e float64) (*Resolved, error) {
	p := Point{H: h, K: k, L: l, E: e}

	s.mu.Lock()
	start := time.Now()
	r, err := resolve(&s.cfg, s.orient, p, s.rng)
	elapsed := time.Since(start)
	if err == nil {
		s.last = r
	}
	s.mu.Unlock()

	s.report(ctx, r, err, elapsed)

	return r, err
}

// Last returns the last successfully resolved position.
func (s *Session) Last() (*Resolved, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.last != nil
}

// GenerateMC draws n events per sample position around the last resolved
// position. Consecutive calls use consecutive seeds of the session stream.
func (s *Session) GenerateMC(ctx context.Context, n int) ([][4]float64, ellipse.Ellipsoid4d, error) {
	s.mu.Lock()
	last := s.last
	seed := s.rng.Int63()
	s.mu.Unlock()

	if last == nil {
		return nil, ellipse.Ellipsoid4d{}, tasErrorf(opGenerateMC, ErrNotPositioned)
	}
	events, ell, err := last.generate(ctx, n, seed, s.workers)
	if err != nil {
		return nil, ell, err
	}
	s.log.Debug(ctx, "generated neutrons", map[string]any{
		"point":  last.Point.String(),
		"events": len(events),
	})

	return events, ell, nil
}

// report logs and records the outcome of one position.
func (s *Session) report(ctx context.Context, r *Resolved, err error, elapsed time.Duration) {
	s.metrics.observe(r.Algo, err == nil, elapsed)
	if r.Focused {
		s.log.Debug(ctx, "focus override applied", map[string]any{
			"point":       r.Point.String(),
			"mono_curv_h": r.TAS.MonoCurvedH,
			"mono_curv_v": r.TAS.MonoCurvedV,
			"ana_curv_h":  r.TAS.AnaCurvedH,
			"ana_curv_v":  r.TAS.AnaCurvedV,
		})
	}
	for i, res := range r.Results {
		if i == 0 && err != nil {
			s.log.Error(ctx, "resolution calculation failed", err, map[string]any{
				"point": r.Point.String(),
				"algo":  r.Algo.String(),
			})
			continue
		}
		if !res.Ok {
			s.log.Warn(ctx, "sample position failed", map[string]any{
				"point":    r.Point.String(),
				"position": i,
				"reason":   res.Err,
			})
		}
	}
	if err == nil {
		s.log.Debug(ctx, "resolved", map[string]any{
			"point":  r.Point.String(),
			"algo":   r.Algo.String(),
			"r0":     r.First().R0,
			"volume": r.First().ResVol,
		})
	}
}

// snapshot copies what a batch needs so that it can run without the lock.
func (s *Session) snapshot() (Config, *Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.orient
}

func (s *Session) String() string {
	c := s.Config()
	return fmt.Sprintf("tas.Session{algo=%v kiFixed=%v kFix=%g focus=%v positions=%d}",
		c.Algo, c.KiFixed, float64(c.KFix), c.Focus, c.positions())
}
