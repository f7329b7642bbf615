package tas_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/logging"
	"github.com/katalvlaran/tasreso/mc"
	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
)

func newSession(t *testing.T, cfg tas.Config, opts ...tas.Option) *tas.Session {
	t.Helper()
	s, err := tas.NewSession(cfg, opts...)
	require.NoError(t, err)
	return s
}

func TestNewSessionValidation(t *testing.T) {
	cfg := testConfig(reso.Algo(42))
	_, err := tas.NewSession(cfg)
	require.ErrorIs(t, err, tas.ErrBadConfig)
	require.ErrorIs(t, err, reso.ErrUnknownAlgo)

	cfg = testConfig(reso.AlgoCN)
	cfg.KFix = 0
	_, err = tas.NewSession(cfg)
	require.ErrorIs(t, err, tas.ErrBadConfig)

	cfg = testConfig(reso.AlgoEck)
	cfg.TAS.AnaD = 0
	_, err = tas.NewSession(cfg)
	require.ErrorIs(t, err, tas.ErrBadConfig)

	cfg = testConfig(reso.AlgoViol)
	cfg.TOF.DetShape = 9
	_, err = tas.NewSession(cfg)
	require.ErrorIs(t, err, reso.ErrUnknownDetShape)

	cfg = testConfig(reso.AlgoCN)
	cfg.Sample.Vec2 = cfg.Sample.Vec1
	_, err = tas.NewSession(cfg)
	require.ErrorIs(t, err, tas.ErrBadLattice)
}

func TestSetHKLEMatchesDirectCalc(t *testing.T) {
	ctx := context.Background()
	for _, algo := range []reso.Algo{reso.AlgoCN, reso.AlgoPop, reso.AlgoEck, reso.AlgoViol, reso.AlgoSimple} {
		t.Run(algo.String(), func(t *testing.T) {
			s := newSession(t, testConfig(algo))
			r, err := s.SetHKLE(ctx, 1, 0, 0, 0)
			require.NoError(t, err)
			require.True(t, r.Ok())
			require.Len(t, r.Results, 1)

			res := r.First()
			assert.InDelta(t, tau, res.QAvg[0], 1e-12)
			assert.InDelta(t, 0., r.AngleQVec0, 1e-12)

			var direct reso.Results
			switch algo {
			case reso.AlgoViol:
				assert.InDelta(t, 1.5, float64(r.TOF.Kf), 1e-12)
				direct = reso.CalcViol(r.TOF)
			case reso.AlgoSimple:
				direct = reso.CalcSimple(r.Simple)
			default:
				assert.InDelta(t, 2.662, float64(r.TAS.Ki), 1e-12)
				assert.InDelta(t, 2.662, float64(r.TAS.Kf), 1e-12)
				assert.InDelta(t, tau, float64(r.TAS.Q), 1e-12)
				assert.Greater(t, r.TAS.ThetaM.Rad(), 0.)
				direct, err = reso.Calc(algo, r.TAS)
				require.NoError(t, err)
			}
			assert.Equal(t, direct.Reso, res.Reso)
			assert.Equal(t, direct.R0, res.R0)

			last, ok := s.Last()
			require.True(t, ok)
			assert.Same(t, r, last)
		})
	}
}

func TestSetHKLEKinematics(t *testing.T) {
	s := newSession(t, testConfig(reso.AlgoCN))
	r, err := s.SetHKLE(context.Background(), 1, 1, 0, 5)
	require.NoError(t, err)

	kf, err := kinematics.OtherK(5, 2.662, true)
	require.NoError(t, err)
	assert.InDelta(t, float64(kf), float64(r.TAS.Kf), 1e-12)
	assert.InDelta(t, 5., float64(r.TAS.E), 1e-12)
	assert.InDelta(t, tau*math.Sqrt2, float64(r.TAS.Q), 1e-12)
	assert.InDelta(t, -math.Pi/4., r.AngleQVec0, 1e-12)
	assert.InDelta(t, tau*math.Sqrt2, kinematics.SampleQ(r.TAS.Ki, r.TAS.Kf, r.TAS.TwoTheta).PerAngstrom(), 1e-9)

	// kf fixed swaps the roles
	require.NoError(t, s.SetKFix(false, 2.662))
	r, err = s.SetHKLE(context.Background(), 1, 1, 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.662, float64(r.TAS.Kf), 1e-12)
	assert.Greater(t, float64(r.TAS.Ki), 2.662)
}

func TestSetHKLEFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no lattice", func(t *testing.T) {
		cfg := testConfig(reso.AlgoCN)
		cfg.Sample = nil
		s := newSession(t, cfg)
		r, err := s.SetHKLE(ctx, 1, 0, 0, 0)
		require.ErrorIs(t, err, tas.ErrInvalidUB)
		assert.False(t, r.Ok())
		assert.Equal(t, "Invalid UB matrix.", r.First().Err)
	})

	t.Run("out of plane", func(t *testing.T) {
		s := newSession(t, testConfig(reso.AlgoCN))
		_, err := s.SetHKLE(ctx, 1, 0, 0, 0)
		require.NoError(t, err)
		before, _ := s.Last()

		r, err := s.SetHKLE(ctx, 1, 0, 0.5, 0)
		require.ErrorIs(t, err, tas.ErrNotInPlane)
		assert.False(t, r.Ok())
		assert.Contains(t, r.First().Err, "scattering plane")

		after, _ := s.Last()
		assert.Same(t, before, after)
	})

	t.Run("energy out of reach", func(t *testing.T) {
		s := newSession(t, testConfig(reso.AlgoCN))
		r, err := s.SetHKLE(ctx, 1, 0, 0, 20)
		require.ErrorIs(t, err, kinematics.ErrNoSolution)
		assert.False(t, r.Ok())
		assert.NotEmpty(t, r.First().Err)
	})

	t.Run("triangle not closed", func(t *testing.T) {
		s := newSession(t, testConfig(reso.AlgoCN))
		r, err := s.SetHKLE(ctx, 5, 0, 0, 0)
		require.ErrorIs(t, err, kinematics.ErrTriangleNotClosed)
		assert.Equal(t, "Scattering triangle not closed.", r.First().Err)
		_, ok := s.Last()
		assert.False(t, ok)
	})
}

func TestSamplePositions(t *testing.T) {
	cfg := testConfig(reso.AlgoEck)
	cfg.SamplePositions = 3
	s := newSession(t, cfg)

	r, err := s.SetHKLE(context.Background(), 1, 0, 0, 2)
	require.NoError(t, err)
	require.Len(t, r.Results, 3)
	for _, res := range r.Results {
		assert.True(t, res.Ok, res.Err)
	}
	assert.NotEqual(t, r.Results[1], r.Results[2])

	// the template keeps the centred sample
	assert.Zero(t, r.TAS.PosX)

	// same seed, same draws
	again := newSession(t, cfg)
	r2, err := again.SetHKLE(context.Background(), 1, 0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, r.Results, r2.Results)
}

func TestSessionSetters(t *testing.T) {
	s := newSession(t, testConfig(reso.AlgoCN))
	require.NoError(t, s.SetAlgo(reso.AlgoPop))
	require.NoError(t, s.SetFocus(tas.FocusMonoH))
	require.NoError(t, s.SetSamplePositions(2))
	cfg := s.Config()
	assert.Equal(t, reso.AlgoPop, cfg.Algo)
	assert.Equal(t, tas.FocusMonoH, cfg.Focus)
	assert.Equal(t, 2, cfg.SamplePositions)

	require.ErrorIs(t, s.SetAlgo(reso.Algo(0)), tas.ErrBadConfig)
	require.ErrorIs(t, s.SetKFix(true, -1), tas.ErrBadConfig)
	require.ErrorIs(t, s.SetSamplePositions(-1), tas.ErrBadConfig)
	assert.Equal(t, reso.AlgoPop, s.Config().Algo)
	assert.Contains(t, s.String(), "algo=pop")

	_, ok := s.Orientation()
	assert.True(t, ok)
}

func TestGenerateMC(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testConfig(reso.AlgoCN), tas.WithWorkers(3))

	_, _, err := s.GenerateMC(ctx, 10)
	require.ErrorIs(t, err, tas.ErrNotPositioned)

	r, err := s.SetHKLE(ctx, 1, 1, 0, 0)
	require.NoError(t, err)

	const n = 20000
	events, ell, err := s.GenerateMC(ctx, n)
	require.NoError(t, err)
	require.Len(t, events, n)

	want, err := ellipse.FromResults(r.First())
	require.NoError(t, err)
	assert.Equal(t, want, ell)

	// rlu by default, centred on the requested reflection
	mean, _ := mc.Moments(events)
	assert.InDelta(t, 1., mean[0], 0.01)
	assert.InDelta(t, 1., mean[1], 0.01)
	assert.InDelta(t, 0., mean[2], 0.01)
	assert.InDelta(t, 0., mean[3], 0.05)

	// the direct frame is centred on (|Q|, 0, 0, E)
	direct, _, err := r.WithOpts(mc.Opts{Coords: mc.Direct}).GenerateMC(ctx, n, 3)
	require.NoError(t, err)
	mean, _ = mc.Moments(direct)
	assert.InDelta(t, tau*math.Sqrt2, mean[0], 0.01)
	assert.InDelta(t, 0., mean[1], 0.01)
	assert.Equal(t, mc.RLU, r.Opts.Coords)
}

func TestResolvedGenerateMC(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(reso.AlgoEck)
	cfg.SamplePositions = 2
	s := newSession(t, cfg)
	r, err := s.SetHKLE(ctx, 1, 0, 0, 0)
	require.NoError(t, err)

	a, _, err := r.GenerateMC(ctx, 500, 11)
	require.NoError(t, err)
	require.Len(t, a, 1000)
	b, _, err := r.GenerateMC(ctx, 500, 11)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = r.GenerateMC(cancelled, 500, 11)
	require.ErrorIs(t, err, mc.ErrNotCompleted)

	failed, _ := s.SetHKLE(ctx, 0, 0, 1, 0)
	_, _, err = failed.GenerateMC(ctx, 10, 1)
	require.ErrorIs(t, err, tas.ErrNotPositioned)
}

func TestSessionLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := testConfig(reso.AlgoCN)
	cfg.Focus = tas.FocusMonoH
	s := newSession(t, cfg, tas.WithLogger(logging.Wrap(zap.New(core))))

	_, err := s.SetHKLE(context.Background(), 1, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("focus override applied").Len())
	assert.Equal(t, 1, logs.FilterMessage("resolved").Len())

	_, err = s.SetHKLE(context.Background(), 0, 0, 1, 0)
	require.Error(t, err)
	failed := logs.FilterMessage("resolution calculation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "cn", failed[0].ContextMap()["algo"])
}
