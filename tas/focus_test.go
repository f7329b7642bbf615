package tas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
)

func TestParseFocus(t *testing.T) {
	f, err := tas.ParseFocus("mono_h", " ANA_V ", "")
	require.NoError(t, err)
	assert.Equal(t, tas.FocusMonoH|tas.FocusAnaV, f)
	assert.Equal(t, "mono_h|ana_v", f.String())

	f, err = tas.ParseFocus("none")
	require.NoError(t, err)
	assert.Equal(t, tas.FocusNone, f)
	assert.Equal(t, "none", f.String())

	_, err = tas.ParseFocus("mono_diagonal")
	require.ErrorIs(t, err, tas.ErrBadConfig)
}

func TestFocusOverride(t *testing.T) {
	for _, tc := range []struct {
		name    string
		focus   tas.Focus
		curved  bool // configured mono and ana curvature
		monoH   bool
		monoV   bool
		anaH    bool
		anaV    bool
		changed bool
	}{
		{"none keeps flat", tas.FocusNone, false, false, false, false, false, false},
		{"mono h", tas.FocusMonoH, false, true, false, false, false, true},
		{"ana both", tas.FocusAnaH | tas.FocusAnaV, false, false, false, true, true, true},
		{"flatten", tas.FocusMonoFlat | tas.FocusAnaFlat, true, false, false, false, false, true},
		{"flat then curved", tas.FocusMonoFlat | tas.FocusMonoV, true, false, true, true, true, true},
		{"unchanged wins", tas.FocusUnchanged | tas.FocusMonoFlat, true, true, true, true, true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(reso.AlgoPop)
			cfg.Focus = tc.focus
			cfg.TAS.MonoCurvedH, cfg.TAS.MonoCurvedV = tc.curved, tc.curved
			cfg.TAS.AnaCurvedH, cfg.TAS.AnaCurvedV = tc.curved, tc.curved
			s, err := tas.NewSession(cfg)
			require.NoError(t, err)

			r, err := s.SetHKLE(context.Background(), 1, 0, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.monoH, r.TAS.MonoCurvedH)
			assert.Equal(t, tc.monoV, r.TAS.MonoCurvedV)
			assert.Equal(t, tc.anaH, r.TAS.AnaCurvedH)
			assert.Equal(t, tc.anaV, r.TAS.AnaCurvedV)
			assert.Equal(t, tc.changed, r.Focused)
			if tc.monoH && tc.changed {
				assert.True(t, r.TAS.MonoOptimalH)
			}
			// the session template is never modified
			assert.Equal(t, tc.curved, s.Config().TAS.MonoCurvedH)
		})
	}
}
