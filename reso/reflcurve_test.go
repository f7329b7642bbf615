package reso_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tasreso/reso"
)

func TestReflCurveInterpolates(t *testing.T) {
	// unsorted input is accepted
	c, err := reso.NewReflCurve([]float64{2, 1, 3}, []float64{0.6, 0.4, 0.8})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, c.At(1.5), 1e-15)
	assert.InDelta(t, 0.7, c.At(2.5), 1e-15)
	assert.InDelta(t, 0.6, c.At(-2), 1e-15)

	// clamped to the table ends
	assert.InDelta(t, 0.4, c.At(0.5), 1e-15)
	assert.InDelta(t, 0.8, c.At(9), 1e-15)
}

func TestReflCurveClampsValues(t *testing.T) {
	c, err := reso.NewReflCurve([]float64{1, 2}, []float64{-0.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, 0., c.At(1))
	assert.Equal(t, 1., c.At(2))
}

func TestReflCurveRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		k, r []float64
	}{
		{"too short", []float64{1}, []float64{1}},
		{"length mismatch", []float64{1, 2}, []float64{1}},
		{"duplicate k", []float64{1, 2, 1}, []float64{0.1, 0.2, 0.3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reso.NewReflCurve(tc.k, tc.r)
			require.ErrorIs(t, err, reso.ErrBadReflCurve)
		})
	}
}

func TestLoadReflCurve(t *testing.T) {
	src := `# k  refl
1.0  0.40

2.0  0.60  ignored
`
	c, err := reso.LoadReflCurve(strings.NewReader(src))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.At(1.5), 1e-15)

	_, err = reso.LoadReflCurve(strings.NewReader("1.0\n2.0 0.5\n"))
	require.ErrorIs(t, err, reso.ErrBadReflCurve)

	_, err = reso.LoadReflCurve(strings.NewReader("1.0 x\n2.0 0.5\n"))
	require.ErrorIs(t, err, reso.ErrBadReflCurve)
}
