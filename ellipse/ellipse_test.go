package ellipse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/ellipse"
	"github.com/katalvlaran/tasreso/quadric"
	"github.com/katalvlaran/tasreso/units"
)

// coupled is a symmetric positive-definite form with every axis correlated.
var coupled = [4][4]float64{
	{40, 6, 1, -8},
	{6, 90, 2, 5},
	{1, 2, 300, 0.5},
	{-8, 5, 0.5, 5},
}

var (
	coupledV    = [4]float64{0.4, -0.2, 0.1, 0.05}
	coupledQAvg = [4]float64{2, 0, 0, 3}
)

// reference computes the expected precision matrix and centre of a view:
// dropped axes are cut at the mean, then the covariance is restricted to keep.
func reference(t *testing.T, keep, drop []int) (*mat.Dense, []float64) {
	t.Helper()
	var rest []int
	for a := 0; a < 4; a++ {
		dropped := false
		for _, d := range drop {
			dropped = dropped || d == a
		}
		if !dropped {
			rest = append(rest, a)
		}
	}
	n := len(rest)
	ms := mat.NewDense(n, n, nil)
	vs := mat.NewVecDense(n, nil)
	for i, a := range rest {
		vs.SetVec(i, coupledV[a])
		for j, b := range rest {
			ms.Set(i, j, coupled[a][b])
		}
	}
	var cov mat.Dense
	require.NoError(t, cov.Inverse(ms))
	var mu mat.VecDense
	mu.MulVec(&cov, vs)

	pos := func(a int) int {
		for i, r := range rest {
			if r == a {
				return i
			}
		}
		t.Fatalf("axis %d not kept", a)
		return -1
	}
	k := len(keep)
	sub := mat.NewDense(k, k, nil)
	centre := make([]float64, k)
	for i, a := range keep {
		centre[i] = coupledQAvg[a] - mu.AtVec(pos(a))
		for j, b := range keep {
			sub.Set(i, j, cov.At(pos(a), pos(b)))
		}
	}
	var prec mat.Dense
	require.NoError(t, prec.Inverse(sub))

	return &prec, centre
}

func assertForm(t *testing.T, want *mat.Dense, got quadric.Quadric) {
	t.Helper()
	m := got.Matrix()
	r, _ := want.Dims()
	require.Len(t, m, r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			assert.InDelta(t, want.At(i, j), m[i][j], 1e-9*math.Abs(want.At(i, i)), "(%d,%d)", i, j)
		}
	}
}

func dropped(idx ...int) []int {
	var out []int
	for _, i := range idx {
		if i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func TestStandardProjectionsMatchReference(t *testing.T) {
	for _, p := range ellipse.Projections2D {
		t.Run(p.Name, func(t *testing.T) {
			ell, err := ellipse.CalcEllipse(coupled, coupledV, 0, coupledQAvg, p.X, p.Y, p.Int, p.Rem1, p.Rem2)
			require.NoError(t, err)

			prec, centre := reference(t, []int{p.X, p.Y}, dropped(p.Rem1, p.Rem2))
			assertForm(t, prec, ell.Quad)
			assert.InDelta(t, centre[0], ell.Offset[0], 1e-9)
			assert.InDelta(t, centre[1], ell.Offset[1], 1e-9)
			assert.Equal(t, [2]int{p.X, p.Y}, ell.Axes)
			assert.Equal(t, ellipse.Label(p.X, ellipse.CoordQAvg, false), ell.Labels[0])
		})
	}
}

func TestStandardProjections3DMatchReference(t *testing.T) {
	for _, p := range ellipse.Projections3D {
		t.Run(p.Name, func(t *testing.T) {
			ell, err := ellipse.CalcEllipsoid(coupled, coupledV, 0, coupledQAvg, p.X, p.Y, p.Z, p.Int, p.Rem)
			require.NoError(t, err)

			prec, centre := reference(t, []int{p.X, p.Y, p.Z}, dropped(p.Rem))
			assertForm(t, prec, ell.Quad)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, centre[i], ell.Offset[i], 1e-9)
			}
		})
	}
}

func TestEveryAxisOrdering(t *testing.T) {
	// all keep pairs, with the other two axes integrated/dropped in both orders
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if x == y {
				continue
			}
			var others []int
			for a := 0; a < 4; a++ {
				if a != x && a != y {
					others = append(others, a)
				}
			}
			for _, o := range [][2]int{{others[0], others[1]}, {others[1], others[0]}} {
				// integrate o[0], drop o[1]
				ell, err := ellipse.CalcEllipse(coupled, coupledV, 0, coupledQAvg, x, y, o[0], o[1], -1)
				require.NoError(t, err)
				prec, centre := reference(t, []int{x, y}, []int{o[1]})
				assertForm(t, prec, ell.Quad)
				assert.InDelta(t, centre[1], ell.Offset[1], 1e-9)

				// drop both, second removal given first
				ell, err = ellipse.CalcEllipse(coupled, coupledV, 0, coupledQAvg, x, y, -1, o[0], o[1])
				require.NoError(t, err)
				prec, _ = reference(t, []int{x, y}, []int{o[0], o[1]})
				assertForm(t, prec, ell.Quad)
			}
		}
	}
}

func TestDiagonalEllipse(t *testing.T) {
	m := [4][4]float64{{4, 0, 0, 0}, {0, 9, 0, 0}, {0, 0, 16, 0}, {0, 0, 0, 25}}
	ell, err := ellipse.CalcEllipse(m, [4]float64{}, 0, [4]float64{1, 0, 0, 2}, 0, 3, 1, 2, -1)
	require.NoError(t, err)

	assert.InDelta(t, units.SIGMA2HWHM/2, ell.HWHM[0], 1e-14)
	assert.InDelta(t, units.SIGMA2HWHM/5, ell.HWHM[1], 1e-14)
	assert.InDelta(t, 0., ell.Phi, 1e-14)
	assert.Equal(t, ell.HWHM, ell.HWHMBound)
	assert.InDelta(t, math.Pi/10, ell.Area, 1e-14)
	assert.Equal(t, [2]float64{1, 2}, ell.Offset)
}

func TestRotatedEllipseBounds(t *testing.T) {
	phi := 0.3
	c, s := math.Cos(phi), math.Sin(phi)
	l1, l2 := 1./0.04, 1./0.0025 // σ = 0.2 and 0.05
	var m [4][4]float64
	m[0][0] = c*c*l1 + s*s*l2
	m[3][3] = s*s*l1 + c*c*l2
	m[0][3] = c * s * (l1 - l2)
	m[3][0] = m[0][3]
	m[1][1], m[2][2] = 1, 1

	ell, err := ellipse.CalcEllipse(m, [4]float64{}, 0, [4]float64{}, 0, 3, -1, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, phi, ell.Phi, 1e-10)
	assert.InDelta(t, math.Tan(phi), ell.Slope, 1e-10)
	assert.InDelta(t, units.SIGMA2HWHM*0.2, ell.HWHM[0], 1e-12)
	assert.InDelta(t, units.SIGMA2HWHM*0.05, ell.HWHM[1], 1e-12)

	xs, ys := ell.Curve(20001)
	var mx, my float64
	for i := range xs {
		mx = math.Max(mx, math.Abs(xs[i]))
		my = math.Max(my, math.Abs(ys[i]))
	}
	assert.InDelta(t, ell.HWHMBound[0], mx, 1e-6)
	assert.InDelta(t, ell.HWHMBound[1], my, 1e-6)
	assert.InDelta(t, xs[0], xs[len(xs)-1], 1e-12)
}

func TestEllipseErrors(t *testing.T) {
	for _, tc := range []struct {
		name                 string
		x, y, in, rem1, rem2 int
	}{
		{"duplicate", 0, 0, 1, 2, 3},
		{"axis missing", 0, 3, 1, -1, -1},
		{"out of range", 0, 4, 1, 2, -1},
		{"unset x", -1, 3, 1, 2, 0},
		{"too many", 0, 3, 1, 2, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ellipse.CalcEllipse(coupled, coupledV, 0, coupledQAvg, tc.x, tc.y, tc.in, tc.rem1, tc.rem2)
			require.ErrorIs(t, err, ellipse.ErrBadIndices)
		})
	}

	_, err := ellipse.CalcEllipsoid(coupled, coupledV, 0, coupledQAvg, 0, 1, 2, 3, 3)
	require.ErrorIs(t, err, ellipse.ErrBadIndices)

	var flat [4][4]float64
	flat[0][0], flat[3][3] = 1, 1
	_, err = ellipse.CalcEllipse(flat, [4]float64{}, 0, [4]float64{}, 0, 3, 1, 2, -1)
	require.ErrorIs(t, err, quadric.ErrDegenerateAxis)
}

func TestEllipsoid4d(t *testing.T) {
	m := [4][4]float64{{4, 0, 0, 0}, {0, 9, 0, 0}, {0, 0, 16, 0}, {0, 0, 0, 25}}
	v := [4]float64{4, 0, 0, -25}
	ell, err := ellipse.CalcEllipsoid4d(m, v, 0, [4]float64{1, 0, 0, 2})
	require.NoError(t, err)

	// centre −M⁻¹v = (−1, 0, 0, 1)
	assert.InDelta(t, 0., ell.Offset[0], 1e-14)
	assert.InDelta(t, 3., ell.Offset[3], 1e-14)
	assert.InDelta(t, units.SIGMA2HWHM/3, ell.HWHM[1], 1e-14)
	assert.InDelta(t, math.Pi*math.Pi/2/(2*3*4*5), ell.Volume, 1e-14)
	assert.Equal(t, "E (meV)", ell.Labels[3])
}

func TestVanadiumFWHMs(t *testing.T) {
	m := [4][4]float64{{4, 0, 0, 0}, {0, 9, 0, 0}, {0, 0, 16, 0}, {0, 0, 0, 25}}
	q, e, err := ellipse.VanadiumFWHMs(m, [4]float64{}, 0, [4]float64{})
	require.NoError(t, err)
	assert.InDelta(t, units.SIGMA2FWHM/2, q, 1e-14)
	assert.InDelta(t, units.SIGMA2FWHM/5, e, 1e-14)

	// correlations only widen the incoherent widths
	qc, ec, err := ellipse.VanadiumFWHMs(coupled, coupledV, 0, coupledQAvg)
	require.NoError(t, err)
	assert.Greater(t, qc, units.SIGMA2FWHM/math.Sqrt(coupled[0][0]))
	assert.Greater(t, ec, units.SIGMA2FWHM/math.Sqrt(coupled[3][3]))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "h - <h> (rlu)", ellipse.Label(0, ellipse.CoordRLU, true))
	assert.Equal(t, "Up (rlu)", ellipse.Label(2, ellipse.CoordRLUOrient, true))
	assert.Equal(t, "Q_ortho (1/A)", ellipse.Label(1, ellipse.CoordQAvg, false))
	assert.Equal(t, "", ellipse.Label(4, ellipse.CoordQAvg, false))
	assert.Equal(t, "E (meV)", ellipse.Labels(ellipse.CoordRLU, true)[3])

	ell, err := ellipse.CalcEllipse(coupled, coupledV, 0, coupledQAvg, 0, 3, 1, 2, -1)
	require.NoError(t, err)
	ell.Relabel(ellipse.CoordRLU, false)
	assert.Equal(t, [2]string{"h (rlu)", "E (meV)"}, ell.Labels)
	assert.Contains(t, ell.String(), "h (rlu)")
}
