package quadric_test

import (
	"testing"

	"github.com/katalvlaran/tasreso/quadric"
)

var sink quadric.Quadric

func benchQuadric6(b *testing.B) quadric.Quadric {
	b.Helper()
	q := make([][]float64, 6)
	for i := range q {
		q[i] = make([]float64, 6)
		for j := range q[i] {
			q[i][j] = 0.1
		}
		q[i][i] = 6. + float64(i)
	}
	qd, err := quadric.FromRows(q, []float64{1, 2, 3, 4, 5, 6}, 0)
	if err != nil {
		b.Fatal(err)
	}
	return qd
}

func BenchmarkMarginalizeTwice(b *testing.B) {
	qd := benchQuadric6(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _, _ := qd.Marginalize(5)
		r, _, _ = r.Marginalize(4)
		sink = r
	}
}

func BenchmarkPrincipal4(b *testing.B) {
	qd, _ := benchQuadric6(b).Remove(4, 5)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = qd.Principal()
	}
}
