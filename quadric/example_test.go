package quadric_test

import (
	"fmt"

	"github.com/katalvlaran/tasreso/quadric"
)

// ExampleQuadric_Marginalize integrates the second coordinate out of a
// correlated 2D Gaussian form and decomposes what is left.
func ExampleQuadric_Marginalize() {
	qd, err := quadric.FromRows([][]float64{
		{4, 2},
		{2, 4},
	}, []float64{0, 0}, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	red, weight, err := qd.Marginalize(1)
	if err != nil {
		fmt.Println(err)
		return
	}
	m := red.Matrix()
	fmt.Printf("Q' = %.2f, weight = %.4f, axis = %d\n", m[0][0], weight, red.Axis(0))

	p, err := red.Principal()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("radius = %.4f\n", p.Radii[0])

	// Output:
	// Q' = 3.00, weight = 0.8862, axis = 0
	// radius = 0.5774
}
