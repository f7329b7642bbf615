package tas_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/tasreso/reso"
	"github.com/katalvlaran/tasreso/tas"
)

// ExampleSession_SetHKLE resolves a Bragg reflection and rejects a request
// that leaves the scattering plane.
func ExampleSession_SetHKLE() {
	s, err := tas.NewSession(testConfig(reso.AlgoCN))
	if err != nil {
		fmt.Println(err)
		return
	}

	r, err := s.SetHKLE(context.Background(), 1, 1, 0, 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("ok=%v Q=%.4f positions=%d\n", r.Ok(), r.First().QAvg[0], len(r.Results))

	r, err = s.SetHKLE(context.Background(), 1, 1, 1, 0)
	fmt.Println(r.First().Err)
	fmt.Println(err)

	// Output:
	// ok=true Q=1.7772 positions=1
	// Not in scattering plane.
	// SetHKLE: (1 1 1) E=0 meV: tas: not in scattering plane
}
