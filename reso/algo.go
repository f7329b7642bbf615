// SPDX-License-Identifier: MIT

package reso

import "fmt"

// Calc runs the algorithm selected by algo on p.
//
// The returned error is reserved for configuration problems: an unknown algo
// (ErrUnknownAlgo), a parameter variant that does not belong to algo
// (ErrParamsMismatch) or an unsupported TOF detector (ErrUnknownDetShape).
// Numerical failures come back as Results with Ok == false and a nil error.
// Both the value and the pointer form of a variant are accepted.
func Calc(algo Algo, p Params) (Results, error) {
	if !algo.Valid() {
		return Results{Err: msgUnknownAlg}, resoErrorf(opCalc, fmt.Errorf("%v: %w", algo, ErrUnknownAlgo))
	}
	mismatch := func() (Results, error) {
		return Results{}, resoErrorf(opCalc, fmt.Errorf("%v with %T: %w", algo, p, ErrParamsMismatch))
	}

	switch algo {
	case AlgoCN, AlgoPop, AlgoEck:
		tp, ok := asTAS(p)
		if !ok {
			return mismatch()
		}
		switch algo {
		case AlgoCN:
			return CalcCN(tp), nil
		case AlgoPop:
			return CalcPop(tp), nil
		}
		return CalcEck(tp), nil
	case AlgoViol:
		tp, ok := asTOF(p)
		if !ok {
			return mismatch()
		}
		if tp.DetShape != DetSpherical && tp.DetShape != DetCylindrical {
			return Results{Err: msgDetShape}, resoErrorf(opCalc, fmt.Errorf("shape %d: %w", tp.DetShape, ErrUnknownDetShape))
		}
		return CalcViol(tp), nil
	default: // AlgoSimple
		sp, ok := asSimple(p)
		if !ok {
			return mismatch()
		}
		return CalcSimple(sp), nil
	}
}

func asTAS(p Params) (TASParams, bool) {
	switch v := p.(type) {
	case TASParams:
		return v, true
	case *TASParams:
		if v != nil {
			return *v, true
		}
	}
	return TASParams{}, false
}

func asTOF(p Params) (TOFParams, bool) {
	switch v := p.(type) {
	case TOFParams:
		return v, true
	case *TOFParams:
		if v != nil {
			return *v, true
		}
	}
	return TOFParams{}, false
}

func asSimple(p Params) (SimpleParams, bool) {
	switch v := p.(type) {
	case SimpleParams:
		return v, true
	case *SimpleParams:
		if v != nil {
			return *v, true
		}
	}
	return SimpleParams{}, false
}
