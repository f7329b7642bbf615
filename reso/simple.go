// SPDX-License-Identifier: MIT

package reso

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tasreso/kinematics"
	"github.com/katalvlaran/tasreso/units"
)

// CalcSimple computes the resolution from Gaussian uncertainties of ki and kf
// alone. The kf uncertainties are given along and perpendicular to kf and are
// rotated into the ki frame by the scattering angle.
func CalcSimple(p SimpleParams) Results {
	e := kinematics.EnergyTransfer(p.Ki, p.Kf)
	q := kinematics.SampleQ(p.Ki, p.Kf, p.TwoTheta)
	qAvg := qAvgOf(q, e)

	stt, ctt := math.Sincos(p.TwoTheta.Rad())
	sigmas := []float64{
		float64(p.SigKi),
		float64(p.SigKiPerp),
		float64(p.SigKiZ),
		float64(p.SigKf)*ctt - float64(p.SigKfPerp)*stt,
		float64(p.SigKf)*stt + float64(p.SigKfPerp)*ctt,
		float64(p.SigKfZ),
	}

	// dE/dk = ħ²k/m_n = 2·KSQ2E·k
	ki, kf := float64(p.Ki), float64(p.Kf)
	kfx, kfy := kf*ctt, kf*stt
	jac := mat.NewDense(4, 6, nil)
	for i := 0; i < 3; i++ {
		jac.Set(i, i, 1)
		jac.Set(i, i+3, -1)
	}
	jac.Set(3, 0, 2.*units.KSQ2E*ki)
	jac.Set(3, 3, -2.*units.KSQ2E*kfx)
	jac.Set(3, 4, -2.*units.KSQ2E*kfy)

	return jacobianResults(qAvg, jac, sigmas, p.AngleKiQ)
}
