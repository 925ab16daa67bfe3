// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.13
//

// Receiver clock repair pipeline: clock/drift estimation, drift despiking,
// jump classification and observation correction over a whole session.

package goclk

import (
	"gonum.org/v1/gonum/floats"
)

// Result holds the outcome of the receiver clock repair
type Result struct {
	DtR    []float64 // Receiver clock error per epoch [s]
	DtRdot []float64 // Receiver clock drift per epoch [s/s], last value duplicated
	Bad    []bool    // Bad-satellite flags per slot
	Jumps  JumpFlags // Observable types that jump at clock discontinuities
}

// FixReceiverClock estimates the receiver clock error over the session,
// repairs discontinuities in its drift, and corrects the session's code and
// phase observations in place. It never fails: unusable epochs degrade to
// extrapolated or zero clock values and unusable satellites are flagged in
// Result.Bad rather than reported as errors.
//
// When the largest clock error magnitude stays below CLK_CORRECTED_MAX the
// observations are taken as already clock-corrected by the data source and
// returned untouched.
func FixReceiverClock(ses *Session, nav *Nav, opt *ClkOpt) *Result {

	rslt := &Result{
		Bad: make([]bool, ses.NumSat()),
	}

	rslt.DtR, rslt.DtRdot = EstimateClock(ses, nav, opt)

	spikes := FindDriftSpikes(rslt.DtRdot)
	PrintD(1, "drift discontinuities: %d\n", len(spikes))
	RepairDriftSpikes(rslt.DtRdot, spikes)

	// Align the drift series 1:1 with epochs
	if n := len(rslt.DtRdot); n > 0 {
		rslt.DtRdot = append(rslt.DtRdot, rslt.DtRdot[n-1])
	}

	// Already clock-corrected at the source
	if len(rslt.DtR) == 0 || floats.Max(absSlice(rslt.DtR)) < CLK_CORRECTED_MAX {
		PrintD(1, "clock already corrected, max|dtR| < %.0e s\n", CLK_CORRECTED_MAX)
		return rslt
	}

	rslt.Jumps = ClassifyJumps(ses, spikes)
	PrintD(1, "jump flags: %+v\n", rslt.Jumps)

	CorrectObs(ses, rslt.DtR, rslt.Jumps, rslt.Bad)

	return rslt
}

func absSlice(s []float64) []float64 {
	a := make([]float64, len(s))
	for i, v := range s {
		if v < 0 {
			a[i] = -v
		} else {
			a[i] = v
		}
	}
	return a
}
