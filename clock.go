// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.13
//

// Estimates the receiver clock error and clock drift series over a whole
// observation session, one SPP solve per epoch with a deterministic
// extrapolation fallback when an epoch cannot be solved.

package goclk

import (
	"golang.org/x/exp/slices"
)

// SolveFunc is the per-epoch position/clock solver. CalcSpp satisfies it;
// tests substitute their own.
type SolveFunc func(obse *ObsE, nav *Nav, opt *SppOpt) (*SppSol, error)

// ClkOpt contains options for the receiver clock repair
type ClkOpt struct {
	Spp    *SppOpt   // Options passed to the per-epoch solver
	Solver SolveFunc // Per-epoch solver. nil means CalcSpp
}

// NewClkOpt creates a new ClkOpt with default values
func NewClkOpt() *ClkOpt {
	return &ClkOpt{
		Spp:    NewSppOpt(),
		Solver: nil,
	}
}

// Minimum usable satellites on top of the per-system clock bias unknowns
const MIN_SAT_BASE = 3

// EstimateClock estimates the receiver clock error dtR [s] per epoch and the
// clock drift dtRdot [s/s] per epoch transition (length NumEpoch()-1).
//
// Each epoch is solved independently by the configured solver. An epoch whose
// visible or usable satellite count falls below 3 plus the number of active
// constellation systems, or whose solve fails, never raises an error: for
// i > 2 the clock error is linearly extrapolated from the two previous
// epochs, for i <= 2 it stays at zero. The drift at a transition is the
// finite difference of the clock errors over the nominal time step; it is
// only written when the later endpoint is a solved or extrapolated value and,
// in the solved branch, when both endpoints are nonzero. Transitions into a
// zero placeholder stay at zero.
func EstimateClock(ses *Session, nav *Nav, opt *ClkOpt) (dtR, dtRdot []float64) {

	ne := ses.NumEpoch()
	dtR = make([]float64, ne)
	if ne > 1 {
		dtRdot = make([]float64, ne-1)
	}

	solver := opt.Solver
	if solver == nil {
		solver = CalcSpp
	}

	for i := 0; i < ne; i++ {

		PrintD(2, "EPOCH %d / %d\n", i+1, ne)

		obse := ses.EpochObs(i) // satellites with a code-L1 sample at this epoch

		// Visible satellites: enabled system, code-L1 present and an
		// ephemeris valid at the nominal epoch time. Disabled systems must
		// not count toward the threshold either.
		vis := make([]SatType, 0, len(obse.DatS))
		for sat := range obse.DatS {
			if len(opt.Spp.Sys) > 0 && !slices.Contains(opt.Spp.Sys, sat.Sys()) {
				continue
			}
			if slices.Contains(opt.Spp.ExSats, sat) {
				continue
			}
			if _, err := nav.GetEphe(sat, obse.Time); err == nil {
				vis = append(vis, sat)
			}
		}
		minSat := MIN_SAT_BASE + countClockBiasParameters(countSatellitesBySystem(vis, nil))

		solved := false
		if len(vis) >= minSat {
			sol, err := solver(obse, nav, opt.Spp)
			if err != nil {
				PrintD(2, "\tsolver failed: %v\n", err)
			} else if len(sol.Clk) > 0 && len(sol.Sats) >= minSat {
				dtR[i] = sol.Clk[0] / C
				solved = true
				if i > 1 && dtR[i] != 0 && dtR[i-1] != 0 {
					dtRdot[i-1] = (dtR[i] - dtR[i-1]) / (ses.Time[i] - ses.Time[i-1])
				}
			} else {
				PrintD(2, "\tusable satellites: %d < %d\n", len(sol.Sats), minSat)
			}
		} else {
			PrintD(2, "\tvisible satellites: %d < %d\n", len(vis), minSat)
		}

		if !solved {
			if i > 2 {
				dtR[i] = 2*dtR[i-1] - dtR[i-2]
				dtRdot[i-1] = (dtR[i] - dtR[i-1]) / (ses.Time[i] - ses.Time[i-1])
			}
		}

		PrintD(3, "\tdtR[%d]= %.9e\n", i, dtR[i])

	}

	return dtR, dtRdot
}
