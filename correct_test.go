// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.14
//

package goclk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillLinear fills all four code/phase grids of slot s with series linear in
// the nominal time so spline resampling has an exact expected value
func fillLinear(ses *Session, s int) {
	for e, tm := range ses.Time {
		dt := tm - testT0
		ses.Pr1.Set(s, e, 2.0e7+1000*dt)
		ses.Pr2.Set(s, e, 2.1e7+1000*dt)
		ses.Cp1.Set(s, e, 1.0e8+5000*dt)
		ses.Cp2.Set(s, e, 0.8e8+4000*dt)
	}
}

func correctTestSession(nSat int) *Session {
	times := []float64{testT0, testT0 + 30, testT0 + 60, testT0 + 90, testT0 + 120}
	return newTestSession(times, nSat)
}

func TestCorrectObsTimeRefRealignment(t *testing.T) {
	ses := correctTestSession(1)
	for i := range ses.TimeRef {
		ses.TimeRef[i] = ses.Time[i] + 0.25 // pre-existing desync
	}
	ses.Time[2] = 0 // epoch without a usable time tag

	dtR := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	for i := range ses.Time {
		if i == 2 {
			continue
		}
		assert.InDelta(t, ses.Time[i]+1e-3+0.25, ses.TimeRef[i], 1e-9)
	}
	// The tagless epoch keeps its old reference time
	assert.InDelta(t, testT0+60+0.25, ses.TimeRef[2], 1e-9)
}

func TestCorrectObsNoClockErrorRoundTrip(t *testing.T) {
	ses := correctTestSession(1)
	fillLinear(ses, 0)
	orig := snapshotGrid(ses.Pr1, 0, ses.NumEpoch())

	dtR := make([]float64, 5)
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	// Zero clock error leaves the reference axis on the sample nodes, so the
	// spline returns the samples themselves
	for e, v := range orig {
		assert.InDelta(t, v, ses.Pr1.At(0, e), 1e-6)
	}
	assert.False(t, bad[0])
}

func TestCorrectObsResamplesOntoReferenceAxis(t *testing.T) {
	ses := correctTestSession(1)
	fillLinear(ses, 0)

	d := 1e-3
	dtR := []float64{d, d, d, d, d}
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	// No jump flags: resampling only. The series are linear, so inside the
	// fitted range the value at the shifted time is the slope times the
	// shift. The last epoch's reference time falls past the range and is
	// left to the spline's extrapolation rule.
	for e := 0; e < ses.NumEpoch()-1; e++ {
		dt := ses.Time[e] - testT0
		assert.InDelta(t, 2.0e7+1000*(dt+d), ses.Pr1.At(0, e), 1e-5)
		assert.InDelta(t, 1.0e8+5000*(dt+d), ses.Cp1.At(0, e), 1e-5)
	}
	assert.False(t, bad[0])
}

func TestCorrectObsJumpOffsetSubtraction(t *testing.T) {
	ses := correctTestSession(1)
	fillLinear(ses, 0)

	d := 1e-3
	dtR := []float64{d, d, d, d, d}
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{Pr1: true, Cp1: true}, bad)

	lam := ses.Lam[0][0]
	for e := 0; e < ses.NumEpoch()-1; e++ {
		dt := ses.Time[e] - testT0
		// Code loses c*dtR meters, phase c*dtR/lambda cycles, then both are
		// resampled like the unflagged series
		assert.InDelta(t, 2.0e7+1000*(dt+d)-C*d, ses.Pr1.At(0, e), 1e-5)
		assert.InDelta(t, 1.0e8+5000*(dt+d)-C*d/lam, ses.Cp1.At(0, e), 1e-4)
		// Unflagged observables are only resampled
		assert.InDelta(t, 2.1e7+1000*(dt+d), ses.Pr2.At(0, e), 1e-5)
	}
}

func TestCorrectObsSingleSampleMarksBad(t *testing.T) {
	ses := correctTestSession(2)
	fillLinear(ses, 0)

	// Slot 1 has a single code sample and nothing else
	ses.Pr1.Set(1, 2, 2e7)

	dtR := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	bad := make([]bool, 2)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	assert.True(t, bad[1])
	assert.False(t, bad[0])
	// The unusable series stays untouched
	assert.Equal(t, 2e7, ses.Pr1.At(1, 2))
}

func TestCorrectObsSingleFrequencySatelliteNotBad(t *testing.T) {
	// Full code and phase on L1, nothing at all on L2
	ses := correctTestSession(1)
	for e, tm := range ses.Time {
		dt := tm - testT0
		ses.Pr1.Set(0, e, 2.0e7+1000*dt)
		ses.Cp1.Set(0, e, 1.0e8+5000*dt)
	}

	dtR := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	// A band the satellite never transmits is not missing data
	assert.False(t, bad[0])
	for e := 0; e < ses.NumEpoch()-1; e++ {
		dt := ses.Time[e] - testT0
		assert.InDelta(t, 2.0e7+1000*(dt+1e-3), ses.Pr1.At(0, e), 1e-5)
	}
}

func TestCorrectObsUnobservedSlotNotBad(t *testing.T) {
	ses := correctTestSession(3)
	fillLinear(ses, 0)

	// Slots 1 and 2 never observe anything
	dtR := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	bad := make([]bool, 3)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	assert.False(t, bad[0])
	assert.False(t, bad[1])
	assert.False(t, bad[2])
}

func TestCorrectObsCodeWithoutPhaseMarksBad(t *testing.T) {
	ses := correctTestSession(1)
	for e, tm := range ses.Time {
		dt := tm - testT0
		ses.Pr1.Set(0, e, 2.0e7+1000*dt)
		ses.Pr2.Set(0, e, 2.1e7+1000*dt)
		ses.Cp2.Set(0, e, 0.8e8+4000*dt)
	}

	dtR := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	bad := make([]bool, 1)
	CorrectObs(ses, dtR, JumpFlags{}, bad)

	// Code-L1 without any phase-L1 is unusable downstream
	assert.True(t, bad[0])
}

func snapshotGrid(g *ObsGrid, s, ne int) []float64 {
	v := make([]float64, ne)
	for e := 0; e < ne; e++ {
		if g.Has(s, e) {
			v[e] = g.At(s, e)
		}
	}
	return v
}

func TestFixReceiverClockEarlyExit(t *testing.T) {
	ses := correctTestSession(4)
	for s := range ses.Sats {
		fillLinear(ses, s)
	}
	nav := testNav(ses, testT0)
	orig := snapshotGrid(ses.Pr1, 0, ses.NumEpoch())

	opt := NewClkOpt()
	opt.Solver = stubSolver(t, func(sec float64) (float64, bool) {
		return 1e-8, true // already corrected at the source
	})

	rslt := FixReceiverClock(ses, nav, opt)

	require.Len(t, rslt.DtR, 5)
	assert.Len(t, rslt.DtRdot, 5) // extended to one per epoch
	assert.Equal(t, rslt.DtRdot[3], rslt.DtRdot[4])

	// The observations must not be mutated at all
	for e, v := range orig {
		assert.Equal(t, v, ses.Pr1.At(0, e))
	}
	for _, b := range rslt.Bad {
		assert.False(t, b)
	}
}

func TestFixReceiverClockCorrectsObservations(t *testing.T) {
	ses := correctTestSession(4)
	for s := range ses.Sats {
		fillLinear(ses, s)
	}
	nav := testNav(ses, testT0)

	d := 1e-3
	opt := NewClkOpt()
	opt.Solver = stubSolver(t, func(sec float64) (float64, bool) {
		return d, true // constant clock error, no drift, no jumps
	})

	rslt := FixReceiverClock(ses, nav, opt)

	require.Len(t, rslt.DtR, 5)
	for _, v := range rslt.DtR {
		assert.InDelta(t, d, v, 1e-12)
	}
	assert.False(t, rslt.Jumps.Pr1 || rslt.Jumps.Pr2 || rslt.Jumps.Cp1 || rslt.Jumps.Cp2)

	// A constant clock error still shifts the sampling instants
	for e := 0; e < ses.NumEpoch()-1; e++ {
		dt := ses.Time[e] - testT0
		assert.InDelta(t, 2.0e7+1000*(dt+d), ses.Pr1.At(0, e), 1e-5)
	}
	for _, b := range rslt.Bad {
		assert.False(t, b)
	}
}
