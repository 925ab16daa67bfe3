// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.13
//

// Applies the repaired receiver clock error to the raw observations: removes
// the clock-induced offset from jumping observable types and resamples every
// series onto the realigned reference time axis.

package goclk

import (
	"gonum.org/v1/gonum/interp"
)

// CorrectObs corrects the session's code and phase grids in place using the
// clock error series dtR and the session-wide jump flags, and returns the
// bad-satellite vector (length NumSat()).
//
// The reference time axis is realigned first: for every epoch with a nonzero
// nominal time, TimeRef[i] = Time[i] + dtR[i] + desync[i], where desync is
// the reference-minus-nominal offset captured before the realignment.
//
// Each satellite/observable series is then handled independently over index,
// the epochs where both the nominal time and the sample are present:
//   - an observable the satellite never carries is skipped outright
//   - one or zero usable samples of a carried observable marks the satellite
//     bad, series untouched
//   - if the observable's jump flag is set, the clock offset is subtracted
//     at every index (code in meters, phase in cycles)
//   - the series is resampled by cubic spline from Time[index] onto
//     TimeRef[index], overwriting the samples at those indices
//
// A satellite with code but no phase on a frequency is marked bad: code
// without phase is unusable downstream.
func CorrectObs(ses *Session, dtR []float64, flags JumpFlags, bad []bool) {

	ne := ses.NumEpoch()

	// Desync between the reference and nominal axes, captured before the
	// realignment below overwrites TimeRef
	desync := make([]float64, ne)
	for i := 0; i < ne; i++ {
		desync[i] = ses.TimeRef[i] - ses.Time[i]
	}
	for i := 0; i < ne; i++ {
		if ses.Time[i] != 0 {
			ses.TimeRef[i] = ses.Time[i] + dtR[i] + desync[i]
		}
	}

	valid := make([]bool, ne)
	for i := 0; i < ne; i++ {
		valid[i] = ses.Time[i] != 0
	}

	for s := range ses.Sats {
		correctSeries(ses, s, ses.Pr1, dtR, flags.Pr1, 0, valid, bad)
		correctSeries(ses, s, ses.Pr2, dtR, flags.Pr2, 0, valid, bad)
		correctSeries(ses, s, ses.Cp1, dtR, flags.Cp1, ses.Lam[s][0], valid, bad)
		correctSeries(ses, s, ses.Cp2, dtR, flags.Cp2, ses.Lam[s][1], valid, bad)

		// Code without phase, per frequency
		if len(ses.Pr1.Epochs(s)) > 0 && len(ses.Cp1.Epochs(s)) == 0 {
			bad[s] = true
		}
		if len(ses.Pr2.Epochs(s)) > 0 && len(ses.Cp2.Epochs(s)) == 0 {
			bad[s] = true
		}
	}
}

// correctSeries corrects one satellite/observable series in place.
// lam > 0 marks a carrier phase series in cycles; lam == 0 a code series in
// meters.
func correctSeries(ses *Session, s int, g *ObsGrid, dtR []float64, jump bool, lam float64, valid []bool, bad []bool) {

	// Nothing to correct if the satellite never carries this observable.
	// Single-frequency satellites and unused slots are not bad for lacking
	// a series they were never expected to have.
	present := g.Epochs(s)
	if len(present) == 0 {
		return
	}

	// Epochs with both a usable time tag and a sample
	index := []int{}
	for _, e := range present {
		if valid[e] {
			index = append(index, e)
		}
	}

	if len(index) <= 1 {
		bad[s] = true
		return
	}

	// Remove the clock-induced offset if this observable type jumps
	if jump {
		for _, e := range index {
			off := C * dtR[e]
			if lam > 0 {
				off /= lam
			}
			g.Set(s, e, g.At(s, e)-off)
		}
	}

	// Resample from the nominal onto the reference time axis
	xs := make([]float64, len(index))
	ys := make([]float64, len(index))
	for j, e := range index {
		xs[j] = ses.Time[e]
		ys[j] = g.At(s, e)
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		PrintD(2, "\t%s: spline fit failed: %v\n", ses.Sats[s], err)
		bad[s] = true
		return
	}
	for _, e := range index {
		g.Set(s, e, spline.Predict(ses.TimeRef[e]))
	}
}
