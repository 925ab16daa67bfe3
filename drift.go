// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.13
//

// Detects and repairs discontinuities in the clock drift series with a
// positional median despike filter.

package goclk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FindDriftSpikes returns the indices whose drift deviates from the series
// mean by more than DRIFT_SPIKE_THRES
func FindDriftSpikes(dtRdot []float64) []int {
	if len(dtRdot) == 0 {
		return nil
	}
	mean := stat.Mean(dtRdot, nil)
	spikes := []int{}
	for k, v := range dtRdot {
		if math.Abs(v-mean) > DRIFT_SPIKE_THRES {
			spikes = append(spikes, k)
		}
	}
	return spikes
}

// RepairDriftSpikes replaces each flagged drift sample with a local median.
// The window is fixed by position, never clamped:
//   - index < 5: median of the first 10 samples
//   - 5 <= index <= n-6: median of the 10 samples from 4 before to 5 after
//   - index > n-6: median of the 10 samples before the final one
//
// dtRdot is modified in place. A series too short for the fixed windows is
// left untouched.
func RepairDriftSpikes(dtRdot []float64, spikes []int) {
	n := len(dtRdot)
	if n < MEDIAN_SPAN+1 {
		return
	}
	for _, idx := range spikes {
		switch {
		case idx < 5:
			dtRdot[idx] = median(dtRdot[0:MEDIAN_SPAN])
		case idx <= n-6:
			dtRdot[idx] = median(dtRdot[idx-4 : idx+6])
		default:
			dtRdot[idx] = median(dtRdot[n-11 : n-1])
		}
	}
}

// median returns the sample median, averaging the two middle values for an
// even count. s is not modified.
func median(s []float64) float64 {
	tmp := make([]float64, len(s))
	copy(tmp, s)
	sort.Float64s(tmp)
	return stat.Quantile(0.5, stat.LinInterp, tmp, nil)
}
