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
)

func TestFindDriftSpikes(t *testing.T) {
	dtRdot := make([]float64, 20)
	dtRdot[7] = 1e-4 // deviates from the mean by far more than the threshold

	spikes := FindDriftSpikes(dtRdot)
	assert.Equal(t, []int{7}, spikes)
}

func TestFindDriftSpikesNoneBelowThreshold(t *testing.T) {
	dtRdot := make([]float64, 20)
	for k := range dtRdot {
		dtRdot[k] = 1e-7 // constant series, zero deviation
	}
	assert.Empty(t, FindDriftSpikes(dtRdot))
	assert.Nil(t, FindDriftSpikes(nil))
}

// ramp returns 0,1,...,n-1 so window medians are easy to state exactly
func ramp(n int) []float64 {
	s := make([]float64, n)
	for k := range s {
		s[k] = float64(k)
	}
	return s
}

func TestRepairDriftSpikesWindows(t *testing.T) {
	cases := []struct {
		name string
		idx  int
		want float64
	}{
		{"boundary index 4 uses the first 10 samples", 4, 4.5},       // median(0..9)
		{"index 5 uses the centered window", 5, 5.5},                 // median(1..10)
		{"last centered index", 14, 14.5},                            // median(10..19)
		{"tail index uses the 10 samples before the last", 19, 13.5}, // median(9..18)
		{"first index", 0, 4.5},                                      // median(0..9)
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dtRdot := ramp(20)
			RepairDriftSpikes(dtRdot, []int{c.idx})
			assert.InDelta(t, c.want, dtRdot[c.idx], 1e-12)
		})
	}
}

func TestRepairDriftSpikesShortSeriesUntouched(t *testing.T) {
	// Shorter than the fixed windows: repair is a no-op, not a panic
	for _, n := range []int{1, 5, 10} {
		dtRdot := ramp(n)
		dtRdot[n/2] = 1e-4
		want := append([]float64(nil), dtRdot...)
		RepairDriftSpikes(dtRdot, []int{n / 2, n - 1})
		assert.Equal(t, want, dtRdot)
	}
}

func TestRepairDriftSpikesMinimumLength(t *testing.T) {
	// 11 samples is the shortest series every window fits in
	dtRdot := ramp(11)
	RepairDriftSpikes(dtRdot, []int{10})
	assert.InDelta(t, 4.5, dtRdot[10], 1e-12) // median(0..9)
}

func TestRepairDriftSpikesLeavesOthersUntouched(t *testing.T) {
	dtRdot := ramp(20)
	RepairDriftSpikes(dtRdot, []int{7})
	for k, v := range dtRdot {
		if k == 7 {
			continue
		}
		assert.Equal(t, float64(k), v)
	}
}

func TestMedian(t *testing.T) {
	// Even count averages the two middle samples
	assert.InDelta(t, 5.5, median([]float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}), 1e-12)
	// Odd count takes the middle sample
	assert.InDelta(t, 2, median([]float64{3, 1, 2}), 1e-12)
	// Input slice is not reordered
	s := []float64{3, 1, 2}
	median(s)
	assert.Equal(t, []float64{3, 1, 2}, s)
}
