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

func jumpTestSession() *Session {
	times := []float64{testT0, testT0 + 30, testT0 + 60, testT0 + 90, testT0 + 120}
	return newTestSession(times, 2)
}

func TestClassifyJumpsCodeL1(t *testing.T) {
	ses := jumpTestSession()

	// Smooth code series with a clock jump between epochs 2 and 3, well
	// above JUMP_THRES (about 3e4 m)
	vals := []float64{2e7, 2e7 + 1, 2e7 + 2, 2e7 + 4e5, 2e7 + 4e5 + 1}
	for e, v := range vals {
		ses.Pr1.Set(0, e, v)
	}

	flags := ClassifyJumps(ses, []int{2})
	assert.True(t, flags.Pr1)
	assert.False(t, flags.Pr2)
	assert.False(t, flags.Cp1)
	assert.False(t, flags.Cp2)
}

func TestClassifyJumpsRequiresBothSamples(t *testing.T) {
	ses := jumpTestSession()

	// Huge step, but the second sample of the pair is missing
	ses.Pr1.Set(0, 2, 2e7)
	ses.Pr1.Set(0, 4, 2e7+4e5)

	flags := ClassifyJumps(ses, []int{2})
	assert.False(t, flags.Pr1)
}

func TestClassifyJumpsPhaseScaledByWavelength(t *testing.T) {
	ses := jumpTestSession()

	// Phase is compared in meters: 2e6 cycles * ~0.19 m well exceeds the
	// threshold, 1e3 cycles does not
	ses.Cp1.Set(0, 2, 1e8)
	ses.Cp1.Set(0, 3, 1e8+2e6)
	ses.Cp2.Set(0, 2, 1e8)
	ses.Cp2.Set(0, 3, 1e8+1e3)

	flags := ClassifyJumps(ses, []int{2})
	assert.True(t, flags.Cp1)
	assert.False(t, flags.Cp2)
}

func TestClassifyJumpsNoDiscontinuities(t *testing.T) {
	ses := jumpTestSession()
	ses.Pr1.Set(0, 0, 2e7)
	ses.Pr1.Set(0, 1, 2e7+4e5)

	flags := ClassifyJumps(ses, nil)
	assert.False(t, flags.Pr1 || flags.Pr2 || flags.Cp1 || flags.Cp2)
}

func TestClassifyJumpsLastEpochPair(t *testing.T) {
	ses := jumpTestSession()
	ses.Pr1.Set(0, 4, 2e7)

	// A discontinuity at the final transition has no following epoch
	flags := ClassifyJumps(ses, []int{4})
	assert.False(t, flags.Pr1)
}
