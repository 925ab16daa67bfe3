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

func sessionTestObs() *Obs {
	s1 := NewObsS()
	s1.Pr[0] = 2e7
	s1.Cp[0] = 1e8
	s1.Freq[0] = L1
	s1.Pr[1] = 2.1e7
	s1.Freq[1] = L2

	s2 := NewObsS()
	s2.Pr[0] = 2.2e7
	s2.Freq[0] = G1

	s3 := NewObsS()
	s3.Pr[0] = 2e7 + 30
	s3.Cp[0] = 1e8 + 150
	s3.Freq[0] = L1

	return &Obs{
		DatE: []*ObsE{
			{Time: *NewGTimeSec(testT0), DatS: map[SatType]*ObsS{"G05": s1, "R03": s2}},
			{Time: *NewGTimeSec(testT0 + 30), DatS: map[SatType]*ObsS{"G05": s3}},
		},
	}
}

func TestNewSessionGrids(t *testing.T) {
	ses := NewSession(sessionTestObs(), nil, 0)

	require.Equal(t, 2, ses.NumEpoch())
	require.Equal(t, 2, ses.NumSat())
	assert.Equal(t, []float64{testT0, testT0 + 30}, ses.Time)
	assert.Equal(t, ses.Time, ses.TimeRef)

	// Slots are assigned in sorted satellite order
	g := ses.Slot["G05"]
	r := ses.Slot["R03"]
	assert.Equal(t, SatType("G05"), ses.Sats[g])
	assert.Equal(t, SatType("R03"), ses.Sats[r])

	assert.True(t, ses.Pr1.Has(g, 0))
	assert.Equal(t, 2e7, ses.Pr1.At(g, 0))
	assert.True(t, ses.Cp1.Has(g, 0))
	assert.True(t, ses.Pr2.Has(g, 0))

	// A zero decoded value means the sample does not exist
	assert.False(t, ses.Cp2.Has(g, 0))
	assert.False(t, ses.Cp1.Has(r, 0))
	assert.False(t, ses.Pr1.Has(r, 1))

	// Wavelengths follow the first seen carrier frequency
	assert.InDelta(t, C/L1, ses.Lam[g][0], 1e-12)
	assert.InDelta(t, C/L2, ses.Lam[g][1], 1e-12)
	assert.InDelta(t, C/G1, ses.Lam[r][0], 1e-12)
}

func TestNewSessionGlonassChannelShift(t *testing.T) {
	nav := &Nav{
		"R03": {{Sat: "R03", FreqN: -4, Toe: *NewGTimeSec(testT0)}},
	}
	ses := NewSession(sessionTestObs(), nav, 0)

	r := ses.Slot["R03"]
	assert.InDelta(t, C/(G1+G1d*(-4)), ses.Lam[r][0], 1e-12)
}

func TestSessionEpochObs(t *testing.T) {
	ses := NewSession(sessionTestObs(), nil, 0)

	obse := ses.EpochObs(0)
	assert.Equal(t, testT0, obse.Time.TotalSec())
	require.Contains(t, obse.DatS, SatType("G05"))
	require.Contains(t, obse.DatS, SatType("R03"))
	assert.Equal(t, 2e7, obse.DatS["G05"].Pr[0])
	assert.Equal(t, 1e8, obse.DatS["G05"].Cp[0])
	assert.InDelta(t, L1, obse.DatS["G05"].Freq[0], 1)

	// Only satellites with a code-L1 sample appear
	obse = ses.EpochObs(1)
	assert.NotContains(t, obse.DatS, SatType("R03"))
	require.Contains(t, obse.DatS, SatType("G05"))
}

func TestSessionGrowsSlotTable(t *testing.T) {
	ses := NewSession(sessionTestObs(), nil, 8)
	assert.Equal(t, 8, ses.NumSat())
	assert.True(t, ses.Pr1.Has(ses.Slot["G05"], 0))
}
