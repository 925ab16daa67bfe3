// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.14
//

package goclk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Roughly realistic GPS ephemeris: semi-major axis 26560 km, small
// eccentricity, perturbation terms zeroed
func gpsTestEphe() *Ephe {
	return &Ephe{
		Sat:   "G01",
		Toe:   *NewGTimeSec(testT0),
		Toc:   *NewGTimeSec(testT0),
		SqrtA: 5153.65,
		Ecc:   0.01,
		M0:    1.0,
		I0:    0.96,
		Af0:   1e-4,
	}
}

func TestSatPosKeplerianRadius(t *testing.T) {
	eph := gpsTestEphe()
	pos := SatPos(eph, *NewGTimeSec(testT0 + 60), 2.2e7)

	// The orbit radius stays within a(1-e) .. a(1+e)
	a := eph.SqrtA * eph.SqrtA
	r := math.Sqrt(SQ(pos.X) + SQ(pos.Y) + SQ(pos.Z))
	assert.Greater(t, r, a*(1-eph.Ecc))
	assert.Less(t, r, a*(1+eph.Ecc))
}

func TestSatClkDominatedByAf0(t *testing.T) {
	eph := gpsTestEphe()
	dts := satClk(eph, *NewGTimeSec(testT0 + 60), 2.2e7)

	// Relativistic and polynomial terms are micro-scale against af0
	assert.InDelta(t, 1e-4, dts, 1e-6)
}

func TestSatClkGlonass(t *testing.T) {
	eph := &Ephe{
		Sat:    "R01",
		Toe:    *NewGTimeSec(testT0),
		TauN:   -5e-5,
		GammaN: 1e-12,
	}
	dts := satClk(eph, *NewGTimeSec(testT0 + 60), 2.0e7)
	assert.InDelta(t, 5e-5, dts, 1e-9)
}
