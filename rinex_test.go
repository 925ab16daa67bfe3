// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.14
//

package goclk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testObsRnx = strings.Join([]string{
	"     3.04           OBSERVATION DATA    M (MIXED)           RINEX VERSION / TYPE",
	"G    4 C1C L1C C2W L2W                                      SYS / # / OBS TYPES",
	"R    2 C1C L1C                                              SYS / # / OBS TYPES",
	"                                                            END OF HEADER",
	"> 2023 01 01 00 00  0.0000000  0  2",
	"G01  20000000.000   105000000.000    20000000.120    81000000.500",
	"G02  21000000.000",
	"> 2023 01 01 00 00 30.0000000  0  1",
	"G01  20000030.000   105000150.000    20000030.120    81000120.500",
	"",
}, "\n")

func TestReadObs(t *testing.T) {
	obs, err := ReadObs(strings.NewReader(testObsRnx))
	require.NoError(t, err)
	require.Len(t, obs.DatE, 2)

	e0 := obs.DatE[0]
	assert.Equal(t, 2243, e0.Time.Week)
	assert.Equal(t, 0.0, e0.Time.Sec)
	require.Contains(t, e0.DatS, SatType("G01"))
	require.Contains(t, e0.DatS, SatType("G02"))

	g1 := e0.DatS["G01"]
	assert.Equal(t, 20000000.0, g1.Pr[0])
	assert.Equal(t, 105000000.0, g1.Cp[0])
	assert.Equal(t, 20000000.12, g1.Pr[1])
	assert.Equal(t, 81000000.5, g1.Cp[1])
	assert.Equal(t, 1.57542e9, g1.Freq[0])
	assert.Equal(t, 1.22760e9, g1.Freq[1])
	assert.Equal(t, CodeType("1C"), g1.Code[0])
	assert.Equal(t, CodeType("2W"), g1.Code[1])

	// Omitted fields stay unset
	g2 := e0.DatS["G02"]
	assert.Equal(t, 21000000.0, g2.Pr[0])
	assert.Zero(t, g2.Cp[0])
	assert.Zero(t, g2.Pr[1])

	// Epochs come out sorted by time
	e1 := obs.DatE[1]
	assert.Equal(t, 30.0, e1.Time.Sec)
	assert.Len(t, e1.DatS, 1)
}

func TestReadObsRejectsWrongVersionOrType(t *testing.T) {
	badVer := strings.Join([]string{
		"     2.11           OBSERVATION DATA    M (MIXED)           RINEX VERSION / TYPE",
		"                                                            END OF HEADER",
	}, "\n")
	_, err := ReadObs(strings.NewReader(badVer))
	assert.Error(t, err)

	navHeader := strings.Join([]string{
		"     3.04           N: GNSS NAV DATA    G: GPS              RINEX VERSION / TYPE",
		"                                                            END OF HEADER",
	}, "\n")
	_, err = ReadObs(strings.NewReader(navHeader))
	assert.Error(t, err)
}

var testNavRnx = strings.Join([]string{
	"     3.04           N: GNSS NAV DATA    G: GPS              RINEX VERSION / TYPE",
	"                                                            END OF HEADER",
	"G01 2023 01 01 00 00 00-1.234567890123D-04-2.000000000000D-12 0.000000000000D+00",
	"     4.800000000000D+01 0.000000000000D+00 4.200000000000D-09 1.000000000000D+00",
	"     0.000000000000D+00 1.000000000000D-02 0.000000000000D+00 5.153650000000D+03",
	"     0.000000000000D+00 0.000000000000D+00 0.000000000000D+00 0.000000000000D+00",
	"     9.600000000000D-01 0.000000000000D+00 0.000000000000D+00 0.000000000000D+00",
	"     0.000000000000D+00 0.000000000000D+00 2.243000000000D+03 0.000000000000D+00",
	"     2.000000000000D+00 0.000000000000D+00 0.000000000000D+00 4.800000000000D+01",
	"     0.000000000000D+00 4.000000000000D+00",
	"",
}, "\n")

func TestReadNav(t *testing.T) {
	nav, err := ReadNav(strings.NewReader(testNavRnx))
	require.NoError(t, err)
	require.Contains(t, *nav, SatType("G01"))
	require.Len(t, (*nav)["G01"], 1)

	e := (*nav)["G01"][0]
	assert.Equal(t, SatType("G01"), e.Sat)
	assert.Equal(t, 2243, e.Toc.Week)
	assert.Equal(t, 0.0, e.Toc.Sec)
	assert.InDelta(t, -1.234567890123e-4, e.Af0, 1e-18)
	assert.InDelta(t, -2e-12, e.Af1, 1e-24)
	assert.Equal(t, 48, e.Iode)
	assert.InDelta(t, 4.2e-9, e.DeltaN, 1e-20)
	assert.Equal(t, 0.01, e.Ecc)
	assert.Equal(t, 5153.65, e.SqrtA)
	assert.InDelta(t, 0.96, e.I0, 1e-12)
	assert.Equal(t, 2243, e.Week)
	assert.Equal(t, 2243, e.Toe.Week)
	assert.Equal(t, 0.0, e.Toe.Sec)
	assert.Equal(t, 0, e.Sva) // 2.0 m falls in the first URA bin
	assert.Equal(t, 0, e.Svh)
	assert.Equal(t, 48, e.Iodc)
	assert.Equal(t, 4.0, e.Fit)
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, -1.5e-9, parseFloat(" -1.500000000000D-09"))
	assert.Equal(t, 2.5e3, parseFloat(" 2.500000000000E+03"))
	assert.Zero(t, parseFloat("                   "))
}

func TestGetURAIndex(t *testing.T) {
	assert.Equal(t, 0, getURAIndex(2.0))
	assert.Equal(t, 1, getURAIndex(3.0))
	assert.Equal(t, 15, getURAIndex(0))
	assert.Equal(t, 15, getURAIndex(7000))
}

func TestGetSISAIndex(t *testing.T) {
	assert.Equal(t, 0, getSISAIndex(0))
	assert.Equal(t, 31, getSISAIndex(0.312))
	assert.Equal(t, 255, getSISAIndex(7.0))
}
