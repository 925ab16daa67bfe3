// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.16
//

package goclk

import (
	"fmt"
	"strings"
)

// Structure to store ephemeris (navigation data for one satellite, one issue)
type Ephe struct {

	// Common for G,J,E,C,R
	Sat  SatType
	Toc  GTime // Reference time for satellite clock error correction
	Toe  GTime // Reference time for satellite orbit calculation
	Tot  GTime // Transmission time
	Iode int

	// for GPS, QZSS, GALILEO, BEIDOU
	Af0    float64
	Af1    float64
	Af2    float64
	Crs    float64
	DeltaN float64
	M0     float64
	Cuc    float64
	Ecc    float64
	Cus    float64
	SqrtA  float64
	Cic    float64
	Omega0 float64
	Cis    float64
	I0     float64
	Crc    float64
	Omega  float64
	OmegaD float64
	Idot   float64
	Code   int
	Week   int
	Flag   int
	Sva    int
	Svh    int
	Tgd    float64 // GPS, QZS, GAL(E5a/E1), BDS(B1/B3)
	Tgd2   float64 // GAL(E5b/E1), BDS(B2/B3) // Galileo and Beidou have two group delay parameters
	Iodc   int     // GPS, QZS, BDS
	Fit    float64 // GPS, QZS

	// for GLONASS
	TauN   float64
	GammaN float64
	PosX   float64
	VecX   float64
	AccX   float64
	PosY   float64
	VecY   float64
	AccY   float64
	FreqN  int
	PosZ   float64
	VecZ   float64
	AccZ   float64
	Age    int

	// for SBAS
	Gf0  float64
	Gf1  float64
	Iodn int
}

// Structure to store navigation data for each satellite at each time
// - Map with satellite name as Key and slice sorted by transmission time (Tot) in ascending order as Value
type Nav map[SatType][]*Ephe

// Function to select ephemeris by specifying satellite and time: for GPS, QZSS, GLONASS, BEIDOU
// Selects the ephemeris closest to ToE including future, where the difference
// between the specified time and ToE is within the per-system limit (RTKLIB method)
func (nav *Nav) GetEphe(sat SatType, gt GTime) (*Ephe, error) {
	var diffMax float64
	switch sat.Sys() {
	case 'E':
		diffMax = 14400 // Following RTKLIB's MAXDTOE_GAL
	case 'C':
		diffMax = 21601 // Following RTKLIB's MAXDTOE_CMP
	default:
		diffMax = 7201
	}
	dt := gt.ToTime()
	j := -1
	if navs, ok := (*nav)[sat]; ok {
		for i, eph := range navs {
			// For GALILEO, future ToE is not allowed (RTKLIB does this)
			if sat.Sys() == 'E' && eph.Toe.ToTime().Sub(dt).Seconds() >= 0 {
				continue
			}
			diff := eph.Toe.ToTime().Sub(dt).Abs().Seconds()
			if diff < diffMax {
				diffMax = diff
				j = i
			}
		}
		if j >= 0 {
			return (*nav)[sat][j], nil
		} else {
			return nil, fmt.Errorf("can't find a valid ephemeris for %s", sat)
		}
	}
	return nil, fmt.Errorf("can't find %s", sat)
}

// Display navigation data overview
func (p *Nav) String() string {
	keys := []SatType{}
	for k := range *p {
		keys = append(keys, k)
	}
	keys = Sorted(keys)
	var sb strings.Builder
	sb.WriteString("toc:\n")
	for _, sat := range keys {
		sb.WriteString(fmt.Sprintf("\t%s: ", sat))
		if len((*p)[sat]) > 0 {
			st := (*p)[sat][0].Toc
			et := (*p)[sat][len((*p)[sat])-1].Toc
			sb.WriteString(fmt.Sprintf("%s - %s (%d)\n",
				st.ToTime().UTC().Format("2006/01/02 15:04:05.000"), et.ToTime().UTC().Format("2006/01/02 15:04:05.000"), len((*p)[sat])))
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
