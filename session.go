// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.7
//

package goclk

import "math"

// ObsGrid is a satellite slot x epoch grid of one observable.
// Presence is tracked explicitly per sample: a sample written through Set
// exists, everything else does not. Consumers must check Has before reading,
// never compare the value against zero.
type ObsGrid struct {
	val [][]float64
	ok  [][]bool
}

func NewObsGrid(nSat, nEpoch int) *ObsGrid {
	g := &ObsGrid{
		val: make([][]float64, nSat),
		ok:  make([][]bool, nSat),
	}
	for s := range g.val {
		g.val[s] = make([]float64, nEpoch)
		g.ok[s] = make([]bool, nEpoch)
	}
	return g
}

// Set writes a sample and marks it present
func (g *ObsGrid) Set(s, e int, v float64) {
	g.val[s][e] = v
	g.ok[s][e] = true
}

func (g *ObsGrid) At(s, e int) float64 {
	return g.val[s][e]
}

func (g *ObsGrid) Has(s, e int) bool {
	return g.ok[s][e]
}

// Epochs returns the epoch indices where the satellite has a sample
func (g *ObsGrid) Epochs(s int) []int {
	idx := make([]int, 0, len(g.ok[s]))
	for e, ok := range g.ok[s] {
		if ok {
			idx = append(idx, e)
		}
	}
	return idx
}

// NumSat returns the number of satellite slots
func (g *ObsGrid) NumSat() int {
	return len(g.val)
}

// Session holds a whole observation session as satellite x epoch grids,
// together with the nominal and reference time axes the clock repair works
// on. Times are continuous GPS seconds (see GTime.TotalSec); a zero nominal
// time marks an epoch without a usable time tag.
type Session struct {
	Time    []float64 // Nominal receiver time per epoch [s]
	TimeRef []float64 // Reference (GPS) time per epoch [s]

	Pr1, Pr2 *ObsGrid // Pseudorange L1/L2 [m]
	Cp1, Cp2 *ObsGrid // Carrier phase L1/L2 [cycle]
	Dp1, Dp2 *ObsGrid // Doppler L1/L2 [Hz]
	Sn1      *ObsGrid // Signal strength L1 [dB]

	Lam  [][2]float64    // Carrier wavelength L1/L2 per satellite slot [m]
	Sats []SatType       // Slot number -> satellite name ("" for unused slots)
	Slot map[SatType]int // Satellite name -> slot number
}

// Number of epochs in the session
func (p *Session) NumEpoch() int {
	return len(p.Time)
}

// Number of satellite slots
func (p *Session) NumSat() int {
	return len(p.Sats)
}

// Epoch nominal time as GTime
func (p *Session) GTimeAt(i int) GTime {
	return *NewGTimeSec(p.Time[i])
}

// NewSession rearranges decoded epoch records into session grids.
// maxSat fixes the slot table size; it is grown if the data holds more
// satellites. nav is used for GLONASS FDMA channel frequencies and may be
// nil.
func NewSession(obs *Obs, nav *Nav, maxSat int) *Session {
	ne := len(obs.DatE)

	// Assign slots in satellite order
	seen := map[SatType]bool{}
	for _, obse := range obs.DatE {
		for sat := range obse.DatS {
			seen[sat] = true
		}
	}
	list := make([]SatType, 0, len(seen))
	for sat := range seen {
		list = append(list, sat)
	}
	list = Sorted(list)
	if maxSat < len(list) {
		maxSat = len(list)
	}

	ses := &Session{
		Time:    make([]float64, ne),
		TimeRef: make([]float64, ne),
		Pr1:     NewObsGrid(maxSat, ne),
		Pr2:     NewObsGrid(maxSat, ne),
		Cp1:     NewObsGrid(maxSat, ne),
		Cp2:     NewObsGrid(maxSat, ne),
		Dp1:     NewObsGrid(maxSat, ne),
		Dp2:     NewObsGrid(maxSat, ne),
		Sn1:     NewObsGrid(maxSat, ne),
		Lam:     make([][2]float64, maxSat),
		Sats:    make([]SatType, maxSat),
		Slot:    make(map[SatType]int, len(list)),
	}
	for s, sat := range list {
		ses.Sats[s] = sat
		ses.Slot[sat] = s
	}

	// Fill the grids. The RINEX reader leaves missing values at zero, so
	// zero is translated to absence here, at the boundary.
	for i, obse := range obs.DatE {
		t := obse.Time.TotalSec()
		ses.Time[i] = t
		ses.TimeRef[i] = t
		for sat, obss := range obse.DatS {
			s := ses.Slot[sat]
			setIf(ses.Pr1, s, i, obss.Pr[0])
			setIf(ses.Pr2, s, i, obss.Pr[1])
			setIf(ses.Cp1, s, i, obss.Cp[0])
			setIf(ses.Cp2, s, i, obss.Cp[1])
			setIf(ses.Dp1, s, i, obss.Dp[0])
			setIf(ses.Dp2, s, i, obss.Dp[1])
			setIf(ses.Sn1, s, i, obss.Sn[0])
			for f := 0; f < NFREQ; f++ {
				if ses.Lam[s][f] == 0 && obss.Freq[f] > 0 {
					ses.Lam[s][f] = C / obss.Freq[f]
				}
			}
		}
	}

	// GLONASS FDMA channels shift the nominal carrier frequency
	if nav != nil {
		for s, sat := range ses.Sats {
			if sat == "" || sat.Sys() != 'R' {
				continue
			}
			ephs, ok := (*nav)[sat]
			if !ok || len(ephs) == 0 {
				continue
			}
			fn := float64(ephs[0].FreqN)
			for f := 0; f < NFREQ; f++ {
				if ses.Lam[s][f] == 0 {
					continue
				}
				freq := C / ses.Lam[s][f]
				switch {
				case math.Abs(freq-G1) < 1:
					ses.Lam[s][f] = C / (G1 + G1d*fn)
				case math.Abs(freq-G2) < 1:
					ses.Lam[s][f] = C / (G2 + G2d*fn)
				}
			}
		}
	}

	return ses
}

func setIf(g *ObsGrid, s, e int, v float64) {
	if v != 0 {
		g.Set(s, e, v)
	}
}

// EpochObs rebuilds a single epoch record from the session grids, in the
// form the epoch position solver consumes
func (p *Session) EpochObs(i int) *ObsE {
	obse := &ObsE{
		Time: p.GTimeAt(i),
		DatS: map[SatType]*ObsS{},
	}
	for s, sat := range p.Sats {
		if sat == "" || !p.Pr1.Has(s, i) {
			continue
		}
		obss := NewObsS()
		obss.Pr[0] = p.Pr1.At(s, i)
		obss.Cp[0] = gridAt(p.Cp1, s, i)
		obss.Dp[0] = gridAt(p.Dp1, s, i)
		obss.Sn[0] = gridAt(p.Sn1, s, i)
		obss.Pr[1] = gridAt(p.Pr2, s, i)
		obss.Cp[1] = gridAt(p.Cp2, s, i)
		obss.Dp[1] = gridAt(p.Dp2, s, i)
		for f := 0; f < NFREQ; f++ {
			if p.Lam[s][f] > 0 {
				obss.Freq[f] = C / p.Lam[s][f]
			}
		}
		obse.DatS[sat] = obss
	}
	return obse
}

func gridAt(g *ObsGrid, s, e int) float64 {
	if g.Has(s, e) {
		return g.At(s, e)
	}
	return 0
}
