// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.12.13
//

// Classifies which observable types carry clock-induced jumps at the drift
// discontinuities.

package goclk

import "math"

// JumpFlags records, per observable type, whether the receiver ever shows a
// clock-uncorrected jump anywhere in the session. The flags are global for
// the whole correction pass, not per satellite.
type JumpFlags struct {
	Pr1, Pr2 bool // code L1/L2
	Cp1, Cp2 bool // carrier phase L1/L2
}

// All reports whether every flag is set
func (f JumpFlags) All() bool {
	return f.Pr1 && f.Pr2 && f.Cp1 && f.Cp2
}

// ClassifyJumps inspects each drift discontinuity index k and compares the
// raw samples at epochs (k, k+1) per satellite. A pair is only considered
// when both samples are present. Phase is compared in meters (cycles times
// wavelength) so all four observables share JUMP_THRES. Classification stops
// as soon as all four flags are set.
func ClassifyJumps(ses *Session, spikes []int) JumpFlags {
	var flags JumpFlags
	for _, k := range spikes {
		if k+1 >= ses.NumEpoch() {
			continue
		}
		for s := range ses.Sats {
			if flags.All() {
				return flags
			}
			if jumpAt(ses.Pr1, s, k, 1) {
				flags.Pr1 = true
			}
			if jumpAt(ses.Pr2, s, k, 1) {
				flags.Pr2 = true
			}
			if jumpAt(ses.Cp1, s, k, ses.Lam[s][0]) {
				flags.Cp1 = true
			}
			if jumpAt(ses.Cp2, s, k, ses.Lam[s][1]) {
				flags.Cp2 = true
			}
		}
	}
	return flags
}

// jumpAt reports whether the satellite's samples at epochs k and k+1 are both
// present and differ by more than JUMP_THRES after scaling to meters
func jumpAt(g *ObsGrid, s, k int, scale float64) bool {
	if !g.Has(s, k) || !g.Has(s, k+1) {
		return false
	}
	return math.Abs(g.At(s, k+1)-g.At(s, k))*scale > JUMP_THRES
}
