// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.9
//

package goclk

const (
	PI  = 3.1415926535897932  // Pi
	C   = 2.99792458e8        // Speed of light [m/s]
	Re  = 6378137.0           // Earth's radius [m]
	Fe  = 1.0 / 298.257223563 // Earth's flattening
	LS  = 18                  // Leap seconds
	L1  = 1575420000.0        // L1 frequency of G/J [Hz]
	L2  = 1227600000.0        // L2 frequency of G/J [Hz]
	B1  = 1561098000.0        // B1 frequency of Beidou [Hz]
	E1  = 1575420000.0        // E1 frequency of Galileo [Hz]
	G1  = 1602000000.0        // G1 frequency of Glonass
	G1d = 562500.0            // Frequency division step of Glonass G1 [Hz]
	G2  = 1246000000.0        // G2 frequency of Glonass
	G2d = 437500.0            // Frequency division step of Glonass G2 [Hz]
)

// Receiver clock repair thresholds
const (
	DRIFT_SPIKE_THRES = 1e-5          // Clock drift discontinuity threshold [s/s]
	JUMP_THRES        = 10 * 1e-5 * C // Observation jump threshold [m] (10x the drift threshold as a distance)
	CLK_CORRECTED_MAX = 1e-6          // Peak clock error below this means the receiver already steers its clock [s]
	MEDIAN_SPAN       = 10            // Window length of the drift despike median filter
)
