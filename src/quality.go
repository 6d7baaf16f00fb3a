package radioclock

import "math"

/*------------------------------------------------------------------
 *
 * Purpose: Shared SNR-like "quality factor" used by the Hamming bin
 *          voter (4.1), the phase demodulator (4.2) and the second-index
 *          lock decision (4.4): (max - noise_max) / log2(max + 3),
 *          saturating to a byte.
 *
 *------------------------------------------------------------------*/

// qualityFactor computes (max-noiseMax)/log2(max+3), clamped to [0,255].
// max and noiseMax are passed as float64 so the same helper serves the
// byte-valued Hamming bins and the larger phase-bin integrals.
func qualityFactor(max, noiseMax float64) byte {
	if max <= noiseMax {
		return 0
	}
	denom := math.Log2(max + 3)
	if denom <= 0 {
		return 0
	}
	q := (max - noiseMax) / denom
	if q > 255 {
		return 255
	}
	if q < 0 {
		return 0
	}
	return byte(q)
}
