package radioclock

import "math/bits"

/*------------------------------------------------------------------
 *
 * Purpose: Generic Hamming-weighted bin voter (spec.md 4.1). Used by
 *          every field decoder (minute, hour, day, weekday, month,
 *          year, decade) and, in a specialised form, by the
 *          second-index decoder's sync-mark and convolution binning.
 *
 * Model:   A bin array of size K votes for one of K candidate
 *          rotations of an encoded observation. Each observation scores
 *          every candidate by Hamming distance and accumulates the
 *          score into that candidate's bin; compute_max_index() then
 *          finds the best-supported rotation.
 *
 *------------------------------------------------------------------*/

// HammingBinsConfig parameterises a voter: number of candidates, how
// many bits of the observation are meaningful, the natural numbering
// offset (0 or 1, spec.md 4.1) and whether the top scored bit of the
// candidate carries an even-parity check bit (minute, hour).
type HammingBinsConfig struct {
	K               int
	SignificantBits byte // total scored bits, including the parity bit if Parity is set
	StartValue      int  // 0 for minute/hour/year/decade, 1 for weekday/day/month
	Parity          bool
}

// HammingBins is the voting register itself.
type HammingBins struct {
	cfg       HammingBinsConfig
	data      []byte
	tick      int
	max       byte
	noiseMax  byte
	maxIndex  int
}

// NewHammingBins allocates a fresh, zeroed voter for the given config.
func NewHammingBins(cfg HammingBinsConfig) *HammingBins {
	return &HammingBins{
		cfg:  cfg,
		data: make([]byte, cfg.K),
	}
}

// Reset zeroes all bins and counters. Called on setup and on any
// "phase lost" event (spec.md 3, Lifecycle).
func (h *HammingBins) Reset() {
	for i := range h.data {
		h.data[i] = 0
	}
	h.tick = 0
	h.max = 0
	h.noiseMax = 0
	h.maxIndex = 0
}

// AdvanceTick rotates the cursor modulo K. Exactly one call per second
// of real elapsed time that this field represents (minute field decoders
// call this once per minute; the decade decoder calls it only on the
// year decoder's tick-0 transition, see fields.go).
func (h *HammingBins) AdvanceTick() {
	h.tick = (h.tick + 1) % h.cfg.K
}

// candidateBits builds the scored bit pattern for natural candidate
// index i (0..K-1, representing displayed value i+StartValue).
func (h *HammingBins) candidateBits(i int) uint32 {
	value := i + h.cfg.StartValue
	dataBits := uint(h.cfg.SignificantBits)
	if h.cfg.Parity {
		dataBits--
	}
	cand := bcdWireEncode(value, dataBits)
	if h.cfg.Parity {
		// The top scored bit (bit 7 for minute, bit 6 for hour) carries
		// even parity of the data bits, computed then scored; spec.md 4.1 "set
		// candidate bit 7 = even parity of the other bits before
		// scoring, then zero it" — zeroing is implicit here since each
		// call recomputes cand from scratch.
		if !evenParity(cand, dataBits) {
			cand |= 1 << dataBits
		}
	}
	return cand
}

// score computes the Hamming score of input against a K-bit-wide
// candidate: significant_bits - popcount(input XOR candidate).
func (h *HammingBins) score(input, candidate uint32) byte {
	diff := bits.OnesCount32(input ^ candidate)
	s := int(h.cfg.SignificantBits) - diff
	if s < 0 {
		s = 0
	}
	if s > 255 {
		s = 255
	}
	return byte(s)
}

// HammingBinning scores one observation against every candidate
// rotation and accumulates. If max would saturate, every bin (and
// noise_max) is decremented first by the global noise-floor rule
// (spec.md 3, Lifecycle).
func (h *HammingBins) HammingBinning(input uint32) {
	if int(h.max) > 255-int(h.cfg.SignificantBits) {
		for i := range h.data {
			h.data[i] = satSubU8(h.data[i], h.cfg.SignificantBits)
		}
		h.noiseMax = satSubU8(h.noiseMax, h.cfg.SignificantBits)
	}
	for i := range h.data {
		cand := h.candidateBits(i)
		sc := h.score(input, cand)
		h.data[i] = satAddU8(h.data[i], sc)
	}
}

// ComputeMaxIndex performs the linear scan described in spec.md 4.1:
// max is the largest bin, noise_max is the largest *other* bin (the
// former max is considered "other" the instant a strictly larger bin is
// found), max_index is the argmax with first-occurrence tie-breaking.
func (h *HammingBins) ComputeMaxIndex() {
	var max, second byte
	var maxIdx int
	for i, v := range h.data {
		if v > max {
			second = max
			max = v
			maxIdx = i
		} else if v > second {
			second = v
		}
	}
	h.max = max
	h.noiseMax = second
	h.maxIndex = maxIdx
}

// GetTimeValue returns the decoded BCD value, or BCDUndefined if the
// margin between max and noise_max is too small to trust (spec.md 4.1).
// HammingBinning scores candidate index i directly into data[i], so
// maxIndex is already the decoded value's natural index; no tick-based
// rotation is applied on read-back.
func (h *HammingBins) GetTimeValue() BCD {
	if int(h.max)-int(h.noiseMax) < 2 {
		return BCDUndefined
	}
	value := h.maxIndex + h.cfg.StartValue
	return IntToBCD(value)
}

// GetQualityFactor is the voter's SNR-like confidence (spec.md 4.1,
// GLOSSARY "Quality factor").
func (h *HammingBins) GetQualityFactor() byte {
	return qualityFactor(float64(h.max), float64(h.noiseMax))
}

// Max, NoiseMax, MaxIndex and Tick expose the raw counters, mainly for
// tests and debug printing.
func (h *HammingBins) Max() byte      { return h.max }
func (h *HammingBins) NoiseMax() byte { return h.noiseMax }
func (h *HammingBins) MaxIndex() int  { return h.maxIndex }
func (h *HammingBins) Tick() int      { return h.tick }

// bcdWireEncode packs a decimal value's ones and tens digits into the
// low dataBits bits, ones digit first (LSB), matching the DCF77/MSF
// wire convention of transmitting BCD fields least-significant-bit
// first (spec.md 6).
func bcdWireEncode(value int, dataBits uint) uint32 {
	ones := uint32(value % 10)
	tens := uint32(value / 10)
	v := ones | tens<<4
	if dataBits >= 32 {
		return v
	}
	return v & (1<<dataBits - 1)
}
