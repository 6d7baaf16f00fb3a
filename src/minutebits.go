package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: The raw per-minute bit accumulator shared by the naive
 *          bitstream fallback (component G) and the field decoders'
 *          observation step (component F). DCF77 fills `Bits`, one
 *          logical bit per second; MSF fills `A` and `B`.
 *
 *------------------------------------------------------------------*/

// BitState is a tri-state bit: unknown (not yet/never classified),
// or a definite 0/1.
type BitState int

const (
	BitUnknown BitState = iota
	Bit0
	Bit1
)

// Bool reports the bit as a boolean, with ok=false for BitUnknown.
func (b BitState) Bool() (value, ok bool) {
	switch b {
	case Bit0:
		return false, true
	case Bit1:
		return true, true
	default:
		return false, false
	}
}

// MinuteBits buffers one minute's worth of raw decoded bits (up to 60
// seconds). It is reset at the start of each minute and read at the
// next minute's second 0 (spec.md 5: "the decoder always decodes the
// next minute's label").
type MinuteBits struct {
	Bits [60]BitState // DCF77: one data bit per second
	A    [60]BitState // MSF: A-channel bit per second
	B    [60]BitState // MSF: B-channel bit per second
}

// Reset clears all buffered bits to unknown.
func (m *MinuteBits) Reset() {
	for i := range m.Bits {
		m.Bits[i] = BitUnknown
		m.A[i] = BitUnknown
		m.B[i] = BitUnknown
	}
}

// SetBit records a DCF77 data bit for second `second`.
func (m *MinuteBits) SetBit(second int, v BitState) {
	if second >= 0 && second < len(m.Bits) {
		m.Bits[second] = v
	}
}

// SetAB records an MSF A/B bit pair for second `second`.
func (m *MinuteBits) SetAB(second int, a, b BitState) {
	if second >= 0 && second < len(m.A) {
		m.A[second] = a
		m.B[second] = b
	}
}

// wordFromBits packs bits[lo:hi) (inclusive lo, exclusive hi) into a
// little-endian word (bit `lo` is the LSB of the result), returning
// ok=false if any underlying bit is still unknown.
func wordFromBits(bits [60]BitState, lo, hi int) (value uint32, ok bool) {
	ok = true
	for i := lo; i < hi; i++ {
		v, bitOK := bits[i].Bool()
		if !bitOK {
			ok = false
			continue
		}
		if v {
			value |= 1 << uint(i-lo)
		}
	}
	return value, ok
}

// wordFromBitsLossy is wordFromBits' graceful-degradation sibling: any
// unknown bit is treated as 0 rather than invalidating the whole word,
// and the count of actually-known bits is returned so the caller can
// decide whether there is enough signal to bother scoring at all
// (spec.md 7: a noisy/undefined bit should decay a field's quality, not
// abort decoding it).
func wordFromBitsLossy(bits [60]BitState, lo, hi int) (value uint32, knownCount int) {
	for i := lo; i < hi; i++ {
		v, ok := bits[i].Bool()
		if !ok {
			continue
		}
		knownCount++
		if v {
			value |= 1 << uint(i-lo)
		}
	}
	return value, knownCount
}
