package radioclock

import "math/bits"

/*------------------------------------------------------------------
 *
 * Purpose: Packed BCD digit type used for every calendar field in
 *          time_data (spec.md 3). Two nibbles, hi and lo, each 0-9;
 *          0xFF is the "undefined" sentinel. Comparison is just byte
 *          comparison, so BCD is a defined byte type rather than a
 *          struct.
 *
 *------------------------------------------------------------------*/

// BCD holds two packed BCD nibbles. The zero value (0x00) is a valid
// digit representing 0; use BCDUndefined for "no value".
type BCD byte

// BCDUndefined is the sentinel for "this field could not be decoded".
const BCDUndefined BCD = 0xFF

// NewBCD packs two nibbles (each expected 0-9) into a BCD value.
func NewBCD(hi, lo byte) BCD {
	return BCD((hi&0x0F)<<4 | (lo & 0x0F))
}

// Hi returns the tens nibble.
func (b BCD) Hi() byte { return byte(b) >> 4 }

// Lo returns the units nibble.
func (b BCD) Lo() byte { return byte(b) & 0x0F }

// Valid reports whether b is a well-formed BCD digit pair (each nibble
// 0-9) and not the undefined sentinel.
func (b BCD) Valid() bool {
	if b == BCDUndefined {
		return false
	}
	return b.Hi() <= 9 && b.Lo() <= 9
}

// Int converts a valid BCD value to its decimal integer; returns -1 for
// an invalid or undefined value.
func (b BCD) Int() int {
	if !b.Valid() {
		return -1
	}
	return int(b.Hi())*10 + int(b.Lo())
}

// IntToBCD packs a decimal value 0-99 into BCD. Values outside 0-99
// produce BCDUndefined, matching the "sentinel bubbles through" rule of
// spec.md 4.7 for days_per_month/weekday arithmetic on invalid input.
func IntToBCD(v int) BCD {
	if v < 0 || v > 99 {
		return BCDUndefined
	}
	return NewBCD(byte(v/10), byte(v%10))
}

// Bit returns bit n (0 = LSB) of the packed byte. Used by the naive
// bitstream decoder and the encoder, which both address BCD values bit
// by bit in transmission order.
func (b BCD) Bit(n uint) bool {
	return (byte(b)>>n)&1 != 0
}

// evenParity returns true if the number of set bits in v (masked to the
// low `bits` bits) is even. DCF77 sets its parity bit so that the total
// popcount is even; MSF sets its B-channel parity bit so that the total
// is odd (spec.md 6).
func evenParity(v uint32, width uint) bool {
	mask := uint32(1)<<width - 1
	return bits.OnesCount32(v&mask)%2 == 0
}

// bcdWireDecode unpacks a wire-format word (ones digit in bits 0-3,
// tens digit in bits 4-7, see bcdWireEncode in hammingbins.go) back
// into a decimal value.
func bcdWireDecode(wire uint32) int {
	return int(wire&0x0F) + int(wire>>4)*10
}

// reverseBits reverses the low `width` bits of v. DCF77/MSF transmit
// multi-bit fields LSB-first; reverseBits converts between wire order
// and natural binary order when needed (e.g. displaying or comparing
// packed fields against BCD nibbles, which are MSB-first by convention).
func reverseBits(v uint32, width uint) uint32 {
	var out uint32
	for i := uint(0); i < width; i++ {
		if v&(1<<i) != 0 {
			out |= 1 << (width - 1 - i)
		}
	}
	return out
}
