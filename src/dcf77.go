package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: DCF77-specific pieces of the Protocol interface: tick
 *          classification, the signal bit map encoder (spec.md 6),
 *          sync-mark binning deltas, and the naive bitstream fallback.
 *          Grounded on original_source/dcf77.cpp's bit-by-bit encode/
 *          decode tables, re-expressed as small pure functions instead
 *          of the original's switch-with-fallthrough state machine
 *          (spec.md 9, "Fall through on purpose").
 *
 *------------------------------------------------------------------*/

// DCF77Protocol implements Protocol for the German 77.5 kHz broadcast.
type DCF77Protocol struct{}

var _ Protocol = DCF77Protocol{}

func (DCF77Protocol) Name() string { return "DCF77" }

func (DCF77Protocol) PhaseKernel() []PhaseKernelTap { return DCF77PhaseKernel }

func (DCF77Protocol) SecondIndexOffset() int { return 2 }

func (DCF77Protocol) NewFieldSet() *FieldSet { return NewFieldSet(true) }

// countLow counts how many of the n decimated bins starting `offset`
// bins after secondStart (circularly, in the 100-bin ring) are "low"
// (carrier off).
func countLow(bins [PhaseBinCount]bool, secondStart, offset, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		idx := (secondStart + offset + i) % PhaseBinCount
		if bins[idx] {
			cnt++
		}
	}
	return cnt
}

// ClassifyTick implements spec.md 4.3's DCF77 rule: 0-100 ms low is the
// guaranteed start-of-pulse window (absent only for the sync mark);
// 100-200 ms low means the pulse extended past 100 ms (a '1'); a short
// pulse that ended by 100 ms is a '0'.
func (DCF77Protocol) ClassifyTick(bins [PhaseBinCount]bool, secondStart int) Tick {
	const present, absent = 7, 3 // out of 10 decimated bins
	w0 := countLow(bins, secondStart, 0, 10)
	w1 := countLow(bins, secondStart, 10, 10)
	w2 := countLow(bins, secondStart, 20, 10)

	switch {
	case w0 <= absent:
		return TickSync
	case w1 >= present:
		return TickLong
	case w1 <= absent && w2 <= absent:
		return TickShort
	default:
		return TickUndefined
	}
}

// SyncMarkDeltas implements spec.md 4.4's DCF77 reward table: bit 0
// after sync is guaranteed 0 and bit 20 is guaranteed 1, so a true sync
// accumulates evidence faster than a random sync-shaped glitch.
func (DCF77Protocol) SyncMarkDeltas(tick Tick) []BinDelta {
	switch tick {
	case TickSync:
		return []BinDelta{{Offset: 0, Amount: 6}, {Offset: -1, Amount: -2}, {Offset: 1, Amount: -2}, {Offset: -21, Amount: -2}}
	case TickShort:
		return []BinDelta{{Offset: -1, Amount: 1}, {Offset: 0, Amount: -2}, {Offset: -21, Amount: -2}}
	case TickLong:
		return []BinDelta{{Offset: -21, Amount: 1}, {Offset: 0, Amount: -2}, {Offset: -1, Amount: -2}}
	default:
		return []BinDelta{{Offset: -1, Amount: -2}, {Offset: 0, Amount: -2}, {Offset: -21, Amount: -2}}
	}
}

func bitTick(b bool) Tick {
	if b {
		return TickLong
	}
	return TickShort
}

func computeParityBit(value uint32, width uint) bool {
	return !evenParity(value, width)
}

// combinedDateWord packs day(6)+weekday(3)+month(5)+year(8) = 22 bits,
// matching DCF77 bits 36-57, for the bit-58 parity check.
func (DCF77Protocol) combinedDateWord(t *TimeData) (uint32, bool) {
	if !t.Day.Valid() || t.Weekday == BCDUndefined || !t.Month.Valid() || !t.Year.Valid() {
		return 0, false
	}
	wd := t.Weekday.Int()
	if wd < 1 || wd > 7 {
		return 0, false
	}
	day := bcdWireEncode(t.Day.Int(), 6)
	month := bcdWireEncode(t.Month.Int(), 5)
	year := bcdWireEncode(t.Year.Int(), 8)
	word := day | uint32(wd)<<6 | month<<9 | year<<14
	return word, true
}

// GetCurrentSignal is the DCF77 encoder (spec.md 4.7, 6): the inverse
// of the decode pipeline, bit-exact against the canonical bit map.
func (DCF77Protocol) GetCurrentSignal(t *TimeData, second int) Tick {
	leapActive := t.LeapSecondScheduled && VerifyLeapSecondScheduled(t, false)

	switch {
	case second == 0:
		return TickShort
	case second >= 1 && second <= 14:
		return TickShort // weather/civil-warning bits: unspecified payload, transmitted as 0
	case second == 15:
		return bitTick(t.AbnormalTransmitterOp)
	case second == 16:
		return bitTick(t.TimezoneChangeScheduled)
	case second == 17:
		return bitTick(t.UsesSummertime)
	case second == 18:
		return bitTick(!t.UsesSummertime)
	case second == 19:
		return bitTick(t.LeapSecondScheduled)
	case second == 20:
		return TickLong
	case second >= 21 && second <= 27:
		if !t.Minute.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Minute.Int(), 7)
		return bitTick((wire>>uint(second-21))&1 != 0)
	case second == 28:
		if !t.Minute.Valid() {
			return TickUndefined
		}
		return bitTick(computeParityBit(bcdWireEncode(t.Minute.Int(), 7), 7))
	case second >= 29 && second <= 34:
		if !t.Hour.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Hour.Int(), 6)
		return bitTick((wire>>uint(second-29))&1 != 0)
	case second == 35:
		if !t.Hour.Valid() {
			return TickUndefined
		}
		return bitTick(computeParityBit(bcdWireEncode(t.Hour.Int(), 6), 6))
	case second >= 36 && second <= 41:
		if !t.Day.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Day.Int(), 6)
		return bitTick((wire>>uint(second-36))&1 != 0)
	case second >= 42 && second <= 44:
		if t.Weekday == BCDUndefined {
			return TickUndefined
		}
		wd := t.Weekday.Int()
		return bitTick((wd>>uint(second-42))&1 != 0)
	case second >= 45 && second <= 49:
		if !t.Month.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Month.Int(), 5)
		return bitTick((wire>>uint(second-45))&1 != 0)
	case second >= 50 && second <= 57:
		if !t.Year.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Year.Int(), 8)
		return bitTick((wire>>uint(second-50))&1 != 0)
	case second == 58:
		word, ok := DCF77Protocol{}.combinedDateWord(t)
		if !ok {
			return TickUndefined
		}
		return bitTick(computeParityBit(word, 22))
	case second == 59:
		if leapActive {
			return TickShort // extra data bit (0) before the inserted leap second
		}
		return TickSync
	case second == 60:
		if leapActive {
			return TickSync
		}
		return TickUndefined
	default:
		return TickUndefined
	}
}

// SerializeClockStream packs bits 16-58 into 6 bytes for the
// convolutional predictor (spec.md 3, 4.4).
func (p DCF77Protocol) SerializeClockStream(t *TimeData) []byte {
	buf := make([]byte, 6)
	for second := 16; second <= 58; second++ {
		tick := p.GetCurrentSignal(t, second)
		if tick == TickLong {
			pos := second - 16
			buf[pos/8] |= 1 << uint(pos%8)
		}
	}
	return buf
}

// KernelBit extracts bit `pos` (0-based from second 16) of a serialized
// clock stream.
func (DCF77Protocol) KernelBit(stream []byte, pos int) bool {
	if pos < 0 || pos/8 >= len(stream) {
		return false
	}
	return (stream[pos/8]>>uint(pos%8))&1 != 0
}

// DecodeNaive directly demultiplexes one minute's raw bits (component G,
// the pre-lock debug/display fallback), without any Hamming voting.
func (DCF77Protocol) DecodeNaive(mb *MinuteBits, t *TimeData) {
	get := func(i int) (bool, bool) { return mb.Bits[i].Bool() }

	if v, ok := get(15); ok {
		t.AbnormalTransmitterOp = v
	}
	if v, ok := get(16); ok {
		t.TimezoneChangeScheduled = v
	}
	b17, ok17 := get(17)
	b18, ok18 := get(18)
	switch {
	case ok17 && ok18 && b17 != b18:
		t.UsesSummertime = b17
	case ok17 && ok18 && b17 == b18:
		// spec.md 9, Open Question 1: bits 17/18 are meant to be
		// complementary; when they agree, keep the existing value and
		// mark the field uncomputable rather than guess.
		t.SummertimeUndefined = true
	}
	if v, ok := get(19); ok {
		t.LeapSecondScheduled = v
	}

	if wire, ok := wordFromBits(mb.Bits, 21, 28); ok {
		t.Minute = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Minute = BCDUndefined
		t.MinuteUndefined = true
	}
	if wire, ok := wordFromBits(mb.Bits, 29, 35); ok {
		t.Hour = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Hour = BCDUndefined
		t.HourUndefined = true
	}
	if wire, ok := wordFromBits(mb.Bits, 36, 42); ok {
		t.Day = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Day = BCDUndefined
		t.DayUndefined = true
	}
	if wire, ok := wordFromBits(mb.Bits, 42, 45); ok {
		if wire >= 1 && wire <= 7 {
			t.Weekday = IntToBCD(int(wire))
		} else {
			t.Weekday = BCDUndefined
			t.WeekdayUndefined = true
		}
	} else {
		t.Weekday = BCDUndefined
		t.WeekdayUndefined = true
	}
	if wire, ok := wordFromBits(mb.Bits, 45, 50); ok {
		t.Month = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Month = BCDUndefined
		t.MonthUndefined = true
	}
	if wire, ok := wordFromBits(mb.Bits, 50, 58); ok {
		t.Year = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Year = BCDUndefined
		t.YearUndefined = true
	}
}

// ObserveFields feeds one completed minute's raw bits into the Hamming
// voters (component F) and advances each voter's cursor (spec.md 4.5).
func (DCF77Protocol) ObserveFields(fs *FieldSet, mb *MinuteBits) {
	observe := func(hb *HammingBins, lo, hi int) {
		word, known := wordFromBitsLossy(mb.Bits, lo, hi)
		if known*2 >= hi-lo {
			hb.HammingBinning(word)
		}
		hb.ComputeMaxIndex()
		hb.AdvanceTick()
	}

	observe(fs.Minute, 21, 29) // 7 data bits + parity (bit 28)
	observe(fs.Hour, 29, 36)   // 6 data bits + parity (bit 35)
	observe(fs.Day, 36, 42)
	observe(fs.Weekday, 42, 45)
	observe(fs.Month, 45, 50)
	observe(fs.YearOnes, 50, 54)
	if word, known := wordFromBitsLossy(mb.Bits, 54, 58); known*2 >= 58-54 {
		fs.Decade.HammingBinning(word)
	}
	fs.Decade.ComputeMaxIndex() // cursor moves only in chainDecade
	fs.chainDecade()

	if v, ok := mb.Bits[16].Bool(); ok {
		fs.TimezoneChangeScheduled.Observe(v)
	}
	if v, ok := mb.Bits[17].Bool(); ok {
		fs.UsesSummertime.Observe(v)
	}
	if fs.AbnormalTransmitterOp != nil {
		if v, ok := mb.Bits[15].Bool(); ok {
			fs.AbnormalTransmitterOp.Observe(v)
		}
	}
}
