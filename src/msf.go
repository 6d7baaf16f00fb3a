package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: MSF-specific pieces of the Protocol interface, mirroring
 *          dcf77.go. Grounded on the same original_source/msf.cpp
 *          bit-map tables (spec.md 6, "MSF signal bit map").
 *
 *------------------------------------------------------------------*/

// MSFProtocol implements Protocol for the British 60 kHz broadcast.
type MSFProtocol struct{}

var _ Protocol = MSFProtocol{}

func (MSFProtocol) Name() string { return "MSF" }

func (MSFProtocol) PhaseKernel() []PhaseKernelTap { return MSFPhaseKernel }

func (MSFProtocol) SecondIndexOffset() int { return 1 }

func (MSFProtocol) NewFieldSet() *FieldSet { return NewFieldSet(false) }

// ClassifyTick implements spec.md 4.3's five-slot MSF rule: a 500 ms
// low spanning all five slots is the minute marker; otherwise the
// second slot (100-200 ms) carries bit A and the third (200-300 ms)
// carries bit B, with the fourth slot always high and the fifth used
// only to distinguish a marker from ordinary data.
func (MSFProtocol) ClassifyTick(bins [PhaseBinCount]bool, secondStart int) Tick {
	const present, absent = 7, 3

	slotA := countLow(bins, secondStart, 10, 10)
	slotB := countLow(bins, secondStart, 20, 10)
	slotTail := countLow(bins, secondStart, 40, 10)

	if slotTail >= present {
		return TickMinMarker
	}

	var aSet, aClear, bSet, bClear bool
	switch {
	case slotA >= present:
		aSet = true
	case slotA <= absent:
		aClear = true
	}
	switch {
	case slotB >= present:
		bSet = true
	case slotB <= absent:
		bClear = true
	}

	switch {
	case aClear && bClear:
		return TickA0B0
	case aClear && bSet:
		return TickA0B1
	case aSet && bClear:
		return TickA1B0
	case aSet && bSet:
		return TickA1B1
	default:
		return TickUndefined
	}
}

// SyncMarkDeltas implements spec.md 4.4's MSF scheme: seconds 1-16 are
// always A0B0 (the strongest prior, after the minute marker itself),
// so both get a solid reward; the remaining combinations carry weaker
// structural evidence.
func (MSFProtocol) SyncMarkDeltas(tick Tick) []BinDelta {
	switch tick {
	case TickMinMarker:
		return []BinDelta{{Offset: 0, Amount: 6}, {Offset: -1, Amount: -2}, {Offset: 1, Amount: -2}}
	case TickA0B0:
		return []BinDelta{{Offset: 0, Amount: 2}, {Offset: -1, Amount: -1}, {Offset: 1, Amount: -1}}
	case TickA0B1, TickA1B0, TickA1B1:
		return []BinDelta{{Offset: 0, Amount: 1}, {Offset: -1, Amount: -1}}
	default:
		return []BinDelta{{Offset: -1, Amount: -2}, {Offset: 0, Amount: -2}, {Offset: 1, Amount: -2}}
	}
}

func abTick(a, b bool) Tick {
	switch {
	case !a && !b:
		return TickA0B0
	case !a && b:
		return TickA0B1
	case a && !b:
		return TickA1B0
	default:
		return TickA1B1
	}
}

// msfTailBits is the fixed A-channel tail "01111110" transmitted over
// seconds 52-59 (spec.md 6).
var msfTailBits = [8]bool{false, true, true, true, true, true, true, false}

// GetCurrentSignal is the MSF encoder (spec.md 4.7, 6).
func (MSFProtocol) GetCurrentSignal(t *TimeData, second int) Tick {
	if second == 0 {
		return TickMinMarker
	}

	a := false
	b := false

	switch {
	case second >= 1 && second <= 16:
		// always A0B0
	case second >= 17 && second <= 24:
		if !t.Year.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Year.Int(), 8)
		a = (wire>>uint(second-17))&1 != 0
	case second >= 25 && second <= 29:
		if !t.Month.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Month.Int(), 5)
		a = (wire>>uint(second-25))&1 != 0
	case second >= 30 && second <= 35:
		if !t.Day.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Day.Int(), 6)
		a = (wire>>uint(second-30))&1 != 0
	case second >= 36 && second <= 38:
		if t.Weekday == BCDUndefined {
			return TickUndefined
		}
		wd := t.Weekday.Int()
		a = (wd>>uint(second-36))&1 != 0
	case second >= 39 && second <= 44:
		if !t.Hour.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Hour.Int(), 6)
		a = (wire>>uint(second-39))&1 != 0
	case second >= 45 && second <= 51:
		if !t.Minute.Valid() {
			return TickUndefined
		}
		wire := bcdWireEncode(t.Minute.Int(), 7)
		a = (wire>>uint(second-45))&1 != 0
	case second >= 52 && second <= 59:
		a = msfTailBits[second-52]
	}

	switch second {
	case 53:
		b = t.TimezoneChangeScheduled
	case 54:
		if !t.Year.Valid() {
			return TickUndefined
		}
		b = evenParity(bcdWireEncode(t.Year.Int(), 8), 8)
	case 55:
		if !t.Month.Valid() || !t.Day.Valid() {
			return TickUndefined
		}
		word := bcdWireEncode(t.Month.Int(), 5) | bcdWireEncode(t.Day.Int(), 6)<<5
		b = evenParity(word, 11)
	case 56:
		if t.Weekday == BCDUndefined {
			return TickUndefined
		}
		b = evenParity(uint32(t.Weekday.Int()), 3)
	case 57:
		if !t.Hour.Valid() || !t.Minute.Valid() {
			return TickUndefined
		}
		word := bcdWireEncode(t.Hour.Int(), 6) | bcdWireEncode(t.Minute.Int(), 7)<<6
		b = evenParity(word, 13)
	case 58:
		b = t.UsesSummertime
	}

	return abTick(a, b)
}

// SerializeClockStream packs the A and B channels (seconds 1-59) into
// two interleaved byte runs: bytes [0:8) are the A channel, [8:16) the
// B channel, one bit per second starting at second 1 (spec.md 3, "two
// such layouts, A and B").
func (p MSFProtocol) SerializeClockStream(t *TimeData) []byte {
	buf := make([]byte, 16)
	for second := 1; second <= 59; second++ {
		tick := p.GetCurrentSignal(t, second)
		pos := second - 1
		switch tick {
		case TickA1B0, TickA1B1:
			buf[pos/8] |= 1 << uint(pos%8)
		}
		switch tick {
		case TickA0B1, TickA1B1:
			buf[8+pos/8] |= 1 << uint(pos%8)
		}
	}
	return buf
}

// KernelBit extracts bit `pos` (0-based from second 1) of the A channel
// half of a serialized clock stream; MSF's convolution binning scores
// the A channel, which carries all of the calendar data.
func (MSFProtocol) KernelBit(stream []byte, pos int) bool {
	if pos < 0 || pos/8 >= 8 || pos/8 >= len(stream) {
		return false
	}
	return (stream[pos/8]>>uint(pos%8))&1 != 0
}

// DecodeNaive directly demultiplexes one minute's raw A/B bits.
func (MSFProtocol) DecodeNaive(mb *MinuteBits, t *TimeData) {
	if wire, ok := wordFromBits(mb.A, 17, 25); ok {
		t.Year = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Year = BCDUndefined
		t.YearUndefined = true
	}
	if wire, ok := wordFromBits(mb.A, 25, 30); ok {
		t.Month = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Month = BCDUndefined
		t.MonthUndefined = true
	}
	if wire, ok := wordFromBits(mb.A, 30, 36); ok {
		t.Day = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Day = BCDUndefined
		t.DayUndefined = true
	}
	if wire, ok := wordFromBits(mb.A, 36, 39); ok {
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
	if wire, ok := wordFromBits(mb.A, 39, 45); ok {
		t.Hour = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Hour = BCDUndefined
		t.HourUndefined = true
	}
	if wire, ok := wordFromBits(mb.A, 45, 52); ok {
		t.Minute = IntToBCD(bcdWireDecode(wire))
	} else {
		t.Minute = BCDUndefined
		t.MinuteUndefined = true
	}
	if v, ok := mb.B[53].Bool(); ok {
		t.TimezoneChangeScheduled = v
	}
	if v, ok := mb.B[58].Bool(); ok {
		t.UsesSummertime = v
	}
}

// ObserveFields feeds one completed minute's A-channel bits into the
// Hamming voters and the B-channel flag bits into the flag decoders.
func (MSFProtocol) ObserveFields(fs *FieldSet, mb *MinuteBits) {
	observe := func(hb *HammingBins, lo, hi int) {
		word, known := wordFromBitsLossy(mb.A, lo, hi)
		if known*2 >= hi-lo {
			hb.HammingBinning(word)
		}
		hb.ComputeMaxIndex()
		hb.AdvanceTick()
	}

	observe(fs.YearOnes, 17, 21)
	if word, known := wordFromBitsLossy(mb.A, 21, 25); known*2 >= 25-21 {
		fs.Decade.HammingBinning(word)
	}
	fs.Decade.ComputeMaxIndex() // cursor moves only in chainDecade
	observe(fs.Month, 25, 30)
	observe(fs.Day, 30, 36)
	observe(fs.Weekday, 36, 39)
	observe(fs.Hour, 39, 45)
	observe(fs.Minute, 45, 52)
	fs.chainDecade()

	if v, ok := mb.B[53].Bool(); ok {
		fs.TimezoneChangeScheduled.Observe(v)
	}
	if v, ok := mb.B[58].Bool(); ok {
		fs.UsesSummertime.Observe(v)
	}
}
