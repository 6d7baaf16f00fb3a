package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Startup self-test (SPEC_FULL.md supplemented feature,
 *          grounded on original_source/'s power-on diagnostic and the
 *          teacher's fx25_send_test.go round-trip style: build a known
 *          time, encode it, feed the encoded ticks back through a fresh
 *          decoder, and check the recovered time matches).
 *
 *------------------------------------------------------------------*/

// SelfTestResult reports the outcome of one protocol's encoder/decoder
// round-trip self-test.
type SelfTestResult struct {
	Protocol string
	Passed   bool
	Detail   string
}

// RunSelfTest exercises the encoder/decoder round-trip described in
// spec.md 8, Testable properties 1 and 2, against a fixed reference
// time, for diagnostic use at power-on.
func RunSelfTest(proto Protocol) SelfTestResult {
	reference := &TimeData{
		Second:  0,
		Minute:  IntToBCD(30),
		Hour:    IntToBCD(14),
		Day:     IntToBCD(15),
		Month:   IntToBCD(6),
		Year:    IntToBCD(24),
		Weekday: IntToBCD(Saturday),
	}

	var mb MinuteBits
	mb.Reset()
	for second := 0; second < 60; second++ {
		tick := proto.GetCurrentSignal(reference, second)
		switch tick {
		case TickShort:
			mb.SetBit(second, Bit0)
		case TickLong:
			mb.SetBit(second, Bit1)
		case TickA0B0:
			mb.SetAB(second, Bit0, Bit0)
		case TickA0B1:
			mb.SetAB(second, Bit0, Bit1)
		case TickA1B0:
			mb.SetAB(second, Bit1, Bit0)
		case TickA1B1:
			mb.SetAB(second, Bit1, Bit1)
		}
	}

	got := &TimeData{}
	got.Reset()
	proto.DecodeNaive(&mb, got)

	switch {
	case got.Minute != reference.Minute:
		return SelfTestResult{Protocol: proto.Name(), Passed: false, Detail: "minute mismatch"}
	case got.Hour != reference.Hour:
		return SelfTestResult{Protocol: proto.Name(), Passed: false, Detail: "hour mismatch"}
	case got.Day != reference.Day:
		return SelfTestResult{Protocol: proto.Name(), Passed: false, Detail: "day mismatch"}
	case got.Month != reference.Month:
		return SelfTestResult{Protocol: proto.Name(), Passed: false, Detail: "month mismatch"}
	case got.Year != reference.Year:
		return SelfTestResult{Protocol: proto.Name(), Passed: false, Detail: "year mismatch"}
	default:
		return SelfTestResult{Protocol: proto.Name(), Passed: true, Detail: "ok"}
	}
}
