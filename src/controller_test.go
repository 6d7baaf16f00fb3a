package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_controller_dcf77LocksOnCleanSignal drives a full controller with
// a clean, noise-free DCF77 waveform for several minutes and checks the
// clock climbs out of useless and starts tracking the encoded time.
func Test_controller_dcf77LocksOnCleanSignal(t *testing.T) {
	proto := DCF77Protocol{}
	persister := &memPersister{}
	c := NewController(proto, persister)

	reference := &TimeData{
		Minute: IntToBCD(10), Hour: IntToBCD(8),
		Day: IntToBCD(3), Month: IntToBCD(4), Year: IntToBCD(25),
	}
	reference.Weekday = Weekday(reference)

	second := 0
	for s := 0; s < 300; s++ {
		tick := proto.GetCurrentSignal(reference, second)
		for ms := 0; ms < 1000; ms++ {
			c.Tick(sampleForTestTick(tick, ms))
		}
		second++
		if second > 59 {
			second = 0
			AdvanceMinute(reference)
		}
	}

	assert.GreaterOrEqual(t, c.State(), StateUnlocked)
	got := c.ReadTime()
	assert.True(t, got.Hour.Valid())
}

// Test_controller_dcf77DecodesKnownTimeThroughVoterPipeline is spec.md
// 8 Testable property 1, driven through the real pipeline named in
// spec.md's process_single_tick_data: Controller.Tick -> phase demod ->
// tick classifier -> second index -> ObserveFields -> Assemble. A
// round-trip through DecodeNaive alone (as in dcf77_test.go) doesn't
// exercise the Hamming-voter path at all.
func Test_controller_dcf77DecodesKnownTimeThroughVoterPipeline(t *testing.T) {
	proto := DCF77Protocol{}
	persister := &memPersister{}
	c := NewController(proto, persister)

	reference := &TimeData{
		Minute: IntToBCD(10), Hour: IntToBCD(8),
		Day: IntToBCD(3), Month: IntToBCD(4), Year: IntToBCD(25),
	}
	reference.Weekday = Weekday(reference)

	// Stop mid-minute: once a minute's last second has run, the local
	// clock has already rolled over to the following minute.
	second := 0
	for s := 0; s < 870; s++ {
		tick := proto.GetCurrentSignal(reference, second)
		for ms := 0; ms < 1000; ms++ {
			c.Tick(sampleForTestTick(tick, ms))
		}
		second++
		if second > 59 {
			second = 0
		}
	}

	got := c.ReadTime()
	assert.Equal(t, reference.Minute, got.Minute)
	assert.Equal(t, reference.Hour, got.Hour)
	assert.Equal(t, reference.Day, got.Day)
	assert.Equal(t, reference.Month, got.Month)
	assert.Equal(t, reference.Year, got.Year)
}

// Test_controller_msfDecodesKnownTimeThroughVoterPipeline is the MSF
// half of spec.md 8 Testable property 2, same rationale as the DCF77
// version above.
func Test_controller_msfDecodesKnownTimeThroughVoterPipeline(t *testing.T) {
	proto := MSFProtocol{}
	persister := &memPersister{}
	c := NewController(proto, persister)

	reference := &TimeData{
		Minute: IntToBCD(42), Hour: IntToBCD(17),
		Day: IntToBCD(9), Month: IntToBCD(11), Year: IntToBCD(25),
	}
	reference.Weekday = Weekday(reference)

	// Stop mid-minute, as in the DCF77 version above.
	second := 0
	for s := 0; s < 870; s++ {
		tick := proto.GetCurrentSignal(reference, second)
		for ms := 0; ms < 1000; ms++ {
			c.Tick(sampleForTestTick(tick, ms))
		}
		second++
		if second > 59 {
			second = 0
		}
	}

	got := c.ReadTime()
	assert.Equal(t, reference.Minute, got.Minute)
	assert.Equal(t, reference.Hour, got.Hour)
	assert.Equal(t, reference.Day, got.Day)
	assert.Equal(t, reference.Month, got.Month)
	assert.Equal(t, reference.Year, got.Year)
}

func Test_controller_selfTest(t *testing.T) {
	dcf := RunSelfTest(DCF77Protocol{})
	assert.True(t, dcf.Passed, dcf.Detail)

	msf := RunSelfTest(MSFProtocol{})
	assert.True(t, msf.Passed, msf.Detail)
}

// sampleForTestTick renders a classified tick back into a plausible
// 1 kHz carrier-off/on waveform, mirroring cmd/radioclock-sim's encoder.
func sampleForTestTick(tick Tick, ms int) bool {
	switch tick {
	case TickShort:
		return ms < 100
	case TickLong:
		return ms < 200
	case TickSync:
		return false
	case TickMinMarker:
		return ms < 500
	case TickA0B0:
		return ms < 100
	case TickA0B1:
		return ms < 100 || (ms >= 200 && ms < 300)
	case TickA1B0:
		return ms < 200
	case TickA1B1:
		return ms < 300
	default:
		return ms < 100
	}
}
