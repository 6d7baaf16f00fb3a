package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_msf_encodeDecodeRoundTrip is spec.md 8 Testable property 2.
func Test_msf_encodeDecodeRoundTrip(t *testing.T) {
	proto := MSFProtocol{}

	rapid.Check(t, func(t *rapid.T) {
		month := rapid.IntRange(1, 12).Draw(t, "month")
		year := rapid.IntRange(1, 99).Draw(t, "year")
		day := rapid.IntRange(1, int(daysPerMonth(month, year))).Draw(t, "day")

		reference := &TimeData{
			Minute: IntToBCD(rapid.IntRange(0, 59).Draw(t, "minute")),
			Hour:   IntToBCD(rapid.IntRange(0, 23).Draw(t, "hour")),
			Day:    IntToBCD(day),
			Month:  IntToBCD(month),
			Year:   IntToBCD(year),
		}
		reference.Weekday = Weekday(reference)

		var mb MinuteBits
		mb.Reset()
		for second := 1; second <= 59; second++ {
			switch proto.GetCurrentSignal(reference, second) {
			case TickA0B0:
				mb.A[second] = Bit0
				mb.B[second] = Bit0
			case TickA0B1:
				mb.A[second] = Bit0
				mb.B[second] = Bit1
			case TickA1B0:
				mb.A[second] = Bit1
				mb.B[second] = Bit0
			case TickA1B1:
				mb.A[second] = Bit1
				mb.B[second] = Bit1
			}
		}

		got := &TimeData{}
		got.Reset()
		proto.DecodeNaive(&mb, got)

		assert.Equal(t, reference.Minute, got.Minute)
		assert.Equal(t, reference.Hour, got.Hour)
		assert.Equal(t, reference.Day, got.Day)
		assert.Equal(t, reference.Month, got.Month)
		assert.Equal(t, reference.Year, got.Year)
		assert.Equal(t, reference.Weekday, got.Weekday)
	})
}

func Test_msf_classifyTick_minuteMarker(t *testing.T) {
	proto := MSFProtocol{}
	var bins [PhaseBinCount]bool
	for i := 0; i < 50; i++ {
		bins[i] = true
	}
	assert.Equal(t, TickMinMarker, proto.ClassifyTick(bins, 0))
}

func Test_msf_classifyTick_a1b1(t *testing.T) {
	proto := MSFProtocol{}
	var bins [PhaseBinCount]bool
	for i := 10; i < 30; i++ {
		bins[i] = true
	}
	assert.Equal(t, TickA1B1, proto.ClassifyTick(bins, 0))
}

func Test_msf_tailBits_fixed(t *testing.T) {
	proto := MSFProtocol{}
	reference := &TimeData{
		Minute: IntToBCD(0), Hour: IntToBCD(0),
		Day: IntToBCD(1), Month: IntToBCD(1), Year: IntToBCD(24),
	}
	for i, want := range msfTailBits {
		second := 52 + i
		tick := proto.GetCurrentSignal(reference, second)
		a := tick == TickA1B0 || tick == TickA1B1
		assert.Equal(t, want, a, "second %d", second)
	}
}
