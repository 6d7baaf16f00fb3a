package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func validTimeGen(t *rapid.T) *TimeData {
	month := rapid.IntRange(1, 12).Draw(t, "month")
	year := rapid.IntRange(1, 99).Draw(t, "year")
	day := rapid.IntRange(1, int(daysPerMonth(month, year))).Draw(t, "day")
	hour := rapid.IntRange(0, 23).Draw(t, "hour")
	minute := rapid.IntRange(0, 59).Draw(t, "minute")

	td := &TimeData{
		Second: 0,
		Minute: IntToBCD(minute),
		Hour:   IntToBCD(hour),
		Day:    IntToBCD(day),
		Month:  IntToBCD(month),
		Year:   IntToBCD(year),
	}
	td.Weekday = Weekday(td)
	return td
}

// Test_weekday_matchesGaussian is spec.md 8 Testable property 3.
func Test_weekday_matchesGaussian(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		td := validTimeGen(t)
		wd := weekdayGaussian(td.Day.Int(), td.Month.Int(), td.Year.Int())
		assert.Equal(t, wd, Weekday(td).Int())
	})
}

// Test_weekday_knownDates pins three hand-verified reference dates.
func Test_weekday_knownDates(t *testing.T) {
	cases := []struct {
		day, month, year, want int
	}{
		{1, 1, 24, Monday},    // 2024-01-01
		{30, 3, 25, Sunday},   // 2025-03-30
		{26, 10, 25, Sunday},  // 2025-10-26
	}
	for _, c := range cases {
		assert.Equal(t, c.want, weekdayGaussian(c.day, c.month, c.year))
	}
}

// Test_calendar_monotonicity is spec.md 8 Testable property 4.
func Test_calendar_monotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		td := validTimeGen(t)
		td.Second = rapid.IntRange(0, 59).Draw(t, "second")
		before := td.Clone()

		for i := 0; i < 60; i++ {
			AdvanceSecond(td)
		}

		assert.Equal(t, before.Second, td.Second)
		assert.True(t, td.Valid())
	})
}

// Test_dst_forwardJump is spec.md 8 Testable property 5.
func Test_dst_forwardJump(t *testing.T) {
	td := &TimeData{
		Minute: IntToBCD(59), Hour: IntToBCD(1),
		Day: IntToBCD(30), Month: IntToBCD(3), Year: IntToBCD(25),
		UsesSummertime: false, TimezoneChangeScheduled: true,
	}
	AdvanceMinute(td)
	assert.Equal(t, 3, td.Hour.Int())
	assert.Equal(t, 0, td.Minute.Int())
	assert.True(t, td.UsesSummertime)
}

// Test_dst_backwardJump is spec.md 8 Testable property 6.
func Test_dst_backwardJump(t *testing.T) {
	td := &TimeData{
		Minute: IntToBCD(59), Hour: IntToBCD(2),
		Day: IntToBCD(26), Month: IntToBCD(10), Year: IntToBCD(25),
		UsesSummertime: true, TimezoneChangeScheduled: true,
	}
	AdvanceMinute(td)
	assert.Equal(t, 2, td.Hour.Int())
	assert.Equal(t, 0, td.Minute.Int())
	assert.False(t, td.UsesSummertime)
}

// Test_leapSecond is spec.md 8 Testable property 7.
func Test_leapSecond(t *testing.T) {
	td := &TimeData{
		Second: 58,
		Minute: IntToBCD(59), Hour: IntToBCD(23),
		Day: IntToBCD(31), Month: IntToBCD(12), Year: IntToBCD(16),
		LeapSecondScheduled: true,
	}

	AdvanceSecond(td)
	assert.Equal(t, 59, td.Second)

	AdvanceSecond(td)
	assert.Equal(t, 60, td.Second)
	assert.True(t, td.LeapSecondScheduled)

	AdvanceSecond(td)
	assert.Equal(t, 0, td.Second)
	assert.Equal(t, 0, td.Minute.Int())
	assert.Equal(t, 1, td.Day.Int())
	assert.Equal(t, 1, td.Month.Int())
	assert.False(t, td.LeapSecondScheduled)
}

func Test_daysPerMonth_february(t *testing.T) {
	assert.Equal(t, byte(29), daysPerMonth(2, 24))
	assert.Equal(t, byte(28), daysPerMonth(2, 25))
}

func Test_daysPerMonth_invalidMonthBubblesZero(t *testing.T) {
	assert.Equal(t, byte(0), daysPerMonth(13, 24))
}

func Test_verifyLeapSecondScheduled_onlyQuarterMonthEnds(t *testing.T) {
	td := &TimeData{
		Hour: IntToBCD(23), Minute: IntToBCD(59),
		Day: IntToBCD(31), Month: IntToBCD(12), Year: IntToBCD(24),
	}
	assert.True(t, VerifyLeapSecondScheduled(td, true))

	td.Month = IntToBCD(2)
	td.Day = IntToBCD(28)
	assert.False(t, VerifyLeapSecondScheduled(td, true))
}
