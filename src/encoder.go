package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Encoder and advancer (spec.md 4.7). Pure functions on
 *          TimeData: calendar arithmetic, DST rules, leap-second
 *          guard, and the signal encoder used by the convolutional
 *          predictor and self-test. Shared between DCF77 and MSF
 *          (spec.md 9, "Polymorphism across DCF77 and MSF" — only the
 *          bit layout, not the calendar math, differs).
 *
 *------------------------------------------------------------------*/

// daysPerMonth returns the number of days in (month, year), where year
// is the two-digit broadcast year (2001-2399 per spec.md 4.7's February
// rule). month outside 1..12 yields 0 (sentinel bubble-through).
func daysPerMonth(month, year int) byte {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// daysPerMonthBCD is the BCD-sentinel-aware wrapper used by the encoder
// when month/year might be undefined.
func daysPerMonthBCD(month, year BCD) byte {
	if !month.Valid() || !year.Valid() {
		return 0
	}
	return daysPerMonth(month.Int(), year.Int())
}

// weekdayZellerTable maps Zeller's h (0=Saturday..6=Friday) to the
// spec's weekday numbering (1=Monday..7=Sunday).
var weekdayZellerTable = [7]int{6, 7, 1, 2, 3, 4, 5}

// weekdayGaussian is the Gaussian/Zeller weekday formula, correct for
// 2001-2099 (spec.md 4.7, Testable property 3). Returns 0xFF-equivalent
// -1 for an invalid date; callers needing BCD use Weekday below.
func weekdayGaussian(day, month, year int) int {
	if day < 1 || month < 1 || month > 12 {
		return -1
	}
	dim := int(daysPerMonth(month, year))
	if dim == 0 || day > dim {
		return -1
	}
	m := month
	y := ((year % 100) + 100) % 100
	if m < 3 {
		m += 12
		y--
		y = ((y % 100) + 100) % 100
	}
	const century = 20 // fixed: every year in 2001-2099 has century index 20
	h := (day + (13*(m+1))/5 + y + y/4 + century/4 - 2*century) % 7
	h = ((h % 7) + 7) % 7
	return weekdayZellerTable[h]
}

// Weekday is the BCD-level wrapper of weekdayGaussian (Testable
// property 3: equals autoset_weekday(t).weekday.val for every valid t).
func Weekday(t *TimeData) BCD {
	if !t.Day.Valid() || !t.Month.Valid() || !t.Year.Valid() {
		return BCDUndefined
	}
	wd := weekdayGaussian(t.Day.Int(), t.Month.Int(), t.Year.Int())
	if wd < 0 {
		return BCDUndefined
	}
	return IntToBCD(wd)
}

// lastSundayOfMonth returns the day-of-month of the last Sunday of
// (month, year).
func lastSundayOfMonth(month, year int) int {
	last := int(daysPerMonth(month, year))
	if last == 0 {
		return 0
	}
	wd := weekdayGaussian(last, month, year)
	if wd < 0 {
		return last
	}
	offset := wd % 7 // Sunday (7) -> 0
	return last - offset
}

// AutosetTimezone derives UsesSummertime from the calendar date
// (spec.md 4.7). At the last-Sunday-of-March/October boundary hour 2,
// the flag is bistable (ambiguous) and left untouched there; elsewhere
// it is set deterministically.
func AutosetTimezone(t *TimeData) {
	if !t.Day.Valid() || !t.Month.Valid() || !t.Year.Valid() || !t.Hour.Valid() {
		return
	}
	day, month, year, hour := t.Day.Int(), t.Month.Int(), t.Year.Int(), t.Hour.Int()

	switch {
	case month > 3 && month < 10:
		t.UsesSummertime = true
	case month < 3 || month > 10:
		t.UsesSummertime = false
	case month == 3:
		last := lastSundayOfMonth(3, year)
		switch {
		case day < last:
			t.UsesSummertime = false
		case day > last:
			t.UsesSummertime = true
		case hour < 2:
			t.UsesSummertime = false
		case hour > 2:
			t.UsesSummertime = true
			// hour == 2 on the forward-jump day is bistable: the
			// 02:xx hour is never actually broadcast (clocks jump
			// straight to 03:00), so leave the existing value.
		}
	case month == 10:
		last := lastSundayOfMonth(10, year)
		switch {
		case day < last:
			t.UsesSummertime = true
		case day > last:
			t.UsesSummertime = false
		case hour < 2:
			t.UsesSummertime = true
		case hour > 2:
			t.UsesSummertime = false
			// hour == 2 is broadcast twice (summer, then winter); the
			// actual flip happens in AdvanceMinute's repeated-hour
			// case, not here.
		}
	}
}

// AutosetTimezoneChangeScheduled implements spec.md 4.7's announcement
// rule: true for the whole hour preceding a DST transition.
func AutosetTimezoneChangeScheduled(t *TimeData) bool {
	if !t.Day.Valid() || !t.Month.Valid() || !t.Year.Valid() || !t.Hour.Valid() {
		return false
	}
	day, month, year, hour := t.Day.Int(), t.Month.Int(), t.Year.Int(), t.Hour.Int()
	switch month {
	case 3:
		if day == lastSundayOfMonth(3, year) {
			return hour == 1
		}
	case 10:
		if day == lastSundayOfMonth(10, year) {
			return hour == 2 && t.UsesSummertime
		}
	}
	return false
}

// leapSecondMonths are the permitted "month-end transition" months
// (spec.md 4.7): a pending leap second must land at the last minute of
// the month immediately before one of these.
var leapSecondMonths = map[int]bool{1: true, 4: true, 7: true, 10: true}

// VerifyLeapSecondScheduled is the structural guard of spec.md 4.7: a
// leap second may only be scheduled at 23:59 on the last day of a month
// that rolls into January, April, July or October. When assume is true
// the check ignores TimeData.LeapSecondScheduled and reports whether
// the current instant could structurally carry one (used by frequency
// control to suspect a leap second without relying on the decoded flag).
func VerifyLeapSecondScheduled(t *TimeData, assume bool) bool {
	if !assume && !t.LeapSecondScheduled {
		return false
	}
	if !t.Day.Valid() || !t.Month.Valid() || !t.Year.Valid() || !t.Hour.Valid() || !t.Minute.Valid() {
		return false
	}
	month, day, year := t.Month.Int(), t.Day.Int(), t.Year.Int()
	nextMonth := month + 1
	if nextMonth > 12 {
		nextMonth = 1
	}
	if !leapSecondMonths[nextMonth] {
		return false
	}
	if day != int(daysPerMonth(month, year)) {
		return false
	}
	return t.Hour.Int() == 23 && t.Minute.Int() == 59
}

// AutosetControlBits runs at second 15 (spec.md 4.7): recomputes the
// DST-derived flags from the current calendar fields. LeapSecondScheduled
// is never autoset here — it is a decoded broadcast flag, not a calendar
// derivation.
func AutosetControlBits(t *TimeData) {
	AutosetTimezone(t)
	t.TimezoneChangeScheduled = AutosetTimezoneChangeScheduled(t)
}

// AdvanceSecond advances t by one second, honoring the 15-second control
// bit refresh, the scheduled-leap-second extra tick, and minute rollover
// (spec.md 4.7, Testable properties 4 and 7).
func AdvanceSecond(t *TimeData) {
	t.Second++
	if t.Second == 15 {
		AutosetControlBits(t)
	}

	leapActive := t.LeapSecondScheduled && VerifyLeapSecondScheduled(t, false)
	maxSecond := 59
	if leapActive {
		maxSecond = 60
	}

	if t.Second > maxSecond {
		t.Second = 0
		if leapActive {
			t.LeapSecondScheduled = false
		}
		AdvanceMinute(t)
	}
}

// AdvanceMinute rolls the calendar forward by one minute, applying the
// DST forward/backward jump rules of spec.md 4.7 (Testable properties 5
// and 6) before falling back to the ordinary cascade.
func AdvanceMinute(t *TimeData) {
	if !t.Hour.Valid() || !t.Minute.Valid() {
		return
	}
	hour, minute := t.Hour.Int(), t.Minute.Int()

	switch {
	case t.TimezoneChangeScheduled && !t.UsesSummertime && hour == 1 && minute == 59:
		// Forward jump: 01:59 winter -> 03:00 summer, skipping the
		// nonexistent 02:xx hour.
		t.Hour = IntToBCD(hour + 2)
		t.Minute = IntToBCD(0)
		t.UsesSummertime = true
		t.TimezoneChangeScheduled = false

	case t.TimezoneChangeScheduled && t.UsesSummertime && hour == 2 && minute == 59:
		// Backward jump: 02:59 summer -> 02:00 winter, the repeated hour.
		t.Minute = IntToBCD(0)
		t.UsesSummertime = false
		t.TimezoneChangeScheduled = false

	default:
		advanceMinuteCascade(t)
	}
}

func advanceMinuteCascade(t *TimeData) {
	minute := t.Minute.Int() + 1
	hour := t.Hour.Int()
	if minute == 60 {
		minute = 0
		hour++
	}
	if hour == 24 {
		hour = 0
		advanceDay(t)
	}
	t.Minute = IntToBCD(minute)
	t.Hour = IntToBCD(hour)
}

func advanceDay(t *TimeData) {
	if !t.Day.Valid() || !t.Month.Valid() || !t.Year.Valid() {
		return
	}
	day := t.Day.Int() + 1
	month := t.Month.Int()
	year := t.Year.Int()
	if day > int(daysPerMonth(month, year)) {
		day = 1
		month++
		if month > 12 {
			month = 1
			year++
			if year > 99 {
				year = 0 // spec.md 4.7: fixes the two-digit year at 99->00
			}
		}
	}
	t.Day = IntToBCD(day)
	t.Month = IntToBCD(month)
	t.Year = IntToBCD(year)
	if wd := weekdayGaussian(day, month, year); wd >= 0 {
		t.Weekday = IntToBCD(wd)
	} else {
		t.Weekday = BCDUndefined
	}
}
