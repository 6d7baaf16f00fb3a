package radioclock

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

/*------------------------------------------------------------------
 *
 * Purpose: Human-facing debug printing (spec.md 1, deliberately out of
 *          core scope but still part of the platform package, mirroring
 *          the teacher's telemetry.go human-readable decode line).
 *
 *------------------------------------------------------------------*/

const debugLayout = "%Y-%m-%d %H:%M:%S"

// asGoTime converts a fully-defined TimeData into a time.Time for
// formatting only; undefined fields fall back to zero.
func asGoTime(t *TimeData) time.Time {
	year := 2000
	if t.Year.Valid() {
		year += t.Year.Int()
	}
	month := 1
	if t.Month.Valid() {
		month = t.Month.Int()
	}
	day := 1
	if t.Day.Valid() {
		day = t.Day.Int()
	}
	hour := 0
	if t.Hour.Valid() {
		hour = t.Hour.Int()
	}
	minute := 0
	if t.Minute.Valid() {
		minute = t.Minute.Int()
	}
	return time.Date(year, time.Month(month), day, hour, minute, t.Second, 0, time.UTC)
}

// DebugLine renders one human-readable summary line for a decoded time,
// protocol state and quality factor.
func DebugLine(protoName string, t *TimeData, state ClockState, qualityFactor byte) string {
	stamp, err := strftime.Format(debugLayout, asGoTime(t))
	if err != nil {
		stamp = asGoTime(t).String()
	}
	dst := "wintertime"
	if t.UsesSummertime {
		dst = "summertime"
	}
	return fmt.Sprintf("[%s] %s %s state=%s qf=%d wd=%s",
		protoName, stamp, dst, state, qualityFactor, weekdayName(t.Weekday))
}

func weekdayName(wd BCD) string {
	names := [8]string{"?", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if !wd.Valid() {
		return "?"
	}
	v := wd.Int()
	if v < 1 || v > 7 {
		return "?"
	}
	return names[v]
}
