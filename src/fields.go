package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Field decoders (component F) and the flag decoder
 *          (component 4.6, "An integrator per flag, signed, saturating
 *          in [-127,+127]"). FieldSet bundles the per-protocol set of
 *          Hamming voters; the bit extraction that feeds them is
 *          protocol-specific (dcf77.go, msf.go).
 *
 *------------------------------------------------------------------*/

// FlagDecoder integrates a single-bit flag over many observations. The
// sign of the integrator is the decoded value; its magnitude is the
// quality (spec.md 4.6).
type FlagDecoder struct {
	integrator int8
}

// Observe adds +1 for a set bit, -1 for a clear bit.
func (f *FlagDecoder) Observe(bitSet bool) {
	if bitSet {
		f.integrator = satAddI8(f.integrator, 1)
	} else {
		f.integrator = satAddI8(f.integrator, -1)
	}
}

// Value reports the decoded flag. A tied integrator (0) decodes as
// false ("not scheduled" / "wintertime"), per spec.md 7's error-handling
// table for a flag integrator tie.
func (f *FlagDecoder) Value() bool { return f.integrator > 0 }

// Quality is the integrator's magnitude.
func (f *FlagDecoder) Quality() byte {
	m := f.integrator
	if m < 0 {
		m = -m
	}
	return byte(m)
}

// Reset clears the integrator to zero (used by the timezone-flag
// interlock, spec.md 4.6, when a transition is consummated).
func (f *FlagDecoder) Reset() { f.integrator = 0 }

// Field bit widths (spec.md 6 bit maps). DCF77's minute/hour are each
// followed by their own parity bit (bits 28/35), hence SignificantBits
// = data bits + 1 there. MSF carries no per-field parity bit on its A
// channel (parity for minute/hour lives in separate B-channel bits,
// which ObserveFields does not read), so its minute/hour voters score
// the raw 7/6 data bits only.
var (
	minuteHamming = HammingBinsConfig{K: 60, SignificantBits: 8, StartValue: 0, Parity: true}
	hourHamming   = HammingBinsConfig{K: 24, SignificantBits: 7, StartValue: 0, Parity: true}
	dayHamming    = HammingBinsConfig{K: 31, SignificantBits: 6, StartValue: 1, Parity: false}
	weekdayHamming = HammingBinsConfig{K: 7, SignificantBits: 3, StartValue: 1, Parity: false}
	monthHamming  = HammingBinsConfig{K: 12, SignificantBits: 5, StartValue: 1, Parity: false}
	yearOnesHamming = HammingBinsConfig{K: 10, SignificantBits: 4, StartValue: 0, Parity: false}
	decadeHamming   = HammingBinsConfig{K: 10, SignificantBits: 4, StartValue: 0, Parity: false}

	msfMinuteHamming = HammingBinsConfig{K: 60, SignificantBits: 7, StartValue: 0, Parity: false}
	msfHourHamming   = HammingBinsConfig{K: 24, SignificantBits: 6, StartValue: 0, Parity: false}
)

// FieldSet is the complete collection of per-minute field decoders for
// one protocol.
type FieldSet struct {
	Minute  *HammingBins
	Hour    *HammingBins
	Day     *HammingBins
	Weekday *HammingBins
	Month   *HammingBins

	YearOnes *HammingBins // ones digit of the two-digit year
	Decade   *HammingBins // tens digit; AdvanceTick only on YearOnes' 9->0 wrap

	TimezoneChangeScheduled *FlagDecoder
	UsesSummertime          *FlagDecoder
	AbnormalTransmitterOp   *FlagDecoder // DCF77 only; nil for MSF

	lastYearOnes int // previous minute's decoded ones digit, -1 if unknown
}

// NewFieldSet allocates a fresh, zeroed field set. dcf77 selects both
// the reserve-antenna flag (spec.md 4 supplement, DCF77 only) and the
// minute/hour voter shape: DCF77's A-channel minute/hour each carry a
// trailing parity bit, MSF's don't.
func NewFieldSet(dcf77 bool) *FieldSet {
	minuteCfg, hourCfg := msfMinuteHamming, msfHourHamming
	if dcf77 {
		minuteCfg, hourCfg = minuteHamming, hourHamming
	}
	fs := &FieldSet{
		Minute:                  NewHammingBins(minuteCfg),
		Hour:                    NewHammingBins(hourCfg),
		Day:                     NewHammingBins(dayHamming),
		Weekday:                 NewHammingBins(weekdayHamming),
		Month:                   NewHammingBins(monthHamming),
		YearOnes:                NewHammingBins(yearOnesHamming),
		Decade:                  NewHammingBins(decadeHamming),
		TimezoneChangeScheduled: &FlagDecoder{},
		UsesSummertime:          &FlagDecoder{},
		lastYearOnes:            -1,
	}
	if dcf77 {
		fs.AbnormalTransmitterOp = &FlagDecoder{}
	}
	return fs
}

// Reset zeroes every voter and integrator (called on setup and on a
// phase_lost event, spec.md 3).
func (fs *FieldSet) Reset() {
	fs.Minute.Reset()
	fs.Hour.Reset()
	fs.Day.Reset()
	fs.Weekday.Reset()
	fs.Month.Reset()
	fs.YearOnes.Reset()
	fs.Decade.Reset()
	fs.TimezoneChangeScheduled.Reset()
	fs.UsesSummertime.Reset()
	if fs.AbnormalTransmitterOp != nil {
		fs.AbnormalTransmitterOp.Reset()
	}
	fs.lastYearOnes = -1
}

// chainDecade advances the Decade voter's cursor exactly when YearOnes
// just decoded a transition through 0, i.e. a real decade boundary
// (spec.md 4.5, "Decade decoder chains from the year decoder's tick-0
// transition").
func (fs *FieldSet) chainDecade() {
	ones := fs.YearOnes.GetTimeValue()
	if !ones.Valid() {
		return
	}
	v := ones.Int()
	if fs.lastYearOnes == 9 && v == 0 {
		fs.Decade.AdvanceTick()
	}
	fs.lastYearOnes = v
}

// Assemble builds a TimeData snapshot from the field set's current
// decoded values. second is copied in verbatim by the caller afterward.
func (fs *FieldSet) Assemble() *TimeData {
	t := &TimeData{}
	t.Minute = fs.Minute.GetTimeValue()
	t.MinuteUndefined = t.Minute == BCDUndefined
	t.Hour = fs.Hour.GetTimeValue()
	t.HourUndefined = t.Hour == BCDUndefined
	t.Day = fs.Day.GetTimeValue()
	t.DayUndefined = t.Day == BCDUndefined
	t.Weekday = fs.Weekday.GetTimeValue()
	t.WeekdayUndefined = t.Weekday == BCDUndefined
	t.Month = fs.Month.GetTimeValue()
	t.MonthUndefined = t.Month == BCDUndefined

	ones := fs.YearOnes.GetTimeValue()
	tens := fs.Decade.GetTimeValue()
	if ones.Valid() && tens.Valid() {
		t.Year = IntToBCD(tens.Int()*10 + ones.Int())
	} else {
		t.Year = BCDUndefined
		t.YearUndefined = true
	}

	t.UsesSummertime = fs.UsesSummertime.Value()
	t.TimezoneChangeScheduled = fs.TimezoneChangeScheduled.Value()
	if fs.AbnormalTransmitterOp != nil {
		t.AbnormalTransmitterOp = fs.AbnormalTransmitterOp.Value()
	}
	return t
}

// MinQuality returns the weakest quality factor across all field
// decoders, a simple overall-confidence figure exposed through
// Controller.MinuteQuality for debug output. The local clock's
// `synced` gate does not use it.
func (fs *FieldSet) MinQuality() byte {
	q := fs.Minute.GetQualityFactor()
	for _, v := range []byte{
		fs.Hour.GetQualityFactor(),
		fs.Day.GetQualityFactor(),
		fs.Weekday.GetQualityFactor(),
		fs.Month.GetQualityFactor(),
		fs.YearOnes.GetQualityFactor(),
	} {
		if v < q {
			q = v
		}
	}
	return q
}
