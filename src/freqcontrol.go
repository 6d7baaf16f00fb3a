package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Frequency control (component K, spec.md 4.9): long-horizon
 *          drift calibration against decoded phase, in parts per
 *          16,000,000 (1 Hz at 16 MHz), plus the EEPROM-style trim
 *          persistence record.
 *
 *------------------------------------------------------------------*/

// Persister is the byte-addressable calibration store the core treats
// as an external collaborator (spec.md 1, "load/store for a small
// calibration record"). A real platform backs this with EEPROM; tests
// and the simulator back it with a byte slice.
type Persister interface {
	Load() ([8]byte, bool)
	Store([8]byte)
}

const (
	tauMin      = 334  // elapsed_minutes threshold for an early readjust
	tauMax      = 5334 // elapsed_minutes threshold forcing a readjust regardless of deviation
	adjustBound = 1600 // clamp for adjust_pp16m, in pp16m
	eepromMagicA = 'u'
	eepromMagicB = 'k'
)

// CalibrationState accumulates one measurement cycle's evidence.
type CalibrationState struct {
	Qualified bool // armed only once the decoder has earned trust

	active                   bool
	startCentisecondMod60000 int
	startMinuteMod10         int
	elapsedMinutes           int
	deviationTicks           int
}

// FrequencyControl is the long-horizon trim loop.
type FrequencyControl struct {
	persister Persister

	AdjustPP16M     int
	PrecisionPPM    int // 0 means "untuned"
	Tuned           bool
	cumulatedPhase  int64 // signed, units of 1/16e6 s

	cal CalibrationState
}

// NewFrequencyControl wires a persister and attempts to load a prior
// calibration at startup (spec.md 4.9, "Load at startup").
func NewFrequencyControl(p Persister) *FrequencyControl {
	fc := &FrequencyControl{persister: p}
	fc.loadPersisted()
	return fc
}

func (fc *FrequencyControl) loadPersisted() {
	raw, ok := fc.persister.Load()
	precision, adjust, valid := decodeEEPROM(raw)
	if !ok || !valid {
		fc.PrecisionPPM = 0
		fc.AdjustPP16M = 0
		fc.Tuned = false
		return
	}
	fc.PrecisionPPM = precision
	fc.AdjustPP16M = adjust
	fc.Tuned = true
}

// decodeEEPROM validates and unpacks the 8-byte doubled-payload layout
// (spec.md 4.9, "EEPROM layout"). valid=false on any marker or payload
// mismatch.
func decodeEEPROM(raw [8]byte) (precision int, adjust int, valid bool) {
	if raw[0] != eepromMagicA || raw[1] != eepromMagicB {
		return 0, 0, false
	}
	if raw[2] != raw[3] {
		return 0, 0, false
	}
	if raw[4] != raw[6] || raw[5] != raw[7] {
		return 0, 0, false
	}
	precision = int(raw[2])
	adjust = int(int16(uint16(raw[4]) | uint16(raw[5])<<8))
	return precision, adjust, true
}

// encodeEEPROM packs (precision, adjust) into the doubled-payload
// layout.
func encodeEEPROM(precision, adjust int) [8]byte {
	lo := byte(uint16(int16(adjust)))
	hi := byte(uint16(int16(adjust)) >> 8)
	return [8]byte{eepromMagicA, eepromMagicB, byte(precision), byte(precision), lo, hi, lo, hi}
}

// ArmCalibration starts (or re-starts) a measurement cycle at second 5
// of a qualified minute (spec.md 4.9, "calibration_second").
func (fc *FrequencyControl) ArmCalibration(centisecondMod60000, minuteMod10 int) {
	if !fc.cal.Qualified {
		return
	}
	fc.cal.active = true
	fc.cal.startCentisecondMod60000 = centisecondMod60000
	fc.cal.startMinuteMod10 = minuteMod10
	fc.cal.elapsedMinutes = 0
	fc.cal.deviationTicks = 0
}

// AbortCalibration cancels the current cycle, e.g. on a suspected leap
// second (spec.md 4.9, "Leap seconds ... abort the current cycle").
func (fc *FrequencyControl) AbortCalibration() {
	fc.cal.active = false
}

// AccumulateMinute records one more minute's deviation reading.
func (fc *FrequencyControl) AccumulateMinute(deviationTicks int) bool {
	if !fc.cal.active {
		return false
	}
	fc.cal.elapsedMinutes++
	fc.cal.deviationTicks = deviationTicks
	return fc.maybeReadjust()
}

// maybeReadjust applies the readjust rule (spec.md 4.9) when either
// threshold is crossed, returning true if a new trim was applied (and
// should be enqueued for persistence).
func (fc *FrequencyControl) maybeReadjust() bool {
	elapsed := fc.cal.elapsedMinutes
	dev := fc.cal.deviationTicks

	triggered := (elapsed >= tauMin && abs(dev) >= 5) || elapsed >= tauMax
	if !triggered {
		return false
	}

	frequencyOffset := (2667 * dev) / elapsed
	precision := ceilDiv(2667, elapsed)
	if precision < 1 {
		precision = 1
	}

	newAdjust := fc.AdjustPP16M - frequencyOffset
	if newAdjust > adjustBound {
		newAdjust = adjustBound
	}
	if newAdjust < -adjustBound {
		newAdjust = -adjustBound
	}

	shouldWrite := fc.shouldPersist(precision, newAdjust)

	fc.PrecisionPPM = precision
	fc.AdjustPP16M = newAdjust
	fc.Tuned = true
	fc.cal.active = false

	if shouldWrite {
		fc.persister.Store(encodeEEPROM(fc.PrecisionPPM, fc.AdjustPP16M))
	}
	return true
}

// shouldPersist implements spec.md 4.9's write-gating rule: only write
// when precision genuinely improves, or precision is already good but
// the adjust value has drifted, or precision is at its best (1) and any
// drift at all occurred.
func (fc *FrequencyControl) shouldPersist(newPrecision, newAdjust int) bool {
	switch {
	case fc.PrecisionPPM == 0: // nothing persisted yet
		return true
	case newPrecision < fc.PrecisionPPM:
		return true
	case fc.PrecisionPPM < 8 && abs(newAdjust-fc.AdjustPP16M) > 8:
		return true
	case fc.PrecisionPPM == 1 && newAdjust != fc.AdjustPP16M:
		return true
	default:
		return false
	}
}

// Tick spends the cumulated phase deviation, steering the 1 kHz
// generator's next reload by one 4 us step whenever the excess crosses
// ±64000 (spec.md 4.9, "1 kHz trim").
func (fc *FrequencyControl) Tick() (reloadStepDelta int) {
	fc.cumulatedPhase += int64(fc.AdjustPP16M)
	const excessThreshold = 64000
	switch {
	case fc.cumulatedPhase >= excessThreshold:
		fc.cumulatedPhase -= excessThreshold
		return 1
	case fc.cumulatedPhase <= -excessThreshold:
		fc.cumulatedPhase += excessThreshold
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
