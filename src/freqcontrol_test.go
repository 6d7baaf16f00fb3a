package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type memPersister struct {
	raw [8]byte
	set bool
}

func (m *memPersister) Load() ([8]byte, bool) { return m.raw, m.set }
func (m *memPersister) Store(raw [8]byte)     { m.raw = raw; m.set = true }

// Test_eeprom_roundTrip is spec.md 8 Testable property 11.
func Test_eeprom_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		precision := rapid.IntRange(1, 255).Draw(t, "precision")
		adjust := rapid.IntRange(-1600, 1600).Draw(t, "adjust")

		raw := encodeEEPROM(precision, adjust)
		gotPrecision, gotAdjust, valid := decodeEEPROM(raw)

		assert.True(t, valid)
		assert.Equal(t, precision, gotPrecision)
		assert.Equal(t, adjust, gotAdjust)
	})
}

func Test_eeprom_corruptionYieldsInvalid(t *testing.T) {
	base := encodeEEPROM(4, 123)

	for i := 0; i < 8; i++ {
		corrupt := base
		corrupt[i] ^= 0xFF
		_, _, valid := decodeEEPROM(corrupt)
		assert.False(t, valid, "byte %d corruption should invalidate the record", i)
	}
}

func Test_eeprom_loadInvalidYieldsZeroZero(t *testing.T) {
	p := &memPersister{raw: [8]byte{0, 0, 0, 0, 0, 0, 0, 0}, set: true}
	fc := NewFrequencyControl(p)
	assert.Equal(t, 0, fc.PrecisionPPM)
	assert.Equal(t, 0, fc.AdjustPP16M)
	assert.False(t, fc.Tuned)
}

// Test_frequencyTrim_staysWithinBound is spec.md 8 Testable property 12:
// AdjustPP16M always stays within [-1600, 1600] regardless of how
// extreme the accumulated deviation is.
func Test_frequencyTrim_staysWithinBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := &memPersister{}
		fc := NewFrequencyControl(p)
		fc.cal.Qualified = true
		fc.ArmCalibration(0, 0)

		elapsed := rapid.IntRange(1, 6000).Draw(t, "elapsed")
		dev := rapid.IntRange(-100000, 100000).Draw(t, "dev")

		for i := 0; i < elapsed; i++ {
			fc.cal.elapsedMinutes++
		}
		fc.cal.elapsedMinutes = elapsed
		fc.cal.deviationTicks = dev
		fc.maybeReadjust()

		assert.LessOrEqual(t, fc.AdjustPP16M, adjustBound)
		assert.GreaterOrEqual(t, fc.AdjustPP16M, -adjustBound)
	})
}

func Test_calibration_armRequiresQualified(t *testing.T) {
	p := &memPersister{}
	fc := NewFrequencyControl(p)
	fc.ArmCalibration(100, 3)
	assert.False(t, fc.cal.active)

	fc.cal.Qualified = true
	fc.ArmCalibration(100, 3)
	assert.True(t, fc.cal.active)
}

func Test_calibration_abort(t *testing.T) {
	p := &memPersister{}
	fc := NewFrequencyControl(p)
	fc.cal.Qualified = true
	fc.ArmCalibration(0, 0)
	fc.AbortCalibration()
	assert.False(t, fc.cal.active)
	assert.False(t, fc.AccumulateMinute(10))
}

func Test_shouldPersist_firstWriteAlwaysHappens(t *testing.T) {
	p := &memPersister{}
	fc := NewFrequencyControl(p)
	assert.True(t, fc.shouldPersist(10, 5))
}

func Test_tick_spendsExcessPhase(t *testing.T) {
	p := &memPersister{}
	fc := NewFrequencyControl(p)
	fc.AdjustPP16M = 64000

	delta := fc.Tick()
	assert.Equal(t, 1, delta)
	assert.Equal(t, int64(0), fc.cumulatedPhase)
}
