package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_flagDecoder_majorityWins(t *testing.T) {
	var f FlagDecoder
	for i := 0; i < 5; i++ {
		f.Observe(true)
	}
	f.Observe(false)
	assert.True(t, f.Value())
	assert.Equal(t, byte(4), f.Quality())
}

func Test_flagDecoder_tieDecodesFalse(t *testing.T) {
	var f FlagDecoder
	assert.False(t, f.Value())
	assert.Equal(t, byte(0), f.Quality())
}

func Test_flagDecoder_resetClears(t *testing.T) {
	var f FlagDecoder
	f.Observe(true)
	f.Reset()
	assert.False(t, f.Value())
	assert.Equal(t, byte(0), f.Quality())
}

func Test_fieldSet_chainDecadeAdvancesOnNineToZero(t *testing.T) {
	fs := NewFieldSet(true)

	for minute := 0; minute < 10; minute++ {
		fs.YearOnes.HammingBinning(bcdWireEncode(9, 4))
		fs.YearOnes.ComputeMaxIndex()
		fs.chainDecade()
		fs.YearOnes.AdvanceTick()
	}
	assert.Equal(t, 9, fs.lastYearOnes)

	// A single 0 cannot outvote ten 9s; keep feeding 0 until the voter
	// flips, which must advance the decade cursor exactly once.
	decadeTickBefore := fs.Decade.Tick()
	for minute := 0; minute < 20; minute++ {
		fs.YearOnes.HammingBinning(bcdWireEncode(0, 4))
		fs.YearOnes.ComputeMaxIndex()
		fs.chainDecade()
		fs.YearOnes.AdvanceTick()
	}
	assert.Equal(t, decadeTickBefore+1, fs.Decade.Tick())
}

func Test_fieldSet_assembleReflectsVotedFields(t *testing.T) {
	fs := NewFieldSet(false)

	for i := 0; i < 24; i++ {
		fs.Hour.HammingBinning(bcdWireEncode(13, 7))
		fs.Hour.ComputeMaxIndex()
		fs.Hour.AdvanceTick()
	}

	assembled := fs.Assemble()
	assert.Equal(t, IntToBCD(13), assembled.Hour)
	assert.Nil(t, fs.AbnormalTransmitterOp)
}

func Test_fieldSet_resetClearsFlagsAndVoters(t *testing.T) {
	fs := NewFieldSet(true)
	fs.TimezoneChangeScheduled.Observe(true)
	fs.AbnormalTransmitterOp.Observe(true)
	fs.lastYearOnes = 7

	fs.Reset()

	assert.False(t, fs.TimezoneChangeScheduled.Value())
	assert.False(t, fs.AbnormalTransmitterOp.Value())
	assert.Equal(t, -1, fs.lastYearOnes)
}
