package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_secondIndex_syncMarkConverges(t *testing.T) {
	proto := DCF77Protocol{}
	s := NewSecondIndex(proto)

	for rep := 0; rep < 8; rep++ {
		for tick := 0; tick < 60; tick++ {
			if tick == 0 {
				s.SyncMarkBin(TickSync)
			} else {
				s.SyncMarkBin(TickShort)
			}
			s.AdvanceTick()
		}
	}

	assert.Equal(t, 0, s.MaxIndex())
	assert.True(t, s.Locked())
}

func Test_secondIndex_secondOfFormula(t *testing.T) {
	proto := DCF77Protocol{} // SecondIndexOffset() == 2
	s := NewSecondIndex(proto)
	s.tick = 10
	s.maxIndex = 5

	want := ((2*60 + 10 - 2 - 5) % 60 + 60) % 60
	assert.Equal(t, want, s.SecondOf())
}

func Test_secondIndex_convolutionBinningScoresAgreement(t *testing.T) {
	proto := DCF77Protocol{}
	s := NewSecondIndex(proto)

	reference := &TimeData{
		Minute: IntToBCD(12), Hour: IntToBCD(7),
		Day: IntToBCD(15), Month: IntToBCD(6), Year: IntToBCD(25),
	}
	reference.Weekday = Weekday(reference)

	s.InstallKernel(reference)
	assert.True(t, s.Predicting())

	stream := proto.SerializeClockStream(reference)
	for pos := 0; pos < 6*8; pos++ {
		want := proto.KernelBit(stream, pos)
		s.ConvolutionBin(pos, want)
	}

	assert.Greater(t, s.FlushPredictionMatch(), 0)
}

func Test_secondIndex_resetClearsState(t *testing.T) {
	proto := DCF77Protocol{}
	s := NewSecondIndex(proto)
	s.SyncMarkBin(TickSync)
	s.AdvanceTick()
	s.Reset()

	assert.Equal(t, byte(0), s.max)
	assert.Equal(t, byte(0), s.noiseMax)
	assert.Equal(t, 0, s.tick)
	assert.False(t, s.Predicting())
}
