package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_phaseDemod_samplesCompleteEveryThousandSamples(t *testing.T) {
	p := NewPhaseDemod(DCF77PhaseKernel)
	completions := 0
	for i := 0; i < 1000; i++ {
		if p.Sample(false) {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
}

// Test_phaseDemod_locatesSteadyLowWindow feeds 600 seconds of a signal
// that is carrier-off for the first 200ms of every second and confirms
// Detect locates that window and reports lock.
func Test_phaseDemod_locatesSteadyLowWindow(t *testing.T) {
	p := NewPhaseDemod(DCF77PhaseKernel)
	for second := 0; second < 600; second++ {
		for ms := 0; ms < 1000; ms++ {
			carrierOff := ms < 200
			if p.Sample(carrierOff) {
				p.Detect()
			}
		}
	}
	assert.Equal(t, 0, p.MaxIndex())
	assert.True(t, p.Locked())
}

func Test_phaseDemod_resetClearsRing(t *testing.T) {
	p := NewPhaseDemod(DCF77PhaseKernel)
	for i := 0; i < 1000; i++ {
		p.Sample(true)
	}
	p.Reset()
	assert.Equal(t, uint32(0), p.max)
	assert.Equal(t, uint32(0), p.noiseMax)
	for _, b := range p.bins {
		assert.Equal(t, uint16(0), b)
	}
}

func Test_phaseDemod_tunedCrystalRaisesCap(t *testing.T) {
	p := NewPhaseDemod(DCF77PhaseKernel)
	assert.Equal(t, uint16(300), p.cap)
	p.SetTunedCrystal(true)
	assert.Equal(t, uint16(3600), p.cap)
}
