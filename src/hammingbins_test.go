package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_hammingBins_convergence is spec.md 8 Testable property 8: feeding
// the same value for K consecutive ticks converges get_time_value to
// that value.
func Test_hammingBins_convergence(t *testing.T) {
	cfg := HammingBinsConfig{K: 10, SignificantBits: 4, StartValue: 0, Parity: false}
	h := NewHammingBins(cfg)

	const k = 3
	for i := 0; i < 10; i++ {
		h.HammingBinning(bcdWireEncode(k, 4))
		h.ComputeMaxIndex()
		h.AdvanceTick()
	}

	assert.Equal(t, IntToBCD(k), h.GetTimeValue())
}

// Test_hammingBins_saturation is spec.md 8 Testable property 9: max
// never exceeds 255 and the decrement-on-cap never drives a bin
// negative (bins are unsigned bytes, so "negative" means underflow).
func Test_hammingBins_saturation(t *testing.T) {
	cfg := HammingBinsConfig{K: 10, SignificantBits: 4, StartValue: 0, Parity: false}
	h := NewHammingBins(cfg)

	for i := 0; i < 500; i++ {
		h.HammingBinning(bcdWireEncode(7, 4))
		h.ComputeMaxIndex()
		assert.LessOrEqual(t, h.max, byte(255))
		for _, v := range h.data {
			assert.GreaterOrEqual(t, v, byte(0))
		}
	}
}

func Test_hammingBins_resetClearsState(t *testing.T) {
	cfg := HammingBinsConfig{K: 12, SignificantBits: 5, StartValue: 1, Parity: false}
	h := NewHammingBins(cfg)
	h.HammingBinning(bcdWireEncode(5, 5))
	h.ComputeMaxIndex()
	h.Reset()

	assert.Equal(t, byte(0), h.Max())
	assert.Equal(t, byte(0), h.NoiseMax())
	assert.Equal(t, 0, h.Tick())
	assert.Equal(t, BCDUndefined, h.GetTimeValue())
}

func Test_hammingBins_weakMarginYieldsUndefined(t *testing.T) {
	cfg := HammingBinsConfig{K: 10, SignificantBits: 4, StartValue: 0, Parity: false}
	h := NewHammingBins(cfg)
	assert.Equal(t, BCDUndefined, h.GetTimeValue())
}
