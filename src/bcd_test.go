package radioclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_bcd_roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(0, 99).Draw(t, "v")
		b := IntToBCD(v)
		assert.True(t, b.Valid())
		assert.Equal(t, v, b.Int())
	})
}

func Test_bcd_undefined(t *testing.T) {
	assert.False(t, BCDUndefined.Valid())
	assert.Equal(t, -1, BCDUndefined.Int())
}

func Test_bcd_outOfRange(t *testing.T) {
	assert.Equal(t, BCDUndefined, IntToBCD(100))
	assert.Equal(t, BCDUndefined, IntToBCD(-1))
}

func Test_evenParity(t *testing.T) {
	assert.True(t, evenParity(0, 8))
	assert.False(t, evenParity(1, 8))
	assert.True(t, evenParity(0b11, 8))
	assert.False(t, evenParity(0b111, 8))
}

func Test_reverseBits(t *testing.T) {
	assert.Equal(t, uint32(0b1000), reverseBits(0b0001, 4))
	assert.Equal(t, uint32(0b0001), reverseBits(0b1000, 4))
}

func Test_satAddU8_saturates(t *testing.T) {
	assert.Equal(t, byte(255), satAddU8(250, 10))
}

func Test_satSubU8_floors(t *testing.T) {
	assert.Equal(t, byte(0), satSubU8(3, 10))
}

func Test_satAddI8_saturatesBothWays(t *testing.T) {
	assert.Equal(t, int8(127), satAddI8(125, 10))
	assert.Equal(t, int8(-127), satAddI8(-125, -10))
}
