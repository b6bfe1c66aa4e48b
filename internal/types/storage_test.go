package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue32Reinterpretation(t *testing.T) {
	v := IntValue(-1)
	assert.Equal(t, int32(-1), v.Int())
	assert.Equal(t, uint32(0xFFFFFFFF), v.Uint())

	f := FloatValue(12.5)
	assert.Equal(t, float32(12.5), f.Float())
	assert.Equal(t, uint32(0x41480000), f.Uint(), "IEEE 754 bits must be preserved")

	// The same bits read back under either view.
	assert.Equal(t, float32(12.5), Value32(f.Uint()).Float())
}

func TestFindStatusVar(t *testing.T) {
	v, ok := FindStatusVar("fpl_queue")
	assert.True(t, ok)
	assert.Equal(t, FplQueue, v.Address)

	_, ok = FindStatusVar("nope")
	assert.False(t, ok)
}

func TestStatusVarTableIsDense(t *testing.T) {
	for i, v := range StatusVars {
		assert.Equal(t, StatusAddress(i), v.Address, "variable %q out of place", v.Name)
		assert.NotEmpty(t, v.Name)
	}
}
