package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestROMOnly_NoRAMReadsFF(t *testing.T) {
	c := NewROMOnly(make([]byte, 0x8000))
	assert.Equal(t, byte(0xFF), c.Read(0xA000))
	c.Write(0xA000, 0x42) // ignored, no RAM window
	assert.Equal(t, byte(0xFF), c.Read(0xA000))
}

func TestROMOnly_WithRAMWindow(t *testing.T) {
	c := NewROMOnlyWithRAM(make([]byte, 0x8000), 8*1024)
	c.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), c.Read(0xA000))

	blob := c.SaveState()
	other := NewROMOnlyWithRAM(make([]byte, 0x8000), 8*1024)
	other.LoadState(blob)
	assert.Equal(t, byte(0x42), other.Read(0xA000))
}

func TestROMOnly_BatteryRoundTrip(t *testing.T) {
	c := NewROMOnlyWithRAM(make([]byte, 0x8000), 8*1024)
	c.Write(0xA010, 0x77)

	saved := c.SaveRAM()
	restored := NewROMOnlyWithRAM(make([]byte, 0x8000), 8*1024)
	restored.LoadRAM(saved)
	assert.Equal(t, byte(0x77), restored.Read(0xA010))
}
