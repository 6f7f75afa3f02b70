package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMBC2_RAMEnableRequiresLowAddress(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC2(rom)

	m.Write(0x0000, 0x0A) // enable, bit8 clear
	m.Write(0xA000, 0x07)
	assert.Equal(t, byte(0xF7), m.Read(0xA000), "low nibble retained, upper nibble forced to 1s")

	m.Write(0x0100, 0x00) // bit8 set -> treated as ROM bank select, enable untouched
	assert.True(t, m.ramEnabled, "ROM-bank-select write must not disable RAM")
}

func TestMBC2_ROMBankSelectIgnoresZero(t *testing.T) {
	rom := make([]byte, 16*0x4000)
	for bank := 1; bank < 16; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC2(rom)

	m.Write(0x0100, 0x00) // bit8 set, bank 0 remaps to 1
	assert.Equal(t, byte(1), m.Read(0x4000))

	m.Write(0x0100, 0x05)
	assert.Equal(t, byte(5), m.Read(0x4000))
}

func TestMBC2_RAMDisabledReadsFF(t *testing.T) {
	m := NewMBC2(make([]byte, 0x8000))
	assert.Equal(t, byte(0xFF), m.Read(0xA000))
}

func TestMBC2_SaveLoadState(t *testing.T) {
	m := NewMBC2(make([]byte, 0x8000))
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x05)
	m.Write(0x0100, 0x03)

	blob := m.SaveState()

	other := NewMBC2(make([]byte, 0x8000))
	other.LoadState(blob)

	assert.Equal(t, m.Read(0xA000), other.Read(0xA000))
	assert.Equal(t, m.romBank, other.romBank)
}
