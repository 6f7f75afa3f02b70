package cart

import (
	"bytes"
	"encoding/gob"
)

// ROMOnly implements cartridge type 0x00 (no MBC) and the plain ROM+RAM
// variants 0x08/0x09: a fixed 32 KiB ROM image plus an optional 8 KiB
// external RAM window with no banking.
type ROMOnly struct {
	rom []byte
	ram []byte
}

func NewROMOnly(rom []byte) *ROMOnly {
	return &ROMOnly{rom: rom}
}

// NewROMOnlyWithRAM returns a ROM-only cartridge with a fixed RAM window,
// used for cart types 0x08/0x09.
func NewROMOnlyWithRAM(rom []byte, ramSize int) *ROMOnly {
	c := &ROMOnly{rom: rom}
	if ramSize > 0 {
		c.ram = make([]byte, ramSize)
	}
	return c
}

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000: // ROM fixed area
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if len(c.ram) == 0 {
			return 0xFF
		}
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			return c.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (c *ROMOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF && len(c.ram) > 0 {
		off := int(addr - 0xA000)
		if off < len(c.ram) {
			c.ram[off] = value
		}
	}
	// ROM region writes are ignored: there is no MBC to address.
}

// BatteryBacked implementation.
func (c *ROMOnly) SaveRAM() []byte {
	if len(c.ram) == 0 {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *ROMOnly) LoadRAM(data []byte) {
	if len(c.ram) == 0 || len(data) == 0 {
		return
	}
	copy(c.ram, data)
}

// SaveState serializes external RAM, if any.
func (c *ROMOnly) SaveState() []byte {
	if len(c.ram) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.ram); err != nil {
		return nil
	}
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (c *ROMOnly) LoadState(data []byte) {
	if len(data) == 0 || len(c.ram) == 0 {
		return
	}
	var ram []byte
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ram); err != nil {
		return
	}
	copy(c.ram, ram)
}
