package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC2 implements the MBC2 controller: up to 16 ROM banks and 512x4 bits
// of battery-backable internal RAM addressed at 0xA000-0xA1FF (mirrored
// through 0xBFFF); only the low nibble of each RAM byte is meaningful,
// the upper nibble always reads back as 1s.
// Banking behavior:
// - 0000-3FFF writes: bit 8 of the address (addr&0x0100) selects whether
//   the write is a RAM-enable (bit clear) or a ROM-bank-select (bit set).
// - A000-A1FF: internal 4-bit RAM, enabled only when ramEnabled is set.
type MBC2 struct {
	rom []byte
	ram [512]byte // low nibble significant

	ramEnabled bool
	romBank    byte // 4 bits, 1..15
}

func NewMBC2(rom []byte) *MBC2 {
	return &MBC2{rom: rom, romBank: 1}
}

func (m *MBC2) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x0F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr&0x01FF] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value byte) {
	switch {
	case addr < 0x4000:
		if addr&0x0100 == 0 {
			m.ramEnabled = (value & 0x0F) == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		m.ram[addr&0x01FF] = value & 0x0F
	}
}

// BatteryBacked implementation.
func (m *MBC2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *MBC2) LoadRAM(data []byte) {
	copy(m.ram[:], data)
}

type mbc2State struct {
	RAM        [512]byte
	RamEnabled bool
	RomBank    byte
}

// SaveState serializes banking registers and internal RAM.
func (m *MBC2) SaveState() []byte {
	var buf bytes.Buffer
	s := mbc2State{RAM: m.ram, RamEnabled: m.ramEnabled, RomBank: m.romBank}
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil
	}
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (m *MBC2) LoadState(data []byte) {
	if len(data) == 0 {
		return
	}
	var s mbc2State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	m.ram = s.RAM
	m.ramEnabled = s.RamEnabled
	m.romBank = s.RomBank
}
