package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC3 implements ROM/RAM banking. The RTC registers are addressable and
// latchable but the clock itself never advances, per the stubbed-RTC
// non-goal: games that merely poll the latch for a sane-looking value see
// one, but elapsed wall-clock time is not modeled.
// Banking behavior:
// - 0000-1FFF: RAM enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
// - 4000-5FFF: RAM bank (0-3) or RTC reg select (08-0C)
// - 6000-7FFF: Latch clock
// - A000-BFFF: External RAM or latched RTC register access when enabled
// ROM: bank 0 fixed at 0000-3FFF; switchable 4000-7FFF uses bank (1..127)

type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	ramBank    byte // 0..3, or an RTC register select (0x08..0x0C)

	rtc       [5]byte // S, M, H, DL, DH — latched, never ticks
	rtcLatch  byte    // tracks the 0x00->0x01 latch sequence
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	m.romBank = 1
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
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
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtc[m.ramBank-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		// 0..3 selects a RAM bank; 0x08..0x0C selects an RTC register.
		if value <= 0x03 || (value >= 0x08 && value <= 0x0C) {
			m.ramBank = value
		} else {
			m.ramBank = 0
		}
	case addr < 0x8000:
		// Latch sequence: write 0x00 then 0x01 to snapshot the (stubbed,
		// non-advancing) clock into the readable RTC registers.
		if m.rtcLatch == 0x00 && value == 0x01 {
			// no-op snapshot: rtc[] already holds the only values it will
			// ever hold, since the clock does not advance.
		}
		m.rtcLatch = value
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			return
		}
		if len(m.ram) == 0 {
			return
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

// BatteryBacked implementation. SaveRAM/LoadRAM cover external RAM only;
// the RTC registers are not part of the battery image (SaveState/LoadState
// carry them).
func (m *MBC3) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC3) LoadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

type mbc3State struct {
	RAM        []byte
	RamEnabled bool
	RomBank    byte
	RamBank    byte
	RTC        [5]byte
	RTCLatch   byte
}

// SaveState serializes banking registers, RTC latch state, and RAM.
func (m *MBC3) SaveState() []byte {
	var buf bytes.Buffer
	s := mbc3State{RAM: m.ram, RamEnabled: m.ramEnabled, RomBank: m.romBank, RamBank: m.ramBank, RTC: m.rtc, RTCLatch: m.rtcLatch}
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil
	}
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (m *MBC3) LoadState(data []byte) {
	if len(data) == 0 {
		return
	}
	var s mbc3State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	if len(s.RAM) > 0 {
		m.ram = s.RAM
	}
	m.ramEnabled = s.RamEnabled
	m.romBank = s.RomBank
	m.ramBank = s.RamBank
	m.rtc = s.RTC
	m.rtcLatch = s.RTCLatch
}
