package cpu

import (
	"github.com/eamonbaird/dmgcore/internal/bus"
	"github.com/eamonbaird/dmgcore/internal/interrupt"
)

// CPU implements the SM83 fetch/decode/execute loop, including HALT/STOP
// quirks and interrupt servicing against the shared interrupt controller.
type CPU struct {
	// 8-bit registers
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16

	IME     bool
	halted  bool
	stopped bool
	// EI enables IME after the following instruction
	eiPending bool
	// haltBugPending is set when HALT executes with IME=0 and an
	// interrupt already pending; the next fetch fails to advance PC.
	haltBugPending bool

	bus *bus.Bus
}

// New creates a CPU with default post-boot-like state (simplified).
func New(b *bus.Bus) *CPU {
	return &CPU{bus: b, SP: 0xFFFE, PC: 0x0000}
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() *bus.Bus { return c.bus }

// ResetNoBoot sets registers to typical DMG post-boot state.
// Useful when running without a boot ROM.
func (c *CPU) ResetNoBoot() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.IME = false
	c.halted = false
	c.stopped = false
	c.eiPending = false
	c.haltBugPending = false
}

// Flags helpers
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) setZNHC(z, n, h, carry bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func (c *CPU) sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < ((b & 0x0F) + ci)
	cy = int16(a) < int16(b)+int16(ci)
	return
}

func (c *CPU) and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	z = res == 0
	n = false
	h = true
	cy = false
	return
}

func (c *CPU) xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	z = res == 0
	n = false
	h = false
	cy = false
	return
}

func (c *CPU) or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	z = res == 0
	n = false
	h = false
	cy = false
	return
}

func (c *CPU) cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = c.sub8(a, b)
	return
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | (hi << 8)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | (hi << 8)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v&0x00FF))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.F = byte(v) & 0xF0 }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// regGet and regSet address the 8 operand slots a Z80/SM83 opcode's 3-bit
// register fields enumerate: B,C,D,E,H,L,(HL),A. Centralizing this mapping
// here means every opcode group that decodes a 3-bit register field — LD
// r,r', INC/DEC r, the register-operand ALU group, and the CB-prefixed bit
// ops — shares one lookup instead of repeating the same 8-way switch.
func (c *CPU) regGet(idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	case 7:
		return c.A
	}
	return 0
}

func (c *CPU) regSet(idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	case 7:
		c.A = v
	}
}

// reg16Get and reg16Set address the 4 slots the 16-bit load/INC/DEC/ADD HL
// opcode families select via bits 4-5 of the opcode: BC,DE,HL,SP.
func (c *CPU) reg16Get(idx byte) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	case 3:
		return c.SP
	}
	return 0
}

func (c *CPU) reg16Set(idx byte, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	case 3:
		c.SP = v
	}
}

// stackRegGet and stackRegSet address PUSH/POP's 4 slots, which substitute
// AF for SP in the otherwise-identical bits 4-5 encoding reg16Get/Set use.
func (c *CPU) stackRegGet(idx byte) uint16 {
	switch idx {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	case 3:
		return c.getAF()
	}
	return 0
}

func (c *CPU) stackRegSet(idx byte, v uint16) {
	switch idx {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	case 3:
		c.setAF(v)
	}
}

// condTrue evaluates one of the 4 branch conditions JR/JP/CALL/RET's
// conditional forms select via opcode bits 3-4: NZ, Z, NC, C.
func (c *CPU) condTrue(cc byte) bool {
	switch cc {
	case 0:
		return (c.F & flagZ) == 0
	case 1:
		return (c.F & flagZ) != 0
	case 2:
		return (c.F & flagC) == 0
	case 3:
		return (c.F & flagC) != 0
	}
	return false
}

// incReg and decReg implement the 8-bit register/[(HL)] forms of INC/DEC,
// sharing the flag computation (Z from the result, H from the low nibble
// carry/borrow, C left untouched) across all 7 registers plus memory.
func (c *CPU) incReg(idx byte) {
	old := c.regGet(idx)
	v := old + 1
	c.regSet(idx, v)
	c.setZNHC(v == 0, false, (old&0x0F) == 0x0F, (c.F&flagC) != 0)
}

func (c *CPU) decReg(idx byte) {
	old := c.regGet(idx)
	v := old - 1
	c.regSet(idx, v)
	c.setZNHC(v == 0, true, (old&0x0F) == 0x00, (c.F&flagC) != 0)
}

// Step services any pending interrupt, then executes one instruction and
// returns the number of T-cycles consumed.
func (c *CPU) Step() (cycles int) {
	// EI armed before this step takes effect once this step's instruction
	// (the one following EI) has completed.
	eiArmed := c.eiPending
	// Advance timers on return with the cycles consumed in this step
	defer func() {
		if c.bus != nil && cycles > 0 {
			c.bus.Tick(cycles)
		}
		if eiArmed && c.eiPending {
			c.IME = true
			c.eiPending = false
		}
	}()

	ic := c.bus.Interrupts()

	if c.stopped {
		if ic.ReadIF()&(1<<uint(interrupt.Joypad)) != 0 {
			c.stopped = false
		} else {
			return 4
		}
	}

	// Interrupt servicing helper: priority order VBlank, STAT, Timer, Serial, Joypad.
	serviceInterrupt := func() int {
		bit, ok := ic.Next()
		if !ok {
			return 0
		}
		ic.Acknowledge(bit)
		c.halted = false
		c.IME = false
		c.push16(c.PC)
		c.PC = interrupt.Vectors[bit]
		return 20
	}

	if c.halted {
		if ic.Pending() {
			if c.IME {
				if cyc := serviceInterrupt(); cyc != 0 {
					return cyc
				}
			}
			// IME=0 with a pending interrupt wakes the CPU without servicing it.
			c.halted = false
		} else {
			return 4
		}
	}

	if c.IME {
		if cyc := serviceInterrupt(); cyc != 0 {
			return cyc
		}
	}

	op := c.fetch8()
	if c.haltBugPending {
		// HALT with IME=0 and a pending interrupt fails to increment PC
		// after the following fetch, so the byte just read is re-fetched
		// as the next opcode.
		c.haltBugPending = false
		c.PC--
	}
	switch op {
	case 0x00: // NOP
		return 4

	// LD r,d8 and LD (HL),d8 share one 3-bit-register dispatch; (HL) costs
	// 4 extra cycles for the memory write.
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		idx := (op >> 3) & 7
		c.regSet(idx, c.fetch8())
		if idx == 6 {
			return 12
		}
		return 8

	// LD r,r' and LD (HL),r / LD r,(HL). This spans every d,s pair in
	// 0x40-0x7F except 0x76, which the encoding reuses for HALT instead of
	// LD (HL),(HL) and is handled separately below.
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		d := (op >> 3) & 7
		s := op & 7
		c.regSet(d, c.regGet(s))
		if d == 6 || s == 6 {
			return 8
		}
		return 4

	// 16-bit loads
	case 0x01, 0x11, 0x21, 0x31: // LD rr,d16
		c.reg16Set((op>>4)&3, c.fetch16())
		return 12
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.write16(addr, c.SP)
		return 20

	// LD (BC),A / (DE),A and A,(BC)/(DE)
	case 0x02:
		c.write8(c.getBC(), c.A)
		return 8
	case 0x12:
		c.write8(c.getDE(), c.A)
		return 8
	case 0x0A:
		c.A = c.read8(c.getBC())
		return 8
	case 0x1A:
		c.A = c.read8(c.getDE())
		return 8

	// LDI/LDD via HL
	case 0x22: // LD (HL+),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 8
	case 0x2A: // LD A,(HL+)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 8
	case 0x32: // LD (HL-),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 8
	case 0x3A: // LD A,(HL-)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 8

	// LDH (FF00+n),A and A,(FF00+n)
	case 0xE0:
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 12
	case 0xF0:
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 12

	// Rotates and flag ops
	case 0x07: // RLCA
		cval := (c.A >> 7) & 1
		c.A = (c.A << 1) | byte(cval)
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x0F: // RRCA
		cval := c.A & 1
		c.A = (c.A >> 1) | (cval << 7)
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x17: // RLA
		cval := (c.A >> 7) & 1
		carry := byte(0)
		if (c.F & flagC) != 0 {
			carry = 1
		}
		c.A = (c.A << 1) | carry
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x1F: // RRA
		cval := c.A & 1
		carry := byte(0)
		if (c.F & flagC) != 0 {
			carry = 1
		}
		c.A = (c.A >> 1) | (carry << 7)
		c.setZNHC(false, false, false, cval == 1)
		return 4
	case 0x27: // DAA
		a := c.A
		cf := (c.F & flagC) != 0
		if (c.F & flagN) == 0 { // after addition
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if (c.F&flagH) != 0 || (a&0x0F) > 9 {
				a += 0x06
			}
		} else { // after subtraction
			if cf {
				a -= 0x60
			}
			if (c.F & flagH) != 0 {
				a -= 0x06
			}
		}
		c.A = a
		c.setZNHC(c.A == 0, (c.F&flagN) != 0, false, cf)
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		// N and H set, C unchanged, Z unchanged
		c.F = (c.F & (flagZ | flagC)) | flagN | flagH
		return 4
	case 0x37: // SCF
		c.F = (c.F & flagZ) | flagC
		return 4
	case 0x3F: // CCF
		if (c.F & flagC) != 0 {
			c.F = c.F &^ flagC
		} else {
			c.F |= flagC
		}
		c.F &^= (flagN | flagH)
		c.F &= (flagZ | flagC)
		return 4

	case 0xE2:
		c.write8(0xFF00+uint16(c.C), c.A)
		return 8
	case 0xF2:
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 8

	// INC r / DEC r for all registers and (HL)
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		idx := (op >> 3) & 7
		c.incReg(idx)
		if idx == 6 {
			return 12
		}
		return 4
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		idx := (op >> 3) & 7
		c.decReg(idx)
		if idx == 6 {
			return 12
		}
		return 4

	// ADD/ADC/SUB/SBC/AND/XOR/OR/CP with a register operand; the
	// register source is decoded once by regGet rather than repeating an
	// 8-way switch in each of these 8 groups.
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x87:
		r, z, n, h, cy := c.add8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8F:
		r, z, n, h, cy := c.adc8(c.A, c.regGet(op&7), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x97:
		r, z, n, h, cy := c.sub8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9F:
		r, z, n, h, cy := c.sbc8(c.A, c.regGet(op&7), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA7:
		r, z, n, h, cy := c.and8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAF:
		r, z, n, h, cy := c.xor8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB7:
		r, z, n, h, cy := c.or8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 4
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBF:
		z, n, h, cy := c.cp8(c.A, c.regGet(op&7))
		c.setZNHC(z, n, h, cy)
		return 4

	// ALU with (HL) operand
	case 0x86:
		r, z, n, h, cy := c.add8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x8E:
		r, z, n, h, cy := c.adc8(c.A, c.read8(c.getHL()), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x96:
		r, z, n, h, cy := c.sub8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0x9E:
		r, z, n, h, cy := c.sbc8(c.A, c.read8(c.getHL()), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xA6:
		r, z, n, h, cy := c.and8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xAE:
		r, z, n, h, cy := c.xor8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xB6:
		r, z, n, h, cy := c.or8(c.A, c.read8(c.getHL()))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xBE:
		z, n, h, cy := c.cp8(c.A, c.read8(c.getHL()))
		c.setZNHC(z, n, h, cy)
		return 8

	// ALU immediate
	case 0xC6:
		r, z, n, h, cy := c.add8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xCE:
		r, z, n, h, cy := c.adc8(c.A, c.fetch8(), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xD6:
		r, z, n, h, cy := c.sub8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xDE:
		r, z, n, h, cy := c.sbc8(c.A, c.fetch8(), (c.F&flagC) != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xE6:
		r, z, n, h, cy := c.and8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xEE:
		r, z, n, h, cy := c.xor8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xF6:
		r, z, n, h, cy := c.or8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 8
	case 0xFE:
		z, n, h, cy := c.cp8(c.A, c.fetch8())
		c.setZNHC(z, n, h, cy)
		return 8

	case 0xEA: // LD (a16),A
		addr := c.fetch16()
		c.write8(addr, c.A)
		return 16
	case 0xFA: // LD A,(a16)
		addr := c.fetch16()
		c.A = c.read8(addr)
		return 16

	case 0xC3: // JP a16
		addr := c.fetch16()
		c.PC = addr
		return 16
	case 0xE9: // JP (HL)
		c.PC = c.getHL()
		return 4
	case 0x18: // JR r8
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12

	// JR cc,r8 — condTrue shares the NZ/Z/NC/C decode with the
	// conditional CALL/RET/JP forms below.
	case 0x20, 0x28, 0x30, 0x38:
		off := int8(c.fetch8())
		if c.condTrue((op >> 3) & 3) {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12
		}
		return 8

	// CALL/RET
	case 0xCD: // CALL a16
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	case 0xC9: // RET
		c.PC = c.pop16()
		return 16
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.IME = true
		return 16

	// RST t: opcode bits 3-5 give the target directly, as t*8.
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(op & 0x38)
		return 16

	// CALL cc,a16
	case 0xC4, 0xCC, 0xD4, 0xDC:
		addr := c.fetch16()
		if c.condTrue((op >> 3) & 3) {
			c.push16(c.PC)
			c.PC = addr
			return 24
		}
		return 12

	// RET cc
	case 0xC0, 0xC8, 0xD0, 0xD8:
		if c.condTrue((op >> 3) & 3) {
			c.PC = c.pop16()
			return 20
		}
		return 8

	// JP cc,a16
	case 0xC2, 0xCA, 0xD2, 0xDA:
		addr := c.fetch16()
		if c.condTrue((op >> 3) & 3) {
			c.PC = addr
			return 16
		}
		return 12

	// 16-bit INC/DEC and ADD HL,rr
	case 0x03, 0x13, 0x23, 0x33:
		idx := (op >> 4) & 3
		c.reg16Set(idx, c.reg16Get(idx)+1)
		return 8
	case 0x0B, 0x1B, 0x2B, 0x3B:
		idx := (op >> 4) & 3
		c.reg16Set(idx, c.reg16Get(idx)-1)
		return 8
	case 0x09, 0x19, 0x29, 0x39:
		idx := (op >> 4) & 3
		hl := c.getHL()
		rr := c.reg16Get(idx)
		r := uint32(hl) + uint32(rr)
		h := ((hl & 0x0FFF) + (rr & 0x0FFF)) > 0x0FFF
		c.setHL(uint16(r))
		c.setZNHC((c.F&flagZ) != 0, false, h, r > 0xFFFF)
		return 8

	// Stack/SP ops
	case 0xF8: // LD HL,SP+r8
		off := int8(c.fetch8())
		res := uint16(int32(int16(c.SP)) + int32(off))
		// Flags: Z=0,N=0,H,C set from lower byte carry
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(res)
		c.setZNHC(false, false, h, cy)
		return 12
	case 0xF9: // LD SP,HL
		c.SP = c.getHL()
		return 8
	case 0xE8: // ADD SP,r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		res := uint16(int32(int16(c.SP)) + int32(off))
		c.SP = res
		c.setZNHC(false, false, h, cy)
		return 16

	// EI/DI
	case 0xF3: // DI
		c.IME = false
		c.eiPending = false
		return 4
	case 0xFB: // EI (enable after following instruction)
		c.eiPending = true
		return 4

	// CB prefix: rotate/shift/swap, BIT, RES, SET, all addressed through
	// the same 3-bit register field regGet/regSet decode elsewhere.
	case 0xCB:
		cb := c.fetch8()
		reg := cb & 7
		opg := (cb >> 6) & 3
		y := (cb >> 3) & 7

		cycles := 8
		if reg == 6 {
			if opg == 1 { // BIT y,(HL) reads only, no writeback
				cycles = 12
			} else {
				cycles = 16
			}
		}
		switch opg {
		case 0: // rotate/shift/swap
			v := c.regGet(reg)
			var cflag byte
			switch y {
			case 0: // RLC
				cflag = (v >> 7) & 1
				v = (v << 1) | cflag
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 1: // RRC
				cflag = v & 1
				v = (v >> 1) | (cflag << 7)
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 2: // RL
				cflag = (v >> 7) & 1
				cin := byte(0)
				if (c.F & flagC) != 0 {
					cin = 1
				}
				v = (v << 1) | cin
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 3: // RR
				cflag = v & 1
				cin := byte(0)
				if (c.F & flagC) != 0 {
					cin = 1
				}
				v = (v >> 1) | (cin << 7)
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 4: // SLA
				cflag = (v >> 7) & 1
				v <<= 1
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 5: // SRA
				cflag = v & 1
				v = (v >> 1) | (v & 0x80)
				c.setZNHC(v == 0, false, false, cflag == 1)
			case 6: // SWAP
				v = (v << 4) | (v >> 4)
				c.setZNHC(v == 0, false, false, false)
			case 7: // SRL
				cflag = v & 1
				v >>= 1
				c.setZNHC(v == 0, false, false, cflag == 1)
			}
			c.regSet(reg, v)
		case 1: // BIT y, r
			v := c.regGet(reg)
			bit := (v >> y) & 1
			z := bit == 0
			// Z set if bit=0, N=0, H=1, C unchanged
			c.F = (c.F & flagC) | flagH
			if z {
				c.F |= flagZ
			}
		case 2: // RES y, r
			c.regSet(reg, c.regGet(reg)&^(1<<y))
		case 3: // SET y, r
			c.regSet(reg, c.regGet(reg)|(1<<y))
		}
		return cycles

	// PUSH/POP
	case 0xC5, 0xD5, 0xE5, 0xF5:
		c.push16(c.stackRegGet((op >> 4) & 3))
		return 16
	case 0xC1, 0xD1, 0xE1, 0xF1:
		c.stackRegSet((op>>4)&3, c.pop16())
		return 12

	case 0x76: // HALT
		if !c.IME && c.bus.Interrupts().Pending() {
			c.haltBugPending = true
		} else {
			c.halted = true
		}
		return 4

	case 0x10: // STOP
		c.fetch8() // second opcode byte, ignored
		c.stopped = true
		return 4

	default:
		// Unimplemented opcodes: act as NOP for now (to keep tests simple)
		return 4
	}
}

