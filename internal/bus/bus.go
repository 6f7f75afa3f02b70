// Package bus implements the DMG address-space dispatcher: it routes CPU
// reads/writes to the cartridge, work RAM, high RAM, and the owning
// subsystem for each I/O register, and it advances every passive
// subsystem (timer, PPU, APU, DMA) in lockstep as the CPU consumes
// machine cycles.
package bus

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"

	"github.com/eamonbaird/dmgcore/internal/apu"
	"github.com/eamonbaird/dmgcore/internal/cart"
	"github.com/eamonbaird/dmgcore/internal/dma"
	"github.com/eamonbaird/dmgcore/internal/interrupt"
	"github.com/eamonbaird/dmgcore/internal/joypad"
	"github.com/eamonbaird/dmgcore/internal/ppu"
	"github.com/eamonbaird/dmgcore/internal/timer"
)

// Bus wires CPU-visible address space to the cartridge, WRAM, HRAM, and
// every memory-mapped subsystem.
type Bus struct {
	cart cart.Cartridge

	// Work RAM (WRAM) 8 KiB at 0xC000–0xDFFF; Echo 0xE000–0xFDFF mirrors C000–DDFF.
	wram [0x2000]byte

	// High RAM (HRAM) 0xFF80–0xFFFE (127 bytes)
	hram [0x7F]byte

	ppu   *ppu.PPU
	apu   *apu.APU
	ic    *interrupt.Controller
	timer *timer.Timer
	pad   *joypad.Pad
	dma   *dma.Engine

	// Serial
	sb byte      // FF01 data
	sc byte      // FF02 control (bit7 start, bit0 clock source; immediate external completion)
	sw io.Writer // sink for serial output (optional)

	// Boot ROM support
	bootROM     []byte
	bootEnabled bool

	// debug
	trace bool
}

// New constructs a Bus with a ROM-only cartridge for convenience.
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewCartridge(rom), 48000)
}

// NewWithCartridge wires a provided cartridge implementation and an APU
// running at sampleRate.
func NewWithCartridge(c cart.Cartridge, sampleRate int) *Bus {
	b := &Bus{cart: c}
	b.ic = interrupt.New()
	b.ppu = ppu.New(func(bit int) { b.ic.Request(bit) })
	b.apu = apu.New(sampleRate)
	b.timer = timer.New(func(bit int) { b.ic.Request(bit) })
	b.pad = joypad.New(func(bit int) { b.ic.Request(bit) })
	b.dma = dma.New()
	if os.Getenv("GB_DEBUG_TIMER") != "" {
		b.trace = true
	}
	return b
}

// PPU returns the internal PPU for read-only rendering helpers.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// APU returns the internal APU so the host can pull audio samples.
func (b *Bus) APU() *apu.APU { return b.apu }

// Cart returns the underlying cartridge for optional battery operations.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetTrace sets the bus's trace flag, which NewWithCartridge also sets when
// the GB_DEBUG_TIMER env var is non-empty. No code reads the flag, so it
// does not produce any diagnostic output.
func (b *Bus) SetTrace(v bool) { b.trace = v }

func (b *Bus) Read(addr uint16) byte {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return 0xFF
	}
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		mirror := addr - 0x2000
		return b.wram[mirror-0xC000]
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.CPURead(addr)
	case addr == 0xFF00:
		return b.pad.Read()
	case addr == 0xFF04:
		return b.timer.ReadDIV()
	case addr == 0xFF05:
		return b.timer.ReadTIMA()
	case addr == 0xFF06:
		return b.timer.ReadTMA()
	case addr == 0xFF07:
		return b.timer.ReadTAC()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr >= 0xFF10 && addr <= 0xFF26:
		return b.apu.CPURead(addr)
	case addr >= 0xFF30 && addr <= 0xFF3F:
		return b.apu.CPURead(addr)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return 0xFF
	case addr == 0xFF50:
		return 0xFF
	case addr == 0xFF0F:
		return b.ic.ReadIF()
	case addr == 0xFFFF:
		return b.ic.ReadIE()
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0x00 // unmapped on DMG
	}
	return 0xFF
}

// ReadForDMA is used only by the DMA engine: it must read the source page
// regardless of the "only HRAM visible during DMA" restriction that
// applies to ordinary CPU reads.
func (b *Bus) ReadForDMA(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	default:
		return 0xFF
	}
}

// WriteOAM is used only by the DMA engine to deposit a byte directly into
// OAM, bypassing the mode-2/3 CPU-access block that a DMA transfer itself
// is exempt from.
func (b *Bus) WriteOAM(index int, v byte) {
	b.ppu.CPUWrite(0xFE00+uint16(index), v)
}

func (b *Bus) Write(addr uint16, value byte) {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return
	}
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
		return
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
		return
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
		return
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
		return
	case addr >= 0xE000 && addr <= 0xFDFF:
		mirror := addr - 0x2000
		if mirror >= 0xC000 && mirror <= 0xDDFF {
			b.wram[mirror-0xC000] = value
		}
		return
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
		return
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.CPUWrite(addr, value)
		return
	case addr == 0xFF00:
		b.pad.Write(value)
		return
	case addr == 0xFF04:
		b.timer.WriteDIV()
		return
	case addr == 0xFF05:
		b.timer.WriteTIMA(value)
		return
	case addr == 0xFF06:
		b.timer.WriteTMA(value)
		return
	case addr == 0xFF07:
		b.timer.WriteTAC(value)
		return
	case addr == 0xFF01:
		b.sb = value
		return
	case addr == 0xFF02:
		b.sc = value & 0x81
		if (b.sc & 0x80) != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ic.Request(interrupt.Serial)
			b.sc &^= 0x80
		}
		return
	case addr >= 0xFF10 && addr <= 0xFF26:
		b.apu.CPUWrite(addr, value)
		return
	case addr >= 0xFF30 && addr <= 0xFF3F:
		b.apu.CPUWrite(addr, value)
		return
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
		return
	case addr == 0xFF46:
		b.dma.Start(value)
		return
	case addr == 0xFF50:
		if value != 0x00 {
			b.bootEnabled = false
		}
		return
	case addr == 0xFF0F:
		b.ic.WriteIF(value)
		return
	case addr == 0xFFFF:
		b.ic.WriteIE(value)
		return
	}
}

// SetJoypadState replaces the current button snapshot.
func (b *Bus) SetJoypadState(s joypad.State) { b.pad.SetState(s) }

// SetSerialWriter sets a sink that receives bytes written via the serial port.
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// SetBootROM loads a DMG boot ROM to be mapped at 0x0000-0x00FF until disabled via 0xFF50 write.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// Interrupts exposes the interrupt controller for the CPU's service loop.
func (b *Bus) Interrupts() *interrupt.Controller { return b.ic }

// Tick advances every passive subsystem by the given number of T-cycles,
// one cycle at a time so the APU's frame sequencer can be driven off the
// timer's own DIV bit 13 falling edge rather than a free-running counter.
func (b *Bus) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		b.timer.Tick(1)
		b.ppu.Tick(1)
		b.apu.TickOne(b.timer.DivBit13Fell())
		if i%4 == 3 { // DMA copies one byte per machine cycle (4 T-cycles)
			b.dma.Tick(b)
		}
	}
}

// --- Save/Load state ---

type busState struct {
	WRAM        [0x2000]byte
	HRAM        [0x7F]byte
	SB, SC      byte
	BootEnabled bool

	Interrupt interrupt.State
	Timer     timer.State
	Joypad    joypad.StateSnapshot
	DMA       dma.State

	PPU  []byte
	APU  []byte
	Cart []byte
}

// SaveState serializes the full bus-owned machine state, including every
// subsystem it composes.
func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	s := busState{
		WRAM: b.wram, HRAM: b.hram,
		SB: b.sb, SC: b.sc, BootEnabled: b.bootEnabled,
		Interrupt: b.ic.Save(),
		Timer:     b.timer.Save(),
		Joypad:    b.pad.Save(),
		DMA:       b.dma.Save(),
		PPU:       b.ppu.SaveState(),
		APU:       b.apu.SaveState(),
	}
	if cs, ok := b.cart.(interface{ SaveState() []byte }); ok {
		s.Cart = cs.SaveState()
	}
	if err := enc.Encode(s); err != nil {
		return nil
	}
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState.
func (b *Bus) LoadState(data []byte) {
	dec := gob.NewDecoder(bytes.NewReader(data))
	var s busState
	if err := dec.Decode(&s); err != nil {
		return
	}
	b.wram = s.WRAM
	b.hram = s.HRAM
	b.sb, b.sc, b.bootEnabled = s.SB, s.SC, s.BootEnabled
	b.ic.Restore(s.Interrupt)
	b.timer.Restore(s.Timer)
	b.pad.Restore(s.Joypad)
	b.dma.Restore(s.DMA)
	b.ppu.LoadState(s.PPU)
	b.apu.LoadState(s.APU)
	if cs, ok := b.cart.(interface{ LoadState([]byte) }); ok {
		cs.LoadState(s.Cart)
	}
}
