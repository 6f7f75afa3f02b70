package cpu

import (
	"testing"

	"github.com/eamonbaird/dmgcore/internal/joypad"
)

func TestCPU_HaltWakesAndServicesOnTimerInterrupt(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000], rom[0x0001] = 0x76, 0x00 // HALT; NOP
	rom[0x0040] = 0xFB // EI, at the VBlank vector just to prove it's never reached
	c := newCPUWithROM(rom)
	c.IME = true
	c.Bus().Write(0xFFFF, 0x04) // enable Timer
	cyc := c.Step()
	if cyc != 4 || !c.halted {
		t.Fatalf("expected CPU to halt, cyc=%d halted=%v", cyc, c.halted)
	}

	c.Bus().Write(0xFF0F, 0x04) // request Timer interrupt
	cyc = c.Step()
	if c.halted {
		t.Fatalf("CPU should have woken from HALT")
	}
	if cyc != 20 {
		t.Fatalf("interrupt service cycles got %d want 20", cyc)
	}
	if c.PC != 0x50 {
		t.Fatalf("PC after servicing Timer interrupt got %#04x want 0x0050", c.PC)
	}
	if c.IME {
		t.Fatalf("IME should be cleared while servicing an interrupt")
	}
}

func TestCPU_HaltBugDuplicatesNextFetch(t *testing.T) {
	// HALT with IME=0 and an interrupt already pending triggers the bug:
	// the byte after HALT is fetched twice.
	c := newCPUWithROM([]byte{0x76, 0x3E, 0x99}) // HALT; LD A,0x99
	c.IME = false
	c.Bus().Write(0xFFFF, 0x01)
	c.Bus().Write(0xFF0F, 0x01)

	c.Step() // HALT: sets haltBugPending, does not actually sleep
	if c.halted {
		t.Fatalf("HALT bug should not leave the CPU halted")
	}
	if c.PC != 1 {
		t.Fatalf("PC after buggy HALT got %#04x want 1", c.PC)
	}

	c.Step() // re-fetches opcode at PC=1 (0x3E) but PC fails to advance past it
	if c.PC != 2 {
		t.Fatalf("PC after halt-bug fetch got %#04x want 2", c.PC)
	}
}

func TestCPU_StopSleepsUntilJoypadEdge(t *testing.T) {
	c := newCPUWithROM([]byte{0x10, 0x00, 0x00}) // STOP 00; NOP
	c.Step()                                     // STOP
	if !c.stopped {
		t.Fatalf("expected CPU to be stopped")
	}
	if cyc := c.Step(); cyc != 4 {
		t.Fatalf("stopped CPU should idle, got cyc=%d", cyc)
	}
	if c.PC != 2 {
		t.Fatalf("PC should not advance while stopped, got %#04x", c.PC)
	}

	c.Bus().Write(0xFF00, 0x20)
	c.Bus().SetJoypadState(joypad.State{Down: true})
	c.Step()
	if c.stopped {
		t.Fatalf("CPU should wake from STOP on joypad edge")
	}
}

func TestCPU_BitHLCostsTwelveCycles(t *testing.T) {
	c := newCPUWithROM([]byte{0xCB, 0x46}) // BIT 0,(HL)
	c.setHL(0xC000)
	cyc := c.Step()
	if cyc != 12 {
		t.Fatalf("BIT 0,(HL) cycles got %d want 12", cyc)
	}
}

func TestCPU_ResHLCostsSixteenCycles(t *testing.T) {
	c := newCPUWithROM([]byte{0xCB, 0x86}) // RES 0,(HL)
	c.setHL(0xC000)
	cyc := c.Step()
	if cyc != 16 {
		t.Fatalf("RES 0,(HL) cycles got %d want 16", cyc)
	}
}
