package ppu

import "testing"

// statMode reads the current STAT mode bits (FF41 bits 0-1).
func statMode(p *PPU) byte { return p.CPURead(0xFF41) & 0x03 }

// irqRecorder collects the interrupt-request bit numbers a PPU raises, in
// the order it raises them, so tests can check both "did bit N fire" and
// "how many times."
type irqRecorder struct{ bits []int }

func (r *irqRecorder) request(bit int) { r.bits = append(r.bits, bit) }

func (r *irqRecorder) count(bit int) int {
	n := 0
	for _, b := range r.bits {
		if b == bit {
			n++
		}
	}
	return n
}

func TestPPUModeSequenceOneLine(t *testing.T) {
	rec := &irqRecorder{}
	p := New(rec.request)
	p.CPUWrite(0xFF40, 0x80) // LCD on

	stages := []struct {
		name     string
		advance  int
		wantMode byte
	}{
		{"power-on enters OAM search", 0, 2},
		{"80 dots into line: drawing", 80, 3},
		{"252 dots into line: hblank", 172, 0},
		{"end of line: next OAM search", 456 - 252, 2},
	}
	for _, s := range stages {
		p.Tick(s.advance)
		if m := statMode(p); m != s.wantMode {
			t.Fatalf("%s: mode=%d want %d", s.name, m, s.wantMode)
		}
	}
	if ly := p.CPURead(0xFF44); ly != 1 {
		t.Fatalf("expected LY=1 after one full line, got %d", ly)
	}
}

func TestPPUVBlankAndSTATOnVBlank(t *testing.T) {
	rec := &irqRecorder{}
	p := New(rec.request)
	p.CPUWrite(0xFF41, 1<<4) // STAT interrupt on VBlank entry
	p.CPUWrite(0xFF40, 0x80)
	p.Tick(144 * 456) // reach start of LY=144

	if rec.count(0) == 0 {
		t.Fatal("expected at least one VBlank IRQ (bit 0) at LY=144")
	}
	if rec.count(1) == 0 {
		t.Fatal("expected STAT IRQ (bit 1) on VBlank entry when enabled")
	}
}

func TestSTATModeAndLYCCoincidence(t *testing.T) {
	rec := &irqRecorder{}
	p := New(rec.request)
	p.CPUWrite(0xFF41, (1<<3)|(1<<5)|(1<<6)) // HBlank, OAM, LYC STAT sources
	p.CPUWrite(0xFF45, 2)                    // LYC=2
	p.CPUWrite(0xFF40, 0x80)

	p.Tick(456 + 80) // line 0 runs with STAT suppressed after LCD-on; now in mode 3 of line 1
	rec.bits = rec.bits[:0]
	p.Tick(172) // enter HBlank of line 1
	if rec.count(1) == 0 {
		t.Fatal("expected STAT IRQ on HBlank when enabled")
	}

	rec.bits = rec.bits[:0]
	p.Tick((456 - (80 + 172)) + 1) // finish line 1, into line 2
	if rec.count(1) == 0 {
		t.Fatal("expected STAT IRQ on LYC coincidence at LY=2")
	}
}
