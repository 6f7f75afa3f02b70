package ppu

import "testing"

// advanceLines ticks the PPU forward by n full visible lines (456 dots each).
func advanceLines(p *PPU, n int) { p.Tick(456 * n) }

func TestWindowActivationAndCounter(t *testing.T) {
	p := New(nil)
	p.CPUWrite(0xFF40, 0x80|0x01|0x20) // LCD+BG+Window on
	p.CPUWrite(0xFF4A, 10)             // WY=10
	p.CPUWrite(0xFF4B, 7)              // WX=7 -> winXStart=0

	cases := []struct {
		ly          int
		wantWinLine byte
	}{
		{10, 0}, // first line the window is visible, counter hasn't advanced yet
		{11, 1}, // one line later, counter ticks
	}
	for i, c := range cases {
		if i == 0 {
			advanceLines(p, c.ly)
		} else {
			advanceLines(p, 1)
		}
		p.Tick(80) // enter mode 3 of the line, before it is rendered
		if lr := p.LineRegs(c.ly); lr.WinLine != c.wantWinLine {
			t.Fatalf("ly=%d: WinLine=%d want %d", c.ly, lr.WinLine, c.wantWinLine)
		}
	}
}

func TestWindowNotVisibleWhenWXTooLarge(t *testing.T) {
	p := New(nil)
	p.CPUWrite(0xFF40, 0x80|0x01|0x20)
	p.CPUWrite(0xFF4A, 5) // WY=5
	p.CPUWrite(0xFF4B, 200)
	advanceLines(p, 8)

	for y := 5; y <= 12; y++ {
		if lr := p.LineRegs(y); lr.WinLine != 0 {
			t.Fatalf("y=%d: WinLine=%d, want 0 when WX>166 keeps the window off", y, lr.WinLine)
		}
	}
}
