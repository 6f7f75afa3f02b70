package ppu

import "testing"

func TestWindowScanlineFetcherWXAndTiles(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := mockVRAM{mapBase + 0: 0, mapBase + 1: 1}
	fineY := byte(2)
	base0 := uint16(0x8000) + uint16(fineY)*2
	mem[base0], mem[base0+1] = 0xAA, 0x0F
	base1 := uint16(0x8000+16) + uint16(fineY)*2
	mem[base1], mem[base1+1] = 0x55, 0xF0

	out := RenderWindowScanlineUsingFetcher(mem, mapBase, true, 20, fineY)

	for x := 0; x < 20; x++ {
		if out[x] != 0 {
			t.Fatalf("pre-window px %d = %d, want 0", x, out[x])
		}
	}
	want0 := decodeRow(0xAA, 0x0F)
	for i, w := range want0 {
		if out[20+i] != w {
			t.Fatalf("tile0 px %d got %d want %d", i, out[20+i], w)
		}
	}
	want1 := decodeRow(0x55, 0xF0)
	for i, w := range want1 {
		if out[28+i] != w {
			t.Fatalf("tile1 px %d got %d want %d", i, out[28+i], w)
		}
	}
}

func TestWindowScanlineFetcherWXZeroStartsAtColumnZero(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := mockVRAM{mapBase: 7}
	base := uint16(0x8000+7*16) + 0
	mem[base], mem[base+1] = 0x3C, 0xC3

	out := RenderWindowScanlineUsingFetcher(mem, mapBase, true, 0, 0)

	want := decodeRow(0x3C, 0xC3)
	for i, w := range want {
		if out[i] != w {
			t.Fatalf("px %d got %d want %d", i, out[i], w)
		}
	}
}

func TestWindowScanlineFetcherOffscreenWXIsEmpty(t *testing.T) {
	mem := mockVRAM{}
	out := RenderWindowScanlineUsingFetcher(mem, 0x9800, true, 160, 0)
	for x, v := range out {
		if v != 0 {
			t.Fatalf("px %d = %d, want 0 when window starts past the right edge", x, v)
		}
	}
}
