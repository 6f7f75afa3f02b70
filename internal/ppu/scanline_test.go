package ppu

import "testing"

// buildTileMapRow populates mapBase+[0..n) with sequential tile numbers
// 0..n-1 and, for each, a distinguishable row at the given fineY so a test
// can tell which tile a given output pixel came from.
func buildTileMapRow(mem mockVRAM, mapBase uint16, n int, fineY byte) {
	for tile := 0; tile < n; tile++ {
		mem[mapBase+uint16(tile)] = byte(tile)
		base := uint16(0x8000+tile*16) + uint16(fineY)*2
		mem[base] = byte(tile)
		mem[base+1] = ^byte(tile)
	}
}

func TestScanlineFetcherSCXOffsetAndTileWrap(t *testing.T) {
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	buildTileMapRow(mem, mapBase, 32, 0)

	// scx=5 discards the first 5 pixels of tile0; the remaining 155 pixels
	// of the 160-wide line come from tiles 0 (partial), 1, 2, ...
	out := RenderBGScanlineUsingFetcher(mem, mapBase, true, 5, 0, 0)

	want0 := decodeRow(0, ^byte(0))
	for i := 0; i < 3; i++ {
		if out[i] != want0[5+i] {
			t.Fatalf("tile0 remainder px %d got %d want %d", i, out[i], want0[5+i])
		}
	}
	want1 := decodeRow(1, ^byte(1))
	for i := 0; i < 8; i++ {
		if out[3+i] != want1[i] {
			t.Fatalf("tile1 px %d got %d want %d", i, out[3+i], want1[i])
		}
	}
}

func TestScanlineFetcherSCYRowSelectAndMapWrap(t *testing.T) {
	// ly=0, scy=11 -> bgY=11 -> map row 1 (tiles 32..), fineY=3
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	fineY := byte(3)
	mem[mapBase+32+0] = 0
	mem[mapBase+32+1] = 1
	base0 := uint16(0x8000) + uint16(fineY)*2
	mem[base0], mem[base0+1] = 0x12, 0x34
	base1 := uint16(0x8000+16) + uint16(fineY)*2
	mem[base1], mem[base1+1] = 0x56, 0x78

	out := RenderBGScanlineUsingFetcher(mem, mapBase, true, 0, 11, 0)

	want0 := decodeRow(0x12, 0x34)
	for i, w := range want0 {
		if out[i] != w {
			t.Fatalf("tile0 px %d got %d want %d", i, out[i], w)
		}
	}
	want1 := decodeRow(0x56, 0x78)
	for i, w := range want1 {
		if out[8+i] != w {
			t.Fatalf("tile1 px %d got %d want %d", i, out[8+i], w)
		}
	}
}

func TestScanlineFetcherFullRowWrapsAtMapBoundary(t *testing.T) {
	// With scx pointing at the last map column, the row fetch must wrap
	// around to column 0 rather than reading out of the 32-tile row.
	mapBase := uint16(0x9800)
	mem := mockVRAM{}
	buildTileMapRow(mem, mapBase, 32, 0)
	// scx=31*8 starts the line at the last tile column (index 31).
	out := RenderBGScanlineUsingFetcher(mem, mapBase, true, 31*8, 0, 0)
	wantLast := decodeRow(31, ^byte(31))
	for i, w := range wantLast {
		if out[i] != w {
			t.Fatalf("wrapped tile31 px %d got %d want %d", i, out[i], w)
		}
	}
	wantFirst := decodeRow(0, ^byte(0))
	for i, w := range wantFirst {
		if out[8+i] != w {
			t.Fatalf("post-wrap tile0 px %d got %d want %d", i, out[8+i], w)
		}
	}
}
