package ppu

// scanline.go drains the fetcher/FIFO pair from fetcher.go across a full
// visible line, producing the 160 raw BG or window color indices render.go
// composites with sprites and the active palette.

// fetchRow is the shared drive loop behind both the BG and window scanline
// renderers: prime the fetcher at the first tile, discard any skipped lead
// pixels, then keep pulling pixels out of the FIFO into out[from:160],
// advancing to the next map column each time it runs dry.
func fetchRow(f *bgFetcher, skip, from int, out *[160]byte) {
	f.Fetch()
	f.fifo.Discard(skip)
	for x := from; x < 160; x++ {
		if f.fifo.Len() == 0 {
			f.Advance()
			f.Fetch()
		}
		px, _ := f.fifo.Pop()
		out[x] = px
	}
}

// RenderBGScanlineUsingFetcher renders 160 BG pixels for the given LY.
// mapBase selects the 0x9800/0x9C00 tile map, tileData8000 selects the
// 0x8000/0x8800 tile-data addressing mode, scx/scy are the scroll
// registers, and ly is the current line (0..143).
func RenderBGScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	startX := uint16(scx)
	tileX := (startX >> 3) & 31
	fineX := int(startX & 7)

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, mapBase+mapY*32+tileX, fineY)
	fetchRow(f, fineX, 0, &out)
	return out
}

// RenderWindowScanlineUsingFetcher renders the window layer for a scanline.
// Pixels left of wxStart (WX-7) are left at color index 0 so the caller can
// blend the window in over an already-rendered BG row. winLine is the
// window's own internal line counter, which only advances on lines the
// window is actually drawn.
func RenderWindowScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}

	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, mapBase+mapY*32, fineY)
	fetchRow(f, 0, wxStart, &out)
	return out
}
