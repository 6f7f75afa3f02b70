package ppu

// render.go wires the isolated fetcher/FIFO helpers in fetcher.go and
// scanline.go into the PPU's own mode timing, adding OAM scanning and
// sprite compositing so Tick produces a real 160x144 frame instead of
// only register/interrupt state.

// vramAdapter lets the scanline helpers address the PPU's VRAM array by
// absolute CPU address without the PPU needing to expose the array.
type vramAdapter struct{ p *PPU }

func (a vramAdapter) Read(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return a.p.vram[addr-0x8000]
	}
	return 0xFF
}

// spriteEntry is one OAM-scan hit, carrying enough of the 4-byte OAM
// record to composite later in the line.
type spriteEntry struct {
	y, x, tile, attrs byte
	oamIndex          int
}

// scanOAM selects up to 10 sprites whose vertical extent covers ly, in
// ascending OAM-index order; later matches on the same line are dropped
// once 10 are already selected, per the hardware cap.
func (p *PPU) scanOAM(ly byte) []spriteEntry {
	tall := p.lcdc&0x04 != 0
	height := byte(8)
	if tall {
		height = 16
	}
	var hits []spriteEntry
	for i := 0; i < 40 && len(hits) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		x := p.oam[base+1]
		tile := p.oam[base+2]
		attrs := p.oam[base+3]
		top := int(y) - 16
		if int(ly) >= top && int(ly) < top+int(height) {
			hits = append(hits, spriteEntry{y: y, x: x, tile: tile, attrs: attrs, oamIndex: i})
		}
	}
	return hits
}

// mode3Length estimates the variable length of mode 3 for the given line,
// penalizing sprite fetches and a window activation the way real hardware
// lengthens drawing for each. This is a scanline-granularity approximation
// rather than a per-dot fetch simulation; it keeps STAT mode-0 timing
// observably variable without modeling the pixel FIFO at dot resolution.
func (p *PPU) mode3Length(sprites []spriteEntry, windowActive bool) int {
	length := 172
	length += len(sprites) * 6
	if windowActive {
		length += 6
	}
	if length > 289 {
		length = 289
	}
	return length
}

// renderScanline composes background, window, and sprite pixels for line
// ly into the frame buffer, applying the DMG monochrome palettes.
func (p *PPU) renderScanline(ly byte, sprites []spriteEntry) {
	mem := vramAdapter{p}

	var bgIdx, finalShade [160]byte

	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		tileData8000 := p.lcdc&0x10 != 0
		bgIdx = RenderBGScanlineUsingFetcher(mem, mapBase, tileData8000, p.scx, p.scy, ly)

		windowActive := p.lcdc&0x20 != 0 && p.wy <= ly && p.wx <= 166
		if windowActive {
			wxStart := int(p.wx) - 7
			winMapBase := uint16(0x9800)
			if p.lcdc&0x40 != 0 {
				winMapBase = 0x9C00
			}
			winRow := RenderWindowScanlineUsingFetcher(mem, winMapBase, tileData8000, wxStart, byte(p.windowLine))
			start := wxStart
			if start < 0 {
				start = 0
			}
			for x := start; x < 160; x++ {
				bgIdx[x] = winRow[x]
			}
			p.windowLine++
		}
	}

	for x := 0; x < 160; x++ {
		finalShade[x] = applyPalette(p.bgp, bgIdx[x])
	}

	if p.lcdc&0x02 != 0 {
		p.compositeSprites(sprites, ly, bgIdx, &finalShade)
	}

	copy(p.framebuf[int(ly)*160:int(ly)*160+160], finalShade[:])
}

// Sprite is one OAM-scan hit, carrying the fields needed to composite a
// sprite row independent of any particular PPU instance. X and Y are
// already screen-relative (the hardware's OAM X-8/Y-16 bias removed), so
// they may be negative for a sprite straddling the left or top edge.
type Sprite struct {
	X, Y     int
	Tile     byte
	Attr     byte
	OAMIndex int
}

// spritePriorityOrder returns sprite indices from highest to lowest
// display priority: lower X wins, ties broken by lower OAM index.
func spritePriorityOrder(sprites []Sprite) []int {
	order := make([]int, len(sprites))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := sprites[order[i]], sprites[order[j]]
			swap := false
			if a.X > b.X {
				swap = true
			} else if a.X == b.X && a.OAMIndex > b.OAMIndex {
				swap = true
			}
			if swap {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	return order
}

// composeSpriteLine composites up to 10 sprites onto one row, returning the
// raw 2-bit color index per pixel (0 = transparent/uncovered) along with the
// winning sprite's attribute byte per pixel, for palette selection by the
// caller. tall selects 8x16 sprite mode.
func composeSpriteLine(mem VRAMReader, sprites []Sprite, ly byte, bgIdx [160]byte, tall bool) (ci, attr [160]byte) {
	height := byte(8)
	if tall {
		height = 16
	}
	order := spritePriorityOrder(sprites)
	// order is highest-priority first; paint back-to-front so the winner
	// ends up on top.
	for k := len(order) - 1; k >= 0; k-- {
		s := sprites[order[k]]
		row := int(ly) - s.Y
		if s.Attr&0x40 != 0 { // Y flip
			row = int(height) - 1 - row
		}
		tile := s.Tile
		if tall {
			tile &^= 0x01
			if row >= 8 {
				tile |= 0x01
				row -= 8
			}
		}
		base := uint16(0x8000) + uint16(tile)*16 + uint16(row)*2
		lo := mem.Read(base)
		hi := mem.Read(base + 1)

		behindBG := s.Attr&0x80 != 0

		for px := 0; px < 8; px++ {
			screenX := s.X + px
			if screenX < 0 || screenX >= 160 {
				continue
			}
			bit := px
			if s.Attr&0x20 == 0 { // no X flip: bit 7 is leftmost pixel
				bit = 7 - px
			}
			pixCI := ((hi>>uint(bit))&1)<<1 | ((lo >> uint(bit)) & 1)
			if pixCI == 0 {
				continue // transparent
			}
			if behindBG && bgIdx[screenX] != 0 {
				continue
			}
			ci[screenX] = pixCI
			attr[screenX] = s.Attr
		}
	}
	return ci, attr
}

// ComposeSpriteLine composites up to 10 sprites onto one row and returns
// the raw 2-bit color index per pixel (0 = transparent/uncovered), with no
// palette applied. tall selects 8x16 sprite mode.
func ComposeSpriteLine(mem VRAMReader, sprites []Sprite, ly byte, bgIdx [160]byte, tall bool) [160]byte {
	ci, _ := composeSpriteLine(mem, sprites, ly, bgIdx, tall)
	return ci
}

// compositeSprites overlays up to 10 pre-selected sprites onto a rendered
// BG/window row, respecting X-then-OAM-index priority and the
// BG-priority attribute bit, then applies the per-sprite OBP0/OBP1 palette.
func (p *PPU) compositeSprites(sprites []spriteEntry, ly byte, bgIdx [160]byte, out *[160]byte) {
	tall := p.lcdc&0x04 != 0
	exported := make([]Sprite, len(sprites))
	for i, s := range sprites {
		exported[i] = Sprite{X: int(s.x) - 8, Y: int(s.y) - 16, Tile: s.tile, Attr: s.attrs, OAMIndex: s.oamIndex}
	}
	ci, attr := composeSpriteLine(vramAdapter{p}, exported, ly, bgIdx, tall)
	for x := 0; x < 160; x++ {
		if ci[x] == 0 {
			continue
		}
		palette := p.obp0
		if attr[x]&0x10 != 0 {
			palette = p.obp1
		}
		out[x] = applyPalette(palette, ci[x])
	}
}

// applyPalette maps a 2-bit color index through a palette register to a
// 2-bit shade.
func applyPalette(palette, ci byte) byte {
	return (palette >> (ci * 2)) & 0x03
}

// Framebuffer returns the most recently completed frame as 144 rows of
// 160 2-bit monochrome shade values (0=lightest, 3=darkest).
func (p *PPU) Framebuffer() []byte {
	return p.framebuf[:]
}
