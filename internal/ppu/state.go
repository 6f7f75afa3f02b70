package ppu

import (
	"bytes"
	"encoding/gob"
)

// snapshot is the gob-serializable representation of PPU state, used by
// the bus's SaveState/LoadState.
type snapshot struct {
	VRAM [0x2000]byte
	OAM  [0xA0]byte

	LCDC, STAT, SCY, SCX, LY, LYC, BGP, OBP0, OBP1, WY, WX byte

	Dot          int
	Mode3Len     int
	WindowLine   int
	SuppressSTAT bool
}

// SaveState serializes all PPU-owned memory and registers.
func (p *PPU) SaveState() []byte {
	s := snapshot{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat, SCY: p.scy, SCX: p.scx, LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1, WY: p.wy, WX: p.wx,
		Dot: p.dot, Mode3Len: p.mode3Len, WindowLine: p.windowLine, SuppressSTAT: p.suppressSTAT,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil
	}
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState. The OAM-scan cache
// for the in-progress line is recomputed rather than serialized, since it
// is pure derived state.
func (p *PPU) LoadState(data []byte) {
	if len(data) == 0 {
		return
	}
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	p.vram, p.oam = s.VRAM, s.OAM
	p.lcdc, p.stat, p.scy, p.scx, p.ly, p.lyc = s.LCDC, s.STAT, s.SCY, s.SCX, s.LY, s.LYC
	p.bgp, p.obp0, p.obp1, p.wy, p.wx = s.BGP, s.OBP0, s.OBP1, s.WY, s.WX
	p.dot, p.mode3Len, p.windowLine, p.suppressSTAT = s.Dot, s.Mode3Len, s.WindowLine, s.SuppressSTAT
	if p.lcdc&0x80 != 0 && p.ly < 144 {
		p.curSprites = p.scanOAM(p.ly)
	}
}
