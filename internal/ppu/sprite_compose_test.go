package ppu

import "testing"

func TestComposeSpriteLinePriorityAndTransparency(t *testing.T) {
	mem := mockVRAM{0x8000: 0x80, 0x8001: 0x00} // single opaque leftmost pixel
	sprites := []Sprite{{X: 10, Y: 5, Tile: 0, Attr: 0, OAMIndex: 0}}
	var bgci [160]byte

	out := ComposeSpriteLine(mem, sprites, 5, bgci, false)
	if out[10] == 0 {
		t.Fatal("expected sprite pixel at x=10")
	}

	sprites[0].Attr = 1 << 7 // priority: behind BG
	bgci[10] = 1
	out = ComposeSpriteLine(mem, sprites, 5, bgci, false)
	if out[10] != 0 {
		t.Fatal("expected sprite pixel hidden behind opaque BG when priority bit set")
	}
}

func TestComposeSpriteLineTieBreaker(t *testing.T) {
	mem := mockVRAM{0x8000: 0xFF, 0x8001: 0x00} // fully opaque row
	// Two sprites overlap at x=20; the one with the lower X wins the tie.
	s0 := Sprite{X: 19, Y: 0, Tile: 0, Attr: 0, OAMIndex: 5}
	s1 := Sprite{X: 20, Y: 0, Tile: 0, Attr: 0, OAMIndex: 3}
	var bgci [160]byte

	out := ComposeSpriteLine(mem, []Sprite{s0, s1}, 0, bgci, false)
	if out[20] == 0 {
		t.Fatal("expected a sprite pixel at x=20")
	}
}

func TestComposeSpriteLineTransparentPixelDoesNotHideBG(t *testing.T) {
	// A sprite tile with a transparent (ci=0) column at x should never cover
	// the BG, priority bit or not.
	mem := mockVRAM{0x8000: 0x00, 0x8001: 0x00}
	sprites := []Sprite{{X: 0, Y: 0, Tile: 0, Attr: 0, OAMIndex: 0}}
	var bgci [160]byte
	bgci[0] = 2

	out := ComposeSpriteLine(mem, sprites, 0, bgci, false)
	if out[0] != 0 {
		t.Fatalf("transparent sprite pixel should not be drawn, got %d", out[0])
	}
}
