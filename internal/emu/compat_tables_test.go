package emu

import (
	"testing"

	"github.com/eamonbaird/dmgcore/internal/cart"
)

func TestCompatPaletteByTitleExactBeatsSubstring(t *testing.T) {
	// "ZELDA" is both an exact entry and a substring of "THE LEGEND OF ZELDA";
	// exact entries must win so closely related titles can diverge later.
	id, ok := compatPaletteByTitle("ZELDA")
	if !ok || id != 0 {
		t.Fatalf("got (%d,%v) want (0,true)", id, ok)
	}
}

func TestCompatPaletteByTitleSubstringFamily(t *testing.T) {
	id, ok := compatPaletteByTitle("SUPER MARIO LAND 3 DX")
	if !ok || id != 3 {
		t.Fatalf("got (%d,%v) want (3,true) for an unlisted Mario title", id, ok)
	}
}

func TestCompatPaletteByTitleUnknownFails(t *testing.T) {
	if _, ok := compatPaletteByTitle("SOME UNLISTED GAME"); ok {
		t.Fatal("expected no match for a title absent from every rule")
	}
}

func TestIsNintendoPublishedOldAndNewLicensee(t *testing.T) {
	cases := []struct {
		name string
		h    cart.Header
		want bool
	}{
		{"old code 0x01", cart.Header{OldLicensee: 0x01}, true},
		{"old code other", cart.Header{OldLicensee: 0x50}, false},
		{"new code 01 via sentinel", cart.Header{OldLicensee: 0x33, NewLicensee: "01"}, true},
		{"new code other via sentinel", cart.Header{OldLicensee: 0x33, NewLicensee: "A4"}, false},
	}
	for _, c := range cases {
		if got := isNintendoPublished(&c.h); got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestAutoCompatPaletteFromHeaderNilHeader(t *testing.T) {
	if _, ok := autoCompatPaletteFromHeader(nil); ok {
		t.Fatal("expected a nil header to report no recommendation")
	}
}

func TestAutoCompatPaletteFromHeaderTitleMatch(t *testing.T) {
	h := &cart.Header{Title: "TETRIS\x00\x00"}
	id, ok := autoCompatPaletteFromHeader(h)
	if !ok || id != 2 {
		t.Fatalf("got (%d,%v) want (2,true)", id, ok)
	}
}

func TestAutoCompatPaletteFromHeaderNonNintendoFallback(t *testing.T) {
	h := &cart.Header{Title: "HOMEBREW GAME", OldLicensee: 0x50}
	id, ok := autoCompatPaletteFromHeader(h)
	if !ok || id != 0 {
		t.Fatalf("got (%d,%v) want (0,true) default for a non-Nintendo title", id, ok)
	}
}

func TestAutoCompatPaletteFromHeaderNintendoUsesChecksum(t *testing.T) {
	h := &cart.Header{Title: "HOMEBREW GAME", OldLicensee: 0x01, HeaderChecksum: 0x0B}
	id, ok := autoCompatPaletteFromHeader(h)
	if !ok || id != int(0x0B)%cgbCompatSetCount {
		t.Fatalf("got (%d,%v) want (%d,true)", id, ok, int(0x0B)%cgbCompatSetCount)
	}
}
