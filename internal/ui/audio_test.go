package ui

import (
	"testing"

	"github.com/eamonbaird/dmgcore/internal/emu"
)

func TestWriteSilenceZerosAndCapsToBufferLength(t *testing.T) {
	p := []byte{1, 2, 3, 4, 5, 6, 7}
	n := writeSilence(p, 10) // request more frames than the 7-byte buffer can hold
	if n != 4 {
		t.Fatalf("expected 4 bytes written (one full frame), got %d", n)
	}
	for i := 0; i < 4; i++ {
		if p[i] != 0 {
			t.Fatalf("byte %d not zeroed: %d", i, p[i])
		}
	}
	if p[4] != 5 || p[5] != 6 || p[6] != 7 {
		t.Fatal("bytes past the written region should be untouched")
	}
}

func TestWriteFrameStereo(t *testing.T) {
	p := make([]byte, 4)
	writeFrame(p, 0, 0x0102, 0x0304, false)
	if p[0] != 0x02 || p[1] != 0x01 || p[2] != 0x04 || p[3] != 0x03 {
		t.Fatalf("unexpected little-endian encoding: %v", p)
	}
}

func TestWriteFrameMonoAveragesChannels(t *testing.T) {
	p := make([]byte, 4)
	writeFrame(p, 0, 100, 200, true)
	left := int16(p[0]) | int16(p[1])<<8
	right := int16(p[2]) | int16(p[3])<<8
	if left != 150 || right != 150 {
		t.Fatalf("expected both channels averaged to 150, got l=%d r=%d", left, right)
	}
}

func TestApuStreamReadNilMachineReturnsZero(t *testing.T) {
	s := &apuStream{}
	n, err := s.Read(make([]byte, 16))
	if n != 0 || err != nil {
		t.Fatalf("expected (0,nil) for a stream with no machine, got (%d,%v)", n, err)
	}
}

func TestApuStreamReadMutedFillsSilence(t *testing.T) {
	muted := true
	m := emu.New(emu.Config{})
	s := &apuStream{m: m, muted: &muted}
	p := make([]byte, 16)
	for i := range p {
		p[i] = 0xFF
	}
	n, err := s.Read(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(p) {
		t.Fatalf("expected full buffer reported written, got %d", n)
	}
}
