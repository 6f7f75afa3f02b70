package apu

import "testing"

func TestSquareChannelRegisterRoundTrip(t *testing.T) {
	a := New(48000)
	a.CPUWrite(0xFF11, (2<<6)|0x10) // duty=2, length load=0x10
	a.CPUWrite(0xFF12, 0xF3)        // vol=15, dir=dec, period=3
	a.CPUWrite(0xFF13, 0x34)
	a.CPUWrite(0xFF14, (1<<6)|0x05) // length enable, freq hi=5

	if got := a.CPURead(0xFF11) >> 6; got != 2 {
		t.Fatalf("duty round-trip: got %d want 2", got)
	}
	if got := a.CPURead(0xFF12); got != 0xF3 {
		t.Fatalf("envelope round-trip: got %#02x want 0xF3", got)
	}
	if got := a.ch1.freq; got != 0x534 {
		t.Fatalf("freq round-trip: got %#04x want 0x534", got)
	}
	if !a.ch1.lenEn {
		t.Fatal("expected length-enable bit to stick")
	}
}

func TestTriggerWithDACOffStaysDisabled(t *testing.T) {
	a := New(48000)
	a.CPUWrite(0xFF12, 0x00) // vol=0, dir=decrement -> DAC off
	a.CPUWrite(0xFF14, 1<<7) // trigger
	if a.ch1.enabled {
		t.Fatal("channel 1 should stay disabled when its DAC is off at trigger")
	}
}

func TestTriggerReloadsLengthWhenExpired(t *testing.T) {
	a := New(48000)
	a.ch2.length = 0
	a.CPUWrite(0xFF17, 0xF0) // vol=15, dir=dec (DAC on)
	a.CPUWrite(0xFF19, 1<<7) // trigger CH2
	if a.ch2.length != 64 {
		t.Fatalf("expected length reload to 64, got %d", a.ch2.length)
	}
	if !a.ch2.enabled {
		t.Fatal("expected CH2 enabled after trigger with DAC on")
	}
}

func TestClockLengthDisablesChannelAtZeroForAllFourChannels(t *testing.T) {
	a := New(48000)
	a.ch1.lenEn, a.ch1.enabled, a.ch1.length = true, true, 1
	a.ch2.lenEn, a.ch2.enabled, a.ch2.length = true, true, 1
	a.ch3.lenEn, a.ch3.enabled, a.ch3.length = true, true, 1
	a.ch4.lenEn, a.ch4.enabled, a.ch4.length = true, true, 1

	a.clockLength()

	if a.ch1.enabled {
		t.Error("CH1 should disable when its length counter hits zero")
	}
	if a.ch2.enabled {
		t.Error("CH2 should disable when its length counter hits zero")
	}
	if a.ch3.enabled {
		t.Error("CH3 should disable when its length counter hits zero")
	}
	if a.ch4.enabled {
		t.Error("CH4 should disable when its length counter hits zero")
	}
}

func TestClockEnvelopeRampsTowardExtremes(t *testing.T) {
	a := New(48000)
	a.ch1.enabled, a.ch1.envPer, a.ch1.envDir, a.ch1.envTmr, a.ch1.curVol = true, 1, 1, 1, 10
	a.clockEnvelope()
	if a.ch1.curVol != 11 {
		t.Fatalf("increasing envelope: got %d want 11", a.ch1.curVol)
	}

	a.ch4.enabled, a.ch4.envPer, a.ch4.envDir, a.ch4.envTmr, a.ch4.curVol = true, 1, -1, 1, 0
	a.clockEnvelope()
	if a.ch4.curVol != 0 {
		t.Fatalf("decreasing envelope at floor: got %d want 0 (must not underflow)", a.ch4.curVol)
	}
}

func TestMixSampleStereoRoutesByNR51(t *testing.T) {
	a := New(48000)
	a.ch1.enabled, a.ch1.curVol, a.ch1.duty, a.ch1.phase = true, 15, 2, 5 // on bit of duty 2's pattern
	a.nr50 = 0x77                                                        // max both sides
	a.nr51 = 0x01                                                        // CH1 routed to right (SO1) only
	l, r := a.mixSampleStereo()
	if l != 0 {
		t.Fatalf("expected silence on left when NR51 routes CH1 right-only, got %d", l)
	}
	if r == 0 {
		t.Fatal("expected non-zero right output when CH1 routed there")
	}
}

func TestPowerOffResetsRegistersButKeepsSampleRate(t *testing.T) {
	a := New(44100)
	a.CPUWrite(0xFF11, 0xFF)
	a.CPUWrite(0xFF26, 0x00) // power off
	if got := a.CPURead(0xFF11); got != 0x3F {
		t.Fatalf("expected CH1 duty/length register reset to zero on power-off, got %#02x", got)
	}
	if a.sampleRate != 44100 {
		t.Fatalf("expected sample rate to survive a power cycle, got %d", a.sampleRate)
	}
}

func TestSaveLoadStateRoundTripsChannels(t *testing.T) {
	a := New(48000)
	a.CPUWrite(0xFF12, 0xA5)
	a.CPUWrite(0xFF14, (1<<7)|0x03)
	a.CPUWrite(0xFF1A, 0x80) // CH3 DAC on
	a.ch3.ram[0] = 0x42

	data := a.SaveState()
	b := New(48000)
	b.LoadState(data)

	if b.ch1.freq != a.ch1.freq || b.ch1.vol != a.ch1.vol {
		t.Fatal("CH1 state did not round-trip through SaveState/LoadState")
	}
	if b.ch3.ram[0] != 0x42 {
		t.Fatal("CH3 wave RAM did not round-trip")
	}
}
