// Package emu composes the bus, CPU, PPU and APU into a runnable Machine:
// the boundary a host (the ebiten UI, the SDL2 host, or a test) drives frame by
// frame.
package emu

import (
	"errors"
	"io"
	"os"

	"github.com/eamonbaird/dmgcore/internal/apu"
	"github.com/eamonbaird/dmgcore/internal/bus"
	"github.com/eamonbaird/dmgcore/internal/cart"
	"github.com/eamonbaird/dmgcore/internal/cpu"
	"github.com/eamonbaird/dmgcore/internal/joypad"
)

// cyclesPerFrame is the fixed DMG cadence: 154 scanlines * 456 T-cycles.
const cyclesPerFrame = 154 * 456

// Buttons is one frame's worth of button state, reported once per host frame.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) toJoypad() joypad.State {
	return joypad.State{
		A: b.A, B: b.B, Start: b.Start, Select: b.Select,
		Up: b.Up, Down: b.Down, Left: b.Left, Right: b.Right,
	}
}

// compatPalette is a 4-entry RGB table used to tint the DMG's 2-bit shades,
// since the core has no CGB color RAM to draw from.
type compatPalette [4][3]byte

var cgbCompatSets = []compatPalette{
	{{155, 188, 15}, {139, 172, 15}, {48, 98, 48}, {15, 56, 15}},    // Green (default DMG)
	{{255, 246, 211}, {206, 169, 128}, {140, 100, 70}, {60, 40, 30}}, // Sepia
	{{200, 220, 255}, {120, 150, 220}, {60, 80, 160}, {20, 30, 70}},  // Blue
	{{255, 200, 200}, {220, 120, 120}, {160, 60, 60}, {70, 20, 20}},  // Red
	{{245, 230, 245}, {210, 180, 210}, {150, 120, 150}, {80, 60, 90}}, // Pastel
}

var cgbCompatSetNames = []string{"Green", "Sepia", "Blue", "Red", "Pastel"}

// Machine is the core's host-facing entry point: load a cartridge, step
// whole frames, and read back pixels/audio/save state.
type Machine struct {
	cfg Config

	bus *bus.Bus
	cpu *cpu.CPU
	res *apu.Resampler

	romTitle string
	romPath  string

	compatID     int
	compatAuto   bool
	useFetcherBG bool

	rgba [160 * 144 * 4]byte
}

// New returns a Machine with no cartridge loaded.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg, compatID: 0, compatAuto: true, useFetcherBG: cfg.UseFetcherBG}
}

// LoadROMFromFile reads rom at path and loads it, auto-selecting a compat
// palette from the header unless the host has pinned one explicitly.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m.romPath = path
	return m.loadROM(data)
}

// LoadCartridge loads a ROM already read into memory, without recording a
// path for later save-state/battery file placement.
func (m *Machine) LoadCartridge(rom []byte) error { return m.loadROM(rom) }

func (m *Machine) loadROM(rom []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return err
	}
	m.romTitle = h.Title

	c := cart.NewCartridge(rom)
	m.bus = bus.NewWithCartridge(c, 48000)
	m.bus.SetTrace(m.cfg.Trace)
	m.cpu = cpu.New(m.bus)
	m.cpu.ResetNoBoot()
	m.initPostBootIO()
	m.res = apu.NewResampler(m.bus.APU())

	if m.compatAuto {
		if id, ok := autoCompatPaletteFromHeader(h); ok {
			m.compatID = id % len(cgbCompatSets)
		}
	}
	return nil
}

// initPostBootIO seeds the IO registers to their typical post-boot-ROM
// values, matching the defaults a DMG boot ROM would leave behind.
func (m *Machine) initPostBootIO() {
	b := m.bus
	b.Write(0xFF00, 0xCF)
	b.Write(0xFF05, 0x00)
	b.Write(0xFF06, 0x00)
	b.Write(0xFF07, 0x00)
	b.Write(0xFF40, 0x91)
	b.Write(0xFF42, 0x00)
	b.Write(0xFF43, 0x00)
	b.Write(0xFF45, 0x00)
	b.Write(0xFF47, 0xFC)
	b.Write(0xFF48, 0xFF)
	b.Write(0xFF49, 0xFF)
	b.Write(0xFF4A, 0x00)
	b.Write(0xFF4B, 0x00)
	b.Write(0xFFFF, 0x00)
}

// LoadBootROM arms a boot ROM to run from 0x0000 instead of the post-boot
// register defaults.
func (m *Machine) LoadBootROM(data []byte) error {
	if m.bus == nil {
		return errors.New("load a cartridge before a boot ROM")
	}
	if len(data) < 0x100 {
		return errors.New("boot ROM too small")
	}
	m.bus.SetBootROM(data)
	m.cpu.SetPC(0x0000)
	m.cpu.SP = 0xFFFE
	m.cpu.IME = false
	return nil
}

// LoadBattery restores external RAM for cartridges that persist it.
func (m *Machine) LoadBattery(data []byte) {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
	}
}

// SaveBattery returns the cartridge's external RAM, or nil if it has none.
func (m *Machine) SaveBattery() []byte {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		return bb.SaveRAM()
	}
	return nil
}

// ROMTitle returns the cartridge header title.
func (m *Machine) ROMTitle() string { return m.romTitle }

// ROMPath returns the path LoadROMFromFile was called with, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// SetSerialWriter routes the serial port's output, e.g. for test ROM harnesses.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SetButtons updates the joypad state for the next frame.
func (m *Machine) SetButtons(b Buttons) { m.bus.SetJoypadState(b.toJoypad()) }

// StepFrame runs whole CPU steps until at least one frame's worth of
// T-cycles has elapsed and refreshes the RGBA framebuffer.
func (m *Machine) StepFrame() {
	m.runFrame()
	m.renderRGBA()
}

// StepFrameNoRender runs one frame without touching the RGBA framebuffer,
// for headless test-ROM harnesses that only care about serial output.
func (m *Machine) StepFrameNoRender() {
	m.runFrame()
}

func (m *Machine) runFrame() {
	target := cyclesPerFrame
	spent := 0
	for spent < target {
		spent += m.cpu.Step()
	}
}

// Framebuffer returns the current frame as packed RGBA8888 bytes, 160x144.
func (m *Machine) Framebuffer() []byte { return m.rgba[:] }

func (m *Machine) renderRGBA() {
	idx := m.bus.PPU().Framebuffer()
	pal := cgbCompatSets[m.compatID]
	for i, shade := range idx {
		rgb := pal[shade&0x03]
		o := i * 4
		m.rgba[o+0] = rgb[0]
		m.rgba[o+1] = rgb[1]
		m.rgba[o+2] = rgb[2]
		m.rgba[o+3] = 0xFF
	}
}

// CycleCompatPalette advances to the next built-in tint palette and
// disables auto-selection, since the host has now made an explicit choice.
func (m *Machine) CycleCompatPalette() {
	m.compatAuto = false
	m.compatID = (m.compatID + 1) % len(cgbCompatSets)
}

// CurrentCompatPalette returns the active palette index.
func (m *Machine) CurrentCompatPalette() int { return m.compatID }

// CompatPaletteName returns a human-readable name for the active palette.
func (m *Machine) CompatPaletteName() string { return cgbCompatSetNames[m.compatID] }

// SetUseFetcherBG records the host's BG renderer preference. The PPU always
// renders BG through the fetcher/FIFO-style scanline path, so the value does
// not change rendering.
func (m *Machine) SetUseFetcherBG(v bool) { m.useFetcherBG = v }

// APUPullStereo pulls up to want interleaved L/R int16 samples through the
// drift-corrected resampler.
func (m *Machine) APUPullStereo(want int) []int16 { return m.res.Pull(want) }

// APUBufferedStereo reports how many stereo frames are currently buffered.
func (m *Machine) APUBufferedStereo() int { return m.bus.APU().StereoAvailable() }

// APUClearAudioLatency drops any buffered audio and resets the resampler's
// drift measurement, useful after a pause or a save-state load.
func (m *Machine) APUClearAudioLatency() {
	m.bus.APU().PullStereo(m.bus.APU().StereoAvailable())
	m.res.Reset()
}

// APUCapBufferedStereo drops buffered audio down to at most max frames,
// preventing unbounded latency growth if the host falls behind.
func (m *Machine) APUCapBufferedStereo(max int) {
	if over := m.bus.APU().StereoAvailable() - max; over > 0 {
		m.bus.APU().PullStereo(over)
	}
}

// ResetPostBoot reinitializes the CPU/IO to DMG post-boot defaults without
// reloading the cartridge.
func (m *Machine) ResetPostBoot() {
	m.cpu.ResetNoBoot()
	m.initPostBootIO()
	m.res.Reset()
}

// ResetWithBoot resets and arms the given boot ROM to run from 0x0000.
func (m *Machine) ResetWithBoot(boot []byte) error {
	m.cpu.ResetNoBoot()
	return m.LoadBootROM(boot)
}

// SaveStateToFile serializes the full machine state to path.
func (m *Machine) SaveStateToFile(path string) error {
	data := m.bus.SaveState()
	return os.WriteFile(path, data, 0o644)
}

// LoadStateFromFile restores machine state previously written by
// SaveStateToFile. The cartridge must already be loaded.
func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m.bus.LoadState(data)
	m.res.Reset()
	return nil
}
