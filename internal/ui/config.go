package ui

// KeyBindings maps each of the 8 Game Boy buttons to the name of the
// keyboard key that drives it. Names match ebiten's Key.String() output
// (e.g. "Z", "ArrowRight", "ShiftRight") so a settings.json edited by hand
// uses the same names the emulator reports back.
type KeyBindings map[string]string

// gbButtons lists the 8 buttons a binding set must cover, in D-pad/face/
// system order.
var gbButtons = [8]string{"Up", "Down", "Left", "Right", "A", "B", "Start", "Select"}

// DefaultKeyBindings returns the emulator's out-of-the-box layout: arrow
// keys for the D-pad, Z/X for A/B (the SNES-controller convention most GB
// emulators follow), Enter for Start, and right Shift for Select.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		"Up": "ArrowUp", "Down": "ArrowDown", "Left": "ArrowLeft", "Right": "ArrowRight",
		"A": "Z", "B": "X", "Start": "Enter", "Select": "ShiftRight",
	}
}

// Config contains window/input/audio related settings.
type Config struct {
	Title       string // window title
	Scale       int    // integer upscaling factor
	AudioStereo bool   // if true, output true stereo; if false, fold to mono
	// Audio buffering
	AudioAdaptive   bool   // adaptive target on underrun
	AudioBufferMs   int    // initial desired buffer in ms (approx)
	AudioLowLatency bool   // hard-cap buffering for minimal latency
	ROMsDir         string // directory to browse for ROMs
	UseFetcherBG    bool   // render BG via fetcher/FIFO
	// Visual overlay skin
	ShellOverlay bool   // draw an alpha-blended overlay image over the game view
	ShellImage   string // path to the overlay image (PNG)
	// Per-ROM preferences
	PerROMCompatPalette map[string]int // map of ROM path -> compat palette ID
	// Keys maps Game Boy buttons to keyboard key names; any button missing
	// from a loaded settings.json falls back to its DefaultKeyBindings entry.
	Keys KeyBindings
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 60 // lower baseline to reduce perceived latency
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.PerROMCompatPalette == nil {
		c.PerROMCompatPalette = make(map[string]int)
	}
	// Default overlay path, disabled by default
	if c.ShellImage == "" {
		c.ShellImage = "assets/skins/gbc_overlay.png"
	}
	if c.Keys == nil {
		c.Keys = DefaultKeyBindings()
	}
	defaults := DefaultKeyBindings()
	for _, btn := range gbButtons {
		if c.Keys[btn] == "" {
			c.Keys[btn] = defaults[btn]
		}
	}
}
