//go:build sdl2

// Package sdl2 is an alternate host backend for the emulator, built on SDL2
// bindings instead of ebiten. It owns the window, renderer, texture and
// audio device, and drives the Machine frame by frame.
//
// Building it requires SDL2 development libraries and the sdl2 build tag:
//
//	go build -tags sdl2 ./cmd/gbemu-sdl2
package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/eamonbaird/dmgcore/internal/emu"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenW = 160
	screenH = 144
)

// keyMapping maps SDL2 keycodes to Game Boy buttons.
var keyMapping = map[sdl.Keycode]func(*emu.Buttons, bool){
	sdl.K_UP:     func(b *emu.Buttons, v bool) { b.Up = v },
	sdl.K_DOWN:   func(b *emu.Buttons, v bool) { b.Down = v },
	sdl.K_LEFT:   func(b *emu.Buttons, v bool) { b.Left = v },
	sdl.K_RIGHT:  func(b *emu.Buttons, v bool) { b.Right = v },
	sdl.K_z:      func(b *emu.Buttons, v bool) { b.A = v },
	sdl.K_x:      func(b *emu.Buttons, v bool) { b.B = v },
	sdl.K_RETURN: func(b *emu.Buttons, v bool) { b.Start = v },
	sdl.K_RSHIFT: func(b *emu.Buttons, v bool) { b.Select = v },
}

// Backend drives a Machine through an SDL2 window, renderer and audio device.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audioDev sdl.AudioDeviceID

	scale   int
	title   string
	buttons emu.Buttons
	running bool
}

// New returns a Backend that has not yet been initialized.
func New(title string, scale int) *Backend {
	if scale <= 0 {
		scale = 3
	}
	return &Backend{title: title, scale: scale}
}

// Init opens the window, renderer, texture and audio device.
func (s *Backend) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2 init: %w", err)
	}
	w, err := sdl.CreateWindow(s.title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(screenW*s.scale), int32(screenH*s.scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("create window: %w", err)
	}
	s.window = w

	r, err := sdl.CreateRenderer(w, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		w.Destroy()
		sdl.Quit()
		return fmt.Errorf("create renderer: %w", err)
	}
	s.renderer = r

	tex, err := r.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, screenW, screenH)
	if err != nil {
		r.Destroy()
		w.Destroy()
		sdl.Quit()
		return fmt.Errorf("create texture: %w", err)
	}
	s.texture = tex

	if err := s.initAudio(); err != nil {
		// Audio is a convenience, not a hard requirement: run silently on failure.
		s.audioDev = 0
	}

	s.running = true
	return nil
}

func (s *Backend) initAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     48000,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDev = dev
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Running reports whether a quit event has been observed.
func (s *Backend) Running() bool { return s.running }

// PollInput drains the SDL event queue and applies key state to m.
func (s *Backend) PollInput(m *emu.Machine) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			s.running = false
		case *sdl.KeyboardEvent:
			if set, ok := keyMapping[e.Keysym.Sym]; ok {
				set(&s.buttons, e.Type == sdl.KEYDOWN)
			}
		}
	}
	m.SetButtons(s.buttons)
}

// Present steps one frame, draws the result, and queues its audio.
func (s *Backend) Present(m *emu.Machine) {
	m.StepFrame()

	s.texture.Update(nil, unsafe.Pointer(&m.Framebuffer()[0]), screenW*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	if s.audioDev != 0 {
		if samples := m.APUPullStereo(m.APUBufferedStereo()); len(samples) > 0 {
			buf := make([]byte, len(samples)*2)
			for i, v := range samples {
				buf[i*2] = byte(v)
				buf[i*2+1] = byte(v >> 8)
			}
			sdl.QueueAudio(s.audioDev, buf)
		}
	}
}

// Cleanup releases all SDL2 resources.
func (s *Backend) Cleanup() {
	if s.audioDev != 0 {
		sdl.CloseAudioDevice(s.audioDev)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
}
