//go:build sdl2

// Command gbemu-sdl2 runs the emulator through the SDL2 backend instead of
// the default ebiten UI. Build with: go build -tags sdl2 ./cmd/gbemu-sdl2
package main

import (
	"flag"
	"log"
	"os"

	"github.com/eamonbaird/dmgcore/internal/backend/sdl2"
	"github.com/eamonbaird/dmgcore/internal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	scale := flag.Int("scale", 3, "window scale")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	m := emu.New(emu.Config{})
	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}

	be := sdl2.New("gbemu", *scale)
	if err := be.Init(); err != nil {
		log.Fatalf("init sdl2: %v", err)
	}
	defer be.Cleanup()

	for be.Running() {
		be.PollInput(m)
		be.Present(m)
	}

	if data := m.SaveBattery(); data != nil {
		sav := *romPath + ".sav"
		if err := os.WriteFile(sav, data, 0o644); err != nil {
			log.Printf("save battery: %v", err)
		}
	}
}
