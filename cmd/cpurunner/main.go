package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/eamonbaird/dmgcore/internal/bus"
	"github.com/eamonbaird/dmgcore/internal/cpu"
	"github.com/urfave/cli"
)

// writerFunc adapts a function to io.Writer.
type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

func main() {
	app := cli.NewApp()
	app.Name = "cpurunner"
	app.Usage = "run a Game Boy ROM headlessly against the CPU/bus core, watching serial output"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to ROM (.gb)"},
		cli.StringFlag{Name: "bootrom", Usage: "optional DMG boot ROM to run from 0x0000 until FF50 disables it"},
		cli.IntFlag{Name: "steps", Value: 5_000_000, Usage: "max CPU steps to run"},
		cli.IntFlag{Name: "pc", Value: 0x0100, Usage: "initial PC value"},
		cli.BoolFlag{Name: "trace", Usage: "print PC/opcodes"},
		cli.StringFlag{Name: "until", Value: "Passed", Usage: "stop when serial output contains this substring (case-insensitive); empty to disable"},
		cli.BoolFlag{Name: "auto", Usage: "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1"},
		cli.DurationFlag{Name: "timeout", Usage: "optional wall-clock timeout (e.g. 30s, 2m); 0 disables"},
		cli.BoolFlag{Name: "traceOnFail", Usage: "when -auto detects failure, print a recent trace window (slows down)"},
		cli.IntFlag{Name: "traceWindow", Value: 200, Usage: "number of recent instructions to include in 'traceOnFail' dump"},
		cli.IntFlag{Name: "serialWindow", Value: 8192, Usage: "number of recent serial bytes to retain for diagnostics on fail"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx *cli.Context) error {
	romPath := ctx.String("rom")
	if romPath == "" {
		return cli.NewExitError("-rom is required", 2)
	}
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("read rom: %v", err), 2)
	}
	var boot []byte
	if bootPath := ctx.String("bootrom"); bootPath != "" {
		boot, err = os.ReadFile(bootPath)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("read bootrom: %v", err), 2)
		}
	}

	steps := ctx.Int("steps")
	startPC := ctx.Int("pc")
	trace := ctx.Bool("trace")
	until := ctx.String("until")
	auto := ctx.Bool("auto")
	timeout := ctx.Duration("timeout")
	traceOnFail := ctx.Bool("traceOnFail")
	traceWindow := ctx.Int("traceWindow")
	serialWindow := ctx.Int("serialWindow")
	if serialWindow < 256 {
		serialWindow = 256
	}

	b := bus.New(rom)
	if len(boot) >= 0x100 {
		b.SetBootROM(boot)
	}

	var ser bytes.Buffer
	serRing := make([]byte, serialWindow)
	serRingIdx, serRingFill := 0, 0
	w := io.Writer(os.Stdout)
	if until != "" || auto {
		w = io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
			for _, ch := range p {
				serRing[serRingIdx] = ch
				serRingIdx = (serRingIdx + 1) % serialWindow
				if serRingFill < serialWindow {
					serRingFill++
				}
			}
			return len(p), nil
		}))
	}
	b.SetSerialWriter(w)

	c := cpu.New(b)
	if len(boot) >= 0x100 {
		c.SP = 0xFFFE
		c.SetPC(0x0000)
		c.IME = false
	} else {
		c.ResetNoBoot()
		c.SetPC(uint16(startPC))
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

	start := time.Now()
	var deadline time.Time
	if timeout > 0 {
		deadline = start.Add(timeout)
	}
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	stageRe := regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	lastStage := ""

	type traceEntry struct {
		pc                     uint16
		op                     byte
		cyc                    int
		a, f, b, c, d, e, h, l byte
		sp                     uint16
		ime                    bool
		ifreg                  byte
		ie                     byte
	}
	ring := make([]traceEntry, traceWindow)
	ringIdx, ringFill := 0, 0
	var cycles int

	printTrace := func(te traceEntry) {
		fmt.Printf("PC=%04X OP=%02X cyc=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X\n",
			te.pc, te.op, te.cyc, te.a, te.f, te.b, te.c, te.d, te.e, te.h, te.l, te.sp, te.ime, te.ifreg, te.ie)
	}

	for i := 0; i < steps; i++ {
		pc := c.PC
		var op byte
		if trace || traceOnFail {
			op = b.Read(pc)
		}
		cyc := c.Step()
		cycles += cyc
		if trace || traceOnFail {
			te := traceEntry{
				pc: pc, op: op, cyc: cyc,
				a: c.A, f: c.F, b: c.B, c: c.C, d: c.D, e: c.E, h: c.H, l: c.L,
				sp: c.SP, ime: c.IME, ifreg: b.Read(0xFF0F), ie: b.Read(0xFFFF),
			}
			if trace {
				printTrace(te)
			}
			if traceOnFail && traceWindow > 0 {
				ring[ringIdx] = te
				ringIdx = (ringIdx + 1) % traceWindow
				if ringFill < traceWindow {
					ringFill++
				}
			}
		}
		if auto {
			s := ser.String()
			if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
				lastStage = mm[len(mm)-1]
			}
			if strings.Contains(strings.ToLower(s), "passed") {
				fmt.Printf("\nDetected PASS in serial output.\n")
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", i+1, cycles, time.Since(start).Truncate(time.Millisecond))
				return nil
			}
			if m := failRe.FindStringSubmatch(s); m != nil {
				fmt.Printf("\nDetected %s in serial output.\n", m[0])
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				if traceOnFail && ringFill > 0 {
					fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
					startIdx := (ringIdx - ringFill + traceWindow) % traceWindow
					for j := 0; j < ringFill; j++ {
						printTrace(ring[(startIdx+j)%traceWindow])
					}
					fmt.Printf("--- end trace ---\n")
				}
				if serRingFill > 0 {
					fmt.Printf("\n--- recent serial (last %d bytes) ---\n", serRingFill)
					startIdx := (serRingIdx - serRingFill + serialWindow) % serialWindow
					for j := 0; j < serRingFill; j++ {
						fmt.Printf("%c", serRing[(startIdx+j)%serialWindow])
					}
					fmt.Printf("\n--- end serial ---\n")
				}
				fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", i+1, cycles, time.Since(start).Truncate(time.Millisecond))
				return cli.NewExitError("", 1)
			}
		} else if until != "" {
			if strings.Contains(strings.ToLower(ser.String()), strings.ToLower(until)) {
				fmt.Printf("\nDetected '%s' in serial output.\n", until)
				fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", i+1, cycles, time.Since(start).Truncate(time.Millisecond))
				return nil
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", i+1, cycles, time.Since(start).Truncate(time.Millisecond))
			return cli.NewExitError("", 2)
		}
	}
	fmt.Printf("\nDone: steps=%d cycles~=%d elapsed=%s\n", steps, cycles, time.Since(start).Truncate(time.Millisecond))
	return nil
}
