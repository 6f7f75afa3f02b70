// Package joypad models the DMG button matrix readback at 0xFF00,
// including the interrupt that fires on a 1->0 transition of any line.
package joypad

// Requester raises an interrupt request for the given IF bit.
type Requester func(bit int)

const joypadInterruptBit = 4

// Button bit positions within the direction/action rows.
const (
	Right  = 1 << 0
	Left   = 1 << 1
	Up     = 1 << 2
	Down   = 1 << 3
	A      = 1 << 0
	B      = 1 << 1
	Select = 1 << 2
	Start  = 1 << 3
)

// State is an 8-button snapshot the host provides once per frame, each
// bit set when the corresponding button is held.
type State struct {
	Right, Left, Up, Down     bool
	A, B, Select, Start       bool
}

// Pad tracks the current button state and the P14/P15 row-select bits
// written to 0xFF00.
type Pad struct {
	selectDirection bool // P14 low: direction row selected
	selectAction    bool // P15 low: action row selected
	state           State
	req             Requester
}

// New returns a pad wired to req for raising the Joypad interrupt.
func New(req Requester) *Pad {
	return &Pad{req: req}
}

// SetState replaces the current button snapshot, firing the joypad
// interrupt for any line whose selected row goes from unpressed to
// pressed.
func (p *Pad) SetState(s State) {
	before := p.activeLowLines()
	p.state = s
	after := p.activeLowLines()
	if after&^before != 0 && p.req != nil {
		// any line that was high (released) and is now low (pressed)
		p.req(joypadInterruptBit)
	}
}

// activeLowLines returns, per the currently-selected row(s), a 4-bit mask
// where a set bit means that line reads low (pressed) right now.
func (p *Pad) activeLowLines() byte {
	var lines byte
	if p.selectDirection {
		if p.state.Right {
			lines |= Right
		}
		if p.state.Left {
			lines |= Left
		}
		if p.state.Up {
			lines |= Up
		}
		if p.state.Down {
			lines |= Down
		}
	}
	if p.selectAction {
		if p.state.A {
			lines |= A
		}
		if p.state.B {
			lines |= B
		}
		if p.state.Select {
			lines |= Select
		}
		if p.state.Start {
			lines |= Start
		}
	}
	return lines
}

// Read returns the 0xFF00 register value.
func (p *Pad) Read() byte {
	v := byte(0xC0)
	if !p.selectDirection {
		v |= 0x10
	}
	if !p.selectAction {
		v |= 0x20
	}
	v |= 0x0F &^ p.activeLowLines()
	return v
}

// Write updates the P14/P15 row-select bits from a 0xFF00 write.
func (p *Pad) Write(v byte) {
	p.selectDirection = v&0x10 == 0
	p.selectAction = v&0x20 == 0
}

// StateSnapshot is the gob-serializable snapshot used by save states.
type StateSnapshot struct {
	SelectDirection bool
	SelectAction    bool
	Buttons         State
}

// Save returns a snapshot of the pad.
func (p *Pad) Save() StateSnapshot {
	return StateSnapshot{SelectDirection: p.selectDirection, SelectAction: p.selectAction, Buttons: p.state}
}

// Restore loads a snapshot produced by Save.
func (p *Pad) Restore(s StateSnapshot) {
	p.selectDirection = s.SelectDirection
	p.selectAction = s.SelectAction
	p.state = s.Buttons
}
