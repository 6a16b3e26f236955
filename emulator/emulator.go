// Package emulator steps compiled programs against a modeled CPU, keeping
// an ordered history of system snapshots so every intermediate state can be
// inspected and rolled back.
package emulator

import (
	"context"

	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/encoder"
	"github.com/Urethramancer/emu68/parser"
)

// Emulator owns the snapshot history. states[0] is the initial empty state
// and is never popped.
type Emulator struct {
	states   []cpu.System
	settings Settings
}

// New creates an emulator with default settings.
func New() *Emulator {
	return NewWithSettings(DefaultSettings())
}

// NewWithSettings creates an emulator with the given settings.
func NewWithSettings(settings Settings) *Emulator {
	return &Emulator{
		states:   make([]cpu.System, 1),
		settings: settings,
	}
}

// States returns the snapshot history, oldest first.
func (e *Emulator) States() []cpu.System {
	return e.states
}

// Settings returns the active settings.
func (e *Emulator) Settings() Settings {
	return e.settings
}

// LoadNewSettings resets the history and swaps the settings.
func (e *Emulator) LoadNewSettings(settings Settings) {
	e.Reset()
	e.settings = settings
}

// NewState parses and compiles source text, lays the image out with a stack
// region behind it, and pushes the resulting snapshot. The history is left
// untouched on any parse or encode error. Empty input is a no-op.
func (e *Emulator) NewState(src string) error {
	if src == "" {
		return nil
	}

	prog, perr := parser.Parse(src, e.settings.Parser)
	if perr != nil {
		return perr
	}

	mem, err := encoder.Compile(prog)
	if err != nil {
		return err
	}

	e.pushLayout(mem)
	return nil
}

// NewStateFromBinary lays out an already-encoded image under the same
// contract as NewState.
func (e *Emulator) NewStateFromBinary(binary []byte) {
	data := make([]byte, len(binary))
	copy(data, binary)
	e.pushLayout(cpu.ExecutableMemory{
		Data:       data,
		Executable: cpu.Marker{Begin: 0, End: int32(len(data))},
	})
}

// pushLayout appends the stack region to an image, points A7 just below the
// top, and pushes the new snapshot. Registers carry over from the previous
// head.
func (e *Emulator) pushLayout(mem cpu.ExecutableMemory) {
	if e.settings.StackSize&1 != 0 {
		e.settings.StackSize++
	}

	codeLen := mem.Len()
	mem.Executable = cpu.Marker{Begin: 0, End: codeLen}
	mem.Stack = cpu.Marker{Begin: codeLen, End: codeLen + e.settings.StackSize}
	mem.Data = append(mem.Data, make([]byte, e.settings.StackSize)...)

	last := e.states[len(e.states)-1].Clone()
	last.Mem = mem
	last.CPU.PC = 0
	last.CPU.A[cpu.A7] = uint32(mem.Len() - 2)
	e.states = append(e.states, last)
}

// Step decodes and executes one instruction at the head snapshot's PC.
// It returns false when there is nothing to run: empty memory, PC outside
// the executable region, or an instruction that faults. Under RetainAlways
// a successful step pushes a new snapshot; under RetainNever the head is
// updated in place.
func (e *Emulator) Step() bool {
	head := &e.states[len(e.states)-1]

	if head.Mem.Empty() {
		return false
	}
	pc := head.CPU.PC
	if !head.Mem.Executable.Contains(pc) {
		return false
	}

	instr := cpu.Decode(&head.Mem, pc)

	switch e.settings.RetainStates {
	case RetainNever:
		return instr.Exec(head, &instr.Data) == nil

	case RetainAlways:
		next := head.Clone()
		if err := instr.Exec(&next, &instr.Data); err != nil {
			return false
		}
		e.states = append(e.states, next)
		return true
	}

	return false
}

// Rollback pops one snapshot, never going below the initial state. It
// reports whether a pop happened.
func (e *Emulator) Rollback() bool {
	if len(e.states) > 1 {
		e.states = e.states[:len(e.states)-1]
		return true
	}
	return false
}

// Reset pops everything but the initial state and reports whether anything
// was popped.
func (e *Emulator) Reset() bool {
	ret := len(e.states) > 1
	e.states = e.states[:1]
	return ret
}

// ContinueExecution steps until Step reports false or the context is
// cancelled, and returns the number of successful steps.
func ContinueExecution(ctx context.Context, e *Emulator) int {
	steps := 0
	for ctx.Err() == nil && e.Step() {
		steps++
	}
	return steps
}
