package emulator

import "github.com/Urethramancer/emu68/parser"

// RetainStates selects what happens to prior snapshots as execution steps.
type RetainStates int

const (
	// RetainAlways keeps every snapshot, so any step can be rolled back.
	RetainAlways RetainStates = iota
	// RetainNever keeps only the head snapshot and updates it in place.
	RetainNever
)

// DefaultStackSize is the stack reservation DefaultSettings uses. A Settings
// value whose StackSize is zero reserves no stack at all.
const DefaultStackSize = 4 * 1024

// Settings configures an Emulator.
type Settings struct {
	// StackSize is the number of bytes reserved behind the executable
	// image. Odd sizes are rounded up to even.
	StackSize int32
	// RetainStates selects the snapshot retention policy.
	RetainStates RetainStates
	// Parser is forwarded to the assembly parser.
	Parser parser.Settings
}

// DefaultSettings returns the settings a zero-argument New uses.
func DefaultSettings() Settings {
	return Settings{
		StackSize:    DefaultStackSize,
		RetainStates: RetainAlways,
	}
}
