package cpu

import "errors"

// ErrIllegalInstruction is returned by the illegal executor. The emulator
// reports the step as failed and leaves the snapshot history untouched.
var ErrIllegalInstruction = errors.New("illegal instruction")

// opILLEGAL is the executor every unsupported bit pattern routes to. It
// changes nothing and faults the step.
func opILLEGAL(s *System, data *InstructionData) error {
	return ErrIllegalInstruction
}
