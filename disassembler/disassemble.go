// Package disassembler renders a binary image back to assembly text. It
// leans on the cpu decoder so the text always agrees with what execution
// would do.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/emu68/cpu"
)

// Instruction represents a single decoded instruction at a specific
// address.
type Instruction struct {
	Address  int32
	Op       uint16
	Mnemonic string
	Operands string
	Size     int32
}

// String renders one line: address, opcode word, mnemonic and operands.
func (i Instruction) String() string {
	if i.Operands == "" {
		return fmt.Sprintf("%08X: %04X  %s", i.Address, i.Op, i.Mnemonic)
	}
	return fmt.Sprintf("%08X: %04X  %s %s", i.Address, i.Op, i.Mnemonic, i.Operands)
}

// Disassemble linearly sweeps the image, decoding one instruction per
// opcode word and skipping its extension words.
func Disassemble(code []byte) (string, error) {
	instrs, err := Sweep(code)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, in := range instrs {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Sweep decodes the whole image into structured instructions.
func Sweep(code []byte) ([]Instruction, error) {
	mem := cpu.ExecutableMemory{
		Data:       append([]byte(nil), code...),
		Executable: cpu.Marker{Begin: 0, End: int32(len(code))},
	}

	var out []Instruction
	for pc := int32(0); pc+1 < mem.Len(); {
		op, err := mem.ReadWord(pc)
		if err != nil {
			return nil, err
		}

		decoded := cpu.Decode(&mem, pc)
		in := render(&mem, pc, op, decoded)
		out = append(out, in)
		pc += in.Size
	}
	return out, nil
}
