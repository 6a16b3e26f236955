package encoder

import (
	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// shiftBits maps the shift mnemonics to their type (bits 4-3 register
// form, 10-9 memory form) and direction bit.
var shiftBits = map[parser.Mnemonic]struct {
	typ uint16
	dir uint16
}{
	parser.MnAsr: {0b00, 0},
	parser.MnAsl: {0b00, 1},
	parser.MnLsr: {0b01, 0},
	parser.MnLsl: {0b01, 1},
	parser.MnRor: {0b11, 0},
	parser.MnRol: {0b11, 1},
}

// encodeShift handles both shift forms. The register form keeps its count
// in the opcode: an immediate 1-8 (8 encoded as 0) or a data register.
// The memory form shifts a word in memory by one.
func encodeShift(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData
	bits := shiftBits[instr.Mnemonic]

	if instr.NumOperands == 2 {
		// Register form; the profile already pinned the operand kinds.
		opword, err := setOpwordSize(cpu.OPShiftRotateBase, instr.Size, commonSizeBits)
		if err != nil {
			return OpcodeDescription{}, add, err
		}
		opword |= bits.dir<<8 | bits.typ<<3 | uint16(instr.Operands[1].Reg)

		count := instr.Operands[0]
		if count.Kind == parser.OpImmediate {
			val, err := count.Value.Eval(labels)
			if err != nil {
				return OpcodeDescription{}, add, err
			}
			if val < 1 || val > 8 {
				return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpImmediate)
			}
			opword |= uint16(val&0x7) << 9
		} else {
			opword |= uint16(count.Reg)<<9 | 0x0020
		}
		return OpcodeDescription{Val: opword}, add, nil
	}

	// Memory form: always word, always by one.
	if instr.Size != cpu.SizeWord {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpAddress)
	}
	eaBits, eaAdd, err := encodeEA(instr.Operands[0], cpu.SizeWord, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword := uint16(cpu.OPShiftRotateBase) | 0x00C0 | bits.typ<<9 | bits.dir<<8 | eaBits
	add[0] = eaAdd
	return OpcodeDescription{Val: opword}, add, nil
}
