package encoder

import (
	"fmt"

	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// encodeBranch handles BRA, BSR and the Bcc family. An immediate operand
// is a raw displacement; an absolute or label operand is a target the
// displacement is computed to. Displacements are measured from the opcode
// word at offset. Short displacements ride in the low byte; everything
// else zeroes that byte and emits a 16-bit word.
func encodeBranch(instr *parser.Instruction, labels parser.LabelInfo, offset int32) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	opword := uint16(cpu.OPBRA) | instr.Cond<<8

	var disp int32
	op := instr.Operands[0]
	switch op.Kind {
	case parser.OpImmediate:
		v, err := op.Value.Eval(labels)
		if err != nil {
			return OpcodeDescription{}, add, err
		}
		disp = v
	case parser.OpAbsoluteShort, parser.OpAbsoluteLong:
		target, err := op.Value.Eval(labels)
		if err != nil {
			return OpcodeDescription{}, add, err
		}
		disp = target - offset
	default:
		return OpcodeDescription{}, add, mismatch(instr, 0,
			parser.OpImmediate, parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}

	if instr.BranchIsShort() {
		opword |= uint16(uint8(int8(disp)))
		return OpcodeDescription{Val: opword}, add, nil
	}

	if disp < -32768 || disp > 32767 {
		return OpcodeDescription{}, add, fmt.Errorf("branch displacement %d out of range", disp)
	}
	add[0] = wordData(uint16(int16(disp)))
	return OpcodeDescription{Val: opword}, add, nil
}

// encodeJump handles JMP and JSR, which take a control effective address.
func encodeJump(instr *parser.Instruction, labels parser.LabelInfo, base uint16) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if !controlMode(instr.Operands[0]) {
		return OpcodeDescription{}, add, mismatch(instr, 0,
			parser.OpAddress, parser.OpAddressOffset, parser.OpAddressIndex,
			parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}

	eaBits, eaAdd, err := encodeEA(instr.Operands[0], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	add[0] = eaAdd
	return OpcodeDescription{Val: base | eaBits}, add, nil
}
