package encoder

import (
	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// encodeMove handles MOVE. The destination EA sits reversed in the opcode:
// register at bits 11-9, mode at 8-6.
func encodeMove(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	src := instr.Operands[0]
	dst := instr.Operands[1]

	if !dataAlterable(dst) && dst.Kind != parser.OpAddressRegister {
		return OpcodeDescription{}, add, mismatch(instr, 1,
			parser.OpDataRegister, parser.OpAddressRegister, parser.OpAddress,
			parser.OpAddressPost, parser.OpAddressPre, parser.OpAddressOffset,
			parser.OpAddressIndex, parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}
	if dst.Kind == parser.OpAddressRegister && instr.Size == cpu.SizeByte {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister)
	}

	opword, err := setOpwordSize(cpu.OPMOVE, instr.Size, moveSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	srcBits, srcAdd, err := encodeEA(src, instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}
	dstBits, dstAdd, err := encodeEA(dst, instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= srcBits
	opword |= (dstBits & 0x7) << 9   // destination register
	opword |= (dstBits >> 3) << 6    // destination mode
	add[0] = srcAdd
	add[1] = dstAdd

	return OpcodeDescription{Val: opword}, add, nil
}

// encodeMoveq handles MOVEQ: an 8-bit immediate folded into the opcode
// word, destination always a data register.
func encodeMoveq(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[1].Kind != parser.OpDataRegister {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister)
	}

	val, err := instr.Operands[0].Value.Eval(labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}
	if val < -128 || val > 127 {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpImmediate)
	}

	opword := uint16(cpu.OPMOVEQ) | uint16(instr.Operands[1].Reg)<<9 | uint16(uint8(int8(val)))
	return OpcodeDescription{Val: opword}, add, nil
}
