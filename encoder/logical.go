package encoder

import (
	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// encodeEor handles EOR, which only writes toward the EA: the source must
// be a data register even when the destination is one too.
func encodeEor(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[0].Kind != parser.OpDataRegister {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpDataRegister)
	}
	if !dataAlterable(instr.Operands[1]) {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister,
			parser.OpAddress, parser.OpAddressPost, parser.OpAddressPre,
			parser.OpAddressOffset, parser.OpAddressIndex,
			parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}

	opword, err := setOpwordSize(cpu.OPEOR, instr.Size, commonSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	dstBits, dstAdd, err := encodeEA(instr.Operands[1], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= uint16(instr.Operands[0].Reg)<<9 | dstBits
	add[1] = dstAdd
	return OpcodeDescription{Val: opword}, add, nil
}
