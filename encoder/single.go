package encoder

import (
	"github.com/Urethramancer/emu68/parser"
)

// encodeSingle handles the one-operand group CLR, NEG, NOT and TST.
// Address registers are not a legal destination for any of them.
func encodeSingle(instr *parser.Instruction, labels parser.LabelInfo, base uint16) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if !dataAlterable(instr.Operands[0]) {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpDataRegister,
			parser.OpAddress, parser.OpAddressPost, parser.OpAddressPre,
			parser.OpAddressOffset, parser.OpAddressIndex,
			parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}

	opword, err := setOpwordSize(base, instr.Size, commonSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	eaBits, eaAdd, err := encodeEA(instr.Operands[0], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	add[0] = eaAdd
	return OpcodeDescription{Val: opword | eaBits}, add, nil
}
