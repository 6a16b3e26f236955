package encoder

import (
	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// encodeDual handles the shared layout of ADD, SUB, AND and OR: one side
// must be a data register. Toward the register the opmode is 0ss, toward
// the EA it is 1ss with the register as source.
func encodeDual(instr *parser.Instruction, labels parser.LabelInfo, base uint16) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	src := instr.Operands[0]
	dst := instr.Operands[1]

	opword, err := setOpwordSize(base, instr.Size, commonSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	switch {
	case dst.Kind == parser.OpDataRegister:
		// <ea> op Dn → Dn
		srcBits, srcAdd, err := encodeEA(src, instr.Size, labels)
		if err != nil {
			return OpcodeDescription{}, add, err
		}
		opword |= uint16(dst.Reg)<<9 | srcBits
		add[0] = srcAdd
		return OpcodeDescription{Val: opword}, add, nil

	case src.Kind == parser.OpDataRegister && dataAlterable(dst) && dst.Kind != parser.OpDataRegister:
		// Dn op <ea> → <ea>
		dstBits, dstAdd, err := encodeEA(dst, instr.Size, labels)
		if err != nil {
			return OpcodeDescription{}, add, err
		}
		opword |= uint16(src.Reg)<<9 | 0x0100 | dstBits
		add[1] = dstAdd
		return OpcodeDescription{Val: opword}, add, nil
	}

	if src.Kind != parser.OpDataRegister {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpDataRegister)
	}
	return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister,
		parser.OpAddress, parser.OpAddressPost, parser.OpAddressPre,
		parser.OpAddressOffset, parser.OpAddressIndex,
		parser.OpAbsoluteShort, parser.OpAbsoluteLong)
}

// encodeImmediateFamily handles ADDI, SUBI, ANDI, ORI, EORI and CMPI:
// immediate source, data-alterable destination.
func encodeImmediateFamily(instr *parser.Instruction, labels parser.LabelInfo, base uint16) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[0].Kind != parser.OpImmediate {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpImmediate)
	}
	if !dataAlterable(instr.Operands[1]) {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister,
			parser.OpAddress, parser.OpAddressPost, parser.OpAddressPre,
			parser.OpAddressOffset, parser.OpAddressIndex,
			parser.OpAbsoluteShort, parser.OpAbsoluteLong)
	}

	opword, err := setOpwordSize(base, instr.Size, commonSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	_, immAdd, err := encodeEA(instr.Operands[0], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}
	dstBits, dstAdd, err := encodeEA(instr.Operands[1], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= dstBits
	add[0] = immAdd
	add[1] = dstAdd
	return OpcodeDescription{Val: opword}, add, nil
}

// encodeCmp handles CMP <ea>, Dn.
func encodeCmp(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[1].Kind != parser.OpDataRegister {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister)
	}

	opword, err := setOpwordSize(cpu.OPCMP, instr.Size, commonSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	srcBits, srcAdd, err := encodeEA(instr.Operands[0], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= uint16(instr.Operands[1].Reg)<<9 | srcBits
	add[0] = srcAdd
	return OpcodeDescription{Val: opword}, add, nil
}

// encodeCmpa handles CMPA <ea>, An. Word and long only; the size lives in
// the opmode field.
func encodeCmpa(instr *parser.Instruction, labels parser.LabelInfo) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[1].Kind != parser.OpAddressRegister {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpAddressRegister)
	}

	opword, err := setOpwordSize(cpu.OPCMPA, instr.Size, addrSizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	srcBits, srcAdd, err := encodeEA(instr.Operands[0], instr.Size, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= uint16(instr.Operands[1].Reg)<<9 | srcBits
	add[0] = srcAdd
	return OpcodeDescription{Val: opword}, add, nil
}

// encodeMul handles MULS and MULU: word-sized source into a data register.
func encodeMul(instr *parser.Instruction, labels parser.LabelInfo, signed bool) (OpcodeDescription, [2]AdditionalData, error) {
	var add [2]AdditionalData

	if instr.Operands[1].Kind != parser.OpDataRegister {
		return OpcodeDescription{}, add, mismatch(instr, 1, parser.OpDataRegister)
	}
	if instr.Operands[0].Kind == parser.OpAddressRegister {
		return OpcodeDescription{}, add, mismatch(instr, 0, parser.OpDataRegister,
			parser.OpAddress, parser.OpImmediate)
	}

	base := uint16(cpu.OPMULU)
	if signed {
		base = cpu.OPMULS
	}
	opword, err := setOpwordSize(base, instr.Size, wordOnlySizeBits)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	srcBits, srcAdd, err := encodeEA(instr.Operands[0], cpu.SizeWord, labels)
	if err != nil {
		return OpcodeDescription{}, add, err
	}

	opword |= uint16(instr.Operands[1].Reg)<<9 | srcBits
	add[0] = srcAdd
	return OpcodeDescription{Val: opword}, add, nil
}
