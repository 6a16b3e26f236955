package encoder

import (
	"fmt"

	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

//
// Size-bit lookup tables
//

var (
	// commonSizeBits places the shared 2-bit size field at bits 7-6.
	commonSizeBits = map[cpu.Size]uint16{
		cpu.SizeByte: 0x0000,
		cpu.SizeWord: 0x0040,
		cpu.SizeLong: 0x0080,
	}

	// moveSizeBits is MOVE's own encoding at bits 13-12, with its
	// exceptional mapping: byte is 01, word is 11, long is 10.
	moveSizeBits = map[cpu.Size]uint16{
		cpu.SizeByte: 0x1000,
		cpu.SizeWord: 0x3000,
		cpu.SizeLong: 0x2000,
	}

	// addrSizeBits is the CMPA opmode at bits 8-6.
	addrSizeBits = map[cpu.Size]uint16{
		cpu.SizeWord: 0x00C0,
		cpu.SizeLong: 0x01C0,
	}

	// wordOnlySizeBits serves MULS and MULU, which exist at word size only.
	wordOnlySizeBits = map[cpu.Size]uint16{
		cpu.SizeWord: 0x0000,
	}
)

// setOpwordSize applies the size field to an opcode.
func setOpwordSize(opword uint16, size cpu.Size, sizeMap map[cpu.Size]uint16) (uint16, error) {
	if size == cpu.SizeInvalid {
		size = cpu.SizeWord
	}
	bits, ok := sizeMap[size]
	if !ok {
		return 0, fmt.Errorf("unsupported size for this instruction")
	}
	return opword | bits, nil
}

// mismatch builds the error for an operand whose addressing form is not
// permitted where it appears.
func mismatch(instr *parser.Instruction, index int, expected ...parser.OperandKind) error {
	return parser.OperandTypeMismatch{
		Expected: expected,
		Got:      instr.Operands[index].Kind,
		Index:    index,
	}
}

// encodeEA produces the 6-bit mode:reg field for an operand plus its
// additional data words.
func encodeEA(op parser.Operand, size cpu.Size, labels parser.LabelInfo) (uint16, AdditionalData, error) {
	reg := uint16(op.Reg)

	switch op.Kind {
	case parser.OpDataRegister:
		return cpu.ModeData<<3 | reg, noData(), nil

	case parser.OpAddressRegister:
		return cpu.ModeAddr<<3 | reg, noData(), nil

	case parser.OpAddress:
		return cpu.ModeAddrInd<<3 | reg, noData(), nil

	case parser.OpAddressPost:
		return cpu.ModeAddrPostInc<<3 | reg, noData(), nil

	case parser.OpAddressPre:
		return cpu.ModeAddrPreDec<<3 | reg, noData(), nil

	case parser.OpAddressOffset:
		disp, err := op.Offset.Eval(labels)
		if err != nil {
			return 0, noData(), err
		}
		return cpu.ModeAddrDisp<<3 | reg, wordData(uint16(int16(disp))), nil

	case parser.OpAddressIndex:
		ext, err := briefExtension(op, labels)
		if err != nil {
			return 0, noData(), err
		}
		return cpu.ModeAddrIndex<<3 | reg, wordData(ext), nil

	case parser.OpAbsoluteShort:
		val, err := op.Value.Eval(labels)
		if err != nil {
			return 0, noData(), err
		}
		return cpu.ModeOther<<3 | cpu.RegAbsShort, wordData(uint16(val)), nil

	case parser.OpAbsoluteLong:
		val, err := op.Value.Eval(labels)
		if err != nil {
			return 0, noData(), err
		}
		return cpu.ModeOther<<3 | cpu.RegAbsLong, longData(uint32(val)), nil

	case parser.OpImmediate:
		val, err := op.Value.Eval(labels)
		if err != nil {
			return 0, noData(), err
		}
		if size == cpu.SizeLong {
			return cpu.ModeOther<<3 | cpu.RegImmediate, longData(uint32(val)), nil
		}
		return cpu.ModeOther<<3 | cpu.RegImmediate, wordData(uint16(val)), nil
	}

	return 0, noData(), fmt.Errorf("unsupported addressing mode %s", op.Kind)
}

// briefExtension builds the single extension word of the indexed modes:
// bit 15 selects the index register file, bits 14-12 its number, bit 11 its
// width (always long here, matching what the parser accepts), bits 7-0 the
// signed displacement.
func briefExtension(op parser.Operand, labels parser.LabelInfo) (uint16, error) {
	var ext uint16

	if op.Offset != nil {
		disp, err := op.Offset.Eval(labels)
		if err != nil {
			return 0, err
		}
		ext |= uint16(uint8(int8(disp)))
	}

	ext |= uint16(op.OthReg&0x7) << 12
	if op.OthReg >= 8 {
		ext |= 0x8000
	}
	ext |= 0x0800
	return ext, nil
}

// dataAlterable reports whether an operand can be a plain destination.
func dataAlterable(op parser.Operand) bool {
	switch op.Kind {
	case parser.OpDataRegister, parser.OpAddress, parser.OpAddressPost,
		parser.OpAddressPre, parser.OpAddressOffset, parser.OpAddressIndex,
		parser.OpAbsoluteShort, parser.OpAbsoluteLong:
		return true
	}
	return false
}

// controlMode reports whether an operand can be a jump target.
func controlMode(op parser.Operand) bool {
	switch op.Kind {
	case parser.OpAddress, parser.OpAddressOffset, parser.OpAddressIndex,
		parser.OpAbsoluteShort, parser.OpAbsoluteLong:
		return true
	}
	return false
}
