package cpu

// InstructionData holds the operand fields extracted from an opcode word.
// It is the intermediate representation passed from the decoder to the
// executor. Some instructions smuggle payloads through the register fields;
// the individual decoders note where.
type InstructionData struct {
	// Size is the operation size (.b, .w, .l).
	Size Size
	// SrcMode and SrcReg define the source effective address.
	SrcMode, SrcReg uint16
	// DstMode and DstReg define the destination effective address.
	DstMode, DstReg uint16
	// OpMode carries instruction-specific bits: direction for ADD/SUB/AND/OR,
	// shift type and direction, the CMPA width.
	OpMode uint16
}

// ExecFunc executes one decoded instruction against a system snapshot.
// Advancing the program counter is the executor's job.
type ExecFunc func(*System, *InstructionData) error

// DecodedInstruction bundles the extracted operand data with the function
// that executes it.
type DecodedInstruction struct {
	// Name is the mnemonic, kept for the disassembler.
	Name string
	Data InstructionData
	Exec ExecFunc
}

func illegalInstruction() DecodedInstruction {
	return DecodedInstruction{Name: "illegal", Exec: opILLEGAL}
}

// Decode reads the 16-bit word at offset and returns a structured
// instruction. Decoding never fails: bit patterns outside the supported set
// come back as the illegal instruction, whose executor faults the step.
func Decode(mem *ExecutableMemory, offset int32) DecodedInstruction {
	opcode, err := mem.ReadWord(offset)
	if err != nil {
		return illegalInstruction()
	}

	// An all-zeroes word is treated as illegal so that zero-filled memory
	// halts execution instead of running as ORI.B #0, D0.
	if opcode == 0 {
		return illegalInstruction()
	}

	switch opcode >> 12 {
	case 0b0000:
		return decodeImmediateFamily(opcode)
	case 0b0001, 0b0010, 0b0011:
		return decodeMove(opcode)
	case 0b0100:
		return decodeMisc(opcode)
	case 0b0110:
		return decodeBranch(opcode)
	case 0b0111:
		return decodeMoveq(opcode)
	case 0b1000:
		return decodeDual(opcode, "or", opOR)
	case 0b1001:
		return decodeDual(opcode, "sub", opSUB)
	case 0b1011:
		return decodeCmpEor(opcode)
	case 0b1100:
		return decodeAndMul(opcode)
	case 0b1101:
		return decodeDual(opcode, "add", opADD)
	case 0b1110:
		return decodeShift(opcode)
	}

	return illegalInstruction()
}

// decodeMove handles MOVE and MOVEA. MOVE has its own size encoding in bits
// 13-12: 01 is byte, 11 is word, 10 is long. 00 is an illegal pattern.
func decodeMove(opcode uint16) DecodedInstruction {
	var size Size
	switch (opcode >> 12) & 0b11 {
	case 0b01:
		size = SizeByte
	case 0b11:
		size = SizeWord
	case 0b10:
		size = SizeLong
	default:
		return illegalInstruction()
	}

	inst := DecodedInstruction{
		Name: "move",
		Data: InstructionData{
			Size:    size,
			DstReg:  (opcode >> 9) & 0x7,
			DstMode: (opcode >> 6) & 0x7,
			SrcMode: (opcode >> 3) & 0x7,
			SrcReg:  opcode & 0x7,
		},
		Exec: opMOVE,
	}

	// A MOVE with an address register destination is MOVEA.
	if inst.Data.DstMode == ModeAddr {
		if size == SizeByte {
			return illegalInstruction()
		}
		inst.Name = "movea"
		inst.Exec = opMOVEA
	}
	return inst
}

// decodeMoveq handles MOVEQ. The 8-bit immediate rides in SrcReg.
func decodeMoveq(opcode uint16) DecodedInstruction {
	if opcode&0x0100 != 0 {
		return illegalInstruction()
	}
	return DecodedInstruction{
		Name: "moveq",
		Data: InstructionData{
			Size:   SizeLong,
			DstReg: (opcode >> 9) & 0x7,
			SrcReg: opcode & 0xFF,
		},
		Exec: opMOVEQ,
	}
}

// decodeImmediateFamily handles the line-0 instructions ORI, ANDI, SUBI,
// ADDI, EORI and CMPI. The source is always an immediate.
func decodeImmediateFamily(opcode uint16) DecodedInstruction {
	size, ok := commonSize((opcode >> 6) & 0b11)
	if !ok {
		return illegalInstruction()
	}

	data := InstructionData{
		Size:    size,
		SrcMode: ModeOther,
		SrcReg:  RegImmediate,
		DstMode: (opcode >> 3) & 0x7,
		DstReg:  opcode & 0x7,
	}

	switch (opcode >> 8) & 0xF {
	case 0x0:
		return DecodedInstruction{Name: "ori", Data: data, Exec: opORI}
	case 0x2:
		return DecodedInstruction{Name: "andi", Data: data, Exec: opANDI}
	case 0x4:
		return DecodedInstruction{Name: "subi", Data: data, Exec: opSUBI}
	case 0x6:
		return DecodedInstruction{Name: "addi", Data: data, Exec: opADDI}
	case 0xA:
		return DecodedInstruction{Name: "eori", Data: data, Exec: opEORI}
	case 0xC:
		return DecodedInstruction{Name: "cmpi", Data: data, Exec: opCMPI}
	}
	return illegalInstruction()
}

// decodeMisc handles the line-4 group: CLR, NEG, NOT, TST, JMP, JSR, RTS.
func decodeMisc(opcode uint16) DecodedInstruction {
	if opcode == OPRTS {
		return DecodedInstruction{Name: "rts", Exec: opRTS}
	}

	ea := InstructionData{
		DstMode: (opcode >> 3) & 0x7,
		DstReg:  opcode & 0x7,
	}

	switch opcode & 0xFFC0 {
	case OPJMP:
		return DecodedInstruction{Name: "jmp", Data: ea, Exec: opJMP}
	case OPJSR:
		return DecodedInstruction{Name: "jsr", Data: ea, Exec: opJSR}
	}

	size, ok := commonSize((opcode >> 6) & 0b11)
	if !ok {
		return illegalInstruction()
	}
	ea.Size = size

	switch opcode & 0xFF00 {
	case OPCLR:
		return DecodedInstruction{Name: "clr", Data: ea, Exec: opCLR}
	case OPNEG:
		return DecodedInstruction{Name: "neg", Data: ea, Exec: opNEG}
	case OPNOT:
		return DecodedInstruction{Name: "not", Data: ea, Exec: opNOT}
	case OPTST:
		return DecodedInstruction{Name: "tst", Data: ea, Exec: opTST}
	}
	return illegalInstruction()
}

// decodeBranch handles BRA, BSR and the Bcc family. The 4-bit condition
// rides in SrcReg and the raw 8-bit displacement field in DstReg; a zero
// field tells the executor to read a full word displacement.
func decodeBranch(opcode uint16) DecodedInstruction {
	cond := (opcode >> 8) & 0xF
	data := InstructionData{
		SrcReg: cond,
		DstReg: opcode & 0xFF,
	}

	switch cond {
	case 0x0:
		return DecodedInstruction{Name: "bra", Data: data, Exec: opBRA}
	case 0x1:
		return DecodedInstruction{Name: "bsr", Data: data, Exec: opBSR}
	default:
		return DecodedInstruction{Name: "b" + ConditionNames[cond], Data: data, Exec: opBcc}
	}
}

// decodeDual handles the shared layout of ADD, SUB and OR: register in bits
// 11-9, opmode in 8-6 (0ss toward Dn, 1ss toward the EA), EA in 5-0. The
// address-direction opmodes 011 and 111 belong to instructions outside the
// supported set.
func decodeDual(opcode uint16, name string, exec ExecFunc) DecodedInstruction {
	opmode := (opcode >> 6) & 0x7
	size, ok := commonSize(opmode & 0b11)
	if !ok {
		return illegalInstruction()
	}

	return DecodedInstruction{
		Name: name,
		Data: InstructionData{
			Size:    size,
			OpMode:  opmode,
			DstReg:  (opcode >> 9) & 0x7,
			SrcMode: (opcode >> 3) & 0x7,
			SrcReg:  opcode & 0x7,
		},
		Exec: exec,
	}
}

// decodeCmpEor splits line B between CMP (opmode 0ss), CMPA (011 and 111)
// and EOR (1ss).
func decodeCmpEor(opcode uint16) DecodedInstruction {
	opmode := (opcode >> 6) & 0x7

	switch opmode {
	case 0b011, 0b111:
		size := SizeWord
		if opmode == 0b111 {
			size = SizeLong
		}
		return DecodedInstruction{
			Name: "cmpa",
			Data: InstructionData{
				Size:    size,
				OpMode:  opmode,
				DstReg:  (opcode >> 9) & 0x7,
				SrcMode: (opcode >> 3) & 0x7,
				SrcReg:  opcode & 0x7,
			},
			Exec: opCMPA,
		}
	}

	size, ok := commonSize(opmode & 0b11)
	if !ok {
		return illegalInstruction()
	}
	data := InstructionData{
		Size:    size,
		OpMode:  opmode,
		DstReg:  (opcode >> 9) & 0x7,
		SrcMode: (opcode >> 3) & 0x7,
		SrcReg:  opcode & 0x7,
	}

	if opmode&0b100 == 0 {
		return DecodedInstruction{Name: "cmp", Data: data, Exec: opCMP}
	}
	return DecodedInstruction{Name: "eor", Data: data, Exec: opEOR}
}

// decodeAndMul splits line C between AND and the word multiplies, which sit
// on the address-direction opmodes: 011 is MULU, 111 is MULS.
func decodeAndMul(opcode uint16) DecodedInstruction {
	opmode := (opcode >> 6) & 0x7

	switch opmode {
	case 0b011, 0b111:
		inst := DecodedInstruction{
			Name: "mulu",
			Data: InstructionData{
				Size:    SizeWord,
				DstReg:  (opcode >> 9) & 0x7,
				SrcMode: (opcode >> 3) & 0x7,
				SrcReg:  opcode & 0x7,
			},
			Exec: opMULU,
		}
		if opmode == 0b111 {
			inst.Name = "muls"
			inst.Exec = opMULS
		}
		return inst
	}

	return decodeDual(opcode, "and", opAND)
}

// Shift type field values (bits 4-3 register form, bits 10-9 memory form).
const (
	shiftArithmetic uint16 = 0b00
	shiftLogical    uint16 = 0b01
	shiftRotate     uint16 = 0b11
)

var shiftNames = map[uint16]string{
	shiftArithmetic<<1 | 0: "asr",
	shiftArithmetic<<1 | 1: "asl",
	shiftLogical<<1 | 0:    "lsr",
	shiftLogical<<1 | 1:    "lsl",
	shiftRotate<<1 | 0:     "ror",
	shiftRotate<<1 | 1:     "rol",
}

// decodeShift handles line E. Register form: count or register in bits
// 11-9, direction in 8, size in 7-6, immediate/register select in 5, type
// in 4-3, data register in 2-0. Memory form (size field 11): type in bits
// 10-9, direction in 8, EA in 5-0, always a word shifted by one.
// OpMode carries type<<1|direction for both forms.
func decodeShift(opcode uint16) DecodedInstruction {
	dir := (opcode >> 8) & 1

	if (opcode>>6)&0b11 == 0b11 {
		typ := (opcode >> 9) & 0b11
		name, ok := shiftNames[typ<<1|dir]
		if !ok {
			return illegalInstruction()
		}
		return DecodedInstruction{
			Name: name,
			Data: InstructionData{
				Size:    SizeWord,
				OpMode:  typ<<1 | dir,
				DstMode: (opcode >> 3) & 0x7,
				DstReg:  opcode & 0x7,
			},
			Exec: opShiftMem,
		}
	}

	typ := (opcode >> 3) & 0b11
	name, ok := shiftNames[typ<<1|dir]
	if !ok {
		return illegalInstruction()
	}
	size, ok := commonSize((opcode >> 6) & 0b11)
	if !ok {
		return illegalInstruction()
	}
	return DecodedInstruction{
		Name: name,
		Data: InstructionData{
			Size:    size,
			OpMode:  typ<<1 | dir,
			SrcMode: (opcode >> 5) & 1, // 0: immediate count, 1: register count
			SrcReg:  (opcode >> 9) & 0x7,
			DstMode: ModeData,
			DstReg:  opcode & 0x7,
		},
		Exec: opShiftReg,
	}
}

// commonSize maps the 2-bit size field shared by most instruction families.
func commonSize(bits uint16) (Size, bool) {
	switch bits {
	case 0b00:
		return SizeByte, true
	case 0b01:
		return SizeWord, true
	case 0b10:
		return SizeLong, true
	}
	return SizeInvalid, false
}
