package parser

import "github.com/Urethramancer/emu68/cpu"

// Mnemonic identifies a parsed instruction.
type Mnemonic uint8

const (
	MnNone Mnemonic = iota
	MnMove
	MnMoveq
	MnAdd
	MnAddi
	MnSub
	MnSubi
	MnAnd
	MnAndi
	MnOr
	MnOri
	MnXor
	MnXori
	MnCmp
	MnCmpi
	MnCmpa
	MnMuls
	MnMulu
	MnLsl
	MnLsr
	MnAsl
	MnAsr
	MnRol
	MnRor
	MnJmp
	MnJsr
	MnRts
	MnBra
	MnBsr
	MnBcc
	MnClr
	MnNeg
	MnNot
	MnTst
)

var mnemonicNames = [...]string{
	"", "move", "moveq", "add", "addi", "sub", "subi", "and", "andi",
	"or", "ori", "xor", "xori", "cmp", "cmpi", "cmpa", "muls", "mulu",
	"lsl", "lsr", "asl", "asr", "rol", "ror", "jmp", "jsr", "rts",
	"bra", "bsr", "bcc", "clr", "neg", "not", "tst",
}

func (m Mnemonic) String() string {
	if int(m) < len(mnemonicNames) {
		return mnemonicNames[m]
	}
	return "invalid"
}

// Instruction is one parsed instruction: mnemonic, operation size (word
// when no suffix was given), and up to two operands.
type Instruction struct {
	Mnemonic Mnemonic
	// Cond is the 4-bit condition for the Bcc family.
	Cond        uint16
	Size        cpu.Size
	Operands    [2]Operand
	NumOperands int
}

// Clone deep-copies the instruction and its operand expressions.
func (i Instruction) Clone() Instruction {
	i.Operands[0] = i.Operands[0].Clone()
	i.Operands[1] = i.Operands[1].Clone()
	return i
}

// Program is a parsed source file: the instruction list plus the label
// table keyed by name hash.
type Program struct {
	Instructions []Instruction
	Labels       LabelInfo
}

// parseDataSize matches the optional .b/.w/.l suffix (either case) and
// stores the size.
func parseDataSize(instr *Instruction) Parser {
	inner := Next(Char('.'), AnyOf(Char('b'), Char('w'), Char('l'), Char('B'), Char('W'), Char('L')))
	return Map(inner, func(consumed string) {
		switch consumed[0] {
		case 'b', 'B':
			instr.Size = cpu.SizeByte
		case 'w', 'W':
			instr.Size = cpu.SizeWord
		case 'l', 'L':
			instr.Size = cpu.SizeLong
		}
	})
}

// profileCommon parses "[.size] <any>, <any>".
func profileCommon(instr *Instruction) Parser {
	return func(input string) Metadata {
		res := SeqNext(
			AlwaysTrue(parseDataSize(instr)),
			Whitespace(),
			anyOperand(instr, 0),
			AlwaysTrue(Whitespace()),
			ErroringChar(','),
			AlwaysTrue(Whitespace()),
			anyOperand(instr, 1),
		)(input)
		if res.Ok {
			instr.NumOperands = 2
		}
		return res
	}
}

// profileImmediate parses "[.size] #<imm>, <any>".
func profileImmediate(instr *Instruction) Parser {
	return func(input string) Metadata {
		res := SeqNext(
			AlwaysTrue(parseDataSize(instr)),
			Whitespace(),
			operandImmediate(instr, 0),
			AlwaysTrue(Whitespace()),
			ErroringChar(','),
			AlwaysTrue(Whitespace()),
			anyOperand(instr, 1),
		)(input)
		if res.Ok {
			instr.NumOperands = 2
		}
		return res
	}
}

// profileBranch parses "<imm or label>".
func profileBranch(instr *Instruction) Parser {
	return func(input string) Metadata {
		p := SeqNext(
			Whitespace(),
			AnyOf(operandImmediate(instr, 0), memoryAddress(instr, 0)),
		)
		res := SetError(p, OperandTypeMismatch{
			Expected: []OperandKind{OpImmediate, OpAbsoluteShort, OpAbsoluteLong},
			Index:    0,
		})(input)
		if res.Ok {
			instr.NumOperands = 1
		}
		return res
	}
}

// profileOneRegister parses "[.size] <register>".
func profileOneRegister(instr *Instruction) Parser {
	return func(input string) Metadata {
		res := SeqNext(
			AlwaysTrue(parseDataSize(instr)),
			Whitespace(),
			anyRegister(instr, 0),
		)(input)
		if res.Ok {
			instr.NumOperands = 1
		}
		return res
	}
}

// profileJump parses a single control operand for jmp and jsr.
func profileJump(instr *Instruction) Parser {
	return func(input string) Metadata {
		res := SeqNext(Whitespace(), anyOperand(instr, 0))(input)
		if res.Ok {
			instr.NumOperands = 1
		}
		return res
	}
}

// profileNone parses no operands at all.
func profileNone(instr *Instruction) Parser {
	return func(input string) Metadata {
		return Metadata{Ok: true, Remainder: input}
	}
}

// profileShift parses either the two-operand register form, where the
// destination must be a data register and the count an immediate or data
// register, or the one-operand memory form that shifts by one.
func profileShift(instr *Instruction) Parser {
	return func(input string) Metadata {
		res := profileCommon(instr)(input)
		if res.Ok {
			if instr.Operands[1].Kind != OpDataRegister {
				res.Ok = false
				res.Err = OperandTypeMismatch{
					Expected: []OperandKind{OpDataRegister},
					Got:      instr.Operands[1].Kind,
					Index:    1,
				}
				return res
			}
			if instr.Operands[0].Kind != OpImmediate && instr.Operands[0].Kind != OpDataRegister {
				res.Ok = false
				res.Err = OperandTypeMismatch{
					Expected: []OperandKind{OpDataRegister, OpImmediate},
					Got:      instr.Operands[0].Kind,
					Index:    0,
				}
				return res
			}
			return res
		}

		memRes := SeqNext(
			AlwaysTrue(parseDataSize(instr)),
			Whitespace(),
			anyOperand(instr, 0),
		)(input)
		if !memRes.Ok {
			return memRes
		}
		if instr.Operands[0].IsRegister() || instr.Operands[0].Kind == OpImmediate {
			memRes.Ok = false
			memRes.Err = OperandTypeMismatch{
				Expected: []OperandKind{OpAddress, OpAbsoluteShort, OpAbsoluteLong},
				Got:      instr.Operands[0].Kind,
				Index:    0,
			}
			return memRes
		}
		instr.NumOperands = 1
		return memRes
	}
}

type instructionEntry struct {
	mnemonic Mnemonic
	cond     uint16
	profile  func(*Instruction) Parser
}

// instructionTable maps source mnemonics to their operand profile. Branch
// entries carry the 4-bit condition code.
var instructionTable = map[string]instructionEntry{
	"move":  {MnMove, 0, profileCommon},
	"movea": {MnMove, 0, profileCommon},
	"moveq": {MnMoveq, 0, profileImmediate},

	"add":  {MnAdd, 0, profileCommon},
	"addi": {MnAddi, 0, profileImmediate},
	"sub":  {MnSub, 0, profileCommon},
	"subi": {MnSubi, 0, profileImmediate},
	"muls": {MnMuls, 0, profileCommon},
	"mulu": {MnMulu, 0, profileCommon},

	"and":  {MnAnd, 0, profileCommon},
	"andi": {MnAndi, 0, profileImmediate},
	"or":   {MnOr, 0, profileCommon},
	"ori":  {MnOri, 0, profileImmediate},
	"xor":  {MnXor, 0, profileCommon},
	"eor":  {MnXor, 0, profileCommon},
	"xori": {MnXori, 0, profileImmediate},
	"eori": {MnXori, 0, profileImmediate},

	"cmp":  {MnCmp, 0, profileCommon},
	"cmpi": {MnCmpi, 0, profileImmediate},
	"cmpa": {MnCmpa, 0, profileCommon},

	"lsl": {MnLsl, 0, profileShift},
	"lsr": {MnLsr, 0, profileShift},
	"asl": {MnAsl, 0, profileShift},
	"asr": {MnAsr, 0, profileShift},
	"rol": {MnRol, 0, profileShift},
	"ror": {MnRor, 0, profileShift},

	"jmp": {MnJmp, 0, profileJump},
	"jsr": {MnJsr, 0, profileJump},
	"rts": {MnRts, 0, profileNone},

	"bra": {MnBra, 0x0, profileBranch},
	"bsr": {MnBsr, 0x1, profileBranch},
	"bhi": {MnBcc, 0x2, profileBranch},
	"bls": {MnBcc, 0x3, profileBranch},
	"bcc": {MnBcc, 0x4, profileBranch},
	"bcs": {MnBcc, 0x5, profileBranch},
	"bne": {MnBcc, 0x6, profileBranch},
	"beq": {MnBcc, 0x7, profileBranch},
	"bvc": {MnBcc, 0x8, profileBranch},
	"bvs": {MnBcc, 0x9, profileBranch},
	"bpl": {MnBcc, 0xA, profileBranch},
	"bmi": {MnBcc, 0xB, profileBranch},
	"bge": {MnBcc, 0xC, profileBranch},
	"blt": {MnBcc, 0xD, profileBranch},
	"bgt": {MnBcc, 0xE, profileBranch},
	"ble": {MnBcc, 0xF, profileBranch},

	"clr": {MnClr, 0, profileOneRegister},
	"neg": {MnNeg, 0, profileOneRegister},
	"not": {MnNot, 0, profileOneRegister},
	"tst": {MnTst, 0, profileOneRegister},
}

// IsBranch reports whether the instruction is in the bra/bsr/bcc family.
func (i *Instruction) IsBranch() bool {
	switch i.Mnemonic {
	case MnBra, MnBsr, MnBcc:
		return true
	}
	return false
}

// BranchIsShort reports whether a branch fits the 8-bit displacement field:
// a constant immediate displacement that fits a signed byte and is not
// zero. Label targets always take the long form so instruction sizes stay
// stable across a single pass.
func (i *Instruction) BranchIsShort() bool {
	op := i.Operands[0]
	if op.Kind != OpImmediate {
		return false
	}
	v, ok := op.Value.ConstValue()
	return ok && v != 0 && v >= -128 && v <= 127
}

// EncodedSize returns the number of bytes the encoder will emit for the
// instruction: the opcode word plus two bytes per additional data word.
func (i *Instruction) EncodedSize() int32 {
	if i.IsBranch() {
		if i.BranchIsShort() {
			return 2
		}
		return 4
	}

	switch i.Mnemonic {
	case MnMoveq, MnRts:
		return 2
	case MnLsl, MnLsr, MnAsl, MnAsr, MnRol, MnRor:
		// Register-form counts live in the opcode; only the memory form
		// carries EA extension words.
		if i.NumOperands == 1 {
			return 2 + 2*operandWords(i.Operands[0], i.Size)
		}
		return 2
	}

	size := int32(2)
	for n := 0; n < i.NumOperands; n++ {
		size += 2 * operandWords(i.Operands[n], i.Size)
	}
	return size
}

// operandWords counts the additional data words an operand occupies.
func operandWords(op Operand, size cpu.Size) int32 {
	switch op.Kind {
	case OpImmediate:
		if size == cpu.SizeLong {
			return 2
		}
		return 1
	case OpAbsoluteShort, OpAddressOffset, OpAddressIndex:
		return 1
	case OpAbsoluteLong:
		return 2
	}
	return 0
}
