package parser

import (
	"strconv"

	"github.com/Urethramancer/emu68/cpu"
)

// OperandKind discriminates the effective-addressing forms an operand can
// take. Dispatch is by exhaustive switch on the kind.
type OperandKind uint8

const (
	// OpDataRegister is dn.
	OpDataRegister OperandKind = iota
	// OpAddressRegister is an.
	OpAddressRegister
	// OpAddress is indirect: (an).
	OpAddress
	// OpAddressPost is post-increment: (an)+.
	OpAddressPost
	// OpAddressPre is pre-decrement: -(an).
	OpAddressPre
	// OpAddressOffset is displacement: expr(an).
	OpAddressOffset
	// OpAddressIndex is indexed: (an, xn) or (expr, an, xn).
	OpAddressIndex
	// OpAbsoluteShort is a 16-bit absolute address.
	OpAbsoluteShort
	// OpAbsoluteLong is a 32-bit absolute address.
	OpAbsoluteLong
	// OpImmediate is #expr.
	OpImmediate
)

var operandKindNames = [...]string{
	"data register",
	"address register",
	"address",
	"address with post-increment",
	"address with pre-decrement",
	"address with displacement",
	"indexed address",
	"absolute short",
	"absolute long",
	"immediate",
}

func (k OperandKind) String() string {
	if int(k) < len(operandKindNames) {
		return operandKindNames[k]
	}
	return "invalid operand"
}

// Operand is one effective-addressing operand. Reg is the primary register;
// OthReg encodes the index register of the indexed modes, 0-7 for data
// registers and 8-15 for address registers. Value carries immediate and
// absolute payloads, Offset the displacement of the offset and indexed
// modes.
type Operand struct {
	Kind   OperandKind
	Reg    int8
	OthReg int8
	Value  *ExprNode
	Offset *ExprNode
}

// Clone deep-copies the operand together with its expression trees.
func (o Operand) Clone() Operand {
	o.Value = o.Value.Clone()
	o.Offset = o.Offset.Clone()
	return o
}

// IsRegister reports whether the operand is a plain register.
func (o Operand) IsRegister() bool {
	return o.Kind == OpDataRegister || o.Kind == OpAddressRegister
}

// register matches a one-letter register prefix (lower or upper case)
// followed by a digit 0-7 and stores the number through out.
func register(prefix byte, out *int8) Parser {
	return func(input string) Metadata {
		var reg int64
		inner := Map(SeqNext(AnyOf(Char(prefix-'a'+'A'), Char(prefix)), DecNumber()), func(consumed string) {
			reg, _ = strconv.ParseInt(consumed, 10, 16)
		})
		res := inner(input)
		if res.Ok && (reg < 0 || reg > 7) {
			return Metadata{Remainder: input}
		}
		if res.Ok {
			*out = int8(reg)
		}
		return res
	}
}

// dataRegisterParser matches d0-d7 into operand n.
func dataRegisterParser(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var reg int8
		res := register('d', &reg)(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpDataRegister, Reg: reg}
		}
		return res
	}
}

// addressRegisterParser matches a0-a7 into operand n.
func addressRegisterParser(instr *Instruction, n int) Parser {
	inner := func(input string) Metadata {
		var reg int8
		res := register('a', &reg)(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpAddressRegister, Reg: reg}
		}
		return res
	}
	return SetError(inner, MissingCharacter{Ch: 'a'})
}

// anyRegister matches either register file into operand n.
func anyRegister(instr *Instruction, n int) Parser {
	return AnyOf(dataRegisterParser(instr, n), addressRegisterParser(instr, n))
}

// operandImmediate matches #expr into operand n.
func operandImmediate(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var value *ExprNode
		res := SeqNext(Char('#'), expression(&value))(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpImmediate, Value: value}
		}
		return res
	}
}

// asAddress matches (an) into operand n.
func asAddress(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var reg int8
		res := Between(Char('('), register('a', &reg), Char(')'))(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpAddress, Reg: reg}
		}
		return res
	}
}

// addressPreDecr matches -(an) into operand n.
func addressPreDecr(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		res := SeqNext(Char('-'), AlwaysTrue(Whitespace()), asAddress(instr, n))(input)
		if res.Ok {
			instr.Operands[n].Kind = OpAddressPre
		}
		return res
	}
}

// addressPostIncr matches (an)+ into operand n.
func addressPostIncr(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		res := SeqNext(asAddress(instr, n), AlwaysTrue(Whitespace()), Char('+'))(input)
		if res.Ok {
			instr.Operands[n].Kind = OpAddressPost
		}
		return res
	}
}

// addressWithDisplacement matches expr(an) into operand n.
func addressWithDisplacement(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var offset *ExprNode
		res := SeqNext(expression(&offset), asAddress(instr, n))(input)
		if res.Ok {
			instr.Operands[n].Kind = OpAddressOffset
			instr.Operands[n].Offset = offset
		}
		return res
	}
}

// indexReg matches the index register of the indexed modes, folding the
// register file into the number: 0-7 data, 8-15 address.
func indexReg(out *int8) Parser {
	return func(input string) Metadata {
		var reg int8
		dres := register('d', &reg)(input)
		if dres.Ok {
			*out = reg
			return dres
		}
		ares := register('a', &reg)(input)
		if ares.Ok {
			*out = reg + 8
		}
		return ares
	}
}

// indexedAddress matches (an, xn) into operand n.
func indexedAddress(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var addreg, othreg int8
		body := SeqNext(
			AlwaysTrue(Whitespace()),
			register('a', &addreg),
			AlwaysTrue(Whitespace()),
			ErroringChar(','),
			AlwaysTrue(Whitespace()),
			indexReg(&othreg),
			AlwaysTrue(Whitespace()),
		)
		res := Between(ErroringChar('('), body, ErroringChar(')'))(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpAddressIndex, Reg: addreg, OthReg: othreg}
		}
		return res
	}
}

// indexedAddressWithDisplacement matches (expr, an, xn) into operand n.
func indexedAddressWithDisplacement(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var addreg, othreg int8
		var offset *ExprNode
		body := SeqNext(
			AlwaysTrue(Whitespace()),
			expression(&offset),
			AlwaysTrue(Whitespace()),
			Char(','),
			AlwaysTrue(Whitespace()),
			register('a', &addreg),
			AlwaysTrue(Whitespace()),
			Char(','),
			AlwaysTrue(Whitespace()),
			indexReg(&othreg),
			AlwaysTrue(Whitespace()),
		)
		res := Between(Char('('), body, Char(')'))(input)
		if res.Ok {
			instr.Operands[n] = Operand{Kind: OpAddressIndex, Reg: addreg, OthReg: othreg, Offset: offset}
		}
		return res
	}
}

// memoryAddress matches a bare expression or label as an absolute address.
// Byte and word operations yield the short form, long operations the long
// form.
func memoryAddress(instr *Instruction, n int) Parser {
	return func(input string) Metadata {
		var value *ExprNode
		res := expression(&value)(input)
		if res.Ok {
			kind := OpAbsoluteShort
			if instr.Size == cpu.SizeLong {
				kind = OpAbsoluteLong
			}
			instr.Operands[n] = Operand{Kind: kind, Value: value}
		}
		return res
	}
}

// anyOperand tries every addressing form against operand n. The order
// matters: earlier forms must win ambiguous prefixes.
func anyOperand(instr *Instruction, n int) Parser {
	p := AnyOf(
		operandImmediate(instr, n),
		anyRegister(instr, n),
		addressPreDecr(instr, n),
		addressPostIncr(instr, n),
		addressWithDisplacement(instr, n),
		indexedAddress(instr, n),
		indexedAddressWithDisplacement(instr, n),
		asAddress(instr, n),
		memoryAddress(instr, n),
	)
	return SetError(p, UnknownOperand{})
}
