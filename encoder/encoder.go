// Package encoder lays parsed instructions out as M68k opcode words and
// builds the executable image.
package encoder

import (
	"fmt"

	"github.com/Urethramancer/emu68/cpu"
	"github.com/Urethramancer/emu68/parser"
)

// OpcodeDescription is the 16-bit base opcode word, viewable as two 8-bit
// halves.
type OpcodeDescription struct {
	Val uint16
}

// Low returns the low half of the opcode word.
func (o OpcodeDescription) Low() uint8 {
	return uint8(o.Val)
}

// High returns the high half of the opcode word.
func (o OpcodeDescription) High() uint8 {
	return uint8(o.Val >> 8)
}

// AdditionalData holds up to two 16-bit extension words for one operand
// side: immediate payloads, absolute addresses, displacements.
type AdditionalData struct {
	Words [2]uint16
	Count uint8
}

func noData() AdditionalData {
	return AdditionalData{}
}

func wordData(w uint16) AdditionalData {
	return AdditionalData{Words: [2]uint16{w}, Count: 1}
}

func longData(v uint32) AdditionalData {
	return AdditionalData{Words: [2]uint16{uint16(v >> 16), uint16(v)}, Count: 2}
}

// Compile encodes a parsed program into an executable image. The image
// holds only the code; the emulator appends the stack region and sets the
// markers for it.
func Compile(prog *parser.Program) (cpu.ExecutableMemory, error) {
	var words []uint16
	offset := int32(0)

	for i := range prog.Instructions {
		instr := &prog.Instructions[i]
		opcode, add, err := encodeInstruction(instr, prog.Labels, offset)
		if err != nil {
			return cpu.ExecutableMemory{}, fmt.Errorf("%s at offset %d: %w", instr.Mnemonic, offset, err)
		}

		words = append(words, opcode.Val)
		emitted := int32(2)
		for side := range add {
			for k := uint8(0); k < add[side].Count; k++ {
				words = append(words, add[side].Words[k])
				emitted += 2
			}
		}
		offset += emitted
	}

	data := cpu.WordsToBytes(words)
	return cpu.ExecutableMemory{
		Data:       data,
		Executable: cpu.Marker{Begin: 0, End: int32(len(data))},
	}, nil
}

// encodeInstruction produces the base opcode word plus per-side additional
// data for one instruction. offset is the byte position of the opcode in
// the image, which branches measure their displacement from.
func encodeInstruction(instr *parser.Instruction, labels parser.LabelInfo, offset int32) (OpcodeDescription, [2]AdditionalData, error) {
	switch instr.Mnemonic {
	case parser.MnMove:
		return encodeMove(instr, labels)
	case parser.MnMoveq:
		return encodeMoveq(instr, labels)

	case parser.MnAdd:
		return encodeDual(instr, labels, cpu.OPADD)
	case parser.MnSub:
		return encodeDual(instr, labels, cpu.OPSUB)
	case parser.MnAnd:
		return encodeDual(instr, labels, cpu.OPAND)
	case parser.MnOr:
		return encodeDual(instr, labels, cpu.OPOR)
	case parser.MnXor:
		return encodeEor(instr, labels)

	case parser.MnAddi:
		return encodeImmediateFamily(instr, labels, cpu.OPADDI)
	case parser.MnSubi:
		return encodeImmediateFamily(instr, labels, cpu.OPSUBI)
	case parser.MnAndi:
		return encodeImmediateFamily(instr, labels, cpu.OPANDI)
	case parser.MnOri:
		return encodeImmediateFamily(instr, labels, cpu.OPORI)
	case parser.MnXori:
		return encodeImmediateFamily(instr, labels, cpu.OPEORI)
	case parser.MnCmpi:
		return encodeImmediateFamily(instr, labels, cpu.OPCMPI)

	case parser.MnCmp:
		return encodeCmp(instr, labels)
	case parser.MnCmpa:
		return encodeCmpa(instr, labels)
	case parser.MnMuls:
		return encodeMul(instr, labels, true)
	case parser.MnMulu:
		return encodeMul(instr, labels, false)

	case parser.MnLsl, parser.MnLsr, parser.MnAsl, parser.MnAsr, parser.MnRol, parser.MnRor:
		return encodeShift(instr, labels)

	case parser.MnJmp:
		return encodeJump(instr, labels, cpu.OPJMP)
	case parser.MnJsr:
		return encodeJump(instr, labels, cpu.OPJSR)
	case parser.MnRts:
		return OpcodeDescription{Val: cpu.OPRTS}, [2]AdditionalData{}, nil

	case parser.MnBra, parser.MnBsr, parser.MnBcc:
		return encodeBranch(instr, labels, offset)

	case parser.MnClr:
		return encodeSingle(instr, labels, cpu.OPCLR)
	case parser.MnNeg:
		return encodeSingle(instr, labels, cpu.OPNEG)
	case parser.MnNot:
		return encodeSingle(instr, labels, cpu.OPNOT)
	case parser.MnTst:
		return encodeSingle(instr, labels, cpu.OPTST)
	}

	return OpcodeDescription{}, [2]AdditionalData{}, fmt.Errorf("no encoder for mnemonic %s", instr.Mnemonic)
}
