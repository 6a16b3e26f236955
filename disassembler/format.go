package disassembler

import (
	"fmt"

	"github.com/Urethramancer/emu68/cpu"
)

// render builds the text form of one decoded instruction and works out how
// many bytes it occupies, extension words included.
func render(mem *cpu.ExecutableMemory, pc int32, op uint16, decoded cpu.DecodedInstruction) Instruction {
	in := Instruction{
		Address:  pc,
		Op:       op,
		Mnemonic: decoded.Name,
		Size:     2,
	}
	data := decoded.Data

	switch decoded.Name {
	case "illegal", "rts":
		return in

	case "moveq":
		in.Operands = fmt.Sprintf("#%d, d%d", int8(data.SrcReg), data.DstReg)
		return in

	case "move", "movea":
		in.Mnemonic += data.Size.Suffix()
		src, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, data.Size)
		in.Size += n
		dst, n := formatEA(mem, pc+in.Size, data.DstMode, data.DstReg, data.Size)
		in.Size += n
		in.Operands = src + ", " + dst
		return in

	case "ori", "andi", "subi", "addi", "eori", "cmpi":
		in.Mnemonic += data.Size.Suffix()
		imm, n := formatEA(mem, pc+in.Size, cpu.ModeOther, cpu.RegImmediate, data.Size)
		in.Size += n
		dst, n := formatEA(mem, pc+in.Size, data.DstMode, data.DstReg, data.Size)
		in.Size += n
		in.Operands = imm + ", " + dst
		return in

	case "add", "sub", "and", "or":
		in.Mnemonic += data.Size.Suffix()
		ea, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, data.Size)
		in.Size += n
		if data.OpMode&0b100 == 0 {
			in.Operands = fmt.Sprintf("%s, d%d", ea, data.DstReg)
		} else {
			in.Operands = fmt.Sprintf("d%d, %s", data.DstReg, ea)
		}
		return in

	case "eor":
		in.Mnemonic += data.Size.Suffix()
		ea, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, data.Size)
		in.Size += n
		in.Operands = fmt.Sprintf("d%d, %s", data.DstReg, ea)
		return in

	case "cmp":
		in.Mnemonic += data.Size.Suffix()
		ea, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, data.Size)
		in.Size += n
		in.Operands = fmt.Sprintf("%s, d%d", ea, data.DstReg)
		return in

	case "cmpa":
		in.Mnemonic += data.Size.Suffix()
		ea, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, data.Size)
		in.Size += n
		in.Operands = fmt.Sprintf("%s, a%d", ea, data.DstReg)
		return in

	case "muls", "mulu":
		in.Mnemonic += ".w"
		ea, n := formatEA(mem, pc+in.Size, data.SrcMode, data.SrcReg, cpu.SizeWord)
		in.Size += n
		in.Operands = fmt.Sprintf("%s, d%d", ea, data.DstReg)
		return in

	case "clr", "neg", "not", "tst":
		in.Mnemonic += data.Size.Suffix()
		ea, n := formatEA(mem, pc+in.Size, data.DstMode, data.DstReg, data.Size)
		in.Size += n
		in.Operands = ea
		return in

	case "jmp", "jsr":
		ea, n := formatEA(mem, pc+in.Size, data.DstMode, data.DstReg, cpu.SizeWord)
		in.Size += n
		in.Operands = ea
		return in

	case "lsl", "lsr", "asl", "asr", "rol", "ror":
		if data.SrcMode == 0 && data.SrcReg == 0 && data.DstMode != cpu.ModeData {
			// Memory form.
			in.Mnemonic += ".w"
			ea, n := formatEA(mem, pc+in.Size, data.DstMode, data.DstReg, cpu.SizeWord)
			in.Size += n
			in.Operands = ea
			return in
		}
		in.Mnemonic += data.Size.Suffix()
		if data.SrcMode == 0 {
			count := data.SrcReg
			if count == 0 {
				count = 8
			}
			in.Operands = fmt.Sprintf("#%d, d%d", count, data.DstReg)
		} else {
			in.Operands = fmt.Sprintf("d%d, d%d", data.SrcReg, data.DstReg)
		}
		return in

	case "bra", "bsr":
		return renderBranch(mem, pc, in, data)
	}

	if len(decoded.Name) > 1 && decoded.Name[0] == 'b' {
		return renderBranch(mem, pc, in, data)
	}

	in.Operands = "?"
	return in
}

// renderBranch formats the displacement, pulling the following word when
// the 8-bit field is zero.
func renderBranch(mem *cpu.ExecutableMemory, pc int32, in Instruction, data cpu.InstructionData) Instruction {
	disp := int32(int8(data.DstReg))
	if disp == 0 {
		w, err := mem.ReadWord(pc + 2)
		if err == nil {
			disp = int32(int16(w))
		}
		in.Size = 4
	}
	in.Operands = fmt.Sprintf("$%X", pc+disp)
	return in
}

// formatEA renders one effective address and returns how many extension
// bytes it consumed.
func formatEA(mem *cpu.ExecutableMemory, pos int32, mode, reg uint16, size cpu.Size) (string, int32) {
	switch mode {
	case cpu.ModeData:
		return fmt.Sprintf("d%d", reg), 0
	case cpu.ModeAddr:
		return fmt.Sprintf("a%d", reg), 0
	case cpu.ModeAddrInd:
		return fmt.Sprintf("(a%d)", reg), 0
	case cpu.ModeAddrPostInc:
		return fmt.Sprintf("(a%d)+", reg), 0
	case cpu.ModeAddrPreDec:
		return fmt.Sprintf("-(a%d)", reg), 0
	case cpu.ModeAddrDisp:
		w, err := mem.ReadWord(pos)
		if err != nil {
			return "?", 0
		}
		return fmt.Sprintf("%d(a%d)", int16(w), reg), 2
	case cpu.ModeAddrIndex:
		ext, err := mem.ReadWord(pos)
		if err != nil {
			return "?", 0
		}
		file := "d"
		if ext&0x8000 != 0 {
			file = "a"
		}
		return fmt.Sprintf("(%d, a%d, %s%d)", int8(ext), reg, file, (ext>>12)&0x7), 2
	case cpu.ModeOther:
		switch reg {
		case cpu.RegAbsShort:
			w, err := mem.ReadWord(pos)
			if err != nil {
				return "?", 0
			}
			return fmt.Sprintf("$%X", w), 2
		case cpu.RegAbsLong:
			l, err := mem.ReadLong(pos)
			if err != nil {
				return "?", 0
			}
			return fmt.Sprintf("$%X", l), 4
		case cpu.RegImmediate:
			if size == cpu.SizeLong {
				l, err := mem.ReadLong(pos)
				if err != nil {
					return "?", 0
				}
				return fmt.Sprintf("#$%X", l), 4
			}
			w, err := mem.ReadWord(pos)
			if err != nil {
				return "?", 0
			}
			return fmt.Sprintf("#$%X", w), 2
		}
	}
	return "?", 0
}
