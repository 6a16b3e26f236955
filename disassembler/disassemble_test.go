package disassembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/emu68/disassembler"
	"github.com/Urethramancer/emu68/encoder"
	"github.com/Urethramancer/emu68/parser"
)

func sweepSource(t *testing.T, src string) []disassembler.Instruction {
	t.Helper()
	prog, perr := parser.Parse(src, parser.Settings{})
	require.Nil(t, perr, "parse failed: %v", perr)
	mem, err := encoder.Compile(prog)
	require.NoError(t, err)

	instrs, err := disassembler.Sweep(mem.Data)
	require.NoError(t, err)
	return instrs
}

func TestSweepRendersInstructions(t *testing.T) {
	tests := []struct {
		src      string
		mnemonic string
		operands string
	}{
		{"move.w #$1234, d0", "move.w", "#$1234, d0"},
		{"move.b d0, d1", "move.b", "d0, d1"},
		{"move.w d0, a1", "movea.w", "d0, a1"},
		{"moveq #1, d7", "moveq", "#1, d7"},
		{"add.w d1, d0", "add.w", "d1, d0"},
		{"add.w d0, (a1)", "add.w", "d0, (a1)"},
		{"sub.w #5, d0", "sub.w", "#$5, d0"},
		{"addi.w #2, d1", "addi.w", "#$2, d1"},
		{"cmp.w (a0)+, d1", "cmp.w", "(a0)+, d1"},
		{"cmpa.w a1, a0", "cmpa.w", "a1, a0"},
		{"muls d1, d0", "muls.w", "d1, d0"},
		{"xor.w d0, d1", "eor.w", "d0, d1"},
		{"clr.w d0", "clr.w", "d0"},
		{"tst.l d5", "tst.l", "d5"},
		{"lsl.w #3, d0", "lsl.w", "#3, d0"},
		{"asr.w d1, d2", "asr.w", "d1, d2"},
		{"ror.w (a0)", "ror.w", "(a0)"},
		{"jmp (a0)", "jmp", "(a0)"},
		{"jsr $100", "jsr", "$100"},
		{"rts", "rts", ""},
		{"move.w 8(a0), d1", "move.w", "8(a0), d1"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			instrs := sweepSource(t, tt.src)
			require.NotEmpty(t, instrs)
			assert.Equal(t, tt.mnemonic, instrs[0].Mnemonic)
			assert.Equal(t, tt.operands, instrs[0].Operands)
		})
	}
}

func TestSweepBranchTargets(t *testing.T) {
	// A branch back to offset 0 from offset 8 renders its resolved target.
	instrs := sweepSource(t, "start: move.w #1, d0\nmove.w #2, d1\nbra start")
	require.Len(t, instrs, 3)
	assert.Equal(t, "bra", instrs[2].Mnemonic)
	assert.Equal(t, "$0", instrs[2].Operands)
	assert.Equal(t, int32(4), instrs[2].Size)
}

func TestSweepAdvancesPastExtensionWords(t *testing.T) {
	instrs := sweepSource(t, "move.l #$12345678, d3\nrts")
	require.Len(t, instrs, 2)
	assert.Equal(t, int32(6), instrs[0].Size)
	assert.Equal(t, int32(6), instrs[1].Address)
	assert.Equal(t, "rts", instrs[1].Mnemonic)
}

func TestIllegalWordsRender(t *testing.T) {
	instrs, err := disassembler.Sweep([]byte{0x00, 0x00, 0x4E, 0x75})
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, "illegal", instrs[0].Mnemonic)
	assert.Equal(t, "rts", instrs[1].Mnemonic)
}

// Disassembler output parses and re-encodes to the same bytes.
func TestDisassemblyReassembles(t *testing.T) {
	src := "move.w #$1234, d0\nadd.w d1, d0\nclr.w d2\nrts"
	prog, perr := parser.Parse(src, parser.Settings{})
	require.Nil(t, perr)
	mem, err := encoder.Compile(prog)
	require.NoError(t, err)

	text, err := disassembler.Disassemble(mem.Data)
	require.NoError(t, err)

	var resrc string
	for _, in := range mustSweep(t, mem.Data) {
		resrc += in.Mnemonic + " " + in.Operands + "\n"
	}
	reprog, perr := parser.Parse(resrc, parser.Settings{})
	require.Nil(t, perr, "disassembly must reparse: %s", text)
	remem, err := encoder.Compile(reprog)
	require.NoError(t, err)
	assert.Equal(t, mem.Data, remem.Data)
}

func mustSweep(t *testing.T, code []byte) []disassembler.Instruction {
	t.Helper()
	instrs, err := disassembler.Sweep(code)
	require.NoError(t, err)
	return instrs
}

func TestInstructionString(t *testing.T) {
	in := disassembler.Instruction{Address: 4, Op: 0x4E75, Mnemonic: "rts"}
	assert.Equal(t, "00000004: 4E75  rts", in.String())
}
