package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/emu68/cpu"
)

func parseOne(t *testing.T, src string) Instruction {
	t.Helper()
	prog, perr := Parse(src, Settings{})
	require.Nil(t, perr, "parse failed: %v", perr)
	require.Len(t, prog.Instructions, 1)
	return prog.Instructions[0]
}

func TestOperandForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind OperandKind
		reg  int8
	}{
		{"immediate", "move.w #5, d0", OpImmediate, 0},
		{"data register", "move.w d3, d0", OpDataRegister, 3},
		{"address register", "move.w a2, d0", OpAddressRegister, 2},
		{"pre-decrement", "move.w -(a7), d0", OpAddressPre, 7},
		{"post-increment", "move.w (a1)+, d0", OpAddressPost, 1},
		{"displacement", "move.w 8(a2), d0", OpAddressOffset, 2},
		{"indexed", "move.w (a3, d2), d0", OpAddressIndex, 3},
		{"indexed with displacement", "move.w (4, a3, a1), d0", OpAddressIndex, 3},
		{"indirect", "move.w (a4), d0", OpAddress, 4},
		{"absolute short", "move.w $100, d0", OpAbsoluteShort, 0},
		{"bare label", "move.w buffer, d0", OpAbsoluteShort, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parseOne(t, tt.src)
			assert.Equal(t, tt.kind, in.Operands[0].Kind)
			if tt.kind != OpAbsoluteShort && tt.kind != OpImmediate {
				assert.Equal(t, tt.reg, in.Operands[0].Reg)
			}
		})
	}
}

func TestLongAbsoluteFollowsSize(t *testing.T) {
	in := parseOne(t, "move.l $1000, d0")
	assert.Equal(t, OpAbsoluteLong, in.Operands[0].Kind)

	in = parseOne(t, "move.b $1000, d0")
	assert.Equal(t, OpAbsoluteShort, in.Operands[0].Kind)
}

func TestIndexedRegisterEncoding(t *testing.T) {
	in := parseOne(t, "move.w (a3, d2), d0")
	assert.Equal(t, int8(2), in.Operands[0].OthReg, "data index registers are 0-7")

	in = parseOne(t, "move.w (a3, a2), d0")
	assert.Equal(t, int8(10), in.Operands[0].OthReg, "address index registers are 8-15")
}

func TestDataSizes(t *testing.T) {
	assert.Equal(t, cpu.SizeByte, parseOne(t, "move.b d0, d1").Size)
	assert.Equal(t, cpu.SizeWord, parseOne(t, "move.w d0, d1").Size)
	assert.Equal(t, cpu.SizeLong, parseOne(t, "move.l d0, d1").Size)
	assert.Equal(t, cpu.SizeWord, parseOne(t, "move d0, d1").Size, "word is the default")
}

func TestMnemonicsAreCaseInsensitive(t *testing.T) {
	in := parseOne(t, "MOVE.W #5, D0")
	assert.Equal(t, MnMove, in.Mnemonic)
	assert.Equal(t, OpDataRegister, in.Operands[1].Kind)
}

func TestImmediateExpressions(t *testing.T) {
	in := parseOne(t, "move.w #2+3*2, d0")
	v, err := in.Operands[0].Value.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(10), v, "chains evaluate left to right")

	in = parseOne(t, "move.w #$10, d0")
	v, err = in.Operands[0].Value.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(16), v)

	in = parseOne(t, "move.w #-5, d0")
	v, err = in.Operands[0].Value.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), v)
}

func TestLabelExpressionsResolveAtEncodeTime(t *testing.T) {
	in := parseOne(t, "move.w #table+4, d0")
	labels := LabelInfo{HashLabel("table"): 0x20}

	v, err := in.Operands[0].Value.Eval(labels)
	require.NoError(t, err)
	assert.Equal(t, int32(0x24), v)

	_, err = in.Operands[0].Value.Eval(LabelInfo{})
	assert.Error(t, err, "unresolved labels are an encode-time error")
}

func TestLabels(t *testing.T) {
	prog, perr := Parse("start: move.w #1, d0\nloop: bra loop", Settings{})
	require.Nil(t, perr)

	assert.Equal(t, int32(0), prog.Labels[HashLabel("start")])
	assert.Equal(t, int32(4), prog.Labels[HashLabel("loop")])
	assert.Len(t, prog.Instructions, 2)
}

func TestDuplicateLabelIsError(t *testing.T) {
	_, perr := Parse("a:\na:", Settings{})
	require.NotNil(t, perr)
	assert.Equal(t, 2, perr.Line)
	assert.IsType(t, DuplicateLabel{}, perr.Reason)
}

func TestLabelsAreCaseSensitiveByDefault(t *testing.T) {
	prog, perr := Parse("Loop:\nloop:", Settings{})
	require.Nil(t, perr)
	assert.Len(t, prog.Labels, 2)

	_, perr = Parse("Loop:\nloop:", Settings{CaseInsensitiveLabels: true})
	require.NotNil(t, perr)
	assert.IsType(t, DuplicateLabel{}, perr.Reason)
}

func TestCommentsAndBlankLines(t *testing.T) {
	src := "; leading comment\n\n   \nmove.w #1, d0 ; trailing\n"
	prog, perr := Parse(src, Settings{})
	require.Nil(t, perr)
	assert.Len(t, prog.Instructions, 1)
}

func TestShiftOperandChecks(t *testing.T) {
	// Two-operand form: destination must be a data register.
	_, perr := Parse("lsl.w #1, a0", Settings{})
	require.NotNil(t, perr)
	var mm OperandTypeMismatch
	require.ErrorAs(t, perr, &mm)
	assert.Equal(t, 1, mm.Index)
	assert.Equal(t, OpAddressRegister, mm.Got)

	// Count must be an immediate or data register.
	_, perr = Parse("lsl.w (a0), d1", Settings{})
	require.NotNil(t, perr)
	require.ErrorAs(t, perr, &mm)
	assert.Equal(t, 0, mm.Index)

	// Memory form parses as one operand.
	in := parseOne(t, "lsl.w (a0)")
	assert.Equal(t, 1, in.NumOperands)
	assert.Equal(t, OpAddress, in.Operands[0].Kind)
}

func TestParseErrorLocation(t *testing.T) {
	_, perr := Parse("move.w #1, d0\nbogus d0", Settings{})
	require.NotNil(t, perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 1, perr.Column)
	assert.IsType(t, UnknownInstruction{}, perr.Reason)
}

func TestMissingOperandError(t *testing.T) {
	_, perr := Parse("move.w #1", Settings{})
	require.NotNil(t, perr)
	assert.Equal(t, MissingCharacter{Ch: ','}, perr.Reason)
}

func TestUnknownOperandError(t *testing.T) {
	_, perr := Parse("move.w !!, d0", Settings{})
	require.NotNil(t, perr)
	assert.Equal(t, UnknownOperand{}, perr.Reason)
}

func TestBranchSizing(t *testing.T) {
	// A constant immediate displacement that fits a signed byte is short.
	prog, perr := Parse("beq #6", Settings{})
	require.Nil(t, perr)
	assert.Equal(t, int32(2), prog.Instructions[0].EncodedSize())

	// Absolute targets and labels always take the long form.
	prog, perr = Parse("beq 6", Settings{})
	require.Nil(t, perr)
	assert.Equal(t, int32(4), prog.Instructions[0].EncodedSize())

	prog, perr = Parse("loop: beq loop", Settings{})
	require.Nil(t, perr)
	assert.Equal(t, int32(4), prog.Instructions[0].EncodedSize())
}

func TestEncodedSizes(t *testing.T) {
	tests := []struct {
		src  string
		size int32
	}{
		{"move.w d0, d1", 2},
		{"move.w #5, d0", 4},
		{"move.l #5, d0", 6},
		{"move.w 8(a0), 6(a1)", 6},
		{"moveq #1, d0", 2},
		{"rts", 2},
		{"lsl.w #3, d0", 2},
		{"lsl.w (a0)", 2},
		{"jmp $100", 4},
		{"addi.w #2, d0", 4},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			in := parseOne(t, tt.src)
			assert.Equal(t, tt.size, in.EncodedSize())
		})
	}
}

func TestOperandClone(t *testing.T) {
	in := parseOne(t, "move.w #1+2, d0")
	clone := in.Clone()
	clone.Operands[0].Value.Left.Num = 99

	v, err := in.Operands[0].Value.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), v, "clones own their expression trees")
}
