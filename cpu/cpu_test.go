package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/emu68/cpu"
)

// mkSystem builds a snapshot from opcode words plus a small stack region,
// with A7 pointing just below the top the way the emulator lays it out.
func mkSystem(words ...uint16) cpu.System {
	code := cpu.WordsToBytes(words)
	const stackSize = 32

	data := make([]byte, len(code)+stackSize)
	copy(data, code)

	s := cpu.System{
		Mem: cpu.ExecutableMemory{
			Data:       data,
			Executable: cpu.Marker{Begin: 0, End: int32(len(code))},
			Stack:      cpu.Marker{Begin: int32(len(code)), End: int32(len(data))},
		},
	}
	s.CPU.A[7] = uint32(len(data) - 2)
	return s
}

// exec decodes at PC and runs the executor, failing the test on a fault.
func exec(t *testing.T, s *cpu.System) {
	t.Helper()
	in := cpu.Decode(&s.Mem, s.CPU.PC)
	require.NoError(t, in.Exec(s, &in.Data), "%s faulted", in.Name)
}

func flagSet(s *cpu.System, bit uint16) bool {
	return s.CPU.SR&bit != 0
}

func TestDecodeIllegalPatterns(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
	}{
		{"all zeroes", 0x0000},
		{"moveq with bit 8 set", 0x7100},
		{"addq line", 0x5240},
		{"line A", 0xA000},
		{"the ILLEGAL opcode", 0x4AFC},
		{"line F", 0xF000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mkSystem(tt.op)
			in := cpu.Decode(&s.Mem, 0)
			assert.Equal(t, "illegal", in.Name)
			assert.ErrorIs(t, in.Exec(&s, &in.Data), cpu.ErrIllegalInstruction)
		})
	}
}

func TestMoveImmediateWord(t *testing.T) {
	// move.w #$1234, d0
	s := mkSystem(0x303C, 0x1234)
	exec(t, &s)

	assert.Equal(t, uint32(0x1234), s.CPU.D[0])
	assert.Equal(t, int32(4), s.CPU.PC, "PC advances past opcode and immediate")
	assert.False(t, flagSet(&s, cpu.SRZ))
	assert.False(t, flagSet(&s, cpu.SRN))
}

func TestMoveBytePreservesUpperBits(t *testing.T) {
	// move.b d1, d0
	s := mkSystem(0x1001)
	s.CPU.D[0] = 0xAABBCCDD
	s.CPU.D[1] = 0x42
	exec(t, &s)

	assert.Equal(t, uint32(0xAABBCC42), s.CPU.D[0])
}

func TestMoveSetsNegative(t *testing.T) {
	// move.w #$8000, d0
	s := mkSystem(0x303C, 0x8000)
	s.CPU.SR = cpu.SRC | cpu.SRV | cpu.SRX
	exec(t, &s)

	assert.True(t, flagSet(&s, cpu.SRN))
	assert.False(t, flagSet(&s, cpu.SRZ))
	assert.False(t, flagSet(&s, cpu.SRV), "V is cleared")
	assert.False(t, flagSet(&s, cpu.SRC), "C is cleared")
	assert.True(t, flagSet(&s, cpu.SRX), "X is untouched")
}

func TestMoveaSignExtendsAndLeavesFlags(t *testing.T) {
	// move.w #$8000, a0 (movea)
	s := mkSystem(0x307C, 0x8000)
	exec(t, &s)

	assert.Equal(t, uint32(0xFFFF8000), s.CPU.A[0])
	assert.False(t, flagSet(&s, cpu.SRN), "movea touches no flags")
}

func TestMoveqSignExtends(t *testing.T) {
	// moveq #-1, d2
	s := mkSystem(0x74FF)
	exec(t, &s)

	assert.Equal(t, uint32(0xFFFFFFFF), s.CPU.D[2])
	assert.True(t, flagSet(&s, cpu.SRN))
	assert.Equal(t, int32(2), s.CPU.PC)
}

func TestAddOverflowAndCarry(t *testing.T) {
	// add.b d1, d0
	run := func(d0, d1 uint32) *cpu.System {
		s := mkSystem(0xD001)
		s.CPU.D[0] = d0
		s.CPU.D[1] = d1
		exec(t, &s)
		return &s
	}

	s := run(0x7F, 1)
	assert.Equal(t, uint32(0x80), s.CPU.D[0])
	assert.True(t, flagSet(s, cpu.SRV), "signed overflow")
	assert.False(t, flagSet(s, cpu.SRC))
	assert.True(t, flagSet(s, cpu.SRN))

	s = run(0xFF, 1)
	assert.Equal(t, uint32(0x00), s.CPU.D[0])
	assert.True(t, flagSet(s, cpu.SRC), "unsigned carry")
	assert.True(t, flagSet(s, cpu.SRX), "X mirrors C")
	assert.True(t, flagSet(s, cpu.SRZ))
	assert.False(t, flagSet(s, cpu.SRV))
}

func TestSubBorrow(t *testing.T) {
	// sub.w d1, d0 with 0 - 1
	s := mkSystem(0x9041)
	s.CPU.D[0] = 0
	s.CPU.D[1] = 1
	exec(t, &s)

	assert.Equal(t, uint32(0xFFFF), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRC), "unsigned borrow")
	assert.True(t, flagSet(&s, cpu.SRX))
	assert.True(t, flagSet(&s, cpu.SRN))
	assert.False(t, flagSet(&s, cpu.SRZ))
}

func TestCmpFlagLaw(t *testing.T) {
	// cmp.w d0, d1: flags from d1 - d0, registers untouched, X preserved.
	run := func(d1, d0 uint32) *cpu.System {
		s := mkSystem(0xB240)
		s.CPU.D[0] = d0
		s.CPU.D[1] = d1
		s.CPU.SR = cpu.SRX
		exec(t, &s)
		return &s
	}

	s := run(5, 5)
	assert.True(t, flagSet(s, cpu.SRZ))
	assert.False(t, flagSet(s, cpu.SRN))
	assert.Equal(t, uint32(5), s.CPU.D[1], "cmp writes nothing")
	assert.True(t, flagSet(s, cpu.SRX), "cmp leaves X alone")

	s = run(3, 5)
	assert.False(t, flagSet(s, cpu.SRZ))
	assert.True(t, flagSet(s, cpu.SRN), "N from the sign of the difference")
	assert.True(t, flagSet(s, cpu.SRC), "borrow when destination is smaller")
}

func TestAndClearsVC(t *testing.T) {
	// and.w d1, d0
	s := mkSystem(0xC041)
	s.CPU.D[0] = 0xFF0F
	s.CPU.D[1] = 0x00FF
	s.CPU.SR = cpu.SRV | cpu.SRC | cpu.SRX
	exec(t, &s)

	assert.Equal(t, uint32(0x000F), s.CPU.D[0])
	assert.False(t, flagSet(&s, cpu.SRV))
	assert.False(t, flagSet(&s, cpu.SRC))
	assert.True(t, flagSet(&s, cpu.SRX), "logical ops never touch X")
}

func TestMulsSigned(t *testing.T) {
	// muls d1, d0: -2 * 3 = -6 at long width.
	s := mkSystem(0xC1C1)
	s.CPU.D[0] = 0xFFFE // -2 as a word
	s.CPU.D[1] = 3
	exec(t, &s)

	assert.Equal(t, uint32(0xFFFFFFFA), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRN))
}

func TestMuluUnsigned(t *testing.T) {
	// mulu d1, d0: 0xFFFF * 2 at long width.
	s := mkSystem(0xC0C1)
	s.CPU.D[0] = 0xFFFF
	s.CPU.D[1] = 2
	exec(t, &s)

	assert.Equal(t, uint32(0x1FFFE), s.CPU.D[0])
}

func TestShiftCarryAndExtend(t *testing.T) {
	// lsl.w #1, d0 with the top bit set: carry out, X follows.
	s := mkSystem(0xE348)
	s.CPU.D[0] = 0x8001
	exec(t, &s)

	assert.Equal(t, uint32(0x0002), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRC))
	assert.True(t, flagSet(&s, cpu.SRX))
}

func TestRotateWrapsWithoutExtend(t *testing.T) {
	// ror.w #1, d0 with bit 0 set rotates into the sign bit.
	s := mkSystem(0xE258)
	s.CPU.D[0] = 0x0001
	exec(t, &s)

	assert.Equal(t, uint32(0x8000), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRC))
	assert.False(t, flagSet(&s, cpu.SRX), "rotates never touch X")
	assert.True(t, flagSet(&s, cpu.SRN))
}

func TestAsrKeepsSign(t *testing.T) {
	// asr.w #2, d0 on a negative value shifts copies of the sign bit in.
	s := mkSystem(0xE440)
	s.CPU.D[0] = 0x8000
	exec(t, &s)

	assert.Equal(t, uint32(0xE000), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRN))
}

func TestAslOverflow(t *testing.T) {
	// asl.w #1, d0 flipping the sign bit sets V.
	s := mkSystem(0xE340)
	s.CPU.D[0] = 0x4000
	exec(t, &s)

	assert.Equal(t, uint32(0x8000), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRV))
}

func TestPreDecrementPush(t *testing.T) {
	// move.l d0, -(a7)
	s := mkSystem(0x2F00)
	s.CPU.D[0] = 0xDEADBEEF
	top := s.CPU.A[7]
	exec(t, &s)

	assert.Equal(t, top-4, s.CPU.A[7])
	v, err := s.Mem.ReadLong(int32(s.CPU.A[7]))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v)
}

func TestPostIncrementAdvances(t *testing.T) {
	// move.w (a0)+, d0 reading from the stack region.
	s := mkSystem(0x3018)
	addr := s.Mem.Stack.Begin
	require.NoError(t, s.Mem.WriteWord(addr, 0xCAFE))
	s.CPU.A[0] = uint32(addr)
	exec(t, &s)

	assert.Equal(t, uint32(0xCAFE), s.CPU.D[0])
	assert.Equal(t, uint32(addr+2), s.CPU.A[0])
}

func TestByteStackAccessKeepsAlignment(t *testing.T) {
	// move.b d0, -(a7) moves A7 by two.
	s := mkSystem(0x1F00)
	top := s.CPU.A[7]
	exec(t, &s)

	assert.Equal(t, top-2, s.CPU.A[7])
}

func TestBranchShortDisplacement(t *testing.T) {
	// beq #6 with Z set branches from the opcode word.
	s := mkSystem(0x6706, 0x0000, 0x0000, 0x0000)
	s.CPU.SR = cpu.SRZ
	exec(t, &s)
	assert.Equal(t, int32(6), s.CPU.PC)

	// Not taken: a short branch falls through by 2.
	s = mkSystem(0x6706, 0x0000)
	exec(t, &s)
	assert.Equal(t, int32(2), s.CPU.PC)
}

func TestBranchDisplacementZeroReadsWord(t *testing.T) {
	// beq with an empty 8-bit field takes the displacement from the next
	// word; the fall-through advance becomes 4.
	s := mkSystem(0x6700, 0x0008, 0x0000, 0x0000, 0x0000)
	s.CPU.SR = cpu.SRZ
	exec(t, &s)
	assert.Equal(t, int32(8), s.CPU.PC)

	s = mkSystem(0x6700, 0x0008, 0x0000)
	exec(t, &s)
	assert.Equal(t, int32(4), s.CPU.PC)
}

func TestBranchConditions(t *testing.T) {
	tests := []struct {
		name  string
		cond  uint16
		sr    uint16
		taken bool
	}{
		{"ne with Z clear", 0b0110, 0, true},
		{"ne with Z set", 0b0110, cpu.SRZ, false},
		{"eq with Z set", 0b0111, cpu.SRZ, true},
		{"ge with N and V set", 0b1100, cpu.SRN | cpu.SRV, true},
		{"ge with N only", 0b1100, cpu.SRN, false},
		{"lt with N only", 0b1101, cpu.SRN, true},
		{"lt with N and V", 0b1101, cpu.SRN | cpu.SRV, false},
		{"gt clear flags", 0b1110, 0, true},
		{"gt with Z", 0b1110, cpu.SRZ, false},
		{"le with Z", 0b1111, cpu.SRZ, true},
		{"le clear flags", 0b1111, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.taken, cpu.ConditionHolds(tt.cond, tt.sr))
		})
	}
}

func TestJsrRtsRoundTrip(t *testing.T) {
	// jsr $8 / ... / rts at 8.
	s := mkSystem(0x4EB8, 0x0008, 0x0000, 0x0000, 0x4E75)
	top := s.CPU.A[7]

	exec(t, &s)
	assert.Equal(t, int32(8), s.CPU.PC)
	assert.Equal(t, top-4, s.CPU.A[7], "return address pushed")

	exec(t, &s)
	assert.Equal(t, int32(4), s.CPU.PC, "rts resumes after the jsr")
	assert.Equal(t, top, s.CPU.A[7])
}

func TestClrNegNot(t *testing.T) {
	// clr.w d0
	s := mkSystem(0x4240)
	s.CPU.D[0] = 0x1234
	exec(t, &s)
	assert.Equal(t, uint32(0), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRZ))

	// neg.w d0
	s = mkSystem(0x4440)
	s.CPU.D[0] = 1
	exec(t, &s)
	assert.Equal(t, uint32(0xFFFF), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRN))
	assert.True(t, flagSet(&s, cpu.SRC))

	// not.w d0
	s = mkSystem(0x4640)
	s.CPU.D[0] = 0x00FF
	exec(t, &s)
	assert.Equal(t, uint32(0xFF00), s.CPU.D[0])
	assert.True(t, flagSet(&s, cpu.SRN))
}

func TestMemoryOutOfBoundsFaults(t *testing.T) {
	// move.w $7FF0, d0 with nothing mapped there.
	s := mkSystem(0x3038, 0x7FF0)
	in := cpu.Decode(&s.Mem, 0)
	err := in.Exec(&s, &in.Data)

	var oob *cpu.OutOfBoundsError
	require.ErrorAs(t, err, &oob)
}

func TestWordsBytesRoundTrip(t *testing.T) {
	words := []uint16{0x1234, 0xABCD}
	b := cpu.WordsToBytes(words)
	assert.Equal(t, []byte{0x12, 0x34, 0xAB, 0xCD}, b)
	assert.Equal(t, words, cpu.BytesToWords(b))
}
