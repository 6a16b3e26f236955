package cpu

// opADD handles ADD. OpMode bit 2 selects the direction: clear means
// <ea> + Dn → Dn, set means Dn + <ea> → <ea>.
func opADD(s *System, data *InstructionData) error {
	return dualArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst + src
		c.setFlagsAdd(src, dst, result, size)
		return result
	})
}

// opSUB handles SUB with the same direction scheme as ADD.
func opSUB(s *System, data *InstructionData) error {
	return dualArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst - src
		c.setFlagsSub(src, dst, result, size)
		return result
	})
}

// dualArith runs the shared ADD/SUB/AND/OR dance: fetch both sides, combine,
// write back in the direction the opmode names.
func dualArith(s *System, data *InstructionData, op func(*CPU, uint32, uint32, Size) uint32) error {
	s.CPU.PC += 2

	if data.OpMode&0b100 == 0 {
		// Toward the data register.
		src, err := s.readEA(data.SrcMode, data.SrcReg, data.Size)
		if err != nil {
			return err
		}
		dst := truncate(s.CPU.D[data.DstReg], data.Size)
		result := op(&s.CPU, src, dst, data.Size)
		return s.writeEA(ModeData, data.DstReg, data.Size, result)
	}

	// Toward the EA: the register operand is the source.
	src := truncate(s.CPU.D[data.DstReg], data.Size)
	d, err := s.resolveDst(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	result := op(&s.CPU, src, dst, data.Size)
	return d.store(result)
}

// opADDI handles ADDI: immediate source, read-modify-write destination.
func opADDI(s *System, data *InstructionData) error {
	return immediateArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst + src
		c.setFlagsAdd(src, dst, result, size)
		return result
	})
}

// opSUBI handles SUBI.
func opSUBI(s *System, data *InstructionData) error {
	return immediateArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst - src
		c.setFlagsSub(src, dst, result, size)
		return result
	})
}

func immediateArith(s *System, data *InstructionData, op func(*CPU, uint32, uint32, Size) uint32) error {
	s.CPU.PC += 2

	src, err := s.readImmediate(data.Size)
	if err != nil {
		return err
	}
	d, err := s.resolveDst(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	return d.store(op(&s.CPU, src, dst, data.Size))
}

// opCMP handles CMP <ea>, Dn. Only the flags change.
func opCMP(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src, err := s.readEA(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	dst := truncate(s.CPU.D[data.DstReg], data.Size)
	s.CPU.setFlagsCmp(src, dst, dst-src, data.Size)
	return nil
}

// opCMPI handles CMPI #imm, <ea>.
func opCMPI(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src, err := s.readImmediate(data.Size)
	if err != nil {
		return err
	}
	d, err := s.resolveDst(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	s.CPU.setFlagsCmp(src, dst, dst-src, data.Size)
	return nil
}

// opCMPA handles CMPA <ea>, An. Word sources are sign-extended and the
// comparison is always done at long width.
func opCMPA(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src, err := s.readEA(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	if data.Size == SizeWord {
		src = uint32(int32(int16(src)))
	}
	dst := s.CPU.A[data.DstReg]
	s.CPU.setFlagsCmp(src, dst, dst-src, SizeLong)
	return nil
}

// opMULS handles MULS.W: signed 16×16 → 32 into the data register.
func opMULS(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src, err := s.readEA(data.SrcMode, data.SrcReg, SizeWord)
	if err != nil {
		return err
	}
	dst := uint16(s.CPU.D[data.DstReg])
	result := uint32(int32(int16(src)) * int32(int16(dst)))
	s.CPU.D[data.DstReg] = result
	s.CPU.setFlagsMove(result, SizeLong)
	return nil
}

// opMULU handles MULU.W: unsigned 16×16 → 32 into the data register.
func opMULU(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src, err := s.readEA(data.SrcMode, data.SrcReg, SizeWord)
	if err != nil {
		return err
	}
	dst := uint16(s.CPU.D[data.DstReg])
	result := uint32(uint16(src)) * uint32(dst)
	s.CPU.D[data.DstReg] = result
	s.CPU.setFlagsMove(result, SizeLong)
	return nil
}
