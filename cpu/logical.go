package cpu

// The logical group shares flag behavior with MOVE: N and Z from the result,
// V and C cleared, X untouched.

// opAND handles AND with the ADD/SUB direction scheme.
func opAND(s *System, data *InstructionData) error {
	return dualArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst & src
		c.setFlagsMove(result, size)
		return result
	})
}

// opOR handles OR.
func opOR(s *System, data *InstructionData) error {
	return dualArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst | src
		c.setFlagsMove(result, size)
		return result
	})
}

// opEOR handles EOR. Unlike AND and OR it only writes toward the EA, with
// the data register as the source.
func opEOR(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	src := truncate(s.CPU.D[data.DstReg], data.Size)
	d, err := s.resolveDst(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	result := dst ^ src
	s.CPU.setFlagsMove(result, data.Size)
	return d.store(result)
}

// opANDI handles ANDI #imm, <ea>.
func opANDI(s *System, data *InstructionData) error {
	return immediateArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst & src
		c.setFlagsMove(result, size)
		return result
	})
}

// opORI handles ORI #imm, <ea>.
func opORI(s *System, data *InstructionData) error {
	return immediateArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst | src
		c.setFlagsMove(result, size)
		return result
	})
}

// opEORI handles EORI #imm, <ea>.
func opEORI(s *System, data *InstructionData) error {
	return immediateArith(s, data, func(c *CPU, src, dst uint32, size Size) uint32 {
		result := dst ^ src
		c.setFlagsMove(result, size)
		return result
	})
}
