package cpu

// The single-operand group: CLR, NEG, NOT, TST.

// opCLR zeroes the destination. N, V and C clear, Z set.
func opCLR(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	d, err := s.resolveDst(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	if err := d.store(0); err != nil {
		return err
	}
	s.CPU.setFlagsMove(0, data.Size)
	return nil
}

// opNEG negates the destination: 0 - dst, with full subtraction flags.
func opNEG(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	d, err := s.resolveDst(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	result := -dst
	s.CPU.setFlagsSub(dst, 0, result, data.Size)
	return d.store(result)
}

// opNOT complements the destination with logical flag behavior.
func opNOT(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	d, err := s.resolveDst(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	dst, err := d.load()
	if err != nil {
		return err
	}
	result := ^dst
	s.CPU.setFlagsMove(truncate(result, data.Size), data.Size)
	return d.store(result)
}

// opTST sets N and Z from the operand and clears V and C.
func opTST(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	value, err := s.readEA(data.DstMode, data.DstReg, data.Size)
	if err != nil {
		return err
	}
	s.CPU.setFlagsMove(value, data.Size)
	return nil
}
