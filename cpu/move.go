package cpu

// opMOVE handles the general MOVE instruction.
func opMOVE(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	value, err := s.readEA(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	if err := s.writeEA(data.DstMode, data.DstReg, data.Size, value); err != nil {
		return err
	}

	s.CPU.setFlagsMove(value, data.Size)
	return nil
}

// opMOVEA handles MOVE into an address register. Word sources are
// sign-extended to 32 bits and no condition codes are touched.
func opMOVEA(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	value, err := s.readEA(data.SrcMode, data.SrcReg, data.Size)
	if err != nil {
		return err
	}
	if data.Size == SizeWord {
		value = uint32(int32(int16(value)))
	}
	s.CPU.A[data.DstReg] = value
	return nil
}

// opMOVEQ handles MOVEQ. The 8-bit immediate was stored in SrcReg by the
// decoder and is sign-extended to a long.
func opMOVEQ(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	value := uint32(int32(int8(data.SrcReg)))
	s.CPU.D[data.DstReg] = value
	s.CPU.setFlagsMove(value, SizeLong)
	return nil
}
