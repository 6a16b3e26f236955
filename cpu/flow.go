package cpu

// branchTarget works out the branch displacement. The raw 8-bit field rides
// in DstReg; a zero field means the displacement is the next 16-bit word,
// in which case the not-taken fall-through lands 4 bytes in instead of 2.
// Displacements are signed and measured from the opcode word.
func (s *System) branchTarget(data *InstructionData) (offset, fallthru int32, err error) {
	offset = int32(int8(data.DstReg))
	fallthru = 2
	if offset == 0 {
		w, werr := s.Mem.ReadWord(s.CPU.PC + 2)
		if werr != nil {
			return 0, 0, werr
		}
		offset = int32(int16(w))
		fallthru = 4
	}
	return offset, fallthru, nil
}

// opBRA branches unconditionally.
func opBRA(s *System, data *InstructionData) error {
	offset, _, err := s.branchTarget(data)
	if err != nil {
		return err
	}
	s.CPU.PC += offset
	return nil
}

// opBSR pushes the return address and branches.
func opBSR(s *System, data *InstructionData) error {
	offset, fallthru, err := s.branchTarget(data)
	if err != nil {
		return err
	}
	if err := s.push(uint32(s.CPU.PC + fallthru)); err != nil {
		return err
	}
	s.CPU.PC += offset
	return nil
}

// opBcc branches when the 4-bit condition in SrcReg holds against the
// status register.
func opBcc(s *System, data *InstructionData) error {
	offset, fallthru, err := s.branchTarget(data)
	if err != nil {
		return err
	}
	if ConditionHolds(data.SrcReg, s.CPU.SR) {
		s.CPU.PC += offset
	} else {
		s.CPU.PC += fallthru
	}
	return nil
}

// opJMP jumps to a control effective address.
func opJMP(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	addr, err := s.controlAddress(data.DstMode, data.DstReg)
	if err != nil {
		return err
	}
	s.CPU.PC = addr
	return nil
}

// opJSR pushes the return address (past the jump's extension words) and
// jumps.
func opJSR(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	addr, err := s.controlAddress(data.DstMode, data.DstReg)
	if err != nil {
		return err
	}
	if err := s.push(uint32(s.CPU.PC)); err != nil {
		return err
	}
	s.CPU.PC = addr
	return nil
}

// opRTS pops the return address into PC.
func opRTS(s *System, data *InstructionData) error {
	addr, err := s.Mem.ReadLong(int32(s.CPU.A[A7]))
	if err != nil {
		return err
	}
	s.CPU.A[A7] += 4
	s.CPU.PC = int32(addr)
	return nil
}

// push stores a long on the stack, pre-decrementing A7.
func (s *System) push(value uint32) error {
	s.CPU.A[A7] -= 4
	return s.Mem.WriteLong(int32(s.CPU.A[A7]), value)
}
