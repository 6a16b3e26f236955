package cpu

// Shifts and rotates run one bit position at a time so the carry-out and the
// ASL overflow tracking fall out of the loop naturally. Counts are small
// (immediate 1-8, register modulo 64) so this costs nothing worth chasing.

// opShiftReg handles the register form. SrcMode selects the count source
// (0: immediate in SrcReg with 0 meaning 8, 1: data register number in
// SrcReg), the destination is always a data register.
func opShiftReg(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	var count uint32
	if data.SrcMode == 0 {
		count = uint32(data.SrcReg)
		if count == 0 {
			count = 8
		}
	} else {
		count = s.CPU.D[data.SrcReg] % 64
	}

	value := truncate(s.CPU.D[data.DstReg], data.Size)
	result := s.CPU.shift(value, count, data.OpMode, data.Size)
	return s.writeEA(ModeData, data.DstReg, data.Size, result)
}

// opShiftMem handles the memory form: a word shifted by one.
func opShiftMem(s *System, data *InstructionData) error {
	s.CPU.PC += 2

	d, err := s.resolveDst(data.DstMode, data.DstReg, SizeWord)
	if err != nil {
		return err
	}
	value, err := d.load()
	if err != nil {
		return err
	}
	return d.store(s.CPU.shift(value, 1, data.OpMode, SizeWord))
}

// shift applies count single-bit steps of the operation in opMode
// (type<<1|direction) and sets the flags.
func (c *CPU) shift(value, count uint32, opMode uint16, size Size) uint32 {
	typ := opMode >> 1
	left := opMode&1 != 0

	var (
		carry        bool
		signChanged  bool
		originalSign = signBit(value, size)
	)

	for i := uint32(0); i < count; i++ {
		if left {
			carry = signBit(value, size)
			value = truncate(value<<1, size)
			if typ == shiftRotate && carry {
				value |= 1
			}
		} else {
			carry = value&1 != 0
			value >>= 1
			switch {
			case typ == shiftArithmetic && originalSign:
				value |= signMask(size)
			case typ == shiftRotate && carry:
				value |= signMask(size)
			}
		}
		if signBit(value, size) != originalSign {
			signChanged = true
		}
	}

	c.SR &^= (SRN | SRZ | SRV | SRC)
	if count > 0 && carry {
		c.SR |= SRC
	}
	// ASL overflow: the sign bit changed at some point during the shift.
	if typ == shiftArithmetic && left && signChanged {
		c.SR |= SRV
	}
	// Rotates never touch X; shifts copy C into it.
	if typ != shiftRotate && count > 0 {
		if carry {
			c.SR |= SRX
		} else {
			c.SR &^= SRX
		}
	}
	c.setNZ(value, size)
	return value
}

func signMask(size Size) uint32 {
	switch size {
	case SizeByte:
		return 0x80
	case SizeWord:
		return 0x8000
	default:
		return 0x80000000
	}
}
