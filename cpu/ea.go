package cpu

import "fmt"

// Effective-address resolution. Extension words (displacements, index words,
// absolute addresses, immediates) sit in the instruction stream right behind
// the opcode, so resolving an EA advances PC past whatever it consumes.
// Executors resolve the source side first, then the destination, matching
// the order the encoder emits additional data in.

// readEA fetches the value of an effective address, advancing PC past any
// extension words it consumes.
func (s *System) readEA(mode, reg uint16, size Size) (uint32, error) {
	switch mode {
	case ModeData:
		return truncate(s.CPU.D[reg], size), nil

	case ModeAddr:
		return truncate(s.CPU.A[reg], size), nil

	case ModeOther:
		if reg == RegImmediate {
			return s.readImmediate(size)
		}
	}

	addr, err := s.memAddress(mode, reg, size)
	if err != nil {
		return 0, err
	}
	return s.Mem.Read(addr, size)
}

// destination is a writable location resolved exactly once, so that
// read-modify-write instructions don't consume their extension words twice.
type destination struct {
	sys  *System
	reg  uint16
	size Size
	addr int32
	// toData/toAddr select a register destination; otherwise addr is a
	// memory address.
	toData, toAddr bool
}

// resolveDst resolves a destination EA, advancing PC past any extension
// words it consumes.
func (s *System) resolveDst(mode, reg uint16, size Size) (destination, error) {
	d := destination{sys: s, reg: reg, size: size}
	switch mode {
	case ModeData:
		d.toData = true
		return d, nil
	case ModeAddr:
		if size == SizeByte {
			return d, fmt.Errorf("invalid size .b for write to a%d", reg)
		}
		d.toAddr = true
		return d, nil
	case ModeOther:
		if reg == RegImmediate {
			return d, fmt.Errorf("immediate is not a writable destination")
		}
	}

	addr, err := s.memAddress(mode, reg, size)
	if err != nil {
		return d, err
	}
	d.addr = addr
	return d, nil
}

// load reads the current value of the destination.
func (d *destination) load() (uint32, error) {
	switch {
	case d.toData:
		return truncate(d.sys.CPU.D[d.reg], d.size), nil
	case d.toAddr:
		return truncate(d.sys.CPU.A[d.reg], d.size), nil
	}
	return d.sys.Mem.Read(d.addr, d.size)
}

// store writes a value to the destination. Partial-width register writes
// merge with the untouched upper bits; word writes to an address register
// sign-extend.
func (d *destination) store(value uint32) error {
	switch {
	case d.toData:
		switch d.size {
		case SizeByte:
			d.sys.CPU.D[d.reg] = (d.sys.CPU.D[d.reg] & 0xFFFFFF00) | (value & 0xFF)
		case SizeWord:
			d.sys.CPU.D[d.reg] = (d.sys.CPU.D[d.reg] & 0xFFFF0000) | (value & 0xFFFF)
		default:
			d.sys.CPU.D[d.reg] = value
		}
		return nil
	case d.toAddr:
		if d.size == SizeWord {
			d.sys.CPU.A[d.reg] = uint32(int32(int16(value)))
		} else {
			d.sys.CPU.A[d.reg] = value
		}
		return nil
	}
	return d.sys.Mem.Write(d.addr, d.size, value)
}

// writeEA stores a value at an effective address, advancing PC past any
// extension words it consumes.
func (s *System) writeEA(mode, reg uint16, size Size, value uint32) error {
	d, err := s.resolveDst(mode, reg, size)
	if err != nil {
		return err
	}
	return d.store(value)
}

// memAddress resolves the address of a memory-class EA, applying the
// post-increment and pre-decrement side effects and consuming extension
// words.
func (s *System) memAddress(mode, reg uint16, size Size) (int32, error) {
	switch mode {
	case ModeAddrInd:
		return int32(s.CPU.A[reg]), nil

	case ModeAddrPostInc:
		addr := int32(s.CPU.A[reg])
		s.CPU.A[reg] += uint32(addressStep(size, reg))
		return addr, nil

	case ModeAddrPreDec:
		s.CPU.A[reg] -= uint32(addressStep(size, reg))
		return int32(s.CPU.A[reg]), nil

	case ModeAddrDisp:
		return s.dispAddress(reg)

	case ModeAddrIndex:
		return s.indexAddress(reg)

	case ModeOther:
		switch reg {
		case RegAbsShort:
			return s.absShortAddress()
		case RegAbsLong:
			return s.absLongAddress()
		}
	}
	return 0, fmt.Errorf("unimplemented addressing mode %d:%d", mode, reg)
}

// controlAddress resolves a jump-target EA without reading through it.
// Only the control modes are legal here.
func (s *System) controlAddress(mode, reg uint16) (int32, error) {
	switch mode {
	case ModeAddrInd, ModeAddrDisp, ModeAddrIndex:
		return s.memAddress(mode, reg, SizeWord)
	case ModeOther:
		switch reg {
		case RegAbsShort, RegAbsLong:
			return s.memAddress(mode, reg, SizeWord)
		}
	}
	return 0, fmt.Errorf("addressing mode %d:%d is not a jump target", mode, reg)
}

// addressStep returns the step for (An)+ and -(An) accesses. Byte accesses
// through the stack pointer move by two to keep it word-aligned.
func addressStep(size Size, reg uint16) int32 {
	if size == SizeByte && reg == A7 {
		return 2
	}
	return size.Bytes()
}

// dispAddress reads the 16-bit displacement word and forms A[reg]+d16.
func (s *System) dispAddress(reg uint16) (int32, error) {
	d, err := s.Mem.ReadWord(s.CPU.PC)
	if err != nil {
		return 0, err
	}
	s.CPU.PC += 2
	return int32(s.CPU.A[reg]) + int32(int16(d)), nil
}

// indexAddress reads the brief extension word and forms A[reg]+disp8+Xn.
// Bit 15 selects the index register file, bits 14-12 its number, bit 11 its
// width (clear: sign-extended word), bits 7-0 the signed displacement.
func (s *System) indexAddress(reg uint16) (int32, error) {
	ext, err := s.Mem.ReadWord(s.CPU.PC)
	if err != nil {
		return 0, err
	}
	s.CPU.PC += 2

	xreg := (ext >> 12) & 0x7
	var index int32
	if ext&0x8000 != 0 {
		index = int32(s.CPU.A[xreg])
	} else {
		index = int32(s.CPU.D[xreg])
	}
	if ext&0x0800 == 0 {
		index = int32(int16(index))
	}
	disp := int32(int8(ext))
	return int32(s.CPU.A[reg]) + disp + index, nil
}

func (s *System) absShortAddress() (int32, error) {
	w, err := s.Mem.ReadWord(s.CPU.PC)
	if err != nil {
		return 0, err
	}
	s.CPU.PC += 2
	return int32(int16(w)), nil
}

func (s *System) absLongAddress() (int32, error) {
	l, err := s.Mem.ReadLong(s.CPU.PC)
	if err != nil {
		return 0, err
	}
	s.CPU.PC += 4
	return int32(l), nil
}

// readImmediate reads an immediate payload from the instruction stream.
// Byte immediates occupy a full word with the high byte ignored.
func (s *System) readImmediate(size Size) (uint32, error) {
	switch size {
	case SizeByte:
		w, err := s.Mem.ReadWord(s.CPU.PC)
		if err != nil {
			return 0, err
		}
		s.CPU.PC += 2
		return uint32(w & 0xFF), nil
	case SizeWord:
		w, err := s.Mem.ReadWord(s.CPU.PC)
		if err != nil {
			return 0, err
		}
		s.CPU.PC += 2
		return uint32(w), nil
	case SizeLong:
		l, err := s.Mem.ReadLong(s.CPU.PC)
		if err != nil {
			return 0, err
		}
		s.CPU.PC += 4
		return l, nil
	}
	return 0, fmt.Errorf("invalid size for immediate read")
}
