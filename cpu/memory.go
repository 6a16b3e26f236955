package cpu

import (
	"encoding/binary"
	"fmt"
)

// Marker names a half-open [Begin,End) byte region of an ExecutableMemory.
type Marker struct {
	Begin int32
	End   int32
}

// Contains reports whether the offset falls inside the region.
func (m Marker) Contains(off int32) bool {
	return off >= m.Begin && off < m.End
}

// ExecutableMemory is a byte-addressable image with two named regions:
// executable code at the front and the stack behind it. All multi-byte
// access is big-endian, as on the real chip.
type ExecutableMemory struct {
	Data       []byte
	Executable Marker
	Stack      Marker
}

// Len returns the total image size in bytes.
func (m *ExecutableMemory) Len() int32 {
	return int32(len(m.Data))
}

// Empty reports whether the image holds no bytes at all.
func (m *ExecutableMemory) Empty() bool {
	return len(m.Data) == 0
}

// Clone deep-copies the image.
func (m *ExecutableMemory) Clone() ExecutableMemory {
	data := make([]byte, len(m.Data))
	copy(data, m.Data)
	return ExecutableMemory{
		Data:       data,
		Executable: m.Executable,
		Stack:      m.Stack,
	}
}

// OutOfBoundsError is returned by memory accessors for addresses outside
// the image.
type OutOfBoundsError struct {
	Addr int32
	Len  int32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access at %d outside image of %d bytes", e.Addr, e.Len)
}

func (m *ExecutableMemory) check(addr, width int32) error {
	if addr < 0 || addr+width > m.Len() {
		return &OutOfBoundsError{Addr: addr, Len: m.Len()}
	}
	return nil
}

// ReadByte reads one byte from the image.
func (m *ExecutableMemory) ReadByte(addr int32) (uint8, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m.Data[addr], nil
}

// ReadWord reads a big-endian 16-bit word.
func (m *ExecutableMemory) ReadWord(addr int32) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(m.Data[addr:]), nil
}

// ReadLong reads a big-endian 32-bit long word.
func (m *ExecutableMemory) ReadLong(addr int32) (uint32, error) {
	if err := m.check(addr, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.Data[addr:]), nil
}

// WriteByte stores one byte.
func (m *ExecutableMemory) WriteByte(addr int32, val uint8) error {
	if err := m.check(addr, 1); err != nil {
		return err
	}
	m.Data[addr] = val
	return nil
}

// WriteWord stores a 16-bit word in big-endian order.
func (m *ExecutableMemory) WriteWord(addr int32, val uint16) error {
	if err := m.check(addr, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(m.Data[addr:], val)
	return nil
}

// WriteLong stores a 32-bit long word in big-endian order.
func (m *ExecutableMemory) WriteLong(addr int32, val uint32) error {
	if err := m.check(addr, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.Data[addr:], val)
	return nil
}

// Read reads a value of the given size from the image.
func (m *ExecutableMemory) Read(addr int32, size Size) (uint32, error) {
	switch size {
	case SizeByte:
		b, err := m.ReadByte(addr)
		return uint32(b), err
	case SizeWord:
		w, err := m.ReadWord(addr)
		return uint32(w), err
	case SizeLong:
		return m.ReadLong(addr)
	}
	return 0, fmt.Errorf("invalid size for memory read at %d", addr)
}

// Write stores a value of the given size into the image.
func (m *ExecutableMemory) Write(addr int32, size Size, val uint32) error {
	switch size {
	case SizeByte:
		return m.WriteByte(addr, uint8(val))
	case SizeWord:
		return m.WriteWord(addr, uint16(val))
	case SizeLong:
		return m.WriteLong(addr, val)
	}
	return fmt.Errorf("invalid size for memory write at %d", addr)
}
