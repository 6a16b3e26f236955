package parser

import (
	"fmt"
	"strings"
)

// Error is one of the tagged parse-failure reasons carried through
// combinator metadata. Parsers never panic; the most specific error seen
// wins.
type Error interface {
	error
	parserError()
}

// MissingCharacter reports a required character that was not found.
type MissingCharacter struct {
	Ch byte
}

func (e MissingCharacter) Error() string {
	return fmt.Sprintf("missing character %q", e.Ch)
}

func (MissingCharacter) parserError() {}

// UnknownOperand reports an operand that matched no addressing form.
type UnknownOperand struct{}

func (UnknownOperand) Error() string {
	return "unknown operand"
}

func (UnknownOperand) parserError() {}

// OperandTypeMismatch reports an operand whose addressing form is not
// permitted in its position.
type OperandTypeMismatch struct {
	Expected []OperandKind
	Got      OperandKind
	Index    int
}

func (e OperandTypeMismatch) Error() string {
	names := make([]string, 0, len(e.Expected))
	for _, k := range e.Expected {
		names = append(names, k.String())
	}
	return fmt.Sprintf("operand %d is %s, expected one of %s",
		e.Index, e.Got, strings.Join(names, ", "))
}

func (OperandTypeMismatch) parserError() {}

// DuplicateLabel reports a label defined twice; the first definition wins.
type DuplicateLabel struct {
	Name string
}

func (e DuplicateLabel) Error() string {
	return fmt.Sprintf("label %q is already defined", e.Name)
}

func (DuplicateLabel) parserError() {}

// UnknownInstruction reports a mnemonic outside the instruction table.
type UnknownInstruction struct {
	Name string
}

func (e UnknownInstruction) Error() string {
	return fmt.Sprintf("unknown instruction %q", e.Name)
}

func (UnknownInstruction) parserError() {}

// UnknownError is the placeholder reason before anything more specific is
// known.
type UnknownError struct{}

func (UnknownError) Error() string {
	return "unknown parse error"
}

func (UnknownError) parserError() {}

// ParserError ties a failure reason to a source location.
type ParserError struct {
	Line   int
	Column int
	Reason Error
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Reason)
}

// Unwrap exposes the tagged reason to errors.As.
func (e *ParserError) Unwrap() error {
	return e.Reason
}

// reasonOf turns combinator metadata into a concrete reason.
func reasonOf(md Metadata) Error {
	if md.Err != nil {
		return md.Err
	}
	return UnknownError{}
}
