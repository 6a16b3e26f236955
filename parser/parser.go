// Package parser turns M68k assembly source into a structured instruction
// list plus a label table. It is built from small pure parser combinators;
// nothing in here ever panics on user input.
package parser

import (
	"strings"

	"github.com/Urethramancer/emu68/cpu"
)

// Settings adjusts parser behavior.
type Settings struct {
	// CaseInsensitiveLabels folds label names (and the rest of the line)
	// to lower case before matching. Mnemonics are case-insensitive
	// regardless.
	CaseInsensitiveLabels bool
}

// Parse converts assembly source into a Program. Labels are recorded at the
// byte offset the next instruction will be encoded at; duplicates are a
// parse error and the first definition wins.
func Parse(source string, settings Settings) (*Program, *ParserError) {
	prog := &Program{Labels: LabelInfo{}}
	offset := int32(0)

	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	for ln, line := range lines {
		if settings.CaseInsensitiveLabels {
			line = strings.ToLower(line)
		}
		rest := line

		for {
			rest = AlwaysTrue(Whitespace())(rest).Remainder
			if rest == "" {
				break
			}
			if res := Comment()(rest); res.Ok {
				break
			}

			if res := ParseLabel()(rest); res.Ok {
				name := res.Consumed
				hash := HashLabel(name)
				if _, dup := prog.Labels[hash]; dup {
					return nil, errorAt(ln, line, rest, DuplicateLabel{Name: name})
				}
				prog.Labels[hash] = offset
				rest = res.Remainder
				continue
			}

			word := Word()(rest)
			if !word.Ok {
				return nil, errorAt(ln, line, rest, UnknownError{})
			}
			entry, known := instructionTable[strings.ToLower(word.Consumed)]
			if !known {
				return nil, errorAt(ln, line, rest, UnknownInstruction{Name: word.Consumed})
			}

			instr := Instruction{
				Mnemonic: entry.mnemonic,
				Cond:     entry.cond,
				Size:     cpu.SizeWord,
			}
			res := entry.profile(&instr)(word.Remainder)
			if !res.Ok {
				return nil, errorAt(ln, line, res.Remainder, reasonOf(res))
			}

			prog.Instructions = append(prog.Instructions, instr)
			offset += instr.EncodedSize()
			rest = res.Remainder
		}
	}

	return prog, nil
}

// errorAt builds a location-tagged error from the unconsumed remainder of a
// line. Lines and columns are 1-based.
func errorAt(lineIdx int, line, remainder string, reason Error) *ParserError {
	return &ParserError{
		Line:   lineIdx + 1,
		Column: len(line) - len(remainder) + 1,
		Reason: reason,
	}
}
