package parser

// Endl matches a line terminator or the end of the input.
func Endl() Parser {
	return func(input string) Metadata {
		if input == "" {
			return Metadata{Ok: true, Remainder: input}
		}
		return AnyOf(Char('\n'), Char(0), Char('\r'))(input)
	}
}

// NotEndl matches any single character that does not terminate the line.
func NotEndl() Parser {
	return func(input string) Metadata {
		if input == "" {
			return Metadata{Remainder: input}
		}
		return AllOf(NotChar('\n'), NotChar(0), NotChar('\r'))(input)
	}
}

// Whitespace matches a run of at least one space or tab.
func Whitespace() Parser {
	return While(AnyOf(Char(' '), Char('\t')))
}

// SkipLine consumes the rest of the line including its terminator.
func SkipLine() Parser {
	return Seq(AlwaysTrue(While(NotEndl())), Endl())
}

// Comment matches ';' through the end of the line.
func Comment() Parser {
	return Next(Char(';'), SkipLine())
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isWordChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// DecNumber matches an optional sign followed by at least one decimal
// digit; the consumed span includes the sign.
func DecNumber() Parser {
	return func(input string) Metadata {
		idx := 0
		if idx < len(input) && (input[idx] == '+' || input[idx] == '-') {
			idx++
		}
		found := false
		for idx < len(input) && isDigit(input[idx]) {
			found = true
			idx++
		}
		if found {
			return Metadata{Ok: true, Remainder: input[idx:], Consumed: input[:idx]}
		}
		return Metadata{Remainder: input}
	}
}

// HexNumber matches a run of at least one hexadecimal digit.
func HexNumber() Parser {
	return func(input string) Metadata {
		idx := 0
		for idx < len(input) && isHexDigit(input[idx]) {
			idx++
		}
		if idx > 0 {
			return Metadata{Ok: true, Remainder: input[idx:], Consumed: input[:idx]}
		}
		return Metadata{Remainder: input}
	}
}

// GenericHex matches '$' followed by hex digits; the consumed span is the
// digits alone.
func GenericHex() Parser {
	return SeqNext(Char('$'), HexNumber())
}

// wordChar matches one identifier character: [A-Za-z0-9_].
func wordChar() Parser {
	return func(input string) Metadata {
		if len(input) > 0 && isWordChar(input[0]) {
			return Metadata{Ok: true, Remainder: input[1:], Consumed: input[:1]}
		}
		return Metadata{Remainder: input}
	}
}

// Word matches a run of identifier characters.
func Word() Parser {
	return While(wordChar())
}

// ParseLabel matches a label definition: a word followed by ':'. The
// consumed span is the name alone.
func ParseLabel() Parser {
	return Then(Word(), Char(':'))
}
