package parser

// Metadata is the result of applying a parser to an input string: whether it
// matched, what is left of the input, the span it consumed, and the most
// specific error seen so far. A nil Err stands for the unknown error.
type Metadata struct {
	Ok        bool
	Remainder string
	Consumed  string
	Err       Error
}

// A Parser consumes a prefix of its input and reports what it matched.
// Parsers are pure: all output goes through the returned Metadata or the
// closures bound with Map.
type Parser func(input string) Metadata

// Char matches a single exact character.
func Char(c byte) Parser {
	return func(input string) Metadata {
		if len(input) > 0 && input[0] == c {
			return Metadata{Ok: true, Remainder: input[1:], Consumed: input[:1]}
		}
		return Metadata{Remainder: input, Err: MissingCharacter{Ch: c}}
	}
}

// NotChar matches any single character except c.
func NotChar(c byte) Parser {
	return func(input string) Metadata {
		if len(input) > 0 && input[0] != c {
			return Metadata{Ok: true, Remainder: input[1:], Consumed: input[:1]}
		}
		return Metadata{Remainder: input}
	}
}

// Str matches an exact string.
func Str(s string) Parser {
	return func(input string) Metadata {
		if len(input) >= len(s) && input[:len(s)] == s {
			return Metadata{Ok: true, Remainder: input[len(s):], Consumed: input[:len(s)]}
		}
		return Metadata{Remainder: input}
	}
}

// NotStr matches any prefix of the same length that is not the given string.
func NotStr(s string) Parser {
	return func(input string) Metadata {
		if len(input) >= len(s) && input[:len(s)] != s {
			return Metadata{Ok: true, Remainder: input[len(s):], Consumed: input[:len(s)]}
		}
		return Metadata{Remainder: input}
	}
}

// Next runs first and, if it matched, second on the rest. The result is
// second's alone.
func Next(first, second Parser) Parser {
	return func(input string) Metadata {
		res := first(input)
		if res.Ok {
			return second(res.Remainder)
		}
		return Metadata{Remainder: input}
	}
}

// Seq runs every parser in order, threading the remainder regardless of
// individual failures. The overall result is the last parser's.
func Seq(parsers ...Parser) Parser {
	return func(input string) Metadata {
		res := Metadata{Remainder: input}
		for _, p := range parsers {
			res = p(res.Remainder)
		}
		return res
	}
}

// SeqNext runs the parsers in order and stops at the first failure,
// reporting that failure.
func SeqNext(parsers ...Parser) Parser {
	return func(input string) Metadata {
		res := Metadata{Remainder: input}
		for _, p := range parsers {
			res = p(res.Remainder)
			if !res.Ok {
				break
			}
		}
		return res
	}
}

// AnyOf tries each parser against the same input; the first match wins.
// When none match, the last parser's error is reported.
func AnyOf(parsers ...Parser) Parser {
	return func(input string) Metadata {
		res := Metadata{Remainder: input}
		for _, p := range parsers {
			res = p(input)
			if res.Ok {
				break
			}
		}
		return res
	}
}

// AllOf requires every parser to match the same input. It is a predicate
// conjunction: the input position does not advance between checks, and the
// final parser's metadata is the result.
func AllOf(parsers ...Parser) Parser {
	return func(input string) Metadata {
		res := Metadata{Remainder: input}
		for _, p := range parsers {
			res = p(input)
			if !res.Ok {
				return res
			}
		}
		return res
	}
}

// While applies the parser as long as it matches and succeeds if it matched
// at least once. The consumed span covers every match.
func While(p Parser) Parser {
	return func(input string) Metadata {
		res := Metadata{Remainder: input}
		matched := false
		for {
			next := p(res.Remainder)
			if !next.Ok {
				break
			}
			matched = true
			res = next
		}
		if matched {
			res.Ok = true
			res.Consumed = input[:len(input)-len(res.Remainder)]
		}
		return res
	}
}

// Then runs both parsers in order but keeps the first one's consumed span
// with the second one's remainder.
func Then(first, second Parser) Parser {
	return func(input string) Metadata {
		res1 := first(input)
		if res1.Ok {
			res2 := second(res1.Remainder)
			if res2.Ok {
				return Metadata{Ok: true, Remainder: res2.Remainder, Consumed: res1.Consumed}
			}
		}
		return Metadata{Remainder: input, Err: res1.Err}
	}
}

// Optional accepts the primary parser alone, or the primary followed by the
// extension when the extension also matches.
func Optional(primary, extension Parser) Parser {
	return func(input string) Metadata {
		res1 := primary(input)
		if res1.Ok {
			res2 := extension(res1.Remainder)
			if res2.Ok {
				return res2
			}
		}
		return res1
	}
}

// Between matches head, then body followed by tail, keeping body's consumed
// span.
func Between(head, body, tail Parser) Parser {
	return func(input string) Metadata {
		res := head(input)
		if res.Ok {
			return Then(body, tail)(res.Remainder)
		}
		return res
	}
}

// AlwaysTrue runs the parser for its side effects and offset but never
// fails.
func AlwaysTrue(p Parser) Parser {
	return func(input string) Metadata {
		res := p(input)
		return Metadata{Ok: true, Remainder: res.Remainder, Consumed: res.Consumed}
	}
}

// Map calls f with the consumed span when the parser matches.
func Map(p Parser, f func(consumed string)) Parser {
	return func(input string) Metadata {
		res := p(input)
		if res.Ok {
			f(res.Consumed)
		}
		return res
	}
}

// MapFalse calls f with the failed metadata, letting it rewrite the error.
func MapFalse(p Parser, f func(md *Metadata)) Parser {
	return func(input string) Metadata {
		res := p(input)
		if !res.Ok {
			f(&res)
		}
		return res
	}
}

// SetError replaces a generic failure with a concrete error, but never
// overwrites an error that is already specific.
func SetError(p Parser, err Error) Parser {
	return MapFalse(p, func(md *Metadata) {
		if md.Err == nil {
			md.Err = err
			return
		}
		if _, generic := md.Err.(UnknownError); generic {
			md.Err = err
		}
	})
}

// ErroringChar is Char with a guaranteed MissingCharacter error on failure,
// even when a combinator above it would have discarded one.
func ErroringChar(c byte) Parser {
	return MapFalse(Char(c), func(md *Metadata) {
		md.Err = MissingCharacter{Ch: c}
	})
}
