package parser

import "unicode"

// keywords is the set of reserved words that can never be used bare as
// an identifier. Contextual keywords (var, dynamic, partial, async,
// await, yield, nameof, when, record, required, init, with, global,
// unmanaged, managed, notnull, scoped, field) are deliberately absent:
// they are recognized by position in the grammar, the same way the
// language itself treats them.
var keywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true,
	"default": true, "delegate": true, "do": true, "double": true,
	"else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true,
	"float": true, "for": true, "foreach": true, "goto": true, "if": true,
	"implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true,
	"operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true,
	"ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool { return keywords[s] }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// peekIdentifier returns the identifier-shaped text starting at the
// cursor without consuming it, or "" if the cursor isn't at one. An `@`
// prefix (verbatim identifier, e.g. `@class`) is included in the
// returned text but does not affect keyword-ness checks downstream: the
// parser strips it before comparing against keywords.
func peekIdentifier(c *Cursor) string {
	start := c.Mark()
	tmp := *c
	if r, w := tmp.Peek(); w > 0 && r == '@' {
		tmp.Advance()
	}
	r, w := tmp.Peek()
	if w == 0 || !isIdentStart(r) {
		return ""
	}
	tmp.Advance()
	for {
		r, w := tmp.Peek()
		if w == 0 || !isIdentContinue(r) {
			break
		}
		tmp.Advance()
	}
	return tmp.Slice(start)
}

// Ident consumes an identifier (keyword or verbatim-`@` identifiers
// included) and returns its text, or ("", false) if none is present.
// Plain reserved words are rejected unless verbatim-escaped with `@`.
func Ident(c *Cursor) (string, bool) {
	SkipTrivia(c)
	m := c.Mark()
	text := peekIdentifier(c)
	if text == "" {
		return "", false
	}
	verbatim := text[0] == '@'
	name := text
	if verbatim {
		name = text[1:]
	}
	if !verbatim && IsKeyword(name) {
		c.Reset(m)
		return "", false
	}
	c.AdvanceBytes(len(text))
	return name, true
}

// Keyword consumes exactly the reserved word kw, requiring a word
// boundary after it (so "int" doesn't match the prefix of "interface").
func Keyword(kw string) Recognizer {
	return func(c *Cursor) bool {
		SkipTrivia(c)
		m := c.Mark()
		if !c.HasPrefix(kw) {
			return false
		}
		c.AdvanceBytes(len(kw))
		if r, w := c.Peek(); w > 0 && isIdentContinue(r) {
			c.Reset(m)
			return false
		}
		return true
	}
}

// PeekKeyword reports whether kw is the next significant token, without
// consuming anything.
func PeekKeyword(c *Cursor, kw string) bool {
	m := c.Mark()
	ok := Keyword(kw)(c)
	c.Reset(m)
	return ok
}

// ContextualKeyword matches a contextual keyword by identifier text:
// `word` is only "reserved" in specific grammar positions, so this is
// plain identifier-shaped matching rather than the Keyword word-boundary
// check against the reserved set.
func ContextualKeyword(word string) Recognizer {
	return func(c *Cursor) bool {
		SkipTrivia(c)
		text := peekIdentifier(c)
		if text != word {
			return false
		}
		c.AdvanceBytes(len(word))
		return true
	}
}

// PeekContextual reports whether word is the next identifier-shaped
// token, without consuming it.
func PeekContextual(c *Cursor, word string) bool {
	SkipTrivia(c)
	return peekIdentifier(c) == word
}

// Punct consumes an exact punctuator/operator sequence (",", "::", "??=",
// ...), requiring that the match not be a prefix of a longer operator
// that starts the same way (so `?` doesn't eat the `?` in `??`, and `<`
// doesn't eat the `<` in `<=`). Callers needing the short form
// explicitly (e.g. the first `<` opening a generic argument list) use
// PunctExact instead.
func Punct(tok string) Recognizer {
	longer := puncts[tok]
	return func(c *Cursor) bool {
		SkipTrivia(c)
		if !c.HasPrefix(tok) {
			return false
		}
		for _, l := range longer {
			if c.HasPrefix(l) {
				return false
			}
		}
		c.AdvanceBytes(len(tok))
		return true
	}
}

// PunctExact consumes tok regardless of longer operators sharing its
// prefix.
func PunctExact(tok string) Recognizer {
	return func(c *Cursor) bool {
		SkipTrivia(c)
		if !c.HasPrefix(tok) {
			return false
		}
		c.AdvanceBytes(len(tok))
		return true
	}
}

// PeekPunct reports whether tok is the next significant punctuator,
// without consuming it.
func PeekPunct(c *Cursor, tok string) bool {
	m := c.Mark()
	ok := Punct(tok)(c)
	c.Reset(m)
	return ok
}

// puncts lists, for a short operator, the longer operators that share
// its prefix and must NOT be matched by Punct when only the short form
// was requested.
var puncts = map[string][]string{
	"?":  {"??=", "??", "?."},
	"<":  {"<<=", "<="},
	">":  {">>=", ">="},
	"=":  {"==", "=>"},
	"!":  {"!="},
	"&":  {"&&", "&="},
	"|":  {"||", "|="},
	"+":  {"++", "+="},
	"-":  {"--", "-=", "->"},
	"*":  {"*="},
	"/":  {"/="},
	"%":  {"%="},
	"^":  {"^="},
	":":  {"::"},
	".":  {".."},
	"..": {"..."},
}
