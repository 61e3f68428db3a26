package parser

import "strings"

// literalRecognizer matches one literal shape and returns its exact
// source text (suffix included) along with the ast.LiteralKind tag the
// caller should stamp on the resulting ast.LiteralExpr. Literals are
// tried in an order where longer/more specific prefixes are checked
// first (interpolated before plain string, raw before verbatim) so a
// shorter recognizer never shadows a longer one sharing its prefix.
type literalMatch struct {
	Text string
	Kind int
}

const (
	litInt = iota
	litFloat
	litChar
	litString
	litVerbatimString
	litRawString
	litUTF8String
	litBool
	litNull
)

// MatchLiteral attempts every literal shape at the cursor and, on
// success, consumes and returns its text and kind.
func MatchLiteral(c *Cursor) (literalMatch, bool) {
	SkipTrivia(c)
	if m, ok := matchRawString(c); ok {
		return m, true
	}
	if m, ok := matchVerbatimString(c); ok {
		return m, true
	}
	if m, ok := matchRegularString(c); ok {
		return m, true
	}
	if m, ok := matchChar(c); ok {
		return m, true
	}
	if m, ok := matchNumber(c); ok {
		return m, true
	}
	if m, ok := matchKeywordLiteral(c); ok {
		return m, true
	}
	return literalMatch{}, false
}

func matchKeywordLiteral(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	if Keyword("true")(c) {
		return literalMatch{Text: "true", Kind: litBool}, true
	}
	c.Reset(m)
	if Keyword("false")(c) {
		return literalMatch{Text: "false", Kind: litBool}, true
	}
	c.Reset(m)
	if Keyword("null")(c) {
		return literalMatch{Text: "null", Kind: litNull}, true
	}
	c.Reset(m)
	return literalMatch{}, false
}

func matchRawString(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	interp := false
	if c.HasPrefix("$\"\"\"") {
		interp = true
		c.AdvanceBytes(1)
	}
	if !c.HasPrefix("\"\"\"") {
		c.Reset(m)
		return literalMatch{}, false
	}
	quoteRun := 0
	for c.HasPrefix("\"") {
		c.AdvanceBytes(1)
		quoteRun++
	}
	closer := strings.Repeat("\"", quoteRun)
	for !c.AtEnd() {
		if c.HasPrefix(closer) {
			c.AdvanceBytes(quoteRun)
			kind := litString
			if interp {
				kind = litUTF8String
			}
			return literalMatch{Text: c.Slice(m), Kind: kind}, true
		}
		c.Advance()
	}
	c.Reset(m)
	return literalMatch{}, false
}

func matchVerbatimString(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	if !c.HasPrefix("@\"") && !c.HasPrefix("$@\"") && !c.HasPrefix("@$\"") {
		return literalMatch{}, false
	}
	if c.HasPrefix("@\"") {
		c.AdvanceBytes(2)
	} else {
		c.AdvanceBytes(3)
	}
	for !c.AtEnd() {
		if c.HasPrefix("\"\"") {
			c.AdvanceBytes(2)
			continue
		}
		if c.HasPrefix("\"") {
			c.AdvanceBytes(1)
			return literalMatch{Text: c.Slice(m), Kind: litVerbatimString}, true
		}
		c.Advance()
	}
	c.Reset(m)
	return literalMatch{}, false
}

func matchRegularString(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	interp := c.HasPrefix("$\"")
	if !c.HasPrefix("\"") && !interp {
		return literalMatch{}, false
	}
	if interp {
		c.AdvanceBytes(2)
	} else {
		c.AdvanceBytes(1)
	}
	for !c.AtEnd() {
		r, w := c.Peek()
		if r == '"' {
			c.AdvanceBytes(1)
			kind := litString
			if interp {
				kind = litUTF8String
			}
			return literalMatch{Text: c.Slice(m), Kind: kind}, true
		}
		if r == '\n' {
			c.Reset(m)
			return literalMatch{}, false
		}
		if r == '\\' {
			c.AdvanceBytes(w)
			if !c.AtEnd() {
				_, w2 := c.Peek()
				c.AdvanceBytes(w2)
			}
			continue
		}
		c.AdvanceBytes(w)
	}
	c.Reset(m)
	return literalMatch{}, false
}

func matchChar(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	if !c.HasPrefix("'") {
		return literalMatch{}, false
	}
	c.AdvanceBytes(1)
	for !c.AtEnd() {
		r, w := c.Peek()
		if r == '\'' {
			c.AdvanceBytes(1)
			return literalMatch{Text: c.Slice(m), Kind: litChar}, true
		}
		if r == '\n' {
			break
		}
		if r == '\\' {
			c.AdvanceBytes(w)
			if !c.AtEnd() {
				_, w2 := c.Peek()
				c.AdvanceBytes(w2)
			}
			continue
		}
		c.AdvanceBytes(w)
	}
	c.Reset(m)
	return literalMatch{}, false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// matchNumber recognizes decimal, hex (0x), binary (0b), and
// floating-point literals, including digit separators (`_`) and the
// numeric-suffix letters (u, l, f, d, m, and their combinations).
func matchNumber(c *Cursor) (literalMatch, bool) {
	m := c.Mark()
	r, w := c.Peek()
	if w == 0 || !isDigit(r) {
		return literalMatch{}, false
	}

	isFloat := false
	if r == '0' {
		if r2, w2 := c.PeekAt(w); w2 > 0 && (r2 == 'x' || r2 == 'X') {
			c.AdvanceBytes(w + w2)
			consumeDigitRun(c, isHexDigit)
			consumeIntSuffix(c)
			return literalMatch{Text: c.Slice(m), Kind: litInt}, true
		}
		if r2, w2 := c.PeekAt(w); w2 > 0 && (r2 == 'b' || r2 == 'B') {
			c.AdvanceBytes(w + w2)
			consumeDigitRun(c, func(r rune) bool { return r == '0' || r == '1' || r == '_' })
			consumeIntSuffix(c)
			return literalMatch{Text: c.Slice(m), Kind: litInt}, true
		}
	}

	consumeDigitRun(c, func(r rune) bool { return isDigit(r) || r == '_' })

	if r, w := c.Peek(); w > 0 && r == '.' {
		if r2, w2 := c.PeekAt(w); w2 > 0 && isDigit(r2) {
			isFloat = true
			c.AdvanceBytes(w)
			consumeDigitRun(c, func(r rune) bool { return isDigit(r) || r == '_' })
		}
	}

	if r, w := c.Peek(); w > 0 && (r == 'e' || r == 'E') {
		save := c.Mark()
		c.AdvanceBytes(w)
		if r2, w2 := c.Peek(); w2 > 0 && (r2 == '+' || r2 == '-') {
			c.AdvanceBytes(w2)
		}
		if r3, w3 := c.Peek(); w3 > 0 && isDigit(r3) {
			isFloat = true
			consumeDigitRun(c, isDigit)
		} else {
			c.Reset(save)
		}
	}

	kind := litInt
	if r, w := c.Peek(); w > 0 {
		switch r {
		case 'f', 'F', 'd', 'D', 'm', 'M':
			isFloat = true
			c.AdvanceBytes(w)
		case 'u', 'U', 'l', 'L':
			consumeIntSuffix(c)
		}
	}
	if isFloat {
		kind = litFloat
	}
	return literalMatch{Text: c.Slice(m), Kind: kind}, true
}

func consumeDigitRun(c *Cursor, pred func(rune) bool) {
	for {
		r, w := c.Peek()
		if w == 0 || !pred(r) {
			return
		}
		c.AdvanceBytes(w)
	}
}

func consumeIntSuffix(c *Cursor) {
	for {
		r, w := c.Peek()
		if w == 0 {
			return
		}
		switch r {
		case 'u', 'U', 'l', 'L':
			c.AdvanceBytes(w)
		default:
			return
		}
	}
}
