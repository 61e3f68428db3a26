package parser

import "github.com/bsharp-lang/bsharp/pkg/ast"

// error_recovery.go implements the resynchronization step Lenient mode
// needs after substituting an Error* marker for a construct that failed
// to parse. Fail itself never moves the cursor, so without this, the
// ManyUntil driving a statement or member list would call the same
// failing rule at the same offset forever: recoverToStatementBoundary
// and recoverToMemberBoundary use the SkipUntil primitive from
// combinators.go to walk past the offending tokens up to the next point
// the grammar can plausibly resume from.

// atStatementBoundary reports whether the cursor sits at a token that
// plausibly starts or ends a statement: a block delimiter, a statement
// terminator, or a keyword that leads a statement form.
func atStatementBoundary(c *Cursor) bool {
	switch {
	case PeekPunct(c, ";"), PeekPunct(c, "{"), PeekPunct(c, "}"):
		return true
	}
	for _, kw := range statementLeadingKeywords {
		if PeekKeyword(c, kw) {
			return true
		}
	}
	return false
}

var statementLeadingKeywords = []string{
	"if", "for", "foreach", "while", "do", "switch", "return", "throw",
	"try", "using", "lock", "fixed", "unsafe", "checked", "unchecked",
	"break", "continue", "goto",
}

// recoverToStatementBoundary resynchronizes after a failed statement
// parse. If the failing rule didn't move the cursor at all (the common
// case: ParseExpression found nothing), it skips forward rune by rune
// until a statement boundary is in view, consuming a trailing ';' if
// that's what it landed on. If the rule did consume some input before
// failing, the cursor is left where it is: the partial consumption is
// itself the recovery point.
func (p *Parser) recoverToStatementBoundary(start Mark) {
	c := p.cur
	if c.Mark() != start {
		return
	}
	SkipUntil(c, atStatementBoundary)
	if c.AtEnd() {
		return
	}
	if PeekPunct(c, ";") {
		PunctExact(";")(c)
	}
}

// atMemberBoundary reports whether the cursor sits at a token that
// plausibly starts a new member: a closing brace (end of the type
// body), a statement terminator left over from a malformed field or
// property, an attribute's opening bracket, or a modifier/type keyword
// that commonly leads a member declaration.
func atMemberBoundary(c *Cursor) bool {
	switch {
	case PeekPunct(c, "}"), PeekPunct(c, ";"), PeekPunct(c, "["):
		return true
	}
	for _, kw := range memberLeadingKeywords {
		if PeekKeyword(c, kw) {
			return true
		}
	}
	return false
}

var memberLeadingKeywords = []string{
	"public", "private", "protected", "internal", "static", "readonly",
	"abstract", "sealed", "virtual", "override", "class", "struct",
	"interface", "enum", "delegate", "event", "const", "extern", "new",
	"unsafe", "partial",
}

// recoverToMemberBoundary resynchronizes after a failed member parse,
// the same way recoverToStatementBoundary does for statements: only
// acts if the failing rule left the cursor exactly where it started, and
// consumes a trailing ';' so the next ManyUntil iteration sees a clean
// member start rather than the same unparsable token. A '[' is left in
// place, since it opens the next member's attribute list.
func (p *Parser) recoverToMemberBoundary(start Mark) {
	c := p.cur
	if c.Mark() != start {
		return
	}
	SkipUntil(c, atMemberBoundary)
	if c.AtEnd() {
		return
	}
	if PeekPunct(c, ";") {
		PunctExact(";")(c)
	}
}

// atTopLevelBoundary reports whether the cursor sits at a token that
// plausibly starts a new top-level or namespace-member declaration.
func atTopLevelBoundary(c *Cursor) bool {
	switch {
	case PeekPunct(c, "}"), PeekPunct(c, ";"), PeekPunct(c, "["):
		return true
	}
	for _, kw := range topLevelLeadingKeywords {
		if PeekKeyword(c, kw) {
			return true
		}
	}
	return PeekContextual(c, "record")
}

var topLevelLeadingKeywords = []string{
	"namespace", "class", "struct", "interface", "enum", "delegate",
	"public", "internal", "private", "protected", "static", "abstract",
	"sealed", "partial", "unsafe",
}

// parseTopLevelDeclList parses a run of top-level declarations up to
// term, the way ManyUntil does, but in Lenient mode resynchronizes at
// the next top-level boundary instead of stopping the whole run the
// moment one declaration fails to parse: a single garbled type further
// down a file shouldn't cost every declaration after it.
func (p *Parser) parseTopLevelDeclList(term Recognizer) []ast.TopLevelDeclaration {
	c := p.cur
	var out []ast.TopLevelDeclaration
	for {
		SkipTrivia(c)
		if c.AtEnd() {
			return out
		}
		if m := c.Mark(); term(c) {
			c.Reset(m)
			return out
		}
		start := c.Mark()
		d, ok := p.parseTopLevelDeclRule(c)
		if ok {
			out = append(out, d)
			continue
		}
		if !p.Lenient() {
			return out
		}
		SkipUntil(c, atTopLevelBoundary)
		if c.Mark() == start {
			// atTopLevelBoundary (or term) matched right where parsing
			// started, so SkipUntil made no progress; force the cursor
			// one rune forward so the loop can't spin at this offset.
			if c.AtEnd() {
				return out
			}
			c.Advance()
		}
	}
}
