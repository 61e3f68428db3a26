package parser

import "strings"

// SkipTrivia consumes whitespace, line comments, block comments, and
// preprocessor directives, leaving the cursor at the next significant
// byte. Every grammar recognizer calls this before matching its first
// token so trivia never has to be threaded explicitly through the
// grammar, mirroring how a separate lexer would have discarded it
// up front.
func SkipTrivia(c *Cursor) {
	for {
		switch {
		case skipWhitespace(c):
		case skipLineComment(c):
		case skipBlockComment(c):
		case skipDirective(c):
		default:
			return
		}
	}
}

func skipWhitespace(c *Cursor) bool {
	start := c.Offset()
	for {
		r, w := c.Peek()
		if w == 0 {
			break
		}
		switch r {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			c.Advance()
		default:
			goto done
		}
	}
done:
	return c.Offset() != start
}

func skipLineComment(c *Cursor) bool {
	if !c.HasPrefix("//") {
		return false
	}
	for {
		r, w := c.Peek()
		if w == 0 || r == '\n' {
			return true
		}
		c.Advance()
	}
}

func skipBlockComment(c *Cursor) bool {
	if !c.HasPrefix("/*") {
		return false
	}
	c.AdvanceBytes(2)
	for {
		if c.AtEnd() {
			return true
		}
		if c.HasPrefix("*/") {
			c.AdvanceBytes(2)
			return true
		}
		c.Advance()
	}
}

// skipDirective consumes a preprocessor line (`#if`, `#else`, `#region`,
// `#pragma`, `#nullable`, ...) whole. The analyzer that this front end
// feeds does not evaluate conditional-compilation symbols, so every
// directive line is treated as trivia rather than fed into the grammar;
// callers needing `#if`/`#endif` region tracking for coverage metrics
// read it back out of the raw source, not the AST.
func skipDirective(c *Cursor) bool {
	if c.Offset() > 0 {
		rest := c.Source()[:c.Offset()]
		if idx := strings.LastIndexByte(rest, '\n'); idx >= 0 {
			lineStart := rest[idx+1:]
			if strings.TrimSpace(lineStart) != "" {
				return false
			}
		} else if strings.TrimSpace(rest) != "" {
			return false
		}
	}
	r, w := c.Peek()
	if w == 0 || r != '#' {
		return false
	}
	for {
		r, w := c.Peek()
		if w == 0 || r == '\n' {
			return true
		}
		c.Advance()
	}
}
