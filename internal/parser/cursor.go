// Package parser implements the lexer-free recursive-descent front end:
// every recognizer reads directly from a Cursor over the source bytes, so
// there is no separate token stream and no lookahead buffer to keep in
// sync with it. Recognizers are ordinary Go functions built from the
// combinators in combinators.go; ambiguous constructs are resolved with
// bounded backtracking via Cursor.Mark/Reset rather than a grammar
// rewrite, matching the disambiguation strategy the source language
// itself requires for generics-vs-comparisons, lambdas-vs-parens, and
// friends.
package parser

import (
	"unicode/utf8"

	"github.com/bsharp-lang/bsharp/pkg/span"
)

// Cursor is a backtrackable position into a source buffer. It tracks byte
// offset directly; line/column are derived lazily via a span.LineIndex
// only when a Diagnostic needs to report one, so hot-path advances never
// pay for position bookkeeping they don't use.
type Cursor struct {
	src    string
	offset int
}

// NewCursor creates a Cursor positioned at the start of src.
func NewCursor(src string) *Cursor {
	return &Cursor{src: src}
}

// Offset returns the cursor's current byte offset.
func (c *Cursor) Offset() int { return c.offset }

// Len returns the number of bytes remaining.
func (c *Cursor) Len() int { return len(c.src) - c.offset }

// AtEnd reports whether the cursor has consumed the whole buffer.
func (c *Cursor) AtEnd() bool { return c.offset >= len(c.src) }

// Rest returns the unconsumed suffix of the source.
func (c *Cursor) Rest() string { return c.src[c.offset:] }

// Source returns the full source buffer the cursor was built from.
func (c *Cursor) Source() string { return c.src }

// Peek returns the rune at the cursor without consuming it, and its
// encoded width in bytes. Returns (utf8.RuneError, 0) at end of input.
func (c *Cursor) Peek() (rune, int) {
	if c.AtEnd() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.src[c.offset:])
}

// PeekAt returns the rune n bytes ahead of the cursor without consuming
// anything. Used by recognizers that need a short fixed lookahead (e.g.
// telling `?.`  apart from a lone `?`).
func (c *Cursor) PeekAt(n int) (rune, int) {
	pos := c.offset + n
	if pos >= len(c.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.src[pos:])
}

// HasPrefix reports whether the unconsumed input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.src)-c.offset >= len(s) && c.src[c.offset:c.offset+len(s)] == s
}

// Advance consumes and returns the next rune, or (utf8.RuneError, false)
// at end of input.
func (c *Cursor) Advance() (rune, bool) {
	r, w := c.Peek()
	if w == 0 {
		return utf8.RuneError, false
	}
	c.offset += w
	return r, true
}

// AdvanceBytes consumes exactly n raw bytes without decoding them. Used
// once a recognizer has already matched an ASCII literal (a keyword, a
// punctuator) and just needs to skip past it.
func (c *Cursor) AdvanceBytes(n int) {
	c.offset += n
	if c.offset > len(c.src) {
		c.offset = len(c.src)
	}
}

// Mark is a saved cursor position for backtracking.
type Mark int

// Mark returns the cursor's current position for a later Reset.
func (c *Cursor) Mark() Mark { return Mark(c.offset) }

// Reset rewinds the cursor to a previously saved Mark.
func (c *Cursor) Reset(m Mark) { c.offset = int(m) }

// Slice returns the source text between a Mark and the cursor's current
// position. The Mark must be at or before the current offset.
func (c *Cursor) Slice(from Mark) string { return c.src[int(from):c.offset] }

// ByteRange returns the span.ByteRange from a Mark to the current offset.
func (c *Cursor) ByteRange(from Mark) span.ByteRange {
	return span.ByteRange{Start: int(from), End: c.offset}
}
