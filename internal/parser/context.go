package parser

import (
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
	"github.com/bsharp-lang/bsharp/pkg/span"
)

// Mode selects how the parser reacts to a grammar mismatch it cannot
// otherwise resolve by backtracking.
type Mode int

const (
	// Strict aborts the parse on the first unrecoverable error.
	Strict Mode = iota
	// Lenient swaps the offending node for an Error* marker and resumes
	// at the next statement/member boundary, so a single malformed
	// construct doesn't take down an entire file's worth of otherwise
	// analyzable AST.
	Lenient
)

// Parser threads the cursor, a span table, and the active grammar
// context chain through every recognizer. It has no token-peek buffer to
// keep synchronized because nothing lexes ahead of the cursor.
type Parser struct {
	cur     *Cursor
	mode    Mode
	file    string
	lines   *span.LineIndex
	spans   *span.Table
	context []string // innermost context last, e.g. {"type", "generic-arg"}
	errors  []*diag.ParseError
	nextID  span.NodeID
}

// New creates a Parser over src, identified as file in diagnostics.
func New(file, src string, mode Mode) *Parser {
	return &Parser{
		cur:   NewCursor(src),
		mode:  mode,
		file:  file,
		lines: span.NewLineIndex(src),
		spans: span.NewTable(),
	}
}

// Cursor exposes the underlying Cursor for grammar functions defined
// outside this file.
func (p *Parser) Cursor() *Cursor { return p.cur }

// Spans returns the span table the parser populated while building the
// AST. It is owned by the caller after parsing completes.
func (p *Parser) Spans() *span.Table { return p.spans }

// Errors returns every ParseError accumulated during a Lenient parse (or
// the single fatal error of a Strict one).
func (p *Parser) Errors() []*diag.ParseError { return p.errors }

// Lenient reports whether the parser recovers from grammar errors
// instead of aborting.
func (p *Parser) Lenient() bool { return p.mode == Lenient }

// PushContext records entry into a named grammar rule (e.g. "type",
// "generic-arg", "primary") for error-context-chain reporting, and
// returns a function that pops it back off. Callers use
// `defer p.PushContext("rule")()`.
func (p *Parser) PushContext(name string) func() {
	p.context = append(p.context, name)
	return func() {
		p.context = p.context[:len(p.context)-1]
	}
}

// ContextChain returns a copy of the currently active grammar context
// chain, innermost last.
func (p *Parser) ContextChain() []string {
	return append([]string(nil), p.context...)
}

// Fail records a ParseError at the cursor's current offset with the
// active context chain, expected/found hints, and message. In Strict
// mode it panics with a *diag.ParseError sentinel that the top-level
// ParseFile recovers; in Lenient mode it just appends to p.errors and
// returns so the caller can substitute an Error* node and keep going.
func (p *Parser) Fail(expected, found, message string) {
	pe := diag.NewParseError(p.file, p.lines, p.cur.Offset(), p.ContextChain(), expected, found, message)
	p.errors = append(p.errors, pe)
	if p.mode == Strict {
		panic(parseAbort{pe})
	}
}

// parseAbort is the panic payload Strict mode uses to unwind to
// ParseFile without every recognizer threading an error return.
type parseAbort struct{ err *diag.ParseError }

// AllocID reserves a NodeID and records its span.
func (p *Parser) AllocID(start Mark) span.NodeID {
	byteRange := p.cur.ByteRange(start)
	textRange := p.lines.Range(byteRange)
	return p.spans.Alloc(span.Span{Bytes: byteRange, Text: textRange})
}

// base builds the ast.Base every concrete node embeds, recording its
// span from start to the cursor's current position in one step.
func (p *Parser) base(start Mark) ast.Base {
	return ast.Base{NodeID: p.AllocID(start)}
}
