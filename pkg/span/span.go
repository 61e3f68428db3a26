// Package span tracks source positions for the parser and diagnostics.
//
// A span is produced once by the parser and never recomputed: byte offsets
// are the source of truth, line/column are derived from them at parse time
// and then frozen in the span table (nodes carry no span field of their
// own).
package span

import "fmt"

// LineCol is a 1-based line and UTF-8 column.
type LineCol struct {
	Line   int
	Column int
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// ByteRange is a half-open [Start,End) byte range into the source text.
type ByteRange struct {
	Start int
	End   int
}

// Len returns the length in bytes of the range.
func (r ByteRange) Len() int { return r.End - r.Start }

// Empty reports whether the range contains no bytes.
func (r ByteRange) Empty() bool { return r.Start >= r.End }

// Slice returns the substring of src denoted by the range.
func (r ByteRange) Slice(src string) string {
	if r.Start < 0 || r.End > len(src) || r.Start > r.End {
		return ""
	}
	return src[r.Start:r.End]
}

// TextRange is the line/column counterpart of a ByteRange.
type TextRange struct {
	Start LineCol
	End   LineCol
}

// Span pairs a byte range with its line/column rendering. Spans are
// immutable once constructed.
type Span struct {
	Bytes ByteRange
	Text  TextRange
}

// Spanned wraps a node with its span. Spans are never re-derived from the
// node after construction.
type Spanned[T any] struct {
	Node T
	Span Span
}

// Map transforms the wrapped node while preserving the span.
func (s Spanned[T]) Map(f func(T) any) Spanned[any] {
	return Spanned[any]{Node: f(s.Node), Span: s.Span}
}

// NodeID identifies an AST node for span-table lookups. The parser assigns
// IDs monotonically as nodes are constructed; IDs are never reused within a
// single parse.
type NodeID uint64

// Table is a side table mapping node identity to its span, populated by the
// parser as it builds the AST. Diagnostics and rules resolve spans through a
// Table rather than embedding a Span on every node, keeping accidental
// mutation out of the AST.
type Table struct {
	spans map[NodeID]Span
	next  NodeID
}

// NewTable returns an empty, ready-to-use span table.
func NewTable() *Table {
	return &Table{spans: make(map[NodeID]Span)}
}

// Alloc reserves the next NodeID and records its span in one step.
func (t *Table) Alloc(sp Span) NodeID {
	t.next++
	id := t.next
	t.spans[id] = sp
	return id
}

// Lookup returns the span recorded for id, if any.
func (t *Table) Lookup(id NodeID) (Span, bool) {
	sp, ok := t.spans[id]
	return sp, ok
}

// Len reports how many spans are recorded.
func (t *Table) Len() int { return len(t.spans) }
