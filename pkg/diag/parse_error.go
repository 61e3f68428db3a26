package diag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/span"
)

// ParseError is a structured parser failure: a position, the chain of
// grammar contexts active when it occurred (e.g. "type -> generic-arg ->
// primary"), and optional expected/found token hints. A ParseError renders
// either as a pretty ANSI block with a caret, or as a stable JSON object
// suitable for tool consumption.
type ParseError struct {
	File     string
	Pos      span.LineCol
	Context  []string // innermost context last, e.g. []string{"type", "generic-arg", "primary"}
	Expected string
	Found    string
	Message  string
	LineText string
	Spans    *SpanInfo
}

// SpanInfo is the optional "spans" field of the JSON error payload.
type SpanInfo struct {
	Abs span.ByteRange
	Rel span.TextRange
}

// NewParseError builds a ParseError from a line index, an offset, and the
// accumulated context chain. The source line is captured eagerly so later
// rendering never needs the original source text.
func NewParseError(file string, li *span.LineIndex, offset int, context []string, expected, found, message string) *ParseError {
	pos := li.Position(offset)
	return &ParseError{
		File:     file,
		Pos:      pos,
		Context:  append([]string(nil), context...),
		Expected: expected,
		Found:    found,
		Message:  message,
		LineText: li.LineText(pos.Line),
	}
}

// Error implements the error interface with the pretty, uncolored
// rendering.
func (e *ParseError) Error() string { return e.Pretty(false) }

// Pretty renders a rustc/miette-style block: header, offending source
// line, caret, and the context chain.
func (e *ParseError) Pretty(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "parse error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "parse error at %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if e.LineText != "" {
		gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(e.LineText)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(gutter)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	if len(e.Context) > 0 {
		fmt.Fprintf(&sb, "\nvia: %s", strings.Join(e.Context, " -> "))
	}

	return sb.String()
}

// jsonPayload is the stable "error" object shape emitted by JSON.
type jsonPayload struct {
	Kind     string          `json:"kind"`
	File     string          `json:"file"`
	Line     int             `json:"line"`
	Column   int             `json:"column"`
	Expected string          `json:"expected,omitempty"`
	Found    string          `json:"found,omitempty"`
	LineText string          `json:"line_text"`
	Message  string          `json:"message"`
	Spans    *jsonSpanInfo   `json:"spans,omitempty"`
}

type jsonSpanInfo struct {
	Abs jsonByteRange `json:"abs"`
	Rel jsonTextRange `json:"rel"`
}

type jsonByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonTextRange struct {
	Start jsonLineCol `json:"start"`
	End   jsonLineCol `json:"end"`
}

type jsonLineCol struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// JSON renders {"error": {...}} for machine consumption by editor tooling.
func (e *ParseError) JSON() ([]byte, error) {
	payload := jsonPayload{
		Kind:     "parse_error",
		File:     e.File,
		Line:     e.Pos.Line,
		Column:   e.Pos.Column,
		Expected: e.Expected,
		Found:    e.Found,
		LineText: e.LineText,
		Message:  e.Message,
	}
	if e.Spans != nil {
		payload.Spans = &jsonSpanInfo{
			Abs: jsonByteRange{Start: e.Spans.Abs.Start, End: e.Spans.Abs.End},
			Rel: jsonTextRange{
				Start: jsonLineCol{Line: e.Spans.Rel.Start.Line, Column: e.Spans.Rel.Start.Column},
				End:   jsonLineCol{Line: e.Spans.Rel.End.Line, Column: e.Spans.Rel.End.Column},
			},
		}
	}

	return json.MarshalIndent(struct {
		Error jsonPayload `json:"error"`
	}{Error: payload}, "", "  ")
}
