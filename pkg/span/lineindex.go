package span

import "sort"

// LineIndex maps byte offsets to LineCol positions for a single source
// file. It is built once per parse and then used both by the parser (to
// stamp spans as it goes) and by the analysis session's
// location-from-offset conversion.
type LineIndex struct {
	src        string
	lineStarts []int // byte offset of the first byte of each line (0-based line index)
}

// NewLineIndex scans src once for line boundaries.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, lineStarts: starts}
}

// Position converts a byte offset into a 1-based LineCol. Column is counted
// in UTF-8 runes from the start of the line, not bytes.
func (li *LineIndex) Position(offset int) LineCol {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.src) {
		offset = len(li.src)
	}

	// index of the last line start <= offset
	i := sort.Search(len(li.lineStarts), func(i int) bool { return li.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	lineStart := li.lineStarts[i]

	column := 1
	for _, r := range li.src[lineStart:offset] {
		_ = r
		column++
	}

	return LineCol{Line: i + 1, Column: column}
}

// Range converts a ByteRange into a TextRange.
func (li *LineIndex) Range(br ByteRange) TextRange {
	return TextRange{Start: li.Position(br.Start), End: li.Position(br.End)}
}

// LineText returns the full text of the given 1-based line, without its
// trailing newline.
func (li *LineIndex) LineText(line int) string {
	if line < 1 || line > len(li.lineStarts) {
		return ""
	}
	start := li.lineStarts[line-1]
	end := len(li.src)
	if line < len(li.lineStarts) {
		end = li.lineStarts[line] - 1
	}
	if end > 0 && end <= len(li.src) && li.src[end-1] == '\r' {
		end--
	}
	return li.src[start:end]
}
