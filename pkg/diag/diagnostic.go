// Package diag formats diagnostics produced by the parser and the analysis
// pipeline: caret-annotated pretty blocks for terminals, and structured
// JSON for tooling.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Location pinpoints a diagnostic in a source file.
type Location struct {
	File   string
	Line   int
	Column int
	Length int
}

// Diagnostic is a single rule or pass finding, or a recovered parse error.
// Diagnostic carries a stable Code (e.g. "BSW01001") defined once in the
// code table (see codes.go in the rules package) and mapped to a default
// message there; Message here is the rendered, instance-specific text.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Location *Location
}

// Collection accumulates diagnostics across passes and rules. It is
// appended to freely during a pass; only the reporting pass sorts and
// freezes it.
type Collection struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (c *Collection) Add(d Diagnostic) { c.items = append(c.items, d) }

// AddError is a convenience for Add with SeverityError.
func (c *Collection) AddError(code, message string, loc *Location) {
	c.Add(Diagnostic{Code: code, Severity: SeverityError, Message: message, Location: loc})
}

// AddWarning is a convenience for Add with SeverityWarning.
func (c *Collection) AddWarning(code, message string, loc *Location) {
	c.Add(Diagnostic{Code: code, Severity: SeverityWarning, Message: message, Location: loc})
}

// Extend appends every diagnostic from other onto c.
func (c *Collection) Extend(other *Collection) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// All returns every accumulated diagnostic, in insertion order.
func (c *Collection) All() []Diagnostic { return c.items }

// Errors returns only error-severity diagnostics.
func (c *Collection) Errors() []Diagnostic { return c.filter(SeverityError) }

// Warnings returns only warning-severity diagnostics.
func (c *Collection) Warnings() []Diagnostic { return c.filter(SeverityWarning) }

func (c *Collection) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collection) HasErrors() bool { return len(c.Errors()) > 0 }

// HasWarnings reports whether any warning-severity diagnostic was recorded.
func (c *Collection) HasWarnings() bool { return len(c.Warnings()) > 0 }

// ErrorCount returns the number of error-severity diagnostics.
func (c *Collection) ErrorCount() int { return len(c.Errors()) }

// WarningCount returns the number of warning-severity diagnostics.
func (c *Collection) WarningCount() int { return len(c.Warnings()) }

// SortStable sorts diagnostics by (file, line, column, code), the order
// mandated for a finalized report. Ties keep their relative insertion
// order.
func (c *Collection) SortStable() {
	sort.SliceStable(c.items, func(i, j int) bool {
		a, b := c.items[i], c.items[j]
		af, bf := "", ""
		al, bl, ac, bc := 0, 0, 0, 0
		if a.Location != nil {
			af, al, ac = a.Location.File, a.Location.Line, a.Location.Column
		}
		if b.Location != nil {
			bf, bl, bc = b.Location.File, b.Location.Line, b.Location.Column
		}
		if af != bf {
			return af < bf
		}
		if al != bl {
			return al < bl
		}
		if ac != bc {
			return ac < bc
		}
		return a.Code < b.Code
	})
}

// String renders a single diagnostic as a one-line summary, used by the
// CLI and by test failure messages.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Location != nil {
		fmt.Fprintf(&sb, "%s:%d:%d: ", d.Location.File, d.Location.Line, d.Location.Column)
	}
	fmt.Fprintf(&sb, "%s %s: %s", d.Severity, d.Code, d.Message)
	return sb.String()
}
