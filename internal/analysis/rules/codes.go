// Package rules implements the rule evaluators that run after the
// standard passes: naming conventions, semantic consistency checks, and
// control-flow smells. Every rule publishes diagnostics carrying a code
// from the table below; grounded on the teacher's internal/errors
// formatting style (one code, one default message, rendered instance
// text supplied by the caller) and on
// original_source/src/bsharp_analysis/src/diagnostics/diagnostic_collection.rs
// for the DiagnosticCollection shape these diagnostics are appended to.
package rules

// Code identifiers. Warnings (BSW) surface code-quality concerns;
// errors (BSE) surface declarations that are not merely unwise but
// contradictory under the language's own rules.
const (
	CodeHighComplexity     = "BSW01001"
	CodeLongMethod         = "BSW01002"
	CodeDeepNesting        = "BSW01005"
	CodeNaming             = "BSW02002"
	CodeAsyncConstructor   = "BSE01001"
	CodeConstructorName    = "BSE01005"
	CodeAbstractWithBody   = "BSE02001"
	CodeStaticOverride     = "BSE02006"
	CodeBadAsyncReturnType = "BSE02009"
)

// defaultMessages maps each code to its default, instance-independent
// message template. Rules render the instance-specific text themselves
// (it needs the offending name), so this table exists mainly for the
// `rules` CLI subcommand's listing and for callers that want a
// human-readable description of a code with no diagnostic instance in
// hand.
var defaultMessages = map[string]string{
	CodeHighComplexity:     "cyclomatic complexity exceeds the configured threshold",
	CodeLongMethod:         "method body line span exceeds the configured threshold",
	CodeDeepNesting:        "nesting depth exceeds the configured threshold",
	CodeNaming:             "identifier does not follow the expected naming convention",
	CodeAsyncConstructor:   "constructors cannot be declared async",
	CodeConstructorName:    "constructor name must match the enclosing type",
	CodeAbstractWithBody:   "an abstract method must not have a body",
	CodeStaticOverride:     "a method cannot be both static and override",
	CodeBadAsyncReturnType: "an async method must return Task, Task<T>, ValueTask, ValueTask<T>, or void",
}

// DefaultMessage returns the default message template for code, or ""
// if code is not one of the table above.
func DefaultMessage(code string) string { return defaultMessages[code] }
