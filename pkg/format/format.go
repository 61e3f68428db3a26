// Package format defines the re-printer contract the CLI's `format`
// subcommand depends on. The pretty-printer's internals are out of
// scope (spec.md §1 Non-goals); this interface exists so the CLI surface
// can be built against a stable contract regardless of which Emitter
// backs it.
package format

import (
	"io"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// Emitter renders an AST node back to source text.
type Emitter interface {
	Emit(w io.Writer, n ast.Node) error
}
