// Package render defines the graph-rendering contract the CLI's `tree`
// subcommand depends on. AST-to-SVG/Mermaid/DOT rendering internals are
// out of scope (spec.md §1 Non-goals); this interface is the stable
// surface a concrete renderer implements.
package render

import (
	"io"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// GraphRenderer renders an AST node (typically a CompilationUnit or a
// single method body) as a graph description in some target format.
type GraphRenderer interface {
	Render(w io.Writer, n ast.Node) error
}
