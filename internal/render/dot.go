package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// DOT renders an AST as a Graphviz digraph.
type DOT struct{}

// Render implements render.GraphRenderer.
func (DOT) Render(w io.Writer, n ast.Node) error {
	if n == nil {
		return fmt.Errorf("render: nil node")
	}
	var sb strings.Builder
	sb.WriteString("digraph ast {\n")
	sb.WriteString("    node [shape=box, fontname=\"monospace\"];\n")
	walk(n,
		func(id int, node ast.Node) {
			fmt.Fprintf(&sb, "    n%d [label=\"%s\"];\n", id, dotEscape(Label(node)))
		},
		func(from, to int) {
			fmt.Fprintf(&sb, "    n%d -> n%d;\n", from, to)
		})
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
