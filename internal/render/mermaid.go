package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// Mermaid renders an AST as a Mermaid flowchart, one node per AST node,
// edges from parent to child in source order.
type Mermaid struct{}

// Render implements render.GraphRenderer.
func (Mermaid) Render(w io.Writer, n ast.Node) error {
	if n == nil {
		return fmt.Errorf("render: nil node")
	}
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	walk(n,
		func(id int, node ast.Node) {
			fmt.Fprintf(&sb, "    n%d[\"%s\"]\n", id, mermaidEscape(Label(node)))
		},
		func(from, to int) {
			fmt.Fprintf(&sb, "    n%d --> n%d\n", from, to)
		})
	_, err := io.WriteString(w, sb.String())
	return err
}

// mermaidEscape neutralizes the characters Mermaid treats as label
// delimiters or entity starts.
func mermaidEscape(s string) string {
	r := strings.NewReplacer(
		`"`, "#quot;",
		"<", "#lt;",
		">", "#gt;",
		"&", "#amp;",
	)
	return r.Replace(s)
}
