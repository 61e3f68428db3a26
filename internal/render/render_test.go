package render_test

import (
	"strings"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/internal/render"
	"github.com/bsharp-lang/bsharp/pkg/ast"
)

func parseUnit(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	unit, _, err := engine.Parse("render.bs", src, false)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}
	return unit
}

func TestMermaidRendersEveryNodeAndEdge(t *testing.T) {
	unit := parseUnit(t, "class C { void M() { } }")

	var sb strings.Builder
	if err := (render.Mermaid{}).Render(&sb, unit); err != nil {
		t.Fatalf("Render returned an error: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "flowchart TD\n") {
		t.Fatalf("expected a flowchart header, got %q", out[:min(len(out), 40)])
	}
	if !strings.Contains(out, `n0["CompilationUnit"]`) {
		t.Error("expected the root CompilationUnit node")
	}
	if !strings.Contains(out, "ClassDecl(C)") {
		t.Error("expected the class node label")
	}
	if !strings.Contains(out, "n0 --> n1") {
		t.Error("expected an edge out of the root")
	}
}

func TestDOTRendersDigraphWithEscapedLabels(t *testing.T) {
	unit := parseUnit(t, `class C { void M() { var s = "hi"; } }`)

	var sb strings.Builder
	if err := (render.DOT{}).Render(&sb, unit); err != nil {
		t.Fatalf("Render returned an error: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "digraph ast {\n") {
		t.Fatalf("expected a digraph header, got %q", out[:min(len(out), 40)])
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Error("expected a closing brace")
	}
	if !strings.Contains(out, "n0 -> n1;") {
		t.Error("expected an edge out of the root")
	}
	// the string literal's quotes must arrive escaped, not raw
	if !strings.Contains(out, `\"hi\"`) {
		t.Errorf("expected escaped quotes in a literal label, got:\n%s", out)
	}
}

func TestLabelDistinguishesNamedNodes(t *testing.T) {
	unit := parseUnit(t, "class Greeter { }")
	var class ast.Node
	unit.Children(func(n ast.Node) {
		if _, ok := n.(*ast.ClassDecl); ok {
			class = n
		}
	})
	if class == nil {
		t.Fatal("class not found under the compilation unit")
	}
	if got := render.Label(class); got != "ClassDecl(Greeter)" {
		t.Errorf("expected ClassDecl(Greeter), got %q", got)
	}
}
