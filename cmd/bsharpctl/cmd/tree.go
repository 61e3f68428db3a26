package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/internal/render"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	pkgrender "github.com/bsharp-lang/bsharp/pkg/render"
	"github.com/spf13/cobra"
)

var (
	treeOut     string
	treeFormat  string
	treeLenient bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Parse a source file and render its AST as a tree or graph",
	Long: `tree parses a B# source file (or stdin) and renders the resulting
CompilationUnit. The default is an indented type-name tree on stdout;
--format mermaid or --format dot instead emits a Mermaid flowchart or a
Graphviz digraph, one graph node per AST node, suitable for rendering.

This is a structural view, not the re-printed source a format would
produce; see "bsharpctl format" for that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVarP(&treeOut, "output", "o", "", "write the rendering to this file instead of stdout")
	treeCmd.Flags().StringVar(&treeFormat, "format", "", "graph format: mermaid or dot (default: indented text)")
	treeCmd.Flags().BoolVar(&treeLenient, "lenient", true, "resynchronize past syntax errors instead of stopping at the first one")
}

func runTree(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	file, source, err := readSource(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	unit, _, parseErr := engine.Parse(file, source, treeLenient)
	if parseErr != nil {
		return fmt.Errorf("parse failed for %s: %s", file, parseErr.Pretty(false))
	}

	var renderer pkgrender.GraphRenderer
	switch treeFormat {
	case "":
		renderer = nil
	case "mermaid":
		renderer = render.Mermaid{}
	case "dot":
		renderer = render.DOT{}
	default:
		return fmt.Errorf("unknown --format %q (want mermaid or dot)", treeFormat)
	}

	out := io.Writer(os.Stdout)
	if treeOut != "" {
		f, err := os.Create(treeOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", treeOut, err)
		}
		defer f.Close()
		out = f
	}

	if renderer == nil {
		dumpASTNode(out, unit, 0)
		return nil
	}
	if err := renderer.Render(out, unit); err != nil {
		return fmt.Errorf("rendering %s: %w", file, err)
	}
	return nil
}

// dumpASTNode recursively prints n's concrete type and its children,
// indented by level. Grounded on the teacher's cmd/dwscript/cmd/parse.go
// dumpASTNode debug printer, generalized from a fixed type switch over
// DWScript's node kinds to the generic Children primitive every bsharp
// node implements.
func dumpASTNode(w io.Writer, n ast.Node, level int) {
	if n == nil {
		return
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), render.Label(n))
	n.Children(func(child ast.Node) {
		dumpASTNode(w, child, level+1)
	})
}
