// Package render carries the built-in AST graph renderers behind the
// pkg/render.GraphRenderer interface: Mermaid flowcharts and Graphviz
// DOT. Both walk the tree through the generic Children primitive, so
// they cover every node kind without a per-variant case.
package render

import (
	"fmt"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// Label renders a short, human-readable label for n: its concrete type
// name, plus a distinguishing field (a name, an operator, a literal's
// text) where one exists.
func Label(n ast.Node) string {
	typeName := fmt.Sprintf("%T", n)
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		typeName = typeName[i+1:]
	}
	switch v := n.(type) {
	case *ast.Identifier:
		return fmt.Sprintf("%s(%s)", typeName, v.String())
	case *ast.ClassDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.StructDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.InterfaceDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.EnumDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.RecordDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.DelegateDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.MethodDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.ConstructorDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.PropertyDecl:
		return fmt.Sprintf("%s(%s)", typeName, v.Name)
	case *ast.VariableExpr:
		return fmt.Sprintf("%s(%s)", typeName, v.Name.String())
	case *ast.LiteralExpr:
		return fmt.Sprintf("%s(%s)", typeName, v.Text)
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s(%s)", typeName, string(v.Op))
	default:
		return typeName
	}
}

// walk performs a pre-order traversal of n, assigning sequential ids and
// reporting each node and each parent-child edge in source order.
func walk(root ast.Node, node func(id int, n ast.Node), edge func(from, to int)) {
	next := 0
	var rec func(n ast.Node) int
	rec = func(n ast.Node) int {
		id := next
		next++
		node(id, n)
		n.Children(func(c ast.Node) {
			edge(id, rec(c))
		})
		return id
	}
	rec(root)
}
