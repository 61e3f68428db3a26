package passes

import (
	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// DepEdgeKind labels one DependencyGraph edge.
type DepEdgeKind string

const (
	DepInheritance DepEdgeKind = "Inheritance"
	DepMemberType  DepEdgeKind = "MemberType"
	DepInvocation  DepEdgeKind = "Invocation"
)

// DepEdge is one directed reference from an enclosing type to a name it
// mentions. Unresolved names (no declaration found in this file) become
// best-effort external nodes, since this pass is lexical, not semantic.
type DepEdge struct {
	From string
	To   string
	Kind DepEdgeKind
}

// DependencyGraph is the standard artifact published by DependencyPass:
// one node per declared type plus every external name it references, and
// one edge per reference.
type DependencyGraph struct {
	Nodes map[string]bool
	Edges []DepEdge
}

func newDependencyGraph() *DependencyGraph {
	return &DependencyGraph{Nodes: map[string]bool{}}
}

func (g *DependencyGraph) addNode(name string) {
	if name != "" {
		g.Nodes[name] = true
	}
}

func (g *DependencyGraph) addEdge(from, to string, kind DepEdgeKind) {
	if from == "" || to == "" {
		return
	}
	g.addNode(from)
	g.addNode(to)
	g.Edges = append(g.Edges, DepEdge{From: from, To: to, Kind: kind})
}

// DependencyPass walks every type declaration and records a node for it
// plus an edge for every Reference type mentioned in its base list, field
// types, method signatures, and invocation targets. Grounded on the
// spec's explicit "this is lexical, not semantic" instruction: no attempt
// is made to resolve a name against the symbol index.
type DependencyPass struct{}

func NewDependencyPass() *DependencyPass { return &DependencyPass{} }

func (*DependencyPass) ID() string          { return "passes.deps" }
func (*DependencyPass) DependsOn() []string { return []string{"symbols.index"} }

func (p *DependencyPass) Run(session *analysis.Session) error {
	g := newDependencyGraph()
	if session.Unit != nil {
		w := &depWalk{graph: g}
		for _, decl := range session.Unit.TopLevelDeclarations {
			w.visitTopLevel(decl)
		}
	}
	analysis.PutArtifact(session.Artifacts(), g)
	return nil
}

type depWalk struct {
	graph *DependencyGraph
}

func (w *depWalk) visitTopLevel(decl ast.TopLevelDeclaration) {
	switch d := decl.(type) {
	case *ast.NamespaceDecl:
		for _, inner := range d.Declarations {
			w.visitTopLevel(inner)
		}
	case *ast.ClassDecl:
		w.visitType(d.Name, d.Bases, d.Members)
	case *ast.StructDecl:
		w.visitType(d.Name, d.Bases, d.Members)
	case *ast.InterfaceDecl:
		w.visitType(d.Name, d.Bases, d.Members)
	case *ast.RecordDecl:
		w.visitType(d.Name, d.Bases, d.Members)
	case *ast.EnumDecl:
		w.graph.addNode(d.Name)
	case *ast.DelegateDecl:
		w.graph.addNode(d.Name)
		if d.Return != nil {
			w.graph.addEdge(d.Name, typeName(d.Return), DepMemberType)
		}
		for _, param := range d.Params {
			w.graph.addEdge(d.Name, typeName(param.Type), DepMemberType)
		}
	}
}

func (w *depWalk) visitType(name string, bases *ast.BaseList, members []ast.Member) {
	w.graph.addNode(name)
	if bases != nil {
		for _, t := range bases.Types {
			w.graph.addEdge(name, typeName(t), DepInheritance)
		}
	}
	for _, m := range members {
		w.visitMember(name, m)
	}
}

func (w *depWalk) visitMember(owner string, m ast.Member) {
	switch d := m.(type) {
	case *ast.FieldDecl:
		w.graph.addEdge(owner, typeName(d.Type), DepMemberType)
	case *ast.PropertyDecl:
		w.graph.addEdge(owner, typeName(d.Type), DepMemberType)
	case *ast.IndexerDecl:
		w.graph.addEdge(owner, typeName(d.Type), DepMemberType)
		for _, param := range d.Params {
			w.graph.addEdge(owner, typeName(param.Type), DepMemberType)
		}
	case *ast.EventDecl:
		w.graph.addEdge(owner, typeName(d.Type), DepMemberType)
	case *ast.MethodDecl:
		w.graph.addEdge(owner, typeName(d.Return), DepMemberType)
		for _, param := range d.Params {
			w.graph.addEdge(owner, typeName(param.Type), DepMemberType)
		}
		w.visitInvocations(owner, d)
	case *ast.ConstructorDecl:
		for _, param := range d.Params {
			w.graph.addEdge(owner, typeName(param.Type), DepMemberType)
		}
		w.visitInvocations(owner, d)
	case *ast.NestedTypeMember:
		if d.Decl != nil {
			w.visitTopLevel(d.Decl)
		}
	}
}

func (w *depWalk) visitInvocations(owner string, root ast.Node) {
	ast.Descendants(root, func(n ast.Node) {
		inv, ok := n.(*ast.InvocationExpr)
		if !ok {
			return
		}
		if target := invocationTargetName(inv.Callee); target != "" {
			w.graph.addEdge(owner, target, DepInvocation)
		}
	})
}

// invocationTargetName extracts a best-effort callee name: a bare
// variable/function name, or the member name of a `target.Member(...)`
// call. Anything more dynamic (invoking a lambda stored in a local, an
// indexer result, ...) yields no name and contributes no edge.
func invocationTargetName(callee ast.Expression) string {
	switch c := callee.(type) {
	case *ast.VariableExpr:
		if c.Name != nil {
			return c.Name.String()
		}
	case *ast.MemberAccessExpr:
		if c.Member != nil {
			return c.Member.String()
		}
	}
	return ""
}

// typeName renders a Type expression down to the string a dependency
// edge should target: the reference/generic base name, the element type
// of an array, or the inner type of a nullable/pointer/ref wrapper.
func typeName(t ast.Type) string {
	switch v := t.(type) {
	case nil:
		return ""
	case *ast.PrimitiveType:
		return v.Name
	case *ast.ReferenceType:
		if v.Name != nil {
			return v.Name.String()
		}
	case *ast.GenericType:
		return typeName(v.BaseType)
	case *ast.ArrayType:
		return typeName(v.Element)
	case *ast.NullableType:
		return typeName(v.Inner)
	case *ast.PointerType:
		return typeName(v.Inner)
	case *ast.RefType:
		return typeName(v.Inner)
	}
	return ""
}
