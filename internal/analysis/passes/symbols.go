// Package passes implements the standard analysis passes run by a
// Pipeline: symbol indexing, metrics, control-flow graphs, dependency
// extraction, and the terminal reporting pass. Each pass is grounded on a
// corresponding teacher analyze_*.go file in style (accumulate into a
// shared context while walking the tree) but targets the bsharp AST and
// publishes its result as an analysis.ArtifactStore entry instead of a
// private struct field.
package passes

import (
	"strings"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// SymbolID identifies one declared symbol within a session. Assigned
// monotonically starting at 1; zero is never a valid id.
type SymbolID uint64

// SymbolKind discriminates the kind of declaration a Symbol names.
type SymbolKind int

const (
	SymbolNamespace SymbolKind = iota
	SymbolClass
	SymbolInterface
	SymbolStruct
	SymbolRecord
	SymbolEnum
	SymbolDelegate
	SymbolMethod
	SymbolField
	SymbolProperty
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "Namespace"
	case SymbolClass:
		return "Class"
	case SymbolInterface:
		return "Interface"
	case SymbolStruct:
		return "Struct"
	case SymbolRecord:
		return "Record"
	case SymbolEnum:
		return "Enum"
	case SymbolDelegate:
		return "Delegate"
	case SymbolMethod:
		return "Method"
	case SymbolField:
		return "Field"
	case SymbolProperty:
		return "Property"
	default:
		return "Unknown"
	}
}

// Symbol is one entry of a SymbolIndex.
type Symbol struct {
	ID   SymbolID
	Name string
	Kind SymbolKind
	FQN  string
	File string
	Node ast.Node // declaration node the symbol was assigned for
}

// SymbolIndex is the standard artifact published by SymbolIndexPass:
// {by_id, by_name}. Name-keyed lookups return a list to accommodate
// overloads and cross-namespace name reuse.
type SymbolIndex struct {
	ByID   map[SymbolID]*Symbol
	ByName map[string][]SymbolID
}

func newSymbolIndex() *SymbolIndex {
	return &SymbolIndex{ByID: map[SymbolID]*Symbol{}, ByName: map[string][]SymbolID{}}
}

// NameIndex maps a bare name to how many symbols share it, a fast
// overload/collision check without walking SymbolIndex.ByName.
type NameIndex struct {
	Counts map[string]int
}

// FqnMap maps a fully-qualified name to its symbol id, for exact lookups.
type FqnMap struct {
	ByFQN map[string]SymbolID
}

// SymbolIndexPass walks every declaration in the compilation unit and
// assigns it a fresh SymbolID, computing a fully qualified name from the
// enclosing namespace and type nesting. Grounded on the shape of the
// teacher's symbol_table.go combined with the spec's FQN rule: namespace
// and nested-type segments join with ".", a member's FQN joins its owning
// type with "::".
type SymbolIndexPass struct{}

func NewSymbolIndexPass() *SymbolIndexPass { return &SymbolIndexPass{} }

func (*SymbolIndexPass) ID() string          { return "symbols.index" }
func (*SymbolIndexPass) DependsOn() []string { return nil }

func (p *SymbolIndexPass) Run(session *analysis.Session) error {
	idx := newSymbolIndex()
	names := &NameIndex{Counts: map[string]int{}}

	b := &symbolBuilder{
		session: session,
		idx:     idx,
		names:   names,
		fqns:    &FqnMap{ByFQN: map[string]SymbolID{}},
	}

	if session.Unit != nil {
		if session.Unit.FileScopedNamespace != nil {
			b.namespaceSegs = append(b.namespaceSegs, splitQualified(session.Unit.FileScopedNamespace)...)
		}
		for _, decl := range session.Unit.TopLevelDeclarations {
			b.visitTopLevel(decl)
		}
	}

	analysis.PutArtifact(session.Artifacts(), idx)
	analysis.PutArtifact(session.Artifacts(), names)
	analysis.PutArtifact(session.Artifacts(), b.fqns)
	return nil
}

type symbolBuilder struct {
	session       *analysis.Session
	idx           *SymbolIndex
	names         *NameIndex
	fqns          *FqnMap
	namespaceSegs []string
	typeSegs      []string
	next          SymbolID
}

func splitQualified(id *ast.Identifier) []string {
	if id == nil {
		return nil
	}
	if len(id.Segments) > 0 {
		return append([]string(nil), id.Segments...)
	}
	if id.Simple != "" {
		return []string{id.Simple}
	}
	return nil
}

func (b *symbolBuilder) assign(name string, kind SymbolKind, n ast.Node, ownerIsType bool) *Symbol {
	b.next++
	fqn := b.fqnFor(name, ownerIsType)
	sym := &Symbol{
		ID:   b.next,
		Name: name,
		Kind: kind,
		FQN:  fqn,
		File: b.session.Context.File,
		Node: n,
	}
	b.idx.ByID[sym.ID] = sym
	b.idx.ByName[name] = append(b.idx.ByName[name], sym.ID)
	b.names.Counts[name]++
	if _, exists := b.fqns.ByFQN[fqn]; !exists {
		b.fqns.ByFQN[fqn] = sym.ID
	}
	return sym
}

// fqnFor joins the current namespace/type scope with name. ownerIsType is
// true for members (methods, fields, properties), which join with "::" per
// the spec's explicit rule for methods, generalized here to every member
// kind since they share the same owning-type relationship.
func (b *symbolBuilder) fqnFor(name string, ownerIsType bool) string {
	var sb strings.Builder
	for _, seg := range b.namespaceSegs {
		sb.WriteString(seg)
		sb.WriteByte('.')
	}
	for i, seg := range b.typeSegs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	if len(b.typeSegs) == 0 {
		return sb.String() + name
	}
	if ownerIsType {
		sb.WriteString("::")
	} else {
		sb.WriteByte('.')
	}
	sb.WriteString(name)
	return sb.String()
}

func (b *symbolBuilder) visitTopLevel(decl ast.TopLevelDeclaration) {
	switch d := decl.(type) {
	case *ast.NamespaceDecl:
		segs := splitQualified(d.Name)
		b.namespaceSegs = append(b.namespaceSegs, segs...)
		for _, inner := range d.Declarations {
			b.visitTopLevel(inner)
		}
		b.namespaceSegs = b.namespaceSegs[:len(b.namespaceSegs)-len(segs)]
	case *ast.ClassDecl:
		b.visitType(d.Name, SymbolClass, d, d.Members)
	case *ast.StructDecl:
		b.visitType(d.Name, SymbolStruct, d, d.Members)
	case *ast.InterfaceDecl:
		b.visitType(d.Name, SymbolInterface, d, d.Members)
	case *ast.RecordDecl:
		b.visitType(d.Name, SymbolRecord, d, d.Members)
	case *ast.EnumDecl:
		b.assign(d.Name, SymbolEnum, d, false)
	case *ast.DelegateDecl:
		b.assign(d.Name, SymbolDelegate, d, false)
	case *ast.GlobalAttributeDecl:
		// no symbol
	}
}

func (b *symbolBuilder) visitType(name string, kind SymbolKind, n ast.Node, members []ast.Member) {
	b.assign(name, kind, n, false)
	b.typeSegs = append(b.typeSegs, name)
	for _, m := range members {
		b.visitMember(m)
	}
	b.typeSegs = b.typeSegs[:len(b.typeSegs)-1]
}

func (b *symbolBuilder) visitMember(m ast.Member) {
	switch d := m.(type) {
	case *ast.MethodDecl:
		b.assign(d.Name, SymbolMethod, d, true)
	case *ast.FieldDecl:
		for _, decl := range d.Declarators {
			b.assign(decl.Name, SymbolField, decl, true)
		}
	case *ast.PropertyDecl:
		b.assign(d.Name, SymbolProperty, d, true)
	case *ast.NestedTypeMember:
		if d.Decl != nil {
			b.visitTopLevel(d.Decl)
		}
	}
}
