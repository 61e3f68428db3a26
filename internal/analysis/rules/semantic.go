package rules

import (
	"fmt"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

// NewSemanticPass returns the rules.semantic ruleset pass: the five
// declaration-consistency checks named in spec.md §4.8. These walk the
// AST directly rather than reading an artifact, since they need no
// cross-declaration context beyond "what type am I inside right now".
func NewSemanticPass() *RulesetPass {
	return &RulesetPass{
		PassID: "rules.semantic",
		Deps:   nil,
		Ruleset: &Ruleset{
			ID: "rules.semantic",
			Rules: []Rule{
				&asyncConstructorRule{},
				&constructorNameRule{},
				&abstractWithBodyRule{},
				&staticOverrideRule{},
				&badAsyncReturnRule{},
			},
		},
	}
}

// semanticWalk threads the enclosing type name so constructorNameRule can
// compare it against a constructor's declared name.
type semanticWalk struct {
	session *analysis.Session
	out     []diag.Diagnostic
	visit   func(w *semanticWalk, typeName string, m ast.Member)
}

func (w *semanticWalk) run(visit func(w *semanticWalk, typeName string, m ast.Member)) []diag.Diagnostic {
	w.visit = visit
	if w.session.Unit != nil {
		for _, decl := range w.session.Unit.TopLevelDeclarations {
			w.walkTopLevel(decl)
		}
	}
	return w.out
}

func (w *semanticWalk) walkTopLevel(decl ast.TopLevelDeclaration) {
	switch d := decl.(type) {
	case *ast.NamespaceDecl:
		for _, inner := range d.Declarations {
			w.walkTopLevel(inner)
		}
	case *ast.ClassDecl:
		w.walkMembers(d.Name, d.Members)
	case *ast.StructDecl:
		w.walkMembers(d.Name, d.Members)
	case *ast.InterfaceDecl:
		w.walkMembers(d.Name, d.Members)
	case *ast.RecordDecl:
		w.walkMembers(d.Name, d.Members)
	}
}

func (w *semanticWalk) walkMembers(typeName string, members []ast.Member) {
	for _, m := range members {
		if nested, ok := m.(*ast.NestedTypeMember); ok {
			if nested.Decl != nil {
				w.walkTopLevel(nested.Decl)
			}
			continue
		}
		w.visit(w, typeName, m)
	}
}

func (w *semanticWalk) report(n ast.Node, code, format string, args ...any) {
	w.out = append(w.out, diag.Diagnostic{
		Code:     code,
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Location: w.session.LocationForNode(n),
	})
}

type asyncConstructorRule struct{}

func (*asyncConstructorRule) ID() string                              { return CodeAsyncConstructor }
func (*asyncConstructorRule) Category() string                         { return "semantic" }
func (*asyncConstructorRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *asyncConstructorRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	w := &semanticWalk{session: session}
	return w.run(func(w *semanticWalk, typeName string, m ast.Member) {
		c, ok := m.(*ast.ConstructorDecl)
		if !ok {
			return
		}
		if hasModifier(c.Modifiers, "async") {
			w.report(c, CodeAsyncConstructor, "constructor %q cannot be declared async", c.Name)
		}
	})
}

type constructorNameRule struct{}

func (*constructorNameRule) ID() string                              { return CodeConstructorName }
func (*constructorNameRule) Category() string                         { return "semantic" }
func (*constructorNameRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *constructorNameRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	w := &semanticWalk{session: session}
	return w.run(func(w *semanticWalk, typeName string, m ast.Member) {
		c, ok := m.(*ast.ConstructorDecl)
		if !ok {
			return
		}
		if c.Name != typeName {
			w.report(c, CodeConstructorName, "constructor name %q must match enclosing type %q", c.Name, typeName)
		}
	})
}

type abstractWithBodyRule struct{}

func (*abstractWithBodyRule) ID() string                              { return CodeAbstractWithBody }
func (*abstractWithBodyRule) Category() string                         { return "semantic" }
func (*abstractWithBodyRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *abstractWithBodyRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	w := &semanticWalk{session: session}
	return w.run(func(w *semanticWalk, typeName string, m ast.Member) {
		d, ok := m.(*ast.MethodDecl)
		if !ok || !hasModifier(d.Modifiers, "abstract") {
			return
		}
		if d.Body != nil || d.ExprBody != nil {
			w.report(d, CodeAbstractWithBody, "abstract method %q must not have a body", d.Name)
		}
	})
}

type staticOverrideRule struct{}

func (*staticOverrideRule) ID() string                              { return CodeStaticOverride }
func (*staticOverrideRule) Category() string                         { return "semantic" }
func (*staticOverrideRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *staticOverrideRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	w := &semanticWalk{session: session}
	return w.run(func(w *semanticWalk, typeName string, m ast.Member) {
		d, ok := m.(*ast.MethodDecl)
		if !ok {
			return
		}
		if hasModifier(d.Modifiers, "static") && hasModifier(d.Modifiers, "override") {
			w.report(d, CodeStaticOverride, "method %q cannot be both static and override", d.Name)
		}
	})
}

type badAsyncReturnRule struct{}

func (*badAsyncReturnRule) ID() string                              { return CodeBadAsyncReturnType }
func (*badAsyncReturnRule) Category() string                         { return "semantic" }
func (*badAsyncReturnRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *badAsyncReturnRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	w := &semanticWalk{session: session}
	return w.run(func(w *semanticWalk, typeName string, m ast.Member) {
		d, ok := m.(*ast.MethodDecl)
		if !ok || !hasModifier(d.Modifiers, "async") {
			return
		}
		if !isValidAsyncReturn(d.Return) {
			w.report(d, CodeBadAsyncReturnType,
				"async method %q must return Task, Task<T>, ValueTask, ValueTask<T>, or void", d.Name)
		}
	})
}

// isValidAsyncReturn reports whether t is void, Task, Task<T>, ValueTask,
// or ValueTask<T>.
func isValidAsyncReturn(t ast.Type) bool {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		return v.Name == "void"
	case *ast.ReferenceType:
		return isTaskLikeName(v.Name)
	case *ast.GenericType:
		ref, ok := v.BaseType.(*ast.ReferenceType)
		return ok && isTaskLikeName(ref.Name)
	default:
		return false
	}
}

func isTaskLikeName(id *ast.Identifier) bool {
	if id == nil {
		return false
	}
	switch id.String() {
	case "Task", "ValueTask":
		return true
	default:
		return false
	}
}
