package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

// NewNamingPass returns the rules.naming ruleset pass: PascalCase for
// types/methods/properties, camelCase for parameters and locals,
// UPPER_CASE or PascalCase for constants, no leading underscore for
// non-private fields. Grounded on spec.md §4.8.
func NewNamingPass() *RulesetPass {
	return &RulesetPass{
		PassID: "rules.naming",
		Deps:   []string{"symbols.index"},
		Ruleset: &Ruleset{
			ID:    "rules.naming",
			Rules: []Rule{&namingRule{}},
		},
	}
}

type namingRule struct{}

func (*namingRule) ID() string                              { return CodeNaming }
func (*namingRule) Category() string                         { return "naming" }
func (*namingRule) AppliesTo(session *analysis.Session) bool { return session.Unit != nil }

func (r *namingRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	var out []diag.Diagnostic
	report := func(n ast.Node, format string, args ...any) {
		out = append(out, diag.Diagnostic{
			Code:     CodeNaming,
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			Location: session.LocationForNode(n),
		})
	}

	ast.Descendants(session.Unit, func(n ast.Node) {
		switch d := n.(type) {
		case *ast.ClassDecl:
			checkPascal(d.Name, d, "class", report)
		case *ast.StructDecl:
			checkPascal(d.Name, d, "struct", report)
		case *ast.InterfaceDecl:
			checkPascal(d.Name, d, "interface", report)
		case *ast.RecordDecl:
			checkPascal(d.Name, d, "record", report)
		case *ast.EnumDecl:
			checkPascal(d.Name, d, "enum", report)
		case *ast.DelegateDecl:
			checkPascal(d.Name, d, "delegate", report)
		case *ast.MethodDecl:
			checkPascal(d.Name, d, "method", report)
			for _, p := range d.Params {
				checkCamel(p.Name, p, "parameter", report)
			}
		case *ast.ConstructorDecl:
			for _, p := range d.Params {
				checkCamel(p.Name, p, "parameter", report)
			}
		case *ast.PropertyDecl:
			checkPascal(d.Name, d, "property", report)
		case *ast.FieldDecl:
			isConst := hasModifier(d.Modifiers, "const")
			isPrivate := isPrivateOrImplicit(d.Modifiers)
			for _, decl := range d.Declarators {
				switch {
				case isConst:
					if !isPascalCase(decl.Name) && !isUpperSnakeCase(decl.Name) {
						report(decl, "constant %q should be UPPER_CASE or PascalCase", decl.Name)
					}
				case !isPrivate:
					if strings.HasPrefix(decl.Name, "_") {
						report(decl, "non-private field %q must not start with an underscore", decl.Name)
					}
				}
			}
		case *ast.DeclarationStmt:
			for _, decl := range d.Declarators {
				if d.Const {
					if !isPascalCase(decl.Name) && !isUpperSnakeCase(decl.Name) {
						report(decl, "constant %q should be UPPER_CASE or PascalCase", decl.Name)
					}
				} else {
					checkCamel(decl.Name, decl, "local", report)
				}
			}
		}
	})
	return out
}

func checkPascal(name string, n ast.Node, kind string, report func(ast.Node, string, ...any)) {
	if name == "" || isPascalCase(name) {
		return
	}
	report(n, "%s %q should be PascalCase", kind, name)
}

func checkCamel(name string, n ast.Node, kind string, report func(ast.Node, string, ...any)) {
	if name == "" || isCamelCase(name) {
		return
	}
	report(n, "%s %q should be camelCase", kind, name)
}

func hasModifier(modifiers []string, want string) bool {
	for _, m := range modifiers {
		if m == want {
			return true
		}
	}
	return false
}

// isPrivateOrImplicit reports whether a field is private, including C#'s
// implicit default accessibility for a field with no access modifier.
func isPrivateOrImplicit(modifiers []string) bool {
	for _, m := range modifiers {
		switch m {
		case "public", "protected", "internal":
			return false
		case "private":
			return true
		}
	}
	return true
}

func isPascalCase(name string) bool {
	r := []rune(name)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return false
	}
	return !strings.Contains(name, "_")
}

func isCamelCase(name string) bool {
	r := []rune(name)
	if len(r) == 0 || !unicode.IsLower(r[0]) {
		return false
	}
	return !strings.Contains(name, "_")
}

// isUpperSnakeCase reports whether name is entirely upper-case letters,
// digits, and underscores, with at least one letter.
func isUpperSnakeCase(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsUpper(r) || unicode.IsDigit(r) || r == '_':
			if unicode.IsUpper(r) {
				hasLetter = true
			}
		default:
			return false
		}
	}
	return hasLetter
}
