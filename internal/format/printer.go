// Package format implements format.Emitter for a small, documented subset
// of the grammar: namespaces, type declarations (class/struct/interface/
// enum), fields, properties, methods and constructors, and the everyday
// statement/expression forms (block, if, while, for, foreach, return,
// declaration, expression-statement, plus the common expression kinds).
// Anything outside that subset is rendered as a `/* unsupported: Kind */`
// marker rather than failing the whole emit, the same "best effort, keep
// going" posture the teacher's debug dumper takes in
// cmd/dwscript/cmd/parse.go's dumpASTNode.
//
// Re-indentation rather than trivia-preservation: the printer lays its own
// whitespace down from the AST shape, it does not thread original comments
// or blank-line runs through from the source span table.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// Printer is the built-in Emitter. Indent is the number of spaces per
// nesting level; the zero value defaults to 4.
type Printer struct {
	Indent int
}

// New returns a Printer with the default indent width.
func New() *Printer {
	return &Printer{Indent: 4}
}

// Emit writes n's source-text rendering to w.
func (p *Printer) Emit(w io.Writer, n ast.Node) error {
	ind := p.Indent
	if ind <= 0 {
		ind = 4
	}
	var b strings.Builder
	e := &emitter{indent: ind}
	e.node(&b, 0, n)
	_, err := io.WriteString(w, b.String())
	return err
}

type emitter struct {
	indent int
}

func (e *emitter) pad(level int) string {
	return strings.Repeat(" ", e.indent*level)
}

func (e *emitter) node(b *strings.Builder, level int, n ast.Node) {
	switch v := n.(type) {
	case *ast.CompilationUnit:
		e.compilationUnit(b, level, v)
	case ast.TopLevelDeclaration:
		e.topLevel(b, level, v)
	case ast.Statement:
		e.stmt(b, level, v)
	case ast.Expression:
		b.WriteString(e.expr(v))
	default:
		fmt.Fprintf(b, "%s/* unsupported: %T */\n", e.pad(level), n)
	}
}

func (e *emitter) compilationUnit(b *strings.Builder, level int, u *ast.CompilationUnit) {
	for _, us := range u.Usings {
		e.using(b, us)
	}
	if len(u.Usings) > 0 {
		b.WriteString("\n")
	}
	if u.FileScopedNamespace != nil {
		fmt.Fprintf(b, "namespace %s;\n\n", u.FileScopedNamespace.String())
	}
	for i, d := range u.TopLevelDeclarations {
		if i > 0 {
			b.WriteString("\n")
		}
		e.topLevel(b, level, d)
	}
}

func (e *emitter) using(b *strings.Builder, u *ast.UsingDirective) {
	b.WriteString("using ")
	if u.Static {
		b.WriteString("static ")
	}
	if u.Alias != "" {
		fmt.Fprintf(b, "%s = ", u.Alias)
	}
	if u.Name != nil {
		b.WriteString(u.Name.String())
	}
	b.WriteString(";\n")
}

func (e *emitter) modifiers(mods []string) string {
	if len(mods) == 0 {
		return ""
	}
	return strings.Join(mods, " ") + " "
}

func (e *emitter) topLevel(b *strings.Builder, level int, d ast.TopLevelDeclaration) {
	pad := e.pad(level)
	switch v := d.(type) {
	case *ast.NamespaceDecl:
		fmt.Fprintf(b, "%snamespace %s\n%s{\n", pad, v.Name.String(), pad)
		for _, us := range v.Usings {
			b.WriteString(e.pad(level + 1))
			e.using(b, us)
		}
		for _, inner := range v.Declarations {
			e.topLevel(b, level+1, inner)
		}
		fmt.Fprintf(b, "%s}\n", pad)

	case *ast.ClassDecl:
		e.typeHeader(b, level, "class", v.Modifiers, v.Name, v.TypeParams, v.Bases)
		e.members(b, level, v.Members)

	case *ast.StructDecl:
		e.typeHeader(b, level, "struct", v.Modifiers, v.Name, v.TypeParams, v.Bases)
		e.members(b, level, v.Members)

	case *ast.InterfaceDecl:
		e.typeHeader(b, level, "interface", v.Modifiers, v.Name, v.TypeParams, v.Bases)
		e.members(b, level, v.Members)

	case *ast.EnumDecl:
		fmt.Fprintf(b, "%s%senum %s\n%s{\n", pad, e.modifiers(v.Modifiers), v.Name, pad)
		for i, m := range v.Members {
			comma := ","
			if i == len(v.Members)-1 {
				comma = ""
			}
			if m.Value != nil {
				fmt.Fprintf(b, "%s%s = %s%s\n", e.pad(level+1), m.Name, e.expr(m.Value), comma)
			} else {
				fmt.Fprintf(b, "%s%s%s\n", e.pad(level+1), m.Name, comma)
			}
		}
		fmt.Fprintf(b, "%s}\n", pad)

	case *ast.RecordDecl:
		fmt.Fprintf(b, "%s%srecord %s", pad, e.modifiers(v.Modifiers), v.Name)
		if len(v.PrimaryConstructor) > 0 {
			b.WriteString("(" + e.params(v.PrimaryConstructor) + ")")
		}
		b.WriteString(";\n")

	case *ast.DelegateDecl:
		fmt.Fprintf(b, "%s%sdelegate %s %s(%s);\n", pad, e.modifiers(v.Modifiers),
			e.typeString(v.Return), v.Name, e.params(v.Params))

	default:
		fmt.Fprintf(b, "%s/* unsupported: %T */\n", pad, d)
	}
}

func (e *emitter) typeHeader(b *strings.Builder, level int, kw string, mods []string, name string, typeParams []*ast.TypeParameter, bases *ast.BaseList) {
	pad := e.pad(level)
	fmt.Fprintf(b, "%s%s%s %s", pad, e.modifiers(mods), kw, name)
	if len(typeParams) > 0 {
		names := make([]string, len(typeParams))
		for i, tp := range typeParams {
			names[i] = tp.Name
		}
		fmt.Fprintf(b, "<%s>", strings.Join(names, ", "))
	}
	if bases != nil && len(bases.Types) > 0 {
		names := make([]string, len(bases.Types))
		for i, t := range bases.Types {
			names[i] = e.typeString(t)
		}
		fmt.Fprintf(b, " : %s", strings.Join(names, ", "))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "%s{\n", pad)
}

func (e *emitter) members(b *strings.Builder, level int, members []ast.Member) {
	for i, m := range members {
		if i > 0 {
			b.WriteString("\n")
		}
		e.member(b, level+1, m)
	}
	fmt.Fprintf(b, "%s}\n", e.pad(level))
}

func (e *emitter) member(b *strings.Builder, level int, m ast.Member) {
	pad := e.pad(level)
	switch v := m.(type) {
	case *ast.FieldDecl:
		names := make([]string, len(v.Declarators))
		for i, d := range v.Declarators {
			if d.Init != nil {
				names[i] = fmt.Sprintf("%s = %s", d.Name, e.expr(d.Init))
			} else {
				names[i] = d.Name
			}
		}
		fmt.Fprintf(b, "%s%s%s %s;\n", pad, e.modifiers(v.Modifiers), e.typeString(v.Type), strings.Join(names, ", "))

	case *ast.PropertyDecl:
		fmt.Fprintf(b, "%s%s%s %s", pad, e.modifiers(v.Modifiers), e.typeString(v.Type), v.Name)
		if v.ExprBody != nil {
			fmt.Fprintf(b, " => %s;\n", e.expr(v.ExprBody))
			return
		}
		b.WriteString(" { ")
		for _, a := range v.Accessors {
			fmt.Fprintf(b, "%s; ", a.Kind)
		}
		b.WriteString("}")
		if v.Init != nil {
			fmt.Fprintf(b, " = %s;", e.expr(v.Init))
		}
		b.WriteString("\n")

	case *ast.MethodDecl:
		fmt.Fprintf(b, "%s%s%s %s(%s)", pad, e.modifiers(v.Modifiers), e.typeString(v.Return), v.Name, e.params(v.Params))
		if v.ExprBody != nil {
			fmt.Fprintf(b, " => %s;\n", e.expr(v.ExprBody))
			return
		}
		if v.Body == nil {
			b.WriteString(";\n")
			return
		}
		b.WriteString("\n")
		e.block(b, level, v.Body)

	case *ast.ConstructorDecl:
		fmt.Fprintf(b, "%s%s%s(%s)", pad, e.modifiers(v.Modifiers), v.Name, e.params(v.Params))
		if v.Initializer != nil {
			kw := "this"
			if v.Initializer.IsBase {
				kw = "base"
			}
			fmt.Fprintf(b, " : %s(%s)", kw, e.args(v.Initializer.Arguments))
		}
		b.WriteString("\n")
		if v.Body != nil {
			e.block(b, level, v.Body)
		} else {
			fmt.Fprintf(b, "%s{\n%s}\n", pad, pad)
		}

	case *ast.NestedTypeMember:
		e.topLevel(b, level, v.Decl)

	default:
		fmt.Fprintf(b, "%s/* unsupported: %T */\n", pad, m)
	}
}

func (e *emitter) params(params []*ast.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		mod := ""
		if p.Modifier != "" {
			mod = p.Modifier + " "
		}
		s := fmt.Sprintf("%s%s %s", mod, e.typeString(p.Type), p.Name)
		if p.Default != nil {
			s += " = " + e.expr(p.Default)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) args(args []*ast.Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		prefix := ""
		if a.Name != "" {
			prefix = a.Name + ": "
		}
		if a.Modifier != "" {
			prefix += a.Modifier + " "
		}
		parts[i] = prefix + e.expr(a.Value)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) block(b *strings.Builder, level int, blk *ast.BlockStmt) {
	pad := e.pad(level)
	fmt.Fprintf(b, "%s{\n", pad)
	for _, s := range blk.Statements {
		e.stmt(b, level+1, s)
	}
	fmt.Fprintf(b, "%s}\n", pad)
}

func (e *emitter) stmt(b *strings.Builder, level int, s ast.Statement) {
	pad := e.pad(level)
	switch v := s.(type) {
	case *ast.BlockStmt:
		e.block(b, level, v)

	case *ast.EmptyStmt:
		fmt.Fprintf(b, "%s;\n", pad)

	case *ast.ExpressionStmt:
		fmt.Fprintf(b, "%s%s;\n", pad, e.expr(v.Expr))

	case *ast.DeclarationStmt:
		kw := ""
		if v.Const {
			kw = "const "
		}
		names := make([]string, len(v.Declarators))
		for i, d := range v.Declarators {
			if d.Init != nil {
				names[i] = fmt.Sprintf("%s = %s", d.Name, e.expr(d.Init))
			} else {
				names[i] = d.Name
			}
		}
		fmt.Fprintf(b, "%s%s%s %s;\n", pad, kw, e.typeString(v.Type), strings.Join(names, ", "))

	case *ast.IfStmt:
		fmt.Fprintf(b, "%sif (%s)\n", pad, e.expr(v.Condition))
		e.childStmt(b, level, v.Then)
		if v.Else != nil {
			fmt.Fprintf(b, "%selse\n", pad)
			e.childStmt(b, level, v.Else)
		}

	case *ast.WhileStmt:
		fmt.Fprintf(b, "%swhile (%s)\n", pad, e.expr(v.Condition))
		e.childStmt(b, level, v.Body)

	case *ast.DoWhileStmt:
		fmt.Fprintf(b, "%sdo\n", pad)
		e.childStmt(b, level, v.Body)
		fmt.Fprintf(b, "%swhile (%s);\n", pad, e.expr(v.Condition))

	case *ast.ForStmt:
		init := make([]string, len(v.Init))
		for i, s := range v.Init {
			init[i] = strings.TrimRight(strings.TrimSpace(e.stmtInline(s)), ";")
		}
		step := make([]string, len(v.Step))
		for i, s := range v.Step {
			step[i] = e.expr(s)
		}
		cond := ""
		if v.Condition != nil {
			cond = e.expr(v.Condition)
		}
		fmt.Fprintf(b, "%sfor (%s; %s; %s)\n", pad, strings.Join(init, ", "), cond, strings.Join(step, ", "))
		e.childStmt(b, level, v.Body)

	case *ast.ForEachStmt:
		await := ""
		if v.Await {
			await = "await "
		}
		fmt.Fprintf(b, "%s%sforeach (%s %s in %s)\n", pad, await, e.typeString(v.Type), v.Name, e.expr(v.Source))
		e.childStmt(b, level, v.Body)

	case *ast.ReturnStmt:
		if v.Value != nil {
			fmt.Fprintf(b, "%sreturn %s;\n", pad, e.expr(v.Value))
		} else {
			fmt.Fprintf(b, "%sreturn;\n", pad)
		}

	case *ast.ThrowStmt:
		if v.Value != nil {
			fmt.Fprintf(b, "%sthrow %s;\n", pad, e.expr(v.Value))
		} else {
			fmt.Fprintf(b, "%sthrow;\n", pad)
		}

	case *ast.BreakStmt:
		fmt.Fprintf(b, "%sbreak;\n", pad)

	case *ast.ContinueStmt:
		fmt.Fprintf(b, "%scontinue;\n", pad)

	default:
		fmt.Fprintf(b, "%s/* unsupported: %T */\n", pad, s)
	}
}

// childStmt prints a statement that is the body of an if/while/for/foreach,
// wrapping it in a block only when it isn't one already (`if (x) return;`
// stays on its own line, matching how the teacher's own bodies read).
func (e *emitter) childStmt(b *strings.Builder, level int, s ast.Statement) {
	if blk, ok := s.(*ast.BlockStmt); ok {
		e.block(b, level, blk)
		return
	}
	e.stmt(b, level+1, s)
}

// stmtInline renders a statement as a single line, for a for-loop's Init
// clause where DeclarationStmt/ExpressionStmt both need to fit inline.
func (e *emitter) stmtInline(s ast.Statement) string {
	var b strings.Builder
	e.stmt(&b, 0, s)
	return b.String()
}

func (e *emitter) typeString(t ast.Type) string {
	if t == nil {
		return "void"
	}
	switch v := t.(type) {
	case *ast.PrimitiveType:
		return v.Name
	case *ast.ReferenceType:
		return v.Name.String()
	case *ast.GenericType:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.typeString(a)
		}
		return fmt.Sprintf("%s<%s>", e.typeString(v.BaseType), strings.Join(args, ", "))
	case *ast.ArrayType:
		return e.typeString(v.Element) + "[" + strings.Repeat(",", v.Rank-1) + "]"
	case *ast.NullableType:
		return e.typeString(v.Inner) + "?"
	case *ast.PointerType:
		return e.typeString(v.Inner) + "*"
	case *ast.RefType:
		ro := ""
		if v.ReadOnly {
			ro = "readonly "
		}
		return "ref " + ro + e.typeString(v.Inner)
	case *ast.TupleType:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			if el.Name != "" {
				parts[i] = e.typeString(el.Type) + " " + el.Name
			} else {
				parts[i] = e.typeString(el.Type)
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.DynamicType:
		return "dynamic"
	case *ast.VarType:
		return "var"
	case fmt.Stringer:
		return v.String()
	default:
		return "/* unsupported type */"
	}
}

func (e *emitter) expr(x ast.Expression) string {
	if x == nil {
		return ""
	}
	switch v := x.(type) {
	case *ast.LiteralExpr:
		return v.Text
	case *ast.VariableExpr:
		return v.Name.String()
	case *ast.ThisExpr:
		return "this"
	case *ast.BaseExpr:
		return "base"
	case *ast.MemberAccessExpr:
		op := "."
		if v.Conditional {
			op = "?."
		}
		return e.expr(v.Target) + op + v.Member.String()
	case *ast.InvocationExpr:
		return fmt.Sprintf("%s(%s)", e.expr(v.Callee), e.args(v.Arguments))
	case *ast.IndexExpr:
		op := "["
		if v.Conditional {
			op = "?["
		}
		parts := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			parts[i] = e.expr(a)
		}
		return fmt.Sprintf("%s%s%s]", e.expr(v.Target), op, strings.Join(parts, ", "))
	case *ast.UnaryExpr:
		return string(v.Op) + e.expr(v.Operand)
	case *ast.PostfixUnaryExpr:
		return e.expr(v.Operand) + string(v.Op)
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", e.expr(v.Left), string(v.Op), e.expr(v.Right))
	case *ast.AssignmentExpr:
		return fmt.Sprintf("%s %s %s", e.expr(v.Target), v.Op, e.expr(v.Value))
	case *ast.TernaryExpr:
		return fmt.Sprintf("%s ? %s : %s", e.expr(v.Condition), e.expr(v.WhenTrue), e.expr(v.WhenFalse))
	default:
		return fmt.Sprintf("/* unsupported: %T */", x)
	}
}
