package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// parseStmts parses body as the statements of a single method and fails
// the test on any parse error.
func parseStmts(t *testing.T, body string) []ast.Statement {
	t.Helper()
	src := "class C\n{\n    void M()\n    {\n" + body + "\n    }\n}\n"
	p := New("disambig.bs", src, Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}
	class := unit.TopLevelDeclarations[0].(*ast.ClassDecl)
	method := class.Members[0].(*ast.MethodDecl)
	if method.Body == nil {
		t.Fatal("method body missing")
	}
	return method.Body.Statements
}

// firstInit returns the initializer of the first declarator of the first
// statement, which must be a declaration.
func firstInit(t *testing.T, stmts []ast.Statement) ast.Expression {
	t.Helper()
	decl, ok := stmts[0].(*ast.DeclarationStmt)
	if !ok {
		t.Fatalf("expected *ast.DeclarationStmt, got %T", stmts[0])
	}
	if len(decl.Declarators) == 0 || decl.Declarators[0].Init == nil {
		t.Fatal("expected an initialized declarator")
	}
	return decl.Declarators[0].Init
}

func TestGenericInvocationVsLessThan(t *testing.T) {
	stmts := parseStmts(t, "Make<int>(x);")
	es, ok := stmts[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", stmts[0])
	}
	inv, ok := es.Expr.(*ast.InvocationExpr)
	if !ok {
		t.Fatalf("expected invocation, got %T", es.Expr)
	}
	callee, ok := inv.Callee.(*ast.VariableExpr)
	if !ok {
		t.Fatalf("expected variable callee, got %T", inv.Callee)
	}
	if len(callee.TypeArgs) != 1 {
		t.Fatalf("expected 1 type argument on the callee, got %d", len(callee.TypeArgs))
	}

	stmts = parseStmts(t, "var r = a < b;")
	bin, ok := firstInit(t, stmts).(*ast.BinaryExpr)
	if !ok || bin.Op != "<" {
		t.Fatalf("expected a < comparison, got %#v", firstInit(t, stmts))
	}

	// `a < b > c` must stay two comparisons: `c` after the `>` is not in
	// the type-argument follow set.
	stmts = parseStmts(t, "var r = a < b > c;")
	outer, ok := firstInit(t, stmts).(*ast.BinaryExpr)
	if !ok || outer.Op != ">" {
		t.Fatalf("expected chained comparisons, got %#v", firstInit(t, stmts))
	}
}

func TestGenericMemberInvocation(t *testing.T) {
	stmts := parseStmts(t, "var xs = list.OfType<string>();")
	inv, ok := firstInit(t, stmts).(*ast.InvocationExpr)
	if !ok {
		t.Fatalf("expected invocation, got %T", firstInit(t, stmts))
	}
	access, ok := inv.Callee.(*ast.MemberAccessExpr)
	if !ok {
		t.Fatalf("expected member access callee, got %T", inv.Callee)
	}
	if len(access.TypeArgs) != 1 {
		t.Fatalf("expected 1 type argument on the member, got %d", len(access.TypeArgs))
	}
}

func TestLambdaVsParenthesizedAndTuple(t *testing.T) {
	stmts := parseStmts(t, "var f = (a, b) => Add(a, b);")
	lam, ok := firstInit(t, stmts).(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected lambda, got %T", firstInit(t, stmts))
	}
	if len(lam.Params) != 2 || lam.ExprBody == nil {
		t.Fatalf("expected 2 untyped params and an expression body, got %d params", len(lam.Params))
	}

	stmts = parseStmts(t, "var g = (int a, string b) => a;")
	lam, ok = firstInit(t, stmts).(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected typed lambda, got %T", firstInit(t, stmts))
	}
	if len(lam.Params) != 2 || lam.Params[0].Type == nil {
		t.Fatal("expected typed lambda parameters")
	}

	stmts = parseStmts(t, "var t = (a, b);")
	if _, ok := firstInit(t, stmts).(*ast.TupleExpr); !ok {
		t.Fatalf("expected tuple, got %T", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var p = (a);")
	if _, ok := firstInit(t, stmts).(*ast.VariableExpr); !ok {
		t.Fatalf("expected the parenthesized expression to unwrap, got %T", firstInit(t, stmts))
	}
}

func TestTargetTypedNewVsTypedNew(t *testing.T) {
	stmts := parseStmts(t, "Widget w = new();")
	n, ok := firstInit(t, stmts).(*ast.NewExpr)
	if !ok || n.Kind != ast.NewTargetTyped {
		t.Fatalf("expected target-typed new, got %#v", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var w = new Widget(1) { Label = x };")
	n, ok = firstInit(t, stmts).(*ast.NewExpr)
	if !ok || n.Kind != ast.NewTyped {
		t.Fatalf("expected typed new, got %#v", firstInit(t, stmts))
	}
	if len(n.Arguments) != 1 || len(n.ObjectInit) != 1 {
		t.Fatalf("expected 1 constructor argument and 1 initializer member, got %d/%d",
			len(n.Arguments), len(n.ObjectInit))
	}

	stmts = parseStmts(t, "var a = new int[3];")
	n, ok = firstInit(t, stmts).(*ast.NewExpr)
	if !ok || n.Kind != ast.NewArray {
		t.Fatalf("expected array new, got %#v", firstInit(t, stmts))
	}
}

func TestNullableTypeVsTernary(t *testing.T) {
	stmts := parseStmts(t, "int? x = null;")
	decl := stmts[0].(*ast.DeclarationStmt)
	if _, ok := decl.Type.(*ast.NullableType); !ok {
		t.Fatalf("expected nullable declared type, got %T", decl.Type)
	}

	stmts = parseStmts(t, "var y = flag ? a : b;")
	if _, ok := firstInit(t, stmts).(*ast.TernaryExpr); !ok {
		t.Fatalf("expected ternary, got %T", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var z = obj?.Label ?? fallback;")
	coal, ok := firstInit(t, stmts).(*ast.NullCoalescingExpr)
	if !ok {
		t.Fatalf("expected null-coalescing, got %T", firstInit(t, stmts))
	}
	access, ok := coal.Left.(*ast.MemberAccessExpr)
	if !ok || !access.Conditional {
		t.Fatalf("expected null-conditional access on the left, got %#v", coal.Left)
	}
}

func TestRangeVsMemberAccessVsFloat(t *testing.T) {
	stmts := parseStmts(t, "var r = 1..5;")
	rng, ok := firstInit(t, stmts).(*ast.RangeExpr)
	if !ok || rng.Start == nil || rng.End == nil {
		t.Fatalf("expected bounded range, got %#v", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var m = a.b;")
	if _, ok := firstInit(t, stmts).(*ast.MemberAccessExpr); !ok {
		t.Fatalf("expected member access, got %T", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var f = 1.5;")
	lit, ok := firstInit(t, stmts).(*ast.LiteralExpr)
	if !ok || lit.Text != "1.5" {
		t.Fatalf("expected float literal 1.5, got %#v", firstInit(t, stmts))
	}
}

func TestInterpolatedStringParsesEmbeddedExpressions(t *testing.T) {
	stmts := parseStmts(t, `var s = $"hello {name}!";`)
	interp, ok := firstInit(t, stmts).(*ast.InterpolatedStringExpr)
	if !ok {
		t.Fatalf("expected interpolated string, got %T", firstInit(t, stmts))
	}
	var exprHoles int
	for _, seg := range interp.Segments {
		if seg.Expr != nil {
			exprHoles++
		}
	}
	if exprHoles != 1 {
		t.Fatalf("expected 1 expression hole, got %d", exprHoles)
	}
}

func TestVerbatimAndRawStrings(t *testing.T) {
	stmts := parseStmts(t, `var v = @"c:\temp\new";`)
	if _, ok := firstInit(t, stmts).(*ast.LiteralExpr); !ok {
		t.Fatalf("expected verbatim string literal, got %T", firstInit(t, stmts))
	}

	stmts = parseStmts(t, `var r = """raw "quotes" inside""";`)
	if _, ok := firstInit(t, stmts).(*ast.LiteralExpr); !ok {
		t.Fatalf("expected raw string literal, got %T", firstInit(t, stmts))
	}
}

func TestAnonymousMethodForms(t *testing.T) {
	stmts := parseStmts(t, "var d = delegate(int n) { return n; };")
	anon, ok := firstInit(t, stmts).(*ast.AnonymousMethodExpr)
	if !ok || len(anon.Params) != 1 {
		t.Fatalf("expected anonymous method with 1 param, got %#v", firstInit(t, stmts))
	}

	stmts = parseStmts(t, "var d2 = delegate { };")
	anon, ok = firstInit(t, stmts).(*ast.AnonymousMethodExpr)
	if !ok || len(anon.Params) != 0 {
		t.Fatalf("expected parameterless anonymous method, got %#v", firstInit(t, stmts))
	}
}

func TestIsPatternAndSwitchExpression(t *testing.T) {
	stmts := parseStmts(t, "if (o is string s) { }")
	ifStmt := stmts[0].(*ast.IfStmt)
	is, ok := ifStmt.Condition.(*ast.IsExpr)
	if !ok {
		t.Fatalf("expected is-expression condition, got %T", ifStmt.Condition)
	}
	if _, ok := is.Pattern.(*ast.DeclarationPattern); !ok {
		t.Fatalf("expected declaration pattern, got %T", is.Pattern)
	}

	stmts = parseStmts(t, "var r = x switch { 1 => a, _ => b };")
	sw, ok := firstInit(t, stmts).(*ast.SwitchExpr)
	if !ok {
		t.Fatalf("expected switch expression, got %T", firstInit(t, stmts))
	}
	if len(sw.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(sw.Arms))
	}
	if _, ok := sw.Arms[1].Pattern.(*ast.DiscardPattern); !ok {
		t.Fatalf("expected discard pattern in last arm, got %T", sw.Arms[1].Pattern)
	}
}

func TestCollectionExpressionInInitializer(t *testing.T) {
	stmts := parseStmts(t, "int[] xs = [1, 2, 3];")
	coll, ok := firstInit(t, stmts).(*ast.CollectionExpr)
	if !ok {
		t.Fatalf("expected collection expression, got %T", firstInit(t, stmts))
	}
	if len(coll.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(coll.Elements))
	}
}

func TestUnboundGenericNameOf(t *testing.T) {
	stmts := parseStmts(t, "var n = nameof(Lookup<,>);")
	if _, ok := firstInit(t, stmts).(*ast.NameOfExpr); !ok {
		t.Fatalf("expected nameof, got %T", firstInit(t, stmts))
	}
}

func TestEmptyInputParses(t *testing.T) {
	p := New("empty.bs", "", Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("empty input must parse: %s", err.Pretty(false))
	}
	if len(unit.TopLevelDeclarations) != 0 || len(unit.TopLevelStatements) != 0 {
		t.Fatalf("expected an empty compilation unit, got %d decls / %d stmts",
			len(unit.TopLevelDeclarations), len(unit.TopLevelStatements))
	}
}

func TestDirectiveOnlyInputParses(t *testing.T) {
	p := New("region.bs", "#region Top\n#endregion\n", Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("directive-only input must parse: %s", err.Pretty(false))
	}
	if len(unit.TopLevelDeclarations) != 0 {
		t.Fatalf("expected no declarations, got %d", len(unit.TopLevelDeclarations))
	}
}

func TestMixedObjectAndCollectionInitializerFails(t *testing.T) {
	src := "class C { void M() { var x = new Widget { Label = 1, 2 }; } }"
	p := New("mixed.bs", src, Strict)
	if _, err := p.ParseFile(); err == nil {
		t.Fatal("expected a mixed object-and-collection initializer to fail in strict mode")
	}
}

func TestTryWithoutCatchOrFinallyFails(t *testing.T) {
	src := "class C { void M() { try { } } }"
	p := New("try.bs", src, Strict)
	if _, err := p.ParseFile(); err == nil {
		t.Fatal("expected a try with neither catch nor finally to fail")
	}
}
