package parser

import "github.com/bsharp-lang/bsharp/pkg/ast"

// parseBlock parses `{ statements... }`, always returning a *BlockStmt
// even on an unrecoverable inner failure (an empty one, in Strict mode
// this point is never reached since Fail already panicked).
func (p *Parser) parseBlock() *ast.BlockStmt {
	defer p.PushContext("block")()
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	if !PunctExact("{")(c) {
		p.Fail("{", "", "expected a block")
		return &ast.BlockStmt{Base: p.base(m)}
	}
	stmts := ManyUntil(c, PeekFn("}"), p.parseStatementRule)
	SkipTrivia(c)
	if !PunctExact("}")(c) {
		p.Fail("}", "", "unterminated block")
	}
	return &ast.BlockStmt{Base: p.base(m), Statements: stmts}
}

func (p *Parser) parseStatementRule(c *Cursor) (ast.Statement, bool) {
	SkipTrivia(c)
	start := c.Mark()
	s := p.ParseStatement()
	if _, isErr := s.(*ast.ErrorStmt); isErr && p.Lenient() {
		p.recoverToStatementBoundary(start)
	}
	return s, s != nil
}

// ParseStatement dispatches on the next significant token to the right
// statement-grammar function. Keyword-led forms are tried first; what's
// left falls through to the declaration-vs-expression disambiguation at
// the bottom.
func (p *Parser) ParseStatement() ast.Statement {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	if PeekPunct(c, "{") {
		return p.parseBlock()
	}
	if PunctExact(";")(c) {
		return &ast.EmptyStmt{Base: p.base(m)}
	}
	if Keyword("if")(c) {
		return p.parseIf(m)
	}
	if Keyword("for")(c) {
		return p.parseFor(m)
	}
	if peekForEach(c) {
		return p.parseForEach(m)
	}
	if Keyword("while")(c) {
		return p.parseWhile(m)
	}
	if Keyword("do")(c) {
		return p.parseDoWhile(m)
	}
	if Keyword("switch")(c) {
		return p.parseSwitchStmt(m)
	}
	if Keyword("return")(c) {
		return p.parseReturn(m)
	}
	if Keyword("throw")(c) {
		return p.parseThrowStmt(m)
	}
	if Keyword("try")(c) {
		return p.parseTry(m)
	}
	if peekUsingStmt(c) {
		return p.parseUsingStmt(m)
	}
	if Keyword("lock")(c) {
		return p.parseLock(m)
	}
	if Keyword("fixed")(c) {
		return p.parseFixed(m)
	}
	if Keyword("unsafe")(c) {
		return &ast.UnsafeStmt{Base: p.base(m), Body: p.parseBlock()}
	}
	if PeekKeyword(c, "checked") || PeekKeyword(c, "unchecked") {
		return p.parseCheckedStmt(m)
	}
	if Keyword("break")(c) {
		p.expectSemicolon()
		return &ast.BreakStmt{Base: p.base(m)}
	}
	if Keyword("continue")(c) {
		p.expectSemicolon()
		return &ast.ContinueStmt{Base: p.base(m)}
	}
	if ContextualKeyword("yield")(c) {
		return p.parseYield(m)
	}
	if Keyword("goto")(c) {
		return p.parseGoto(m)
	}
	if peekLabel(c) {
		return p.parseLabel(m)
	}
	if p.peekLocalFunction() {
		return p.parseLocalFunction(m)
	}
	if peekDeconstructionStmt(c) {
		return p.parseDeconstructionStmt(m)
	}
	if decl, ok := p.tryParseDeclarationStmt(); ok {
		return decl
	}

	expr := p.ParseExpression()
	if _, isErr := expr.(*ast.ErrorExpr); isErr {
		return &ast.ErrorStmt{Base: p.base(m)}
	}
	if expr == nil {
		p.Fail("statement", "", "expected a statement")
		return &ast.ErrorStmt{Base: p.base(m)}
	}
	p.expectSemicolon()
	return &ast.ExpressionStmt{Base: p.base(m), Expr: expr}
}

func (p *Parser) expectSemicolon() {
	c := p.cur
	SkipTrivia(c)
	if !PunctExact(";")(c) {
		p.Fail(";", "", "expected ';'")
	}
}

func (p *Parser) parseIf(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)
	cond := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	then := p.ParseStatement()
	var els ast.Statement
	save := c.Mark()
	SkipTrivia(c)
	if Keyword("else")(c) {
		els = p.ParseStatement()
	} else {
		c.Reset(save)
	}
	return &ast.IfStmt{Base: p.base(m), Condition: cond, Then: then, Else: els}
}

func peekForEach(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	if ContextualKeyword("await")(c) {
		SkipTrivia(c)
	}
	return Keyword("foreach")(c)
}

func (p *Parser) parseForEach(m Mark) ast.Statement {
	c := p.cur
	await := false
	save := c.Mark()
	if ContextualKeyword("await")(c) {
		await = true
	} else {
		c.Reset(save)
	}
	Keyword("foreach")(c)
	SkipTrivia(c)
	PunctExact("(")(c)
	t := p.ParseType()
	name, _ := Ident(c)
	SkipTrivia(c)
	Keyword("in")(c)
	source := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	body := p.ParseStatement()
	return &ast.ForEachStmt{Base: p.base(m), Await: await, Type: t, Name: name, Source: source, Body: body}
}

func (p *Parser) parseFor(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)

	var init []ast.Statement
	SkipTrivia(c)
	if !PeekPunct(c, ";") {
		if decl, ok := p.tryParseDeclarationStmtNoSemi(); ok {
			init = []ast.Statement{decl}
		} else {
			init, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(";")}, func(c *Cursor) (ast.Statement, bool) {
				em := c.Mark()
				e := p.ParseExpression()
				if e == nil {
					return nil, false
				}
				return &ast.ExpressionStmt{Base: p.base(em), Expr: e}, true
			})
		}
	}
	SkipTrivia(c)
	PunctExact(";")(c)

	var cond ast.Expression
	SkipTrivia(c)
	if !PeekPunct(c, ";") {
		cond = p.ParseExpression()
	}
	SkipTrivia(c)
	PunctExact(";")(c)

	var step []ast.Expression
	SkipTrivia(c)
	if !PeekPunct(c, ")") {
		step, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")")}, func(c *Cursor) (ast.Expression, bool) {
			e := p.ParseExpression()
			return e, e != nil
		})
	}
	SkipTrivia(c)
	PunctExact(")")(c)

	body := p.ParseStatement()
	return &ast.ForStmt{Base: p.base(m), Init: init, Condition: cond, Step: step, Body: body}
}

func (p *Parser) parseWhile(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)
	cond := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	body := p.ParseStatement()
	return &ast.WhileStmt{Base: p.base(m), Condition: cond, Body: body}
}

func (p *Parser) parseDoWhile(m Mark) ast.Statement {
	c := p.cur
	body := p.ParseStatement()
	SkipTrivia(c)
	Keyword("while")(c)
	SkipTrivia(c)
	PunctExact("(")(c)
	cond := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	p.expectSemicolon()
	return &ast.DoWhileStmt{Base: p.base(m), Body: body, Condition: cond}
}

func (p *Parser) parseSwitchStmt(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)
	operand := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	SkipTrivia(c)
	PunctExact("{")(c)
	sections := ManyUntil(c, PeekFn("}"), p.parseSwitchSection)
	SkipTrivia(c)
	PunctExact("}")(c)
	return &ast.SwitchStmt{Base: p.base(m), Operand: operand, Sections: sections}
}

func (p *Parser) parseSwitchSection(c *Cursor) (*ast.SwitchSection, bool) {
	m := c.Mark()
	var labels []ast.Expression
	var patternLabels []*ast.PatternLabel
	isDefault := false
	matched := false
	for {
		SkipTrivia(c)
		if Keyword("default")(c) {
			SkipTrivia(c)
			PunctExact(":")(c)
			isDefault = true
			matched = true
			continue
		}
		if Keyword("case")(c) {
			lm := c.Mark()
			pat := p.ParsePattern()
			SkipTrivia(c)
			var guard ast.Expression
			if Keyword("when")(c) {
				guard = p.ParseExpression()
			}
			if guard == nil {
				if cp, ok := pat.(*ast.ConstantPattern); ok {
					labels = append(labels, cp.Value)
					SkipTrivia(c)
					PunctExact(":")(c)
					matched = true
					continue
				}
			}
			patternLabels = append(patternLabels, &ast.PatternLabel{Base: p.base(lm), Pattern: pat, Guard: guard})
			SkipTrivia(c)
			PunctExact(":")(c)
			matched = true
			continue
		}
		break
	}
	if !matched {
		return nil, false
	}
	stmts := ManyUntil(c, func(c *Cursor) bool {
		return PeekPunct(c, "}") || PeekKeyword(c, "case") || PeekKeyword(c, "default")
	}, p.parseStatementRule)
	return &ast.SwitchSection{Base: p.base(m), Labels: labels, PatternLabels: patternLabels, Default: isDefault, Statements: stmts}, true
}

func (p *Parser) parseReturn(m Mark) ast.Statement {
	c := p.cur
	var val ast.Expression
	SkipTrivia(c)
	if !PeekPunct(c, ";") {
		val = p.ParseExpression()
	}
	p.expectSemicolon()
	return &ast.ReturnStmt{Base: p.base(m), Value: val}
}

func (p *Parser) parseThrowStmt(m Mark) ast.Statement {
	c := p.cur
	var val ast.Expression
	SkipTrivia(c)
	if !PeekPunct(c, ";") {
		val = p.ParseExpression()
	}
	p.expectSemicolon()
	return &ast.ThrowStmt{Base: p.base(m), Value: val}
}

func (p *Parser) parseTry(m Mark) ast.Statement {
	c := p.cur
	body := p.parseBlock()
	var catches []*ast.CatchClause
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !Keyword("catch")(c) {
			c.Reset(save)
			break
		}
		cm := c.Mark()
		var t ast.Type
		name := ""
		SkipTrivia(c)
		if PunctExact("(")(c) {
			t = p.ParseType()
			if n, ok := Ident(c); ok {
				name = n
			}
			SkipTrivia(c)
			PunctExact(")")(c)
		}
		var filter ast.Expression
		SkipTrivia(c)
		if Keyword("when")(c) {
			SkipTrivia(c)
			PunctExact("(")(c)
			filter = p.ParseExpression()
			SkipTrivia(c)
			PunctExact(")")(c)
		}
		cbody := p.parseBlock()
		catches = append(catches, &ast.CatchClause{Base: p.base(cm), Type: t, Name: name, Filter: filter, Body: cbody})
	}
	var finallyBlock *ast.BlockStmt
	save := c.Mark()
	SkipTrivia(c)
	if Keyword("finally")(c) {
		finallyBlock = p.parseBlock()
	} else {
		c.Reset(save)
	}
	if len(catches) == 0 && finallyBlock == nil {
		p.Fail("catch or finally", "", "try must have at least one catch clause or a finally block")
	}
	return &ast.TryStmt{Base: p.base(m), Body: body, Catches: catches, Finally: finallyBlock}
}

func peekUsingStmt(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	if ContextualKeyword("await")(c) {
		SkipTrivia(c)
	}
	return Keyword("using")(c)
}

func (p *Parser) parseUsingStmt(m Mark) ast.Statement {
	c := p.cur
	await := false
	save := c.Mark()
	if ContextualKeyword("await")(c) {
		await = true
	} else {
		c.Reset(save)
	}
	Keyword("using")(c)
	SkipTrivia(c)

	var resource ast.Statement
	var body ast.Statement
	if PunctExact("(")(c) {
		rm := c.Mark()
		if decl, ok := p.tryParseDeclarationStmtNoSemi(); ok {
			resource = decl
		} else {
			e := p.ParseExpression()
			resource = &ast.ExpressionStmt{Base: p.base(rm), Expr: e}
		}
		SkipTrivia(c)
		PunctExact(")")(c)
		body = p.ParseStatement()
	} else {
		decl, _ := p.tryParseDeclarationStmt()
		resource = decl
	}
	return &ast.UsingStmt{Base: p.base(m), Await: await, Resource: resource, Body: body}
}

func (p *Parser) parseLock(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)
	expr := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	body := p.ParseStatement()
	return &ast.LockStmt{Base: p.base(m), Expr: expr, Body: body}
}

func (p *Parser) parseFixed(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	PunctExact("(")(c)
	decls, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")")}, p.parseFixedDeclarator)
	SkipTrivia(c)
	PunctExact(")")(c)
	body := p.ParseStatement()
	return &ast.FixedStmt{Base: p.base(m), Declarators: decls, Body: body}
}

func (p *Parser) parseFixedDeclarator(c *Cursor) (*ast.FixedDeclarator, bool) {
	m := c.Mark()
	t := p.ParseType()
	if t == nil {
		return nil, false
	}
	name, ok := Ident(c)
	if !ok {
		c.Reset(m)
		return nil, false
	}
	SkipTrivia(c)
	PunctExact("=")(c)
	init := p.ParseExpression()
	return &ast.FixedDeclarator{Base: p.base(m), Type: t, Name: name, Init: init}, true
}

func (p *Parser) parseCheckedStmt(m Mark) ast.Statement {
	c := p.cur
	unchecked := PeekKeyword(c, "unchecked")
	if unchecked {
		Keyword("unchecked")(c)
	} else {
		Keyword("checked")(c)
	}
	body := p.parseBlock()
	return &ast.CheckedStmt{Base: p.base(m), Unchecked: unchecked, Body: body}
}

func (p *Parser) parseYield(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	if Keyword("break")(c) {
		p.expectSemicolon()
		return &ast.YieldStmt{Base: p.base(m), Break: true}
	}
	Keyword("return")(c)
	val := p.ParseExpression()
	p.expectSemicolon()
	return &ast.YieldStmt{Base: p.base(m), Value: val}
}

func (p *Parser) parseGoto(m Mark) ast.Statement {
	c := p.cur
	SkipTrivia(c)
	if Keyword("case")(c) {
		val := p.ParseExpression()
		p.expectSemicolon()
		return &ast.GotoCaseStmt{Base: p.base(m), Value: val}
	}
	if Keyword("default")(c) {
		p.expectSemicolon()
		return &ast.GotoCaseStmt{Base: p.base(m), Default: true}
	}
	label, _ := Ident(c)
	p.expectSemicolon()
	return &ast.GotoStmt{Base: p.base(m), Label: label}
}

func peekLabel(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	if _, ok := Ident(c); !ok {
		return false
	}
	SkipTrivia(c)
	return PunctExact(":")(c) && !PeekPunct(c, ":")
}

func (p *Parser) parseLabel(m Mark) ast.Statement {
	c := p.cur
	label, _ := Ident(c)
	SkipTrivia(c)
	PunctExact(":")(c)
	stmt := p.ParseStatement()
	return &ast.LabelStmt{Base: p.base(m), Label: label, Stmt: stmt}
}

// peekLocalFunction distinguishes a local function declaration
// (`[modifiers] T Name[<Tparams>](params) {`/`=>`) from a plain
// expression/declaration statement: it looks for a type, then a name,
// then either `(` or `<` immediately after, purely via lookahead. Uses
// the real parser (rather than a throwaway one) since parseBaseType
// needs a live span table to allocate node IDs into, even for nodes
// this lookahead immediately discards by resetting the cursor.
func (p *Parser) peekLocalFunction() bool {
	c := p.cur
	m := c.Mark()
	defer c.Reset(m)
	for {
		matched := false
		for _, mod := range []string{"static", "async", "unsafe", "extern"} {
			if ContextualKeyword(mod)(c) {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	t := p.parseBaseTypeLenient()
	if t == nil {
		return false
	}
	t = p.parseTypePostfix(t)
	if _, ok := Ident(c); !ok {
		return false
	}
	SkipTrivia(c)
	if PunctExact("<")(c) {
		return true
	}
	return PeekPunct(c, "(")
}

func (p *Parser) parseLocalFunction(m Mark) ast.Statement {
	c := p.cur
	var modifiers []string
	for {
		save := c.Mark()
		matched := false
		for _, mod := range []string{"static", "async", "unsafe", "extern"} {
			if ContextualKeyword(mod)(c) {
				modifiers = append(modifiers, mod)
				matched = true
				break
			}
		}
		if !matched {
			c.Reset(save)
			break
		}
	}
	ret := p.ParseType()
	name, _ := Ident(c)

	var typeParams []*ast.TypeParameter
	SkipTrivia(c)
	if PunctExact("<")(c) {
		typeParams, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(">")}, p.parseTypeParameter)
		SkipTrivia(c)
		closeGenericAngle(c)
	}

	SkipTrivia(c)
	PunctExact("(")(c)
	params, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true}, p.parseParameter)
	SkipTrivia(c)
	PunctExact(")")(c)

	SkipTrivia(c)
	if PunctExact("=>")(c) {
		expr := p.ParseExpression()
		p.expectSemicolon()
		return &ast.LocalFunctionStmt{Base: p.base(m), Modifiers: modifiers, Return: ret, Name: name, TypeParams: typeParams, Params: params, ExprBody: expr}
	}
	body := p.parseBlock()
	return &ast.LocalFunctionStmt{Base: p.base(m), Modifiers: modifiers, Return: ret, Name: name, TypeParams: typeParams, Params: params, Body: body}
}

func (p *Parser) parseTypeParameter(c *Cursor) (*ast.TypeParameter, bool) {
	m := c.Mark()
	variance := ""
	if Keyword("in")(c) {
		variance = "in"
	} else if ContextualKeyword("out")(c) {
		variance = "out"
	}
	name, ok := Ident(c)
	if !ok {
		c.Reset(m)
		return nil, false
	}
	return &ast.TypeParameter{Base: p.base(m), Variance: variance, Name: name}, true
}

func (p *Parser) parseParameter(c *Cursor) (*ast.Parameter, bool) {
	m := c.Mark()
	modifier := ""
	for _, mod := range []string{"ref readonly", "this", "ref", "out", "in", "params", "scoped"} {
		sv := c.Mark()
		if matchModifierWords(c, mod) {
			modifier = mod
			break
		}
		c.Reset(sv)
	}
	t := p.ParseType()
	if t == nil {
		c.Reset(m)
		return nil, false
	}
	name, ok := Ident(c)
	if !ok {
		c.Reset(m)
		return nil, false
	}
	var def ast.Expression
	save := c.Mark()
	SkipTrivia(c)
	if PunctExact("=")(c) {
		def = p.ParseExpression()
	} else {
		c.Reset(save)
	}
	return &ast.Parameter{Base: p.base(m), Modifier: modifier, Type: t, Name: name, Default: def}, true
}

// peekDeconstructionStmt recognizes `(pattern, pattern) = expr;` and
// `var (a, b) = expr;` ahead of the generic declaration/expression
// fallback, since a leading `(` is otherwise ambiguous with a
// parenthesized expression statement.
func peekDeconstructionStmt(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	if ContextualKeyword("var")(c) {
		SkipTrivia(c)
	}
	if !PunctExact("(")(c) {
		return false
	}
	depth := 1
	for depth > 0 {
		if c.AtEnd() {
			return false
		}
		r, w := c.Peek()
		if w == 0 {
			return false
		}
		if r == '(' {
			depth++
		} else if r == ')' {
			depth--
		}
		c.AdvanceBytes(w)
	}
	SkipTrivia(c)
	return PeekPunct(c, "=") && !PeekPunct(c, "==") && !PeekPunct(c, "=>")
}

func (p *Parser) parseDeconstructionStmt(m Mark) ast.Statement {
	expr := p.ParseExpression()
	p.expectSemicolon()
	if decon, ok := expr.(*ast.DeconstructionExpr); ok {
		return &ast.DeconstructionStmt{Base: p.base(m), Expr: decon}
	}
	return &ast.DeconstructionStmt{Base: p.base(m), Expr: &ast.DeconstructionExpr{Base: p.base(m), Source: expr}}
}

// tryParseDeclarationStmt speculatively parses a local variable
// declaration `[const] T name [= init] (, name [= init])* ;`, rolling
// back entirely if what follows the type isn't an identifier (the
// expression-statement path then takes over, e.g. for a bare method
// call `Foo();` which also starts with something type-name-shaped).
func (p *Parser) tryParseDeclarationStmt() (ast.Statement, bool) {
	c := p.cur
	m := c.Mark()
	decl, ok := p.tryParseDeclarationStmtNoSemi()
	if !ok {
		c.Reset(m)
		return nil, false
	}
	SkipTrivia(c)
	if !PunctExact(";")(c) {
		c.Reset(m)
		return nil, false
	}
	return decl, true
}

func (p *Parser) tryParseDeclarationStmtNoSemi() (*ast.DeclarationStmt, bool) {
	c := p.cur
	m := c.Mark()
	isConst := false
	if Keyword("const")(c) {
		isConst = true
	}
	t := p.parseBaseTypeLenient()
	if t == nil {
		c.Reset(m)
		return nil, false
	}
	t = p.parseTypePostfix(t)
	decls, ok := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(",")}, p.parseVariableDeclarator)
	if !ok || len(decls) == 0 {
		c.Reset(m)
		return nil, false
	}
	return &ast.DeclarationStmt{Base: p.base(m), Const: isConst, Type: t, Declarators: decls}, true
}

func (p *Parser) parseVariableDeclarator(c *Cursor) (*ast.VariableDeclarator, bool) {
	m := c.Mark()
	name, ok := Ident(c)
	if !ok {
		return nil, false
	}
	var init ast.Expression
	save := c.Mark()
	SkipTrivia(c)
	if PunctExact("=")(c) {
		init = p.parseAssignment()
	} else {
		c.Reset(save)
	}
	return &ast.VariableDeclarator{Base: p.base(m), Name: name, Init: init}, true
}
