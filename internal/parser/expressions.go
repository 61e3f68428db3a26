package parser

import "github.com/bsharp-lang/bsharp/pkg/ast"

// precedence levels, lowest first. Binary/ternary/assignment/null-
// coalescing/range/lambda parsing all key off this table rather than a
// hand-nested call chain, so adding an operator means adding one entry
// here instead of a new mutually-recursive parseXxx function.
const (
	precLogicalOr = iota
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryOps = map[string]int{
	"||": precLogicalOr, "&&": precLogicalAnd,
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"==": precEquality, "!=": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

var assignOps = []string{
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"<<=", ">>=", ">>>=", "??=", "=",
}

// ParseExpression parses a full expression at the lowest precedence,
// including assignment, lambda, ternary, and range forms.
func (p *Parser) ParseExpression() ast.Expression {
	defer p.PushContext("expression")()
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	if lam, ok := p.tryParseLambda(); ok {
		return lam
	}
	left := p.parseRange()
	if left == nil {
		return nil
	}
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	for _, op := range assignOps {
		// the bare `=` must not eat the `=` of `==` or `=>`
		match := PunctExact(op)
		if op == "=" {
			match = Punct(op)
		}
		if match(c) {
			right := p.parseAssignment()
			if right == nil {
				c.Reset(m)
				return left
			}
			if op == "=" {
				if tup, ok := left.(*ast.TupleExpr); ok {
					targets := make([]ast.Expression, len(tup.Elements))
					for i, el := range tup.Elements {
						targets[i] = el.Value
					}
					return &ast.DeconstructionExpr{Base: p.base(m), Targets: targets, Source: right}
				}
			}
			return &ast.AssignmentExpr{Base: p.base(m), Op: op, Target: left, Value: right}
		}
	}
	c.Reset(m)
	return left
}

func (p *Parser) parseRange() ast.Expression {
	m := p.cur.Mark()
	var from ast.Expression
	if !PeekPunct(p.cur, "..") {
		from = p.parseNullCoalescing()
		if from == nil {
			return nil
		}
	}
	c := p.cur
	save := c.Mark()
	if Punct("..")(c) {
		var to ast.Expression
		if !isRangeEnd(c) {
			to = p.parseNullCoalescing()
		}
		return &ast.RangeExpr{Base: p.base(m), Start: from, End: to}
	}
	c.Reset(save)
	return from
}

func isRangeEnd(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	SkipTrivia(c)
	return c.AtEnd() || PeekPunct(c, ")") || PeekPunct(c, "]") || PeekPunct(c, ",") || PeekPunct(c, ";")
}

func (p *Parser) parseNullCoalescing() ast.Expression {
	left := p.parseTernary()
	if left == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		if Punct("??")(c) {
			right := p.parseTernary()
			if right == nil {
				c.Reset(m)
				return left
			}
			left = &ast.NullCoalescingExpr{Base: p.base(m), Left: left, Right: right}
			continue
		}
		c.Reset(m)
		return left
	}
}

func (p *Parser) parseTernary() ast.Expression {
	m := p.cur.Mark()
	cond := p.parseBinaryAt(precLogicalOr)
	if cond == nil {
		return nil
	}
	c := p.cur
	save := c.Mark()
	if Punct("?")(c) {
		then := p.parseAssignment()
		if then == nil {
			c.Reset(save)
			return cond
		}
		SkipTrivia(c)
		if !PunctExact(":")(c) {
			c.Reset(save)
			return cond
		}
		els := p.parseAssignment()
		if els == nil {
			c.Reset(save)
			return cond
		}
		return &ast.TernaryExpr{Base: p.base(m), Condition: cond, WhenTrue: then, WhenFalse: els}
	}
	c.Reset(save)
	return cond
}

// parseBinaryAt implements precedence climbing over binaryOps, bottoming
// out at parseIsAs so `is`/`as` bind tighter than any binary operator.
func (p *Parser) parseBinaryAt(minPrec int) ast.Expression {
	left := p.parseIsAs()
	if left == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		SkipTrivia(c)
		op, prec, ok := peekBinaryOp(c)
		if !ok || prec < minPrec {
			c.Reset(m)
			return left
		}
		c.AdvanceBytes(len(op))
		right := p.parseBinaryAt(prec + 1)
		if right == nil {
			c.Reset(m)
			return left
		}
		left = &ast.BinaryExpr{Base: p.base(m), Op: ast.BinaryOp(op), Left: left, Right: right}
	}
}

func peekBinaryOp(c *Cursor) (string, int, bool) {
	for _, op := range []string{">>>", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "<", ">", "+", "-", "*", "/", "%", "&", "|", "^"} {
		if c.HasPrefix(op) {
			if op == "<" && isFollowedByAssign(c) {
				continue
			}
			return op, binaryOps[op], true
		}
	}
	return "", 0, false
}

func isFollowedByAssign(c *Cursor) bool {
	r, w := c.PeekAt(1)
	return w > 0 && r == '='
}

// parseIsAs handles `expr is Pattern` and `expr as Type`, which share
// precedence with relational comparisons and chain left-associatively
// with them.
func (p *Parser) parseIsAs() ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		if Keyword("is")(c) {
			pat := p.ParsePattern()
			if pat == nil {
				c.Reset(m)
				return left
			}
			is := &ast.IsExpr{Base: p.base(m), Operand: left, Pattern: pat}
			switch tp := pat.(type) {
			case *ast.TypePattern:
				is.Target = tp.Type
			case *ast.DeclarationPattern:
				is.Target = tp.Type
			}
			left = is
			continue
		}
		if Keyword("as")(c) {
			t := p.ParseType()
			if t == nil {
				c.Reset(m)
				return left
			}
			left = &ast.AsExpr{Base: p.base(m), Operand: left, Target: t}
			continue
		}
		c.Reset(m)
		return left
	}
}

func (p *Parser) parseUnary() ast.Expression {
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)

	if Keyword("await")(c) {
		operand := p.parseUnary()
		if operand != nil {
			return &ast.AwaitExpr{Base: p.base(m), Operand: operand}
		}
		c.Reset(m)
	}
	if Keyword("throw")(c) {
		operand := p.parseAssignment()
		return &ast.ThrowExpr{Base: p.base(m), Operand: operand}
	}
	if PeekKeyword(c, "checked") || PeekKeyword(c, "unchecked") {
		unchecked := PeekKeyword(c, "unchecked")
		if unchecked {
			Keyword("unchecked")(c)
		} else {
			Keyword("checked")(c)
		}
		SkipTrivia(c)
		if PunctExact("(")(c) {
			inner := p.ParseExpression()
			SkipTrivia(c)
			PunctExact(")")(c)
			return &ast.CheckedExpr{Base: p.base(m), Unchecked: unchecked, Operand: inner}
		}
		c.Reset(m)
	}
	if Keyword("stackalloc")(c) {
		elem := p.ParseType()
		SkipTrivia(c)
		var sizeExpr ast.Expression
		var elems []ast.Expression
		if PunctExact("[")(c) {
			if !PeekPunct(c, "]") {
				sizeExpr = p.ParseExpression()
			}
			SkipTrivia(c)
			PunctExact("]")(c)
		}
		SkipTrivia(c)
		if PunctExact("{")(c) {
			elems, _ = SeparatedList(c, SeparatedListOptions{
				Sep:        PunctExact(","),
				Term:       PeekFn("}"),
				AllowEmpty: true,
			}, func(c *Cursor) (ast.Expression, bool) {
				e := p.ParseExpression()
				return e, e != nil
			})
			SkipTrivia(c)
			PunctExact("}")(c)
		}
		return &ast.StackAllocExpr{Base: p.base(m), ElementType: elem, Size: sizeExpr, Init: elems}
	}
	for _, op := range []string{"++", "--", "!", "~", "+", "-", "&", "*"} {
		if PunctExact(op)(c) {
			operand := p.parseUnary()
			if operand == nil {
				c.Reset(m)
				continue
			}
			return &ast.UnaryExpr{Base: p.base(m), Op: ast.UnaryOp(op), Operand: operand}
		}
	}

	// cast vs parenthesized expression: `(T)expr` requires T to actually
	// be a type and the token right after `)` to start a unary
	// expression, never a binary operator continuation.
	if PeekPunct(c, "(") {
		if cast, ok := p.tryParseCast(); ok {
			return cast
		}
	}

	return p.parsePostfix()
}

// PeekFn adapts a Punct recognizer into a Recognizer usable as a
// ManyUntil/SeparatedList terminator.
func PeekFn(tok string) Recognizer {
	return func(c *Cursor) bool { return Punct(tok)(c) }
}

func (p *Parser) tryParseCast() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	t := p.parseBaseTypeLenient()
	if t == nil {
		c.Reset(m)
		return nil, false
	}
	t = p.parseTypePostfix(t)
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		c.Reset(m)
		return nil, false
	}
	if !castFollowSet(c) {
		c.Reset(m)
		return nil, false
	}
	operand := p.parseUnary()
	if operand == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.CastExpr{Base: p.base(m), Target: t, Operand: operand}, true
}

// castFollowSet reports whether the token right after a candidate
// `(T)` looks like the start of a unary expression rather than a binary
// operator, which is how a genuine cast is told apart from a
// parenthesized expression immediately followed by an operator
// (`(a) - b` is subtraction, `(int) -b` is a cast of a negation).
func castFollowSet(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	SkipTrivia(c)
	if c.AtEnd() {
		return false
	}
	r, _ := c.Peek()
	switch r {
	case '~', '!':
		return true
	case '(':
		return true
	}
	if id := peekIdentifier(c); id != "" {
		return !IsKeyword(id) || PeekKeyword(c, "this") || PeekKeyword(c, "true") ||
			PeekKeyword(c, "false") || PeekKeyword(c, "null") || PeekKeyword(c, "new") || PeekKeyword(c, "base")
	}
	if _, ok := MatchLiteral(c); ok {
		return true
	}
	return false
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		SkipTrivia(c)

		if PunctExact("++")(c) {
			expr = &ast.PostfixUnaryExpr{Base: p.base(m), Op: "++", Operand: expr}
			continue
		}
		if PunctExact("--")(c) {
			expr = &ast.PostfixUnaryExpr{Base: p.base(m), Op: "--", Operand: expr}
			continue
		}
		if PunctExact("?.")(c) {
			name, ok := Ident(c)
			if !ok {
				c.Reset(m)
				return expr
			}
			member := &ast.Identifier{Base: p.base(m), Simple: name}
			access := &ast.MemberAccessExpr{Base: p.base(m), Target: expr, Member: member, Conditional: true}
			if args, ok := p.tryParseTypeArgsExpr(); ok {
				access.TypeArgs = args
			}
			expr = access
			continue
		}
		if PunctExact(".")(c) {
			name, ok := Ident(c)
			if !ok {
				c.Reset(m)
				return expr
			}
			member := &ast.Identifier{Base: p.base(m), Simple: name}
			access := &ast.MemberAccessExpr{Base: p.base(m), Target: expr, Member: member}
			if args, ok := p.tryParseTypeArgsExpr(); ok {
				access.TypeArgs = args
			}
			expr = access
			continue
		}
		if PunctExact("->")(c) {
			name, ok := Ident(c)
			if !ok {
				c.Reset(m)
				return expr
			}
			member := &ast.Identifier{Base: p.base(m), Simple: name}
			expr = &ast.MemberAccessExpr{Base: p.base(m), Target: expr, Member: member}
			continue
		}
		if PeekPunct(c, "(") {
			args, ok := p.parseArgumentList()
			if !ok {
				c.Reset(m)
				return expr
			}
			expr = &ast.InvocationExpr{Base: p.base(m), Callee: expr, Arguments: args}
			continue
		}
		if c.HasPrefix("?[") {
			PunctExact("?")(c)
			PunctExact("[")(c)
			indices, ok := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("]")},
				func(c *Cursor) (ast.Expression, bool) {
					e := p.ParseExpression()
					return e, e != nil
				})
			SkipTrivia(c)
			if !ok || !PunctExact("]")(c) {
				c.Reset(m)
				return expr
			}
			expr = &ast.IndexExpr{Base: p.base(m), Target: expr, Arguments: indices, Conditional: true}
			continue
		}
		if PeekPunct(c, "[") {
			save := c.Mark()
			PunctExact("[")(c)
			SkipTrivia(c)
			if PeekPunct(c, "]") {
				c.Reset(save)
				return expr
			}
			indices, ok := SeparatedList(c, SeparatedListOptions{
				Sep:  PunctExact(","),
				Term: PeekFn("]"),
			}, func(c *Cursor) (ast.Expression, bool) {
				e := p.ParseExpression()
				return e, e != nil
			})
			SkipTrivia(c)
			if !ok || !PunctExact("]")(c) {
				c.Reset(save)
				return expr
			}
			expr = &ast.IndexExpr{Base: p.base(m), Target: expr, Arguments: indices}
			continue
		}
		if Keyword("switch")(c) {
			SkipTrivia(c)
			if !PunctExact("{")(c) {
				c.Reset(m)
				return expr
			}
			arms, _ := SeparatedList(c, SeparatedListOptions{
				Sep:           PunctExact(","),
				Term:          PeekFn("}"),
				AllowEmpty:    true,
				AllowTrailing: true,
			}, p.parseSwitchExpressionArm)
			SkipTrivia(c)
			PunctExact("}")(c)
			expr = &ast.SwitchExpr{Base: p.base(m), Operand: expr, Arms: arms}
			continue
		}
		if Keyword("with")(c) {
			SkipTrivia(c)
			if !PunctExact("{")(c) {
				c.Reset(m)
				return expr
			}
			members, _ := SeparatedList(c, SeparatedListOptions{
				Sep:           PunctExact(","),
				Term:          PeekFn("}"),
				AllowEmpty:    true,
				AllowTrailing: true,
			}, p.parseObjectInitMember)
			SkipTrivia(c)
			PunctExact("}")(c)
			expr = &ast.WithExpr{Base: p.base(m), Source: expr, Members: members}
			continue
		}

		c.Reset(m)
		return expr
	}
}

func (p *Parser) parseArgumentList() ([]*ast.Argument, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	args, _ := SeparatedList(c, SeparatedListOptions{
		Sep:        PunctExact(","),
		Term:       PeekFn(")"),
		AllowEmpty: true,
	}, p.parseArgument)
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		c.Reset(m)
		return nil, false
	}
	return args, true
}

func (p *Parser) parseArgument(c *Cursor) (*ast.Argument, bool) {
	m := c.Mark()
	name := ""
	mod := ""
	save := c.Mark()
	if n, ok := Ident(c); ok {
		SkipTrivia(c)
		if PunctExact(":")(c) {
			name = n
		} else {
			c.Reset(save)
		}
	} else {
		c.Reset(save)
	}
	for _, m2 := range []string{"ref", "out", "in"} {
		if Keyword(m2)(c) {
			mod = m2
			break
		}
	}
	val := p.ParseExpression()
	if val == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.Argument{Base: p.base(m), Name: name, Modifier: mod, Value: val}, true
}

func (p *Parser) parseSwitchExpressionArm(c *Cursor) (*ast.SwitchArm, bool) {
	m := c.Mark()
	pat := p.ParsePattern()
	if pat == nil {
		return nil, false
	}
	var guard ast.Expression
	if Keyword("when")(c) {
		guard = p.ParseExpression()
	}
	SkipTrivia(c)
	if !PunctExact("=>")(c) {
		c.Reset(m)
		return nil, false
	}
	result := p.ParseExpression()
	if result == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.SwitchArm{Base: p.base(m), Pattern: pat, Guard: guard, Result: result}, true
}

func (p *Parser) parseObjectInitMember(c *Cursor) (*ast.ObjectInitMember, bool) {
	m := c.Mark()
	name, ok := Ident(c)
	if !ok {
		return nil, false
	}
	SkipTrivia(c)
	if !PunctExact("=")(c) {
		c.Reset(m)
		return nil, false
	}
	v := p.ParseExpression()
	if v == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.ObjectInitMember{Base: p.base(m), Name: name, Value: v}, true
}

// parsePrimary handles the leaves of the expression grammar: literals,
// identifiers (with the speculative generic-method-call lookahead),
// `this`/`base`, parenthesized/tuple expressions, `new`, `typeof`,
// `sizeof`, `default`, `nameof`, anonymous methods, interpolated
// strings, collection expressions, and query comprehensions.
func (p *Parser) parsePrimary() ast.Expression {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	// Interpolated strings must be tried ahead of MatchLiteral: the plain
	// string matcher also accepts a `$"` prefix (it has to, for pattern
	// constants and cast-follow probes), but here the embedded holes need
	// a real nested expression parse, not one opaque literal.
	if expr, ok := p.tryParseInterpolatedString(); ok {
		return expr
	}
	if lit, ok := MatchLiteral(c); ok {
		return &ast.LiteralExpr{Base: p.base(m), Kind: ast.LiteralKind(lit.Kind), Text: lit.Text}
	}
	if Keyword("this")(c) {
		return &ast.ThisExpr{Base: p.base(m)}
	}
	if Keyword("base")(c) {
		return &ast.BaseExpr{Base: p.base(m)}
	}
	if Keyword("typeof")(c) {
		return p.parseTypeOf(m)
	}
	if Keyword("sizeof")(c) {
		return p.parseSizeOf(m)
	}
	if Keyword("default")(c) {
		return p.parseDefault(m)
	}
	if ContextualKeyword("nameof")(c) && PeekPunct(c, "(") {
		return p.parseNameOf(m)
	}
	if Keyword("new")(c) {
		return p.parseNew(m)
	}
	if Keyword("ref")(c) {
		operand := p.parseUnary()
		return &ast.RefExpr{Base: p.base(m), Operand: operand}
	}
	if Keyword("delegate")(c) {
		return p.parseAnonymousMethod(m)
	}
	if PeekPunct(c, "[") {
		if coll, ok := p.tryParseCollectionExpr(); ok {
			return coll
		}
	}
	if PeekPunct(c, "(") {
		if tup, ok := p.tryParseTupleOrDeconstruction(); ok {
			return tup
		}
		if paren, ok := p.tryParseParenthesized(); ok {
			return paren
		}
	}
	if q, ok := p.tryParseQueryExpression(); ok {
		return q
	}

	if name, ok := Ident(c); ok {
		ident := &ast.Identifier{Base: p.base(m), Simple: name}
		v := &ast.VariableExpr{Base: p.base(m), Name: ident}
		if args, ok := p.tryParseTypeArgsExpr(); ok {
			v.TypeArgs = args
		}
		return v
	}

	p.Fail("expression", "", "expected an expression")
	return &ast.ErrorExpr{Base: p.base(m)}
}

// tryParseTypeArgsExpr speculatively parses `<T1, T2, ...>` after a name
// in expression position. The list is committed only when a matching `>`
// is reachable through the type-argument grammar AND the token after it
// is one the language allows directly after a type-argument list
// (`( ) ] } : ; , . ? == !=` or end of input), so `a < b > c` stays a
// pair of comparisons while `M<int>(x)` becomes a generic invocation
// head.
func (p *Parser) tryParseTypeArgsExpr() ([]ast.Type, bool) {
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	if !c.HasPrefix("<") || c.HasPrefix("<=") || c.HasPrefix("<<") {
		c.Reset(m)
		return nil, false
	}
	args, ok := p.tryParseGenericArgs()
	if !ok {
		c.Reset(m)
		return nil, false
	}
	if !typeArgFollowSet(c) {
		c.Reset(m)
		return nil, false
	}
	return args, true
}

func typeArgFollowSet(c *Cursor) bool {
	m := c.Mark()
	defer c.Reset(m)
	SkipTrivia(c)
	if c.AtEnd() {
		return true
	}
	for _, tok := range []string{"==", "!=", "(", ")", "]", "}", ":", ";", ",", ".", "?"} {
		if c.HasPrefix(tok) {
			return true
		}
	}
	return false
}

func (p *Parser) parseTypeOf(m Mark) ast.Expression {
	c := p.cur
	SkipTrivia(c)
	if !PunctExact("(")(c) {
		return &ast.ErrorExpr{Base: p.base(m)}
	}
	t := p.ParseType()
	SkipTrivia(c)
	PunctExact(")")(c)
	return &ast.TypeOfExpr{Base: p.base(m), Target: t}
}

func (p *Parser) parseSizeOf(m Mark) ast.Expression {
	c := p.cur
	SkipTrivia(c)
	if !PunctExact("(")(c) {
		return &ast.ErrorExpr{Base: p.base(m)}
	}
	t := p.ParseType()
	SkipTrivia(c)
	PunctExact(")")(c)
	return &ast.SizeOfExpr{Base: p.base(m), Target: t}
}

func (p *Parser) parseDefault(m Mark) ast.Expression {
	c := p.cur
	SkipTrivia(c)
	if PunctExact("(")(c) {
		SkipTrivia(c)
		if PeekPunct(c, ")") {
			PunctExact(")")(c)
			return &ast.DefaultExpr{Base: p.base(m)}
		}
		t := p.ParseType()
		SkipTrivia(c)
		PunctExact(")")(c)
		return &ast.DefaultExpr{Base: p.base(m), Target: t}
	}
	return &ast.DefaultExpr{Base: p.base(m)}
}

func (p *Parser) parseNameOf(m Mark) ast.Expression {
	c := p.cur
	PunctExact("(")(c)
	target := p.ParseExpression()
	SkipTrivia(c)
	PunctExact(")")(c)
	return &ast.NameOfExpr{Base: p.base(m), Target: target}
}

func (p *Parser) tryParseInterpolatedString() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	if c.HasPrefix("$\"\"\"") {
		// raw interpolated string; the raw-literal matcher owns it
		return nil, false
	}
	verbatim := false
	if c.HasPrefix("$@\"") || c.HasPrefix("@$\"") {
		verbatim = true
		c.AdvanceBytes(3)
	} else if c.HasPrefix("$\"") {
		c.AdvanceBytes(2)
	} else {
		return nil, false
	}
	var segments []*ast.InterpolatedSegment
	textStart := c.Mark()
	flushText := func(end Mark) {
		if int(end) > int(textStart) {
			segments = append(segments, &ast.InterpolatedSegment{Base: p.base(textStart), Text: c.Slice(textStart)})
		}
	}
	for !c.AtEnd() {
		if verbatim && c.HasPrefix("\"\"") {
			c.AdvanceBytes(2)
			continue
		}
		if c.HasPrefix("\"") {
			flushText(c.Mark())
			c.AdvanceBytes(1)
			return &ast.InterpolatedStringExpr{Base: p.base(m), Verbatim: verbatim, Segments: segments}, true
		}
		if c.HasPrefix("{{") {
			c.AdvanceBytes(2)
			continue
		}
		if c.HasPrefix("{") {
			flushText(c.Mark())
			c.AdvanceBytes(1)
			sm := c.Mark()
			expr := p.ParseExpression()
			alignment := ""
			format := ""
			SkipTrivia(c)
			if PunctExact(",")(c) {
				am := c.Mark()
				SkipUntil(c, func(c *Cursor) bool { return PeekPunct(c, "}") || PeekPunct(c, ":") })
				alignment = c.Slice(am)
			}
			if PunctExact(":")(c) {
				fm := c.Mark()
				for !c.AtEnd() && !c.HasPrefix("}") {
					c.Advance()
				}
				format = c.Slice(fm)
			}
			SkipTrivia(c)
			PunctExact("}")(c)
			segments = append(segments, &ast.InterpolatedSegment{Base: p.base(sm), Expr: expr, Alignment: alignment, Format: format})
			textStart = c.Mark()
			continue
		}
		if !verbatim && c.HasPrefix("\\") {
			c.AdvanceBytes(1)
			if !c.AtEnd() {
				_, w := c.Peek()
				c.AdvanceBytes(w)
			}
			continue
		}
		c.Advance()
	}
	c.Reset(m)
	return nil, false
}

func (p *Parser) parseNew(m Mark) ast.Expression {
	c := p.cur
	SkipTrivia(c)
	if PunctExact("(")(c) {
		args, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true}, p.parseArgument)
		SkipTrivia(c)
		PunctExact(")")(c)
		objInit, collInit := p.tryParseInitializerBlock()
		return &ast.NewExpr{Base: p.base(m), Kind: ast.NewTargetTyped, Arguments: args, ObjectInit: objInit, CollectionInit: collInit}
	}

	t := p.ParseType()
	SkipTrivia(c)
	if PunctExact("[")(c) {
		var ranks []ast.Expression
		if !PeekPunct(c, "]") {
			ranks, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("]")}, func(c *Cursor) (ast.Expression, bool) {
				e := p.ParseExpression()
				return e, e != nil
			})
		}
		SkipTrivia(c)
		PunctExact("]")(c)
		_, collInit := p.tryParseInitializerBlock()
		return &ast.NewExpr{Base: p.base(m), Kind: ast.NewArray, Type: t, ArrayRanks: ranks, CollectionInit: collInit}
	}

	var args []*ast.Argument
	if PeekPunct(c, "(") {
		PunctExact("(")(c)
		args, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true}, p.parseArgument)
		SkipTrivia(c)
		PunctExact(")")(c)
	}
	objInit, collInit := p.tryParseInitializerBlock()
	return &ast.NewExpr{Base: p.base(m), Kind: ast.NewTyped, Type: t, Arguments: args, ObjectInit: objInit, CollectionInit: collInit}
}

func (p *Parser) tryParseInitializerBlock() ([]*ast.ObjectInitMember, []ast.Expression) {
	c := p.cur
	save := c.Mark()
	SkipTrivia(c)
	if !PunctExact("{")(c) {
		c.Reset(save)
		return nil, nil
	}
	SkipTrivia(c)
	if PeekPunct(c, "}") {
		PunctExact("}")(c)
		return nil, nil
	}
	if p.peekObjectInitMember() {
		members, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("}"), AllowEmpty: true, AllowTrailing: true}, p.parseObjectInitMember)
		SkipTrivia(c)
		PunctExact("}")(c)
		return members, nil
	}
	elems, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("}"), AllowEmpty: true, AllowTrailing: true}, func(c *Cursor) (ast.Expression, bool) {
		e := p.ParseExpression()
		return e, e != nil
	})
	SkipTrivia(c)
	PunctExact("}")(c)
	return nil, elems
}

func (p *Parser) peekObjectInitMember() bool {
	c := p.cur
	m := c.Mark()
	defer c.Reset(m)
	if _, ok := Ident(c); !ok {
		return false
	}
	SkipTrivia(c)
	return PeekPunct(c, "=")
}

func (p *Parser) tryParseCollectionExpr() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("[")(c) {
		return nil, false
	}
	elems, _ := SeparatedList(c, SeparatedListOptions{
		Sep: PunctExact(","), Term: PeekFn("]"), AllowEmpty: true, AllowTrailing: true,
	}, func(c *Cursor) (ast.Expression, bool) {
		if PunctExact("..")(c) {
			cm := c.Mark()
			e := p.ParseExpression()
			return &ast.RangeExpr{Base: p.base(cm), End: e}, true
		}
		e := p.ParseExpression()
		return e, e != nil
	})
	SkipTrivia(c)
	if !PunctExact("]")(c) {
		c.Reset(m)
		return nil, false
	}
	return &ast.CollectionExpr{Base: p.base(m), Elements: elems}, true
}

func (p *Parser) tryParseTupleOrDeconstruction() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	elems, ok := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")")}, p.parseTupleArg)
	if !ok || len(elems) < 2 {
		c.Reset(m)
		return nil, false
	}
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		c.Reset(m)
		return nil, false
	}
	return &ast.TupleExpr{Base: p.base(m), Elements: elems}, true
}

func (p *Parser) parseTupleArg(c *Cursor) (*ast.TupleArgExpr, bool) {
	m := c.Mark()
	name := ""
	save := c.Mark()
	if n, ok := Ident(c); ok {
		SkipTrivia(c)
		if PunctExact(":")(c) {
			name = n
		} else {
			c.Reset(save)
		}
	} else {
		c.Reset(save)
	}
	v := p.ParseExpression()
	if v == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.TupleArgExpr{Base: p.base(m), Name: name, Value: v}, true
}

func (p *Parser) tryParseParenthesized() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	inner := p.ParseExpression()
	if inner == nil {
		c.Reset(m)
		return nil, false
	}
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		c.Reset(m)
		return nil, false
	}
	return inner, true
}

// tryParseLambda speculatively parses a lambda's parameter header
// (`x => ...`, `(x, y) => ...`, `(int x) => ...`, `() => ...`), rolling
// all the way back if no `=>` is found, since the same leading `(` also
// starts a parenthesized expression, a tuple, and a cast.
func (p *Parser) tryParseLambda() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	async := false
	save := c.Mark()
	if ContextualKeyword("async")(c) {
		async = true
	} else {
		c.Reset(save)
	}

	var params []*ast.LambdaParam
	if name, ok := Ident(c); ok {
		SkipTrivia(c)
		if !PunctExact("=>")(c) {
			c.Reset(m)
			return nil, false
		}
		params = []*ast.LambdaParam{{Base: p.base(m), Name: name}}
	} else if PeekPunct(c, "(") {
		ps, ok := p.tryParseLambdaParamList()
		if !ok {
			c.Reset(m)
			return nil, false
		}
		SkipTrivia(c)
		if !PunctExact("=>")(c) {
			c.Reset(m)
			return nil, false
		}
		params = ps
	} else {
		c.Reset(m)
		return nil, false
	}

	SkipTrivia(c)
	if PeekPunct(c, "{") {
		body := p.parseBlock()
		return &ast.LambdaExpr{Base: p.base(m), Async: async, Params: params, BlockBody: body}, true
	}
	exprBody := p.parseAssignment()
	if exprBody == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.LambdaExpr{Base: p.base(m), Async: async, Params: params, ExprBody: exprBody}, true
}

func (p *Parser) tryParseLambdaParamList() ([]*ast.LambdaParam, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	params, _ := SeparatedList(c, SeparatedListOptions{
		Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true,
	}, p.parseLambdaParam)
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		c.Reset(m)
		return nil, false
	}
	return params, true
}

func (p *Parser) parseLambdaParam(c *Cursor) (*ast.LambdaParam, bool) {
	m := c.Mark()
	modifier := ""
	for _, mod := range []string{"ref", "out", "in"} {
		if Keyword(mod)(c) {
			modifier = mod
			break
		}
	}
	// A typed parameter (`int x`) vs a bare name (`x`): try a type only
	// if it's followed by another identifier, else treat the identifier
	// itself as the bare parameter name.
	save := c.Mark()
	if t := p.parseBaseTypeLenient(); t != nil {
		t = p.parseTypePostfix(t)
		if name, ok := Ident(c); ok {
			return &ast.LambdaParam{Base: p.base(m), Modifier: modifier, Type: t, Name: name}, true
		}
		c.Reset(save)
	}
	name, ok := Ident(c)
	if !ok {
		c.Reset(m)
		return nil, false
	}
	return &ast.LambdaParam{Base: p.base(m), Modifier: modifier, Name: name}, true
}

func (p *Parser) parseAnonymousMethod(m Mark) ast.Expression {
	c := p.cur
	SkipTrivia(c)
	var params []*ast.LambdaParam
	if PunctExact("(")(c) {
		params, _ = SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true}, p.parseLambdaParam)
		SkipTrivia(c)
		PunctExact(")")(c)
	}
	body := p.parseBlock()
	return &ast.AnonymousMethodExpr{Base: p.base(m), Params: params, Body: body}
}

// tryParseQueryExpression recognizes a LINQ query comprehension
// (`from x in src select x`, with optional where/orderby/let/group
// clauses). Only the `from` keyword is a hard signal; everything after
// it is delegated to parseQueryClauses. The `from` clause itself becomes
// the first entry of QueryExpr.Clauses.
func (p *Parser) tryParseQueryExpression() (ast.Expression, bool) {
	c := p.cur
	m := c.Mark()
	if !ContextualKeyword("from")(c) {
		return nil, false
	}
	name, ok := Ident(c)
	if !ok {
		c.Reset(m)
		return nil, false
	}
	if !Keyword("in")(c) {
		c.Reset(m)
		return nil, false
	}
	source := p.parseNullCoalescing()
	if source == nil {
		c.Reset(m)
		return nil, false
	}
	clauses := []*ast.QueryClause{{Base: p.base(m), Kind: "from", Name: name, Expression: source}}
	clauses = append(clauses, p.parseQueryClauses()...)
	return &ast.QueryExpr{Base: p.base(m), Clauses: clauses}, true
}

func (p *Parser) parseQueryClauses() []*ast.QueryClause {
	var out []*ast.QueryClause
	c := p.cur
	for {
		m := c.Mark()
		switch {
		case ContextualKeyword("where")(c):
			cond := p.ParseExpression()
			out = append(out, &ast.QueryClause{Base: p.base(m), Kind: "where", Expression: cond})
		case ContextualKeyword("orderby")(c):
			key := p.ParseExpression()
			out = append(out, &ast.QueryClause{Base: p.base(m), Kind: "orderby", Expression: key})
		case ContextualKeyword("let")(c):
			name, _ := Ident(c)
			SkipTrivia(c)
			PunctExact("=")(c)
			val := p.ParseExpression()
			out = append(out, &ast.QueryClause{Base: p.base(m), Kind: "let", Name: name, Expression: val})
		case ContextualKeyword("select")(c):
			sel := p.ParseExpression()
			out = append(out, &ast.QueryClause{Base: p.base(m), Kind: "select", Expression: sel})
		case ContextualKeyword("group")(c):
			item := p.ParseExpression()
			Keyword("by")(c)
			key := p.ParseExpression()
			out = append(out, &ast.QueryClause{Base: p.base(m), Kind: "group", Expression: item, Key: key})
		default:
			return out
		}
	}
}
