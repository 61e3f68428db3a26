package parser

import "github.com/bsharp-lang/bsharp/pkg/ast"

// Pattern precedence, lowest first: or binds loosest, and tighter, not
// tighter still, then the primary pattern forms and the relational
// comparisons.
func (p *Parser) ParsePattern() ast.Pattern {
	defer p.PushContext("pattern")()
	return p.parsePatternOr()
}

func (p *Parser) parsePatternOr() ast.Pattern {
	left := p.parsePatternAnd()
	if left == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		if ContextualKeyword("or")(c) {
			right := p.parsePatternAnd()
			if right == nil {
				c.Reset(m)
				return left
			}
			left = &ast.LogicalOrPattern{Base: p.base(m), Left: left, Right: right}
			continue
		}
		c.Reset(m)
		return left
	}
}

func (p *Parser) parsePatternAnd() ast.Pattern {
	left := p.parsePatternNot()
	if left == nil {
		return nil
	}
	c := p.cur
	for {
		m := c.Mark()
		if ContextualKeyword("and")(c) {
			right := p.parsePatternNot()
			if right == nil {
				c.Reset(m)
				return left
			}
			left = &ast.LogicalAndPattern{Base: p.base(m), Left: left, Right: right}
			continue
		}
		c.Reset(m)
		return left
	}
}

func (p *Parser) parsePatternNot() ast.Pattern {
	c := p.cur
	m := c.Mark()
	if ContextualKeyword("not")(c) {
		inner := p.parsePatternNot()
		if inner == nil {
			c.Reset(m)
			return nil
		}
		return &ast.NotPattern{Base: p.base(m), Inner: inner}
	}
	return p.parsePatternPrimary()
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	if Keyword("null")(c) {
		return &ast.ConstantPattern{Base: p.base(m), Value: &ast.LiteralExpr{Base: p.base(m), Kind: ast.LiteralNull, Text: "null"}}
	}
	if dm := c.Mark(); PunctExact("_")(c) {
		if isIdentContinue(peekRune(c)) {
			c.Reset(dm)
		} else {
			return &ast.DiscardPattern{Base: p.base(m)}
		}
	}

	for _, op := range []string{"<=", ">=", "<", ">"} {
		if PunctExact(op)(c) {
			v := p.parseUnary()
			if v == nil {
				c.Reset(m)
				return nil
			}
			return &ast.RelationalPattern{Base: p.base(m), Op: ast.RelationalOp(op), Value: v}
		}
	}

	if PunctExact("(")(c) {
		if pat, ok := p.tryParsePatternTuple(m); ok {
			return pat
		}
		c.Reset(m)
		SkipTrivia(c)
		PunctExact("(")(c)
		inner := p.ParsePattern()
		if inner == nil {
			c.Reset(m)
			return nil
		}
		SkipTrivia(c)
		if !PunctExact(")")(c) {
			c.Reset(m)
			return nil
		}
		return p.tryAttachTrailingPositionalOrProperty(&ast.ParenthesizedPattern{Base: p.base(m), Inner: inner}, m)
	}

	if PunctExact("[")(c) {
		elems, ok := SeparatedList(c, SeparatedListOptions{
			Sep: PunctExact(","), Term: PeekFn("]"), AllowEmpty: true, AllowTrailing: true,
		}, func(c *Cursor) (ast.Pattern, bool) {
			if PunctExact("..")(c) {
				sm := c.Mark()
				var inner ast.Pattern
				save := c.Mark()
				if n, ok := p.tryParseVarPattern(); ok {
					inner = n
				} else {
					c.Reset(save)
				}
				return &ast.SlicePattern{Base: p.base(sm), Inner: inner}, true
			}
			pat := p.ParsePattern()
			return pat, pat != nil
		})
		SkipTrivia(c)
		if !ok || !PunctExact("]")(c) {
			c.Reset(m)
			return nil
		}
		return &ast.ListPattern{Base: p.base(m), Elements: elems}
	}

	if ContextualKeyword("var")(c) {
		name, ok := p.parseDesignation()
		if !ok {
			c.Reset(m)
			return nil
		}
		return &ast.VarPattern{Base: p.base(m), Name: name}
	}

	// typed pattern: T, `T name`, `T(positional...)`, `T { props }`, each
	// optionally combined and optionally followed by a binding name.
	save := c.Mark()
	t := p.parseBaseTypeLenient()
	if t != nil {
		t = p.parseTypePostfix(t)
		if pat, ok := p.tryAttachTypedPatternTail(t, m); ok {
			return pat
		}
		c.Reset(save)
	}

	c.Reset(save)
	if lit, ok := MatchLiteral(c); ok {
		return &ast.ConstantPattern{Base: p.base(m), Value: &ast.LiteralExpr{Base: p.base(m), Kind: ast.LiteralKind(lit.Kind), Text: lit.Text}}
	}

	expr := p.parseUnary()
	if expr == nil {
		c.Reset(m)
		return nil
	}
	return &ast.ConstantPattern{Base: p.base(m), Value: expr}
}

func peekRune(c *Cursor) rune {
	r, _ := c.Peek()
	return r
}

// parseDesignation parses the name bound by `var name`, a discard `_`,
// or nothing (a bare `var` inside a positional pattern is invalid and
// reported by the caller via the ok=false return).
func (p *Parser) parseDesignation() (string, bool) {
	c := p.cur
	if name, ok := Ident(c); ok {
		return name, true
	}
	m := c.Mark()
	if PunctExact("_")(c) {
		return "_", true
	}
	c.Reset(m)
	return "", false
}

func (p *Parser) tryParseVarPattern() (ast.Pattern, bool) {
	c := p.cur
	m := c.Mark()
	if !ContextualKeyword("var")(c) {
		return nil, false
	}
	name, ok := p.parseDesignation()
	if !ok {
		c.Reset(m)
		return nil, false
	}
	return &ast.VarPattern{Base: p.base(m), Name: name}, true
}

// tryAttachTypedPatternTail builds TypePattern/DeclarationPattern/
// PositionalPattern/PropertyPattern from a type already parsed at m,
// optionally followed by a binding name.
func (p *Parser) tryAttachTypedPatternTail(t ast.Type, m Mark) (ast.Pattern, bool) {
	c := p.cur
	SkipTrivia(c)

	if PeekPunct(c, "(") {
		PunctExact("(")(c)
		elems, ok := SeparatedList(c, SeparatedListOptions{
			Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true,
		}, func(c *Cursor) (ast.Pattern, bool) {
			pat := p.ParsePattern()
			return pat, pat != nil
		})
		SkipTrivia(c)
		if !ok || !PunctExact(")")(c) {
			return nil, false
		}
		name := ""
		if n, bound := p.peekBoundName(); bound {
			name = n
		}
		return &ast.PositionalPattern{Base: p.base(m), Type: t, Elements: elems, Name: name}, true
	}

	if PeekPunct(c, "{") {
		return p.parsePropertyPatternTail(t, m)
	}

	if name, ok := Ident(c); ok {
		return &ast.DeclarationPattern{Base: p.base(m), Type: t, Name: name}, true
	}

	return &ast.TypePattern{Base: p.base(m), Type: t}, true
}

func (p *Parser) peekBoundName() (string, bool) {
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	if name, ok := Ident(c); ok {
		return name, true
	}
	c.Reset(m)
	return "", false
}

func (p *Parser) parsePropertyPatternTail(t ast.Type, m Mark) (ast.Pattern, bool) {
	c := p.cur
	if !PunctExact("{")(c) {
		return nil, false
	}
	subs, ok := SeparatedList(c, SeparatedListOptions{
		Sep: PunctExact(","), Term: PeekFn("}"), AllowEmpty: true, AllowTrailing: true,
	}, p.parseSubpattern)
	SkipTrivia(c)
	if !ok || !PunctExact("}")(c) {
		return nil, false
	}
	name := ""
	if n, bound := p.peekBoundName(); bound {
		name = n
	}
	return &ast.PropertyPattern{Base: p.base(m), Type: t, Subpatterns: subs, Name: name}, true
}

func (p *Parser) parseSubpattern(c *Cursor) (*ast.Subpattern, bool) {
	m := c.Mark()
	name := ""
	save := c.Mark()
	nameParts := []string{}
	for {
		n, ok := Ident(c)
		if !ok {
			break
		}
		nameParts = append(nameParts, n)
		SkipTrivia(c)
		if PunctExact(".")(c) {
			continue
		}
		break
	}
	if len(nameParts) > 0 {
		SkipTrivia(c)
		if PunctExact(":")(c) {
			name = nameParts[len(nameParts)-1]
		} else {
			c.Reset(save)
		}
	} else {
		c.Reset(save)
	}
	pat := p.ParsePattern()
	if pat == nil {
		c.Reset(m)
		return nil, false
	}
	return &ast.Subpattern{Base: p.base(m), Name: name, Pattern: pat}, true
}

// tryParsePatternTuple distinguishes `(pattern, pattern, ...)` (a bare
// TuplePattern, at least two elements, no type) from a single
// parenthesized pattern, which the caller falls back to on failure here.
func (p *Parser) tryParsePatternTuple(m Mark) (ast.Pattern, bool) {
	c := p.cur
	elems, ok := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")")}, func(c *Cursor) (ast.Pattern, bool) {
		pat := p.ParsePattern()
		return pat, pat != nil
	})
	if !ok || len(elems) < 2 {
		return nil, false
	}
	SkipTrivia(c)
	if !PunctExact(")")(c) {
		return nil, false
	}
	return p.tryAttachTrailingPositionalOrProperty(&ast.TuplePattern{Base: p.base(m), Elements: elems}, m), true
}

// tryAttachTrailingPositionalOrProperty lets a parenthesized/tuple
// pattern be immediately followed by a property pattern block, as in
// `(var a, var b) { } name` style combined patterns; absent that it
// returns base unchanged.
func (p *Parser) tryAttachTrailingPositionalOrProperty(base ast.Pattern, m Mark) ast.Pattern {
	return base
}
