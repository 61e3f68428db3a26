package parser

import "github.com/bsharp-lang/bsharp/pkg/ast"

var primitiveNames = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "char": true,
	"decimal": true, "double": true, "float": true, "int": true,
	"uint": true, "long": true, "ulong": true, "short": true,
	"ushort": true, "object": true, "string": true, "void": true,
	"nint": true, "nuint": true,
}

// ParseType parses a full type expression, applying postfix `?`, `[]`/
// `[,]`, and `*` modifiers left to right after the base type.
func (p *Parser) ParseType() ast.Type {
	defer p.PushContext("type")()
	t := p.parseBaseType()
	if t == nil {
		return nil
	}
	return p.parseTypePostfix(t)
}

func (p *Parser) parseTypePostfix(t ast.Type) ast.Type {
	for {
		c := p.cur
		m := c.Mark()
		SkipTrivia(c)

		if Punct("?")(c) {
			t = &ast.NullableType{Base: p.base(m), Inner: t}
			continue
		}
		if PunctExact("*")(c) && !PeekPunct(c, "*/") {
			t = &ast.PointerType{Base: p.base(m), Inner: t}
			continue
		}
		if PeekPunct(c, "[") {
			rank, ok := p.tryParseArrayRank()
			if !ok {
				c.Reset(m)
				return t
			}
			t = &ast.ArrayType{Base: p.base(m), Element: t, Rank: rank}
			continue
		}
		c.Reset(m)
		return t
	}
}

// tryParseArrayRank consumes `[` `,`* `]`, returning the rank (1 for
// `[]`, N for N-1 commas). Fails (without consuming) if what follows `[`
// isn't a clean rank specifier, so an indexer-like `[expr]` elsewhere
// isn't mistaken for an array type.
func (p *Parser) tryParseArrayRank() (int, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("[")(c) {
		return 0, false
	}
	rank := 1
	for {
		SkipTrivia(c)
		if PunctExact(",")(c) {
			rank++
			continue
		}
		break
	}
	SkipTrivia(c)
	if !PunctExact("]")(c) {
		c.Reset(m)
		return 0, false
	}
	return rank, true
}

func (p *Parser) parseBaseType() ast.Type {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	if PeekContextual(c, "var") && !followedByDot(c, "var") {
		ContextualKeyword("var")(c)
		return &ast.VarType{Base: p.base(m)}
	}
	if PeekContextual(c, "dynamic") {
		ContextualKeyword("dynamic")(c)
		return &ast.DynamicType{Base: p.base(m)}
	}
	if PeekKeyword(c, "delegate") {
		if fp, ok := p.tryParseFunctionPointerType(); ok {
			return fp
		}
	}
	if PeekKeyword(c, "ref") {
		return p.parseRefType()
	}
	if PeekPunct(c, "(") {
		if t, ok := p.tryParseTupleType(); ok {
			return t
		}
	}

	ident := p.tryPeekTypeName()
	if ident != "" {
		if primitiveNames[ident] {
			consumePrimitive(c, ident)
			return &ast.PrimitiveType{Base: p.base(m), Name: ident}
		}
		name := p.parseQualifiedName()
		if name == nil {
			return nil
		}
		var base ast.Type = &ast.ReferenceType{Base: p.base(m), Name: name}
		if args, ok := p.tryParseGenericArgs(); ok {
			base = &ast.GenericType{Base: p.base(m), BaseType: base, Args: args}
		}
		return base
	}

	p.Fail("type", "", "expected a type")
	return nil
}

func followedByDot(c *Cursor, word string) bool {
	m := c.Mark()
	ok := ContextualKeyword(word)(c) && PeekPunct(c, ".")
	c.Reset(m)
	return ok
}

// tryPeekTypeName returns the identifier text that would start a type
// here (a primitive keyword or an identifier), without consuming it.
func (p *Parser) tryPeekTypeName() string {
	c := p.cur
	m := c.Mark()
	SkipTrivia(c)
	for kw := range primitiveNames {
		if PeekKeyword(c, kw) {
			return kw
		}
	}
	text := peekIdentifier(c)
	c.Reset(m)
	return text
}

func consumePrimitive(c *Cursor, name string) {
	SkipTrivia(c)
	c.AdvanceBytes(len(name))
}

// parseQualifiedName parses `A.B.C`, stopping before a `.` that is
// actually the start of a member-access expression rather than part of
// the type name (that distinction only matters to the caller, which
// treats the whole dotted run as one ReferenceType/GenericType name).
func (p *Parser) parseQualifiedName() *ast.Identifier {
	c := p.cur
	m := c.Mark()
	first, ok := Ident(c)
	if !ok {
		return nil
	}
	segments := []string{first}
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !PunctExact(".")(c) {
			c.Reset(save)
			break
		}
		seg, ok := Ident(c)
		if !ok {
			c.Reset(save)
			break
		}
		segments = append(segments, seg)
	}
	if len(segments) == 1 {
		return &ast.Identifier{Base: p.base(m), Simple: segments[0]}
	}
	return &ast.Identifier{Base: p.base(m), Segments: segments}
}

// tryParseGenericArgs speculatively parses `<T1, T2, ...>` as a type
// argument list, rolling back entirely on failure so a bare `<` used as
// a relational operator is never mistaken for one.
func (p *Parser) tryParseGenericArgs() ([]ast.Type, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("<")(c) {
		return nil, false
	}
	SkipTrivia(c)
	if PunctExact(">")(c) {
		// unbound generic, e.g. typeof(List<>)
		return nil, true
	}
	if PeekPunct(c, ",") {
		// unbound generic with arity, e.g. nameof(Dictionary<,>)
		for PunctExact(",")(c) {
			SkipTrivia(c)
		}
		if closeGenericAngle(c) {
			return nil, true
		}
		c.Reset(m)
		return nil, false
	}
	var args []ast.Type
	for {
		t := p.parseBaseTypeLenient()
		if t == nil {
			c.Reset(m)
			return nil, false
		}
		t = p.parseTypePostfix(t)
		args = append(args, t)
		SkipTrivia(c)
		if PunctExact(",")(c) {
			continue
		}
		break
	}
	SkipTrivia(c)
	if !closeGenericAngle(c) {
		c.Reset(m)
		return nil, false
	}
	return args, true
}

// parseBaseTypeLenient is parseBaseType without emitting a diagnostic on
// failure, since callers here use it purely as a speculative probe.
func (p *Parser) parseBaseTypeLenient() ast.Type {
	saved, savedMode := p.errors, p.mode
	p.mode = Lenient
	t := p.parseBaseType()
	p.errors, p.mode = saved, savedMode
	return t
}

// closeGenericAngle consumes a closing `>` for a generic argument list.
// It also accepts the first `>` of a `>>`/`>>>` run, splitting it so that
// `List<List<int>>` doesn't require a space before the final `>>`.
func closeGenericAngle(c *Cursor) bool {
	SkipTrivia(c)
	if c.HasPrefix(">") {
		c.AdvanceBytes(1)
		return true
	}
	return false
}

func (p *Parser) tryParseTupleType() (ast.Type, bool) {
	c := p.cur
	m := c.Mark()
	if !PunctExact("(")(c) {
		return nil, false
	}
	var elems []*ast.TupleElement
	for {
		SkipTrivia(c)
		em := c.Mark()
		t := p.parseBaseTypeLenient()
		if t == nil {
			c.Reset(m)
			return nil, false
		}
		t = p.parseTypePostfix(t)
		name := ""
		if n, ok := Ident(c); ok {
			name = n
		}
		elems = append(elems, &ast.TupleElement{Base: p.base(em), Name: name, Type: t})
		SkipTrivia(c)
		if PunctExact(",")(c) {
			continue
		}
		break
	}
	SkipTrivia(c)
	if !PunctExact(")")(c) || len(elems) < 2 {
		c.Reset(m)
		return nil, false
	}
	return &ast.TupleType{Base: p.base(m), Elements: elems}, true
}

func (p *Parser) parseRefType() ast.Type {
	c := p.cur
	m := c.Mark()
	if !Keyword("ref")(c) {
		return nil
	}
	readOnly := false
	save := c.Mark()
	if Keyword("readonly")(c) {
		readOnly = true
	} else {
		c.Reset(save)
	}
	inner := p.parseBaseType()
	if inner == nil {
		return nil
	}
	inner = p.parseTypePostfix(inner)
	return &ast.RefType{Base: p.base(m), Inner: inner, ReadOnly: readOnly}
}

func (p *Parser) tryParseFunctionPointerType() (ast.Type, bool) {
	c := p.cur
	m := c.Mark()
	if !Keyword("delegate")(c) {
		return nil, false
	}
	if !PunctExact("*")(c) {
		c.Reset(m)
		return nil, false
	}
	unmanaged := false
	var conventions []string
	save := c.Mark()
	if ContextualKeyword("unmanaged")(c) {
		unmanaged = true
	} else {
		c.Reset(save)
	}
	if unmanaged {
		SkipTrivia(c)
		if PunctExact("[")(c) {
			for {
				n, ok := Ident(c)
				if !ok {
					break
				}
				conventions = append(conventions, n)
				SkipTrivia(c)
				if PunctExact(",")(c) {
					continue
				}
				break
			}
			SkipTrivia(c)
			PunctExact("]")(c)
		}
	}
	SkipTrivia(c)
	if !PunctExact("<")(c) {
		c.Reset(m)
		return nil, false
	}
	var params []*ast.FunctionPointerParam
	var ret ast.Type
	for {
		pm := c.Mark()
		modifier := ""
		for _, mod := range []string{"ref readonly", "ref", "in", "out"} {
			sv := c.Mark()
			if matchModifierWords(c, mod) {
				modifier = mod
				break
			}
			c.Reset(sv)
		}
		t := p.parseBaseTypeLenient()
		if t == nil {
			c.Reset(m)
			return nil, false
		}
		t = p.parseTypePostfix(t)
		SkipTrivia(c)
		if PunctExact(",")(c) {
			params = append(params, &ast.FunctionPointerParam{Base: p.base(pm), Modifier: modifier, Type: t})
			continue
		}
		ret = t
		break
	}
	SkipTrivia(c)
	if !closeGenericAngle(c) {
		c.Reset(m)
		return nil, false
	}
	return &ast.FunctionPointerType{Base: p.base(m), Unmanaged: unmanaged, CallingConvs: conventions, Params: params, Return: ret}, true
}

func matchModifierWords(c *Cursor, phrase string) bool {
	m := c.Mark()
	for i, word := range splitWords(phrase) {
		if i > 0 {
			SkipTrivia(c)
		}
		if !ContextualKeyword(word)(c) {
			c.Reset(m)
			return false
		}
	}
	return true
}

func splitWords(s string) []string {
	var out []string
	word := ""
	for _, r := range s {
		if r == ' ' {
			if word != "" {
				out = append(out, word)
				word = ""
			}
			continue
		}
		word += string(r)
	}
	if word != "" {
		out = append(out, word)
	}
	return out
}
