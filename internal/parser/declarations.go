package parser

import (
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

var memberModifierWords = []string{
	"public", "private", "protected", "internal", "static", "virtual",
	"override", "abstract", "sealed", "readonly", "extern", "unsafe",
	"partial", "new", "volatile", "required", "async", "fixed", "const",
}

func (p *Parser) parseModifiers() []string {
	c := p.cur
	var mods []string
	for {
		matched := false
		for _, mod := range memberModifierWords {
			save := c.Mark()
			if Keyword(mod)(c) || ContextualKeyword(mod)(c) {
				mods = append(mods, mod)
				matched = true
				break
			}
			c.Reset(save)
		}
		if !matched {
			return mods
		}
	}
}

func (p *Parser) parseAttributeLists() []*ast.Attribute {
	var out []*ast.Attribute
	c := p.cur
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !PunctExact("[")(c) {
			c.Reset(save)
			return out
		}
		target := ""
		tsave := c.Mark()
		if n, ok := Ident(c); ok {
			SkipTrivia(c)
			if PunctExact(":")(c) {
				target = n
			} else {
				c.Reset(tsave)
			}
		} else {
			c.Reset(tsave)
		}
		attrs, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("]")}, func(c *Cursor) (*ast.Attribute, bool) {
			return p.parseOneAttribute(target)
		})
		SkipTrivia(c)
		if !PunctExact("]")(c) {
			c.Reset(save)
			return out
		}
		out = append(out, attrs...)
	}
}

func (p *Parser) parseOneAttribute(target string) (*ast.Attribute, bool) {
	c := p.cur
	m := c.Mark()
	name := p.parseQualifiedName()
	if name == nil {
		return nil, false
	}
	var args []*ast.Argument
	SkipTrivia(c)
	if PeekPunct(c, "(") {
		args, _ = p.parseArgumentList()
	}
	return &ast.Attribute{Base: p.base(m), Target: target, Name: name, Arguments: args}, true
}

// ParseFile parses a full compilation unit. In Strict mode, a grammar
// failure unwinds via the parseAbort panic raised by Parser.Fail; the
// caller recovers it here and returns the accumulated error instead of
// propagating the panic.
func (p *Parser) ParseFile() (unit *ast.CompilationUnit, err *diag.ParseError) {
	defer func() {
		if r := recover(); r != nil {
			if abort, ok := r.(parseAbort); ok {
				err = abort.err
				return
			}
			panic(r)
		}
	}()
	unit = p.parseCompilationUnit()
	return unit, nil
}

func (p *Parser) parseCompilationUnit() *ast.CompilationUnit {
	c := p.cur
	m := c.Mark()
	unit := &ast.CompilationUnit{}

	unit.GlobalAttributes = p.parseGlobalAttributes()
	unit.GlobalUsings, unit.Usings = p.parseUsingDirectives()

	SkipTrivia(c)
	nm := c.Mark()
	if Keyword("namespace")(c) {
		name := p.parseQualifiedName()
		SkipTrivia(c)
		if PunctExact(";")(c) {
			unit.FileScopedNamespace = name
		} else {
			c.Reset(nm)
		}
	}

	unit.TopLevelDeclarations = p.parseTopLevelDeclList(func(c *Cursor) bool { return c.AtEnd() })
	// Top-level statements (program-style files) are not parsed:
	// TopLevelStatements is left empty, and a statement at file level
	// fails as an unexpected declaration.
	unit.Base = p.base(m)
	return unit
}

func (p *Parser) parseGlobalAttributes() []*ast.Attribute {
	var out []*ast.Attribute
	c := p.cur
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !PunctExact("[")(c) {
			c.Reset(save)
			return out
		}
		target, ok := Ident(c)
		SkipTrivia(c)
		if !ok || (target != "assembly" && target != "module") || !PunctExact(":")(c) {
			c.Reset(save)
			return out
		}
		attrs, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("]")}, func(c *Cursor) (*ast.Attribute, bool) {
			return p.parseOneAttribute(target)
		})
		SkipTrivia(c)
		if !PunctExact("]")(c) {
			c.Reset(save)
			return out
		}
		out = append(out, attrs...)
	}
}

func (p *Parser) parseUsingDirectives() (global, local []*ast.UsingDirective) {
	c := p.cur
	for {
		save := c.Mark()
		SkipTrivia(c)
		isGlobal := false
		if ContextualKeyword("global")(c) {
			SkipTrivia(c)
			if !PeekKeyword(c, "using") {
				c.Reset(save)
				return
			}
			isGlobal = true
		}
		if !Keyword("using")(c) {
			c.Reset(save)
			return
		}
		um := save
		isStatic := false
		if Keyword("static")(c) {
			isStatic = true
		}
		alias := ""
		asave := c.Mark()
		if n, ok := Ident(c); ok {
			SkipTrivia(c)
			if PunctExact("=")(c) {
				alias = n
			} else {
				c.Reset(asave)
			}
		} else {
			c.Reset(asave)
		}
		name := p.parseQualifiedName()
		SkipTrivia(c)
		PunctExact(";")(c)
		dir := &ast.UsingDirective{Base: p.base(um), Static: isStatic, Alias: alias, Name: name}
		if isGlobal {
			global = append(global, dir)
		} else {
			local = append(local, dir)
		}
	}
}

func (p *Parser) parseTopLevelDeclRule(c *Cursor) (ast.TopLevelDeclaration, bool) {
	d := p.parseTopLevelDecl()
	return d, d != nil
}

func (p *Parser) parseTopLevelDecl() ast.TopLevelDeclaration {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	attrs := p.parseAttributeLists()
	SkipTrivia(c)

	mods := p.parseModifiers()

	switch {
	case Keyword("namespace")(c):
		return p.parseNamespace(m, attrs)
	case Keyword("class")(c):
		return p.parseClassLike(m, attrs, mods, "class")
	case Keyword("struct")(c):
		return p.parseClassLike(m, attrs, mods, "struct")
	case Keyword("interface")(c):
		return p.parseInterface(m, attrs, mods)
	case Keyword("enum")(c):
		return p.parseEnum(m, attrs, mods)
	case ContextualKeyword("record")(c):
		return p.parseRecord(m, attrs, mods)
	case Keyword("delegate")(c):
		return p.parseDelegate(m, attrs, mods)
	}

	if len(attrs) > 0 && len(mods) == 0 && !PeekKeyword(c, "class") {
		return &ast.GlobalAttributeDecl{Base: p.base(m), Attribute: attrs[0]}
	}

	p.Fail("declaration", "", "expected a type, namespace, or member declaration")
	return nil
}

func (p *Parser) parseNamespace(m Mark, attrs []*ast.Attribute) ast.TopLevelDeclaration {
	c := p.cur
	name := p.parseQualifiedName()
	SkipTrivia(c)
	PunctExact("{")(c)
	usings, localUsings := p.parseUsingDirectives()
	usings = append(usings, localUsings...)
	decls := p.parseTopLevelDeclList(PeekFn("}"))
	SkipTrivia(c)
	PunctExact("}")(c)
	return &ast.NamespaceDecl{Base: p.base(m), Name: name, Usings: usings, Declarations: decls}
}

func (p *Parser) parseTypeParamList() []*ast.TypeParameter {
	c := p.cur
	SkipTrivia(c)
	if !PunctExact("<")(c) {
		return nil
	}
	params, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(">")}, p.parseTypeParameter)
	SkipTrivia(c)
	closeGenericAngle(c)
	return params
}

func (p *Parser) parseBaseList() *ast.BaseList {
	c := p.cur
	save := c.Mark()
	SkipTrivia(c)
	if !PunctExact(":")(c) {
		c.Reset(save)
		return nil
	}
	bm := c.Mark()
	types, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(",")}, func(c *Cursor) (ast.Type, bool) {
		t := p.ParseType()
		return t, t != nil
	})
	return &ast.BaseList{Base: p.base(bm), Types: types}
}

func (p *Parser) parseConstraintClauses() []*ast.TypeParamConstraintClause {
	c := p.cur
	var out []*ast.TypeParamConstraintClause
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !ContextualKeyword("where")(c) {
			c.Reset(save)
			return out
		}
		cm := save
		name, _ := Ident(c)
		SkipTrivia(c)
		PunctExact(":")(c)
		constraints, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(",")}, p.parseConstraint)
		out = append(out, &ast.TypeParamConstraintClause{Base: p.base(cm), ParamName: name, Constraints: constraints})
	}
}

func (p *Parser) parseConstraint(c *Cursor) (*ast.Constraint, bool) {
	m := c.Mark()
	for _, special := range []string{"unmanaged", "notnull", "default"} {
		if ContextualKeyword(special)(c) {
			return &ast.Constraint{Base: p.base(m), Kind: special}, true
		}
	}
	if Keyword("class")(c) {
		SkipTrivia(c)
		PunctExact("?")(c)
		return &ast.Constraint{Base: p.base(m), Kind: "class"}, true
	}
	if Keyword("struct")(c) {
		return &ast.Constraint{Base: p.base(m), Kind: "struct"}, true
	}
	if Keyword("new")(c) {
		SkipTrivia(c)
		PunctExact("(")(c)
		SkipTrivia(c)
		PunctExact(")")(c)
		return &ast.Constraint{Base: p.base(m), Kind: "new"}, true
	}
	t := p.ParseType()
	if t == nil {
		return nil, false
	}
	return &ast.Constraint{Base: p.base(m), Kind: "type", Type: t}, true
}

func (p *Parser) tryParseParamList() []*ast.Parameter {
	c := p.cur
	save := c.Mark()
	SkipTrivia(c)
	if !PunctExact("(")(c) {
		c.Reset(save)
		return nil
	}
	params, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn(")"), AllowEmpty: true}, p.parseParameter)
	SkipTrivia(c)
	PunctExact(")")(c)
	return params
}

func (p *Parser) parseClassLike(m Mark, attrs []*ast.Attribute, mods []string, kind string) ast.TopLevelDeclaration {
	c := p.cur
	name, _ := Ident(c)
	typeParams := p.parseTypeParamList()
	primary := p.tryParseParamList()
	bases := p.parseBaseList()
	constraints := p.parseConstraintClauses()
	members := p.parseTypeBody()
	if kind == "struct" {
		return &ast.StructDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Name: name, TypeParams: typeParams, PrimaryConstructor: primary, Bases: bases, Constraints: constraints, Members: members}
	}
	return &ast.ClassDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Name: name, TypeParams: typeParams, PrimaryConstructor: primary, Bases: bases, Constraints: constraints, Members: members}
}

func (p *Parser) parseInterface(m Mark, attrs []*ast.Attribute, mods []string) ast.TopLevelDeclaration {
	c := p.cur
	name, _ := Ident(c)
	typeParams := p.parseTypeParamList()
	bases := p.parseBaseList()
	constraints := p.parseConstraintClauses()
	members := p.parseTypeBody()
	return &ast.InterfaceDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Name: name, TypeParams: typeParams, Bases: bases, Constraints: constraints, Members: members}
}

func (p *Parser) parseRecord(m Mark, attrs []*ast.Attribute, mods []string) ast.TopLevelDeclaration {
	c := p.cur
	isStruct := false
	save := c.Mark()
	if Keyword("struct")(c) {
		isStruct = true
	} else if Keyword("class")(c) {
	} else {
		c.Reset(save)
	}
	name, _ := Ident(c)
	typeParams := p.parseTypeParamList()
	primary := p.tryParseParamList()
	bases := p.parseBaseList()
	constraints := p.parseConstraintClauses()

	var members []ast.Member
	SkipTrivia(c)
	if PeekPunct(c, "{") {
		members = p.parseTypeBody()
	} else {
		p.expectSemicolon()
	}
	return &ast.RecordDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, IsStruct: isStruct, Name: name, TypeParams: typeParams, PrimaryConstructor: primary, Bases: bases, Constraints: constraints, Members: members}
}

func (p *Parser) parseEnum(m Mark, attrs []*ast.Attribute, mods []string) ast.TopLevelDeclaration {
	c := p.cur
	name, _ := Ident(c)
	var underlying ast.Type
	save := c.Mark()
	SkipTrivia(c)
	if PunctExact(":")(c) {
		underlying = p.ParseType()
	} else {
		c.Reset(save)
	}
	SkipTrivia(c)
	PunctExact("{")(c)
	members, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("}"), AllowEmpty: true, AllowTrailing: true}, p.parseEnumMember)
	SkipTrivia(c)
	PunctExact("}")(c)
	return &ast.EnumDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Name: name, Underlying: underlying, Members: members}
}

func (p *Parser) parseEnumMember(c *Cursor) (*ast.EnumMember, bool) {
	m := c.Mark()
	attrs := p.parseAttributeLists()
	name, ok := Ident(c)
	if !ok {
		return nil, false
	}
	var val ast.Expression
	save := c.Mark()
	SkipTrivia(c)
	if PunctExact("=")(c) {
		val = p.ParseExpression()
	} else {
		c.Reset(save)
	}
	return &ast.EnumMember{Base: p.base(m), Attributes: attrs, Name: name, Value: val}, true
}

func (p *Parser) parseDelegate(m Mark, attrs []*ast.Attribute, mods []string) ast.TopLevelDeclaration {
	ret := p.ParseType()
	name, _ := Ident(p.cur)
	typeParams := p.parseTypeParamList()
	params := p.tryParseParamList()
	constraints := p.parseConstraintClauses()
	p.expectSemicolon()
	return &ast.DelegateDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Return: ret, Name: name, TypeParams: typeParams, Params: params, Constraints: constraints}
}

func (p *Parser) parseTypeBody() []ast.Member {
	c := p.cur
	SkipTrivia(c)
	if !PunctExact("{")(c) {
		p.Fail("{", "", "expected a type body")
		return nil
	}
	members := ManyUntil(c, PeekFn("}"), p.parseMemberRule)
	SkipTrivia(c)
	PunctExact("}")(c)
	return members
}

func (p *Parser) parseMemberRule(c *Cursor) (ast.Member, bool) {
	start := c.Mark()
	m := p.parseMember()
	if _, isErr := m.(*ast.ErrorMember); isErr && p.Lenient() {
		p.recoverToMemberBoundary(start)
	}
	return m, m != nil
}

// parseMember dispatches on lookahead after attributes/modifiers to one
// of: nested type, destructor, constructor, operator/conversion, indexer,
// event, property, method, or field. The disambiguation between
// constructor/method/field/property/indexer/operator all hinges on what
// immediately follows a parsed type-or-name run, mirroring how a human
// reader disambiguates C# members: the return type is absent only for
// constructors and destructors.
func (p *Parser) parseMember() ast.Member {
	c := p.cur
	SkipTrivia(c)
	m := c.Mark()

	attrs := p.parseAttributeLists()
	mods := p.parseModifiers()

	SkipTrivia(c)
	switch {
	case PeekKeyword(c, "class"), PeekKeyword(c, "struct"), PeekKeyword(c, "interface"), PeekKeyword(c, "enum"), PeekContextual(c, "record"):
		var decl ast.TopLevelDeclaration
		switch {
		case Keyword("class")(c):
			decl = p.parseClassLike(m, attrs, mods, "class")
		case Keyword("struct")(c):
			decl = p.parseClassLike(m, attrs, mods, "struct")
		case Keyword("interface")(c):
			decl = p.parseInterface(m, attrs, mods)
		case Keyword("enum")(c):
			decl = p.parseEnum(m, attrs, mods)
		default:
			ContextualKeyword("record")(c)
			decl = p.parseRecord(m, attrs, mods)
		}
		return &ast.NestedTypeMember{Base: p.base(m), Decl: decl}
	case Keyword("delegate")(c):
		decl := p.parseDelegate(m, attrs, mods)
		return &ast.NestedTypeMember{Base: p.base(m), Decl: decl}
	case PunctExact("~")(c):
		name, _ := Ident(c)
		SkipTrivia(c)
		PunctExact("(")(c)
		SkipTrivia(c)
		PunctExact(")")(c)
		body := p.parseBlock()
		return &ast.DestructorDecl{Base: p.base(m), Name: name, Body: body}
	case PeekKeyword(c, "event"):
		return p.parseEvent(m, attrs, mods)
	}

	if decl, ok := p.tryParseConstructor(m, attrs, mods); ok {
		return decl
	}
	if decl, ok := p.tryParseOperator(m, attrs, mods); ok {
		return decl
	}

	retType := p.ParseType()
	if retType == nil {
		p.Fail("member", "", "expected a member declaration")
		return &ast.ErrorMember{Base: p.base(m)}
	}

	SkipTrivia(c)
	if Keyword("this")(c) {
		return p.parseIndexer(m, attrs, mods, retType)
	}

	name, ok := Ident(c)
	if !ok {
		p.Fail("identifier", "", "expected a member name")
		return &ast.ErrorMember{Base: p.base(m)}
	}

	SkipTrivia(c)
	if PeekPunct(c, "<") || PeekPunct(c, "(") {
		return p.parseMethod(m, attrs, mods, retType, name)
	}
	if PeekPunct(c, "{") || PeekPunct(c, "=>") {
		return p.parseProperty(m, attrs, mods, retType, name)
	}
	return p.parseField(m, attrs, mods, retType, name)
}

func (p *Parser) tryParseConstructor(m Mark, attrs []*ast.Attribute, mods []string) (ast.Member, bool) {
	c := p.cur
	save := c.Mark()
	name, ok := Ident(c)
	if !ok {
		c.Reset(save)
		return nil, false
	}
	SkipTrivia(c)
	if !PeekPunct(c, "(") {
		c.Reset(save)
		return nil, false
	}
	params := p.tryParseParamList()
	SkipTrivia(c)
	var init *ast.ConstructorInitializer
	if PunctExact(":")(c) {
		im := c.Mark()
		isBase := false
		if Keyword("base")(c) {
			isBase = true
		} else {
			Keyword("this")(c)
		}
		args, _ := p.parseArgumentList()
		init = &ast.ConstructorInitializer{Base: p.base(im), IsBase: isBase, Arguments: args}
	}
	SkipTrivia(c)
	if !PeekPunct(c, "{") && !PeekPunct(c, ";") && !PeekPunct(c, "=>") {
		c.Reset(save)
		return nil, false
	}
	var body *ast.BlockStmt
	if PunctExact(";")(c) {
	} else if PunctExact("=>")(c) {
		expr := p.ParseExpression()
		p.expectSemicolon()
		body = &ast.BlockStmt{Base: p.base(m), Statements: []ast.Statement{&ast.ExpressionStmt{Base: p.base(m), Expr: expr}}}
	} else {
		body = p.parseBlock()
	}
	return &ast.ConstructorDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Name: name, Params: params, Initializer: init, Body: body}, true
}

func (p *Parser) tryParseOperator(m Mark, attrs []*ast.Attribute, mods []string) (ast.Member, bool) {
	c := p.cur
	save := c.Mark()
	isConversion := Keyword("implicit")(c) || Keyword("explicit")(c)
	if !isConversion {
		c.Reset(save)
		ret := p.parseBaseTypeLenient()
		if ret == nil {
			c.Reset(save)
			return nil, false
		}
		ret = p.parseTypePostfix(ret)
		SkipTrivia(c)
		if !Keyword("operator")(c) {
			c.Reset(save)
			return nil, false
		}
		return p.finishOperator(m, attrs, mods, ret, false)
	}
	SkipTrivia(c)
	if !Keyword("operator")(c) {
		c.Reset(save)
		return nil, false
	}
	ret := p.ParseType()
	return p.finishOperator(m, attrs, mods, ret, isConversion)
}

func (p *Parser) finishOperator(m Mark, attrs []*ast.Attribute, mods []string, ret ast.Type, isConversion bool) (ast.Member, bool) {
	c := p.cur
	opName := ""
	if isConversion {
		opName = "implicit"
		if len(mods) > 0 {
			opName = mods[len(mods)-1]
		}
	} else {
		for _, op := range []string{"==", "!=", "<=", ">=", "<<", ">>", "++", "--", "+", "-", "*", "/", "%", "&", "|", "^", "!", "~", "<", ">", "true", "false"} {
			if PunctExact(op)(c) || Keyword(op)(c) {
				opName = op
				break
			}
		}
	}
	params := p.tryParseParamList()
	SkipTrivia(c)
	var body *ast.BlockStmt
	var exprBody ast.Expression
	if PunctExact("=>")(c) {
		exprBody = p.ParseExpression()
		p.expectSemicolon()
	} else {
		body = p.parseBlock()
	}
	return &ast.OperatorDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Return: ret, Operator: opName, Params: params, Body: body, ExprBody: exprBody}, true
}

func (p *Parser) parseIndexer(m Mark, attrs []*ast.Attribute, mods []string, t ast.Type) ast.Member {
	c := p.cur
	SkipTrivia(c)
	PunctExact("[")(c)
	params, _ := SeparatedList(c, SeparatedListOptions{Sep: PunctExact(","), Term: PeekFn("]")}, p.parseParameter)
	SkipTrivia(c)
	PunctExact("]")(c)
	SkipTrivia(c)
	var exprBody ast.Expression
	var accessors []*ast.AccessorDecl
	if PunctExact("=>")(c) {
		exprBody = p.ParseExpression()
		p.expectSemicolon()
	} else {
		PunctExact("{")(c)
		accessors = ManyUntil(c, PeekFn("}"), p.parseAccessorRule)
		SkipTrivia(c)
		PunctExact("}")(c)
	}
	return &ast.IndexerDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Type: t, Params: params, Accessors: accessors, ExprBody: exprBody}
}

func (p *Parser) parseEvent(m Mark, attrs []*ast.Attribute, mods []string) ast.Member {
	c := p.cur
	Keyword("event")(c)
	t := p.ParseType()
	name, _ := Ident(c)
	SkipTrivia(c)
	var accessors []*ast.AccessorDecl
	if PunctExact("{")(c) {
		accessors = ManyUntil(c, PeekFn("}"), p.parseAccessorRule)
		SkipTrivia(c)
		PunctExact("}")(c)
	} else {
		p.expectSemicolon()
	}
	return &ast.EventDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Type: t, Name: name, Accessors: accessors}
}

func (p *Parser) parseMethod(m Mark, attrs []*ast.Attribute, mods []string, ret ast.Type, name string) ast.Member {
	c := p.cur
	typeParams := p.parseTypeParamList()
	params := p.tryParseParamList()
	constraints := p.parseConstraintClauses()
	SkipTrivia(c)
	var body *ast.BlockStmt
	var exprBody ast.Expression
	if PunctExact("=>")(c) {
		exprBody = p.ParseExpression()
		p.expectSemicolon()
	} else if PunctExact(";")(c) {
	} else {
		body = p.parseBlock()
	}
	return &ast.MethodDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Return: ret, Name: name, TypeParams: typeParams, Params: params, Constraints: constraints, Body: body, ExprBody: exprBody}
}

func (p *Parser) parseProperty(m Mark, attrs []*ast.Attribute, mods []string, t ast.Type, name string) ast.Member {
	c := p.cur
	SkipTrivia(c)
	var exprBody ast.Expression
	var accessors []*ast.AccessorDecl
	var init ast.Expression
	if PunctExact("=>")(c) {
		exprBody = p.ParseExpression()
		p.expectSemicolon()
	} else {
		PunctExact("{")(c)
		accessors = ManyUntil(c, PeekFn("}"), p.parseAccessorRule)
		SkipTrivia(c)
		PunctExact("}")(c)
		save := c.Mark()
		SkipTrivia(c)
		if PunctExact("=")(c) {
			init = p.ParseExpression()
			p.expectSemicolon()
		} else {
			c.Reset(save)
		}
	}
	return &ast.PropertyDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Type: t, Name: name, Accessors: accessors, ExprBody: exprBody, Init: init}
}

func (p *Parser) parseAccessorRule(c *Cursor) (*ast.AccessorDecl, bool) {
	m := c.Mark()
	mods := p.parseModifiers()
	kind := ""
	for _, k := range []string{"get", "set", "init", "add", "remove"} {
		if ContextualKeyword(k)(c) {
			kind = k
			break
		}
	}
	if kind == "" {
		return nil, false
	}
	SkipTrivia(c)
	var body *ast.BlockStmt
	var exprBody ast.Expression
	if PunctExact("=>")(c) {
		exprBody = p.ParseExpression()
		p.expectSemicolon()
	} else if PunctExact(";")(c) {
	} else {
		body = p.parseBlock()
	}
	return &ast.AccessorDecl{Base: p.base(m), Kind: kind, Modifiers: mods, Body: body, ExprBody: exprBody}, true
}

func (p *Parser) parseField(m Mark, attrs []*ast.Attribute, mods []string, t ast.Type, firstName string) ast.Member {
	c := p.cur
	var init ast.Expression
	save := c.Mark()
	SkipTrivia(c)
	if PunctExact("=")(c) {
		init = p.parseAssignment()
	} else {
		c.Reset(save)
	}
	decls := []*ast.VariableDeclarator{{Base: p.base(m), Name: firstName, Init: init}}
	for {
		save := c.Mark()
		SkipTrivia(c)
		if !PunctExact(",")(c) {
			c.Reset(save)
			break
		}
		if d, ok := p.parseVariableDeclarator(c); ok {
			decls = append(decls, d)
		} else {
			c.Reset(save)
			break
		}
	}
	p.expectSemicolon()
	return &ast.FieldDecl{Base: p.base(m), Attributes: attrs, Modifiers: mods, Type: t, Declarators: decls}
}
