package ast

// TopLevelDeclaration is the sum of declarations a CompilationUnit may
// contain directly: Namespace, Class, Struct, Interface, Enum, Record,
// Delegate, GlobalAttribute.
type TopLevelDeclaration interface {
	Node
	topLevelDeclNode()
}

// UsingDirective is `using [static] [alias =] Name;` or a global using.
type UsingDirective struct {
	Base
	Static bool
	Alias  string // "" unless this is an alias directive
	Name   *Identifier
}

func (d *UsingDirective) Children(visit func(Node)) {
	if d.Name != nil {
		visit(d.Name)
	}
}

// Attribute is `[Target: Name(args)]`.
type Attribute struct {
	Base
	Target    string // "", "assembly", "module", "return", "param", ...
	Name      *Identifier
	Arguments []*Argument
}

func (a *Attribute) Children(visit func(Node)) {
	if a.Name != nil {
		visit(a.Name)
	}
	visitList(visit, a.Arguments)
}

// Constraint is one entry of a type-parameter constraint clause: a base
// type/interface constraint, or one of the special constraints
// (class, class?, struct, new(), unmanaged, notnull, default).
type Constraint struct {
	Base
	Kind string // "type", "class", "struct", "new", "unmanaged", "notnull", "default"
	Type Type   // set only when Kind == "type"
}

func (c *Constraint) Children(visit func(Node)) {
	if c.Type != nil {
		visit(c.Type)
	}
}

// TypeParamConstraintClause is `where T : Constraint, Constraint, ...`,
// attached to the owning generic declaration rather than to the type
// parameter itself.
type TypeParamConstraintClause struct {
	Base
	ParamName   string
	Constraints []*Constraint
}

func (c *TypeParamConstraintClause) Children(visit func(Node)) { visitList(visit, c.Constraints) }

// TypeParameter is one `<T>` entry, with optional variance (in/out).
type TypeParameter struct {
	Base
	Variance string // "", "in", "out"
	Name     string
}

func (*TypeParameter) Children(visit func(Node)) {}

// Parameter is one method/constructor/delegate parameter.
type Parameter struct {
	Base
	Attributes []*Attribute
	Modifier   string // "", "ref", "out", "in", "params", "this", "scoped"
	Type       Type
	Name       string
	Default    Expression // nil if no default value
}

func (p *Parameter) Children(visit func(Node)) {
	visitList(visit, p.Attributes)
	if p.Type != nil {
		visit(p.Type)
	}
	if p.Default != nil {
		visit(p.Default)
	}
}

// Member is the sum of type-body members: methods, fields, properties,
// constructors, destructors, events, indexers, operators, and nested
// types.
type Member interface {
	Node
	memberNode()
}

// ErrorMember is a lenient-mode recovery placeholder standing in for a
// member declaration the parser could not make sense of.
type ErrorMember struct {
	Base
}

func (*ErrorMember) memberNode()              {}
func (*ErrorMember) Children(visit func(Node)) {}

// FieldDecl is `modifiers T name [= init], name2 [= init2];`.
type FieldDecl struct {
	Base
	Attributes  []*Attribute
	Modifiers   []string
	Type        Type
	Declarators []*VariableDeclarator
}

func (*FieldDecl) memberNode() {}
func (d *FieldDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Type != nil {
		visit(d.Type)
	}
	visitList(visit, d.Declarators)
}

// MethodDecl is `modifiers TReturn Name<T>(params) where ... { body }`.
type MethodDecl struct {
	Base
	Attributes  []*Attribute
	Modifiers   []string
	Return      Type
	Name        string
	TypeParams  []*TypeParameter
	Params      []*Parameter
	Constraints []*TypeParamConstraintClause
	Body        *BlockStmt // nil for an abstract/extern/expression-bodied method
	ExprBody    Expression // nil unless the method is expression-bodied
}

func (*MethodDecl) memberNode() {}
func (d *MethodDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Return != nil {
		visit(d.Return)
	}
	visitList(visit, d.TypeParams)
	visitList(visit, d.Params)
	visitList(visit, d.Constraints)
	if d.Body != nil {
		visit(d.Body)
	}
	if d.ExprBody != nil {
		visit(d.ExprBody)
	}
}

// ConstructorDecl is `modifiers Name(params) [: this(...)|base(...)] { body }`.
type ConstructorDecl struct {
	Base
	Attributes    []*Attribute
	Modifiers     []string
	Name          string
	Params        []*Parameter
	Initializer   *ConstructorInitializer // nil if absent
	Body          *BlockStmt
}

func (*ConstructorDecl) memberNode() {}
func (d *ConstructorDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	visitList(visit, d.Params)
	if d.Initializer != nil {
		visit(d.Initializer)
	}
	if d.Body != nil {
		visit(d.Body)
	}
}

// ConstructorInitializer is the `: this(args)` or `: base(args)` clause.
type ConstructorInitializer struct {
	Base
	IsBase    bool // true for `base(...)`, false for `this(...)`
	Arguments []*Argument
}

func (i *ConstructorInitializer) Children(visit func(Node)) { visitList(visit, i.Arguments) }

// DestructorDecl is `~Name() { body }`.
type DestructorDecl struct {
	Base
	Name string
	Body *BlockStmt
}

func (*DestructorDecl) memberNode() {}
func (d *DestructorDecl) Children(visit func(Node)) {
	if d.Body != nil {
		visit(d.Body)
	}
}

// AccessorDecl is one `get`/`set`/`init`/`add`/`remove` accessor.
type AccessorDecl struct {
	Base
	Kind      string // "get", "set", "init", "add", "remove"
	Modifiers []string
	Body      *BlockStmt // nil for an auto-accessor (`get;`) or expression-bodied
	ExprBody  Expression
}

func (a *AccessorDecl) Children(visit func(Node)) {
	if a.Body != nil {
		visit(a.Body)
	}
	if a.ExprBody != nil {
		visit(a.ExprBody)
	}
}

// PropertyDecl is `modifiers T Name { accessors } [= init];` including
// expression-bodied properties (`=> expr;`, ExprBody set, Accessors empty).
type PropertyDecl struct {
	Base
	Attributes []*Attribute
	Modifiers  []string
	Type       Type
	Name       string
	Accessors  []*AccessorDecl
	ExprBody   Expression
	Init       Expression // nil unless an auto-property has `= init`
}

func (*PropertyDecl) memberNode() {}
func (d *PropertyDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Type != nil {
		visit(d.Type)
	}
	visitList(visit, d.Accessors)
	if d.ExprBody != nil {
		visit(d.ExprBody)
	}
	if d.Init != nil {
		visit(d.Init)
	}
}

// IndexerDecl is `modifiers T this[params] { accessors }`.
type IndexerDecl struct {
	Base
	Attributes []*Attribute
	Modifiers  []string
	Type       Type
	Params     []*Parameter
	Accessors  []*AccessorDecl
	ExprBody   Expression
}

func (*IndexerDecl) memberNode() {}
func (d *IndexerDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Type != nil {
		visit(d.Type)
	}
	visitList(visit, d.Params)
	visitList(visit, d.Accessors)
	if d.ExprBody != nil {
		visit(d.ExprBody)
	}
}

// EventDecl is `modifiers event T Name { accessors };` or the
// field-like `modifiers event T Name;`.
type EventDecl struct {
	Base
	Attributes []*Attribute
	Modifiers  []string
	Type       Type
	Name       string
	Accessors  []*AccessorDecl // empty for the field-like form
}

func (*EventDecl) memberNode() {}
func (d *EventDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Type != nil {
		visit(d.Type)
	}
	visitList(visit, d.Accessors)
}

// OperatorDecl is `modifiers static TReturn operator OP(params) { body }`,
// covering overloaded operators and user-defined conversions.
type OperatorDecl struct {
	Base
	Attributes []*Attribute
	Modifiers  []string
	Return     Type
	Operator   string // e.g. "+", "==", "implicit", "explicit"
	Params     []*Parameter
	Body       *BlockStmt
	ExprBody   Expression
}

func (*OperatorDecl) memberNode() {}
func (d *OperatorDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Return != nil {
		visit(d.Return)
	}
	visitList(visit, d.Params)
	if d.Body != nil {
		visit(d.Body)
	}
	if d.ExprBody != nil {
		visit(d.ExprBody)
	}
}

// NestedTypeMember wraps a TopLevelDeclaration (class/struct/interface/
// enum/record/delegate) declared inside another type's body.
type NestedTypeMember struct {
	Base
	Decl TopLevelDeclaration
}

func (*NestedTypeMember) memberNode() {}
func (m *NestedTypeMember) Children(visit func(Node)) {
	if m.Decl != nil {
		visit(m.Decl)
	}
}

// BaseList is the `: Base, IInterface1, IInterface2` clause of a type
// declaration.
type BaseList struct {
	Base
	Types []Type
}

func (b *BaseList) Children(visit func(Node)) { visitList(visit, b.Types) }

// NamespaceDecl is a block-scoped `namespace N { ... }` declaration. A
// file-scoped namespace (`namespace N;`) is represented on CompilationUnit
// directly rather than as a NamespaceDecl.
type NamespaceDecl struct {
	Base
	Name         *Identifier
	Usings       []*UsingDirective
	Declarations []TopLevelDeclaration
}

func (*NamespaceDecl) topLevelDeclNode() {}
func (d *NamespaceDecl) Children(visit func(Node)) {
	if d.Name != nil {
		visit(d.Name)
	}
	visitList(visit, d.Usings)
	visitList(visit, d.Declarations)
}

// ClassDecl is `modifiers class Name<T> : Base where ... { members }`,
// including a primary constructor's parameter list when present.
type ClassDecl struct {
	Base
	Attributes          []*Attribute
	Modifiers           []string
	Name                string
	TypeParams          []*TypeParameter
	PrimaryConstructor  []*Parameter // nil unless a primary constructor is declared
	Bases               *BaseList
	Constraints         []*TypeParamConstraintClause
	Members             []Member
}

func (*ClassDecl) topLevelDeclNode() {}
func (d *ClassDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	visitList(visit, d.TypeParams)
	visitList(visit, d.PrimaryConstructor)
	if d.Bases != nil {
		visit(d.Bases)
	}
	visitList(visit, d.Constraints)
	visitList(visit, d.Members)
}

// StructDecl mirrors ClassDecl for `struct`.
type StructDecl struct {
	Base
	Attributes         []*Attribute
	Modifiers          []string
	Name               string
	TypeParams         []*TypeParameter
	PrimaryConstructor []*Parameter
	Bases              *BaseList
	Constraints        []*TypeParamConstraintClause
	Members            []Member
}

func (*StructDecl) topLevelDeclNode() {}
func (d *StructDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	visitList(visit, d.TypeParams)
	visitList(visit, d.PrimaryConstructor)
	if d.Bases != nil {
		visit(d.Bases)
	}
	visitList(visit, d.Constraints)
	visitList(visit, d.Members)
}

// InterfaceDecl is `modifiers interface Name<T> : Base... where ... { members }`.
type InterfaceDecl struct {
	Base
	Attributes  []*Attribute
	Modifiers   []string
	Name        string
	TypeParams  []*TypeParameter
	Bases       *BaseList
	Constraints []*TypeParamConstraintClause
	Members     []Member
}

func (*InterfaceDecl) topLevelDeclNode() {}
func (d *InterfaceDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	visitList(visit, d.TypeParams)
	if d.Bases != nil {
		visit(d.Bases)
	}
	visitList(visit, d.Constraints)
	visitList(visit, d.Members)
}

// EnumMember is one `Name [= value]` entry of an EnumDecl.
type EnumMember struct {
	Base
	Attributes []*Attribute
	Name       string
	Value      Expression // nil if not explicitly assigned
}

func (m *EnumMember) Children(visit func(Node)) {
	visitList(visit, m.Attributes)
	if m.Value != nil {
		visit(m.Value)
	}
}

// EnumDecl is `modifiers enum Name : UnderlyingType { members }`.
type EnumDecl struct {
	Base
	Attributes []*Attribute
	Modifiers  []string
	Name       string
	Underlying Type // nil for the implicit `int` base
	Members    []*EnumMember
}

func (*EnumDecl) topLevelDeclNode() {}
func (d *EnumDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Underlying != nil {
		visit(d.Underlying)
	}
	visitList(visit, d.Members)
}

// RecordDecl is `modifiers record [class|struct] Name<T>(params) : Base
// where ... { members }`.
type RecordDecl struct {
	Base
	Attributes         []*Attribute
	Modifiers          []string
	IsStruct           bool // true for `record struct`
	Name               string
	TypeParams         []*TypeParameter
	PrimaryConstructor []*Parameter
	Bases              *BaseList
	Constraints        []*TypeParamConstraintClause
	Members            []Member
}

func (*RecordDecl) topLevelDeclNode() {}
func (d *RecordDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	visitList(visit, d.TypeParams)
	visitList(visit, d.PrimaryConstructor)
	if d.Bases != nil {
		visit(d.Bases)
	}
	visitList(visit, d.Constraints)
	visitList(visit, d.Members)
}

// DelegateDecl is `modifiers delegate TReturn Name<T>(params) where ...;`.
type DelegateDecl struct {
	Base
	Attributes  []*Attribute
	Modifiers   []string
	Return      Type
	Name        string
	TypeParams  []*TypeParameter
	Params      []*Parameter
	Constraints []*TypeParamConstraintClause
}

func (*DelegateDecl) topLevelDeclNode() {}
func (d *DelegateDecl) Children(visit func(Node)) {
	visitList(visit, d.Attributes)
	if d.Return != nil {
		visit(d.Return)
	}
	visitList(visit, d.TypeParams)
	visitList(visit, d.Params)
	visitList(visit, d.Constraints)
}

// GlobalAttributeDecl is a top-level `[assembly: ...]` or `[module: ...]`
// attribute.
type GlobalAttributeDecl struct {
	Base
	Attribute *Attribute
}

func (*GlobalAttributeDecl) topLevelDeclNode() {}
func (d *GlobalAttributeDecl) Children(visit func(Node)) {
	if d.Attribute != nil {
		visit(d.Attribute)
	}
}

// CompilationUnit is the root of a parsed file.
type CompilationUnit struct {
	Base
	GlobalAttributes     []*Attribute
	GlobalUsings         []*UsingDirective
	Usings               []*UsingDirective
	FileScopedNamespace  *Identifier // nil unless a file-scoped namespace is present
	TopLevelDeclarations []TopLevelDeclaration
	TopLevelStatements   []Statement
}

func (u *CompilationUnit) Children(visit func(Node)) {
	visitList(visit, u.GlobalAttributes)
	visitList(visit, u.GlobalUsings)
	visitList(visit, u.Usings)
	if u.FileScopedNamespace != nil {
		visit(u.FileScopedNamespace)
	}
	visitList(visit, u.TopLevelDeclarations)
	visitList(visit, u.TopLevelStatements)
}
