package ast

// Type is the sum of all type-expression variants: Primitive, Reference,
// Generic, Array, Nullable, Pointer, Tuple, Ref, FunctionPointer, Dynamic,
// Var.
type Type interface {
	Node
	typeNode()
}

// PrimitiveType is one of the built-in keyword types (int, bool, string...).
type PrimitiveType struct {
	Base
	Name string
}

func (*PrimitiveType) typeNode()                    {}
func (t *PrimitiveType) Children(visit func(Node)) {}

// ReferenceType names a user or framework type by (possibly qualified)
// identifier, with no generic arguments.
type ReferenceType struct {
	Base
	Name *Identifier
}

func (*ReferenceType) typeNode() {}
func (t *ReferenceType) Children(visit func(Node)) {
	if t.Name != nil {
		visit(t.Name)
	}
}

// GenericType is a base type applied to one or more type arguments:
// Dictionary<string, int>.
type GenericType struct {
	Base
	BaseType Type
	Args     []Type
}

func (*GenericType) typeNode() {}
func (t *GenericType) Children(visit func(Node)) {
	if t.BaseType != nil {
		visit(t.BaseType)
	}
	visitList(visit, t.Args)
}

// ArrayType is an element type with a rank (1 for T[], N for a
// multi-dimensional T[,,...]).
type ArrayType struct {
	Base
	Element Type
	Rank    int
}

func (*ArrayType) typeNode() {}
func (t *ArrayType) Children(visit func(Node)) {
	if t.Element != nil {
		visit(t.Element)
	}
}

// NullableType is `T?`.
type NullableType struct {
	Base
	Inner Type
}

func (*NullableType) typeNode() {}
func (t *NullableType) Children(visit func(Node)) {
	if t.Inner != nil {
		visit(t.Inner)
	}
}

// PointerType is `T*`, valid only in unsafe contexts.
type PointerType struct {
	Base
	Inner Type
}

func (*PointerType) typeNode() {}
func (t *PointerType) Children(visit func(Node)) {
	if t.Inner != nil {
		visit(t.Inner)
	}
}

// TupleElement is one (optionally named) element of a TupleType.
type TupleElement struct {
	Base
	Name string
	Type Type
}

func (*TupleElement) typeNode() {}
func (e *TupleElement) Children(visit func(Node)) {
	if e.Type != nil {
		visit(e.Type)
	}
}

// TupleType is `(T1 a, T2 b, ...)` used as a type.
type TupleType struct {
	Base
	Elements []*TupleElement
}

func (*TupleType) typeNode() {}
func (t *TupleType) Children(visit func(Node)) { visitList(visit, t.Elements) }

// RefType is `ref T` / `ref readonly T` in a signature position.
type RefType struct {
	Base
	Inner    Type
	ReadOnly bool
}

func (*RefType) typeNode() {}
func (t *RefType) Children(visit func(Node)) {
	if t.Inner != nil {
		visit(t.Inner)
	}
}

// FunctionPointerParam is one parameter of a FunctionPointerType.
type FunctionPointerParam struct {
	Base
	Modifier string // "", "ref", "in", "out"
	Type     Type
}

func (*FunctionPointerParam) typeNode() {}
func (p *FunctionPointerParam) Children(visit func(Node)) {
	if p.Type != nil {
		visit(p.Type)
	}
}

// FunctionPointerType is `delegate* <managed|unmanaged>[<call conv>]<T1, T2, TReturn>`.
type FunctionPointerType struct {
	Base
	Unmanaged    bool
	CallingConvs []string
	Params       []*FunctionPointerParam
	Return       Type
}

func (*FunctionPointerType) typeNode() {}
func (t *FunctionPointerType) Children(visit func(Node)) {
	visitList(visit, t.Params)
	if t.Return != nil {
		visit(t.Return)
	}
}

func (t *FunctionPointerType) String() string {
	out := "delegate*"
	if t.Unmanaged {
		out += " unmanaged"
	}
	return out
}

// DynamicType is the `dynamic` keyword type.
type DynamicType struct{ Base }

func (*DynamicType) typeNode()                  {}
func (*DynamicType) Children(visit func(Node)) {}

// VarType is the `var` implicit-typing placeholder.
type VarType struct{ Base }

func (*VarType) typeNode()                  {}
func (*VarType) Children(visit func(Node)) {}
