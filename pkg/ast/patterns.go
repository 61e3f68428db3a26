package ast

// Pattern is the sum of every pattern-matching variant: Declaration,
// Constant, Var, Discard, Type, Property, Positional, Tuple, List,
// Slice, Relational, LogicalAnd, LogicalOr, Not, Parenthesized.
type Pattern interface {
	Node
	patternNode()
}

// DeclarationPattern is `T name`, binding the matched value to a new
// variable of the checked type.
type DeclarationPattern struct {
	Base
	Type Type
	Name string
}

func (*DeclarationPattern) patternNode() {}
func (p *DeclarationPattern) Children(visit func(Node)) {
	if p.Type != nil {
		visit(p.Type)
	}
}

// ConstantPattern matches against a constant expression's value.
type ConstantPattern struct {
	Base
	Value Expression
}

func (*ConstantPattern) patternNode() {}
func (p *ConstantPattern) Children(visit func(Node)) {
	if p.Value != nil {
		visit(p.Value)
	}
}

// VarPattern is `var name`, always matching and binding.
type VarPattern struct {
	Base
	Name string
}

func (*VarPattern) patternNode()                  {}
func (*VarPattern) Children(visit func(Node)) {}

// DiscardPattern is the bare `_`, always matching without binding.
type DiscardPattern struct{ Base }

func (*DiscardPattern) patternNode()                  {}
func (*DiscardPattern) Children(visit func(Node)) {}

// TypePattern is a bare `T` with no binding.
type TypePattern struct {
	Base
	Type Type
}

func (*TypePattern) patternNode() {}
func (p *TypePattern) Children(visit func(Node)) {
	if p.Type != nil {
		visit(p.Type)
	}
}

// Subpattern is one `Name: pattern` entry of a PropertyPattern.
type Subpattern struct {
	Base
	Name    string
	Pattern Pattern
}

func (*Subpattern) patternNode() {}
func (s *Subpattern) Children(visit func(Node)) {
	if s.Pattern != nil {
		visit(s.Pattern)
	}
}

// PropertyPattern is `T { Name: pattern, ... } [name]`.
type PropertyPattern struct {
	Base
	Type        Type // nil if untyped
	Subpatterns []*Subpattern
	Name        string // "" unless the pattern also binds a variable
}

func (*PropertyPattern) patternNode() {}
func (p *PropertyPattern) Children(visit func(Node)) {
	if p.Type != nil {
		visit(p.Type)
	}
	visitList(visit, p.Subpatterns)
}

// PositionalPattern is `T(pattern, pattern, ...) [name]`, deconstructing the
// matched value.
type PositionalPattern struct {
	Base
	Type     Type
	Elements []Pattern
	Name     string
}

func (*PositionalPattern) patternNode() {}
func (p *PositionalPattern) Children(visit func(Node)) {
	if p.Type != nil {
		visit(p.Type)
	}
	visitList(visit, p.Elements)
}

// TuplePattern is `(pattern, pattern, ...)` without a preceding type.
type TuplePattern struct {
	Base
	Elements []Pattern
}

func (*TuplePattern) patternNode() {}
func (p *TuplePattern) Children(visit func(Node)) { visitList(visit, p.Elements) }

// ListPattern is `[pattern, pattern, ...]`.
type ListPattern struct {
	Base
	Elements []Pattern
}

func (*ListPattern) patternNode() {}
func (p *ListPattern) Children(visit func(Node)) { visitList(visit, p.Elements) }

// SlicePattern is `..` inside a ListPattern, optionally binding via an inner
// pattern (`.. var rest`).
type SlicePattern struct {
	Base
	Inner Pattern // nil for a bare `..`
}

func (*SlicePattern) patternNode() {}
func (p *SlicePattern) Children(visit func(Node)) {
	if p.Inner != nil {
		visit(p.Inner)
	}
}

// RelationalOp enumerates the comparison operators a RelationalPattern may
// use.
type RelationalOp string

const (
	RelLt RelationalOp = "<"
	RelLe RelationalOp = "<="
	RelGt RelationalOp = ">"
	RelGe RelationalOp = ">="
)

// RelationalPattern is `< value`, `<= value`, `> value`, `>= value`.
type RelationalPattern struct {
	Base
	Op    RelationalOp
	Value Expression
}

func (*RelationalPattern) patternNode() {}
func (p *RelationalPattern) Children(visit func(Node)) {
	if p.Value != nil {
		visit(p.Value)
	}
}

// LogicalAndPattern is `left and right`.
type LogicalAndPattern struct {
	Base
	Left  Pattern
	Right Pattern
}

func (*LogicalAndPattern) patternNode() {}
func (p *LogicalAndPattern) Children(visit func(Node)) {
	if p.Left != nil {
		visit(p.Left)
	}
	if p.Right != nil {
		visit(p.Right)
	}
}

// LogicalOrPattern is `left or right`.
type LogicalOrPattern struct {
	Base
	Left  Pattern
	Right Pattern
}

func (*LogicalOrPattern) patternNode() {}
func (p *LogicalOrPattern) Children(visit func(Node)) {
	if p.Left != nil {
		visit(p.Left)
	}
	if p.Right != nil {
		visit(p.Right)
	}
}

// NotPattern is `not pattern`.
type NotPattern struct {
	Base
	Inner Pattern
}

func (*NotPattern) patternNode() {}
func (p *NotPattern) Children(visit func(Node)) {
	if p.Inner != nil {
		visit(p.Inner)
	}
}

// ParenthesizedPattern is `(pattern)`, preserved distinctly so precedence
// is visible in the tree rather than implicit.
type ParenthesizedPattern struct {
	Base
	Inner Pattern
}

func (*ParenthesizedPattern) patternNode() {}
func (p *ParenthesizedPattern) Children(visit func(Node)) {
	if p.Inner != nil {
		visit(p.Inner)
	}
}
