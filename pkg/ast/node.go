// Package ast defines the tagged-sum Abstract Syntax Tree produced by the
// bsharp parser: Type, Expression, Statement, Pattern, and
// TopLevelDeclaration are Go interfaces with a private marker method, and
// every concrete node additionally satisfies Node so that the generic
// traversal in query.go can walk any subtree without knowing its concrete
// variant. One Children primitive replaces a family of per-node visitor
// interfaces.
//
// Every non-leaf node's Children are reported in source order: the order
// alternatives were actually consumed by the parser, never a canonicalized
// order.
package ast

import "github.com/bsharp-lang/bsharp/pkg/span"

// Node is satisfied by every AST node. ID is a stable identity used to look
// up the node's Span in a span.Table; nodes never carry their own Span
// field so the table remains the single source of truth.
type Node interface {
	ID() span.NodeID
	// Children invokes visit on each immediate child, in source order.
	// Leaf nodes invoke visit zero times.
	Children(visit func(Node))
}

// Base is embedded by every concrete node to satisfy the ID half of Node.
type Base struct {
	NodeID span.NodeID
}

// ID returns the node's span-table identity.
func (b Base) ID() span.NodeID { return b.NodeID }

// Identifier is either a simple name, a dotted qualified sequence of
// segments, or an operator-overload name (e.g. `operator+`).
type Identifier struct {
	Base
	Simple   string   // non-empty only for the simple-name variant
	Segments []string // non-empty only for the qualified variant
	Operator string   // non-empty only for the operator-overload variant
}

// Children implements Node; Identifier is always a leaf.
func (i *Identifier) Children(visit func(Node)) {}

// String renders the identifier in source form.
func (i *Identifier) String() string {
	switch {
	case i.Operator != "":
		return "operator" + i.Operator
	case len(i.Segments) > 0:
		out := i.Segments[0]
		for _, s := range i.Segments[1:] {
			out += "." + s
		}
		return out
	default:
		return i.Simple
	}
}

// visitList calls visit on every non-nil element of items, in order. T is
// normally a concrete pointer type or a sum-type interface (Type,
// Expression, ...); comparing n != nil works for both since Children
// implementations always store an explicit nil, never a typed-nil wrapped
// behind a different static type.
func visitList[T Node](visit func(Node), items []T) {
	for _, n := range items {
		if any(n) != nil {
			visit(n)
		}
	}
}
