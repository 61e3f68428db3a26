package analysis

import "github.com/bsharp-lang/bsharp/pkg/ast"

// Visitor is attached to a Walker and notified on entry to and exit from
// every node in a depth-first traversal. Passes that need entry/exit
// pairing (e.g. to track nesting depth) implement this instead of using
// pkg/ast's single-pass Descendants directly.
type Visitor interface {
	Enter(n ast.Node, session *Session)
	Exit(n ast.Node, session *Session)
}

// Walker runs a depth-first traversal, invoking every registered visitor's
// Enter on the way down and Exit on the way back up. Visitors run in
// registration order on Enter; within a single visitor, Exit order is the
// reverse of Enter (the innermost node exits first), matching a standard
// nested-scope walk.
type Walker struct {
	visitors []Visitor
}

// NewWalker returns a Walker with the given visitors attached, in order.
func NewWalker(visitors ...Visitor) *Walker {
	return &Walker{visitors: visitors}
}

// Attach registers an additional visitor.
func (w *Walker) Attach(v Visitor) { w.visitors = append(w.visitors, v) }

// Walk traverses the subtree rooted at n, depth-first, calling Enter/Exit
// on every attached visitor for every node including n itself.
func (w *Walker) Walk(n ast.Node, session *Session) {
	if n == nil {
		return
	}
	for _, v := range w.visitors {
		v.Enter(n, session)
	}
	n.Children(func(child ast.Node) { w.Walk(child, session) })
	for _, v := range w.visitors {
		v.Exit(n, session)
	}
}
