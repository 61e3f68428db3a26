package ast

// Descendants walks the subtree rooted at n in depth-first pre-order,
// invoking visit on n itself first and then on every descendant. The
// order is stable across runs for a given tree: siblings are visited in
// the order their owning Children implementation reports them, which is
// always source order.
func Descendants(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	n.Children(func(child Node) { Descendants(child, visit) })
}

// Collect returns every node in the subtree rooted at n, in depth-first
// pre-order, for callers that want a slice rather than a callback.
func Collect(n Node) []Node {
	var out []Node
	Descendants(n, func(child Node) { out = append(out, child) })
	return out
}

// Of filters the subtree rooted at n down to nodes of concrete type T,
// preserving depth-first pre-order. T is normally a concrete node pointer
// type, e.g. ast.Of[*ast.InvocationExpr](unit).
func Of[T Node](n Node) []T {
	var out []T
	Descendants(n, func(child Node) {
		if t, ok := child.(T); ok {
			out = append(out, t)
		}
	})
	return out
}

// Filter returns every descendant of n (n included) matching pred, in
// depth-first pre-order.
func Filter(n Node, pred func(Node) bool) []Node {
	var out []Node
	Descendants(n, func(child Node) {
		if pred(child) {
			out = append(out, child)
		}
	})
	return out
}

// Query is a chainable, eagerly-evaluated view over a subtree. It mirrors
// the fluent find/filter helpers analysis passes lean on to locate nodes
// without hand-writing a walk for every query. Each stage buffers into a
// slice rather than streaming: trees here are small enough (one file) that
// the simplicity is worth more than avoiding the intermediate allocation.
type Query struct {
	nodes []Node
}

// From starts a Query over every node in the subtree rooted at root,
// root included, in depth-first pre-order.
func From(root Node) *Query {
	return &Query{nodes: Collect(root)}
}

// Filter narrows the query to nodes matching pred.
func (q *Query) Filter(pred func(Node) bool) *Query {
	var out []Node
	for _, n := range q.nodes {
		if pred(n) {
			out = append(out, n)
		}
	}
	return &Query{nodes: out}
}

// Nodes returns the query's current result set.
func (q *Query) Nodes() []Node { return q.nodes }

// Len returns the number of nodes currently matched.
func (q *Query) Len() int { return len(q.nodes) }

// QueryOf narrows q to nodes of concrete type T. It is a free function
// rather than a method because Go methods cannot introduce new type
// parameters.
func QueryOf[T Node](q *Query) []T {
	var out []T
	for _, n := range q.nodes {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
