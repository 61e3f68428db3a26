package passes

import (
	"fmt"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// CFGEdgeKind labels one control-flow edge.
type CFGEdgeKind string

const (
	EdgeNormal      CFGEdgeKind = "Normal"
	EdgeTrueBranch  CFGEdgeKind = "TrueBranch"
	EdgeFalseBranch CFGEdgeKind = "FalseBranch"
	EdgeSwitchCase  CFGEdgeKind = "SwitchCase"
	EdgeException   CFGEdgeKind = "Exception"
	EdgeFinally     CFGEdgeKind = "Finally"
	EdgeBackEdge    CFGEdgeKind = "BackEdge"
)

// CFGNode is one control-flow node: a single statement, or a synthetic
// decision/dispatch/merge point with no direct statement of its own.
type CFGNode struct {
	ID    int
	Label string
	Stmt  ast.Statement // nil for synthetic nodes
}

// CFGEdgeRef is one directed edge between two node ids.
type CFGEdgeRef struct {
	From int
	To   int
	Kind CFGEdgeKind
}

// CFG is one method body's control-flow graph.
type CFG struct {
	Nodes []*CFGNode
	Edges []CFGEdgeRef
	Entry int
	Exits []int

	// Body is the originating block, kept so rules can look up its span
	// (e.g. for a long-method line-span check) without re-walking the AST.
	Body *ast.BlockStmt

	CyclomaticComplexity int
	EssentialComplexity  int
	NestingDepth         int
}

// ControlFlowGraphs is the standard artifact published by
// ControlFlowPass: one CFG per method-like body, keyed by the member's
// best-effort fully qualified name.
type ControlFlowGraphs struct {
	ByMethod map[string]*CFG
}

// ControlFlowPass builds one CFG per method/constructor/operator/accessor
// body in the compilation unit. Grounded on the teacher's
// internal/semantic's single-pass-over-declarations style, generalized to
// emit a graph artifact instead of annotating the AST. The construction
// rules (diamond for if, header+back-edge for loops, fan-out for switch,
// exception/finally edges for try) follow spec §4.6 exactly; the
// exception-edge fan-out is coarsened to "every node built while
// traversing the try body" rather than a precise may-throw analysis, a
// documented Open-Question resolution.
type ControlFlowPass struct{}

func NewControlFlowPass() *ControlFlowPass { return &ControlFlowPass{} }

func (*ControlFlowPass) ID() string          { return "passes.control_flow" }
func (*ControlFlowPass) DependsOn() []string { return []string{"symbols.index"} }

func (p *ControlFlowPass) Run(session *analysis.Session) error {
	graphs := &ControlFlowGraphs{ByMethod: map[string]*CFG{}}
	if session.Unit == nil {
		analysis.PutArtifact(session.Artifacts(), graphs)
		return nil
	}

	w := &cfgWalk{graphs: graphs}
	for _, decl := range session.Unit.TopLevelDeclarations {
		w.visitTopLevel(decl)
	}

	analysis.PutArtifact(session.Artifacts(), graphs)
	return nil
}

type cfgWalk struct {
	graphs   *ControlFlowGraphs
	typeSegs []string
}

func (w *cfgWalk) visitTopLevel(decl ast.TopLevelDeclaration) {
	switch d := decl.(type) {
	case *ast.NamespaceDecl:
		for _, inner := range d.Declarations {
			w.visitTopLevel(inner)
		}
	case *ast.ClassDecl:
		w.visitMembers(d.Name, d.Members)
	case *ast.StructDecl:
		w.visitMembers(d.Name, d.Members)
	case *ast.InterfaceDecl:
		w.visitMembers(d.Name, d.Members)
	case *ast.RecordDecl:
		w.visitMembers(d.Name, d.Members)
	}
}

func (w *cfgWalk) visitMembers(typeName string, members []ast.Member) {
	w.typeSegs = append(w.typeSegs, typeName)
	defer func() { w.typeSegs = w.typeSegs[:len(w.typeSegs)-1] }()

	owner := w.scopeName()
	for _, m := range members {
		switch d := m.(type) {
		case *ast.MethodDecl:
			if d.Body != nil {
				w.graphs.ByMethod[owner+"::"+d.Name] = buildCFG(d.Body)
			}
		case *ast.ConstructorDecl:
			if d.Body != nil {
				w.graphs.ByMethod[owner+"::.ctor"] = buildCFG(d.Body)
			}
		case *ast.OperatorDecl:
			if d.Body != nil {
				w.graphs.ByMethod[owner+"::operator"+d.Operator] = buildCFG(d.Body)
			}
		case *ast.PropertyDecl:
			for _, acc := range d.Accessors {
				if acc.Body != nil {
					w.graphs.ByMethod[fmt.Sprintf("%s::%s.%s", owner, d.Name, acc.Kind)] = buildCFG(acc.Body)
				}
			}
		case *ast.IndexerDecl:
			for _, acc := range d.Accessors {
				if acc.Body != nil {
					w.graphs.ByMethod[fmt.Sprintf("%s::this.%s", owner, acc.Kind)] = buildCFG(acc.Body)
				}
			}
		case *ast.NestedTypeMember:
			if d.Decl != nil {
				w.visitTopLevel(d.Decl)
			}
		}
	}
}

func (w *cfgWalk) scopeName() string {
	name := ""
	for i, seg := range w.typeSegs {
		if i > 0 {
			name += "."
		}
		name += seg
	}
	return name
}

// --- graph construction ---

type cfgBuilder struct {
	nodes []*CFGNode
	edges []CFGEdgeRef
}

func (b *cfgBuilder) newNode(label string, stmt ast.Statement) int {
	id := len(b.nodes) + 1
	b.nodes = append(b.nodes, &CFGNode{ID: id, Label: label, Stmt: stmt})
	return id
}

func (b *cfgBuilder) edge(from, to int, kind CFGEdgeKind) {
	b.edges = append(b.edges, CFGEdgeRef{From: from, To: to, Kind: kind})
}

// pending is a not-yet-connected outgoing edge: node `from` needs an edge
// of `kind` added once the next node in sequence is known.
type pending struct {
	from int
	kind CFGEdgeKind
}

// loopCtx threads the nearest enclosing loop/switch's continue and break
// targets; break/continue jumps deep inside nested ifs resolve through it
// rather than bubbling dangling edges up through every intermediate
// return value.
type loopCtx struct {
	parent    *loopCtx
	continueTo int
	breakTo    []pending // accumulates; resolved once the enclosing construct knows its merge node
}

func buildCFG(body *ast.BlockStmt) *CFG {
	b := &cfgBuilder{}
	entry, exits := b.buildBlock(body.Statements, nil)
	exitNode := b.newNode("exit", nil)
	for _, p := range exits {
		b.edge(p.from, exitNode, p.kind)
	}
	if len(body.Statements) == 0 {
		entry = exitNode
	}

	cfg := &CFG{Nodes: b.nodes, Edges: b.edges, Entry: entry, Exits: []int{exitNode}, Body: body}
	cfg.CyclomaticComplexity = len(cfg.Edges) - len(cfg.Nodes) + 2
	cfg.EssentialComplexity = essentialComplexity(cfg)
	cfg.NestingDepth = nestingDepth(body, 0)
	return cfg
}

func (b *cfgBuilder) buildBlock(stmts []ast.Statement, ctx *loopCtx) (int, []pending) {
	if len(stmts) == 0 {
		n := b.newNode("empty", nil)
		return n, []pending{{from: n, kind: EdgeNormal}}
	}
	var entry int
	var pendings []pending
	for i, s := range stmts {
		e, exits := b.buildStmt(s, ctx)
		if i == 0 {
			entry = e
		} else {
			for _, p := range pendings {
				b.edge(p.from, e, p.kind)
			}
		}
		pendings = exits
	}
	return entry, pendings
}

func label(s ast.Statement) string {
	return fmt.Sprintf("%T", s)
}

func (b *cfgBuilder) buildStmt(s ast.Statement, ctx *loopCtx) (int, []pending) {
	switch v := s.(type) {
	case *ast.BlockStmt:
		return b.buildBlock(v.Statements, ctx)

	case *ast.IfStmt:
		d := b.newNode("if", v)
		thenEntry, thenExits := b.buildStmt(v.Then, ctx)
		b.edge(d, thenEntry, EdgeTrueBranch)
		var exits []pending
		exits = append(exits, thenExits...)
		if v.Else != nil {
			elseEntry, elseExits := b.buildStmt(v.Else, ctx)
			b.edge(d, elseEntry, EdgeFalseBranch)
			exits = append(exits, elseExits...)
		} else {
			exits = append(exits, pending{from: d, kind: EdgeFalseBranch})
		}
		return d, exits

	case *ast.WhileStmt:
		h := b.newNode("while", v)
		inner := &loopCtx{parent: ctx, continueTo: h}
		bodyEntry, bodyExits := b.buildStmt(v.Body, inner)
		b.edge(h, bodyEntry, EdgeTrueBranch)
		for _, p := range bodyExits {
			b.edge(p.from, h, EdgeBackEdge)
		}
		exits := append([]pending{{from: h, kind: EdgeFalseBranch}}, inner.breakTo...)
		return h, exits

	case *ast.DoWhileStmt:
		h := b.newNode("do-while", v)
		inner := &loopCtx{parent: ctx, continueTo: h}
		bodyEntry, bodyExits := b.buildStmt(v.Body, inner)
		for _, p := range bodyExits {
			b.edge(p.from, h, EdgeNormal)
		}
		b.edge(h, bodyEntry, EdgeBackEdge)
		exits := append([]pending{{from: h, kind: EdgeFalseBranch}}, inner.breakTo...)
		return bodyEntry, exits

	case *ast.ForStmt:
		h := b.newNode("for", v)
		inner := &loopCtx{parent: ctx, continueTo: h}
		bodyEntry, bodyExits := b.buildStmt(v.Body, inner)
		b.edge(h, bodyEntry, EdgeTrueBranch)
		for _, p := range bodyExits {
			b.edge(p.from, h, EdgeBackEdge)
		}
		exits := append([]pending{{from: h, kind: EdgeFalseBranch}}, inner.breakTo...)
		return h, exits

	case *ast.ForEachStmt:
		h := b.newNode("foreach", v)
		inner := &loopCtx{parent: ctx, continueTo: h}
		bodyEntry, bodyExits := b.buildStmt(v.Body, inner)
		b.edge(h, bodyEntry, EdgeTrueBranch)
		for _, p := range bodyExits {
			b.edge(p.from, h, EdgeBackEdge)
		}
		exits := append([]pending{{from: h, kind: EdgeFalseBranch}}, inner.breakTo...)
		return h, exits

	case *ast.SwitchStmt:
		dispatch := b.newNode("switch", v)
		merge := b.newNode("switch-merge", nil)
		inner := &loopCtx{parent: ctx}
		if len(v.Sections) == 0 {
			b.edge(dispatch, merge, EdgeNormal)
			return dispatch, []pending{{from: merge, kind: EdgeNormal}}
		}
		for _, sec := range v.Sections {
			secEntry, secExits := b.buildBlock(sec.Statements, inner)
			b.edge(dispatch, secEntry, EdgeSwitchCase)
			for _, p := range secExits {
				b.edge(p.from, merge, p.kind)
			}
		}
		exits := append([]pending{{from: merge, kind: EdgeNormal}}, inner.breakTo...)
		return dispatch, dedupExits(exits, merge)

	case *ast.TryStmt:
		before := len(b.nodes)
		tryEntry, tryExits := b.buildBlock(v.Body.Statements, ctx)
		interior := b.nodes[before:]

		var catchEntries []int
		var catchExits []pending
		for _, c := range v.Catches {
			ce, cx := b.buildBlock(c.Body.Statements, ctx)
			catchEntries = append(catchEntries, ce)
			catchExits = append(catchExits, cx...)
			for _, n := range interior {
				b.edge(n.ID, ce, EdgeException)
			}
		}

		if v.Finally != nil {
			fEntry, fExits := b.buildBlock(v.Finally.Statements, ctx)
			for _, p := range tryExits {
				b.edge(p.from, fEntry, EdgeFinally)
			}
			for _, p := range catchExits {
				b.edge(p.from, fEntry, EdgeFinally)
			}
			return tryEntry, fExits
		}
		return tryEntry, append(tryExits, catchExits...)

	case *ast.BreakStmt:
		// ctx is threaded unchanged through every non-loop/switch
		// construct, so it already names the nearest enclosing one.
		n := b.newNode("break", v)
		if ctx == nil {
			return n, []pending{{from: n, kind: EdgeNormal}}
		}
		ctx.breakTo = append(ctx.breakTo, pending{from: n, kind: EdgeNormal})
		return n, nil

	case *ast.ContinueStmt:
		n := b.newNode("continue", v)
		target := ctx
		for target != nil && target.continueTo == 0 {
			target = target.parent
		}
		if target != nil {
			b.edge(n, target.continueTo, EdgeBackEdge)
		}
		return n, nil

	case *ast.ReturnStmt:
		n := b.newNode("return", v)
		return n, nil

	case *ast.ThrowStmt:
		n := b.newNode("throw", v)
		return n, nil

	case *ast.GotoStmt, *ast.GotoCaseStmt:
		n := b.newNode(label(s), s)
		return n, nil

	case *ast.LabelStmt:
		return b.buildStmt(v.Stmt, ctx)

	case *ast.UsingStmt:
		n := b.newNode("using", v)
		if v.Body != nil {
			bodyEntry, bodyExits := b.buildStmt(v.Body, ctx)
			b.edge(n, bodyEntry, EdgeNormal)
			return n, bodyExits
		}
		return n, []pending{{from: n, kind: EdgeNormal}}

	case *ast.LockStmt:
		n := b.newNode("lock", v)
		bodyEntry, bodyExits := b.buildStmt(v.Body, ctx)
		b.edge(n, bodyEntry, EdgeNormal)
		return n, bodyExits

	default:
		n := b.newNode(label(s), s)
		return n, []pending{{from: n, kind: EdgeNormal}}
	}
}

// dedupExits removes duplicate pendings pointing at the same already-wired
// merge node, keeping the graph's edge count accurate when both the
// explicit merge fallthrough and a ctx.breakTo entry reference it.
func dedupExits(exits []pending, merge int) []pending {
	seen := map[pending]bool{}
	var out []pending
	for _, p := range exits {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// essentialComplexity reduces the graph via the T1 (self-loop removal) and
// T2 (merge a node with a single predecessor into it) transformations used
// to test structured-flowgraph reducibility, then reports the cyclomatic
// complexity of what remains. A fully structured method reduces to a
// single node (essential complexity 1); irreducible control flow (raw
// goto) leaves residual nodes/edges, which is exactly what the measure is
// meant to surface.
func essentialComplexity(cfg *CFG) int {
	type edge struct{ from, to int }
	nodes := map[int]bool{}
	for _, n := range cfg.Nodes {
		nodes[n.ID] = true
	}
	edges := map[edge]bool{}
	for _, e := range cfg.Edges {
		edges[edge{e.From, e.To}] = true
	}

	changed := true
	for changed {
		changed = false

		// T1: remove self-loops.
		for e := range edges {
			if e.from == e.to {
				delete(edges, e)
				changed = true
			}
		}

		// T2: merge a node with exactly one distinct predecessor into it.
		for n := range nodes {
			if n == cfg.Entry {
				continue
			}
			preds := map[int]bool{}
			for e := range edges {
				if e.to == n {
					preds[e.from] = true
				}
			}
			if len(preds) != 1 {
				continue
			}
			var pred int
			for p := range preds {
				pred = p
			}
			if pred == n {
				continue
			}
			// redirect n's out-edges to originate from pred, drop n.
			for e := range edges {
				if e.from == n {
					delete(edges, e)
					edges[edge{pred, e.to}] = true
				}
			}
			delete(edges, edge{pred, n})
			delete(nodes, n)
			changed = true
			break
		}
	}

	return len(edges) - len(nodes) + 2
}
