package passes

import (
	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/ast"
)

// Metrics is the AstAnalysis artifact: aggregate counts and derived
// measures over the whole compilation unit.
type Metrics struct {
	TotalClasses      int
	TotalStructs      int
	TotalInterfaces   int
	TotalEnums        int
	TotalRecords      int
	TotalDelegates    int
	TotalMethods      int
	TotalConstructors int
	TotalFields       int
	TotalProperties   int

	TotalIfStatements     int
	TotalWhileStatements  int // includes do-while
	TotalForStatements    int // includes foreach
	TotalSwitchStatements int
	TotalTryStatements    int
	TotalUsingStatements  int

	CyclomaticComplexity int
	MaxNestingDepth      int
	LinesOfCode          int
}

// MetricsPass walks the whole tree once, classifying every node by the
// pkg/ast.Descendants traversal rather than a hand-rolled recursive
// descent, in the spirit of the teacher's single-pass accumulator style
// but driven by the generic Children primitive (spec §4.2) instead of a
// bespoke visitor per node kind.
type MetricsPass struct{}

func NewMetricsPass() *MetricsPass { return &MetricsPass{} }

func (*MetricsPass) ID() string          { return "metrics" }
func (*MetricsPass) DependsOn() []string { return []string{"symbols.index"} }

func (p *MetricsPass) Run(session *analysis.Session) error {
	if session.Unit == nil {
		analysis.PutArtifact(session.Artifacts(), &Metrics{})
		return nil
	}

	m := &Metrics{}
	decisionPoints := 0

	ast.Descendants(session.Unit, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.ClassDecl:
			m.TotalClasses++
		case *ast.StructDecl:
			m.TotalStructs++
		case *ast.InterfaceDecl:
			m.TotalInterfaces++
		case *ast.EnumDecl:
			m.TotalEnums++
		case *ast.RecordDecl:
			m.TotalRecords++
		case *ast.DelegateDecl:
			m.TotalDelegates++
		case *ast.MethodDecl:
			m.TotalMethods++
		case *ast.ConstructorDecl:
			m.TotalConstructors++
		case *ast.FieldDecl:
			m.TotalFields += len(v.Declarators)
		case *ast.PropertyDecl:
			m.TotalProperties++
		case *ast.IfStmt:
			m.TotalIfStatements++
			decisionPoints++
		case *ast.WhileStmt:
			m.TotalWhileStatements++
			decisionPoints++
		case *ast.DoWhileStmt:
			m.TotalWhileStatements++
			decisionPoints++
		case *ast.ForStmt:
			m.TotalForStatements++
			decisionPoints++
		case *ast.ForEachStmt:
			m.TotalForStatements++
			decisionPoints++
		case *ast.SwitchStmt:
			m.TotalSwitchStatements++
			for _, sec := range v.Sections {
				if !sec.Default {
					decisionPoints += len(sec.Labels) + len(sec.PatternLabels)
				}
			}
		case *ast.TryStmt:
			m.TotalTryStatements++
			decisionPoints += len(v.Catches)
		case *ast.UsingStmt:
			m.TotalUsingStatements++
		case *ast.BinaryExpr:
			if v.Op == ast.BinLogicalAnd || v.Op == ast.BinLogicalOr || v.Op == ast.BinNullCoalesce {
				decisionPoints++
			}
		case *ast.TernaryExpr:
			decisionPoints++
		case *ast.NullCoalescingExpr:
			decisionPoints++
		case *ast.MemberAccessExpr:
			if v.Conditional {
				decisionPoints++
			}
		case *ast.IndexExpr:
			if v.Conditional {
				decisionPoints++
			}
		}
	})

	m.CyclomaticComplexity = 1 + decisionPoints
	m.MaxNestingDepth = maxNestingDepth(session.Unit)
	m.LinesOfCode = linesOfCode(session.Context.Source)

	analysis.PutArtifact(session.Artifacts(), m)
	return nil
}

// isControlStatement reports whether n is one of the structurally-nesting
// control statements the spec's max_nesting_depth measure counts.
func isControlStatement(n ast.Node) bool {
	switch n.(type) {
	case *ast.IfStmt, *ast.ForStmt, *ast.ForEachStmt, *ast.WhileStmt, *ast.DoWhileStmt,
		*ast.SwitchStmt, *ast.TryStmt, *ast.UsingStmt, *ast.LockStmt:
		return true
	default:
		return false
	}
}

// bodiesOf collects every member body in the subtree rooted at n, the set
// max_nesting_depth is computed over.
func bodiesOf(n ast.Node) []ast.Node {
	var bodies []ast.Node
	ast.Descendants(n, func(child ast.Node) {
		switch d := child.(type) {
		case *ast.MethodDecl:
			if d.Body != nil {
				bodies = append(bodies, d.Body)
			}
		case *ast.ConstructorDecl:
			if d.Body != nil {
				bodies = append(bodies, d.Body)
			}
		case *ast.OperatorDecl:
			if d.Body != nil {
				bodies = append(bodies, d.Body)
			}
		case *ast.AccessorDecl:
			if d.Body != nil {
				bodies = append(bodies, d.Body)
			}
		case *ast.LocalFunctionStmt:
			if d.Body != nil {
				bodies = append(bodies, d.Body)
			}
		}
	})
	return bodies
}

func maxNestingDepth(root ast.Node) int {
	best := 0
	for _, body := range bodiesOf(root) {
		if d := nestingDepth(body, 0); d > best {
			best = d
		}
	}
	return best
}

func nestingDepth(n ast.Node, depth int) int {
	if n == nil {
		return depth
	}
	best := depth
	n.Children(func(child ast.Node) {
		next := depth
		if isControlStatement(child) {
			next = depth + 1
		}
		if d := nestingDepth(child, next); d > best {
			best = d
		}
	})
	return best
}

// linesOfCode counts source lines containing at least one non-whitespace
// byte that is not wholly inside a `//` or `/* */` comment or a string/char
// literal's comment-like contents. This is a lexical scan, independent of
// the parsed AST, since spans do not currently record comment trivia
// ranges.
func linesOfCode(source string) int {
	count := 0
	lineHasCode := false
	inBlockComment := false
	inLineComment := false
	inString := false
	inChar := false
	verbatim := false

	flush := func() {
		if lineHasCode {
			count++
		}
		lineHasCode = false
		inLineComment = false
	}

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\n' {
			flush()
			continue
		}
		if inLineComment {
			continue
		}
		if inBlockComment {
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlockComment = false
				i++
			}
			continue
		}
		if inString {
			if c == '\\' && !verbatim && i+1 < len(source) {
				i++
			} else if c == '"' {
				if verbatim && i+1 < len(source) && source[i+1] == '"' {
					i++
				} else {
					inString = false
				}
			}
			if c != ' ' && c != '\t' {
				lineHasCode = true
			}
			continue
		}
		if inChar {
			if c == '\\' && i+1 < len(source) {
				i++
			} else if c == '\'' {
				inChar = false
			}
			lineHasCode = true
			continue
		}
		if c == '/' && i+1 < len(source) && source[i+1] == '/' {
			inLineComment = true
			i++
			continue
		}
		if c == '/' && i+1 < len(source) && source[i+1] == '*' {
			inBlockComment = true
			i++
			continue
		}
		if c == '"' {
			inString = true
			verbatim = i > 0 && source[i-1] == '@'
			lineHasCode = true
			continue
		}
		if c == '\'' {
			inChar = true
			lineHasCode = true
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' {
			lineHasCode = true
		}
	}
	flush()
	return count
}
