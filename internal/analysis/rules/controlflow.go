package rules

import (
	"fmt"
	"sort"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

// NewControlFlowSmellsPass returns the rules.control_flow_smells ruleset
// pass: BSW01001 (high complexity), BSW01002 (long method), BSW01005
// (deep nesting). These read the Metrics and ControlFlowGraphs artifacts
// published by earlier passes; they never re-walk the AST (spec.md
// §4.8).
func NewControlFlowSmellsPass() *RulesetPass {
	return &RulesetPass{
		PassID: "rules.control_flow_smells",
		Deps:   []string{"metrics", "passes.control_flow"},
		Ruleset: &Ruleset{
			ID: "rules.control_flow_smells",
			Rules: []Rule{
				&highComplexityRule{},
				&longMethodRule{},
				&deepNestingRule{},
			},
		},
	}
}

// methodNames returns the keys of graphs.ByMethod in a stable order, so
// rules emit diagnostics deterministically regardless of map iteration.
func methodNames(graphs *passes.ControlFlowGraphs) []string {
	names := make([]string, 0, len(graphs.ByMethod))
	for name := range graphs.ByMethod {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type highComplexityRule struct{}

func (*highComplexityRule) ID() string       { return CodeHighComplexity }
func (*highComplexityRule) Category() string { return "control_flow" }
func (*highComplexityRule) AppliesTo(session *analysis.Session) bool {
	return analysis.HasArtifact[*passes.ControlFlowGraphs](session.Artifacts())
}

func (r *highComplexityRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	graphs, _ := analysis.GetArtifact[*passes.ControlFlowGraphs](session.Artifacts())
	threshold := session.Config.CFHighComplexityThreshold
	var out []diag.Diagnostic
	for _, name := range methodNames(graphs) {
		cfg := graphs.ByMethod[name]
		if cfg.CyclomaticComplexity > threshold {
			out = append(out, diag.Diagnostic{
				Code:     CodeHighComplexity,
				Severity: diag.SeverityWarning,
				Message: fmt.Sprintf("%s has cyclomatic complexity %d, exceeding the threshold of %d",
					name, cfg.CyclomaticComplexity, threshold),
				Location: bodyLocation(session, cfg),
			})
		}
	}
	return out
}

type longMethodRule struct{}

func (*longMethodRule) ID() string       { return CodeLongMethod }
func (*longMethodRule) Category() string { return "control_flow" }
func (*longMethodRule) AppliesTo(session *analysis.Session) bool {
	return analysis.HasArtifact[*passes.ControlFlowGraphs](session.Artifacts())
}

func (r *longMethodRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	graphs, _ := analysis.GetArtifact[*passes.ControlFlowGraphs](session.Artifacts())
	threshold := session.Config.LongMethodLineThreshold
	var out []diag.Diagnostic
	for _, name := range methodNames(graphs) {
		cfg := graphs.ByMethod[name]
		lines := lineSpan(session, cfg)
		if lines > threshold {
			out = append(out, diag.Diagnostic{
				Code:     CodeLongMethod,
				Severity: diag.SeverityWarning,
				Message: fmt.Sprintf("%s spans %d lines, exceeding the threshold of %d",
					name, lines, threshold),
				Location: bodyLocation(session, cfg),
			})
		}
	}
	return out
}

type deepNestingRule struct{}

func (*deepNestingRule) ID() string       { return CodeDeepNesting }
func (*deepNestingRule) Category() string { return "control_flow" }
func (*deepNestingRule) AppliesTo(session *analysis.Session) bool {
	return analysis.HasArtifact[*passes.ControlFlowGraphs](session.Artifacts())
}

func (r *deepNestingRule) Evaluate(session *analysis.Session) []diag.Diagnostic {
	graphs, _ := analysis.GetArtifact[*passes.ControlFlowGraphs](session.Artifacts())
	threshold := session.Config.CFDeepNestingThreshold
	var out []diag.Diagnostic
	for _, name := range methodNames(graphs) {
		cfg := graphs.ByMethod[name]
		if cfg.NestingDepth > threshold {
			out = append(out, diag.Diagnostic{
				Code:     CodeDeepNesting,
				Severity: diag.SeverityWarning,
				Message: fmt.Sprintf("%s nests %d levels deep, exceeding the threshold of %d",
					name, cfg.NestingDepth, threshold),
				Location: bodyLocation(session, cfg),
			})
		}
	}
	return out
}

func bodyLocation(session *analysis.Session, cfg *passes.CFG) *diag.Location {
	if cfg.Body == nil {
		return nil
	}
	return session.LocationForNode(cfg.Body)
}

func lineSpan(session *analysis.Session, cfg *passes.CFG) int {
	if cfg.Body == nil {
		return 0
	}
	sp, ok := session.Spans.Lookup(cfg.Body.ID())
	if !ok {
		return 0
	}
	return sp.Text.End.Line - sp.Text.Start.Line + 1
}
