// Package engine is the top-level facade wiring the parser, the standard
// analysis passes, and the rule evaluators into the concrete pipeline
// spec.md §6.1 names: Parse, AnalyzerPipeline.RunWithDefaults,
// RunWorkspaceWithConfig. It exists as a separate package from
// internal/analysis because internal/analysis/passes and
// internal/analysis/rules both import internal/analysis, and
// internal/analysis imports internal/workspace (for Session.Project) —
// a "build the default pipeline" constructor living inside
// internal/analysis itself would need to import passes/rules/workspace
// right back, a cycle. engine sits above all of them instead.
package engine

import (
	"fmt"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/internal/workspace"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
	"github.com/bsharp-lang/bsharp/pkg/span"
)

// Parse parses source, identified as file in diagnostics. Strict mode
// (the default) returns the first unrecoverable grammar failure as a
// *diag.ParseError; lenient mode instead resynchronizes at statement and
// member boundaries and always returns a CompilationUnit, marking
// unparseable regions with Error* nodes.
func Parse(file, source string, lenient bool) (*ast.CompilationUnit, *span.Table, *diag.ParseError) {
	mode := parser.Strict
	if lenient {
		mode = parser.Lenient
	}
	p := parser.New(file, source, mode)
	unit, err := p.ParseFile()
	return unit, p.Spans(), err
}

// DefaultPipeline builds the standard pass sequence spec.md §4.3 names
// (leaves first): symbols.index, metrics, passes.control_flow,
// passes.deps, the three rule evaluators, then passes.report.
func DefaultPipeline() *analysis.Pipeline {
	return analysis.NewPipeline(
		passes.NewSymbolIndexPass(),
		passes.NewMetricsPass(),
		passes.NewControlFlowPass(),
		passes.NewDependencyPass(),
		rules.NewNamingPass(),
		rules.NewSemanticPass(),
		rules.NewControlFlowSmellsPass(),
		passes.NewReportPass(),
	)
}

// RunWithDefaults runs the default pipeline against session and returns
// the AnalysisReport the terminal reporting pass publishes.
func RunWithDefaults(session *analysis.Session) (*passes.AnalysisReport, error) {
	if err := DefaultPipeline().Run(session); err != nil {
		return nil, err
	}
	report, ok := analysis.GetArtifact[*passes.AnalysisReport](session.Artifacts())
	if !ok {
		return nil, fmt.Errorf("engine: passes.report did not publish an AnalysisReport (disabled?)")
	}
	return report, nil
}

// WorkspaceReport pairs one file's report with the path it came from, the
// shape run_workspace_with_config aggregates into.
type WorkspaceReport struct {
	File   string
	Report *passes.AnalysisReport
	Err    error
}

// RunWorkspaceWithConfig parses and analyzes every in-scope source file
// in ws, one session per file, using a bounded worker pool (spec.md §5:
// "one session per file in a work-stealing parallel pool"). Concurrency
// is capped at cfg.Workspace-scoped file count; a parse failure for one
// file does not abort the others.
func RunWorkspaceWithConfig(ws *workspace.Workspace, cfg *analysis.Config) ([]WorkspaceReport, error) {
	if ws == nil {
		return nil, fmt.Errorf("engine: nil workspace")
	}
	files := ws.AllSourceFiles()
	const defaultConcurrency = 8

	results := workspace.RunPool(defaultConcurrency, files, func(file string) WorkspaceReport {
		return analyzeFile(ws, file, cfg)
	})
	return results, nil
}

func analyzeFile(ws *workspace.Workspace, file string, cfg *analysis.Config) WorkspaceReport {
	id, ok := ws.SourceMap.IDFor(file)
	if !ok {
		return WorkspaceReport{File: file, Err: fmt.Errorf("engine: %q not in workspace source map", file)}
	}
	source, err := ws.SourceMap.Read(id)
	if err != nil {
		return WorkspaceReport{File: file, Err: fmt.Errorf("engine: read %q: %w", file, err)}
	}

	unit, spans, parseErr := Parse(file, source, true)
	if parseErr != nil {
		return WorkspaceReport{File: file, Err: parseErr}
	}

	session := analysis.New(unit, analysis.Context{File: file, Source: source}, spans, cfg)
	report, err := RunWithDefaults(session)
	if err != nil {
		return WorkspaceReport{File: file, Err: err}
	}
	return WorkspaceReport{File: file, Report: report}
}
