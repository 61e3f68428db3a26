package passes

import (
	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

// AnalysisReport is the terminal artifact of a run: every diagnostic
// raised by the pipeline's passes and rules, sorted for deterministic
// output, alongside whichever upstream artifacts were actually produced.
// SchemaVersion lets a consumer detect a future field addition without
// guessing from shape alone.
type AnalysisReport struct {
	SchemaVersion int
	File          string
	Diagnostics   []diag.Diagnostic
	Metrics       *Metrics
	ControlFlow   *ControlFlowGraphs
	Dependencies  *DependencyGraph
	Symbols       *SymbolIndex
}

// ReportPass is the pipeline's final step: it freezes the session's
// diagnostics in report order and bundles whatever upstream artifacts
// were published into one serializable value, so a caller only needs to
// fetch a single artifact to render a complete result. Depends on every
// other standard pass but tolerates any of them being disabled, since a
// missing producer is treated the same as a disabled one (spec §7).
type ReportPass struct{}

func NewReportPass() *ReportPass { return &ReportPass{} }

func (*ReportPass) ID() string { return "passes.report" }
func (*ReportPass) DependsOn() []string {
	return []string{"symbols.index", "metrics", "passes.control_flow", "passes.deps"}
}

func (p *ReportPass) Run(session *analysis.Session) error {
	session.Diagnostics.SortStable()

	report := &AnalysisReport{
		SchemaVersion: 1,
		File:          session.Context.File,
		Diagnostics:   session.Diagnostics.All(),
	}

	if m, ok := analysis.GetArtifact[*Metrics](session.Artifacts()); ok {
		report.Metrics = m
	}
	if cfg, ok := analysis.GetArtifact[*ControlFlowGraphs](session.Artifacts()); ok {
		report.ControlFlow = cfg
	}
	if deps, ok := analysis.GetArtifact[*DependencyGraph](session.Artifacts()); ok {
		report.Dependencies = deps
	}
	if syms, ok := analysis.GetArtifact[*SymbolIndex](session.Artifacts()); ok {
		report.Symbols = syms
	}

	analysis.PutArtifact(session.Artifacts(), report)
	return nil
}
