package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
	"github.com/bsharp-lang/bsharp/internal/engine"
	"github.com/bsharp-lang/bsharp/internal/workspace"
	"github.com/bsharp-lang/bsharp/pkg/diag"
)

const cleanSource = `namespace Demo
{
    public class Calculator
    {
        private int _total;

        public Calculator(int start)
        {
            _total = start;
        }

        public int Add(int amount)
        {
            _total = _total + amount;
            return _total;
        }
    }
}
`

func TestRunWithDefaultsCleanSourceHasNoErrors(t *testing.T) {
	unit, spans, parseErr := engine.Parse("clean.bs", cleanSource, false)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %s", parseErr.Pretty(false))
	}

	session := analysis.New(unit, analysis.Context{File: "clean.bs", Source: cleanSource}, spans, nil)
	report, err := engine.RunWithDefaults(session)
	if err != nil {
		t.Fatalf("RunWithDefaults returned an error: %v", err)
	}

	for _, d := range report.Diagnostics {
		if d.Severity == diag.SeverityError {
			t.Errorf("unexpected error diagnostic on clean source: %s", d.String())
		}
	}
	if report.Metrics == nil {
		t.Fatal("expected Metrics to be published")
	}
	if report.Metrics.TotalClasses != 1 {
		t.Errorf("expected 1 class, got %d", report.Metrics.TotalClasses)
	}
	if report.Metrics.TotalMethods != 1 {
		t.Errorf("expected 1 method (constructor counts separately), got %d", report.Metrics.TotalMethods)
	}
	if report.Symbols == nil {
		t.Fatal("expected Symbols to be published")
	}
}

func TestRunWithDefaultsCatchesNamingAndSemanticViolations(t *testing.T) {
	src := `namespace demo
{
    public class badlyNamed
    {
        public int _publicField;

        public async badlyNamed() { }

        public abstract void DoThing() { }
    }
}
`
	unit, spans, parseErr := engine.Parse("bad.bs", src, true)
	if parseErr != nil {
		t.Fatalf("unexpected fatal parse error in lenient mode: %s", parseErr.Pretty(false))
	}

	session := analysis.New(unit, analysis.Context{File: "bad.bs", Source: src}, spans, nil)
	report, err := engine.RunWithDefaults(session)
	if err != nil {
		t.Fatalf("RunWithDefaults returned an error: %v", err)
	}

	codes := map[string]bool{}
	for _, d := range report.Diagnostics {
		codes[d.Code] = true
	}

	for _, want := range []string{
		rules.CodeNaming,
		rules.CodeAsyncConstructor,
		rules.CodeAbstractWithBody,
	} {
		if !codes[want] {
			t.Errorf("expected diagnostic code %s to fire, got codes: %v", want, codes)
		}
	}
}

func TestDefaultPipelineRunsPassesInDependencyOrder(t *testing.T) {
	pipeline := engine.DefaultPipeline()
	unit, spans, parseErr := engine.Parse("order.bs", cleanSource, false)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %s", parseErr.Pretty(false))
	}
	session := analysis.New(unit, analysis.Context{File: "order.bs", Source: cleanSource}, spans, nil)
	if err := pipeline.Run(session); err != nil {
		t.Fatalf("pipeline.Run returned an error: %v", err)
	}
}

func TestDisabledControlFlowPassOmitsArtifactAndSmells(t *testing.T) {
	unit, spans, parseErr := engine.Parse("disabled.bs", cleanSource, false)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %s", parseErr.Pretty(false))
	}

	cfg := analysis.DefaultConfig()
	cfg.EnablePasses["passes.control_flow"] = false

	session := analysis.New(unit, analysis.Context{File: "disabled.bs", Source: cleanSource}, spans, cfg)
	if err := engine.DefaultPipeline().Run(session); err != nil {
		t.Fatalf("pipeline.Run returned an error: %v", err)
	}

	if analysis.HasArtifact[*passes.ControlFlowGraphs](session.Artifacts()) {
		t.Fatal("ControlFlowGraphs must be absent when passes.control_flow is disabled")
	}

	report, ok := analysis.GetArtifact[*passes.AnalysisReport](session.Artifacts())
	if !ok {
		t.Fatal("expected the report pass to still publish")
	}
	for _, d := range report.Diagnostics {
		if d.Code == rules.CodeHighComplexity || d.Code == rules.CodeDeepNesting {
			t.Errorf("control-flow smell %s fired without the control-flow pass", d.Code)
		}
	}
}

func TestRunWorkspaceWithConfigScopesToIncludedFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	mustWrite("App.csproj", `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <Compile Include="*.cs" />
  </ItemGroup>
</Project>`)
	mustWrite("Program.cs", "class Program { void Main() { } }")
	mustWrite("TestDependency.cs", "class TestDependency { }")

	cfg := analysis.DefaultConfig()
	cfg.Workspace.Include = []string{"**/Program.cs"}

	ws, err := workspace.Load(root, cfg.Workspace)
	if err != nil {
		t.Fatalf("loading workspace: %v", err)
	}
	results, err := engine.RunWorkspaceWithConfig(ws, cfg)
	if err != nil {
		t.Fatalf("RunWorkspaceWithConfig returned an error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected exactly 1 in-scope file, got %d", len(results))
	}
	if filepath.Base(results[0].File) != "Program.cs" {
		t.Errorf("expected Program.cs to be the analyzed file, got %s", results[0].File)
	}
	if results[0].Err != nil {
		t.Errorf("unexpected error for Program.cs: %v", results[0].Err)
	}
	if results[0].Report == nil {
		t.Error("expected a report for Program.cs")
	}
}
