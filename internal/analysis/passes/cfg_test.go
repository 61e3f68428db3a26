package passes_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
)

func runCFG(t *testing.T, session *analysis.Session) *passes.ControlFlowGraphs {
	t.Helper()
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("symbol pass returned an error: %v", err)
	}
	if err := passes.NewControlFlowPass().Run(session); err != nil {
		t.Fatalf("control flow pass returned an error: %v", err)
	}
	graphs, ok := analysis.GetArtifact[*passes.ControlFlowGraphs](session.Artifacts())
	if !ok {
		t.Fatal("expected a ControlFlowGraphs artifact to be published")
	}
	return graphs
}

func TestControlFlowPassBuildsOneGraphPerMethod(t *testing.T) {
	src := `class Calculator
{
    public Calculator() { }

    public int Half(int x)
    {
        return x / 2;
    }
}
`
	session := mustSession(t, src)
	graphs := runCFG(t, session)

	if _, ok := graphs.ByMethod["Calculator::.ctor"]; !ok {
		t.Errorf("expected a CFG keyed Calculator::.ctor, got keys: %v", keys(graphs))
	}
	if _, ok := graphs.ByMethod["Calculator::Half"]; !ok {
		t.Errorf("expected a CFG keyed Calculator::Half, got keys: %v", keys(graphs))
	}
}

func TestControlFlowPassIfStatementBranchesToBothArms(t *testing.T) {
	src := `class C
{
    public void M(int x)
    {
        if (x > 0)
        {
            x = 1;
        }
        else
        {
            x = -1;
        }
        x = 0;
    }
}
`
	session := mustSession(t, src)
	graphs := runCFG(t, session)
	cfg, ok := graphs.ByMethod["C::M"]
	if !ok {
		t.Fatalf("expected a CFG for C::M, got keys: %v", keys(graphs))
	}

	var trueEdges, falseEdges int
	for _, e := range cfg.Edges {
		switch e.Kind {
		case passes.EdgeTrueBranch:
			trueEdges++
		case passes.EdgeFalseBranch:
			falseEdges++
		}
	}
	if trueEdges != 1 {
		t.Errorf("expected 1 true-branch edge, got %d", trueEdges)
	}
	if falseEdges != 1 {
		t.Errorf("expected 1 false-branch edge, got %d", falseEdges)
	}
	if cfg.CyclomaticComplexity != 2 {
		t.Errorf("expected cyclomatic complexity 2 for a single if/else, got %d", cfg.CyclomaticComplexity)
	}
}

func TestControlFlowPassWhileLoopProducesBackEdge(t *testing.T) {
	src := `class C
{
    public void M()
    {
        while (true)
        {
            DoWork();
        }
    }
}
`
	session := mustSession(t, src)
	graphs := runCFG(t, session)
	cfg, ok := graphs.ByMethod["C::M"]
	if !ok {
		t.Fatalf("expected a CFG for C::M, got keys: %v", keys(graphs))
	}

	backEdges := 0
	for _, e := range cfg.Edges {
		if e.Kind == passes.EdgeBackEdge {
			backEdges++
		}
	}
	if backEdges == 0 {
		t.Error("expected at least one back edge for the while loop's body exit")
	}
}

func TestEssentialComplexityOfStructuredMethodIsOne(t *testing.T) {
	src := `class C
{
    public void M(int x)
    {
        if (x > 0)
        {
            x = 1;
        }
        x = 2;
    }
}
`
	session := mustSession(t, src)
	graphs := runCFG(t, session)
	cfg, ok := graphs.ByMethod["C::M"]
	if !ok {
		t.Fatalf("expected a CFG for C::M, got keys: %v", keys(graphs))
	}
	if cfg.EssentialComplexity != 1 {
		t.Errorf("expected a fully structured method to reduce to essential complexity 1, got %d", cfg.EssentialComplexity)
	}
}

func keys(graphs *passes.ControlFlowGraphs) []string {
	out := make([]string, 0, len(graphs.ByMethod))
	for k := range graphs.ByMethod {
		out = append(out, k)
	}
	return out
}
