package rules_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
)

func runControlFlowSmells(t *testing.T, session *analysis.Session) map[string]int {
	t.Helper()
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("symbol pass returned an error: %v", err)
	}
	if err := passes.NewMetricsPass().Run(session); err != nil {
		t.Fatalf("metrics pass returned an error: %v", err)
	}
	if err := passes.NewControlFlowPass().Run(session); err != nil {
		t.Fatalf("control flow pass returned an error: %v", err)
	}
	if err := rules.NewControlFlowSmellsPass().Run(session); err != nil {
		t.Fatalf("control flow smells pass returned an error: %v", err)
	}
	counts := map[string]int{}
	for _, d := range session.Diagnostics.All() {
		counts[d.Code]++
	}
	return counts
}

func TestControlFlowSmellsNoneOnSimpleMethod(t *testing.T) {
	src := `class Widget
{
    public int Add(int a, int b)
    {
        return a + b;
    }
}
`
	session := mustSession(t, src)
	counts := runControlFlowSmells(t, session)
	if len(counts) != 0 {
		t.Errorf("expected no control-flow smells on a trivial method, got %v", counts)
	}
}

func TestHighComplexityRuleFiresAboveThreshold(t *testing.T) {
	// Every branch falls through rather than returning, so the method's
	// CFG stays a single connected component and its cyclomatic
	// complexity is exactly 1 plus the number of independent ifs.
	var sb strings.Builder
	sb.WriteString("class Widget\n{\n    public void Classify(int x)\n    {\n        int y = 0;\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "        if (x == %d) { y = %d; }\n", i, i)
	}
	sb.WriteString("        y = -1;\n    }\n}\n")

	session := mustSession(t, sb.String())
	counts := runControlFlowSmells(t, session)
	if counts[rules.CodeHighComplexity] != 1 {
		t.Errorf("expected 1 %s diagnostic for a 12-branch method, got counts: %v", rules.CodeHighComplexity, counts)
	}
}

func TestDeepNestingRuleFiresAboveThreshold(t *testing.T) {
	src := `class Widget
{
    public void M(int x)
    {
        if (x > 0)
        {
            if (x > 1)
            {
                if (x > 2)
                {
                    if (x > 3)
                    {
                        if (x > 4)
                        {
                            x = 0;
                        }
                    }
                }
            }
        }
    }
}
`
	session := mustSession(t, src)
	counts := runControlFlowSmells(t, session)
	if counts[rules.CodeDeepNesting] != 1 {
		t.Errorf("expected 1 %s diagnostic for 5 levels of nested if, got counts: %v", rules.CodeDeepNesting, counts)
	}
}

