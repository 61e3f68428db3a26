package passes_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
)

func TestMetricsPassCountsDeclarations(t *testing.T) {
	src := `namespace Demo
{
    public class Shape
    {
        public struct Point { }

        public int Sides;

        public Shape() { }

        public int Area()
        {
            if (Sides > 4)
            {
                return Sides * Sides;
            }
            return 0;
        }
    }

    public interface IDrawable { }
    public enum Color { Red, Green, Blue }
}
`
	session := mustSession(t, src)
	m := runMetrics(t, session)

	if m.TotalClasses != 1 {
		t.Errorf("expected 1 class, got %d", m.TotalClasses)
	}
	if m.TotalStructs != 1 {
		t.Errorf("expected 1 struct, got %d", m.TotalStructs)
	}
	if m.TotalInterfaces != 1 {
		t.Errorf("expected 1 interface, got %d", m.TotalInterfaces)
	}
	if m.TotalEnums != 1 {
		t.Errorf("expected 1 enum, got %d", m.TotalEnums)
	}
	if m.TotalConstructors != 1 {
		t.Errorf("expected 1 constructor, got %d", m.TotalConstructors)
	}
	if m.TotalMethods != 1 {
		t.Errorf("expected 1 method, got %d", m.TotalMethods)
	}
	if m.TotalFields != 1 {
		t.Errorf("expected 1 field, got %d", m.TotalFields)
	}
	if m.TotalIfStatements != 1 {
		t.Errorf("expected 1 if statement, got %d", m.TotalIfStatements)
	}
	// 1 baseline path + 1 for the if.
	if m.CyclomaticComplexity != 2 {
		t.Errorf("expected cyclomatic complexity 2, got %d", m.CyclomaticComplexity)
	}
}

func TestMetricsPassCountsMultipleFieldDeclarators(t *testing.T) {
	src := `class Point
{
    public int X, Y, Z;
}
`
	session := mustSession(t, src)
	m := runMetrics(t, session)
	if m.TotalFields != 3 {
		t.Errorf("expected 3 fields from one comma-separated declaration, got %d", m.TotalFields)
	}
}

func TestMetricsPassMaxNestingDepth(t *testing.T) {
	src := `class Nested
{
    public void M()
    {
        if (true)
        {
            for (int i = 0; i < 10; i++)
            {
                while (true)
                {
                    break;
                }
            }
        }
    }
}
`
	session := mustSession(t, src)
	m := runMetrics(t, session)
	if m.MaxNestingDepth != 3 {
		t.Errorf("expected nesting depth 3 (if > for > while), got %d", m.MaxNestingDepth)
	}
}

func TestMetricsPassLinesOfCodeIgnoresCommentsAndBlankLines(t *testing.T) {
	src := "// a leading comment\n\nclass C\n{\n    // a member comment\n    public int X;\n}\n"
	session := mustSession(t, src)
	m := runMetrics(t, session)
	// Only "class C", "{", "public int X;", and "}" carry code.
	if m.LinesOfCode != 4 {
		t.Errorf("expected 4 lines of code, got %d", m.LinesOfCode)
	}
}

func runMetrics(t *testing.T, session *analysis.Session) *passes.Metrics {
	t.Helper()
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("symbol pass returned an error: %v", err)
	}
	if err := passes.NewMetricsPass().Run(session); err != nil {
		t.Fatalf("metrics pass returned an error: %v", err)
	}
	m, ok := analysis.GetArtifact[*passes.Metrics](session.Artifacts())
	if !ok {
		t.Fatal("expected a Metrics artifact to be published")
	}
	return m
}

func TestMetricsPassCountsConditionalOperatorsAsDecisionPoints(t *testing.T) {
	src := `public class Fallbacks
{
    public string Pick(string a, string b)
    {
        var chosen = a ?? b;
        var viaTernary = chosen != null ? chosen : "none";
        var length = chosen?.Length ?? 0;
        return viaTernary;
    }
}
`
	session := mustSession(t, src)
	m := runMetrics(t, session)

	// 1 + two ??, one ?:, one ?.
	if m.CyclomaticComplexity != 5 {
		t.Errorf("expected cyclomatic complexity 5, got %d", m.CyclomaticComplexity)
	}
}
