package rules_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
	"github.com/bsharp-lang/bsharp/internal/parser"
)

func mustSession(t *testing.T, src string) *analysis.Session {
	t.Helper()
	p := parser.New("sample.bs", src, parser.Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}
	return analysis.New(unit, analysis.Context{File: "sample.bs", Source: src}, p.Spans(), nil)
}

func runNaming(t *testing.T, src string) []string {
	t.Helper()
	session := mustSession(t, src)
	pass := rules.NewNamingPass()
	if err := pass.Run(session); err != nil {
		t.Fatalf("naming pass returned an error: %v", err)
	}
	var codes []string
	for _, d := range session.Diagnostics.All() {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestNamingRuleFlagsLowercaseClassName(t *testing.T) {
	codes := runNaming(t, "class lowercase { }")
	if len(codes) == 0 {
		t.Fatal("expected a naming diagnostic for a lowercase class name")
	}
	for _, c := range codes {
		if c != rules.CodeNaming {
			t.Errorf("expected only %s diagnostics, got %s", rules.CodeNaming, c)
		}
	}
}

func TestNamingRuleAcceptsConventionalNames(t *testing.T) {
	src := `class Widget
{
    private int _count;
    public const int MAX_COUNT = 10;

    public int Compute(int inputValue)
    {
        int localTotal = inputValue + _count;
        return localTotal;
    }
}
`
	codes := runNaming(t, src)
	if len(codes) != 0 {
		t.Errorf("expected no naming diagnostics for conventional names, got %v", codes)
	}
}

func TestNamingRuleFlagsUnderscorePrefixedPublicField(t *testing.T) {
	codes := runNaming(t, "class Widget { public int _exposed; }")
	if len(codes) != 1 {
		t.Fatalf("expected exactly 1 naming diagnostic, got %d: %v", len(codes), codes)
	}
}

func TestNamingRuleFlagsCamelCaseParameter(t *testing.T) {
	codes := runNaming(t, "class Widget { public void M(int Bad_Param) { } }")
	if len(codes) == 0 {
		t.Error("expected a naming diagnostic for a non-camelCase parameter")
	}
}
