package rules_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis/rules"
)

func runSemantic(t *testing.T, src string) map[string]int {
	t.Helper()
	session := mustSession(t, src)
	pass := rules.NewSemanticPass()
	if err := pass.Run(session); err != nil {
		t.Fatalf("semantic pass returned an error: %v", err)
	}
	counts := map[string]int{}
	for _, d := range session.Diagnostics.All() {
		counts[d.Code]++
	}
	return counts
}

func TestSemanticRulesAcceptWellFormedClass(t *testing.T) {
	src := `class Widget
{
    public Widget() { }

    public abstract void Describe();

    public async Task LoadAsync() { }

    public static void Reset() { }
}
`
	counts := runSemantic(t, src)
	if len(counts) != 0 {
		t.Errorf("expected no semantic diagnostics, got %v", counts)
	}
}

func TestAsyncConstructorRuleFires(t *testing.T) {
	src := `class Widget
{
    public async Widget() { }
}
`
	counts := runSemantic(t, src)
	if counts[rules.CodeAsyncConstructor] != 1 {
		t.Errorf("expected 1 %s diagnostic, got counts: %v", rules.CodeAsyncConstructor, counts)
	}
}

func TestConstructorNameMismatchRuleFires(t *testing.T) {
	src := `class Widget
{
    public Gadget() { }
}
`
	counts := runSemantic(t, src)
	if counts[rules.CodeConstructorName] != 1 {
		t.Errorf("expected 1 %s diagnostic, got counts: %v", rules.CodeConstructorName, counts)
	}
}

func TestAbstractMethodWithBodyRuleFires(t *testing.T) {
	src := `abstract class Widget
{
    public abstract void Describe() { }
}
`
	counts := runSemantic(t, src)
	if counts[rules.CodeAbstractWithBody] != 1 {
		t.Errorf("expected 1 %s diagnostic, got counts: %v", rules.CodeAbstractWithBody, counts)
	}
}

func TestStaticOverrideRuleFires(t *testing.T) {
	src := `class Widget
{
    public static override void Describe() { }
}
`
	counts := runSemantic(t, src)
	if counts[rules.CodeStaticOverride] != 1 {
		t.Errorf("expected 1 %s diagnostic, got counts: %v", rules.CodeStaticOverride, counts)
	}
}

func TestBadAsyncReturnTypeRuleFires(t *testing.T) {
	src := `class Widget
{
    public async int LoadCount() { return 0; }
}
`
	counts := runSemantic(t, src)
	if counts[rules.CodeBadAsyncReturnType] != 1 {
		t.Errorf("expected 1 %s diagnostic, got counts: %v", rules.CodeBadAsyncReturnType, counts)
	}
}
