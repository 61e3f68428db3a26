package passes_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
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

const symbolsSource = `namespace Acme.Widgets
{
    public class Gadget
    {
        private int _count;

        public Gadget(int count)
        {
            _count = count;
        }

        public int Count()
        {
            return _count;
        }
    }
}
`

func TestSymbolIndexPassAssignsFullyQualifiedNames(t *testing.T) {
	session := mustSession(t, symbolsSource)
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	idx, ok := analysis.GetArtifact[*passes.SymbolIndex](session.Artifacts())
	if !ok {
		t.Fatal("expected a SymbolIndex artifact to be published")
	}

	want := map[string]passes.SymbolKind{
		"Acme.Widgets.Gadget":         passes.SymbolClass,
		"Acme.Widgets.Gadget::Count":  passes.SymbolMethod,
		"Acme.Widgets.Gadget::_count": passes.SymbolField,
	}
	got := map[string]passes.SymbolKind{}
	for _, sym := range idx.ByID {
		got[sym.FQN] = sym.Kind
	}
	for fqn, kind := range want {
		gotKind, ok := got[fqn]
		if !ok {
			t.Errorf("expected a symbol with FQN %q, got symbols: %v", fqn, got)
			continue
		}
		if gotKind != kind {
			t.Errorf("FQN %q: expected kind %s, got %s", fqn, kind, gotKind)
		}
	}

	fqns, ok := analysis.GetArtifact[*passes.FqnMap](session.Artifacts())
	if !ok {
		t.Fatal("expected an FqnMap artifact to be published")
	}
	if _, ok := fqns.ByFQN["Acme.Widgets.Gadget"]; !ok {
		t.Error("expected FqnMap to resolve the class's own FQN")
	}
}

func TestSymbolIndexPassCountsOverloadsByName(t *testing.T) {
	src := `class Calculator
{
    public int Add(int a, int b) { return a + b; }
    public int Add(int a, int b, int c) { return a + b + c; }
}
`
	session := mustSession(t, src)
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	names, ok := analysis.GetArtifact[*passes.NameIndex](session.Artifacts())
	if !ok {
		t.Fatal("expected a NameIndex artifact to be published")
	}
	if names.Counts["Add"] != 2 {
		t.Errorf("expected 2 symbols named Add, got %d", names.Counts["Add"])
	}
}

func TestSymbolIndexPassEmptyUnitPublishesEmptyArtifacts(t *testing.T) {
	session := mustSession(t, "")
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	idx, ok := analysis.GetArtifact[*passes.SymbolIndex](session.Artifacts())
	if !ok {
		t.Fatal("expected a SymbolIndex artifact even for an empty file")
	}
	if len(idx.ByID) != 0 {
		t.Errorf("expected no symbols for an empty file, got %d", len(idx.ByID))
	}
}
