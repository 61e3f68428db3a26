package format_test

import (
	"strings"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/format"
	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

const sampleSource = `using System;

namespace Demo
{
    public class Counter
    {
        private int _value;

        public Counter(int start)
        {
            _value = start;
        }

        public int Increment()
        {
            if (_value < 0)
            {
                return 0;
            }
            return _value + 1;
        }
    }
}
`

func mustParse(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	p := parser.New("sample.bs", src, parser.Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}
	return unit
}

func TestPrinterEmitRoundTripsStructure(t *testing.T) {
	p := parser.New("sample.bs", sampleSource, parser.Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}

	var out strings.Builder
	printer := &format.Printer{Indent: 4}
	if err := printer.Emit(&out, unit); err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}

	snaps.MatchSnapshot(t, "counter_formatted", out.String())
}

func TestPrinterEmitIsIdempotent(t *testing.T) {
	p := parser.New("sample.bs", sampleSource, parser.Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}

	printer := &format.Printer{Indent: 4}

	var first strings.Builder
	if err := printer.Emit(&first, unit); err != nil {
		t.Fatalf("first Emit returned an error: %v", err)
	}

	p2 := parser.New("sample_reparsed.bs", first.String(), parser.Strict)
	unit2, err := p2.ParseFile()
	if err != nil {
		t.Fatalf("re-parsing the formatted output failed: %s", err.Pretty(false))
	}

	var second strings.Builder
	if err := printer.Emit(&second, unit2); err != nil {
		t.Fatalf("second Emit returned an error: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("formatting is not idempotent:\n--- first ---\n%s\n--- second ---\n%s", first.String(), second.String())
	}
}

func TestPrinterDefaultIndent(t *testing.T) {
	unit := mustParse(t, "class C { public void M() { } }")
	var out strings.Builder
	printer := &format.Printer{}
	if err := printer.Emit(&out, unit); err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}
	if !strings.Contains(out.String(), "    public void M()") {
		t.Errorf("expected default 4-space indent, got:\n%s", out.String())
	}
}
