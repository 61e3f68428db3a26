package parser

import (
	"testing"

	"github.com/bsharp-lang/bsharp/pkg/ast"
)

func TestParseFileClassDecl(t *testing.T) {
	src := `using System;

namespace Demo
{
    public class Greeter
    {
        private readonly string _name;

        public Greeter(string name)
        {
            _name = name;
        }

        public string Greet()
        {
            if (_name == "")
            {
                return "hello, stranger";
            }
            return "hello, " + _name;
        }
    }
}
`
	p := New("greeter.bs", src, Strict)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Pretty(false))
	}
	if len(unit.TopLevelDeclarations) != 1 {
		t.Fatalf("expected 1 top-level declaration, got %d", len(unit.TopLevelDeclarations))
	}
	ns, ok := unit.TopLevelDeclarations[0].(*ast.NamespaceDecl)
	if !ok {
		t.Fatalf("expected *ast.NamespaceDecl, got %T", unit.TopLevelDeclarations[0])
	}
	if len(ns.Declarations) != 1 {
		t.Fatalf("expected 1 declaration inside namespace, got %d", len(ns.Declarations))
	}
	class, ok := ns.Declarations[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", ns.Declarations[0])
	}
	if class.Name != "Greeter" {
		t.Errorf("expected class name Greeter, got %q", class.Name)
	}
	if len(class.Members) != 3 {
		t.Errorf("expected 3 members (field, constructor, method), got %d", len(class.Members))
	}
}

func TestParseFileStrictModeAbortsOnFirstError(t *testing.T) {
	src := `class Broken
{
    public void M()
    {
        int x = 1;
`
	p := New("broken.bs", src, Strict)
	_, err := p.ParseFile()
	if err == nil {
		t.Fatal("expected a parse error in strict mode for an unterminated block")
	}
}

func TestParseFileLenientModeRecoversAndKeepsGoing(t *testing.T) {
	src := `class First
{
    public void Good() { }
}

class &&& broken class that makes no sense at all

class Second
{
    public void AlsoGood() { }
}
`
	p := New("lenient.bs", src, Lenient)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("lenient mode should never return a fatal error, got: %s", err.Pretty(false))
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one recorded parse error")
	}

	var names []string
	for _, decl := range unit.TopLevelDeclarations {
		if c, ok := decl.(*ast.ClassDecl); ok {
			names = append(names, c.Name)
		}
	}
	foundFirst, foundSecond := false, false
	for _, n := range names {
		if n == "First" {
			foundFirst = true
		}
		if n == "Second" {
			foundSecond = true
		}
	}
	if !foundFirst {
		t.Errorf("expected to recover class First, got classes: %v", names)
	}
	if !foundSecond {
		t.Errorf("expected to recover class Second after the broken declaration, got classes: %v", names)
	}
}

func TestParseFileLenientModeRecoversWithinStatementList(t *testing.T) {
	src := `class C
{
    public void M()
    {
        int x = 1;
        @@@ not a statement at all;
        int y = 2;
    }
}
`
	p := New("lenient_stmt.bs", src, Lenient)
	unit, err := p.ParseFile()
	if err != nil {
		t.Fatalf("lenient mode should never return a fatal error, got: %s", err.Pretty(false))
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one recorded parse error")
	}

	class := unit.TopLevelDeclarations[0].(*ast.ClassDecl)
	method := class.Members[0].(*ast.MethodDecl)
	if method.Body == nil {
		t.Fatal("expected method body to have been parsed despite the bad statement")
	}
	if len(method.Body.Statements) < 3 {
		t.Fatalf("expected the declarations before and after the bad statement to survive, got %d statements", len(method.Body.Statements))
	}

	sawErrorStmt := false
	for _, s := range method.Body.Statements {
		if _, ok := s.(*ast.ErrorStmt); ok {
			sawErrorStmt = true
		}
	}
	if !sawErrorStmt {
		t.Error("expected an ast.ErrorStmt marker in place of the unparseable statement")
	}
}
