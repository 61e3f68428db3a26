package passes_test

import (
	"testing"

	"github.com/bsharp-lang/bsharp/internal/analysis"
	"github.com/bsharp-lang/bsharp/internal/analysis/passes"
)

func runDeps(t *testing.T, session *analysis.Session) *passes.DependencyGraph {
	t.Helper()
	if err := passes.NewSymbolIndexPass().Run(session); err != nil {
		t.Fatalf("symbol pass returned an error: %v", err)
	}
	if err := passes.NewDependencyPass().Run(session); err != nil {
		t.Fatalf("dependency pass returned an error: %v", err)
	}
	g, ok := analysis.GetArtifact[*passes.DependencyGraph](session.Artifacts())
	if !ok {
		t.Fatal("expected a DependencyGraph artifact to be published")
	}
	return g
}

func hasEdge(g *passes.DependencyGraph, from, to string, kind passes.DepEdgeKind) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}

func TestDependencyPassRecordsInheritanceEdge(t *testing.T) {
	src := `class Animal { }
class Dog : Animal { }
`
	session := mustSession(t, src)
	g := runDeps(t, session)
	if !hasEdge(g, "Dog", "Animal", passes.DepInheritance) {
		t.Errorf("expected an Inheritance edge Dog -> Animal, got edges: %v", g.Edges)
	}
}

func TestDependencyPassRecordsMemberTypeEdges(t *testing.T) {
	src := `class Engine { }
class Car
{
    private Engine _engine;

    public Engine GetEngine() { return _engine; }
}
`
	session := mustSession(t, src)
	g := runDeps(t, session)
	if !hasEdge(g, "Car", "Engine", passes.DepMemberType) {
		t.Errorf("expected a MemberType edge Car -> Engine for the field, got edges: %v", g.Edges)
	}
}

func TestDependencyPassRecordsInvocationEdge(t *testing.T) {
	src := `class Logger
{
    public void Warn() { }
}
class Service
{
    public void Run()
    {
        Warn();
    }
}
`
	session := mustSession(t, src)
	g := runDeps(t, session)
	if !hasEdge(g, "Service", "Warn", passes.DepInvocation) {
		t.Errorf("expected an Invocation edge Service -> Warn, got edges: %v", g.Edges)
	}
}

func TestDependencyPassAddsUnresolvedNamesAsNodes(t *testing.T) {
	src := `class Widget : IDisposable { }
`
	session := mustSession(t, src)
	g := runDeps(t, session)
	if !g.Nodes["IDisposable"] {
		t.Error("expected an unresolved base type to still be recorded as a node")
	}
}
