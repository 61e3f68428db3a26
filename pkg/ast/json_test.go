package ast

import (
	"encoding/json"
	"testing"

	"github.com/bsharp-lang/bsharp/pkg/span"
)

func TestEncodeJSONEmitsKindAndFields(t *testing.T) {
	class := &ClassDecl{
		Name:      "Greeter",
		Modifiers: []string{"public"},
	}
	unit := &CompilationUnit{TopLevelDeclarations: []TopLevelDeclaration{class}}

	v := EncodeJSON(unit, nil)
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected a map at the root, got %T", v)
	}
	if obj["kind"] != "CompilationUnit" {
		t.Errorf("expected kind CompilationUnit, got %v", obj["kind"])
	}

	decls, ok := obj["top_level_declarations"].([]any)
	if !ok || len(decls) != 1 {
		t.Fatalf("expected 1 encoded declaration, got %#v", obj["top_level_declarations"])
	}
	enc := decls[0].(map[string]any)
	if enc["kind"] != "ClassDecl" || enc["name"] != "Greeter" {
		t.Errorf("unexpected class encoding: %#v", enc)
	}
	if _, present := enc["members"]; present {
		t.Error("empty slices must be omitted")
	}

	if _, err := json.Marshal(v); err != nil {
		t.Fatalf("encoded value must marshal cleanly: %v", err)
	}
}

func TestEncodeJSONAttachesSpans(t *testing.T) {
	table := span.NewTable()
	id := table.Alloc(span.Span{Bytes: span.ByteRange{Start: 3, End: 10}})
	class := &ClassDecl{Base: Base{NodeID: id}, Name: "C"}

	v := EncodeJSON(class, table)
	obj := v.(map[string]any)
	sp, ok := obj["span"].(map[string]any)
	if !ok {
		t.Fatalf("expected a span entry, got %#v", obj)
	}
	if sp["start"] != 3 || sp["end"] != 10 {
		t.Errorf("unexpected span payload: %#v", sp)
	}
}

func TestSnakeCaseKeepsInitialismsTogether(t *testing.T) {
	cases := map[string]string{
		"Name":       "name",
		"IsAsync":    "is_async",
		"FQN":        "fqn",
		"TypeArgs":   "type_args",
		"ObjectInit": "object_init",
		"ID":         "id",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
