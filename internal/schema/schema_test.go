package schema

import "testing"

func TestPruneDropsEmptyValues(t *testing.T) {
	in := Node{
		KeyType:  "Thing",
		"name":   "  ",
		"url":    "https://example.com",
		"empty":  Node{},
		"nested": Node{"inner": "", "keep": "x"},
		"list":   []any{"", nil, "a"},
		"tags":   []string{"", "  ", "b"},
		"nilval": nil,
	}
	out, ok := Prune(in).(Node)
	if !ok {
		t.Fatal("expected pruned node")
	}
	if _, exists := out["name"]; exists {
		t.Error("blank string should be dropped")
	}
	if _, exists := out["empty"]; exists {
		t.Error("empty node should be dropped")
	}
	if _, exists := out["nilval"]; exists {
		t.Error("nil should be dropped")
	}
	nested, _ := out["nested"].(Node)
	if len(nested) != 1 || nested["keep"] != "x" {
		t.Errorf("nested prune wrong: %v", nested)
	}
	if list, _ := out["list"].([]any); len(list) != 1 || list[0] != "a" {
		t.Errorf("list prune wrong: %v", out["list"])
	}
	if tags, _ := out["tags"].([]any); len(tags) != 1 || tags[0] != "b" {
		t.Errorf("string list prune wrong: %v", out["tags"])
	}
}

func TestPruneFullyEmptyReturnsNil(t *testing.T) {
	if got := Prune(Node{"a": "", "b": Node{"c": nil}}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestDocumentEnvelope(t *testing.T) {
	doc := Document([]Node{
		{KeyType: "Thing", KeyID: "#a", "name": "A"},
		{"drop": ""},
	})
	if doc[KeyContext] != Context {
		t.Fatalf("bad context: %v", doc[KeyContext])
	}
	graph, _ := doc[KeyGraph].([]any)
	if len(graph) != 1 {
		t.Fatalf("expected 1 node after pruning, got %d", len(graph))
	}
}

func TestRef(t *testing.T) {
	r := Ref("#x")
	if len(r) != 1 || r[KeyID] != "#x" {
		t.Fatalf("bad ref: %v", r)
	}
}
