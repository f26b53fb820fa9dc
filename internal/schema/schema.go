// Package schema holds the JSON-LD value-tree primitives shared by the graph
// builder and validator. Graphs are plain map/slice trees so encoding/json
// round-trips them without adapters.
package schema

import "strings"

const (
	Context = "https://schema.org"

	KeyContext = "@context"
	KeyGraph   = "@graph"
	KeyType    = "@type"
	KeyID      = "@id"
)

// Node is one entity in the linked-data graph.
type Node = map[string]any

// Ref builds an {@id} reference object pointing at another node.
func Ref(id string) Node { return Node{KeyID: id} }

// Document wraps nodes into a pruned @context/@graph envelope.
func Document(nodes []Node) map[string]any {
	graph := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if p, ok := Prune(n).(Node); ok {
			graph = append(graph, p)
		}
	}
	return map[string]any{KeyContext: Context, KeyGraph: graph}
}

// Prune recursively removes nils, blank strings, and empty containers.
// A fully pruned value returns nil so parents drop the key as well.
func Prune(v any) any {
	switch t := v.(type) {
	case Node:
		out := make(Node, len(t))
		for k, child := range t {
			c := Prune(child)
			if empty(c) {
				continue
			}
			out[k] = c
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			c := Prune(child)
			if empty(c) {
				continue
			}
			out = append(out, c)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []Node:
		anys := make([]any, len(t))
		for i, n := range t {
			anys[i] = n
		}
		return Prune(anys)
	case []string:
		out := make([]any, 0, len(t))
		for _, s := range t {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return v
	}
}

func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case Node:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
