// Package validation checks generated JSON-LD documents before they are
// allowed into the live slot: structural pass (context, node extraction,
// duplicate ids, reference resolution), then per-type property rules.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"schema-ai-service/internal/schema"
)

// Validate runs all checks against a decoded document. siteURL anchors
// internal-reference detection: fragment ids and ids on the site's own host
// must resolve within the document, foreign ids are exempt.
func Validate(doc map[string]any, siteURL string) *Report {
	r := &Report{}
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	siteHost := ""
	if u, err := url.Parse(siteURL); err == nil {
		siteHost = strings.ToLower(u.Hostname())
	}

	checkContext(doc, r)

	nodes := extractNodes(doc)
	if len(nodes) == 0 {
		r.add(SeverityError, "no_nodes", "", "", "document contains no typed nodes")
		return r
	}

	ids := make(map[string]int)
	for _, n := range nodes {
		id, _ := n[schema.KeyID].(string)
		if id == "" {
			continue
		}
		ids[id]++
		if ids[id] == 2 {
			r.add(SeverityWarning, "duplicate_id", typeOf(n), id, "duplicate @id %q", id)
		}
	}

	for i, n := range nodes {
		path := fmt.Sprintf("@graph[%d]", i)
		checkRefs(n, path, ids, siteURL, siteHost, r)
		checkTypeRules(n, path, r)
	}
	return r
}

func checkContext(doc map[string]any, r *Report) {
	switch ctx := doc[schema.KeyContext].(type) {
	case string:
		if strings.Contains(strings.ToLower(ctx), "schema.org") {
			return
		}
	case []any:
		for _, v := range ctx {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), "schema.org") {
				return
			}
		}
	}
	r.add(SeverityWarning, "context", "", schema.KeyContext, "@context does not reference schema.org")
}

// extractNodes returns the graph members, or the document itself when it is a
// single typed root.
func extractNodes(doc map[string]any) []map[string]any {
	if graph, ok := doc[schema.KeyGraph].([]any); ok {
		out := make([]map[string]any, 0, len(graph))
		for _, v := range graph {
			if n, ok := v.(map[string]any); ok {
				out = append(out, n)
			}
		}
		return out
	}
	if _, ok := doc[schema.KeyType]; ok {
		return []map[string]any{doc}
	}
	return nil
}

func typeOf(n map[string]any) string {
	switch t := n[schema.KeyType].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// isRef reports whether v is a bare reference object: only @id, optionally
// with @type.
func isRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m[schema.KeyID].(string)
	if !ok || id == "" {
		return "", false
	}
	for k := range m {
		if k != schema.KeyID && k != schema.KeyType {
			return "", false
		}
	}
	return id, true
}

func internalID(id, siteURL, siteHost string) bool {
	if strings.HasPrefix(id, "#") {
		return true
	}
	if siteURL != "" && strings.HasPrefix(id, siteURL) {
		return true
	}
	if u, err := url.Parse(id); err == nil && siteHost != "" {
		return strings.EqualFold(u.Hostname(), siteHost)
	}
	return false
}

// checkRefs walks a node's property values collecting reference objects and
// flags internal references that resolve to no node in the document.
func checkRefs(n map[string]any, path string, ids map[string]int, siteURL, siteHost string, r *Report) {
	for key, v := range n {
		if key == schema.KeyID || key == schema.KeyType {
			continue
		}
		walkRefs(v, path+"."+key, ids, siteURL, siteHost, r)
	}
}

func walkRefs(v any, path string, ids map[string]int, siteURL, siteHost string, r *Report) {
	if id, ok := isRef(v); ok {
		if _, found := ids[id]; !found && internalID(id, siteURL, siteHost) {
			r.add(SeverityError, "unresolved_id", "", path, "reference %q resolves to no node in the graph", id)
		}
		return
	}
	switch t := v.(type) {
	case map[string]any:
		for key, child := range t {
			if key == schema.KeyID || key == schema.KeyType {
				continue
			}
			walkRefs(child, path+"."+key, ids, siteURL, siteHost, r)
		}
	case []any:
		for i, child := range t {
			walkRefs(child, fmt.Sprintf("%s[%d]", path, i), ids, siteURL, siteHost, r)
		}
	}
}

func valueEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func checkTypeRules(n map[string]any, path string, r *Report) {
	nodeType := typeOf(n)
	if nodeType == "" {
		r.add(SeverityWarning, "untyped_node", "", path, "node has no @type")
		return
	}
	rule, ok := typeRules[nodeType]
	if ok {
		sev := rule.Severity
		if sev == "" {
			sev = SeverityError
		}
		for _, prop := range rule.Required {
			if valueEmpty(n[prop]) {
				r.add(sev, "missing_required", nodeType, path, "%s is missing required property %q", nodeType, prop)
			}
		}
		for _, prop := range rule.Recommended {
			if valueEmpty(n[prop]) {
				r.add(SeverityWarning, "missing_recommended", nodeType, path, "%s is missing recommended property %q", nodeType, prop)
			}
		}
		for _, group := range rule.OneOf {
			if !anyPresent(n, group) {
				r.add(sev, "missing_one_of", nodeType, path, "%s needs at least one of %s", nodeType, strings.Join(group, ", "))
			}
		}
	}

	switch nodeType {
	case "FAQPage":
		checkFAQ(n, path, r)
	case "HowTo":
		checkHowTo(n, path, r)
	case "ItemList":
		checkItemList(n, path, r)
	case "Review":
		checkReview(n, path, r)
	}
}

func anyPresent(n map[string]any, props []string) bool {
	for _, p := range props {
		if !valueEmpty(n[p]) {
			return true
		}
	}
	return false
}

// checkFAQ requires at least one well-formed Question (name plus
// acceptedAnswer.text).
func checkFAQ(n map[string]any, path string, r *Report) {
	entries, _ := n["mainEntity"].([]any)
	valid := 0
	for _, e := range entries {
		q, ok := e.(map[string]any)
		if !ok || valueEmpty(q["name"]) {
			continue
		}
		answer, ok := q["acceptedAnswer"].(map[string]any)
		if !ok || valueEmpty(answer["text"]) {
			continue
		}
		valid++
	}
	if valid == 0 {
		r.add(SeverityError, "faq_questions", "FAQPage", path, "FAQPage has no question with a name and an acceptedAnswer text")
	}
}

func checkHowTo(n map[string]any, path string, r *Report) {
	steps, _ := n["step"].([]any)
	if len(steps) == 0 {
		r.add(SeverityError, "howto_steps", "HowTo", path, "HowTo has no steps")
		return
	}
	for i, s := range steps {
		step, ok := s.(map[string]any)
		if !ok || valueEmpty(step["text"]) {
			r.add(SeverityWarning, "howto_step_text", "HowTo", fmt.Sprintf("%s.step[%d]", path, i), "HowTo step has no text")
		}
	}
}

func checkItemList(n map[string]any, path string, r *Report) {
	entries, _ := n["itemListElement"].([]any)
	if len(entries) == 0 {
		r.add(SeverityError, "itemlist_entries", "ItemList", path, "ItemList has no entries")
		return
	}
	for i, e := range entries {
		entry, ok := e.(map[string]any)
		entryPath := fmt.Sprintf("%s.itemListElement[%d]", path, i)
		if !ok {
			r.add(SeverityWarning, "itemlist_entry", "ItemList", entryPath, "list entry is not an object")
			continue
		}
		if valueEmpty(entry["position"]) {
			r.add(SeverityWarning, "itemlist_position", "ItemList", entryPath, "list entry has no position")
		}
		if valueEmpty(entry["name"]) && valueEmpty(entry["item"]) {
			r.add(SeverityWarning, "itemlist_name", "ItemList", entryPath, "list entry has neither name nor item")
		}
	}
}

// checkReview flags a reviewRating object that carries no ratingValue.
func checkReview(n map[string]any, path string, r *Report) {
	rating, ok := n["reviewRating"].(map[string]any)
	if !ok {
		return
	}
	if valueEmpty(rating["ratingValue"]) {
		r.add(SeverityWarning, "review_rating", "Review", path, "reviewRating has no ratingValue")
	}
}
