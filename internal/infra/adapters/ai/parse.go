package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
)

// parseClassification decodes a model reply into a Classification. It
// tolerates markdown fencing and both envelope shapes ({"result": {...}} from
// strict mode, a bare object from relaxed mode) but insists on the three
// required keys.
func parseClassification(raw string) (*model.Classification, error) {
	raw = stripFences(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrBadAIResponse)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadAIResponse, err)
	}
	if inner, ok := envelope["result"]; ok {
		if err := json.Unmarshal(inner, &envelope); err != nil {
			return nil, fmt.Errorf("%w: result envelope: %v", domain.ErrBadAIResponse, err)
		}
		raw = string(inner)
	}
	for _, key := range []string{"type", "justification", "summary"} {
		if _, ok := envelope[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", domain.ErrBadAIResponse, key)
		}
	}

	var cls model.Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadAIResponse, err)
	}
	if strings.TrimSpace(cls.Type) == "" {
		return nil, fmt.Errorf("%w: blank type", domain.ErrBadAIResponse)
	}
	return &cls, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
