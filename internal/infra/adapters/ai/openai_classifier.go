package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"schema-ai-service/internal/config"
	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/adapter"
	"schema-ai-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Classifier = (*OpenAIClassifier)(nil)

// OpenAIClassifier implements the classifier port over the Chat Completions
// API. It asks for strict json_schema output first and retries once in
// relaxed json_object mode when the strict call fails for any reason.
type OpenAIClassifier struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
	clean  *cleaner
	log    *zerolog.Logger
}

func NewOpenAIClassifier(cfg config.AIConfig, logger *zerolog.Logger) (*OpenAIClassifier, error) {
	if cfg.OpenAIKey == "" {
		return nil, domain.ErrMissingCredentials
	}
	return &OpenAIClassifier{
		apiKey: cfg.OpenAIKey,
		base:   cfg.OpenAIURL,
		model:  cfg.DefaultModel,
		client: &http.Client{Timeout: cfg.Timeout},
		clean:  newCleaner(cfg.MaxTokens, cfg.MaxChars),
		log:    logger,
	}, nil
}

func (o *OpenAIClassifier) Analyze(ctx context.Context, content *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error) {
	if o.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	in := o.clean.prepare(content)
	sys := systemPrompt(forcedType, forcedReviewedType)
	user := userMessage(in)

	start := time.Now()
	cls, err := o.request(ctx, sys, user, strictResponseFormat())
	metrics.ObserveClassification("openai", "strict", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		o.log.Warn().Err(err).Int64("content_id", content.ID).Msg("strict classification failed; retrying relaxed")
		start = time.Now()
		cls, err = o.request(ctx, sys, user, relaxedResponseFormat())
		metrics.ObserveClassification("openai", "relaxed", int(time.Since(start).Milliseconds()), err == nil)
		if err != nil {
			return nil, fmt.Errorf("openai classify: %w", err)
		}
	}

	applyPostFixes(cls, in)
	return cls, nil
}

func (o *OpenAIClassifier) request(ctx context.Context, sys, user string, format map[string]any) (*model.Classification, error) {
	payload := map[string]any{
		"model":       o.model,
		"temperature": 0,
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user},
		},
		"response_format": format,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadAIResponse, err)
	}
	for _, c := range reply.Choices {
		if c.Message.Content != "" {
			return parseClassification(c.Message.Content)
		}
	}
	return nil, errors.New("no choice content")
}
