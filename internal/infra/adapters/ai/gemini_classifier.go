package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"schema-ai-service/internal/config"
	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/adapter"
	"schema-ai-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.Classifier = (*GeminiClassifier)(nil)

// GeminiClassifier is the secondary provider, using the official SDK. Gemini
// gets the same prompt but only the relaxed JSON mode; the shared parser and
// post-fixes keep its output on par with strict OpenAI replies.
type GeminiClassifier struct {
	client *genai.Client
	model  string
	clean  *cleaner
	log    *zerolog.Logger
}

func NewGeminiClassifier(ctx context.Context, cfg config.AIConfig, logger *zerolog.Logger) (*GeminiClassifier, error) {
	if cfg.GeminiKey == "" {
		return nil, domain.ErrMissingCredentials
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.GeminiURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClassifier{
		client: c,
		model:  cfg.DefaultModel,
		clean:  newCleaner(cfg.MaxTokens, cfg.MaxChars),
		log:    logger,
	}, nil
}

func (g *GeminiClassifier) Analyze(ctx context.Context, content *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error) {
	in := g.clean.prepare(content)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt(forcedType, forcedReviewedType)}},
		},
	}
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: userMessage(in)}},
	}}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	ok := err == nil
	text := ""
	if ok && resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	metrics.ObserveClassification("gemini", "relaxed", int(time.Since(start).Milliseconds()), ok && text != "")
	if err != nil {
		return nil, fmt.Errorf("gemini classify: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("gemini classify: %w", domain.ErrBadAIResponse)
	}

	cls, err := parseClassification(text)
	if err != nil {
		return nil, fmt.Errorf("gemini classify: %w", err)
	}
	applyPostFixes(cls, in)
	return cls, nil
}
