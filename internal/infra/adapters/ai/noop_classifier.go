package ai

import (
	"context"
	"time"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/adapter"
	"schema-ai-service/internal/textutil"
)

var _ adapter.Classifier = (*NoopClassifier)(nil)

// NoopClassifier implements the classifier port for local/dev testing. It
// classifies everything as a BlogPosting without calling any provider.
type NoopClassifier struct{}

func NewNoopClassifier() *NoopClassifier { return &NoopClassifier{} }

func (n *NoopClassifier) Analyze(ctx context.Context, content *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	typ := model.TypeBlogPosting
	if forcedType != "" && forcedType != "Auto" && model.IsSupportedType(forcedType) {
		typ = forcedType
	}
	return &model.Classification{
		Type:          typ,
		Justification: "no provider configured; defaulted",
		Summary:       textutil.TrimWords(textutil.StripTags(content.Body), 35),
		Details:       model.Details{ReviewedType: forcedReviewedType},
	}, nil
}
