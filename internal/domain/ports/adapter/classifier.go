package adapter

import (
	"context"

	"schema-ai-service/internal/domain/model"
)

// Classifier analyzes one content record and returns a typed classification
// with extraction details. forcedType, when not empty or "Auto", instructs
// the classifier to keep that schema type and only extract details;
// forcedReviewedType does the same for the reviewed-item sub-type.
type Classifier interface {
	Analyze(ctx context.Context, content *model.Content, forcedType, forcedReviewedType string) (*model.Classification, error)
}
