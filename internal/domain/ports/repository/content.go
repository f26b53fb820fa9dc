package repository

import (
	"context"

	"schema-ai-service/internal/domain/model"
)

// ContentRepository reads editorial content and maintains its generation
// metadata.
type ContentRepository interface {
	// FindByID returns the content record or ErrNotFound.
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Content, error)

	// ListIDs returns ids of all content of the given kinds, oldest first.
	ListIDs(ctx context.Context, tx Tx, kinds []string) ([]int64, error)

	// ListIDsMissingSchema returns ids of supported content that has no live
	// schema yet.
	ListIDsMissingSchema(ctx context.Context, tx Tx) ([]int64, error)

	// GetMeta returns generation metadata; a zero-value record (never an
	// error) when none exists yet.
	GetMeta(ctx context.Context, tx Tx, contentID int64) (*model.ContentMeta, error)

	SetContentHash(ctx context.Context, tx Tx, contentID int64, hash string) error
	SetOverrides(ctx context.Context, tx Tx, contentID int64, forcedType, forcedReviewedType string) error
	SetLastError(ctx context.Context, tx Tx, contentID int64, msg string) error
	ClearLastError(ctx context.Context, tx Tx, contentID int64) error
}
