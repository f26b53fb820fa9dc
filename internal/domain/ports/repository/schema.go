package repository

import (
	"context"

	"schema-ai-service/internal/domain/model"
)

// SchemaMeta is the descriptive state stored alongside a promoted live graph.
type SchemaMeta struct {
	SchemaType    string
	Justification string
	Summary       string
	MissingInfo   []string
	WarningCount  int
}

// SchemaRepository persists generated graphs with a draft/live split: live is
// only ever written with validator-clean JSON, draft holds rejected output.
type SchemaRepository interface {
	// Get returns the schema record or ErrNotFound.
	Get(ctx context.Context, tx Tx, contentID int64) (*model.SchemaRecord, error)

	// SaveDraft stores rejected output and its error without touching the
	// live slot.
	SaveDraft(ctx context.Context, tx Tx, contentID int64, draftJSON, lastError string) error

	// PromoteLive stores validated JSON in the live slot, clears the draft
	// and error, and stamps generated_at.
	PromoteLive(ctx context.Context, tx Tx, contentID int64, liveJSON string, meta SchemaMeta) error

	// SaveValidation stores the serialized validation report.
	SaveValidation(ctx context.Context, tx Tx, contentID int64, reportJSON string, warnings int) error

	// Clear removes all derived schema state for the content record.
	Clear(ctx context.Context, tx Tx, contentID int64) error
}
