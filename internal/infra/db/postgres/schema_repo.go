package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/repository"
)

var _ repository.SchemaRepository = (*schemaRepo)(nil)

type schemaRepo struct {
	pool *pgxpool.Pool
}

func NewSchemaRepo(pool *pgxpool.Pool) *schemaRepo {
	return &schemaRepo{pool: pool}
}

func (r *schemaRepo) Get(ctx context.Context, tx repository.Tx, contentID int64) (*model.SchemaRecord, error) {
	const q = `
SELECT content_id, live_json, draft_json, schema_type, justification, summary,
       missing_info, validation_report, warning_count, last_error, generated_at, updated_at
FROM content_schema
WHERE content_id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, contentID)
	if err != nil {
		return nil, err
	}
	var rec model.SchemaRecord
	var missingInfo []byte
	err = row.Scan(
		&rec.ContentID, &rec.LiveJSON, &rec.DraftJSON, &rec.SchemaType,
		&rec.Justification, &rec.Summary, &missingInfo, &rec.ValidationReport,
		&rec.WarningCount, &rec.LastError, &rec.GeneratedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(missingInfo) > 0 {
		_ = json.Unmarshal(missingInfo, &rec.MissingInfo)
	}
	return &rec, nil
}

// SaveDraft parks rejected output without touching the live slot.
func (r *schemaRepo) SaveDraft(ctx context.Context, tx repository.Tx, contentID int64, draftJSON, lastError string) error {
	const q = `
INSERT INTO content_schema (content_id, draft_json, last_error, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (content_id) DO UPDATE SET
  draft_json = EXCLUDED.draft_json,
  last_error = EXCLUDED.last_error,
  updated_at = now();`

	_, err := execSQL(ctx, r.pool, tx, q, contentID, draftJSON, lastError)
	return err
}

// PromoteLive replaces the live slot and wipes any draft and error from a
// previous rejection.
func (r *schemaRepo) PromoteLive(ctx context.Context, tx repository.Tx, contentID int64, liveJSON string, meta repository.SchemaMeta) error {
	missingInfo, err := json.Marshal(meta.MissingInfo)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO content_schema (content_id, live_json, draft_json, schema_type, justification, summary,
                            missing_info, warning_count, last_error, generated_at, updated_at)
VALUES ($1, $2, '', $3, $4, $5, $6, $7, '', now(), now())
ON CONFLICT (content_id) DO UPDATE SET
  live_json = EXCLUDED.live_json,
  draft_json = '',
  schema_type = EXCLUDED.schema_type,
  justification = EXCLUDED.justification,
  summary = EXCLUDED.summary,
  missing_info = EXCLUDED.missing_info,
  warning_count = EXCLUDED.warning_count,
  last_error = '',
  generated_at = now(),
  updated_at = now();`

	_, err = execSQL(ctx, r.pool, tx, q, contentID, liveJSON,
		meta.SchemaType, meta.Justification, meta.Summary, missingInfo, meta.WarningCount)
	return err
}

func (r *schemaRepo) SaveValidation(ctx context.Context, tx repository.Tx, contentID int64, reportJSON string, warnings int) error {
	const q = `
INSERT INTO content_schema (content_id, validation_report, warning_count, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (content_id) DO UPDATE SET
  validation_report = EXCLUDED.validation_report,
  warning_count = EXCLUDED.warning_count,
  updated_at = now();`

	_, err := execSQL(ctx, r.pool, tx, q, contentID, reportJSON, warnings)
	return err
}

func (r *schemaRepo) Clear(ctx context.Context, tx repository.Tx, contentID int64) error {
	const q = `DELETE FROM content_schema WHERE content_id = $1;`

	_, err := execSQL(ctx, r.pool, tx, q, contentID)
	return err
}
