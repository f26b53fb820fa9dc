package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/domain/ports/repository"
)

var _ repository.ContentRepository = (*contentRepo)(nil)

type contentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *contentRepo {
	return &contentRepo{pool: pool}
}

func (r *contentRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Content, error) {
	const q = `
SELECT id, kind, title, body, excerpt, permalink, author_name, author_url, author_image_url, image_url, language, published_at, modified_at
FROM contents
WHERE id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var c model.Content
	err = row.Scan(
		&c.ID, &c.Kind, &c.Title, &c.Body, &c.Excerpt, &c.Permalink,
		&c.AuthorName, &c.AuthorURL, &c.AuthorImageURL, &c.ImageURL,
		&c.Language, &c.PublishedAt, &c.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

func (r *contentRepo) ListIDs(ctx context.Context, tx repository.Tx, kinds []string) ([]int64, error) {
	const q = `SELECT id FROM contents WHERE kind = ANY($1) ORDER BY id ASC;`

	rows, err := pickRows(ctx, r.pool, tx, q, kinds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *contentRepo) ListIDsMissingSchema(ctx context.Context, tx repository.Tx) ([]int64, error) {
	const q = `
SELECT c.id
FROM contents c
LEFT JOIN content_schema s ON s.content_id = c.id AND s.live_json <> ''
WHERE c.kind IN ('post', 'page') AND s.content_id IS NULL
ORDER BY c.id ASC;`

	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *contentRepo) GetMeta(ctx context.Context, tx repository.Tx, contentID int64) (*model.ContentMeta, error) {
	const q = `
SELECT content_id, content_hash, forced_type, forced_reviewed_type, last_error
FROM content_meta
WHERE content_id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, contentID)
	if err != nil {
		return nil, err
	}
	var m model.ContentMeta
	err = row.Scan(&m.ContentID, &m.ContentHash, &m.ForcedType, &m.ForcedReviewedType, &m.LastError)
	if errors.Is(err, pgx.ErrNoRows) {
		return &model.ContentMeta{ContentID: contentID}, nil
	}
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &m, nil
}

func (r *contentRepo) SetContentHash(ctx context.Context, tx repository.Tx, contentID int64, hash string) error {
	const q = `
INSERT INTO content_meta (content_id, content_hash)
VALUES ($1, $2)
ON CONFLICT (content_id) DO UPDATE SET content_hash = EXCLUDED.content_hash;`

	_, err := execSQL(ctx, r.pool, tx, q, contentID, hash)
	return err
}

func (r *contentRepo) SetOverrides(ctx context.Context, tx repository.Tx, contentID int64, forcedType, forcedReviewedType string) error {
	const q = `
INSERT INTO content_meta (content_id, forced_type, forced_reviewed_type)
VALUES ($1, $2, $3)
ON CONFLICT (content_id) DO UPDATE SET
  forced_type = EXCLUDED.forced_type,
  forced_reviewed_type = EXCLUDED.forced_reviewed_type;`

	_, err := execSQL(ctx, r.pool, tx, q, contentID, forcedType, forcedReviewedType)
	return err
}

func (r *contentRepo) SetLastError(ctx context.Context, tx repository.Tx, contentID int64, msg string) error {
	const q = `
INSERT INTO content_meta (content_id, last_error)
VALUES ($1, $2)
ON CONFLICT (content_id) DO UPDATE SET last_error = EXCLUDED.last_error;`

	_, err := execSQL(ctx, r.pool, tx, q, contentID, msg)
	return err
}

func (r *contentRepo) ClearLastError(ctx context.Context, tx repository.Tx, contentID int64) error {
	const q = `UPDATE content_meta SET last_error = '' WHERE content_id = $1;`

	_, err := execSQL(ctx, r.pool, tx, q, contentID)
	return err
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
