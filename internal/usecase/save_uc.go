package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"schema-ai-service/internal/domain/ports/repository"
	"schema-ai-service/internal/infra/metrics"
	"schema-ai-service/internal/schema/validation"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ SaveUseCase = (*saveUC)(nil)

// SaveUseCase is the single gateway through which generated (or manually
// edited) schema JSON reaches storage. It enforces the draft/live split:
// only validator-clean documents are promoted to the live slot.
type SaveUseCase interface {
	// Save persists jsonText for the content record. Returns true when the
	// document was promoted live, false when it was parked in the draft slot
	// (or, for empty input, when all derived state was cleared: also true).
	// The error return is reserved for storage failures.
	Save(ctx context.Context, in SaveInput) (bool, error)
}

// SaveInput carries the document plus the descriptive metadata stored with a
// successful promotion.
type SaveInput struct {
	ContentID     int64
	JSON          string
	SchemaType    string
	Justification string
	Summary       string
	MissingInfo   []string
}

type saveUC struct {
	store   repository.SchemaRepository
	tm      repository.TransactionManager
	siteURL string

	log *zerolog.Logger
}

func NewSaveUseCase(store repository.SchemaRepository, tm repository.TransactionManager, siteURL string, logger *zerolog.Logger) *saveUC {
	return &saveUC{store: store, tm: tm, siteURL: siteURL, log: logger}
}

func (s *saveUC) Save(ctx context.Context, in SaveInput) (bool, error) {
	text := strings.TrimSpace(in.JSON)

	if text == "" {
		err := s.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			return s.store.Clear(ctx, tx, in.ContentID)
		})
		if err != nil {
			return false, err
		}
		metrics.IncSchemaSave("cleared")
		s.log.Info().Int64("content_id", in.ContentID).Msg("schema state cleared")
		return true, nil
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		msg := "Invalid JSON: " + err.Error()
		if txErr := s.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			return s.store.SaveDraft(ctx, tx, in.ContentID, text, msg)
		}); txErr != nil {
			return false, txErr
		}
		metrics.IncSchemaSave("invalid_json")
		s.log.Warn().Int64("content_id", in.ContentID).Str("error", err.Error()).Msg("schema rejected: unparseable")
		return false, nil
	}

	report := validation.Validate(doc, s.siteURL)
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return false, err
	}

	promoted := false
	err = s.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := s.store.SaveValidation(ctx, tx, in.ContentID, string(reportJSON), len(report.Warnings)); err != nil {
			return err
		}
		if !report.Valid() {
			msg := "Schema validation failed: " + report.Summary()
			return s.store.SaveDraft(ctx, tx, in.ContentID, text, msg)
		}
		promoted = true
		return s.store.PromoteLive(ctx, tx, in.ContentID, text, repository.SchemaMeta{
			SchemaType:    in.SchemaType,
			Justification: in.Justification,
			Summary:       in.Summary,
			MissingInfo:   in.MissingInfo,
			WarningCount:  len(report.Warnings),
		})
	})
	if err != nil {
		return false, err
	}

	if !promoted {
		metrics.IncSchemaSave("draft")
		s.log.Warn().
			Int64("content_id", in.ContentID).
			Int("errors", len(report.Errors)).
			Int("warnings", len(report.Warnings)).
			Msg("schema rejected by validator; draft saved")
		return false, nil
	}
	metrics.IncSchemaSave("live")
	s.log.Info().
		Int64("content_id", in.ContentID).
		Str("schema_type", in.SchemaType).
		Int("warnings", len(report.Warnings)).
		Msg("schema promoted live")
	return true, nil
}
