package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/ports/repository"
	"schema-ai-service/internal/usecase"

	"github.com/go-chi/chi/v5"
)

const maxManualDrain = 5

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type loginRequest struct {
	APIKey string `json:"api_key"`
}

// loginHandler trades the configured API key for a short-lived session token.
func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.APIKey != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		token, err := s.auth.Mint(w)
		if err != nil {
			http.Error(w, "Failed to mint session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

type enqueueRequest struct {
	ContentID          int64  `json:"content_id"`
	All                bool   `json:"all"`
	MissingOnly        bool   `json:"missing_only"`
	ForcedType         string `json:"forced_type"`
	ForcedReviewedType string `json:"forced_reviewed_type"`
}

// enqueueHandler schedules generation for one content record, or for the
// whole site when "all" is set. "missing_only" narrows "all" to records
// without a live graph.
func (s *Server) enqueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req enqueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.All || req.MissingOnly {
			count, err := s.queueUC.EnqueueAll(ctx, req.MissingOnly)
			if err != nil {
				http.Error(w, "Failed to enqueue", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]int{"enqueued": count})
			return
		}

		if req.ContentID <= 0 {
			http.Error(w, "content_id is required", http.StatusBadRequest)
			return
		}
		ok, err := s.queueUC.Enqueue(ctx, req.ContentID, req.ForcedType, req.ForcedReviewedType)
		if err != nil {
			http.Error(w, "Failed to enqueue", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "Content not found or unsupported", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]bool{"enqueued": true})
	}
}

type runQueueRequest struct {
	Max int `json:"max"`
}

// runQueueHandler triggers a drain outside the scheduler cadence. The batch
// is capped so a manual kick cannot monopolize the run lock.
func (s *Server) runQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req runQueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Max <= 0 || req.Max > maxManualDrain {
			req.Max = maxManualDrain
		}

		processed, err := s.queueUC.RunQueue(ctx, req.Max)
		if err != nil {
			http.Error(w, "Failed to run queue", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
	}
}

func (s *Server) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.queueUC.Stats(r.Context())
		if err != nil {
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func contentIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) getSchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentIDParam(r)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid content ID", http.StatusBadRequest)
			return
		}

		rec, err := s.schemas.Get(r.Context(), repository.NoTX, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to get schema", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

type putSchemaRequest struct {
	JSON string `json:"json"`
}

// putSchemaHandler stores operator-edited JSON through the same validation
// gateway the generator uses, so hand edits cannot bypass the live gate.
func (s *Server) putSchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := contentIDParam(r)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid content ID", http.StatusBadRequest)
			return
		}

		var req putSchemaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		live, err := s.saveUC.Save(ctx, usecase.SaveInput{ContentID: id, JSON: req.JSON})
		if err != nil {
			http.Error(w, "Failed to save schema", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"live": live})
	}
}

func (s *Server) deleteSchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := contentIDParam(r)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid content ID", http.StatusBadRequest)
			return
		}

		if _, err := s.saveUC.Save(r.Context(), usecase.SaveInput{ContentID: id, JSON: ""}); err != nil {
			http.Error(w, "Failed to clear schema", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
