package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/model"
)

// ---------------------------------------------------------------------------
// POST /api/assistant
// ---------------------------------------------------------------------------

type assistantRequest struct {
	Text string `json:"text"`
}

// handleAssistant runs one natural-language request through the assistant.
// Business outcomes, including "I did not understand", are 200 responses;
// only system failures map to error statuses.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ident.CurrentOwner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.assistant.Handle(r.Context(), owner, req.Text)
	switch {
	case errors.Is(err, model.ErrEmptyRequest):
		writeError(w, http.StatusBadRequest, "request text is empty")
	case errors.Is(err, model.ErrModelUnavailable):
		s.logger.Warn("model unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "the assistant is unavailable right now, please try again")
	case err != nil:
		s.logger.Error("assistant request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// ---------------------------------------------------------------------------
// GET /api/items
// ---------------------------------------------------------------------------

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ident.CurrentOwner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	items, err := s.store.ListItems(r.Context(), owner)
	if err != nil {
		s.logger.Error("list items failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ---------------------------------------------------------------------------
// GET /api/history
// ---------------------------------------------------------------------------

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ident.CurrentOwner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	changes, err := s.store.ListChanges(r.Context(), owner, limit)
	if err != nil {
		s.logger.Error("list changes failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if changes == nil {
		changes = []model.Change{}
	}
	writeJSON(w, http.StatusOK, changes)
}

// ---------------------------------------------------------------------------
// GET /healthz
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
