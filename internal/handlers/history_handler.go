package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/auth"
)

// HistoryHandler serves the authenticated user's verification history
type HistoryHandler struct {
	history interfaces.HistoryService
	logger  arbor.ILogger
}

// NewHistoryHandler creates a history handler
func NewHistoryHandler(history interfaces.HistoryService, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListHandler handles GET /api/history?limit=N
func (h *HistoryHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	records, err := h.history.List(r.Context(), userID, GetLimitParam(r, models.DefaultHistoryLimit))
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list history")
		WriteError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if records == nil {
		records = []*models.HistoryRecord{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// ClearHandler handles DELETE /api/history
func (h *HistoryHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	deleted, err := h.history.Clear(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to clear history")
		WriteError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// DeleteHandler handles DELETE /api/history/{id}
func (h *HistoryHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "History ID is required")
		return
	}

	if err := h.history.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, interfaces.ErrHistoryNotFound) {
			WriteError(w, http.StatusNotFound, "History record not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to delete history record")
		WriteError(w, http.StatusInternalServerError, "Failed to delete history record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}
