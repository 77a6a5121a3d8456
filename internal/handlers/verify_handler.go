package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/auth"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/verification"
)

const (
	maxTextBodyBytes  int64 = 1 << 20
	maxImageBodyBytes int64 = 15 << 20

	msgInvalidBody = "Invalid request body"
)

// VerifyTextRequest is the body of a text verification call
type VerifyTextRequest struct {
	Content string `json:"content"`
}

// VerifyURLRequest is the body of a URL verification call
type VerifyURLRequest struct {
	URL string `json:"url"`
}

// VerifyImageRequest is the body of an image verification call. FileName is
// optional and only used to label the history entry.
type VerifyImageRequest struct {
	Image    string `json:"image"`
	FileName string `json:"fileName,omitempty"`
}

// VerifyHandler serves the three verification endpoints
type VerifyHandler struct {
	service interfaces.VerificationService
	history interfaces.HistoryService
	logger  arbor.ILogger
}

// NewVerifyHandler creates a verify handler. history may be nil to disable recording.
func NewVerifyHandler(service interfaces.VerificationService, history interfaces.HistoryService, logger arbor.ILogger) *VerifyHandler {
	return &VerifyHandler{
		service: service,
		history: history,
		logger:  logger,
	}
}

// VerifyTextHandler handles POST verify-text
func (h *VerifyHandler) VerifyTextHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req VerifyTextRequest
	if err := DecodeJSON(w, r, maxTextBodyBytes, &req); err != nil {
		h.logger.Debug().Err(err).Msg("Invalid verify-text body")
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.VerifyText(r.Context(), req.Content)
	if err != nil {
		h.writeVerificationError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
	h.record(r, models.ContentTypeText, strings.TrimSpace(req.Content), result)
}

// VerifyURLHandler handles POST verify-url
func (h *VerifyHandler) VerifyURLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req VerifyURLRequest
	if err := DecodeJSON(w, r, maxTextBodyBytes, &req); err != nil {
		h.logger.Debug().Err(err).Msg("Invalid verify-url body")
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.VerifyURL(r.Context(), req.URL)
	if err != nil {
		h.writeVerificationError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
	h.record(r, models.ContentTypeURL, strings.TrimSpace(req.URL), result)
}

// VerifyImageHandler handles POST verify-image
func (h *VerifyHandler) VerifyImageHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req VerifyImageRequest
	if err := DecodeJSON(w, r, maxImageBodyBytes, &req); err != nil {
		h.logger.Debug().Err(err).Msg("Invalid verify-image body")
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.service.VerifyImage(r.Context(), req.Image)
	if err != nil {
		h.writeVerificationError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
	h.record(r, models.ContentTypeImage, imageHistoryLabel(req.FileName), result)
}

func (h *VerifyHandler) writeVerificationError(w http.ResponseWriter, err error) {
	if verr := verification.AsError(err); verr != nil {
		WriteError(w, verr.StatusCode(), verr.Message)
		return
	}

	h.logger.Error().Err(err).Msg("Unexpected verification error")
	WriteError(w, http.StatusInternalServerError, verification.MsgVerificationFailed)
}

// record hands a finished result to the history service. It runs after the
// response has been written and never affects it.
func (h *VerifyHandler) record(r *http.Request, contentType models.ContentType, content string, result interface{}) {
	if h.history == nil {
		return
	}
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		return
	}
	h.history.Record(r.Context(), userID, contentType, content, result)
}

func imageHistoryLabel(fileName string) string {
	if name := strings.TrimSpace(fileName); name != "" {
		return "Image analysis - " + name
	}
	return "Image analysis"
}
