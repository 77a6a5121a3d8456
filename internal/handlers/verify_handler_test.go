package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/auth"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/verification"
)

// mockVerificationService implements interfaces.VerificationService for testing
type mockVerificationService struct {
	verifyTextFunc  func(ctx context.Context, content string) (*models.TextResult, error)
	verifyURLFunc   func(ctx context.Context, rawURL string) (*models.URLResult, error)
	verifyImageFunc func(ctx context.Context, dataURI string) (*models.ImageResult, error)
}

func (m *mockVerificationService) VerifyText(ctx context.Context, content string) (*models.TextResult, error) {
	if m.verifyTextFunc != nil {
		return m.verifyTextFunc(ctx, content)
	}
	return nil, nil
}

func (m *mockVerificationService) VerifyURL(ctx context.Context, rawURL string) (*models.URLResult, error) {
	if m.verifyURLFunc != nil {
		return m.verifyURLFunc(ctx, rawURL)
	}
	return nil, nil
}

func (m *mockVerificationService) VerifyImage(ctx context.Context, dataURI string) (*models.ImageResult, error) {
	if m.verifyImageFunc != nil {
		return m.verifyImageFunc(ctx, dataURI)
	}
	return nil, nil
}

// mockHistoryService implements interfaces.HistoryService for testing
type mockHistoryService struct {
	recorded []recordedEntry
	records  []*models.HistoryRecord
	listErr  error
	delErr   error
	cleared  int
	limit    int
}

type recordedEntry struct {
	userID      string
	contentType models.ContentType
	content     string
}

func (m *mockHistoryService) Record(ctx context.Context, userID string, contentType models.ContentType, content string, result interface{}) {
	m.recorded = append(m.recorded, recordedEntry{userID: userID, contentType: contentType, content: content})
}

func (m *mockHistoryService) List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	m.limit = limit
	return m.records, m.listErr
}

func (m *mockHistoryService) Delete(ctx context.Context, userID, id string) error {
	return m.delErr
}

func (m *mockHistoryService) Clear(ctx context.Context, userID string) (int, error) {
	return m.cleared, nil
}

func postJSON(handler http.HandlerFunc, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestVerifyTextHandler_Success(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service := &mockVerificationService{
		verifyTextFunc: func(ctx context.Context, content string) (*models.TextResult, error) {
			assert.Equal(t, "The sky is green", content)
			return &models.TextResult{
				Verdict:     models.TextVerdictFalse,
				Confidence:  models.ConfidenceHigh,
				Explanation: "It is blue.",
				KeyPoints:   []string{"Rayleigh scattering"},
				Timestamp:   stamp,
			}, nil
		},
	}
	history := &mockHistoryService{}
	handler := NewVerifyHandler(service, history, arbor.NewNoOpLogger())

	w := postJSON(handler.VerifyTextHandler, "/functions/v1/verify-text", `{"content":"The sky is green"}`, "user-1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "FALSE", result["verdict"])
	assert.Equal(t, "HIGH", result["confidence"])
	assert.Equal(t, "2024-05-01T12:00:00Z", result["timestamp"])
	assert.Equal(t, []interface{}{"Rayleigh scattering"}, result["keyPoints"])

	require.Len(t, history.recorded, 1)
	assert.Equal(t, recordedEntry{userID: "user-1", contentType: models.ContentTypeText, content: "The sky is green"}, history.recorded[0])
}

func TestVerifyTextHandler_AnonymousNotRecorded(t *testing.T) {
	service := &mockVerificationService{
		verifyTextFunc: func(ctx context.Context, content string) (*models.TextResult, error) {
			return &models.TextResult{Verdict: models.TextVerdictUncertain}, nil
		},
	}
	history := &mockHistoryService{}
	handler := NewVerifyHandler(service, history, arbor.NewNoOpLogger())

	w := postJSON(handler.VerifyTextHandler, "/api/verify/text", `{"content":"claim"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, history.recorded)
}

func TestVerifyTextHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "malformed json",
			body:           `{"content":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  msgInvalidBody,
		},
		{
			name:           "empty body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
			expectedError:  msgInvalidBody,
		},
		{
			name:           "input error",
			body:           `{"content":"  "}`,
			serviceErr:     &verification.Error{Kind: verification.KindInput, Message: verification.MsgContentRequired},
			expectedStatus: http.StatusBadRequest,
			expectedError:  verification.MsgContentRequired,
		},
		{
			name:           "configuration error",
			body:           `{"content":"claim"}`,
			serviceErr:     &verification.Error{Kind: verification.KindConfiguration, Message: verification.MsgAPIKeyNotConfigured},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  verification.MsgAPIKeyNotConfigured,
		},
		{
			name: "upstream error hides detail",
			body: `{"content":"claim"}`,
			serviceErr: &verification.Error{
				Kind:    verification.KindUpstream,
				Message: verification.MsgVerificationFailed,
				Err:     errors.New("provider said: secret quota detail"),
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  verification.MsgVerificationFailed,
		},
		{
			name:           "untyped error",
			body:           `{"content":"claim"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  verification.MsgVerificationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockVerificationService{
				verifyTextFunc: func(ctx context.Context, content string) (*models.TextResult, error) {
					return nil, tt.serviceErr
				},
			}
			history := &mockHistoryService{}
			handler := NewVerifyHandler(service, history, arbor.NewNoOpLogger())

			w := postJSON(handler.VerifyTextHandler, "/functions/v1/verify-text", tt.body, "user-1")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, decodeError(t, w))
			assert.NotContains(t, w.Body.String(), "secret quota")
			assert.Empty(t, history.recorded)
		})
	}
}

func TestVerifyHandler_MethodNotAllowed(t *testing.T) {
	handler := NewVerifyHandler(&mockVerificationService{}, nil, arbor.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/functions/v1/verify-url", nil)
	w := httptest.NewRecorder()
	handler.VerifyURLHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestVerifyURLHandler_Success(t *testing.T) {
	service := &mockVerificationService{
		verifyURLFunc: func(ctx context.Context, rawURL string) (*models.URLResult, error) {
			return &models.URLResult{
				Verdict:           models.URLVerdictLikelyReal,
				DomainCredibility: 88,
				ContentAnalysis:   models.ContentAnalysis{AIProbability: 30, CredibilityScore: 88},
				Findings:          []string{"Reputable"},
				SourceInfo:        models.SourceInfo{Domain: "news.example", Reputation: models.ReputationGood},
			}, nil
		},
	}
	history := &mockHistoryService{}
	handler := NewVerifyHandler(service, history, arbor.NewNoOpLogger())

	w := postJSON(handler.VerifyURLHandler, "/functions/v1/verify-url", `{"url":"https://news.example/a"}`, "user-1")

	require.Equal(t, http.StatusOK, w.Code)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "likely_real", result["verdict"])
	assert.Equal(t, float64(88), result["domainCredibility"])
	assert.Equal(t, map[string]interface{}{"aiProbability": float64(30), "credibilityScore": float64(88)}, result["contentAnalysis"])

	require.Len(t, history.recorded, 1)
	assert.Equal(t, models.ContentTypeURL, history.recorded[0].contentType)
	assert.Equal(t, "https://news.example/a", history.recorded[0].content)
}

func TestVerifyImageHandler_RecordsFileName(t *testing.T) {
	service := &mockVerificationService{
		verifyImageFunc: func(ctx context.Context, dataURI string) (*models.ImageResult, error) {
			assert.Equal(t, "data:image/png;base64,AAAA", dataURI)
			return &models.ImageResult{Verdict: models.ImageVerdictAuthentic, Confidence: models.ConfidenceLow}, nil
		},
	}
	history := &mockHistoryService{}
	handler := NewVerifyHandler(service, history, arbor.NewNoOpLogger())

	w := postJSON(handler.VerifyImageHandler, "/functions/v1/verify-image",
		`{"image":"data:image/png;base64,AAAA","fileName":"beach.png"}`, "user-1")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, history.recorded, 1)
	assert.Equal(t, "Image analysis - beach.png", history.recorded[0].content)
	assert.Equal(t, "Image analysis", imageHistoryLabel(" "))
}

func TestVerifyImageHandler_InputError(t *testing.T) {
	service := &mockVerificationService{
		verifyImageFunc: func(ctx context.Context, dataURI string) (*models.ImageResult, error) {
			return nil, &verification.Error{Kind: verification.KindInput, Message: verification.MsgImageRequired}
		},
	}
	handler := NewVerifyHandler(service, nil, arbor.NewNoOpLogger())

	w := postJSON(handler.VerifyImageHandler, "/functions/v1/verify-image", `{}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, verification.MsgImageRequired, decodeError(t, w))
}
