package interfaces

import (
	"context"
	"errors"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// SearchResult is a single ranked hit returned by a web search API
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// SearchClient queries a web search API. Implementations return an error for
// missing credentials, transport failures and non-2xx responses; callers that
// treat search as best-effort are expected to swallow it.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// EvidenceFetcher gathers best-effort grounding material. Neither method
// returns an error: failures degrade to empty evidence.
type EvidenceFetcher interface {
	// SearchEvidence returns up to models.MaxEvidenceItems search hits for query
	SearchEvidence(ctx context.Context, query string) models.Evidence

	// FetchPage returns the plain text of a page, or ok=false if unavailable
	FetchPage(ctx context.Context, pageURL string) (text string, ok bool)
}

// ModelGateway invokes an external generative model for a single turn.
// Errors are *llm.GatewayError values.
type ModelGateway interface {
	Invoke(ctx context.Context, invocation models.ModelInvocation) (models.RawModelResponse, error)
}

// VerificationService runs the three verification pipelines
type VerificationService interface {
	VerifyText(ctx context.Context, content string) (*models.TextResult, error)
	VerifyURL(ctx context.Context, rawURL string) (*models.URLResult, error)
	VerifyImage(ctx context.Context, dataURI string) (*models.ImageResult, error)
}

// ErrHistoryNotFound is returned when a history record does not exist for the user
var ErrHistoryNotFound = errors.New("history record not found")

// HistoryStorage persists verification history records
type HistoryStorage interface {
	SaveRecord(ctx context.Context, record *models.HistoryRecord) error
	ListRecords(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
	DeleteRecord(ctx context.Context, userID, id string) error
	ClearRecords(ctx context.Context, userID string) (int, error)
	Close() error
}

// HistoryService is the persistence collaborator used by the HTTP layer.
// Record is fire-and-forget: it never reports failure to the caller.
type HistoryService interface {
	Record(ctx context.Context, userID string, contentType models.ContentType, content string, result interface{})
	List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) (int, error)
}
