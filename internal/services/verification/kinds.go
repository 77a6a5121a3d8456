package verification

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/evidence"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/parser"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/prompts"
)

// textKind verifies free-text claims with search grounding
type textKind struct{}

func (textKind) ContentType() models.ContentType { return models.ContentTypeText }
func (textKind) UnconfiguredMessage() string     { return MsgAPIKeyNotConfigured }
func (textKind) FailureMessage() string          { return MsgVerificationFailed }

func (textKind) Validate(input string) (models.VerificationRequest, error) {
	content := strings.TrimSpace(input)
	if content == "" {
		return models.VerificationRequest{}, inputError(MsgContentRequired, nil)
	}
	return models.NewTextRequest(content), nil
}

func (textKind) GatherEvidence(ctx context.Context, fetcher interfaces.EvidenceFetcher, req models.VerificationRequest) models.Evidence {
	return fetcher.SearchEvidence(ctx, evidence.TextQuery(req.Text))
}

func (textKind) BuildInvocation(req models.VerificationRequest, ev models.Evidence) models.ModelInvocation {
	return models.ModelInvocation{Prompt: prompts.TextPrompt(req.Text, ev)}
}

func (textKind) Parse(_ models.VerificationRequest, raw models.RawModelResponse, now time.Time) (*models.TextResult, []parser.Anomaly) {
	result, anomalies := parser.ParseText(string(raw))
	result.Timestamp = now
	return &result, anomalies
}

// urlKind verifies news article URLs using the page text and a fact-check search
type urlKind struct{}

func (urlKind) ContentType() models.ContentType { return models.ContentTypeURL }
func (urlKind) UnconfiguredMessage() string     { return MsgAPIKeyNotConfigured }
func (urlKind) FailureMessage() string          { return MsgVerificationFailed }

func (urlKind) Validate(input string) (models.VerificationRequest, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return models.VerificationRequest{}, inputError(MsgURLRequired, nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return models.VerificationRequest{}, inputError(MsgInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return models.VerificationRequest{}, inputError(MsgInvalidURL, errors.New("URL must be absolute"))
	}

	return models.NewURLRequest(raw), nil
}

func (urlKind) GatherEvidence(ctx context.Context, fetcher interfaces.EvidenceFetcher, req models.VerificationRequest) models.Evidence {
	pageText, ok := fetcher.FetchPage(ctx, req.URL)
	if !ok {
		return models.Evidence{}
	}

	var ev models.Evidence
	if query := evidence.URLQuery(evidence.Domain(req.URL), pageText); query != "" {
		ev = fetcher.SearchEvidence(ctx, query)
	}
	ev.PageText = pageText
	return ev
}

func (urlKind) BuildInvocation(req models.VerificationRequest, ev models.Evidence) models.ModelInvocation {
	return models.ModelInvocation{Prompt: prompts.URLPrompt(req.URL, evidence.Domain(req.URL), ev)}
}

func (urlKind) Parse(req models.VerificationRequest, raw models.RawModelResponse, _ time.Time) (*models.URLResult, []parser.Anomaly) {
	result, anomalies := parser.ParseURL(string(raw), evidence.Domain(req.URL))
	return &result, anomalies
}

// imageKind verifies uploaded images with a multimodal model
type imageKind struct{}

func (imageKind) ContentType() models.ContentType { return models.ContentTypeImage }
func (imageKind) UnconfiguredMessage() string     { return MsgAINotConfigured }
func (imageKind) FailureMessage() string          { return MsgImageAnalysisFailed }

func (imageKind) Validate(input string) (models.VerificationRequest, error) {
	dataURI := strings.TrimSpace(input)
	if dataURI == "" {
		return models.VerificationRequest{}, inputError(MsgImageRequired, nil)
	}

	img, err := decodeDataURI(dataURI)
	if err != nil {
		return models.VerificationRequest{}, inputError(MsgInvalidImage, err)
	}

	req := models.NewImageRequest(img.DataURI)
	req.ImageData = img.Data
	req.ImageMIME = img.MIME
	return req, nil
}

func (imageKind) GatherEvidence(context.Context, interfaces.EvidenceFetcher, models.VerificationRequest) models.Evidence {
	return models.Evidence{}
}

func (imageKind) BuildInvocation(req models.VerificationRequest, _ models.Evidence) models.ModelInvocation {
	return models.ModelInvocation{
		Prompt:       prompts.ImagePrompt(),
		ImageDataURI: req.ImageDataURI,
		ImageMIME:    req.ImageMIME,
	}
}

func (imageKind) Parse(_ models.VerificationRequest, raw models.RawModelResponse, now time.Time) (*models.ImageResult, []parser.Anomaly) {
	result, anomalies := parser.ParseImage(string(raw))
	result.Timestamp = now
	return &result, anomalies
}
