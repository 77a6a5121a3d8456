package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// Gemini defaults
const (
	DefaultGeminiModel       = "gemini-2.0-flash-exp"
	DefaultGeminiTemperature = float32(0.7)
	DefaultModelTimeout      = 60 * time.Second
)

// GeminiGateway implements interfaces.ModelGateway with grounded generation
// against the Gemini API. Every call enables the Google Search tool and runs
// as a single user turn.
type GeminiGateway struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      arbor.ILogger
}

var _ interfaces.ModelGateway = (*GeminiGateway)(nil)

// NewGeminiGateway creates a Gemini gateway from configuration.
//
// An empty API key is not an error: the gateway is created unconfigured and
// every Invoke fails with KindUnconfigured, so the condition surfaces per
// request as a configuration failure rather than at startup.
//
// Errors:
//   - Failure to initialise the genai client
func NewGeminiGateway(ctx context.Context, config *common.Config, logger arbor.ILogger) (*GeminiGateway, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	g := &GeminiGateway{
		model:       config.Gemini.Model,
		temperature: config.Gemini.Temperature,
		timeout:     common.Duration(config.Verification.ModelTimeout, DefaultModelTimeout),
		logger:      logger,
	}
	if g.model == "" {
		g.model = DefaultGeminiModel
	}

	if config.Gemini.APIKey == "" {
		logger.Warn().Msg("Gemini API key not set - text and URL verification will fail until configured")
		return g, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Gemini.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.Gemini.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	g.client = client

	logger.Info().
		Str("model", g.model).
		Str("temperature", fmt.Sprintf("%.2f", g.temperature)).
		Dur("timeout", g.timeout).
		Msg("Gemini gateway initialized")

	return g, nil
}

// Configured reports whether an API key was supplied
func (g *GeminiGateway) Configured() bool {
	return g.client != nil
}

// Invoke sends the prompt with search grounding and returns the text parts
// of the first candidate joined by newlines. Image parts are ignored.
func (g *GeminiGateway) Invoke(ctx context.Context, invocation models.ModelInvocation) (models.RawModelResponse, error) {
	if g.client == nil {
		return "", unconfigured()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(invocation.Prompt, genai.RoleUser),
	}
	generateConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	startTime := time.Now()
	resp, err := g.client.Models.GenerateContent(callCtx, g.model, contents, generateConfig)
	if err != nil {
		gwErr := classifyError(err)
		if gwErr.Kind == KindUpstream && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			gwErr.Kind = KindTimeout
		}
		g.logger.Error().
			Err(err).
			Str("model", g.model).
			Str("kind", string(gwErr.Kind)).
			Int("status", gwErr.StatusCode).
			Dur("elapsed", time.Since(startTime)).
			Msg("Gemini generate content failed")
		return "", gwErr
	}

	text := candidateText(resp)

	g.logger.Debug().
		Str("model", g.model).
		Int("response_length", len(text)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Gemini response received")

	return models.RawModelResponse(text), nil
}

// candidateText joins the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	texts := make([]string, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}
