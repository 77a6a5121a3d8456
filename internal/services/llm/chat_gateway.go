package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// Chat gateway defaults
const (
	DefaultGatewayBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultGatewayModel   = "google/gemini-2.5-flash"
)

// ChatGateway implements interfaces.ModelGateway against an OpenAI-compatible
// chat completions endpoint. It is used for multimodal image analysis: the
// user message carries the instruction text and the image as a data URI.
type ChatGateway struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	logger     arbor.ILogger
	configured bool
}

var _ interfaces.ModelGateway = (*ChatGateway)(nil)

// NewChatGateway creates a chat completions gateway from configuration.
// An empty API key yields an unconfigured gateway.
func NewChatGateway(config *common.Config, logger arbor.ILogger) *ChatGateway {
	if logger == nil {
		logger = common.GetLogger()
	}

	g := &ChatGateway{
		model:   config.Gateway.Model,
		timeout: common.Duration(config.Verification.ModelTimeout, DefaultModelTimeout),
		logger:  logger,
	}
	if g.model == "" {
		g.model = DefaultGatewayModel
	}

	if config.Gateway.APIKey == "" {
		logger.Warn().Msg("AI gateway API key not set - image verification will fail until configured")
		return g
	}

	baseURL := config.Gateway.BaseURL
	if baseURL == "" {
		baseURL = DefaultGatewayBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(config.Gateway.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	g.client = &client
	g.configured = true

	logger.Info().
		Str("model", g.model).
		Str("base_url", baseURL).
		Dur("timeout", g.timeout).
		Msg("Chat gateway initialized")

	return g
}

// Configured reports whether an API key was supplied
func (g *ChatGateway) Configured() bool {
	return g.configured
}

// Invoke sends a single user message and returns the first choice's content
func (g *ChatGateway) Invoke(ctx context.Context, invocation models.ModelInvocation) (models.RawModelResponse, error) {
	if !g.configured {
		return "", unconfigured()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfText: &openai.ChatCompletionContentPartTextParam{Text: invocation.Prompt}},
	}
	if invocation.HasImage() {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    invocation.ImageDataURI,
					Detail: "auto",
				},
			},
		})
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	}

	startTime := time.Now()
	resp, err := g.client.Chat.Completions.New(callCtx, params)
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
			Msg("Chat completion failed")
		return "", gwErr
	}

	if len(resp.Choices) == 0 {
		return "", &GatewayError{Kind: KindUpstream, Err: errors.New("chat completion returned no choices")}
	}

	text := resp.Choices[0].Message.Content

	g.logger.Debug().
		Str("model", g.model).
		Bool("image", invocation.HasImage()).
		Int("response_length", len(text)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Chat completion received")

	return models.RawModelResponse(text), nil
}
