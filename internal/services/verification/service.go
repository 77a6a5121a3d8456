package verification

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// Service implements interfaces.VerificationService over three pipelines.
// Text and URL verification use the grounded gateway; image verification
// uses the multimodal gateway and gathers no evidence.
type Service struct {
	text  *Pipeline[models.TextResult]
	url   *Pipeline[models.URLResult]
	image *Pipeline[models.ImageResult]
}

var _ interfaces.VerificationService = (*Service)(nil)

// Option configures a Service
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the timestamp source for results
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewService creates a verification service
func NewService(
	fetcher interfaces.EvidenceFetcher,
	groundedGateway interfaces.ModelGateway,
	imageGateway interfaces.ModelGateway,
	logger arbor.ILogger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}

	o := &options{clock: defaultClock}
	for _, opt := range opts {
		opt(o)
	}

	return &Service{
		text:  NewPipeline[models.TextResult](textKind{}, fetcher, groundedGateway, logger, o.clock),
		url:   NewPipeline[models.URLResult](urlKind{}, fetcher, groundedGateway, logger, o.clock),
		image: NewPipeline[models.ImageResult](imageKind{}, nil, imageGateway, logger, o.clock),
	}
}

// VerifyText checks a free-text claim
func (s *Service) VerifyText(ctx context.Context, content string) (*models.TextResult, error) {
	return s.text.Run(ctx, content)
}

// VerifyURL checks the credibility of a news article
func (s *Service) VerifyURL(ctx context.Context, rawURL string) (*models.URLResult, error) {
	return s.url.Run(ctx, rawURL)
}

// VerifyImage checks an image supplied as a base64 data URI
func (s *Service) VerifyImage(ctx context.Context, dataURI string) (*models.ImageResult, error) {
	return s.image.Run(ctx, dataURI)
}
