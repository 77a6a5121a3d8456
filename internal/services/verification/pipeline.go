// Package verification runs the content verification pipelines. Text, URL
// and image verification share one generic Pipeline and differ only in the
// Kind strategy plugged into it.
package verification

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/llm"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/parser"
)

// Stage names a step of the per-request state machine
type Stage string

const (
	StageValidating        Stage = "validating"
	StageGatheringEvidence Stage = "gathering_evidence"
	StagePrompting         Stage = "prompting"
	StageInvoking          Stage = "invoking"
	StageParsing           Stage = "parsing"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// Clock supplies result timestamps
type Clock func() time.Time

// Kind is the strategy that specialises a Pipeline for one content type
type Kind[R any] interface {
	// ContentType identifies the kind in logs and history
	ContentType() models.ContentType

	// Validate turns raw user input into a request or returns an input *Error
	Validate(input string) (models.VerificationRequest, error)

	// GatherEvidence collects best-effort grounding. It must not fail.
	GatherEvidence(ctx context.Context, fetcher interfaces.EvidenceFetcher, req models.VerificationRequest) models.Evidence

	// BuildInvocation renders the prompt and attaches any image payload
	BuildInvocation(req models.VerificationRequest, evidence models.Evidence) models.ModelInvocation

	// Parse converts the model output into a fully populated result
	Parse(req models.VerificationRequest, raw models.RawModelResponse, now time.Time) (*R, []parser.Anomaly)

	// UnconfiguredMessage and FailureMessage are the user-facing texts for
	// configuration and upstream failures
	UnconfiguredMessage() string
	FailureMessage() string
}

// configurable is implemented by gateways that can report missing credentials
// without making a network call
type configurable interface {
	Configured() bool
}

// Pipeline runs Validating -> GatheringEvidence -> Prompting -> Invoking ->
// Parsing for a single request. It holds no per-request state and is safe
// for concurrent use.
type Pipeline[R any] struct {
	kind    Kind[R]
	fetcher interfaces.EvidenceFetcher
	gateway interfaces.ModelGateway
	logger  arbor.ILogger
	clock   Clock
}

// NewPipeline creates a pipeline for one content kind
func NewPipeline[R any](kind Kind[R], fetcher interfaces.EvidenceFetcher, gateway interfaces.ModelGateway, logger arbor.ILogger, clock Clock) *Pipeline[R] {
	if clock == nil {
		clock = defaultClock
	}
	return &Pipeline[R]{
		kind:    kind,
		fetcher: fetcher,
		gateway: gateway,
		logger:  logger,
		clock:   clock,
	}
}

func defaultClock() time.Time {
	return time.Now().UTC()
}

// Run verifies one piece of user input. All errors are *Error values.
func (p *Pipeline[R]) Run(ctx context.Context, input string) (*R, error) {
	contentType := string(p.kind.ContentType())
	startTime := time.Now()

	p.stage(StageValidating)
	req, err := p.kind.Validate(input)
	if err != nil {
		p.logger.Debug().
			Str("content_type", contentType).
			Err(err).
			Msg("Verification input rejected")
		return nil, p.fail(err)
	}

	if c, ok := p.gateway.(configurable); ok && !c.Configured() {
		return nil, p.fail(&Error{
			Kind:    KindConfiguration,
			Message: p.kind.UnconfiguredMessage(),
			Err:     llm.ErrUnconfigured,
		})
	}

	p.stage(StageGatheringEvidence)
	var evidence models.Evidence
	if p.fetcher != nil {
		evidence = p.kind.GatherEvidence(ctx, p.fetcher, req)
	}

	p.stage(StagePrompting)
	invocation := p.kind.BuildInvocation(req, evidence)

	p.stage(StageInvoking)
	raw, err := p.gateway.Invoke(ctx, invocation)
	if err != nil {
		return nil, p.fail(p.gatewayError(err))
	}

	p.stage(StageParsing)
	result, anomalies := p.kind.Parse(req, raw, p.clock())
	for _, a := range anomalies {
		p.logger.Warn().
			Str("content_type", contentType).
			Str("field", a.Field).
			Str("value", a.Value).
			Str("reason", a.Reason).
			Msg("Model response did not match expected format, using default")
	}

	p.stage(StageDone)
	p.logger.Info().
		Str("content_type", contentType).
		Bool("grounded", !evidence.IsEmpty()).
		Int("evidence_items", len(evidence.Items)).
		Int("anomalies", len(anomalies)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Verification completed")

	return result, nil
}

func (p *Pipeline[R]) gatewayError(err error) *Error {
	if errors.Is(err, llm.ErrUnconfigured) {
		return &Error{Kind: KindConfiguration, Message: p.kind.UnconfiguredMessage(), Err: err}
	}
	return &Error{Kind: KindUpstream, Message: p.kind.FailureMessage(), Err: err}
}

func (p *Pipeline[R]) stage(s Stage) {
	p.logger.Trace().
		Str("content_type", string(p.kind.ContentType())).
		Str("stage", string(s)).
		Msg("Verification stage")
}

func (p *Pipeline[R]) fail(err error) error {
	verr := AsError(err)
	if verr == nil {
		verr = &Error{Kind: KindUpstream, Message: p.kind.FailureMessage(), Err: err}
	}

	event := p.logger.Warn()
	if verr.Kind != KindInput {
		event = p.logger.Error()
	}
	event.
		Str("content_type", string(p.kind.ContentType())).
		Str("stage", string(StageFailed)).
		Str("kind", string(verr.Kind)).
		Err(verr.Err).
		Msg(verr.Message)

	return verr
}
