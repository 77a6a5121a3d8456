package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ErrorKind classifies a gateway failure
type ErrorKind string

const (
	// KindUnconfigured means credentials are missing; the call never left the process
	KindUnconfigured ErrorKind = "unconfigured"

	// KindUpstreamHTTP means the provider answered with a non-success status
	KindUpstreamHTTP ErrorKind = "upstream_http"

	// KindTimeout means the call exceeded its deadline
	KindTimeout ErrorKind = "timeout"

	// KindUpstream covers transport and decoding failures
	KindUpstream ErrorKind = "upstream"
)

// ErrUnconfigured is matched by errors.Is for any KindUnconfigured GatewayError
var ErrUnconfigured = errors.New("model gateway not configured")

// GatewayError is returned by every ModelGateway implementation
type GatewayError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case KindUnconfigured:
		return ErrUnconfigured.Error()
	case KindUpstreamHTTP:
		return fmt.Sprintf("model gateway returned status %d: %v", e.StatusCode, e.Err)
	case KindTimeout:
		return fmt.Sprintf("model gateway timed out: %v", e.Err)
	default:
		return fmt.Sprintf("model gateway request failed: %v", e.Err)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUnconfigured) match unconfigured gateway errors
func (e *GatewayError) Is(target error) bool {
	return target == ErrUnconfigured && e.Kind == KindUnconfigured
}

func unconfigured() *GatewayError {
	return &GatewayError{Kind: KindUnconfigured, Err: ErrUnconfigured}
}

// classifyError maps provider SDK errors onto GatewayError kinds
func classifyError(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GatewayError{Kind: KindTimeout, Err: err}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return &GatewayError{Kind: KindUpstreamHTTP, StatusCode: genaiErr.Code, Err: err}
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) {
		return &GatewayError{Kind: KindUpstreamHTTP, StatusCode: genaiErrPtr.Code, Err: err}
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &GatewayError{Kind: KindUpstreamHTTP, StatusCode: openaiErr.StatusCode, Err: err}
	}

	return &GatewayError{Kind: KindUpstream, Err: err}
}
