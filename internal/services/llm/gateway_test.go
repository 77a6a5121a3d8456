package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

func testConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Gemini.APIKey = ""
	config.Gateway.APIKey = ""
	return config
}

func TestGeminiGateway_Unconfigured(t *testing.T) {
	gateway, err := NewGeminiGateway(context.Background(), testConfig(), arbor.NewNoOpLogger())
	require.NoError(t, err)

	_, err = gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnconfigured))

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindUnconfigured, gwErr.Kind)
}

func TestGeminiGateway_Invoke(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"VERDICT: TRUE"},
			{"text":"CONFIDENCE: HIGH"}
		]}}]}`))
	}))
	defer server.Close()

	config := testConfig()
	config.Gemini.APIKey = "test-key"
	config.Gemini.Model = "gemini-test"
	config.Gemini.BaseURL = server.URL

	gateway, err := NewGeminiGateway(context.Background(), config, arbor.NewNoOpLogger())
	require.NoError(t, err)

	raw, err := gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "Analyze this claim"})
	require.NoError(t, err)
	assert.Equal(t, models.RawModelResponse("VERDICT: TRUE\nCONFIDENCE: HIGH"), raw)

	encoded, _ := json.Marshal(body)
	assert.Contains(t, string(encoded), "Analyze this claim")
	assert.Contains(t, string(encoded), "googleSearch")
	assert.Contains(t, string(encoded), "temperature")
}

func TestGeminiGateway_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key invalid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	config := testConfig()
	config.Gemini.APIKey = "bad-key"
	config.Gemini.BaseURL = server.URL

	gateway, err := NewGeminiGateway(context.Background(), config, arbor.NewNoOpLogger())
	require.NoError(t, err)

	_, err = gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "p"})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindUpstreamHTTP, gwErr.Kind)
	assert.Equal(t, http.StatusForbidden, gwErr.StatusCode)
	assert.False(t, errors.Is(err, ErrUnconfigured))
}

func TestChatGateway_Unconfigured(t *testing.T) {
	gateway := NewChatGateway(testConfig(), arbor.NewNoOpLogger())

	_, err := gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "p"})
	assert.True(t, errors.Is(err, ErrUnconfigured))
}

func TestChatGateway_Invoke(t *testing.T) {
	var requestBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		requestBody = string(raw)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"google/gemini-2.5-flash",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"VERDICT: AUTHENTIC"}}]}`))
	}))
	defer server.Close()

	config := testConfig()
	config.Gateway.APIKey = "gw-key"
	config.Gateway.BaseURL = server.URL

	gateway := NewChatGateway(config, arbor.NewNoOpLogger())

	raw, err := gateway.Invoke(context.Background(), models.ModelInvocation{
		Prompt:       "Analyze this image",
		ImageDataURI: "data:image/png;base64,iVBORw0KGgo=",
		ImageMIME:    "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RawModelResponse("VERDICT: AUTHENTIC"), raw)

	assert.Contains(t, requestBody, `"model":"google/gemini-2.5-flash"`)
	assert.Contains(t, requestBody, `"image_url"`)
	assert.Contains(t, requestBody, "data:image/png;base64,iVBORw0KGgo=")
	assert.Contains(t, requestBody, "Analyze this image")
}

func TestChatGateway_UpstreamErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"provider exploded","type":"server_error"}}`))
	}))
	defer server.Close()

	config := testConfig()
	config.Gateway.APIKey = "gw-key"
	config.Gateway.BaseURL = server.URL

	gateway := NewChatGateway(config, arbor.NewNoOpLogger())

	_, err := gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "p"})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindUpstreamHTTP, gwErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestChatGateway_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	config := testConfig()
	config.Gateway.APIKey = "gw-key"
	config.Gateway.BaseURL = server.URL
	config.Verification.ModelTimeout = "50ms"

	gateway := NewChatGateway(config, arbor.NewNoOpLogger())

	_, err := gateway.Invoke(context.Background(), models.ModelInvocation{Prompt: "p"})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindTimeout, gwErr.Kind)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, KindTimeout, classifyError(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindUpstream, classifyError(errors.New("connection reset")).Kind)

	original := &GatewayError{Kind: KindUpstreamHTTP, StatusCode: 502}
	assert.Same(t, original, classifyError(original))
}
