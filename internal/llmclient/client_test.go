package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penbuddy-ai/penpal-ai-asimov-service/internal/core"
)

func TestClient_Do_Success(t *testing.T) {
	var received map[string]any
	var headers http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	}))
	defer server.Close()

	client := New(DefaultConfig("test", server.URL), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	})

	var result struct {
		Message string `json:"message"`
	}
	ctx := core.WithRequestID(context.Background(), "req-42")
	err := client.Do(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     map[string]string{"input": "test"},
		Headers:  map[string]string{"X-Custom": "custom-value"},
	}, &result)

	require.NoError(t, err)
	assert.Equal(t, "hello", result.Message)
	assert.Equal(t, "test", received["input"])
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer token", headers.Get("Authorization"))
	assert.Equal(t, "custom-value", headers.Get("X-Custom"))
	assert.Equal(t, "req-42", headers.Get("X-Request-ID"))
}

func TestClient_Do_ErrorParsing(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantType   core.ErrorType
	}{
		{"rate limit", http.StatusTooManyRequests, `{"error":{"message":"Rate limited"}}`, core.ErrorTypeRateLimit},
		{"authentication", http.StatusUnauthorized, `{"error":{"message":"Invalid API key"}}`, core.ErrorTypeAuthentication},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"Invalid model"}}`, core.ErrorTypeInvalidRequest},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"Server error"}}`, core.ErrorTypeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(DefaultConfig("test", server.URL), nil)
			err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)

			var gwErr *core.GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.wantType, gwErr.Type)
			assert.Equal(t, "test", gwErr.Provider)
		})
	}
}

func TestClient_DefaultMakesSingleAttempt(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(DefaultConfig("test", server.URL), nil)
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_Do_Retries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limited"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	config := DefaultConfig("test", server.URL)
	config.MaxRetries = 3
	config.InitialBackoff = 10 * time.Millisecond
	client := New(config, nil)

	var result struct {
		Success bool `json:"success"`
	}
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, &result)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_NonRetryableErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Bad request"}}`))
	}))
	defer server.Close()

	config := DefaultConfig("test", server.URL)
	config.MaxRetries = 3
	client := New(config, nil)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_InvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := New(DefaultConfig("test", server.URL), nil)
	var result map[string]any
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, &result)

	var gwErr *core.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadGateway, gwErr.HTTPStatusCode())
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Server error"}}`))
	}))
	defer server.Close()

	config := DefaultConfig("test", server.URL)
	config.CircuitBreaker = &CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 2, Timeout: time.Second}
	client := New(config, nil)

	for i := 0; i < 5; i++ {
		_ = client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)
	}
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)

	var gwErr *core.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusServiceUnavailable, gwErr.StatusCode)
	assert.Contains(t, gwErr.Message, "circuit breaker")
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestCircuitBreaker_ClosesAfterTimeout(t *testing.T) {
	var succeed atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if succeed.Load() {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := DefaultConfig("test", server.URL)
	config.CircuitBreaker = &CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: 50 * time.Millisecond}
	client := New(config, nil)

	for i := 0; i < 2; i++ {
		_ = client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)
	}
	assert.Equal(t, "open", client.circuitBreaker.State())

	time.Sleep(100 * time.Millisecond)
	succeed.Store(true)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Endpoint: "/test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "closed", client.circuitBreaker.State())
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	config := DefaultConfig("test", server.URL)
	config.CircuitBreaker = &CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute}
	client := New(config, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Do(ctx, Request{Method: http.MethodGet, Endpoint: "/test"}, nil)

	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Equal(t, "closed", client.circuitBreaker.State(), "cancellation must not trip the breaker")
}

func TestClient_Hooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	type ctxKey struct{}
	var started RequestInfo
	var ended ResponseInfo
	var sawDerivedCtx bool

	config := DefaultConfig("openai", server.URL)
	config.Hooks = Hooks{
		OnRequestStart: func(ctx context.Context, info RequestInfo) context.Context {
			started = info
			return context.WithValue(ctx, ctxKey{}, true)
		},
		OnRequestEnd: func(ctx context.Context, info ResponseInfo) {
			ended = info
			sawDerivedCtx = ctx.Value(ctxKey{}) == true
		},
	}
	client := New(config, nil)

	err := client.Do(context.Background(), Request{Method: http.MethodPost, Endpoint: "/chat/completions"}, nil)

	require.Error(t, err)
	assert.Equal(t, RequestInfo{Provider: "openai", Method: http.MethodPost, Endpoint: "/chat/completions"}, started)
	assert.Equal(t, http.StatusTooManyRequests, ended.StatusCode)
	assert.Equal(t, err, ended.Err)
	assert.True(t, sawDerivedCtx)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test-provider", "https://api.test.com")

	assert.Equal(t, "test-provider", config.ProviderName)
	assert.Equal(t, "https://api.test.com", config.BaseURL)
	assert.Zero(t, config.MaxRetries)
	assert.NotNil(t, config.CircuitBreaker)
}

func TestBackoffCalculation(t *testing.T) {
	config := DefaultConfig("test", "http://test.com")
	config.InitialBackoff = 100 * time.Millisecond
	config.MaxBackoff = time.Second
	config.BackoffFactor = 2.0
	client := New(config, nil)

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{10, time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, client.calculateBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}
