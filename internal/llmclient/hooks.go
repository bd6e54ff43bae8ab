package llmclient

import (
	"context"
	"time"
)

// RequestInfo identifies an upstream call.
type RequestInfo struct {
	Provider string
	Method   string
	Endpoint string
}

// ResponseInfo describes a finished upstream call. Retries are folded into one call.
type ResponseInfo struct {
	RequestInfo
	// StatusCode is 0 when no HTTP status is known (network error, cancellation).
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Hooks observe upstream calls. Either field may be nil.
type Hooks struct {
	// OnRequestStart may return a derived context that is handed to OnRequestEnd.
	OnRequestStart func(ctx context.Context, info RequestInfo) context.Context
	OnRequestEnd   func(ctx context.Context, info ResponseInfo)
}

func (h Hooks) start(ctx context.Context, info RequestInfo) context.Context {
	if h.OnRequestStart == nil {
		return ctx
	}
	if next := h.OnRequestStart(ctx, info); next != nil {
		return next
	}
	return ctx
}

func (h Hooks) end(ctx context.Context, info ResponseInfo) {
	if h.OnRequestEnd != nil {
		h.OnRequestEnd(ctx, info)
	}
}
