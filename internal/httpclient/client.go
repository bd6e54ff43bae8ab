// Package httpclient builds the pooled HTTP clients used for upstream model calls.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds transport and timeout settings.
type ClientConfig struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Timeout bounds a whole request including reading the body.
	Timeout time.Duration

	DialTimeout           time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
}

// DefaultConfig returns settings sized for short chat completions.
// Callers override Timeout and ResponseHeaderTimeout from HTTP_TIMEOUT and
// HTTP_RESPONSE_HEADER_TIMEOUT via the config package.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		Timeout:               120 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
	}
}

// NewHTTPClient creates a client from cfg. A nil cfg means DefaultConfig.
// Zero durations in cfg fall back to the defaults.
func NewHTTPClient(cfg *ClientConfig) *http.Client {
	c := DefaultConfig()
	if cfg != nil {
		c = merge(c, *cfg)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   c.DialTimeout,
			KeepAlive: c.KeepAlive,
		}).DialContext,
		MaxIdleConns:          c.MaxIdleConns,
		MaxIdleConnsPerHost:   c.MaxIdleConnsPerHost,
		IdleConnTimeout:       c.IdleConnTimeout,
		TLSHandshakeTimeout:   c.TLSHandshakeTimeout,
		ResponseHeaderTimeout: c.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.Timeout,
	}
}

// NewDefaultHTTPClient is NewHTTPClient(nil).
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(nil)
}

func merge(base, override ClientConfig) ClientConfig {
	if override.MaxIdleConns > 0 {
		base.MaxIdleConns = override.MaxIdleConns
	}
	if override.MaxIdleConnsPerHost > 0 {
		base.MaxIdleConnsPerHost = override.MaxIdleConnsPerHost
	}
	if override.IdleConnTimeout > 0 {
		base.IdleConnTimeout = override.IdleConnTimeout
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.DialTimeout > 0 {
		base.DialTimeout = override.DialTimeout
	}
	if override.KeepAlive > 0 {
		base.KeepAlive = override.KeepAlive
	}
	if override.TLSHandshakeTimeout > 0 {
		base.TLSHandshakeTimeout = override.TLSHandshakeTimeout
	}
	if override.ResponseHeaderTimeout > 0 {
		base.ResponseHeaderTimeout = override.ResponseHeaderTimeout
	}
	return base
}
