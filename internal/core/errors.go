// Package core provides core types and interfaces for the AI service.
package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeProvider indicates an upstream provider error (5xx)
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeRateLimit indicates a rate limit error (429)
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeInvalidRequest indicates a client error (4xx)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeAuthentication indicates an authentication error (401)
	ErrorTypeAuthentication ErrorType = "authentication_error"
	// ErrorTypeNotFound indicates a not found error (404)
	ErrorTypeNotFound ErrorType = "not_found_error"
	// ErrorTypeTemplateNotFound indicates a prompt template id without a registration (400)
	ErrorTypeTemplateNotFound ErrorType = "template_not_found"
	// ErrorTypeUnsupportedProvider indicates a provider id without an adapter (400)
	ErrorTypeUnsupportedProvider ErrorType = "unsupported_provider"
	// ErrorTypeMissingCredential indicates a provider was configured without credentials.
	// It is a startup condition and never reaches an HTTP client.
	ErrorTypeMissingCredential ErrorType = "missing_credential"
	// ErrorTypeGenerationFailed is the opaque category returned to callers
	// when a completion fails for a reason they cannot act on (500)
	ErrorTypeGenerationFailed ErrorType = "generation_failed"
)

// GatewayError is the base error type for all service errors
type GatewayError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *GatewayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	// Default status codes based on error type
	switch e.Type {
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeInvalidRequest, ErrorTypeTemplateNotFound, ErrorTypeUnsupportedProvider:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *GatewayError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewProviderError creates a new provider error (upstream 5xx)
func NewProviderError(provider string, statusCode int, message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeProvider,
		Message:    message,
		StatusCode: statusCode,
		Provider:   provider,
		Err:        err,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(provider string, message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Provider:   provider,
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *GatewayError {
	return NewInvalidRequestErrorWithStatus(http.StatusBadRequest, message, err)
}

// NewInvalidRequestErrorWithStatus creates a new invalid request error with a specific status code
func NewInvalidRequestErrorWithStatus(statusCode int, message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewAuthenticationError creates a new authentication error (401)
func NewAuthenticationError(provider string, message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Provider:   provider,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewTemplateNotFoundError reports a render against an unregistered template id.
func NewTemplateNotFoundError(id string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeTemplateNotFound,
		Message:    fmt.Sprintf("template %q not found", id),
		StatusCode: http.StatusBadRequest,
	}
}

// NewUnsupportedProviderError reports a provider id with no registered adapter.
func NewUnsupportedProviderError(provider string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeUnsupportedProvider,
		Message:    fmt.Sprintf("unsupported AI provider: %s", provider),
		StatusCode: http.StatusBadRequest,
		Provider:   provider,
	}
}

// NewMissingCredentialError reports a provider configured without an API key.
func NewMissingCredentialError(provider, envVar string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeMissingCredential,
		Message:    fmt.Sprintf("%s is required to use the %s provider", envVar, provider),
		StatusCode: http.StatusInternalServerError,
		Provider:   provider,
	}
}

// NewGenerationFailedError hides err behind a provider-agnostic message.
// err is kept for logging only.
func NewGenerationFailedError(message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeGenerationFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ErrorTypeOf returns the ErrorType of the first GatewayError in err's chain,
// or the empty string when there is none.
func ErrorTypeOf(err error) ErrorType {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Type
	}
	return ""
}

// IsCallerError reports whether err is a typed error the caller caused and can act on.
// Such errors pass through the orchestrator unchanged. Invalid-request errors
// raised by an upstream provider are not caller errors.
func IsCallerError(err error) bool {
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		return false
	}
	switch gatewayErr.Type {
	case ErrorTypeTemplateNotFound, ErrorTypeUnsupportedProvider:
		return true
	case ErrorTypeInvalidRequest:
		return gatewayErr.Provider == ""
	}
	return false
}

// ParseProviderError parses an error response from a provider and returns an appropriate GatewayError
func ParseProviderError(provider string, statusCode int, body []byte, originalErr error) *GatewayError {
	message := string(body)
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "error.message"); m.Exists() && m.String() != "" {
			message = m.String()
		}
	}

	// Determine error type based on status code
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(provider, message)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(provider, message)
	case statusCode >= 400 && statusCode < 500:
		err := NewInvalidRequestErrorWithStatus(statusCode, message, originalErr)
		err.Provider = provider
		return err
	default:
		return NewProviderError(provider, http.StatusBadGateway, message, originalErr)
	}
}
