// Package apperr defines the error kinds shared by the gateways and the
// message pipeline.
package apperr

import (
	"errors"
	"fmt"

	"notionbot/internal/textutil"
)

// maxBodyLen bounds, in runes, how much of an upstream response body is kept.
const maxBodyLen = 500

// ErrNotConfigured marks an optional collaborator that has no credentials.
var ErrNotConfigured = errors.New("not configured")

// ConfigError reports a missing or malformed configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return e.Key + " is required"
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// UpstreamError is a non-success response from a remote service.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

// Upstream builds an UpstreamError, keeping at most 500 runes of body.
func Upstream(service string, status int, body []byte) *UpstreamError {
	return &UpstreamError{Service: service, Status: status, Body: textutil.Truncate(string(body), maxBodyLen)}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Service, e.Status, e.Body)
}

// ValidationError reports an upstream reply with an unusable shape.
type ValidationError struct {
	Service string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Service, e.Reason)
}

// IsUpstream reports whether err wraps an UpstreamError.
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
