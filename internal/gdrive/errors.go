// Package gdrive provides an HTTP client for the Google Drive v3 REST API
// with error classification that separates throttling from other failures.
// The client itself never retries; callers wrap calls in their own policy.
package gdrive

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// Sentinel errors for HTTP status classification.
// Use errors.Is(err, gdrive.ErrRateLimited) to check.
var (
	ErrBadRequest   = errors.New("gdrive: bad request")
	ErrUnauthorized = errors.New("gdrive: unauthorized")
	ErrForbidden    = errors.New("gdrive: forbidden")
	ErrNotFound     = errors.New("gdrive: not found")
	ErrRateLimited  = errors.New("gdrive: rate limited")
	ErrServerError  = errors.New("gdrive: server error")
	ErrUnexpected   = errors.New("gdrive: unexpected status")
)

// Drive reports throttling as 403 with one of these reasons, in addition to
// plain 429 responses.
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// DriveError wraps a sentinel error with the HTTP status code, the first
// error reason reported by Drive, and the message body for debugging.
type DriveError struct {
	StatusCode int
	Reason     string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *DriveError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("gdrive: HTTP %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}

	return fmt.Sprintf("gdrive: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *DriveError) Unwrap() error {
	return e.Err
}

// errorEnvelope mirrors the Drive API error JSON.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// newDriveError builds a DriveError from a non-2xx response body. Bodies that
// are not the standard envelope are kept verbatim as the message.
func newDriveError(code int, body []byte) *DriveError {
	de := &DriveError{StatusCode: code, Message: string(body)}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Code != 0 {
		de.Message = env.Error.Message
		if len(env.Error.Errors) > 0 {
			de.Reason = env.Error.Errors[0].Reason
		}
	}

	de.Err = classifyStatus(code, de.Reason)

	return de
}

// classifyStatus maps an HTTP status code and Drive reason to a sentinel.
func classifyStatus(code int, reason string) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		if rateLimitReasons[reason] {
			return ErrRateLimited
		}

		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return ErrUnexpected
	}
}
