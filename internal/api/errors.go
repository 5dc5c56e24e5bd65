package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport-level failures: connection refused, DNS,
// timeouts. Callers match it with errors.Is to distinguish "network down"
// from a server-side rejection.
var ErrUnavailable = errors.New("server unavailable")

// Error represents a non-2xx HTTP response from the auth API.
//
// FieldErrors and FormErrors are populated from structured validation
// payloads (HTTP 400); Message carries the server's top-level error string
// when present.
type Error struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
	FormErrors  []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// FirstFieldError returns the first available field-level validation message,
// or "" if there is none. Map iteration order is not stable, so single-field
// payloads are the only ones with a deterministic result; that matches how
// the UI surfaces exactly one message.
func (e *Error) FirstFieldError() string {
	for _, msgs := range e.FieldErrors {
		if len(msgs) > 0 && msgs[0] != "" {
			return msgs[0]
		}
	}
	return ""
}

// FirstFormError returns the first form-level validation message, or "".
func (e *Error) FirstFormError() string {
	if len(e.FormErrors) > 0 {
		return e.FormErrors[0]
	}
	return ""
}

// IsStatus reports whether err (or any wrapped error) is an *Error with the
// given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
