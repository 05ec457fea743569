package collaborator

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyToken is returned when a successful login response carries no token
var ErrEmptyToken = errors.New("login response did not include a token")

// APIError is a non-2xx response from the collaborator
type APIError struct {
	StatusCode int
	// Message is the "message" field of the error body, if any
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("collaborator returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("collaborator returned status %d", e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{StatusCode: status, Message: payload.Message}
}

// MessageOr returns the collaborator-supplied message carried by err, or
// fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
