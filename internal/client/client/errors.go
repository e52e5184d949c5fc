package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrUnavailable    = errors.New("server unavailable")
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx response of the backend.
type APIError struct {
	StatusCode int
	// Message is the server-provided message; empty when the body had none.
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case e.StatusCode >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}

func newAPIError(resp *Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    serverMessage(resp.Body),
		RequestID:  resp.RequestID,
	}
}

// serverMessage extracts the "message" field of an error body. Validation
// errors carry a list of messages, which are joined.
func serverMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil || len(payload.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return ""
}

// UserMessage is the text shown to the user for err: the server message when
// present, otherwise the error text, otherwise "Unknown error".
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Unknown error"
}
