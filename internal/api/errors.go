package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a rejection from the portal backend. Message is the
// human-readable text extracted from the response body, whatever shape the
// backend chose for it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means no response was received at all: DNS failure,
// connection refused, timeout. Distinct from APIError so callers can run
// the health probe before deciding what to tell the user.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// decodeAPIError reads an error response body and reduces it to an
// APIError with a single display message.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    extractErrorMessage(resp.StatusCode, body),
	}
}

// extractErrorMessage normalizes the backend's "detail" field. The backend
// emits three shapes: a plain string, an array of validation objects each
// carrying msg, or a nested object carrying msg. All of them reduce to one
// string, array items joined by ". ".
func extractErrorMessage(statusCode int, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		if msg := normalizeDetail(envelope.Detail); msg != "" {
			return msg
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("error %d", statusCode)
}

func normalizeDetail(detail json.RawMessage) string {
	// Plain string detail.
	var s string
	if err := json.Unmarshal(detail, &s); err == nil {
		return s
	}

	// Array of validation errors.
	var items []json.RawMessage
	if err := json.Unmarshal(detail, &items); err == nil {
		messages := make([]string, 0, len(items))
		for _, item := range items {
			if msg := normalizeDetailItem(item); msg != "" {
				messages = append(messages, msg)
			}
		}
		return strings.Join(messages, ". ")
	}

	// Single nested object.
	return normalizeDetailItem(detail)
}

func normalizeDetailItem(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}

	var obj struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(item, &obj); err == nil {
		if obj.Msg != "" {
			return obj.Msg
		}
		if obj.Message != "" {
			return obj.Message
		}
	}

	return strings.TrimSpace(string(item))
}
