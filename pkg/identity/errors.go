package identity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxErrorDetail bounds the detail taken from an unstructured error body.
const maxErrorDetail = 256

// StatusError is a non-success response from the identity service. Detail is
// taken from the structured error body when it parses, otherwise from a
// bounded prefix of the raw body text.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("identity: api status %d", e.Code)
	}
	return fmt.Sprintf("identity: api status %d: %s", e.Code, e.Detail)
}

// errorBody is the structured error payload some provider revisions return.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func newStatusError(code int, body []byte) *StatusError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error.Message != "" {
			return &StatusError{Code: code, Detail: eb.Error.Message}
		}
		if eb.Message != "" {
			return &StatusError{Code: code, Detail: eb.Message}
		}
	}

	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	return &StatusError{Code: code, Detail: detail}
}
