package discord

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the Discord API. Code and Message
// carry Discord's JSON error body when one was returned.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("discord API error (%d) code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("discord API error (%d): %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a response body, tolerating bodies
// that are not the documented JSON error shape.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var parsed struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		apiErr.Code = parsed.Code
		apiErr.Message = parsed.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
