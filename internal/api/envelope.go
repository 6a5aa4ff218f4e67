package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform wrapper every backend response uses to carry
// status, message, payload, and success flag.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Success    bool            `json:"success"`
}

// APIError is a logical failure reported by the backend envelope
// (success=false), regardless of the transport-level HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// decodeEnvelope parses an envelope body and unmarshals its payload into out.
// Returns an *APIError when the envelope reports failure.
func decodeEnvelope(body []byte, httpStatus int, out any) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", httpStatus, err)
	}

	if !env.Success {
		status := env.StatusCode
		if status == 0 {
			status = httpStatus
		}
		return &APIError{StatusCode: status, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response payload: %w", err)
		}
	}

	return nil
}
