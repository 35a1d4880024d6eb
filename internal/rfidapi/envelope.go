package rfidapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// unwrapEnvelope strips one Moonraker "result" wrapper. Bodies without one
// pass through unchanged.
func unwrapEnvelope(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &outer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	inner, ok := outer["result"]
	if !ok {
		return trimmed, nil
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 || inner[0] != '{' {
		return trimmed, nil
	}
	return inner, nil
}

// errorMessage extracts the failure text of a non-2xx response: an "error"
// string, an error object's "message", or the HTTP status.
func errorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP %d", status)
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return fallback
	}
	var text string
	if err := json.Unmarshal(payload.Error, &text); err == nil {
		if strings.TrimSpace(text) != "" {
			return text
		}
		return fallback
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &obj); err == nil && strings.TrimSpace(obj.Message) != "" {
		return obj.Message
	}
	return fallback
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
