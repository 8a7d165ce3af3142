package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseError is a non-2xx answer from the server. Data is the display
// text extracted from the response body.
type ResponseError struct {
	StatusCode int
	Data       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Data)
}

// payloadText turns an error body into display text. A JSON string is unquoted,
// a JSON object contributes its data, error or message field, anything else is
// used as trimmed text. An empty body falls back to the HTTP status line.
func payloadText(raw []byte, status string) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return status
	}

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		for _, key := range []string{"data", "error", "message"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return text
}
