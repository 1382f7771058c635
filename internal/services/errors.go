package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an error response from a PostgREST endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "postgrest: %d", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	return b.String()
}

// Detail returns the most specific description available: details, then message,
// then the raw status text.
func (e *APIError) Detail() string {
	switch {
	case e.Details != "":
		return e.Details
	case e.Message != "":
		return e.Message
	default:
		return http.StatusText(e.Status)
	}
}

// parseAPIError builds an [APIError] from a failed response body.
// Bodies that are not PostgREST JSON are kept as the message.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.Code == "") {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.Status = status
	return apiErr
}
