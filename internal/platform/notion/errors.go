package notion

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "notion: api error"
	}
	msg := strings.TrimSpace(e.Message)
	if e.Code == "" {
		return fmt.Sprintf("notion: HTTP %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("notion: HTTP %d %s: %s", e.Status, e.Code, msg)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr = &APIError{Message: string(body)}
	}
	// the status line wins over whatever the body claims
	apiErr.Status = status
	return apiErr
}

// AsAPIError unwraps err to an *APIError if there is one in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether Notion rejected the integration token.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == 401 || apiErr.Code == "unauthorized")
}
