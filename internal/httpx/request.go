package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBodyTooLarge wraps decode failures caused by RequestSizeLimitMiddleware.
var ErrBodyTooLarge = errors.New("request body too large")

// DecodeJSON reads a single JSON document from the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
