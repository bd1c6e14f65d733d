package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// maxErrorBody bounds how much of an error response is quoted in messages.
const maxErrorBody = 512

// CheckResponse returns nil for 2xx responses and a coded error otherwise.
//
//   - 401, 403: UNAUTHORIZED
//   - 404: NOT_FOUND
//   - 429: RATE_LIMITED, retryable
//   - 5xx: NETWORK_ERROR, retryable
//   - other 4xx: INVALID_INPUT
//
// The response body is read (up to a limit) to enrich the message; the
// caller still owns closing it.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.New(apperrors.ErrCodeUnauthorized, "HTTP %d: %s", resp.StatusCode, detail)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "HTTP 404: %s", detail)
	case resp.StatusCode == http.StatusTooManyRequests:
		err := &apperrors.RateLimitedError{RetryAfter: int(RetryAfter(resp) / time.Second), Message: detail}
		return &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeRateLimited, err, "HTTP 429: %s", detail)}
	case resp.StatusCode >= 500:
		return &RetryableError{Err: apperrors.New(apperrors.ErrCodeNetwork, "HTTP %d: %s", resp.StatusCode, detail)}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "HTTP %d: %s", resp.StatusCode, detail)
	}
}

// RetryAfter parses the Retry-After header given in seconds.
// It returns zero when the header is absent or not a number.
func RetryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// TransportError wraps a failure to reach the server as a retryable
// NETWORK_ERROR.
func TransportError(err error) error {
	return &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "request failed")}
}

// Describe returns a short description of a request for log lines.
func Describe(req *http.Request) string {
	return fmt.Sprintf("%s %s", req.Method, req.URL.Redacted())
}
