package server

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Raw       string `json:"raw,omitempty"` // model answer, for failed extractions
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeMalformedInput,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidStyle,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeInvalidModel:
		return http.StatusBadRequest
	case apperrors.ErrCodeExtractionFailed:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as an errorResponse. Errors without a code are
// reported as INTERNAL_ERROR and their text is only logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	resp := errorResponse{
		Code:      string(code),
		Message:   message(err),
		RequestID: requestIDFrom(r.Context()),
	}
	if code == "" {
		resp.Code = string(apperrors.ErrCodeInternal)
		resp.Message = "internal error"
	}

	var ge *pipeline.GenerateError
	if errors.As(err, &ge) {
		resp.Raw = ge.Raw
	}
	var rl *apperrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
	}

	status := statusFor(apperrors.Code(resp.Code))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", resp.RequestID, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", resp.Code, "err", err)
	}
	writeJSON(w, status, resp)
}

// message returns the coded error's message followed by its cause, so that
// parse failures keep the offending key.
func message(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return apperrors.UserMessage(err)
}
