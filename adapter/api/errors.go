package api

import (
	"errors"
	"log/slog"
	"net/http"

	identityDomain "github.com/felixgeelhaar/tracker/internal/identity/domain"
	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Status  string              `json:"status"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// errorResponse maps err to an HTTP status and envelope. Anything not
// recognised is an internal error and its text is not exposed.
func errorResponse(err error) ErrorResponse {
	var verr *trackerDomain.ValidationError
	switch {
	case errors.As(err, &verr):
		return ErrorResponse{Status: "error", Code: http.StatusBadRequest, Message: "Validation error", Errors: verr.Fields}
	case errors.Is(err, identityDomain.ErrUnauthenticated):
		return ErrorResponse{Status: "error", Code: http.StatusUnauthorized, Message: "Authentication required"}
	case errors.Is(err, identityDomain.ErrForbidden):
		return ErrorResponse{Status: "error", Code: http.StatusForbidden, Message: "Permission denied"}
	case errors.Is(err, trackerDomain.ErrNotFound):
		return ErrorResponse{Status: "error", Code: http.StatusNotFound, Message: "Not found"}
	default:
		return ErrorResponse{Status: "error", Code: http.StatusInternalServerError, Message: "Internal server error"}
	}
}

// writeError writes the envelope for err and remembers err for the access
// log.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	resp := errorResponse(err)
	if rec, ok := w.(*statusRecorder); ok {
		rec.err = err
	}
	if resp.Code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="tracker"`)
	}
	writeJSON(w, logger, resp.Code, resp)
}
