package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// errorResponse maps a service error to a status code and a failure envelope.
func errorResponse(err error) (int, Response) {
	fail := func(status int, msg string, errs ...string) (int, Response) {
		if len(errs) == 0 {
			errs = []string{msg}
		}
		return status, Response{Success: false, Message: msg, Errors: errs}
	}

	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(http.StatusBadRequest, "Validation failed", verr.Fields...)
	case errors.Is(err, common.ErrInvalidResumeFormat):
		return fail(http.StatusBadRequest, "Resume must be a PDF")
	case errors.Is(err, common.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrInvalidCredential), errors.Is(err, common.ErrUnknownIdentity):
		return fail(http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, common.ErrForbidden):
		return fail(http.StatusForbidden, "Forbidden")
	case errors.Is(err, common.ErrUnauthorized):
		return fail(http.StatusForbidden, "Unauthorized access")
	case errors.Is(err, common.ErrNotFound):
		return fail(http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrDuplicateEmail):
		return fail(http.StatusConflict, "User with this email already exists")
	case errors.Is(err, common.ErrAlreadyApplied):
		return fail(http.StatusConflict, "Already applied", "Duplicate application")
	case errors.Is(err, common.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fail(http.StatusGatewayTimeout, "Request timed out")
	default:
		return fail(http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status, body := errorResponse(err)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	case status == http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, body)
}
