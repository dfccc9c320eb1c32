package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflicting state")

	// ErrUnreachable marks transport-level failures talking to a backing
	// service, as opposed to the service rejecting the call.
	ErrUnreachable = errors.New("server unreachable")
	// ErrRemote marks a rejection reported by a backing service; its message
	// is passed through to the operator.
	ErrRemote = errors.New("remote rejection")
)

// BindingError carries field-level template binding failures. Each entry is a
// human-readable explanation naming the offending placeholder.
type BindingError struct {
	Fields []string
}

func (e *BindingError) Error() string {
	return "template binding failed: " + strings.Join(e.Fields, "; ")
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var binding *BindingError
	switch {
	case errors.As(err, &binding):
		Problem(w, http.StatusUnprocessableEntity, "Template Binding Failed", strings.Join(binding.Fields, "; "))
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrUnreachable):
		Problem(w, http.StatusBadGateway, "Server Unreachable", err.Error())
	case errors.Is(err, ErrRemote):
		Problem(w, http.StatusBadGateway, "Remote Rejection", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
