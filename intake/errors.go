package intake

import (
	"errors"
	"net/http"

	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/model"
)

// Error is a failed submission as reported to the caller. Details is
// either a string or a list of per-field messages.
type Error struct {
	Status  int
	Title   string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Title + ": " + e.Cause.Error()
	}
	return e.Title
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify maps a persistence failure to the error reported to the caller.
func Classify(err error) *Error {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr
	}

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return &Error{
			Status:  http.StatusBadRequest,
			Title:   "Validation Error",
			Details: verr.Details(),
			Cause:   err,
		}
	case errors.Is(err, database.ErrDuplicate):
		return &Error{
			Status:  http.StatusConflict,
			Title:   "Duplicate Entry",
			Details: "A survey response with this information already exists",
			Cause:   err,
		}
	case errors.Is(err, database.ErrUnavailable):
		return &Error{
			Status:  http.StatusInternalServerError,
			Title:   "Database connection not ready",
			Details: err.Error(),
			Cause:   err,
		}
	default:
		return &Error{
			Status:  http.StatusInternalServerError,
			Title:   "Failed to save survey response",
			Details: err.Error(),
			Cause:   err,
		}
	}
}
