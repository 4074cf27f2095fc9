package v1

import (
	"errors"
	"net/http"

	"github.com/hearthbudget/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrUnauthorized) {
		return http.StatusForbidden
	}

	if errors.Is(err, models.ErrConflict) {
		return http.StatusConflict
	}

	if errors.Is(err, errMissingIdentity) {
		return http.StatusUnauthorized
	}

	return http.StatusBadRequest
}

var (
	errAccountIDParameter = errors.New("the account parameter must be set")
	errMonthNotSetInQuery = errors.New("the month query parameter must be set")
	errMissingIdentity    = errors.New("the identity headers are missing, this endpoint must be called through the identity proxy")
)

// Import errors
var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types")
)
