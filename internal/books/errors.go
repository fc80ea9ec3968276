package books

import (
	"errors"
	"net/http"
)

// Domain errors for catalog operations.
var (
	// ErrReservedParam is returned when a raw filter names a parameter
	// with the generated __p prefix.
	ErrReservedParam = errors.New("parameter name reserved by query builder")
	// ErrUnknownCrosswalk is returned when a query names a crosswalk
	// with no registered transformer.
	ErrUnknownCrosswalk = errors.New("unknown crosswalk")
	ErrBookNotFound     = errors.New("book not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	// ErrSchema indicates the catalog view or its tables are missing.
	ErrSchema = errors.New("catalog schema unavailable")
)

// MapHTTPStatus maps catalog domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrBookNotFound) || errors.Is(err, ErrSubjectNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrReservedParam) || errors.Is(err, ErrUnknownCrosswalk) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrSchema) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
