package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrForbidden = errors.New("permission denied")
	ErrNotFound  = errors.New("not found")
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a form fails local validation. No request reaches the backend.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// FieldErrors flattens Fields into a map keyed by field name.
func (err ValidationError) FieldErrors() map[string]string {
	fldErrs := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		fldErrs[fErr.Field] = fErr.Error
	}
	return fldErrs
}

// APIError is a non-2xx answer from the campus backend.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("backend: %d %s", err.Status, http.StatusText(err.Status))
	}
	return fmt.Sprintf("backend: %d %s", err.Status, err.Message)
}

func apiStatus(err error) int {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.Status
	}
	return 0
}

func IsConflict(err error) bool { return apiStatus(err) == http.StatusConflict }
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound || apiStatus(err) == http.StatusNotFound
}
func IsUnauthorized(err error) bool { return apiStatus(err) == http.StatusUnauthorized }

func IsForbidden(err error) bool {
	return errors.Cause(err) == ErrForbidden || apiStatus(err) == http.StatusForbidden
}

// IsValidation reports whether err (or its cause) is a local form validation failure.
func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}
