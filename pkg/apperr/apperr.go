package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors shared across usecases. Handlers translate these to HTTP
// status codes with MapToHTTP; anything unrecognized is collapsed to a
// generic 500 so internal causes never reach the caller.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("you are not authorized to perform this action")
	ErrInvalidState  = errors.New("invalid document state")
	ErrAlreadySigned = errors.New("this document has already been signed")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// UnsupportedTemplateError is returned when a document type is not one of
// the supported templates.
type UnsupportedTemplateError struct {
	TemplateType string
}

func (e *UnsupportedTemplateError) Error() string {
	return fmt.Sprintf("unsupported document type: %s", e.TemplateType)
}

// GenerationError wraps an internal failure (AI, rendering, storage) during
// document generation. The cause is logged server-side, never surfaced.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return "document generation failed: " + e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// SummarizationError is returned when the AI summarizer produces output that
// does not parse as the expected structured object. Raw keeps the model
// output for diagnostics.
type SummarizationError struct {
	Raw string
}

func (e *SummarizationError) Error() string {
	return "AI returned non-JSON content"
}

// DecryptionError is returned when a value cannot be decrypted with the
// configured key.
type DecryptionError struct {
	Cause error
}

func (e *DecryptionError) Error() string {
	if e.Cause != nil {
		return "decryption failed: " + e.Cause.Error()
	}
	return "decryption failed"
}

func (e *DecryptionError) Unwrap() error { return e.Cause }

// MapToHTTP maps an error to an HTTP status and a message safe to return to
// the caller. Validation and authorization errors are surfaced verbatim;
// everything else gets a generic message.
func MapToHTTP(err error) (int, string) {
	var validationErr *ValidationError
	var templateErr *UnsupportedTemplateError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &templateErr):
		return http.StatusBadRequest, templateErr.Error()
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrForbidden.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrAlreadySigned):
		return http.StatusBadRequest, ErrAlreadySigned.Error()
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest, ErrAlreadyExists.Error()
	case errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "something went wrong, please try again later"
	}
}
