package services

import (
	"errors"
	"sort"
	"strings"

	"postboard/app/models"
	"postboard/app/repositories"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrMalformedInput     = errors.New("Invalid JSON data")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries field-keyed messages, e.g. {"text": ["This field is required."]}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// fieldError builds a ValidationError for a single field.
func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// invalid converts a validator error into a ValidationError. Other errors pass through.
func invalid(err error) error {
	if fields := models.FieldErrors(err); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return err
}

// translate maps repository sentinels onto the service taxonomy.
func translate(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func viewerID(viewer *models.User) int64 {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}
