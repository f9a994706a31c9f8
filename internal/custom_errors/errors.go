package custom_errors

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrPostValidation  = errors.New("post validation failed")
	ErrGroupValidation = errors.New("group validation failed")
	ErrUserValidation  = errors.New("user validation failed")

	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrSessionNotFound    = errors.New("session not found")

	ErrUsernameTaken  = errors.New("username already taken")
	ErrGroupSlugTaken = errors.New("group slug already taken")

	ErrDatabaseQuery = errors.New("database query failed")
	ErrNoUpdateRows  = errors.New("no rows to update")
	ErrSessionStore  = errors.New("session store failure")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	kind   error
	Fields map[string]string
}

func NewValidationError(kind error) *ValidationError {
	return &ValidationError{kind: kind, Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}
