package service

import (
	"errors"
	"fmt"

	"github.com/foodgram/backend/internal/relation"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")

	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrUserExists         = fmt.Errorf("%w: email or username already taken", ErrValidation)
)

// NotFoundError names the missing entity, e.g. "recipe not found".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// RelationError is a rejected add or remove on a relation. Err is one of
// relation.ErrDuplicateEdge, relation.ErrSelfReference or
// relation.ErrEdgeNotFound.
type RelationError struct {
	Label string
	Err   error
}

func (e *RelationError) Error() string {
	switch {
	case errors.Is(e.Err, relation.ErrDuplicateEdge):
		return "already in " + e.Label
	case errors.Is(e.Err, relation.ErrSelfReference):
		return "cannot subscribe to yourself"
	case errors.Is(e.Err, relation.ErrEdgeNotFound):
		return "not found in " + e.Label
	}
	return e.Err.Error()
}

func (e *RelationError) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
