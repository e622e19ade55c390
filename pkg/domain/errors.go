package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrBadCredential = errors.New("invalid username or password")
)

type notFoundError struct {
	EntityType string
	ID         string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID)
}

func NewNotFoundError(entityType, id string) error {
	return &notFoundError{
		EntityType: entityType,
		ID:         id,
	}
}
