package services

import (
	"errors"
	"fmt"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"
)

// Error kinds surfaced to the HTTP layer. Wrap them with fmt.Errorf("%w: ...").
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// mapRepoError converts repository sentinels into service error kinds and
// leaves anything else (storage failures) untouched.
func mapRepoError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	case errors.Is(err, repository.ErrAlreadyExists):
		return fmt.Errorf("%w: %s already exists", ErrConflict, subject)
	case errors.Is(err, repository.ErrStaleVersion):
		return fmt.Errorf("%w: %s was modified concurrently, retry the request", ErrConflict, subject)
	case errors.Is(err, repository.ErrInsufficientStock):
		return fmt.Errorf("%w: insufficient stock for %s", ErrInvalidInput, subject)
	default:
		return err
	}
}
