package app

import (
	"errors"

	"weighttracker/internal/domain"
)

// storeErr wraps a persistence failure. Not-found and validation errors pass
// through so callers can tell them apart.
func storeErr(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) || domain.IsValidation(err) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
