package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("inventory: invalid input")
	ErrNotFound           = errors.New("inventory: equipment not found")
	ErrStorageUnavailable = errors.New("inventory: storage unavailable")
)

// StorageError re-signals a driver error at the repository boundary.
func StorageError(err error) error {
	if err == nil || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
