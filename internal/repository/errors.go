package repository

import (
	"errors"
	"fmt"

	app_errors "omnichat/backend/internal/errors"
)

// ErrNotFound is returned when a chat lookup or mutation matches no rows.
// It wraps app_errors.ErrNotFound so callers above the gateway can map it
// without importing this package.
var ErrNotFound = fmt.Errorf("repository: %w", app_errors.ErrNotFound)

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
