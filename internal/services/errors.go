package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/repository"
)

var (
	// ErrInvalidReference is returned when a write names a task, project,
	// user or team that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrForbidden        = errors.New("action not permitted")
)

// wrapWriteError maps repository constraint errors to service errors.
func wrapWriteError(action string, err error) error {
	if errors.Is(err, repository.ErrInvalidReference) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
