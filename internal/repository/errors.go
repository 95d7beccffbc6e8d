package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("repository: duplicate key")
	// ErrInvalidReference is returned when a write references a missing row.
	ErrInvalidReference = errors.New("repository: invalid reference")
)

// translate maps driver constraint errors onto the repository sentinels.
// GORM's TranslateError covers most drivers; the message check catches the
// rest.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate"):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case strings.Contains(msg, "foreign key"):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	return err
}
