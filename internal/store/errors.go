package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/pg"
)

var (
	// ErrNotFound means no record matched the key.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the database refused the write on an integrity constraint.
	ErrConflict = errors.New("integrity conflict")
)

func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isConflict(err):
		if c := pg.Constraint(err); c != "" {
			return fmt.Errorf("%s: %w on %s: %v", op, ErrConflict, c, err)
		}
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if pg.IsForeignKeyViolation(err) || pg.IsUniqueViolation(err) {
		return true
	}
	// sqlite reports constraint failures by message when the translator misses them
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
