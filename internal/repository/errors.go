package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateError reports whether err is a unique-constraint violation.
// Two requests can race past an existence pre-check; the loser's insert or
// update fails here and must be reported as a normal conflict, not as an
// internal error. The string checks cover drivers that do not translate
// their native errors into gorm.ErrDuplicatedKey.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") // mysql
}
