package service

import (
	"errors"

	"github.com/google/uuid"
)

// ErrArchiveDisabled is returned when the entry archive is not configured
var ErrArchiveDisabled = errors.New("entry archive is disabled")

// ErrAccountNotFound indicates no registered account has the given ID
type ErrAccountNotFound struct {
	ID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// If the target ID is nil, consider it a match for any ErrAccountNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
