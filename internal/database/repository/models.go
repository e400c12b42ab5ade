package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key has never been stored.
var ErrNotFound = errors.New("not found")

// Entry represents the current value of a key.
type Entry struct {
	Key       string
	Value     []byte
	Revision  string
	UpdatedAt time.Time
}

// Revision represents one saved value kept in history.
type Revision struct {
	ID        int64
	Key       string
	Value     []byte
	Revision  string
	CreatedAt time.Time
}
