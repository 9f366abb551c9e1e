package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is wrapped by lookups that reference a missing row.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is wrapped by operations rejected before touching the store.
	ErrInvalid = errors.New("invalid")
)

// DateLayout is the storage format for due, start and end dates.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
