package repository

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id or key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrAlreadyUsed is returned when an access code was consumed concurrently.
	ErrAlreadyUsed = errors.New("access code already used")
	// ErrUnknownCategory is returned for a category without catalog tables.
	ErrUnknownCategory = errors.New("unknown category")
)
