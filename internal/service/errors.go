package service

import (
	"errors"
	"fmt"

	"assessly-backend/internal/repository"
)

var (
	// ErrInvalidSubmission is returned for a malformed game submission.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrCodeNotFound is returned when the access code does not exist.
	ErrCodeNotFound = errors.New("access code not found")
	// ErrCodeUsed is returned when the access code was already consumed.
	ErrCodeUsed = errors.New("access code already used")
	// ErrCodeExpired is returned when the access code is past its expiry.
	ErrCodeExpired = errors.New("access code expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")

	// ErrNotificationFailed is returned when an admin-requested email could
	// not be delivered.
	ErrNotificationFailed = errors.New("notification failed")
)

// translateRepoErr lifts persistence errors into service errors.
func translateRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
