package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserUsernameConflict   = errors.New("username is already in use")

	ErrTournamentNotDraft      = errors.New("tournament can only be modified while in draft")
	ErrTournamentNotActive     = errors.New("tournament must be active to schedule a round")
	ErrInvalidStatus           = errors.New("invalid tournament status provided")
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")

	ErrMatchAlreadyDecided = errors.New("match winner has already been recorded")
	ErrWinnerNotInMatch    = errors.New("winner must be one of the match players")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	ErrBannerStorageDisabled = errors.New("banner storage is not configured")
)

// ValidationError carries every rule a tournament violated, in the order the
// validator reports them, so the caller can surface the full list at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}
