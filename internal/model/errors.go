package model

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of these.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")

	// ErrUnavailable marks transient storage failures; callers may retry
	ErrUnavailable = errors.New("storage unavailable")
)

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrUsernameExists     = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrInvalidUsername    = fmt.Errorf("%w: username must be 3-24 characters without whitespace", ErrInvalidInput)
	ErrPasswordTooShort   = fmt.Errorf("%w: password is too short", ErrInvalidInput)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrInvalidSession     = fmt.Errorf("%w: invalid or expired session", ErrUnauthenticated)
	ErrNotDeveloper       = fmt.Errorf("%w: developer role required", ErrForbidden)
	ErrInvalidStats       = fmt.Errorf("%w: stats must be non-negative and level at least 1", ErrInvalidInput)

	// Currency errors
	ErrInvalidAmount = fmt.Errorf("%w: invalid gold amount", ErrInvalidInput)

	// Lobby errors
	ErrLobbyNotFound       = fmt.Errorf("%w: lobby not found", ErrNotFound)
	ErrLobbyFull           = fmt.Errorf("%w: lobby is full", ErrConflict)
	ErrAlreadyInLobby      = fmt.Errorf("%w: player is already in an active lobby", ErrConflict)
	ErrNotInLobby          = fmt.Errorf("%w: player is not in lobby", ErrNotFound)
	ErrNotLobbyMember      = fmt.Errorf("%w: player is not a member of this lobby", ErrForbidden)
	ErrNotHost             = fmt.Errorf("%w: player is not the host", ErrForbidden)
	ErrMatchStarted        = fmt.Errorf("%w: match has already started", ErrConflict)
	ErrInsufficientPlayers = fmt.Errorf("%w: all player slots must be filled", ErrConflict)
	ErrTeamFull            = fmt.Errorf("%w: team is full", ErrConflict)
	ErrInvalidTeam         = fmt.Errorf("%w: team must be blue or red", ErrInvalidInput)
	ErrInvalidMap          = fmt.Errorf("%w: map is required", ErrInvalidInput)
	ErrInvalidGameTime     = fmt.Errorf("%w: game time must be positive", ErrInvalidInput)
	ErrInvalidLobbyID      = fmt.Errorf("%w: lobby id is required", ErrInvalidInput)
)
