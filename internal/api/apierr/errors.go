package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/warfront/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidUsername     = "INVALID_USERNAME"
	CodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidStats        = "INVALID_STATS"
	CodeInvalidTeam         = "INVALID_TEAM"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeNotDeveloper        = "NOT_DEVELOPER"
	CodeNotHost             = "NOT_HOST"
	CodeNotLobbyMember      = "NOT_LOBBY_MEMBER"
	CodeNotFound            = "NOT_FOUND"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeLobbyNotFound       = "LOBBY_NOT_FOUND"
	CodeNotInLobby          = "NOT_IN_LOBBY"
	CodeConflict            = "CONFLICT"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeAlreadyInLobby      = "ALREADY_IN_LOBBY"
	CodeLobbyFull           = "LOBBY_FULL"
	CodeTeamFull            = "TEAM_FULL"
	CodeMatchStarted        = "MATCH_STARTED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeRateLimited         = "RATE_LIMITED"
	CodeUnavailable         = "STORAGE_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// specific errors take precedence over their category; checked in order
var specific = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidUsername},
	{model.ErrPasswordTooShort, http.StatusBadRequest, CodePasswordTooShort},
	{model.ErrInvalidAmount, http.StatusBadRequest, CodeInvalidAmount},
	{model.ErrInvalidStats, http.StatusBadRequest, CodeInvalidStats},
	{model.ErrInvalidTeam, http.StatusBadRequest, CodeInvalidTeam},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{model.ErrNotDeveloper, http.StatusForbidden, CodeNotDeveloper},
	{model.ErrNotHost, http.StatusForbidden, CodeNotHost},
	{model.ErrNotLobbyMember, http.StatusForbidden, CodeNotLobbyMember},
	{model.ErrAccountNotFound, http.StatusNotFound, CodeAccountNotFound},
	{model.ErrLobbyNotFound, http.StatusNotFound, CodeLobbyNotFound},
	{model.ErrNotInLobby, http.StatusNotFound, CodeNotInLobby},
	{model.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
	{model.ErrAlreadyInLobby, http.StatusConflict, CodeAlreadyInLobby},
	{model.ErrLobbyFull, http.StatusConflict, CodeLobbyFull},
	{model.ErrTeamFull, http.StatusConflict, CodeTeamFull},
	{model.ErrMatchStarted, http.StatusConflict, CodeMatchStarted},
	{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers},
}

var categories = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrInvalidInput, http.StatusBadRequest, CodeInvalidRequest},
	{model.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized},
	{model.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{model.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{model.ErrConflict, http.StatusConflict, CodeConflict},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if he.status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range specific {
		if errors.Is(err, m.err) {
			return &httpError{m.status, APIError{m.code, m.err.Error()}}
		}
	}
	for _, m := range categories {
		if errors.Is(err, m.err) {
			return &httpError{m.status, APIError{m.code, err.Error()}}
		}
	}

	if errors.Is(err, model.ErrUnavailable) {
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Storage temporarily unavailable, retry later"}}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Rate limit exceeded"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
