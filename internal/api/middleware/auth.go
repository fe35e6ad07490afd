package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/warfront/internal/api/apierr"
)

type contextKey string

const (
	usernameContextKey contextKey = "username"
	tokenContextKey    contextKey = "session_token"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

// SessionResolver maps a session token to a username
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (string, error)
}

// Auth creates authentication middleware
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			username, err := sessions.CurrentUser(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), token, username)))
		})
	}
}

// OptionalAuth extracts session if present but doesn't require it.
// Storage failures still fail the request.
func OptionalAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token != "" {
				username, err := sessions.CurrentUser(r.Context(), token)
				switch {
				case err == nil:
					r = r.WithContext(withUser(r.Context(), token, username))
				case !isUnauthenticated(err):
					apierr.WriteError(w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withUser(ctx context.Context, token, username string) context.Context {
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return context.WithValue(ctx, usernameContextKey, username)
}

func isUnauthenticated(err error) bool {
	return apierr.Status(err) == http.StatusUnauthorized
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUsername returns the authenticated username, or "" without a session
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(usernameContextKey).(string)
	return username
}

// GetToken returns the session token of the request, or ""
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetUsername returns the authenticated username or panics
func MustGetUsername(ctx context.Context) string {
	username := GetUsername(ctx)
	if username == "" {
		panic("no username in context - auth middleware not applied?")
	}
	return username
}
