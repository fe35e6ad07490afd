package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/warfront/internal/model"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{model.ErrInvalidUsername, http.StatusBadRequest},
		{model.ErrInvalidGameTime, http.StatusBadRequest},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrInvalidSession, http.StatusUnauthorized},
		{model.ErrNotDeveloper, http.StatusForbidden},
		{model.ErrNotLobbyMember, http.StatusForbidden},
		{model.ErrLobbyNotFound, http.StatusNotFound},
		{model.ErrNotInLobby, http.StatusNotFound},
		{model.ErrLobbyFull, http.StatusConflict},
		{model.ErrMatchStarted, http.StatusConflict},
		{fmt.Errorf("%w: load accounts: timeout", model.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{NewRateLimitedError(), http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, Status(tc.err), "error %v", tc.err)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("join: %w", model.ErrLobbyFull))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, CodeLobbyFull, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestUnavailableSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.ErrUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
