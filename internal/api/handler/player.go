package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/mcoot/warfront/internal/api/middleware"
	"github.com/mcoot/warfront/internal/api/request"
	"github.com/mcoot/warfront/internal/api/response"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/auth"
	"github.com/mcoot/warfront/internal/services/session"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
	sessions    *session.Manager
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, sessions *session.Manager) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startSession(w, r, acct, http.StatusCreated)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	acct, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startSession(w, r, acct, http.StatusOK)
}

func (h *PlayerHandler) startSession(w http.ResponseWriter, r *http.Request, acct *model.Account, status int) {
	sess, err := h.sessions.Login(r.Context(), acct.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, status, response.AuthResponseFromSession(acct, sess))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), middleware.ExtractToken(r)); err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	if username == "" {
		response.JSON(w, http.StatusOK, response.CurrentUser{LoggedIn: false})
		return
	}

	acct, err := h.authService.GetAccount(r.Context(), username)
	if errors.Is(err, model.ErrAccountNotFound) {
		response.JSON(w, http.StatusOK, response.CurrentUser{LoggedIn: false})
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	player := response.PlayerFromModel(acct)
	response.JSON(w, http.StatusOK, response.CurrentUser{LoggedIn: true, Player: &player})
}

// UpdateStats handles PATCH /api/v1/players/me/stats
func (h *PlayerHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.UpdateStatsRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	acct, err := h.authService.UpdateStats(r.Context(), username, model.PlayerStats{
		XP:                 req.XP,
		Level:              req.Level,
		Wins:               req.Wins,
		Losses:             req.Losses,
		TotalMatches:       req.TotalMatches,
		TotalDeployedUnits: req.TotalDeployedUnits,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(acct))
}
