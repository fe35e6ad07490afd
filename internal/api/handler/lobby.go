package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/warfront/internal/api/middleware"
	"github.com/mcoot/warfront/internal/api/request"
	"github.com/mcoot/warfront/internal/api/response"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/lobby"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	lobbyController *lobby.Controller
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController *lobby.Controller) *LobbyHandler {
	return &LobbyHandler{lobbyController: lobbyController}
}

func lobbyID(r *http.Request) model.LobbyID {
	return model.LobbyID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.CreateLobbyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.lobbyController.CreateLobby(r.Context(), username, lobby.CreateParams{
		Map:      req.Map,
		Mode:     req.Mode,
		GameTime: req.GameTime,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(l))
}

// List handles GET /api/v1/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	lobbies, err := h.lobbyController.ListLobbies(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbiesFromModel(lobbies))
}

// Get handles GET /api/v1/lobbies/{id}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.lobbyController.GetLobby(r.Context(), lobbyID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Join handles POST /api/v1/lobbies/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	l, err := h.lobbyController.JoinLobby(r.Context(), username, lobbyID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Leave handles POST /api/v1/lobbies/{id}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	if err := h.lobbyController.LeaveLobby(r.Context(), username, lobbyID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetTeam handles POST /api/v1/lobbies/{id}/team
func (h *LobbyHandler) SetTeam(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.SetTeamRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.lobbyController.SetTeam(r.Context(), username, lobbyID(r), req.Team)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Start handles POST /api/v1/lobbies/{id}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	l, err := h.lobbyController.StartMatch(r.Context(), username, lobbyID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Active handles GET /api/v1/matches/active
func (h *LobbyHandler) Active(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	l, err := h.lobbyController.ActiveMatch(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	var resp response.ActiveMatch
	if l != nil {
		view := response.LobbyFromModel(l)
		resp.Match = &view
	}
	response.JSON(w, http.StatusOK, resp)
}

// Maps handles GET /api/v1/maps
func (h *LobbyHandler) Maps(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.MapsFromModel(model.Maps))
}
