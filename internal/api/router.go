package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/warfront/internal/api/handler"
	"github.com/mcoot/warfront/internal/api/middleware"
	"github.com/mcoot/warfront/internal/services/auth"
	"github.com/mcoot/warfront/internal/services/gold"
	"github.com/mcoot/warfront/internal/services/lobby"
	"github.com/mcoot/warfront/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	Sessions        *session.Manager
	LobbyController *lobby.Controller
	GoldService     *gold.Service
	// RateLimiter throttles the credential endpoints; nil disables throttling
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.Sessions)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController)
	devHandler := handler.NewDevHandler(cfg.GoldService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Sessions)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.Sessions)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Credential routes
	credentials := api.PathPrefix("/players").Subrouter()
	if cfg.RateLimiter != nil {
		credentials.Use(cfg.RateLimiter.Middleware)
	}
	credentials.HandleFunc("/register", playerHandler.Register).Methods(http.MethodPost)
	credentials.HandleFunc("/login", playerHandler.Login).Methods(http.MethodPost)

	// Session-optional player routes
	api.Handle("/players/logout", optionalAuthMiddleware(http.HandlerFunc(playerHandler.Logout))).Methods(http.MethodPost)
	api.Handle("/players/me", optionalAuthMiddleware(http.HandlerFunc(playerHandler.GetMe))).Methods(http.MethodGet)

	// Public lobby routes
	api.HandleFunc("/maps", lobbyHandler.Maps).Methods(http.MethodGet)
	api.HandleFunc("/lobbies", lobbyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}", lobbyHandler.Get).Methods(http.MethodGet)

	// Everything below requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me/stats", playerHandler.UpdateStats).Methods(http.MethodPatch)

	protected.HandleFunc("/lobbies", lobbyHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{id}/join", lobbyHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{id}/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{id}/team", lobbyHandler.SetTeam).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{id}/start", lobbyHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/matches/active", lobbyHandler.Active).Methods(http.MethodGet)

	protected.HandleFunc("/dev/set-gold", devHandler.SetGold).Methods(http.MethodPost)
	protected.HandleFunc("/dev/send-gold", devHandler.SendGold).Methods(http.MethodPost)
	protected.HandleFunc("/dev/ledger", devHandler.Ledger).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
