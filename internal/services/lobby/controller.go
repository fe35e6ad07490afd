package lobby

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/dependencies/random"
	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/storage"
)

const (
	// LobbyCodeLength is the length of generated lobby codes
	LobbyCodeLength = 6
	// LobbyCodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	LobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 16
)

var errCodeSpaceExhausted = errors.New("could not allocate a free lobby code")

// Config holds configuration for the lobby controller
type Config struct {
	// StaleAfter is how old a waiting lobby with at most one player may get
	StaleAfter time.Duration
	// PersistSweep writes sweep removals back to the store
	PersistSweep bool
}

// DefaultConfig returns default lobby configuration
func DefaultConfig() Config {
	return Config{
		StaleAfter:   30 * time.Minute,
		PersistSweep: true,
	}
}

// CreateParams are the caller-chosen settings of a new lobby
type CreateParams struct {
	Map      string
	Mode     string
	GameTime int
}

// Controller manages the lobby state machine. Every operation runs as one
// transaction on the matches collection; returned lobbies are copies.
type Controller struct {
	store  *storage.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	cfg    Config
}

// NewController creates a new lobby Controller
func NewController(
	store *storage.Store,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = DefaultConfig().StaleAfter
	}
	return &Controller{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger.With(slog.String("component", "lobby-controller")),
		cfg:    cfg,
	}
}

// CreateLobby opens a waiting lobby hosted by user
func (c *Controller) CreateLobby(ctx context.Context, user string, params CreateParams) (*model.Lobby, error) {
	if user == "" {
		return nil, model.ErrInvalidSession
	}
	mapName := strings.TrimSpace(params.Map)
	if mapName == "" {
		return nil, model.ErrInvalidMap
	}
	if params.GameTime <= 0 {
		return nil, model.ErrInvalidGameTime
	}
	mode := model.NormalizeMode(params.Mode)

	var created *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		c.sweep(tx, book)

		if book.ActiveLobbyFor(user) != nil {
			return model.ErrAlreadyInLobby
		}

		id, err := c.newID(book)
		if err != nil {
			return err
		}

		lobby := &model.Lobby{
			ID:         id,
			Host:       user,
			Map:        mapName,
			Mode:       mode,
			MaxPlayers: model.MaxPlayersForMode(mode),
			Status:     model.LobbyStatusWaiting,
			GameTime:   params.GameTime,
			CreatedAt:  c.clock.Now(),
		}
		lobby.AddPlayer(user)

		book.Matches[id] = lobby
		tx.MarkChanged(storage.Matches)
		created = lobby.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("lobby created",
		slog.String("lobby_id", string(created.ID)),
		slog.String("host", user),
		slog.String("mode", created.Mode),
	)
	return created, nil
}

// ListLobbies returns every waiting lobby, oldest first
func (c *Controller) ListLobbies(ctx context.Context) ([]*model.Lobby, error) {
	out := []*model.Lobby{}
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		c.sweep(tx, book)
		for _, l := range book.Matches {
			if l.Status == model.LobbyStatusWaiting {
				out = append(out, l.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	model.SortLobbies(out)
	return out, nil
}

// GetLobby returns a lobby in any live state
func (c *Controller) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	if id == "" {
		return nil, model.ErrInvalidLobbyID
	}
	var found *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		c.sweep(tx, book)
		lobby, err := book.Get(id)
		if err != nil {
			return err
		}
		found = lobby.Clone()
		return nil
	})
	return found, err
}

// JoinLobby adds user to a waiting lobby. Joining a lobby the user is
// already in succeeds without changes.
func (c *Controller) JoinLobby(ctx context.Context, user string, id model.LobbyID) (*model.Lobby, error) {
	if user == "" {
		return nil, model.ErrInvalidSession
	}
	if id == "" {
		return nil, model.ErrInvalidLobbyID
	}

	var joined *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		c.sweep(tx, book)
		lobby, err := waitingLobby(book, id)
		if err != nil {
			return err
		}
		if lobby.HasPlayer(user) {
			joined = lobby.Clone()
			return nil
		}
		if active := book.ActiveLobbyFor(user); active != nil {
			return model.ErrAlreadyInLobby
		}
		if lobby.IsFull() {
			return model.ErrLobbyFull
		}

		lobby.AddPlayer(user)
		tx.MarkChanged(storage.Matches)
		joined = lobby.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("player joined lobby", slog.String("lobby_id", string(id)), slog.String("username", user))
	return joined, nil
}

// LeaveLobby removes user from a lobby. The host leaving dissolves it.
func (c *Controller) LeaveLobby(ctx context.Context, user string, id model.LobbyID) error {
	if user == "" {
		return model.ErrInvalidSession
	}
	if id == "" {
		return model.ErrInvalidLobbyID
	}

	dissolved := false
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		lobby, err := book.Get(id)
		if err != nil {
			return err
		}

		if lobby.Host == user {
			delete(book.Matches, id)
			dissolved = true
			tx.MarkChanged(storage.Matches)
			return nil
		}
		if !lobby.HasPlayer(user) {
			return model.ErrNotInLobby
		}

		lobby.RemovePlayer(user)
		tx.MarkChanged(storage.Matches)
		return nil
	})
	if err != nil {
		return err
	}

	if dissolved {
		c.logger.Info("lobby dissolved by host", slog.String("lobby_id", string(id)), slog.String("host", user))
	}
	return nil
}

// SetTeam assigns user to team, subject to per-team capacity
func (c *Controller) SetTeam(ctx context.Context, user string, id model.LobbyID, team string) (*model.Lobby, error) {
	if user == "" {
		return nil, model.ErrInvalidSession
	}
	t, ok := model.ParseTeam(team)
	if !ok {
		return nil, model.ErrInvalidTeam
	}
	if id == "" {
		return nil, model.ErrInvalidLobbyID
	}

	var updated *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		lobby, err := waitingLobby(book, id)
		if err != nil {
			return err
		}
		if !lobby.HasPlayer(user) {
			return model.ErrNotLobbyMember
		}
		if lobby.TeamCount(t, user) >= model.TeamSlotsForMode(lobby.Mode) {
			return model.ErrTeamFull
		}

		if current := lobby.Teams[user]; current == nil || *current != t {
			lobby.Teams[user] = &t
			tx.MarkChanged(storage.Matches)
		}
		updated = lobby.Clone()
		return nil
	})
	return updated, err
}

// StartMatch moves a full waiting lobby to in_progress. Only the host may start.
func (c *Controller) StartMatch(ctx context.Context, user string, id model.LobbyID) (*model.Lobby, error) {
	if user == "" {
		return nil, model.ErrInvalidSession
	}
	if id == "" {
		return nil, model.ErrInvalidLobbyID
	}

	var started *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		lobby, err := book.Get(id)
		if err != nil {
			return err
		}
		if lobby.Host != user {
			return model.ErrNotHost
		}
		if lobby.Status != model.LobbyStatusWaiting {
			return model.ErrMatchStarted
		}
		if len(lobby.Players) < lobby.MaxPlayers {
			return model.ErrInsufficientPlayers
		}

		lobby.Status = model.LobbyStatusInProgress
		tx.MarkChanged(storage.Matches)
		started = lobby.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("match started",
		slog.String("lobby_id", string(id)),
		slog.Int("players", len(started.Players)),
	)
	return started, nil
}

// ActiveMatch returns the lobby user currently plays in, or nil
func (c *Controller) ActiveMatch(ctx context.Context, user string) (*model.Lobby, error) {
	if user == "" {
		return nil, model.ErrInvalidSession
	}
	var active *model.Lobby
	err := c.update(ctx, func(tx *storage.Tx, book *model.MatchBook) error {
		c.sweep(tx, book)
		if l := book.ActiveLobbyFor(user); l != nil {
			active = l.Clone()
		}
		return nil
	})
	return active, err
}

// update runs fn against the matches document under its lock
func (c *Controller) update(ctx context.Context, fn func(tx *storage.Tx, book *model.MatchBook) error) error {
	return c.store.Update(ctx, func(tx *storage.Tx) error {
		book, err := tx.Matches()
		if err != nil {
			return err
		}
		return fn(tx, book)
	}, storage.Matches)
}

// sweep drops abandoned lobbies from book. Removals are only persisted when
// PersistSweep is set; otherwise they just hide stale lobbies from this read.
func (c *Controller) sweep(tx *storage.Tx, book *model.MatchBook) {
	now := c.clock.Now()
	removed := 0
	for id, l := range book.Matches {
		if l.IsStale(now, c.cfg.StaleAfter) {
			delete(book.Matches, id)
			removed++
		}
	}
	if removed == 0 {
		return
	}
	if c.cfg.PersistSweep {
		tx.MarkChanged(storage.Matches)
	}
	c.logger.Debug("stale lobbies swept", slog.Int("count", removed))
}

func (c *Controller) newID(book *model.MatchBook) (model.LobbyID, error) {
	for range maxCodeAttempts {
		id := model.LobbyID(c.random.String(LobbyCodeLength, LobbyCodeAlphabet))
		if _, exists := book.Matches[id]; !exists {
			return id, nil
		}
	}
	return "", errCodeSpaceExhausted
}

// waitingLobby returns the lobby if it exists and has not started
func waitingLobby(book *model.MatchBook, id model.LobbyID) (*model.Lobby, error) {
	lobby, err := book.Get(id)
	if err != nil {
		return nil, err
	}
	if lobby.Status != model.LobbyStatusWaiting {
		return nil, model.ErrLobbyNotFound
	}
	return lobby, nil
}
