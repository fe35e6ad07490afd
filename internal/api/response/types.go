package response

import (
	"time"

	"github.com/mcoot/warfront/internal/model"
	"github.com/mcoot/warfront/internal/services/session"
)

// Player is the account summary returned to clients. It never carries the
// password hash.
type Player struct {
	Username           string `json:"username"`
	Gold               int64  `json:"gold"`
	XP                 int    `json:"xp"`
	Level              int    `json:"level"`
	Wins               int    `json:"wins"`
	Losses             int    `json:"losses"`
	TotalMatches       int    `json:"total_matches"`
	TotalDeployedUnits int    `json:"total_deployed_units"`
	Role               string `json:"role"`
	IsDev              bool   `json:"is_dev"`
}

// PlayerFromModel converts a model.Account to a response Player
func PlayerFromModel(a *model.Account) Player {
	return Player{
		Username:           a.Username,
		Gold:               a.Gold,
		XP:                 a.XP,
		Level:              a.Level,
		Wins:               a.Wins,
		Losses:             a.Losses,
		TotalMatches:       a.TotalMatches,
		TotalDeployedUnits: a.TotalDeployedUnits,
		Role:               string(a.Role),
		IsDev:              a.IsDeveloper(),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from an account and its new session
func AuthResponseFromSession(a *model.Account, s *session.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(a),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// CurrentUser is the response for GET /players/me
type CurrentUser struct {
	LoggedIn bool    `json:"logged_in"`
	Player   *Player `json:"player"`
}

// Lobby represents a lobby in API responses
type Lobby struct {
	ID         string             `json:"id"`
	Host       string             `json:"host"`
	Map        string             `json:"map"`
	Mode       string             `json:"mode"`
	MaxPlayers int                `json:"max_players"`
	Players    []string           `json:"players"`
	Teams      map[string]*string `json:"teams"`
	Status     string             `json:"status"`
	GameTime   int                `json:"game_time"`
	CreatedAt  time.Time          `json:"created_at"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	players := make([]string, len(l.Players))
	copy(players, l.Players)

	teams := make(map[string]*string, len(l.Teams))
	for username, t := range l.Teams {
		if t == nil {
			teams[username] = nil
			continue
		}
		name := string(*t)
		teams[username] = &name
	}

	return Lobby{
		ID:         string(l.ID),
		Host:       l.Host,
		Map:        l.Map,
		Mode:       l.Mode,
		MaxPlayers: l.MaxPlayers,
		Players:    players,
		Teams:      teams,
		Status:     string(l.Status),
		GameTime:   l.GameTime,
		CreatedAt:  l.CreatedAt,
	}
}

// LobbiesFromModel converts a list of lobbies
func LobbiesFromModel(ls []*model.Lobby) []Lobby {
	out := make([]Lobby, len(ls))
	for i, l := range ls {
		out[i] = LobbyFromModel(l)
	}
	return out
}

// ActiveMatch is the response for GET /matches/active
type ActiveMatch struct {
	Match *Lobby `json:"match"`
}

// Balance is the response for developer gold operations
type Balance struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
}

// Transaction is a ledger entry in API responses
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionsFromModel converts ledger records
func TransactionsFromModel(rs []model.TransactionRecord) []Transaction {
	out := make([]Transaction, len(rs))
	for i, r := range rs {
		out[i] = Transaction{
			ID:        r.ID,
			Type:      string(r.Type),
			From:      r.From,
			To:        r.To,
			Amount:    r.Amount,
			Timestamp: r.Timestamp,
		}
	}
	return out
}

// MapInfo describes a playable map
type MapInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MapsFromModel converts the map catalog
func MapsFromModel(ms []model.MapInfo) []MapInfo {
	out := make([]MapInfo, len(ms))
	for i, m := range ms {
		out[i] = MapInfo{ID: m.ID, Name: m.Name, Width: m.Width, Height: m.Height}
	}
	return out
}
