package model

import (
	"sort"
	"time"
)

// LobbyID uniquely identifies a lobby
type LobbyID string

// LobbyStatus represents the current state of a lobby.
// Removal from the match store is the terminal state.
type LobbyStatus string

const (
	LobbyStatusWaiting    LobbyStatus = "waiting"
	LobbyStatusInProgress LobbyStatus = "in_progress"
)

// Match modes
const (
	Mode1v1 = "1v1"
	Mode2v2 = "2v2"
)

// Team is a side in a match
type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// ParseTeam returns the team for s, or false if s is not a team name
func ParseTeam(s string) (Team, bool) {
	switch Team(s) {
	case TeamBlue, TeamRed:
		return Team(s), true
	}
	return "", false
}

// NormalizeMode maps any mode other than 2v2 onto 1v1
func NormalizeMode(mode string) string {
	if mode == Mode2v2 {
		return Mode2v2
	}
	return Mode1v1
}

// MaxPlayersForMode returns the lobby capacity for a mode
func MaxPlayersForMode(mode string) int {
	if mode == Mode2v2 {
		return 4
	}
	return 2
}

// TeamSlotsForMode returns how many players fit on one team
func TeamSlotsForMode(mode string) int {
	if mode == Mode2v2 {
		return 2
	}
	return 1
}

// Lobby is a pre-match waiting room (also called a match once started).
// Players and Teams keys are kept in sync; a nil team means unassigned.
type Lobby struct {
	ID         LobbyID          `json:"id"`
	Host       string           `json:"host"`
	Map        string           `json:"map"`
	Mode       string           `json:"mode"`
	MaxPlayers int              `json:"max_players"`
	Players    []string         `json:"players"`
	Teams      map[string]*Team `json:"teams"`
	Status     LobbyStatus      `json:"status"`
	GameTime   int              `json:"game_time"`
	CreatedAt  time.Time        `json:"created_at"`
}

// IsActive reports whether the lobby is in a non-terminal state
func (l *Lobby) IsActive() bool {
	return l.Status == LobbyStatusWaiting || l.Status == LobbyStatusInProgress
}

// HasPlayer reports whether username is a participant
func (l *Lobby) HasPlayer(username string) bool {
	for _, p := range l.Players {
		if p == username {
			return true
		}
	}
	return false
}

// IsFull reports whether every slot is taken
func (l *Lobby) IsFull() bool {
	return len(l.Players) >= l.MaxPlayers
}

// AddPlayer appends username with no team assigned
func (l *Lobby) AddPlayer(username string) {
	l.Players = append(l.Players, username)
	if l.Teams == nil {
		l.Teams = make(map[string]*Team)
	}
	l.Teams[username] = nil
}

// RemovePlayer drops username from players and teams
func (l *Lobby) RemovePlayer(username string) {
	for i, p := range l.Players {
		if p == username {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			break
		}
	}
	delete(l.Teams, username)
}

// TeamCount counts players on team, not counting exclude
func (l *Lobby) TeamCount(team Team, exclude string) int {
	n := 0
	for username, t := range l.Teams {
		if username == exclude || t == nil {
			continue
		}
		if *t == team {
			n++
		}
	}
	return n
}

// IsStale reports whether the sweep should remove this lobby: still waiting,
// created more than staleAfter ago and holding at most one player.
func (l *Lobby) IsStale(now time.Time, staleAfter time.Duration) bool {
	if l.Status != LobbyStatusWaiting {
		return false
	}
	if len(l.Players) > 1 {
		return false
	}
	return now.Sub(l.CreatedAt) > staleAfter
}

// SortLobbies orders lobbies oldest first, by id on ties
func SortLobbies(lobbies []*Lobby) {
	sort.Slice(lobbies, func(i, j int) bool {
		if lobbies[i].CreatedAt.Equal(lobbies[j].CreatedAt) {
			return lobbies[i].ID < lobbies[j].ID
		}
		return lobbies[i].CreatedAt.Before(lobbies[j].CreatedAt)
	})
}

// Clone returns a deep copy safe to hand out after the store lock is released
func (l *Lobby) Clone() *Lobby {
	out := *l
	out.Players = append([]string(nil), l.Players...)
	if out.Players == nil {
		out.Players = []string{}
	}
	out.Teams = make(map[string]*Team, len(l.Teams))
	for username, t := range l.Teams {
		if t == nil {
			out.Teams[username] = nil
			continue
		}
		team := *t
		out.Teams[username] = &team
	}
	return &out
}
