package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to the command's stdout
func NewOutput(cmd *cobra.Command, format string) *Output {
	return &Output{format: format, w: cmd.OutOrStdout()}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case CurrentUser:
		o.printCurrentUser(v)
	case Lobby:
		o.printLobby(v)
	case []Lobby:
		o.printLobbies(v)
	case ActiveMatch:
		o.printActiveMatch(v)
	case Balance:
		o.printf("%s: %d gold\n", v.Username, v.Gold)
	case []Transaction:
		o.printTransactions(v)
	case []MapInfo:
		o.printMaps(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
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

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CurrentUser response type
type CurrentUser struct {
	LoggedIn bool    `json:"logged_in"`
	Player   *Player `json:"player"`
}

// Lobby response type
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

// ActiveMatch response type
type ActiveMatch struct {
	Match *Lobby `json:"match"`
}

// Balance response type
type Balance struct {
	Username string `json:"username"`
	Gold     int64  `json:"gold"`
}

// Transaction response type
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// MapInfo response type
type MapInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	role := p.Role
	if p.IsDev {
		role += " [dev]"
	}
	o.printf("Player: %s (%s)\n", p.Username, role)
	o.printf("Gold: %d\n", p.Gold)
	o.printf("Level: %d (%d xp)\n", p.Level, p.XP)
	o.printf("Record: %d-%d over %d matches\n", p.Wins, p.Losses, p.TotalMatches)
	o.printf("Units deployed: %d\n", p.TotalDeployedUnits)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	o.printf("Token: %s\n", a.SessionToken)
	o.printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printCurrentUser(u CurrentUser) {
	if !u.LoggedIn || u.Player == nil {
		o.printf("Not logged in\n")
		return
	}
	o.printPlayer(*u.Player)
}

func (o *Output) printLobby(l Lobby) {
	o.printf("Lobby: %s\n", l.ID)
	o.printf("Status: %s\n", l.Status)
	o.printf("Map: %s (%s, %ds)\n", l.Map, l.Mode, l.GameTime)
	o.printf("Players (%d/%d):\n", len(l.Players), l.MaxPlayers)
	for _, p := range l.Players {
		team := "-"
		if t := l.Teams[p]; t != nil {
			team = *t
		}
		hostStr := ""
		if p == l.Host {
			hostStr = " [host]"
		}
		o.printf("  - %s (%s)%s\n", p, team, hostStr)
	}
}

func (o *Output) printLobbies(ls []Lobby) {
	if len(ls) == 0 {
		o.printf("No open lobbies\n")
		return
	}
	for _, l := range ls {
		o.printf("%s  %-12s %-4s %d/%d  host=%s\n", l.ID, l.Map, l.Mode, len(l.Players), l.MaxPlayers, l.Host)
	}
}

func (o *Output) printActiveMatch(m ActiveMatch) {
	if m.Match == nil {
		o.printf("No active match\n")
		return
	}
	o.printLobby(*m.Match)
}

func (o *Output) printTransactions(ts []Transaction) {
	if len(ts) == 0 {
		o.printf("Ledger is empty\n")
		return
	}
	for _, t := range ts {
		o.printf("%s  %-8s %s -> %s  %d\n", t.Timestamp.Format(time.RFC3339), t.Type, t.From, t.To, t.Amount)
	}
}

func (o *Output) printMaps(ms []MapInfo) {
	for _, m := range ms {
		o.printf("%-14s %s (%dx%d)\n", m.ID, m.Name, m.Width, m.Height)
	}
}
