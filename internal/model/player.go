package model

import "time"

// Role determines what an account is allowed to do
type Role string

const (
	RolePlayer    Role = "player"
	RoleDeveloper Role = "developer"
)

// Defaults applied to every newly registered account
const (
	StartingGold  int64 = 1000
	StartingLevel       = 1
)

// Account is a registered player. Username is the identity key (case-sensitive).
type Account struct {
	Username           string    `json:"username"`
	PasswordHash       string    `json:"password_hash"` // bcrypt hash, never returned to clients
	Gold               int64     `json:"gold"`
	XP                 int       `json:"xp"`
	Level              int       `json:"level"`
	Wins               int       `json:"wins"`
	Losses             int       `json:"losses"`
	TotalMatches       int       `json:"total_matches"`
	TotalDeployedUnits int       `json:"total_deployed_units"`
	Role               Role      `json:"role"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsDeveloper reports whether the account has the developer role
func (a *Account) IsDeveloper() bool {
	return a.Role == RoleDeveloper
}

// NewAccount returns an account with the starting values for a new player
func NewAccount(username, passwordHash string, now time.Time) *Account {
	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		Gold:         StartingGold,
		Level:        StartingLevel,
		Role:         RolePlayer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PlayerStats holds the gameplay counters a client reports after a match
type PlayerStats struct {
	XP                 int
	Level              int
	Wins               int
	Losses             int
	TotalMatches       int
	TotalDeployedUnits int
}
