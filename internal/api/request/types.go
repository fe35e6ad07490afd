package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateStatsRequest is the request body for storing gameplay counters
type UpdateStatsRequest struct {
	XP                 int `json:"xp"`
	Level              int `json:"level"`
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	TotalMatches       int `json:"total_matches"`
	TotalDeployedUnits int `json:"total_deployed_units"`
}

// SetGoldRequest is the request body for overwriting a balance.
// Target defaults to the caller.
type SetGoldRequest struct {
	Amount *int64 `json:"amount"`
	Target string `json:"target,omitempty"`
}

// SendGoldRequest is the request body for crediting an account
type SendGoldRequest struct {
	To     string `json:"to"`
	Amount *int64 `json:"amount"`
}

// CreateLobbyRequest is the request body for creating a lobby
type CreateLobbyRequest struct {
	Map      string `json:"map"`
	Mode     string `json:"mode"`
	GameTime int    `json:"game_time"`
}

// SetTeamRequest is the request body for choosing a team
type SetTeamRequest struct {
	Team string `json:"team"`
}
