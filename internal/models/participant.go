package models

// Team is a named group of players identified by a join code.
type Team struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	TeamCode string `json:"team_code"`
}

// Participant binds a team to a game and tracks its live connectivity.
type Participant struct {
	ID          int32   `json:"id"`
	GameID      int32   `json:"game_id"`
	TeamID      int32   `json:"team_id"`
	TeamName    string  `json:"team_name"`
	SocketID    *string `json:"socket_id,omitempty"`
	IsAvailable bool    `json:"is_available"`
}
