package models

type PlayerStats struct {
	PlayerID     int     `json:"player_id"`
	Username     string  `json:"username"`
	Rating       int     `json:"rating"`
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
}
