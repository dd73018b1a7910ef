package models

import "time"

// Match is immutable once recorded: there is no update path.
type Match struct {
	ID        int       `json:"id"`
	PlayerAID int       `json:"player_a_id"`
	PlayerBID int       `json:"player_b_id"`
	WinnerID  int       `json:"winner_id"`
	PlayedAt  time.Time `json:"played_at"`

	PlayerA *Player `json:"player_a,omitempty"`
	PlayerB *Player `json:"player_b,omitempty"`
	Winner  *Player `json:"winner,omitempty"`
}
