package models

import "time"

// Match pairs two distinct participants within one round of a tournament.
// Winner stays nil until a result is recorded.
type Match struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Round        int       `json:"round" db:"round"`
	Player1      string    `json:"player1" db:"player1"`
	Player2      string    `json:"player2" db:"player2"`
	Winner       *string   `json:"winner" db:"winner"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
