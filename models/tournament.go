package models

import "time"

// TournamentStatus enumerates the tournament lifecycle states.
type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Tournament is a named competition holding an ordered participant list.
// Participants keep the insertion order of the creation request; the slice is
// owned by the tournament and never aliases caller memory.
type Tournament struct {
	ID           string           `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Participants []string         `json:"participants" db:"participants"`
	Status       TournamentStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	BannerKey    *string          `json:"-" db:"banner_key"`
	BannerURL    *string          `json:"banner_url,omitempty" db:"-"`
}
