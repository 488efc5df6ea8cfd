package tournament

import (
	"time"

	"github.com/google/uuid"
	"github.com/streamcup/bracket-system/models"
)

// CreateRequest carries the caller-supplied fields for a new tournament.
type CreateRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

// New builds a draft tournament from the request. It performs no validation:
// callers build the draft first and run Validate separately, so every input
// produces a tournament. The participant slice is copied, never aliased, so
// later mutation of the caller's slice cannot alter the tournament.
func New(req CreateRequest) *models.Tournament {
	participants := make([]string, len(req.Participants))
	copy(participants, req.Participants)

	return &models.Tournament{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Participants: participants,
		Status:       models.StatusDraft,
		CreatedAt:    time.Now().UTC(),
	}
}
