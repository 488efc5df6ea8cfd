package brackets

import (
	"github.com/streamcup/bracket-system/models"
)

// GenerateRoundParams bundles the participant snapshot a generator works from.
type GenerateRoundParams struct {
	TournamentID string
	Round        int
	Participants []string
}

// RoundGenerator produces one round of matches from a participant snapshot.
type RoundGenerator interface {
	GenerateRound(params GenerateRoundParams) []*models.Match

	GetName() string
}

// TournamentRoom returns the websocket room name for a tournament.
func TournamentRoom(tournamentID string) string {
	return "tournament_" + tournamentID
}
