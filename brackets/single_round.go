package brackets

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/streamcup/bracket-system/models"
)

// ShuffleFunc permutes n elements through swap. It matches the signature of
// rand.Shuffle so the globally locked source can serve as the default while
// tests inject a deterministic permutation.
type ShuffleFunc func(n int, swap func(i, j int))

type SingleRoundGenerator struct {
	shuffle ShuffleFunc
}

// NewSingleRoundGenerator returns a generator backed by the given shuffle
// source. Passing nil selects math/rand's global Shuffle, which is safe for
// concurrent callers.
func NewSingleRoundGenerator(shuffle ShuffleFunc) *SingleRoundGenerator {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &SingleRoundGenerator{shuffle: shuffle}
}

func (g *SingleRoundGenerator) GetName() string {
	return "SingleRound"
}

// GenerateRound shuffles a copy of the participant snapshot and pairs
// consecutive entries: positions (0,1), (2,3) and so on. With an odd count the
// last shuffled participant sits the round out; no bye match is recorded.
// Pairing order is randomized on every call, so repeated calls with the same
// input produce different rounds.
func (g *SingleRoundGenerator) GenerateRound(params GenerateRoundParams) []*models.Match {
	shuffled := make([]string, len(params.Participants))
	copy(shuffled, params.Participants)

	g.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	now := time.Now().UTC()
	matches := make([]*models.Match, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		matches = append(matches, &models.Match{
			ID:           uuid.NewString(),
			TournamentID: params.TournamentID,
			Round:        params.Round,
			Player1:      shuffled[i],
			Player2:      shuffled[i+1],
			CreatedAt:    now,
		})
	}

	return matches
}
