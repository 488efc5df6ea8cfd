package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamcup/bracket-system/brackets"
	"github.com/streamcup/bracket-system/models"
	"github.com/streamcup/bracket-system/repositories"
)

type fakeMatchRepo struct {
	matches map[string]*models.Match
	// order of insertion, so listings are deterministic
	ids []string
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[string]*models.Match)}
	for _, m := range matches {
		repo.matches[m.ID] = m
		repo.ids = append(repo.ids, m.ID)
	}
	return repo
}

func (r *fakeMatchRepo) CreateBatch(_ context.Context, matches []*models.Match) error {
	for _, m := range matches {
		clone := *m
		r.matches[m.ID] = &clone
		r.ids = append(r.ids, m.ID)
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id string) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.Match, error) {
	var out []models.Match
	for _, id := range r.ids {
		if m := r.matches[id]; m.TournamentID == tournamentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) MaxRound(_ context.Context, tournamentID string) (int, error) {
	max := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.Round > max {
			max = m.Round
		}
	}
	return max, nil
}

func (r *fakeMatchRepo) UpdateWinner(_ context.Context, id string, winner string) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Winner = &winner
	return nil
}

type recordingBroadcaster struct {
	rooms  []string
	events []brackets.Event
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.rooms = append(b.rooms, roomID)
	if event, ok := message.(brackets.Event); ok {
		b.events = append(b.events, event)
	}
}

func identityShuffle(n int, swap func(i, j int)) {}

func activeTournament(id string, participants ...string) *models.Tournament {
	return &models.Tournament{
		ID:           id,
		Name:         "Friday Cup",
		Participants: participants,
		Status:       models.StatusActive,
	}
}

func newRoundServiceForTest(tRepo *fakeTournamentRepo, mRepo *fakeMatchRepo, hub Broadcaster) RoundService {
	return NewRoundService(tRepo, mRepo, brackets.NewSingleRoundGenerator(identityShuffle), hub, discardLogger())
}

func TestScheduleRoundPairsAndBroadcasts(t *testing.T) {
	tRepo := newFakeTournamentRepo(activeTournament("t1", "alice", "bob", "carol", "dave"))
	mRepo := newFakeMatchRepo()
	hub := &recordingBroadcaster{}
	svc := newRoundServiceForTest(tRepo, mRepo, hub)

	matches, err := svc.ScheduleRound(context.Background(), "t1")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "alice", matches[0].Player1)
	assert.Equal(t, "bob", matches[0].Player2)
	assert.Equal(t, "carol", matches[1].Player1)
	assert.Equal(t, "dave", matches[1].Player2)
	for _, m := range matches {
		assert.Equal(t, 1, m.Round)
		assert.Equal(t, "t1", m.TournamentID)
		assert.Nil(t, m.Winner)
	}

	stored, err := mRepo.ListByTournament(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	require.Len(t, hub.events, 1)
	assert.Equal(t, brackets.EventRoundScheduled, hub.events[0].Type)
	assert.Equal(t, []string{"tournament_t1"}, hub.rooms)

	payload, ok := hub.events[0].Payload.(RoundPayload)
	require.True(t, ok)
	assert.Equal(t, 1, payload.Round)
	assert.Len(t, payload.Matches, 2)
}

func TestScheduleRoundIncrementsRoundNumber(t *testing.T) {
	tRepo := newFakeTournamentRepo(activeTournament("t1", "alice", "bob"))
	mRepo := newFakeMatchRepo()
	svc := newRoundServiceForTest(tRepo, mRepo, nil)

	first, err := svc.ScheduleRound(context.Background(), "t1")
	require.NoError(t, err)
	second, err := svc.ScheduleRound(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, first[0].Round)
	assert.Equal(t, 2, second[0].Round)
}

func TestScheduleRoundOddCountLeavesOneOut(t *testing.T) {
	tRepo := newFakeTournamentRepo(activeTournament("t1", "alice", "bob", "carol"))
	mRepo := newFakeMatchRepo()
	svc := newRoundServiceForTest(tRepo, mRepo, nil)

	matches, err := svc.ScheduleRound(context.Background(), "t1")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].Player1)
	assert.Equal(t, "bob", matches[0].Player2)
}

func TestScheduleRoundRequiresActiveTournament(t *testing.T) {
	testCases := []struct {
		name    string
		status  models.TournamentStatus
		wantErr error
	}{
		{name: "draft", status: models.StatusDraft, wantErr: ErrTournamentNotActive},
		{name: "completed", status: models.StatusCompleted, wantErr: ErrTournamentNotActive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			existing := activeTournament("t1", "alice", "bob")
			existing.Status = tc.status
			tRepo := newFakeTournamentRepo(existing)
			mRepo := newFakeMatchRepo()
			svc := newRoundServiceForTest(tRepo, mRepo, nil)

			_, err := svc.ScheduleRound(context.Background(), "t1")

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, mRepo.matches)
		})
	}
}

func TestScheduleRoundUnknownTournament(t *testing.T) {
	svc := newRoundServiceForTest(newFakeTournamentRepo(), newFakeMatchRepo(), nil)

	_, err := svc.ScheduleRound(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestRecordWinner(t *testing.T) {
	decided := "alice"

	testCases := []struct {
		name    string
		match   *models.Match
		winner  string
		wantErr error
	}{
		{
			name:   "records player1",
			match:  &models.Match{ID: "m1", TournamentID: "t1", Round: 1, Player1: "alice", Player2: "bob"},
			winner: "alice",
		},
		{
			name:   "records player2",
			match:  &models.Match{ID: "m1", TournamentID: "t1", Round: 1, Player1: "alice", Player2: "bob"},
			winner: "bob",
		},
		{
			name:    "rejects outsider",
			match:   &models.Match{ID: "m1", TournamentID: "t1", Round: 1, Player1: "alice", Player2: "bob"},
			winner:  "mallory",
			wantErr: ErrWinnerNotInMatch,
		},
		{
			name:    "rejects second decision",
			match:   &models.Match{ID: "m1", TournamentID: "t1", Round: 1, Player1: "alice", Player2: "bob", Winner: &decided},
			winner:  "bob",
			wantErr: ErrMatchAlreadyDecided,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mRepo := newFakeMatchRepo(tc.match)
			hub := &recordingBroadcaster{}
			svc := newRoundServiceForTest(newFakeTournamentRepo(), mRepo, hub)

			updated, err := svc.RecordWinner(context.Background(), tc.match.ID, tc.winner)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, hub.events)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, updated.Winner)
			assert.Equal(t, tc.winner, *updated.Winner)

			stored, err := mRepo.GetByID(context.Background(), tc.match.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.winner, *stored.Winner)

			require.Len(t, hub.events, 1)
			assert.Equal(t, brackets.EventMatchResult, hub.events[0].Type)
			assert.Equal(t, []string{"tournament_t1"}, hub.rooms)
		})
	}
}

func TestRecordWinnerUnknownMatch(t *testing.T) {
	svc := newRoundServiceForTest(newFakeTournamentRepo(), newFakeMatchRepo(), nil)

	_, err := svc.RecordWinner(context.Background(), "missing", "alice")

	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetBracket(t *testing.T) {
	tRepo := newFakeTournamentRepo(activeTournament("t1", "alice", "bob"))
	mRepo := newFakeMatchRepo(
		&models.Match{ID: "m1", TournamentID: "t1", Round: 1, Player1: "alice", Player2: "bob"},
		&models.Match{ID: "m2", TournamentID: "other", Round: 1, Player1: "x", Player2: "y"},
	)
	svc := newRoundServiceForTest(tRepo, mRepo, nil)

	bracket, err := svc.GetBracket(context.Background(), "t1")

	require.NoError(t, err)
	require.NotNil(t, bracket.Tournament)
	assert.Equal(t, "t1", bracket.Tournament.ID)
	require.Len(t, bracket.Matches, 1)
	assert.Equal(t, "m1", bracket.Matches[0].ID)
}

func TestGetBracketUnknownTournament(t *testing.T) {
	svc := newRoundServiceForTest(newFakeTournamentRepo(), newFakeMatchRepo(), nil)

	_, err := svc.GetBracket(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
