package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamcup/bracket-system/models"
	"github.com/streamcup/bracket-system/repositories"
)

type fakeTournamentRepo struct {
	tournaments map[string]*models.Tournament

	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.createCalls++
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	r.updateCalls++
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, id string, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(_ context.Context, id string, bannerKey *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BannerKey = bannerKey
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id string) error {
	r.deleteCalls++
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func draftTournament(id string, participants ...string) *models.Tournament {
	return &models.Tournament{
		ID:           id,
		Name:         "Friday Cup",
		Participants: participants,
		Status:       models.StatusDraft,
	}
}

func TestCreateTournamentPersistsValidDraft(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := NewTournamentService(repo, nil, discardLogger())

	created, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:         "Friday Cup",
		Participants: []string{"alice", "bob"},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, 1, repo.createCalls)
	assert.Contains(t, repo.tournaments, created.ID)
}

func TestCreateTournamentRejectsInvalidWithoutPersisting(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := NewTournamentService(repo, nil, discardLogger())

	created, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:         "   ",
		Participants: []string{"alice"},
	})

	require.Error(t, err)
	assert.Nil(t, created)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"Tournament name is required",
		"Tournament must have at least 2 participants",
	}, vErr.Violations)

	assert.Equal(t, 0, repo.createCalls, "invalid draft must not reach the repository")
}

func TestUpdateTournamentDetails(t *testing.T) {
	newName := "Saturday Cup"
	badName := "   "

	testCases := []struct {
		name        string
		tournament  *models.Tournament
		input       UpdateTournamentDetailsInput
		wantErr     error
		wantUpdates int
	}{
		{
			name:        "renames a draft",
			tournament:  draftTournament("t1", "alice", "bob"),
			input:       UpdateTournamentDetailsInput{Name: &newName},
			wantUpdates: 1,
		},
		{
			name: "rejects non-draft",
			tournament: &models.Tournament{
				ID:           "t1",
				Name:         "Friday Cup",
				Participants: []string{"alice", "bob"},
				Status:       models.StatusActive,
			},
			input:   UpdateTournamentDetailsInput{Name: &newName},
			wantErr: ErrTournamentNotDraft,
		},
		{
			name:       "re-validates the patched draft",
			tournament: draftTournament("t1", "alice", "bob"),
			input:      UpdateTournamentDetailsInput{Name: &badName},
			wantErr:    &ValidationError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeTournamentRepo(tc.tournament)
			svc := NewTournamentService(repo, nil, discardLogger())

			updated, err := svc.UpdateTournamentDetails(context.Background(), tc.tournament.ID, tc.input)

			if tc.wantErr != nil {
				require.Error(t, err)
				if vErr, ok := tc.wantErr.(*ValidationError); ok {
					require.ErrorAs(t, err, &vErr)
				} else {
					assert.ErrorIs(t, err, tc.wantErr)
				}
				assert.Equal(t, 0, repo.updateCalls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, newName, updated.Name)
			assert.Equal(t, tc.wantUpdates, repo.updateCalls)
		})
	}
}

func TestUpdateTournamentStatusTransitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    models.TournamentStatus
		to      models.TournamentStatus
		wantErr error
	}{
		{name: "draft to active", from: models.StatusDraft, to: models.StatusActive},
		{name: "active to completed", from: models.StatusActive, to: models.StatusCompleted},
		{name: "draft to completed skips a step", from: models.StatusDraft, to: models.StatusCompleted, wantErr: ErrInvalidStatusTransition},
		{name: "active back to draft", from: models.StatusActive, to: models.StatusDraft, wantErr: ErrInvalidStatusTransition},
		{name: "completed is terminal", from: models.StatusCompleted, to: models.StatusActive, wantErr: ErrInvalidStatusTransition},
		{name: "same status is not a transition", from: models.StatusActive, to: models.StatusActive, wantErr: ErrInvalidStatusTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			existing := draftTournament("t1", "alice", "bob")
			existing.Status = tc.from
			repo := newFakeTournamentRepo(existing)
			svc := NewTournamentService(repo, nil, discardLogger())

			updated, err := svc.UpdateTournamentStatus(context.Background(), "t1", tc.to)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.from, repo.tournaments["t1"].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
			assert.Equal(t, tc.to, repo.tournaments["t1"].Status)
		})
	}
}

func TestUpdateTournamentStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeTournamentRepo(draftTournament("t1", "alice", "bob"))
	svc := NewTournamentService(repo, nil, discardLogger())

	_, err := svc.UpdateTournamentStatus(context.Background(), "t1", models.TournamentStatus("archived"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteTournament(t *testing.T) {
	t.Run("deletes a draft", func(t *testing.T) {
		repo := newFakeTournamentRepo(draftTournament("t1", "alice", "bob"))
		svc := NewTournamentService(repo, nil, discardLogger())

		require.NoError(t, svc.DeleteTournament(context.Background(), "t1"))
		assert.NotContains(t, repo.tournaments, "t1")
	})

	t.Run("refuses once active", func(t *testing.T) {
		active := draftTournament("t1", "alice", "bob")
		active.Status = models.StatusActive
		repo := newFakeTournamentRepo(active)
		svc := NewTournamentService(repo, nil, discardLogger())

		err := svc.DeleteTournament(context.Background(), "t1")

		assert.ErrorIs(t, err, ErrTournamentNotDraft)
		assert.Contains(t, repo.tournaments, "t1")
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := newFakeTournamentRepo()
		svc := NewTournamentService(repo, nil, discardLogger())

		assert.ErrorIs(t, svc.DeleteTournament(context.Background(), "missing"), ErrTournamentNotFound)
	})
}

func TestCheckTournamentReportsViolationsAsData(t *testing.T) {
	invalid := draftTournament("t1", "alice", "alice")
	repo := newFakeTournamentRepo(invalid)
	svc := NewTournamentService(repo, nil, discardLogger())

	result, err := svc.CheckTournament(context.Background(), "t1")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Tournament participants must be unique"}, result.Errors)
}

func TestUploadBannerWithoutStorage(t *testing.T) {
	repo := newFakeTournamentRepo(draftTournament("t1", "alice", "bob"))
	svc := NewTournamentService(repo, nil, discardLogger())

	_, err := svc.UploadBanner(context.Background(), "t1", "image/png", nil)

	assert.ErrorIs(t, err, ErrBannerStorageDisabled)
}
