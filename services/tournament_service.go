package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/streamcup/bracket-system/models"
	"github.com/streamcup/bracket-system/repositories"
	"github.com/streamcup/bracket-system/storage"
	"github.com/streamcup/bracket-system/tournament"
)

type CreateTournamentInput struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type UpdateTournamentDetailsInput struct {
	Name         *string   `json:"name"`
	Participants *[]string `json:"participants"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournamentDetails(ctx context.Context, id string, input UpdateTournamentDetailsInput) (*models.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
	CheckTournament(ctx context.Context, id string) (tournament.Result, error)
	UploadBanner(ctx context.Context, id string, contentType string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

// CreateTournament builds a draft through the factory, rejects it with the
// accumulated violation list when the validator finds problems, and persists
// it otherwise. Nothing is stored for an invalid request.
func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	draft := tournament.New(tournament.CreateRequest{
		Name:         input.Name,
		Participants: input.Participants,
	})

	if result := tournament.Validate(draft); !result.IsValid {
		return nil, &ValidationError{Violations: result.Errors}
	}

	if err := s.tournamentRepo.Create(ctx, draft); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", draft.ID),
		slog.Int("participants", len(draft.Participants)))

	return draft, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	s.attachBannerURL(t)
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.attachBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

// UpdateTournamentDetails patches name and participants of a draft. The
// patched tournament runs through the validator again under the same
// reject-without-persisting rule as creation.
func (s *tournamentService) UpdateTournamentDetails(ctx context.Context, id string, input UpdateTournamentDetailsInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.Status != models.StatusDraft {
		return nil, ErrTournamentNotDraft
	}

	if input.Name != nil {
		t.Name = *input.Name
	}
	if input.Participants != nil {
		participants := make([]string, len(*input.Participants))
		copy(participants, *input.Participants)
		t.Participants = participants
	}

	if result := tournament.Validate(t); !result.IsValid {
		return nil, &ValidationError{Violations: result.Errors}
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	s.attachBannerURL(t)
	return t, nil
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, id string, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	if !isAllowedTransition(t.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, status)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	t.Status = status
	s.logger.Info("tournament status updated",
		slog.String("tournament_id", id),
		slog.String("status", string(status)))
	s.attachBannerURL(t)
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return mapTournamentRepoError(err)
	}
	if t.Status != models.StatusDraft {
		return ErrTournamentNotDraft
	}
	return mapTournamentRepoError(s.tournamentRepo.Delete(ctx, id))
}

// CheckTournament runs the validator over a stored tournament. It always
// returns a result for an existing tournament; violations are data, not
// errors.
func (s *tournamentService) CheckTournament(ctx context.Context, id string) (tournament.Result, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return tournament.Result{}, mapTournamentRepoError(err)
	}
	return tournament.Validate(t), nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id string, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrBannerStorageDisabled
	}

	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	key := fmt.Sprintf("banners/%s", t.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	if err := s.tournamentRepo.UpdateBannerKey(ctx, t.ID, &result.Key); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	t.BannerKey = &result.Key
	t.BannerURL = &result.Location
	s.logger.Info("tournament banner uploaded",
		slog.String("tournament_id", t.ID),
		slog.String("key", result.Key))
	return t, nil
}

func (s *tournamentService) attachBannerURL(t *models.Tournament) {
	if s.uploader == nil || t.BannerKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.BannerKey)
	if url != "" {
		t.BannerURL = &url
	}
}

// Status transitions are one-way: draft -> active -> completed.
func isAllowedTransition(from, to models.TournamentStatus) bool {
	switch from {
	case models.StatusDraft:
		return to == models.StatusActive
	case models.StatusActive:
		return to == models.StatusCompleted
	}
	return false
}

func mapTournamentRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	default:
		return err
	}
}
