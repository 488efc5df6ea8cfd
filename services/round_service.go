package services

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/streamcup/bracket-system/brackets"
	"github.com/streamcup/bracket-system/models"
	"github.com/streamcup/bracket-system/repositories"
)

// Broadcaster pushes an event to every subscriber of a room. The websocket
// hub satisfies it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// Bracket is the combined view the display layer renders.
type Bracket struct {
	Tournament *models.Tournament `json:"tournament"`
	Matches    []models.Match     `json:"matches"`
}

type RoundPayload struct {
	TournamentID string          `json:"tournament_id"`
	Round        int             `json:"round"`
	Matches      []*models.Match `json:"matches"`
}

type RoundService interface {
	ScheduleRound(ctx context.Context, tournamentID string) ([]*models.Match, error)
	ListMatches(ctx context.Context, tournamentID string) ([]models.Match, error)
	RecordWinner(ctx context.Context, matchID string, winner string) (*models.Match, error)
	GetBracket(ctx context.Context, tournamentID string) (*Bracket, error)
}

type roundService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.RoundGenerator
	hub            Broadcaster
	logger         *slog.Logger
}

func NewRoundService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.RoundGenerator,
	hub Broadcaster,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		hub:            hub,
		logger:         logger,
	}
}

// ScheduleRound snapshots the stored participant list, generates the next
// round's pairings, persists them atomically and announces the round to the
// tournament's room. Regenerating is not idempotent: every call shuffles
// again.
func (s *roundService) ScheduleRound(ctx context.Context, tournamentID string) ([]*models.Match, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}
	if t.Status != models.StatusActive {
		return nil, ErrTournamentNotActive
	}

	maxRound, err := s.matchRepo.MaxRound(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	round := maxRound + 1

	matches := s.generator.GenerateRound(brackets.GenerateRoundParams{
		TournamentID: t.ID,
		Round:        round,
		Participants: t.Participants,
	})

	if err := s.matchRepo.CreateBatch(ctx, matches); err != nil {
		return nil, err
	}

	s.logger.Info("round scheduled",
		slog.String("tournament_id", t.ID),
		slog.String("generator", s.generator.GetName()),
		slog.Int("round", round),
		slog.Int("matches", len(matches)),
		slog.Int("participants", len(t.Participants)))

	if s.hub != nil {
		room := brackets.TournamentRoom(t.ID)
		s.hub.BroadcastToRoom(room, brackets.Event{
			Type:   brackets.EventRoundScheduled,
			RoomID: room,
			Payload: RoundPayload{
				TournamentID: t.ID,
				Round:        round,
				Matches:      matches,
			},
		})
	}

	return matches, nil
}

func (s *roundService) ListMatches(ctx context.Context, tournamentID string) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID)
}

func (s *roundService) RecordWinner(ctx context.Context, matchID string, winner string) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if m.Winner != nil {
		return nil, ErrMatchAlreadyDecided
	}
	if winner != m.Player1 && winner != m.Player2 {
		return nil, ErrWinnerNotInMatch
	}

	if err := s.matchRepo.UpdateWinner(ctx, m.ID, winner); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.Winner = &winner

	if s.hub != nil {
		room := brackets.TournamentRoom(m.TournamentID)
		s.hub.BroadcastToRoom(room, brackets.Event{
			Type:    brackets.EventMatchResult,
			RoomID:  room,
			Payload: m,
		})
	}

	return m, nil
}

// GetBracket loads the tournament and its matches concurrently.
func (s *roundService) GetBracket(ctx context.Context, tournamentID string) (*Bracket, error) {
	var (
		t       *models.Tournament
		matches []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loaded, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			return mapTournamentRepoError(err)
		}
		t = loaded
		return nil
	})

	g.Go(func() error {
		loaded, err := s.matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		matches = loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Bracket{Tournament: t, Matches: matches}, nil
}
