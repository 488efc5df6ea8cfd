package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamcup/bracket-system/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	// CreateBatch persists a whole round atomically: either every match of the
	// round is stored or none is.
	CreateBatch(ctx context.Context, matches []*models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error)
	MaxRound(ctx context.Context, tournamentID string) (int, error)
	UpdateWinner(ctx context.Context, id string, winner string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin match batch transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range matches {
		if err := insertMatch(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match batch: %w", err)
	}
	return nil
}

func insertMatch(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (id, tournament_id, round, player1, player2, winner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := exec.ExecContext(ctx, query,
		m.ID, m.TournamentID, m.Round, m.Player1, m.Player2, m.Winner, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, player1, player2, winner, created_at
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.Player1, &m.Player2, &m.Winner, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error) {
	query := `
		SELECT id, tournament_id, round, player1, player2, winner, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.Round, &m.Player1, &m.Player2, &m.Winner, &m.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *postgresMatchRepository) MaxRound(ctx context.Context, tournamentID string) (int, error) {
	query := `SELECT COALESCE(MAX(round), 0) FROM matches WHERE tournament_id = $1`

	var maxRound int
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&maxRound); err != nil {
		return 0, fmt.Errorf("failed to query max round for tournament %s: %w", tournamentID, err)
	}
	return maxRound, nil
}

func (r *postgresMatchRepository) UpdateWinner(ctx context.Context, id string, winner string) error {
	query := `UPDATE matches SET winner = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, winner, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
