package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kfactor072/matchmaking-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchPlayerInvalid = errors.New("match references an invalid player")
)

type MatchRepository interface {
	// Create inserts the match through exec so the insert can share a
	// transaction with the rating updates.
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error)
	CountByPlayer(ctx context.Context, playerID int) (int, error)
	CountWinsByPlayer(ctx context.Context, playerID int) (int, error)
	ExistsByPlayer(ctx context.Context, playerID int) (bool, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

// matchSelectBase резолвит всех трёх игроков одним запросом.
const matchSelectBase = `
	SELECT
		m.id, m.player_a_id, m.player_b_id, m.winner_id, m.played_at,
		pa.id, pa.username, pa.rating, pa.avatar_key, pa.created_at,
		pb.id, pb.username, pb.rating, pb.avatar_key, pb.created_at,
		w.id, w.username, w.rating, w.avatar_key, w.created_at
	FROM matches m
	JOIN players pa ON m.player_a_id = pa.id
	JOIN players pb ON m.player_b_id = pb.id
	JOIN players w  ON m.winner_id = w.id`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (player_a_id, player_b_id, winner_id)
		VALUES ($1, $2, $3)
		RETURNING id, played_at`

	err := exec.QueryRowContext(ctx, query,
		match.PlayerAID,
		match.PlayerBID,
		match.WinnerID,
	).Scan(&match.ID, &match.PlayedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// 23503: foreign_key_violation
			switch pqErr.Constraint {
			case "matches_player_a_id_fkey", "matches_player_b_id_fkey", "matches_winner_id_fkey":
				return ErrMatchPlayerInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := matchSelectBase + ` WHERE m.id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	query := matchSelectBase + ` ORDER BY m.played_at DESC, m.id DESC`
	return r.queryMatches(ctx, query)
}

func (r *postgresMatchRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	query := matchSelectBase + `
	WHERE m.player_a_id = $1 OR m.player_b_id = $1
	ORDER BY m.played_at DESC, m.id DESC`
	return r.queryMatches(ctx, query, playerID)
}

func (r *postgresMatchRepository) CountByPlayer(ctx context.Context, playerID int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE player_a_id = $1 OR player_b_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches for player %d: %w", playerID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountWinsByPlayer(ctx context.Context, playerID int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE winner_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wins for player %d: %w", playerID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) ExistsByPlayer(ctx context.Context, playerID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE player_a_id = $1 OR player_b_id = $1 OR winner_id = $1
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check match existence for player %d: %w", playerID, err)
	}
	return exists, nil
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	playerA := &models.Player{}
	playerB := &models.Player{}
	winner := &models.Player{}

	err := row.Scan(
		&match.ID,
		&match.PlayerAID,
		&match.PlayerBID,
		&match.WinnerID,
		&match.PlayedAt,
		&playerA.ID, &playerA.Username, &playerA.Rating, &playerA.AvatarKey, &playerA.CreatedAt,
		&playerB.ID, &playerB.Username, &playerB.Rating, &playerB.AvatarKey, &playerB.CreatedAt,
		&winner.ID, &winner.Username, &winner.Rating, &winner.AvatarKey, &winner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.PlayerA = playerA
	match.PlayerB = playerB
	match.Winner = winner
	return match, nil
}
