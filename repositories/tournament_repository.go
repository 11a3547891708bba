package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-pairing/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetConfig(ctx context.Context, id int) (*models.TournamentConfig, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetConfig(ctx context.Context, id int) (*models.TournamentConfig, error) {
	query := `
		SELECT id, match_target_points, finals_target_points, cut_size
		FROM tournaments
		WHERE id = $1`

	cfg := &models.TournamentConfig{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cfg.TournamentID, &cfg.MatchTargetPoints, &cfg.FinalsTargetPoints, &cfg.CutSize,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load config for tournament %d: %w", id, err)
	}
	return cfg, nil
}
