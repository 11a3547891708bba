package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-pairing/models"
)

type StandingRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.StandingEntry, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// ListByTournament reads the swiss_standings view, which joins participant status onto the
// ranking figures. Dropped participants are still returned; eligibility is decided by the caller.
func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.StandingEntry, error) {
	query := `
		SELECT participant_id, display_name, status, wins, opponent_strength, point_differential
		FROM swiss_standings
		WHERE tournament_id = $1
		ORDER BY wins DESC, opponent_strength DESC, point_differential DESC, participant_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.StandingEntry, 0)
	for rows.Next() {
		var s models.StandingEntry
		if err := rows.Scan(&s.ParticipantID, &s.DisplayName, &s.Status, &s.Wins, &s.OpponentStrength, &s.PointDifferential); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}
