package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-pairing/models"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchNotPending         = errors.New("match is not pending")
	ErrMatchSlotConflict       = errors.New("a match already occupies this round slot")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByStage returns a stage's matches ordered by round and match number; a nil round lists all rounds.
	ListByStage(ctx context.Context, exec SQLExecutor, tournamentID int, stage models.MatchStage, round *int) ([]models.Match, error)
	// ListSince returns matches with id greater than cursor, oldest first.
	ListSince(ctx context.Context, tournamentID int, stage *models.MatchStage, cursor, limit int) ([]models.Match, error)
	UpdateResult(ctx context.Context, id int, scoreA, scoreB int, winnerID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, stage, round, match_number, participant_a_id, participant_b_id,
		       score_a, score_b, target_points, status, winner_id, is_bye, forced_rematch, kind, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, stage, round, match_number, participant_a_id, participant_b_id,
			 score_a, score_b, target_points, status, winner_id, is_bye, forced_rematch, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query,
		match.TournamentID,
		match.Stage,
		match.Round,
		match.MatchNumber,
		match.ParticipantAID,
		match.ParticipantBID,
		match.ScoreA,
		match.ScoreB,
		match.TargetPoints,
		match.Status,
		match.WinnerID,
		match.IsBye,
		match.ForcedRematch,
		match.Kind,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, exec SQLExecutor, tournamentID int, stage models.MatchStage, round *int) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND stage = $2`)

	args := []interface{}{tournamentID, stage}
	if round != nil {
		queryBuilder.WriteString(" AND round = $3")
		args = append(args, *round)
	}
	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := executorOr(exec, r.db).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s matches for tournament %d: %w", stage, tournamentID, err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *postgresMatchRepository) ListSince(ctx context.Context, tournamentID int, stage *models.MatchStage, cursor, limit int) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND id > $2`)

	args := []interface{}{tournamentID, cursor}
	placeholderIndex := 3

	if stage != nil {
		queryBuilder.WriteString(" AND stage = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *stage)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY id ASC LIMIT $")
	queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches since %d for tournament %d: %w", cursor, tournamentID, err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// UpdateResult completes a pending match. A match that is already complete is never touched.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, scoreA, scoreB int, winnerID int) error {
	query := `
		UPDATE matches
		SET score_a = $1, score_b = $2, winner_id = $3, status = $4
		WHERE id = $5 AND status = $6`

	result, err := r.db.ExecContext(ctx, query, scoreA, scoreB, winnerID, models.MatchStatusComplete, id, models.MatchStatusPending)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotPending)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_round_slot_key":
			return fmt.Errorf("%w: %s", ErrMatchSlotConflict, pqErr.Detail)
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_participant_a_id_fkey", "matches_participant_b_id_fkey", "matches_winner_id_fkey":
			return ErrMatchParticipantInvalid
		}
		if pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrMatchSlotConflict, pqErr.Message)
		}
	}
	return err
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Stage,
		&m.Round,
		&m.MatchNumber,
		&m.ParticipantAID,
		&m.ParticipantBID,
		&m.ScoreA,
		&m.ScoreB,
		&m.TargetPoints,
		&m.Status,
		&m.WinnerID,
		&m.IsBye,
		&m.ForcedRematch,
		&m.Kind,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMatches(rows *sql.Rows) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}
