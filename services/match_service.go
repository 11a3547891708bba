package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-pairing/models"
	"github.com/Dosada05/tournament-pairing/repositories"
)

const (
	DefaultMatchPageLimit = 100
	MaxMatchPageLimit     = 500
)

type MatchService interface {
	// ListMatches returns matches created after cursor. An empty page echoes the cursor back.
	ListMatches(ctx context.Context, tournamentID int, stage *models.MatchStage, cursor, limit int) (*models.MatchPage, error)
	ReportResult(ctx context.Context, matchID, scoreA, scoreB int) (*models.Match, error)
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, stage *models.MatchStage, cursor, limit int) (*models.MatchPage, error) {
	if stage != nil && !stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, *stage)
	}
	if cursor < 0 {
		cursor = 0
	}
	switch {
	case limit <= 0:
		limit = DefaultMatchPageLimit
	case limit > MaxMatchPageLimit:
		limit = MaxMatchPageLimit
	}

	if _, err := s.tournamentRepo.GetConfig(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	matches, err := s.matchRepo.ListSince(ctx, tournamentID, stage, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}

	page := &models.MatchPage{Matches: matches, NextCursor: cursor}
	if page.Matches == nil {
		page.Matches = []models.Match{}
	}
	for _, m := range page.Matches {
		if m.ID > page.NextCursor {
			page.NextCursor = m.ID
		}
	}
	return page, nil
}

// ReportResult moves a pending match to complete. Draws are not allowed and the higher score wins.
func (s *matchService) ReportResult(ctx context.Context, matchID, scoreA, scoreB int) (*models.Match, error) {
	if scoreA < 0 || scoreB < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", ErrInvalidScore)
	}
	if scoreA == scoreB {
		return nil, fmt.Errorf("%w: draws are not allowed", ErrInvalidScore)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	if match.IsBye || match.Status == models.MatchStatusComplete {
		return nil, fmt.Errorf("%w: id %d", ErrMatchAlreadyComplete, matchID)
	}
	if match.ParticipantBID == nil {
		return nil, fmt.Errorf("%w: match %d has no second participant", ErrInvalidScore, matchID)
	}

	winnerID := match.ParticipantAID
	if scoreB > scoreA {
		winnerID = *match.ParticipantBID
	}

	if err := s.matchRepo.UpdateResult(ctx, matchID, scoreA, scoreB, winnerID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotPending) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchAlreadyComplete, matchID)
		}
		return nil, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}

	match.ScoreA, match.ScoreB = scoreA, scoreB
	match.WinnerID = &winnerID
	match.Status = models.MatchStatusComplete

	s.logger.InfoContext(ctx, "Match result reported",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("winner_id", winnerID),
	)
	return match, nil
}
