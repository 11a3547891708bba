package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Dosada05/tournament-pairing/brackets"
	"github.com/Dosada05/tournament-pairing/models"
	"github.com/Dosada05/tournament-pairing/repositories"
	"github.com/Dosada05/tournament-pairing/storage"
	"golang.org/x/sync/errgroup"
)

type RoundResult struct {
	TournamentID    int               `json:"tournament_id"`
	Stage           models.MatchStage `json:"stage"`
	Round           int               `json:"round"`
	Seed            *int64            `json:"seed,omitempty"`
	Matches         []models.Match    `json:"matches"`
	ForcedRematches int               `json:"forced_rematches"`
	// Finished is set when the elimination bracket has no further round to play.
	Finished   bool   `json:"finished"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

type RoundService interface {
	GenerateSwissRound(ctx context.Context, tournamentID, round int, seed *int64) (*RoundResult, error)
	AdvanceElimination(ctx context.Context, tournamentID, round int) (*RoundResult, error)
}

// RandFactory returns the shuffle source used for a Swiss round seeded with seed.
type RandFactory func(seed int64) brackets.RandomSource

func NewSeededRand(seed int64) brackets.RandomSource {
	return rand.New(rand.NewSource(seed))
}

type roundService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	tournamentRepo repositories.TournamentRepository
	archiver       storage.RoundArchiver
	newRand        RandFactory
	now            func() time.Time
	logger         *slog.Logger
}

// NewRoundService wires the round orchestration. archiver may be nil, in which case rounds are not archived.
func NewRoundService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	tournamentRepo repositories.TournamentRepository,
	archiver storage.RoundArchiver,
	newRand RandFactory,
	logger *slog.Logger,
) RoundService {
	if newRand == nil {
		newRand = NewSeededRand
	}
	return &roundService{
		db:             db,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		tournamentRepo: tournamentRepo,
		archiver:       archiver,
		newRand:        newRand,
		now:            time.Now,
		logger:         logger,
	}
}

type roundInputs struct {
	config    *models.TournamentConfig
	standings []models.StandingEntry
	history   []models.Match
}

func (s *roundService) GenerateSwissRound(ctx context.Context, tournamentID, round int, seed *int64) (*RoundResult, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: swiss round must be at least 1, got %d", ErrInvalidRound, round)
	}

	in, err := s.loadInputs(ctx, tournamentID, models.StageSwiss, true)
	if err != nil {
		return nil, err
	}

	if err := checkNextRound(in.history, round); err != nil {
		return nil, err
	}

	if seed == nil {
		generated := s.now().UnixNano()
		seed = &generated
	}

	drafts, err := brackets.GenerateRound(brackets.SwissRoundParams{
		Standings:    in.standings,
		PastPairings: brackets.BuildLedger(in.history),
		TargetPoints: in.config.MatchTargetPoints,
		Round:        round,
		Rand:         s.newRand(*seed),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pair swiss round %d for tournament %d: %w", round, tournamentID, err)
	}

	matches, err := s.persistRound(ctx, tournamentID, models.StageSwiss, round, drafts)
	if err != nil {
		return nil, err
	}

	result := &RoundResult{
		TournamentID: tournamentID,
		Stage:        models.StageSwiss,
		Round:        round,
		Seed:         seed,
		Matches:      matches,
	}
	for _, m := range matches {
		if m.ForcedRematch {
			result.ForcedRematches++
			s.logger.WarnContext(ctx, "Forced rematch in swiss round",
				slog.Int("tournament_id", tournamentID),
				slog.Int("round", round),
				slog.Int("match_number", m.MatchNumber),
				slog.Int("participant_a_id", m.ParticipantAID),
				slog.Int("participant_b_id", derefInt(m.ParticipantBID)),
			)
		}
	}

	s.logger.InfoContext(ctx, "Swiss round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.Int("matches", len(matches)),
		slog.Int64("seed", *seed),
	)

	result.ArchiveURL = s.archive(ctx, storage.RoundSnapshot{
		TournamentID: tournamentID,
		Stage:        models.StageSwiss,
		Round:        round,
		Seed:         seed,
		Standings:    in.standings,
		Matches:      matches,
	})
	return result, nil
}

// AdvanceElimination generates elimination round `round`. Round 1 is seeded from the Swiss
// standings; later rounds advance the winners of round-1.
func (s *roundService) AdvanceElimination(ctx context.Context, tournamentID, round int) (*RoundResult, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: elimination round must be at least 1, got %d", ErrInvalidRound, round)
	}

	in, err := s.loadInputs(ctx, tournamentID, models.StageElimination, round == 1)
	if err != nil {
		return nil, err
	}

	if err := brackets.CheckRoundAbsent(matchesInRound(in.history, round), models.StageElimination, round); err != nil {
		return nil, err
	}

	var drafts []models.MatchDraft
	if round == 1 {
		drafts, err = brackets.SeedBracket(brackets.SeedBracketParams{
			Standings:          in.standings,
			CutSize:            in.config.CutSize,
			TargetPoints:       in.config.MatchTargetPoints,
			FinalsTargetPoints: in.config.FinalsTargetPoints,
		})
	} else {
		prior := matchesInRound(in.history, round-1)
		if len(prior) == 0 {
			return nil, fmt.Errorf("%w: elimination round %d has not been generated", ErrInvalidRound, round-1)
		}
		// Round 1 was seeded into a bracket sized to its field; advance within the same bracket.
		bracketSize := brackets.BracketSize(in.config.CutSize, brackets.EntrantCount(matchesInRound(in.history, 1)))
		drafts, err = brackets.Advance(brackets.AdvanceParams{
			PriorRound:   prior,
			CutSize:      bracketSize,
			CurrentRound: round - 1,
			Targets: brackets.Targets{
				Match:  in.config.MatchTargetPoints,
				Finals: in.config.FinalsTargetPoints,
			},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build elimination round %d for tournament %d: %w", round, tournamentID, err)
	}

	result := &RoundResult{
		TournamentID: tournamentID,
		Stage:        models.StageElimination,
		Round:        round,
		Matches:      []models.Match{},
	}
	if len(drafts) == 0 {
		result.Finished = true
		s.logger.InfoContext(ctx, "Elimination bracket finished", slog.Int("tournament_id", tournamentID), slog.Int("last_round", round-1))
		return result, nil
	}

	result.Matches, err = s.persistRound(ctx, tournamentID, models.StageElimination, round, drafts)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Elimination round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.Int("matches", len(result.Matches)),
	)

	result.ArchiveURL = s.archive(ctx, storage.RoundSnapshot{
		TournamentID: tournamentID,
		Stage:        models.StageElimination,
		Round:        round,
		Standings:    in.standings,
		Matches:      result.Matches,
	})
	return result, nil
}

func (s *roundService) loadInputs(ctx context.Context, tournamentID int, stage models.MatchStage, withStandings bool) (*roundInputs, error) {
	in := &roundInputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cfg, err := s.tournamentRepo.GetConfig(gctx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
			}
			return fmt.Errorf("failed to load config for tournament %d: %w", tournamentID, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrTournamentConfigInvalid, err)
		}
		in.config = cfg
		return nil
	})
	g.Go(func() error {
		history, err := s.matchRepo.ListByStage(gctx, nil, tournamentID, stage, nil)
		if err != nil {
			return fmt.Errorf("failed to load %s match history for tournament %d: %w", stage, tournamentID, err)
		}
		in.history = history
		return nil
	})
	if withStandings {
		g.Go(func() error {
			standings, err := s.standingRepo.ListByTournament(gctx, tournamentID)
			if err != nil {
				return fmt.Errorf("failed to load standings for tournament %d: %w", tournamentID, err)
			}
			in.standings = standings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// persistRound stores drafts in one transaction. The round is re-checked inside the transaction
// and a slot conflict from a concurrent writer is reported as an already generated round.
func (s *roundService) persistRound(ctx context.Context, tournamentID int, stage models.MatchStage, round int, drafts []models.MatchDraft) (_ []models.Match, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "Rollback failed", slog.Any("error", rbErr), slog.Any("original_error", err))
				err = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			s.logger.ErrorContext(ctx, "Commit failed", slog.Int("tournament_id", tournamentID), slog.Any("error", cErr))
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	existing, err := s.matchRepo.ListByStage(ctx, tx, tournamentID, stage, &round)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s round %d: %w", stage, round, err)
	}
	if err = brackets.CheckRoundAbsent(existing, stage, round); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(drafts))
	for _, d := range drafts {
		m := d.ToMatch(tournamentID)
		if err = m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", brackets.ErrPairingInvariantViolation, err)
		}
		if err = s.matchRepo.Create(ctx, tx, m); err != nil {
			if errors.Is(err, repositories.ErrMatchSlotConflict) {
				err = fmt.Errorf("%w: %s round %d (concurrent generation)", brackets.ErrRoundAlreadyGenerated, stage, round)
				return nil, err
			}
			return nil, fmt.Errorf("failed to store match %d of %s round %d: %w", d.MatchNumber, stage, round, err)
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

func (s *roundService) archive(ctx context.Context, snapshot storage.RoundSnapshot) string {
	if s.archiver == nil {
		return ""
	}
	snapshot.GeneratedAt = s.now().UTC()
	url, err := s.archiver.Archive(ctx, snapshot)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to archive round snapshot",
			slog.Int("tournament_id", snapshot.TournamentID),
			slog.String("stage", string(snapshot.Stage)),
			slog.Int("round", snapshot.Round),
			slog.Any("error", err),
		)
		return ""
	}
	return url
}

// checkNextRound requires round to follow the latest recorded round, which must be fully scored.
func checkNextRound(history []models.Match, round int) error {
	latest := 0
	for _, m := range history {
		if m.Round > latest {
			latest = m.Round
		}
	}
	if round <= latest {
		if err := brackets.CheckRoundAbsent(matchesInRound(history, round), models.StageSwiss, round); err != nil {
			return err
		}
		return fmt.Errorf("%w: swiss round %d is behind the latest round %d", ErrInvalidRound, round, latest)
	}
	if round != latest+1 {
		return fmt.Errorf("%w: next swiss round is %d, got %d", ErrInvalidRound, latest+1, round)
	}
	for _, m := range matchesInRound(history, latest) {
		if m.Status != models.MatchStatusComplete {
			return fmt.Errorf("%w: match %d of swiss round %d is %s", brackets.ErrRoundIncomplete, m.MatchNumber, latest, m.Status)
		}
	}
	return nil
}

func matchesInRound(history []models.Match, round int) []models.Match {
	var out []models.Match
	for _, m := range history {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
