package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-pairing/models"
	"github.com/Dosada05/tournament-pairing/repositories"
	"github.com/Dosada05/tournament-pairing/storage"
	"github.com/stretchr/testify/require"
)

type fakeMatchRepo struct {
	mu        sync.Mutex
	matches   []models.Match
	nextID    int
	createErr error
	created   int
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	match.ID = 1000 + f.nextID
	f.matches = append(f.matches, *match)
	f.created++
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByStage(_ context.Context, _ repositories.SQLExecutor, tournamentID int, stage models.MatchStage, round *int) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Match{}
	for _, m := range f.matches {
		if m.TournamentID != tournamentID || m.Stage != stage {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMatchRepo) ListSince(_ context.Context, tournamentID int, stage *models.MatchStage, cursor, limit int) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Match{}
	for _, m := range f.matches {
		if m.TournamentID != tournamentID || m.ID <= cursor {
			continue
		}
		if stage != nil && m.Stage != *stage {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateResult(_ context.Context, id int, scoreA, scoreB int, winnerID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.matches {
		m := &f.matches[i]
		if m.ID != id {
			continue
		}
		if m.Status != models.MatchStatusPending {
			return repositories.ErrMatchNotPending
		}
		m.ScoreA, m.ScoreB, m.WinnerID, m.Status = scoreA, scoreB, &winnerID, models.MatchStatusComplete
		return nil
	}
	return repositories.ErrMatchNotPending
}

type fakeStandingRepo struct {
	standings []models.StandingEntry
}

func (f *fakeStandingRepo) ListByTournament(context.Context, int) ([]models.StandingEntry, error) {
	return f.standings, nil
}

type fakeTournamentRepo struct {
	configs map[int]*models.TournamentConfig
}

func (f *fakeTournamentRepo) GetConfig(_ context.Context, id int) (*models.TournamentConfig, error) {
	cfg, ok := f.configs[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *cfg
	return &copied, nil
}

type fakeArchiver struct {
	snapshots []storage.RoundSnapshot
	err       error
}

func (f *fakeArchiver) Archive(_ context.Context, snapshot storage.RoundSnapshot) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.snapshots = append(f.snapshots, snapshot)
	return "https://archive.example.com/round.json", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func approved(id, wins int) models.StandingEntry {
	return models.StandingEntry{
		ParticipantID: id,
		DisplayName:   "player",
		Status:        models.ParticipantApproved,
		Wins:          wins,
	}
}

func completed(tournamentID int, stage models.MatchStage, round, number, a, b, winner int) models.Match {
	bID, wID := b, winner
	scoreA, scoreB := 11, 7
	if winner == b {
		scoreA, scoreB = 7, 11
	}
	return models.Match{
		ID:             round*100 + number,
		TournamentID:   tournamentID,
		Stage:          stage,
		Round:          round,
		MatchNumber:    number,
		ParticipantAID: a,
		ParticipantBID: &bID,
		ScoreA:         scoreA,
		ScoreB:         scoreB,
		TargetPoints:   11,
		Status:         models.MatchStatusComplete,
		WinnerID:       &wID,
		Kind:           models.MatchKindRegular,
	}
}
