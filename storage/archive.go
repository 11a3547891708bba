package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-pairing/models"
	"github.com/google/uuid"
)

// RoundSnapshot is the record written to the archive after a round has been persisted.
type RoundSnapshot struct {
	TournamentID int                    `json:"tournament_id"`
	Stage        models.MatchStage      `json:"stage"`
	Round        int                    `json:"round"`
	Seed         *int64                 `json:"seed,omitempty"`
	Standings    []models.StandingEntry `json:"standings,omitempty"`
	Matches      []models.Match         `json:"matches"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

type RoundArchiver interface {
	Archive(ctx context.Context, snapshot RoundSnapshot) (string, error)
}

type roundArchiver struct {
	uploader ObjectUploader
	newID    func() uuid.UUID
}

func NewRoundArchiver(uploader ObjectUploader) RoundArchiver {
	return &roundArchiver{uploader: uploader, newID: uuid.New}
}

// Archive uploads the snapshot as JSON and returns its public URL.
func (a *roundArchiver) Archive(ctx context.Context, snapshot RoundSnapshot) (string, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode round snapshot: %w", err)
	}

	key := SnapshotKey(snapshot.TournamentID, snapshot.Stage, snapshot.Round, a.newID())
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}

func SnapshotKey(tournamentID int, stage models.MatchStage, round int, id uuid.UUID) string {
	return fmt.Sprintf("rounds/tournament-%d/%s/round-%d-%s.json", tournamentID, stage, round, id)
}
