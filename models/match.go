package models

import (
	"errors"
	"time"
)

type MatchStage string

const (
	StageSwiss       MatchStage = "swiss"
	StageElimination MatchStage = "elimination"
)

func (s MatchStage) Valid() bool {
	return s == StageSwiss || s == StageElimination
}

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusComplete MatchStatus = "complete"
)

type MatchKind string

const (
	MatchKindRegular    MatchKind = "regular"
	MatchKindFinals     MatchKind = "finals"
	MatchKindThirdPlace MatchKind = "third_place"
)

var (
	ErrMatchByeMismatch   = errors.New("match bye flag does not match empty participant_b slot")
	ErrMatchWinnerInvalid = errors.New("match winner is not one of its participants")
)

type Match struct {
	ID             int         `json:"id" db:"id"`
	TournamentID   int         `json:"tournament_id" db:"tournament_id"`
	Stage          MatchStage  `json:"stage" db:"stage"`
	Round          int         `json:"round" db:"round"`
	MatchNumber    int         `json:"match_number" db:"match_number"`
	ParticipantAID int         `json:"participant_a_id" db:"participant_a_id"`
	ParticipantBID *int        `json:"participant_b_id,omitempty" db:"participant_b_id"`
	ScoreA         int         `json:"score_a" db:"score_a"`
	ScoreB         int         `json:"score_b" db:"score_b"`
	TargetPoints   int         `json:"target_points" db:"target_points"`
	Status         MatchStatus `json:"status" db:"status"`
	WinnerID       *int        `json:"winner_id,omitempty" db:"winner_id"`
	IsBye          bool        `json:"is_bye" db:"is_bye"`
	ForcedRematch  bool        `json:"forced_rematch" db:"forced_rematch"`
	Kind           MatchKind   `json:"kind" db:"kind"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// MatchDraft is a match the engine produced that has not been stored yet.
type MatchDraft struct {
	Stage          MatchStage  `json:"stage"`
	Round          int         `json:"round"`
	MatchNumber    int         `json:"match_number"`
	ParticipantAID int         `json:"participant_a_id"`
	ParticipantBID *int        `json:"participant_b_id,omitempty"`
	ScoreA         int         `json:"score_a"`
	ScoreB         int         `json:"score_b"`
	TargetPoints   int         `json:"target_points"`
	Status         MatchStatus `json:"status"`
	WinnerID       *int        `json:"winner_id,omitempty"`
	IsBye          bool        `json:"is_bye"`
	ForcedRematch  bool        `json:"forced_rematch"`
	Kind           MatchKind   `json:"kind"`
}

func (d MatchDraft) ToMatch(tournamentID int) *Match {
	return &Match{
		TournamentID:   tournamentID,
		Stage:          d.Stage,
		Round:          d.Round,
		MatchNumber:    d.MatchNumber,
		ParticipantAID: d.ParticipantAID,
		ParticipantBID: d.ParticipantBID,
		ScoreA:         d.ScoreA,
		ScoreB:         d.ScoreB,
		TargetPoints:   d.TargetPoints,
		Status:         d.Status,
		WinnerID:       d.WinnerID,
		IsBye:          d.IsBye,
		ForcedRematch:  d.ForcedRematch,
		Kind:           d.Kind,
	}
}

// Validate checks the structural invariants shared by stored matches and drafts.
func (m *Match) Validate() error {
	if (m.ParticipantBID == nil) != m.IsBye {
		return ErrMatchByeMismatch
	}
	if m.WinnerID != nil && !m.HasParticipant(*m.WinnerID) {
		return ErrMatchWinnerInvalid
	}
	return nil
}

func (m *Match) HasParticipant(id int) bool {
	return m.ParticipantAID == id || (m.ParticipantBID != nil && *m.ParticipantBID == id)
}

// Loser returns the participant that did not win. It is nil for byes and undecided matches.
func (m *Match) Loser() *int {
	if m.WinnerID == nil || m.ParticipantBID == nil {
		return nil
	}
	if *m.WinnerID == m.ParticipantAID {
		id := *m.ParticipantBID
		return &id
	}
	id := m.ParticipantAID
	return &id
}

// MatchPage is one poll result. NextCursor is passed back on the following call.
type MatchPage struct {
	Matches    []Match `json:"matches"`
	NextCursor int     `json:"next_cursor"`
}
