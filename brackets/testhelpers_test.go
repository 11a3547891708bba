package brackets

import (
	"github.com/Dosada05/tournament-pairing/models"
)

func standing(id, wins int) models.StandingEntry {
	return models.StandingEntry{ParticipantID: id, Wins: wins, Status: models.ParticipantApproved}
}

func played(number, a, b, winner int) models.Match {
	return models.Match{
		Stage:          models.StageElimination,
		MatchNumber:    number,
		ParticipantAID: a,
		ParticipantBID: intPtr(b),
		Status:         models.MatchStatusComplete,
		WinnerID:       intPtr(winner),
		Kind:           models.MatchKindRegular,
	}
}

// participantsOf returns how many times each participant appears across drafts.
func participantsOf(drafts []models.MatchDraft) map[int]int {
	seen := make(map[int]int)
	for _, d := range drafts {
		seen[d.ParticipantAID]++
		if d.ParticipantBID != nil {
			seen[*d.ParticipantBID]++
		}
	}
	return seen
}
