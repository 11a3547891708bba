package brackets

import "github.com/Dosada05/tournament-pairing/models"

// AssignBye builds a completed bye for a participant left without an opponent. The recipient
// is credited target:target-1, the usual score for a win without playing.
func AssignBye(participantID int, stage models.MatchStage, round, matchNumber, targetPoints int) models.MatchDraft {
	return models.MatchDraft{
		Stage:          stage,
		Round:          round,
		MatchNumber:    matchNumber,
		ParticipantAID: participantID,
		ParticipantBID: nil,
		ScoreA:         targetPoints,
		ScoreB:         targetPoints - 1,
		TargetPoints:   targetPoints,
		Status:         models.MatchStatusComplete,
		WinnerID:       intPtr(participantID),
		IsBye:          true,
		Kind:           models.MatchKindRegular,
	}
}
