package models

// StandingEntry is one row of the ranking view. The pairing engine only reads it.
type StandingEntry struct {
	ParticipantID     int               `json:"participant_id" db:"participant_id"`
	DisplayName       string            `json:"display_name" db:"display_name"`
	Status            ParticipantStatus `json:"status" db:"status"`
	Wins              int               `json:"wins" db:"wins"`
	OpponentStrength  float64           `json:"opponent_strength" db:"opponent_strength"`
	PointDifferential int               `json:"point_differential" db:"point_differential"`
}
