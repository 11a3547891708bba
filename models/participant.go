package models

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantCheckedIn  ParticipantStatus = "checked_in"
	ParticipantApproved   ParticipantStatus = "approved"
	ParticipantDropped    ParticipantStatus = "dropped"
)

// IsEligible reports whether a participant with this status may be paired.
func (s ParticipantStatus) IsEligible() bool {
	return s == ParticipantCheckedIn || s == ParticipantApproved
}
