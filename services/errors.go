package services

import "errors"

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentConfigInvalid = errors.New("tournament configuration is invalid")

	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchAlreadyComplete = errors.New("match is already complete")
	ErrInvalidScore         = errors.New("invalid match score")

	ErrInvalidRound = errors.New("invalid round number")
	ErrInvalidStage = errors.New("invalid match stage")
)
