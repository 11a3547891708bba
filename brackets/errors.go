package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientParticipants  = errors.New("not enough eligible participants to pair (minimum 2)")
	ErrPairingInvariantViolation = errors.New("pairing invariant violated")
	ErrRoundAlreadyGenerated     = errors.New("round has already been generated")
	ErrRoundIncomplete           = errors.New("previous round still has unfinished matches")
	ErrMissingSemifinalData      = errors.New("semifinal results are missing or incomplete")
	ErrInvalidCutSize            = errors.New("cut size must be a power of two and at least 2")
	ErrInvalidRound              = errors.New("invalid round number")
)

func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
