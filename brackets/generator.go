package brackets

import (
	"github.com/Dosada05/tournament-pairing/models"
)

// RandomSource shuffles score groups. *rand.Rand from math/rand satisfies it, so tests can
// pass rand.New(rand.NewSource(seed)) and assert exact pairings.
type RandomSource interface {
	Shuffle(n int, swap func(i, j int))
}

// Targets carries the target-points values an elimination round is played to.
type Targets struct {
	Match  int
	Finals int
}

// CheckRoundAbsent fails when matches already exist for the round about to be generated.
// It is a fast-path check only: callers must back it with a uniqueness constraint in the store.
func CheckRoundAbsent(existing []models.Match, stage models.MatchStage, round int) error {
	if len(existing) > 0 {
		return wrapf(ErrRoundAlreadyGenerated, "%s round %d already has %d matches", stage, round, len(existing))
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

func eligibleStandings(standings []models.StandingEntry) []models.StandingEntry {
	eligible := make([]models.StandingEntry, 0, len(standings))
	for _, s := range standings {
		if s.Status.IsEligible() {
			eligible = append(eligible, s)
		}
	}
	return eligible
}
