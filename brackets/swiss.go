package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-pairing/models"
)

type SwissRoundParams struct {
	Standings    []models.StandingEntry
	PastPairings Ledger
	TargetPoints int
	Round        int
	// Rand shuffles each score group. A nil source keeps groups in participant id order.
	Rand RandomSource
}

type scoreGroup struct {
	wins    int
	members []int
}

// GenerateRound pairs one Swiss round.
//
// Participants are grouped by win count and groups are processed from the highest count down.
// An odd group floats its last member (after shuffling) into the next group; whoever is still
// floating after the lowest group receives the bye. Inside a group pairing is greedy: the first
// unpaired participant takes the first opponent it has not met yet, or the next available one
// when every remaining opponent is a rematch. Such drafts carry ForcedRematch. The greedy pass
// does not backtrack, so it may force a rematch that a full matching would have avoided.
func GenerateRound(params SwissRoundParams) ([]models.MatchDraft, error) {
	eligible := eligibleStandings(params.Standings)
	if len(eligible) < 2 {
		return nil, wrapf(ErrInsufficientParticipants, "found %d", len(eligible))
	}
	if params.Round < 1 {
		return nil, wrapf(ErrInvalidRound, "swiss round %d", params.Round)
	}

	groups := groupByWins(eligible)
	for _, g := range groups {
		if params.Rand != nil {
			members := g.members
			params.Rand.Shuffle(len(members), func(i, j int) {
				members[i], members[j] = members[j], members[i]
			})
		}
	}

	// Round-local copy so a pair can't be used twice within the round and the caller's ledger stays untouched.
	played := params.PastPairings.Clone()

	drafts := make([]models.MatchDraft, 0, len(eligible)/2+1)
	var floats []int

	for _, g := range groups {
		pool := make([]int, 0, len(floats)+len(g.members))
		pool = append(pool, floats...)
		pool = append(pool, g.members...)
		floats = nil

		if len(pool)%2 == 1 {
			last := len(pool) - 1
			floats = append(floats, pool[last])
			pool = pool[:last]
		}

		for len(pool) > 0 {
			a := pool[0]
			pool = pool[1:]

			idx := -1
			for j, b := range pool {
				if !played.Has(a, b) {
					idx = j
					break
				}
			}
			forced := false
			if idx == -1 {
				idx = 0
				forced = true
			}
			b := pool[idx]
			pool = append(pool[:idx], pool[idx+1:]...)
			played.Add(a, b)

			drafts = append(drafts, models.MatchDraft{
				Stage:          models.StageSwiss,
				Round:          params.Round,
				ParticipantAID: a,
				ParticipantBID: intPtr(b),
				TargetPoints:   params.TargetPoints,
				Status:         models.MatchStatusPending,
				ForcedRematch:  forced,
				Kind:           models.MatchKindRegular,
			})
		}
	}

	switch len(floats) {
	case 0:
	case 1:
		drafts = append(drafts, AssignBye(floats[0], models.StageSwiss, params.Round, 0, params.TargetPoints))
	default:
		return nil, wrapf(ErrPairingInvariantViolation, "%d participants left unpaired after the lowest score group", len(floats))
	}

	for i := range drafts {
		drafts[i].MatchNumber = i + 1
	}
	return drafts, nil
}

// groupByWins returns score groups ordered from the highest win count to the lowest.
// Members start in participant id order so a seeded shuffle is reproducible.
func groupByWins(standings []models.StandingEntry) []scoreGroup {
	byWins := make(map[int][]int)
	for _, s := range standings {
		byWins[s.Wins] = append(byWins[s.Wins], s.ParticipantID)
	}

	groups := make([]scoreGroup, 0, len(byWins))
	for wins, members := range byWins {
		sort.Ints(members)
		groups = append(groups, scoreGroup{wins: wins, members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].wins > groups[j].wins
	})
	return groups
}
