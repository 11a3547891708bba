package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-pairing/models"
)

type SeedBracketParams struct {
	Standings    []models.StandingEntry
	CutSize      int
	TargetPoints int
	// FinalsTargetPoints applies when the field only fills a bracket of two. Zero means TargetPoints.
	FinalsTargetPoints int
}

type AdvanceParams struct {
	PriorRound []models.Match
	// CutSize is the bracket actually played, see BracketSize.
	CutSize      int
	CurrentRound int
	Targets      Targets
}

// BracketSize returns the bracket an elimination stage is played in: the smallest power of two
// holding all entrants, capped at cutSize. An invalid cutSize is returned unchanged.
func BracketSize(cutSize, entrants int) int {
	if !isPowerOfTwo(cutSize) || entrants >= cutSize {
		return cutSize
	}
	size := 2
	for size < entrants {
		size *= 2
	}
	return size
}

// EntrantCount counts the distinct participants of elimination round 1.
func EntrantCount(firstRound []models.Match) int {
	seen := make(map[int]struct{}, 2*len(firstRound))
	for _, m := range firstRound {
		seen[m.ParticipantAID] = struct{}{}
		if m.ParticipantBID != nil {
			seen[*m.ParticipantBID] = struct{}{}
		}
	}
	return len(seen)
}

// SeedBracket builds elimination round 1 from the top CutSize eligible standings.
//
// The bracket shrinks to BracketSize(CutSize, field), so every slot holds at least one seed.
// Seeds are placed in standard bracket order (1 v N, N/2 v N/2+1, ...) and the match number is
// the slot position, so Advance can merge slots (2i-1, 2i). A top seed without an opponent gets
// a completed bye. A bracket of two is the final itself.
func SeedBracket(params SeedBracketParams) ([]models.MatchDraft, error) {
	if !isPowerOfTwo(params.CutSize) {
		return nil, wrapf(ErrInvalidCutSize, "got %d", params.CutSize)
	}

	qualified := rankStandings(eligibleStandings(params.Standings))
	if len(qualified) < 2 {
		return nil, wrapf(ErrInsufficientParticipants, "found %d for a cut of %d", len(qualified), params.CutSize)
	}
	if len(qualified) > params.CutSize {
		qualified = qualified[:params.CutSize]
	}

	seedAt := func(seed int) *int {
		if seed > len(qualified) {
			return nil
		}
		return intPtr(qualified[seed-1].ParticipantID)
	}

	size := BracketSize(params.CutSize, len(qualified))
	if size == 2 {
		target := params.FinalsTargetPoints
		if target < 1 {
			target = params.TargetPoints
		}
		return []models.MatchDraft{
			pendingDraft(models.StageElimination, 1, 1, *seedAt(1), *seedAt(2), target, models.MatchKindFinals),
		}, nil
	}

	order := bracketOrder(size)
	drafts := make([]models.MatchDraft, 0, size/2)
	for slot := 0; slot < len(order)/2; slot++ {
		matchNumber := slot + 1
		high, low := seedAt(order[2*slot]), seedAt(order[2*slot+1])

		switch {
		case high != nil && low != nil:
			drafts = append(drafts, pendingDraft(models.StageElimination, 1, matchNumber, *high, *low, params.TargetPoints, models.MatchKindRegular))
		case high != nil:
			drafts = append(drafts, AssignBye(*high, models.StageElimination, 1, matchNumber, params.TargetPoints))
		default:
			return nil, wrapf(ErrPairingInvariantViolation, "bracket slot %d has no seed", matchNumber)
		}
	}
	return drafts, nil
}

// Advance computes the next elimination round from a fully scored round.
//
// The ideal match count of the prior round is CutSize / 2^CurrentRound. Below one the bracket
// is finished and nothing is returned. At two the prior round was the semifinals and the result
// is the finals plus the third-place match. Otherwise slots (2i-1, 2i) merge into match i; a
// slot pair with a single recorded match sends its winner through on a bye.
func Advance(params AdvanceParams) ([]models.MatchDraft, error) {
	for _, m := range params.PriorRound {
		if m.Status != models.MatchStatusComplete {
			return nil, wrapf(ErrRoundIncomplete, "match %d of round %d is %s", m.MatchNumber, m.Round, m.Status)
		}
	}
	if params.CurrentRound < 1 {
		return nil, wrapf(ErrInvalidRound, "elimination round %d", params.CurrentRound)
	}
	if !isPowerOfTwo(params.CutSize) {
		return nil, wrapf(ErrInvalidCutSize, "got %d", params.CutSize)
	}

	idealMatchCount := params.CutSize >> uint(params.CurrentRound)
	if idealMatchCount < 1 {
		return []models.MatchDraft{}, nil
	}

	nextRound := params.CurrentRound + 1
	if idealMatchCount == 2 {
		return advanceFinals(params.PriorRound, nextRound, params.Targets)
	}

	bySlot := make(map[int]*models.Match, len(params.PriorRound))
	for i := range params.PriorRound {
		m := &params.PriorRound[i]
		if _, dup := bySlot[m.MatchNumber]; dup {
			return nil, wrapf(ErrPairingInvariantViolation, "duplicate match number %d in round %d", m.MatchNumber, m.Round)
		}
		bySlot[m.MatchNumber] = m
	}

	drafts := make([]models.MatchDraft, 0, idealMatchCount/2)
	for i := 1; i <= idealMatchCount/2; i++ {
		upper, lower := bySlot[2*i-1], bySlot[2*i]

		switch {
		case upper != nil && lower != nil:
			a, err := slotWinner(upper)
			if err != nil {
				return nil, err
			}
			b, err := slotWinner(lower)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, pendingDraft(models.StageElimination, nextRound, i, a, b, params.Targets.Match, models.MatchKindRegular))
		case upper != nil || lower != nil:
			recorded := upper
			if recorded == nil {
				recorded = lower
			}
			w, err := slotWinner(recorded)
			if err != nil {
				return nil, err
			}
			drafts = append(drafts, AssignBye(w, models.StageElimination, nextRound, i, params.Targets.Match))
		default:
			return nil, wrapf(ErrPairingInvariantViolation, "no recorded match for slots %d and %d", 2*i-1, 2*i)
		}
	}
	return drafts, nil
}

func advanceFinals(semifinals []models.Match, round int, targets Targets) ([]models.MatchDraft, error) {
	if len(semifinals) != 2 {
		return nil, wrapf(ErrMissingSemifinalData, "expected 2 semifinal matches, got %d", len(semifinals))
	}
	var first, second *models.Match
	for i := range semifinals {
		switch semifinals[i].MatchNumber {
		case 1:
			first = &semifinals[i]
		case 2:
			second = &semifinals[i]
		}
	}
	if first == nil || second == nil {
		return nil, wrapf(ErrMissingSemifinalData, "semifinals must be match numbers 1 and 2")
	}
	if first.WinnerID == nil || second.WinnerID == nil {
		return nil, wrapf(ErrMissingSemifinalData, "semifinal winner not recorded")
	}

	drafts := []models.MatchDraft{
		pendingDraft(models.StageElimination, round, 1, *first.WinnerID, *second.WinnerID, targets.Finals, models.MatchKindFinals),
	}

	// A semifinal won on a bye has no loser; the other loser takes third place unopposed.
	loserA, loserB := first.Loser(), second.Loser()
	switch {
	case loserA != nil && loserB != nil:
		drafts = append(drafts, pendingDraft(models.StageElimination, round, 2, *loserA, *loserB, targets.Match, models.MatchKindThirdPlace))
	case loserA != nil || loserB != nil:
		lone := loserA
		if lone == nil {
			lone = loserB
		}
		bye := AssignBye(*lone, models.StageElimination, round, 2, targets.Match)
		bye.Kind = models.MatchKindThirdPlace
		drafts = append(drafts, bye)
	}
	return drafts, nil
}

func slotWinner(m *models.Match) (int, error) {
	if m.WinnerID == nil {
		return 0, wrapf(ErrPairingInvariantViolation, "completed match %d has no winner", m.MatchNumber)
	}
	return *m.WinnerID, nil
}

func pendingDraft(stage models.MatchStage, round, number, a, b, target int, kind models.MatchKind) models.MatchDraft {
	return models.MatchDraft{
		Stage:          stage,
		Round:          round,
		MatchNumber:    number,
		ParticipantAID: a,
		ParticipantBID: intPtr(b),
		TargetPoints:   target,
		Status:         models.MatchStatusPending,
		Kind:           kind,
	}
}

// rankStandings orders by wins, opponent strength and point differential, all descending,
// then by participant id for a stable seed list.
func rankStandings(standings []models.StandingEntry) []models.StandingEntry {
	ranked := make([]models.StandingEntry, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.OpponentStrength != b.OpponentStrength {
			return a.OpponentStrength > b.OpponentStrength
		}
		if a.PointDifferential != b.PointDifferential {
			return a.PointDifferential > b.PointDifferential
		}
		return a.ParticipantID < b.ParticipantID
	})
	return ranked
}

// bracketOrder lists seeds by bracket position, e.g. 8 -> [1 8 4 5 2 7 3 6].
func bracketOrder(size int) []int {
	order := []int{1}
	for n := 2; n <= size; n *= 2 {
		next := make([]int, 0, n)
		for _, seed := range order {
			next = append(next, seed, n+1-seed)
		}
		order = next
	}
	return order
}

func isPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}
