package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-pairing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTargets = Targets{Match: 11, Finals: 15}

func TestAdvance_FinalsAndThirdPlace(t *testing.T) {
	semifinals := []models.Match{
		played(1, 10, 20, 10),
		played(2, 30, 40, 40),
	}

	for _, tc := range []struct {
		name    string
		cutSize int
		round   int
	}{
		{name: "cut of 8 after semifinals", cutSize: 8, round: 2},
		{name: "cut of 4 after first round", cutSize: 4, round: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			drafts, err := Advance(AdvanceParams{
				PriorRound:   semifinals,
				CutSize:      tc.cutSize,
				CurrentRound: tc.round,
				Targets:      testTargets,
			})
			require.NoError(t, err)
			require.Len(t, drafts, 2)

			finals := drafts[0]
			assert.Equal(t, models.MatchKindFinals, finals.Kind)
			assert.Equal(t, 1, finals.MatchNumber)
			assert.Equal(t, 10, finals.ParticipantAID)
			assert.Equal(t, 40, *finals.ParticipantBID)
			assert.Equal(t, 15, finals.TargetPoints)
			assert.Equal(t, models.MatchStatusPending, finals.Status)
			assert.Equal(t, tc.round+1, finals.Round)

			third := drafts[1]
			assert.Equal(t, models.MatchKindThirdPlace, third.Kind)
			assert.Equal(t, 2, third.MatchNumber)
			assert.Equal(t, 20, third.ParticipantAID)
			assert.Equal(t, 30, *third.ParticipantBID)
			assert.Equal(t, 11, third.TargetPoints)
		})
	}
}

func TestAdvance_ThirdPlaceByeWhenSemifinalWasBye(t *testing.T) {
	semifinals := []models.Match{
		played(1, 10, 20, 20),
		{Stage: models.StageElimination, MatchNumber: 2, ParticipantAID: 30, IsBye: true,
			Status: models.MatchStatusComplete, WinnerID: intPtr(30)},
	}

	drafts, err := Advance(AdvanceParams{PriorRound: semifinals, CutSize: 8, CurrentRound: 2, Targets: testTargets})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, 20, drafts[0].ParticipantAID)
	assert.Equal(t, 30, *drafts[0].ParticipantBID)

	third := drafts[1]
	assert.True(t, third.IsBye)
	assert.Equal(t, models.MatchKindThirdPlace, third.Kind)
	assert.Equal(t, 10, third.ParticipantAID)
	assert.Equal(t, 11, third.ScoreA)
	assert.Equal(t, 10, third.ScoreB)
}

func TestAdvance_MissingSemifinalData(t *testing.T) {
	cases := map[string][]models.Match{
		"only one semifinal": {played(1, 1, 2, 1)},
		"wrong match numbers": {played(1, 1, 2, 1), played(3, 3, 4, 3)},
		"winner not recorded": {
			played(1, 1, 2, 1),
			{MatchNumber: 2, ParticipantAID: 3, ParticipantBID: intPtr(4), Status: models.MatchStatusComplete},
		},
	}
	for name, semis := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Advance(AdvanceParams{PriorRound: semis, CutSize: 8, CurrentRound: 2, Targets: testTargets})
			assert.ErrorIs(t, err, ErrMissingSemifinalData)
		})
	}
}

func TestAdvance_StandardRoundMergesSlots(t *testing.T) {
	quarterfinals := []models.Match{
		played(1, 1, 8, 1),
		played(2, 4, 5, 5),
		played(3, 2, 7, 7),
		played(4, 3, 6, 3),
	}

	drafts, err := Advance(AdvanceParams{PriorRound: quarterfinals, CutSize: 8, CurrentRound: 1, Targets: testTargets})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, 1, drafts[0].ParticipantAID)
	assert.Equal(t, 5, *drafts[0].ParticipantBID)
	assert.Equal(t, 7, drafts[1].ParticipantAID)
	assert.Equal(t, 3, *drafts[1].ParticipantBID)
	for i, d := range drafts {
		assert.Equal(t, i+1, d.MatchNumber)
		assert.Equal(t, 2, d.Round)
		assert.Equal(t, 11, d.TargetPoints)
		assert.Equal(t, models.MatchStatusPending, d.Status)
		assert.Equal(t, models.MatchKindRegular, d.Kind)
	}
}

func TestAdvance_LoneSlotWinnerGetsBye(t *testing.T) {
	var round []models.Match
	for n := 1; n <= 8; n++ {
		if n == 6 {
			continue
		}
		round = append(round, played(n, 100+n, 200+n, 100+n))
	}

	drafts, err := Advance(AdvanceParams{PriorRound: round, CutSize: 16, CurrentRound: 1, Targets: testTargets})
	require.NoError(t, err)
	require.Len(t, drafts, 4)

	bye := drafts[2]
	assert.True(t, bye.IsBye)
	assert.Equal(t, 3, bye.MatchNumber)
	assert.Equal(t, 105, bye.ParticipantAID)
	assert.Nil(t, bye.ParticipantBID)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, 105, *bye.WinnerID)
	assert.Equal(t, models.MatchStatusComplete, bye.Status)
	assert.Equal(t, 11, bye.ScoreA)
	assert.Equal(t, 10, bye.ScoreB)

	for _, i := range []int{0, 1, 3} {
		assert.False(t, drafts[i].IsBye)
	}
}

func TestAdvance_Errors(t *testing.T) {
	t.Run("pending match in prior round", func(t *testing.T) {
		round := []models.Match{played(1, 1, 2, 1), {MatchNumber: 2, ParticipantAID: 3, ParticipantBID: intPtr(4), Status: models.MatchStatusPending}}
		_, err := Advance(AdvanceParams{PriorRound: round, CutSize: 8, CurrentRound: 2, Targets: testTargets})
		assert.ErrorIs(t, err, ErrRoundIncomplete)
	})

	t.Run("both slots empty", func(t *testing.T) {
		round := []models.Match{
			played(1, 1, 2, 1), played(2, 3, 4, 3), played(3, 5, 6, 5), played(4, 7, 8, 7),
			played(7, 9, 10, 9), played(8, 11, 12, 11),
		}
		_, err := Advance(AdvanceParams{PriorRound: round, CutSize: 16, CurrentRound: 1, Targets: testTargets})
		assert.ErrorIs(t, err, ErrPairingInvariantViolation)
	})

	t.Run("cut size not a power of two", func(t *testing.T) {
		_, err := Advance(AdvanceParams{PriorRound: nil, CutSize: 6, CurrentRound: 1, Targets: testTargets})
		assert.ErrorIs(t, err, ErrInvalidCutSize)
	})
}

func TestAdvance_FinishedBracket(t *testing.T) {
	final := []models.Match{played(1, 1, 2, 1), played(2, 3, 4, 4)}
	for _, round := range []int{3, 4, 10} {
		drafts, err := Advance(AdvanceParams{PriorRound: final, CutSize: 8, CurrentRound: round, Targets: testTargets})
		require.NoError(t, err)
		assert.Empty(t, drafts)
	}
}

func TestSeedBracket(t *testing.T) {
	t.Run("full field in bracket order", func(t *testing.T) {
		standings := make([]models.StandingEntry, 0, 10)
		for id := 1; id <= 10; id++ {
			// Higher id, more wins: seed 1 is participant 10.
			standings = append(standings, standing(id, id))
		}

		drafts, err := SeedBracket(SeedBracketParams{Standings: standings, CutSize: 8, TargetPoints: 11})
		require.NoError(t, err)
		require.Len(t, drafts, 4)

		seed := func(s int) int { return 11 - s }
		expected := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
		for i, pair := range expected {
			assert.Equal(t, seed(pair[0]), drafts[i].ParticipantAID)
			assert.Equal(t, seed(pair[1]), *drafts[i].ParticipantBID)
			assert.Equal(t, i+1, drafts[i].MatchNumber)
			assert.Equal(t, 1, drafts[i].Round)
			assert.Equal(t, models.StageElimination, drafts[i].Stage)
		}
	})

	t.Run("short field gives top seeds byes", func(t *testing.T) {
		standings := make([]models.StandingEntry, 0, 6)
		for id := 1; id <= 6; id++ {
			standings = append(standings, standing(id, 10-id))
		}

		drafts, err := SeedBracket(SeedBracketParams{Standings: standings, CutSize: 8, TargetPoints: 11})
		require.NoError(t, err)
		require.Len(t, drafts, 4)

		assert.True(t, drafts[0].IsBye)
		assert.Equal(t, 1, drafts[0].ParticipantAID)
		assert.True(t, drafts[2].IsBye)
		assert.Equal(t, 2, drafts[2].ParticipantAID)
		assert.False(t, drafts[1].IsBye)
		assert.False(t, drafts[3].IsBye)
	})

	t.Run("tiebreaks", func(t *testing.T) {
		standings := []models.StandingEntry{
			{ParticipantID: 1, Wins: 3, OpponentStrength: 1.5, PointDifferential: 4, Status: models.ParticipantApproved},
			{ParticipantID: 2, Wins: 3, OpponentStrength: 2.5, PointDifferential: 1, Status: models.ParticipantApproved},
			{ParticipantID: 3, Wins: 3, OpponentStrength: 1.5, PointDifferential: 9, Status: models.ParticipantApproved},
			{ParticipantID: 4, Wins: 1, Status: models.ParticipantApproved},
		}
		ranked := rankStandings(standings)
		ids := []int{ranked[0].ParticipantID, ranked[1].ParticipantID, ranked[2].ParticipantID, ranked[3].ParticipantID}
		assert.Equal(t, []int{2, 3, 1, 4}, ids)
	})

	t.Run("invalid cut", func(t *testing.T) {
		_, err := SeedBracket(SeedBracketParams{Standings: []models.StandingEntry{standing(1, 0), standing(2, 0)}, CutSize: 12, TargetPoints: 11})
		assert.ErrorIs(t, err, ErrInvalidCutSize)
	})

	t.Run("not enough qualifiers", func(t *testing.T) {
		_, err := SeedBracket(SeedBracketParams{Standings: []models.StandingEntry{standing(1, 0)}, CutSize: 8, TargetPoints: 11})
		assert.ErrorIs(t, err, ErrInsufficientParticipants)
	})
}

func TestBracketOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, bracketOrder(2))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, bracketOrder(8))
}

func TestCheckRoundAbsent(t *testing.T) {
	assert.NoError(t, CheckRoundAbsent(nil, models.StageSwiss, 2))
	err := CheckRoundAbsent([]models.Match{played(1, 1, 2, 1)}, models.StageSwiss, 2)
	assert.ErrorIs(t, err, ErrRoundAlreadyGenerated)
}

// completeRound scores every pending draft as a win for participant A.
func completeRound(drafts []models.MatchDraft) []models.Match {
	matches := make([]models.Match, 0, len(drafts))
	for _, d := range drafts {
		m := d.ToMatch(1)
		if m.Status == models.MatchStatusPending {
			m.ScoreA, m.ScoreB = m.TargetPoints, 0
			m.WinnerID = intPtr(m.ParticipantAID)
			m.Status = models.MatchStatusComplete
		}
		matches = append(matches, *m)
	}
	return matches
}

func seededField(n int) []models.StandingEntry {
	standings := make([]models.StandingEntry, 0, n)
	for id := 1; id <= n; id++ {
		// Participant k is seed k.
		standings = append(standings, standing(id, 100-id))
	}
	return standings
}

func TestSeedBracket_SparseFieldAdvances(t *testing.T) {
	drafts, err := SeedBracket(SeedBracketParams{Standings: seededField(3), CutSize: 16, TargetPoints: 11, FinalsTargetPoints: 15})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.True(t, drafts[0].IsBye)
	assert.Equal(t, 1, drafts[0].ParticipantAID)
	assert.Equal(t, 2, drafts[1].ParticipantAID)
	assert.Equal(t, 3, *drafts[1].ParticipantBID)

	round1 := completeRound(drafts)
	next, err := Advance(AdvanceParams{
		PriorRound:   round1,
		CutSize:      BracketSize(16, EntrantCount(round1)),
		CurrentRound: 1,
		Targets:      testTargets,
	})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, models.MatchKindFinals, next[0].Kind)
	assert.Equal(t, 1, next[0].ParticipantAID)
	assert.Equal(t, 2, *next[0].ParticipantBID)
	assert.Equal(t, models.MatchKindThirdPlace, next[1].Kind)
	assert.True(t, next[1].IsBye)
	assert.Equal(t, 3, next[1].ParticipantAID)
}

func TestSeedBracket_PlaysThroughToFinals(t *testing.T) {
	for _, cut := range []int{8, 16} {
		for _, entrants := range []int{2, 3, 5, cut} {
			t.Run(fmt.Sprintf("cut %d with %d entrants", cut, entrants), func(t *testing.T) {
				drafts, err := SeedBracket(SeedBracketParams{Standings: seededField(entrants), CutSize: cut, TargetPoints: 11, FinalsTargetPoints: 15})
				require.NoError(t, err)

				size := BracketSize(cut, entrants)
				var finals []models.MatchDraft
				rounds := 0
				for round := 1; ; round++ {
					require.Less(t, round, 10, "bracket never finished")
					for _, d := range drafts {
						if d.Kind == models.MatchKindFinals {
							finals = append(finals, d)
						}
					}
					prior := completeRound(drafts)
					drafts, err = Advance(AdvanceParams{PriorRound: prior, CutSize: size, CurrentRound: round, Targets: testTargets})
					require.NoError(t, err)
					rounds = round
					if len(drafts) == 0 {
						break
					}
				}

				require.Len(t, finals, 1)
				assert.Equal(t, 1, finals[0].ParticipantAID)
				assert.Equal(t, 2, *finals[0].ParticipantBID)
				assert.Equal(t, 15, finals[0].TargetPoints)

				wantRounds := 0
				for s := size; s > 1; s /= 2 {
					wantRounds++
				}
				assert.Equal(t, wantRounds, rounds)
			})
		}
	}
}

func TestAdvance_TwoMatchesUnderCutOfEightInRoundOne(t *testing.T) {
	// The ideal count for cut 8 after round 1 is four matches, so two matches are not semifinals.
	round := []models.Match{played(1, 10, 20, 10), played(2, 30, 40, 40)}

	_, err := Advance(AdvanceParams{PriorRound: round, CutSize: 8, CurrentRound: 1, Targets: testTargets})
	assert.ErrorIs(t, err, ErrPairingInvariantViolation)
	assert.ErrorContains(t, err, "no recorded match for slots 3 and 4")

	// A field of four seeded under a cut of 8 plays in a bracket of four, where they are semifinals.
	drafts, err := Advance(AdvanceParams{PriorRound: round, CutSize: BracketSize(8, EntrantCount(round)), CurrentRound: 1, Targets: testTargets})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, models.MatchKindFinals, drafts[0].Kind)
}

func TestBracketSize(t *testing.T) {
	cases := []struct{ cut, entrants, want int }{
		{16, 2, 2},
		{16, 3, 4},
		{16, 5, 8},
		{16, 9, 16},
		{16, 40, 16},
		{8, 8, 8},
		{6, 3, 6},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BracketSize(tc.cut, tc.entrants), "cut %d entrants %d", tc.cut, tc.entrants)
	}
}

func TestEntrantCount(t *testing.T) {
	round := []models.Match{
		played(1, 1, 2, 1),
		{MatchNumber: 2, ParticipantAID: 3, IsBye: true, Status: models.MatchStatusComplete, WinnerID: intPtr(3)},
	}
	assert.Equal(t, 3, EntrantCount(round))
	assert.Zero(t, EntrantCount(nil))
}
