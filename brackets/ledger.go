package brackets

import "github.com/Dosada05/tournament-pairing/models"

// Ledger is the set of pairs that have already met in a tournament stage.
type Ledger map[models.PairKey]struct{}

// BuildLedger collects every pairing with both slots filled. Byes are ignored and the
// result does not depend on the order of matches.
func BuildLedger(matches []models.Match) Ledger {
	ledger := make(Ledger, len(matches))
	for _, m := range matches {
		if m.IsBye || m.ParticipantBID == nil {
			continue
		}
		ledger.Add(m.ParticipantAID, *m.ParticipantBID)
	}
	return ledger
}

func (l Ledger) Has(a, b int) bool {
	_, ok := l[models.NewPairKey(a, b)]
	return ok
}

func (l Ledger) Add(a, b int) {
	l[models.NewPairKey(a, b)] = struct{}{}
}

func (l Ledger) Len() int {
	return len(l)
}

func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for k := range l {
		c[k] = struct{}{}
	}
	return c
}
