package models

// PairKey identifies an unordered pair of participants: NewPairKey(a, b) == NewPairKey(b, a).
type PairKey struct {
	Low  int
	High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}
