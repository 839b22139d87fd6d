package domain

// PriceState maps item identifiers to their last recorded price.
type PriceState map[string]float64

// Clone returns an independent copy; a nil receiver yields an empty state.
func (s PriceState) Clone() PriceState {
	out := make(PriceState, len(s))
	for id, price := range s {
		out[id] = price
	}
	return out
}

// Prior returns the recorded price for id, or nil when none is known.
func (s PriceState) Prior(id string) *float64 {
	price, ok := s[id]
	if !ok {
		return nil
	}
	return &price
}
