package domain

// TrackedItem is a product listing watched for price and stock changes.
type TrackedItem struct {
	ID            string
	Name          string
	URL           string
	TargetPrice   *float64
	PriceSelector string
	StockKeyword  string
	// Retriever names the fetch strategy; empty means the configured default.
	Retriever string
}

// DisplayName falls back to the identifier when no name is configured.
func (t TrackedItem) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
