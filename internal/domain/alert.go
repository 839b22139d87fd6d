package domain

import "time"

// Condition enumerates alert triggers evaluated for every in-stock reading.
type Condition string

const (
	ConditionPriceDrop Condition = "PRICE_DROP"
	ConditionTargetHit Condition = "TARGET_HIT"
)

// AlertRecord is emitted to sinks once per fired condition.
type AlertRecord struct {
	RunID        string
	Item         TrackedItem
	Condition    Condition
	CurrentPrice float64
	PriorPrice   *float64
	TargetPrice  *float64
	RaisedAt     time.Time
}
