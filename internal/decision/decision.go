// Package decision evaluates alert conditions for a reading against the
// previously recorded price and the item's target.
package decision

import "DealHunter/internal/domain"

// Decide returns the conditions fired by reading. Only in-stock readings with
// a price are evaluated; PRICE_DROP is strict, TARGET_HIT is inclusive, and
// both may fire together.
func Decide(reading domain.Reading, prior, target *float64) []domain.Condition {
	if !reading.HasPrice() {
		return nil
	}

	current := *reading.Price
	var fired []domain.Condition
	if prior != nil && current < *prior {
		fired = append(fired, domain.ConditionPriceDrop)
	}
	if target != nil && current <= *target {
		fired = append(fired, domain.ConditionTargetHit)
	}
	return fired
}

// NextPrice reports the price to record for the item after this reading.
// Every in-stock reading updates state, whether or not a condition fired.
func NextPrice(reading domain.Reading) (float64, bool) {
	if !reading.HasPrice() {
		return 0, false
	}
	return *reading.Price, true
}

// Records expands fired conditions into one alert record each.
func Records(runID string, item domain.TrackedItem, reading domain.Reading, prior *float64, fired []domain.Condition) []domain.AlertRecord {
	if !reading.HasPrice() || len(fired) == 0 {
		return nil
	}

	records := make([]domain.AlertRecord, 0, len(fired))
	for _, condition := range fired {
		record := domain.AlertRecord{
			RunID:        runID,
			Item:         item,
			Condition:    condition,
			CurrentPrice: *reading.Price,
		}
		switch condition {
		case domain.ConditionPriceDrop:
			record.PriorPrice = prior
		case domain.ConditionTargetHit:
			record.TargetPrice = item.TargetPrice
		}
		records = append(records, record)
	}
	return records
}
