// Package alert holds AlertSink implementations and the shared text rendering
// of alert records.
package alert

import (
	"fmt"
	"strconv"

	"DealHunter/internal/domain"
)

// FormatPrice renders a price without trailing zeros ("50000", "1299.99").
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRecord renders a record as a single line, e.g.
// "PRICE_DROP: Laptop 60000 -> 50000" or "TARGET_HIT: Laptop 50000 <= 55000".
func FormatRecord(record domain.AlertRecord) string {
	name := record.Item.DisplayName()
	current := FormatPrice(record.CurrentPrice)

	switch {
	case record.Condition == domain.ConditionPriceDrop && record.PriorPrice != nil:
		return fmt.Sprintf("%s: %s %s -> %s", record.Condition, name, FormatPrice(*record.PriorPrice), current)
	case record.Condition == domain.ConditionTargetHit && record.TargetPrice != nil:
		return fmt.Sprintf("%s: %s %s <= %s", record.Condition, name, current, FormatPrice(*record.TargetPrice))
	default:
		return fmt.Sprintf("%s: %s %s", record.Condition, name, current)
	}
}

// Detail renders a record with its link on a second line.
func Detail(record domain.AlertRecord) string {
	return fmt.Sprintf("%s\n%s", FormatRecord(record), record.Item.URL)
}
