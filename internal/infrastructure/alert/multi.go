package alert

import (
	"context"
	"errors"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// MultiSink fans each record out to every sink; one failing sink does not
// stop delivery to the others.
type MultiSink []ports.AlertSink

var _ ports.AlertSink = MultiSink(nil)

// Publish delivers to all sinks and joins their errors.
func (m MultiSink) Publish(ctx context.Context, record domain.AlertRecord) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
