package alert

import (
	"context"
	"fmt"
	"os"
	"time"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// LogFileSink appends one timestamped line per alert.
type LogFileSink struct {
	path string
}

var _ ports.AlertSink = (*LogFileSink)(nil)

// NewLogFileSink appends to path, creating it on first use.
func NewLogFileSink(path string) *LogFileSink {
	return &LogFileSink{path: path}
}

// Publish appends the record; earlier lines are never rewritten.
func (l *LogFileSink) Publish(_ context.Context, record domain.AlertRecord) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open alert log: %w", err)
	}

	raised := record.RaisedAt
	if raised.IsZero() {
		raised = time.Now()
	}

	line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\n",
		raised.UTC().Format(time.RFC3339),
		record.RunID,
		record.Condition,
		FormatRecord(record),
		record.Item.URL)

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write alert log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close alert log: %w", err)
	}
	return nil
}
