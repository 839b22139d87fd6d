package alert

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// ConsoleSink prints a framed block per alert.
type ConsoleSink struct {
	w io.Writer
}

var _ ports.AlertSink = (*ConsoleSink)(nil)

// NewConsoleSink writes to w, or stdout when w is nil.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{w: w}
}

// Publish writes the record immediately.
func (c *ConsoleSink) Publish(_ context.Context, record domain.AlertRecord) error {
	rule := strings.Repeat("=", 40)
	_, err := fmt.Fprintf(c.w, "%s\n%s\n%s\n", rule, Detail(record), rule)
	return err
}
