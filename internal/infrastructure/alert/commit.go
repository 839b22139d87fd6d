package alert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// CommitMessageSink collects every alert of the current run into one file,
// one record per line, for use as a commit message by CI. The file is written
// only once something fires; consumers remove it after reading. A record from
// a new run starts the file over.
type CommitMessageSink struct {
	path  string
	runID string
	lines []string
}

var _ ports.AlertSink = (*CommitMessageSink)(nil)

// NewCommitMessageSink targets path (alert.log in the default workflow).
func NewCommitMessageSink(path string) *CommitMessageSink {
	return &CommitMessageSink{path: path}
}

// Publish adds the record and rewrites the file with all records of its run.
func (c *CommitMessageSink) Publish(_ context.Context, record domain.AlertRecord) error {
	if record.RunID != c.runID {
		c.runID = record.RunID
		c.lines = c.lines[:0]
	}
	c.lines = append(c.lines, FormatRecord(record))

	body := strings.Join(c.lines, "\n") + "\n"
	if err := os.WriteFile(c.path, []byte(body), 0o600); err != nil {
		return fmt.Errorf("write commit message: %w", err)
	}
	return nil
}

// Lines returns the lines written for the current run.
func (c *CommitMessageSink) Lines() []string {
	return append([]string(nil), c.lines...)
}
