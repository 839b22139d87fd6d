package logger

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Cron adapts a slog.Logger to the cron.Logger interface, tagging records
// with the component name.
func Cron(base *slog.Logger, component string) cron.Logger {
	if base == nil {
		base = slog.Default()
	}
	return cronLogger{log: base.With("component", component)}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(fmt.Sprintf("cron: %s", msg), normalize(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"error", err}, normalize(keysAndValues)...)
	l.log.Error(fmt.Sprintf("cron: %s", msg), args...)
}

// normalize turns cron's alternating key/value pairs into slog arguments,
// stringifying keys and dropping a dangling key.
func normalize(keysAndValues []any) []any {
	args := make([]any, 0, len(keysAndValues))
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		args = append(args, fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return args
}
