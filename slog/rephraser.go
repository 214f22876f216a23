package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdoc"
)

// Ensure LoggingRephraser implements helpdoc.Rephraser.
var _ helpdoc.Rephraser = (*LoggingRephraser)(nil)

// LoggingRephraser wraps a Rephraser with logging.
type LoggingRephraser struct {
	next   helpdoc.Rephraser
	logger *slog.Logger
}

// NewLoggingRephraser creates a new LoggingRephraser.
func NewLoggingRephraser(next helpdoc.Rephraser, logger *slog.Logger) *LoggingRephraser {
	return &LoggingRephraser{next: next, logger: logger}
}

// Rephrase delegates to the wrapped rephraser and logs the request size.
func (r *LoggingRephraser) Rephrase(ctx context.Context, chunks []string, instruction string) (texts []string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("rephrase",
			"chunks", len(chunks),
			"candidates", len(texts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Rephrase(ctx, chunks, instruction)
}
