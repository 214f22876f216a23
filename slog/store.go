package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdoc"
)

// Ensure LoggingContentStore implements helpdoc.ContentStore.
var _ helpdoc.ContentStore = (*LoggingContentStore)(nil)

// LoggingContentStore wraps a ContentStore with logging.
type LoggingContentStore struct {
	next   helpdoc.ContentStore
	logger *slog.Logger
}

// NewLoggingContentStore creates a new LoggingContentStore.
func NewLoggingContentStore(next helpdoc.ContentStore, logger *slog.Logger) *LoggingContentStore {
	return &LoggingContentStore{next: next, logger: logger}
}

// SaveContent delegates to the wrapped store and logs the snapshot size.
func (s *LoggingContentStore) SaveContent(ctx context.Context, content *helpdoc.ContentMap) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save content",
			"urls", content.Len(),
			"chunks", content.TotalChunks(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveContent(ctx, content)
}

// LoadContent delegates to the wrapped store and logs the snapshot size.
func (s *LoggingContentStore) LoadContent(ctx context.Context) (content *helpdoc.ContentMap, err error) {
	defer func(begin time.Time) {
		s.logger.Info("load content",
			"urls", content.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadContent(ctx)
}

// Ensure LoggingCorpusStore implements helpdoc.CorpusStore.
var _ helpdoc.CorpusStore = (*LoggingCorpusStore)(nil)

// LoggingCorpusStore wraps a CorpusStore with logging.
type LoggingCorpusStore struct {
	next   helpdoc.CorpusStore
	logger *slog.Logger
}

// NewLoggingCorpusStore creates a new LoggingCorpusStore.
func NewLoggingCorpusStore(next helpdoc.CorpusStore, logger *slog.Logger) *LoggingCorpusStore {
	return &LoggingCorpusStore{next: next, logger: logger}
}

// SaveCorpus delegates to the wrapped store and logs the section count.
func (s *LoggingCorpusStore) SaveCorpus(ctx context.Context, sections []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save corpus",
			"sections", len(sections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveCorpus(ctx, sections)
}

// LoadCorpus delegates to the wrapped store and logs the section count.
func (s *LoggingCorpusStore) LoadCorpus(ctx context.Context) (sections []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("load corpus",
			"sections", len(sections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadCorpus(ctx)
}
