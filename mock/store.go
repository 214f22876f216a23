package mock

import (
	"context"

	"github.com/fwojciec/helpdoc"
)

var _ helpdoc.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of helpdoc.ContentStore.
type ContentStore struct {
	SaveContentFn func(ctx context.Context, content *helpdoc.ContentMap) error
	LoadContentFn func(ctx context.Context) (*helpdoc.ContentMap, error)
}

func (s *ContentStore) SaveContent(ctx context.Context, content *helpdoc.ContentMap) error {
	return s.SaveContentFn(ctx, content)
}

func (s *ContentStore) LoadContent(ctx context.Context) (*helpdoc.ContentMap, error) {
	return s.LoadContentFn(ctx)
}

var _ helpdoc.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is a mock implementation of helpdoc.CorpusStore.
type CorpusStore struct {
	SaveCorpusFn func(ctx context.Context, sections []string) error
	LoadCorpusFn func(ctx context.Context) ([]string, error)
}

func (s *CorpusStore) SaveCorpus(ctx context.Context, sections []string) error {
	return s.SaveCorpusFn(ctx, sections)
}

func (s *CorpusStore) LoadCorpus(ctx context.Context) ([]string, error) {
	return s.LoadCorpusFn(ctx)
}
