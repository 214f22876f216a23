package mock

import (
	"context"

	"github.com/fwojciec/helpdoc"
)

var _ helpdoc.Rephraser = (*Rephraser)(nil)

// Rephraser is a mock implementation of helpdoc.Rephraser.
type Rephraser struct {
	RephraseFn func(ctx context.Context, chunks []string, instruction string) ([]string, error)
}

func (r *Rephraser) Rephrase(ctx context.Context, chunks []string, instruction string) ([]string, error) {
	return r.RephraseFn(ctx, chunks, instruction)
}
