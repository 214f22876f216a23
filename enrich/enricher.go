// Package enrich turns crawled page chunks into a rephrased corpus using a
// language model.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/helpdoc"
)

// Enricher sends each page's chunks to a Rephraser and splits the replies
// into corpus sections.
type Enricher struct {
	Rephraser helpdoc.Rephraser

	// Instruction follows the chunk messages in every request.
	// Empty selects helpdoc.DefaultInstruction.
	Instruction string

	// TokenCounter, when set, estimates the prompt size of each request
	// for progress reporting.
	TokenCounter helpdoc.TokenCounter
}

// ProgressEvent reports progress during enrichment.
type ProgressEvent struct {
	URL      string
	Index    int
	Total    int
	Chunks   int
	Tokens   int
	Sections int
}

// ProgressFunc is a callback for reporting enrichment progress.
type ProgressFunc func(event ProgressEvent)

// Enrich rephrases every URL's chunks in mapping order and returns the
// accumulated sections. URLs without chunks are skipped. The first error
// aborts the run.
func (e *Enricher) Enrich(ctx context.Context, content *helpdoc.ContentMap, progress ProgressFunc) ([]string, error) {
	if e.Rephraser == nil {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "rephraser required")
	}

	instruction := e.Instruction
	if instruction == "" {
		instruction = helpdoc.DefaultInstruction
	}

	corpus := []string{}
	if content.Len() == 0 {
		return corpus, nil
	}

	urls := content.URLs()
	for i, url := range urls {
		chunks, _ := content.Get(url)
		if len(chunks) == 0 {
			continue
		}

		tokens, err := e.countTokens(ctx, chunks, instruction)
		if err != nil {
			return corpus, fmt.Errorf("counting tokens for %s: %w", url, err)
		}

		candidates, err := e.Rephraser.Rephrase(ctx, chunks, instruction)
		if err != nil {
			return corpus, fmt.Errorf("rephrasing %s: %w", url, err)
		}

		var sections int
		for _, candidate := range candidates {
			split := helpdoc.SplitSections(candidate)
			sections += len(split)
			corpus = append(corpus, split...)
		}

		if progress != nil {
			progress(ProgressEvent{
				URL:      url,
				Index:    i + 1,
				Total:    len(urls),
				Chunks:   len(chunks),
				Tokens:   tokens,
				Sections: sections,
			})
		}
	}

	return corpus, nil
}

func (e *Enricher) countTokens(ctx context.Context, chunks []string, instruction string) (int, error) {
	if e.TokenCounter == nil {
		return 0, nil
	}
	return e.TokenCounter.CountTokens(ctx, strings.Join(chunks, "\n")+"\n"+instruction)
}
