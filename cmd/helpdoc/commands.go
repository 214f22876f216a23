package main

import (
	"fmt"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/crawl"
	"github.com/fwojciec/helpdoc/enrich"
)

// Run executes the full pipeline on freshly crawled content.
func (c *RunCmd) Run(deps *Dependencies) error {
	content, err := crawlAndSave(deps)
	if err != nil {
		return err
	}
	return enrichAndSave(deps, content)
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	_, err := crawlAndSave(deps)
	return err
}

// Run executes the enrich command on saved content.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	return enrichAndSave(deps, nil)
}

// crawlAndSave crawls from the start URL and saves whatever content was
// gathered, including partial content from a failed crawl. A crawl that
// visited no page leaves previously saved content untouched.
func crawlAndSave(deps *Dependencies) (*helpdoc.ContentMap, error) {
	content, result, crawlErr := deps.Crawler.Crawl(deps.Ctx, deps.StartURL, crawlProgress(deps))
	if result == nil || result.Visited == 0 {
		if crawlErr == nil {
			crawlErr = helpdoc.Errorf(helpdoc.EINTERNAL, "start page %s could not be crawled", deps.StartURL)
		}
		return nil, crawlErr
	}

	if err := deps.Content.SaveContent(deps.Ctx, content); err != nil {
		return nil, fmt.Errorf("saving content: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed), %d chunks\n",
		result.Visited, result.Failed, result.Chunks)

	if crawlErr != nil {
		return nil, crawlErr
	}
	return content, nil
}

// enrichAndSave rephrases content into the corpus and saves it once at the
// end. Empty content is replaced by the saved content.
func enrichAndSave(deps *Dependencies, content *helpdoc.ContentMap) error {
	if content.Len() == 0 {
		loaded, err := deps.Content.LoadContent(deps.Ctx)
		if helpdoc.ErrorCode(err) == helpdoc.ENOTFOUND {
			return helpdoc.Errorf(helpdoc.ENOTFOUND, "no crawled content found. Run 'helpdoc crawl' first")
		} else if err != nil {
			return fmt.Errorf("loading content: %w", err)
		}
		content = loaded
	}

	corpus, err := deps.Enricher.Enrich(deps.Ctx, content, enrichProgress(deps))
	if err != nil {
		return err
	}

	if err := deps.Corpus.SaveCorpus(deps.Ctx, corpus); err != nil {
		return fmt.Errorf("saving corpus: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Enriched %d pages into %d sections\n", content.Len(), len(corpus))
	return nil
}

func crawlProgress(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressVisited:
			deps.Logger.Info("page", "url", event.URL, "depth", event.Depth, "chunks", len(event.Chunks))
			for i, chunk := range event.Chunks {
				deps.Logger.Debug("chunk", "url", event.URL, "index", i, "text", chunk)
			}
		case crawl.ProgressFailed:
			deps.Logger.Warn("page failed", "url", event.URL, "depth", event.Depth, "err", event.Error)
		}
	}
}

func enrichProgress(deps *Dependencies) enrich.ProgressFunc {
	return func(event enrich.ProgressEvent) {
		deps.Logger.Info("enriched",
			"url", event.URL,
			"progress", fmt.Sprintf("%d/%d", event.Index, event.Total),
			"chunks", event.Chunks,
			"tokens", event.Tokens,
			"sections", event.Sections,
		)
	}
}
