package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/crawl"
	"github.com/fwojciec/helpdoc/enrich"
	"github.com/fwojciec/helpdoc/fs"
	"github.com/fwojciec/helpdoc/gemini"
	"github.com/fwojciec/helpdoc/goquery"
	hdhttp "github.com/fwojciec/helpdoc/http"
	"github.com/fwojciec/helpdoc/openai"
	"github.com/fwojciec/helpdoc/rod"
	hdslog "github.com/fwojciec/helpdoc/slog"
	"github.com/fwojciec/helpdoc/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if helpdoc.ErrorCode(err) == helpdoc.EINTERNAL {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", helpdoc.ErrorMessage(err))
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened only for the sqlite store.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are built from flags.
	Fetcher   helpdoc.Fetcher
	Rephraser helpdoc.Rephraser
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("helpdoc"),
		kong.Description("Crawl a help center and rephrase its content into a clean corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	g := &cli.Globals
	cmd := kongCtx.Command()

	deps.Logger = newLogger(stderr, g.Verbose)
	deps.StartURL = g.StartURL

	if err := m.openStores(deps, g); err != nil {
		return err
	}
	defer m.Close()

	if cmd == "run" || cmd == "crawl" {
		fetcher, err := m.fetcher(g)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Fetcher:        hdslog.NewLoggingFetcher(fetcher, deps.Logger),
			Extractor:      goquery.NewExtractor(),
			Links:          goquery.NewLinkSelector(g.linkPolicy()),
			MaxDepth:       g.MaxDepth,
			MaxChunkLength: g.MaxChunkLength,
			FailFast:       g.FailFast,
		}
	}

	if cmd == "run" || cmd == "enrich" {
		rephraser, err := m.rephraser(ctx, g, stderr)
		if err != nil {
			return err
		}
		deps.Enricher = &enrich.Enricher{
			Rephraser:    hdslog.NewLoggingRephraser(rephraser, deps.Logger),
			Instruction:  g.Instruction,
			TokenCounter: tokenCounter(g, deps.Logger),
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a structured logger writing through a charmbracelet/log
// handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return slog.New(handler)
}

func (m *Main) openStores(deps *Dependencies, g *Globals) error {
	switch g.Store {
	case "sqlite":
		m.DB = sqlite.NewDB(g.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set HELPDOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", g.DB, err)
		}
		deps.Content = sqlite.NewContentStore(m.DB)
		deps.Corpus = sqlite.NewCorpusStore(m.DB)
	default:
		deps.Content = fs.NewContentFile(g.ContentFile)
		deps.Corpus = fs.NewCorpusFile(g.CorpusFile)
	}

	deps.Content = hdslog.NewLoggingContentStore(deps.Content, deps.Logger)
	deps.Corpus = hdslog.NewLoggingCorpusStore(deps.Corpus, deps.Logger)
	return nil
}

func (m *Main) fetcher(g *Globals) (helpdoc.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if !g.Browser {
		return hdhttp.NewFetcher(hdhttp.WithTimeout(g.Timeout)), nil
	}
	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(g.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
	}
	return fetcher, nil
}

func (m *Main) rephraser(ctx context.Context, g *Globals, stderr io.Writer) (helpdoc.Rephraser, error) {
	if m.Rephraser != nil {
		return m.Rephraser, nil
	}

	switch g.Provider {
	case "gemini":
		if g.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return nil, helpdoc.Errorf(helpdoc.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewRephraser(client, g.Model, g.Candidates), nil
	default:
		if g.OpenAIAPIKey == "" {
			fmt.Fprintln(stderr, "Hint: Set OPENAI_API_KEY or pass --openai-api-key")
			return nil, helpdoc.Errorf(helpdoc.EINVALID, "OPENAI_API_KEY not set")
		}
		return openai.NewRephraser(g.OpenAIAPIKey,
			openai.WithBaseURL(g.OpenAIBaseURL),
			openai.WithModel(g.Model),
			openai.WithCandidates(g.Candidates),
		)
	}
}

// tokenizerModel is used for prompt size estimates. The local tokenizer
// does not know every hosted model name.
const tokenizerModel = "gemini-2.5-flash"

// tokenCounter returns a local token counter for the gemini provider.
// Token estimates are informational, so a tokenizer that fails to load
// only disables them.
func tokenCounter(g *Globals, logger *slog.Logger) helpdoc.TokenCounter {
	if g.Provider != "gemini" {
		return nil
	}
	tc, err := gemini.NewTokenCounter(tokenizerModel)
	if err != nil {
		logger.Warn("token counting disabled", "err", err)
		return nil
	}
	return tc
}
