package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/crawl"
	"github.com/fwojciec/helpdoc/enrich"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	StartURL string
	Crawler  *crawl.Crawler
	Enricher *enrich.Enricher
	Content  helpdoc.ContentStore
	Corpus   helpdoc.CorpusStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Run    RunCmd    `cmd:"" default:"withargs" help:"Crawl, enrich and save both results (default)"`
	Crawl  CrawlCmd  `cmd:"" help:"Crawl the help center and save its content"`
	Enrich EnrichCmd `cmd:"" help:"Rephrase saved content into the enriched corpus"`
}

// Globals are flags shared by every command.
type Globals struct {
	StartURL       string        `name:"start-url" default:"https://www.notion.so/help" env:"HELPDOC_START_URL" help:"Page the crawl starts from"`
	BaseURL        string        `name:"base-url" default:"https://www.notion.so" env:"HELPDOC_BASE_URL" help:"Prefix for site-relative links"`
	Required       string        `name:"required" default:"help" env:"HELPDOC_REQUIRED" help:"Substring every followed link must contain"`
	Exclude        []string      `name:"exclude" default:"academy" env:"HELPDOC_EXCLUDE" help:"Substrings that disqualify a link (repeatable)"`
	MaxDepth       int           `name:"max-depth" default:"1" env:"HELPDOC_MAX_DEPTH" help:"Link hops followed from the start page"`
	MaxChunkLength int           `name:"max-chunk-length" default:"750" env:"HELPDOC_MAX_CHUNK_LENGTH" help:"Maximum characters per chunk"`
	Browser        bool          `name:"browser" env:"HELPDOC_BROWSER" help:"Render pages in headless Chrome"`
	Timeout        time.Duration `name:"timeout" default:"10s" env:"HELPDOC_TIMEOUT" help:"Per-page fetch timeout"`
	FailFast       bool          `name:"fail-fast" help:"Stop the crawl at the first page error"`

	Store       string `name:"store" enum:"json,sqlite" default:"json" env:"HELPDOC_STORE" help:"Storage backend (json, sqlite)"`
	ContentFile string `name:"content-file" default:"notion_content.json" env:"HELPDOC_CONTENT_FILE" help:"Crawled content file (json store)"`
	CorpusFile  string `name:"corpus-file" default:"enriched_content.json" env:"HELPDOC_CORPUS_FILE" help:"Enriched corpus file (json store)"`
	DB          string `name:"db" default:"helpdoc.db" env:"HELPDOC_DB" help:"Database path (sqlite store)"`

	Provider      string `name:"provider" enum:"openai,gemini" default:"openai" env:"HELPDOC_PROVIDER" help:"Language model provider (openai, gemini)"`
	Model         string `name:"model" env:"HELPDOC_MODEL" help:"Model name (provider default if empty)"`
	Candidates    int    `name:"candidates" default:"1" env:"HELPDOC_CANDIDATES" help:"Completions requested per page"`
	Instruction   string `name:"instruction" env:"HELPDOC_INSTRUCTION" help:"Rephrasing instruction (built-in if empty)"`
	OpenAIAPIKey  string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIBaseURL string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible endpoint"`
	GeminiAPIKey  string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`

	Verbose bool `short:"v" help:"Log every fetch and request"`
}

// linkPolicy returns the link admission rules configured by the flags.
func (g *Globals) linkPolicy() helpdoc.LinkPolicy {
	return helpdoc.LinkPolicy{
		BaseURL:  g.BaseURL,
		Required: g.Required,
		Excluded: g.Exclude,
	}
}

// RunCmd is the default command running both pipeline halves.
type RunCmd struct{}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct{}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct{}
