// Package openai implements helpdoc.Rephraser on the OpenAI chat completion API.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/helpdoc"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4o

var _ helpdoc.Rephraser = (*Rephraser)(nil)

// Rephraser implements helpdoc.Rephraser using OpenAI chat completions.
type Rephraser struct {
	client     *openai.Client
	model      string
	candidates int
}

// Option configures a Rephraser.
type Option func(*config)

type config struct {
	baseURL    string
	model      string
	candidates int
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithCandidates sets how many completions are requested per page.
func WithCandidates(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.candidates = n
		}
	}
}

// NewRephraser creates a Rephraser authenticating with apiKey.
func NewRephraser(apiKey string, opts ...Option) (*Rephraser, error) {
	if apiKey == "" {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "OpenAI API key required")
	}

	cfg := config{model: DefaultModel, candidates: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientConfig.BaseURL = cfg.baseURL
	}

	return &Rephraser{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.model,
		candidates: cfg.candidates,
	}, nil
}

// Rephrase sends one user message per chunk followed by the instruction and
// returns the content of every choice.
func (r *Rephraser) Rephrase(ctx context.Context, chunks []string, instruction string) ([]string, error) {
	if len(chunks) == 0 {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "at least one chunk required")
	}
	if instruction == "" {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "instruction required")
	}

	resp, err := r.client.CreateChatCompletion(ctx, BuildRequest(r.model, r.candidates, chunks, instruction))
	if err != nil {
		return nil, translateError(err)
	}

	texts := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		texts = append(texts, choice.Message.Content)
	}
	return texts, nil
}

// BuildRequest returns the chat completion request for one page.
func BuildRequest(model string, candidates int, chunks []string, instruction string) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(chunks)+1)
	for _, chunk := range chunks {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: chunk,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: instruction,
	})

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if candidates > 1 {
		req.N = candidates
	}
	return req
}

// translateError maps client-side HTTP failures to application error codes.
func translateError(err error) error {
	var status int
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return err
	}

	switch status {
	case http.StatusUnauthorized, http.StatusBadRequest:
		return helpdoc.Errorf(helpdoc.EINVALID, "openai: %v", err)
	case http.StatusNotFound:
		return helpdoc.Errorf(helpdoc.ENOTFOUND, "openai: %v", err)
	}
	return err
}
