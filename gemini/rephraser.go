// Package gemini implements helpdoc interfaces on Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/helpdoc"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

var _ helpdoc.Rephraser = (*Rephraser)(nil)

// Rephraser implements helpdoc.Rephraser using Google Gemini.
type Rephraser struct {
	client     *genai.Client
	model      string
	candidates int
}

// NewRephraser creates a new Rephraser. An empty model selects
// DefaultModel; a non-positive candidate count requests one candidate.
func NewRephraser(client *genai.Client, model string, candidates int) *Rephraser {
	if model == "" {
		model = DefaultModel
	}
	if candidates < 1 {
		candidates = 1
	}
	return &Rephraser{client: client, model: model, candidates: candidates}
}

// Rephrase sends the chunks followed by the instruction in one request and
// returns the text of every candidate.
func (r *Rephraser) Rephrase(ctx context.Context, chunks []string, instruction string) ([]string, error) {
	if len(chunks) == 0 {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "at least one chunk required")
	}
	if instruction == "" {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "instruction required")
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		BuildContents(chunks, instruction),
		BuildConfig(r.candidates),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, helpdoc.Errorf(helpdoc.EINTERNAL, "gemini returned nil result")
	}

	return CandidateTexts(result), nil
}

// BuildContents returns one user message per chunk followed by the
// instruction message.
func BuildContents(chunks []string, instruction string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(chunks)+1)
	for _, chunk := range chunks {
		contents = append(contents, genai.NewContentFromText(chunk, genai.RoleUser))
	}
	return append(contents, genai.NewContentFromText(instruction, genai.RoleUser))
}

// BuildConfig returns the GenerateContentConfig for rephrasing requests.
func BuildConfig(candidates int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		CandidateCount: int32(candidates),
	}
}

// CandidateTexts returns the concatenated non-thought text of each
// candidate, skipping candidates without content.
func CandidateTexts(result *genai.GenerateContentResponse) []string {
	texts := make([]string, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var text string
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text += part.Text
		}
		texts = append(texts, text)
	}
	return texts
}
