package helpdoc

import (
	"bytes"
	"context"
	"encoding/json"
)

// ContentMap maps page URLs to their chunk lists, keeping insertion order.
// The zero value is ready to use.
type ContentMap struct {
	urls   []string
	chunks map[string][]string
}

// NewContentMap returns an empty ContentMap.
func NewContentMap() *ContentMap {
	return &ContentMap{}
}

// Set stores chunks under url. A URL keeps its original position when
// set again.
func (m *ContentMap) Set(url string, chunks []string) {
	if m.chunks == nil {
		m.chunks = make(map[string][]string)
	}
	if _, ok := m.chunks[url]; !ok {
		m.urls = append(m.urls, url)
	}
	if chunks == nil {
		chunks = []string{}
	}
	m.chunks[url] = chunks
}

// Get returns the chunks stored under url.
func (m *ContentMap) Get(url string) ([]string, bool) {
	chunks, ok := m.chunks[url]
	return chunks, ok
}

// URLs returns the stored URLs in insertion order.
func (m *ContentMap) URLs() []string {
	return append([]string(nil), m.urls...)
}

// Len returns the number of stored URLs.
func (m *ContentMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.urls)
}

// TotalChunks returns the number of chunks across all URLs.
func (m *ContentMap) TotalChunks() int {
	if m == nil {
		return 0
	}
	var n int
	for _, chunks := range m.chunks {
		n += len(chunks)
	}
	return n
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *ContentMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, url := range m.urls {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(url)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.chunks[url])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping keys in document order.
func (m *ContentMap) UnmarshalJSON(data []byte) error {
	*m = ContentMap{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "content must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		url, ok := tok.(string)
		if !ok {
			return Errorf(EINVALID, "content key must be a string")
		}
		var chunks []string
		if err := dec.Decode(&chunks); err != nil {
			return Errorf(EINVALID, "chunks for %q: %v", url, err)
		}
		m.Set(url, chunks)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// ContentStore persists the URL to chunk-list mapping.
// Each save replaces any previously saved mapping.
type ContentStore interface {
	SaveContent(ctx context.Context, content *ContentMap) error

	// LoadContent returns ENOTFOUND if nothing has been saved.
	LoadContent(ctx context.Context) (*ContentMap, error)
}

// CorpusStore persists the final enriched corpus.
// Each save replaces any previously saved corpus.
type CorpusStore interface {
	SaveCorpus(ctx context.Context, sections []string) error

	// LoadCorpus returns ENOTFOUND if nothing has been saved.
	LoadCorpus(ctx context.Context) ([]string, error)
}
