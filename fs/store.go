// Package fs provides JSON file storage for crawled content and the
// enriched corpus.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/helpdoc"
)

// Default file names in the working directory.
const (
	DefaultContentFile = "notion_content.json"
	DefaultCorpusFile  = "enriched_content.json"
)

// Ensure ContentFile implements helpdoc.ContentStore at compile time.
var _ helpdoc.ContentStore = (*ContentFile)(nil)

// ContentFile stores the URL to chunks mapping as a single JSON object.
type ContentFile struct {
	path string
}

// NewContentFile creates a ContentFile at path.
func NewContentFile(path string) *ContentFile {
	return &ContentFile{path: path}
}

// SaveContent overwrites the file with content.
func (f *ContentFile) SaveContent(_ context.Context, content *helpdoc.ContentMap) error {
	if content == nil {
		content = helpdoc.NewContentMap()
	}
	return writeJSON(f.path, content)
}

// LoadContent reads the mapping back in its saved order.
func (f *ContentFile) LoadContent(_ context.Context) (*helpdoc.ContentMap, error) {
	content := helpdoc.NewContentMap()
	if err := readJSON(f.path, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Ensure CorpusFile implements helpdoc.CorpusStore at compile time.
var _ helpdoc.CorpusStore = (*CorpusFile)(nil)

// CorpusFile stores the enriched corpus as a JSON array of strings.
type CorpusFile struct {
	path string
}

// NewCorpusFile creates a CorpusFile at path.
func NewCorpusFile(path string) *CorpusFile {
	return &CorpusFile{path: path}
}

// SaveCorpus overwrites the file with sections.
func (f *CorpusFile) SaveCorpus(_ context.Context, sections []string) error {
	if sections == nil {
		sections = []string{}
	}
	return writeJSON(f.path, sections)
}

// LoadCorpus reads the saved sections.
func (f *CorpusFile) LoadCorpus(_ context.Context) ([]string, error) {
	var sections []string
	if err := readJSON(f.path, &sections); err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []string{}
	}
	return sections, nil
}

// writeJSON encodes v with 4-space indentation into a temporary file next
// to path and renames it over path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return helpdoc.Errorf(helpdoc.ENOTFOUND, "%s does not exist", path)
	} else if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return helpdoc.Errorf(helpdoc.EINVALID, "decoding %s: %v", path, err)
	}
	return nil
}
