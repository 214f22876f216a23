package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fwojciec/helpdoc"
	"github.com/google/uuid"
)

const (
	contentSnapshot = "content"
	corpusSnapshot  = "corpus"
)

// Compile-time interface verification.
var _ helpdoc.ContentStore = (*ContentStore)(nil)

// ContentStore implements helpdoc.ContentStore using SQLite.
// Each page is one row; its chunks are stored as a JSON array.
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore.
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// SaveContent replaces all stored pages with content. Pages whose chunks
// hash the same as the stored row keep their row and saved_at; only the
// position is refreshed. Pages missing from content are deleted.
func (s *ContentStore) SaveContent(ctx context.Context, content *helpdoc.ContentMap) error {
	if content == nil {
		content = helpdoc.NewContentMap()
	}
	return s.db.replace(ctx, contentSnapshot, func(tx *sql.Tx) error {
		stored, err := storedHashes(ctx, tx, "SELECT url, content_hash FROM pages")
		if err != nil {
			return err
		}

		savedAt := now()
		keep := make(map[string]struct{}, content.Len())
		for i, url := range content.URLs() {
			keep[url] = struct{}{}
			chunks, _ := content.Get(url)
			if chunks == nil {
				chunks = []string{}
			}
			encoded, err := json.Marshal(chunks)
			if err != nil {
				return fmt.Errorf("encoding chunks for %s: %w", url, err)
			}
			hash := hashContent(string(encoded))

			prev, ok := stored[url]
			switch {
			case ok && prev == hash:
				_, err = tx.ExecContext(ctx, "UPDATE pages SET position = ? WHERE url = ?", i, url)
			case ok:
				_, err = tx.ExecContext(ctx, `
					UPDATE pages SET position = ?, chunks = ?, content_hash = ?, saved_at = ?
					WHERE url = ?
				`, i, string(encoded), hash, savedAt, url)
			default:
				_, err = tx.ExecContext(ctx, `
					INSERT INTO pages (id, url, position, chunks, content_hash, saved_at)
					VALUES (?, ?, ?, ?, ?, ?)
				`, uuid.New().String(), url, i, string(encoded), hash, savedAt)
			}
			if err != nil {
				return err
			}
		}

		for url := range stored {
			if _, ok := keep[url]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadContent returns the saved pages in their saved order.
func (s *ContentStore) LoadContent(ctx context.Context) (*helpdoc.ContentMap, error) {
	ok, err := s.db.hasSnapshot(ctx, contentSnapshot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "no crawled content saved")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT url, chunks FROM pages ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	content := helpdoc.NewContentMap()
	for rows.Next() {
		var url, encoded string
		if err := rows.Scan(&url, &encoded); err != nil {
			return nil, err
		}
		var chunks []string
		if err := json.Unmarshal([]byte(encoded), &chunks); err != nil {
			return nil, helpdoc.Errorf(helpdoc.EINVALID, "chunks for %s: %v", url, err)
		}
		content.Set(url, chunks)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return content, nil
}

// Compile-time interface verification.
var _ helpdoc.CorpusStore = (*CorpusStore)(nil)

// CorpusStore implements helpdoc.CorpusStore using SQLite.
type CorpusStore struct {
	db *DB
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db}
}

// SaveCorpus replaces the stored corpus with sections. A section whose
// hash matches the row at the same position is left as is.
func (s *CorpusStore) SaveCorpus(ctx context.Context, sections []string) error {
	return s.db.replace(ctx, corpusSnapshot, func(tx *sql.Tx) error {
		stored, err := storedHashes(ctx, tx, "SELECT CAST(position AS TEXT), content_hash FROM corpus")
		if err != nil {
			return err
		}

		savedAt := now()
		for i, section := range sections {
			hash := hashContent(section)
			prev, ok := stored[strconv.Itoa(i)]
			switch {
			case ok && prev == hash:
				continue
			case ok:
				_, err = tx.ExecContext(ctx, `
					UPDATE corpus SET section = ?, content_hash = ?, saved_at = ?
					WHERE position = ?
				`, section, hash, savedAt, i)
			default:
				_, err = tx.ExecContext(ctx, `
					INSERT INTO corpus (id, position, section, content_hash, saved_at)
					VALUES (?, ?, ?, ?, ?)
				`, uuid.New().String(), i, section, hash, savedAt)
			}
			if err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM corpus WHERE position >= ?", len(sections))
		return err
	})
}

// storedHashes returns the content hash of every row selected by query,
// keyed by the first column.
func storedHashes(ctx context.Context, tx *sql.Tx, query string) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var key, hash string
		if err := rows.Scan(&key, &hash); err != nil {
			return nil, err
		}
		hashes[key] = hash
	}
	return hashes, rows.Err()
}

// LoadCorpus returns the saved sections in order.
func (s *CorpusStore) LoadCorpus(ctx context.Context) ([]string, error) {
	ok, err := s.db.hasSnapshot(ctx, corpusSnapshot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "no corpus saved")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT section FROM corpus ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []string{}
	for rows.Next() {
		var section string
		if err := rows.Scan(&section); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}
