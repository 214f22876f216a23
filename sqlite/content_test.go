package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestContentStore(t *testing.T) {
	t.Parallel()

	t.Run("round-trips pages in crawl order", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewContentStore(openDB(t))
		content := helpdoc.NewContentMap()
		content.Set("https://www.notion.so/help/zeta", []string{"z1", "z2"})
		content.Set("https://www.notion.so/help/alpha", []string{"a1"})
		content.Set("https://www.notion.so/help/empty", nil)

		require.NoError(t, store.SaveContent(context.Background(), content))
		loaded, err := store.LoadContent(context.Background())

		require.NoError(t, err)
		assert.Equal(t, content.URLs(), loaded.URLs())
		chunks, _ := loaded.Get("https://www.notion.so/help/zeta")
		assert.Equal(t, []string{"z1", "z2"}, chunks)
		chunks, ok := loaded.Get("https://www.notion.so/help/empty")
		require.True(t, ok)
		assert.Empty(t, chunks)
	})

	t.Run("replaces the previous snapshot", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewContentStore(openDB(t))
		first := helpdoc.NewContentMap()
		first.Set("old", []string{"stale"})
		require.NoError(t, store.SaveContent(context.Background(), first))

		second := helpdoc.NewContentMap()
		second.Set("new", []string{"fresh"})
		require.NoError(t, store.SaveContent(context.Background(), second))

		loaded, err := store.LoadContent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, loaded.URLs())
	})

	t.Run("distinguishes an empty save from no save", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewContentStore(openDB(t))

		_, err := store.LoadContent(context.Background())
		assert.Equal(t, helpdoc.ENOTFOUND, helpdoc.ErrorCode(err))

		require.NoError(t, store.SaveContent(context.Background(), nil))
		loaded, err := store.LoadContent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})

	t.Run("stores a content hash per page", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		store := sqlite.NewContentStore(db)
		content := helpdoc.NewContentMap()
		content.Set("a", []string{"same"})
		content.Set("b", []string{"same"})
		content.Set("c", []string{"other"})
		require.NoError(t, store.SaveContent(context.Background(), content))

		var distinct int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(DISTINCT content_hash) FROM pages").Scan(&distinct)
		require.NoError(t, err)
		assert.Equal(t, 2, distinct)
	})

	t.Run("rewrites only pages whose chunks changed", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		store := sqlite.NewContentStore(db)
		first := helpdoc.NewContentMap()
		first.Set("same", []string{"kept"})
		first.Set("edited", []string{"before"})
		first.Set("dropped", []string{"gone"})
		require.NoError(t, store.SaveContent(ctx, first))

		_, err := db.ExecContext(ctx, "UPDATE pages SET saved_at = '2000-01-01T00:00:00Z'")
		require.NoError(t, err)
		var sameID string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM pages WHERE url = 'same'").Scan(&sameID))

		second := helpdoc.NewContentMap()
		second.Set("edited", []string{"after"})
		second.Set("same", []string{"kept"})
		require.NoError(t, store.SaveContent(ctx, second))

		var id, savedAt string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT id, saved_at FROM pages WHERE url = 'same'").Scan(&id, &savedAt))
		assert.Equal(t, sameID, id)
		assert.Equal(t, "2000-01-01T00:00:00Z", savedAt)

		require.NoError(t, db.QueryRowContext(ctx, "SELECT saved_at FROM pages WHERE url = 'edited'").Scan(&savedAt))
		assert.NotEqual(t, "2000-01-01T00:00:00Z", savedAt)

		loaded, err := store.LoadContent(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"edited", "same"}, loaded.URLs())
		chunks, _ := loaded.Get("edited")
		assert.Equal(t, []string{"after"}, chunks)
	})

	t.Run("hashes chunk boundaries", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewContentStore(openDB(t))
		first := helpdoc.NewContentMap()
		first.Set("page", []string{"a", "b"})
		require.NoError(t, store.SaveContent(ctx, first))

		second := helpdoc.NewContentMap()
		second.Set("page", []string{"a\nb"})
		require.NoError(t, store.SaveContent(ctx, second))

		loaded, err := store.LoadContent(ctx)
		require.NoError(t, err)
		chunks, _ := loaded.Get("page")
		assert.Equal(t, []string{"a\nb"}, chunks)
	})
}

func TestCorpusStore(t *testing.T) {
	t.Parallel()

	t.Run("round-trips sections in order", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCorpusStore(openDB(t))
		require.NoError(t, store.SaveCorpus(context.Background(), []string{"B", "A", "C"}))

		sections, err := store.LoadCorpus(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A", "C"}, sections)
	})

	t.Run("replaces the previous corpus", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCorpusStore(openDB(t))
		require.NoError(t, store.SaveCorpus(context.Background(), []string{"1", "2", "3"}))
		require.NoError(t, store.SaveCorpus(context.Background(), []string{"x"}))

		sections, err := store.LoadCorpus(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, sections)
	})

	t.Run("keeps unchanged sections and trims the tail", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		store := sqlite.NewCorpusStore(db)
		require.NoError(t, store.SaveCorpus(ctx, []string{"A", "B", "C"}))
		_, err := db.ExecContext(ctx, "UPDATE corpus SET saved_at = '2000-01-01T00:00:00Z'")
		require.NoError(t, err)

		require.NoError(t, store.SaveCorpus(ctx, []string{"A", "X"}))

		var savedAt string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT saved_at FROM corpus WHERE position = 0").Scan(&savedAt))
		assert.Equal(t, "2000-01-01T00:00:00Z", savedAt)
		require.NoError(t, db.QueryRowContext(ctx, "SELECT saved_at FROM corpus WHERE position = 1").Scan(&savedAt))
		assert.NotEqual(t, "2000-01-01T00:00:00Z", savedAt)

		sections, err := store.LoadCorpus(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "X"}, sections)
	})

	t.Run("returns not found before the first save", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewCorpusStore(openDB(t)).LoadCorpus(context.Background())

		require.Error(t, err)
		assert.Equal(t, helpdoc.ENOTFOUND, helpdoc.ErrorCode(err))
	})

	t.Run("keeps content and corpus snapshots independent", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		require.NoError(t, sqlite.NewCorpusStore(db).SaveCorpus(context.Background(), []string{"x"}))

		_, err := sqlite.NewContentStore(db).LoadContent(context.Background())

		assert.Equal(t, helpdoc.ENOTFOUND, helpdoc.ErrorCode(err))
	})
}
