package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var sourceCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&sourceCount)
		require.NoError(t, err)

		var docCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&docCount)
		require.NoError(t, err)
	})

	t.Run("deleting a source cascades to its documents", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		sources := sqlite.NewSourceService(db)
		docs := sqlite.NewDocumentService(db)

		source := &rageval.Source{Kind: rageval.SourceSpace, Token: "sp1"}
		require.NoError(t, sources.CreateSource(ctx, source))
		require.NoError(t, docs.CreateDocument(ctx, &rageval.StoredDocument{
			SourceID: source.ID,
			Document: rageval.Document{Metadata: rageval.Metadata{rageval.MetaDocumentID: "doxA"}},
		}))

		require.NoError(t, sources.DeleteSource(ctx, source.ID))

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n))
		require.Zero(t, n)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("enables foreign keys", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var enabled int
		err := db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&enabled)
		require.NoError(t, err)
		require.Equal(t, 1, enabled)
	})

	t.Run("migrations run once across reopen", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")
		ctx := context.Background()

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		first, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		require.Positive(t, first)
		require.NoError(t, sqlite.NewSourceService(db).CreateSource(ctx, &rageval.Source{Kind: rageval.SourceDoc, Token: "doxA"}))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()
		second, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		require.Equal(t, first, second)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&n))
		require.Equal(t, 1, n)
	})

	t.Run("refuses a schema newer than the binary", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")
		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(), "PRAGMA user_version = 999")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(dbPath).Open()
		require.Error(t, err)
		require.Contains(t, err.Error(), "newer than this binary")
	})

	t.Run("records timestamps from Now", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
		db.Now = func() time.Time { return fixed }

		ctx := context.Background()
		sources := sqlite.NewSourceService(db)
		source := &rageval.Source{Kind: rageval.SourceWiki, Token: "wikA"}
		require.NoError(t, sources.CreateSource(ctx, source))

		got, err := sources.FindSourceByID(ctx, source.ID)
		require.NoError(t, err)
		require.True(t, got.CreatedAt.Equal(fixed))
		require.Equal(t, time.UTC, got.CreatedAt.Location())
	})
}
