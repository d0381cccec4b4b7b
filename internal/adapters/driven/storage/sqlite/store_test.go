package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "babix-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}
	return store, cleanup
}

func TestNewStore_CreatesDatabaseAndMigrates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, DatabaseFile, filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	require.NoError(t, err)

	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.SourceStore().Register(ctx, domain.Source{ID: "s1", Origin: "/a.pdf", Status: domain.SourceStatusFetched})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	src, err := store.SourceStore().GetByOrigin(ctx, "/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "s1", src.ID)
}

// ==================== SourceStore Tests ====================

func TestSourceStore_RegisterUpsertsByOrigin(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sources := store.SourceStore()

	id, err := sources.Register(ctx, domain.Source{
		ID: "s1", Origin: "https://detran.example/mbft", Title: "MBFT",
		Status: domain.SourceStatusFetched, HTTPStatus: 200, ContentHash: "h1",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	// A second registration of the same origin keeps the ID and the title
	// when the new title is empty.
	id, err = sources.Register(ctx, domain.Source{
		ID: "other", Origin: "https://detran.example/mbft",
		Status: domain.SourceStatusError, HTTPStatus: 503, LastError: "unavailable",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	src, err := sources.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "MBFT", src.Title)
	assert.Equal(t, domain.SourceStatusError, src.Status)
	assert.Equal(t, 503, src.HTTPStatus)
	assert.Equal(t, "", src.ContentHash)
	assert.Equal(t, "unavailable", src.LastError)
	assert.False(t, src.CreatedAt.IsZero())
	assert.False(t, src.FetchedAt.IsZero())
}

func TestSourceStore_RegisterRequiresIdentity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SourceStore().Register(context.Background(), domain.Source{Origin: "/x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourceStore_HasChanged(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sources := store.SourceStore()

	changed, err := sources.HasChanged(ctx, "/a.pdf", "h1")
	require.NoError(t, err)
	assert.True(t, changed, "unknown origin")

	_, err = sources.Register(ctx, domain.Source{ID: "a", Origin: "/a.pdf", ContentHash: "h1", Status: domain.SourceStatusFetched})
	require.NoError(t, err)

	changed, err = sources.HasChanged(ctx, "/a.pdf", "h1")
	require.NoError(t, err)
	assert.False(t, changed, "same hash")

	changed, err = sources.HasChanged(ctx, "/a.pdf", "h2")
	require.NoError(t, err)
	assert.True(t, changed, "different hash")

	_, err = sources.Register(ctx, domain.Source{ID: "a", Origin: "/a.pdf", Status: domain.SourceStatusError, LastError: "boom"})
	require.NoError(t, err)

	changed, err = sources.HasChanged(ctx, "/a.pdf", "h1")
	require.NoError(t, err)
	assert.True(t, changed, "failed attempt clears the hash")
}

func TestSourceStore_Touch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sources := store.SourceStore()

	assert.ErrorIs(t, sources.Touch(ctx, "/missing"), domain.ErrNotFound)

	_, err := sources.Register(ctx, domain.Source{ID: "a", Origin: "/a.pdf", ContentHash: "h"})
	require.NoError(t, err)
	before, err := sources.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, sources.Touch(ctx, "/a.pdf"))

	after, err := sources.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, after.FetchedAt.Before(before.FetchedAt))
	assert.Equal(t, "h", after.ContentHash)
}

func TestSourceStore_ListOrderedByOrigin(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	sources := store.SourceStore()

	for _, o := range []string{"/c", "/a", "/b"} {
		_, err := sources.Register(ctx, domain.Source{ID: "id" + o, Origin: o})
		require.NoError(t, err)
	}

	list, err := sources.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "/a", list[0].Origin)
	assert.Equal(t, "/c", list[2].Origin)
	assert.Equal(t, domain.SourceStatusNew, list[0].Status)
}

func TestSourceStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SourceStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.SourceStore().GetByOrigin(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== DocumentStore Tests ====================

func testChunks(docID, sourceID string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID: docID + "-" + string(rune('a'+i)), DocumentID: docID, SourceID: sourceID,
			Position: i, Start: offset, End: offset + len(text), Content: text,
		}
		offset += len(text)
	}
	return chunks
}

func TestDocumentStore_ReplaceDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	doc := &domain.Document{
		ID: "d1", SourceID: "s1", Origin: "/a.pdf", Title: "Manual",
		Content: "um dois três", Metadata: map[string]any{"pages": float64(3)},
	}
	require.NoError(t, docs.ReplaceDocument(ctx, doc, testChunks("d1", "s1", "um ", "dois ", "três")))

	got, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "um dois três", got.Content)
	assert.Equal(t, float64(3), got.Metadata["pages"])

	n, err := docs.CountChunks(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Replacing drops every chunk of the previous version.
	doc2 := &domain.Document{ID: "d1", SourceID: "s1", Origin: "/a.pdf", Content: "novo"}
	require.NoError(t, docs.ReplaceDocument(ctx, doc2, testChunks("d1", "s1", "novo")))

	chunks, err := docs.GetChunks(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "novo", chunks[0].Content)

	chunk, err := docs.GetChunk(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", chunk.SourceID)
	assert.Equal(t, 0, chunk.Start)
	assert.Equal(t, 4, chunk.End)
}

func TestDocumentStore_ReplaceDocumentRejectsInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.DocumentStore().ReplaceDocument(context.Background(), &domain.Document{ID: "d"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_ScanChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	require.NoError(t, docs.ReplaceDocument(ctx, &domain.Document{ID: "db", SourceID: "sb", Content: "x"},
		testChunks("db", "sb", "b0", "b1")))
	require.NoError(t, docs.ReplaceDocument(ctx, &domain.Document{ID: "da", SourceID: "sa", Content: "x"},
		testChunks("da", "sa", "a0", "a1")))

	var seen []string
	require.NoError(t, docs.ScanChunks(ctx, func(c domain.Chunk) bool {
		seen = append(seen, c.Content)
		return true
	}))
	assert.Equal(t, []string{"a0", "a1", "b0", "b1"}, seen)

	seen = nil
	require.NoError(t, docs.ScanChunks(ctx, func(c domain.Chunk) bool {
		seen = append(seen, c.Content)
		return len(seen) < 2
	}))
	assert.Len(t, seen, 2)
}

func TestDocumentStore_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.DocumentStore().GetDocument(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.DocumentStore().GetChunk(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== RecordStore Tests ====================

func testRecord(code, title string) domain.Record {
	rec := domain.Record{Code: code, Title: title, Body: title + " corpo", DocumentID: "d1"}
	rec.SetField(domain.FieldSeverity, "Gravíssima")
	rec.SetField(domain.FieldLegalBasis, "Art. 162")
	return rec
}

func TestRecordStore_ReplaceForSource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	require.NoError(t, records.ReplaceForSource(ctx, "s1", []domain.Record{
		testRecord("596-70", "Dirigir sem CNH"),
		testRecord("501-00", "Dirigir sem possuir"),
	}))

	rec, err := records.Get(ctx, "596-70")
	require.NoError(t, err)
	assert.Equal(t, "Dirigir sem CNH", rec.Title)
	assert.Equal(t, "Gravíssima", rec.Severity)
	assert.Equal(t, "Art. 162", rec.LegalBasis)
	assert.Equal(t, "s1", rec.SourceID)

	// Re-ingesting the source drops records that disappeared.
	require.NoError(t, records.ReplaceForSource(ctx, "s1", []domain.Record{testRecord("596-70", "Novo título")}))

	_, err = records.Get(ctx, "501-00")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := records.CountForSource(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordStore_LastWriteWins(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	require.NoError(t, records.ReplaceForSource(ctx, "s1", []domain.Record{
		testRecord("596-70", "primeira"),
		testRecord("596-70", "segunda"),
	}))
	rec, err := records.Get(ctx, "596-70")
	require.NoError(t, err)
	assert.Equal(t, "segunda", rec.Title)

	// Another source writing the same code takes ownership.
	require.NoError(t, records.ReplaceForSource(ctx, "s2", []domain.Record{testRecord("596-70", "terceira")}))
	rec, err = records.Get(ctx, "596-70")
	require.NoError(t, err)
	assert.Equal(t, "terceira", rec.Title)
	assert.Equal(t, "s2", rec.SourceID)

	list, err := records.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
